package notification

import (
	"context"
	"log"
	"time"

	"probe-inventory-backend/internal/model"
)

// Inventory is the read-side view the reminder scan needs.
type Inventory interface {
	Probes() []model.Probe
}

// Reminder periodically scans the inventory for calibrated probes whose
// next calibration date has passed and dispatches one notification per
// probe per due date.
type Reminder struct {
	inventory Inventory
	pool      *WorkerPool
	interval  time.Duration
	now       func() time.Time

	// notified maps serial number to the due date already announced,
	// so a probe is not re-announced every cycle.
	notified map[string]string
}

// NewReminder creates the reminder scanner.
func NewReminder(inv Inventory, pool *WorkerPool, interval time.Duration) *Reminder {
	return &Reminder{
		inventory: inv,
		pool:      pool,
		interval:  interval,
		now:       time.Now,
		notified:  make(map[string]string),
	}
}

// Run starts the worker pool and scans until the context is cancelled.
func (r *Reminder) Run(ctx context.Context) {
	log.Println("Starting calibration reminder service...")
	r.pool.Start(ctx)
	r.ScanOnce()

	timer := time.NewTimer(r.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Reminder service shutting down.")
			return
		case <-timer.C:
			r.ScanOnce()
			timer.Reset(r.interval)
		}
	}
}

// ScanOnce dispatches reminders for every probe due as of today.
func (r *Reminder) ScanOnce() {
	today := r.now().Format("2006-01-02")
	for _, p := range r.inventory.Probes() {
		if p.Status != model.StatusCalibrated || p.NextCalibration == "" {
			continue
		}
		if p.NextCalibration > today {
			continue
		}
		if r.notified[p.SerialNumber] == p.NextCalibration {
			continue
		}
		r.notified[p.SerialNumber] = p.NextCalibration
		r.pool.Dispatch(p.SerialNumber)
	}
}
