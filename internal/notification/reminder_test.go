package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"probe-inventory-backend/internal/model"
)

type staticInventory []model.Probe

func (s staticInventory) Probes() []model.Probe { return s }

func newTestReminder(inv Inventory, today string) *Reminder {
	pool := &WorkerPool{jobs: make(chan string, 16)}
	r := NewReminder(inv, pool, time.Hour)
	fixed, err := time.Parse("2006-01-02", today)
	if err != nil {
		panic(err)
	}
	r.now = func() time.Time { return fixed }
	return r
}

func drain(jobs chan string) []string {
	var out []string
	for {
		select {
		case s := <-jobs:
			out = append(out, s)
		default:
			return out
		}
	}
}

func TestScanOnceDispatchesDueProbes(t *testing.T) {
	inv := staticInventory{
		{SerialNumber: "pH_2601_00001", Status: model.StatusCalibrated, NextCalibration: "2024-05-01"},
		{SerialNumber: "pH_2601_00002", Status: model.StatusCalibrated, NextCalibration: "2024-05-06"},
		{SerialNumber: "pH_2601_00003", Status: model.StatusCalibrated, NextCalibration: "2024-06-01"},
		{SerialNumber: "pH_2601_00004", Status: model.StatusInstock},
		{SerialNumber: "pH_2601_00005", Status: model.StatusShipped, NextCalibration: "2024-01-01"},
	}

	r := newTestReminder(inv, "2024-05-06")
	r.ScanOnce()

	dispatched := drain(r.pool.jobs)
	assert.ElementsMatch(t, []string{"pH_2601_00001", "pH_2601_00002"}, dispatched,
		"only calibrated probes due as of today are announced")
}

func TestScanOnceDoesNotReannounce(t *testing.T) {
	inv := staticInventory{
		{SerialNumber: "pH_2601_00001", Status: model.StatusCalibrated, NextCalibration: "2024-05-01"},
	}

	r := newTestReminder(inv, "2024-05-06")
	r.ScanOnce()
	require.Len(t, drain(r.pool.jobs), 1)

	r.ScanOnce()
	assert.Empty(t, drain(r.pool.jobs), "the same due date is announced once")
}
