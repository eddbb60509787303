package notification

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"probe-inventory-backend/internal/model"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender sends notifications through the webpush library.
type WebPushSender struct{}

func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// ProbeSource resolves a serial number to its inventory record.
type ProbeSource interface {
	Get(serial string) (model.Probe, error)
}

// duePayload is the JSON body pushed to subscribed browsers.
type duePayload struct {
	Title           string `json:"title"`
	SerialNumber    string `json:"serial_number"`
	ProbeType       string `json:"probe_type"`
	NextCalibration string `json:"next_calibration"`
}

// WorkerPool fans calibration-due notifications out to subscribers.
// Jobs are probe serial numbers.
type WorkerPool struct {
	size    int
	jobs    chan string
	db      *gorm.DB
	probes  ProbeSource
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a worker pool over the subscription table.
func NewWorkerPool(size int, db *gorm.DB, probes ProbeSource, options *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan string, size),
		db:      db,
		probes:  probes,
		webpush: options,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Reminder worker %d started", id)
	for {
		select {
		case serial := <-wp.jobs:
			wp.notifyForProbe(ctx, serial)
		case <-ctx.Done():
			log.Printf("Reminder worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a calibration-due notification for a probe.
func (wp *WorkerPool) Dispatch(serial string) {
	wp.jobs <- serial
}

// notifyForProbe sends the due notice to every subscription covering
// the probe's type. Failed endpoints are dropped on 404/410, matching
// push-service expiry semantics.
func (wp *WorkerPool) notifyForProbe(ctx context.Context, serial string) {
	probe, err := wp.probes.Get(serial)
	if err != nil {
		log.Printf("reminder for %s skipped: %v", serial, err)
		return
	}

	var subscriptions []model.PushSubscription
	if err := wp.db.WithContext(ctx).Find(&subscriptions).Error; err != nil {
		log.Printf("Error fetching subscriptions for probe %s: %v", serial, err)
		return
	}

	payload, err := json.Marshal(duePayload{
		Title:           "Probe calibration due",
		SerialNumber:    probe.SerialNumber,
		ProbeType:       string(probe.Type),
		NextCalibration: probe.NextCalibration,
	})
	if err != nil {
		log.Printf("Error marshalling reminder payload for %s: %v", serial, err)
		return
	}

	for _, sub := range subscriptions {
		if !sub.WantsType(probe.Type) {
			continue
		}
		resp, err := wp.sender.Send(payload, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys:     webpush.Keys{P256dh: sub.P256DH, Auth: sub.Auth},
		}, wp.webpush)
		if err != nil {
			log.Printf("Error sending reminder to %s: %v", sub.Endpoint, err)
			continue
		}
		if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
			log.Printf("Subscription %s expired, deleting", sub.Endpoint)
			if err := wp.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: sub.Endpoint}).Error; err != nil {
				log.Printf("Error deleting expired subscription: %v", err)
			}
		}
		resp.Body.Close()
	}
}
