package model

import (
	"strings"
	"time"
)

// PushSubscription holds a browser push subscription for calibration-due
// reminders. ProbeTypes is a comma-separated list of subscribed probe
// types; empty means all types.
type PushSubscription struct {
	Endpoint   string `gorm:"primaryKey"`
	P256DH     string `gorm:"column:p256dh;not null"`
	Auth       string `gorm:"not null"`
	ProbeTypes string `gorm:"size:256"`
	CreatedAt  time.Time
}

// WantsType reports whether the subscription covers the given probe type.
func (s PushSubscription) WantsType(t ProbeType) bool {
	if s.ProbeTypes == "" {
		return true
	}
	for _, part := range strings.Split(s.ProbeTypes, ",") {
		if strings.TrimSpace(part) == string(t) {
			return true
		}
	}
	return false
}
