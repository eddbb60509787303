package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"probe-inventory-backend/internal/model"
)

// statsResponse is the dashboard summary of the inventory.
type statsResponse struct {
	Total       int            `json:"total"`
	ByStatus    map[string]int `json:"by_status"`
	ByType      map[string]int `json:"by_type"`
	Overdue     int            `json:"calibration_overdue"`
	DueSoon     int            `json:"calibration_due_soon"`
	DueSoonDays int            `json:"due_soon_window_days"`
}

const dueSoonDays = 30

// GetStats handles GET /api/stats.
func (h *Handler) GetStats(c *gin.Context) {
	today := time.Now().Format("2006-01-02")
	horizon := time.Now().AddDate(0, 0, dueSoonDays).Format("2006-01-02")

	stats := statsResponse{
		ByStatus:    make(map[string]int),
		ByType:      make(map[string]int),
		DueSoonDays: dueSoonDays,
	}
	for _, p := range h.repo.Probes() {
		stats.Total++
		stats.ByStatus[string(p.Status)]++
		stats.ByType[string(p.Type)]++

		if p.Status != model.StatusCalibrated || p.NextCalibration == "" {
			continue
		}
		switch {
		case p.NextCalibration <= today:
			stats.Overdue++
		case p.NextCalibration <= horizon:
			stats.DueSoon++
		}
	}
	c.JSON(http.StatusOK, stats)
}
