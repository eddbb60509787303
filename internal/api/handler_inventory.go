package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"probe-inventory-backend/internal/inventory"
	"probe-inventory-backend/internal/model"
)

// GetInventory handles GET /api/inventory with optional status, type
// and entry-date-range filters. A pure read-side projection.
func (h *Handler) GetInventory(c *gin.Context) {
	var filter inventory.Filter

	if raw := c.Query("status"); raw != "" {
		status, ok := model.ParseStatus(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + raw})
			return
		}
		filter.Status = status
	}
	if raw := c.Query("type"); raw != "" {
		probeType, ok := model.ParseProbeType(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown probe type " + raw})
			return
		}
		filter.Type = probeType
	}
	filter.EntryFrom = c.Query("from")
	filter.EntryTo = c.Query("to")

	probes := h.repo.Select(filter)
	responses := make([]probeResponse, 0, len(probes))
	for _, p := range probes {
		responses = append(responses, toProbeResponse(p))
	}
	c.JSON(http.StatusOK, responses)
}
