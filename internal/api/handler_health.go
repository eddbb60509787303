package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetHealth handles GET /api/health. Reports worksheet reachability so
// the UI can show connectivity state.
func (h *Handler) GetHealth(c *gin.Context) {
	if !h.repo.VerifyConnection(c.Request.Context()) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "store_reachable": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "store_reachable": true})
}

// PostBackup handles POST /api/backup: a manual snapshot trigger.
func (h *Handler) PostBackup(c *gin.Context) {
	if h.backups == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "backups are not configured"})
		return
	}
	name, err := h.backups.Snapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"snapshot": name})
}
