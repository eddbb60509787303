package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"probe-inventory-backend/internal/calibration"
	"probe-inventory-backend/internal/model"
)

type catalogEntry struct {
	Type             string   `json:"type"`
	KetosPartNumbers []string `json:"ketos_part_numbers"`
	ServiceLifeYears int      `json:"service_life_years"`
}

// GetCatalog handles GET /api/catalog: the probe types a registration
// form can offer, with their part numbers and service life.
func (h *Handler) GetCatalog(c *gin.Context) {
	entries := make([]catalogEntry, 0, len(model.ProbeTypes))
	for _, t := range model.ProbeTypes {
		entries = append(entries, catalogEntry{
			Type:             string(t),
			KetosPartNumbers: model.KetosPartNumbers[t],
			ServiceLifeYears: model.ServiceLifeYears[t],
		})
	}
	c.JSON(http.StatusOK, entries)
}

// GetPHMV handles GET /api/calibration/ph-mv?ph=&temperature=: the
// expected electrode potential for a pH reading, shown beside the
// manual mV override on the calibration form.
func (h *Handler) GetPHMV(c *gin.Context) {
	ph, err := strconv.ParseFloat(c.Query("ph"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ph must be a number"})
		return
	}
	temperature := 25.0
	if raw := c.Query("temperature"); raw != "" {
		if temperature, err = strconv.ParseFloat(raw, 64); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "temperature must be a number"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"mv": calibration.MVFromPH(ph, temperature)})
}
