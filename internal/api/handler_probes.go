package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"probe-inventory-backend/internal/calibration"
	"probe-inventory-backend/internal/inventory"
	"probe-inventory-backend/internal/model"
)

type registerProbeRequest struct {
	Type              string `json:"type" binding:"required"`
	Manufacturer      string `json:"manufacturer"`
	MfgPN             string `json:"mfg_part_number"`
	KetosPN           string `json:"ketos_part_number"`
	ManufacturingDate string `json:"manufacturing_date" binding:"required"`
	Operator          string `json:"operator"`
}

// RegisterProbe handles POST /api/probes.
func (h *Handler) RegisterProbe(c *gin.Context) {
	var req registerProbeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mfgDate, err := time.Parse("2006-01-02", req.ManufacturingDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "manufacturing_date must be YYYY-MM-DD"})
		return
	}

	serial, err := h.repo.Register(c.Request.Context(), inventory.Registration{
		Type:              model.ProbeType(req.Type),
		Manufacturer:      req.Manufacturer,
		MfgPN:             req.MfgPN,
		KetosPN:           req.KetosPN,
		ManufacturingDate: mfgDate,
		Operator:          req.Operator,
	})
	if err != nil {
		renderError(c, err)
		return
	}

	h.invalidateCache()
	c.JSON(http.StatusCreated, gin.H{"serial_number": serial})
}

// probeResponse is a probe record with its calibration payload decoded.
type probeResponse struct {
	SerialNumber    string         `json:"serial_number"`
	Type            string         `json:"type"`
	Manufacturer    string         `json:"manufacturer"`
	KetosPN         string         `json:"ketos_part_number"`
	MfgPN           string         `json:"mfg_part_number"`
	Status          string         `json:"status"`
	EntryDate       string         `json:"entry_date"`
	LastModified    string         `json:"last_modified"`
	ChangeDate      string         `json:"change_date"`
	NextCalibration string         `json:"next_calibration,omitempty"`
	RegisteredBy    string         `json:"registered_by,omitempty"`
	CalibratedBy    string         `json:"calibrated_by,omitempty"`
	Calibration     map[string]any `json:"calibration,omitempty"`
}

func toProbeResponse(p model.Probe) probeResponse {
	resp := probeResponse{
		SerialNumber:    p.SerialNumber,
		Type:            string(p.Type),
		Manufacturer:    p.Manufacturer,
		KetosPN:         p.KetosPN,
		MfgPN:           p.MfgPN,
		Status:          string(p.Status),
		EntryDate:       p.EntryDate,
		LastModified:    p.LastModified,
		ChangeDate:      p.ChangeDate,
		NextCalibration: p.NextCalibration,
		RegisteredBy:    p.RegisteredBy,
		CalibratedBy:    p.CalibratedBy,
	}
	if p.CalibrationData != "" {
		var decoded map[string]any
		if err := json.Unmarshal([]byte(p.CalibrationData), &decoded); err == nil {
			resp.Calibration = decoded
		}
	}
	return resp
}

// GetProbe handles GET /api/probes/:serial.
func (h *Handler) GetProbe(c *gin.Context) {
	probe, err := h.repo.Get(c.Param("serial"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProbeResponse(probe))
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PUT /api/probes/:serial/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, ok := model.ParseStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + req.Status})
		return
	}

	if err := h.repo.UpdateStatus(c.Request.Context(), c.Param("serial"), status); err != nil {
		renderError(c, err)
		return
	}

	h.invalidateCache()
	c.Status(http.StatusNoContent)
}

type applyCalibrationRequest struct {
	Readings calibration.Readings `json:"readings" binding:"required"`
	Operator string               `json:"operator"`
}

// ApplyCalibration handles POST /api/probes/:serial/calibration.
func (h *Handler) ApplyCalibration(c *gin.Context) {
	var req applyCalibrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.repo.ApplyCalibration(c.Request.Context(), c.Param("serial"), req.Readings, req.Operator); err != nil {
		renderError(c, err)
		return
	}

	h.invalidateCache()
	c.Status(http.StatusNoContent)
}
