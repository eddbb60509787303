package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"probe-inventory-backend/internal/inventory"
	"probe-inventory-backend/internal/sheet"
)

func setupProbeRouter(t *testing.T) (*gin.Engine, *inventory.Repository) {
	gin.SetMode(gin.TestMode)

	repo := inventory.NewRepository(sheet.NewMemory())
	require.NoError(t, repo.Load(context.Background()))

	handler := NewHandler(repo, nil, nil, nil, nil)
	r := gin.New()
	r.POST("/api/probes", handler.RegisterProbe)
	r.GET("/api/probes/:serial", handler.GetProbe)
	r.PUT("/api/probes/:serial/status", handler.UpdateStatus)
	r.POST("/api/probes/:serial/calibration", handler.ApplyCalibration)
	r.GET("/api/inventory", handler.GetInventory)
	r.GET("/api/stats", handler.GetStats)
	r.GET("/api/catalog", handler.GetCatalog)
	r.GET("/api/calibration/ph-mv", handler.GetPHMV)
	r.GET("/api/health", handler.GetHealth)
	return r, repo
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

const registerBody = `{
	"type": "pH Probe",
	"manufacturer": "Acme",
	"mfg_part_number": "AC-100",
	"ketos_part_number": "400-00260",
	"manufacturing_date": "2024-01-01",
	"operator": "jdoe"
}`

const calibrateBody = `{
	"operator": "qa-op",
	"readings": {
		"pH 4_calibrated": 4.0,
		"pH 7_calibrated": 7.0,
		"pH 10_calibrated": 10.0,
		"temperature": 25.0
	}
}`

func TestRegisterProbe(t *testing.T) {
	router, _ := setupProbeRouter(t)

	w := doJSON(router, "POST", "/api/probes", registerBody)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pH_2601_00001", resp["serial_number"])
}

func TestRegisterProbeBadRequest(t *testing.T) {
	router, _ := setupProbeRouter(t)

	w := doJSON(router, "POST", "/api/probes", `{"type": "pH Probe"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, "POST", "/api/probes", `{"type": "pH Probe", "manufacturing_date": "01/01/2024"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterProbeValidationViolations(t *testing.T) {
	router, _ := setupProbeRouter(t)

	body := strings.Replace(registerBody, `"manufacturer": "Acme",`, `"manufacturer": "",`, 1)
	w := doJSON(router, "POST", "/api/probes", body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Violations []string `json:"violations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Violations)
}

func TestProbeLifecycleOverHTTP(t *testing.T) {
	router, _ := setupProbeRouter(t)

	w := doJSON(router, "POST", "/api/probes", registerBody)
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	serial := created["serial_number"]

	// Shipping an Instock probe is illegal.
	w = doJSON(router, "PUT", "/api/probes/"+serial+"/status", `{"status": "Shipped"}`)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Instock")

	// Calibrate, then ship.
	w = doJSON(router, "POST", "/api/probes/"+serial+"/calibration", calibrateBody)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(router, "GET", "/api/probes/"+serial, "")
	require.Equal(t, http.StatusOK, w.Code)
	var probe struct {
		Status      string         `json:"status"`
		Calibration map[string]any `json:"calibration"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &probe))
	assert.Equal(t, "Calibrated", probe.Status)
	assert.Equal(t, "qa-op", probe.Calibration["operator"])

	w = doJSON(router, "PUT", "/api/probes/"+serial+"/status", `{"status": "Shipped"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestApplyCalibrationRejectedReadings(t *testing.T) {
	router, _ := setupProbeRouter(t)

	w := doJSON(router, "POST", "/api/probes", registerBody)
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	bad := strings.Replace(calibrateBody, `"pH 7_calibrated": 7.0`, `"pH 7_calibrated": 7.21`, 1)
	w = doJSON(router, "POST", "/api/probes/"+created["serial_number"]+"/calibration", bad)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetProbeNotFound(t *testing.T) {
	router, _ := setupProbeRouter(t)
	w := doJSON(router, "GET", "/api/probes/pH_2601_99999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetInventoryFilters(t *testing.T) {
	router, _ := setupProbeRouter(t)

	require.Equal(t, http.StatusCreated, doJSON(router, "POST", "/api/probes", registerBody).Code)
	doBody := strings.NewReplacer(
		"pH Probe", "DO Probe",
		"400-00260", "300-00056",
	).Replace(registerBody)
	require.Equal(t, http.StatusCreated, doJSON(router, "POST", "/api/probes", doBody).Code)

	w := doJSON(router, "GET", "/api/inventory", "")
	require.Equal(t, http.StatusOK, w.Code)
	var all []json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 2)

	w = doJSON(router, "GET", "/api/inventory?type=pH+Probe", "")
	require.Equal(t, http.StatusOK, w.Code)
	var phOnly []json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &phOnly))
	assert.Len(t, phOnly, 1)

	w = doJSON(router, "GET", "/api/inventory?status=NotAStatus", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetStats(t *testing.T) {
	router, _ := setupProbeRouter(t)
	require.Equal(t, http.StatusCreated, doJSON(router, "POST", "/api/probes", registerBody).Code)

	w := doJSON(router, "GET", "/api/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		Total    int            `json:"total"`
		ByStatus map[string]int `json:"by_status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.ByStatus["Instock"])
}

func TestGetCatalog(t *testing.T) {
	router, _ := setupProbeRouter(t)
	w := doJSON(router, "GET", "/api/catalog", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "400-00260")
	assert.Contains(t, w.Body.String(), "pH Probe")
}

func TestGetPHMV(t *testing.T) {
	router, _ := setupProbeRouter(t)

	w := doJSON(router, "GET", "/api/calibration/ph-mv?ph=7", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"mv": 0}`, w.Body.String())

	w = doJSON(router, "GET", "/api/calibration/ph-mv?ph=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetHealth(t *testing.T) {
	router, _ := setupProbeRouter(t)
	w := doJSON(router, "GET", "/api/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"store_reachable":true`)
}

func TestGetVAPIDPublicKeyUnconfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(nil, nil, nil, nil, nil)
	r := gin.New()
	r.GET("/api/vapid_public_key", handler.GetVAPIDPublicKey)

	w := doJSON(r, "GET", "/api/vapid_public_key", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
