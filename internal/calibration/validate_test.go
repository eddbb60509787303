package calibration

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"probe-inventory-backend/internal/model"
)

func phReadings(ph7 float64) Readings {
	return Readings{
		"pH 4_calibrated":  4.00,
		"pH 7_calibrated":  ph7,
		"pH 10_calibrated": 10.00,
		"temperature":      25.0,
	}
}

func TestValidatePHBoundaries(t *testing.T) {
	testCases := []struct {
		name  string
		ph7   float64
		valid bool
	}{
		{"upper bound inclusive", 7.20, true},
		{"just above upper bound", 7.21, false},
		{"lower bound inclusive", 6.80, true},
		{"just below lower bound", 6.79, false},
		{"nominal", 7.00, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			violations := Validate(model.TypePH, phReadings(tc.ph7))
			if tc.valid {
				assert.Empty(t, violations)
			} else {
				assert.NotEmpty(t, violations)
			}
		})
	}
}

func TestValidatePHDrift(t *testing.T) {
	r := phReadings(7.00)
	r["pH 7_initial"] = 6.55
	violations := Validate(model.TypePH, r)
	assert.Empty(t, violations, "drift of 0.45 is within the 0.5 limit")

	r["pH 7_initial"] = 6.40
	violations = Validate(model.TypePH, r)
	assert.Len(t, violations, 1)
	assert.Contains(t, violations[0], "drift")
}

func TestValidatePHMissingBuffer(t *testing.T) {
	r := phReadings(7.00)
	delete(r, "pH 10_calibrated")
	violations := Validate(model.TypePH, r)
	assert.Len(t, violations, 1)
	assert.Contains(t, violations[0], "pH 10")
}

func TestValidateDO(t *testing.T) {
	testCases := []struct {
		name       string
		zero, sat  float64
		violations int
	}{
		{"both in range", 0.0, 100.0, 0},
		{"zero at upper bound", 0.5, 100.0, 0},
		{"zero at lower bound", -0.1, 100.0, 0},
		{"zero too high", 0.6, 100.0, 1},
		{"saturation at bounds", 0.0, 95.0, 0},
		{"saturation too low", 0.0, 94.9, 1},
		{"saturation too high", 0.0, 105.1, 1},
		{"both out of range", 1.0, 90.0, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			violations := Validate(model.TypeDO, Readings{
				"zero_final":  tc.zero,
				"sat_final":   tc.sat,
				"temperature": 25.0,
			})
			assert.Len(t, violations, tc.violations)
		})
	}
}

func TestValidateORP(t *testing.T) {
	base := Readings{"calibrated_mv": 230.0, "temperature": 25.0}
	assert.Empty(t, Validate(model.TypeORP, base), "within ±15 mV of the default 225 mV standard")

	base["calibrated_mv"] = 241.0
	assert.Len(t, Validate(model.TypeORP, base), 1)

	// A declared standard shifts the accepted band.
	custom := Readings{"standard_value": 470.0, "calibrated_mv": 460.0, "temperature": 25.0}
	assert.Empty(t, Validate(model.TypeORP, custom))
}

func TestValidateEC(t *testing.T) {
	good := Readings{
		"84_final":    84.0,
		"1413_final":  1413.0,
		"12880_final": 12.88,
		"temperature": 25.0,
	}
	assert.Empty(t, Validate(model.TypeEC, good))

	bad := Readings{"84_final": 79.9, "temperature": 25.0}
	violations := Validate(model.TypeEC, bad)
	assert.Len(t, violations, 1)
	assert.Contains(t, violations[0], "84")

	// Standards not run are not required.
	partial := Readings{"1413_final": 1400.0, "temperature": 25.0}
	assert.Empty(t, Validate(model.TypeEC, partial))
}

func TestValidateTemperature(t *testing.T) {
	r := phReadings(7.00)
	r["temperature"] = 41.0
	violations := Validate(model.TypePH, r)
	assert.Len(t, violations, 1)
	assert.Contains(t, violations[0], "temperature")

	r["temperature"] = 10.0
	assert.Empty(t, Validate(model.TypePH, r), "bounds are inclusive")

	delete(r, "temperature")
	violations = Validate(model.TypePH, r)
	assert.Len(t, violations, 1)
}

func TestValidateUnknownType(t *testing.T) {
	violations := Validate(model.ProbeType("Sonic Probe"), Readings{"temperature": 25.0})
	assert.Len(t, violations, 1)
}
