package calibration

import (
	"fmt"

	"probe-inventory-backend/internal/model"
)

// Readings is a calibration payload's numeric measurements, keyed by
// the per-probe-type measurement names the worksheet stores (e.g.
// "pH 7_calibrated", "zero_final", "84_final").
type Readings map[string]float64

// Range limits for each probe type. All bounds are inclusive.
const (
	phTolerance = 0.2
	phMaxDrift  = 0.5

	doZeroMin = -0.1
	doZeroMax = 0.5
	doSatMin  = 95.0
	doSatMax  = 105.0

	orpDefaultStandard = 225.0
	orpToleranceMV     = 15.0

	tempMin = 10.0
	tempMax = 40.0
)

// phBuffers are the nominal buffer values of a three-point pH calibration.
var phBuffers = []float64{4, 7, 10}

// ecStandards maps the conductivity standard key to its accepted band.
var ecStandards = []struct {
	key      string
	min, max float64
	unit     string
}{
	{"84", 80, 88, "µS/cm"},
	{"1413", 1390, 1436, "µS/cm"},
	{"12880", 12.75, 13.01, "mS/cm"},
}

// Validate checks a calibration payload against the fixed per-type
// acceptance ranges. It returns one human-readable message per violated
// rule; an empty result means the payload is acceptable. Violations
// block acceptance.
func Validate(probeType model.ProbeType, r Readings) []string {
	var violations []string

	switch probeType {
	case model.TypePH:
		violations = validatePH(r, violations)
	case model.TypeDO:
		violations = validateDO(r, violations)
	case model.TypeORP:
		violations = validateORP(r, violations)
	case model.TypeEC:
		violations = validateEC(r, violations)
	default:
		return []string{fmt.Sprintf("unknown probe type %q", probeType)}
	}

	if temp, ok := r["temperature"]; !ok {
		violations = append(violations, "temperature reading is missing")
	} else if temp < tempMin || temp > tempMax {
		violations = append(violations, fmt.Sprintf("temperature %.1f °C outside accepted range %.0f-%.0f °C", temp, tempMin, tempMax))
	}
	return violations
}

func validatePH(r Readings, violations []string) []string {
	for _, nominal := range phBuffers {
		buffer := fmt.Sprintf("pH %.0f", nominal)
		final, ok := r[buffer+"_calibrated"]
		if !ok {
			violations = append(violations, fmt.Sprintf("%s final reading is missing", buffer))
			continue
		}
		if final < nominal-phTolerance || final > nominal+phTolerance {
			violations = append(violations, fmt.Sprintf(
				"%s final reading %.2f outside accepted range %.2f-%.2f",
				buffer, final, nominal-phTolerance, nominal+phTolerance))
		}
		if initial, ok := r[buffer+"_initial"]; ok {
			drift := final - initial
			if drift < 0 {
				drift = -drift
			}
			if drift > phMaxDrift {
				violations = append(violations, fmt.Sprintf(
					"%s drift %.2f exceeds maximum %.2f pH units", buffer, drift, phMaxDrift))
			}
		}
	}
	return violations
}

func validateDO(r Readings, violations []string) []string {
	if zero, ok := r["zero_final"]; !ok {
		violations = append(violations, "zero-point final reading is missing")
	} else if zero < doZeroMin || zero > doZeroMax {
		violations = append(violations, fmt.Sprintf(
			"zero-point final reading %.2f%% outside accepted range %.1f to %.1f%%", zero, doZeroMin, doZeroMax))
	}
	if sat, ok := r["sat_final"]; !ok {
		violations = append(violations, "saturation final reading is missing")
	} else if sat < doSatMin || sat > doSatMax {
		violations = append(violations, fmt.Sprintf(
			"saturation final reading %.1f%% outside accepted range %.0f-%.0f%%", sat, doSatMin, doSatMax))
	}
	return violations
}

func validateORP(r Readings, violations []string) []string {
	standard := orpDefaultStandard
	if v, ok := r["standard_value"]; ok {
		standard = v
	}
	final, ok := r["calibrated_mv"]
	if !ok {
		violations = append(violations, "final mV reading is missing")
		return violations
	}
	if final < standard-orpToleranceMV || final > standard+orpToleranceMV {
		violations = append(violations, fmt.Sprintf(
			"final reading %.1f mV deviates more than ±%.0f mV from the %.0f mV standard",
			final, orpToleranceMV, standard))
	}
	return violations
}

func validateEC(r Readings, violations []string) []string {
	for _, std := range ecStandards {
		final, ok := r[std.key+"_final"]
		if !ok {
			// Not every EC calibration runs all three standards.
			continue
		}
		if final < std.min || final > std.max {
			violations = append(violations, fmt.Sprintf(
				"%s %s standard final reading %.2f outside accepted range %.2f-%.2f %s",
				std.key, std.unit, final, std.min, std.max, std.unit))
		}
	}
	return violations
}
