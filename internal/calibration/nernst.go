package calibration

import "math"

// nernstCoeff is RT/F expressed in mV per kelvin per pH unit.
const nernstCoeff = 0.198968

// MVFromPH converts a pH reading to the expected electrode potential in
// mV at the given temperature (°C), via the linear Nernst relation
// around the pH 7 isopotential point. The result is rounded to one
// decimal place, matching what operators record from the meter.
func MVFromPH(ph, temperatureC float64) float64 {
	nernstFactor := nernstCoeff * (temperatureC + 273.15)
	mv := -nernstFactor * (ph - 7)
	return math.Round(mv*10) / 10
}
