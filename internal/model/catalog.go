package model

// KetosPartNumbers is the catalog of valid KETOS part numbers per probe type.
var KetosPartNumbers = map[ProbeType][]string{
	TypePH:  {"400-00260", "400-00292"},
	TypeDO:  {"300-00056"},
	TypeORP: {"400-00261"},
	TypeEC:  {"400-00259", "400-00279"},
}

// ServiceLifeYears is the expected service life per probe type, used to
// derive the calibration-expiry component of a serial number.
var ServiceLifeYears = map[ProbeType]int{
	TypePH:  2,
	TypeORP: 2,
	TypeDO:  4,
	TypeEC:  10,
}

// ValidKetosPN reports whether pn is a cataloged part number for t.
func ValidKetosPN(t ProbeType, pn string) bool {
	for _, known := range KetosPartNumbers[t] {
		if known == pn {
			return true
		}
	}
	return false
}
