package model

// ProbeType identifies the electrochemical sensor family of a probe.
type ProbeType string

const (
	TypePH  ProbeType = "pH Probe"
	TypeDO  ProbeType = "DO Probe"
	TypeORP ProbeType = "ORP Probe"
	TypeEC  ProbeType = "EC Probe"
)

// ProbeTypes lists every recognized probe type in catalog order.
var ProbeTypes = []ProbeType{TypePH, TypeDO, TypeORP, TypeEC}

// ParseProbeType maps a raw type string to a known ProbeType.
func ParseProbeType(s string) (ProbeType, bool) {
	for _, t := range ProbeTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Status is the inventory lifecycle state of a probe.
type Status string

const (
	StatusInstock    Status = "Instock"
	StatusCalibrated Status = "Calibrated"
	StatusShipped    Status = "Shipped"
	StatusScrapped   Status = "Scrapped"
)

// ParseStatus maps a raw status string to a known Status. The legacy
// sheet data spells Scrapped as "Scraped"; both are accepted on read.
func ParseStatus(s string) (Status, bool) {
	switch s {
	case string(StatusInstock):
		return StatusInstock, true
	case string(StatusCalibrated):
		return StatusCalibrated, true
	case string(StatusShipped):
		return StatusShipped, true
	case string(StatusScrapped), "Scraped":
		return StatusScrapped, true
	}
	return "", false
}

// Canonical worksheet column names, in persisted order.
const (
	ColSerialNumber    = "Serial Number"
	ColType            = "Type"
	ColManufacturer    = "Manufacturer"
	ColKetosPN         = "KETOS P/N"
	ColMfgPN           = "Mfg P/N"
	ColNextCalibration = "Next Calibration"
	ColStatus          = "Status"
	ColEntryDate       = "Entry Date"
	ColLastModified    = "Last Modified"
	ColChangeDate      = "Change Date"
	ColCalibrationData = "Calibration Data"
	ColRegisteredBy    = "Registered By"
	ColCalibratedBy    = "Calibrated By"
)

// Columns is the canonical header row of the inventory worksheet.
var Columns = []string{
	ColSerialNumber,
	ColType,
	ColManufacturer,
	ColKetosPN,
	ColMfgPN,
	ColNextCalibration,
	ColStatus,
	ColEntryDate,
	ColLastModified,
	ColChangeDate,
	ColCalibrationData,
	ColRegisteredBy,
	ColCalibratedBy,
}

// DateColumns lists the columns normalized to YYYY-MM-DD on load.
var DateColumns = []string{ColNextCalibration, ColEntryDate, ColLastModified, ColChangeDate}

// Probe is one row of the inventory table. All date fields are held in
// the canonical YYYY-MM-DD string form the worksheet uses; an empty
// string means the value has never been set.
type Probe struct {
	SerialNumber    string
	Type            ProbeType
	Manufacturer    string
	KetosPN         string
	MfgPN           string
	NextCalibration string
	Status          Status
	EntryDate       string
	LastModified    string
	ChangeDate      string
	CalibrationData string
	RegisteredBy    string
	CalibratedBy    string
}

// Row serializes the probe into a worksheet row matching Columns order.
func (p Probe) Row() []string {
	return []string{
		p.SerialNumber,
		string(p.Type),
		p.Manufacturer,
		p.KetosPN,
		p.MfgPN,
		p.NextCalibration,
		string(p.Status),
		p.EntryDate,
		p.LastModified,
		p.ChangeDate,
		p.CalibrationData,
		p.RegisteredBy,
		p.CalibratedBy,
	}
}

// ProbeFromRecord builds a Probe from a column-name keyed record.
// Unknown type or status strings are preserved as-is rather than
// dropped, so a damaged row still round-trips through a save.
func ProbeFromRecord(rec map[string]string) Probe {
	p := Probe{
		SerialNumber:    rec[ColSerialNumber],
		Type:            ProbeType(rec[ColType]),
		Manufacturer:    rec[ColManufacturer],
		KetosPN:         rec[ColKetosPN],
		MfgPN:           rec[ColMfgPN],
		NextCalibration: rec[ColNextCalibration],
		Status:          Status(rec[ColStatus]),
		EntryDate:       rec[ColEntryDate],
		LastModified:    rec[ColLastModified],
		ChangeDate:      rec[ColChangeDate],
		CalibrationData: rec[ColCalibrationData],
		RegisteredBy:    rec[ColRegisteredBy],
		CalibratedBy:    rec[ColCalibratedBy],
	}
	if st, ok := ParseStatus(rec[ColStatus]); ok {
		p.Status = st
	}
	return p
}
