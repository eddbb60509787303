package inventory

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"probe-inventory-backend/internal/model"
)

// NextSerial builds the serial number for a new probe:
// {TypePrefix}_{ExpireYYMM}_{sequence:05d}. The expiry year/month comes
// from the manufacturing date plus the type's service life, the prefix
// is the first token of the type name, and the sequence is one past the
// highest 5-digit suffix among existing serials of the same type.
//
// The result is collision-free only against the snapshot of existing
// serials the caller passes in; take the snapshot under the same
// logical operation as the registration that will use it.
func NextSerial(probeType model.ProbeType, manufacturingDate time.Time, existingOfType []string) string {
	years := model.ServiceLifeYears[probeType]
	if years == 0 {
		years = 2
	}
	expire := manufacturingDate.AddDate(years, 0, 0)

	next := 1
	for _, serial := range existingOfType {
		i := strings.LastIndex(serial, "_")
		if i < 0 || i+1 >= len(serial) {
			continue
		}
		seq, err := strconv.Atoi(serial[i+1:])
		if err != nil {
			continue
		}
		if seq >= next {
			next = seq + 1
		}
	}

	prefix := string(probeType)
	if fields := strings.Fields(prefix); len(fields) > 0 {
		prefix = fields[0]
	}
	return fmt.Sprintf("%s_%s_%05d", prefix, expire.Format("0601"), next)
}
