package inventory

import (
	"fmt"
	"strings"

	"probe-inventory-backend/internal/model"
)

// ValidationError reports bad or missing caller input. The caller must
// correct and resubmit; the repository never retries it.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// NotFoundError reports that a serial number has no inventory record.
type NotFoundError struct {
	SerialNumber string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("serial number %q not found in inventory", e.SerialNumber)
}

// IllegalTransitionError reports a status change the lifecycle rules
// forbid. Both ends of the attempted transition are named so the caller
// can surface them verbatim.
type IllegalTransitionError struct {
	SerialNumber string
	From, To     model.Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition %s -> %s for probe %s", e.From, e.To, e.SerialNumber)
}

// PersistError reports a failed save against the backing store. The
// in-memory table was rolled back; the caller may retry the whole
// operation after confirming connectivity.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to persist inventory during %s: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// CriticalError reports the worst save outcome: the overwrite failed
// and restoring the pre-save snapshot failed too, so the remote store
// may hold a mix of old and new rows. Callers must escalate rather
// than continue as if this were an ordinary failure.
type CriticalError struct {
	SaveErr    error
	RestoreErr error
}

func (e *CriticalError) Error() string {
	return fmt.Sprintf("critical: save failed (%v) and restore failed (%v); store data may be inconsistent", e.SaveErr, e.RestoreErr)
}

func (e *CriticalError) Unwrap() error { return e.SaveErr }

// ConnectionError reports that the backing store was unreachable when
// the repository tried to load it.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("inventory store unreachable: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }
