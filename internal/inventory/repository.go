package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"probe-inventory-backend/internal/calibration"
	"probe-inventory-backend/internal/model"
	"probe-inventory-backend/internal/sheet"
)

// Repository owns the authoritative in-memory copy of the inventory
// table and mediates every read and write against the worksheet store.
// All mutating operations persist the full table before the in-memory
// copy is updated, so a failed save never leaves the two diverged.
type Repository struct {
	sheet sheet.Store

	mu    sync.Mutex
	table []model.Probe

	now func() time.Time
}

// NewRepository creates a repository over the given worksheet store.
// Call Load before the first mutation.
func NewRepository(s sheet.Store) *Repository {
	return &Repository{sheet: s, now: time.Now}
}

// Registration is the caller input for registering a new probe.
type Registration struct {
	Type              model.ProbeType
	Manufacturer      string
	MfgPN             string
	KetosPN           string
	ManufacturingDate time.Time
	Operator          string
}

// Load fetches the whole table from the store, normalizes date columns
// to YYYY-MM-DD, and caches the result as the working table. On store
// failure the working table degrades to empty (reads keep working, the
// UI does not crash) and a ConnectionError is returned.
func (r *Repository) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.sheet.ReadAll(ctx)
	if err != nil {
		r.table = nil
		return &ConnectionError{Err: err}
	}

	probes := make([]model.Probe, 0, len(t.Rows))
	for _, rec := range t.Records() {
		for _, col := range model.DateColumns {
			rec[col] = normalizeDate(rec[col])
		}
		probes = append(probes, model.ProbeFromRecord(rec))
	}
	r.table = probes
	log.Printf("loaded inventory: %d records", len(probes))
	return nil
}

// Register validates the input, assigns a serial number, appends the
// new record with status Instock, and persists the table. Returns the
// assigned serial number.
func (r *Repository) Register(ctx context.Context, reg Registration) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var violations []string
	if _, ok := model.ParseProbeType(string(reg.Type)); !ok {
		violations = append(violations, fmt.Sprintf("unknown probe type %q", reg.Type))
	}
	if reg.Manufacturer == "" {
		violations = append(violations, "manufacturer is required")
	}
	if reg.MfgPN == "" {
		violations = append(violations, "manufacturer part number is required")
	}
	if reg.KetosPN == "" {
		violations = append(violations, "KETOS part number is required")
	} else if _, ok := model.ParseProbeType(string(reg.Type)); ok && !model.ValidKetosPN(reg.Type, reg.KetosPN) {
		violations = append(violations, fmt.Sprintf("KETOS part number %q is not cataloged for %s", reg.KetosPN, reg.Type))
	}
	if len(violations) > 0 {
		return "", &ValidationError{Violations: violations}
	}

	var existing []string
	for _, p := range r.table {
		if p.Type == reg.Type {
			existing = append(existing, p.SerialNumber)
		}
	}
	serial := NextSerial(reg.Type, reg.ManufacturingDate, existing)

	today := r.today()
	probe := model.Probe{
		SerialNumber: serial,
		Type:         reg.Type,
		Manufacturer: reg.Manufacturer,
		KetosPN:      reg.KetosPN,
		MfgPN:        reg.MfgPN,
		Status:       model.StatusInstock,
		EntryDate:    today,
		LastModified: today,
		ChangeDate:   today,
		RegisteredBy: reg.Operator,
	}

	next := append(r.cloneTable(), probe)
	if err := r.persist(ctx, next, "register"); err != nil {
		return "", err
	}
	r.table = next
	log.Printf("registered probe %s (%s)", serial, reg.Type)
	return serial, nil
}

// UpdateStatus applies a direct lifecycle transition. Entering
// Calibrated this way is rejected; that state is only reachable through
// ApplyCalibration.
func (r *Repository) UpdateStatus(ctx context.Context, serial string, newStatus model.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(serial)
	if idx < 0 {
		return &NotFoundError{SerialNumber: serial}
	}
	current := r.table[idx].Status
	if !CanTransitionDirect(current, newStatus) {
		return &IllegalTransitionError{SerialNumber: serial, From: current, To: newStatus}
	}

	today := r.today()
	next := r.cloneTable()
	next[idx].Status = newStatus
	next[idx].ChangeDate = today
	next[idx].LastModified = today

	if err := r.persist(ctx, next, "status update"); err != nil {
		return err
	}
	r.table = next
	log.Printf("probe %s: %s -> %s", serial, current, newStatus)
	return nil
}

// ApplyCalibration validates and attaches a calibration payload to an
// Instock probe, moving it to Calibrated in the same persisted write.
// The previous payload, if any, is replaced wholesale.
func (r *Repository) ApplyCalibration(ctx context.Context, serial string, readings calibration.Readings, operator string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(serial)
	if idx < 0 {
		return &NotFoundError{SerialNumber: serial}
	}
	probe := r.table[idx]
	if probe.Status != model.StatusInstock {
		return &IllegalTransitionError{SerialNumber: serial, From: probe.Status, To: model.StatusCalibrated}
	}
	if violations := calibration.Validate(probe.Type, readings); len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}

	today := r.today()
	payload := make(map[string]any, len(readings)+2)
	for k, v := range readings {
		payload[k] = v
	}
	payload["calibration_date"] = today
	payload["operator"] = operator
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode calibration payload: %w", err)
	}

	next := r.cloneTable()
	next[idx].CalibrationData = string(encoded)
	next[idx].Status = model.StatusCalibrated
	next[idx].LastModified = today
	next[idx].ChangeDate = today
	next[idx].NextCalibration = r.now().AddDate(0, 0, 365).Format(dateLayout)
	next[idx].CalibratedBy = operator

	if err := r.persist(ctx, next, "calibration"); err != nil {
		return err
	}
	r.table = next
	log.Printf("probe %s calibrated by %q, next due %s", serial, operator, next[idx].NextCalibration)
	return nil
}

// Filter selects records from the working table. Zero-valued fields
// match everything. A read-side projection: never mutates or persists.
type Filter struct {
	Status    model.Status
	Type      model.ProbeType
	EntryFrom string // YYYY-MM-DD inclusive
	EntryTo   string // YYYY-MM-DD inclusive
}

// Select returns the records matching the filter.
func (r *Repository) Select(f Filter) []model.Probe {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Probe, 0, len(r.table))
	for _, p := range r.table {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.Type != "" && p.Type != f.Type {
			continue
		}
		if f.EntryFrom != "" && p.EntryDate < f.EntryFrom {
			continue
		}
		if f.EntryTo != "" && p.EntryDate > f.EntryTo {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Get returns the record for a serial number.
func (r *Repository) Get(serial string) (model.Probe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx := r.indexOf(serial); idx >= 0 {
		return r.table[idx], nil
	}
	return model.Probe{}, &NotFoundError{SerialNumber: serial}
}

// Probes returns a copy of the full working table.
func (r *Repository) Probes() []model.Probe {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cloneTable()
}

// Save persists the current working table unchanged. Exposed so callers
// can force a rewrite after an out-of-band store problem.
func (r *Repository) Save(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.persist(ctx, r.table, "save")
}

// VerifyConnection reports worksheet reachability. Informational only;
// not load-bearing for data integrity.
func (r *Repository) VerifyConnection(ctx context.Context) bool {
	return r.sheet.IsReachable(ctx)
}

// persist writes the full table to the store with a compensating-write
// safety net: snapshot the current store contents, overwrite in bounded
// batches, truncate stale trailing rows, and on failure restore the
// snapshot. Not a transaction; a failed restore is reported as the
// distinct CriticalError condition.
func (r *Repository) persist(ctx context.Context, table []model.Probe, op string) error {
	backup, backupErr := r.sheet.ReadAll(ctx)
	if backupErr != nil {
		log.Printf("warning: could not snapshot sheet before %s: %v", op, backupErr)
	}

	rows := make([][]string, len(table))
	for i, p := range table {
		rows[i] = p.Row()
	}

	err := r.sheet.Overwrite(ctx, model.Columns, rows)
	if err == nil && backupErr == nil && len(backup.Rows) > len(rows) {
		err = r.sheet.DeleteTrailingRows(ctx, len(rows))
	}
	if err == nil {
		return nil
	}

	if backupErr != nil || backup.Header == nil {
		// Nothing to restore from.
		return &PersistError{Op: op, Err: err}
	}
	log.Printf("%s failed (%v), restoring pre-save snapshot", op, err)
	if restoreErr := r.sheet.Overwrite(ctx, backup.Header, backup.Rows); restoreErr != nil {
		return &CriticalError{SaveErr: err, RestoreErr: restoreErr}
	}
	_ = r.sheet.DeleteTrailingRows(ctx, len(backup.Rows))
	return &PersistError{Op: op, Err: err}
}

func (r *Repository) indexOf(serial string) int {
	for i, p := range r.table {
		if p.SerialNumber == serial {
			return i
		}
	}
	return -1
}

func (r *Repository) cloneTable() []model.Probe {
	out := make([]model.Probe, len(r.table))
	copy(out, r.table)
	return out
}

func (r *Repository) today() string {
	return r.now().Format(dateLayout)
}

const dateLayout = "2006-01-02"

// dateLayouts are the formats accepted when normalizing sheet dates.
var dateLayouts = []string{
	dateLayout,
	"2006-01-02 15:04:05",
	"01/02/2006",
	"2006/01/02",
	time.RFC3339,
}

func normalizeDate(s string) string {
	if s == "" {
		return s
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(dateLayout)
		}
	}
	return s
}
