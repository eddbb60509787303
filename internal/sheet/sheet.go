package sheet

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"probe-inventory-backend/internal/model"
)

// Table is the full contents of the worksheet: a header row plus zero
// or more data rows. Rows are positional; Header gives column names.
type Table struct {
	Header []string
	Rows   [][]string
}

// Records converts the positional rows into column-name keyed records.
func (t Table) Records() []map[string]string {
	records := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(t.Header))
		for i, col := range t.Header {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records
}

// Store is the remote worksheet seen as a row-oriented table. The
// repository is its only writer; implementations do not need to guard
// against concurrent mutation.
type Store interface {
	// ReadAll returns the entire table. An empty sheet yields a Table
	// with a nil Header and no rows, not an error.
	ReadAll(ctx context.Context) (Table, error)
	// Overwrite replaces the header and data rows starting at the top
	// of the sheet. Rows beyond len(rows) are left in place; callers
	// truncate them via DeleteTrailingRows.
	Overwrite(ctx context.Context, header []string, rows [][]string) error
	// AppendRows adds rows after the current last data row.
	AppendRows(ctx context.Context, rows [][]string) error
	// DeleteTrailingRows removes every data row with zero-based index
	// >= from (the header is never removed).
	DeleteTrailingRows(ctx context.Context, from int) error
	// IsReachable reports whether the backing store answers a probe
	// round-trip right now.
	IsReachable(ctx context.Context) bool
}

// gormSheet implements Store on a sheet_rows table, one record per
// worksheet row with the cell values JSON-encoded.
type gormSheet struct {
	db        *gorm.DB
	batchSize int
}

// NewGormSheet creates a worksheet store backed by the given database.
// batchSize bounds how many rows a single overwrite statement carries.
func NewGormSheet(db *gorm.DB, batchSize int) Store {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &gormSheet{db: db, batchSize: batchSize}
}

func (s *gormSheet) ReadAll(ctx context.Context) (Table, error) {
	var rows []model.SheetRow
	if err := s.db.WithContext(ctx).Order("idx").Find(&rows).Error; err != nil {
		return Table{}, fmt.Errorf("sheet read failed: %w", err)
	}

	var table Table
	for _, r := range rows {
		cells, err := decodeCells(r.Cells)
		if err != nil {
			return Table{}, fmt.Errorf("sheet row %d is corrupt: %w", r.Idx, err)
		}
		if r.Idx == 0 {
			table.Header = cells
			continue
		}
		table.Rows = append(table.Rows, cells)
	}
	return table, nil
}

func (s *gormSheet) Overwrite(ctx context.Context, header []string, rows [][]string) error {
	records := make([]model.SheetRow, 0, len(rows)+1)
	encoded, err := encodeCells(header)
	if err != nil {
		return err
	}
	records = append(records, model.SheetRow{Idx: 0, Cells: encoded})
	for i, row := range rows {
		if encoded, err = encodeCells(row); err != nil {
			return err
		}
		records = append(records, model.SheetRow{Idx: int64(i + 1), Cells: encoded})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for start := 0; start < len(records); start += s.batchSize {
			end := start + s.batchSize
			if end > len(records) {
				end = len(records)
			}
			batch := records[start:end]
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "idx"}},
				DoUpdates: clause.AssignmentColumns([]string{"cells", "updated_at"}),
			}).Create(&batch).Error; err != nil {
				return fmt.Errorf("sheet overwrite failed at row %d: %w", start, err)
			}
		}
		return nil
	})
}

func (s *gormSheet) AppendRows(ctx context.Context, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxIdx int64
		if err := tx.Model(&model.SheetRow{}).
			Select("COALESCE(MAX(idx), 0)").Scan(&maxIdx).Error; err != nil {
			return fmt.Errorf("sheet append failed: %w", err)
		}
		records := make([]model.SheetRow, 0, len(rows))
		for i, row := range rows {
			encoded, err := encodeCells(row)
			if err != nil {
				return err
			}
			records = append(records, model.SheetRow{Idx: maxIdx + int64(i) + 1, Cells: encoded})
		}
		if err := tx.Create(&records).Error; err != nil {
			return fmt.Errorf("sheet append failed: %w", err)
		}
		return nil
	})
}

func (s *gormSheet) DeleteTrailingRows(ctx context.Context, from int) error {
	// Data row N lives at physical idx N+1.
	if err := s.db.WithContext(ctx).
		Where("idx >= ?", int64(from)+1).
		Delete(&model.SheetRow{}).Error; err != nil {
		return fmt.Errorf("sheet truncate from row %d failed: %w", from, err)
	}
	return nil
}

func (s *gormSheet) IsReachable(ctx context.Context) bool {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.SheetRow{}).Count(&count).Error; err != nil {
		log.Printf("sheet reachability probe failed: %v", err)
		return false
	}
	return true
}

func encodeCells(cells []string) (string, error) {
	if cells == nil {
		cells = []string{}
	}
	b, err := json.Marshal(cells)
	if err != nil {
		return "", fmt.Errorf("encode sheet row: %w", err)
	}
	return string(b), nil
}

func decodeCells(encoded string) ([]string, error) {
	var cells []string
	if err := json.Unmarshal([]byte(encoded), &cells); err != nil {
		return nil, err
	}
	return cells, nil
}
