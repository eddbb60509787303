package model

import "time"

// SheetRow is one physical row of the backing worksheet table. Row 0 is
// the header; data rows start at index 1. Cells holds the row's cell
// values JSON-encoded as a string array.
type SheetRow struct {
	Idx       int64  `gorm:"primaryKey;column:idx;autoIncrement:false"`
	Cells     string `gorm:"not null"`
	UpdatedAt time.Time
}

// BackupRow is one row of a timestamped backup snapshot of the sheet.
type BackupRow struct {
	Snapshot  string `gorm:"primaryKey;size:64"`
	Idx       int64  `gorm:"primaryKey;column:idx;autoIncrement:false"`
	Cells     string `gorm:"not null"`
	CreatedAt time.Time
}
