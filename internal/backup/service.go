package backup

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"probe-inventory-backend/config"
	"probe-inventory-backend/internal/model"
)

// Service periodically snapshots the worksheet rows into timestamped
// backup sets and prunes old ones. Snapshots are a coarse recovery aid
// for operator mistakes, not an audit trail.
type Service struct {
	db       *gorm.DB
	interval time.Duration
	retain   int
	now      func() time.Time
}

// NewService creates a backup service from configuration.
func NewService(db *gorm.DB, cfg *config.BackupConfig) *Service {
	retain := cfg.Retain
	if retain <= 0 {
		retain = 5
	}
	return &Service{db: db, interval: cfg.Interval, retain: retain, now: time.Now}
}

// Run takes a snapshot on startup and then on every interval tick until
// the context is cancelled.
func (s *Service) Run(ctx context.Context) {
	log.Println("Starting backup service...")
	if _, err := s.Snapshot(ctx); err != nil {
		log.Printf("initial backup failed: %v", err)
	}

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Backup service shutting down.")
			return
		case <-timer.C:
			if _, err := s.Snapshot(ctx); err != nil {
				log.Printf("scheduled backup failed: %v", err)
			}
			timer.Reset(s.interval)
		}
	}
}

// Snapshot copies the current sheet rows into a new backup set named
// Backup_YYYYMMDD_HHMMSS and prunes sets beyond the retention limit.
// Returns the snapshot name.
func (s *Service) Snapshot(ctx context.Context) (string, error) {
	name := "Backup_" + s.now().Format("20060102_150405")

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []model.SheetRow
		if err := tx.Order("idx").Find(&rows).Error; err != nil {
			return fmt.Errorf("read sheet for backup: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		records := make([]model.BackupRow, len(rows))
		for i, r := range rows {
			records[i] = model.BackupRow{Snapshot: name, Idx: r.Idx, Cells: r.Cells}
		}
		if err := tx.Create(&records).Error; err != nil {
			return fmt.Errorf("write backup rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if err := s.prune(ctx); err != nil {
		log.Printf("warning: backup pruning failed: %v", err)
	}
	log.Printf("backup snapshot %s complete", name)
	return name, nil
}

// Snapshots returns all retained snapshot names, newest first.
func (s *Service) Snapshots(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&model.BackupRow{}).
		Distinct("snapshot").Order("snapshot DESC").Pluck("snapshot", &names).Error
	if err != nil {
		return nil, fmt.Errorf("list backup snapshots: %w", err)
	}
	return names, nil
}

// prune deletes the oldest snapshots beyond the retention limit. The
// timestamped names sort chronologically.
func (s *Service) prune(ctx context.Context) error {
	names, err := s.Snapshots(ctx)
	if err != nil {
		return err
	}
	if len(names) <= s.retain {
		return nil
	}
	stale := names[s.retain:]
	return s.db.WithContext(ctx).
		Where("snapshot IN ?", stale).
		Delete(&model.BackupRow{}).Error
}
