// Package postgres provides a PostgreSQL backed record store using gorm
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Record is one stored JSON document
type Record struct {
	Key       string `gorm:"primaryKey;size:128"`
	Value     string `gorm:"type:jsonb;not null"`
	Version   int64  `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

// TableName pins the table name
func (Record) TableName() string { return "garage_records" }

// RecordStore implements repository.RecordStore on the garage_records table
type RecordStore struct {
	DB *gorm.DB
}

// Open connects with dsn and migrates the records table
func Open(dsn string) (*RecordStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate records: %w", err)
	}
	return &RecordStore{DB: db}, nil
}

// Migrate creates or updates the records table
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Record{})
}

func (s *RecordStore) Get(ctx context.Context, key string) ([]byte, error) {
	var rec Record
	err := s.DB.WithContext(ctx).Where("key = ?", key).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record %s: %w", key, err)
	}
	return []byte(rec.Value), nil
}

func (s *RecordStore) Set(ctx context.Context, key string, value []byte) error {
	rec := Record{Key: key, Value: string(value), Version: 1, UpdatedAt: time.Now().UTC()}
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      rec.Value,
			"updated_at": rec.UpdatedAt,
			"version":    gorm.Expr("garage_records.version + 1"),
		}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to set record %s: %w", key, err)
	}
	return nil
}

func (s *RecordStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
