package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Entry struct {
	Namespace string    `gorm:"primaryKey;size:64"`
	Key       string    `gorm:"primaryKey;size:64;column:entry_key"`
	Value     string    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Entry) TableName() string { return "session_entries" }

// GormBackend stores sessions in a SQL table; SQLite for the terminal app, SQLite or Postgres for the web app.
type GormBackend struct {
	DB *gorm.DB
}

func NewGormBackend(db *gorm.DB) (*GormBackend, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate session_entries: %w", err)
	}
	return &GormBackend{DB: db}, nil
}

func (g *GormBackend) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	var e Entry
	err := g.DB.WithContext(ctx).
		Where("namespace = ? AND entry_key = ?", namespace, key).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return e.Value, true, nil
}

func (g *GormBackend) Set(ctx context.Context, namespace string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	now := time.Now().UTC()
	entries := make([]Entry, 0, len(values))
	for k, v := range values {
		entries = append(entries, Entry{Namespace: namespace, Key: k, Value: v, UpdatedAt: now})
	}

	return g.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "namespace"}, {Name: "entry_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&entries).Error
	})
}

func (g *GormBackend) Delete(ctx context.Context, namespace string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return g.DB.WithContext(ctx).
		Where("namespace = ? AND entry_key IN ?", namespace, keys).
		Delete(&Entry{}).Error
}
