// Package storage is the client-side local storage of the POS front-end:
// a small string key/value store kept in a SQLite file.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Entry is one stored key
type Entry struct {
	Key       string `gorm:"primaryKey;column:item_key"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName keeps the browser naming
func (Entry) TableName() string { return "local_storage" }

// Local is a persistent key/value store.
type Local struct {
	db *gorm.DB
}

// Open opens (creating if needed) the storage file at path.
func Open(path string) (*Local, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open local storage: %w", err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate local storage: %w", err)
	}
	return &Local{db: db}, nil
}

// GetItem returns the stored value and whether the key exists
func (l *Local) GetItem(key string) (string, bool, error) {
	var e Entry
	err := l.db.First(&e, "item_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return e.Value, true, nil
}

// SetItem stores value under key, replacing any previous value
func (l *Local) SetItem(key, value string) error {
	e := Entry{Key: key, Value: value}
	err := l.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// RemoveItem deletes key; removing a missing key is not an error
func (l *Local) RemoveItem(key string) error {
	if err := l.db.Delete(&Entry{}, "item_key = ?", key).Error; err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

// Clear removes every key
func (l *Local) Clear() error {
	return l.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Entry{}).Error
}

// Close releases the underlying database
func (l *Local) Close() error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
