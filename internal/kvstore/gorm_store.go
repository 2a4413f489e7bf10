package kvstore

import (
	"fmt"

	"github.com/yukikurage/vcc-collab-api/internal/database"
	"github.com/yukikurage/vcc-collab-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps every key as one row of the kv_entries table.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by db. The kv_entries table must exist.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(key string) ([]byte, error) {
	var entries []models.KVEntry
	if err := s.db.Where("name = ?", key).Limit(1).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if len(entries) == 0 {
		return nil, ErrKeyNotFound
	}
	return []byte(entries[0].Value), nil
}

// Set upserts the value stored under key.
func (s *GormStore) Set(key string, value []byte) error {
	entry := models.KVEntry{Key: key, Value: value}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) Remove(key string) error {
	if err := s.db.Where("name = ?", key).Delete(&models.KVEntry{}).Error; err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) Keys(prefix string) ([]string, error) {
	var keys []string
	err := s.db.Model(&models.KVEntry{}).
		Scopes(database.KeyPrefix(prefix)).
		Order("name").
		Pluck("name", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}
