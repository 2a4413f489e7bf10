package models

import (
	"time"

	"gorm.io/datatypes"
)

// KVEntry is one named partition of the persisted key-value store.
type KVEntry struct {
	Key       string         `gorm:"primarykey;column:name;type:varchar(191)" json:"key"`
	Value     datatypes.JSON `gorm:"type:json" json:"value"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
