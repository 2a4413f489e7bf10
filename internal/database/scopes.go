package database

import (
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

// KeyPrefix restricts a kv_entries query to keys starting with prefix.
func KeyPrefix(prefix string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if prefix == "" {
			return db
		}
		return db.Where("name LIKE ? ESCAPE '!'", likeEscaper.Replace(prefix)+"%")
	}
}
