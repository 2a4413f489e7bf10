package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/vcc-collab-api/internal/config"
	"github.com/yukikurage/vcc-collab-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestDialector(t *testing.T) {
	for _, driver := range []string{"sqlite", "mysql", "postgres"} {
		d, err := Dialector(&config.Config{DBDriver: driver, DBPath: ":memory:"})
		require.NoError(t, err, driver)
		assert.Equal(t, driver, d.Name())
	}

	_, err := Dialector(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestMigrateAndKeyPrefix(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, key := range []string{"vcc_users_v1", "vcc_current_user", "vinix_user_profile", "vcc%weird"} {
		require.NoError(t, db.Create(&models.KVEntry{Key: key, Value: []byte(`null`)}).Error)
	}

	var keys []string
	require.NoError(t, db.Model(&models.KVEntry{}).Scopes(KeyPrefix("vcc_")).Order("name").Pluck("name", &keys).Error)
	assert.Equal(t, []string{"vcc_current_user", "vcc_users_v1"}, keys)

	keys = nil
	require.NoError(t, db.Model(&models.KVEntry{}).Scopes(KeyPrefix("")).Pluck("name", &keys).Error)
	assert.Len(t, keys, 4)
}
