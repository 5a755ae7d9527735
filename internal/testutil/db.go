// Package testutil fournit une base SQLite en mémoire pour les tests.
package testutil

import (
	"testing"

	"fleur_back_end/internal/config"
	"fleur_back_end/internal/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB ouvre une base migrée, isolée par test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(config.Config{
		DBDriver: "sqlite",
		DBDSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
