package service

import (
	"testing"

	"backend/internal/model"
	ws "backend/internal/websocket"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory SQLite database with all models migrated
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.User{},
		&model.Supplier{},
		&model.Ingredient{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderItem{},
		&model.ReceivingRecord{},
		&model.ReceivingItem{},
		&model.AuditLog{},
	)
	require.NoError(t, err)

	return db
}

// newTestHub returns a hub with its dispatch loop already running so
// broadcasts do not block the service under test
func newTestHub() *ws.Hub {
	hub := ws.NewHub()
	go hub.Run()
	return hub
}
