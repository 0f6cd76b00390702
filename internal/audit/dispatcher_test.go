package audit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/equipment-rental/internal/audit"
	"github.com/BruksfildServices01/equipment-rental/internal/models"
	"github.com/BruksfildServices01/equipment-rental/internal/testutil"
)

func TestDispatcherWritesQueuedEventsOnClose(t *testing.T) {
	db := testutil.OpenDB(t)
	admin := testutil.CreateUser(t, db, "root", "admin")

	d := audit.NewDispatcher(audit.New(db))
	for i := 0; i < 3; i++ {
		d.Dispatch(audit.Event{
			UserID:      &admin.ID,
			Action:      "login",
			Entity:      "user",
			EntityID:    &admin.ID,
			Description: "root logged in",
		})
	}
	d.Close()

	var logs []models.ActivityLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 3)
	assert.Equal(t, "login", logs[0].Action)
	assert.Equal(t, admin.ID, *logs[0].UserID)
}

func TestDispatchAfterCloseIsDropped(t *testing.T) {
	db := testutil.OpenDB(t)

	d := audit.NewDispatcher(audit.New(db))
	d.Close()
	d.Close()

	assert.NotPanics(t, func() {
		d.Dispatch(audit.Event{Action: "noop", Description: "after close"})
	})

	var count int64
	require.NoError(t, db.Model(&models.ActivityLog{}).Count(&count).Error)
	assert.Zero(t, count)
}
