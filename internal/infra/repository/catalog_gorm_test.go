package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
	"github.com/BruksfildServices01/equipment-rental/internal/testutil"
)

// Deletes that skip the loan count still surface the referencing loan
// as a conflict.

func TestDeleteEquipmentReferencedByLoan(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewCatalogGormRepository(db)
	ctx := context.Background()

	e := testutil.CreateEquipment(t, db, "Drill", 1, 1000)
	u := testutil.CreateUser(t, db, "budi", "borrower")
	day := testutil.Date(2024, 1, 1)
	testutil.CreateLoan(t, db, u.ID, e.ID, 1, "pending", day, day.Add(24*time.Hour))

	err := repo.DeleteEquipment(ctx, e.ID)
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "equipment_has_loans"))
	kind, _ := httperr.KindOf(err)
	assert.Equal(t, httperr.KindConflict, kind)

	// the row is still there
	testutil.ReloadEquipment(t, db, e.ID)
}

func TestDeleteUserReferencedByLoan(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewUserGormRepository(db)
	ctx := context.Background()

	e := testutil.CreateEquipment(t, db, "Drill", 1, 1000)
	u := testutil.CreateUser(t, db, "budi", "borrower")
	free := testutil.CreateUser(t, db, "sari", "borrower")
	day := testutil.Date(2024, 1, 1)
	testutil.CreateLoan(t, db, u.ID, e.ID, 1, "returned", day, day.Add(24*time.Hour))

	err := repo.Delete(ctx, u.ID)
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "user_has_loans"))
	kind, _ := httperr.KindOf(err)
	assert.Equal(t, httperr.KindConflict, kind)

	require.NoError(t, repo.Delete(ctx, free.ID))
	assert.True(t, httperr.IsBusiness(repo.Delete(ctx, free.ID), "user_not_found"))
}

func TestLockEquipmentMissing(t *testing.T) {
	repo := NewCatalogGormRepository(testutil.OpenDB(t))

	_, err := repo.LockEquipment(context.Background(), 404)
	assert.True(t, httperr.IsBusiness(err, "equipment_not_found"))
}
