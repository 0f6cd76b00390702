package catalog

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/equipment-rental/internal/audit"
	"github.com/BruksfildServices01/equipment-rental/internal/auth"
	domain "github.com/BruksfildServices01/equipment-rental/internal/domain/catalog"
	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
	infraRepo "github.com/BruksfildServices01/equipment-rental/internal/infra/repository"
	"github.com/BruksfildServices01/equipment-rental/internal/media"
	"github.com/BruksfildServices01/equipment-rental/internal/models"
	"github.com/BruksfildServices01/equipment-rental/internal/storage"
	"github.com/BruksfildServices01/equipment-rental/internal/testutil"
)

type memStore struct {
	keys []string
	err  error
}

func (m *memStore) Put(_ context.Context, key string, body []byte, contentType string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.keys = append(m.keys, key)
	return "https://cdn.test/" + key, nil
}

var admin auth.Identity

func setup(t *testing.T, store *memStore) (*Usecase, *gorm.DB) {
	t.Helper()

	db := testutil.OpenDB(t)
	d := audit.NewDispatcher(audit.New(db))
	t.Cleanup(d.Close)

	u := testutil.CreateUser(t, db, "admin", auth.RoleAdmin)
	admin = auth.Identity{UserID: u.ID, Username: u.Username, Role: u.Role}

	var objects storage.ObjectStore
	if store != nil {
		objects = store
	}

	uc := NewUsecase(infraRepo.NewCatalogGormRepository(db), d, media.NewProcessor(32), objects)
	return uc, db
}

func intPtr(v int) *int     { return &v }
func i64Ptr(v int64) *int64 { return &v }
func uintPtr(v uint) *uint  { return &v }

func code(err error) string {
	var be httperr.BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

func TestCreateEquipmentDefaults(t *testing.T) {
	uc, _ := setup(t, nil)
	ctx := context.Background()

	e, err := uc.CreateEquipment(ctx, admin, EquipmentInput{Name: "  Ladder "})
	require.NoError(t, err)

	assert.Equal(t, "Ladder", e.Name)
	assert.Equal(t, domain.ConditionGood, e.Condition)
	assert.Equal(t, domain.StatusAvailable, e.Status)
	assert.Equal(t, 1, e.Stock)
	assert.Equal(t, int64(0), e.DailyRate)
	assert.Equal(t, 1, e.AvailableQuantity)

	_, err = uc.CreateEquipment(ctx, admin, EquipmentInput{Name: " "})
	assert.Equal(t, "name_required", code(err))

	_, err = uc.CreateEquipment(ctx, admin, EquipmentInput{Name: "Saw", CategoryID: uintPtr(77)})
	assert.Equal(t, "category_not_found", code(err))
	kind, _ := httperr.KindOf(err)
	assert.Equal(t, httperr.KindValidation, kind)

	zero, err := uc.CreateEquipment(ctx, admin, EquipmentInput{Name: "Tent", Stock: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOnLoan, zero.Status)
}

func TestUpdateEquipmentReplacesFields(t *testing.T) {
	uc, _ := setup(t, nil)
	ctx := context.Background()

	cat, err := uc.CreateCategory(ctx, admin, CategoryInput{Name: "Power tools"})
	require.NoError(t, err)

	e, err := uc.CreateEquipment(ctx, admin, EquipmentInput{Name: "Drill", CategoryID: &cat.ID, Stock: intPtr(2)})
	require.NoError(t, err)
	require.NotNil(t, e.Category)

	upd, err := uc.UpdateEquipment(ctx, admin, e.ID, EquipmentInput{
		Name:      "Hammer drill",
		Condition: domain.ConditionDamaged,
		DailyRate: i64Ptr(30000),
	})
	require.NoError(t, err)
	assert.Equal(t, "Hammer drill", upd.Name)
	assert.Equal(t, domain.ConditionDamaged, upd.Condition)
	assert.Equal(t, 2, upd.Stock)
	assert.Equal(t, int64(30000), upd.DailyRate)
	assert.Nil(t, upd.CategoryID)

	// editing equipment never renames its category
	cats, err := uc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Power tools", cats[0].Name)

	_, err = uc.UpdateEquipment(ctx, admin, 999, EquipmentInput{Name: "x"})
	assert.Equal(t, "equipment_not_found", code(err))

	_, err = uc.UpdateEquipment(ctx, admin, e.ID, EquipmentInput{Name: "x", Stock: intPtr(-1)})
	assert.Equal(t, "invalid_stock", code(err))
}

func TestListEquipmentViews(t *testing.T) {
	uc, db := setup(t, nil)
	ctx := context.Background()

	b := testutil.CreateEquipment(t, db, "Bolt cutter", 3, 1000)
	a := testutil.CreateEquipment(t, db, "Angle grinder", 2, 1000)
	broken := testutil.CreateEquipment(t, db, "Chainsaw", 1, 1000)
	require.NoError(t, db.Model(broken).Update("condition", domain.ConditionDamaged).Error)

	u := testutil.CreateUser(t, db, "budi", auth.RoleBorrower)
	day := testutil.Date(2024, 1, 1)
	testutil.CreateLoan(t, db, u.ID, b.ID, 2, "pending", day, day.Add(48*time.Hour))

	mgmt, err := uc.ListEquipment(ctx, admin, domain.EquipmentFilter{})
	require.NoError(t, err)
	require.Len(t, mgmt, 3)
	assert.Equal(t, broken.ID, mgmt[0].ID)
	assert.Equal(t, b.ID, mgmt[2].ID)
	assert.Equal(t, 1, mgmt[2].AvailableQuantity)

	borrower := auth.Identity{UserID: u.ID, Role: auth.RoleBorrower}
	view, err := uc.ListEquipment(ctx, borrower, domain.EquipmentFilter{Condition: domain.ConditionDamaged})
	require.NoError(t, err)
	require.Len(t, view, 2)
	assert.Equal(t, a.ID, view[0].ID)
	assert.Equal(t, b.ID, view[1].ID)

	found, err := uc.ListEquipment(ctx, admin, domain.EquipmentFilter{Query: "GRIND"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, a.ID, found[0].ID)

	_, err = uc.ListEquipment(ctx, admin, domain.EquipmentFilter{Condition: "broken"})
	assert.Equal(t, "invalid_condition", code(err))
}

func TestDeleteEquipmentWithLoansConflicts(t *testing.T) {
	uc, db := setup(t, nil)
	ctx := context.Background()

	e := testutil.CreateEquipment(t, db, "Drill", 1, 1000)
	free := testutil.CreateEquipment(t, db, "Saw", 1, 1000)
	u := testutil.CreateUser(t, db, "budi", auth.RoleBorrower)
	day := testutil.Date(2024, 1, 1)
	testutil.CreateLoan(t, db, u.ID, e.ID, 1, "rejected", day, day.Add(24*time.Hour))

	err := uc.DeleteEquipment(ctx, admin, e.ID)
	assert.Equal(t, "equipment_has_loans", code(err))
	kind, _ := httperr.KindOf(err)
	assert.Equal(t, httperr.KindConflict, kind)

	require.NoError(t, uc.DeleteEquipment(ctx, admin, free.ID))
	assert.Equal(t, "equipment_not_found", code(uc.DeleteEquipment(ctx, admin, free.ID)))
}

func TestCategoryCRUD(t *testing.T) {
	uc, db := setup(t, nil)
	ctx := context.Background()

	_, err := uc.CreateCategory(ctx, admin, CategoryInput{})
	assert.Equal(t, "name_required", code(err))

	z, err := uc.CreateCategory(ctx, admin, CategoryInput{Name: "Zeta"})
	require.NoError(t, err)
	a, err := uc.CreateCategory(ctx, admin, CategoryInput{Name: "Alpha", Description: "first"})
	require.NoError(t, err)

	cats, err := uc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Alpha", cats[0].Name)

	upd, err := uc.UpdateCategory(ctx, admin, z.ID, CategoryInput{Name: "Omega"})
	require.NoError(t, err)
	assert.Equal(t, "Omega", upd.Name)

	_, err = uc.UpdateCategory(ctx, admin, 404, CategoryInput{Name: "x"})
	assert.Equal(t, "category_not_found", code(err))

	e, err := uc.CreateEquipment(ctx, admin, EquipmentInput{Name: "Drill", CategoryID: &a.ID})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteCategory(ctx, admin, a.ID))
	var stored models.Equipment
	require.NoError(t, db.First(&stored, e.ID).Error)
	assert.Nil(t, stored.CategoryID)

	assert.Equal(t, "category_not_found", code(uc.DeleteCategory(ctx, admin, a.ID)))
}

func TestUploadImage(t *testing.T) {
	store := &memStore{}
	uc, db := setup(t, store)
	ctx := context.Background()
	e := testutil.CreateEquipment(t, db, "Drill", 1, 1000)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 48))))

	view, err := uc.UploadImage(ctx, admin, e.ID, &buf)
	require.NoError(t, err)
	require.Len(t, store.keys, 1)
	assert.True(t, strings.HasPrefix(store.keys[0], "equipment/"))
	assert.True(t, strings.HasSuffix(store.keys[0], ".webp"))
	assert.Equal(t, "https://cdn.test/"+store.keys[0], view.ImageURL)

	_, err = uc.UploadImage(ctx, admin, e.ID, strings.NewReader("nope"))
	assert.Equal(t, "invalid_image", code(err))

	_, err = uc.UploadImage(ctx, admin, 999, strings.NewReader("nope"))
	assert.Equal(t, "equipment_not_found", code(err))
}

func TestUploadImageWithoutStorage(t *testing.T) {
	uc, db := setup(t, nil)
	e := testutil.CreateEquipment(t, db, "Drill", 1, 1000)

	_, err := uc.UploadImage(context.Background(), admin, e.ID, strings.NewReader("x"))
	assert.Equal(t, "storage_unavailable", code(err))
}

// =======================================================
// Stock moves committed while an edit is in flight
// =======================================================

func TestUpdateEquipmentKeepsConcurrentStockMoves(t *testing.T) {
	uc, db := setup(t, nil)
	ctx := context.Background()

	e := testutil.CreateEquipment(t, db, "Drill", 3, 1000)

	// An approval takes two units after the edit has read the row and
	// before it writes.
	fired := false
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:approve_between", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "equipment" {
			return
		}
		fired = true
		err := tx.Session(&gorm.Session{NewDB: true}).
			Exec("UPDATE equipment SET stock = stock - 2 WHERE id = ?", e.ID).Error
		require.NoError(t, err)
	}))

	upd, err := uc.UpdateEquipment(ctx, admin, e.ID, EquipmentInput{Name: "Drill renamed"})
	require.NoError(t, err)
	require.True(t, fired)

	assert.Equal(t, "Drill renamed", upd.Name)
	assert.Equal(t, 1, upd.Stock)
	assert.Equal(t, 1, testutil.ReloadEquipment(t, db, e.ID).Stock)

	// an explicit stock edit is still written
	upd, err = uc.UpdateEquipment(ctx, admin, e.ID, EquipmentInput{Name: "Drill", Stock: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, 0, upd.Stock)
	assert.Equal(t, domain.StatusOnLoan, upd.Status)
}

func TestGetEquipmentHidesDamagedFromBorrowers(t *testing.T) {
	uc, db := setup(t, nil)
	ctx := context.Background()

	ok := testutil.CreateEquipment(t, db, "Ladder", 1, 1000)
	broken := testutil.CreateEquipment(t, db, "Chainsaw", 1, 1000)
	require.NoError(t, db.Model(broken).Update("condition", domain.ConditionDamaged).Error)

	u := testutil.CreateUser(t, db, "budi", auth.RoleBorrower)
	borrower := auth.Identity{UserID: u.ID, Username: u.Username, Role: auth.RoleBorrower}

	v, err := uc.GetEquipment(ctx, borrower, ok.ID)
	require.NoError(t, err)
	assert.Equal(t, ok.ID, v.ID)

	_, err = uc.GetEquipment(ctx, borrower, broken.ID)
	assert.Equal(t, "equipment_not_found", code(err))
	kind, _ := httperr.KindOf(err)
	assert.Equal(t, httperr.KindNotFound, kind)

	v, err = uc.GetEquipment(ctx, admin, broken.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ConditionDamaged, v.Condition)
}
