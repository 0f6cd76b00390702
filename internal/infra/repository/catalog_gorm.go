package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/equipment-rental/internal/domain/catalog"
	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
	"github.com/BruksfildServices01/equipment-rental/internal/models"
)

type CatalogGormRepository struct {
	db *gorm.DB
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

func (r *CatalogGormRepository) WithinTx(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&CatalogGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Categories
// --------------------------------------------------

func (r *CatalogGormRepository) ListCategories(
	ctx context.Context,
) ([]models.Category, error) {

	var cats []models.Category
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *CatalogGormRepository) GetCategory(
	ctx context.Context,
	id uint,
) (*models.Category, error) {

	var c models.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err, "category_not_found", "category not found")
	}
	return &c, nil
}

func (r *CatalogGormRepository) CreateCategory(
	ctx context.Context,
	c *models.Category,
) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CatalogGormRepository) UpdateCategory(
	ctx context.Context,
	c *models.Category,
) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CatalogGormRepository) DeleteCategory(
	ctx context.Context,
	id uint,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Equipment{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return httperr.ErrNotFound("category_not_found", "category not found")
		}
		return nil
	})
}

// --------------------------------------------------
// Equipment
// --------------------------------------------------

type pendingRow struct {
	EquipmentID uint
	Quantity    int
}

// pendingByEquipment sums units held by pending requests per equipment.
func (r *CatalogGormRepository) pendingByEquipment(
	ctx context.Context,
	ids []uint,
) (map[uint]int, error) {

	out := make(map[uint]int, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []pendingRow
	if err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Select("equipment_id, SUM(quantity) AS quantity").
		Where("status = ? AND equipment_id IN ?", "pending", ids).
		Group("equipment_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.EquipmentID] = row.Quantity
	}
	return out, nil
}

func (r *CatalogGormRepository) toViews(
	ctx context.Context,
	items []models.Equipment,
) ([]domain.EquipmentView, error) {

	ids := make([]uint, 0, len(items))
	for _, e := range items {
		ids = append(ids, e.ID)
	}

	held, err := r.pendingByEquipment(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]domain.EquipmentView, 0, len(items))
	for _, e := range items {
		views = append(views, domain.EquipmentView{
			Equipment:         e,
			AvailableQuantity: max(e.Stock-held[e.ID], 0),
		})
	}
	return views, nil
}

func (r *CatalogGormRepository) ListEquipment(
	ctx context.Context,
	f domain.EquipmentFilter,
) ([]domain.EquipmentView, error) {

	q := r.db.WithContext(ctx).Preload("Category")

	if f.BorrowerView {
		q = q.Where("condition = ?", domain.ConditionGood)
	} else if f.Condition != "" {
		q = q.Where("condition = ?", f.Condition)
	}

	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if query := strings.ToLower(strings.TrimSpace(f.Query)); query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	if f.BorrowerView {
		q = q.Order("name ASC")
	} else {
		q = q.Order("id DESC")
	}

	var items []models.Equipment
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return r.toViews(ctx, items)
}

func (r *CatalogGormRepository) GetEquipment(
	ctx context.Context,
	id uint,
) (*domain.EquipmentView, error) {

	var e models.Equipment
	if err := r.db.WithContext(ctx).
		Preload("Category").
		First(&e, id).Error; err != nil {
		return nil, notFound(err, "equipment_not_found", "equipment not found")
	}

	views, err := r.toViews(ctx, []models.Equipment{e})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (r *CatalogGormRepository) CreateEquipment(
	ctx context.Context,
	e *models.Equipment,
) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(e).Error
}

func (r *CatalogGormRepository) LockEquipment(
	ctx context.Context,
	id uint,
) (*models.Equipment, error) {

	var e models.Equipment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&e, id).Error; err != nil {
		return nil, notFound(err, "equipment_not_found", "equipment not found")
	}
	return &e, nil
}

func (r *CatalogGormRepository) UpdateEquipment(
	ctx context.Context,
	e *models.Equipment,
	withStock bool,
) error {

	cols := []string{"name", "category_id", "condition", "daily_rate", "description", "updated_at"}
	if withStock {
		cols = append(cols, "stock", "status")
	}

	return r.db.WithContext(ctx).
		Model(e).
		Select(cols).
		Updates(e).Error
}

func (r *CatalogGormRepository) SetEquipmentImage(
	ctx context.Context,
	id uint,
	url string,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Equipment{}).
		Where("id = ?", id).
		Update("image_url", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("equipment_not_found", "equipment not found")
	}
	return nil
}

func (r *CatalogGormRepository) CountLoansForEquipment(
	ctx context.Context,
	id uint,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("equipment_id = ?", id).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CatalogGormRepository) DeleteEquipment(
	ctx context.Context,
	id uint,
) error {

	res := r.db.WithContext(ctx).Delete(&models.Equipment{}, id)
	if httperr.IsForeignKeyViolation(res.Error) {
		return errEquipmentHasLoans
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("equipment_not_found", "equipment not found")
	}
	return nil
}

var errEquipmentHasLoans = httperr.ErrConflict("equipment_has_loans", "equipment is referenced by loans")

var _ domain.Repository = (*CatalogGormRepository)(nil)
