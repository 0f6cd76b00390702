package catalog

import (
	"context"

	"github.com/BruksfildServices01/equipment-rental/internal/models"
)

type Repository interface {
	// WithinTx runs fn with a repository bound to one transaction.
	WithinTx(ctx context.Context, fn func(tx Repository) error) error

	// -------- Categories --------
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	UpdateCategory(ctx context.Context, c *models.Category) error
	// DeleteCategory detaches equipment from the category before removing it.
	DeleteCategory(ctx context.Context, id uint) error

	// -------- Equipment --------
	ListEquipment(ctx context.Context, f EquipmentFilter) ([]EquipmentView, error)
	GetEquipment(ctx context.Context, id uint) (*EquipmentView, error)
	CreateEquipment(ctx context.Context, e *models.Equipment) error
	// LockEquipment reads the row with FOR UPDATE; call it inside WithinTx.
	LockEquipment(ctx context.Context, id uint) (*models.Equipment, error)
	// UpdateEquipment writes the descriptive columns, and stock/status only
	// when withStock is set, so concurrent stock moves are never overwritten.
	UpdateEquipment(ctx context.Context, e *models.Equipment, withStock bool) error
	SetEquipmentImage(ctx context.Context, id uint, url string) error
	CountLoansForEquipment(ctx context.Context, id uint) (int64, error)
	DeleteEquipment(ctx context.Context, id uint) error
}
