package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/equipment-rental/internal/audit"
	"github.com/BruksfildServices01/equipment-rental/internal/auth"
	domain "github.com/BruksfildServices01/equipment-rental/internal/domain/catalog"
	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
	"github.com/BruksfildServices01/equipment-rental/internal/media"
	"github.com/BruksfildServices01/equipment-rental/internal/models"
	"github.com/BruksfildServices01/equipment-rental/internal/storage"
)

type CategoryInput struct {
	Name        string
	Description string
}

// EquipmentInput carries the mutable equipment fields. Nil pointers take
// the default on create and keep the stored value on update.
type EquipmentInput struct {
	Name        string
	CategoryID  *uint
	Condition   string
	Stock       *int
	DailyRate   *int64
	Description string
}

type Usecase struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	images *media.Processor
	store  storage.ObjectStore
}

// NewUsecase accepts a nil store; image uploads then report unavailable.
func NewUsecase(
	repo domain.Repository,
	audit *audit.Dispatcher,
	images *media.Processor,
	store storage.ObjectStore,
) *Usecase {
	return &Usecase{repo: repo, audit: audit, images: images, store: store}
}

func (u *Usecase) log(actor auth.Identity, action, entity string, id uint, format string, args ...any) {
	u.audit.Dispatch(audit.Event{
		UserID:      &actor.UserID,
		Action:      action,
		Entity:      entity,
		EntityID:    &id,
		Description: actor.Username + " " + fmt.Sprintf(format, args...),
	})
}

// ======================================================
// Categories
// ======================================================

func (u *Usecase) ListCategories(ctx context.Context) ([]models.Category, error) {
	return u.repo.ListCategories(ctx)
}

func (u *Usecase) CreateCategory(
	ctx context.Context,
	actor auth.Identity,
	in CategoryInput,
) (*models.Category, error) {

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, httperr.ErrValidation("name_required", "name is required")
	}

	c := &models.Category{Name: name, Description: strings.TrimSpace(in.Description)}
	if err := u.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}

	u.log(actor, "category_created", "category", c.ID, "created category %q", c.Name)
	return c, nil
}

func (u *Usecase) UpdateCategory(
	ctx context.Context,
	actor auth.Identity,
	id uint,
	in CategoryInput,
) (*models.Category, error) {

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, httperr.ErrValidation("name_required", "name is required")
	}

	c, err := u.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Name = name
	c.Description = strings.TrimSpace(in.Description)
	if err := u.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}

	u.log(actor, "category_updated", "category", c.ID, "updated category %q", c.Name)
	return c, nil
}

func (u *Usecase) DeleteCategory(
	ctx context.Context,
	actor auth.Identity,
	id uint,
) error {

	if err := u.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}

	u.log(actor, "category_deleted", "category", id, "deleted category #%d", id)
	return nil
}

// ======================================================
// Equipment
// ======================================================

// ListEquipment gives borrowers only lendable items sorted by name.
func (u *Usecase) ListEquipment(
	ctx context.Context,
	actor auth.Identity,
	f domain.EquipmentFilter,
) ([]domain.EquipmentView, error) {

	if f.Condition != "" && !domain.IsCondition(f.Condition) {
		return nil, httperr.ErrValidation("invalid_condition", "condition must be good or damaged")
	}
	f.BorrowerView = actor.Role == auth.RoleBorrower
	return u.repo.ListEquipment(ctx, f)
}

// GetEquipment hides damaged items from borrowers, as the listing does.
func (u *Usecase) GetEquipment(
	ctx context.Context,
	actor auth.Identity,
	id uint,
) (*domain.EquipmentView, error) {

	v, err := u.repo.GetEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == auth.RoleBorrower && v.Condition != domain.ConditionGood {
		return nil, httperr.ErrNotFound("equipment_not_found", "equipment not found")
	}
	return v, nil
}

func apply(ctx context.Context, repo domain.Repository, e *models.Equipment, in EquipmentInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return httperr.ErrValidation("name_required", "name is required")
	}
	e.Name = name
	e.Description = strings.TrimSpace(in.Description)

	if in.Condition != "" {
		if !domain.IsCondition(in.Condition) {
			return httperr.ErrValidation("invalid_condition", "condition must be good or damaged")
		}
		e.Condition = in.Condition
	}

	if in.Stock != nil {
		if *in.Stock < 0 {
			return httperr.ErrValidation("invalid_stock", "stock cannot be negative")
		}
		e.Stock = *in.Stock
	}

	if in.DailyRate != nil {
		if *in.DailyRate < 0 {
			return httperr.ErrValidation("invalid_daily_rate", "daily_rate cannot be negative")
		}
		e.DailyRate = *in.DailyRate
	}

	e.CategoryID = nil
	if in.CategoryID != nil && *in.CategoryID != 0 {
		if _, err := repo.GetCategory(ctx, *in.CategoryID); err != nil {
			if httperr.IsBusiness(err, "category_not_found") {
				return httperr.ErrValidation("category_not_found", "category does not exist")
			}
			return err
		}
		e.CategoryID = in.CategoryID
	}

	e.Status = domain.StatusForStock(e.Stock)
	return nil
}

func (u *Usecase) CreateEquipment(
	ctx context.Context,
	actor auth.Identity,
	in EquipmentInput,
) (*domain.EquipmentView, error) {

	e := &models.Equipment{
		Condition: domain.ConditionGood,
		Stock:     1,
	}
	if err := apply(ctx, u.repo, e, in); err != nil {
		return nil, err
	}

	if err := u.repo.CreateEquipment(ctx, e); err != nil {
		return nil, err
	}

	u.log(actor, "equipment_created", "equipment", e.ID, "created equipment %q", e.Name)
	return u.repo.GetEquipment(ctx, e.ID)
}

func (u *Usecase) UpdateEquipment(
	ctx context.Context,
	actor auth.Identity,
	id uint,
	in EquipmentInput,
) (*domain.EquipmentView, error) {

	// The row lock orders this edit with approvals and returns; stock is
	// only written back when the caller sets it.
	var name string
	err := u.repo.WithinTx(ctx, func(tx domain.Repository) error {
		e, err := tx.LockEquipment(ctx, id)
		if err != nil {
			return err
		}
		if err := apply(ctx, tx, e, in); err != nil {
			return err
		}
		name = e.Name
		return tx.UpdateEquipment(ctx, e, in.Stock != nil)
	})
	if err != nil {
		return nil, err
	}

	u.log(actor, "equipment_updated", "equipment", id, "updated equipment %q", name)
	return u.repo.GetEquipment(ctx, id)
}

// DeleteEquipment refuses while any loan, in any status, references the item.
func (u *Usecase) DeleteEquipment(
	ctx context.Context,
	actor auth.Identity,
	id uint,
) error {

	// Loan requests lock the same row, so none can slip in between the
	// count and the delete.
	var name string
	err := u.repo.WithinTx(ctx, func(tx domain.Repository) error {
		e, err := tx.LockEquipment(ctx, id)
		if err != nil {
			return err
		}
		name = e.Name

		n, err := tx.CountLoansForEquipment(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return httperr.ErrConflict("equipment_has_loans", "equipment is referenced by loans")
		}
		return tx.DeleteEquipment(ctx, id)
	})
	if err != nil {
		return err
	}

	u.log(actor, "equipment_deleted", "equipment", id, "deleted equipment %q", name)
	return nil
}

// UploadImage stores a WebP rendition of the photo and links it to the item.
func (u *Usecase) UploadImage(
	ctx context.Context,
	actor auth.Identity,
	id uint,
	file io.Reader,
) (*domain.EquipmentView, error) {

	if u.store == nil {
		return nil, httperr.ErrUnavailable("storage_unavailable", "image storage is not configured")
	}

	if _, err := u.repo.GetEquipment(ctx, id); err != nil {
		return nil, err
	}

	body, err := u.images.ToWebP(file)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("equipment/%d/%s.webp", id, uuid.NewString())
	url, err := u.store.Put(ctx, key, body, media.ContentType)
	if err != nil {
		return nil, err
	}

	if err := u.repo.SetEquipmentImage(ctx, id, url); err != nil {
		return nil, err
	}

	u.log(actor, "equipment_image_uploaded", "equipment", id, "uploaded an image for equipment #%d", id)
	return u.repo.GetEquipment(ctx, id)
}
