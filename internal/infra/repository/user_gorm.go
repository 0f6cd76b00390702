package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/equipment-rental/internal/domain/user"
	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
	"github.com/BruksfildServices01/equipment-rental/internal/models"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

func (r *UserGormRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Order("id DESC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserGormRepository) Get(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err, "user_not_found", "user not found")
	}
	return &u, nil
}

func (r *UserGormRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&u).Error; err != nil {
		return nil, notFound(err, "user_not_found", "user not found")
	}
	return &u, nil
}

func (r *UserGormRepository) UsernameTaken(
	ctx context.Context,
	username string,
	excludeID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ? AND id <> ?", username, excludeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserGormRepository) Create(ctx context.Context, u *models.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if httperr.IsUniqueViolation(err) {
		return httperr.ErrConflict("username_taken", "username is already taken")
	}
	return err
}

func (r *UserGormRepository) Update(ctx context.Context, u *models.User) error {
	err := r.db.WithContext(ctx).Save(u).Error
	if httperr.IsUniqueViolation(err) {
		return httperr.ErrConflict("username_taken", "username is already taken")
	}
	return err
}

func (r *UserGormRepository) CountLoans(ctx context.Context, id uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("user_id = ?", id).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserGormRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if httperr.IsForeignKeyViolation(res.Error) {
		return httperr.ErrConflict("user_has_loans", "user is referenced by loans")
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("user_not_found", "user not found")
	}
	return nil
}

var _ domain.Repository = (*UserGormRepository)(nil)
