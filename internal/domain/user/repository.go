package user

import (
	"context"

	"github.com/BruksfildServices01/equipment-rental/internal/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id uint) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// UsernameTaken is an exact, case-sensitive match.
	UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error)

	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
	CountLoans(ctx context.Context, id uint) (int64, error)
	Delete(ctx context.Context, id uint) error
}
