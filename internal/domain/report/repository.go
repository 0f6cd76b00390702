package report

import (
	"context"
	"time"

	"github.com/BruksfildServices01/equipment-rental/internal/models"
)

type Repository interface {
	// LoansInPeriod returns loans with loan_date in [from, to], newest first.
	LoansInPeriod(ctx context.Context, from, to time.Time, status string) ([]models.Loan, error)
	TopEquipment(ctx context.Context, from, to time.Time, limit int) ([]TopEquipment, error)
	Stats(ctx context.Context) (Stats, error)
	ListActivity(ctx context.Context, f ActivityFilter) ([]models.ActivityLog, int64, error)
}
