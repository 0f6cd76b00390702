package loan

import (
	"context"
	"time"

	"github.com/BruksfildServices01/equipment-rental/internal/models"
)

type ListFilter struct {
	Status      Status
	UserID      uint
	EquipmentID uint
}

type Repository interface {
	// WithinTx runs fn with a repository bound to one transaction.
	WithinTx(ctx context.Context, fn func(tx Repository) error) error

	// -------- Users --------
	GetUser(ctx context.Context, id uint) (*models.User, error)

	// -------- Equipment / stock --------
	LockEquipment(ctx context.Context, id uint) (*models.Equipment, error)

	// PendingQuantity sums units held by pending requests, skipping
	// excludeLoanID.
	PendingQuantity(ctx context.Context, equipmentID uint, excludeLoanID uint) (int, error)

	// TakeStock removes qty units from the shelf only if that many remain.
	TakeStock(ctx context.Context, equipmentID uint, qty int) error
	PutBackStock(ctx context.Context, equipmentID uint, qty int) error

	// -------- Loans --------
	HasActiveLoan(ctx context.Context, userID, equipmentID uint, excludeLoanID uint) (bool, error)
	CreateLoan(ctx context.Context, l *models.Loan) error
	GetLoan(ctx context.Context, id uint) (*models.Loan, error)
	LockLoan(ctx context.Context, id uint) (*models.Loan, error)
	UpdateLoan(ctx context.Context, l *models.Loan) error
	DeleteLoan(ctx context.Context, id uint) error
	ListLoans(ctx context.Context, f ListFilter) ([]models.Loan, error)

	// -------- Returns --------
	CreateReturn(ctx context.Context, r *models.LoanReturn) error
	GetReturn(ctx context.Context, id uint) (*models.LoanReturn, error)
	LockReturn(ctx context.Context, id uint) (*models.LoanReturn, error)
	UpdateReturn(ctx context.Context, r *models.LoanReturn) error
	DeleteReturn(ctx context.Context, id uint) error
	ListReturns(ctx context.Context) ([]models.LoanReturn, error)
}

// Clock yields the current calendar date in the rental timezone.
type Clock func() time.Time
