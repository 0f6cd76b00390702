package loan

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/equipment-rental/internal/domain/catalog"
	domain "github.com/BruksfildServices01/equipment-rental/internal/domain/loan"
	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
	"github.com/BruksfildServices01/equipment-rental/internal/models"
	"github.com/BruksfildServices01/equipment-rental/internal/timezone"
)

// lockForUpdate takes the equipment row lock before the loan row lock, the
// order every lifecycle operation uses.
func lockForUpdate(
	ctx context.Context,
	tx domain.Repository,
	loanID uint,
) (*models.Loan, *models.Equipment, error) {

	current, err := tx.GetLoan(ctx, loanID)
	if err != nil {
		return nil, nil, err
	}

	eq, err := tx.LockEquipment(ctx, current.EquipmentID)
	if err != nil {
		return nil, nil, err
	}

	l, err := tx.LockLoan(ctx, loanID)
	if err != nil {
		return nil, nil, err
	}
	return l, eq, nil
}

type period struct {
	loanDate time.Time
	planned  time.Time
}

func parsePeriod(loanDate, planned string) (period, error) {
	from, err := timezone.ParseDate(loanDate)
	if err != nil {
		return period{}, httperr.ErrValidation("invalid_date", "loan_date must be formatted YYYY-MM-DD")
	}
	to, err := timezone.ParseDate(planned)
	if err != nil {
		return period{}, httperr.ErrValidation("invalid_date", "planned_return_date must be formatted YYYY-MM-DD")
	}
	if !to.After(from) {
		return period{}, httperr.ErrValidation("invalid_date_range", "planned_return_date must be after loan_date")
	}
	return period{loanDate: from, planned: to}, nil
}

func normalizeQuantity(q int) (int, error) {
	if q == 0 {
		return 1, nil
	}
	if q < 1 {
		return 0, httperr.ErrValidation("invalid_quantity", "quantity must be at least 1")
	}
	return q, nil
}

func assertGoodCondition(eq *models.Equipment) error {
	if eq.Condition != catalog.ConditionGood {
		return httperr.ErrConflict("equipment_damaged", "equipment is not in good condition")
	}
	return nil
}

// assertLendable checks the equipment can cover qty more units on top of
// what pending requests already hold.
func assertLendable(
	ctx context.Context,
	tx domain.Repository,
	eq *models.Equipment,
	qty int,
	excludeLoanID uint,
) error {

	held, err := tx.PendingQuantity(ctx, eq.ID, excludeLoanID)
	if err != nil {
		return err
	}

	if available := eq.Stock - held; qty > available {
		return httperr.ErrConflict(
			"insufficient_stock",
			fmt.Sprintf("only %d unit(s) available", max(available, 0)),
		)
	}
	return nil
}

func uintPtr(v uint) *uint { return &v }
