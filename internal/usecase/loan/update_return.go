package loan

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/equipment-rental/internal/audit"
	"github.com/BruksfildServices01/equipment-rental/internal/auth"
	domain "github.com/BruksfildServices01/equipment-rental/internal/domain/loan"
	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
)

// UpdateReturn re-dates a return and recomputes its charges with the
// equipment's current daily rate.
type UpdateReturn struct {
	repo          domain.Repository
	audit         *audit.Dispatcher
	lateFeePerDay int64
}

func NewUpdateReturn(
	repo domain.Repository,
	audit *audit.Dispatcher,
	lateFeePerDay int64,
) *UpdateReturn {
	return &UpdateReturn{
		repo:          repo,
		audit:         audit,
		lateFeePerDay: lateFeePerDay,
	}
}

func (uc *UpdateReturn) Execute(
	ctx context.Context,
	actor auth.Identity,
	returnID uint,
	returnDate string,
) (*ReturnResult, error) {

	date, err := parseReturnDate(returnDate)
	if err != nil {
		return nil, err
	}

	var result ReturnResult
	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		current, err := tx.GetReturn(ctx, returnID)
		if err != nil {
			return err
		}

		l, eq, err := lockForUpdate(ctx, tx, current.LoanID)
		if err != nil {
			return err
		}
		ret, err := tx.LockReturn(ctx, returnID)
		if err != nil {
			return err
		}

		if err := domain.CanUndoReturn(domain.Status(l.Status)); err != nil {
			return err
		}
		if date.Before(l.LoanDate) {
			return httperr.ErrValidation("return_before_loan", "return_date cannot be before loan_date")
		}

		charges := domain.ComputeCharges(domain.ChargeInput{
			LoanDate:          l.LoanDate,
			PlannedReturnDate: l.PlannedReturnDate,
			ReturnDate:        date,
			DailyRate:         eq.DailyRate,
			Quantity:          l.Quantity,
			LateFeePerDay:     uc.lateFeePerDay,
		})

		ret.ReturnDate = date
		ret.RentalCost = charges.RentalCost
		ret.LateFee = charges.LateFee
		ret.ProcessedBy = uintPtr(actor.UserID)
		if err := tx.UpdateReturn(ctx, ret); err != nil {
			return err
		}

		result = ReturnResult{Return: ret, Charges: charges}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:      uintPtr(actor.UserID),
		Action:      "return_updated",
		Entity:      "return",
		EntityID:    uintPtr(returnID),
		Description: fmt.Sprintf("%s re-dated return #%d to %s", actor.Username, returnID, returnDate),
	})

	return &result, nil
}
