package loan

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/equipment-rental/internal/audit"
	"github.com/BruksfildServices01/equipment-rental/internal/auth"
	domain "github.com/BruksfildServices01/equipment-rental/internal/domain/loan"
	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
	"github.com/BruksfildServices01/equipment-rental/internal/models"
	"github.com/BruksfildServices01/equipment-rental/internal/timezone"
)

type ReturnResult struct {
	Return  *models.LoanReturn
	Charges domain.Charges
}

type ProcessReturn struct {
	repo          domain.Repository
	audit         *audit.Dispatcher
	lateFeePerDay int64
}

func NewProcessReturn(
	repo domain.Repository,
	audit *audit.Dispatcher,
	lateFeePerDay int64,
) *ProcessReturn {
	return &ProcessReturn{
		repo:          repo,
		audit:         audit,
		lateFeePerDay: lateFeePerDay,
	}
}

func parseReturnDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, httperr.ErrValidation("invalid_date", "return_date is required")
	}
	return timezone.ParseDate(s)
}

func (uc *ProcessReturn) Execute(
	ctx context.Context,
	actor auth.Identity,
	loanID uint,
	returnDate string,
) (*ReturnResult, error) {

	// --------------------------------------------------
	// 1. Return date
	// --------------------------------------------------
	date, err := parseReturnDate(returnDate)
	if err != nil {
		return nil, err
	}
	ret := models.LoanReturn{ReturnDate: date}

	// --------------------------------------------------
	// 2. Close the loan and put the units back
	// --------------------------------------------------
	var charges domain.Charges
	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		l, eq, err := lockForUpdate(ctx, tx, loanID)
		if err != nil {
			return err
		}

		if err := domain.CanReturn(domain.Status(l.Status)); err != nil {
			return err
		}

		if ret.ReturnDate.Before(l.LoanDate) {
			return httperr.ErrValidation("return_before_loan", "return_date cannot be before loan_date")
		}

		charges = domain.ComputeCharges(domain.ChargeInput{
			LoanDate:          l.LoanDate,
			PlannedReturnDate: l.PlannedReturnDate,
			ReturnDate:        ret.ReturnDate,
			DailyRate:         eq.DailyRate,
			Quantity:          l.Quantity,
			LateFeePerDay:     uc.lateFeePerDay,
		})

		ret.LoanID = l.ID
		ret.RentalCost = charges.RentalCost
		ret.LateFee = charges.LateFee
		ret.ProcessedBy = uintPtr(actor.UserID)
		if err := tx.CreateReturn(ctx, &ret); err != nil {
			return err
		}

		l.Status = string(domain.StatusReturned)
		if err := tx.UpdateLoan(ctx, l); err != nil {
			return err
		}

		return tx.PutBackStock(ctx, l.EquipmentID, l.Quantity)
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Activity log
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		UserID:   uintPtr(actor.UserID),
		Action:   "loan_returned",
		Entity:   "loan",
		EntityID: uintPtr(loanID),
		Description: fmt.Sprintf("%s processed return of loan #%d (rent %d, late fee %d)",
			actor.Username, loanID, charges.RentalCost, charges.LateFee),
	})

	return &ReturnResult{Return: &ret, Charges: charges}, nil
}
