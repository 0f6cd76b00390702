package loan

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/equipment-rental/internal/audit"
	"github.com/BruksfildServices01/equipment-rental/internal/auth"
	domain "github.com/BruksfildServices01/equipment-rental/internal/domain/loan"
	"github.com/BruksfildServices01/equipment-rental/internal/models"
)

type UpdateLoanInput struct {
	Actor  auth.Identity
	LoanID uint

	LoanDate          string
	PlannedReturnDate string
	Quantity          int
}

// UpdateLoan corrects the dates or quantity of a request still pending.
type UpdateLoan struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateLoan(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateLoan {
	return &UpdateLoan{
		repo:  repo,
		audit: audit,
	}
}

func (uc *UpdateLoan) Execute(
	ctx context.Context,
	in UpdateLoanInput,
) (*models.Loan, error) {

	qty, err := normalizeQuantity(in.Quantity)
	if err != nil {
		return nil, err
	}

	p, err := parsePeriod(in.LoanDate, in.PlannedReturnDate)
	if err != nil {
		return nil, err
	}

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		l, eq, err := lockForUpdate(ctx, tx, in.LoanID)
		if err != nil {
			return err
		}

		if err := domain.CanEdit(domain.Status(l.Status)); err != nil {
			return err
		}
		if err := assertGoodCondition(eq); err != nil {
			return err
		}
		if err := assertLendable(ctx, tx, eq, qty, l.ID); err != nil {
			return err
		}

		l.LoanDate = p.loanDate
		l.PlannedReturnDate = p.planned
		l.Quantity = qty
		return tx.UpdateLoan(ctx, l)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:      uintPtr(in.Actor.UserID),
		Action:      "loan_updated",
		Entity:      "loan",
		EntityID:    uintPtr(in.LoanID),
		Description: fmt.Sprintf("%s updated loan #%d", in.Actor.Username, in.LoanID),
	})

	return uc.repo.GetLoan(ctx, in.LoanID)
}
