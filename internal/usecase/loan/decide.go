package loan

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/equipment-rental/internal/audit"
	"github.com/BruksfildServices01/equipment-rental/internal/auth"
	domain "github.com/BruksfildServices01/equipment-rental/internal/domain/loan"
	"github.com/BruksfildServices01/equipment-rental/internal/models"
)

type DecideLoan struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDecideLoan(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DecideLoan {
	return &DecideLoan{
		repo:  repo,
		audit: audit,
	}
}

// Execute approves or rejects a pending loan. Approval takes the units off
// the shelf in the same transaction.
func (uc *DecideLoan) Execute(
	ctx context.Context,
	actor auth.Identity,
	loanID uint,
	decision string,
) (*models.Loan, error) {

	next, err := domain.ParseDecision(decision)
	if err != nil {
		return nil, err
	}

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		l, _, err := lockForUpdate(ctx, tx, loanID)
		if err != nil {
			return err
		}

		if err := domain.CanDecide(domain.Status(l.Status)); err != nil {
			return err
		}

		if next == domain.StatusApproved {
			if err := tx.TakeStock(ctx, l.EquipmentID, l.Quantity); err != nil {
				return err
			}
		}

		now := time.Now()
		l.Status = string(next)
		l.DecidedBy = uintPtr(actor.UserID)
		l.DecidedAt = &now

		return tx.UpdateLoan(ctx, l)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:      uintPtr(actor.UserID),
		Action:      "loan_" + string(next),
		Entity:      "loan",
		EntityID:    uintPtr(loanID),
		Description: fmt.Sprintf("%s %s loan #%d", actor.Username, next, loanID),
	})

	return uc.repo.GetLoan(ctx, loanID)
}
