package loan

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/equipment-rental/internal/audit"
	"github.com/BruksfildServices01/equipment-rental/internal/auth"
	domain "github.com/BruksfildServices01/equipment-rental/internal/domain/loan"
)

type DeleteLoan struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteLoan(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteLoan {
	return &DeleteLoan{
		repo:  repo,
		audit: audit,
	}
}

// Execute removes a pending, approved or rejected loan. Units held by an
// approved loan go back on the shelf.
func (uc *DeleteLoan) Execute(
	ctx context.Context,
	actor auth.Identity,
	loanID uint,
) error {

	err := uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		l, _, err := lockForUpdate(ctx, tx, loanID)
		if err != nil {
			return err
		}

		status := domain.Status(l.Status)
		if err := domain.CanDelete(status); err != nil {
			return err
		}

		if status == domain.StatusApproved {
			if err := tx.PutBackStock(ctx, l.EquipmentID, l.Quantity); err != nil {
				return err
			}
		}

		return tx.DeleteLoan(ctx, l.ID)
	})
	if err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:      uintPtr(actor.UserID),
		Action:      "loan_deleted",
		Entity:      "loan",
		EntityID:    uintPtr(loanID),
		Description: fmt.Sprintf("%s deleted loan #%d", actor.Username, loanID),
	})

	return nil
}
