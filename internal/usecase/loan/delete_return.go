package loan

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/equipment-rental/internal/audit"
	"github.com/BruksfildServices01/equipment-rental/internal/auth"
	domain "github.com/BruksfildServices01/equipment-rental/internal/domain/loan"
	"github.com/BruksfildServices01/equipment-rental/internal/models"
)

// DeleteReturn undoes a processed return: the loan goes back to approved
// and its units leave the shelf again.
type DeleteReturn struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteReturn(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteReturn {
	return &DeleteReturn{
		repo:  repo,
		audit: audit,
	}
}

func (uc *DeleteReturn) Execute(
	ctx context.Context,
	actor auth.Identity,
	returnID uint,
) (*models.Loan, error) {

	var loanID uint
	err := uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		ret, err := tx.GetReturn(ctx, returnID)
		if err != nil {
			return err
		}

		l, _, err := lockForUpdate(ctx, tx, ret.LoanID)
		if err != nil {
			return err
		}
		if _, err := tx.LockReturn(ctx, returnID); err != nil {
			return err
		}

		if err := domain.CanUndoReturn(domain.Status(l.Status)); err != nil {
			return err
		}

		// units may have been lent out again since the return
		if err := tx.TakeStock(ctx, l.EquipmentID, l.Quantity); err != nil {
			return err
		}

		if err := tx.DeleteReturn(ctx, returnID); err != nil {
			return err
		}

		l.Status = string(domain.StatusApproved)
		loanID = l.ID
		return tx.UpdateLoan(ctx, l)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:      uintPtr(actor.UserID),
		Action:      "return_deleted",
		Entity:      "loan",
		EntityID:    uintPtr(loanID),
		Description: fmt.Sprintf("%s deleted return #%d, loan #%d is approved again", actor.Username, returnID, loanID),
	})

	return uc.repo.GetLoan(ctx, loanID)
}
