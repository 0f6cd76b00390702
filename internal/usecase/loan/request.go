package loan

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/equipment-rental/internal/audit"
	"github.com/BruksfildServices01/equipment-rental/internal/auth"
	domain "github.com/BruksfildServices01/equipment-rental/internal/domain/loan"
	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
	"github.com/BruksfildServices01/equipment-rental/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type RequestLoanInput struct {
	Actor auth.Identity

	// UserID is the borrower; borrowers may leave it empty.
	UserID      uint
	EquipmentID uint

	LoanDate          string
	PlannedReturnDate string
	Quantity          int
}

// ======================================================
// USE CASE
// ======================================================

type RequestLoan struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewRequestLoan(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *RequestLoan {
	return &RequestLoan{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *RequestLoan) Execute(
	ctx context.Context,
	in RequestLoanInput,
) (*models.Loan, error) {

	// --------------------------------------------------
	// 1. Who the loan is for
	// --------------------------------------------------
	borrowerID, err := resolveBorrower(in.Actor, in.UserID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Input shape
	// --------------------------------------------------
	if in.EquipmentID == 0 {
		return nil, httperr.ErrValidation("equipment_required", "equipment_id is required")
	}

	qty, err := normalizeQuantity(in.Quantity)
	if err != nil {
		return nil, err
	}

	p, err := parsePeriod(in.LoanDate, in.PlannedReturnDate)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Checks and insert under the equipment lock
	// --------------------------------------------------
	var created models.Loan
	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		eq, err := tx.LockEquipment(ctx, in.EquipmentID)
		if err != nil {
			return err
		}

		if err := assertGoodCondition(eq); err != nil {
			return err
		}

		borrower, err := tx.GetUser(ctx, borrowerID)
		if err != nil {
			return err
		}
		if borrower.Role != auth.RoleBorrower {
			return httperr.ErrValidation("not_a_borrower", "loans can only be made for borrower accounts")
		}

		dup, err := tx.HasActiveLoan(ctx, borrowerID, eq.ID, 0)
		if err != nil {
			return err
		}
		if dup {
			return httperr.ErrConflict("duplicate_active_loan", "borrower already has a pending or approved loan for this equipment")
		}

		if err := assertLendable(ctx, tx, eq, qty, 0); err != nil {
			return err
		}

		created = models.Loan{
			UserID:            borrowerID,
			EquipmentID:       eq.ID,
			Quantity:          qty,
			LoanDate:          p.loanDate,
			PlannedReturnDate: p.planned,
			Status:            string(domain.InitialStatus()),
		}
		return tx.CreateLoan(ctx, &created)
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4. Activity log
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		UserID:      uintPtr(in.Actor.UserID),
		Action:      "loan_requested",
		Entity:      "loan",
		EntityID:    uintPtr(created.ID),
		Description: fmt.Sprintf("%s requested %d unit(s) of equipment #%d", in.Actor.Username, qty, created.EquipmentID),
	})

	return uc.repo.GetLoan(ctx, created.ID)
}

func resolveBorrower(actor auth.Identity, requested uint) (uint, error) {
	switch actor.Role {
	case auth.RoleBorrower:
		if requested != 0 && requested != actor.UserID {
			return 0, httperr.ErrForbidden("forbidden", "borrowers can only request loans for themselves")
		}
		return actor.UserID, nil
	case auth.RoleAdmin:
		if requested == 0 {
			return 0, httperr.ErrValidation("borrower_required", "user_id is required")
		}
		return requested, nil
	}
	return 0, httperr.ErrForbidden("forbidden", "role not allowed to create loans")
}
