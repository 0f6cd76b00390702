package loan

import (
	"context"

	"github.com/BruksfildServices01/equipment-rental/internal/auth"
	domain "github.com/BruksfildServices01/equipment-rental/internal/domain/loan"
	"github.com/BruksfildServices01/equipment-rental/internal/dto"
	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
	"github.com/BruksfildServices01/equipment-rental/internal/models"
)

// ListLoans shows staff every loan and borrowers only their own, each with
// charges as of today.
type ListLoans struct {
	repo          domain.Repository
	today         domain.Clock
	lateFeePerDay int64
}

func NewListLoans(
	repo domain.Repository,
	today domain.Clock,
	lateFeePerDay int64,
) *ListLoans {
	return &ListLoans{
		repo:          repo,
		today:         today,
		lateFeePerDay: lateFeePerDay,
	}
}

func (uc *ListLoans) Execute(
	ctx context.Context,
	actor auth.Identity,
	f domain.ListFilter,
) ([]dto.LoanDTO, error) {

	if f.Status != "" && !f.Status.Valid() {
		return nil, httperr.ErrValidation("invalid_status", "unknown loan status")
	}

	if actor.Role == auth.RoleBorrower {
		if f.UserID != 0 && f.UserID != actor.UserID {
			return nil, httperr.ErrForbidden("forbidden", "borrowers can only see their own loans")
		}
		f.UserID = actor.UserID
	}

	loans, err := uc.repo.ListLoans(ctx, f)
	if err != nil {
		return nil, err
	}

	today := uc.today()
	out := make([]dto.LoanDTO, 0, len(loans))
	for i := range loans {
		out = append(out, dto.NewLoanDTO(&loans[i], today, uc.lateFeePerDay))
	}
	return out, nil
}

func (uc *ListLoans) Get(
	ctx context.Context,
	actor auth.Identity,
	loanID uint,
) (*dto.LoanDTO, error) {

	l, err := uc.repo.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if actor.Role == auth.RoleBorrower && l.UserID != actor.UserID {
		return nil, httperr.ErrForbidden("forbidden", "borrowers can only see their own loans")
	}

	out := dto.NewLoanDTO(l, uc.today(), uc.lateFeePerDay)
	return &out, nil
}

// Present renders a loan returned by a lifecycle operation.
func (uc *ListLoans) Present(l *models.Loan) dto.LoanDTO {
	return dto.NewLoanDTO(l, uc.today(), uc.lateFeePerDay)
}

func (uc *ListLoans) Returns(ctx context.Context) ([]dto.ReturnDTO, error) {
	rets, err := uc.repo.ListReturns(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ReturnDTO, 0, len(rets))
	for i := range rets {
		out = append(out, dto.NewReturnDTO(&rets[i]))
	}
	return out, nil
}
