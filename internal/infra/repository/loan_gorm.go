package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/equipment-rental/internal/domain/catalog"
	domain "github.com/BruksfildServices01/equipment-rental/internal/domain/loan"
	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
	"github.com/BruksfildServices01/equipment-rental/internal/models"
)

type LoanGormRepository struct {
	db *gorm.DB
}

func NewLoanGormRepository(db *gorm.DB) *LoanGormRepository {
	return &LoanGormRepository{db: db}
}

func (r *LoanGormRepository) WithinTx(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&LoanGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (r *LoanGormRepository) GetUser(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err, "user_not_found", "user not found")
	}
	return &u, nil
}

// --------------------------------------------------
// Equipment / stock
// --------------------------------------------------

func (r *LoanGormRepository) LockEquipment(
	ctx context.Context,
	id uint,
) (*models.Equipment, error) {

	var e models.Equipment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&e, id).Error; err != nil {
		return nil, notFound(err, "equipment_not_found", "equipment not found")
	}
	return &e, nil
}

func (r *LoanGormRepository) PendingQuantity(
	ctx context.Context,
	equipmentID uint,
	excludeLoanID uint,
) (int, error) {

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("equipment_id = ? AND status = ? AND id <> ?",
			equipmentID, domain.StatusPending, excludeLoanID).
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}

func (r *LoanGormRepository) TakeStock(
	ctx context.Context,
	equipmentID uint,
	qty int,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Equipment{}).
		Where("id = ? AND stock >= ?", equipmentID, qty).
		Updates(map[string]any{
			"stock": gorm.Expr("stock - ?", qty),
			"status": gorm.Expr("CASE WHEN stock - ? > 0 THEN ? ELSE ? END",
				qty, catalog.StatusAvailable, catalog.StatusOnLoan),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrConflict("insufficient_stock", "not enough units in stock")
	}
	return nil
}

func (r *LoanGormRepository) PutBackStock(
	ctx context.Context,
	equipmentID uint,
	qty int,
) error {

	return r.db.WithContext(ctx).
		Model(&models.Equipment{}).
		Where("id = ?", equipmentID).
		Updates(map[string]any{
			"stock":  gorm.Expr("stock + ?", qty),
			"status": catalog.StatusAvailable,
		}).Error
}

// --------------------------------------------------
// Loans
// --------------------------------------------------

func (r *LoanGormRepository) HasActiveLoan(
	ctx context.Context,
	userID uint,
	equipmentID uint,
	excludeLoanID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("user_id = ? AND equipment_id = ? AND status IN ? AND id <> ?",
			userID, equipmentID,
			[]domain.Status{domain.StatusPending, domain.StatusApproved},
			excludeLoanID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *LoanGormRepository) CreateLoan(
	ctx context.Context,
	l *models.Loan,
) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanGormRepository) GetLoan(
	ctx context.Context,
	id uint,
) (*models.Loan, error) {

	var l models.Loan
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Equipment.Category").
		Preload("Return").
		First(&l, id).Error; err != nil {
		return nil, notFound(err, "loan_not_found", "loan not found")
	}
	return &l, nil
}

func (r *LoanGormRepository) LockLoan(
	ctx context.Context,
	id uint,
) (*models.Loan, error) {

	var l models.Loan
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&l, id).Error; err != nil {
		return nil, notFound(err, "loan_not_found", "loan not found")
	}
	return &l, nil
}

func (r *LoanGormRepository) UpdateLoan(
	ctx context.Context,
	l *models.Loan,
) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(l).Error
}

func (r *LoanGormRepository) DeleteLoan(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).Delete(&models.Loan{}, id).Error
}

const loanStatusOrder = "CASE loans.status " +
	"WHEN 'pending' THEN 0 WHEN 'approved' THEN 1 WHEN 'rejected' THEN 2 ELSE 3 END"

func (r *LoanGormRepository) ListLoans(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Loan, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Preload("User").
		Preload("Equipment.Category").
		Preload("Return")

	if f.Status != "" {
		q = q.Where("loans.status = ?", f.Status)
	}
	if f.UserID != 0 {
		q = q.Where("loans.user_id = ?", f.UserID)
	}
	if f.EquipmentID != 0 {
		q = q.Where("loans.equipment_id = ?", f.EquipmentID)
	}

	var loans []models.Loan
	if err := q.
		Order(loanStatusOrder).
		Order("loans.loan_date DESC").
		Order("loans.id DESC").
		Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

// --------------------------------------------------
// Returns
// --------------------------------------------------

func (r *LoanGormRepository) CreateReturn(
	ctx context.Context,
	ret *models.LoanReturn,
) error {
	return r.db.WithContext(ctx).Create(ret).Error
}

func (r *LoanGormRepository) GetReturn(
	ctx context.Context,
	id uint,
) (*models.LoanReturn, error) {

	var ret models.LoanReturn
	if err := r.db.WithContext(ctx).First(&ret, id).Error; err != nil {
		return nil, notFound(err, "return_not_found", "return not found")
	}
	return &ret, nil
}

func (r *LoanGormRepository) LockReturn(
	ctx context.Context,
	id uint,
) (*models.LoanReturn, error) {

	var ret models.LoanReturn
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&ret, id).Error; err != nil {
		return nil, notFound(err, "return_not_found", "return not found")
	}
	return &ret, nil
}

func (r *LoanGormRepository) UpdateReturn(
	ctx context.Context,
	ret *models.LoanReturn,
) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(ret).Error
}

func (r *LoanGormRepository) DeleteReturn(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).Delete(&models.LoanReturn{}, id).Error
}

func (r *LoanGormRepository) ListReturns(
	ctx context.Context,
) ([]models.LoanReturn, error) {

	var rets []models.LoanReturn
	if err := r.db.WithContext(ctx).
		Preload("Loan.User").
		Preload("Loan.Equipment").
		Order("id DESC").
		Find(&rets).Error; err != nil {
		return nil, err
	}
	return rets, nil
}

// Compile-time check
var _ domain.Repository = (*LoanGormRepository)(nil)
