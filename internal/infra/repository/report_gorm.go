package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/equipment-rental/internal/domain/report"
	"github.com/BruksfildServices01/equipment-rental/internal/models"
)

type ReportGormRepository struct {
	db *gorm.DB
}

func NewReportGormRepository(db *gorm.DB) *ReportGormRepository {
	return &ReportGormRepository{db: db}
}

// --------------------------------------------------
// Loan report
// --------------------------------------------------

func (r *ReportGormRepository) LoansInPeriod(
	ctx context.Context,
	from time.Time,
	to time.Time,
	status string,
) ([]models.Loan, error) {

	q := r.db.WithContext(ctx).
		Preload("User").
		Preload("Equipment").
		Preload("Return").
		Where("loan_date >= ? AND loan_date <= ?", from, to)

	if status != "" {
		q = q.Where("status = ?", status)
	}

	var loans []models.Loan
	if err := q.
		Order("loan_date DESC").
		Order("id DESC").
		Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *ReportGormRepository) TopEquipment(
	ctx context.Context,
	from time.Time,
	to time.Time,
	limit int,
) ([]domain.TopEquipment, error) {

	var top []domain.TopEquipment
	if err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Select("loans.equipment_id AS equipment_id, equipment.name AS name, COUNT(loans.id) AS loan_count").
		Joins("JOIN equipment ON equipment.id = loans.equipment_id").
		Where("loans.loan_date >= ? AND loans.loan_date <= ?", from, to).
		Group("loans.equipment_id, equipment.name").
		Order("loan_count DESC").
		Order("loans.equipment_id ASC").
		Limit(limit).
		Scan(&top).Error; err != nil {
		return nil, err
	}
	return top, nil
}

// --------------------------------------------------
// Dashboard
// --------------------------------------------------

func (r *ReportGormRepository) Stats(ctx context.Context) (domain.Stats, error) {
	var s domain.Stats
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.User{}).Count(&s.TotalUsers).Error; err != nil {
		return s, err
	}
	if err := db.Model(&models.Equipment{}).Count(&s.TotalEquipment).Error; err != nil {
		return s, err
	}
	if err := db.Model(&models.Loan{}).
		Where("status = ?", "approved").
		Count(&s.ActiveLoans).Error; err != nil {
		return s, err
	}
	if err := db.Model(&models.LoanReturn{}).Count(&s.TotalReturns).Error; err != nil {
		return s, err
	}
	return s, nil
}

// --------------------------------------------------
// Activity log
// --------------------------------------------------

func (r *ReportGormRepository) ListActivity(
	ctx context.Context,
	f domain.ActivityFilter,
) ([]models.ActivityLog, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.ActivityLog{})

	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.ActivityLog
	if err := q.
		Preload("User").
		Order("created_at DESC").
		Order("id DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

var _ domain.Repository = (*ReportGormRepository)(nil)
