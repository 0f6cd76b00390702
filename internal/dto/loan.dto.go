package dto

import (
	"time"

	"github.com/BruksfildServices01/equipment-rental/internal/domain/loan"
	"github.com/BruksfildServices01/equipment-rental/internal/models"
	"github.com/BruksfildServices01/equipment-rental/internal/timezone"
)

type LoanDTO struct {
	ID uint `json:"id"`

	UserID           uint   `json:"user_id"`
	BorrowerName     string `json:"borrower_name"`
	BorrowerUsername string `json:"borrower_username"`

	EquipmentID   uint   `json:"equipment_id"`
	EquipmentName string `json:"equipment_name"`
	CategoryName  string `json:"category_name,omitempty"`
	DailyRate     int64  `json:"daily_rate"`

	Quantity          int     `json:"quantity"`
	LoanDate          string  `json:"loan_date"`
	PlannedReturnDate string  `json:"planned_return_date"`
	Status            string  `json:"status"`
	ReturnID          *uint   `json:"return_id,omitempty"`
	ReturnDate        *string `json:"return_date,omitempty"`

	DecidedBy *uint      `json:"decided_by,omitempty"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`

	Charges loan.Charges `json:"charges"`

	CreatedAt time.Time `json:"created_at"`
}

// NewLoanDTO flattens a loan with its preloaded relations and charges as of today.
func NewLoanDTO(l *models.Loan, today time.Time, lateFeePerDay int64) LoanDTO {
	out := LoanDTO{
		ID:                l.ID,
		UserID:            l.UserID,
		EquipmentID:       l.EquipmentID,
		Quantity:          l.Quantity,
		LoanDate:          timezone.FormatDate(l.LoanDate),
		PlannedReturnDate: timezone.FormatDate(l.PlannedReturnDate),
		Status:            l.Status,
		DecidedBy:         l.DecidedBy,
		DecidedAt:         l.DecidedAt,
		Charges:           loan.ChargesFor(l, today, lateFeePerDay),
		CreatedAt:         l.CreatedAt,
	}

	if l.User != nil {
		out.BorrowerName = l.User.Name
		out.BorrowerUsername = l.User.Username
	}
	if l.Equipment != nil {
		out.EquipmentName = l.Equipment.Name
		out.DailyRate = l.Equipment.DailyRate
		if l.Equipment.Category != nil {
			out.CategoryName = l.Equipment.Category.Name
		}
	}
	if l.Return != nil {
		id := l.Return.ID
		date := timezone.FormatDate(l.Return.ReturnDate)
		out.ReturnID = &id
		out.ReturnDate = &date
	}

	return out
}

type ReturnDTO struct {
	ID     uint `json:"id"`
	LoanID uint `json:"loan_id"`

	BorrowerName  string `json:"borrower_name,omitempty"`
	EquipmentName string `json:"equipment_name,omitempty"`
	Quantity      int    `json:"quantity,omitempty"`

	ReturnDate  string `json:"return_date"`
	RentalCost  int64  `json:"rental_cost"`
	LateFee     int64  `json:"late_fee"`
	Total       int64  `json:"total"`
	ProcessedBy *uint  `json:"processed_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func NewReturnDTO(r *models.LoanReturn) ReturnDTO {
	out := ReturnDTO{
		ID:          r.ID,
		LoanID:      r.LoanID,
		ReturnDate:  timezone.FormatDate(r.ReturnDate),
		RentalCost:  r.RentalCost,
		LateFee:     r.LateFee,
		Total:       r.RentalCost + r.LateFee,
		ProcessedBy: r.ProcessedBy,
		CreatedAt:   r.CreatedAt,
	}

	if r.Loan != nil {
		out.Quantity = r.Loan.Quantity
		if r.Loan.User != nil {
			out.BorrowerName = r.Loan.User.Name
		}
		if r.Loan.Equipment != nil {
			out.EquipmentName = r.Loan.Equipment.Name
		}
	}

	return out
}

// ReturnResultDTO answers a processed return with the full charge breakdown.
type ReturnResultDTO struct {
	Return  ReturnDTO    `json:"return"`
	Charges loan.Charges `json:"charges"`
}
