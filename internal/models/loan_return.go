package models

import "time"

// LoanReturn closes exactly one loan.
type LoanReturn struct {
	ID uint `gorm:"primaryKey" json:"id"`

	LoanID     uint      `gorm:"uniqueIndex;not null" json:"loan_id"`
	Loan       *Loan     `gorm:"foreignKey:LoanID" json:"loan,omitempty"`
	ReturnDate time.Time `gorm:"type:date;not null" json:"return_date"`

	RentalCost  int64 `gorm:"not null;default:0" json:"rental_cost"`
	LateFee     int64 `gorm:"not null;default:0" json:"late_fee"`
	ProcessedBy *uint `json:"processed_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LoanReturn) TableName() string { return "loan_returns" }
