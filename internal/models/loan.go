package models

import "time"

type Loan struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint  `gorm:"index;not null" json:"user_id"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"user,omitempty"`

	EquipmentID uint       `gorm:"index;not null" json:"equipment_id"`
	Equipment   *Equipment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"equipment,omitempty"`

	Quantity          int       `gorm:"not null;default:1" json:"quantity"`
	LoanDate          time.Time `gorm:"type:date;not null;index" json:"loan_date"`
	PlannedReturnDate time.Time `gorm:"type:date;not null" json:"planned_return_date"`

	Status    string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	DecidedBy *uint      `json:"decided_by"`
	DecidedAt *time.Time `json:"decided_at"`

	Return *LoanReturn `gorm:"foreignKey:LoanID" json:"return,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
