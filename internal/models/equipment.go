package models

import "time"

type Equipment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name       string    `gorm:"size:150;not null" json:"name"`
	CategoryID *uint     `gorm:"index" json:"category_id"`
	Category   *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`

	Condition string `gorm:"size:20;not null;default:'good'" json:"condition"`
	Status    string `gorm:"size:20;not null;default:'available'" json:"status"`
	Stock     int    `gorm:"not null" json:"stock"`

	// Whole currency units per day.
	DailyRate   int64  `gorm:"not null;default:0" json:"daily_rate"`
	ImageURL    string `gorm:"size:512" json:"image_url"`
	Description string `gorm:"type:text" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Equipment) TableName() string { return "equipment" }
