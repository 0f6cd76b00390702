package models

import "time"

type ActivityLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// nil for system generated entries
	UserID *uint  `gorm:"index" json:"user_id"`
	User   *User  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"user,omitempty"`
	Action string `gorm:"size:50;not null" json:"action"`

	Entity      string `gorm:"size:50" json:"entity"`
	EntityID    *uint  `json:"entity_id"`
	Description string `gorm:"type:text;not null" json:"description"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
