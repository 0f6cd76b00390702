package dto

import (
	"time"

	"github.com/BruksfildServices01/equipment-rental/internal/models"
)

type ActivityDTO struct {
	ID          uint      `json:"id"`
	UserID      *uint     `json:"user_id"`
	UserName    string    `json:"user_name,omitempty"`
	Username    string    `json:"username,omitempty"`
	Action      string    `json:"action"`
	Entity      string    `json:"entity"`
	EntityID    *uint     `json:"entity_id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewActivityDTO(a *models.ActivityLog) ActivityDTO {
	out := ActivityDTO{
		ID:          a.ID,
		UserID:      a.UserID,
		Action:      a.Action,
		Entity:      a.Entity,
		EntityID:    a.EntityID,
		Description: a.Description,
		CreatedAt:   a.CreatedAt,
	}
	if a.User != nil {
		out.UserName = a.User.Name
		out.Username = a.User.Username
	}
	return out
}
