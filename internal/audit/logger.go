package audit

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/equipment-rental/internal/models"
)

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(
	ctx context.Context,
	userID *uint,
	action string,
	entity string,
	entityID *uint,
	description string,
) error {

	entry := models.ActivityLog{
		UserID:      userID,
		Action:      action,
		Entity:      entity,
		EntityID:    entityID,
		Description: description,
	}

	return l.db.WithContext(ctx).Create(&entry).Error
}
