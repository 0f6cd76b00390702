package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
)

// notFound turns gorm's missing-row error into a NotFound business error.
func notFound(err error, code, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound(code, message)
	}
	return err
}
