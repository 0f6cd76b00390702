package catalog

import "github.com/BruksfildServices01/equipment-rental/internal/models"

const (
	ConditionGood    = "good"
	ConditionDamaged = "damaged"

	StatusAvailable = "available"
	StatusOnLoan    = "on_loan"
)

func IsCondition(s string) bool {
	return s == ConditionGood || s == ConditionDamaged
}

// StatusForStock derives the shelf status from the unit count.
func StatusForStock(stock int) string {
	if stock > 0 {
		return StatusAvailable
	}
	return StatusOnLoan
}

type EquipmentFilter struct {
	CategoryID uint
	Condition  string
	Status     string
	Query      string

	// BorrowerView lists only lendable items ordered by name.
	BorrowerView bool
}

// EquipmentView is one catalog row with units still open for new requests.
type EquipmentView struct {
	models.Equipment
	AvailableQuantity int `json:"available_quantity"`
}
