package loan

import (
	"math"
	"time"

	"github.com/BruksfildServices01/equipment-rental/internal/models"
)

type ChargeInput struct {
	LoanDate          time.Time
	PlannedReturnDate time.Time
	ReturnDate        time.Time
	DailyRate         int64
	Quantity          int
	LateFeePerDay     int64
}

type Charges struct {
	RentalDays int   `json:"rental_days"`
	RentalCost int64 `json:"rental_cost"`
	LateDays   int   `json:"late_days"`
	LateFee    int64 `json:"late_fee"`
	Total      int64 `json:"total"`
}

func days(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24
}

// ComputeCharges bills at least one day of rent per unit, plus a flat fee
// for every full day past the planned return date.
func ComputeCharges(in ChargeInput) Charges {
	rentalDays := int(math.Ceil(days(in.LoanDate, in.ReturnDate)))
	if rentalDays < 1 {
		rentalDays = 1
	}

	lateDays := int(math.Floor(days(in.PlannedReturnDate, in.ReturnDate)))
	if lateDays < 0 {
		lateDays = 0
	}

	rentalCost := int64(rentalDays) * in.DailyRate * int64(in.Quantity)
	lateFee := int64(lateDays) * in.LateFeePerDay

	return Charges{
		RentalDays: rentalDays,
		RentalCost: rentalCost,
		LateDays:   lateDays,
		LateFee:    lateFee,
		Total:      rentalCost + lateFee,
	}
}

// ChargesFor reports what a loan costs as of today:
//   - returned: frozen amounts from the return record
//   - approved: running total against today
//   - pending/rejected: estimate up to the planned return date, no late fee
func ChargesFor(l *models.Loan, today time.Time, lateFeePerDay int64) Charges {
	var rate int64
	if l.Equipment != nil {
		rate = l.Equipment.DailyRate
	}

	in := ChargeInput{
		LoanDate:          l.LoanDate,
		PlannedReturnDate: l.PlannedReturnDate,
		DailyRate:         rate,
		Quantity:          l.Quantity,
		LateFeePerDay:     lateFeePerDay,
	}

	switch Status(l.Status) {
	case StatusReturned:
		if l.Return == nil {
			break
		}
		in.ReturnDate = l.Return.ReturnDate
		c := ComputeCharges(in)
		c.RentalCost = l.Return.RentalCost
		c.LateFee = l.Return.LateFee
		c.Total = c.RentalCost + c.LateFee
		return c
	case StatusApproved:
		in.ReturnDate = today
		return ComputeCharges(in)
	}

	in.ReturnDate = l.PlannedReturnDate
	in.LateFeePerDay = 0
	return ComputeCharges(in)
}
