package loan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/BruksfildServices01/equipment-rental/internal/models"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestComputeChargesLateReturn(t *testing.T) {
	got := ComputeCharges(ChargeInput{
		LoanDate:          d(2024, 1, 1),
		PlannedReturnDate: d(2024, 1, 5),
		ReturnDate:        d(2024, 1, 8),
		DailyRate:         50000,
		Quantity:          2,
		LateFeePerDay:     5000,
	})

	assert.Equal(t, Charges{
		RentalDays: 7,
		RentalCost: 700000,
		LateDays:   3,
		LateFee:    15000,
		Total:      715000,
	}, got)
}

func TestComputeChargesSameDayBillsOneDay(t *testing.T) {
	got := ComputeCharges(ChargeInput{
		LoanDate:          d(2024, 2, 10),
		PlannedReturnDate: d(2024, 2, 12),
		ReturnDate:        d(2024, 2, 10),
		DailyRate:         20000,
		Quantity:          1,
		LateFeePerDay:     5000,
	})

	assert.Equal(t, 1, got.RentalDays)
	assert.Equal(t, int64(20000), got.RentalCost)
	assert.Zero(t, got.LateFee)
}

func TestComputeChargesAcrossMonthEnd(t *testing.T) {
	got := ComputeCharges(ChargeInput{
		LoanDate:          d(2024, 2, 27),
		PlannedReturnDate: d(2024, 3, 1),
		ReturnDate:        d(2024, 3, 2),
		DailyRate:         10000,
		Quantity:          1,
		LateFeePerDay:     5000,
	})

	// 2024 is a leap year
	assert.Equal(t, 4, got.RentalDays)
	assert.Equal(t, 1, got.LateDays)
	assert.Equal(t, int64(45000), got.Total)
}

func genDate(t *rapid.T, label string) time.Time {
	offset := rapid.IntRange(0, 3650).Draw(t, label)
	return d(2020, 1, 1).AddDate(0, 0, offset)
}

func TestComputeChargesProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		loanDate := genDate(t, "loan")
		planned := loanDate.AddDate(0, 0, rapid.IntRange(1, 60).Draw(t, "planned"))
		actual := loanDate.AddDate(0, 0, rapid.IntRange(0, 120).Draw(t, "actual"))
		rate := rapid.Int64Range(0, 1_000_000).Draw(t, "rate")
		qty := rapid.IntRange(1, 50).Draw(t, "qty")
		fee := rapid.Int64Range(0, 100_000).Draw(t, "fee")

		c := ComputeCharges(ChargeInput{
			LoanDate:          loanDate,
			PlannedReturnDate: planned,
			ReturnDate:        actual,
			DailyRate:         rate,
			Quantity:          qty,
			LateFeePerDay:     fee,
		})

		if c.RentalDays < 1 {
			t.Fatalf("rental days %d < 1", c.RentalDays)
		}
		if c.LateDays < 0 || c.LateFee < 0 {
			t.Fatalf("negative late charge %+v", c)
		}
		if c.RentalCost != int64(c.RentalDays)*rate*int64(qty) {
			t.Fatalf("rental cost mismatch %+v", c)
		}
		if c.Total != c.RentalCost+c.LateFee {
			t.Fatalf("total mismatch %+v", c)
		}
		if !actual.After(planned) && c.LateFee != 0 {
			t.Fatalf("late fee charged on or before planned date: %+v", c)
		}
	})
}

func TestOnTimeReturnHasNoLateFee(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		loanDate := genDate(t, "loan")
		planned := loanDate.AddDate(0, 0, rapid.IntRange(1, 90).Draw(t, "len"))

		c := ComputeCharges(ChargeInput{
			LoanDate:          loanDate,
			PlannedReturnDate: planned,
			ReturnDate:        planned,
			DailyRate:         rapid.Int64Range(0, 500_000).Draw(t, "rate"),
			Quantity:          rapid.IntRange(1, 10).Draw(t, "qty"),
			LateFeePerDay:     rapid.Int64Range(1, 50_000).Draw(t, "fee"),
		})

		if c.LateFee != 0 || c.LateDays != 0 {
			t.Fatalf("expected no late fee, got %+v", c)
		}
	})
}

func TestChargesFor(t *testing.T) {
	eq := &models.Equipment{DailyRate: 10000}
	base := models.Loan{
		Equipment:         eq,
		Quantity:          2,
		LoanDate:          d(2024, 5, 1),
		PlannedReturnDate: d(2024, 5, 3),
	}
	today := d(2024, 5, 6)

	pending := base
	pending.Status = string(StatusPending)
	c := ChargesFor(&pending, today, 5000)
	assert.Equal(t, Charges{RentalDays: 2, RentalCost: 40000, Total: 40000}, c)

	approved := base
	approved.Status = string(StatusApproved)
	c = ChargesFor(&approved, today, 5000)
	assert.Equal(t, 5, c.RentalDays)
	assert.Equal(t, 3, c.LateDays)
	assert.Equal(t, int64(100000+15000), c.Total)

	returned := base
	returned.Status = string(StatusReturned)
	returned.Return = &models.LoanReturn{ReturnDate: d(2024, 5, 4), RentalCost: 60000, LateFee: 5000}
	eq.DailyRate = 99999
	c = ChargesFor(&returned, today, 7000)
	assert.Equal(t, int64(60000), c.RentalCost)
	assert.Equal(t, int64(5000), c.LateFee)
	assert.Equal(t, int64(65000), c.Total)
	assert.Equal(t, 3, c.RentalDays)
}
