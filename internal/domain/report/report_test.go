package report

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/equipment-rental/internal/models"
)

func TestNewRowWithReturn(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	l := &models.Loan{
		ID:                7,
		EquipmentID:       3,
		Equipment:         &models.Equipment{Name: "Tent"},
		User:              &models.User{Name: "Budi", Username: "budi"},
		Quantity:          2,
		LoanDate:          day,
		PlannedReturnDate: day.AddDate(0, 0, 3),
		Status:            "returned",
		Return:            &models.LoanReturn{ReturnDate: day.AddDate(0, 0, 5), LateFee: 10000},
	}

	row := NewRow(l)
	assert.Equal(t, "2024-03-01", row.LoanDate)
	assert.Equal(t, "2024-03-04", row.PlannedReturnDate)
	assert.Equal(t, "2024-03-06", row.ReturnDate)
	assert.Equal(t, "Tent", row.EquipmentName)
	assert.Equal(t, "budi", row.BorrowerUsername)
	assert.Equal(t, int64(10000), row.LateFee)
}

func TestNewRowWithoutRelations(t *testing.T) {
	row := NewRow(&models.Loan{ID: 1, Status: "pending"})
	assert.Empty(t, row.ReturnDate)
	assert.Empty(t, row.EquipmentName)
	assert.Zero(t, row.LateFee)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Row{
		{Status: "pending"},
		{Status: "approved"},
		{Status: "approved"},
		{Status: "rejected"},
		{Status: "returned", LateFee: 5000},
		{Status: "returned", LateFee: 15000},
	})

	assert.Equal(t, Summary{
		Total:    6,
		Pending:  1,
		Approved: 2,
		Rejected: 1,
		Returned: 2,
		LateFees: 20000,
	}, s)

	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []Row{{
		LoanID:           4,
		LoanDate:         "2024-03-01",
		Status:           "approved",
		Quantity:         1,
		EquipmentName:    "Ladder, 3m",
		BorrowerName:     "Budi",
		BorrowerUsername: "budi",
	}})
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "4", records[1][0])
	assert.Equal(t, "Ladder, 3m", records[1][5])
	assert.Equal(t, "0", records[1][9])
}

func TestWriteCSVHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "loan_id,loan_date,planned_return_date,status,quantity,equipment,borrower_name,borrower_username,return_date,late_fee\n", buf.String())
}
