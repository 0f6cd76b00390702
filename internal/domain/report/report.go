package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/BruksfildServices01/equipment-rental/internal/domain/loan"
	"github.com/BruksfildServices01/equipment-rental/internal/models"
	"github.com/BruksfildServices01/equipment-rental/internal/timezone"
)

// TopLimit is how many equipment items the ranking keeps.
const TopLimit = 5

type Period struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type Summary struct {
	Total    int   `json:"total"`
	Pending  int   `json:"pending"`
	Approved int   `json:"approved"`
	Rejected int   `json:"rejected"`
	Returned int   `json:"returned"`
	LateFees int64 `json:"late_fees"`
}

type Row struct {
	LoanID            uint   `json:"loan_id"`
	LoanDate          string `json:"loan_date"`
	PlannedReturnDate string `json:"planned_return_date"`
	Status            string `json:"status"`
	Quantity          int    `json:"quantity"`
	EquipmentID       uint   `json:"equipment_id"`
	EquipmentName     string `json:"equipment_name"`
	BorrowerName      string `json:"borrower_name"`
	BorrowerUsername  string `json:"borrower_username"`
	ReturnDate        string `json:"return_date,omitempty"`
	LateFee           int64  `json:"late_fee"`
}

type TopEquipment struct {
	EquipmentID uint   `json:"equipment_id"`
	Name        string `json:"name"`
	LoanCount   int64  `json:"loan_count"`
}

type Report struct {
	Period  Period         `json:"period"`
	Summary Summary        `json:"summary"`
	Rows    []Row          `json:"rows"`
	Top     []TopEquipment `json:"top_equipment"`
}

type Stats struct {
	TotalUsers     int64 `json:"total_users"`
	TotalEquipment int64 `json:"total_equipment"`
	ActiveLoans    int64 `json:"active_loans"`
	TotalReturns   int64 `json:"total_returns"`
}

// ActivityFilter narrows the activity log; zero values mean no filter.
type ActivityFilter struct {
	Action string
	Entity string
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

// NewRow flattens a loan with its user, equipment and optional return.
func NewRow(l *models.Loan) Row {
	row := Row{
		LoanID:            l.ID,
		LoanDate:          timezone.FormatDate(l.LoanDate),
		PlannedReturnDate: timezone.FormatDate(l.PlannedReturnDate),
		Status:            l.Status,
		Quantity:          l.Quantity,
		EquipmentID:       l.EquipmentID,
	}
	if l.Equipment != nil {
		row.EquipmentName = l.Equipment.Name
	}
	if l.User != nil {
		row.BorrowerName = l.User.Name
		row.BorrowerUsername = l.User.Username
	}
	if l.Return != nil {
		row.ReturnDate = timezone.FormatDate(l.Return.ReturnDate)
		row.LateFee = l.Return.LateFee
	}
	return row
}

// Summarize counts rows per status and adds up recorded late fees.
func Summarize(rows []Row) Summary {
	s := Summary{Total: len(rows)}
	for _, r := range rows {
		switch loan.Status(r.Status) {
		case loan.StatusPending:
			s.Pending++
		case loan.StatusApproved:
			s.Approved++
		case loan.StatusRejected:
			s.Rejected++
		case loan.StatusReturned:
			s.Returned++
		}
		s.LateFees += r.LateFee
	}
	return s
}

var csvHeader = []string{
	"loan_id",
	"loan_date",
	"planned_return_date",
	"status",
	"quantity",
	"equipment",
	"borrower_name",
	"borrower_username",
	"return_date",
	"late_fee",
}

// WriteCSV writes a header line followed by one line per row.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range rows {
		if err := cw.Write([]string{
			strconv.FormatUint(uint64(r.LoanID), 10),
			r.LoanDate,
			r.PlannedReturnDate,
			r.Status,
			strconv.Itoa(r.Quantity),
			r.EquipmentName,
			r.BorrowerName,
			r.BorrowerUsername,
			r.ReturnDate,
			strconv.FormatInt(r.LateFee, 10),
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
