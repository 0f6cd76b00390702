package report

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
	infraRepo "github.com/BruksfildServices01/equipment-rental/internal/infra/repository"
	"github.com/BruksfildServices01/equipment-rental/internal/models"
	"github.com/BruksfildServices01/equipment-rental/internal/testutil"
)

type fixture struct {
	uc    *Usecase
	db    *gorm.DB
	drill *models.Equipment
	tent  *models.Equipment
	saw   *models.Equipment
}

// seed spreads loans over March 2024 plus one outside the period.
func seed(t *testing.T) *fixture {
	t.Helper()

	db := testutil.OpenDB(t)
	budi := testutil.CreateUser(t, db, "budi", "borrower")
	sari := testutil.CreateUser(t, db, "sari", "borrower")
	testutil.CreateUser(t, db, "staff", "staff")

	f := &fixture{
		uc:    NewUsecase(infraRepo.NewReportGormRepository(db)),
		db:    db,
		drill: testutil.CreateEquipment(t, db, "Drill", 5, 10000),
		tent:  testutil.CreateEquipment(t, db, "Tent", 5, 20000),
		saw:   testutil.CreateEquipment(t, db, "Saw", 5, 5000),
	}

	d := testutil.Date
	testutil.CreateLoan(t, db, budi.ID, f.tent.ID, 1, "pending", d(2024, 3, 1), d(2024, 3, 3))
	testutil.CreateLoan(t, db, sari.ID, f.tent.ID, 1, "approved", d(2024, 3, 5), d(2024, 3, 6))
	testutil.CreateLoan(t, db, budi.ID, f.drill.ID, 2, "rejected", d(2024, 3, 10), d(2024, 3, 12))
	returned := testutil.CreateLoan(t, db, sari.ID, f.drill.ID, 1, "returned", d(2024, 3, 31), d(2024, 4, 2))
	testutil.CreateLoan(t, db, budi.ID, f.saw.ID, 1, "approved", d(2024, 4, 1), d(2024, 4, 3))

	require.NoError(t, db.Create(&models.LoanReturn{
		LoanID:     returned.ID,
		ReturnDate: d(2024, 4, 4),
		RentalCost: 40000,
		LateFee:    10000,
	}).Error)

	return f
}

func TestBuildReport(t *testing.T) {
	f := seed(t)

	rep, err := f.uc.Build(context.Background(), ReportQuery{DateFrom: "2024-03-01", DateTo: "2024-03-31"})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01", rep.Period.From)
	assert.Equal(t, "2024-03-31", rep.Period.To)

	// both bounds inclusive, newest first
	require.Len(t, rep.Rows, 4)
	assert.Equal(t, "2024-03-31", rep.Rows[0].LoanDate)
	assert.Equal(t, "2024-03-01", rep.Rows[3].LoanDate)

	assert.Equal(t, 4, rep.Summary.Total)
	assert.Equal(t, 1, rep.Summary.Pending)
	assert.Equal(t, 1, rep.Summary.Approved)
	assert.Equal(t, 1, rep.Summary.Rejected)
	assert.Equal(t, 1, rep.Summary.Returned)
	assert.Equal(t, int64(10000), rep.Summary.LateFees)

	assert.Equal(t, "2024-04-04", rep.Rows[0].ReturnDate)
	assert.Equal(t, "sari name", rep.Rows[0].BorrowerName)
	assert.Equal(t, "Drill", rep.Rows[0].EquipmentName)

	// tie on count broken by equipment id
	require.Len(t, rep.Top, 2)
	assert.Equal(t, f.drill.ID, rep.Top[0].EquipmentID)
	assert.Equal(t, int64(2), rep.Top[0].LoanCount)
	assert.Equal(t, f.tent.ID, rep.Top[1].EquipmentID)
	assert.Equal(t, "Tent", rep.Top[1].Name)
}

func TestBuildReportStatusFilterSkipsRanking(t *testing.T) {
	f := seed(t)

	rep, err := f.uc.Build(context.Background(), ReportQuery{
		DateFrom: "2024-03-01",
		DateTo:   "2024-03-31",
		Status:   "approved",
	})
	require.NoError(t, err)

	require.Len(t, rep.Rows, 1)
	assert.Equal(t, 1, rep.Summary.Total)
	assert.Equal(t, 1, rep.Summary.Approved)
	assert.Len(t, rep.Top, 2)

	all, err := f.uc.Build(context.Background(), ReportQuery{
		DateFrom: "2024-03-01",
		DateTo:   "2024-03-31",
		Status:   "all",
	})
	require.NoError(t, err)
	assert.Len(t, all.Rows, 4)
}

func TestBuildReportEmptyPeriod(t *testing.T) {
	f := seed(t)

	rep, err := f.uc.Build(context.Background(), ReportQuery{DateFrom: "2023-01-01", DateTo: "2023-01-31"})
	require.NoError(t, err)
	assert.Empty(t, rep.Rows)
	assert.NotNil(t, rep.Top)
	assert.Zero(t, rep.Summary.Total)
}

func TestBuildReportValidation(t *testing.T) {
	f := seed(t)
	ctx := context.Background()

	cases := map[string]ReportQuery{
		"date_range_required": {DateFrom: "2024-03-01"},
		"invalid_date":        {DateFrom: "2024-03-01", DateTo: "31/03/2024"},
		"invalid_date_range":  {DateFrom: "2024-03-02", DateTo: "2024-03-01"},
		"invalid_status":      {DateFrom: "2024-03-01", DateTo: "2024-03-02", Status: "lost"},
	}

	for code, q := range cases {
		_, err := f.uc.Build(ctx, q)
		assert.True(t, httperr.IsBusiness(err, code), code)
	}

	// single day period
	rep, err := f.uc.Build(ctx, ReportQuery{DateFrom: "2024-03-05", DateTo: "2024-03-05"})
	require.NoError(t, err)
	assert.Len(t, rep.Rows, 1)
}

func TestExportCSV(t *testing.T) {
	f := seed(t)

	var buf bytes.Buffer
	q := ReportQuery{DateFrom: "2024-03-01", DateTo: "2024-03-31"}
	require.NoError(t, f.uc.Export(context.Background(), q, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "loan_id,"))
	assert.Contains(t, lines[1], "2024-04-04")
	assert.Equal(t, "loan-report_2024-03-01_2024-03-31.csv", ExportFilename(q))
}

func TestStats(t *testing.T) {
	f := seed(t)

	s, err := f.uc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.TotalUsers)
	assert.Equal(t, int64(3), s.TotalEquipment)
	assert.Equal(t, int64(2), s.ActiveLoans)
	assert.Equal(t, int64(1), s.TotalReturns)
}

func TestActivityPagingAndFilters(t *testing.T) {
	f := seed(t)
	ctx := context.Background()

	var budi models.User
	require.NoError(t, f.db.Where("username = ?", "budi").First(&budi).Error)

	for i := 0; i < 3; i++ {
		require.NoError(t, f.db.Create(&models.ActivityLog{
			UserID:      &budi.ID,
			Action:      "login",
			Entity:      "user",
			Description: "budi logged in",
		}).Error)
	}
	require.NoError(t, f.db.Create(&models.ActivityLog{
		Action:      "loan_requested",
		Entity:      "loan",
		Description: "system entry",
	}).Error)

	all, total, filter, err := f.uc.Activity(ctx, ActivityQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, all, 4)
	assert.Equal(t, 50, filter.Limit)
	assert.Equal(t, "loan_requested", all[0].Action)
	assert.Empty(t, all[0].UserName)

	page, total, filter, err := f.uc.Activity(ctx, ActivityQuery{Action: "login", Page: "2", Limit: "2"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, 2, filter.Page)
	require.Len(t, page, 1)
	assert.Equal(t, "budi name", page[0].UserName)

	_, _, filter, err = f.uc.Activity(ctx, ActivityQuery{Page: "-1", Limit: "500"})
	require.NoError(t, err)
	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 50, filter.Limit)

	// a huge page is capped and lands past the end instead of wrapping
	far, total, filter, err := f.uc.Activity(ctx, ActivityQuery{Page: "9223372036854775807", Limit: "200"})
	require.NoError(t, err)
	assert.Equal(t, maxActivityPage, filter.Page)
	assert.Equal(t, int64(4), total)
	assert.Empty(t, far)

	today := time.Now().UTC().Format("2006-01-02")
	byDay, total, _, err := f.uc.Activity(ctx, ActivityQuery{Entity: "loan", To: "2000-01-01"})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, byDay)

	_, _, _, err = f.uc.Activity(ctx, ActivityQuery{From: "yesterday"})
	assert.True(t, httperr.IsBusiness(err, "invalid_date"))

	_, total, _, err = f.uc.Activity(ctx, ActivityQuery{From: "2000-01-01", To: today})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
}
