package report

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/BruksfildServices01/equipment-rental/internal/domain/loan"
	domain "github.com/BruksfildServices01/equipment-rental/internal/domain/report"
	"github.com/BruksfildServices01/equipment-rental/internal/dto"
	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
	"github.com/BruksfildServices01/equipment-rental/internal/timezone"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 200

	// Keeps (page-1)*limit far from overflowing the offset.
	maxActivityPage = 10000
)

type Usecase struct {
	repo domain.Repository
}

func NewUsecase(repo domain.Repository) *Usecase {
	return &Usecase{repo: repo}
}

// ReportQuery carries the raw query string values.
type ReportQuery struct {
	DateFrom string
	DateTo   string
	Status   string
}

type ActivityQuery struct {
	Action string
	Entity string
	From   string
	To     string
	Page   string
	Limit  string
}

// ======================================================
// Loan report
// ======================================================

func (u *Usecase) parse(q ReportQuery) (from, to time.Time, status string, err error) {
	if strings.TrimSpace(q.DateFrom) == "" || strings.TrimSpace(q.DateTo) == "" {
		return from, to, "", httperr.ErrValidation("date_range_required", "date_from and date_to are required")
	}

	if from, err = timezone.ParseDate(q.DateFrom); err != nil {
		return from, to, "", err
	}
	if to, err = timezone.ParseDate(q.DateTo); err != nil {
		return from, to, "", err
	}
	if to.Before(from) {
		return from, to, "", httperr.ErrValidation("invalid_date_range", "date_from must not be after date_to")
	}

	status = strings.TrimSpace(q.Status)
	if status == "all" {
		status = ""
	}
	if status != "" && !loan.Status(status).Valid() {
		return from, to, "", httperr.ErrValidation("invalid_status", "unknown loan status")
	}
	return from, to, status, nil
}

// Build lists loans whose loan date falls inside the period. The ranking
// ignores the status filter.
func (u *Usecase) Build(ctx context.Context, q ReportQuery) (*domain.Report, error) {

	// 1) Validate period
	from, to, status, err := u.parse(q)
	if err != nil {
		return nil, err
	}

	// 2) Rows
	loans, err := u.repo.LoansInPeriod(ctx, from, to, status)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.Row, 0, len(loans))
	for i := range loans {
		rows = append(rows, domain.NewRow(&loans[i]))
	}

	// 3) Ranking
	top, err := u.repo.TopEquipment(ctx, from, to, domain.TopLimit)
	if err != nil {
		return nil, err
	}
	if top == nil {
		top = []domain.TopEquipment{}
	}

	return &domain.Report{
		Period: domain.Period{
			From: timezone.FormatDate(from),
			To:   timezone.FormatDate(to),
		},
		Summary: domain.Summarize(rows),
		Rows:    rows,
		Top:     top,
	}, nil
}

// Export writes the report rows as CSV.
func (u *Usecase) Export(ctx context.Context, q ReportQuery, w io.Writer) error {
	rep, err := u.Build(ctx, q)
	if err != nil {
		return err
	}
	return domain.WriteCSV(w, rep.Rows)
}

// ExportFilename names the download after the period.
func ExportFilename(q ReportQuery) string {
	return "loan-report_" + q.DateFrom + "_" + q.DateTo + ".csv"
}

// ======================================================
// Dashboard
// ======================================================

func (u *Usecase) Stats(ctx context.Context) (domain.Stats, error) {
	return u.repo.Stats(ctx)
}

// Activity pages through the activity log newest first. Bad paging values
// fall back to the defaults.
func (u *Usecase) Activity(ctx context.Context, q ActivityQuery) ([]dto.ActivityDTO, int64, domain.ActivityFilter, error) {

	f := domain.ActivityFilter{
		Action: strings.TrimSpace(q.Action),
		Entity: strings.TrimSpace(q.Entity),
		Page:   1,
		Limit:  defaultActivityLimit,
	}

	if p, err := strconv.Atoi(q.Page); err == nil && p > 0 {
		f.Page = min(p, maxActivityPage)
	}
	if l, err := strconv.Atoi(q.Limit); err == nil && l > 0 && l <= maxActivityLimit {
		f.Limit = l
	}

	if q.From != "" {
		from, err := timezone.ParseDate(q.From)
		if err != nil {
			return nil, 0, f, err
		}
		f.From = &from
	}
	if q.To != "" {
		to, err := timezone.ParseDate(q.To)
		if err != nil {
			return nil, 0, f, err
		}
		end := to.AddDate(0, 0, 1)
		f.To = &end
	}

	logs, total, err := u.repo.ListActivity(ctx, f)
	if err != nil {
		return nil, 0, f, err
	}

	out := make([]dto.ActivityDTO, 0, len(logs))
	for i := range logs {
		out = append(out, dto.NewActivityDTO(&logs[i]))
	}
	return out, total, f, nil
}
