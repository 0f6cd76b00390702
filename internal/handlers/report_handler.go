package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
	"github.com/BruksfildServices01/equipment-rental/internal/httpresp"
	ucReport "github.com/BruksfildServices01/equipment-rental/internal/usecase/report"
)

// ======================================================
// HANDLER
// ======================================================

type ReportHandler struct {
	reports *ucReport.Usecase
}

func NewReportHandler(reports *ucReport.Usecase) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func reportQuery(c *gin.Context) ucReport.ReportQuery {
	return ucReport.ReportQuery{
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
		Status:   c.Query("status"),
	}
}

// ======================================================
// REPORTS
// ======================================================

func (h *ReportHandler) Report(c *gin.Context) {
	rep, err := h.reports.Build(c.Request.Context(), reportQuery(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, rep)
}

// Export renders into a buffer first so a failure still gets a JSON error.
func (h *ReportHandler) Export(c *gin.Context) {
	q := reportQuery(c)

	var buf bytes.Buffer
	if err := h.reports.Export(c.Request.Context(), q, &buf); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+ucReport.ExportFilename(q)+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ======================================================
// ADMIN DASHBOARD
// ======================================================

func (h *ReportHandler) Stats(c *gin.Context) {
	stats, err := h.reports.Stats(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, stats)
}

func (h *ReportHandler) ActivityLogs(c *gin.Context) {
	logs, total, f, err := h.reports.Activity(c.Request.Context(), ucReport.ActivityQuery{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		From:   c.Query("from"),
		To:     c.Query("to"),
		Page:   c.DefaultQuery("page", "1"),
		Limit:  c.DefaultQuery("limit", "50"),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Page(c, logs, total, f.Page, f.Limit)
}
