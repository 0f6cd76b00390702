package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/equipment-rental/internal/domain/loan"
	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
	"github.com/BruksfildServices01/equipment-rental/internal/httpresp"
	ucLoan "github.com/BruksfildServices01/equipment-rental/internal/usecase/loan"
)

// ======================================================
// HANDLER
// ======================================================

type LoanHandler struct {
	request *ucLoan.RequestLoan
	update  *ucLoan.UpdateLoan
	remove  *ucLoan.DeleteLoan
	list    *ucLoan.ListLoans
}

func NewLoanHandler(
	request *ucLoan.RequestLoan,
	update *ucLoan.UpdateLoan,
	remove *ucLoan.DeleteLoan,
	list *ucLoan.ListLoans,
) *LoanHandler {
	return &LoanHandler{
		request: request,
		update:  update,
		remove:  remove,
		list:    list,
	}
}

// ======================================================
// REQUESTS
// ======================================================

// CreateLoanRequest: user_id is only honoured for admins; quantity
// defaults to 1.
type CreateLoanRequest struct {
	UserID            uint   `json:"user_id"`
	EquipmentID       uint   `json:"equipment_id" binding:"required"`
	LoanDate          string `json:"loan_date" binding:"required,date"`
	PlannedReturnDate string `json:"planned_return_date" binding:"required,date"`
	Quantity          int    `json:"quantity"`
}

type UpdateLoanRequest struct {
	LoanDate          string `json:"loan_date" binding:"required,date"`
	PlannedReturnDate string `json:"planned_return_date" binding:"required,date"`
	Quantity          int    `json:"quantity"`
}

// ======================================================
// READ
// ======================================================

func (h *LoanHandler) List(c *gin.Context) {
	userID, ok := queryUint(c, "user_id")
	if !ok {
		return
	}
	equipmentID, ok := queryUint(c, "equipment_id")
	if !ok {
		return
	}

	status := c.Query("status")
	if status == "all" {
		status = ""
	}

	loans, err := h.list.Execute(c.Request.Context(), actor(c), domain.ListFilter{
		Status:      domain.Status(status),
		UserID:      userID,
		EquipmentID: equipmentID,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, loans)
}

func (h *LoanHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	loan, err := h.list.Get(c.Request.Context(), actor(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, loan)
}

// ======================================================
// WRITE
// ======================================================

func (h *LoanHandler) Create(c *gin.Context) {
	var req CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	loan, err := h.request.Execute(c.Request.Context(), ucLoan.RequestLoanInput{
		Actor:             actor(c),
		UserID:            req.UserID,
		EquipmentID:       req.EquipmentID,
		LoanDate:          req.LoanDate,
		PlannedReturnDate: req.PlannedReturnDate,
		Quantity:          req.Quantity,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, "loan requested", h.list.Present(loan))
}

func (h *LoanHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req UpdateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	loan, err := h.update.Execute(c.Request.Context(), ucLoan.UpdateLoanInput{
		Actor:             actor(c),
		LoanID:            id,
		LoanDate:          req.LoanDate,
		PlannedReturnDate: req.PlannedReturnDate,
		Quantity:          req.Quantity,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Message(c, "loan updated", h.list.Present(loan))
}

func (h *LoanHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.remove.Execute(c.Request.Context(), actor(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Message(c, "loan deleted", nil)
}
