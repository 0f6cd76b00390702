package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/equipment-rental/internal/dto"
	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
	"github.com/BruksfildServices01/equipment-rental/internal/httpresp"
	ucLoan "github.com/BruksfildServices01/equipment-rental/internal/usecase/loan"
)

// ======================================================
// HANDLER
// ======================================================

type ReturnHandler struct {
	process *ucLoan.ProcessReturn
	update  *ucLoan.UpdateReturn
	remove  *ucLoan.DeleteReturn
	list    *ucLoan.ListLoans
}

func NewReturnHandler(
	process *ucLoan.ProcessReturn,
	update *ucLoan.UpdateReturn,
	remove *ucLoan.DeleteReturn,
	list *ucLoan.ListLoans,
) *ReturnHandler {
	return &ReturnHandler{
		process: process,
		update:  update,
		remove:  remove,
		list:    list,
	}
}

type ProcessReturnRequest struct {
	LoanID     uint   `json:"loan_id" binding:"required"`
	ReturnDate string `json:"return_date" binding:"required,date"`
}

type UpdateReturnRequest struct {
	ReturnDate string `json:"return_date" binding:"required,date"`
}

func present(res *ucLoan.ReturnResult) dto.ReturnResultDTO {
	return dto.ReturnResultDTO{
		Return:  dto.NewReturnDTO(res.Return),
		Charges: res.Charges,
	}
}

// ======================================================
// ACTIONS
// ======================================================

func (h *ReturnHandler) List(c *gin.Context) {
	rets, err := h.list.Returns(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, rets)
}

func (h *ReturnHandler) Create(c *gin.Context) {
	var req ProcessReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	res, err := h.process.Execute(c.Request.Context(), actor(c), req.LoanID, req.ReturnDate)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, "return processed", present(res))
}

func (h *ReturnHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req UpdateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	res, err := h.update.Execute(c.Request.Context(), actor(c), id, req.ReturnDate)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Message(c, "return updated", present(res))
}

// Delete reopens the loan as approved.
func (h *ReturnHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	loan, err := h.remove.Execute(c.Request.Context(), actor(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Message(c, "return deleted", h.list.Present(loan))
}
