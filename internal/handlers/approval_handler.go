package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
	"github.com/BruksfildServices01/equipment-rental/internal/httpresp"
	ucLoan "github.com/BruksfildServices01/equipment-rental/internal/usecase/loan"
)

type ApprovalHandler struct {
	decide *ucLoan.DecideLoan
	list   *ucLoan.ListLoans
}

func NewApprovalHandler(decide *ucLoan.DecideLoan, list *ucLoan.ListLoans) *ApprovalHandler {
	return &ApprovalHandler{decide: decide, list: list}
}

// DecisionRequest leaves decision unchecked here so an unknown value is
// reported as invalid_decision.
type DecisionRequest struct {
	LoanID   uint   `json:"loan_id" binding:"required"`
	Decision string `json:"decision" binding:"required"`
}

func (h *ApprovalHandler) Decide(c *gin.Context) {
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	loan, err := h.decide.Execute(c.Request.Context(), actor(c), req.LoanID, req.Decision)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Message(c, "loan "+loan.Status, h.list.Present(loan))
}
