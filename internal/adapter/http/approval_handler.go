package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"prestamos-backend/internal/usecase/approval"
)

type ApprovalHandler struct{ uc *approval.Usecase }

func NewApprovalHandler(uc *approval.Usecase) *ApprovalHandler { return &ApprovalHandler{uc: uc} }

type approveLoanReq struct {
	// Accept canonical date `YYYY-MM-DD`; it anchors the first due date.
	ApprovalDate string `json:"approval_date" validate:"omitempty,datetime=2006-01-02"`
}

type rejectLoanReq struct {
	Reason string `json:"reason" validate:"max=500"`
}

func (h *ApprovalHandler) ApproveLoan(c echo.Context) error {
	var req approveLoanReq
	// empty body means "approve as of today"
	if c.Request().ContentLength != 0 {
		if ok, err := bindAndValidate(c, &req); !ok {
			return err
		}
	}
	var asOf time.Time
	if req.ApprovalDate != "" {
		asOf, _ = time.Parse(time.DateOnly, req.ApprovalDate)
	}
	dto, err := h.uc.Approve(c.Request().Context(), approval.ApproveInput{
		LoanID:  c.Param("loan_id"),
		AdminID: actorOf(c).ID,
		AsOf:    asOf,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApprovalHandler) RejectLoan(c echo.Context) error {
	var req rejectLoanReq
	if c.Request().ContentLength != 0 {
		if ok, err := bindAndValidate(c, &req); !ok {
			return err
		}
	}
	dto, err := h.uc.Reject(c.Request().Context(), approval.RejectInput{
		LoanID:  c.Param("loan_id"),
		AdminID: actorOf(c).ID,
		Reason:  req.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
