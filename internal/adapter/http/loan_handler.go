package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"prestamos-backend/internal/usecase/loan"
	"prestamos-backend/internal/usecase/settlement"
)

type LoanHandler struct {
	uc       *loan.Usecase
	progress *settlement.Usecase
}

func NewLoanHandler(uc *loan.Usecase, progress *settlement.Usecase) *LoanHandler {
	return &LoanHandler{uc: uc, progress: progress}
}

type createLoanReq struct {
	LoanOptionID      *uint64          `json:"loan_option_id"      validate:"omitempty,gt=0"`
	Principal         decimal.Decimal  `json:"principal"           validate:"required,money"`
	TermMonths        *int             `json:"term_months"         validate:"omitempty,gte=1,lte=360"`
	AnnualInterestPct *decimal.Decimal `json:"annual_interest_pct" validate:"omitempty,pct"`
	Purpose           string           `json:"purpose"             validate:"max=500"`
}

type signLoanReq struct {
	Mode    string `json:"mode"    validate:"required,oneof=drawn typed accepted"`
	Payload string `json:"payload" validate:"max=200000"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), loan.CreateLoanInput{
		Actor:             actorOf(c),
		LoanOptionID:      req.LoanOptionID,
		Principal:         req.Principal,
		TermMonths:        req.TermMonths,
		AnnualInterestPct: req.AnnualInterestPct,
		Purpose:           req.Purpose,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// ListLoans returns the caller's requests, or every request for admins
// (optionally filtered by ?status=).
func (h *LoanHandler) ListLoans(c echo.Context) error {
	a := actorOf(c)
	var (
		out []loan.LoanDTO
		err error
	)
	if a.IsAdmin() {
		out, err = h.uc.ListAll(c.Request().Context(), c.QueryParam("status"))
	} else {
		out, err = h.uc.ListByBorrower(c.Request().Context(), a)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"), actorOf(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) SignLoan(c echo.Context) error {
	var req signLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Sign(c.Request().Context(), loan.SignInput{
		LoanID:  c.Param("loan_id"),
		Actor:   actorOf(c),
		Mode:    req.Mode,
		Payload: req.Payload,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Progress(c echo.Context) error {
	p, err := h.progress.Progress(c.Request().Context(), c.Param("loan_id"), actorOf(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *LoanHandler) ActiveLoans(c echo.Context) error {
	out, err := h.progress.ActiveLoans(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) Options(c echo.Context) error {
	out, err := h.uc.Options(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
