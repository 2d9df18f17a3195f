package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"prestamos-backend/internal/adapter/middleware"
	"prestamos-backend/internal/domain/errs"
	domain "prestamos-backend/internal/domain/loan"
	"prestamos-backend/internal/domain/user"
	"prestamos-backend/internal/testutil/loanmock"
	"prestamos-backend/internal/usecase/loan"
)

var (
	borrower = user.Actor{ID: 7, Role: user.RoleCliente}
	admin    = user.Actor{ID: 1, Role: user.RoleAdmin}
)

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func newCtx(e *echo.Echo, method, target string, body []byte, a user.Actor) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetActor(c, a)
	return c, rec
}

func newLoanHandler(repo *loanmock.Repo) *LoanHandler {
	return NewLoanHandler(loan.NewUsecase(repo, nil, nil, nil), nil)
}

func TestCreateLoan_Created(t *testing.T) {
	var saved *domain.Loan
	repo := &loanmock.Repo{
		GetPendingLoanByBorrowerIDFn: func(ctx context.Context, id uint64) (*domain.Loan, error) {
			return nil, errs.NotFound("loan", "")
		},
		CreateFn: func(ctx context.Context, l *domain.Loan) error { saved = l; return nil },
	}
	e := newEchoWithValidator()
	body := mustJSON(t, map[string]any{
		"principal":           "10000",
		"term_months":         3,
		"annual_interest_pct": 12,
		"purpose":             "capital de trabajo",
	})
	c, rec := newCtx(e, http.MethodPost, "/loans", body, borrower)

	require.NoError(t, newLoanHandler(repo).CreateLoan(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotNil(t, saved)
	require.Equal(t, uint64(7), saved.BorrowerID)
	require.Equal(t, 3, saved.TermMonths)
	require.Equal(t, "12", saved.AnnualInterestPct.String())

	var dto loan.LoanDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	require.Equal(t, saved.LoanID, dto.LoanID)
	require.Equal(t, "pendiente", dto.Status)
	require.Equal(t, domain.SignUnsigned, dto.SignStatus)
}

func TestCreateLoan_Rejections(t *testing.T) {
	cases := []struct {
		name  string
		body  map[string]any
		code  int
		field string
	}{
		{"unknown field", map[string]any{"principal": "100", "rate": 1}, http.StatusBadRequest, ""},
		{"bad principal", map[string]any{"principal": "10.001", "term_months": 3, "annual_interest_pct": "12"}, http.StatusUnprocessableEntity, "principal"},
		{"term out of range", map[string]any{"principal": "100", "term_months": 361, "annual_interest_pct": "12"}, http.StatusUnprocessableEntity, "term_months"},
		{"rate out of range", map[string]any{"principal": "100", "term_months": 3, "annual_interest_pct": "100.5"}, http.StatusUnprocessableEntity, "annual_interest_pct"},
		{"missing term", map[string]any{"principal": "100", "annual_interest_pct": "12"}, http.StatusUnprocessableEntity, "term_months"},
		{"option mixed with terms", map[string]any{"principal": "100", "loan_option_id": 2, "term_months": 3}, http.StatusUnprocessableEntity, "loan_option_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &loanmock.Repo{
				CreateFn: func(ctx context.Context, l *domain.Loan) error {
					t.Fatalf("Create must not be called")
					return nil
				},
			}
			e := newEchoWithValidator()
			c, rec := newCtx(e, http.MethodPost, "/loans", mustJSON(t, tc.body), borrower)

			require.NoError(t, newLoanHandler(repo).CreateLoan(c))
			require.Equal(t, tc.code, rec.Code, rec.Body.String())
			if tc.field != "" {
				var body ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				require.NotEmpty(t, body.Details)
				require.Equal(t, tc.field, body.Details[0].Field)
			}
		})
	}
}

func TestCreateLoan_PendingIsConflict(t *testing.T) {
	repo := &loanmock.Repo{
		GetPendingLoanByBorrowerIDFn: func(ctx context.Context, id uint64) (*domain.Loan, error) {
			return &domain.Loan{LoanID: "existing"}, nil
		},
	}
	e := newEchoWithValidator()
	body := mustJSON(t, map[string]any{"principal": "100", "term_months": 3, "annual_interest_pct": "12"})
	c, rec := newCtx(e, http.MethodPost, "/loans", body, borrower)

	require.NoError(t, newLoanHandler(repo).CreateLoan(c))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "existing")
}

func TestCreateLoan_AdminForbidden(t *testing.T) {
	e := newEchoWithValidator()
	body := mustJSON(t, map[string]any{"principal": "100", "term_months": 3, "annual_interest_pct": "12"})
	c, rec := newCtx(e, http.MethodPost, "/loans", body, admin)

	require.NoError(t, newLoanHandler(&loanmock.Repo{}).CreateLoan(c))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetLoan(t *testing.T) {
	repo := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*domain.Loan, error) {
			if loanID != "L1" {
				return nil, errs.NotFound("loan", loanID)
			}
			return &domain.Loan{LoanID: "L1", BorrowerID: 7, Status: domain.StatusPendiente}, nil
		},
	}
	h := newLoanHandler(repo)
	e := newEchoWithValidator()

	cases := []struct {
		name   string
		loanID string
		actor  user.Actor
		code   int
	}{
		{"owner", "L1", borrower, http.StatusOK},
		{"admin", "L1", admin, http.StatusOK},
		{"other borrower", "L1", user.Actor{ID: 99, Role: user.RoleCliente}, http.StatusForbidden},
		{"missing", "L2", borrower, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newCtx(e, http.MethodGet, "/loans/"+tc.loanID, nil, tc.actor)
			c.SetParamNames("loan_id")
			c.SetParamValues(tc.loanID)

			require.NoError(t, h.GetLoan(c))
			require.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestSignLoan(t *testing.T) {
	stored := &domain.Loan{ID: 3, LoanID: "L1", BorrowerID: 7, Status: domain.StatusPendiente, SignStatus: domain.SignUnsigned}
	var payload string
	repo := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*domain.Loan, error) {
			cp := *stored
			return &cp, nil
		},
		MarkSignedFn: func(ctx context.Context, id uint64, mode domain.SignMode, p string, at time.Time) (bool, error) {
			payload = p
			stored.SignStatus, stored.SignMode, stored.SignedAt = domain.SignSigned, mode, &at
			return true, nil
		},
	}
	h := newLoanHandler(repo)
	e := newEchoWithValidator()

	c, rec := newCtx(e, http.MethodPost, "/loans/L1/sign", mustJSON(t, map[string]string{"mode": "stamp"}), borrower)
	c.SetParamNames("loan_id")
	c.SetParamValues("L1")
	require.NoError(t, h.SignLoan(c))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	c, rec = newCtx(e, http.MethodPost, "/loans/L1/sign", mustJSON(t, map[string]string{"mode": "typed", "payload": "Ana Pérez"}), borrower)
	c.SetParamNames("loan_id")
	c.SetParamValues("L1")
	require.NoError(t, h.SignLoan(c))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "Ana Pérez", payload)

	var dto loan.LoanDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	require.Equal(t, domain.SignSigned, dto.SignStatus)
	require.Equal(t, domain.SignModeTyped, dto.SignMode)
}
