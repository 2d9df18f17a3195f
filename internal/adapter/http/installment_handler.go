package http

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	domain "prestamos-backend/internal/domain/installment"
	"prestamos-backend/internal/usecase/installment"
	"prestamos-backend/internal/usecase/schedule"
)

// MaxReceiptBytes caps one uploaded receipt.
const MaxReceiptBytes = 10 << 20

type InstallmentHandler struct {
	uc       *installment.Usecase
	schedule *schedule.Usecase
}

func NewInstallmentHandler(uc *installment.Usecase, s *schedule.Usecase) *InstallmentHandler {
	return &InstallmentHandler{uc: uc, schedule: s}
}

type updateStatusReq struct {
	Status     string           `json:"status"      validate:"required,oneof=pendiente reportado pagado rechazado atrasado"`
	PaidAmount *decimal.Decimal `json:"paid_amount" validate:"omitempty,money"`
}

type ensureScheduleReq struct {
	AsOf string `json:"as_of" validate:"omitempty,datetime=2006-01-02"`
}

// EnsureSchedule answers 201 when rows were written and 200 with
// skipped=true when the loan already had them.
func (h *InstallmentHandler) EnsureSchedule(c echo.Context) error {
	var req ensureScheduleReq
	if c.Request().ContentLength != 0 {
		if ok, err := bindAndValidate(c, &req); !ok {
			return err
		}
	}
	var asOf time.Time
	if req.AsOf != "" {
		asOf, _ = time.Parse(time.DateOnly, req.AsOf)
	}
	res, err := h.schedule.EnsureForLoan(c.Request().Context(), c.Param("loan_id"), asOf)
	if err != nil {
		return writeError(c, err)
	}
	if res.Skipped {
		return c.JSON(http.StatusOK, res)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *InstallmentHandler) ListByLoan(c echo.Context) error {
	rows, err := h.uc.ListByLoan(c.Request().Context(), c.Param("loan_id"), actorOf(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// Report takes the receipt as multipart field "receipt".
func (h *InstallmentHandler) Report(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	fh, err := c.FormFile("receipt")
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: []FieldError{{Field: "receipt", Message: "is required"}},
		})
	}
	if fh.Size > MaxReceiptBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "receipt exceeds " + strconv.Itoa(MaxReceiptBytes) + " bytes"})
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxReceiptBytes))
	if err != nil {
		return writeError(c, err)
	}
	if len(data) == 0 {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: []FieldError{{Field: "receipt", Message: "must not be empty"}},
		})
	}
	mime := fh.Header.Get(echo.HeaderContentType)
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	meta, _ := json.Marshal(map[string]any{
		"size":        len(data),
		"uploaded_at": time.Now().UTC(),
	})

	row, err := h.uc.Report(c.Request().Context(), installment.ReportInput{
		InstallmentID: id,
		Actor:         actorOf(c),
		Receipt: domain.Receipt{
			Data:         data,
			Mime:         mime,
			OriginalName: filepath.Base(fh.Filename),
			Meta:         string(meta),
		},
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, row)
}

func (h *InstallmentHandler) Receipt(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	r, err := h.uc.Receipt(c.Request().Context(), id, actorOf(c))
	if err != nil {
		return writeError(c, err)
	}
	if r.OriginalName != "" {
		c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+strconv.Quote(r.OriginalName))
	}
	mime := r.Mime
	if mime == "" {
		mime = echo.MIMEOctetStream
	}
	return c.Blob(http.StatusOK, mime, r.Data)
}

func (h *InstallmentHandler) UpdateStatus(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req updateStatusReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	res, err := h.uc.UpdateStatus(c.Request().Context(), installment.UpdateStatusInput{
		InstallmentID: id,
		AdminID:       actorOf(c).ID,
		Status:        req.Status,
		PaidAmount:    req.PaidAmount,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// SweepOverdue runs the overdue job now for today's date.
func (h *InstallmentHandler) SweepOverdue(c echo.Context) error {
	res, err := h.uc.SweepOverdue(c.Request().Context(), time.Time{})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
