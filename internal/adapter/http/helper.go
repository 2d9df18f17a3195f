package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"prestamos-backend/internal/adapter/middleware"
	"prestamos-backend/internal/domain/errs"
	"prestamos-backend/internal/domain/user"
	"prestamos-backend/pkg/logger"
)

type TransitionResponse struct {
	Error     string `json:"error"`
	Current   string `json:"current"`
	Requested string `json:"requested"`
}

// bindStrict decodes exactly one JSON object and rejects unknown fields.
func bindStrict(c echo.Context, v any) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after the JSON object")
	}
	return nil
}

// bindAndValidate writes the 400/422 response itself; callers return when
// ok is false.
func bindAndValidate(c echo.Context, v any) (ok bool, err error) {
	if err := bindStrict(c, v); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body: " + err.Error()})
	}
	if err := c.Validate(v); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

func actorOf(c echo.Context) user.Actor {
	a, _ := middleware.ActorFrom(c)
	return a
}

func uintParam(c echo.Context, name string) (uint64, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, errs.Validation(name, "must be a positive integer")
	}
	return v, nil
}

// writeError maps domain errors to HTTP codes. Anything unknown is a 500
// whose detail only goes to the log.
func writeError(c echo.Context, err error) error {
	var (
		ve *errs.ValidationError
		te *errs.InvalidTransitionError
	)
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: []FieldError{{Field: ve.Field, Message: ve.Message}},
		})
	case errors.As(err, &te):
		return c.JSON(http.StatusConflict, TransitionResponse{Error: te.Error(), Current: te.Current, Requested: te.Requested})
	case errors.Is(err, errs.ErrConflict):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, errs.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, errs.ErrForbidden):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "request timed out"})
	}
	logger.Error(c.Request().Context(), "http: unhandled error",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
