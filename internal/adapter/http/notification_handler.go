package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"prestamos-backend/internal/domain/errs"
	"prestamos-backend/internal/usecase/notification"
)

type NotificationHandler struct{ uc *notification.Usecase }

func NewNotificationHandler(uc *notification.Usecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

func (h *NotificationHandler) Inbox(c echo.Context) error {
	limit, err := intQuery(c, "limit", 20)
	if err != nil {
		return writeError(c, err)
	}
	offset, err := intQuery(c, "offset", 0)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Inbox(c.Request().Context(), actorOf(c), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func intQuery(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errs.Validation(name, "must be a non-negative integer")
	}
	return v, nil
}
