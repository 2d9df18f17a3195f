package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"prestamos-backend/internal/usecase/document"
)

type DocumentHandler struct{ uc *document.Usecase }

func NewDocumentHandler(uc *document.Usecase) *DocumentHandler { return &DocumentHandler{uc: uc} }

type setSlotReq struct {
	UserID string `json:"user_id" validate:"omitempty,hex32"`
	Slot   string `json:"slot"    validate:"required,oneof=cedula estadoCuenta cartaTrabajo videoAceptacion"`
	State  string `json:"state"   validate:"required,oneof=pendiente enviado error"`
}

func (h *DocumentHandler) Status(c echo.Context) error {
	ctx := c.Request().Context()
	uid, err := h.uc.Target(ctx, actorOf(c), c.QueryParam("user_id"))
	if err != nil {
		return writeError(c, err)
	}
	dto, err := h.uc.Status(ctx, uid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *DocumentHandler) SetSlot(c echo.Context) error {
	var req setSlotReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	ctx := c.Request().Context()
	uid, err := h.uc.Target(ctx, actorOf(c), req.UserID)
	if err != nil {
		return writeError(c, err)
	}
	dto, err := h.uc.SetSlot(ctx, uid, req.Slot, req.State)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// MarkUploaded is called by the client once a document file is stored.
func (h *DocumentHandler) MarkUploaded(c echo.Context) error {
	dto, err := h.uc.MarkUploaded(c.Request().Context(), actorOf(c).ID, c.Param("slot"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
