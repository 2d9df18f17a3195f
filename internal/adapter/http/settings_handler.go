package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"prestamos-backend/internal/domain/setting"
)

type SettingsHandler struct{ p setting.Provider }

func NewSettingsHandler(p setting.Provider) *SettingsHandler { return &SettingsHandler{p: p} }

type settingResp struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type putSettingReq struct {
	Value string `json:"value" validate:"required,email"`
}

func (h *SettingsHandler) Get(c echo.Context) error {
	key := c.Param("key")
	v, err := h.p.Get(c.Request().Context(), key)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, settingResp{Key: key, Value: v})
}

func (h *SettingsHandler) Put(c echo.Context) error {
	var req putSettingReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	key := c.Param("key")
	if err := h.p.Set(c.Request().Context(), key, req.Value); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, settingResp{Key: key, Value: req.Value})
}

func (h *SettingsHandler) Refresh(c echo.Context) error {
	key := c.Param("key")
	v, err := h.p.Refresh(c.Request().Context(), key)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, settingResp{Key: key, Value: v})
}
