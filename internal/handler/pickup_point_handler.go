package handler

import (
	"net/http"

	"samaka/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 受け取り拠点の公開API
type PickupPointHandler struct {
	uc *usecase.PickupPointUsecase
}

func NewPickupPointHandler(uc *usecase.PickupPointUsecase) *PickupPointHandler {
	return &PickupPointHandler{uc: uc}
}

func (h *PickupPointHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/pickup-points", h.list)
}

func (h *PickupPointHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
