package handler

import (
	"net/http"

	"samaka/internal/config"
	"samaka/internal/domain/model"
	"samaka/internal/middleware"
	"samaka/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 配送担当向けAPI
type DeliveryHandler struct {
	uc *usecase.DeliveryUsecase
}

func NewDeliveryHandler(uc *usecase.DeliveryUsecase) *DeliveryHandler {
	return &DeliveryHandler{uc: uc}
}

func (h *DeliveryHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/delivery")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.RoleGuard(string(model.RoleDelivery), string(model.RoleAdmin)))

	g.POST("/orders/:number/status", h.updateStatus)
}

func (h *DeliveryHandler) updateStatus(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	role, ok := getRoleFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.UpdateDeliveryStatusInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateDeliveryStatus(c.Request().Context(),
		usecase.Actor{UserID: userID, Role: role}, c.Param("number"), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
