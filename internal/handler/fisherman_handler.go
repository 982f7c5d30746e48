package handler

import (
	"net/http"
	"strconv"

	"samaka/internal/config"
	"samaka/internal/domain/model"
	"samaka/internal/middleware"
	"samaka/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 漁師向けAPI（明細の準備状況、通知、番号確認）
type FishermanHandler struct {
	fulfillment  *usecase.FulfillmentUsecase
	notification *usecase.NotificationUsecase
	verification *usecase.VerificationUsecase
}

func NewFishermanHandler(
	fulfillment *usecase.FulfillmentUsecase,
	notification *usecase.NotificationUsecase,
	verification *usecase.VerificationUsecase,
) *FishermanHandler {
	return &FishermanHandler{
		fulfillment:  fulfillment,
		notification: notification,
		verification: verification,
	}
}

func (h *FishermanHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/fisherman")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.RoleGuard(string(model.RoleFisherman), string(model.RoleAdmin)))

	g.POST("/orders/:number/items/:id/status", h.updateItemStatus)
	g.GET("/notifications", h.listNotifications)
	g.POST("/notifications/:id/read", h.markRead)
	g.POST("/verify-phone", h.verifyPhone)
}

func (h *FishermanHandler) updateItemStatus(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req usecase.UpdateItemStatusInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.fulfillment.UpdateItemStatus(c.Request().Context(), userID, c.Param("number"), itemID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FishermanHandler) listNotifications(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.notification.List(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FishermanHandler) markRead(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.notification.MarkRead(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *FishermanHandler) verifyPhone(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.verification.RequestPhoneVerification(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusAccepted, out)
}
