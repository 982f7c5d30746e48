package handler

import (
	"net/http"

	"samaka/internal/config"
	"samaka/internal/middleware"
	"samaka/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/checkout")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.checkout)
}

func (h *CheckoutHandler) checkout(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.PlaceOrderInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), userID, req)
	if err != nil {
		//課金発行に失敗しても、作成済み注文の情報は返す
		if he, ok := usecase.AsHTTPError(err); ok && he.Status == http.StatusBadGateway && out.OrderID != 0 {
			return c.JSON(http.StatusBadGateway, out)
		}
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}
