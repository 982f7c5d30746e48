package server

import (
	"samaka/internal/config"
	"samaka/internal/handler"

	"github.com/labstack/echo/v4"
)

// Handlers はルーティング対象のハンドラ一式。
type Handlers struct {
	Auth        *handler.AuthHandler
	Cart        *handler.CartHandler
	Checkout    *handler.CheckoutHandler
	Order       *handler.OrderHandler
	Callback    *handler.MpesaCallbackHandler
	Fisherman   *handler.FishermanHandler
	Delivery    *handler.DeliveryHandler
	PickupPoint *handler.PickupPointHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	h.Auth.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e, cfg)
	h.Checkout.RegisterRoutes(e, cfg)
	h.Order.RegisterRoutes(e, cfg)
	h.Callback.RegisterRoutes(e)
	h.Fisherman.RegisterRoutes(e, cfg)
	h.Delivery.RegisterRoutes(e, cfg)
	h.PickupPoint.RegisterRoutes(e)
}
