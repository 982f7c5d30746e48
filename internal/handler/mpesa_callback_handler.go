package handler

import (
	"io"
	"net/http"

	"samaka/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ゲートウェイが叩くコールバック。認証は付けない（付けたら届かない）。
type MpesaCallbackHandler struct {
	uc *usecase.ReconcileUsecase
}

func NewMpesaCallbackHandler(uc *usecase.ReconcileUsecase) *MpesaCallbackHandler {
	return &MpesaCallbackHandler{uc: uc}
}

func (h *MpesaCallbackHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/mpesa/callback", h.callback)
}

func (h *MpesaCallbackHandler) callback(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.HandleCallback(c.Request().Context(), body)
	if err != nil {
		return writeError(c, err)
	}

	//成功・ビジネス上の失敗（決済拒否）はどちらも200で受領を返す。
	//200以外を返すとゲートウェイがリトライし続ける。
	return c.JSON(http.StatusOK, out)
}
