package handler

import (
	"net/http"

	"samaka/internal/domain/model"
	"samaka/internal/middleware"
	"samaka/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxUserIDKey)
	id, ok := v.(int64)
	return id, ok
}

func getRoleFromContext(c echo.Context) (model.Role, bool) {
	v := c.Get(middleware.CtxUserRoleKey)
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return model.Role(s), true
}
