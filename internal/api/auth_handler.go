package api

import (
	"github.com/labstack/echo/v4"

	"tracker-service/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Token exchanges credentials for a token pair --> POST /token
func (h *AuthHandler) Token(c echo.Context) error {
	login := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{}

	if err := c.Bind(&login); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	pair, err := h.authService.Login(c.Request().Context(), login.Username, login.Password)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, pair)
}

// TokenRefresh exchanges a refresh token for a new access token --> POST /token/refresh
func (h *AuthHandler) TokenRefresh(c echo.Context) error {
	body := struct {
		Refresh string `json:"refresh"`
	}{}

	if err := c.Bind(&body); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	access, err := h.authService.Refresh(c.Request().Context(), body.Refresh)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, map[string]string{"access": access})
}
