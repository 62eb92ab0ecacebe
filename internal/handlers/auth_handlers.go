package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"juntacomunal/internal/models"
	"juntacomunal/internal/services"
)

type AuthService interface {
	Login(ctx context.Context, req models.LoginRequest, meta services.LoginMeta) (*models.LoginResponse, error)
	Me(ctx context.Context, userID int64) (*models.AuthUser, error)
}

// AuthHandlers handles login and the current-user lookup.
type AuthHandlers struct {
	authService AuthService
}

func NewAuthHandlers(authService AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// Login godoc
// @Summary Iniciar sesion
// @Description Devuelve un access token para credenciales validas.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credenciales"
// @Success 200 {object} models.LoginResponse
// @Failure 401 {object} common.ErrorResponse
// @Failure 429 {object} common.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandlers) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	res, err := h.authService.Login(c.Request().Context(), req, services.LoginMeta{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Me godoc
// @Summary Usuario autenticado
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.AuthUser
// @Router /api/auth/me [get]
func (h *AuthHandlers) Me(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	user, err := h.authService.Me(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
