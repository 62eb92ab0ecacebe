package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"juntacomunal/internal/models"
	"juntacomunal/internal/services"
)

type AuthUserService interface {
	Register(ctx context.Context, in models.CreateAuthUserRequest) (*models.AuthUser, error)
	List(ctx context.Context, callerID int64, filter models.AuthUserFilter) ([]models.AuthUser, error)
	Get(ctx context.Context, callerID, id int64) (*models.AuthUser, error)
	Update(ctx context.Context, callerID, id int64, in models.UpdateAuthUserRequest) (*models.AuthUser, error)
	Delete(ctx context.Context, callerID, id int64) error
}

// AuthUserHandlers serves /api/auth-users. Registration is public; every
// other route acts only on the caller's own account.
type AuthUserHandlers struct {
	users AuthUserService
}

func NewAuthUserHandlers(users AuthUserService) *AuthUserHandlers {
	return &AuthUserHandlers{users: users}
}

// Register godoc
// @Summary Registrar usuario
// @Tags auth-users
// @Accept json
// @Produce json
// @Param request body models.CreateAuthUserRequest true "Usuario"
// @Success 201 {object} models.AuthUser
// @Failure 409 {object} common.ErrorResponse
// @Router /api/auth-users [post]
func (h *AuthUserHandlers) Register(c echo.Context) error {
	var req models.CreateAuthUserRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	user, err := h.users.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthUserHandlers) List(c echo.Context) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}
	q := newQuery(c)
	filter := models.AuthUserFilter{
		Email:  q.text("email"),
		Estado: q.enum("estado", allowed(services.ActivacionEstados)),
		Window: q.window(),
	}
	if q.err != nil {
		return q.err
	}
	users, err := h.users.List(c.Request().Context(), caller, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func (h *AuthUserHandlers) Get(c echo.Context) error {
	caller, id, err := callerAndID(c)
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.Request().Context(), caller, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthUserHandlers) Update(c echo.Context) error {
	caller, id, err := callerAndID(c)
	if err != nil {
		return err
	}
	var req models.UpdateAuthUserRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	user, err := h.users.Update(c.Request().Context(), caller, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthUserHandlers) Delete(c echo.Context) error {
	caller, id, err := callerAndID(c)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.Request().Context(), caller, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func callerAndID(c echo.Context) (int64, int64, error) {
	caller, err := callerID(c)
	if err != nil {
		return 0, 0, err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return 0, 0, err
	}
	return caller, id, nil
}
