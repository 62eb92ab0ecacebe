package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"juntacomunal/internal/models"
	"juntacomunal/internal/services"
	"juntacomunal/internal/tenancy"
)

type TenantService interface {
	Create(ctx context.Context, callerID int64, in models.CreateTenantRequest) (*models.Tenant, error)
	List(ctx context.Context, callerID int64, filter models.TenantFilter) ([]models.Tenant, error)
	Get(ctx context.Context, access tenancy.Access) (*models.Tenant, error)
	Update(ctx context.Context, access tenancy.Access, in models.UpdateTenantRequest) (*models.Tenant, error)
	Delete(ctx context.Context, access tenancy.Access) error
	Members(ctx context.Context, access tenancy.Access) ([]models.Membership, error)
}

type InvitationService interface {
	Create(ctx context.Context, access tenancy.Access, in models.CreateInvitationRequest) (*models.Invitation, error)
	ListForTenant(ctx context.Context, access tenancy.Access) ([]models.Invitation, error)
	Mine(ctx context.Context, callerID int64) ([]models.Invitation, error)
	Accept(ctx context.Context, callerID, id int64) (*models.Membership, error)
	Reject(ctx context.Context, callerID, id int64) (*models.Invitation, error)
}

// TenantHandlers serves the tenant directory, its members and invitations.
// Routes addressing one tenant run behind the tenant guard on the path id.
type TenantHandlers struct {
	tenants     TenantService
	invitations InvitationService
}

func NewTenantHandlers(tenants TenantService, invitations InvitationService) *TenantHandlers {
	return &TenantHandlers{tenants: tenants, invitations: invitations}
}

// CreateTenant godoc
// @Summary Crear tenant
// @Description El usuario autenticado queda como OWNER salvo que se indique ownerUserId.
// @Tags tenants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateTenantRequest true "Tenant"
// @Success 201 {object} models.Tenant
// @Router /api/tenants [post]
func (h *TenantHandlers) CreateTenant(c echo.Context) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}
	var req models.CreateTenantRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	tenant, err := h.tenants.Create(c.Request().Context(), caller, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tenant)
}

func (h *TenantHandlers) ListTenants(c echo.Context) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}
	q := newQuery(c)
	filter := models.TenantFilter{
		Nombre: q.text("nombre"),
		Estado: q.enum("estado", allowed(services.ActivacionEstados)),
		Window: q.window(),
	}
	if q.err != nil {
		return q.err
	}
	tenants, err := h.tenants.List(c.Request().Context(), caller, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tenants)
}

func (h *TenantHandlers) GetTenant(c echo.Context) error {
	acc, err := access(c)
	if err != nil {
		return err
	}
	tenant, err := h.tenants.Get(c.Request().Context(), acc)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tenant)
}

func (h *TenantHandlers) UpdateTenant(c echo.Context) error {
	acc, err := access(c)
	if err != nil {
		return err
	}
	var req models.UpdateTenantRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	tenant, err := h.tenants.Update(c.Request().Context(), acc, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tenant)
}

func (h *TenantHandlers) DeleteTenant(c echo.Context) error {
	acc, err := access(c)
	if err != nil {
		return err
	}
	if err := h.tenants.Delete(c.Request().Context(), acc); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *TenantHandlers) ListMembers(c echo.Context) error {
	acc, err := access(c)
	if err != nil {
		return err
	}
	members, err := h.tenants.Members(c.Request().Context(), acc)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, members)
}

// CreateInvitation godoc
// @Summary Invitar usuario
// @Description OWNER invita con cualquier rol salvo OWNER; ADMIN solo como MEMBER.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tenantId path int true "Tenant"
// @Param request body models.CreateInvitationRequest true "Invitacion"
// @Success 201 {object} models.Invitation
// @Router /api/tenants/{tenantId}/invitations [post]
func (h *TenantHandlers) CreateInvitation(c echo.Context) error {
	acc, err := access(c)
	if err != nil {
		return err
	}
	var req models.CreateInvitationRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	inv, err := h.invitations.Create(c.Request().Context(), acc, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, inv)
}

func (h *TenantHandlers) ListInvitations(c echo.Context) error {
	acc, err := access(c)
	if err != nil {
		return err
	}
	invs, err := h.invitations.ListForTenant(c.Request().Context(), acc)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invs)
}

func (h *TenantHandlers) MyInvitations(c echo.Context) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}
	invs, err := h.invitations.Mine(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invs)
}

func (h *TenantHandlers) AcceptInvitation(c echo.Context) error {
	caller, id, err := callerAndID(c)
	if err != nil {
		return err
	}
	membership, err := h.invitations.Accept(c.Request().Context(), caller, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, membership)
}

func (h *TenantHandlers) RejectInvitation(c echo.Context) error {
	caller, id, err := callerAndID(c)
	if err != nil {
		return err
	}
	inv, err := h.invitations.Reject(c.Request().Context(), caller, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inv)
}
