package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"juntacomunal/internal/common"
	"juntacomunal/internal/middleware"
	"juntacomunal/internal/models"
	"juntacomunal/internal/services"
	"juntacomunal/internal/tenancy"
)

// Route is one tenant-scoped endpoint and the roles it admits.
type Route struct {
	Method  string
	Path    string
	Handler echo.HandlerFunc
	Policy  tenancy.Policy
	Extra   []echo.MiddlewareFunc
}

// Services are the application services the routes call.
type Services struct {
	Auth        AuthService
	AuthUsers   AuthUserService
	Tenants     TenantService
	Invitations InvitationService

	Personas        *services.PersonaService
	Terrenos        *services.TerrenoService
	PersonaTerrenos *services.PersonaTerrenoService
	Bienes          *services.BienService
	Asambleas       *services.AsambleaService
	Asistencias     *services.AsistenciaService
	AsistenciaVoid  *services.Voider[models.Asistencia]
	Faenas          *services.FaenaService
	Participaciones *services.ParticipacionService
	ParticipVoid    *services.Voider[models.Participacion]
	Juntas          *services.JuntaDirectivaService
	JuntaMiembros   *services.JuntaMiembroService
	Caja            CajaService
}

// Router wires every endpoint onto an echo instance.
type Router struct {
	Authenticate echo.MiddlewareFunc
	Guard        *middleware.TenantGuard
	Health       *HealthHandlers
	Services     Services
}

func (r *Router) Register(e *echo.Echo) {
	e.GET("/health", r.Health.LivenessCheck)
	e.GET("/health/ready", r.Health.ReadinessCheck)
	e.GET("/docs/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	authed := api.Group("", r.Authenticate)
	r.registerPlatform(api, authed)

	for _, rt := range r.TenantRoutes() {
		mw := append([]echo.MiddlewareFunc{r.Guard.Require(rt.Policy)}, rt.Extra...)
		authed.Add(rt.Method, rt.Path, rt.Handler, mw...)
	}
}

// registerPlatform mounts the endpoints that need no tenant header. Public
// ones go on api, the rest on authed.
func (r *Router) registerPlatform(api, authed *echo.Group) {
	svc := r.Services
	auth := NewAuthHandlers(svc.Auth)
	users := NewAuthUserHandlers(svc.AuthUsers)
	tenants := NewTenantHandlers(svc.Tenants, svc.Invitations)

	api.POST("/auth/login", auth.Login)
	api.POST("/auth-users", users.Register)

	authed.GET("/auth/me", auth.Me)

	authed.GET("/auth-users", users.List)
	authed.GET("/auth-users/:id", users.Get)
	authed.PATCH("/auth-users/:id", users.Update)
	authed.DELETE("/auth-users/:id", users.Delete)

	authed.POST("/tenants", tenants.CreateTenant)
	authed.GET("/tenants", tenants.ListTenants)
	authed.GET("/tenants/:id", tenants.GetTenant, r.Guard.RequireParam("id", tenancy.ReadRoles))
	authed.PATCH("/tenants/:id", tenants.UpdateTenant, r.Guard.RequireParam("id", tenancy.OwnerOnly))
	authed.DELETE("/tenants/:id", tenants.DeleteTenant, r.Guard.RequireParam("id", tenancy.OwnerOnly))

	authed.GET("/tenants/:tenantId/members", tenants.ListMembers, r.Guard.RequireParam("tenantId", tenancy.WriteRoles))
	authed.POST("/tenants/:tenantId/invitations", tenants.CreateInvitation, r.Guard.RequireParam("tenantId", tenancy.WriteRoles))
	authed.GET("/tenants/:tenantId/invitations", tenants.ListInvitations, r.Guard.RequireParam("tenantId", tenancy.WriteRoles))

	authed.GET("/me/invitations", tenants.MyInvitations)
	authed.POST("/me/invitations/:id/accept", tenants.AcceptInvitation)
	authed.POST("/me/invitations/:id/reject", tenants.RejectInvitation)
}

// TenantRoutes lists the endpoints that require X-Tenant-Id.
func (r *Router) TenantRoutes() []Route {
	svc := r.Services
	var routes []Route

	routes = append(routes, crud("/personas", resource(svc.Personas, personaFilter))...)
	routes = append(routes, crud("/terrenos", resource(svc.Terrenos, terrenoFilter))...)
	routes = append(routes, crud("/persona-terrenos", resource(svc.PersonaTerrenos, personaTerrenoFilter))...)
	routes = append(routes, crud("/bienes", resource(svc.Bienes, bienFilter))...)
	routes = append(routes, crud("/asambleas", resource(svc.Asambleas, asambleaFilter))...)
	routes = append(routes, crud("/faenas", resource(svc.Faenas, faenaFilter))...)
	routes = append(routes, crud("/juntas-directivas", resource(svc.Juntas, juntaFilter))...)
	routes = append(routes, crud("/junta-miembros", resource(svc.JuntaMiembros, juntaMiembroFilter))...)

	asistencias := resource(svc.Asistencias, asistenciaFilter).Nested(func(c echo.Context, in *models.CreateAsistenciaRequest) error {
		id, err := pathID(c, "idAsamblea")
		in.AsambleaID = id
		return err
	})
	routes = append(routes,
		Route{http.MethodPost, "/asambleas/:idAsamblea/asistencias", asistencias.Create, tenancy.WriteRoles, nil},
		Route{http.MethodGet, "/asambleas/:idAsamblea/asistencias", asistencias.List, tenancy.ReadRoles, nil},
		Route{http.MethodGet, "/asistencia-asamblea/:id", asistencias.Get, tenancy.ReadRoles, nil},
		Route{http.MethodPatch, "/asistencia-asamblea/:id", asistencias.Update, tenancy.WriteRoles, nil},
		Route{http.MethodPost, "/asistencia-asamblea/:id/anular", VoidHandler[models.Asistencia](svc.AsistenciaVoid), tenancy.WriteRoles, nil},
	)

	participaciones := resource(svc.Participaciones, participacionFilter).Nested(func(c echo.Context, in *models.CreateParticipacionRequest) error {
		id, err := pathID(c, "idFaena")
		in.FaenaID = id
		return err
	})
	routes = append(routes,
		Route{http.MethodPost, "/faenas/:idFaena/participaciones", participaciones.Create, tenancy.WriteRoles, nil},
		Route{http.MethodGet, "/faenas/:idFaena/participaciones", participaciones.List, tenancy.ReadRoles, nil},
		Route{http.MethodGet, "/faena-participaciones/:id", participaciones.Get, tenancy.ReadRoles, nil},
		Route{http.MethodPatch, "/faena-participaciones/:id", participaciones.Update, tenancy.WriteRoles, nil},
		Route{http.MethodPost, "/faena-participaciones/:id/anular", VoidHandler[models.Participacion](svc.ParticipVoid), tenancy.WriteRoles, nil},
	)

	caja := NewCajaHandlers(svc.Caja)
	uploadLimit := echoMiddleware.BodyLimit(fmt.Sprintf("%dK", services.MaxComprobanteSize>>10+64))
	routes = append(routes,
		Route{http.MethodPost, "/caja-movimientos", caja.Create, tenancy.WriteRoles, nil},
		Route{http.MethodGet, "/caja-movimientos", caja.List, tenancy.ReadRoles, nil},
		Route{http.MethodGet, "/caja-movimientos/resumen", caja.Resumen, tenancy.ReadRoles, nil},
		Route{http.MethodGet, "/caja-movimientos/:id", caja.Get, tenancy.ReadRoles, nil},
		Route{http.MethodPatch, "/caja-movimientos/:id", caja.Update, tenancy.WriteRoles, nil},
		Route{http.MethodPost, "/caja-movimientos/:id/anular", VoidHandler[models.CajaMovimiento](svc.Caja), tenancy.WriteRoles, nil},
		Route{http.MethodPut, "/caja-movimientos/:id/comprobante", caja.UploadComprobante, tenancy.WriteRoles, []echo.MiddlewareFunc{uploadLimit}},
		Route{http.MethodGet, "/caja-movimientos/:id/comprobante", caja.GetComprobante, tenancy.ReadRoles, nil},
	)
	return routes
}

type crudHandlers interface {
	Create(echo.Context) error
	List(echo.Context) error
	Get(echo.Context) error
	Update(echo.Context) error
	Remove(echo.Context) error
}

func crud(path string, h crudHandlers) []Route {
	return []Route{
		{http.MethodPost, path, h.Create, tenancy.WriteRoles, nil},
		{http.MethodGet, path, h.List, tenancy.ReadRoles, nil},
		{http.MethodGet, path + "/:id", h.Get, tenancy.ReadRoles, nil},
		{http.MethodPatch, path + "/:id", h.Update, tenancy.WriteRoles, nil},
		{http.MethodDelete, path + "/:id", h.Remove, tenancy.WriteRoles, nil},
	}
}

// NewEcho builds the echo instance with the validator and error envelope.
func NewEcho(log logrus.FieldLogger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = common.NewRequestValidator()
	e.HTTPErrorHandler = common.HTTPErrorHandler(log)
	return e
}
