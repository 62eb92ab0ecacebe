package middleware

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"juntacomunal/internal/common"
	"juntacomunal/internal/tenancy"
)

const (
	TenantHeader       = "X-Tenant-Id"
	msgTenantRequired  = "El header X-Tenant-Id es obligatorio."
	msgTenantMalformed = "El header X-Tenant-Id debe ser un entero positivo."
)

var tenantIDPattern = regexp.MustCompile(`^\d+$`)

// ResolveTenantID parses the X-Tenant-Id header value.
func ResolveTenantID(header string) (int64, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0, common.BadInput(msgTenantRequired)
	}
	if !tenantIDPattern.MatchString(header) {
		return 0, common.BadInput(msgTenantMalformed)
	}
	id, err := strconv.ParseInt(header, 10, 64)
	if err != nil || id <= 0 {
		return 0, common.BadInput(msgTenantMalformed)
	}
	return id, nil
}

// TenantGuard admits a request to a tenant-scoped route: it resolves the
// tenant, checks the caller's active membership and then the route's Policy.
// Services re-check both inside their own transaction.
type TenantGuard struct {
	runner tenancy.Runner
}

func NewTenantGuard(runner tenancy.Runner) *TenantGuard {
	return &TenantGuard{runner: runner}
}

// Require reads the tenant from the X-Tenant-Id header.
func (g *TenantGuard) Require(policy tenancy.Policy) echo.MiddlewareFunc {
	return g.guard(policy, func(c echo.Context) (int64, error) {
		return ResolveTenantID(c.Request().Header.Get(TenantHeader))
	})
}

// RequireParam reads the tenant from a path parameter, for the platform routes
// nested under /tenants/:tenantId.
func (g *TenantGuard) RequireParam(param string, policy tenancy.Policy) echo.MiddlewareFunc {
	return g.guard(policy, func(c echo.Context) (int64, error) {
		return common.ParseID(param, c.Param(param))
	})
}

func (g *TenantGuard) guard(policy tenancy.Policy, resolve func(echo.Context) (int64, error)) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			userID, ok := common.GetUserIDFromContext(ctx)
			if !ok {
				return common.Unauthenticated(msgTokenUserID)
			}
			tenantID, err := resolve(c)
			if err != nil {
				return err
			}

			access := tenancy.Access{UserID: userID, TenantID: tenantID, Policy: policy}
			var role string
			err = g.runner.WithContext(ctx, access, func(_ context.Context, s *tenancy.Scope) error {
				role = string(s.Role)
				return nil
			})
			if err != nil {
				return err
			}

			c.SetRequest(c.Request().WithContext(common.WithTenant(ctx, tenantID, role)))
			return next(c)
		}
	}
}
