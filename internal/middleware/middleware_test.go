package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/internal/tenancy"
)

const testSecret = "middleware-test-secret"

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = common.HTTPErrorHandler(logrus.New())
	return e
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body common.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestAuthenticator_PutsUserOnContext(t *testing.T) {
	auth, err := NewAuthenticator(JWTConfig{Secret: testSecret}, logrus.New())
	require.NoError(t, err)
	defer auth.Close()

	e := newTestEcho()
	e.GET("/me", func(c echo.Context) error {
		id, _ := common.GetUserIDFromContext(c.Request().Context())
		return c.JSON(http.StatusOK, map[string]any{
			"id":    id,
			"email": common.GetUserEmailFromContext(c.Request().Context()),
		})
	}, auth.Middleware())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signed(t, jwt.MapClaims{
		"sub":     "12",
		"user_id": "12",
		"email":   "ana@example.com",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id": 12, "email": "ana@example.com"}`, rec.Body.String())
}

func TestAuthenticator_RejectsMissingAndForeignTokens(t *testing.T) {
	auth, err := NewAuthenticator(JWTConfig{Secret: testSecret}, logrus.New())
	require.NoError(t, err)

	e := newTestEcho()
	e.GET("/me", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, auth.Middleware())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, rec))

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "1"}).SignedString([]byte("other"))
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+foreign)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	expired := signed(t, jwt.MapClaims{"user_id": "1", "exp": time.Now().Add(-time.Minute).Unix()})
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+expired)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticator_TokenWithoutUserID(t *testing.T) {
	auth, err := NewAuthenticator(JWTConfig{Secret: testSecret}, logrus.New())
	require.NoError(t, err)

	e := newTestEcho()
	e.GET("/me", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, auth.Middleware())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signed(t, jwt.MapClaims{"email": "x@example.com"}))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), msgTokenUserID)
}

func TestResolveUserID(t *testing.T) {
	cases := []struct {
		name   string
		claims jwt.MapClaims
		want   int64
		ok     bool
	}{
		{"string user_id", jwt.MapClaims{"user_id": "7"}, 7, true},
		{"numeric user_id", jwt.MapClaims{"user_id": float64(8)}, 8, true},
		{"json number", jwt.MapClaims{"user_id": json.Number("9")}, 9, true},
		{"falls back to sub", jwt.MapClaims{"sub": "10"}, 10, true},
		{"user_id wins over sub", jwt.MapClaims{"user_id": "11", "sub": "99"}, 11, true},
		{"zero", jwt.MapClaims{"user_id": "0"}, 0, false},
		{"negative number", jwt.MapClaims{"user_id": float64(-3)}, 0, false},
		{"fractional", jwt.MapClaims{"user_id": 1.5}, 0, false},
		{"number past int64", jwt.MapClaims{"user_id": float64(1 << 63)}, 0, false},
		{"huge number", jwt.MapClaims{"user_id": 1e300}, 0, false},
		{"text", jwt.MapClaims{"sub": "ana"}, 0, false},
		{"absent", jwt.MapClaims{}, 0, false},
		{"bool", jwt.MapClaims{"user_id": true}, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveUserID(tc.claims)
			if !tc.ok {
				require.Error(t, err)
				assert.True(t, common.IsKind(err, common.KindUnauthenticated))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveTenantID(t *testing.T) {
	id, err := ResolveTenantID(" 4 ")
	require.NoError(t, err)
	assert.Equal(t, int64(4), id)

	_, err = ResolveTenantID("")
	assert.EqualError(t, err, msgTenantRequired)
	for _, bad := range []string{"0", "-2", "abc", "1.5"} {
		_, err = ResolveTenantID(bad)
		assert.EqualError(t, err, msgTenantMalformed, bad)
	}
}

type stubRunner struct {
	roles  map[int64]models.Role
	access tenancy.Access
}

func (r *stubRunner) WithContext(ctx context.Context, access tenancy.Access, fn func(ctx context.Context, s *tenancy.Scope) error) error {
	r.access = access
	role, ok := r.roles[access.TenantID]
	if !ok {
		return common.Forbidden(tenancy.MsgNotMember)
	}
	if !access.Policy.Allows(role) {
		return common.Forbidden(tenancy.MsgInsufficientRole)
	}
	return fn(ctx, &tenancy.Scope{UserID: access.UserID, TenantID: access.TenantID, Role: role})
}

func (r *stubRunner) AsUser(ctx context.Context, userID int64, fn func(ctx context.Context, s *tenancy.Scope) error) error {
	return fn(ctx, &tenancy.Scope{UserID: userID})
}

func withUser(userID int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.SetRequest(c.Request().WithContext(common.WithUser(c.Request().Context(), userID, "")))
			return next(c)
		}
	}
}

func tenantEcho(runner tenancy.Runner, policy tenancy.Policy) *echo.Echo {
	guard := NewTenantGuard(runner)
	e := newTestEcho()
	e.GET("/api/personas", func(c echo.Context) error {
		ctx := c.Request().Context()
		tenantID, _ := common.GetTenantIDFromContext(ctx)
		return c.JSON(http.StatusOK, map[string]any{"tenant": tenantID, "role": common.GetRoleFromContext(ctx)})
	}, withUser(5), guard.Require(policy))
	e.GET("/api/tenants/:tenantId/members", func(c echo.Context) error {
		tenantID, _ := common.GetTenantIDFromContext(c.Request().Context())
		return c.JSON(http.StatusOK, map[string]any{"tenant": tenantID})
	}, withUser(5), guard.RequireParam("tenantId", policy))
	return e
}

func TestTenantGuard_AdmitsMember(t *testing.T) {
	runner := &stubRunner{roles: map[int64]models.Role{3: models.RoleMember}}
	e := tenantEcho(runner, tenancy.ReadRoles)

	req := httptest.NewRequest(http.MethodGet, "/api/personas", nil)
	req.Header.Set(TenantHeader, "3")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tenant": 3, "role": "MEMBER"}`, rec.Body.String())
	assert.Equal(t, int64(5), runner.access.UserID)
}

func TestTenantGuard_Rejections(t *testing.T) {
	runner := &stubRunner{roles: map[int64]models.Role{3: models.RoleMember}}

	cases := []struct {
		name   string
		policy tenancy.Policy
		header string
		status int
		msg    string
	}{
		{"missing header", tenancy.ReadRoles, "", http.StatusBadRequest, msgTenantRequired},
		{"malformed header", tenancy.ReadRoles, "x1", http.StatusBadRequest, msgTenantMalformed},
		{"not a member", tenancy.ReadRoles, "8", http.StatusForbidden, tenancy.MsgNotMember},
		{"role too low", tenancy.WriteRoles, "3", http.StatusForbidden, tenancy.MsgInsufficientRole},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := tenantEcho(runner, tc.policy)
			req := httptest.NewRequest(http.MethodGet, "/api/personas", nil)
			if tc.header != "" {
				req.Header.Set(TenantHeader, tc.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.msg)
		})
	}
}

func TestTenantGuard_PathParam(t *testing.T) {
	runner := &stubRunner{roles: map[int64]models.Role{6: models.RoleOwner}}
	e := tenantEcho(runner, tenancy.OwnerOnly)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tenants/6/members", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tenant": 6}`, rec.Body.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tenants/abc/members", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTenantGuard_RequiresAuthenticatedUser(t *testing.T) {
	guard := NewTenantGuard(&stubRunner{})
	e := newTestEcho()
	e.GET("/api/personas", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, guard.Require(tenancy.ReadRoles))

	req := httptest.NewRequest(http.MethodGet, "/api/personas", nil)
	req.Header.Set(TenantHeader, "3")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestLogger_WritesTenantAndUser(t *testing.T) {
	log, hook := test.NewNullLogger()
	runner := &stubRunner{roles: map[int64]models.Role{3: models.RoleAdmin}}
	guard := NewTenantGuard(runner)

	e := newTestEcho()
	e.Use(RequestLogger(log))
	e.GET("/api/personas", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, withUser(5), guard.Require(tenancy.ReadRoles))

	req := httptest.NewRequest(http.MethodGet, "/api/personas", nil)
	req.Header.Set(TenantHeader, "3")
	req.Header.Set(echo.HeaderXRequestID, "req-1")
	e.ServeHTTP(httptest.NewRecorder(), req)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, int64(3), entry.Data["tenant_id"])
	assert.Equal(t, int64(5), entry.Data["user_id"])
	assert.Equal(t, "ADMIN", entry.Data["role"])
	assert.Equal(t, "req-1", entry.Data["request_id"])
	assert.Equal(t, http.StatusOK, entry.Data["status"])
}

func TestRequestLogger_WarnsOnClientErrors(t *testing.T) {
	log, hook := test.NewNullLogger()
	e := newTestEcho()
	e.Use(RequestLogger(log))
	e.GET("/boom", func(c echo.Context) error { return common.NotFound("No se encontro.") })

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, http.StatusNotFound, entry.Data["status"])
}

func TestVersionHeader(t *testing.T) {
	e := newTestEcho()
	e.Use(VersionHeader())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, Version, rec.Header().Get("X-API-Version"))
}
