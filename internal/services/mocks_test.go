package services

import (
	"context"
	"io"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/internal/tenancy"
	"juntacomunal/pkg/database"
)

// fakeRunner applies the membership and policy checks of the real runner
// without a database. Tx is nil: repositories are mocked.
type fakeRunner struct {
	role      models.Role
	notMember bool
	access    []tenancy.Access
}

func (r *fakeRunner) WithContext(ctx context.Context, access tenancy.Access, fn func(ctx context.Context, s *tenancy.Scope) error) error {
	r.access = append(r.access, access)
	if r.notMember {
		return common.Forbidden(tenancy.MsgNotMember)
	}
	if !access.Policy.Allows(r.role) {
		return common.Forbidden(tenancy.MsgInsufficientRole)
	}
	return fn(ctx, &tenancy.Scope{UserID: access.UserID, TenantID: access.TenantID, Role: r.role})
}

func (r *fakeRunner) AsUser(ctx context.Context, userID int64, fn func(ctx context.Context, s *tenancy.Scope) error) error {
	return fn(ctx, &tenancy.Scope{UserID: userID})
}

// fakeUnitOfWork hands out transactions that only record their outcome.
type fakeUnitOfWork struct {
	commits   int
	rollbacks int
}

func (u *fakeUnitOfWork) Begin(context.Context) (database.Tx, error) {
	return &fakeTx{uow: u}, nil
}

type fakeTx struct {
	uow *fakeUnitOfWork
}

func (t *fakeTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (t *fakeTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (t *fakeTx) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }
func (t *fakeTx) SetLocal(context.Context, string, string) error          { return nil }
func (t *fakeTx) Commit(context.Context) error {
	t.uow.commits++
	return nil
}
func (t *fakeTx) Rollback(context.Context) error {
	t.uow.rollbacks++
	return nil
}

var testAccess = tenancy.Access{UserID: 5, TenantID: 3}

type MockPersonaRepository struct {
	mock.Mock
}

func (m *MockPersonaRepository) Create(ctx context.Context, q database.DBTX, p *models.Persona) (*models.Persona, error) {
	args := m.Called(ctx, q, p)
	if fn, ok := args.Get(0).(func(*models.Persona) *models.Persona); ok {
		return fn(p), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Persona), args.Error(1)
}

func (m *MockPersonaRepository) GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*models.Persona, error) {
	args := m.Called(ctx, q, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Persona), args.Error(1)
}

func (m *MockPersonaRepository) Exists(ctx context.Context, q database.DBTX, tenantID, id int64) (bool, error) {
	args := m.Called(ctx, q, tenantID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPersonaRepository) List(ctx context.Context, q database.DBTX, tenantID int64, filter models.PersonaFilter, page common.PageRequest) ([]models.Persona, int64, error) {
	args := m.Called(ctx, q, tenantID, filter, page)
	return args.Get(0).([]models.Persona), args.Get(1).(int64), args.Error(2)
}

func (m *MockPersonaRepository) Update(ctx context.Context, q database.DBTX, p *models.Persona) (*models.Persona, error) {
	args := m.Called(ctx, q, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Persona), args.Error(1)
}

func (m *MockPersonaRepository) Delete(ctx context.Context, q database.DBTX, tenantID, id int64) error {
	args := m.Called(ctx, q, tenantID, id)
	return args.Error(0)
}

type MockAsistenciaRepository struct {
	mock.Mock
}

func (m *MockAsistenciaRepository) Create(ctx context.Context, q database.DBTX, a *models.Asistencia) (*models.Asistencia, error) {
	args := m.Called(ctx, q, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asistencia), args.Error(1)
}

func (m *MockAsistenciaRepository) GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*models.Asistencia, error) {
	args := m.Called(ctx, q, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asistencia), args.Error(1)
}

func (m *MockAsistenciaRepository) List(ctx context.Context, q database.DBTX, tenantID int64, filter models.AsistenciaFilter, page common.PageRequest) ([]models.Asistencia, int64, error) {
	args := m.Called(ctx, q, tenantID, filter, page)
	return args.Get(0).([]models.Asistencia), args.Get(1).(int64), args.Error(2)
}

func (m *MockAsistenciaRepository) Update(ctx context.Context, q database.DBTX, a *models.Asistencia) (*models.Asistencia, error) {
	args := m.Called(ctx, q, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asistencia), args.Error(1)
}

func (m *MockAsistenciaRepository) Void(ctx context.Context, q database.DBTX, tenantID, id, userID int64, at time.Time, motivo string) (*models.Asistencia, error) {
	args := m.Called(ctx, q, tenantID, id, userID, at, motivo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asistencia), args.Error(1)
}

// MockExists stands in for the Exists lookup of any referenced repository.
type MockExists struct {
	mock.Mock
}

func (m *MockExists) Exists(ctx context.Context, q database.DBTX, tenantID, id int64) (bool, error) {
	args := m.Called(ctx, q, tenantID, id)
	return args.Bool(0), args.Error(1)
}

type MockAsambleaRepository struct {
	MockExists
}

func (m *MockAsambleaRepository) Create(context.Context, database.DBTX, *models.Asamblea) (*models.Asamblea, error) {
	panic("not used")
}
func (m *MockAsambleaRepository) GetByID(context.Context, database.DBTX, int64, int64) (*models.Asamblea, error) {
	panic("not used")
}
func (m *MockAsambleaRepository) List(context.Context, database.DBTX, int64, models.AsambleaFilter, common.PageRequest) ([]models.Asamblea, int64, error) {
	panic("not used")
}
func (m *MockAsambleaRepository) Update(context.Context, database.DBTX, *models.Asamblea) (*models.Asamblea, error) {
	panic("not used")
}
func (m *MockAsambleaRepository) Delete(context.Context, database.DBTX, int64, int64) error {
	panic("not used")
}

type MockJuntaDirectivaRepository struct {
	mock.Mock
}

func (m *MockJuntaDirectivaRepository) Create(ctx context.Context, q database.DBTX, j *models.JuntaDirectiva) (*models.JuntaDirectiva, error) {
	args := m.Called(ctx, q, j)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JuntaDirectiva), args.Error(1)
}

func (m *MockJuntaDirectivaRepository) GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*models.JuntaDirectiva, error) {
	args := m.Called(ctx, q, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JuntaDirectiva), args.Error(1)
}

func (m *MockJuntaDirectivaRepository) Exists(ctx context.Context, q database.DBTX, tenantID, id int64) (bool, error) {
	args := m.Called(ctx, q, tenantID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockJuntaDirectivaRepository) HasOtherVigente(ctx context.Context, q database.DBTX, tenantID, excludeID int64) (bool, error) {
	args := m.Called(ctx, q, tenantID, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockJuntaDirectivaRepository) List(ctx context.Context, q database.DBTX, tenantID int64, filter models.JuntaDirectivaFilter, page common.PageRequest) ([]models.JuntaDirectiva, int64, error) {
	args := m.Called(ctx, q, tenantID, filter, page)
	return args.Get(0).([]models.JuntaDirectiva), args.Get(1).(int64), args.Error(2)
}

func (m *MockJuntaDirectivaRepository) Update(ctx context.Context, q database.DBTX, j *models.JuntaDirectiva) (*models.JuntaDirectiva, error) {
	args := m.Called(ctx, q, j)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JuntaDirectiva), args.Error(1)
}

func (m *MockJuntaDirectivaRepository) Delete(ctx context.Context, q database.DBTX, tenantID, id int64) error {
	args := m.Called(ctx, q, tenantID, id)
	return args.Error(0)
}

type MockCajaRepository struct {
	mock.Mock
}

func (m *MockCajaRepository) Create(ctx context.Context, q database.DBTX, c *models.CajaMovimiento) (*models.CajaMovimiento, error) {
	args := m.Called(ctx, q, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CajaMovimiento), args.Error(1)
}

func (m *MockCajaRepository) GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*models.CajaMovimiento, error) {
	args := m.Called(ctx, q, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CajaMovimiento), args.Error(1)
}

func (m *MockCajaRepository) List(ctx context.Context, q database.DBTX, tenantID int64, filter models.CajaMovimientoFilter, page common.PageRequest) ([]models.CajaMovimiento, int64, error) {
	args := m.Called(ctx, q, tenantID, filter, page)
	return args.Get(0).([]models.CajaMovimiento), args.Get(1).(int64), args.Error(2)
}

func (m *MockCajaRepository) Update(ctx context.Context, q database.DBTX, c *models.CajaMovimiento) (*models.CajaMovimiento, error) {
	args := m.Called(ctx, q, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CajaMovimiento), args.Error(1)
}

func (m *MockCajaRepository) Void(ctx context.Context, q database.DBTX, tenantID, id, userID int64, at time.Time, motivo string) (*models.CajaMovimiento, error) {
	args := m.Called(ctx, q, tenantID, id, userID, at, motivo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CajaMovimiento), args.Error(1)
}

func (m *MockCajaRepository) SetComprobante(ctx context.Context, q database.DBTX, tenantID, id int64, key string) error {
	args := m.Called(ctx, q, tenantID, id, key)
	return args.Error(0)
}

func (m *MockCajaRepository) Resumen(ctx context.Context, q database.DBTX, tenantID int64, from, to *time.Time) (*models.CajaResumen, error) {
	args := m.Called(ctx, q, tenantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CajaResumen), args.Error(1)
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.Error(0)
}

func (m *MockObjectStorage) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockObjectStorage) EnsureBucket(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockAuthUserRepository struct {
	mock.Mock
}

func (m *MockAuthUserRepository) Create(ctx context.Context, q database.DBTX, user *models.AuthUser) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockAuthUserRepository) GetByID(ctx context.Context, q database.DBTX, id int64) (*models.AuthUser, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthUser), args.Error(1)
}

func (m *MockAuthUserRepository) GetByEmail(ctx context.Context, q database.DBTX, email string) (*models.AuthUser, error) {
	args := m.Called(ctx, q, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthUser), args.Error(1)
}

func (m *MockAuthUserRepository) Exists(ctx context.Context, q database.DBTX, id int64) (bool, error) {
	args := m.Called(ctx, q, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthUserRepository) List(ctx context.Context, q database.DBTX, filter models.AuthUserFilter) ([]models.AuthUser, error) {
	args := m.Called(ctx, q, filter)
	return args.Get(0).([]models.AuthUser), args.Error(1)
}

func (m *MockAuthUserRepository) Update(ctx context.Context, q database.DBTX, user *models.AuthUser) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockAuthUserRepository) Delete(ctx context.Context, q database.DBTX, id int64) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

func (m *MockAuthUserRepository) TouchLastLogin(ctx context.Context, q database.DBTX, id int64, at time.Time) error {
	args := m.Called(ctx, q, id, at)
	return args.Error(0)
}

type MockLoginLogRepository struct {
	mock.Mock
}

func (m *MockLoginLogRepository) Record(ctx context.Context, q database.DBTX, attempt *models.LoginAttempt) error {
	args := m.Called(ctx, q, attempt)
	return args.Error(0)
}

func (m *MockLoginLogRepository) PurgeBefore(ctx context.Context, q database.DBTX, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, q, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) ResetRateLimit(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) Close() error {
	return nil
}

type MockInvitationRepository struct {
	mock.Mock
}

func (m *MockInvitationRepository) Create(ctx context.Context, q database.DBTX, inv *models.Invitation) error {
	args := m.Called(ctx, q, inv)
	return args.Error(0)
}

func (m *MockInvitationRepository) GetByID(ctx context.Context, q database.DBTX, id int64) (*models.Invitation, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) ListByTenant(ctx context.Context, q database.DBTX, tenantID int64) ([]models.Invitation, error) {
	args := m.Called(ctx, q, tenantID)
	return args.Get(0).([]models.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) ListPendingForEmail(ctx context.Context, q database.DBTX, email string, now time.Time) ([]models.Invitation, error) {
	args := m.Called(ctx, q, email, now)
	return args.Get(0).([]models.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) HasActivePending(ctx context.Context, q database.DBTX, tenantID int64, email string, now time.Time) (bool, error) {
	args := m.Called(ctx, q, tenantID, email, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvitationRepository) RevokeExpiredFor(ctx context.Context, q database.DBTX, tenantID int64, email string, now time.Time) (int64, error) {
	args := m.Called(ctx, q, tenantID, email, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvitationRepository) RevokeAllExpired(ctx context.Context, q database.DBTX, now time.Time) (int64, error) {
	args := m.Called(ctx, q, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvitationRepository) SetStatus(ctx context.Context, q database.DBTX, id int64, status string, at time.Time) error {
	args := m.Called(ctx, q, id, status, at)
	return args.Error(0)
}

type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) FindActiveRole(ctx context.Context, q database.DBTX, tenantID, userID int64) (models.Role, error) {
	args := m.Called(ctx, q, tenantID, userID)
	return args.Get(0).(models.Role), args.Error(1)
}

func (m *MockMembershipRepository) Exists(ctx context.Context, q database.DBTX, tenantID, userID int64) (bool, error) {
	args := m.Called(ctx, q, tenantID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMembershipRepository) Create(ctx context.Context, q database.DBTX, membership *models.Membership) error {
	args := m.Called(ctx, q, membership)
	return args.Error(0)
}

func (m *MockMembershipRepository) ListByTenant(ctx context.Context, q database.DBTX, tenantID int64) ([]models.Membership, error) {
	args := m.Called(ctx, q, tenantID)
	return args.Get(0).([]models.Membership), args.Error(1)
}

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Create(ctx context.Context, q database.DBTX, tenant *models.Tenant) error {
	args := m.Called(ctx, q, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) GetByID(ctx context.Context, q database.DBTX, id int64) (*models.Tenant, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Update(ctx context.Context, q database.DBTX, tenant *models.Tenant) error {
	args := m.Called(ctx, q, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) Delete(ctx context.Context, q database.DBTX, id int64) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

func (m *MockTenantRepository) ListForUser(ctx context.Context, q database.DBTX, userID int64, filter models.TenantFilter) ([]models.Tenant, error) {
	args := m.Called(ctx, q, userID, filter)
	return args.Get(0).([]models.Tenant), args.Error(1)
}
