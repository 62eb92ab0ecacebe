package services

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/internal/repositories"
	"juntacomunal/internal/tenancy"
)

type TenantServiceTestSuite struct {
	suite.Suite
	tenants     *MockTenantRepository
	memberships *MockMembershipRepository
	users       *MockAuthUserRepository
	runner      *fakeRunner
	service     *TenantService
	ctx         context.Context
}

func (suite *TenantServiceTestSuite) SetupTest() {
	suite.tenants = &MockTenantRepository{}
	suite.memberships = &MockMembershipRepository{}
	suite.users = &MockAuthUserRepository{}
	suite.runner = &fakeRunner{role: models.RoleOwner}
	logger, _ := logrustest.NewNullLogger()
	suite.service = NewTenantService(suite.runner, suite.tenants, suite.memberships, suite.users, logger)
	suite.ctx = context.Background()
}

func (suite *TenantServiceTestSuite) TearDownTest() {
	suite.tenants.AssertExpectations(suite.T())
	suite.memberships.AssertExpectations(suite.T())
	suite.users.AssertExpectations(suite.T())
}

func TestTenantServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TenantServiceTestSuite))
}

func (suite *TenantServiceTestSuite) TestCreate_Success() {
	suite.tenants.On("Create", suite.ctx, mock.Anything, mock.MatchedBy(func(t *models.Tenant) bool {
		return t.Nombre == "Comunidad Santa Rosa" && *t.OwnerUserID == 5 && t.Estado == models.EstadoActivo
	})).Run(func(args mock.Arguments) {
		args.Get(2).(*models.Tenant).ID = 30
	}).Return(nil).Once()
	suite.memberships.On("Create", suite.ctx, mock.Anything, mock.MatchedBy(func(m *models.Membership) bool {
		return m.TenantID == 30 && m.UserID == 5 && m.Role == models.RoleOwner
	})).Return(nil).Once()

	tenant, err := suite.service.Create(suite.ctx, 5, models.CreateTenantRequest{Nombre: "  Comunidad Santa Rosa "})

	suite.Require().NoError(err)
	suite.Equal(int64(30), tenant.ID)
}

func (suite *TenantServiceTestSuite) TestCreate_EmptyName() {
	_, err := suite.service.Create(suite.ctx, 5, models.CreateTenantRequest{Nombre: "   "})

	suite.EqualError(err, "nombre es obligatorio.")
	suite.True(common.IsKind(err, common.KindBadInput))
}

func (suite *TenantServiceTestSuite) TestCreate_UnknownOwner() {
	other := common.ID(8)
	suite.users.On("Exists", suite.ctx, mock.Anything, int64(8)).Return(false, nil).Once()

	_, err := suite.service.Create(suite.ctx, 5, models.CreateTenantRequest{Nombre: "Junta", OwnerUserID: &other})

	suite.EqualError(err, msgOwnerRef)
}

func (suite *TenantServiceTestSuite) TestCreate_DuplicateName() {
	suite.tenants.On("Create", suite.ctx, mock.Anything, mock.Anything).
		Return(&pgconn.PgError{Code: "23505", ConstraintName: "tenants_nombre_key"}).Once()

	_, err := suite.service.Create(suite.ctx, 5, models.CreateTenantRequest{Nombre: "Junta"})

	suite.EqualError(err, msgTenantDuplicate)
	suite.True(common.IsKind(err, common.KindConflict))
}

func (suite *TenantServiceTestSuite) TestCreate_InvalidEstado() {
	estado := "SUSPENDIDO"

	_, err := suite.service.Create(suite.ctx, 5, models.CreateTenantRequest{Nombre: "Junta", Estado: &estado})

	suite.EqualError(err, "estado solo admite: ACTIVO, INACTIVO.")
}

func (suite *TenantServiceTestSuite) TestGet_NotFound() {
	suite.tenants.On("GetByID", suite.ctx, mock.Anything, int64(3)).Return(nil, repositories.ErrNotFound).Once()

	_, err := suite.service.Get(suite.ctx, testAccess)

	suite.EqualError(err, msgTenantNotFound)
}

func (suite *TenantServiceTestSuite) TestUpdate_RequiresOwner() {
	suite.runner.role = models.RoleAdmin

	_, err := suite.service.Update(suite.ctx, testAccess, models.UpdateTenantRequest{Nombre: common.Some("Otro")})

	suite.EqualError(err, tenancy.MsgInsufficientRole)
}

func (suite *TenantServiceTestSuite) TestUpdate_ClearsNullableFields() {
	ruc := "20123456789"
	current := &models.Tenant{ID: 3, Nombre: "Junta", Estado: models.EstadoActivo, RUC: &ruc}
	suite.tenants.On("GetByID", suite.ctx, mock.Anything, int64(3)).Return(current, nil).Once()
	suite.tenants.On("Update", suite.ctx, mock.Anything, current).Return(nil).Once()

	tenant, err := suite.service.Update(suite.ctx, testAccess, models.UpdateTenantRequest{
		RUC:    common.Null[string](),
		Estado: common.Some(models.EstadoInactivo),
	})

	suite.Require().NoError(err)
	suite.Nil(tenant.RUC)
	suite.Equal(models.EstadoInactivo, tenant.Estado)
}

func (suite *TenantServiceTestSuite) TestDelete_OwnerOnly() {
	suite.runner.role = models.RoleAdmin

	err := suite.service.Delete(suite.ctx, testAccess)

	suite.True(common.IsKind(err, common.KindForbidden))
}

func (suite *TenantServiceTestSuite) TestDelete_Success() {
	suite.tenants.On("Delete", suite.ctx, mock.Anything, int64(3)).Return(nil).Once()

	suite.NoError(suite.service.Delete(suite.ctx, testAccess))
}

func (suite *TenantServiceTestSuite) TestMembers_MemberRoleForbidden() {
	suite.runner.role = models.RoleMember

	_, err := suite.service.Members(suite.ctx, testAccess)

	suite.EqualError(err, tenancy.MsgInsufficientRole)
}

func (suite *TenantServiceTestSuite) TestList_ScopedToCaller() {
	filter := models.TenantFilter{Nombre: "rosa", Window: common.SkipTake{Take: 20}}
	suite.tenants.On("ListForUser", suite.ctx, mock.Anything, int64(5), filter).
		Return([]models.Tenant{{ID: 3, Nombre: "Santa Rosa"}}, nil).Once()

	tenants, err := suite.service.List(suite.ctx, 5, filter)

	suite.Require().NoError(err)
	suite.Len(tenants, 1)
}
