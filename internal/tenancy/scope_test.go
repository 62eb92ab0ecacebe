package tenancy

import (
	"context"
	"errors"
	"testing"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/internal/repositories"
	"juntacomunal/pkg/database"
)

type RunnerTestSuite struct {
	suite.Suite
	mock   pgxmock.PgxPoolIface
	runner Runner
	access Access
	ctx    context.Context
}

func (suite *RunnerTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.runner = NewRunner(database.NewUnitOfWork(mock), repositories.NewMembershipRepo())
	suite.access = Access{UserID: 5, TenantID: 3}
	suite.ctx = context.Background()
}

func (suite *RunnerTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestRunnerTestSuite(t *testing.T) {
	suite.Run(t, new(RunnerTestSuite))
}

func (suite *RunnerTestSuite) expectStamps() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`SELECT set_config`).WithArgs("app.user_id", "5").
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	suite.mock.ExpectExec(`SELECT set_config`).WithArgs("app.tenant_id", "3").
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
}

func (suite *RunnerTestSuite) expectRole(role string) {
	suite.mock.ExpectQuery(`SELECT role FROM tenant_users`).
		WithArgs(int64(3), int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"role"}).AddRow(role))
}

func (suite *RunnerTestSuite) TestWithContext_CommitsAndExposesScope() {
	suite.expectStamps()
	suite.expectRole("ADMIN")
	suite.mock.ExpectCommit()

	var seen *Scope
	err := suite.runner.WithContext(suite.ctx, suite.access.With(WriteRoles), func(ctx context.Context, s *Scope) error {
		seen = s
		return nil
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.RoleAdmin, seen.Role)
	assert.Equal(suite.T(), int64(3), seen.TenantID)
	assert.NotNil(suite.T(), seen.Tx)
}

func (suite *RunnerTestSuite) TestWithContext_NotMemberIsForbidden() {
	suite.expectStamps()
	suite.mock.ExpectQuery(`SELECT role FROM tenant_users`).
		WithArgs(int64(3), int64(5)).
		WillReturnError(pgx.ErrNoRows)
	suite.mock.ExpectRollback()

	called := false
	err := suite.runner.WithContext(suite.ctx, suite.access, func(ctx context.Context, s *Scope) error {
		called = true
		return nil
	})

	assert.False(suite.T(), called)
	assert.True(suite.T(), common.IsKind(err, common.KindForbidden))
	assert.EqualError(suite.T(), err, MsgNotMember)
}

func (suite *RunnerTestSuite) TestWithContext_MemberCannotWrite() {
	suite.expectStamps()
	suite.expectRole("MEMBER")
	suite.mock.ExpectRollback()

	err := suite.runner.WithContext(suite.ctx, suite.access.With(WriteRoles), func(ctx context.Context, s *Scope) error {
		return nil
	})

	assert.True(suite.T(), common.IsKind(err, common.KindForbidden))
	assert.EqualError(suite.T(), err, MsgInsufficientRole)
}

func (suite *RunnerTestSuite) TestWithContext_BodyErrorRollsBack() {
	suite.expectStamps()
	suite.expectRole("OWNER")
	suite.mock.ExpectRollback()

	boom := errors.New("boom")
	err := suite.runner.WithContext(suite.ctx, suite.access, func(ctx context.Context, s *Scope) error {
		return boom
	})

	assert.ErrorIs(suite.T(), err, boom)
}

func (suite *RunnerTestSuite) TestRun_ReturnsValue() {
	suite.expectStamps()
	suite.expectRole("MEMBER")
	suite.mock.ExpectCommit()

	out, err := Run(suite.ctx, suite.runner, suite.access.With(ReadRoles), func(ctx context.Context, s *Scope) (string, error) {
		return string(s.Role), nil
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "MEMBER", out)
}

func (suite *RunnerTestSuite) TestAsUser_StampsOnlyUser() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`SELECT set_config`).WithArgs("app.user_id", "5").
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	suite.mock.ExpectCommit()

	out, err := RunAsUser(suite.ctx, suite.runner, 5, func(ctx context.Context, s *Scope) (int64, error) {
		return s.UserID, nil
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(5), out)
}

func TestPolicyAllows(t *testing.T) {
	assert.True(t, Policy{}.Allows(models.RoleMember))
	assert.True(t, ReadRoles.Allows(models.RoleMember))
	assert.False(t, WriteRoles.Allows(models.RoleMember))
	assert.True(t, WriteRoles.Allows(models.RoleAdmin))
	assert.False(t, OwnerOnly.Allows(models.RoleAdmin))
}

func TestAccessFromContext(t *testing.T) {
	_, err := AccessFromContext(context.Background())
	assert.True(t, common.IsKind(err, common.KindUnauthenticated))

	ctx := common.WithUser(context.Background(), 5, "ana@example.com")
	_, err = AccessFromContext(ctx)
	assert.EqualError(t, err, "El header X-Tenant-Id es obligatorio.")

	ctx = common.WithTenant(ctx, 3, "ADMIN")
	access, err := AccessFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, Access{UserID: 5, TenantID: 3}, access)
}
