package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/internal/repositories"
	"juntacomunal/internal/tenancy"
)

type PersonaServiceTestSuite struct {
	suite.Suite
	repo    *MockPersonaRepository
	runner  *fakeRunner
	service *PersonaService
	ctx     context.Context
}

func (suite *PersonaServiceTestSuite) SetupTest() {
	suite.repo = &MockPersonaRepository{}
	suite.repo.Test(suite.T())
	suite.runner = &fakeRunner{role: models.RoleAdmin}
	suite.service = NewPersonaService(suite.runner, suite.repo)
	suite.ctx = context.Background()

	fixed := time.Date(2026, 5, 14, 15, 0, 0, 0, time.UTC)
	common.Now = func() time.Time { return fixed }
}

func (suite *PersonaServiceTestSuite) TearDownTest() {
	common.Now = time.Now
	suite.repo.AssertExpectations(suite.T())
}

func TestPersonaServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PersonaServiceTestSuite))
}

func (suite *PersonaServiceTestSuite) TestCreate_TrimsAndDefaults() {
	blank := "   "
	in := models.CreatePersonaRequest{
		Nombres:         "  Rosa ",
		ApellidoPaterno: "Quispe",
		ApellidoMaterno: "Mamani",
		Telefono:        &blank,
	}

	suite.repo.On("Create", suite.ctx, mock.Anything, mock.AnythingOfType("*models.Persona")).
		Return(func(p *models.Persona) *models.Persona {
			p.ID = 41
			return p
		}, nil).Once()

	p, err := suite.service.Create(suite.ctx, testAccess, in)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(41), p.ID)
	assert.Equal(suite.T(), int64(3), p.TenantID)
	assert.Equal(suite.T(), "Rosa", p.Nombres)
	assert.Nil(suite.T(), p.Telefono)
	assert.Equal(suite.T(), models.ParticipanteNoPadronado, p.TipoParticipante)
	assert.Equal(suite.T(), models.PersonaActiva, p.Estado)
	assert.Equal(suite.T(), time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC), p.FechaRegistro)
	assert.Equal(suite.T(), tenancy.WriteRoles, suite.runner.access[0].Policy)
}

func (suite *PersonaServiceTestSuite) TestCreate_RequiredTextRejected() {
	_, err := suite.service.Create(suite.ctx, testAccess, models.CreatePersonaRequest{
		Nombres: "Rosa", ApellidoPaterno: " ", ApellidoMaterno: "Mamani",
	})
	assert.EqualError(suite.T(), err, "apellidoPaterno es obligatorio.")
	assert.True(suite.T(), common.IsKind(err, common.KindBadInput))
}

func (suite *PersonaServiceTestSuite) TestCreate_MemberIsForbiddenBeforeValidation() {
	suite.runner.role = models.RoleMember
	_, err := suite.service.Create(suite.ctx, testAccess, models.CreatePersonaRequest{})
	assert.EqualError(suite.T(), err, tenancy.MsgInsufficientRole)
	assert.True(suite.T(), common.IsKind(err, common.KindForbidden))
}

func (suite *PersonaServiceTestSuite) TestCreate_NonMemberIsForbidden() {
	suite.runner.notMember = true
	_, err := suite.service.Create(suite.ctx, testAccess, models.CreatePersonaRequest{})
	assert.EqualError(suite.T(), err, tenancy.MsgNotMember)
}

func (suite *PersonaServiceTestSuite) TestGet_NotFound() {
	suite.repo.On("GetByID", suite.ctx, mock.Anything, int64(3), int64(9)).Return(nil, repositories.ErrNotFound).Once()

	_, err := suite.service.Get(suite.ctx, testAccess, 9)
	assert.EqualError(suite.T(), err, "No se encontro la persona solicitada.")
	assert.True(suite.T(), common.IsKind(err, common.KindNotFound))
}

func (suite *PersonaServiceTestSuite) TestGet_MemberCanRead() {
	suite.runner.role = models.RoleMember
	suite.repo.On("GetByID", suite.ctx, mock.Anything, int64(3), int64(9)).Return(&models.Persona{ID: 9}, nil).Once()

	p, err := suite.service.Get(suite.ctx, testAccess, 9)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(9), p.ID)
}

func (suite *PersonaServiceTestSuite) TestList_PassesPageThrough() {
	page := common.NewPageRequest(2, 10)
	filter := models.PersonaFilter{Estado: models.PersonaActiva}
	suite.repo.On("List", suite.ctx, mock.Anything, int64(3), filter, page).
		Return([]models.Persona{{ID: 1}}, int64(11), nil).Once()

	res, err := suite.service.List(suite.ctx, testAccess, filter, page)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(11), res.Total)
	assert.Len(suite.T(), res.Items, 1)
}

func (suite *PersonaServiceTestSuite) TestUpdate_TriStatePatch() {
	tel := "999"
	current := &models.Persona{ID: 9, TenantID: 3, Nombres: "Rosa", Telefono: &tel, Estado: models.PersonaActiva}
	suite.repo.On("GetByID", suite.ctx, mock.Anything, int64(3), int64(9)).Return(current, nil).Once()
	suite.repo.On("Update", suite.ctx, mock.Anything, current).Return(current, nil).Once()

	p, err := suite.service.Update(suite.ctx, testAccess, 9, models.UpdatePersonaRequest{
		Telefono: common.Null[string](),
		Estado:   common.Some(models.PersonaSuspendida),
	})
	suite.Require().NoError(err)
	assert.Nil(suite.T(), p.Telefono)
	assert.Equal(suite.T(), "Rosa", p.Nombres)
	assert.Equal(suite.T(), models.PersonaSuspendida, p.Estado)
}

func (suite *PersonaServiceTestSuite) TestUpdate_NullOnRequiredField() {
	suite.repo.On("GetByID", suite.ctx, mock.Anything, int64(3), int64(9)).Return(&models.Persona{ID: 9}, nil).Once()

	_, err := suite.service.Update(suite.ctx, testAccess, 9, models.UpdatePersonaRequest{Nombres: common.Null[string]()})
	assert.EqualError(suite.T(), err, "nombres es obligatorio.")
}

func (suite *PersonaServiceTestSuite) TestRemove_RetiresPersona() {
	current := &models.Persona{ID: 9, TenantID: 3, Estado: models.PersonaActiva}
	suite.repo.On("GetByID", suite.ctx, mock.Anything, int64(3), int64(9)).Return(current, nil).Once()
	suite.repo.On("Update", suite.ctx, mock.Anything, mock.MatchedBy(func(p *models.Persona) bool {
		return p.Estado == models.PersonaRetirada
	})).Return(current, nil).Once()

	p, err := suite.service.Remove(suite.ctx, testAccess, 9)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.PersonaRetirada, p.Estado)
}

func TestLifecycleRemove_HardDeleteInUse(t *testing.T) {
	juntas := &MockJuntaDirectivaRepository{}
	juntas.On("Delete", mock.Anything, mock.Anything, int64(3), int64(4)).
		Return(&pgconn.PgError{Code: "23503"}).Once()

	service := NewJuntaDirectivaService(&fakeRunner{role: models.RoleOwner}, juntas)
	_, err := service.Remove(context.Background(), testAccess, 4)

	assert.EqualError(t, err, "No se puede eliminar la junta directiva porque tiene relaciones asociadas.")
	assert.True(t, common.IsKind(err, common.KindConflict))
	juntas.AssertExpectations(t)
}

func TestLifecycleRemove_HardDeleteReturnsNil(t *testing.T) {
	juntas := &MockJuntaDirectivaRepository{}
	juntas.On("Delete", mock.Anything, mock.Anything, int64(3), int64(4)).Return(nil).Once()

	service := NewJuntaDirectivaService(&fakeRunner{role: models.RoleAdmin}, juntas)
	j, err := service.Remove(context.Background(), testAccess, 4)

	assert.NoError(t, err)
	assert.Nil(t, j)
}

func TestTranslateStorage(t *testing.T) {
	msgs := Messages{NotFound: "no esta", Duplicate: "repetido"}

	assert.EqualError(t, translateStorage(repositories.ErrNotFound, msgs, nil), "no esta")
	assert.EqualError(t, translateStorage(&pgconn.PgError{Code: "23505"}, msgs, nil), "repetido")
	assert.EqualError(t, translateStorage(&pgconn.PgError{Code: "23505"}, Messages{}, nil), "El registro ya existe.")

	fk := translateStorage(&pgconn.PgError{Code: "23503"}, msgs, nil)
	assert.True(t, common.IsKind(fk, common.KindBadInput))

	plain := errors.New("boom")
	assert.Same(t, plain, translateStorage(plain, msgs, nil))

	appErr := common.Forbidden("x")
	assert.Same(t, error(appErr), translateStorage(appErr, msgs, nil))
}
