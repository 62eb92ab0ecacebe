package repositories

import (
	"context"
	"testing"
	"time"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func ptr[T any](v T) *T { return &v }

var personaRowColumns = []string{
	"id_tenant", "id_persona", "nombres", "apellido_paterno", "apellido_materno", "dni", "telefono",
	"referencia_vivienda", "tipo_participante", "estado", "fecha_registro", "observaciones",
}

type PersonaRepoTestSuite struct {
	suite.Suite
	mock     pgxmock.PgxPoolIface
	repo     PersonaRepository
	tenantID int64
	context  context.Context
}

func (suite *PersonaRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewPersonaRepo()
	suite.tenantID = 7
	suite.context = context.Background()
}

func (suite *PersonaRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestPersonaRepoTestSuite(t *testing.T) {
	suite.Run(t, new(PersonaRepoTestSuite))
}

func (suite *PersonaRepoTestSuite) personaRow(id int64, nombres string) *pgxmock.Rows {
	return pgxmock.NewRows(personaRowColumns).AddRow(
		suite.tenantID, id, nombres, "Quispe", "Mamani", ptr("12345678"), nil, nil,
		models.ParticipantePadronado, models.PersonaActiva, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), nil,
	)
}

func (suite *PersonaRepoTestSuite) TestCreate_ReturnsStoredRow() {
	p := &models.Persona{
		TenantID:         suite.tenantID,
		Nombres:          "Ana",
		ApellidoPaterno:  "Quispe",
		ApellidoMaterno:  "Mamani",
		DNI:              ptr("12345678"),
		TipoParticipante: models.ParticipantePadronado,
		Estado:           models.PersonaActiva,
		FechaRegistro:    time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	}

	suite.mock.ExpectQuery(`INSERT INTO personas \(id_tenant, nombres,`).
		WithArgs(suite.tenantID, "Ana", "Quispe", "Mamani", p.DNI, p.Telefono, p.ReferenciaVivienda,
			p.TipoParticipante, p.Estado, p.FechaRegistro, p.Observaciones).
		WillReturnRows(suite.personaRow(31, "Ana"))

	created, err := suite.repo.Create(suite.context, suite.mock, p)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(31), created.ID)
	assert.Equal(suite.T(), "12345678", *created.DNI)
	assert.Nil(suite.T(), created.Telefono)
}

func (suite *PersonaRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`FROM personas WHERE id_tenant = \$1 AND id_persona = \$2`).
		WithArgs(suite.tenantID, int64(99)).
		WillReturnError(pgx.ErrNoRows)

	_, err := suite.repo.GetByID(suite.context, suite.mock, suite.tenantID, 99)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *PersonaRepoTestSuite) TestList_PaginatedCountsAndWindows() {
	filter := models.PersonaFilter{Estado: models.PersonaActiva, Search: "ana"}

	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM personas WHERE id_tenant = \$1 AND estado = \$2 AND \(COALESCE\(nombres, ''\) ILIKE \$3`).
		WithArgs(suite.tenantID, models.PersonaActiva, "%ana%").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(11)))
	suite.mock.ExpectQuery(`FROM personas WHERE .* ORDER BY id_persona DESC LIMIT \$4 OFFSET \$5`).
		WithArgs(suite.tenantID, models.PersonaActiva, "%ana%", 10, 10).
		WillReturnRows(suite.personaRow(2, "Ana"))

	items, total, err := suite.repo.List(suite.context, suite.mock, suite.tenantID, filter, common.NewPageRequest(2, 10))
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(11), total)
	assert.Len(suite.T(), items, 1)
}

func (suite *PersonaRepoTestSuite) TestList_UnpaginatedSkipsCount() {
	rows := suite.personaRow(5, "Luis")
	rows.AddRow(suite.tenantID, int64(4), "Rosa", "Quispe", "Mamani", nil, nil, nil,
		models.ParticipanteInvitado, models.PersonaActiva, time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC), nil)

	suite.mock.ExpectQuery(`FROM personas WHERE id_tenant = \$1 ORDER BY id_persona DESC$`).
		WithArgs(suite.tenantID).
		WillReturnRows(rows)

	items, total, err := suite.repo.List(suite.context, suite.mock, suite.tenantID, models.PersonaFilter{}, common.PageRequest{})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(2), total)
	assert.Equal(suite.T(), "Rosa", items[1].Nombres)
}

func (suite *PersonaRepoTestSuite) TestDelete_NoRowsIsNotFound() {
	suite.mock.ExpectExec(`DELETE FROM personas WHERE id_tenant = \$1 AND id_persona = \$2`).
		WithArgs(suite.tenantID, int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := suite.repo.Delete(suite.context, suite.mock, suite.tenantID, 3)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *PersonaRepoTestSuite) TestExists() {
	suite.mock.ExpectQuery(`SELECT 1 FROM personas`).
		WithArgs(suite.tenantID, int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"one"}).AddRow(1))
	suite.mock.ExpectQuery(`SELECT 1 FROM personas`).
		WithArgs(suite.tenantID, int64(2)).
		WillReturnError(pgx.ErrNoRows)

	ok, err := suite.repo.Exists(suite.context, suite.mock, suite.tenantID, 1)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), ok)

	ok, err = suite.repo.Exists(suite.context, suite.mock, suite.tenantID, 2)
	require.NoError(suite.T(), err)
	assert.False(suite.T(), ok)
}
