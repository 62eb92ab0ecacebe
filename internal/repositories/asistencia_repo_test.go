package repositories

import (
	"context"
	"testing"
	"time"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"juntacomunal/internal/models"
)

func TestAsistenciaRepo_CreateCastsHoraLlegada(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	a := &models.Asistencia{
		TenantID:             2,
		AsambleaID:           5,
		PersonaID:            8,
		Estado:               "TARDE",
		HoraLlegada:          ptr("19:05:00"),
		EsPadronadoEnMomento: true,
		Audit:                models.Audit{CreatedByUser: 11},
	}
	now := time.Now().UTC()

	mock.ExpectQuery(`VALUES \(\$1, \$2, \$3, \$4, \$5::text::time, \$6, \$7, \$8\) RETURNING .*to_char\(hora_llegada, 'HH24:MI:SS'\)`).
		WithArgs(int64(2), int64(5), int64(8), "TARDE", a.HoraLlegada, true, a.Observaciones, int64(11)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id_tenant", "id_asistencia", "id_asamblea", "id_persona", "estado", "hora_llegada", "es_padronado_en_momento",
			"observaciones", "created_at", "created_by_user", "updated_at", "updated_by_user", "anulado", "anulado_at",
			"anulado_by_user", "motivo_anulacion",
		}).AddRow(int64(2), int64(70), int64(5), int64(8), "TARDE", ptr("19:05:00"), true,
			nil, now, int64(11), nil, nil, false, nil, nil, nil))

	created, err := NewAsistenciaRepo().Create(context.Background(), mock, a)
	require.NoError(t, err)
	assert.Equal(t, int64(70), created.ID)
	assert.Equal(t, "19:05:00", *created.HoraLlegada)
	assert.False(t, created.IsAnulado())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAsistenciaRepo_UpdateSkipsVoidedRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	a := &models.Asistencia{
		TenantID: 2,
		ID:       70,
		Estado:   "PRESENTE",
		Audit:    models.Audit{UpdatedAt: &now, UpdatedByUser: ptr(int64(11))},
	}
	mock.ExpectQuery(`UPDATE asistencia_asamblea SET .* WHERE id_tenant = \$1 AND id_asistencia = \$2 AND anulado = false RETURNING`).
		WithArgs(int64(2), int64(70), "PRESENTE", a.HoraLlegada, false, a.Observaciones, a.UpdatedAt, a.UpdatedByUser).
		WillReturnError(pgx.ErrNoRows)

	_, err = NewAsistenciaRepo().Update(context.Background(), mock, a)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
