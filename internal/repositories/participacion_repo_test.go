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

func TestParticipacionRepo_UpdateSkipsVoidedRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	p := &models.Participacion{
		TenantID:          6,
		ID:                31,
		Estado:            "AUSENTE",
		CantPersonasExtra: 1,
		MultaGenerada:     true,
		Audit:             models.Audit{UpdatedAt: &now, UpdatedByUser: ptr(int64(3))},
	}
	mock.ExpectQuery(`UPDATE faena_participacion SET .* WHERE id_tenant = \$1 AND id_faena_participacion = \$2 AND anulado = false RETURNING`).
		WithArgs(int64(6), int64(31), "AUSENTE", p.HoraLlegada, 1, true, p.MontoMulta, p.Observaciones, p.UpdatedAt, p.UpdatedByUser).
		WillReturnError(pgx.ErrNoRows)

	_, err = NewParticipacionRepo().Update(context.Background(), mock, p)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
