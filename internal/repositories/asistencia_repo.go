package repositories

import (
	"context"
	"time"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/pkg/database"
)

type AsistenciaRepository interface {
	Create(ctx context.Context, q database.DBTX, a *models.Asistencia) (*models.Asistencia, error)
	GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*models.Asistencia, error)
	List(ctx context.Context, q database.DBTX, tenantID int64, filter models.AsistenciaFilter, page common.PageRequest) ([]models.Asistencia, int64, error)
	Update(ctx context.Context, q database.DBTX, a *models.Asistencia) (*models.Asistencia, error)
	Void(ctx context.Context, q database.DBTX, tenantID, id, userID int64, at time.Time, motivo string) (*models.Asistencia, error)
}

type asistenciaRepo struct{}

func NewAsistenciaRepo() AsistenciaRepository {
	return &asistenciaRepo{}
}

const asistenciaColumns = `id_tenant, id_asistencia, id_asamblea, id_persona, estado, to_char(hora_llegada, 'HH24:MI:SS'),
	es_padronado_en_momento, observaciones, created_at, created_by_user, updated_at, updated_by_user,
	anulado, anulado_at, anulado_by_user, motivo_anulacion`

func scanAsistencia(row rowScanner) (*models.Asistencia, error) {
	a := &models.Asistencia{}
	err := row.Scan(&a.TenantID, &a.ID, &a.AsambleaID, &a.PersonaID, &a.Estado, &a.HoraLlegada,
		&a.EsPadronadoEnMomento, &a.Observaciones, &a.CreatedAt, &a.CreatedByUser, &a.UpdatedAt, &a.UpdatedByUser,
		&a.Anulado, &a.AnuladoAt, &a.AnuladoByUser, &a.MotivoAnulacion)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (r *asistenciaRepo) Create(ctx context.Context, q database.DBTX, a *models.Asistencia) (*models.Asistencia, error) {
	query := `
		INSERT INTO asistencia_asamblea (id_tenant, id_asamblea, id_persona, estado, hora_llegada, es_padronado_en_momento, observaciones, created_by_user)
		VALUES ($1, $2, $3, $4, $5::text::time, $6, $7, $8)
		RETURNING ` + asistenciaColumns
	return scanAsistencia(q.QueryRow(ctx, query, a.TenantID, a.AsambleaID, a.PersonaID, a.Estado, a.HoraLlegada,
		a.EsPadronadoEnMomento, a.Observaciones, a.CreatedByUser))
}

func (r *asistenciaRepo) GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*models.Asistencia, error) {
	query := `SELECT ` + asistenciaColumns + ` FROM asistencia_asamblea WHERE id_tenant = $1 AND id_asistencia = $2`
	return scanAsistencia(q.QueryRow(ctx, query, tenantID, id))
}

func (r *asistenciaRepo) List(ctx context.Context, q database.DBTX, tenantID int64, filter models.AsistenciaFilter, page common.PageRequest) ([]models.Asistencia, int64, error) {
	f := newFilter("id_tenant = ?", tenantID)
	f.and("id_asamblea = ?", filter.AsambleaID)
	f.eqInt64("id_persona", filter.PersonaID)
	f.eqString("estado", filter.Estado)
	f.eqBool("anulado", filter.Anulado)
	return listPage(ctx, q, `SELECT `+asistenciaColumns, `FROM asistencia_asamblea`, f, "id_asistencia DESC", page, scanAsistencia)
}

func (r *asistenciaRepo) Update(ctx context.Context, q database.DBTX, a *models.Asistencia) (*models.Asistencia, error) {
	query := `
		UPDATE asistencia_asamblea
		SET estado = $3, hora_llegada = $4::text::time, es_padronado_en_momento = $5, observaciones = $6,
			updated_at = $7, updated_by_user = $8
		WHERE id_tenant = $1 AND id_asistencia = $2 AND anulado = false
		RETURNING ` + asistenciaColumns
	return scanAsistencia(q.QueryRow(ctx, query, a.TenantID, a.ID, a.Estado, a.HoraLlegada, a.EsPadronadoEnMomento,
		a.Observaciones, a.UpdatedAt, a.UpdatedByUser))
}

func (r *asistenciaRepo) Void(ctx context.Context, q database.DBTX, tenantID, id, userID int64, at time.Time, motivo string) (*models.Asistencia, error) {
	return voidRow(ctx, q, "asistencia_asamblea", "id_asistencia", asistenciaColumns, scanAsistencia, tenantID, id, userID, at, motivo)
}
