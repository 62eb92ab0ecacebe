package repositories

import (
	"context"
	"time"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/pkg/database"
)

type ParticipacionRepository interface {
	Create(ctx context.Context, q database.DBTX, p *models.Participacion) (*models.Participacion, error)
	GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*models.Participacion, error)
	List(ctx context.Context, q database.DBTX, tenantID int64, filter models.ParticipacionFilter, page common.PageRequest) ([]models.Participacion, int64, error)
	Update(ctx context.Context, q database.DBTX, p *models.Participacion) (*models.Participacion, error)
	Void(ctx context.Context, q database.DBTX, tenantID, id, userID int64, at time.Time, motivo string) (*models.Participacion, error)
}

type participacionRepo struct{}

func NewParticipacionRepo() ParticipacionRepository {
	return &participacionRepo{}
}

const participacionColumns = `id_tenant, id_faena_participacion, id_faena, id_persona, estado, to_char(hora_llegada, 'HH24:MI:SS'),
	cant_personas_extra, multa_generada, monto_multa, observaciones, created_at, created_by_user, updated_at, updated_by_user,
	anulado, anulado_at, anulado_by_user, motivo_anulacion`

func scanParticipacion(row rowScanner) (*models.Participacion, error) {
	p := &models.Participacion{}
	err := row.Scan(&p.TenantID, &p.ID, &p.FaenaID, &p.PersonaID, &p.Estado, &p.HoraLlegada,
		&p.CantPersonasExtra, &p.MultaGenerada, &p.MontoMulta, &p.Observaciones, &p.CreatedAt, &p.CreatedByUser,
		&p.UpdatedAt, &p.UpdatedByUser, &p.Anulado, &p.AnuladoAt, &p.AnuladoByUser, &p.MotivoAnulacion)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *participacionRepo) Create(ctx context.Context, q database.DBTX, p *models.Participacion) (*models.Participacion, error) {
	query := `
		INSERT INTO faena_participacion (id_tenant, id_faena, id_persona, estado, hora_llegada, cant_personas_extra,
			multa_generada, monto_multa, observaciones, created_by_user)
		VALUES ($1, $2, $3, $4, $5::text::time, $6, $7, $8, $9, $10)
		RETURNING ` + participacionColumns
	return scanParticipacion(q.QueryRow(ctx, query, p.TenantID, p.FaenaID, p.PersonaID, p.Estado, p.HoraLlegada,
		p.CantPersonasExtra, p.MultaGenerada, p.MontoMulta, p.Observaciones, p.CreatedByUser))
}

func (r *participacionRepo) GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*models.Participacion, error) {
	query := `SELECT ` + participacionColumns + ` FROM faena_participacion WHERE id_tenant = $1 AND id_faena_participacion = $2`
	return scanParticipacion(q.QueryRow(ctx, query, tenantID, id))
}

func (r *participacionRepo) List(ctx context.Context, q database.DBTX, tenantID int64, filter models.ParticipacionFilter, page common.PageRequest) ([]models.Participacion, int64, error) {
	f := newFilter("id_tenant = ?", tenantID)
	f.and("id_faena = ?", filter.FaenaID)
	f.eqInt64("id_persona", filter.PersonaID)
	f.eqString("estado", filter.Estado)
	f.eqBool("anulado", filter.Anulado)
	return listPage(ctx, q, `SELECT `+participacionColumns, `FROM faena_participacion`, f, "id_faena_participacion DESC", page, scanParticipacion)
}

func (r *participacionRepo) Update(ctx context.Context, q database.DBTX, p *models.Participacion) (*models.Participacion, error) {
	query := `
		UPDATE faena_participacion
		SET estado = $3, hora_llegada = $4::text::time, cant_personas_extra = $5, multa_generada = $6, monto_multa = $7,
			observaciones = $8, updated_at = $9, updated_by_user = $10
		WHERE id_tenant = $1 AND id_faena_participacion = $2 AND anulado = false
		RETURNING ` + participacionColumns
	return scanParticipacion(q.QueryRow(ctx, query, p.TenantID, p.ID, p.Estado, p.HoraLlegada, p.CantPersonasExtra,
		p.MultaGenerada, p.MontoMulta, p.Observaciones, p.UpdatedAt, p.UpdatedByUser))
}

func (r *participacionRepo) Void(ctx context.Context, q database.DBTX, tenantID, id, userID int64, at time.Time, motivo string) (*models.Participacion, error) {
	return voidRow(ctx, q, "faena_participacion", "id_faena_participacion", participacionColumns, scanParticipacion, tenantID, id, userID, at, motivo)
}
