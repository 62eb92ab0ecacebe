package repositories

import (
	"context"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/pkg/database"
)

type JuntaMiembroRepository interface {
	Create(ctx context.Context, q database.DBTX, m *models.JuntaMiembro) (*models.JuntaMiembro, error)
	GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*models.JuntaMiembro, error)
	List(ctx context.Context, q database.DBTX, tenantID int64, filter models.JuntaMiembroFilter, page common.PageRequest) ([]models.JuntaMiembro, int64, error)
	Update(ctx context.Context, q database.DBTX, m *models.JuntaMiembro) (*models.JuntaMiembro, error)
	Delete(ctx context.Context, q database.DBTX, tenantID, id int64) error
}

type juntaMiembroRepo struct{}

func NewJuntaMiembroRepo() JuntaMiembroRepository {
	return &juntaMiembroRepo{}
}

const juntaMiembroColumns = `id_tenant, id_junta_miembro, id_junta, id_persona, cargo, fecha_inicio, fecha_fin`

func scanJuntaMiembro(row rowScanner) (*models.JuntaMiembro, error) {
	m := &models.JuntaMiembro{}
	if err := row.Scan(&m.TenantID, &m.ID, &m.JuntaID, &m.PersonaID, &m.Cargo, &m.FechaInicio, &m.FechaFin); err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

func (r *juntaMiembroRepo) Create(ctx context.Context, q database.DBTX, m *models.JuntaMiembro) (*models.JuntaMiembro, error) {
	query := `
		INSERT INTO junta_miembros (id_tenant, id_junta, id_persona, cargo, fecha_inicio, fecha_fin)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + juntaMiembroColumns
	return scanJuntaMiembro(q.QueryRow(ctx, query, m.TenantID, m.JuntaID, m.PersonaID, m.Cargo, m.FechaInicio, m.FechaFin))
}

func (r *juntaMiembroRepo) GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*models.JuntaMiembro, error) {
	query := `SELECT ` + juntaMiembroColumns + ` FROM junta_miembros WHERE id_tenant = $1 AND id_junta_miembro = $2`
	return scanJuntaMiembro(q.QueryRow(ctx, query, tenantID, id))
}

func (r *juntaMiembroRepo) List(ctx context.Context, q database.DBTX, tenantID int64, filter models.JuntaMiembroFilter, page common.PageRequest) ([]models.JuntaMiembro, int64, error) {
	f := newFilter("id_tenant = ?", tenantID)
	f.eqInt64("id_junta", filter.JuntaID)
	f.eqInt64("id_persona", filter.PersonaID)
	f.eqString("cargo", filter.Cargo)
	if filter.Vigentes {
		f.and("(fecha_fin IS NULL OR fecha_fin >= ?::date)", filter.Today)
	}
	return listPage(ctx, q, `SELECT `+juntaMiembroColumns, `FROM junta_miembros`, f, "id_junta_miembro DESC", page, scanJuntaMiembro)
}

func (r *juntaMiembroRepo) Update(ctx context.Context, q database.DBTX, m *models.JuntaMiembro) (*models.JuntaMiembro, error) {
	query := `
		UPDATE junta_miembros
		SET id_junta = $3, id_persona = $4, cargo = $5, fecha_inicio = $6, fecha_fin = $7
		WHERE id_tenant = $1 AND id_junta_miembro = $2
		RETURNING ` + juntaMiembroColumns
	return scanJuntaMiembro(q.QueryRow(ctx, query, m.TenantID, m.ID, m.JuntaID, m.PersonaID, m.Cargo, m.FechaInicio, m.FechaFin))
}

func (r *juntaMiembroRepo) Delete(ctx context.Context, q database.DBTX, tenantID, id int64) error {
	tag, err := q.Exec(ctx, `DELETE FROM junta_miembros WHERE id_tenant = $1 AND id_junta_miembro = $2`, tenantID, id)
	if err != nil {
		return err
	}
	return affectedOne(tag.RowsAffected())
}
