package repositories

import (
	"context"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/pkg/database"
)

type JuntaDirectivaRepository interface {
	Create(ctx context.Context, q database.DBTX, j *models.JuntaDirectiva) (*models.JuntaDirectiva, error)
	GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*models.JuntaDirectiva, error)
	Exists(ctx context.Context, q database.DBTX, tenantID, id int64) (bool, error)
	// HasOtherVigente reports a VIGENTE board other than excludeID (0 excludes nothing).
	HasOtherVigente(ctx context.Context, q database.DBTX, tenantID, excludeID int64) (bool, error)
	List(ctx context.Context, q database.DBTX, tenantID int64, filter models.JuntaDirectivaFilter, page common.PageRequest) ([]models.JuntaDirectiva, int64, error)
	Update(ctx context.Context, q database.DBTX, j *models.JuntaDirectiva) (*models.JuntaDirectiva, error)
	Delete(ctx context.Context, q database.DBTX, tenantID, id int64) error
}

type juntaDirectivaRepo struct{}

func NewJuntaDirectivaRepo() JuntaDirectivaRepository {
	return &juntaDirectivaRepo{}
}

const juntaDirectivaColumns = `id_tenant, id_junta, nombre, fecha_inicio, fecha_fin, estado, observaciones`

func scanJuntaDirectiva(row rowScanner) (*models.JuntaDirectiva, error) {
	j := &models.JuntaDirectiva{}
	if err := row.Scan(&j.TenantID, &j.ID, &j.Nombre, &j.FechaInicio, &j.FechaFin, &j.Estado, &j.Observaciones); err != nil {
		return nil, notFound(err)
	}
	return j, nil
}

func (r *juntaDirectivaRepo) Create(ctx context.Context, q database.DBTX, j *models.JuntaDirectiva) (*models.JuntaDirectiva, error) {
	query := `
		INSERT INTO juntas_directivas (id_tenant, nombre, fecha_inicio, fecha_fin, estado, observaciones)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + juntaDirectivaColumns
	return scanJuntaDirectiva(q.QueryRow(ctx, query, j.TenantID, j.Nombre, j.FechaInicio, j.FechaFin, j.Estado, j.Observaciones))
}

func (r *juntaDirectivaRepo) GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*models.JuntaDirectiva, error) {
	query := `SELECT ` + juntaDirectivaColumns + ` FROM juntas_directivas WHERE id_tenant = $1 AND id_junta = $2`
	return scanJuntaDirectiva(q.QueryRow(ctx, query, tenantID, id))
}

func (r *juntaDirectivaRepo) Exists(ctx context.Context, q database.DBTX, tenantID, id int64) (bool, error) {
	return exists(ctx, q, `SELECT 1 FROM juntas_directivas WHERE id_tenant = $1 AND id_junta = $2`, tenantID, id)
}

func (r *juntaDirectivaRepo) HasOtherVigente(ctx context.Context, q database.DBTX, tenantID, excludeID int64) (bool, error) {
	query := `
		SELECT 1
		FROM juntas_directivas
		WHERE id_tenant = $1 AND estado = 'VIGENTE' AND id_junta <> $2
		LIMIT 1
	`
	return exists(ctx, q, query, tenantID, excludeID)
}

func (r *juntaDirectivaRepo) List(ctx context.Context, q database.DBTX, tenantID int64, filter models.JuntaDirectivaFilter, page common.PageRequest) ([]models.JuntaDirectiva, int64, error) {
	f := newFilter("id_tenant = ?", tenantID)
	f.eqString("estado", filter.Estado)
	f.dateRange("fecha_inicio", filter.From, filter.To)
	return listPage(ctx, q, `SELECT `+juntaDirectivaColumns, `FROM juntas_directivas`, f, "id_junta DESC", page, scanJuntaDirectiva)
}

func (r *juntaDirectivaRepo) Update(ctx context.Context, q database.DBTX, j *models.JuntaDirectiva) (*models.JuntaDirectiva, error) {
	query := `
		UPDATE juntas_directivas
		SET nombre = $3, fecha_inicio = $4, fecha_fin = $5, estado = $6, observaciones = $7
		WHERE id_tenant = $1 AND id_junta = $2
		RETURNING ` + juntaDirectivaColumns
	return scanJuntaDirectiva(q.QueryRow(ctx, query, j.TenantID, j.ID, j.Nombre, j.FechaInicio, j.FechaFin, j.Estado, j.Observaciones))
}

func (r *juntaDirectivaRepo) Delete(ctx context.Context, q database.DBTX, tenantID, id int64) error {
	tag, err := q.Exec(ctx, `DELETE FROM juntas_directivas WHERE id_tenant = $1 AND id_junta = $2`, tenantID, id)
	if err != nil {
		return err
	}
	return affectedOne(tag.RowsAffected())
}
