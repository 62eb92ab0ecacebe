package repositories

import (
	"context"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/pkg/database"
)

type AsambleaRepository interface {
	Create(ctx context.Context, q database.DBTX, a *models.Asamblea) (*models.Asamblea, error)
	GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*models.Asamblea, error)
	Exists(ctx context.Context, q database.DBTX, tenantID, id int64) (bool, error)
	List(ctx context.Context, q database.DBTX, tenantID int64, filter models.AsambleaFilter, page common.PageRequest) ([]models.Asamblea, int64, error)
	Update(ctx context.Context, q database.DBTX, a *models.Asamblea) (*models.Asamblea, error)
	Delete(ctx context.Context, q database.DBTX, tenantID, id int64) error
}

type asambleaRepo struct{}

func NewAsambleaRepo() AsambleaRepository {
	return &asambleaRepo{}
}

const asambleaColumns = `id_tenant, id_asamblea, fecha, tipo, tema_principal, lugar, quorum_requerido, observaciones`

func scanAsamblea(row rowScanner) (*models.Asamblea, error) {
	a := &models.Asamblea{}
	err := row.Scan(&a.TenantID, &a.ID, &a.Fecha, &a.Tipo, &a.TemaPrincipal, &a.Lugar, &a.QuorumRequerido, &a.Observaciones)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (r *asambleaRepo) Create(ctx context.Context, q database.DBTX, a *models.Asamblea) (*models.Asamblea, error) {
	query := `
		INSERT INTO asambleas (id_tenant, fecha, tipo, tema_principal, lugar, quorum_requerido, observaciones)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + asambleaColumns
	return scanAsamblea(q.QueryRow(ctx, query, a.TenantID, a.Fecha, a.Tipo, a.TemaPrincipal, a.Lugar, a.QuorumRequerido, a.Observaciones))
}

func (r *asambleaRepo) GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*models.Asamblea, error) {
	query := `SELECT ` + asambleaColumns + ` FROM asambleas WHERE id_tenant = $1 AND id_asamblea = $2`
	return scanAsamblea(q.QueryRow(ctx, query, tenantID, id))
}

func (r *asambleaRepo) Exists(ctx context.Context, q database.DBTX, tenantID, id int64) (bool, error) {
	return exists(ctx, q, `SELECT 1 FROM asambleas WHERE id_tenant = $1 AND id_asamblea = $2`, tenantID, id)
}

func (r *asambleaRepo) List(ctx context.Context, q database.DBTX, tenantID int64, filter models.AsambleaFilter, page common.PageRequest) ([]models.Asamblea, int64, error) {
	f := newFilter("id_tenant = ?", tenantID)
	f.eqString("tipo", filter.Tipo)
	f.dateRange("fecha", filter.From, filter.To)
	return listPage(ctx, q, `SELECT `+asambleaColumns, `FROM asambleas`, f, "id_asamblea DESC", page, scanAsamblea)
}

func (r *asambleaRepo) Update(ctx context.Context, q database.DBTX, a *models.Asamblea) (*models.Asamblea, error) {
	query := `
		UPDATE asambleas
		SET fecha = $3, tipo = $4, tema_principal = $5, lugar = $6, quorum_requerido = $7, observaciones = $8
		WHERE id_tenant = $1 AND id_asamblea = $2
		RETURNING ` + asambleaColumns
	return scanAsamblea(q.QueryRow(ctx, query, a.TenantID, a.ID, a.Fecha, a.Tipo, a.TemaPrincipal, a.Lugar, a.QuorumRequerido, a.Observaciones))
}

func (r *asambleaRepo) Delete(ctx context.Context, q database.DBTX, tenantID, id int64) error {
	tag, err := q.Exec(ctx, `DELETE FROM asambleas WHERE id_tenant = $1 AND id_asamblea = $2`, tenantID, id)
	if err != nil {
		return err
	}
	return affectedOne(tag.RowsAffected())
}
