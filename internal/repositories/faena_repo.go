package repositories

import (
	"context"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/pkg/database"
)

type FaenaRepository interface {
	Create(ctx context.Context, q database.DBTX, f *models.Faena) (*models.Faena, error)
	GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*models.Faena, error)
	Exists(ctx context.Context, q database.DBTX, tenantID, id int64) (bool, error)
	List(ctx context.Context, q database.DBTX, tenantID int64, filter models.FaenaFilter, page common.PageRequest) ([]models.Faena, int64, error)
	Update(ctx context.Context, q database.DBTX, f *models.Faena) (*models.Faena, error)
	Delete(ctx context.Context, q database.DBTX, tenantID, id int64) error
}

type faenaRepo struct{}

func NewFaenaRepo() FaenaRepository {
	return &faenaRepo{}
}

const faenaColumns = `id_tenant, id_faena, fecha, descripcion, lugar, observaciones`

func scanFaena(row rowScanner) (*models.Faena, error) {
	f := &models.Faena{}
	if err := row.Scan(&f.TenantID, &f.ID, &f.Fecha, &f.Descripcion, &f.Lugar, &f.Observaciones); err != nil {
		return nil, notFound(err)
	}
	return f, nil
}

func (r *faenaRepo) Create(ctx context.Context, q database.DBTX, f *models.Faena) (*models.Faena, error) {
	query := `
		INSERT INTO faenas (id_tenant, fecha, descripcion, lugar, observaciones)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + faenaColumns
	return scanFaena(q.QueryRow(ctx, query, f.TenantID, f.Fecha, f.Descripcion, f.Lugar, f.Observaciones))
}

func (r *faenaRepo) GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*models.Faena, error) {
	query := `SELECT ` + faenaColumns + ` FROM faenas WHERE id_tenant = $1 AND id_faena = $2`
	return scanFaena(q.QueryRow(ctx, query, tenantID, id))
}

func (r *faenaRepo) Exists(ctx context.Context, q database.DBTX, tenantID, id int64) (bool, error) {
	return exists(ctx, q, `SELECT 1 FROM faenas WHERE id_tenant = $1 AND id_faena = $2`, tenantID, id)
}

func (r *faenaRepo) List(ctx context.Context, q database.DBTX, tenantID int64, filter models.FaenaFilter, page common.PageRequest) ([]models.Faena, int64, error) {
	f := newFilter("id_tenant = ?", tenantID)
	f.dateRange("fecha", filter.From, filter.To)
	f.search(filter.Search, "descripcion", "lugar")
	return listPage(ctx, q, `SELECT `+faenaColumns, `FROM faenas`, f, "id_faena DESC", page, scanFaena)
}

func (r *faenaRepo) Update(ctx context.Context, q database.DBTX, f *models.Faena) (*models.Faena, error) {
	query := `
		UPDATE faenas
		SET fecha = $3, descripcion = $4, lugar = $5, observaciones = $6
		WHERE id_tenant = $1 AND id_faena = $2
		RETURNING ` + faenaColumns
	return scanFaena(q.QueryRow(ctx, query, f.TenantID, f.ID, f.Fecha, f.Descripcion, f.Lugar, f.Observaciones))
}

func (r *faenaRepo) Delete(ctx context.Context, q database.DBTX, tenantID, id int64) error {
	tag, err := q.Exec(ctx, `DELETE FROM faenas WHERE id_tenant = $1 AND id_faena = $2`, tenantID, id)
	if err != nil {
		return err
	}
	return affectedOne(tag.RowsAffected())
}
