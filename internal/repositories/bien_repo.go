package repositories

import (
	"context"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/pkg/database"
)

type BienRepository interface {
	Create(ctx context.Context, q database.DBTX, b *models.Bien) (*models.Bien, error)
	GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*models.Bien, error)
	Exists(ctx context.Context, q database.DBTX, tenantID, id int64) (bool, error)
	List(ctx context.Context, q database.DBTX, tenantID int64, filter models.BienFilter, page common.PageRequest) ([]models.Bien, int64, error)
	Update(ctx context.Context, q database.DBTX, b *models.Bien) (*models.Bien, error)
	Delete(ctx context.Context, q database.DBTX, tenantID, id int64) error
}

type bienRepo struct{}

func NewBienRepo() BienRepository {
	return &bienRepo{}
}

const bienColumns = `id_tenant, id_bien, descripcion, tipo, cantidad, valor_estimado, ubicacion, fecha_alta, fecha_baja, estado, observaciones`

func scanBien(row rowScanner) (*models.Bien, error) {
	b := &models.Bien{}
	err := row.Scan(&b.TenantID, &b.ID, &b.Descripcion, &b.Tipo, &b.Cantidad, &b.ValorEstimado, &b.Ubicacion,
		&b.FechaAlta, &b.FechaBaja, &b.Estado, &b.Observaciones)
	if err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

func (r *bienRepo) Create(ctx context.Context, q database.DBTX, b *models.Bien) (*models.Bien, error) {
	query := `
		INSERT INTO bienes (id_tenant, descripcion, tipo, cantidad, valor_estimado, ubicacion, fecha_alta, fecha_baja, estado, observaciones)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + bienColumns
	return scanBien(q.QueryRow(ctx, query, b.TenantID, b.Descripcion, b.Tipo, b.Cantidad, b.ValorEstimado, b.Ubicacion,
		b.FechaAlta, b.FechaBaja, b.Estado, b.Observaciones))
}

func (r *bienRepo) GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*models.Bien, error) {
	query := `SELECT ` + bienColumns + ` FROM bienes WHERE id_tenant = $1 AND id_bien = $2`
	return scanBien(q.QueryRow(ctx, query, tenantID, id))
}

func (r *bienRepo) Exists(ctx context.Context, q database.DBTX, tenantID, id int64) (bool, error) {
	return exists(ctx, q, `SELECT 1 FROM bienes WHERE id_tenant = $1 AND id_bien = $2`, tenantID, id)
}

func (r *bienRepo) List(ctx context.Context, q database.DBTX, tenantID int64, filter models.BienFilter, page common.PageRequest) ([]models.Bien, int64, error) {
	f := newFilter("id_tenant = ?", tenantID)
	f.eqString("estado", filter.Estado)
	f.eqString("tipo", filter.Tipo)
	f.search(filter.Search, "descripcion", "tipo", "ubicacion")
	return listPage(ctx, q, `SELECT `+bienColumns, `FROM bienes`, f, "id_bien DESC", page, scanBien)
}

func (r *bienRepo) Update(ctx context.Context, q database.DBTX, b *models.Bien) (*models.Bien, error) {
	query := `
		UPDATE bienes
		SET descripcion = $3, tipo = $4, cantidad = $5, valor_estimado = $6, ubicacion = $7,
			fecha_alta = $8, fecha_baja = $9, estado = $10, observaciones = $11
		WHERE id_tenant = $1 AND id_bien = $2
		RETURNING ` + bienColumns
	return scanBien(q.QueryRow(ctx, query, b.TenantID, b.ID, b.Descripcion, b.Tipo, b.Cantidad, b.ValorEstimado, b.Ubicacion,
		b.FechaAlta, b.FechaBaja, b.Estado, b.Observaciones))
}

func (r *bienRepo) Delete(ctx context.Context, q database.DBTX, tenantID, id int64) error {
	tag, err := q.Exec(ctx, `DELETE FROM bienes WHERE id_tenant = $1 AND id_bien = $2`, tenantID, id)
	if err != nil {
		return err
	}
	return affectedOne(tag.RowsAffected())
}
