package repositories

import (
	"context"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/pkg/database"
)

type TerrenoRepository interface {
	Create(ctx context.Context, q database.DBTX, t *models.Terreno) (*models.Terreno, error)
	GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*models.Terreno, error)
	Exists(ctx context.Context, q database.DBTX, tenantID, id int64) (bool, error)
	List(ctx context.Context, q database.DBTX, tenantID int64, filter models.TerrenoFilter, page common.PageRequest) ([]models.Terreno, int64, error)
	Update(ctx context.Context, q database.DBTX, t *models.Terreno) (*models.Terreno, error)
	Delete(ctx context.Context, q database.DBTX, tenantID, id int64) error
}

type terrenoRepo struct{}

func NewTerrenoRepo() TerrenoRepository {
	return &terrenoRepo{}
}

const terrenoColumns = `id_tenant, id_terreno, descripcion, area_aprox_m2, estado, observaciones`

func scanTerreno(row rowScanner) (*models.Terreno, error) {
	t := &models.Terreno{}
	if err := row.Scan(&t.TenantID, &t.ID, &t.Descripcion, &t.AreaAproxM2, &t.Estado, &t.Observaciones); err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (r *terrenoRepo) Create(ctx context.Context, q database.DBTX, t *models.Terreno) (*models.Terreno, error) {
	query := `
		INSERT INTO terrenos (id_tenant, descripcion, area_aprox_m2, estado, observaciones)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + terrenoColumns
	return scanTerreno(q.QueryRow(ctx, query, t.TenantID, t.Descripcion, t.AreaAproxM2, t.Estado, t.Observaciones))
}

func (r *terrenoRepo) GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*models.Terreno, error) {
	query := `SELECT ` + terrenoColumns + ` FROM terrenos WHERE id_tenant = $1 AND id_terreno = $2`
	return scanTerreno(q.QueryRow(ctx, query, tenantID, id))
}

func (r *terrenoRepo) Exists(ctx context.Context, q database.DBTX, tenantID, id int64) (bool, error) {
	return exists(ctx, q, `SELECT 1 FROM terrenos WHERE id_tenant = $1 AND id_terreno = $2`, tenantID, id)
}

func (r *terrenoRepo) List(ctx context.Context, q database.DBTX, tenantID int64, filter models.TerrenoFilter, page common.PageRequest) ([]models.Terreno, int64, error) {
	f := newFilter("id_tenant = ?", tenantID)
	f.eqString("estado", filter.Estado)
	f.search(filter.Search, "descripcion")
	return listPage(ctx, q, `SELECT `+terrenoColumns, `FROM terrenos`, f, "id_terreno DESC", page, scanTerreno)
}

func (r *terrenoRepo) Update(ctx context.Context, q database.DBTX, t *models.Terreno) (*models.Terreno, error) {
	query := `
		UPDATE terrenos
		SET descripcion = $3, area_aprox_m2 = $4, estado = $5, observaciones = $6
		WHERE id_tenant = $1 AND id_terreno = $2
		RETURNING ` + terrenoColumns
	return scanTerreno(q.QueryRow(ctx, query, t.TenantID, t.ID, t.Descripcion, t.AreaAproxM2, t.Estado, t.Observaciones))
}

func (r *terrenoRepo) Delete(ctx context.Context, q database.DBTX, tenantID, id int64) error {
	tag, err := q.Exec(ctx, `DELETE FROM terrenos WHERE id_tenant = $1 AND id_terreno = $2`, tenantID, id)
	if err != nil {
		return err
	}
	return affectedOne(tag.RowsAffected())
}
