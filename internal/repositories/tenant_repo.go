package repositories

import (
	"context"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/pkg/database"
)

type TenantRepository interface {
	Create(ctx context.Context, q database.DBTX, tenant *models.Tenant) error
	GetByID(ctx context.Context, q database.DBTX, id int64) (*models.Tenant, error)
	Update(ctx context.Context, q database.DBTX, tenant *models.Tenant) error
	Delete(ctx context.Context, q database.DBTX, id int64) error
	ListForUser(ctx context.Context, q database.DBTX, userID int64, filter models.TenantFilter) ([]models.Tenant, error)
}

type tenantRepo struct{}

func NewTenantRepo() TenantRepository {
	return &tenantRepo{}
}

func scanTenant(row rowScanner) (*models.Tenant, error) {
	t := &models.Tenant{}
	err := row.Scan(&t.ID, &t.Nombre, &t.RUC, &t.DNI, &t.Estado, &t.Observaciones, &t.OwnerUserID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (r *tenantRepo) Create(ctx context.Context, q database.DBTX, tenant *models.Tenant) error {
	query := `
		INSERT INTO tenants (nombre, ruc, dni, estado, observaciones, owner_user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id_tenant, created_at, updated_at
	`
	return q.QueryRow(ctx, query, tenant.Nombre, tenant.RUC, tenant.DNI, tenant.Estado, tenant.Observaciones, tenant.OwnerUserID).
		Scan(&tenant.ID, &tenant.CreatedAt, &tenant.UpdatedAt)
}

func (r *tenantRepo) GetByID(ctx context.Context, q database.DBTX, id int64) (*models.Tenant, error) {
	query := `
		SELECT id_tenant, nombre, ruc, dni, estado, observaciones, owner_user_id, created_at, updated_at
		FROM tenants
		WHERE id_tenant = $1
	`
	return scanTenant(q.QueryRow(ctx, query, id))
}

func (r *tenantRepo) Update(ctx context.Context, q database.DBTX, tenant *models.Tenant) error {
	query := `
		UPDATE tenants
		SET nombre = $1, ruc = $2, dni = $3, estado = $4, observaciones = $5, updated_at = NOW()
		WHERE id_tenant = $6
		RETURNING updated_at
	`
	err := q.QueryRow(ctx, query, tenant.Nombre, tenant.RUC, tenant.DNI, tenant.Estado, tenant.Observaciones, tenant.ID).
		Scan(&tenant.UpdatedAt)
	return notFound(err)
}

func (r *tenantRepo) Delete(ctx context.Context, q database.DBTX, id int64) error {
	tag, err := q.Exec(ctx, `DELETE FROM tenants WHERE id_tenant = $1`, id)
	if err != nil {
		return err
	}
	return affectedOne(tag.RowsAffected())
}

// ListForUser returns the tenants where userID holds an active membership.
func (r *tenantRepo) ListForUser(ctx context.Context, q database.DBTX, userID int64, filter models.TenantFilter) ([]models.Tenant, error) {
	f := newFilter("tu.id_user = ?", userID)
	f.andRaw("tu.estado = 'ACTIVO'")
	if filter.Nombre != "" {
		f.and("t.nombre ILIKE ?", common.ContainsPattern(filter.Nombre))
	}
	f.eqString("t.estado", filter.Estado)

	tenants, _, err := listPage(ctx, q,
		`SELECT t.id_tenant, t.nombre, t.ruc, t.dni, t.estado, t.observaciones, t.owner_user_id, t.created_at, t.updated_at`,
		`FROM tenants t JOIN tenant_users tu ON tu.id_tenant = t.id_tenant`,
		f, "t.id_tenant DESC", filter.Window.PageRequest(), scanTenant)
	return tenants, err
}
