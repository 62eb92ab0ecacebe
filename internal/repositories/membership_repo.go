package repositories

import (
	"context"

	"juntacomunal/internal/models"
	"juntacomunal/pkg/database"
)

type MembershipRepository interface {
	FindActiveRole(ctx context.Context, q database.DBTX, tenantID, userID int64) (models.Role, error)
	Exists(ctx context.Context, q database.DBTX, tenantID, userID int64) (bool, error)
	Create(ctx context.Context, q database.DBTX, m *models.Membership) error
	ListByTenant(ctx context.Context, q database.DBTX, tenantID int64) ([]models.Membership, error)
}

type membershipRepo struct{}

func NewMembershipRepo() MembershipRepository {
	return &membershipRepo{}
}

func (r *membershipRepo) FindActiveRole(ctx context.Context, q database.DBTX, tenantID, userID int64) (models.Role, error) {
	query := `
		SELECT role
		FROM tenant_users
		WHERE id_tenant = $1 AND id_user = $2 AND estado = 'ACTIVO'
	`
	var role string
	if err := q.QueryRow(ctx, query, tenantID, userID).Scan(&role); err != nil {
		return "", notFound(err)
	}
	return models.Role(role), nil
}

// Exists reports a membership row in any estado.
func (r *membershipRepo) Exists(ctx context.Context, q database.DBTX, tenantID, userID int64) (bool, error) {
	return exists(ctx, q, `SELECT 1 FROM tenant_users WHERE id_tenant = $1 AND id_user = $2`, tenantID, userID)
}

func (r *membershipRepo) Create(ctx context.Context, q database.DBTX, m *models.Membership) error {
	query := `
		INSERT INTO tenant_users (id_tenant, id_user, role, estado, invited_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	if m.Estado == "" {
		m.Estado = models.EstadoActivo
	}
	return q.QueryRow(ctx, query, m.TenantID, m.UserID, string(m.Role), m.Estado, m.InvitedBy).Scan(&m.CreatedAt)
}

func (r *membershipRepo) ListByTenant(ctx context.Context, q database.DBTX, tenantID int64) ([]models.Membership, error) {
	query := `
		SELECT tu.id_tenant, tu.id_user, u.email, tu.role, tu.estado, tu.invited_by, tu.created_at
		FROM tenant_users tu
		JOIN auth_users u ON u.id_user = tu.id_user
		WHERE tu.id_tenant = $1
		ORDER BY tu.created_at ASC
	`
	rows, err := q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []models.Membership{}
	for rows.Next() {
		var m models.Membership
		var role string
		if err := rows.Scan(&m.TenantID, &m.UserID, &m.Email, &role, &m.Estado, &m.InvitedBy, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Role = models.Role(role)
		members = append(members, m)
	}
	return members, rows.Err()
}
