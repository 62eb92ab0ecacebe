package repositories

import (
	"context"
	"time"

	"juntacomunal/internal/models"
	"juntacomunal/pkg/database"
)

type InvitationRepository interface {
	Create(ctx context.Context, q database.DBTX, inv *models.Invitation) error
	GetByID(ctx context.Context, q database.DBTX, id int64) (*models.Invitation, error)
	ListByTenant(ctx context.Context, q database.DBTX, tenantID int64) ([]models.Invitation, error)
	ListPendingForEmail(ctx context.Context, q database.DBTX, email string, now time.Time) ([]models.Invitation, error)
	HasActivePending(ctx context.Context, q database.DBTX, tenantID int64, email string, now time.Time) (bool, error)
	RevokeExpiredFor(ctx context.Context, q database.DBTX, tenantID int64, email string, now time.Time) (int64, error)
	RevokeAllExpired(ctx context.Context, q database.DBTX, now time.Time) (int64, error)
	SetStatus(ctx context.Context, q database.DBTX, id int64, status string, at time.Time) error
}

type invitationRepo struct{}

func NewInvitationRepo() InvitationRepository {
	return &invitationRepo{}
}

const invitationColumns = `i.id_invitation, i.id_tenant, t.nombre, i.email, i.role, i.status, i.token, i.expires_at, i.invited_by, i.created_at, i.responded_at`

func scanInvitation(row rowScanner) (*models.Invitation, error) {
	inv := &models.Invitation{}
	var role string
	err := row.Scan(&inv.ID, &inv.TenantID, &inv.TenantName, &inv.Email, &role, &inv.Status, &inv.Token, &inv.ExpiresAt, &inv.InvitedBy, &inv.CreatedAt, &inv.RespondedAt)
	if err != nil {
		return nil, notFound(err)
	}
	inv.Role = models.Role(role)
	return inv, nil
}

func (r *invitationRepo) Create(ctx context.Context, q database.DBTX, inv *models.Invitation) error {
	query := `
		INSERT INTO tenant_invitations (id_tenant, email, role, status, token, expires_at, invited_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id_invitation, created_at
	`
	return q.QueryRow(ctx, query, inv.TenantID, inv.Email, string(inv.Role), inv.Status, inv.Token, inv.ExpiresAt, inv.InvitedBy).
		Scan(&inv.ID, &inv.CreatedAt)
}

func (r *invitationRepo) GetByID(ctx context.Context, q database.DBTX, id int64) (*models.Invitation, error) {
	query := `SELECT ` + invitationColumns + `
		FROM tenant_invitations i
		JOIN tenants t ON t.id_tenant = i.id_tenant
		WHERE i.id_invitation = $1`
	return scanInvitation(q.QueryRow(ctx, query, id))
}

func (r *invitationRepo) list(ctx context.Context, q database.DBTX, f *filterBuilder) ([]models.Invitation, error) {
	query := `SELECT ` + invitationColumns + `
		FROM tenant_invitations i
		JOIN tenants t ON t.id_tenant = i.id_tenant` + f.where() + `
		ORDER BY i.id_invitation DESC`
	rows, err := q.Query(ctx, query, f.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invitations := []models.Invitation{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, *inv)
	}
	return invitations, rows.Err()
}

func (r *invitationRepo) ListByTenant(ctx context.Context, q database.DBTX, tenantID int64) ([]models.Invitation, error) {
	return r.list(ctx, q, newFilter("i.id_tenant = ?", tenantID))
}

func (r *invitationRepo) ListPendingForEmail(ctx context.Context, q database.DBTX, email string, now time.Time) ([]models.Invitation, error) {
	f := newFilter("i.email = ?", email)
	f.andRaw("i.status = 'PENDING'")
	f.and("i.expires_at > ?", now)
	return r.list(ctx, q, f)
}

func (r *invitationRepo) HasActivePending(ctx context.Context, q database.DBTX, tenantID int64, email string, now time.Time) (bool, error) {
	query := `
		SELECT 1 FROM tenant_invitations
		WHERE id_tenant = $1 AND email = $2 AND status = 'PENDING' AND expires_at > $3
	`
	return exists(ctx, q, query, tenantID, email, now)
}

// RevokeExpiredFor frees the pending slot held by expired invitations.
func (r *invitationRepo) RevokeExpiredFor(ctx context.Context, q database.DBTX, tenantID int64, email string, now time.Time) (int64, error) {
	query := `
		UPDATE tenant_invitations
		SET status = 'REVOKED', responded_at = $3
		WHERE id_tenant = $1 AND email = $2 AND status = 'PENDING' AND expires_at <= $3
	`
	tag, err := q.Exec(ctx, query, tenantID, email, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *invitationRepo) RevokeAllExpired(ctx context.Context, q database.DBTX, now time.Time) (int64, error) {
	query := `
		UPDATE tenant_invitations
		SET status = 'REVOKED', responded_at = $1
		WHERE status = 'PENDING' AND expires_at <= $1
	`
	tag, err := q.Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *invitationRepo) SetStatus(ctx context.Context, q database.DBTX, id int64, status string, at time.Time) error {
	query := `
		UPDATE tenant_invitations
		SET status = $1, responded_at = $2
		WHERE id_invitation = $3
	`
	tag, err := q.Exec(ctx, query, status, at, id)
	if err != nil {
		return err
	}
	return affectedOne(tag.RowsAffected())
}
