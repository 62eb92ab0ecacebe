package repositories

import (
	"context"
	"time"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/pkg/database"
)

type AuthUserRepository interface {
	Create(ctx context.Context, q database.DBTX, user *models.AuthUser) error
	GetByID(ctx context.Context, q database.DBTX, id int64) (*models.AuthUser, error)
	GetByEmail(ctx context.Context, q database.DBTX, email string) (*models.AuthUser, error)
	Exists(ctx context.Context, q database.DBTX, id int64) (bool, error)
	List(ctx context.Context, q database.DBTX, filter models.AuthUserFilter) ([]models.AuthUser, error)
	Update(ctx context.Context, q database.DBTX, user *models.AuthUser) error
	Delete(ctx context.Context, q database.DBTX, id int64) error
	TouchLastLogin(ctx context.Context, q database.DBTX, id int64, at time.Time) error
}

type authUserRepo struct{}

func NewAuthUserRepo() AuthUserRepository {
	return &authUserRepo{}
}

const authUserColumns = `id_user, email, password_hash, nombres, apellidos, email_verified, estado, last_login_at, created_at, updated_at`

func scanAuthUser(row rowScanner) (*models.AuthUser, error) {
	u := &models.AuthUser{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Nombres, &u.Apellidos, &u.EmailVerified, &u.Estado, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (r *authUserRepo) Create(ctx context.Context, q database.DBTX, user *models.AuthUser) error {
	query := `
		INSERT INTO auth_users (email, password_hash, nombres, apellidos, estado)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id_user, email_verified, created_at, updated_at
	`
	return q.QueryRow(ctx, query, user.Email, user.PasswordHash, user.Nombres, user.Apellidos, user.Estado).
		Scan(&user.ID, &user.EmailVerified, &user.CreatedAt, &user.UpdatedAt)
}

func (r *authUserRepo) GetByID(ctx context.Context, q database.DBTX, id int64) (*models.AuthUser, error) {
	query := `SELECT ` + authUserColumns + ` FROM auth_users WHERE id_user = $1`
	return scanAuthUser(q.QueryRow(ctx, query, id))
}

func (r *authUserRepo) GetByEmail(ctx context.Context, q database.DBTX, email string) (*models.AuthUser, error) {
	query := `SELECT ` + authUserColumns + ` FROM auth_users WHERE email = $1`
	return scanAuthUser(q.QueryRow(ctx, query, email))
}

func (r *authUserRepo) Exists(ctx context.Context, q database.DBTX, id int64) (bool, error) {
	return exists(ctx, q, `SELECT 1 FROM auth_users WHERE id_user = $1`, id)
}

func (r *authUserRepo) List(ctx context.Context, q database.DBTX, filter models.AuthUserFilter) ([]models.AuthUser, error) {
	f := &filterBuilder{}
	if filter.Email != "" {
		f.and("email ILIKE ?", common.ContainsPattern(filter.Email))
	}
	f.eqString("estado", filter.Estado)

	users, _, err := listPage(ctx, q, `SELECT `+authUserColumns, `FROM auth_users`, f, "id_user DESC",
		filter.Window.PageRequest(), scanAuthUser)
	return users, err
}

func (r *authUserRepo) Update(ctx context.Context, q database.DBTX, user *models.AuthUser) error {
	query := `
		UPDATE auth_users
		SET email = $1, password_hash = $2, nombres = $3, apellidos = $4, estado = $5, last_login_at = $6, updated_at = NOW()
		WHERE id_user = $7
		RETURNING updated_at
	`
	err := q.QueryRow(ctx, query, user.Email, user.PasswordHash, user.Nombres, user.Apellidos, user.Estado, user.LastLoginAt, user.ID).
		Scan(&user.UpdatedAt)
	return notFound(err)
}

func (r *authUserRepo) Delete(ctx context.Context, q database.DBTX, id int64) error {
	tag, err := q.Exec(ctx, `DELETE FROM auth_users WHERE id_user = $1`, id)
	if err != nil {
		return err
	}
	return affectedOne(tag.RowsAffected())
}

func (r *authUserRepo) TouchLastLogin(ctx context.Context, q database.DBTX, id int64, at time.Time) error {
	tag, err := q.Exec(ctx, `UPDATE auth_users SET last_login_at = $1 WHERE id_user = $2`, at, id)
	if err != nil {
		return err
	}
	return affectedOne(tag.RowsAffected())
}
