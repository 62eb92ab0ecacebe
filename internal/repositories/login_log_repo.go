package repositories

import (
	"context"
	"time"

	"juntacomunal/internal/models"
	"juntacomunal/pkg/database"
)

type LoginLogRepository interface {
	Record(ctx context.Context, q database.DBTX, attempt *models.LoginAttempt) error
	PurgeBefore(ctx context.Context, q database.DBTX, cutoff time.Time) (int64, error)
}

type loginLogRepo struct{}

func NewLoginLogRepo() LoginLogRepository {
	return &loginLogRepo{}
}

func (r *loginLogRepo) Record(ctx context.Context, q database.DBTX, attempt *models.LoginAttempt) error {
	query := `
		INSERT INTO auth_login_logs (id_user, email, success, ip_address, user_agent, failure_reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id_log, created_at
	`
	return q.QueryRow(ctx, query, attempt.UserID, attempt.Email, attempt.Success, attempt.IPAddress, attempt.UserAgent, attempt.FailureReason).
		Scan(&attempt.ID, &attempt.CreatedAt)
}

func (r *loginLogRepo) PurgeBefore(ctx context.Context, q database.DBTX, cutoff time.Time) (int64, error) {
	tag, err := q.Exec(ctx, `DELETE FROM auth_login_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
