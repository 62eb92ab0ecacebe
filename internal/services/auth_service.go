package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"juntacomunal/internal/caching"
	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/internal/repositories"
	"juntacomunal/pkg/database"
)

const (
	msgInvalidCredentials = "Credenciales inválidas."
	msgUserInactive       = "Usuario inactivo."
	msgLoginRateLimited   = "Demasiados intentos de inicio de sesion. Intente nuevamente mas tarde."
	tokenIssuer           = "juntacomunal"
)

// TokenClaims are the claims of an issued access token. user_id repeats the
// subject for clients that read it directly.
type TokenClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer signs HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

func (t *TokenIssuer) Issue(user *models.AuthUser) (string, error) {
	now := common.Now()
	id := strconv.FormatInt(user.ID, 10)
	claims := TokenClaims{
		UserID: id,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// LoginMeta describes where a login attempt came from.
type LoginMeta struct {
	IP        string
	UserAgent string
}

type RateLimit struct {
	Limit  int
	Window time.Duration
}

// AuthService checks credentials, issues access tokens and records every
// attempt in auth_login_logs.
type AuthService struct {
	db        database.DBTX
	uow       database.UnitOfWork
	users     repositories.AuthUserRepository
	loginLogs repositories.LoginLogRepository
	cache     caching.CacheService
	tokens    *TokenIssuer
	limit     RateLimit
	log       logrus.FieldLogger
}

func NewAuthService(
	db database.DBTX,
	uow database.UnitOfWork,
	users repositories.AuthUserRepository,
	loginLogs repositories.LoginLogRepository,
	cache caching.CacheService,
	tokens *TokenIssuer,
	limit RateLimit,
	log logrus.FieldLogger,
) *AuthService {
	return &AuthService{
		db:        db,
		uow:       uow,
		users:     users,
		loginLogs: loginLogs,
		cache:     cache,
		tokens:    tokens,
		limit:     limit,
		log:       log,
	}
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest, meta LoginMeta) (*models.LoginResponse, error) {
	email := common.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, common.BadInput("email y password son obligatorios.")
	}

	limitKey := "login:" + meta.IP + ":" + email
	if s.cache != nil && s.limit.Limit > 0 {
		limited, err := s.cache.IsRateLimited(ctx, limitKey, s.limit.Limit, s.limit.Window)
		if err != nil {
			s.log.WithError(err).Warn("login rate limiter unavailable")
		} else if limited {
			s.log.WithFields(logrus.Fields{"email": email, "ip": meta.IP}).Warn("login rate limited")
			return nil, common.TooManyRequests(msgLoginRateLimited)
		}
	}

	user, err := s.users.GetByEmail(ctx, s.db, email)
	if errors.Is(err, repositories.ErrNotFound) {
		s.recordFailure(ctx, nil, email, meta, models.LoginUserNotFound)
		return nil, common.Unauthenticated(msgInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.recordFailure(ctx, &user.ID, email, meta, models.LoginInvalidPassword)
		return nil, common.Unauthenticated(msgInvalidCredentials)
	}
	if user.Estado != models.EstadoActivo {
		s.recordFailure(ctx, &user.ID, email, meta, models.LoginUserInactive)
		return nil, common.Forbidden(msgUserInactive)
	}

	now := common.Now().UTC()
	err = database.InTx(ctx, s.uow, func(tx database.Tx) error {
		if err := s.users.TouchLastLogin(ctx, tx, user.ID, now); err != nil {
			return err
		}
		return s.loginLogs.Record(ctx, tx, attempt(&user.ID, email, meta, true, ""))
	})
	if err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	user.LastLoginAt = &now

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.ResetRateLimit(ctx, limitKey); err != nil {
			s.log.WithError(err).Debug("could not reset login rate limit")
		}
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "ip": meta.IP}).Info("login succeeded")
	return &models.LoginResponse{
		AccessToken: token,
		User: models.LoginUser{
			ID:            user.ID,
			Email:         user.Email,
			Nombres:       user.Nombres,
			Apellidos:     user.Apellidos,
			EmailVerified: user.EmailVerified,
		},
	}, nil
}

// Me returns the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID int64) (*models.AuthUser, error) {
	user, err := s.users.GetByID(ctx, s.db, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, common.NotFound(msgAuthUserNotFound)
	}
	return user, err
}

// recordFailure logs a failed attempt. It runs outside the request outcome:
// a storage failure here never changes the response.
func (s *AuthService) recordFailure(ctx context.Context, userID *int64, email string, meta LoginMeta, reason string) {
	s.log.WithFields(logrus.Fields{
		"email":  email,
		"ip":     meta.IP,
		"reason": reason,
	}).Warn("login failed")

	if err := s.loginLogs.Record(ctx, s.db, attempt(userID, email, meta, false, reason)); err != nil {
		s.log.WithError(err).Error("failed to record login attempt")
	}
}

func attempt(userID *int64, email string, meta LoginMeta, success bool, reason string) *models.LoginAttempt {
	a := &models.LoginAttempt{
		UserID:    userID,
		Email:     email,
		Success:   success,
		IPAddress: common.NullableText(&meta.IP),
		UserAgent: common.NullableText(&meta.UserAgent),
	}
	if reason != "" {
		a.FailureReason = &reason
	}
	return a
}

// PurgeLoginLogs deletes the login attempts older than retention.
func (s *AuthService) PurgeLoginLogs(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := common.Now().UTC().Add(-retention)
	n, err := s.loginLogs.PurgeBefore(ctx, s.db, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge login logs: %w", err)
	}
	return n, nil
}
