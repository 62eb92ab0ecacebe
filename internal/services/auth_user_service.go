package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/internal/repositories"
	"juntacomunal/internal/tenancy"
	"juntacomunal/pkg/database"
)

const (
	msgAuthUserNotFound  = "No se encontro el usuario solicitado."
	msgAuthUserDuplicate = "Ya existe un usuario con ese email."
	msgAuthUserSelfOnly  = "Solo puede operar sobre su propio usuario."
	minPasswordLength    = 8
	maxPasswordLength    = 72
)

var estadosActivacion = []string{models.EstadoActivo, models.EstadoInactivo}

// AuthUserService manages platform accounts. Registration is public; every
// other operation is restricted to the caller's own account, except listing.
type AuthUserService struct {
	uow    database.UnitOfWork
	runner tenancy.Runner
	users  repositories.AuthUserRepository
	log    logrus.FieldLogger
}

func NewAuthUserService(uow database.UnitOfWork, runner tenancy.Runner, users repositories.AuthUserRepository, log logrus.FieldLogger) *AuthUserService {
	return &AuthUserService{uow: uow, runner: runner, users: users, log: log}
}

func (s *AuthUserService) Register(ctx context.Context, in models.CreateAuthUserRequest) (*models.AuthUser, error) {
	email := common.NormalizeEmail(in.Email)
	if email == "" {
		return nil, required("email")
	}
	estado, err := enumOr("estado", in.Estado, models.EstadoActivo, estadosActivacion...)
	if err != nil {
		return nil, err
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.AuthUser{
		Email:        email,
		PasswordHash: hash,
		Nombres:      trimmedOrEmpty(in.Nombres),
		Apellidos:    trimmedOrEmpty(in.Apellidos),
		Estado:       estado,
	}
	err = database.InTx(ctx, s.uow, func(tx database.Tx) error {
		return s.users.Create(ctx, tx, user)
	})
	if err != nil {
		return nil, s.translate(err)
	}

	s.log.WithField("user_id", user.ID).Info("auth user registered")
	return user, nil
}

func (s *AuthUserService) List(ctx context.Context, callerID int64, filter models.AuthUserFilter) ([]models.AuthUser, error) {
	return tenancy.RunAsUser(ctx, s.runner, callerID, func(ctx context.Context, sc *tenancy.Scope) ([]models.AuthUser, error) {
		users, err := s.users.List(ctx, sc.Tx, filter)
		if err != nil {
			return nil, fmt.Errorf("list auth users: %w", err)
		}
		return users, nil
	})
}

func (s *AuthUserService) Get(ctx context.Context, callerID, id int64) (*models.AuthUser, error) {
	if err := selfOnly(callerID, id); err != nil {
		return nil, err
	}
	return tenancy.RunAsUser(ctx, s.runner, callerID, func(ctx context.Context, sc *tenancy.Scope) (*models.AuthUser, error) {
		return s.load(ctx, sc.Tx, id)
	})
}

func (s *AuthUserService) Update(ctx context.Context, callerID, id int64, in models.UpdateAuthUserRequest) (*models.AuthUser, error) {
	if err := selfOnly(callerID, id); err != nil {
		return nil, err
	}
	return tenancy.RunAsUser(ctx, s.runner, callerID, func(ctx context.Context, sc *tenancy.Scope) (*models.AuthUser, error) {
		user, err := s.load(ctx, sc.Tx, id)
		if err != nil {
			return nil, err
		}
		if err := applyAuthUser(user, in); err != nil {
			return nil, err
		}
		if err := s.users.Update(ctx, sc.Tx, user); err != nil {
			return nil, s.translate(err)
		}
		return user, nil
	})
}

func (s *AuthUserService) Delete(ctx context.Context, callerID, id int64) error {
	if err := selfOnly(callerID, id); err != nil {
		return err
	}
	return s.runner.AsUser(ctx, callerID, func(ctx context.Context, sc *tenancy.Scope) error {
		err := s.users.Delete(ctx, sc.Tx, id)
		if common.IsForeignKeyViolation(err) {
			return common.Conflict("No se puede eliminar el usuario porque tiene registros asociados.")
		}
		if err != nil {
			return s.translate(err)
		}
		s.log.WithField("user_id", id).Info("auth user deleted")
		return nil
	})
}

func (s *AuthUserService) load(ctx context.Context, q database.DBTX, id int64) (*models.AuthUser, error) {
	user, err := s.users.GetByID(ctx, q, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, common.NotFound(msgAuthUserNotFound)
	}
	return user, err
}

func (s *AuthUserService) translate(err error) error {
	return translateStorage(err, Messages{NotFound: msgAuthUserNotFound, Duplicate: msgAuthUserDuplicate}, nil)
}

func applyAuthUser(user *models.AuthUser, in models.UpdateAuthUserRequest) error {
	if in.Email.Set {
		email := ""
		if !in.Email.Null {
			email = common.NormalizeEmail(in.Email.Value)
		}
		if email == "" {
			return required("email")
		}
		user.Email = email
	}
	if in.Password.Set {
		if in.Password.Null {
			return required("password")
		}
		hash, err := hashPassword(in.Password.Value)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
	}
	if in.Nombres.Set {
		user.Nombres = trimmedOrEmpty(in.Nombres.Ptr())
	}
	if in.Apellidos.Set {
		user.Apellidos = trimmedOrEmpty(in.Apellidos.Ptr())
	}
	if err := patchEnum("estado", in.Estado, &user.Estado, estadosActivacion...); err != nil {
		return err
	}
	if in.LastLoginAt.Set {
		if in.LastLoginAt.Null {
			user.LastLoginAt = nil
		} else {
			ts, err := common.ParseTimestamp("lastLoginAt", in.LastLoginAt.Value)
			if err != nil {
				return err
			}
			user.LastLoginAt = &ts
		}
	}
	return nil
}

func selfOnly(callerID, id int64) error {
	if callerID != id {
		return common.Forbidden(msgAuthUserSelfOnly)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	n := utf8.RuneCountInString(password)
	if n < minPasswordLength {
		return "", common.BadInput("password debe tener al menos %d caracteres.", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return "", common.BadInput("password no puede exceder %d caracteres.", maxPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func trimmedOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}
