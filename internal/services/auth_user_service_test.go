package services

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
)

func newAuthUserService(t *testing.T) (*AuthUserService, *MockAuthUserRepository, *fakeUnitOfWork) {
	users := &MockAuthUserRepository{}
	t.Cleanup(func() { users.AssertExpectations(t) })
	uow := &fakeUnitOfWork{}
	logger, _ := logrustest.NewNullLogger()
	return NewAuthUserService(uow, &fakeRunner{}, users, logger), users, uow
}

func TestRegister_HashesAndDefaults(t *testing.T) {
	service, users, uow := newAuthUserService(t)
	nombres := "  Rosa "
	users.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(u *models.AuthUser) bool {
		return u.Email == "rosa@example.com" &&
			u.Nombres == "Rosa" &&
			u.Estado == models.EstadoActivo &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("clave-segura")) == nil
	})).Return(nil).Once()

	user, err := service.Register(context.Background(), models.CreateAuthUserRequest{
		Email:    "Rosa@Example.com",
		Password: "clave-segura",
		Nombres:  &nombres,
	})

	require.NoError(t, err)
	assert.Equal(t, "rosa@example.com", user.Email)
	assert.Equal(t, 1, uow.commits)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	service, users, uow := newAuthUserService(t)
	users.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(&pgconn.PgError{Code: "23505", ConstraintName: "auth_users_email_key"}).Once()

	_, err := service.Register(context.Background(), models.CreateAuthUserRequest{Email: "a@b.pe", Password: "12345678"})

	assert.EqualError(t, err, msgAuthUserDuplicate)
	assert.True(t, common.IsKind(err, common.KindConflict))
	assert.Equal(t, 1, uow.rollbacks)
}

func TestRegister_ShortPassword(t *testing.T) {
	service, _, _ := newAuthUserService(t)

	_, err := service.Register(context.Background(), models.CreateAuthUserRequest{Email: "a@b.pe", Password: "corta"})

	assert.EqualError(t, err, "password debe tener al menos 8 caracteres.")
}

func TestAuthUser_OtherUserIsForbidden(t *testing.T) {
	service, _, _ := newAuthUserService(t)

	_, err := service.Get(context.Background(), 1, 2)
	assert.EqualError(t, err, msgAuthUserSelfOnly)

	err = service.Delete(context.Background(), 1, 2)
	assert.True(t, common.IsKind(err, common.KindForbidden))
}

func TestAuthUserUpdate_ClearsLastLogin(t *testing.T) {
	service, users, _ := newAuthUserService(t)
	last := time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)
	current := &models.AuthUser{ID: 4, Email: "a@b.pe", Estado: models.EstadoActivo, LastLoginAt: &last}
	users.On("GetByID", mock.Anything, mock.Anything, int64(4)).Return(current, nil).Once()
	users.On("Update", mock.Anything, mock.Anything, current).Return(nil).Once()

	user, err := service.Update(context.Background(), 4, 4, models.UpdateAuthUserRequest{
		LastLoginAt: common.Null[string](),
		Estado:      common.Some(models.EstadoInactivo),
	})

	require.NoError(t, err)
	assert.Nil(t, user.LastLoginAt)
	assert.Equal(t, models.EstadoInactivo, user.Estado)
}

func TestAuthUserUpdate_NullEmailRejected(t *testing.T) {
	service, users, _ := newAuthUserService(t)
	users.On("GetByID", mock.Anything, mock.Anything, int64(4)).Return(&models.AuthUser{ID: 4}, nil).Once()

	_, err := service.Update(context.Background(), 4, 4, models.UpdateAuthUserRequest{Email: common.Null[string]()})

	assert.EqualError(t, err, "email es obligatorio.")
}

func TestAuthUserDelete_ReferencedIsConflict(t *testing.T) {
	service, users, _ := newAuthUserService(t)
	users.On("Delete", mock.Anything, mock.Anything, int64(4)).Return(&pgconn.PgError{Code: "23503"}).Once()

	err := service.Delete(context.Background(), 4, 4)

	assert.True(t, common.IsKind(err, common.KindConflict))
}
