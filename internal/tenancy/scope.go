package tenancy

import (
	"context"
	"errors"
	"strconv"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/internal/repositories"
	"juntacomunal/pkg/database"
)

const (
	MsgNotMember        = "El usuario no pertenece al tenant activo."
	MsgInsufficientRole = "No tiene permisos suficientes para esta operacion."
	settingUserID       = "app.user_id"
	settingTenantID     = "app.tenant_id"
)

// Access identifies who is acting on which tenant, and what the operation
// demands of their role.
type Access struct {
	UserID   int64
	TenantID int64
	Policy   Policy
}

func (a Access) With(p Policy) Access {
	a.Policy = p
	return a
}

// AccessFromContext reads the ids placed on the request context by the
// authentication and tenant middleware.
func AccessFromContext(ctx context.Context) (Access, error) {
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return Access{}, common.Unauthenticated("Token invalido: user_id ausente o invalido.")
	}
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return Access{}, common.BadInput("El header X-Tenant-Id es obligatorio.")
	}
	return Access{UserID: userID, TenantID: tenantID}, nil
}

// Scope is handed to the body of a transaction. Tx carries the session
// settings; every query of the body must go through it.
type Scope struct {
	UserID   int64
	TenantID int64
	Role     models.Role
	Tx       database.DBTX
}

type MembershipLookup interface {
	FindActiveRole(ctx context.Context, q database.DBTX, tenantID, userID int64) (models.Role, error)
}

type Runner interface {
	// WithContext runs fn in a transaction stamped with the user and tenant,
	// after checking membership and the access policy.
	WithContext(ctx context.Context, access Access, fn func(ctx context.Context, s *Scope) error) error
	// AsUser runs fn in a transaction stamped with the user only.
	AsUser(ctx context.Context, userID int64, fn func(ctx context.Context, s *Scope) error) error
}

type sessionRunner struct {
	uow         database.UnitOfWork
	memberships MembershipLookup
}

func NewRunner(uow database.UnitOfWork, memberships MembershipLookup) Runner {
	return &sessionRunner{uow: uow, memberships: memberships}
}

func (r *sessionRunner) WithContext(ctx context.Context, access Access, fn func(ctx context.Context, s *Scope) error) error {
	return database.InTx(ctx, r.uow, func(tx database.Tx) error {
		if err := tx.SetLocal(ctx, settingUserID, strconv.FormatInt(access.UserID, 10)); err != nil {
			return err
		}
		if err := tx.SetLocal(ctx, settingTenantID, strconv.FormatInt(access.TenantID, 10)); err != nil {
			return err
		}

		role, err := r.memberships.FindActiveRole(ctx, tx, access.TenantID, access.UserID)
		if errors.Is(err, repositories.ErrNotFound) {
			return common.Forbidden(MsgNotMember)
		}
		if err != nil {
			return err
		}
		if !access.Policy.Allows(role) {
			return common.Forbidden(MsgInsufficientRole)
		}

		return fn(ctx, &Scope{UserID: access.UserID, TenantID: access.TenantID, Role: role, Tx: tx})
	})
}

func (r *sessionRunner) AsUser(ctx context.Context, userID int64, fn func(ctx context.Context, s *Scope) error) error {
	return database.InTx(ctx, r.uow, func(tx database.Tx) error {
		if err := tx.SetLocal(ctx, settingUserID, strconv.FormatInt(userID, 10)); err != nil {
			return err
		}
		return fn(ctx, &Scope{UserID: userID, Tx: tx})
	})
}

// Run is WithContext for bodies that produce a value.
func Run[T any](ctx context.Context, r Runner, access Access, fn func(ctx context.Context, s *Scope) (T, error)) (T, error) {
	var out T
	err := r.WithContext(ctx, access, func(ctx context.Context, s *Scope) error {
		var err error
		out, err = fn(ctx, s)
		return err
	})
	return out, err
}

// RunAsUser is AsUser for bodies that produce a value.
func RunAsUser[T any](ctx context.Context, r Runner, userID int64, fn func(ctx context.Context, s *Scope) (T, error)) (T, error) {
	var out T
	err := r.AsUser(ctx, userID, func(ctx context.Context, s *Scope) error {
		var err error
		out, err = fn(ctx, s)
		return err
	})
	return out, err
}
