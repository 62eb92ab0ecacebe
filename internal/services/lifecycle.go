package services

import (
	"context"
	"errors"
	"fmt"

	"juntacomunal/internal/common"
	"juntacomunal/internal/repositories"
	"juntacomunal/internal/tenancy"
	"juntacomunal/pkg/database"
)

// Store is the repository surface a Lifecycle drives. Every call is qualified
// by tenant.
type Store[E any, F any] interface {
	Create(ctx context.Context, q database.DBTX, e *E) (*E, error)
	GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*E, error)
	List(ctx context.Context, q database.DBTX, tenantID int64, filter F, page common.PageRequest) ([]E, int64, error)
	Update(ctx context.Context, q database.DBTX, e *E) (*E, error)
}

// Deleter is implemented by stores whose rows can be hard deleted.
type Deleter interface {
	Delete(ctx context.Context, q database.DBTX, tenantID, id int64) error
}

// Messages are the client-facing texts of one resource.
type Messages struct {
	NotFound   string
	Duplicate  string
	InUse      string
	VoidedEdit string
}

// Strategy carries what differs between resources: how input becomes a row,
// how a patch is applied, and how a row is removed.
type Strategy[E any, C any, U any, F any] struct {
	Messages

	// Build validates create input into a new row for s.TenantID.
	Build func(ctx context.Context, s *tenancy.Scope, in C) (*E, error)
	// Apply validates a patch and merges it into current.
	Apply func(ctx context.Context, s *tenancy.Scope, current *E, in U) error
	// BeforeList runs ahead of a listing, e.g. to check a parent record.
	BeforeList func(ctx context.Context, s *tenancy.Scope, filter F) error
	// Retire turns a remove into a state change on current. Nil hard deletes.
	Retire func(ctx context.Context, s *tenancy.Scope, current *E) error
	// Voided reports a frozen record that no longer accepts updates.
	Voided func(e *E) bool
	// Unique maps a unique violation; nil uses Messages.Duplicate.
	Unique func(constraint string) error
}

// Lifecycle implements create, list, get, update and remove for one
// tenant-scoped resource. Reads require ReadRoles and writes WriteRoles.
type Lifecycle[E any, C any, U any, F any] struct {
	runner   tenancy.Runner
	store    Store[E, F]
	strategy Strategy[E, C, U, F]
}

func NewLifecycle[E any, C any, U any, F any](runner tenancy.Runner, store Store[E, F], strategy Strategy[E, C, U, F]) *Lifecycle[E, C, U, F] {
	return &Lifecycle[E, C, U, F]{runner: runner, store: store, strategy: strategy}
}

func (l *Lifecycle[E, C, U, F]) Create(ctx context.Context, access tenancy.Access, in C) (*E, error) {
	return tenancy.Run(ctx, l.runner, access.With(tenancy.WriteRoles), func(ctx context.Context, s *tenancy.Scope) (*E, error) {
		row, err := l.strategy.Build(ctx, s, in)
		if err != nil {
			return nil, err
		}
		created, err := l.store.Create(ctx, s.Tx, row)
		if err != nil {
			return nil, l.translate(err)
		}
		return created, nil
	})
}

func (l *Lifecycle[E, C, U, F]) List(ctx context.Context, access tenancy.Access, filter F, page common.PageRequest) (common.ListResult[E], error) {
	return tenancy.Run(ctx, l.runner, access.With(tenancy.ReadRoles), func(ctx context.Context, s *tenancy.Scope) (common.ListResult[E], error) {
		if l.strategy.BeforeList != nil {
			if err := l.strategy.BeforeList(ctx, s, filter); err != nil {
				return common.ListResult[E]{}, err
			}
		}
		items, total, err := l.store.List(ctx, s.Tx, s.TenantID, filter, page)
		if err != nil {
			return common.ListResult[E]{}, fmt.Errorf("list: %w", err)
		}
		return common.ListResult[E]{Items: items, Total: total, Page: page}, nil
	})
}

func (l *Lifecycle[E, C, U, F]) Get(ctx context.Context, access tenancy.Access, id int64) (*E, error) {
	return tenancy.Run(ctx, l.runner, access.With(tenancy.ReadRoles), func(ctx context.Context, s *tenancy.Scope) (*E, error) {
		return l.load(ctx, s, id)
	})
}

func (l *Lifecycle[E, C, U, F]) Update(ctx context.Context, access tenancy.Access, id int64, in U) (*E, error) {
	return tenancy.Run(ctx, l.runner, access.With(tenancy.WriteRoles), func(ctx context.Context, s *tenancy.Scope) (*E, error) {
		current, err := l.load(ctx, s, id)
		if err != nil {
			return nil, err
		}
		if l.strategy.Voided != nil && l.strategy.Voided(current) {
			return nil, common.Conflict(l.strategy.VoidedEdit)
		}
		if err := l.strategy.Apply(ctx, s, current, in); err != nil {
			return nil, err
		}
		updated, err := l.store.Update(ctx, s.Tx, current)
		if err != nil {
			if l.strategy.Voided != nil && errors.Is(err, repositories.ErrNotFound) {
				// voided by a concurrent transaction after the load
				return nil, common.Conflict(l.strategy.VoidedEdit)
			}
			return nil, l.translate(err)
		}
		return updated, nil
	})
}

// Remove retires or deletes the row. A retired row is returned; a hard
// delete returns nil.
func (l *Lifecycle[E, C, U, F]) Remove(ctx context.Context, access tenancy.Access, id int64) (*E, error) {
	return tenancy.Run(ctx, l.runner, access.With(tenancy.WriteRoles), func(ctx context.Context, s *tenancy.Scope) (*E, error) {
		if l.strategy.Retire != nil {
			current, err := l.load(ctx, s, id)
			if err != nil {
				return nil, err
			}
			if err := l.strategy.Retire(ctx, s, current); err != nil {
				return nil, err
			}
			retired, err := l.store.Update(ctx, s.Tx, current)
			if err != nil {
				return nil, l.translate(err)
			}
			return retired, nil
		}

		deleter, ok := l.store.(Deleter)
		if !ok {
			return nil, errors.New("remove: store does not support delete")
		}
		err := deleter.Delete(ctx, s.Tx, s.TenantID, id)
		switch {
		case err == nil:
			return nil, nil
		case common.IsForeignKeyViolation(err):
			return nil, common.Conflict(l.strategy.InUse)
		default:
			return nil, l.translate(err)
		}
	})
}

func (l *Lifecycle[E, C, U, F]) load(ctx context.Context, s *tenancy.Scope, id int64) (*E, error) {
	row, err := l.store.GetByID(ctx, s.Tx, s.TenantID, id)
	if err != nil {
		return nil, l.translate(err)
	}
	return row, nil
}

// translate maps storage errors onto the client taxonomy.
func (l *Lifecycle[E, C, U, F]) translate(err error) error {
	return translateStorage(err, l.strategy.Messages, l.strategy.Unique)
}

func translateStorage(err error, msgs Messages, unique func(string) error) error {
	var appErr *common.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, repositories.ErrNotFound):
		return common.NotFound(msgs.NotFound)
	case common.IsUniqueViolation(err):
		if unique != nil {
			if mapped := unique(common.ConstraintName(err)); mapped != nil {
				return mapped
			}
		}
		if msgs.Duplicate != "" {
			return common.Conflict(msgs.Duplicate)
		}
		return common.Conflict("El registro ya existe.")
	case common.IsForeignKeyViolation(err):
		return common.BadInput("Una referencia indicada no existe en el tenant activo.")
	case common.IsCheckViolation(err):
		return common.BadInput("Los datos no cumplen las restricciones del registro.")
	}
	return err
}
