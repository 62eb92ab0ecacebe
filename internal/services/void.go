package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/internal/repositories"
	"juntacomunal/internal/tenancy"
	"juntacomunal/pkg/database"
)

// Voidable is a record with the anulacion columns.
type Voidable interface {
	IsAnulado() bool
}

type VoidStore[E any] interface {
	GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*E, error)
	Void(ctx context.Context, q database.DBTX, tenantID, id, userID int64, at time.Time, motivo string) (*E, error)
}

type VoidMessages struct {
	NotFound      string
	AlreadyVoided string
}

const msgMotivoRequired = "motivoAnulacion es obligatorio."

// Voider runs the one-way ACTIVE to VOIDED transition shared by attendance,
// participation and cash movements.
type Voider[E any] struct {
	runner tenancy.Runner
	store  VoidStore[E]
	msgs   VoidMessages
	isVoid func(*E) bool
}

// NewVoider builds a Voider for a record type whose pointer implements
// Voidable.
func NewVoider[E any, P interface {
	*E
	Voidable
}](runner tenancy.Runner, store VoidStore[E], msgs VoidMessages) *Voider[E] {
	return &Voider[E]{
		runner: runner,
		store:  store,
		msgs:   msgs,
		isVoid: func(e *E) bool { return P(e).IsAnulado() },
	}
}

func (v *Voider[E]) Void(ctx context.Context, access tenancy.Access, id int64, req models.AnularRequest) (*E, error) {
	return tenancy.Run(ctx, v.runner, access.With(tenancy.WriteRoles), func(ctx context.Context, s *tenancy.Scope) (*E, error) {
		current, err := v.store.GetByID(ctx, s.Tx, s.TenantID, id)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NotFound(v.msgs.NotFound)
		}
		if err != nil {
			return nil, err
		}
		if v.isVoid(current) {
			return nil, common.Conflict(v.msgs.AlreadyVoided)
		}

		motivo := strings.TrimSpace(req.MotivoAnulacion)
		if motivo == "" {
			return nil, common.BadInput(msgMotivoRequired)
		}

		voided, err := v.store.Void(ctx, s.Tx, s.TenantID, id, s.UserID, common.Now().UTC(), motivo)
		if errors.Is(err, repositories.ErrNotFound) {
			// voided by a concurrent request between the read and the update
			return nil, common.Conflict(v.msgs.AlreadyVoided)
		}
		if err != nil {
			return nil, err
		}
		return voided, nil
	})
}
