package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/internal/repositories"
	"juntacomunal/internal/tenancy"
)

const (
	msgTenantNotFound  = "No se encontro el tenant solicitado."
	msgTenantDuplicate = "Ya existe un tenant con ese nombre."
	msgOwnerRef        = "ownerUserId no existe en auth_users."
)

type TenantService struct {
	runner      tenancy.Runner
	tenants     repositories.TenantRepository
	memberships repositories.MembershipRepository
	users       repositories.AuthUserRepository
	log         logrus.FieldLogger
}

func NewTenantService(
	runner tenancy.Runner,
	tenants repositories.TenantRepository,
	memberships repositories.MembershipRepository,
	users repositories.AuthUserRepository,
	log logrus.FieldLogger,
) *TenantService {
	return &TenantService{runner: runner, tenants: tenants, memberships: memberships, users: users, log: log}
}

// Create registers a tenant and makes the caller its OWNER in the same
// transaction. The owner column defaults to the caller.
func (s *TenantService) Create(ctx context.Context, callerID int64, in models.CreateTenantRequest) (*models.Tenant, error) {
	nombre, err := common.RequiredText("nombre", in.Nombre, 150)
	if err != nil {
		return nil, err
	}
	estado, err := enumOr("estado", in.Estado, models.EstadoActivo, estadosActivacion...)
	if err != nil {
		return nil, err
	}
	owner, err := common.OptionalIDValue("ownerUserId", in.OwnerUserID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		owner = &callerID
	}

	tenant := &models.Tenant{Nombre: nombre, Estado: estado, OwnerUserID: owner}
	if tenant.RUC, err = common.NullableTextMax("ruc", in.RUC, 15); err != nil {
		return nil, err
	}
	if tenant.DNI, err = common.NullableTextMax("dni", in.DNI, 8); err != nil {
		return nil, err
	}
	if tenant.Observaciones, err = common.NullableTextMax("observaciones", in.Observaciones, 300); err != nil {
		return nil, err
	}

	return tenancy.RunAsUser(ctx, s.runner, callerID, func(ctx context.Context, sc *tenancy.Scope) (*models.Tenant, error) {
		if *owner != callerID {
			ok, err := s.users.Exists(ctx, sc.Tx, *owner)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, common.BadInput(msgOwnerRef)
			}
		}
		if err := s.tenants.Create(ctx, sc.Tx, tenant); err != nil {
			return nil, s.translate(err)
		}
		membership := &models.Membership{TenantID: tenant.ID, UserID: callerID, Role: models.RoleOwner, Estado: models.EstadoActivo}
		if err := s.memberships.Create(ctx, sc.Tx, membership); err != nil {
			return nil, fmt.Errorf("create owner membership: %w", err)
		}

		s.log.WithFields(logrus.Fields{"tenant_id": tenant.ID, "user_id": callerID}).Info("tenant created")
		return tenant, nil
	})
}

// List returns the tenants where the caller holds an active membership.
func (s *TenantService) List(ctx context.Context, callerID int64, filter models.TenantFilter) ([]models.Tenant, error) {
	return tenancy.RunAsUser(ctx, s.runner, callerID, func(ctx context.Context, sc *tenancy.Scope) ([]models.Tenant, error) {
		tenants, err := s.tenants.ListForUser(ctx, sc.Tx, callerID, filter)
		if err != nil {
			return nil, fmt.Errorf("list tenants: %w", err)
		}
		return tenants, nil
	})
}

func (s *TenantService) Get(ctx context.Context, access tenancy.Access) (*models.Tenant, error) {
	return tenancy.Run(ctx, s.runner, access.With(tenancy.ReadRoles), func(ctx context.Context, sc *tenancy.Scope) (*models.Tenant, error) {
		return s.load(ctx, sc, sc.TenantID)
	})
}

func (s *TenantService) Update(ctx context.Context, access tenancy.Access, in models.UpdateTenantRequest) (*models.Tenant, error) {
	return tenancy.Run(ctx, s.runner, access.With(tenancy.OwnerOnly), func(ctx context.Context, sc *tenancy.Scope) (*models.Tenant, error) {
		tenant, err := s.load(ctx, sc, sc.TenantID)
		if err != nil {
			return nil, err
		}
		err = firstError(
			patchText("nombre", in.Nombre, 150, &tenant.Nombre),
			patchNullableText("ruc", in.RUC, 15, &tenant.RUC),
			patchNullableText("dni", in.DNI, 8, &tenant.DNI),
			patchEnum("estado", in.Estado, &tenant.Estado, estadosActivacion...),
			patchNullableText("observaciones", in.Observaciones, 300, &tenant.Observaciones),
		)
		if err != nil {
			return nil, err
		}
		if err := s.tenants.Update(ctx, sc.Tx, tenant); err != nil {
			return nil, s.translate(err)
		}
		return tenant, nil
	})
}

func (s *TenantService) Delete(ctx context.Context, access tenancy.Access) error {
	return s.runner.WithContext(ctx, access.With(tenancy.OwnerOnly), func(ctx context.Context, sc *tenancy.Scope) error {
		if err := s.tenants.Delete(ctx, sc.Tx, sc.TenantID); err != nil {
			return s.translate(err)
		}
		s.log.WithFields(logrus.Fields{"tenant_id": sc.TenantID, "user_id": sc.UserID}).Info("tenant deleted")
		return nil
	})
}

// Members lists every membership row of the tenant.
func (s *TenantService) Members(ctx context.Context, access tenancy.Access) ([]models.Membership, error) {
	return tenancy.Run(ctx, s.runner, access.With(tenancy.WriteRoles), func(ctx context.Context, sc *tenancy.Scope) ([]models.Membership, error) {
		return s.memberships.ListByTenant(ctx, sc.Tx, sc.TenantID)
	})
}

func (s *TenantService) load(ctx context.Context, sc *tenancy.Scope, id int64) (*models.Tenant, error) {
	tenant, err := s.tenants.GetByID(ctx, sc.Tx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, common.NotFound(msgTenantNotFound)
	}
	return tenant, err
}

func (s *TenantService) translate(err error) error {
	if common.IsForeignKeyViolation(err) && common.ConstraintName(err) == "tenants_owner_user_id_fkey" {
		return common.BadInput(msgOwnerRef)
	}
	return translateStorage(err, Messages{NotFound: msgTenantNotFound, Duplicate: msgTenantDuplicate}, nil)
}
