package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/internal/repositories"
	"juntacomunal/internal/tenancy"
	"juntacomunal/pkg/database"
)

const (
	msgInvitationNotFound   = "No se encontro la invitacion solicitada."
	msgInvitationDuplicate  = "Ya existe una invitacion pendiente para este email en el tenant."
	msgInvitationNotPending = "La invitacion ya no esta pendiente."
	msgInvitationExpired    = "La invitacion ha expirado."
	msgInvitationOtherEmail = "La invitacion no corresponde al usuario autenticado."
	msgAlreadyMember        = "El usuario ya pertenece a este tenant."
	DefaultInvitationTTL    = 48 * time.Hour
)

var invitableRoles = []string{string(models.RoleAdmin), string(models.RoleMember)}

// InvitationService handles invitations to join a tenant, from both sides:
// the tenant administrators who send them and the invited users.
type InvitationService struct {
	uow         database.UnitOfWork
	runner      tenancy.Runner
	invitations repositories.InvitationRepository
	memberships repositories.MembershipRepository
	users       repositories.AuthUserRepository
	ttl         time.Duration
	log         logrus.FieldLogger
}

func NewInvitationService(
	uow database.UnitOfWork,
	runner tenancy.Runner,
	invitations repositories.InvitationRepository,
	memberships repositories.MembershipRepository,
	users repositories.AuthUserRepository,
	ttl time.Duration,
	log logrus.FieldLogger,
) *InvitationService {
	if ttl <= 0 {
		ttl = DefaultInvitationTTL
	}
	return &InvitationService{
		uow:         uow,
		runner:      runner,
		invitations: invitations,
		memberships: memberships,
		users:       users,
		ttl:         ttl,
		log:         log,
	}
}

// Create invites email into the tenant. OWNER may invite ADMIN or MEMBER;
// ADMIN may invite MEMBER only.
func (s *InvitationService) Create(ctx context.Context, access tenancy.Access, in models.CreateInvitationRequest) (*models.Invitation, error) {
	email := common.NormalizeEmail(in.Email)
	if email == "" {
		return nil, required("email")
	}
	if err := oneOf("role", in.Role, invitableRoles...); err != nil {
		return nil, err
	}
	role := models.Role(in.Role)

	return tenancy.Run(ctx, s.runner, access.With(tenancy.WriteRoles), func(ctx context.Context, sc *tenancy.Scope) (*models.Invitation, error) {
		if sc.Role == models.RoleAdmin && role != models.RoleMember {
			return nil, common.Forbidden("Un ADMIN solo puede invitar con rol MEMBER.")
		}

		now := common.Now().UTC()
		if _, err := s.invitations.RevokeExpiredFor(ctx, sc.Tx, sc.TenantID, email, now); err != nil {
			return nil, fmt.Errorf("revoke expired invitations: %w", err)
		}
		pending, err := s.invitations.HasActivePending(ctx, sc.Tx, sc.TenantID, email, now)
		if err != nil {
			return nil, err
		}
		if pending {
			return nil, common.Conflict(msgInvitationDuplicate)
		}

		token, err := newInvitationToken()
		if err != nil {
			return nil, err
		}
		inv := &models.Invitation{
			TenantID:  sc.TenantID,
			Email:     email,
			Role:      role,
			Status:    models.InvitationPending,
			Token:     token,
			ExpiresAt: now.Add(s.ttl),
			InvitedBy: sc.UserID,
		}
		if err := s.invitations.Create(ctx, sc.Tx, inv); err != nil {
			return nil, translateStorage(err, Messages{Duplicate: msgInvitationDuplicate}, nil)
		}

		s.log.WithFields(logrus.Fields{
			"tenant_id":     sc.TenantID,
			"invitation_id": inv.ID,
			"role":          role,
			"invited_by":    sc.UserID,
		}).Info("invitation created")
		return inv, nil
	})
}

func (s *InvitationService) ListForTenant(ctx context.Context, access tenancy.Access) ([]models.Invitation, error) {
	return tenancy.Run(ctx, s.runner, access.With(tenancy.WriteRoles), func(ctx context.Context, sc *tenancy.Scope) ([]models.Invitation, error) {
		return s.invitations.ListByTenant(ctx, sc.Tx, sc.TenantID)
	})
}

// Mine lists the pending, unexpired invitations addressed to the caller.
func (s *InvitationService) Mine(ctx context.Context, callerID int64) ([]models.Invitation, error) {
	return tenancy.RunAsUser(ctx, s.runner, callerID, func(ctx context.Context, sc *tenancy.Scope) ([]models.Invitation, error) {
		user, err := s.caller(ctx, sc)
		if err != nil {
			return nil, err
		}
		return s.invitations.ListPendingForEmail(ctx, sc.Tx, user.Email, common.Now().UTC())
	})
}

// Accept turns the invitation into an active membership.
func (s *InvitationService) Accept(ctx context.Context, callerID, id int64) (*models.Membership, error) {
	return tenancy.RunAsUser(ctx, s.runner, callerID, func(ctx context.Context, sc *tenancy.Scope) (*models.Membership, error) {
		inv, now, err := s.respondable(ctx, sc, id)
		if err != nil {
			return nil, err
		}
		member, err := s.memberships.Exists(ctx, sc.Tx, inv.TenantID, callerID)
		if err != nil {
			return nil, err
		}
		if member {
			return nil, common.Conflict(msgAlreadyMember)
		}

		inviter := inv.InvitedBy
		membership := &models.Membership{
			TenantID:  inv.TenantID,
			UserID:    callerID,
			Role:      inv.Role,
			Estado:    models.EstadoActivo,
			InvitedBy: &inviter,
		}
		if err := s.memberships.Create(ctx, sc.Tx, membership); err != nil {
			return nil, translateStorage(err, Messages{Duplicate: msgAlreadyMember}, nil)
		}
		if err := s.invitations.SetStatus(ctx, sc.Tx, inv.ID, models.InvitationAccepted, now); err != nil {
			return nil, err
		}

		s.log.WithFields(logrus.Fields{
			"tenant_id":     inv.TenantID,
			"invitation_id": inv.ID,
			"user_id":       callerID,
		}).Info("invitation accepted")
		return membership, nil
	})
}

// Reject declines the invitation; it is stored as REVOKED.
func (s *InvitationService) Reject(ctx context.Context, callerID, id int64) (*models.Invitation, error) {
	return tenancy.RunAsUser(ctx, s.runner, callerID, func(ctx context.Context, sc *tenancy.Scope) (*models.Invitation, error) {
		inv, now, err := s.respondable(ctx, sc, id)
		if err != nil {
			return nil, err
		}
		if err := s.invitations.SetStatus(ctx, sc.Tx, inv.ID, models.InvitationRevoked, now); err != nil {
			return nil, err
		}
		inv.Status = models.InvitationRevoked
		inv.RespondedAt = &now

		s.log.WithFields(logrus.Fields{"invitation_id": inv.ID, "user_id": callerID}).Info("invitation rejected")
		return inv, nil
	})
}

// SweepExpired revokes every pending invitation past its expiry.
func (s *InvitationService) SweepExpired(ctx context.Context) (int64, error) {
	var n int64
	err := database.InTx(ctx, s.uow, func(tx database.Tx) error {
		var err error
		n, err = s.invitations.RevokeAllExpired(ctx, tx, common.Now().UTC())
		return err
	})
	return n, err
}

// respondable loads an invitation the caller may still accept or reject.
func (s *InvitationService) respondable(ctx context.Context, sc *tenancy.Scope, id int64) (*models.Invitation, time.Time, error) {
	now := common.Now().UTC()
	user, err := s.caller(ctx, sc)
	if err != nil {
		return nil, now, err
	}
	inv, err := s.invitations.GetByID(ctx, sc.Tx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, now, common.NotFound(msgInvitationNotFound)
	}
	if err != nil {
		return nil, now, err
	}
	switch {
	case inv.Email != user.Email:
		return nil, now, common.Forbidden(msgInvitationOtherEmail)
	case inv.Status != models.InvitationPending:
		return nil, now, common.Conflict(msgInvitationNotPending)
	case !inv.ExpiresAt.After(now):
		return nil, now, common.Conflict(msgInvitationExpired)
	}
	return inv, now, nil
}

func (s *InvitationService) caller(ctx context.Context, sc *tenancy.Scope) (*models.AuthUser, error) {
	user, err := s.users.GetByID(ctx, sc.Tx, sc.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, common.Unauthenticated("El usuario autenticado ya no existe.")
	}
	return user, err
}

func newInvitationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate invitation token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
