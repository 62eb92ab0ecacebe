package models

import (
	"time"

	"juntacomunal/internal/common"
)

type Tenant struct {
	ID            int64     `json:"idTenant,string" db:"id_tenant"`
	Nombre        string    `json:"nombre" db:"nombre"`
	RUC           *string   `json:"ruc" db:"ruc"`
	DNI           *string   `json:"dni" db:"dni"`
	Estado        string    `json:"estado" db:"estado"`
	Observaciones *string   `json:"observaciones" db:"observaciones"`
	OwnerUserID   *int64    `json:"ownerUserId,string" db:"owner_user_id"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

type CreateTenantRequest struct {
	Nombre        string     `json:"nombre" validate:"required,max=150"`
	RUC           *string    `json:"ruc" validate:"omitempty,max=15"`
	DNI           *string    `json:"dni" validate:"omitempty,max=8"`
	Estado        *string    `json:"estado"`
	Observaciones *string    `json:"observaciones" validate:"omitempty,max=300"`
	OwnerUserID   *common.ID `json:"ownerUserId"`
}

type UpdateTenantRequest struct {
	Nombre        common.Optional[string] `json:"nombre"`
	RUC           common.Optional[string] `json:"ruc"`
	DNI           common.Optional[string] `json:"dni"`
	Estado        common.Optional[string] `json:"estado"`
	Observaciones common.Optional[string] `json:"observaciones"`
}

type TenantFilter struct {
	Nombre string
	Estado string
	Window common.SkipTake
}

// Membership is one tenant_users row.
type Membership struct {
	TenantID  int64     `json:"idTenant,string" db:"id_tenant"`
	UserID    int64     `json:"idUser,string" db:"id_user"`
	Email     string    `json:"email,omitempty" db:"email"`
	Role      Role      `json:"role" db:"role"`
	Estado    string    `json:"estado" db:"estado"`
	InvitedBy *int64    `json:"invitedBy,string" db:"invited_by"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type Invitation struct {
	ID          int64      `json:"idInvitation,string" db:"id_invitation"`
	TenantID    int64      `json:"idTenant,string" db:"id_tenant"`
	TenantName  string     `json:"tenantNombre,omitempty" db:"nombre"`
	Email       string     `json:"email" db:"email"`
	Role        Role       `json:"role" db:"role"`
	Status      string     `json:"status" db:"status"`
	Token       string     `json:"-" db:"token"`
	ExpiresAt   time.Time  `json:"expiresAt" db:"expires_at"`
	InvitedBy   int64      `json:"invitedBy,string" db:"invited_by"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	RespondedAt *time.Time `json:"respondedAt" db:"responded_at"`
}

type CreateInvitationRequest struct {
	Email string `json:"email" validate:"required,email,max=150"`
	Role  string `json:"role"`
}
