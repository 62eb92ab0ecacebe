package models

// Role is the role a user holds inside one tenant.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

const (
	EstadoActivo   = "ACTIVO"
	EstadoInactivo = "INACTIVO"
)

const (
	InvitationPending  = "PENDING"
	InvitationAccepted = "ACCEPTED"
	InvitationRevoked  = "REVOKED"
)

// Persona estados and participant kinds.
const (
	PersonaActiva     = "ACTIVO"
	PersonaSuspendida = "SUSPENDIDO"
	PersonaRetirada   = "RETIRADO"

	ParticipantePadronado   = "PADRONADO"
	ParticipanteNoPadronado = "NO_PADRONADO"
	ParticipanteInvitado    = "INVITADO"
)

const TerrenoEnUso = "EN_USO"

const (
	BienBueno      = "BUENO"
	BienDadoDeBaja = "DADO_DE_BAJA"
)

// AsistenciaPendiente is the default state for attendance and participation.
const AsistenciaPendiente = "PENDIENTE"

const (
	JuntaVigente = "VIGENTE"
	JuntaCesada  = "CESADA"
)

const (
	CajaIngreso = "INGRESO"
	CajaGasto   = "GASTO"
)
