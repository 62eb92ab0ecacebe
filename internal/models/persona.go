package models

import (
	"time"

	"juntacomunal/internal/common"
)

type Persona struct {
	TenantID           int64     `json:"idTenant,string" db:"id_tenant"`
	ID                 int64     `json:"idPersona,string" db:"id_persona"`
	Nombres            string    `json:"nombres" db:"nombres"`
	ApellidoPaterno    string    `json:"apellidoPaterno" db:"apellido_paterno"`
	ApellidoMaterno    string    `json:"apellidoMaterno" db:"apellido_materno"`
	DNI                *string   `json:"dni" db:"dni"`
	Telefono           *string   `json:"telefono" db:"telefono"`
	ReferenciaVivienda *string   `json:"referenciaVivienda" db:"referencia_vivienda"`
	TipoParticipante   string    `json:"tipoParticipante" db:"tipo_participante"`
	Estado             string    `json:"estado" db:"estado"`
	FechaRegistro      time.Time `json:"fechaRegistro" db:"fecha_registro"`
	Observaciones      *string   `json:"observaciones" db:"observaciones"`
}

type CreatePersonaRequest struct {
	Nombres            string  `json:"nombres"`
	ApellidoPaterno    string  `json:"apellidoPaterno"`
	ApellidoMaterno    string  `json:"apellidoMaterno"`
	DNI                *string `json:"dni" validate:"omitempty,max=15"`
	Telefono           *string `json:"telefono" validate:"omitempty,max=20"`
	ReferenciaVivienda *string `json:"referenciaVivienda" validate:"omitempty,max=200"`
	TipoParticipante   *string `json:"tipoParticipante" validate:"omitempty,oneof=PADRONADO NO_PADRONADO INVITADO"`
	Estado             *string `json:"estado" validate:"omitempty,oneof=ACTIVO SUSPENDIDO RETIRADO"`
	FechaRegistro      *string `json:"fechaRegistro"` // YYYY-MM-DD, defaults to today
	Observaciones      *string `json:"observaciones"`
}

type UpdatePersonaRequest struct {
	Nombres            common.Optional[string] `json:"nombres"`
	ApellidoPaterno    common.Optional[string] `json:"apellidoPaterno"`
	ApellidoMaterno    common.Optional[string] `json:"apellidoMaterno"`
	DNI                common.Optional[string] `json:"dni"`
	Telefono           common.Optional[string] `json:"telefono"`
	ReferenciaVivienda common.Optional[string] `json:"referenciaVivienda"`
	TipoParticipante   common.Optional[string] `json:"tipoParticipante"`
	Estado             common.Optional[string] `json:"estado"`
	FechaRegistro      common.Optional[string] `json:"fechaRegistro"`
	Observaciones      common.Optional[string] `json:"observaciones"`
}

// PersonaFilter holds search and filter criteria for persona queries
type PersonaFilter struct {
	DNI              string
	Estado           string
	TipoParticipante string
	Search           string // nombres, apellidos
}
