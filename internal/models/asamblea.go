package models

import (
	"time"

	"juntacomunal/internal/common"
)

type Asamblea struct {
	TenantID        int64     `json:"idTenant,string" db:"id_tenant"`
	ID              int64     `json:"idAsamblea,string" db:"id_asamblea"`
	Fecha           time.Time `json:"fecha" db:"fecha"`
	Tipo            string    `json:"tipo" db:"tipo"`
	TemaPrincipal   string    `json:"temaPrincipal" db:"tema_principal"`
	Lugar           *string   `json:"lugar" db:"lugar"`
	QuorumRequerido *int      `json:"quorumRequerido" db:"quorum_requerido"`
	Observaciones   *string   `json:"observaciones" db:"observaciones"`
}

type CreateAsambleaRequest struct {
	Fecha           string  `json:"fecha"` // RFC3339 timestamp
	Tipo            string  `json:"tipo" validate:"required,oneof=ORDINARIA EXTRAORDINARIA"`
	TemaPrincipal   string  `json:"temaPrincipal"`
	Lugar           *string `json:"lugar" validate:"omitempty,max=200"`
	QuorumRequerido *int    `json:"quorumRequerido" validate:"omitempty,gte=0"`
	Observaciones   *string `json:"observaciones"`
}

type UpdateAsambleaRequest struct {
	Fecha           common.Optional[string] `json:"fecha"`
	Tipo            common.Optional[string] `json:"tipo"`
	TemaPrincipal   common.Optional[string] `json:"temaPrincipal"`
	Lugar           common.Optional[string] `json:"lugar"`
	QuorumRequerido common.Optional[int]    `json:"quorumRequerido"`
	Observaciones   common.Optional[string] `json:"observaciones"`
}

type AsambleaFilter struct {
	Tipo string
	From *time.Time
	To   *time.Time
}

// Asistencia is one person's attendance at an asamblea.
type Asistencia struct {
	TenantID             int64   `json:"idTenant,string" db:"id_tenant"`
	ID                   int64   `json:"idAsistencia,string" db:"id_asistencia"`
	AsambleaID           int64   `json:"idAsamblea,string" db:"id_asamblea"`
	PersonaID            int64   `json:"idPersona,string" db:"id_persona"`
	Estado               string  `json:"estado" db:"estado"`
	HoraLlegada          *string `json:"horaLlegada" db:"hora_llegada"` // HH:MM:SS
	EsPadronadoEnMomento bool    `json:"esPadronadoEnMomento" db:"es_padronado_en_momento"`
	Observaciones        *string `json:"observaciones" db:"observaciones"`
	Audit
	Anulacion
}

type CreateAsistenciaRequest struct {
	AsambleaID           int64     `json:"-"` // from the route
	IDPersona            common.ID `json:"idPersona"`
	Estado               *string   `json:"estado" validate:"omitempty,oneof=PENDIENTE ASISTIO TARDE FALTO JUSTIFICADO"`
	HoraLlegada          *string   `json:"horaLlegada"`
	EsPadronadoEnMomento *bool     `json:"esPadronadoEnMomento" validate:"required"`
	Observaciones        *string   `json:"observaciones"`
}

type UpdateAsistenciaRequest struct {
	IDPersona            common.Optional[common.ID] `json:"idPersona"` // rejected when sent
	Estado               common.Optional[string]    `json:"estado"`
	HoraLlegada          common.Optional[string]    `json:"horaLlegada"`
	EsPadronadoEnMomento common.Optional[bool]      `json:"esPadronadoEnMomento"`
	Observaciones        common.Optional[string]    `json:"observaciones"`
}

type AsistenciaFilter struct {
	AsambleaID int64
	PersonaID  *int64
	Estado     string
	Anulado    *bool
}
