package models

import (
	"time"

	"juntacomunal/internal/common"
)

type JuntaDirectiva struct {
	TenantID      int64      `json:"idTenant,string" db:"id_tenant"`
	ID            int64      `json:"idJunta,string" db:"id_junta"`
	Nombre        string     `json:"nombre" db:"nombre"`
	FechaInicio   time.Time  `json:"fechaInicio" db:"fecha_inicio"`
	FechaFin      *time.Time `json:"fechaFin" db:"fecha_fin"`
	Estado        string     `json:"estado" db:"estado"`
	Observaciones *string    `json:"observaciones" db:"observaciones"`
}

type CreateJuntaDirectivaRequest struct {
	Nombre        string  `json:"nombre"`
	FechaInicio   string  `json:"fechaInicio"`
	FechaFin      *string `json:"fechaFin"`
	Estado        *string `json:"estado" validate:"omitempty,oneof=VIGENTE CESADA"`
	Observaciones *string `json:"observaciones"`
}

type UpdateJuntaDirectivaRequest struct {
	Nombre        common.Optional[string] `json:"nombre"`
	FechaInicio   common.Optional[string] `json:"fechaInicio"`
	FechaFin      common.Optional[string] `json:"fechaFin"`
	Estado        common.Optional[string] `json:"estado"`
	Observaciones common.Optional[string] `json:"observaciones"`
}

type JuntaDirectivaFilter struct {
	Estado string
	From   *time.Time // on fecha_inicio
	To     *time.Time
}

type JuntaMiembro struct {
	TenantID    int64      `json:"idTenant,string" db:"id_tenant"`
	ID          int64      `json:"idJuntaMiembro,string" db:"id_junta_miembro"`
	JuntaID     int64      `json:"idJunta,string" db:"id_junta"`
	PersonaID   int64      `json:"idPersona,string" db:"id_persona"`
	Cargo       string     `json:"cargo" db:"cargo"`
	FechaInicio time.Time  `json:"fechaInicio" db:"fecha_inicio"`
	FechaFin    *time.Time `json:"fechaFin" db:"fecha_fin"`
}

type CreateJuntaMiembroRequest struct {
	IDJunta     common.ID `json:"idJunta"`
	IDPersona   common.ID `json:"idPersona"`
	Cargo       string    `json:"cargo" validate:"required,oneof=PRESIDENTE VICEPRESIDENTE SECRETARIO TESORERO VOCAL OTRO"`
	FechaInicio string    `json:"fechaInicio"`
	FechaFin    *string   `json:"fechaFin"`
}

type UpdateJuntaMiembroRequest struct {
	IDJunta     common.Optional[common.ID] `json:"idJunta"`
	IDPersona   common.Optional[common.ID] `json:"idPersona"`
	Cargo       common.Optional[string]    `json:"cargo"`
	FechaInicio common.Optional[string]    `json:"fechaInicio"`
	FechaFin    common.Optional[string]    `json:"fechaFin"`
}

type JuntaMiembroFilter struct {
	JuntaID   *int64
	PersonaID *int64
	Cargo     string
	Vigentes  bool // fecha_fin null or not before today
	Today     time.Time
}
