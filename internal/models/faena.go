package models

import (
	"time"

	"github.com/shopspring/decimal"

	"juntacomunal/internal/common"
)

type Faena struct {
	TenantID      int64     `json:"idTenant,string" db:"id_tenant"`
	ID            int64     `json:"idFaena,string" db:"id_faena"`
	Fecha         time.Time `json:"fecha" db:"fecha"`
	Descripcion   string    `json:"descripcion" db:"descripcion"`
	Lugar         *string   `json:"lugar" db:"lugar"`
	Observaciones *string   `json:"observaciones" db:"observaciones"`
}

type CreateFaenaRequest struct {
	Fecha         string  `json:"fecha"`
	Descripcion   string  `json:"descripcion"`
	Lugar         *string `json:"lugar" validate:"omitempty,max=200"`
	Observaciones *string `json:"observaciones"`
}

type UpdateFaenaRequest struct {
	Fecha         common.Optional[string] `json:"fecha"`
	Descripcion   common.Optional[string] `json:"descripcion"`
	Lugar         common.Optional[string] `json:"lugar"`
	Observaciones common.Optional[string] `json:"observaciones"`
}

type FaenaFilter struct {
	From   *time.Time
	To     *time.Time
	Search string // descripcion, lugar
}

// Participacion is one person's participation in a faena.
type Participacion struct {
	TenantID          int64               `json:"idTenant,string" db:"id_tenant"`
	ID                int64               `json:"idFaenaParticipacion,string" db:"id_faena_participacion"`
	FaenaID           int64               `json:"idFaena,string" db:"id_faena"`
	PersonaID         int64               `json:"idPersona,string" db:"id_persona"`
	Estado            string              `json:"estado" db:"estado"`
	HoraLlegada       *string             `json:"horaLlegada" db:"hora_llegada"`
	CantPersonasExtra int                 `json:"cantPersonasExtra" db:"cant_personas_extra"`
	MultaGenerada     bool                `json:"multaGenerada" db:"multa_generada"`
	MontoMulta        decimal.NullDecimal `json:"montoMulta" db:"monto_multa"`
	Observaciones     *string             `json:"observaciones" db:"observaciones"`
	Audit
	Anulacion
}

type CreateParticipacionRequest struct {
	FaenaID           int64                            `json:"-"` // from the route
	IDPersona         common.ID                        `json:"idPersona"`
	Estado            *string                          `json:"estado" validate:"omitempty,oneof=PENDIENTE ASISTIO TARDE FALTO JUSTIFICADO"`
	HoraLlegada       *string                          `json:"horaLlegada"`
	CantPersonasExtra *int                             `json:"cantPersonasExtra" validate:"omitempty,gte=0,lte=20"`
	MultaGenerada     common.Optional[bool]            `json:"multaGenerada"`
	MontoMulta        common.Optional[decimal.Decimal] `json:"montoMulta"`
	Observaciones     *string                          `json:"observaciones"`
}

type UpdateParticipacionRequest struct {
	IDPersona         common.Optional[common.ID]       `json:"idPersona"` // rejected when sent
	Estado            common.Optional[string]          `json:"estado"`
	HoraLlegada       common.Optional[string]          `json:"horaLlegada"`
	CantPersonasExtra common.Optional[int]             `json:"cantPersonasExtra"`
	MultaGenerada     common.Optional[bool]            `json:"multaGenerada"`
	MontoMulta        common.Optional[decimal.Decimal] `json:"montoMulta"`
	Observaciones     common.Optional[string]          `json:"observaciones"`
}

type ParticipacionFilter struct {
	FaenaID   int64
	PersonaID *int64
	Estado    string
	Anulado   *bool
}
