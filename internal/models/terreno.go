package models

import (
	"github.com/shopspring/decimal"

	"juntacomunal/internal/common"
)

type Terreno struct {
	TenantID      int64               `json:"idTenant,string" db:"id_tenant"`
	ID            int64               `json:"idTerreno,string" db:"id_terreno"`
	Descripcion   string              `json:"descripcion" db:"descripcion"`
	AreaAproxM2   decimal.NullDecimal `json:"areaAproxM2" db:"area_aprox_m2"`
	Estado        string              `json:"estado" db:"estado"`
	Observaciones *string             `json:"observaciones" db:"observaciones"`
}

type CreateTerrenoRequest struct {
	Descripcion   string           `json:"descripcion"`
	AreaAproxM2   *decimal.Decimal `json:"areaAproxM2"`
	Estado        *string          `json:"estado" validate:"omitempty,oneof=EN_USO EN_VENTA VENDIDO_PARCIAL VENDIDO_TOTAL RESERVA"`
	Observaciones *string          `json:"observaciones"`
}

type UpdateTerrenoRequest struct {
	Descripcion   common.Optional[string]          `json:"descripcion"`
	AreaAproxM2   common.Optional[decimal.Decimal] `json:"areaAproxM2"`
	Estado        common.Optional[string]          `json:"estado"`
	Observaciones common.Optional[string]          `json:"observaciones"`
}

type TerrenoFilter struct {
	Estado string
	Search string // descripcion
}

type PersonaTerreno struct {
	TenantID                int64               `json:"idTenant,string" db:"id_tenant"`
	ID                      int64               `json:"idPersonaTerreno,string" db:"id_persona_terreno"`
	PersonaID               int64               `json:"idPersona,string" db:"id_persona"`
	TerrenoID               int64               `json:"idTerreno,string" db:"id_terreno"`
	TipoRelacion            string              `json:"tipoRelacion" db:"tipo_relacion"`
	PorcentajeParticipacion decimal.NullDecimal `json:"porcentajeParticipacion" db:"porcentaje_participacion"`
}

type CreatePersonaTerrenoRequest struct {
	IDPersona               common.ID        `json:"idPersona"`
	IDTerreno               common.ID        `json:"idTerreno"`
	TipoRelacion            string           `json:"tipoRelacion" validate:"required,oneof=PROPIETARIO POSEEDOR COPROPIETARIO FAMILIAR OTRO"`
	PorcentajeParticipacion *decimal.Decimal `json:"porcentajeParticipacion"`
}

type UpdatePersonaTerrenoRequest struct {
	TipoRelacion            common.Optional[string]          `json:"tipoRelacion"`
	PorcentajeParticipacion common.Optional[decimal.Decimal] `json:"porcentajeParticipacion"`
}

type PersonaTerrenoFilter struct {
	PersonaID    *int64
	TerrenoID    *int64
	TipoRelacion string
}
