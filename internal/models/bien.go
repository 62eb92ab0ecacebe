package models

import (
	"time"

	"github.com/shopspring/decimal"

	"juntacomunal/internal/common"
)

type Bien struct {
	TenantID      int64               `json:"idTenant,string" db:"id_tenant"`
	ID            int64               `json:"idBien,string" db:"id_bien"`
	Descripcion   string              `json:"descripcion" db:"descripcion"`
	Tipo          *string             `json:"tipo" db:"tipo"`
	Cantidad      int                 `json:"cantidad" db:"cantidad"`
	ValorEstimado decimal.NullDecimal `json:"valorEstimado" db:"valor_estimado"`
	Ubicacion     *string             `json:"ubicacion" db:"ubicacion"`
	FechaAlta     time.Time           `json:"fechaAlta" db:"fecha_alta"`
	FechaBaja     *time.Time          `json:"fechaBaja" db:"fecha_baja"`
	Estado        string              `json:"estado" db:"estado"`
	Observaciones *string             `json:"observaciones" db:"observaciones"`
}

type CreateBienRequest struct {
	Descripcion   string           `json:"descripcion"`
	Tipo          *string          `json:"tipo" validate:"omitempty,max=50"`
	Cantidad      int              `json:"cantidad" validate:"gte=1"`
	ValorEstimado *decimal.Decimal `json:"valorEstimado"`
	Ubicacion     *string          `json:"ubicacion" validate:"omitempty,max=200"`
	FechaAlta     string           `json:"fechaAlta"`
	FechaBaja     *string          `json:"fechaBaja"`
	Estado        *string          `json:"estado" validate:"omitempty,oneof=BUENO REGULAR MALO DADO_DE_BAJA"`
	Observaciones *string          `json:"observaciones"`
}

type UpdateBienRequest struct {
	Descripcion   common.Optional[string]          `json:"descripcion"`
	Tipo          common.Optional[string]          `json:"tipo"`
	Cantidad      common.Optional[int]             `json:"cantidad"`
	ValorEstimado common.Optional[decimal.Decimal] `json:"valorEstimado"`
	Ubicacion     common.Optional[string]          `json:"ubicacion"`
	FechaAlta     common.Optional[string]          `json:"fechaAlta"`
	FechaBaja     common.Optional[string]          `json:"fechaBaja"`
	Estado        common.Optional[string]          `json:"estado"`
	Observaciones common.Optional[string]          `json:"observaciones"`
}

type BienFilter struct {
	Estado string
	Tipo   string
	Search string // descripcion, tipo, ubicacion
}
