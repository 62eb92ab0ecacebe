package models

import (
	"time"

	"github.com/shopspring/decimal"

	"juntacomunal/internal/common"
)

var CajaCategorias = []string{
	"APORTE",
	"MULTA_FAENA",
	"MULTA_ASAMBLEA",
	"APORTE_VOLUNTARIO",
	"DONACION",
	"SALDO_INICIAL_JUNTA_ANTERIOR",
	"OTRO_INGRESO",
	"GASTO_OPERATIVO",
	"MATERIAL_OBRA",
	"MOVILIDAD",
	"REUNION",
	"SERVICIOS",
	"COMPRA_BIEN",
	"OTRO_GASTO",
}

type CajaMovimiento struct {
	TenantID         int64           `json:"idTenant,string" db:"id_tenant"`
	ID               int64           `json:"idMovimiento,string" db:"id_movimiento"`
	Fecha            time.Time       `json:"fecha" db:"fecha"`
	Tipo             string          `json:"tipo" db:"tipo"`
	Monto            decimal.Decimal `json:"monto" db:"monto"`
	Categoria        string          `json:"categoria" db:"categoria"`
	MedioPago        string          `json:"medioPago" db:"medio_pago"`
	PersonaID        *int64          `json:"idPersona,string" db:"id_persona"`
	FaenaID          *int64          `json:"idFaena,string" db:"id_faena"`
	AsambleaID       *int64          `json:"idAsamblea,string" db:"id_asamblea"`
	BienID           *int64          `json:"idBien,string" db:"id_bien"`
	UserID           int64           `json:"idUser,string" db:"id_user"`
	Descripcion      *string         `json:"descripcion" db:"descripcion"`
	DocReferencia    *string         `json:"docReferencia" db:"doc_referencia"`
	Observaciones    *string         `json:"observaciones" db:"observaciones"`
	ComprobanteKey   *string         `json:"-" db:"comprobante_key"`
	TieneComprobante bool            `json:"tieneComprobante" db:"-"`
	Audit
	Anulacion
}

type CreateCajaMovimientoRequest struct {
	Fecha         string          `json:"fecha"`
	Tipo          string          `json:"tipo" validate:"required,oneof=INGRESO GASTO"`
	Monto         decimal.Decimal `json:"monto"`
	Categoria     string          `json:"categoria" validate:"required,oneof=APORTE MULTA_FAENA MULTA_ASAMBLEA APORTE_VOLUNTARIO DONACION SALDO_INICIAL_JUNTA_ANTERIOR OTRO_INGRESO GASTO_OPERATIVO MATERIAL_OBRA MOVILIDAD REUNION SERVICIOS COMPRA_BIEN OTRO_GASTO"`
	MedioPago     string          `json:"medioPago" validate:"required,oneof=EFECTIVO TRANSFERENCIA YAPE PLIN OTRO"`
	IDPersona     *common.ID      `json:"idPersona"`
	IDFaena       *common.ID      `json:"idFaena"`
	IDAsamblea    *common.ID      `json:"idAsamblea"`
	IDBien        *common.ID      `json:"idBien"`
	Descripcion   *string         `json:"descripcion"`
	DocReferencia *string         `json:"docReferencia" validate:"omitempty,max=100"`
	Observaciones *string         `json:"observaciones"`
}

type UpdateCajaMovimientoRequest struct {
	Fecha         common.Optional[string]          `json:"fecha"`
	Tipo          common.Optional[string]          `json:"tipo"`
	Monto         common.Optional[decimal.Decimal] `json:"monto"`
	Categoria     common.Optional[string]          `json:"categoria"`
	MedioPago     common.Optional[string]          `json:"medioPago"`
	IDPersona     common.Optional[common.ID]       `json:"idPersona"`
	IDFaena       common.Optional[common.ID]       `json:"idFaena"`
	IDAsamblea    common.Optional[common.ID]       `json:"idAsamblea"`
	IDBien        common.Optional[common.ID]       `json:"idBien"`
	Descripcion   common.Optional[string]          `json:"descripcion"`
	DocReferencia common.Optional[string]          `json:"docReferencia"`
	Observaciones common.Optional[string]          `json:"observaciones"`
}

type CajaMovimientoFilter struct {
	From      *time.Time
	To        *time.Time
	Tipo      string
	Categoria string
	MedioPago string
	Anulado   *bool
	PersonaID *int64
	UserID    *int64
}

// CajaResumen totals the non-voided movements of a period.
type CajaResumen struct {
	From          *time.Time      `json:"from"`
	To            *time.Time      `json:"to"`
	TotalIngresos decimal.Decimal `json:"totalIngresos"`
	TotalGastos   decimal.Decimal `json:"totalGastos"`
	Saldo         decimal.Decimal `json:"saldo"`
	Movimientos   int64           `json:"movimientos"`
}

// Comprobante is a time-limited download link for a stored receipt.
type Comprobante struct {
	MovimientoID int64     `json:"idMovimiento,string"`
	URL          string    `json:"url"`
	ExpiresAt    time.Time `json:"expiresAt"`
}
