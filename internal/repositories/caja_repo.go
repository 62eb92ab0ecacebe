package repositories

import (
	"context"
	"time"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/pkg/database"
)

type CajaRepository interface {
	Create(ctx context.Context, q database.DBTX, m *models.CajaMovimiento) (*models.CajaMovimiento, error)
	GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*models.CajaMovimiento, error)
	List(ctx context.Context, q database.DBTX, tenantID int64, filter models.CajaMovimientoFilter, page common.PageRequest) ([]models.CajaMovimiento, int64, error)
	Update(ctx context.Context, q database.DBTX, m *models.CajaMovimiento) (*models.CajaMovimiento, error)
	Void(ctx context.Context, q database.DBTX, tenantID, id, userID int64, at time.Time, motivo string) (*models.CajaMovimiento, error)
	SetComprobante(ctx context.Context, q database.DBTX, tenantID, id int64, key string) error
	Resumen(ctx context.Context, q database.DBTX, tenantID int64, from, to *time.Time) (*models.CajaResumen, error)
}

type cajaRepo struct{}

func NewCajaRepo() CajaRepository {
	return &cajaRepo{}
}

const cajaColumns = `id_tenant, id_movimiento, fecha, tipo, monto, categoria, medio_pago, id_persona, id_faena, id_asamblea,
	id_bien, id_user, descripcion, doc_referencia, observaciones, comprobante_key, created_at, created_by_user,
	updated_at, updated_by_user, anulado, anulado_at, anulado_by_user, motivo_anulacion`

func scanCajaMovimiento(row rowScanner) (*models.CajaMovimiento, error) {
	m := &models.CajaMovimiento{}
	err := row.Scan(&m.TenantID, &m.ID, &m.Fecha, &m.Tipo, &m.Monto, &m.Categoria, &m.MedioPago, &m.PersonaID,
		&m.FaenaID, &m.AsambleaID, &m.BienID, &m.UserID, &m.Descripcion, &m.DocReferencia, &m.Observaciones,
		&m.ComprobanteKey, &m.CreatedAt, &m.CreatedByUser, &m.UpdatedAt, &m.UpdatedByUser,
		&m.Anulado, &m.AnuladoAt, &m.AnuladoByUser, &m.MotivoAnulacion)
	if err != nil {
		return nil, notFound(err)
	}
	m.TieneComprobante = m.ComprobanteKey != nil
	return m, nil
}

func (r *cajaRepo) Create(ctx context.Context, q database.DBTX, m *models.CajaMovimiento) (*models.CajaMovimiento, error) {
	query := `
		INSERT INTO caja_movimientos (id_tenant, fecha, tipo, monto, categoria, medio_pago, id_persona, id_faena,
			id_asamblea, id_bien, id_user, descripcion, doc_referencia, observaciones, created_by_user)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + cajaColumns
	return scanCajaMovimiento(q.QueryRow(ctx, query, m.TenantID, m.Fecha, m.Tipo, m.Monto, m.Categoria, m.MedioPago,
		m.PersonaID, m.FaenaID, m.AsambleaID, m.BienID, m.UserID, m.Descripcion, m.DocReferencia, m.Observaciones,
		m.CreatedByUser))
}

func (r *cajaRepo) GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*models.CajaMovimiento, error) {
	query := `SELECT ` + cajaColumns + ` FROM caja_movimientos WHERE id_tenant = $1 AND id_movimiento = $2`
	return scanCajaMovimiento(q.QueryRow(ctx, query, tenantID, id))
}

func (r *cajaRepo) List(ctx context.Context, q database.DBTX, tenantID int64, filter models.CajaMovimientoFilter, page common.PageRequest) ([]models.CajaMovimiento, int64, error) {
	f := newFilter("id_tenant = ?", tenantID)
	f.dateRange("fecha", filter.From, filter.To)
	f.eqString("tipo", filter.Tipo)
	f.eqString("categoria", filter.Categoria)
	f.eqString("medio_pago", filter.MedioPago)
	f.eqBool("anulado", filter.Anulado)
	f.eqInt64("id_persona", filter.PersonaID)
	f.eqInt64("id_user", filter.UserID)
	return listPage(ctx, q, `SELECT `+cajaColumns, `FROM caja_movimientos`, f, "id_movimiento DESC", page, scanCajaMovimiento)
}

func (r *cajaRepo) Update(ctx context.Context, q database.DBTX, m *models.CajaMovimiento) (*models.CajaMovimiento, error) {
	query := `
		UPDATE caja_movimientos
		SET fecha = $3, tipo = $4, monto = $5, categoria = $6, medio_pago = $7, id_persona = $8, id_faena = $9,
			id_asamblea = $10, id_bien = $11, descripcion = $12, doc_referencia = $13, observaciones = $14,
			updated_at = $15, updated_by_user = $16
		WHERE id_tenant = $1 AND id_movimiento = $2 AND anulado = false
		RETURNING ` + cajaColumns
	return scanCajaMovimiento(q.QueryRow(ctx, query, m.TenantID, m.ID, m.Fecha, m.Tipo, m.Monto, m.Categoria, m.MedioPago,
		m.PersonaID, m.FaenaID, m.AsambleaID, m.BienID, m.Descripcion, m.DocReferencia, m.Observaciones,
		m.UpdatedAt, m.UpdatedByUser))
}

func (r *cajaRepo) Void(ctx context.Context, q database.DBTX, tenantID, id, userID int64, at time.Time, motivo string) (*models.CajaMovimiento, error) {
	return voidRow(ctx, q, "caja_movimientos", "id_movimiento", cajaColumns, scanCajaMovimiento, tenantID, id, userID, at, motivo)
}

func (r *cajaRepo) SetComprobante(ctx context.Context, q database.DBTX, tenantID, id int64, key string) error {
	query := `
		UPDATE caja_movimientos
		SET comprobante_key = $3
		WHERE id_tenant = $1 AND id_movimiento = $2 AND anulado = false
	`
	tag, err := q.Exec(ctx, query, tenantID, id, key)
	if err != nil {
		return err
	}
	return affectedOne(tag.RowsAffected())
}

// Resumen totals the movements of a period, leaving voided ones out.
func (r *cajaRepo) Resumen(ctx context.Context, q database.DBTX, tenantID int64, from, to *time.Time) (*models.CajaResumen, error) {
	f := newFilter("id_tenant = ?", tenantID)
	f.andRaw("anulado = false")
	f.dateRange("fecha", from, to)

	query := `
		SELECT
			COALESCE(SUM(monto) FILTER (WHERE tipo = 'INGRESO'), 0),
			COALESCE(SUM(monto) FILTER (WHERE tipo = 'GASTO'), 0),
			COUNT(*)
		FROM caja_movimientos` + f.where()

	res := &models.CajaResumen{From: from, To: to}
	if err := q.QueryRow(ctx, query, f.args...).Scan(&res.TotalIngresos, &res.TotalGastos, &res.Movimientos); err != nil {
		return nil, err
	}
	res.Saldo = res.TotalIngresos.Sub(res.TotalGastos)
	return res, nil
}
