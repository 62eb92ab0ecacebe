package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/internal/services"
	"juntacomunal/internal/tenancy"
)

const comprobanteField = "file"

// CajaService is the part of the cash service beyond its lifecycle.
type CajaService interface {
	Lifecycle[models.CajaMovimiento, models.CreateCajaMovimientoRequest, models.UpdateCajaMovimientoRequest, models.CajaMovimientoFilter]
	Void(ctx context.Context, access tenancy.Access, id int64, req models.AnularRequest) (*models.CajaMovimiento, error)
	Resumen(ctx context.Context, access tenancy.Access, from, to *time.Time) (*models.CajaResumen, error)
	AttachComprobante(ctx context.Context, access tenancy.Access, id int64, file services.Upload) (*models.CajaMovimiento, error)
	Comprobante(ctx context.Context, access tenancy.Access, id int64) (*models.Comprobante, error)
}

type CajaHandlers struct {
	*ResourceHandlers[models.CajaMovimiento, models.CreateCajaMovimientoRequest, models.UpdateCajaMovimientoRequest, models.CajaMovimientoFilter]
	service CajaService
}

func NewCajaHandlers(service CajaService) *CajaHandlers {
	return &CajaHandlers{
		ResourceHandlers: NewResourceHandlers(Lifecycle[models.CajaMovimiento, models.CreateCajaMovimientoRequest, models.UpdateCajaMovimientoRequest, models.CajaMovimientoFilter](service), cajaFilter),
		service:          service,
	}
}

// Resumen godoc
// @Summary Totales de caja
// @Description Suma ingresos y gastos no anulados y el saldo del periodo.
// @Tags caja
// @Produce json
// @Param X-Tenant-Id header int true "Tenant"
// @Param from query string false "Fecha inicial (YYYY-MM-DD)"
// @Param to query string false "Fecha final (YYYY-MM-DD)"
// @Success 200 {object} models.CajaResumen
// @Router /api/caja-movimientos/resumen [get]
func (h *CajaHandlers) Resumen(c echo.Context) error {
	acc, err := access(c)
	if err != nil {
		return err
	}
	q := newQuery(c)
	from, to := q.date("from"), q.date("to")
	if q.err != nil {
		return q.err
	}
	res, err := h.service.Resumen(c.Request().Context(), acc, from, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// UploadComprobante godoc
// @Summary Adjuntar comprobante
// @Description Sube un PDF, JPEG o PNG de hasta 5 MB y reemplaza el anterior.
// @Tags caja
// @Accept multipart/form-data
// @Produce json
// @Param X-Tenant-Id header int true "Tenant"
// @Param id path int true "Movimiento"
// @Param file formData file true "Comprobante"
// @Success 200 {object} models.CajaMovimiento
// @Router /api/caja-movimientos/{id}/comprobante [put]
func (h *CajaHandlers) UploadComprobante(c echo.Context) error {
	acc, err := access(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	header, err := c.FormFile(comprobanteField)
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge {
			return common.BadInput("El comprobante no puede exceder %d MB.", services.MaxComprobanteSize>>20)
		}
		return common.BadInput("El campo file es obligatorio.")
	}
	file, err := header.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	updated, err := h.service.AttachComprobante(c.Request().Context(), acc, id, services.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// GetComprobante godoc
// @Summary Enlace del comprobante
// @Tags caja
// @Produce json
// @Param X-Tenant-Id header int true "Tenant"
// @Param id path int true "Movimiento"
// @Success 200 {object} models.Comprobante
// @Router /api/caja-movimientos/{id}/comprobante [get]
func (h *CajaHandlers) GetComprobante(c echo.Context) error {
	acc, err := access(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	link, err := h.service.Comprobante(c.Request().Context(), acc, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, link)
}
