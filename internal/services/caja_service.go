package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/internal/repositories"
	"juntacomunal/internal/tenancy"
)

type cajaLifecycle = Lifecycle[models.CajaMovimiento, models.CreateCajaMovimientoRequest, models.UpdateCajaMovimientoRequest, models.CajaMovimientoFilter]

const (
	msgCajaNotFound       = "No se encontro el movimiento de caja solicitado."
	msgCajaVoidedEdit     = "No se puede editar un movimiento de caja anulado."
	msgBienRef            = "El bien indicado no existe en el tenant activo."
	MaxComprobanteSize    = 5 << 20
	DefaultComprobanteTTL = 15 * time.Minute
)

var (
	tiposCaja       = []string{models.CajaIngreso, models.CajaGasto}
	mediosPago      = []string{"EFECTIVO", "TRANSFERENCIA", "YAPE", "PLIN", "OTRO"}
	montoMinimo     = decimal.RequireFromString("0.01")
	comprobanteExts = map[string]string{
		"application/pdf": ".pdf",
		"image/jpeg":      ".jpg",
		"image/png":       ".png",
	}
)

// CajaReferences are the lookups that back the optional links of a movement.
type CajaReferences struct {
	Personas  repositories.PersonaRepository
	Faenas    repositories.FaenaRepository
	Asambleas repositories.AsambleaRepository
	Bienes    repositories.BienRepository
}

// Upload is a receipt file received from the client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// CajaService manages cash movements: the lifecycle, voiding, period totals
// and the attached receipt.
type CajaService struct {
	lifecycle   *cajaLifecycle
	voider      *Voider[models.CajaMovimiento]
	runner      tenancy.Runner
	movimientos repositories.CajaRepository
	storage     ObjectStorage
	urlTTL      time.Duration
	log         logrus.FieldLogger
}

func NewCajaService(
	runner tenancy.Runner,
	movimientos repositories.CajaRepository,
	refs CajaReferences,
	storage ObjectStorage,
	urlTTL time.Duration,
	log logrus.FieldLogger,
) *CajaService {
	if urlTTL <= 0 {
		urlTTL = DefaultComprobanteTTL
	}
	lifecycle := NewLifecycle(runner, movimientos, Strategy[models.CajaMovimiento, models.CreateCajaMovimientoRequest, models.UpdateCajaMovimientoRequest, models.CajaMovimientoFilter]{
		Messages: Messages{
			NotFound:   msgCajaNotFound,
			VoidedEdit: msgCajaVoidedEdit,
		},
		Voided: func(m *models.CajaMovimiento) bool { return m.IsAnulado() },
		Build: func(ctx context.Context, s *tenancy.Scope, in models.CreateCajaMovimientoRequest) (*models.CajaMovimiento, error) {
			return buildMovimiento(ctx, s, refs, in)
		},
		Apply: func(ctx context.Context, s *tenancy.Scope, m *models.CajaMovimiento, in models.UpdateCajaMovimientoRequest) error {
			return applyMovimiento(ctx, s, refs, m, in)
		},
	})

	return &CajaService{
		lifecycle:   lifecycle,
		voider:      NewVoider[models.CajaMovimiento](runner, movimientos, VoidMessages{NotFound: msgCajaNotFound, AlreadyVoided: "El movimiento de caja ya se encuentra anulado."}),
		runner:      runner,
		movimientos: movimientos,
		storage:     storage,
		urlTTL:      urlTTL,
		log:         log,
	}
}

func (c *CajaService) Create(ctx context.Context, access tenancy.Access, in models.CreateCajaMovimientoRequest) (*models.CajaMovimiento, error) {
	return c.lifecycle.Create(ctx, access, in)
}

func (c *CajaService) List(ctx context.Context, access tenancy.Access, filter models.CajaMovimientoFilter, page common.PageRequest) (common.ListResult[models.CajaMovimiento], error) {
	return c.lifecycle.List(ctx, access, filter, page)
}

func (c *CajaService) Get(ctx context.Context, access tenancy.Access, id int64) (*models.CajaMovimiento, error) {
	return c.lifecycle.Get(ctx, access, id)
}

func (c *CajaService) Update(ctx context.Context, access tenancy.Access, id int64, in models.UpdateCajaMovimientoRequest) (*models.CajaMovimiento, error) {
	return c.lifecycle.Update(ctx, access, id, in)
}

func (c *CajaService) Void(ctx context.Context, access tenancy.Access, id int64, req models.AnularRequest) (*models.CajaMovimiento, error) {
	return c.voider.Void(ctx, access, id, req)
}

// Resumen totals the non-voided movements between from and to, both optional
// and inclusive.
func (c *CajaService) Resumen(ctx context.Context, access tenancy.Access, from, to *time.Time) (*models.CajaResumen, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, common.BadInput("to no puede ser menor que from.")
	}
	return tenancy.Run(ctx, c.runner, access.With(tenancy.ReadRoles), func(ctx context.Context, s *tenancy.Scope) (*models.CajaResumen, error) {
		res, err := c.movimientos.Resumen(ctx, s.Tx, s.TenantID, from, to)
		if err != nil {
			return nil, fmt.Errorf("resumen: %w", err)
		}
		return res, nil
	})
}

// AttachComprobante stores file as the receipt of movement id, replacing any
// previous one.
func (c *CajaService) AttachComprobante(ctx context.Context, access tenancy.Access, id int64, file Upload) (*models.CajaMovimiento, error) {
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(file.ContentType, ";")[0]))
	ext, ok := comprobanteExts[contentType]
	if !ok {
		return nil, common.BadInput("El comprobante debe ser PDF, JPEG o PNG.")
	}
	if file.Size <= 0 {
		return nil, common.BadInput("El comprobante esta vacio.")
	}
	if file.Size > MaxComprobanteSize {
		return nil, common.BadInput("El comprobante no puede exceder %d MB.", MaxComprobanteSize>>20)
	}

	var uploaded, previous string
	m, err := tenancy.Run(ctx, c.runner, access.With(tenancy.WriteRoles), func(ctx context.Context, s *tenancy.Scope) (*models.CajaMovimiento, error) {
		m, err := c.load(ctx, s, id)
		if err != nil {
			return nil, err
		}
		if m.IsAnulado() {
			return nil, common.Conflict(msgCajaVoidedEdit)
		}

		key := path.Join("tenants", fmt.Sprint(s.TenantID), "caja", fmt.Sprint(id), uuid.NewString()+ext)
		if err := c.storage.Upload(ctx, key, file.Body, file.Size, contentType); err != nil {
			return nil, fmt.Errorf("upload comprobante: %w", err)
		}
		uploaded = key
		if err := c.movimientos.SetComprobante(ctx, s.Tx, s.TenantID, id, key); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, common.Conflict(msgCajaVoidedEdit)
			}
			return nil, fmt.Errorf("save comprobante: %w", err)
		}
		if m.ComprobanteKey != nil {
			previous = *m.ComprobanteKey
		}

		m.ComprobanteKey = &key
		m.TieneComprobante = true
		c.log.WithFields(logrus.Fields{
			"tenant_id":     s.TenantID,
			"movimiento_id": id,
			"user_id":       s.UserID,
			"size":          file.Size,
		}).Info("comprobante attached")
		return m, nil
	})
	if err != nil {
		if uploaded != "" {
			c.discard(uploaded)
		}
		return nil, err
	}
	if previous != "" {
		c.discard(previous)
	}
	return m, nil
}

// Comprobante returns a time-limited download link for the stored receipt.
func (c *CajaService) Comprobante(ctx context.Context, access tenancy.Access, id int64) (*models.Comprobante, error) {
	return tenancy.Run(ctx, c.runner, access.With(tenancy.ReadRoles), func(ctx context.Context, s *tenancy.Scope) (*models.Comprobante, error) {
		m, err := c.load(ctx, s, id)
		if err != nil {
			return nil, err
		}
		if m.ComprobanteKey == nil {
			return nil, common.NotFound("El movimiento de caja no tiene comprobante.")
		}
		link, err := c.storage.PresignedURL(ctx, *m.ComprobanteKey, c.urlTTL)
		if err != nil {
			return nil, fmt.Errorf("presign comprobante: %w", err)
		}
		return &models.Comprobante{
			MovimientoID: id,
			URL:          link,
			ExpiresAt:    common.Now().UTC().Add(c.urlTTL),
		}, nil
	})
}

func (c *CajaService) load(ctx context.Context, s *tenancy.Scope, id int64) (*models.CajaMovimiento, error) {
	m, err := c.movimientos.GetByID(ctx, s.Tx, s.TenantID, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, common.NotFound(msgCajaNotFound)
	}
	return m, err
}

// discard removes an object that is no longer referenced. Failures only leave
// an orphan behind, so they are logged.
func (c *CajaService) discard(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.storage.Delete(ctx, key); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("failed to remove comprobante object")
	}
}

func buildMovimiento(ctx context.Context, s *tenancy.Scope, refs CajaReferences, in models.CreateCajaMovimientoRequest) (*models.CajaMovimiento, error) {
	m := &models.CajaMovimiento{
		TenantID:      s.TenantID,
		Tipo:          in.Tipo,
		Monto:         in.Monto,
		Categoria:     in.Categoria,
		MedioPago:     in.MedioPago,
		UserID:        s.UserID,
		Descripcion:   common.NullableText(in.Descripcion),
		Observaciones: common.NullableText(in.Observaciones),
		Audit:         models.Audit{CreatedByUser: s.UserID},
	}
	var err error
	if m.Fecha, err = common.ParseDate("fecha", in.Fecha); err != nil {
		return nil, err
	}
	if err := firstError(
		oneOf("tipo", in.Tipo, tiposCaja...),
		checkMonto(in.Monto),
		oneOf("categoria", in.Categoria, models.CajaCategorias...),
		oneOf("medioPago", in.MedioPago, mediosPago...),
	); err != nil {
		return nil, err
	}
	if m.DocReferencia, err = common.NullableTextMax("docReferencia", in.DocReferencia, 100); err != nil {
		return nil, err
	}

	links := []struct {
		field string
		in    *common.ID
		dst   **int64
		check existsFunc
		msg   string
	}{
		{"idPersona", in.IDPersona, &m.PersonaID, refs.Personas.Exists, msgPersonaRef},
		{"idFaena", in.IDFaena, &m.FaenaID, refs.Faenas.Exists, msgFaenaRef},
		{"idAsamblea", in.IDAsamblea, &m.AsambleaID, refs.Asambleas.Exists, msgAsambleaRef},
		{"idBien", in.IDBien, &m.BienID, refs.Bienes.Exists, msgBienRef},
	}
	for _, l := range links {
		id, err := common.OptionalIDValue(l.field, l.in)
		if err != nil {
			return nil, err
		}
		if id != nil {
			if err := ensureExists(ctx, s.Tx, l.check, s.TenantID, *id, l.msg); err != nil {
				return nil, err
			}
		}
		*l.dst = id
	}
	return m, nil
}

func applyMovimiento(ctx context.Context, s *tenancy.Scope, refs CajaReferences, m *models.CajaMovimiento, in models.UpdateCajaMovimientoRequest) error {
	err := firstError(
		patchDate("fecha", in.Fecha, &m.Fecha),
		patchEnum("tipo", in.Tipo, &m.Tipo, tiposCaja...),
		patchValue("monto", in.Monto, &m.Monto),
		patchEnum("categoria", in.Categoria, &m.Categoria, models.CajaCategorias...),
		patchEnum("medioPago", in.MedioPago, &m.MedioPago, mediosPago...),
		patchNullableText("descripcion", in.Descripcion, 0, &m.Descripcion),
		patchNullableText("docReferencia", in.DocReferencia, 100, &m.DocReferencia),
		patchNullableText("observaciones", in.Observaciones, 0, &m.Observaciones),
	)
	if err != nil {
		return err
	}
	if err := checkMonto(m.Monto); err != nil {
		return err
	}

	if err := firstError(
		patchOptionalReference(ctx, s, "idPersona", in.IDPersona, &m.PersonaID, refs.Personas.Exists, msgPersonaRef),
		patchOptionalReference(ctx, s, "idFaena", in.IDFaena, &m.FaenaID, refs.Faenas.Exists, msgFaenaRef),
		patchOptionalReference(ctx, s, "idAsamblea", in.IDAsamblea, &m.AsambleaID, refs.Asambleas.Exists, msgAsambleaRef),
		patchOptionalReference(ctx, s, "idBien", in.IDBien, &m.BienID, refs.Bienes.Exists, msgBienRef),
	); err != nil {
		return err
	}
	stampUpdate(&m.Audit, s.UserID)
	return nil
}

func checkMonto(monto decimal.Decimal) error {
	if monto.LessThan(montoMinimo) {
		return common.BadInput("monto no puede ser menor que 0.01.")
	}
	return nil
}

// patchOptionalReference is patchReference for nullable links: null clears.
func patchOptionalReference(ctx context.Context, s *tenancy.Scope, field string, o common.Optional[common.ID], dst **int64, check existsFunc, msg string) error {
	if !o.Set {
		return nil
	}
	if o.Null {
		*dst = nil
		return nil
	}
	var id int64
	if err := patchReference(ctx, s, field, o, &id, check, msg); err != nil {
		return err
	}
	*dst = &id
	return nil
}
