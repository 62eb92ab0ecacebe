package services

import (
	"context"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/internal/repositories"
	"juntacomunal/internal/tenancy"
)

type BienService = Lifecycle[models.Bien, models.CreateBienRequest, models.UpdateBienRequest, models.BienFilter]

var estadosBien = []string{models.BienBueno, "REGULAR", "MALO", models.BienDadoDeBaja}

// NewBienService manages the inventory of assets. Removing a bien gives it
// de baja, keeping an existing fechaBaja or setting today.
func NewBienService(runner tenancy.Runner, bienes repositories.BienRepository) *BienService {
	return NewLifecycle(runner, bienes, Strategy[models.Bien, models.CreateBienRequest, models.UpdateBienRequest, models.BienFilter]{
		Messages: Messages{
			NotFound: "No se encontro el bien solicitado.",
		},
		Build: buildBien,
		Apply: applyBien,
		Retire: func(_ context.Context, _ *tenancy.Scope, b *models.Bien) error {
			b.Estado = models.BienDadoDeBaja
			if b.FechaBaja == nil {
				today := common.Today()
				b.FechaBaja = &today
			}
			return nil
		},
	})
}

func buildBien(_ context.Context, s *tenancy.Scope, in models.CreateBienRequest) (*models.Bien, error) {
	b := &models.Bien{TenantID: s.TenantID, Cantidad: in.Cantidad}
	var err error

	if b.Descripcion, err = common.RequiredText("descripcion", in.Descripcion, 200); err != nil {
		return nil, err
	}
	if b.Tipo, err = common.NullableTextMax("tipo", in.Tipo, 50); err != nil {
		return nil, err
	}
	if in.Cantidad < 1 {
		return nil, common.BadInput("cantidad no puede ser menor que 1.")
	}
	if b.Ubicacion, err = common.NullableTextMax("ubicacion", in.Ubicacion, 200); err != nil {
		return nil, err
	}
	if b.FechaAlta, err = common.ParseDate("fechaAlta", in.FechaAlta); err != nil {
		return nil, err
	}
	if b.FechaBaja, err = common.ParseOptionalDate("fechaBaja", in.FechaBaja); err != nil {
		return nil, err
	}
	if err := dateOrder("fechaAlta", b.FechaAlta, "fechaBaja", b.FechaBaja); err != nil {
		return nil, err
	}
	if b.Estado, err = enumOr("estado", in.Estado, models.BienBueno, estadosBien...); err != nil {
		return nil, err
	}
	b.ValorEstimado = nullDecimal(in.ValorEstimado)
	b.Observaciones = common.NullableText(in.Observaciones)
	return b, nil
}

func applyBien(_ context.Context, _ *tenancy.Scope, b *models.Bien, in models.UpdateBienRequest) error {
	err := firstError(
		patchText("descripcion", in.Descripcion, 200, &b.Descripcion),
		patchNullableText("tipo", in.Tipo, 50, &b.Tipo),
		patchValue("cantidad", in.Cantidad, &b.Cantidad),
		patchNullableText("ubicacion", in.Ubicacion, 200, &b.Ubicacion),
		patchDate("fechaAlta", in.FechaAlta, &b.FechaAlta),
		patchNullableDate("fechaBaja", in.FechaBaja, &b.FechaBaja),
		patchEnum("estado", in.Estado, &b.Estado, estadosBien...),
		patchNullableText("observaciones", in.Observaciones, 0, &b.Observaciones),
	)
	if err != nil {
		return err
	}
	if b.Cantidad < 1 {
		return common.BadInput("cantidad no puede ser menor que 1.")
	}
	patchNullableDecimal(in.ValorEstimado, &b.ValorEstimado)
	return dateOrder("fechaAlta", b.FechaAlta, "fechaBaja", b.FechaBaja)
}
