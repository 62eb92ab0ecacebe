package services

import (
	"context"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/internal/repositories"
	"juntacomunal/internal/tenancy"
)

type TerrenoService = Lifecycle[models.Terreno, models.CreateTerrenoRequest, models.UpdateTerrenoRequest, models.TerrenoFilter]

type PersonaTerrenoService = Lifecycle[models.PersonaTerreno, models.CreatePersonaTerrenoRequest, models.UpdatePersonaTerrenoRequest, models.PersonaTerrenoFilter]

const (
	msgPersonaRef = "La persona indicada no existe en el tenant activo."
	msgTerrenoRef = "El terreno indicado no existe en el tenant activo."
)

var (
	estadosTerreno = []string{models.TerrenoEnUso, "EN_VENTA", "VENDIDO_PARCIAL", "VENDIDO_TOTAL", "RESERVA"}
	tiposRelacion  = []string{"PROPIETARIO", "POSEEDOR", "COPROPIETARIO", "FAMILIAR", "OTRO"}
)

func NewTerrenoService(runner tenancy.Runner, terrenos repositories.TerrenoRepository) *TerrenoService {
	return NewLifecycle(runner, terrenos, Strategy[models.Terreno, models.CreateTerrenoRequest, models.UpdateTerrenoRequest, models.TerrenoFilter]{
		Messages: Messages{
			NotFound: "No se encontro el terreno solicitado.",
			InUse:    "No se puede eliminar el terreno porque tiene relaciones asociadas.",
		},
		Build: func(_ context.Context, s *tenancy.Scope, in models.CreateTerrenoRequest) (*models.Terreno, error) {
			descripcion, err := common.RequiredText("descripcion", in.Descripcion, 200)
			if err != nil {
				return nil, err
			}
			estado, err := enumOr("estado", in.Estado, models.TerrenoEnUso, estadosTerreno...)
			if err != nil {
				return nil, err
			}
			return &models.Terreno{
				TenantID:      s.TenantID,
				Descripcion:   descripcion,
				AreaAproxM2:   nullDecimal(in.AreaAproxM2),
				Estado:        estado,
				Observaciones: common.NullableText(in.Observaciones),
			}, nil
		},
		Apply: func(_ context.Context, _ *tenancy.Scope, t *models.Terreno, in models.UpdateTerrenoRequest) error {
			patchNullableDecimal(in.AreaAproxM2, &t.AreaAproxM2)
			return firstError(
				patchText("descripcion", in.Descripcion, 200, &t.Descripcion),
				patchEnum("estado", in.Estado, &t.Estado, estadosTerreno...),
				patchNullableText("observaciones", in.Observaciones, 0, &t.Observaciones),
			)
		},
	})
}

func NewPersonaTerrenoService(
	runner tenancy.Runner,
	links repositories.PersonaTerrenoRepository,
	personas repositories.PersonaRepository,
	terrenos repositories.TerrenoRepository,
) *PersonaTerrenoService {
	return NewLifecycle(runner, links, Strategy[models.PersonaTerreno, models.CreatePersonaTerrenoRequest, models.UpdatePersonaTerrenoRequest, models.PersonaTerrenoFilter]{
		Messages: Messages{
			NotFound:  "No se encontro la relacion persona-terreno solicitada.",
			Duplicate: "La relacion persona-terreno ya existe en este tenant.",
			InUse:     "No se puede eliminar la relacion persona-terreno porque tiene relaciones asociadas.",
		},
		Build: func(ctx context.Context, s *tenancy.Scope, in models.CreatePersonaTerrenoRequest) (*models.PersonaTerreno, error) {
			personaID, err := common.RequireID("idPersona", in.IDPersona)
			if err != nil {
				return nil, err
			}
			terrenoID, err := common.RequireID("idTerreno", in.IDTerreno)
			if err != nil {
				return nil, err
			}
			if err := oneOf("tipoRelacion", in.TipoRelacion, tiposRelacion...); err != nil {
				return nil, err
			}
			if err := ensureExists(ctx, s.Tx, personas.Exists, s.TenantID, personaID, msgPersonaRef); err != nil {
				return nil, err
			}
			if err := ensureExists(ctx, s.Tx, terrenos.Exists, s.TenantID, terrenoID, msgTerrenoRef); err != nil {
				return nil, err
			}
			return &models.PersonaTerreno{
				TenantID:                s.TenantID,
				PersonaID:               personaID,
				TerrenoID:               terrenoID,
				TipoRelacion:            in.TipoRelacion,
				PorcentajeParticipacion: nullDecimal(in.PorcentajeParticipacion),
			}, nil
		},
		Apply: func(_ context.Context, _ *tenancy.Scope, pt *models.PersonaTerreno, in models.UpdatePersonaTerrenoRequest) error {
			patchNullableDecimal(in.PorcentajeParticipacion, &pt.PorcentajeParticipacion)
			return patchEnum("tipoRelacion", in.TipoRelacion, &pt.TipoRelacion, tiposRelacion...)
		},
	})
}
