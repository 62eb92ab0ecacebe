package services

import (
	"context"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/internal/repositories"
	"juntacomunal/internal/tenancy"
)

type PersonaService = Lifecycle[models.Persona, models.CreatePersonaRequest, models.UpdatePersonaRequest, models.PersonaFilter]

var (
	tiposParticipante = []string{models.ParticipantePadronado, models.ParticipanteNoPadronado, models.ParticipanteInvitado}
	estadosPersona    = []string{models.PersonaActiva, models.PersonaSuspendida, models.PersonaRetirada}
)

// NewPersonaService manages the padron. Removing a persona retires it.
func NewPersonaService(runner tenancy.Runner, personas repositories.PersonaRepository) *PersonaService {
	return NewLifecycle(runner, personas, Strategy[models.Persona, models.CreatePersonaRequest, models.UpdatePersonaRequest, models.PersonaFilter]{
		Messages: Messages{
			NotFound: "No se encontro la persona solicitada.",
		},
		Build: buildPersona,
		Apply: applyPersona,
		Retire: func(_ context.Context, _ *tenancy.Scope, p *models.Persona) error {
			p.Estado = models.PersonaRetirada
			return nil
		},
	})
}

func buildPersona(_ context.Context, s *tenancy.Scope, in models.CreatePersonaRequest) (*models.Persona, error) {
	p := &models.Persona{TenantID: s.TenantID}
	var err error

	if p.Nombres, err = common.RequiredText("nombres", in.Nombres, 100); err != nil {
		return nil, err
	}
	if p.ApellidoPaterno, err = common.RequiredText("apellidoPaterno", in.ApellidoPaterno, 100); err != nil {
		return nil, err
	}
	if p.ApellidoMaterno, err = common.RequiredText("apellidoMaterno", in.ApellidoMaterno, 100); err != nil {
		return nil, err
	}
	if p.DNI, err = common.NullableTextMax("dni", in.DNI, 15); err != nil {
		return nil, err
	}
	if p.Telefono, err = common.NullableTextMax("telefono", in.Telefono, 20); err != nil {
		return nil, err
	}
	if p.ReferenciaVivienda, err = common.NullableTextMax("referenciaVivienda", in.ReferenciaVivienda, 200); err != nil {
		return nil, err
	}
	if p.TipoParticipante, err = enumOr("tipoParticipante", in.TipoParticipante, models.ParticipanteNoPadronado, tiposParticipante...); err != nil {
		return nil, err
	}
	if p.Estado, err = enumOr("estado", in.Estado, models.PersonaActiva, estadosPersona...); err != nil {
		return nil, err
	}

	p.FechaRegistro = common.Today()
	if fecha, err := common.ParseOptionalDate("fechaRegistro", in.FechaRegistro); err != nil {
		return nil, err
	} else if fecha != nil {
		p.FechaRegistro = *fecha
	}
	p.Observaciones = common.NullableText(in.Observaciones)
	return p, nil
}

func applyPersona(_ context.Context, _ *tenancy.Scope, p *models.Persona, in models.UpdatePersonaRequest) error {
	steps := []error{
		patchText("nombres", in.Nombres, 100, &p.Nombres),
		patchText("apellidoPaterno", in.ApellidoPaterno, 100, &p.ApellidoPaterno),
		patchText("apellidoMaterno", in.ApellidoMaterno, 100, &p.ApellidoMaterno),
		patchNullableText("dni", in.DNI, 15, &p.DNI),
		patchNullableText("telefono", in.Telefono, 20, &p.Telefono),
		patchNullableText("referenciaVivienda", in.ReferenciaVivienda, 200, &p.ReferenciaVivienda),
		patchEnum("tipoParticipante", in.TipoParticipante, &p.TipoParticipante, tiposParticipante...),
		patchEnum("estado", in.Estado, &p.Estado, estadosPersona...),
		patchDate("fechaRegistro", in.FechaRegistro, &p.FechaRegistro),
		patchNullableText("observaciones", in.Observaciones, 0, &p.Observaciones),
	}
	return firstError(steps...)
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
