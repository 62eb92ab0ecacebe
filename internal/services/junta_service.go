package services

import (
	"context"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/internal/repositories"
	"juntacomunal/internal/tenancy"
	"juntacomunal/pkg/database"
)

type JuntaDirectivaService = Lifecycle[models.JuntaDirectiva, models.CreateJuntaDirectivaRequest, models.UpdateJuntaDirectivaRequest, models.JuntaDirectivaFilter]

type JuntaMiembroService = Lifecycle[models.JuntaMiembro, models.CreateJuntaMiembroRequest, models.UpdateJuntaMiembroRequest, models.JuntaMiembroFilter]

const (
	msgJuntaVigente = "Ya existe una junta directiva vigente en este tenant."
	msgJuntaRef     = "La junta directiva indicada no existe en el tenant activo."
	// partial unique index on juntas_directivas (id_tenant) WHERE estado = 'VIGENTE'
	juntaVigenteIndex = "juntas_directivas_single_vigente"
)

var (
	estadosJunta = []string{models.JuntaVigente, models.JuntaCesada}
	cargosJunta  = []string{"PRESIDENTE", "VICEPRESIDENTE", "SECRETARIO", "TESORERO", "VOCAL", "OTRO"}
)

// NewJuntaDirectivaService keeps at most one VIGENTE board per tenant. The
// pre-check gives the friendly error; the partial unique index enforces it.
func NewJuntaDirectivaService(runner tenancy.Runner, juntas repositories.JuntaDirectivaRepository) *JuntaDirectivaService {
	ensureSingleVigente := func(ctx context.Context, q database.DBTX, j *models.JuntaDirectiva) error {
		if j.Estado != models.JuntaVigente {
			return nil
		}
		taken, err := juntas.HasOtherVigente(ctx, q, j.TenantID, j.ID)
		if err != nil {
			return err
		}
		if taken {
			return common.Conflict(msgJuntaVigente)
		}
		return nil
	}

	return NewLifecycle(runner, juntas, Strategy[models.JuntaDirectiva, models.CreateJuntaDirectivaRequest, models.UpdateJuntaDirectivaRequest, models.JuntaDirectivaFilter]{
		Messages: Messages{
			NotFound: "No se encontro la junta directiva solicitada.",
			InUse:    "No se puede eliminar la junta directiva porque tiene relaciones asociadas.",
		},
		Unique: func(constraint string) error {
			if constraint == juntaVigenteIndex {
				return common.Conflict(msgJuntaVigente)
			}
			return nil
		},
		Build: func(ctx context.Context, s *tenancy.Scope, in models.CreateJuntaDirectivaRequest) (*models.JuntaDirectiva, error) {
			j := &models.JuntaDirectiva{TenantID: s.TenantID, Observaciones: common.NullableText(in.Observaciones)}
			var err error
			if j.Nombre, err = common.RequiredText("nombre", in.Nombre, 100); err != nil {
				return nil, err
			}
			if j.FechaInicio, err = common.ParseDate("fechaInicio", in.FechaInicio); err != nil {
				return nil, err
			}
			if j.FechaFin, err = common.ParseOptionalDate("fechaFin", in.FechaFin); err != nil {
				return nil, err
			}
			if err := dateOrder("fechaInicio", j.FechaInicio, "fechaFin", j.FechaFin); err != nil {
				return nil, err
			}
			if j.Estado, err = enumOr("estado", in.Estado, models.JuntaVigente, estadosJunta...); err != nil {
				return nil, err
			}
			if err := ensureSingleVigente(ctx, s.Tx, j); err != nil {
				return nil, err
			}
			return j, nil
		},
		Apply: func(ctx context.Context, s *tenancy.Scope, j *models.JuntaDirectiva, in models.UpdateJuntaDirectivaRequest) error {
			err := firstError(
				patchText("nombre", in.Nombre, 100, &j.Nombre),
				patchDate("fechaInicio", in.FechaInicio, &j.FechaInicio),
				patchNullableDate("fechaFin", in.FechaFin, &j.FechaFin),
				patchEnum("estado", in.Estado, &j.Estado, estadosJunta...),
				patchNullableText("observaciones", in.Observaciones, 0, &j.Observaciones),
			)
			if err != nil {
				return err
			}
			if err := dateOrder("fechaInicio", j.FechaInicio, "fechaFin", j.FechaFin); err != nil {
				return err
			}
			return ensureSingleVigente(ctx, s.Tx, j)
		},
	})
}

func NewJuntaMiembroService(
	runner tenancy.Runner,
	miembros repositories.JuntaMiembroRepository,
	juntas repositories.JuntaDirectivaRepository,
	personas repositories.PersonaRepository,
) *JuntaMiembroService {
	return NewLifecycle(runner, miembros, Strategy[models.JuntaMiembro, models.CreateJuntaMiembroRequest, models.UpdateJuntaMiembroRequest, models.JuntaMiembroFilter]{
		Messages: Messages{
			NotFound: "No se encontro el miembro de junta solicitado.",
			InUse:    "No se puede eliminar el miembro de junta porque tiene relaciones asociadas.",
		},
		Build: func(ctx context.Context, s *tenancy.Scope, in models.CreateJuntaMiembroRequest) (*models.JuntaMiembro, error) {
			m := &models.JuntaMiembro{TenantID: s.TenantID, Cargo: in.Cargo}
			var err error
			if m.JuntaID, err = common.RequireID("idJunta", in.IDJunta); err != nil {
				return nil, err
			}
			if m.PersonaID, err = common.RequireID("idPersona", in.IDPersona); err != nil {
				return nil, err
			}
			if err := oneOf("cargo", in.Cargo, cargosJunta...); err != nil {
				return nil, err
			}
			if m.FechaInicio, err = common.ParseDate("fechaInicio", in.FechaInicio); err != nil {
				return nil, err
			}
			if m.FechaFin, err = common.ParseOptionalDate("fechaFin", in.FechaFin); err != nil {
				return nil, err
			}
			if err := dateOrder("fechaInicio", m.FechaInicio, "fechaFin", m.FechaFin); err != nil {
				return nil, err
			}
			if err := ensureExists(ctx, s.Tx, juntas.Exists, s.TenantID, m.JuntaID, msgJuntaRef); err != nil {
				return nil, err
			}
			if err := ensureExists(ctx, s.Tx, personas.Exists, s.TenantID, m.PersonaID, msgPersonaRef); err != nil {
				return nil, err
			}
			return m, nil
		},
		Apply: func(ctx context.Context, s *tenancy.Scope, m *models.JuntaMiembro, in models.UpdateJuntaMiembroRequest) error {
			if err := patchReference(ctx, s, "idJunta", in.IDJunta, &m.JuntaID, juntas.Exists, msgJuntaRef); err != nil {
				return err
			}
			if err := patchReference(ctx, s, "idPersona", in.IDPersona, &m.PersonaID, personas.Exists, msgPersonaRef); err != nil {
				return err
			}
			err := firstError(
				patchEnum("cargo", in.Cargo, &m.Cargo, cargosJunta...),
				patchDate("fechaInicio", in.FechaInicio, &m.FechaInicio),
				patchNullableDate("fechaFin", in.FechaFin, &m.FechaFin),
			)
			if err != nil {
				return err
			}
			return dateOrder("fechaInicio", m.FechaInicio, "fechaFin", m.FechaFin)
		},
	})
}

// patchReference replaces a required reference after checking it exists.
func patchReference(ctx context.Context, s *tenancy.Scope, field string, o common.Optional[common.ID], dst *int64, check existsFunc, msg string) error {
	if !o.Set {
		return nil
	}
	if o.Null {
		return required(field)
	}
	id, err := common.RequireID(field, o.Value)
	if err != nil {
		return err
	}
	if err := ensureExists(ctx, s.Tx, check, s.TenantID, id, msg); err != nil {
		return err
	}
	*dst = id
	return nil
}
