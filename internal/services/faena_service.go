package services

import (
	"context"

	"github.com/shopspring/decimal"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/internal/repositories"
	"juntacomunal/internal/tenancy"
)

type FaenaService = Lifecycle[models.Faena, models.CreateFaenaRequest, models.UpdateFaenaRequest, models.FaenaFilter]

type ParticipacionService = Lifecycle[models.Participacion, models.CreateParticipacionRequest, models.UpdateParticipacionRequest, models.ParticipacionFilter]

const (
	msgFaenaRef              = "La faena indicada no existe en el tenant activo."
	msgParticipacionNotFound = "No se encontro la participacion de faena solicitada."
)

func NewFaenaService(runner tenancy.Runner, faenas repositories.FaenaRepository) *FaenaService {
	return NewLifecycle(runner, faenas, Strategy[models.Faena, models.CreateFaenaRequest, models.UpdateFaenaRequest, models.FaenaFilter]{
		Messages: Messages{
			NotFound: "No se encontro la faena solicitada.",
			InUse:    "No se puede eliminar la faena porque tiene relaciones asociadas.",
		},
		Build: func(_ context.Context, s *tenancy.Scope, in models.CreateFaenaRequest) (*models.Faena, error) {
			f := &models.Faena{TenantID: s.TenantID, Observaciones: common.NullableText(in.Observaciones)}
			var err error
			if f.Fecha, err = common.ParseDate("fecha", in.Fecha); err != nil {
				return nil, err
			}
			if f.Descripcion, err = common.RequiredText("descripcion", in.Descripcion, 200); err != nil {
				return nil, err
			}
			if f.Lugar, err = common.NullableTextMax("lugar", in.Lugar, 200); err != nil {
				return nil, err
			}
			return f, nil
		},
		Apply: func(_ context.Context, _ *tenancy.Scope, f *models.Faena, in models.UpdateFaenaRequest) error {
			return firstError(
				patchDate("fecha", in.Fecha, &f.Fecha),
				patchText("descripcion", in.Descripcion, 200, &f.Descripcion),
				patchNullableText("lugar", in.Lugar, 200, &f.Lugar),
				patchNullableText("observaciones", in.Observaciones, 0, &f.Observaciones),
			)
		},
	})
}

// NewParticipacionService records participation in a faena, including the
// fine it generated. Participation is voided, never deleted.
func NewParticipacionService(
	runner tenancy.Runner,
	participaciones repositories.ParticipacionRepository,
	faenas repositories.FaenaRepository,
	personas repositories.PersonaRepository,
) *ParticipacionService {
	return NewLifecycle(runner, participaciones, Strategy[models.Participacion, models.CreateParticipacionRequest, models.UpdateParticipacionRequest, models.ParticipacionFilter]{
		Messages: Messages{
			NotFound:   msgParticipacionNotFound,
			Duplicate:  "La participacion de la persona en la faena ya existe.",
			VoidedEdit: "No se puede editar una participacion anulada.",
		},
		Voided: func(p *models.Participacion) bool { return p.IsAnulado() },
		BeforeList: func(ctx context.Context, s *tenancy.Scope, f models.ParticipacionFilter) error {
			return ensureExists(ctx, s.Tx, faenas.Exists, s.TenantID, f.FaenaID, msgFaenaRef)
		},
		Build: func(ctx context.Context, s *tenancy.Scope, in models.CreateParticipacionRequest) (*models.Participacion, error) {
			personaID, err := common.RequireID("idPersona", in.IDPersona)
			if err != nil {
				return nil, err
			}
			p := &models.Participacion{
				TenantID:      s.TenantID,
				FaenaID:       in.FaenaID,
				PersonaID:     personaID,
				Observaciones: common.NullableText(in.Observaciones),
				Audit:         models.Audit{CreatedByUser: s.UserID},
			}
			if p.Estado, err = enumOr("estado", in.Estado, models.AsistenciaPendiente, estadosAsistencia...); err != nil {
				return nil, err
			}
			if p.HoraLlegada, err = common.ParseOptionalTimeOfDay("horaLlegada", in.HoraLlegada); err != nil {
				return nil, err
			}
			if in.CantPersonasExtra != nil {
				p.CantPersonasExtra = *in.CantPersonasExtra
			}
			if err := checkPersonasExtra(p.CantPersonasExtra); err != nil {
				return nil, err
			}
			if p.MultaGenerada, p.MontoMulta, err = ResolveFine(in.MultaGenerada, in.MontoMulta, false, decimal.NullDecimal{}); err != nil {
				return nil, err
			}
			if err := ensureExists(ctx, s.Tx, faenas.Exists, s.TenantID, in.FaenaID, msgFaenaRef); err != nil {
				return nil, err
			}
			if err := ensureExists(ctx, s.Tx, personas.Exists, s.TenantID, personaID, msgPersonaRef); err != nil {
				return nil, err
			}
			return p, nil
		},
		Apply: func(_ context.Context, s *tenancy.Scope, p *models.Participacion, in models.UpdateParticipacionRequest) error {
			if in.IDPersona.Set {
				return common.BadInput(msgPersonaImmutable)
			}
			err := firstError(
				patchEnum("estado", in.Estado, &p.Estado, estadosAsistencia...),
				patchTimeOfDay("horaLlegada", in.HoraLlegada, &p.HoraLlegada),
				patchValue("cantPersonasExtra", in.CantPersonasExtra, &p.CantPersonasExtra),
				patchNullableText("observaciones", in.Observaciones, 0, &p.Observaciones),
			)
			if err != nil {
				return err
			}
			if err := checkPersonasExtra(p.CantPersonasExtra); err != nil {
				return err
			}
			if p.MultaGenerada, p.MontoMulta, err = ResolveFine(in.MultaGenerada, in.MontoMulta, p.MultaGenerada, p.MontoMulta); err != nil {
				return err
			}
			stampUpdate(&p.Audit, s.UserID)
			return nil
		},
	})
}

func NewParticipacionVoider(runner tenancy.Runner, participaciones repositories.ParticipacionRepository) *Voider[models.Participacion] {
	return NewVoider[models.Participacion](runner, participaciones, VoidMessages{
		NotFound:      msgParticipacionNotFound,
		AlreadyVoided: "La participacion de faena ya se encuentra anulada.",
	})
}

func checkPersonasExtra(n int) error {
	if n < 0 || n > 20 {
		return common.BadInput("cantPersonasExtra debe estar entre 0 y 20.")
	}
	return nil
}

// ResolveFine merges the fine flag and amount of a participation patch with
// the stored values:
//   - neither field sent: unchanged
//   - amount without flag: rejected
//   - flag false: amount cleared, and an explicit non-null amount is rejected
//   - flag true: an amount must result (sent or stored) and be >= 0
func ResolveFine(
	flag common.Optional[bool],
	amount common.Optional[decimal.Decimal],
	currentFlag bool,
	currentAmount decimal.NullDecimal,
) (bool, decimal.NullDecimal, error) {
	if !flag.Set && !amount.Set {
		return currentFlag, currentAmount, nil
	}
	if !flag.Set {
		return false, decimal.NullDecimal{}, common.BadInput("multaGenerada es obligatoria cuando se envia montoMulta.")
	}
	if flag.Null {
		return false, decimal.NullDecimal{}, required("multaGenerada")
	}

	if !flag.Value {
		if amount.Present() {
			return false, decimal.NullDecimal{}, common.BadInput("montoMulta debe ser null cuando multaGenerada es false.")
		}
		return false, decimal.NullDecimal{}, nil
	}

	resulting := currentAmount
	if amount.Set {
		resulting = nullDecimal(amount.Ptr())
	}
	if !resulting.Valid {
		return false, decimal.NullDecimal{}, common.BadInput("montoMulta es obligatorio cuando multaGenerada es true.")
	}
	if resulting.Decimal.IsNegative() {
		return false, decimal.NullDecimal{}, common.BadInput("montoMulta no puede ser menor que 0.")
	}
	return true, resulting, nil
}
