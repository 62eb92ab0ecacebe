package services

import (
	"context"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/internal/repositories"
	"juntacomunal/internal/tenancy"
)

type AsambleaService = Lifecycle[models.Asamblea, models.CreateAsambleaRequest, models.UpdateAsambleaRequest, models.AsambleaFilter]

type AsistenciaService = Lifecycle[models.Asistencia, models.CreateAsistenciaRequest, models.UpdateAsistenciaRequest, models.AsistenciaFilter]

const (
	msgAsambleaRef        = "La asamblea indicada no existe en el tenant activo."
	msgAsistenciaNotFound = "No se encontro la asistencia de asamblea solicitada."
	msgPersonaImmutable   = "idPersona no se puede editar en este endpoint."
)

var (
	tiposAsamblea     = []string{"ORDINARIA", "EXTRAORDINARIA"}
	estadosAsistencia = []string{models.AsistenciaPendiente, "ASISTIO", "TARDE", "FALTO", "JUSTIFICADO"}
)

func NewAsambleaService(runner tenancy.Runner, asambleas repositories.AsambleaRepository) *AsambleaService {
	return NewLifecycle(runner, asambleas, Strategy[models.Asamblea, models.CreateAsambleaRequest, models.UpdateAsambleaRequest, models.AsambleaFilter]{
		Messages: Messages{
			NotFound: "No se encontro la asamblea solicitada.",
			InUse:    "No se puede eliminar la asamblea porque tiene relaciones asociadas.",
		},
		Build: func(_ context.Context, s *tenancy.Scope, in models.CreateAsambleaRequest) (*models.Asamblea, error) {
			a := &models.Asamblea{TenantID: s.TenantID, QuorumRequerido: in.QuorumRequerido}
			var err error
			if a.Fecha, err = common.ParseTimestamp("fecha", in.Fecha); err != nil {
				return nil, err
			}
			if err = oneOf("tipo", in.Tipo, tiposAsamblea...); err != nil {
				return nil, err
			}
			a.Tipo = in.Tipo
			if a.TemaPrincipal, err = common.RequiredText("temaPrincipal", in.TemaPrincipal, 200); err != nil {
				return nil, err
			}
			if a.Lugar, err = common.NullableTextMax("lugar", in.Lugar, 200); err != nil {
				return nil, err
			}
			if in.QuorumRequerido != nil && *in.QuorumRequerido < 0 {
				return nil, common.BadInput("quorumRequerido no puede ser menor que 0.")
			}
			a.Observaciones = common.NullableText(in.Observaciones)
			return a, nil
		},
		Apply: func(_ context.Context, _ *tenancy.Scope, a *models.Asamblea, in models.UpdateAsambleaRequest) error {
			if in.Fecha.Set {
				if in.Fecha.Null {
					return required("fecha")
				}
				fecha, err := common.ParseTimestamp("fecha", in.Fecha.Value)
				if err != nil {
					return err
				}
				a.Fecha = fecha
			}
			if in.QuorumRequerido.Present() && in.QuorumRequerido.Value < 0 {
				return common.BadInput("quorumRequerido no puede ser menor que 0.")
			}
			a.QuorumRequerido = in.QuorumRequerido.Merge(a.QuorumRequerido)
			return firstError(
				patchEnum("tipo", in.Tipo, &a.Tipo, tiposAsamblea...),
				patchText("temaPrincipal", in.TemaPrincipal, 200, &a.TemaPrincipal),
				patchNullableText("lugar", in.Lugar, 200, &a.Lugar),
				patchNullableText("observaciones", in.Observaciones, 0, &a.Observaciones),
			)
		},
	})
}

// NewAsistenciaService records attendance to an asamblea. Attendance is never
// deleted; it is voided through NewAsistenciaVoider.
func NewAsistenciaService(
	runner tenancy.Runner,
	asistencias repositories.AsistenciaRepository,
	asambleas repositories.AsambleaRepository,
	personas repositories.PersonaRepository,
) *AsistenciaService {
	return NewLifecycle(runner, asistencias, Strategy[models.Asistencia, models.CreateAsistenciaRequest, models.UpdateAsistenciaRequest, models.AsistenciaFilter]{
		Messages: Messages{
			NotFound:   msgAsistenciaNotFound,
			Duplicate:  "La asistencia de la persona en la asamblea ya existe.",
			VoidedEdit: "No se puede editar una asistencia anulada.",
		},
		Voided: func(a *models.Asistencia) bool { return a.IsAnulado() },
		BeforeList: func(ctx context.Context, s *tenancy.Scope, f models.AsistenciaFilter) error {
			return ensureExists(ctx, s.Tx, asambleas.Exists, s.TenantID, f.AsambleaID, msgAsambleaRef)
		},
		Build: func(ctx context.Context, s *tenancy.Scope, in models.CreateAsistenciaRequest) (*models.Asistencia, error) {
			personaID, err := common.RequireID("idPersona", in.IDPersona)
			if err != nil {
				return nil, err
			}
			if in.EsPadronadoEnMomento == nil {
				return nil, required("esPadronadoEnMomento")
			}
			a := &models.Asistencia{
				TenantID:             s.TenantID,
				AsambleaID:           in.AsambleaID,
				PersonaID:            personaID,
				EsPadronadoEnMomento: *in.EsPadronadoEnMomento,
				Observaciones:        common.NullableText(in.Observaciones),
				Audit:                models.Audit{CreatedByUser: s.UserID},
			}
			if a.Estado, err = enumOr("estado", in.Estado, models.AsistenciaPendiente, estadosAsistencia...); err != nil {
				return nil, err
			}
			if a.HoraLlegada, err = common.ParseOptionalTimeOfDay("horaLlegada", in.HoraLlegada); err != nil {
				return nil, err
			}
			if err := ensureExists(ctx, s.Tx, asambleas.Exists, s.TenantID, in.AsambleaID, msgAsambleaRef); err != nil {
				return nil, err
			}
			if err := ensureExists(ctx, s.Tx, personas.Exists, s.TenantID, personaID, msgPersonaRef); err != nil {
				return nil, err
			}
			return a, nil
		},
		Apply: func(_ context.Context, s *tenancy.Scope, a *models.Asistencia, in models.UpdateAsistenciaRequest) error {
			if in.IDPersona.Set {
				return common.BadInput(msgPersonaImmutable)
			}
			err := firstError(
				patchEnum("estado", in.Estado, &a.Estado, estadosAsistencia...),
				patchTimeOfDay("horaLlegada", in.HoraLlegada, &a.HoraLlegada),
				patchValue("esPadronadoEnMomento", in.EsPadronadoEnMomento, &a.EsPadronadoEnMomento),
				patchNullableText("observaciones", in.Observaciones, 0, &a.Observaciones),
			)
			if err != nil {
				return err
			}
			stampUpdate(&a.Audit, s.UserID)
			return nil
		},
	})
}

func NewAsistenciaVoider(runner tenancy.Runner, asistencias repositories.AsistenciaRepository) *Voider[models.Asistencia] {
	return NewVoider[models.Asistencia](runner, asistencias, VoidMessages{
		NotFound:      msgAsistenciaNotFound,
		AlreadyVoided: "La asistencia de asamblea ya se encuentra anulada.",
	})
}

func stampUpdate(a *models.Audit, userID int64) {
	now := common.Now().UTC()
	a.UpdatedAt = &now
	a.UpdatedByUser = &userID
}
