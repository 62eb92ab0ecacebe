package handlers

import (
	"time"

	"github.com/labstack/echo/v4"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/internal/services"
)

func allowed(values []string) func(field, value string) error {
	return func(field, value string) error {
		return services.CheckFilter(field, value, values)
	}
}

func personaFilter(_ echo.Context, q *queryReader) models.PersonaFilter {
	return models.PersonaFilter{
		DNI:              q.text("dni"),
		Estado:           q.enum("estado", allowed(services.PersonaEstados)),
		TipoParticipante: q.enum("tipoParticipante", allowed(services.TiposParticipante)),
		Search:           q.text("search"),
	}
}

func terrenoFilter(_ echo.Context, q *queryReader) models.TerrenoFilter {
	return models.TerrenoFilter{
		Estado: q.enum("estado", allowed(services.TerrenoEstados)),
		Search: q.text("search"),
	}
}

func personaTerrenoFilter(_ echo.Context, q *queryReader) models.PersonaTerrenoFilter {
	return models.PersonaTerrenoFilter{
		PersonaID:    q.id("idPersona"),
		TerrenoID:    q.id("idTerreno"),
		TipoRelacion: q.enum("tipoRelacion", allowed(services.TiposRelacion)),
	}
}

func bienFilter(_ echo.Context, q *queryReader) models.BienFilter {
	return models.BienFilter{
		Estado: q.enum("estado", allowed(services.BienEstados)),
		Tipo:   q.text("tipo"),
		Search: q.text("search"),
	}
}

func asambleaFilter(_ echo.Context, q *queryReader) models.AsambleaFilter {
	from, to := q.dateRange()
	return models.AsambleaFilter{
		Tipo: q.enum("tipo", allowed(services.TiposAsamblea)),
		From: from,
		To:   to,
	}
}

func asistenciaFilter(c echo.Context, q *queryReader) models.AsistenciaFilter {
	return models.AsistenciaFilter{
		AsambleaID: q.param(c, "idAsamblea"),
		PersonaID:  q.id("idPersona"),
		Estado:     q.enum("estado", allowed(services.AsistenciaEstados)),
		Anulado:    q.boolean("anulado"),
	}
}

func faenaFilter(_ echo.Context, q *queryReader) models.FaenaFilter {
	from, to := q.dateRange()
	return models.FaenaFilter{From: from, To: to, Search: q.text("search")}
}

func participacionFilter(c echo.Context, q *queryReader) models.ParticipacionFilter {
	return models.ParticipacionFilter{
		FaenaID:   q.param(c, "idFaena"),
		PersonaID: q.id("idPersona"),
		Estado:    q.enum("estado", allowed(services.AsistenciaEstados)),
		Anulado:   q.boolean("anulado"),
	}
}

func juntaFilter(_ echo.Context, q *queryReader) models.JuntaDirectivaFilter {
	from, to := q.dateRange()
	return models.JuntaDirectivaFilter{
		Estado: q.enum("estado", allowed(services.JuntaEstados)),
		From:   from,
		To:     to,
	}
}

func juntaMiembroFilter(_ echo.Context, q *queryReader) models.JuntaMiembroFilter {
	f := models.JuntaMiembroFilter{
		JuntaID:   q.id("idJunta"),
		PersonaID: q.id("idPersona"),
		Cargo:     q.enum("cargo", allowed(services.CargosJunta)),
	}
	if v := q.boolean("vigentes"); v != nil && *v {
		f.Vigentes = true
		f.Today = common.Now().UTC().Truncate(24 * time.Hour)
	}
	return f
}

func cajaFilter(_ echo.Context, q *queryReader) models.CajaMovimientoFilter {
	from, to := q.dateRange()
	return models.CajaMovimientoFilter{
		From:      from,
		To:        to,
		Tipo:      q.enum("tipo", allowed(services.TiposCaja)),
		Categoria: q.enum("categoria", allowed(services.CajaCategorias)),
		MedioPago: q.enum("medioPago", allowed(services.MediosPago)),
		Anulado:   q.boolean("anulado"),
		PersonaID: q.id("idPersona"),
		UserID:    q.id("idUser"),
	}
}
