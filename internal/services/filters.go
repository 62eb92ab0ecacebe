package services

import "juntacomunal/internal/models"

// Values accepted by the enumerated list filters.
var (
	PersonaEstados    = estadosPersona
	TiposParticipante = tiposParticipante
	TerrenoEstados    = estadosTerreno
	TiposRelacion     = tiposRelacion
	BienEstados       = estadosBien
	TiposAsamblea     = tiposAsamblea
	AsistenciaEstados = estadosAsistencia
	JuntaEstados      = estadosJunta
	CargosJunta       = cargosJunta
	TiposCaja         = tiposCaja
	MediosPago        = mediosPago
	CajaCategorias    = models.CajaCategorias
	ActivacionEstados = estadosActivacion
)

// CheckFilter validates an enumerated list filter; empty means unfiltered.
func CheckFilter(field, value string, allowed []string) error {
	if value == "" {
		return nil
	}
	return oneOf(field, value, allowed...)
}
