package repositories

import (
	"context"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/pkg/database"
)

type PersonaRepository interface {
	Create(ctx context.Context, q database.DBTX, p *models.Persona) (*models.Persona, error)
	GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*models.Persona, error)
	Exists(ctx context.Context, q database.DBTX, tenantID, id int64) (bool, error)
	List(ctx context.Context, q database.DBTX, tenantID int64, filter models.PersonaFilter, page common.PageRequest) ([]models.Persona, int64, error)
	Update(ctx context.Context, q database.DBTX, p *models.Persona) (*models.Persona, error)
	Delete(ctx context.Context, q database.DBTX, tenantID, id int64) error
}

type personaRepo struct{}

func NewPersonaRepo() PersonaRepository {
	return &personaRepo{}
}

const personaColumns = `id_tenant, id_persona, nombres, apellido_paterno, apellido_materno, dni, telefono, referencia_vivienda, tipo_participante, estado, fecha_registro, observaciones`

func scanPersona(row rowScanner) (*models.Persona, error) {
	p := &models.Persona{}
	err := row.Scan(&p.TenantID, &p.ID, &p.Nombres, &p.ApellidoPaterno, &p.ApellidoMaterno, &p.DNI, &p.Telefono,
		&p.ReferenciaVivienda, &p.TipoParticipante, &p.Estado, &p.FechaRegistro, &p.Observaciones)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *personaRepo) Create(ctx context.Context, q database.DBTX, p *models.Persona) (*models.Persona, error) {
	query := `
		INSERT INTO personas (id_tenant, nombres, apellido_paterno, apellido_materno, dni, telefono, referencia_vivienda, tipo_participante, estado, fecha_registro, observaciones)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + personaColumns
	return scanPersona(q.QueryRow(ctx, query, p.TenantID, p.Nombres, p.ApellidoPaterno, p.ApellidoMaterno, p.DNI, p.Telefono,
		p.ReferenciaVivienda, p.TipoParticipante, p.Estado, p.FechaRegistro, p.Observaciones))
}

func (r *personaRepo) GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*models.Persona, error) {
	query := `SELECT ` + personaColumns + ` FROM personas WHERE id_tenant = $1 AND id_persona = $2`
	return scanPersona(q.QueryRow(ctx, query, tenantID, id))
}

func (r *personaRepo) Exists(ctx context.Context, q database.DBTX, tenantID, id int64) (bool, error) {
	return exists(ctx, q, `SELECT 1 FROM personas WHERE id_tenant = $1 AND id_persona = $2`, tenantID, id)
}

func (r *personaRepo) List(ctx context.Context, q database.DBTX, tenantID int64, filter models.PersonaFilter, page common.PageRequest) ([]models.Persona, int64, error) {
	f := newFilter("id_tenant = ?", tenantID)
	f.eqString("dni", filter.DNI)
	f.eqString("estado", filter.Estado)
	f.eqString("tipo_participante", filter.TipoParticipante)
	f.search(filter.Search, "nombres", "apellido_paterno", "apellido_materno")

	return listPage(ctx, q, `SELECT `+personaColumns, `FROM personas`, f, "id_persona DESC", page, scanPersona)
}

func (r *personaRepo) Update(ctx context.Context, q database.DBTX, p *models.Persona) (*models.Persona, error) {
	query := `
		UPDATE personas
		SET nombres = $3, apellido_paterno = $4, apellido_materno = $5, dni = $6, telefono = $7, referencia_vivienda = $8,
			tipo_participante = $9, estado = $10, fecha_registro = $11, observaciones = $12
		WHERE id_tenant = $1 AND id_persona = $2
		RETURNING ` + personaColumns
	return scanPersona(q.QueryRow(ctx, query, p.TenantID, p.ID, p.Nombres, p.ApellidoPaterno, p.ApellidoMaterno, p.DNI, p.Telefono,
		p.ReferenciaVivienda, p.TipoParticipante, p.Estado, p.FechaRegistro, p.Observaciones))
}

func (r *personaRepo) Delete(ctx context.Context, q database.DBTX, tenantID, id int64) error {
	tag, err := q.Exec(ctx, `DELETE FROM personas WHERE id_tenant = $1 AND id_persona = $2`, tenantID, id)
	if err != nil {
		return err
	}
	return affectedOne(tag.RowsAffected())
}
