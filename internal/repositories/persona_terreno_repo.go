package repositories

import (
	"context"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/pkg/database"
)

type PersonaTerrenoRepository interface {
	Create(ctx context.Context, q database.DBTX, pt *models.PersonaTerreno) (*models.PersonaTerreno, error)
	GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*models.PersonaTerreno, error)
	List(ctx context.Context, q database.DBTX, tenantID int64, filter models.PersonaTerrenoFilter, page common.PageRequest) ([]models.PersonaTerreno, int64, error)
	Update(ctx context.Context, q database.DBTX, pt *models.PersonaTerreno) (*models.PersonaTerreno, error)
	Delete(ctx context.Context, q database.DBTX, tenantID, id int64) error
}

type personaTerrenoRepo struct{}

func NewPersonaTerrenoRepo() PersonaTerrenoRepository {
	return &personaTerrenoRepo{}
}

const personaTerrenoColumns = `id_tenant, id_persona_terreno, id_persona, id_terreno, tipo_relacion, porcentaje_participacion`

func scanPersonaTerreno(row rowScanner) (*models.PersonaTerreno, error) {
	pt := &models.PersonaTerreno{}
	if err := row.Scan(&pt.TenantID, &pt.ID, &pt.PersonaID, &pt.TerrenoID, &pt.TipoRelacion, &pt.PorcentajeParticipacion); err != nil {
		return nil, notFound(err)
	}
	return pt, nil
}

func (r *personaTerrenoRepo) Create(ctx context.Context, q database.DBTX, pt *models.PersonaTerreno) (*models.PersonaTerreno, error) {
	query := `
		INSERT INTO persona_terreno (id_tenant, id_persona, id_terreno, tipo_relacion, porcentaje_participacion)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + personaTerrenoColumns
	return scanPersonaTerreno(q.QueryRow(ctx, query, pt.TenantID, pt.PersonaID, pt.TerrenoID, pt.TipoRelacion, pt.PorcentajeParticipacion))
}

func (r *personaTerrenoRepo) GetByID(ctx context.Context, q database.DBTX, tenantID, id int64) (*models.PersonaTerreno, error) {
	query := `SELECT ` + personaTerrenoColumns + ` FROM persona_terreno WHERE id_tenant = $1 AND id_persona_terreno = $2`
	return scanPersonaTerreno(q.QueryRow(ctx, query, tenantID, id))
}

func (r *personaTerrenoRepo) List(ctx context.Context, q database.DBTX, tenantID int64, filter models.PersonaTerrenoFilter, page common.PageRequest) ([]models.PersonaTerreno, int64, error) {
	f := newFilter("id_tenant = ?", tenantID)
	f.eqInt64("id_persona", filter.PersonaID)
	f.eqInt64("id_terreno", filter.TerrenoID)
	f.eqString("tipo_relacion", filter.TipoRelacion)
	return listPage(ctx, q, `SELECT `+personaTerrenoColumns, `FROM persona_terreno`, f, "id_persona_terreno DESC", page, scanPersonaTerreno)
}

func (r *personaTerrenoRepo) Update(ctx context.Context, q database.DBTX, pt *models.PersonaTerreno) (*models.PersonaTerreno, error) {
	query := `
		UPDATE persona_terreno
		SET tipo_relacion = $3, porcentaje_participacion = $4
		WHERE id_tenant = $1 AND id_persona_terreno = $2
		RETURNING ` + personaTerrenoColumns
	return scanPersonaTerreno(q.QueryRow(ctx, query, pt.TenantID, pt.ID, pt.TipoRelacion, pt.PorcentajeParticipacion))
}

func (r *personaTerrenoRepo) Delete(ctx context.Context, q database.DBTX, tenantID, id int64) error {
	tag, err := q.Exec(ctx, `DELETE FROM persona_terreno WHERE id_tenant = $1 AND id_persona_terreno = $2`, tenantID, id)
	if err != nil {
		return err
	}
	return affectedOne(tag.RowsAffected())
}
