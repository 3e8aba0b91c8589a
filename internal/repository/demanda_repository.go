package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/justicia-digital/procesos-api/internal/models"
)

// DemandaRepository persists pleadings.
type DemandaRepository struct {
	db *sqlx.DB
}

// NewDemandaRepository constructs a pleading repository.
func NewDemandaRepository(db *sqlx.DB) *DemandaRepository {
	return &DemandaRepository{db: db}
}

const demandaColumns = `id, proceso_id, juez_designado, demandante_nombre, demandante_edad, demandante_estado_civil, demandante_ocupacion,
demandante_domicilio, demandante_domicilio_procesal, demandado_nombre, demandado_domicilio, objeto_demanda, relacion_hechos,
fundamento_legal, petitorio, cuantia, ofrecimiento_prueba, abogado_nombre, abogado_matricula, anexos, presentada_por, presentada_en, created_at, updated_at`

// Create stores a draft pleading.
func (r *DemandaRepository) Create(ctx context.Context, demanda *models.Demanda) error {
	if demanda.ID == "" {
		demanda.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if demanda.CreatedAt.IsZero() {
		demanda.CreatedAt = now
	}
	demanda.UpdatedAt = now
	const query = `INSERT INTO demandas (id, proceso_id, juez_designado, demandante_nombre, demandante_edad, demandante_estado_civil, demandante_ocupacion,
demandante_domicilio, demandante_domicilio_procesal, demandado_nombre, demandado_domicilio, objeto_demanda, relacion_hechos,
fundamento_legal, petitorio, cuantia, ofrecimiento_prueba, abogado_nombre, abogado_matricula, anexos, presentada_por, presentada_en, created_at, updated_at)
VALUES (:id, :proceso_id, :juez_designado, :demandante_nombre, :demandante_edad, :demandante_estado_civil, :demandante_ocupacion,
:demandante_domicilio, :demandante_domicilio_procesal, :demandado_nombre, :demandado_domicilio, :objeto_demanda, :relacion_hechos,
:fundamento_legal, :petitorio, :cuantia, :ofrecimiento_prueba, :abogado_nombre, :abogado_matricula, :anexos, :presentada_por, :presentada_en, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, demanda); err != nil {
		return fmt.Errorf("create demanda: %w", err)
	}
	return nil
}

// Update rewrites the draft pleading fields.
func (r *DemandaRepository) Update(ctx context.Context, demanda *models.Demanda) error {
	demanda.UpdatedAt = time.Now().UTC()
	const query = `UPDATE demandas SET juez_designado = :juez_designado, demandante_nombre = :demandante_nombre, demandante_edad = :demandante_edad,
demandante_estado_civil = :demandante_estado_civil, demandante_ocupacion = :demandante_ocupacion, demandante_domicilio = :demandante_domicilio,
demandante_domicilio_procesal = :demandante_domicilio_procesal, demandado_nombre = :demandado_nombre, demandado_domicilio = :demandado_domicilio,
objeto_demanda = :objeto_demanda, relacion_hechos = :relacion_hechos, fundamento_legal = :fundamento_legal, petitorio = :petitorio,
cuantia = :cuantia, ofrecimiento_prueba = :ofrecimiento_prueba, abogado_nombre = :abogado_nombre, abogado_matricula = :abogado_matricula,
anexos = :anexos, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, demanda); err != nil {
		return fmt.Errorf("update demanda: %w", err)
	}
	return nil
}

// GetByProceso fetches the pleading attached to a case.
func (r *DemandaRepository) GetByProceso(ctx context.Context, procesoID string) (*models.Demanda, error) {
	query := fmt.Sprintf(`SELECT %s FROM demandas WHERE proceso_id = $1`, demandaColumns)
	var demanda models.Demanda
	if err := r.db.GetContext(ctx, &demanda, query, procesoID); err != nil {
		return nil, err
	}
	return &demanda, nil
}

// MarcarPresentada stamps the filing timestamp once the pleading passes
// validation and enters the workflow.
func (r *DemandaRepository) MarcarPresentada(ctx context.Context, id string, ts time.Time) error {
	const query = `UPDATE demandas SET presentada_en = $2, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, ts); err != nil {
		return fmt.Errorf("marcar demanda presentada: %w", err)
	}
	return nil
}

// RevertirPresentacion clears the filing stamp. Compensates a stamped
// pleading whose BORRADOR transition did not commit.
func (r *DemandaRepository) RevertirPresentacion(ctx context.Context, id string) error {
	const query = `UPDATE demandas SET presentada_en = NULL, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("revertir presentacion: %w", err)
	}
	return nil
}
