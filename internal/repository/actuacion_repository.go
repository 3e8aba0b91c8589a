package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/justicia-digital/procesos-api/internal/models"
)

// ActuacionRepository reads the summons, hearing and verdict records owned
// by other subsystems. Transition preconditions consult it; nothing here is
// ever written by this service.
type ActuacionRepository struct {
	db *sqlx.DB
}

// NewActuacionRepository constructs the read-only repository.
func NewActuacionRepository(db *sqlx.DB) *ActuacionRepository {
	return &ActuacionRepository{db: db}
}

// CountCitacionesExitosas counts the successful summons attempts of a case.
func (r *ActuacionRepository) CountCitacionesExitosas(ctx context.Context, procesoID string) (int, error) {
	const query = `SELECT COUNT(*) FROM citaciones WHERE proceso_id = $1 AND exitosa = TRUE`
	var count int
	if err := r.db.GetContext(ctx, &count, query, procesoID); err != nil {
		return 0, fmt.Errorf("count citaciones exitosas: %w", err)
	}
	return count, nil
}

// CountAudienciasFinalizadas counts the hearings of a case marked finished.
func (r *ActuacionRepository) CountAudienciasFinalizadas(ctx context.Context, procesoID string) (int, error) {
	const query = `SELECT COUNT(*) FROM audiencias WHERE proceso_id = $1 AND estado = $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, procesoID, models.AudienciaFinalizada); err != nil {
		return 0, fmt.Errorf("count audiencias finalizadas: %w", err)
	}
	return count, nil
}

// ExisteSentencia reports whether a verdict has been recorded for the case.
func (r *ActuacionRepository) ExisteSentencia(ctx context.Context, procesoID string) (bool, error) {
	const query = `SELECT 1 FROM sentencias WHERE proceso_id = $1 LIMIT 1`
	var one int
	if err := r.db.GetContext(ctx, &one, query, procesoID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check sentencia: %w", err)
	}
	return true, nil
}
