package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/justicia-digital/procesos-api/internal/models"
)

// ParteRepository persists the parties intervening in a case.
type ParteRepository struct {
	db *sqlx.DB
}

// NewParteRepository constructs a party repository.
func NewParteRepository(db *sqlx.DB) *ParteRepository {
	return &ParteRepository{db: db}
}

// Create registers a party on a case.
func (r *ParteRepository) Create(ctx context.Context, parte *models.Parte) error {
	if parte.ID == "" {
		parte.ID = uuid.NewString()
	}
	if parte.CreatedAt.IsZero() {
		parte.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO partes (id, proceso_id, tipo, nombre_completo, documento, ciudadano_id, abogado_id, created_at)
VALUES (:id, :proceso_id, :tipo, :nombre_completo, :documento, :ciudadano_id, :abogado_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, parte); err != nil {
		return fmt.Errorf("create parte: %w", err)
	}
	return nil
}

// ListByProceso returns the registered parties of a case.
func (r *ParteRepository) ListByProceso(ctx context.Context, procesoID string) ([]models.Parte, error) {
	const query = `SELECT id, proceso_id, tipo, nombre_completo, documento, ciudadano_id, abogado_id, created_at
FROM partes WHERE proceso_id = $1 ORDER BY created_at ASC`
	var partes []models.Parte
	if err := r.db.SelectContext(ctx, &partes, query, procesoID); err != nil {
		return nil, fmt.Errorf("list partes: %w", err)
	}
	return partes, nil
}
