package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/justicia-digital/procesos-api/internal/models"
)

// FeriadoRepository persists the non-business dates fed to the business-day
// calendar. Calendar maintenance itself is an administrative concern.
type FeriadoRepository struct {
	db *sqlx.DB
}

// NewFeriadoRepository constructs a holiday repository.
func NewFeriadoRepository(db *sqlx.DB) *FeriadoRepository {
	return &FeriadoRepository{db: db}
}

// List returns every registered holiday ordered by date.
func (r *FeriadoRepository) List(ctx context.Context) ([]models.Feriado, error) {
	const query = `SELECT id, fecha, descripcion, created_at FROM feriados ORDER BY fecha ASC`
	var feriados []models.Feriado
	if err := r.db.SelectContext(ctx, &feriados, query); err != nil {
		return nil, fmt.Errorf("list feriados: %w", err)
	}
	return feriados, nil
}

// Create registers a holiday date.
func (r *FeriadoRepository) Create(ctx context.Context, feriado *models.Feriado) error {
	if feriado.ID == "" {
		feriado.ID = uuid.NewString()
	}
	if feriado.CreatedAt.IsZero() {
		feriado.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO feriados (id, fecha, descripcion, created_at) VALUES (:id, :fecha, :descripcion, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, feriado); err != nil {
		return fmt.Errorf("create feriado: %w", err)
	}
	return nil
}

// Delete removes a holiday date.
func (r *FeriadoRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM feriados WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete feriado: %w", err)
	}
	return nil
}
