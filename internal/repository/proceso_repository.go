package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/justicia-digital/procesos-api/internal/models"
)

// ProcesoRepository persists judicial cases.
type ProcesoRepository struct {
	db *sqlx.DB
}

// NewProcesoRepository constructs a case repository.
func NewProcesoRepository(db *sqlx.DB) *ProcesoRepository {
	return &ProcesoRepository{db: db}
}

const procesoColumns = `id, nurej, caratula, tipo_proceso, estado, juez_id, juzgado, cuantia, created_at, updated_at`

// Create inserts a new case in estado BORRADOR.
func (r *ProcesoRepository) Create(ctx context.Context, proceso *models.Proceso) error {
	if proceso.ID == "" {
		proceso.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if proceso.CreatedAt.IsZero() {
		proceso.CreatedAt = now
	}
	proceso.UpdatedAt = now
	const query = `INSERT INTO procesos (id, nurej, caratula, tipo_proceso, estado, juez_id, juzgado, cuantia, created_at, updated_at)
VALUES (:id, :nurej, :caratula, :tipo_proceso, :estado, :juez_id, :juzgado, :cuantia, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, proceso); err != nil {
		return fmt.Errorf("create proceso: %w", err)
	}
	return nil
}

// GetByID fetches a case by identifier.
func (r *ProcesoRepository) GetByID(ctx context.Context, id string) (*models.Proceso, error) {
	query := fmt.Sprintf(`SELECT %s FROM procesos WHERE id = $1`, procesoColumns)
	var proceso models.Proceso
	if err := r.db.GetContext(ctx, &proceso, query, id); err != nil {
		return nil, err
	}
	return &proceso, nil
}

// GetByNurej fetches a case by its public case number.
func (r *ProcesoRepository) GetByNurej(ctx context.Context, nurej string) (*models.Proceso, error) {
	query := fmt.Sprintf(`SELECT %s FROM procesos WHERE nurej = $1`, procesoColumns)
	var proceso models.Proceso
	if err := r.db.GetContext(ctx, &proceso, query, nurej); err != nil {
		return nil, err
	}
	return &proceso, nil
}

// List returns cases matching the filter plus the total count.
func (r *ProcesoRepository) List(ctx context.Context, filter models.ProcesoFilter) ([]models.Proceso, int, error) {
	base := "FROM procesos"
	where := []string{"1=1"}
	args := []interface{}{}

	if len(filter.Estado) > 0 {
		estados := make([]string, len(filter.Estado))
		for i, e := range filter.Estado {
			estados[i] = string(e)
		}
		where = append(where, fmt.Sprintf("estado = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(estados))
	}
	if filter.JuezID != "" {
		where = append(where, fmt.Sprintf("juez_id = $%d", len(args)+1))
		args = append(args, filter.JuezID)
	}
	if filter.Nurej != "" {
		where = append(where, fmt.Sprintf("nurej = $%d", len(args)+1))
		args = append(args, filter.Nurej)
	}
	if filter.ParteID != "" {
		where = append(where, fmt.Sprintf("id IN (SELECT proceso_id FROM partes WHERE ciudadano_id = $%d OR abogado_id = $%d)", len(args)+1, len(args)+1))
		args = append(args, filter.ParteID)
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("LOWER(caratula) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`, procesoColumns, base, whereClause, size, offset)
	var procesos []models.Proceso
	if err := r.db.SelectContext(ctx, &procesos, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list procesos: %w", err)
	}
	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count procesos: %w", err)
	}
	return procesos, total, nil
}

// UpdateEstado writes the new procedural state. It accepts any ExtContext so
// the state machine can run it inside the same transaction that records the
// post-transition plazo. The expected previous state guards against lost
// updates from a concurrent transition.
func (r *ProcesoRepository) UpdateEstado(ctx context.Context, exec sqlx.ExtContext, id string, from, to models.EstadoProceso) error {
	const query = `UPDATE procesos SET estado = $3, updated_at = $4 WHERE id = $1 AND estado = $2`
	res, err := exec.ExecContext(ctx, query, id, from, to, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update estado: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update estado rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// BeginTxx starts a database transaction for multi-write commits.
func (r *ProcesoRepository) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, opts)
}
