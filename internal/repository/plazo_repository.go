package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/justicia-digital/procesos-api/internal/models"
)

// PlazoRepository persists statutory deadlines and their append-only alert
// log.
type PlazoRepository struct {
	db *sqlx.DB
}

// NewPlazoRepository constructs a deadline repository.
func NewPlazoRepository(db *sqlx.DB) *PlazoRepository {
	return &PlazoRepository{db: db}
}

const plazoColumns = `id, proceso_id, tipo, descripcion, articulo, dias_plazo, fecha_inicio, fecha_vencimiento, estado, created_at, updated_at`

func (r *PlazoRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create inserts a new plazo. It accepts an optional transaction so the
// state machine can commit a plazo atomically with a state change.
func (r *PlazoRepository) Create(ctx context.Context, execer sqlx.ExtContext, plazo *models.Plazo) error {
	if plazo.ID == "" {
		plazo.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if plazo.CreatedAt.IsZero() {
		plazo.CreatedAt = now
	}
	plazo.UpdatedAt = now
	const query = `INSERT INTO plazos (id, proceso_id, tipo, descripcion, articulo, dias_plazo, fecha_inicio, fecha_vencimiento, estado, created_at, updated_at)
VALUES (:id, :proceso_id, :tipo, :descripcion, :articulo, :dias_plazo, :fecha_inicio, :fecha_vencimiento, :estado, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(execer), query, plazo); err != nil {
		return fmt.Errorf("create plazo: %w", err)
	}
	return nil
}

// GetByID fetches a plazo.
func (r *PlazoRepository) GetByID(ctx context.Context, id string) (*models.Plazo, error) {
	query := fmt.Sprintf(`SELECT %s FROM plazos WHERE id = $1`, plazoColumns)
	var plazo models.Plazo
	if err := r.db.GetContext(ctx, &plazo, query, id); err != nil {
		return nil, err
	}
	return &plazo, nil
}

// ListActivos returns every plazo still ACTIVO, oldest due date first. The
// daily sweep iterates over this set.
func (r *PlazoRepository) ListActivos(ctx context.Context) ([]models.Plazo, error) {
	query := fmt.Sprintf(`SELECT %s FROM plazos WHERE estado = $1 ORDER BY fecha_vencimiento ASC`, plazoColumns)
	var plazos []models.Plazo
	if err := r.db.SelectContext(ctx, &plazos, query, models.PlazoActivo); err != nil {
		return nil, fmt.Errorf("list plazos activos: %w", err)
	}
	return plazos, nil
}

// ListActivosByProceso returns the ACTIVO plazos of one case, most urgent
// first.
func (r *PlazoRepository) ListActivosByProceso(ctx context.Context, procesoID string) ([]models.Plazo, error) {
	query := fmt.Sprintf(`SELECT %s FROM plazos WHERE proceso_id = $1 AND estado = $2 ORDER BY fecha_vencimiento ASC`, plazoColumns)
	var plazos []models.Plazo
	if err := r.db.SelectContext(ctx, &plazos, query, procesoID, models.PlazoActivo); err != nil {
		return nil, fmt.Errorf("list plazos activos by proceso: %w", err)
	}
	return plazos, nil
}

// UpdateEstado moves a plazo out of ACTIVO. The WHERE guard makes the write
// conditional on the record still being ACTIVO, so concurrent sweeps or a
// racing MarcarCumplido cannot both claim the terminal write; the loser gets
// sql.ErrNoRows.
func (r *PlazoRepository) UpdateEstado(ctx context.Context, id string, to models.EstadoPlazo) error {
	const query = `UPDATE plazos SET estado = $2, updated_at = $3 WHERE id = $1 AND estado = $4`
	res, err := r.db.ExecContext(ctx, query, id, to, time.Now().UTC(), models.PlazoActivo)
	if err != nil {
		return fmt.Errorf("update plazo estado: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update plazo estado rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// AppendAlerta records one alert-log entry. The table carries a UNIQUE
// (plazo_id, umbral) constraint and the insert ignores conflicts, so two
// concurrent sweeps cannot double-append the same threshold: the second
// writer sees inserted=false and skips the notification.
func (r *PlazoRepository) AppendAlerta(ctx context.Context, alerta *models.AlertaPlazo) (bool, error) {
	if alerta.ID == "" {
		alerta.ID = uuid.NewString()
	}
	if alerta.EnviadaEn.IsZero() {
		alerta.EnviadaEn = time.Now().UTC()
	}
	const query = `INSERT INTO plazo_alertas (id, plazo_id, umbral, dias_restantes, destinatarios, enviada_en)
VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (plazo_id, umbral) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, alerta.ID, alerta.PlazoID, alerta.Umbral, alerta.DiasRestantes, alerta.Destinatarios, alerta.EnviadaEn)
	if err != nil {
		return false, fmt.Errorf("append alerta: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("append alerta rows affected: %w", err)
	}
	return affected > 0, nil
}

// ListAlertas returns the alert log of a plazo in send order.
func (r *PlazoRepository) ListAlertas(ctx context.Context, plazoID string) ([]models.AlertaPlazo, error) {
	const query = `SELECT id, plazo_id, umbral, dias_restantes, destinatarios, enviada_en FROM plazo_alertas WHERE plazo_id = $1 ORDER BY enviada_en ASC`
	var alertas []models.AlertaPlazo
	if err := r.db.SelectContext(ctx, &alertas, query, plazoID); err != nil {
		return nil, fmt.Errorf("list alertas: %w", err)
	}
	return alertas, nil
}

// UmbralesAlertados returns the set of thresholds already present in the
// alert log, letting the sweep decide idempotently which alert to fire next.
func (r *PlazoRepository) UmbralesAlertados(ctx context.Context, plazoID string) (map[int]struct{}, error) {
	const query = `SELECT umbral FROM plazo_alertas WHERE plazo_id = $1`
	var umbrales []int
	if err := r.db.SelectContext(ctx, &umbrales, query, plazoID); err != nil {
		return nil, fmt.Errorf("list umbrales alertados: %w", err)
	}
	set := make(map[int]struct{}, len(umbrales))
	for _, u := range umbrales {
		set[u] = struct{}{}
	}
	return set, nil
}
