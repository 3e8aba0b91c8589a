package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/justicia-digital/procesos-api/internal/models"
)

// NotificacionRepository persists the notices the core emits. Delivery to
// email/push channels is handled elsewhere; rows here are the durable record.
type NotificacionRepository struct {
	db *sqlx.DB
}

// NewNotificacionRepository constructs a notification repository.
func NewNotificacionRepository(db *sqlx.DB) *NotificacionRepository {
	return &NotificacionRepository{db: db}
}

// Create stores a notice.
func (r *NotificacionRepository) Create(ctx context.Context, n *models.Notificacion) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO notificaciones (id, destinatario_id, proceso_id, tipo, mensaje, leida, created_at)
VALUES (:id, :destinatario_id, :proceso_id, :tipo, :mensaje, :leida, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, n); err != nil {
		return fmt.Errorf("create notificacion: %w", err)
	}
	return nil
}

// ListByDestinatario returns the notices addressed to one user, newest first.
func (r *NotificacionRepository) ListByDestinatario(ctx context.Context, destinatarioID string, limit int) ([]models.Notificacion, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT id, destinatario_id, proceso_id, tipo, mensaje, leida, created_at
FROM notificaciones WHERE destinatario_id = $1 ORDER BY created_at DESC LIMIT %d`, limit)
	var notices []models.Notificacion
	if err := r.db.SelectContext(ctx, &notices, query, destinatarioID); err != nil {
		return nil, fmt.Errorf("list notificaciones: %w", err)
	}
	return notices, nil
}

// MarcarLeida flags a notice as read.
func (r *NotificacionRepository) MarcarLeida(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE notificaciones SET leida = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("marcar notificacion leida: %w", err)
	}
	return nil
}
