package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/justicia-digital/procesos-api/internal/models"
	appErrors "github.com/justicia-digital/procesos-api/pkg/errors"
	"github.com/justicia-digital/procesos-api/pkg/jobs"
)

type notificacionStore interface {
	Create(ctx context.Context, n *models.Notificacion) error
	ListByDestinatario(ctx context.Context, destinatarioID string, limit int) ([]models.Notificacion, error)
	MarcarLeida(ctx context.Context, id string) error
}

// Notificador is the outbound-notice port the workflow and deadline engines
// depend on. Implementations must be best effort: a failed notice never
// fails the operation that emitted it.
type Notificador interface {
	Notificar(ctx context.Context, destinatarios []string, tipo models.TipoNotificacion, procesoID, mensaje string)
}

// notificacionJob is the payload handed to the dispatch queue.
type notificacionJob struct {
	Destinatarios []string
	Tipo          models.TipoNotificacion
	ProcesoID     string
	Mensaje       string
}

// NotificacionService records notices and hands them to a background queue
// for delivery by the external email/push channels.
type NotificacionService struct {
	repo   notificacionStore
	queue  *jobs.Queue[notificacionJob]
	logger *zap.Logger
}

// NewNotificacionService constructs the service and its dispatch queue. Call
// Start before emitting notices and Stop on shutdown.
func NewNotificacionService(repo notificacionStore, queueCfg jobs.QueueConfig, logger *zap.Logger) *NotificacionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &NotificacionService{repo: repo, logger: logger}
	queueCfg.Logger = logger
	svc.queue = jobs.NewQueue[notificacionJob]("notificaciones", svc.handle, queueCfg)
	return svc
}

// Start launches the dispatch workers.
func (s *NotificacionService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the dispatch workers.
func (s *NotificacionService) Stop() {
	s.queue.Stop()
}

// Notificar enqueues one notice per recipient. Errors are logged and
// swallowed: the emitting operation has already committed.
func (s *NotificacionService) Notificar(ctx context.Context, destinatarios []string, tipo models.TipoNotificacion, procesoID, mensaje string) {
	if len(destinatarios) == 0 {
		return
	}
	job := jobs.Job[notificacionJob]{
		Type: string(tipo),
		Payload: notificacionJob{
			Destinatarios: destinatarios,
			Tipo:          tipo,
			ProcesoID:     procesoID,
			Mensaje:       mensaje,
		},
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue notificacion",
			zap.String("tipo", string(tipo)),
			zap.String("proceso_id", procesoID),
			zap.Error(err))
	}
}

func (s *NotificacionService) handle(ctx context.Context, job jobs.Job[notificacionJob]) error {
	payload := job.Payload
	for _, destinatario := range payload.Destinatarios {
		n := &models.Notificacion{
			DestinatarioID: destinatario,
			ProcesoID:      payload.ProcesoID,
			Tipo:           payload.Tipo,
			Mensaje:        payload.Mensaje,
		}
		if err := s.repo.Create(ctx, n); err != nil {
			return fmt.Errorf("persist notificacion for %s: %w", destinatario, err)
		}
		// Delivery to email/push is owned by an external channel reading
		// this table; emitting the row is the end of our responsibility.
		s.logger.Info("notificacion registrada",
			zap.String("destinatario", destinatario),
			zap.String("tipo", string(payload.Tipo)),
			zap.String("proceso_id", payload.ProcesoID))
	}
	return nil
}

// Listar returns the notices addressed to a user.
func (s *NotificacionService) Listar(ctx context.Context, destinatarioID string, limit int) ([]models.Notificacion, error) {
	notices, err := s.repo.ListByDestinatario(ctx, destinatarioID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notificaciones")
	}
	return notices, nil
}

// MarcarLeida flags a notice as read.
func (s *NotificacionService) MarcarLeida(ctx context.Context, id string) error {
	if err := s.repo.MarcarLeida(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notificacion read")
	}
	return nil
}
