package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/justicia-digital/procesos-api/internal/models"
	appErrors "github.com/justicia-digital/procesos-api/pkg/errors"
	"github.com/justicia-digital/procesos-api/pkg/habiles"
)

type plazoStore interface {
	Create(ctx context.Context, exec sqlx.ExtContext, plazo *models.Plazo) error
	GetByID(ctx context.Context, id string) (*models.Plazo, error)
	ListActivos(ctx context.Context) ([]models.Plazo, error)
	ListActivosByProceso(ctx context.Context, procesoID string) ([]models.Plazo, error)
	UpdateEstado(ctx context.Context, id string, to models.EstadoPlazo) error
	AppendAlerta(ctx context.Context, alerta *models.AlertaPlazo) (bool, error)
	UmbralesAlertados(ctx context.Context, plazoID string) (map[int]struct{}, error)
}

type parteReader interface {
	ListByProceso(ctx context.Context, procesoID string) ([]models.Parte, error)
}

type calendarioProvider interface {
	Calendar(ctx context.Context) (*habiles.Calendar, error)
}

// EspecPlazo is one catalog entry: statutory duration in business days plus
// the article that establishes it.
type EspecPlazo struct {
	DiasHabiles int
	Descripcion string
	Articulo    string
}

// CatalogoPlazos fixes the statutory deadline catalog. Durations are defined
// by the Código Procesal Civil and never vary per case.
var CatalogoPlazos = map[models.TipoPlazo]EspecPlazo{
	models.PlazoContestacion:        {DiasHabiles: 30, Descripcion: "Plazo para contestar la demanda", Articulo: "Art. 125 CPC"},
	models.PlazoObservacionDemanda:  {DiasHabiles: 3, Descripcion: "Plazo para subsanar observaciones a la demanda", Articulo: "Art. 113.I CPC"},
	models.PlazoSubsanacion:         {DiasHabiles: 3, Descripcion: "Plazo para subsanar defectos formales", Articulo: "Art. 113.II CPC"},
	models.PlazoCitacion:            {DiasHabiles: 5, Descripcion: "Plazo para practicar la citación al demandado", Articulo: "Art. 117 CPC"},
	models.PlazoAudienciaPreliminar: {DiasHabiles: 5, Descripcion: "Plazo para señalar audiencia preliminar", Articulo: "Art. 365 CPC"},
	models.PlazoSentencia:           {DiasHabiles: 15, Descripcion: "Plazo para dictar sentencia", Articulo: "Art. 216 CPC"},
	models.PlazoApelacion:           {DiasHabiles: 10, Descripcion: "Plazo para interponer recurso de apelación", Articulo: "Art. 261 CPC"},
	models.PlazoExcepciones:         {DiasHabiles: 15, Descripcion: "Plazo para oponer excepciones previas", Articulo: "Art. 128 CPC"},
	models.PlazoReconvencion:        {DiasHabiles: 30, Descripcion: "Plazo para reconvenir", Articulo: "Art. 130 CPC"},
	models.PlazoCasacion:            {DiasHabiles: 10, Descripcion: "Plazo para interponer recurso de casación", Articulo: "Art. 273 CPC"},
}

// SweepResult summarises one sweep run. Per-record failures are collected
// here instead of aborting the run.
type SweepResult struct {
	Revisados  int      `json:"revisados"`
	Vencidos   int      `json:"vencidos"`
	Alertados  int      `json:"alertados"`
	Fallidos   int      `json:"fallidos"`
	Errores    []string `json:"errores,omitempty"`
	EjecutadoA string   `json:"ejecutado_a"`
}

// PlazoService owns the statutory deadline lifecycle: creation from the
// catalog, the daily alert/expiry sweep, and fulfilment bookkeeping.
type PlazoService struct {
	repo       plazoStore
	partes     parteReader
	calendario calendarioProvider
	notifier   Notificador
	metrics    *MetricsService
	umbrales   []int
	logger     *zap.Logger
	now        func() time.Time
}

// NewPlazoService constructs the deadline engine. Thresholds are kept in
// descending order so the sweep fires the outermost uncrossed alert first.
func NewPlazoService(repo plazoStore, partes parteReader, calendario calendarioProvider, notifier Notificador, metrics *MetricsService, umbrales []int, logger *zap.Logger) *PlazoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(umbrales) == 0 {
		umbrales = []int{5, 3, 1}
	}
	ordered := append([]int(nil), umbrales...)
	sort.Sort(sort.Reverse(sort.IntSlice(ordered)))
	return &PlazoService{
		repo:       repo,
		partes:     partes,
		calendario: calendario,
		notifier:   notifier,
		metrics:    metrics,
		umbrales:   ordered,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Construir resolves the catalog entry and computes the due date without
// persisting anything. The state machine uses it to stage the plazo it will
// commit inside the transition transaction.
func (s *PlazoService) Construir(ctx context.Context, procesoID string, tipo models.TipoPlazo, inicio time.Time) (*models.Plazo, error) {
	espec, ok := CatalogoPlazos[tipo]
	if !ok {
		s.logger.Error("tipo de plazo fuera de catálogo", zap.String("tipo", string(tipo)), zap.String("proceso_id", procesoID))
		return nil, appErrors.Clone(appErrors.ErrTipoPlazoDesconocido, fmt.Sprintf("tipo de plazo desconocido: %s", tipo))
	}
	cal, err := s.calendario.Calendar(ctx)
	if err != nil {
		return nil, err
	}
	if inicio.IsZero() {
		inicio = s.now()
	}
	return &models.Plazo{
		ProcesoID:        procesoID,
		Tipo:             tipo,
		Descripcion:      espec.Descripcion,
		Articulo:         espec.Articulo,
		DiasPlazo:        espec.DiasHabiles,
		FechaInicio:      inicio,
		FechaVencimiento: cal.AddHabiles(inicio, espec.DiasHabiles),
		Estado:           models.PlazoActivo,
	}, nil
}

// Guardar persists a staged plazo, optionally inside a caller transaction.
func (s *PlazoService) Guardar(ctx context.Context, exec sqlx.ExtContext, plazo *models.Plazo) error {
	if err := s.repo.Create(ctx, exec, plazo); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist plazo")
	}
	return nil
}

// Crear creates and persists a plazo in one step, then notifies the
// interested parties. Direct entry point for the filing handlers; the state
// machine goes through Construir/Guardar to share its transaction.
func (s *PlazoService) Crear(ctx context.Context, procesoID string, tipo models.TipoPlazo, inicio time.Time) (*models.Plazo, error) {
	plazo, err := s.Construir(ctx, procesoID, tipo, inicio)
	if err != nil {
		return nil, err
	}
	if err := s.Guardar(ctx, nil, plazo); err != nil {
		return nil, err
	}
	s.NotificarCreacion(ctx, plazo)
	return plazo, nil
}

// NotificarCreacion fans out the "new deadline" notice to each party's
// registered representative. Best effort; called after the plazo is durable.
func (s *PlazoService) NotificarCreacion(ctx context.Context, plazo *models.Plazo) {
	destinatarios := s.representantes(ctx, plazo.ProcesoID)
	mensaje := fmt.Sprintf("Nuevo plazo %s (%s): vence el %s", plazo.Tipo, plazo.Articulo, plazo.FechaVencimiento.Format("2006-01-02"))
	s.notifier.Notificar(ctx, destinatarios, models.NotificacionPlazoCreado, plazo.ProcesoID, mensaje)
}

// Sweep reviews every ACTIVO plazo once: deadlines past due become VENCIDO
// with a single overdue notice; the rest get at most one approaching-alert
// for the first threshold not yet in their log. Safe to re-run on the same
// day: the append-only log makes repeated sweeps emit nothing new.
func (s *PlazoService) Sweep(ctx context.Context) (*SweepResult, error) {
	inicio := s.now()
	result := &SweepResult{EjecutadoA: inicio.Format(time.RFC3339)}

	cal, err := s.calendario.Calendar(ctx)
	if err != nil {
		return nil, err
	}
	plazos, err := s.repo.ListActivos(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plazos activos")
	}

	for i := range plazos {
		plazo := &plazos[i]
		result.Revisados++
		if err := s.sweepOne(ctx, cal, plazo, inicio, result); err != nil {
			result.Fallidos++
			result.Errores = append(result.Errores, fmt.Sprintf("plazo %s: %v", plazo.ID, err))
			s.logger.Warn("sweep: plazo no procesado", zap.String("plazo_id", plazo.ID), zap.Error(err))
		}
	}

	s.metrics.ObserveSweep(time.Since(inicio))
	s.logger.Info("sweep de plazos completado",
		zap.Int("revisados", result.Revisados),
		zap.Int("vencidos", result.Vencidos),
		zap.Int("alertados", result.Alertados),
		zap.Int("fallidos", result.Fallidos))
	return result, nil
}

func (s *PlazoService) sweepOne(ctx context.Context, cal *habiles.Calendar, plazo *models.Plazo, hoy time.Time, result *SweepResult) error {
	restantes := cal.HabilesHasta(hoy, plazo.FechaVencimiento)

	if restantes < 0 {
		if err := s.repo.UpdateEstado(ctx, plazo.ID, models.PlazoVencido); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// A concurrent sweep already expired it.
				return nil
			}
			return err
		}
		result.Vencidos++
		s.metrics.ObservePlazoVencido()
		inserted, err := s.repo.AppendAlerta(ctx, &models.AlertaPlazo{
			PlazoID:       plazo.ID,
			Umbral:        models.UmbralVencido,
			DiasRestantes: restantes,
		})
		if err != nil {
			return err
		}
		if inserted {
			destinatarios := s.representantes(ctx, plazo.ProcesoID)
			mensaje := fmt.Sprintf("Plazo %s vencido el %s (%s)", plazo.Tipo, plazo.FechaVencimiento.Format("2006-01-02"), plazo.Articulo)
			s.notifier.Notificar(ctx, destinatarios, models.NotificacionPlazoVencido, plazo.ProcesoID, mensaje)
		}
		return nil
	}

	alertados, err := s.repo.UmbralesAlertados(ctx, plazo.ID)
	if err != nil {
		return err
	}
	for _, umbral := range s.umbrales {
		if restantes > umbral {
			continue
		}
		if _, ya := alertados[umbral]; ya {
			continue
		}
		destinatarios := s.representantes(ctx, plazo.ProcesoID)
		inserted, err := s.repo.AppendAlerta(ctx, &models.AlertaPlazo{
			PlazoID:       plazo.ID,
			Umbral:        umbral,
			DiasRestantes: restantes,
			Destinatarios: len(destinatarios),
		})
		if err != nil {
			return err
		}
		if inserted {
			result.Alertados++
			s.metrics.ObserveAlerta(umbral)
			mensaje := fmt.Sprintf("Plazo %s por vencer: quedan %d días hábiles (vence %s)", plazo.Tipo, restantes, plazo.FechaVencimiento.Format("2006-01-02"))
			s.notifier.Notificar(ctx, destinatarios, models.NotificacionPlazoPorVencer, plazo.ProcesoID, mensaje)
		}
		// One alert per record per sweep at most.
		break
	}
	return nil
}

// MarcarCumplido moves an ACTIVO plazo to CUMPLIDO. Marking an already
// CUMPLIDO plazo again is a no-op; any other state is a caller defect.
func (s *PlazoService) MarcarCumplido(ctx context.Context, plazoID string) (*models.Plazo, error) {
	plazo, err := s.repo.GetByID(ctx, plazoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "plazo no encontrado")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plazo")
	}
	switch plazo.Estado {
	case models.PlazoCumplido:
		return plazo, nil
	case models.PlazoActivo:
		// continue
	default:
		s.logger.Error("marcar cumplido sobre plazo no activo", zap.String("plazo_id", plazoID), zap.String("estado", string(plazo.Estado)))
		return nil, appErrors.Clone(appErrors.ErrEstadoPlazoInvalido, fmt.Sprintf("el plazo está %s", plazo.Estado))
	}
	if err := s.repo.UpdateEstado(ctx, plazoID, models.PlazoCumplido); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Lost the race against the sweep marking it VENCIDO.
			return nil, appErrors.Clone(appErrors.ErrEstadoPlazoInvalido, "el plazo ya no está activo")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update plazo")
	}
	plazo.Estado = models.PlazoCumplido
	return plazo, nil
}

// Activos returns the ACTIVO plazos of a case, most urgent first.
func (s *PlazoService) Activos(ctx context.Context, procesoID string) ([]models.Plazo, error) {
	plazos, err := s.repo.ListActivosByProceso(ctx, procesoID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list plazos")
	}
	return plazos, nil
}

// MasUrgente returns the ACTIVO plazo with the closest due date, or nil when
// the case has none.
func (s *PlazoService) MasUrgente(ctx context.Context, procesoID string) (*models.Plazo, error) {
	plazos, err := s.Activos(ctx, procesoID)
	if err != nil {
		return nil, err
	}
	if len(plazos) == 0 {
		return nil, nil
	}
	return &plazos[0], nil
}

func (s *PlazoService) representantes(ctx context.Context, procesoID string) []string {
	partes, err := s.partes.ListByProceso(ctx, procesoID)
	if err != nil {
		s.logger.Warn("no se pudieron cargar las partes para notificar", zap.String("proceso_id", procesoID), zap.Error(err))
		return nil
	}
	var destinatarios []string
	seen := make(map[string]struct{})
	for _, parte := range partes {
		var id string
		switch {
		case parte.AbogadoID != nil && *parte.AbogadoID != "":
			id = *parte.AbogadoID
		case parte.CiudadanoID != nil && *parte.CiudadanoID != "":
			id = *parte.CiudadanoID
		default:
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		destinatarios = append(destinatarios, id)
	}
	return destinatarios
}
