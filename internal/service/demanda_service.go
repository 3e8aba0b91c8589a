package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/justicia-digital/procesos-api/internal/models"
	appErrors "github.com/justicia-digital/procesos-api/pkg/errors"
)

type demandaStore interface {
	Create(ctx context.Context, demanda *models.Demanda) error
	Update(ctx context.Context, demanda *models.Demanda) error
	GetByProceso(ctx context.Context, procesoID string) (*models.Demanda, error)
	MarcarPresentada(ctx context.Context, id string, ts time.Time) error
	RevertirPresentacion(ctx context.Context, id string) error
}

type procesoReader interface {
	GetByID(ctx context.Context, id string) (*models.Proceso, error)
}

// transicionador is the slice of the state machine the filing workflow needs:
// presenting a pleading drives the case out of BORRADOR.
type transicionador interface {
	Transicionar(ctx context.Context, procesoID string, destino models.EstadoProceso, actorID string, rol models.UserRole, motivo string) (*models.Proceso, error)
}

// DemandaService manages the pleading attached to a case: drafting, the
// Art. 110 checklist run, and formal presentation.
type DemandaService struct {
	repo       demandaStore
	procesos   procesoReader
	transicion transicionador
	validador  *ValidadorDemanda
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

func NewDemandaService(repo demandaStore, procesos procesoReader, transicion transicionador, validador *ValidadorDemanda, validate *validator.Validate, logger *zap.Logger) *DemandaService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DemandaService{
		repo:       repo,
		procesos:   procesos,
		transicion: transicion,
		validador:  validador,
		validator:  validate,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// DemandaRequest carries the drafting payload. Only structural constraints
// live here; substantive sufficiency is the checklist's job, so a draft may
// be saved incomplete.
type DemandaRequest struct {
	JuezDesignado               string         `json:"juez_designado"`
	DemandanteNombre            string         `json:"demandante_nombre"`
	DemandanteEdad              int            `json:"demandante_edad" validate:"omitempty,gte=0,lte=120"`
	DemandanteEstadoCivil       string         `json:"demandante_estado_civil"`
	DemandanteOcupacion         string         `json:"demandante_ocupacion"`
	DemandanteDomicilio         string         `json:"demandante_domicilio"`
	DemandanteDomicilioProcesal string         `json:"demandante_domicilio_procesal"`
	DemandadoNombre             string         `json:"demandado_nombre"`
	DemandadoDomicilio          string         `json:"demandado_domicilio"`
	ObjetoDemanda               string         `json:"objeto_demanda"`
	RelacionHechos              string         `json:"relacion_hechos"`
	FundamentoLegal             string         `json:"fundamento_legal"`
	Petitorio                   string         `json:"petitorio"`
	Cuantia                     float64        `json:"cuantia" validate:"omitempty,gte=0"`
	OfrecimientoPrueba          string         `json:"ofrecimiento_prueba"`
	AbogadoNombre               string         `json:"abogado_nombre"`
	AbogadoMatricula            string         `json:"abogado_matricula"`
	Anexos                      types.JSONText `json:"anexos,omitempty"`
}

func (req DemandaRequest) apply(demanda *models.Demanda) {
	demanda.JuezDesignado = req.JuezDesignado
	demanda.DemandanteNombre = req.DemandanteNombre
	demanda.DemandanteEdad = req.DemandanteEdad
	demanda.DemandanteEstadoCivil = req.DemandanteEstadoCivil
	demanda.DemandanteOcupacion = req.DemandanteOcupacion
	demanda.DemandanteDomicilio = req.DemandanteDomicilio
	demanda.DemandanteDomicilioProcesal = req.DemandanteDomicilioProcesal
	demanda.DemandadoNombre = req.DemandadoNombre
	demanda.DemandadoDomicilio = req.DemandadoDomicilio
	demanda.ObjetoDemanda = req.ObjetoDemanda
	demanda.RelacionHechos = req.RelacionHechos
	demanda.FundamentoLegal = req.FundamentoLegal
	demanda.Petitorio = req.Petitorio
	demanda.Cuantia = req.Cuantia
	demanda.OfrecimientoPrueba = req.OfrecimientoPrueba
	demanda.AbogadoNombre = req.AbogadoNombre
	demanda.AbogadoMatricula = req.AbogadoMatricula
	demanda.Anexos = req.Anexos
}

// Registrar attaches a draft pleading to a BORRADOR case. One pleading per
// case; use Actualizar to amend an existing draft.
func (s *DemandaService) Registrar(ctx context.Context, procesoID, userID string, req DemandaRequest) (*models.Demanda, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if err := s.requireBorrador(ctx, procesoID); err != nil {
		return nil, err
	}
	if existing, err := s.repo.GetByProceso(ctx, procesoID); err == nil && existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "el proceso ya tiene una demanda registrada")
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check demanda")
	}

	demanda := &models.Demanda{ProcesoID: procesoID, PresentadaPor: userID}
	req.apply(demanda)
	if err := s.repo.Create(ctx, demanda); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create demanda")
	}
	return demanda, nil
}

// Actualizar amends the draft. Once the pleading has been presented the text
// is frozen; corrections go through a subsanación filing instead.
func (s *DemandaService) Actualizar(ctx context.Context, procesoID string, req DemandaRequest) (*models.Demanda, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if err := s.requireBorrador(ctx, procesoID); err != nil {
		return nil, err
	}
	demanda, err := s.get(ctx, procesoID)
	if err != nil {
		return nil, err
	}
	if demanda.PresentadaEn != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "la demanda ya fue presentada y no puede modificarse")
	}
	req.apply(demanda)
	if err := s.repo.Update(ctx, demanda); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update demanda")
	}
	return demanda, nil
}

// Get returns the pleading of a case.
func (s *DemandaService) Get(ctx context.Context, procesoID string) (*models.Demanda, error) {
	return s.get(ctx, procesoID)
}

// Validar runs the Art. 110 checklist against the current draft without
// side effects, so counsel can iterate before presenting.
func (s *DemandaService) Validar(ctx context.Context, procesoID string) (*models.ResultadoValidacion, error) {
	demanda, err := s.get(ctx, procesoID)
	if err != nil {
		return nil, err
	}
	resultado := s.validador.Validar(*demanda)
	return &resultado, nil
}

// Presentar formally submits the pleading: the checklist must report no
// critical observation, the pleading is stamped, and the case moves from
// BORRADOR to PRESENTADO. The checklist result is returned either way so a
// rejected filing shows counsel exactly what is missing.
func (s *DemandaService) Presentar(ctx context.Context, procesoID, actorID string, rol models.UserRole) (*models.ResultadoValidacion, error) {
	demanda, err := s.get(ctx, procesoID)
	if err != nil {
		return nil, err
	}
	if demanda.PresentadaEn != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "la demanda ya fue presentada")
	}

	resultado := s.validador.Validar(*demanda)
	if !resultado.EsValida {
		s.logger.Info("presentación rechazada por el checklist",
			zap.String("proceso_id", procesoID),
			zap.Int("puntaje", resultado.Puntaje),
			zap.Int("observaciones", len(resultado.Observaciones)))
		return &resultado, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("la demanda no cumple los requisitos del Art. 110 CPC (%d observaciones)", len(resultado.Observaciones)))
	}

	if err := s.repo.MarcarPresentada(ctx, demanda.ID, s.now()); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stamp demanda")
	}
	if _, err := s.transicion.Transicionar(ctx, procesoID, models.EstadoPresentado, actorID, rol, "presentación de la demanda"); err != nil {
		// The transition checks the stamp, so it must be set first; if the
		// case never left BORRADOR the stamp has to come back off or every
		// retry would be rejected as already presented.
		if rerr := s.repo.RevertirPresentacion(ctx, demanda.ID); rerr != nil {
			s.logger.Error("no se pudo revertir el sello de presentación",
				zap.String("demanda_id", demanda.ID),
				zap.String("proceso_id", procesoID),
				zap.Error(rerr))
		}
		return &resultado, err
	}
	s.logger.Info("demanda presentada", zap.String("proceso_id", procesoID), zap.Int("puntaje", resultado.Puntaje))
	return &resultado, nil
}

func (s *DemandaService) get(ctx context.Context, procesoID string) (*models.Demanda, error) {
	demanda, err := s.repo.GetByProceso(ctx, procesoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "el proceso no tiene demanda registrada")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load demanda")
	}
	return demanda, nil
}

func (s *DemandaService) requireBorrador(ctx context.Context, procesoID string) error {
	proceso, err := s.procesos.GetByID(ctx, procesoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "proceso no encontrado")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load proceso")
	}
	if proceso.Estado != models.EstadoBorrador {
		return appErrors.Clone(appErrors.ErrConflict, "la demanda sólo puede editarse mientras el proceso está en borrador")
	}
	return nil
}
