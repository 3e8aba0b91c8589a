package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/justicia-digital/procesos-api/internal/models"
	appErrors "github.com/justicia-digital/procesos-api/pkg/errors"
)

type procesoStore interface {
	Create(ctx context.Context, proceso *models.Proceso) error
	GetByID(ctx context.Context, id string) (*models.Proceso, error)
	GetByNurej(ctx context.Context, nurej string) (*models.Proceso, error)
	List(ctx context.Context, filter models.ProcesoFilter) ([]models.Proceso, int, error)
	UpdateEstado(ctx context.Context, exec sqlx.ExtContext, id string, from, to models.EstadoProceso) error
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type parteStore interface {
	Create(ctx context.Context, parte *models.Parte) error
	ListByProceso(ctx context.Context, procesoID string) ([]models.Parte, error)
}

type actuacionReader interface {
	CountCitacionesExitosas(ctx context.Context, procesoID string) (int, error)
	CountAudienciasFinalizadas(ctx context.Context, procesoID string) (int, error)
	ExisteSentencia(ctx context.Context, procesoID string) (bool, error)
}

type demandaReader interface {
	GetByProceso(ctx context.Context, procesoID string) (*models.Demanda, error)
}

type plazoEngine interface {
	Construir(ctx context.Context, procesoID string, tipo models.TipoPlazo, inicio time.Time) (*models.Plazo, error)
	Guardar(ctx context.Context, exec sqlx.ExtContext, plazo *models.Plazo) error
	NotificarCreacion(ctx context.Context, plazo *models.Plazo)
}

type transicion struct {
	De models.EstadoProceso
	A  models.EstadoProceso
}

// transiciones enumerates every lawful state change. Anything absent is
// rejected outright, including same-state "transitions".
var transiciones = map[models.EstadoProceso][]models.EstadoProceso{
	models.EstadoBorrador:                {models.EstadoPresentado},
	models.EstadoPresentado:              {models.EstadoAdmitido, models.EstadoBorrador},
	models.EstadoAdmitido:                {models.EstadoCitacionPendiente},
	models.EstadoCitacionPendiente:       {models.EstadoContestacionPendiente},
	models.EstadoContestacionPendiente:   {models.EstadoAudienciaPreliminar},
	models.EstadoAudienciaPreliminar:     {models.EstadoAudienciaComplementaria, models.EstadoSentenciaPendiente},
	models.EstadoAudienciaComplementaria: {models.EstadoSentenciaPendiente},
	models.EstadoSentenciaPendiente:      {models.EstadoSentenciado},
	models.EstadoSentenciado:             {models.EstadoApelado, models.EstadoEjecutoriado},
	models.EstadoApelado:                 {models.EstadoEjecutoriado, models.EstadoArchivado},
	models.EstadoEjecutoriado:            {models.EstadoArchivado},
	models.EstadoArchivado:               nil,
}

// permisos maps each lawful edge to the roles allowed to drive it. Judicial
// decisions stay with the judge; clerical movements admit the secretary too.
var permisos = map[transicion][]models.UserRole{
	{models.EstadoBorrador, models.EstadoPresentado}:                       {models.RoleAbogado},
	{models.EstadoPresentado, models.EstadoAdmitido}:                       {models.RoleSecretario, models.RoleJuez},
	{models.EstadoPresentado, models.EstadoBorrador}:                       {models.RoleSecretario},
	{models.EstadoAdmitido, models.EstadoCitacionPendiente}:                {models.RoleSecretario, models.RoleJuez},
	{models.EstadoCitacionPendiente, models.EstadoContestacionPendiente}:   {models.RoleSecretario, models.RoleJuez},
	{models.EstadoContestacionPendiente, models.EstadoAudienciaPreliminar}: {models.RoleSecretario, models.RoleJuez},
	{models.EstadoAudienciaPreliminar, models.EstadoAudienciaComplementaria}: {models.RoleJuez},
	{models.EstadoAudienciaPreliminar, models.EstadoSentenciaPendiente}:      {models.RoleJuez},
	{models.EstadoAudienciaComplementaria, models.EstadoSentenciaPendiente}:  {models.RoleJuez},
	{models.EstadoSentenciaPendiente, models.EstadoSentenciado}:              {models.RoleJuez},
	{models.EstadoSentenciado, models.EstadoApelado}:                         {models.RoleAbogado},
	{models.EstadoSentenciado, models.EstadoEjecutoriado}:                    {models.RoleSecretario, models.RoleJuez},
	{models.EstadoApelado, models.EstadoEjecutoriado}:                        {models.RoleJuez},
	{models.EstadoApelado, models.EstadoArchivado}:                           {models.RoleSecretario, models.RoleJuez},
	{models.EstadoEjecutoriado, models.EstadoArchivado}:                      {models.RoleSecretario, models.RoleJuez},
}

// plazosPorEstado hooks the deadlines that arise automatically on entering a
// state: admission starts the citation plazo, a completed citation starts the
// answer plazo, and closing the hearing stage starts the ruling plazo.
var plazosPorEstado = map[models.EstadoProceso]models.TipoPlazo{
	models.EstadoAdmitido:              models.PlazoCitacion,
	models.EstadoContestacionPendiente: models.PlazoContestacion,
	models.EstadoSentenciaPendiente:    models.PlazoSentencia,
}

// ProcesoService runs the case lifecycle: registration, party management and
// the guarded state machine with its deadline hooks.
type ProcesoService struct {
	repo       procesoStore
	partes     parteStore
	actuacion  actuacionReader
	demandas   demandaReader
	plazos     plazoEngine
	notifier   Notificador
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

func NewProcesoService(repo procesoStore, partes parteStore, actuacion actuacionReader, demandas demandaReader, plazos plazoEngine, notifier Notificador, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ProcesoService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProcesoService{
		repo:      repo,
		partes:    partes,
		actuacion: actuacion,
		demandas:  demandas,
		plazos:    plazos,
		notifier:  notifier,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CrearProcesoRequest captures the registration payload for a new case.
type CrearProcesoRequest struct {
	Nurej       string   `json:"nurej" validate:"required,min=8,max=20"`
	Caratula    string   `json:"caratula" validate:"required,min=10"`
	TipoProceso string   `json:"tipo_proceso" validate:"required,oneof=ORDINARIO EXTRAORDINARIO EJECUTIVO MONITORIO"`
	JuezID      string   `json:"juez_id" validate:"required,uuid"`
	Juzgado     string   `json:"juzgado" validate:"required"`
	Cuantia     *float64 `json:"cuantia" validate:"omitempty,gt=0"`
}

// Crear registers a new case in BORRADOR. The NUREJ must be unique within
// the court registry.
func (s *ProcesoService) Crear(ctx context.Context, req CrearProcesoRequest) (*models.Proceso, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if existing, err := s.repo.GetByNurej(ctx, req.Nurej); err == nil && existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("ya existe un proceso con NUREJ %s", req.Nurej))
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check nurej")
	}

	proceso := &models.Proceso{
		Nurej:       req.Nurej,
		Caratula:    req.Caratula,
		TipoProceso: req.TipoProceso,
		Estado:      models.EstadoBorrador,
		JuezID:      req.JuezID,
		Juzgado:     req.Juzgado,
		Cuantia:     req.Cuantia,
	}
	if err := s.repo.Create(ctx, proceso); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create proceso")
	}
	s.logger.Info("proceso registrado", zap.String("proceso_id", proceso.ID), zap.String("nurej", proceso.Nurej))
	return proceso, nil
}

// Get loads a case with its parties.
func (s *ProcesoService) Get(ctx context.Context, id string) (*models.Proceso, error) {
	proceso, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "proceso no encontrado")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load proceso")
	}
	partes, err := s.partes.ListByProceso(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load partes")
	}
	proceso.Partes = partes
	return proceso, nil
}

// List returns a filtered page of cases with the total count.
func (s *ProcesoService) List(ctx context.Context, filter models.ProcesoFilter) ([]models.Proceso, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	procesos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list procesos")
	}
	return procesos, total, nil
}

// RegistrarParteRequest adds a party to a case.
type RegistrarParteRequest struct {
	Tipo           models.TipoParte `json:"tipo" validate:"required,oneof=ACTOR DEMANDADO"`
	NombreCompleto string           `json:"nombre_completo" validate:"required,min=3"`
	Documento      string           `json:"documento" validate:"required"`
	CiudadanoID    *string          `json:"ciudadano_id" validate:"omitempty,uuid"`
	AbogadoID      *string          `json:"abogado_id" validate:"omitempty,uuid"`
}

// RegistrarParte attaches a party to the case. Parties can be registered up
// to admission; afterwards the record is frozen.
func (s *ProcesoService) RegistrarParte(ctx context.Context, procesoID string, req RegistrarParteRequest) (*models.Parte, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	proceso, err := s.Get(ctx, procesoID)
	if err != nil {
		return nil, err
	}
	switch proceso.Estado {
	case models.EstadoBorrador, models.EstadoPresentado:
		// allowed
	default:
		return nil, appErrors.Clone(appErrors.ErrConflict, "las partes sólo pueden registrarse antes de la admisión")
	}

	parte := &models.Parte{
		ProcesoID:      procesoID,
		Tipo:           req.Tipo,
		NombreCompleto: req.NombreCompleto,
		Documento:      req.Documento,
		CiudadanoID:    req.CiudadanoID,
		AbogadoID:      req.AbogadoID,
	}
	if err := s.partes.Create(ctx, parte); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create parte")
	}
	return parte, nil
}

// Transicionar drives the case to a new state on behalf of a user. The
// lawful-edge table, the role table and the target-state precondition are
// checked in that order, and the state update commits atomically with any
// deadline the new state triggers.
func (s *ProcesoService) Transicionar(ctx context.Context, procesoID string, destino models.EstadoProceso, actorID string, rol models.UserRole, motivo string) (*models.Proceso, error) {
	if !destino.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("estado desconocido: %s", destino))
	}

	proceso, err := s.repo.GetByID(ctx, procesoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "proceso no encontrado")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load proceso")
	}
	origen := proceso.Estado

	if !edgeAllowed(origen, destino) {
		s.observeTransicion(origen, destino, "invalida")
		return nil, appErrors.Clone(appErrors.ErrTransicionInvalida,
			fmt.Sprintf("no existe transición de %s a %s", origen, destino))
	}
	if !roleAllowed(origen, destino, rol) {
		s.observeTransicion(origen, destino, "prohibida")
		// Deliberately opaque: the caller learns nothing about which roles would succeed.
		return nil, appErrors.ErrForbidden
	}
	if reason, ok := s.precondicion(ctx, proceso, destino); !ok {
		s.observeTransicion(origen, destino, "precondicion")
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, reason)
	}

	var plazo *models.Plazo
	if tipo, hook := plazosPorEstado[destino]; hook {
		plazo, err = s.plazos.Construir(ctx, procesoID, tipo, s.now())
		if err != nil {
			s.observeTransicion(origen, destino, "error")
			return nil, err
		}
	}

	tx, err := s.repo.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	if err := s.repo.UpdateEstado(ctx, tx, procesoID, origen, destino); err != nil {
		s.observeTransicion(origen, destino, "error")
		if errors.Is(err, sql.ErrNoRows) {
			// Someone else moved the case first.
			return nil, appErrors.Clone(appErrors.ErrConflict, "el proceso cambió de estado; recargue e intente de nuevo")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update estado")
	}
	if plazo != nil {
		if err := s.plazos.Guardar(ctx, tx, plazo); err != nil {
			s.observeTransicion(origen, destino, "error")
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		s.observeTransicion(origen, destino, "error")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit transition")
	}

	proceso.Estado = destino
	s.observeTransicion(origen, destino, "ok")
	s.logger.Info("transición aplicada",
		zap.String("proceso_id", procesoID),
		zap.String("de", string(origen)),
		zap.String("a", string(destino)),
		zap.String("actor_id", actorID),
		zap.String("rol", string(rol)),
		zap.String("motivo", motivo))

	s.notificarCambioEstado(ctx, proceso, origen, motivo)
	if plazo != nil {
		s.plazos.NotificarCreacion(ctx, plazo)
	}
	return proceso, nil
}

// EstadosSiguientes lists the states the given role could lawfully reach from
// the given state, in the transition table's order.
func (s *ProcesoService) EstadosSiguientes(estado models.EstadoProceso, rol models.UserRole) []models.EstadoProceso {
	var out []models.EstadoProceso
	for _, destino := range transiciones[estado] {
		if roleAllowed(estado, destino, rol) {
			out = append(out, destino)
		}
	}
	return out
}

func edgeAllowed(de, a models.EstadoProceso) bool {
	for _, destino := range transiciones[de] {
		if destino == a {
			return true
		}
	}
	return false
}

func roleAllowed(de, a models.EstadoProceso, rol models.UserRole) bool {
	for _, permitido := range permisos[transicion{de, a}] {
		if permitido == rol {
			return true
		}
	}
	return false
}

// precondicion verifies the evidence the target state demands. The returned
// reason is safe to surface to the caller.
func (s *ProcesoService) precondicion(ctx context.Context, proceso *models.Proceso, destino models.EstadoProceso) (string, bool) {
	switch destino {
	case models.EstadoPresentado:
		demanda, err := s.demandas.GetByProceso(ctx, proceso.ID)
		if err != nil || demanda == nil {
			return "el proceso no tiene demanda registrada", false
		}
		// The stamp is set only after the Art. 110 checklist passes, so an
		// unvalidated draft cannot be pushed into the workflow directly.
		if demanda.PresentadaEn == nil {
			return "la demanda no ha sido presentada formalmente", false
		}
	case models.EstadoAdmitido:
		demanda, err := s.demandas.GetByProceso(ctx, proceso.ID)
		if err != nil || demanda == nil || demanda.PresentadaEn == nil {
			return "la demanda no ha sido presentada", false
		}
		partes, err := s.partes.ListByProceso(ctx, proceso.ID)
		if err != nil || len(partes) < 2 {
			return "el proceso requiere al menos actor y demandado registrados", false
		}
	case models.EstadoContestacionPendiente:
		n, err := s.actuacion.CountCitacionesExitosas(ctx, proceso.ID)
		if err != nil || n == 0 {
			return "no consta ninguna citación practicada con éxito", false
		}
	case models.EstadoSentenciaPendiente:
		n, err := s.actuacion.CountAudienciasFinalizadas(ctx, proceso.ID)
		if err != nil || n == 0 {
			return "no consta ninguna audiencia finalizada", false
		}
	case models.EstadoSentenciado:
		ok, err := s.actuacion.ExisteSentencia(ctx, proceso.ID)
		if err != nil || !ok {
			return "no se ha registrado la sentencia", false
		}
	}
	return "", true
}

func (s *ProcesoService) observeTransicion(de, a models.EstadoProceso, resultado string) {
	s.metrics.ObserveTransicion(de, a, resultado)
}

func (s *ProcesoService) notificarCambioEstado(ctx context.Context, proceso *models.Proceso, origen models.EstadoProceso, motivo string) {
	partes, err := s.partes.ListByProceso(ctx, proceso.ID)
	if err != nil {
		s.logger.Warn("no se pudieron cargar las partes para notificar", zap.String("proceso_id", proceso.ID), zap.Error(err))
		return
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
	mensaje := fmt.Sprintf("El proceso %s pasó de %s a %s", proceso.Nurej, origen, proceso.Estado)
	if motivo != "" {
		mensaje = fmt.Sprintf("%s: %s", mensaje, motivo)
	}
	s.notifier.Notificar(ctx, destinatarios, models.NotificacionCambioEstado, proceso.ID, mensaje)
}
