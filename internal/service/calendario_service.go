package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/justicia-digital/procesos-api/internal/models"
	appErrors "github.com/justicia-digital/procesos-api/pkg/errors"
	"github.com/justicia-digital/procesos-api/pkg/habiles"
)

type feriadoStore interface {
	List(ctx context.Context) ([]models.Feriado, error)
	Create(ctx context.Context, feriado *models.Feriado) error
	Delete(ctx context.Context, id string) error
}

const feriadosCacheKey = "calendario:feriados"

// CalendarioService supplies the business-day calendar to the deadline
// engine. Holidays come from the feriados table, with a Redis-side cache so
// the daily sweep does not reload the set per record.
type CalendarioService struct {
	repo   feriadoStore
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCalendarioService constructs the service. The cache client is optional;
// without it every call reads the repository.
func NewCalendarioService(repo feriadoStore, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *CalendarioService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CalendarioService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// Calendar returns a business-day calendar built from the current holiday
// set.
func (s *CalendarioService) Calendar(ctx context.Context) (*habiles.Calendar, error) {
	if fechas, ok := s.fromCache(ctx); ok {
		return habiles.New(fechas), nil
	}

	feriados, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load feriados")
	}
	fechas := make([]time.Time, len(feriados))
	for i, f := range feriados {
		fechas[i] = f.Fecha
	}
	s.toCache(ctx, fechas)
	return habiles.New(fechas), nil
}

// Feriados lists the registered holidays.
func (s *CalendarioService) Feriados(ctx context.Context) ([]models.Feriado, error) {
	feriados, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list feriados")
	}
	return feriados, nil
}

// RegistrarFeriado adds a holiday and invalidates the cached set.
func (s *CalendarioService) RegistrarFeriado(ctx context.Context, fecha time.Time, descripcion string) (*models.Feriado, error) {
	if descripcion == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "descripcion is required")
	}
	feriado := &models.Feriado{Fecha: fecha, Descripcion: descripcion}
	if err := s.repo.Create(ctx, feriado); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create feriado")
	}
	s.invalidate(ctx)
	return feriado, nil
}

// EliminarFeriado removes a holiday and invalidates the cached set.
func (s *CalendarioService) EliminarFeriado(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete feriado")
	}
	s.invalidate(ctx)
	return nil
}

func (s *CalendarioService) fromCache(ctx context.Context) ([]time.Time, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, feriadosCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("feriados cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var fechas []time.Time
	if err := json.Unmarshal(raw, &fechas); err != nil {
		s.logger.Warn("feriados cache payload corrupt", zap.Error(err))
		return nil, false
	}
	return fechas, true
}

func (s *CalendarioService) toCache(ctx context.Context, fechas []time.Time) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(fechas)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, feriadosCacheKey, raw, s.ttl).Err(); err != nil {
		s.logger.Warn("feriados cache write failed", zap.Error(err))
	}
}

func (s *CalendarioService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, feriadosCacheKey).Err(); err != nil {
		s.logger.Warn("feriados cache invalidation failed", zap.Error(err))
	}
}
