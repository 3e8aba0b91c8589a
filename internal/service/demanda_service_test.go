package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justicia-digital/procesos-api/internal/models"
	appErrors "github.com/justicia-digital/procesos-api/pkg/errors"
)

type mockDemandaRepo struct {
	demandas map[string]models.Demanda
}

func newMockDemandaRepo() *mockDemandaRepo {
	return &mockDemandaRepo{demandas: make(map[string]models.Demanda)}
}

func (m *mockDemandaRepo) Create(ctx context.Context, demanda *models.Demanda) error {
	if demanda.ID == "" {
		demanda.ID = "demanda-nueva"
	}
	m.demandas[demanda.ProcesoID] = *demanda
	return nil
}

func (m *mockDemandaRepo) Update(ctx context.Context, demanda *models.Demanda) error {
	m.demandas[demanda.ProcesoID] = *demanda
	return nil
}

func (m *mockDemandaRepo) GetByProceso(ctx context.Context, procesoID string) (*models.Demanda, error) {
	if d, ok := m.demandas[procesoID]; ok {
		return &d, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockDemandaRepo) MarcarPresentada(ctx context.Context, id string, ts time.Time) error {
	for key, d := range m.demandas {
		if d.ID == id {
			d.PresentadaEn = &ts
			m.demandas[key] = d
		}
	}
	return nil
}

func (m *mockDemandaRepo) RevertirPresentacion(ctx context.Context, id string) error {
	for key, d := range m.demandas {
		if d.ID == id {
			d.PresentadaEn = nil
			m.demandas[key] = d
		}
	}
	return nil
}

type mockTransicionador struct {
	llamadas []models.EstadoProceso
	fail     error
}

func (m *mockTransicionador) Transicionar(ctx context.Context, procesoID string, destino models.EstadoProceso, actorID string, rol models.UserRole, motivo string) (*models.Proceso, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	m.llamadas = append(m.llamadas, destino)
	return &models.Proceso{ID: procesoID, Estado: destino}, nil
}

type mockProcesoReader struct {
	estado models.EstadoProceso
}

func (m *mockProcesoReader) GetByID(ctx context.Context, id string) (*models.Proceso, error) {
	if id == "no-existe" {
		return nil, sql.ErrNoRows
	}
	return &models.Proceso{ID: id, Estado: m.estado}, nil
}

type fixtureDemanda struct {
	svc   *DemandaService
	repo  *mockDemandaRepo
	proc  *mockProcesoReader
	trans *mockTransicionador
}

func newFixtureDemanda(t *testing.T) *fixtureDemanda {
	t.Helper()
	f := &fixtureDemanda{
		repo:  newMockDemandaRepo(),
		proc:  &mockProcesoReader{estado: models.EstadoBorrador},
		trans: &mockTransicionador{},
	}
	f.svc = NewDemandaService(f.repo, f.proc, f.trans, NewValidadorDemanda(""), nil, nil)
	return f
}

func requestDesde(d models.Demanda) DemandaRequest {
	return DemandaRequest{
		JuezDesignado:               d.JuezDesignado,
		DemandanteNombre:            d.DemandanteNombre,
		DemandanteEdad:              d.DemandanteEdad,
		DemandanteEstadoCivil:       d.DemandanteEstadoCivil,
		DemandanteOcupacion:         d.DemandanteOcupacion,
		DemandanteDomicilio:         d.DemandanteDomicilio,
		DemandanteDomicilioProcesal: d.DemandanteDomicilioProcesal,
		DemandadoNombre:             d.DemandadoNombre,
		DemandadoDomicilio:          d.DemandadoDomicilio,
		ObjetoDemanda:               d.ObjetoDemanda,
		RelacionHechos:              d.RelacionHechos,
		FundamentoLegal:             d.FundamentoLegal,
		Petitorio:                   d.Petitorio,
		Cuantia:                     d.Cuantia,
		OfrecimientoPrueba:          d.OfrecimientoPrueba,
		AbogadoNombre:               d.AbogadoNombre,
		AbogadoMatricula:            d.AbogadoMatricula,
		Anexos:                      d.Anexos,
	}
}

func TestRegistrarDemanda(t *testing.T) {
	f := newFixtureDemanda(t)

	demanda, err := f.svc.Registrar(context.Background(), "p1", "abogado-1", requestDesde(demandaCompleta()))

	require.NoError(t, err)
	assert.Equal(t, "p1", demanda.ProcesoID)
	assert.Equal(t, "abogado-1", demanda.PresentadaPor)
	assert.Nil(t, demanda.PresentadaEn)
}

func TestRegistrarDemandaDuplicada(t *testing.T) {
	f := newFixtureDemanda(t)
	_, err := f.svc.Registrar(context.Background(), "p1", "abogado-1", requestDesde(demandaCompleta()))
	require.NoError(t, err)

	_, err = f.svc.Registrar(context.Background(), "p1", "abogado-1", DemandaRequest{})

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestRegistrarDemandaFueraDeBorrador(t *testing.T) {
	f := newFixtureDemanda(t)
	f.proc.estado = models.EstadoAdmitido

	_, err := f.svc.Registrar(context.Background(), "p1", "abogado-1", requestDesde(demandaCompleta()))

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestActualizarDemandaPresentadaFalla(t *testing.T) {
	f := newFixtureDemanda(t)
	presentada := time.Now().UTC()
	f.repo.demandas["p1"] = models.Demanda{ID: "d1", ProcesoID: "p1", PresentadaEn: &presentada}

	_, err := f.svc.Actualizar(context.Background(), "p1", requestDesde(demandaCompleta()))

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestValidarNoTieneEfectos(t *testing.T) {
	f := newFixtureDemanda(t)
	incompleta := demandaCompleta()
	incompleta.Petitorio = ""
	incompleta.ProcesoID = "p1"
	f.repo.demandas["p1"] = incompleta

	resultado, err := f.svc.Validar(context.Background(), "p1")

	require.NoError(t, err)
	assert.False(t, resultado.EsValida)
	assert.Nil(t, f.repo.demandas["p1"].PresentadaEn)
	assert.Empty(t, f.trans.llamadas)
}

func TestPresentarDemandaValida(t *testing.T) {
	f := newFixtureDemanda(t)
	completa := demandaCompleta()
	completa.ID = "d1"
	completa.ProcesoID = "p1"
	f.repo.demandas["p1"] = completa

	resultado, err := f.svc.Presentar(context.Background(), "p1", "u-abogado", models.RoleAbogado)

	require.NoError(t, err)
	assert.True(t, resultado.EsValida)
	assert.NotNil(t, f.repo.demandas["p1"].PresentadaEn)
	require.Len(t, f.trans.llamadas, 1)
	assert.Equal(t, models.EstadoPresentado, f.trans.llamadas[0])
}

func TestPresentarDemandaConCriticasFalla(t *testing.T) {
	f := newFixtureDemanda(t)
	incompleta := demandaCompleta()
	incompleta.ID = "d1"
	incompleta.ProcesoID = "p1"
	incompleta.AbogadoMatricula = ""
	f.repo.demandas["p1"] = incompleta

	resultado, err := f.svc.Presentar(context.Background(), "p1", "u-abogado", models.RoleAbogado)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	// El veredicto acompaña al rechazo para que el abogado vea qué falta.
	require.NotNil(t, resultado)
	assert.False(t, resultado.EsValida)
	assert.Nil(t, f.repo.demandas["p1"].PresentadaEn)
	assert.Empty(t, f.trans.llamadas)
}

func TestPresentarRevierteSelloSiLaTransicionFalla(t *testing.T) {
	f := newFixtureDemanda(t)
	completa := demandaCompleta()
	completa.ID = "d1"
	completa.ProcesoID = "p1"
	f.repo.demandas["p1"] = completa
	f.trans.fail = appErrors.ErrForbidden

	_, err := f.svc.Presentar(context.Background(), "p1", "u-admin", models.RoleAdmin)

	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	assert.Nil(t, f.repo.demandas["p1"].PresentadaEn)

	// Con el sello revertido, un reintento autorizado ya no choca con
	// "la demanda ya fue presentada".
	f.trans.fail = nil
	_, err = f.svc.Presentar(context.Background(), "p1", "u-abogado", models.RoleAbogado)
	require.NoError(t, err)
	assert.NotNil(t, f.repo.demandas["p1"].PresentadaEn)
}

func TestPresentarDosVecesFalla(t *testing.T) {
	f := newFixtureDemanda(t)
	completa := demandaCompleta()
	completa.ID = "d1"
	completa.ProcesoID = "p1"
	f.repo.demandas["p1"] = completa

	_, err := f.svc.Presentar(context.Background(), "p1", "u-abogado", models.RoleAbogado)
	require.NoError(t, err)

	_, err = f.svc.Presentar(context.Background(), "p1", "u-abogado", models.RoleAbogado)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestPresentarSinDemanda(t *testing.T) {
	f := newFixtureDemanda(t)

	_, err := f.svc.Presentar(context.Background(), "p1", "u-abogado", models.RoleAbogado)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
