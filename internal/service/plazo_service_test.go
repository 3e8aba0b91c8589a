package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justicia-digital/procesos-api/internal/models"
	appErrors "github.com/justicia-digital/procesos-api/pkg/errors"
	"github.com/justicia-digital/procesos-api/pkg/habiles"
)

type mockPlazoRepo struct {
	plazos   map[string]models.Plazo
	alertas  map[string][]models.AlertaPlazo
	seq      int
	failList bool
	failID   string
}

func newMockPlazoRepo() *mockPlazoRepo {
	return &mockPlazoRepo{
		plazos:  make(map[string]models.Plazo),
		alertas: make(map[string][]models.AlertaPlazo),
	}
}

func (m *mockPlazoRepo) Create(ctx context.Context, exec sqlx.ExtContext, plazo *models.Plazo) error {
	if plazo.ID == "" {
		m.seq++
		plazo.ID = fmt.Sprintf("plazo-%d", m.seq)
	}
	m.plazos[plazo.ID] = *plazo
	return nil
}

func (m *mockPlazoRepo) GetByID(ctx context.Context, id string) (*models.Plazo, error) {
	if p, ok := m.plazos[id]; ok {
		return &p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockPlazoRepo) ListActivos(ctx context.Context) ([]models.Plazo, error) {
	if m.failList {
		return nil, errors.New("query failed")
	}
	var out []models.Plazo
	for _, p := range m.plazos {
		if p.Estado == models.PlazoActivo {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPlazoRepo) ListActivosByProceso(ctx context.Context, procesoID string) ([]models.Plazo, error) {
	var out []models.Plazo
	for _, p := range m.plazos {
		if p.ProcesoID == procesoID && p.Estado == models.PlazoActivo {
			out = append(out, p)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].FechaVencimiento.Before(out[i].FechaVencimiento) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (m *mockPlazoRepo) UpdateEstado(ctx context.Context, id string, to models.EstadoPlazo) error {
	if id == m.failID {
		return errors.New("update failed")
	}
	p, ok := m.plazos[id]
	if !ok || p.Estado != models.PlazoActivo {
		return sql.ErrNoRows
	}
	p.Estado = to
	m.plazos[id] = p
	return nil
}

func (m *mockPlazoRepo) AppendAlerta(ctx context.Context, alerta *models.AlertaPlazo) (bool, error) {
	for _, a := range m.alertas[alerta.PlazoID] {
		if a.Umbral == alerta.Umbral {
			return false, nil
		}
	}
	m.alertas[alerta.PlazoID] = append(m.alertas[alerta.PlazoID], *alerta)
	return true, nil
}

func (m *mockPlazoRepo) UmbralesAlertados(ctx context.Context, plazoID string) (map[int]struct{}, error) {
	out := make(map[int]struct{})
	for _, a := range m.alertas[plazoID] {
		out[a.Umbral] = struct{}{}
	}
	return out, nil
}

func (m *mockPlazoRepo) totalAlertas() int {
	n := 0
	for _, a := range m.alertas {
		n += len(a)
	}
	return n
}

type staticCalendario struct {
	cal *habiles.Calendar
}

func (s staticCalendario) Calendar(ctx context.Context) (*habiles.Calendar, error) {
	return s.cal, nil
}

type fixturePlazo struct {
	svc    *PlazoService
	repo   *mockPlazoRepo
	partes *mockParteRepo
	notif  *mockNotificador
}

func newFixturePlazo(t *testing.T, feriados ...time.Time) *fixturePlazo {
	t.Helper()
	f := &fixturePlazo{
		repo:   newMockPlazoRepo(),
		partes: &mockParteRepo{},
		notif:  &mockNotificador{},
	}
	f.svc = NewPlazoService(f.repo, f.partes, staticCalendario{cal: habiles.New(feriados)}, f.notif, nil, nil, nil)
	return f
}

func (f *fixturePlazo) fixNow(t time.Time) {
	f.svc.now = func() time.Time { return t }
}

func fecha(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func TestCrearPlazoComputaVencimientoEnDiasHabiles(t *testing.T) {
	f := newFixturePlazo(t)

	// Viernes 1 de marzo de 2024 + 30 días hábiles.
	plazo, err := f.svc.Crear(context.Background(), "p1", models.PlazoContestacion, fecha("2024-03-01"))

	require.NoError(t, err)
	assert.Equal(t, 30, plazo.DiasPlazo)
	assert.Equal(t, "Art. 125 CPC", plazo.Articulo)
	assert.Equal(t, models.PlazoActivo, plazo.Estado)
	assert.Equal(t, fecha("2024-04-12"), plazo.FechaVencimiento)
	assert.Contains(t, f.notif.enviadas, models.NotificacionPlazoCreado)
}

func TestCrearPlazoTipoDesconocido(t *testing.T) {
	f := newFixturePlazo(t)

	_, err := f.svc.Crear(context.Background(), "p1", "PLAZO_INVENTADO", fecha("2024-03-01"))

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrTipoPlazoDesconocido.Code, appErr.Code)
	assert.Empty(t, f.repo.plazos)
}

func TestSweepAlertaPrimerUmbralNoRegistrado(t *testing.T) {
	f := newFixturePlazo(t)
	f.fixNow(fecha("2024-04-08")) // lunes; vence el viernes, quedan 4 hábiles
	f.repo.plazos["pl1"] = models.Plazo{
		ID: "pl1", ProcesoID: "p1", Tipo: models.PlazoContestacion,
		FechaVencimiento: fecha("2024-04-12"), Estado: models.PlazoActivo,
	}

	result, err := f.svc.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Revisados)
	assert.Equal(t, 1, result.Alertados)
	require.Len(t, f.repo.alertas["pl1"], 1)
	assert.Equal(t, 5, f.repo.alertas["pl1"][0].Umbral)
	assert.Equal(t, 4, f.repo.alertas["pl1"][0].DiasRestantes)
}

func TestSweepEsIdempotenteEnElMismoDia(t *testing.T) {
	f := newFixturePlazo(t)
	f.fixNow(fecha("2024-04-08"))
	f.repo.plazos["pl1"] = models.Plazo{
		ID: "pl1", ProcesoID: "p1", Tipo: models.PlazoContestacion,
		FechaVencimiento: fecha("2024-04-12"), Estado: models.PlazoActivo,
	}

	first, err := f.svc.Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, first.Alertados)

	second, err := f.svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.Alertados)
	assert.Zero(t, second.Vencidos)
	assert.Equal(t, 1, f.repo.totalAlertas())
}

func TestSweepEmiteUnaSolaAlertaPorPasada(t *testing.T) {
	f := newFixturePlazo(t)
	// Quedan 2 días hábiles: cruzó los umbrales 5 y 3 a la vez, pero sólo
	// el primero sin registrar se emite.
	f.fixNow(fecha("2024-04-10"))
	f.repo.plazos["pl1"] = models.Plazo{
		ID: "pl1", ProcesoID: "p1", Tipo: models.PlazoApelacion,
		FechaVencimiento: fecha("2024-04-12"), Estado: models.PlazoActivo,
	}

	result, err := f.svc.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Alertados)
	require.Len(t, f.repo.alertas["pl1"], 1)
	assert.Equal(t, 5, f.repo.alertas["pl1"][0].Umbral)

	// La siguiente pasada retoma el siguiente umbral pendiente.
	second, err := f.svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, second.Alertados)
	require.Len(t, f.repo.alertas["pl1"], 2)
	assert.Equal(t, 3, f.repo.alertas["pl1"][1].Umbral)
}

func TestSweepVencePlazosPasados(t *testing.T) {
	f := newFixturePlazo(t)
	f.fixNow(fecha("2024-04-15"))
	f.repo.plazos["pl1"] = models.Plazo{
		ID: "pl1", ProcesoID: "p1", Tipo: models.PlazoContestacion,
		FechaVencimiento: fecha("2024-04-12"), Estado: models.PlazoActivo,
	}

	result, err := f.svc.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Vencidos)
	assert.Equal(t, models.PlazoVencido, f.repo.plazos["pl1"].Estado)
	require.Len(t, f.repo.alertas["pl1"], 1)
	assert.Equal(t, models.UmbralVencido, f.repo.alertas["pl1"][0].Umbral)
	assert.Contains(t, f.notif.enviadas, models.NotificacionPlazoVencido)

	// Re-running does not re-expire nor re-notify.
	second, err := f.svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.Vencidos)
	assert.Equal(t, 1, f.repo.totalAlertas())
}

func TestSweepVenceExactamenteElDiaSiguiente(t *testing.T) {
	f := newFixturePlazo(t)
	f.repo.plazos["pl1"] = models.Plazo{
		ID: "pl1", ProcesoID: "p1", Tipo: models.PlazoSubsanacion,
		FechaVencimiento: fecha("2024-04-12"), Estado: models.PlazoActivo,
	}

	// El día del vencimiento el plazo sigue activo (quedan 0 días).
	f.fixNow(fecha("2024-04-12"))
	result, err := f.svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Vencidos)
	assert.Equal(t, models.PlazoActivo, f.repo.plazos["pl1"].Estado)

	// El siguiente día hábil ya está vencido.
	f.fixNow(fecha("2024-04-15"))
	result, err = f.svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Vencidos)
}

func TestSweepAislaFallasPorRegistro(t *testing.T) {
	f := newFixturePlazo(t)
	f.fixNow(fecha("2024-04-15"))
	f.repo.failID = "pl1"
	f.repo.plazos["pl1"] = models.Plazo{
		ID: "pl1", ProcesoID: "p1", Tipo: models.PlazoContestacion,
		FechaVencimiento: fecha("2024-04-12"), Estado: models.PlazoActivo,
	}
	f.repo.plazos["pl2"] = models.Plazo{
		ID: "pl2", ProcesoID: "p2", Tipo: models.PlazoApelacion,
		FechaVencimiento: fecha("2024-04-11"), Estado: models.PlazoActivo,
	}

	result, err := f.svc.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, result.Revisados)
	assert.Equal(t, 1, result.Fallidos)
	assert.Equal(t, 1, result.Vencidos)
	assert.Equal(t, models.PlazoVencido, f.repo.plazos["pl2"].Estado)
}

func TestSweepNotificaRepresentantes(t *testing.T) {
	f := newFixturePlazo(t)
	f.fixNow(fecha("2024-04-10"))
	abogado := "abogado-1"
	ciudadano := "ciudadano-1"
	f.partes.partes = map[string][]models.Parte{
		"p1": {
			{ProcesoID: "p1", Tipo: models.ParteActor, AbogadoID: &abogado, CiudadanoID: &ciudadano},
			{ProcesoID: "p1", Tipo: models.ParteDemandado, CiudadanoID: &ciudadano},
		},
	}
	f.repo.plazos["pl1"] = models.Plazo{
		ID: "pl1", ProcesoID: "p1", Tipo: models.PlazoSentencia,
		FechaVencimiento: fecha("2024-04-12"), Estado: models.PlazoActivo,
	}

	_, err := f.svc.Sweep(context.Background())

	require.NoError(t, err)
	require.Len(t, f.repo.alertas["pl1"], 1)
	// El abogado representa a la primera parte; la segunda cae al ciudadano.
	assert.Equal(t, 2, f.repo.alertas["pl1"][0].Destinatarios)
}

func TestMarcarCumplido(t *testing.T) {
	f := newFixturePlazo(t)
	f.repo.plazos["pl1"] = models.Plazo{ID: "pl1", ProcesoID: "p1", Estado: models.PlazoActivo}

	plazo, err := f.svc.MarcarCumplido(context.Background(), "pl1")
	require.NoError(t, err)
	assert.Equal(t, models.PlazoCumplido, plazo.Estado)

	// Marking again is a no-op.
	plazo, err = f.svc.MarcarCumplido(context.Background(), "pl1")
	require.NoError(t, err)
	assert.Equal(t, models.PlazoCumplido, plazo.Estado)
}

func TestMarcarCumplidoSobreVencidoFalla(t *testing.T) {
	f := newFixturePlazo(t)
	f.repo.plazos["pl1"] = models.Plazo{ID: "pl1", ProcesoID: "p1", Estado: models.PlazoVencido}

	_, err := f.svc.MarcarCumplido(context.Background(), "pl1")

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrEstadoPlazoInvalido.Code, appErr.Code)
}

func TestMarcarCumplidoInexistente(t *testing.T) {
	f := newFixturePlazo(t)

	_, err := f.svc.MarcarCumplido(context.Background(), "no-existe")

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestMasUrgente(t *testing.T) {
	f := newFixturePlazo(t)
	f.repo.plazos["pl1"] = models.Plazo{
		ID: "pl1", ProcesoID: "p1", Tipo: models.PlazoSentencia,
		FechaVencimiento: fecha("2024-05-10"), Estado: models.PlazoActivo,
	}
	f.repo.plazos["pl2"] = models.Plazo{
		ID: "pl2", ProcesoID: "p1", Tipo: models.PlazoApelacion,
		FechaVencimiento: fecha("2024-04-20"), Estado: models.PlazoActivo,
	}
	f.repo.plazos["pl3"] = models.Plazo{
		ID: "pl3", ProcesoID: "otro", Tipo: models.PlazoCitacion,
		FechaVencimiento: fecha("2024-04-01"), Estado: models.PlazoActivo,
	}

	urgente, err := f.svc.MasUrgente(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, urgente)
	assert.Equal(t, "pl2", urgente.ID)

	vacio, err := f.svc.MasUrgente(context.Background(), "sin-plazos")
	require.NoError(t, err)
	assert.Nil(t, vacio)
}

func TestCatalogoCompleto(t *testing.T) {
	esperados := map[models.TipoPlazo]int{
		models.PlazoContestacion:        30,
		models.PlazoObservacionDemanda:  3,
		models.PlazoSubsanacion:         3,
		models.PlazoCitacion:            5,
		models.PlazoAudienciaPreliminar: 5,
		models.PlazoSentencia:           15,
		models.PlazoApelacion:           10,
		models.PlazoExcepciones:         15,
		models.PlazoReconvencion:        30,
		models.PlazoCasacion:            10,
	}
	for tipo, dias := range esperados {
		espec, ok := CatalogoPlazos[tipo]
		require.True(t, ok, "falta %s en el catálogo", tipo)
		assert.Equal(t, dias, espec.DiasHabiles, "días de %s", tipo)
		assert.NotEmpty(t, espec.Articulo)
	}
}
