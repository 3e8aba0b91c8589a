package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justicia-digital/procesos-api/internal/models"
	"github.com/justicia-digital/procesos-api/pkg/jobs"
)

type mockNotificacionStore struct {
	mu      sync.Mutex
	creadas []models.Notificacion
	hecho   chan struct{}
}

func newMockNotificacionStore() *mockNotificacionStore {
	return &mockNotificacionStore{hecho: make(chan struct{}, 8)}
}

func (m *mockNotificacionStore) Create(ctx context.Context, n *models.Notificacion) error {
	m.mu.Lock()
	m.creadas = append(m.creadas, *n)
	m.mu.Unlock()
	m.hecho <- struct{}{}
	return nil
}

func (m *mockNotificacionStore) ListByDestinatario(ctx context.Context, destinatarioID string, limit int) ([]models.Notificacion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Notificacion
	for _, n := range m.creadas {
		if n.DestinatarioID == destinatarioID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockNotificacionStore) MarcarLeida(ctx context.Context, id string) error {
	return nil
}

func (m *mockNotificacionStore) esperar(t *testing.T, n int) []models.Notificacion {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-m.hecho:
		case <-time.After(2 * time.Second):
			t.Fatal("la notificación nunca se persistió")
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Notificacion(nil), m.creadas...)
}

func TestNotificarPersisteUnaFilaPorDestinatario(t *testing.T) {
	store := newMockNotificacionStore()
	svc := NewNotificacionService(store, jobs.QueueConfig{Workers: 1}, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	svc.Notificar(context.Background(), []string{"abogado-1", "ciudadano-2"},
		models.NotificacionPlazoPorVencer, "p1", "vence en 5 días hábiles")

	filas := store.esperar(t, 2)
	require.Len(t, filas, 2)
	assert.Equal(t, "abogado-1", filas[0].DestinatarioID)
	assert.Equal(t, "ciudadano-2", filas[1].DestinatarioID)
	for _, n := range filas {
		assert.Equal(t, models.NotificacionPlazoPorVencer, n.Tipo)
		assert.Equal(t, "p1", n.ProcesoID)
		assert.Equal(t, "vence en 5 días hábiles", n.Mensaje)
		assert.False(t, n.Leida)
	}
}

func TestNotificarSinDestinatariosNoEncola(t *testing.T) {
	store := newMockNotificacionStore()
	svc := NewNotificacionService(store, jobs.QueueConfig{Workers: 1}, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	svc.Notificar(context.Background(), nil, models.NotificacionCambioEstado, "p1", "sin destinatarios")

	select {
	case <-store.hecho:
		t.Fatal("no debería persistirse ninguna fila")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNotificarAntesDeStartNoPierdeElProceso(t *testing.T) {
	store := newMockNotificacionStore()
	svc := NewNotificacionService(store, jobs.QueueConfig{Workers: 1}, nil)

	// La cola aún no arrancó: el aviso se descarta con un warning, nunca
	// con un error que alcance al emisor.
	svc.Notificar(context.Background(), []string{"abogado-1"}, models.NotificacionCambioEstado, "p1", "mensaje")

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Empty(t, store.creadas)
}
