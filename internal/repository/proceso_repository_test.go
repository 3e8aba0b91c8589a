package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/justicia-digital/procesos-api/internal/models"
)

func newProcesoRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func procesoRows(id, nurej string, estado models.EstadoProceso) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "nurej", "caratula", "tipo_proceso", "estado", "juez_id", "juzgado", "cuantia", "created_at", "updated_at"}).
		AddRow(id, nurej, "Pérez vs. Mamani", "ORDINARIO", estado, "juez-1", "Juzgado 4to Civil", nil, time.Now(), time.Now())
}

func TestProcesoRepositoryCreateAndGet(t *testing.T) {
	db, mock, cleanup := newProcesoRepoMock(t)
	defer cleanup()

	repo := NewProcesoRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO procesos")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	proceso := &models.Proceso{
		Nurej:       "20240101",
		Caratula:    "Pérez vs. Mamani",
		TipoProceso: "ORDINARIO",
		Estado:      models.EstadoBorrador,
		JuezID:      "juez-1",
		Juzgado:     "Juzgado 4to Civil",
	}
	require.NoError(t, repo.Create(context.Background(), proceso))
	require.NotEmpty(t, proceso.ID)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, nurej, caratula")).
		WithArgs(proceso.ID).
		WillReturnRows(procesoRows(proceso.ID, proceso.Nurej, models.EstadoBorrador))

	found, err := repo.GetByID(context.Background(), proceso.ID)
	require.NoError(t, err)
	require.Equal(t, "20240101", found.Nurej)
	require.Equal(t, models.EstadoBorrador, found.Estado)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProcesoRepositoryGetByNurejNotFound(t *testing.T) {
	db, mock, cleanup := newProcesoRepoMock(t)
	defer cleanup()

	repo := NewProcesoRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, nurej, caratula")).
		WithArgs("99999999").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByNurej(context.Background(), "99999999")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProcesoRepositoryListWithFilters(t *testing.T) {
	db, mock, cleanup := newProcesoRepoMock(t)
	defer cleanup()

	repo := NewProcesoRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, nurej, caratula")).
		WillReturnRows(procesoRows("proceso-1", "20240101", models.EstadoAdmitido))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	procesos, total, err := repo.List(context.Background(), models.ProcesoFilter{
		Estado: []models.EstadoProceso{models.EstadoAdmitido},
		JuezID: "juez-1",
		Page:   1,
	})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, procesos, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProcesoRepositoryUpdateEstadoGuard(t *testing.T) {
	db, mock, cleanup := newProcesoRepoMock(t)
	defer cleanup()

	repo := NewProcesoRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE procesos SET estado")).
		WithArgs("proceso-1", models.EstadoPresentado, models.EstadoAdmitido, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateEstado(context.Background(), db, "proceso-1", models.EstadoPresentado, models.EstadoAdmitido))

	// A stale expected state matches zero rows.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE procesos SET estado")).
		WithArgs("proceso-1", models.EstadoPresentado, models.EstadoAdmitido, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateEstado(context.Background(), db, "proceso-1", models.EstadoPresentado, models.EstadoAdmitido)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProcesoRepositoryUpdateEstadoInTransaction(t *testing.T) {
	db, mock, cleanup := newProcesoRepoMock(t)
	defer cleanup()

	repo := NewProcesoRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE procesos SET estado")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	tx, err := repo.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateEstado(context.Background(), tx, "proceso-1", models.EstadoAdmitido, models.EstadoCitacionPendiente))
	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}
