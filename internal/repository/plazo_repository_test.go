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

func newPlazoRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestPlazoRepositoryCreateAndGet(t *testing.T) {
	db, mock, cleanup := newPlazoRepoMock(t)
	defer cleanup()

	repo := NewPlazoRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO plazos")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	plazo := &models.Plazo{
		ProcesoID:        "proceso-1",
		Tipo:             models.PlazoContestacion,
		Descripcion:      "Plazo para contestar la demanda",
		Articulo:         "Art. 125 CPC",
		DiasPlazo:        30,
		FechaInicio:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		FechaVencimiento: time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC),
		Estado:           models.PlazoActivo,
	}
	require.NoError(t, repo.Create(context.Background(), nil, plazo))
	require.NotEmpty(t, plazo.ID)

	rows := sqlmock.NewRows([]string{"id", "proceso_id", "tipo", "descripcion", "articulo", "dias_plazo", "fecha_inicio", "fecha_vencimiento", "estado", "created_at", "updated_at"}).
		AddRow(plazo.ID, plazo.ProcesoID, plazo.Tipo, plazo.Descripcion, plazo.Articulo, plazo.DiasPlazo, plazo.FechaInicio, plazo.FechaVencimiento, plazo.Estado, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, proceso_id, tipo")).
		WithArgs(plazo.ID).
		WillReturnRows(rows)

	found, err := repo.GetByID(context.Background(), plazo.ID)
	require.NoError(t, err)
	require.Equal(t, models.PlazoContestacion, found.Tipo)
	require.Equal(t, 30, found.DiasPlazo)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlazoRepositoryCreateInTransaction(t *testing.T) {
	db, mock, cleanup := newPlazoRepoMock(t)
	defer cleanup()

	repo := NewPlazoRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO plazos")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), tx, &models.Plazo{
		ProcesoID: "proceso-1",
		Tipo:      models.PlazoCitacion,
		Estado:    models.PlazoActivo,
	}))
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlazoRepositoryUpdateEstadoGuard(t *testing.T) {
	db, mock, cleanup := newPlazoRepoMock(t)
	defer cleanup()

	repo := NewPlazoRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE plazos SET estado")).
		WithArgs("plazo-1", models.PlazoVencido, sqlmock.AnyArg(), models.PlazoActivo).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateEstado(context.Background(), "plazo-1", models.PlazoVencido))

	// A record no longer ACTIVO matches zero rows and reports it.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE plazos SET estado")).
		WithArgs("plazo-1", models.PlazoCumplido, sqlmock.AnyArg(), models.PlazoActivo).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateEstado(context.Background(), "plazo-1", models.PlazoCumplido)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlazoRepositoryAppendAlertaConflict(t *testing.T) {
	db, mock, cleanup := newPlazoRepoMock(t)
	defer cleanup()

	repo := NewPlazoRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO plazo_alertas")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	inserted, err := repo.AppendAlerta(context.Background(), &models.AlertaPlazo{PlazoID: "plazo-1", Umbral: 5, DiasRestantes: 4})
	require.NoError(t, err)
	require.True(t, inserted)

	// The UNIQUE (plazo_id, umbral) conflict swallows the duplicate.
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO plazo_alertas")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	inserted, err = repo.AppendAlerta(context.Background(), &models.AlertaPlazo{PlazoID: "plazo-1", Umbral: 5, DiasRestantes: 4})
	require.NoError(t, err)
	require.False(t, inserted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlazoRepositoryUmbralesAlertados(t *testing.T) {
	db, mock, cleanup := newPlazoRepoMock(t)
	defer cleanup()

	repo := NewPlazoRepository(db)
	rows := sqlmock.NewRows([]string{"umbral"}).AddRow(5).AddRow(3)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT umbral FROM plazo_alertas")).
		WithArgs("plazo-1").
		WillReturnRows(rows)

	umbrales, err := repo.UmbralesAlertados(context.Background(), "plazo-1")
	require.NoError(t, err)
	require.Len(t, umbrales, 2)
	_, ok := umbrales[5]
	require.True(t, ok)
	_, ok = umbrales[1]
	require.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlazoRepositoryListActivosByProceso(t *testing.T) {
	db, mock, cleanup := newPlazoRepoMock(t)
	defer cleanup()

	repo := NewPlazoRepository(db)
	rows := sqlmock.NewRows([]string{"id", "proceso_id", "tipo", "descripcion", "articulo", "dias_plazo", "fecha_inicio", "fecha_vencimiento", "estado", "created_at", "updated_at"}).
		AddRow("plazo-1", "proceso-1", models.PlazoSentencia, "Plazo para dictar sentencia", "Art. 216 CPC", 15, time.Now(), time.Now().AddDate(0, 0, 21), models.PlazoActivo, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, proceso_id, tipo")).
		WithArgs("proceso-1", models.PlazoActivo).
		WillReturnRows(rows)

	plazos, err := repo.ListActivosByProceso(context.Background(), "proceso-1")
	require.NoError(t, err)
	require.Len(t, plazos, 1)
	require.Equal(t, models.PlazoSentencia, plazos[0].Tipo)
	require.NoError(t, mock.ExpectationsWereMet())
}
