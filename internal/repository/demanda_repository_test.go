package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newDemandaRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestDemandaRepositoryMarcarYRevertirPresentacion(t *testing.T) {
	db, mock, cleanup := newDemandaRepoMock(t)
	defer cleanup()

	repo := NewDemandaRepository(db)
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE demandas SET presentada_en = $2, updated_at = $2 WHERE id = $1")).
		WithArgs("demanda-1", ts).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.MarcarPresentada(context.Background(), "demanda-1", ts))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE demandas SET presentada_en = NULL, updated_at = $2 WHERE id = $1")).
		WithArgs("demanda-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.RevertirPresentacion(context.Background(), "demanda-1"))

	require.NoError(t, mock.ExpectationsWereMet())
}
