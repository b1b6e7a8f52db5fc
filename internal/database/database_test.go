package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestOpenWithOptions_RetriesPing(t *testing.T) {
	_, mock, err := sqlmock.NewWithDSN("retry-dsn", sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectPing()

	db, err := OpenWithOptions(context.Background(), "sqlmock", "retry-dsn", Options{
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		Retries:      2,
		RetryBackoff: time.Millisecond,
	})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenWithOptions_GivesUp(t *testing.T) {
	_, mock, err := sqlmock.NewWithDSN("dead-dsn", sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	mock.ExpectPing().WillReturnError(errors.New("down"))
	mock.ExpectPing().WillReturnError(errors.New("down"))

	_, err = OpenWithOptions(context.Background(), "sqlmock", "dead-dsn", Options{
		Retries:      1,
		RetryBackoff: time.Millisecond,
	})
	require.Error(t, err)
}
