package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPool(t *testing.T) (*Pool, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewPool(mockDB), mock
}

// TestNilConnectionHandling tests handling of nil connections
func TestNilConnectionHandling(t *testing.T) {
	t.Run("Close with nil DB pointer", func(t *testing.T) {
		pool := &Pool{DB: nil}
		pool.Close()
	})

	t.Run("Close with nil pool", func(t *testing.T) {
		var pool *Pool
		pool.Close()
	})
}

func TestClose(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	pool := NewPool(mockDB)
	mock.ExpectClose()

	pool.Close()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransaction(t *testing.T) {
	t.Run("Successful transaction", func(t *testing.T) {
		pool, mock := newMockPool(t)

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM reset_tokens").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := pool.Transaction(context.Background(), func(tx *sql.Tx) error {
			_, err := tx.ExecContext(context.Background(), "DELETE FROM reset_tokens WHERE user_id = $1", 1)
			return err
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Begin transaction failure", func(t *testing.T) {
		pool, mock := newMockPool(t)

		mock.ExpectBegin().WillReturnError(errors.New("begin error"))

		err := pool.Transaction(context.Background(), func(tx *sql.Tx) error {
			return nil
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to begin transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Function returns error", func(t *testing.T) {
		pool, mock := newMockPool(t)

		mock.ExpectBegin()
		mock.ExpectRollback()

		funcErr := errors.New("function error")
		err := pool.Transaction(context.Background(), func(tx *sql.Tx) error {
			return funcErr
		})

		assert.Equal(t, funcErr, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rollback failure after function error", func(t *testing.T) {
		pool, mock := newMockPool(t)

		mock.ExpectBegin()
		mock.ExpectRollback().WillReturnError(errors.New("rollback error"))

		funcErr := errors.New("function error")
		err := pool.Transaction(context.Background(), func(tx *sql.Tx) error {
			return funcErr
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to rollback transaction")
		assert.ErrorIs(t, err, funcErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Commit failure", func(t *testing.T) {
		pool, mock := newMockPool(t)

		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("commit error"))

		err := pool.Transaction(context.Background(), func(tx *sql.Tx) error {
			return nil
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to commit transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Panic in function", func(t *testing.T) {
		pool, mock := newMockPool(t)

		mock.ExpectBegin()
		mock.ExpectRollback()

		defer func() {
			r := recover()
			assert.Equal(t, "panic test", r)
			assert.NoError(t, mock.ExpectationsWereMet())
		}()

		_ = pool.Transaction(context.Background(), func(tx *sql.Tx) error {
			panic("panic test")
		})
	})
}

func TestHealthCheck(t *testing.T) {
	t.Run("Successful health check", func(t *testing.T) {
		pool, mock := newMockPool(t)

		mock.ExpectPing()
		mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

		assert.NoError(t, pool.HealthCheck(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Ping failure", func(t *testing.T) {
		pool, mock := newMockPool(t)

		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		err := pool.HealthCheck(context.Background())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "database health check failed")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Query failure", func(t *testing.T) {
		pool, mock := newMockPool(t)

		mock.ExpectPing()
		mock.ExpectQuery("SELECT 1").WillReturnError(errors.New("query error"))

		err := pool.HealthCheck(context.Background())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "database query test failed")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unexpected result", func(t *testing.T) {
		pool, mock := newMockPool(t)

		mock.ExpectPing()
		mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(2))

		err := pool.HealthCheck(context.Background())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "database returned unexpected result")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
