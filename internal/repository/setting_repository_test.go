package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingRepository_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT value FROM settings").
		WithArgs("info_text").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow("Добро пожаловать!"))

	repo := NewSettingRepository(mock)

	value, err := repo.Get(context.Background(), "info_text")
	require.NoError(t, err)
	assert.Equal(t, "Добро пожаловать!", value)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingRepository_GetMissingKey(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT value FROM settings").
		WithArgs("info_text").
		WillReturnError(pgx.ErrNoRows)

	repo := NewSettingRepository(mock)

	// Отсутствующий ключ — не ошибка, а пустое значение
	value, err := repo.Get(context.Background(), "info_text")
	require.NoError(t, err)
	assert.Empty(t, value)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingRepository_Upsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO settings").
		WithArgs("info_text", "Новый текст").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewSettingRepository(mock)

	require.NoError(t, repo.Upsert(context.Background(), "info_text", "Новый текст"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
