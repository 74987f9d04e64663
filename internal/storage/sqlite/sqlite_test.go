package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"
	"finance-tracker/internal/storage/storagetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestSQLiteStorage(t *testing.T) {
	dir := t.TempDir()
	n := 0

	suite.Run(t, &storagetest.Suite{
		NewStorage: func() storage.Storage {
			n++
			s, err := Open(context.Background(), filepath.Join(dir, fmt.Sprintf("test-%d.db", n)), true)
			require.NoError(t, err)
			return s
		},
	})
}

func TestDataSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "finance.db")

	s, err := Open(ctx, path, true)
	require.NoError(t, err)

	created, err := s.CreateSalary(ctx, domain.NewSalary{
		Amount: domain.MustAmount("4200.50"), Month: "June", Year: 2024,
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// второй запуск миграций ничего не меняет
	s, err = Open(ctx, path, true)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetSalary(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "4200.50", got.Amount.String())
	assert.Equal(t, *created, *got)
}
