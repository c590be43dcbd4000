package queries_test

import (
	"path/filepath"
	"testing"
	"time"

	postgres_adapter "logistics/internal/adapters/out/postgres"
	"logistics/internal/core/application/usecases/queries"
	"logistics/internal/core/domain/model/snapshot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSavedSlotsQueryHandler_Handle(t *testing.T) {
	db, err := postgres_adapter.Open(postgres_adapter.DriverSQLite, filepath.Join(t.TempDir(), "slots.db"), nil)
	require.NoError(t, err)
	handler := queries.NewGetSavedSlotsQueryHandler(db)

	t.Run("should return an empty slice without saves", func(t *testing.T) {
		result, err := handler.Handle(t.Context(), queries.NewGetSavedSlotsQuery())

		require.NoError(t, err)
		assert.NotNil(t, result)
		assert.Empty(t, result)
	})

	t.Run("should count rows per slot in name order", func(t *testing.T) {
		store, err := postgres_adapter.NewSnapshotStore(postgres_adapter.NewGormUnitOfWorkFactory(db))
		require.NoError(t, err)

		savedAt := time.Date(2026, 5, 1, 8, 30, 0, 0, time.UTC)
		require.NoError(t, store.Save(t.Context(), "quicksave", snapshot.Snapshot{
			SchemaVersion: 1,
			SavedAt:       savedAt,
			Jobs: []snapshot.Job{
				{ID: 1, Resource: "bread", Quantity: 5, Status: "Planned"},
				{ID: 2, Resource: "bread", Quantity: 5, Status: "Planned"},
			},
			Queue:  []int64{1, 2},
			Routes: []snapshot.Route{{ID: 1, Resource: "wheat", Period: 10, Capacity: 4}},
		}))
		require.NoError(t, store.Save(t.Context(), "autosave", snapshot.Snapshot{SchemaVersion: 1, SavedAt: savedAt}))

		result, err := handler.Handle(t.Context(), queries.NewGetSavedSlotsQuery())

		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, "autosave", result[0].Name)
		assert.Zero(t, result[0].Jobs)
		assert.Equal(t, "quicksave", result[1].Name)
		assert.Equal(t, 2, result[1].Jobs)
		assert.Equal(t, 0, result[1].Orders)
		assert.Equal(t, 1, result[1].Routes)
		assert.Equal(t, 1, result[1].SchemaVersion)
		assert.True(t, savedAt.Equal(result[1].SavedAt))
	})

	t.Run("should reject a zero query", func(t *testing.T) {
		_, err := handler.Handle(t.Context(), queries.GetSavedSlotsQuery{})
		require.ErrorIs(t, err, queries.ErrGetSavedSlotsQueryIsNotConstructed)
	})
}
