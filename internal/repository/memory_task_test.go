package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timebuddy-app/timebuddy/internal/testutil"
)

func TestMemoryTaskRepo_CRUD(t *testing.T) {
	repo := NewMemoryTaskRepo()
	ctx := context.Background()

	task := testutil.NewTestTask("Gym")
	require.NoError(t, repo.Create(ctx, task))

	fetched, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gym", fetched.Title)

	fetched.StartTime = "07:00"
	fetched.EndTime = "08:00"
	require.NoError(t, repo.Update(ctx, fetched))

	again, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "07:00", again.StartTime)

	require.NoError(t, repo.Delete(ctx, task.ID))
	_, err = repo.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryTaskRepo_CopiesOnRead(t *testing.T) {
	repo := NewMemoryTaskRepo()
	ctx := context.Background()

	task := testutil.NewTestTask("Original")
	require.NoError(t, repo.Create(ctx, task))

	fetched, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	fetched.Title = "Mutated"

	again, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", again.Title)
}

func TestMemoryTaskRepo_ListSorted(t *testing.T) {
	repo := NewMemoryTaskRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("B", testutil.WithDate("2025-06-11"))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("A", testutil.WithDate("2025-06-10"))))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Title)
	assert.Equal(t, "B", list[1].Title)
}

func TestMemoryTaskRepo_DeleteMany_ReportsMissing(t *testing.T) {
	repo := NewMemoryTaskRepo()
	ctx := context.Background()

	a := testutil.NewTestTask("A")
	require.NoError(t, repo.Create(ctx, a))

	missing, err := repo.DeleteMany(ctx, []string{a.ID, "ghost"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ghost"}, missing)
}
