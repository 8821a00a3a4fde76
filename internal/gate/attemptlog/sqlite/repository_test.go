package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swifteats/checkout/internal/gate/attemptlog"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "checkout.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSaveAndGetLatest(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	base := time.Date(2024, time.April, 10, 12, 0, 0, 0, time.UTC)
	entries := []*attemptlog.Attempt{
		{CartID: "cart1", CustomerID: "cust1", Status: attemptlog.StatusStarted, GrandTotal: 23, CreatedAt: base},
		{CartID: "cart1", CustomerID: "cust1", Status: attemptlog.StatusBlocked, Prompt: "payment", Detail: "card expired", GrandTotal: 23, CreatedAt: base.Add(time.Second)},
		{CartID: "cart1", CustomerID: "cust1", Status: attemptlog.StatusCompleted, Detail: "ord_42", GrandTotal: 23, CreatedAt: base.Add(2 * time.Second)},
	}
	for _, e := range entries {
		require.NoError(t, repo.Save(ctx, e))
	}

	latest, err := repo.GetLatest(ctx, "cart1")
	require.NoError(t, err)
	assert.Equal(t, attemptlog.StatusCompleted, latest.Status)
	assert.Equal(t, "ord_42", latest.Detail)
	assert.Equal(t, 23.0, latest.GrandTotal)
	assert.True(t, latest.CreatedAt.Equal(base.Add(2*time.Second)))
}

func TestGetLatestUnknownCart(t *testing.T) {
	repo := openTestRepo(t)
	_, err := repo.GetLatest(context.Background(), "nope")
	assert.Error(t, err)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkout.db")

	repo, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), &attemptlog.Attempt{
		CartID: "cart1", CustomerID: "cust1", Status: attemptlog.StatusStarted, CreatedAt: time.Now().UTC(),
	}))
	require.NoError(t, repo.Close())

	// Re-opening applies the schema again without clobbering data.
	repo, err = Open(path)
	require.NoError(t, err)
	defer repo.Close()

	latest, err := repo.GetLatest(context.Background(), "cart1")
	require.NoError(t, err)
	assert.Equal(t, attemptlog.StatusStarted, latest.Status)
}
