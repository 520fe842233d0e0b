//go:build integration

package docstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuraq/careadmin/internal/platform/db"
)

// exerciseStore runs the same contract against any backend.
func exerciseStore(t *testing.T, s Store, collection string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, s.Ping(ctx))

	idA, err := s.Insert(ctx, collection, map[string]any{"name": "Amal", "formType": "NHC"})
	require.NoError(t, err)
	idB, err := s.Insert(ctx, collection, map[string]any{"name": "Beena", "formType": "DHC"})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Delete(context.Background(), collection, idA)
		_ = s.Delete(context.Background(), collection, idB)
	})

	docs, err := s.Find(ctx, collection, Query{}.Where(Prefix("name", "Am")))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, idA, docs[0].ID)

	docs, err = s.Find(ctx, collection, Query{}.Where(Equal("formType", "DHC")))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Beena", docs[0].Data["name"])

	n, err := s.Count(ctx, collection)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(2))

	require.NoError(t, s.Delete(ctx, collection, idA))
	assert.ErrorIs(t, s.Delete(ctx, collection, idA), ErrNotFound)
}

func TestMongoStore_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	s, err := NewMongoStore(context.Background(), uri, "careadmin_test")
	require.NoError(t, err)
	defer s.Close(context.Background())

	exerciseStore(t, s, "integration_docs")
}

func TestPostgresStore_Integration(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, url, 4, 1)
	require.NoError(t, err)

	m, err := db.NewMigrator(pool, os.DirFS("../../../migrations"), "")
	require.NoError(t, err)
	_, err = m.Up(ctx)
	require.NoError(t, err)

	s := NewPostgresStore(pool)
	defer s.Close(ctx)

	exerciseStore(t, s, "integration_docs")
}
