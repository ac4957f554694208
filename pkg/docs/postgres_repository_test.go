package docs

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDatabase(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithInitScripts(filepath.Join("../../migrations", "doccollab_db.sql")),
		postgres.WithDatabase("doccollab_db"),
		postgres.WithUsername("doccollab"),
		postgres.WithPassword("pwd"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	connString, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

// insertOwner satisfies the documents foreign key without going through
// the session package.
func insertOwner(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO accounts (id, email, username, password_hash) VALUES ($1, $2, $3, $4)`,
		id, id.String()+"@example.com", id.String(), []byte("x"))
	require.NoError(t, err)
	return id
}

func TestPostgresDocumentRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	pool, cleanup := setupTestDatabase(t)
	defer cleanup()

	repo := NewPostgresDocumentRepository(pool)
	owner := insertOwner(t, pool)

	created, err := repo.Create(ctx, CreateDocumentParams{
		Title:   "Meeting notes",
		Content: "agenda",
		OwnerID: owner,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, owner, created.OwnerID)

	t.Run("GetByID", func(t *testing.T) {
		doc, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Meeting notes", doc.Title)

		_, err = repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("ListByOwner", func(t *testing.T) {
		_, err := repo.Create(ctx, CreateDocumentParams{
			Title:   "Second",
			OwnerID: owner,
		})
		require.NoError(t, err)

		other := insertOwner(t, pool)
		_, err = repo.Create(ctx, CreateDocumentParams{
			Title:   "Theirs",
			OwnerID: other,
		})
		require.NoError(t, err)

		docs, err := repo.ListByOwner(ctx, owner)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "Meeting notes", docs[0].Title)
		assert.Equal(t, "Second", docs[1].Title)
	})

	t.Run("Update", func(t *testing.T) {
		updated, err := repo.Update(ctx, UpdateDocumentParams{
			ID:      created.ID,
			Title:   "Final notes",
			Content: "minutes",
		})
		require.NoError(t, err)
		assert.Equal(t, "Final notes", updated.Title)
		assert.Equal(t, "minutes", updated.Content)

		_, err = repo.Update(ctx, UpdateDocumentParams{ID: uuid.New(), Title: "ghost"})
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, created.ID))
		assert.ErrorIs(t, repo.Delete(ctx, created.ID), ErrDocumentNotFound)

		_, err := repo.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})
}
