package docs

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDocumentRepository implements DocumentRepository using
// PostgreSQL.
type PostgresDocumentRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresDocumentRepository creates a new PostgreSQL document
// repository.
func NewPostgresDocumentRepository(pool *pgxpool.Pool) *PostgresDocumentRepository {
	return &PostgresDocumentRepository{
		pool: pool,
	}
}

const documentColumns = ` id, title, content, owner_id, created_at, updated_at `

func (r *PostgresDocumentRepository) Create(ctx context.Context, params CreateDocumentParams) (Document, error) {
	query := `
		INSERT INTO documents (title, content, owner_id)
		VALUES ($1, $2, $3)
		RETURNING` + documentColumns

	doc, err := r.scanDocument(r.pool.QueryRow(ctx, query, params.Title, params.Content, params.OwnerID))
	if err != nil {
		return Document{}, fmt.Errorf("failed to create document: %w", err)
	}
	return doc, nil
}

func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (Document, error) {
	query := `SELECT` + documentColumns + `FROM documents WHERE id = $1`

	doc, err := r.scanDocument(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, ErrDocumentNotFound
		}
		return Document{}, fmt.Errorf("failed to query document: %w", err)
	}
	return doc, nil
}

func (r *PostgresDocumentRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Document, error) {
	query := `SELECT` + documentColumns + `FROM documents WHERE owner_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	out := make([]Document, 0)
	for rows.Next() {
		doc, err := r.scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}
	return out, nil
}

func (r *PostgresDocumentRepository) Update(ctx context.Context, params UpdateDocumentParams) (Document, error) {
	query := `
		UPDATE documents
		SET title = $2, content = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING` + documentColumns

	doc, err := r.scanDocument(r.pool.QueryRow(ctx, query, params.ID, params.Title, params.Content))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, ErrDocumentNotFound
		}
		return Document{}, fmt.Errorf("failed to update document: %w", err)
	}
	return doc, nil
}

func (r *PostgresDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (r *PostgresDocumentRepository) scanDocument(row pgx.Row) (Document, error) {
	var doc Document
	err := row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.Content,
		&doc.OwnerID,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}
