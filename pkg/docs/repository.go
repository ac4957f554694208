package docs

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrDocumentNotFound is returned when no document exists with the
// given ID.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentRepository defines the interface for document storage.
type DocumentRepository interface {
	Create(ctx context.Context, params CreateDocumentParams) (Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (Document, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Document, error)
	Update(ctx context.Context, params UpdateDocumentParams) (Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
