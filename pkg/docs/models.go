package docs

import (
	"time"

	"github.com/google/uuid"
)

// KindDocuments is the notifier kind under which document changes are
// published.
const KindDocuments = "documents"

// Document is a collaborative document record.
type Document struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateDocumentParams holds the fields for Create.
type CreateDocumentParams struct {
	Title   string
	Content string
	OwnerID uuid.UUID
}

// UpdateDocumentParams holds the fields for Update.
type UpdateDocumentParams struct {
	ID      uuid.UUID
	Title   string
	Content string
}
