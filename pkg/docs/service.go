package docs

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/doccollab/doccollab/pkg/errors"
	"github.com/doccollab/doccollab/pkg/notifier"
)

// DocumentService wraps a repository and publishes a change event after
// every successful write, so subscribed views hear about remote edits.
type DocumentService struct {
	repo     DocumentRepository
	notifier *notifier.Notifier
}

// NewDocumentService creates a DocumentService. The notifier may be nil,
// in which case writes simply go unannounced.
func NewDocumentService(repo DocumentRepository, n *notifier.Notifier) *DocumentService {
	return &DocumentService{
		repo:     repo,
		notifier: n,
	}
}

// Create stores a new document and announces it.
func (s *DocumentService) Create(ctx context.Context, params CreateDocumentParams) (Document, error) {
	if params.Title == "" {
		return Document{}, errors.New(errors.ErrCodeInvalidInput, "title cannot be empty")
	}
	if params.OwnerID == uuid.Nil {
		return Document{}, errors.New(errors.ErrCodeInvalidInput, "owner is required")
	}

	doc, err := s.repo.Create(ctx, params)
	if err != nil {
		slog.Error("Failed to create document", "err", err)
		return Document{}, errors.Wrap(err, errors.ErrCodeInternal, "failed to create document")
	}

	s.publish(doc, notifier.ActionCreated)
	return doc, nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, id uuid.UUID) (Document, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, ErrDocumentNotFound) {
			return Document{}, errors.New(errors.ErrCodeNotFound, "document not found")
		}
		return Document{}, errors.Wrap(err, errors.ErrCodeInternal, "failed to get document")
	}
	return doc, nil
}

// ListByOwner returns the owner's documents ordered by creation time.
func (s *DocumentService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Document, error) {
	docs, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list documents")
	}
	return docs, nil
}

// Update overwrites a document's title and content and announces the
// change.
func (s *DocumentService) Update(ctx context.Context, params UpdateDocumentParams) (Document, error) {
	if params.Title == "" {
		return Document{}, errors.New(errors.ErrCodeInvalidInput, "title cannot be empty")
	}

	doc, err := s.repo.Update(ctx, params)
	if err != nil {
		if stderrors.Is(err, ErrDocumentNotFound) {
			return Document{}, errors.New(errors.ErrCodeNotFound, "document not found")
		}
		slog.Error("Failed to update document", "documentId", params.ID, "err", err)
		return Document{}, errors.Wrap(err, errors.ErrCodeInternal, "failed to update document")
	}

	s.publish(doc, notifier.ActionUpdated)
	return doc, nil
}

// Delete removes a document and announces the deletion. The published
// record carries the document as it was before removal.
func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, ErrDocumentNotFound) {
			return errors.New(errors.ErrCodeNotFound, "document not found")
		}
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to get document")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if stderrors.Is(err, ErrDocumentNotFound) {
			return errors.New(errors.ErrCodeNotFound, "document not found")
		}
		slog.Error("Failed to delete document", "documentId", id, "err", err)
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to delete document")
	}

	s.publish(doc, notifier.ActionDeleted)
	return nil
}

func (s *DocumentService) publish(doc Document, action notifier.Action) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(notifier.Event{
		Kind:       KindDocuments,
		ResourceID: doc.ID.String(),
		Action:     action,
		Record:     doc,
	})
}
