package docs

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryDocumentRepository implements DocumentRepository using
// in-memory storage, suitable for tests and demos.
type InMemoryDocumentRepository struct {
	mutex     sync.RWMutex
	documents map[uuid.UUID]Document
}

// NewInMemoryDocumentRepository creates an empty in-memory repository.
func NewInMemoryDocumentRepository() *InMemoryDocumentRepository {
	return &InMemoryDocumentRepository{
		documents: make(map[uuid.UUID]Document),
	}
}

func (r *InMemoryDocumentRepository) Create(ctx context.Context, params CreateDocumentParams) (Document, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := time.Now().UTC()
	doc := Document{
		ID:        uuid.New(),
		Title:     params.Title,
		Content:   params.Content,
		OwnerID:   params.OwnerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.documents[doc.ID] = doc
	return doc, nil
}

func (r *InMemoryDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (Document, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	doc, ok := r.documents[id]
	if !ok {
		return Document{}, ErrDocumentNotFound
	}
	return doc, nil
}

func (r *InMemoryDocumentRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Document, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := make([]Document, 0)
	for _, doc := range r.documents {
		if doc.OwnerID == ownerID {
			out = append(out, doc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *InMemoryDocumentRepository) Update(ctx context.Context, params UpdateDocumentParams) (Document, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	doc, ok := r.documents[params.ID]
	if !ok {
		return Document{}, ErrDocumentNotFound
	}

	doc.Title = params.Title
	doc.Content = params.Content
	doc.UpdatedAt = time.Now().UTC()
	r.documents[params.ID] = doc
	return doc, nil
}

func (r *InMemoryDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.documents[id]; !ok {
		return ErrDocumentNotFound
	}
	delete(r.documents, id)
	return nil
}
