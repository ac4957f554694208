package docs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doccollab/doccollab/pkg/errors"
	"github.com/doccollab/doccollab/pkg/notifier"
)

// eventRecorder collects published events so tests can assert on the
// asynchronous deliveries.
type eventRecorder struct {
	mu     sync.Mutex
	events []notifier.Event
	signal chan struct{}
}

func newEventRecorder() *eventRecorder {
	return &eventRecorder{signal: make(chan struct{}, 16)}
}

func (r *eventRecorder) handle(event notifier.Event) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
	r.signal <- struct{}{}
}

func (r *eventRecorder) wait(t *testing.T) notifier.Event {
	t.Helper()
	select {
	case <-r.signal:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func newTestService() (*DocumentService, *notifier.Notifier) {
	n := notifier.New()
	return NewDocumentService(NewInMemoryDocumentRepository(), n), n
}

func TestCreatePublishesEvent(t *testing.T) {
	svc, n := newTestService()
	rec := newEventRecorder()
	n.Subscribe("test", KindDocuments, notifier.Wildcard, rec.handle)

	owner := uuid.New()
	doc, err := svc.Create(context.Background(), CreateDocumentParams{
		Title:   "Meeting notes",
		Content: "agenda",
		OwnerID: owner,
	})
	require.NoError(t, err)
	assert.Equal(t, owner, doc.OwnerID)

	event := rec.wait(t)
	assert.Equal(t, notifier.ActionCreated, event.Action)
	assert.Equal(t, doc.ID.String(), event.ResourceID)
	record, ok := event.Record.(Document)
	require.True(t, ok)
	assert.Equal(t, "Meeting notes", record.Title)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), CreateDocumentParams{OwnerID: uuid.New()})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))

	_, err = svc.Create(context.Background(), CreateDocumentParams{Title: "untitled"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))
}

func TestUpdatePublishesEvent(t *testing.T) {
	svc, n := newTestService()

	doc, err := svc.Create(context.Background(), CreateDocumentParams{
		Title:   "draft",
		OwnerID: uuid.New(),
	})
	require.NoError(t, err)

	rec := newEventRecorder()
	n.Subscribe("test", KindDocuments, doc.ID.String(), rec.handle)

	updated, err := svc.Update(context.Background(), UpdateDocumentParams{
		ID:      doc.ID,
		Title:   "final",
		Content: "done",
	})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Title)
	assert.True(t, updated.UpdatedAt.After(doc.UpdatedAt) || updated.UpdatedAt.Equal(doc.UpdatedAt))

	event := rec.wait(t)
	assert.Equal(t, notifier.ActionUpdated, event.Action)
}

func TestUpdateUnknownDocument(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Update(context.Background(), UpdateDocumentParams{
		ID:    uuid.New(),
		Title: "ghost",
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestDeletePublishesPriorRecord(t *testing.T) {
	svc, n := newTestService()

	doc, err := svc.Create(context.Background(), CreateDocumentParams{
		Title:   "ephemeral",
		OwnerID: uuid.New(),
	})
	require.NoError(t, err)

	rec := newEventRecorder()
	n.Subscribe("test", KindDocuments, doc.ID.String(), rec.handle)

	require.NoError(t, svc.Delete(context.Background(), doc.ID))

	event := rec.wait(t)
	assert.Equal(t, notifier.ActionDeleted, event.Action)
	record, ok := event.Record.(Document)
	require.True(t, ok)
	assert.Equal(t, "ephemeral", record.Title)

	_, err = svc.Get(context.Background(), doc.ID)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestListByOwner(t *testing.T) {
	svc, _ := newTestService()
	owner := uuid.New()
	other := uuid.New()

	for _, title := range []string{"first", "second"} {
		_, err := svc.Create(context.Background(), CreateDocumentParams{Title: title, OwnerID: owner})
		require.NoError(t, err)
	}
	_, err := svc.Create(context.Background(), CreateDocumentParams{Title: "theirs", OwnerID: other})
	require.NoError(t, err)

	docs, err := svc.ListByOwner(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "first", docs[0].Title)
	assert.Equal(t, "second", docs[1].Title)
}

func TestServiceWithoutNotifier(t *testing.T) {
	svc := NewDocumentService(NewInMemoryDocumentRepository(), nil)

	doc, err := svc.Create(context.Background(), CreateDocumentParams{
		Title:   "quiet",
		OwnerID: uuid.New(),
	})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), doc.ID))
}
