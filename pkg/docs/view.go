package docs

import (
	"sync"

	"github.com/doccollab/doccollab/pkg/notifier"
)

// DocumentView is a subscriber-side copy of one document. It subscribes
// to change events for its document and folds remote edits into local
// state with a last-write-wins policy on UpdatedAt: a remote revision
// older than or equal to the one already held is ignored. A remote
// delete closes the view.
//
// Handlers run on notifier goroutines, so all state is mutex-guarded.
type DocumentView struct {
	mu     sync.RWMutex
	doc    Document
	closed bool

	sub      *notifier.Subscription
	notifier *notifier.Notifier
}

// NewDocumentView creates a view of doc and subscribes it to remote
// changes. viewerID distinguishes this subscriber; a second view with
// the same viewerID on the same document replaces the first one's
// subscription.
func NewDocumentView(n *notifier.Notifier, viewerID string, doc Document) *DocumentView {
	v := &DocumentView{
		doc:      doc,
		notifier: n,
	}
	v.sub = n.Subscribe(viewerID, KindDocuments, doc.ID.String(), v.onEvent)
	return v
}

// Document returns the current local revision.
func (v *DocumentView) Document() Document {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.doc
}

// Closed reports whether the viewed document was deleted remotely or the
// view was closed.
func (v *DocumentView) Closed() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.closed
}

// ApplyLocal records a local edit as the current revision. The caller
// is expected to have written it through DocumentService already.
func (v *DocumentView) ApplyLocal(doc Document) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.doc = doc
}

// Close unsubscribes the view. Safe to call more than once.
func (v *DocumentView) Close() {
	v.mu.Lock()
	alreadyClosed := v.closed
	v.closed = true
	v.mu.Unlock()

	if !alreadyClosed {
		v.notifier.Unsubscribe(v.sub)
	}
}

func (v *DocumentView) onEvent(event notifier.Event) {
	if event.Action == notifier.ActionDeleted {
		v.Close()
		return
	}

	remote, ok := event.Record.(Document)
	if !ok {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	// Last write wins. Stale or concurrent-equal revisions lose to the
	// copy already held.
	if !remote.UpdatedAt.After(v.doc.UpdatedAt) {
		return
	}
	v.doc = remote
}
