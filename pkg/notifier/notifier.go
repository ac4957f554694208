package notifier

import (
	"log/slog"
	"sync"
)

// Action identifies what happened to a resource.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Wildcard subscribes to every resource of a kind.
const Wildcard = "*"

// Event is a change notification for a single resource. Events are
// ephemeral; they are delivered, never stored.
type Event struct {
	Kind       string      `json:"kind"`
	ResourceID string      `json:"resource_id"`
	Action     Action      `json:"action"`
	Record     interface{} `json:"record,omitempty"`
}

// Handler receives events for a subscription. Handlers run on their own
// goroutine; a panicking handler is recovered and logged without
// affecting other handlers or the publisher.
type Handler func(Event)

// Subscription is the handle returned by Subscribe. It identifies one
// registration generation, so unsubscribing a handle that was already
// replaced or removed is a no-op.
type Subscription struct {
	key subKey
	gen uint64
}

type subKey struct {
	subscriber string
	kind       string
	target     string
}

type subEntry struct {
	gen     uint64
	handler Handler
}

// Notifier maintains per-resource subscriber lists and fans change
// events out to matching handlers. It is safe for concurrent use:
// Publish may run from an I/O callback while views subscribe and
// unsubscribe.
type Notifier struct {
	mu   sync.RWMutex
	gen  uint64
	subs map[subKey]subEntry
}

// New creates an empty Notifier.
func New() *Notifier {
	return &Notifier{
		subs: make(map[subKey]subEntry),
	}
}

// Subscribe registers handler for events of the given kind whose
// resource ID equals target, or for all resources of the kind when
// target is Wildcard. At most one subscription exists per
// (subscriberID, kind, target); subscribing again replaces the previous
// handler rather than adding a second one.
func (n *Notifier) Subscribe(subscriberID, kind, target string, handler Handler) *Subscription {
	key := subKey{subscriber: subscriberID, kind: kind, target: target}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.gen++
	n.subs[key] = subEntry{gen: n.gen, handler: handler}

	return &Subscription{key: key, gen: n.gen}
}

// Unsubscribe removes the subscription identified by sub. Removing an
// already-removed or replaced subscription is a no-op.
func (n *Notifier) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if entry, ok := n.subs[sub.key]; ok && entry.gen == sub.gen {
		delete(n.subs, sub.key)
	}
}

// Publish delivers event to every handler whose target matches the
// event's resource ID exactly or is the wildcard for the event's kind.
// The subscriber list is snapshotted under the lock, so a concurrent
// subscribe or unsubscribe is observed either fully or not at all.
// Each handler runs on its own goroutine; a slow or panicking handler
// cannot block the publisher or starve other handlers.
func (n *Notifier) Publish(event Event) {
	n.mu.RLock()
	matched := make([]Handler, 0, len(n.subs))
	for key, entry := range n.subs {
		if key.kind != event.Kind {
			continue
		}
		if key.target == event.ResourceID || key.target == Wildcard {
			matched = append(matched, entry.handler)
		}
	}
	n.mu.RUnlock()

	for _, handler := range matched {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("Change handler panicked", "kind", event.Kind, "resourceId", event.ResourceID, "panic", r)
				}
			}()
			h(event)
		}(handler)
	}
}

// SubscriberCount returns the number of live subscriptions, for
// diagnostics and tests.
func (n *Notifier) SubscriberCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs)
}
