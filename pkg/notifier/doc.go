// Package notifier provides publish/subscribe change notification for doccollab.
//
// Views subscribe to a resource kind by exact ID or by wildcard, and are
// handed Event values whenever the backing store reports a write. The
// notifier is purely a delivery mechanism: conflict resolution between a
// remote event and local optimistic state belongs to the subscriber (see
// the docs package's DocumentView).
//
// # Basic Usage
//
//	n := notifier.New()
//
//	sub := n.Subscribe("dashboard", "documents", notifier.Wildcard, func(e notifier.Event) {
//		// refresh list
//	})
//	defer n.Unsubscribe(sub)
//
//	n.Publish(notifier.Event{
//		Kind:       "documents",
//		ResourceID: doc.ID.String(),
//		Action:     notifier.ActionUpdated,
//		Record:     doc,
//	})
package notifier
