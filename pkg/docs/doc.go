// Package docs implements document storage and the change-event plumbing
// that keeps open views in sync.
//
// DocumentService wraps a DocumentRepository and publishes a
// notifier.Event on the "documents" kind after every successful write.
// DocumentView subscribes to those events for one document and merges
// remote edits with a last-write-wins policy on UpdatedAt; a remote
// delete closes the view.
package docs
