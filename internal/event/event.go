package event

import (
	"context"

	"github.com/dshills/bigfile/internal/document"
)

// Topic identifies an event kind on the bus.
type Topic string

// Topics published during a document's open/load cycle.
// The host guarantees that for a given document the pre-load trigger always
// precedes the matching post-load trigger, and that triggers for one
// document never run concurrently.
const (
	// TopicDocumentPreLoad fires when a document is opened, before its
	// content is loaded.
	TopicDocumentPreLoad Topic = "document.load.pre"

	// TopicDocumentPostLoad fires once a document's initial content load
	// has completed. It fires at most once per open/load cycle.
	TopicDocumentPostLoad Topic = "document.load.post"
)

// DocumentOpened is the payload for TopicDocumentPreLoad.
type DocumentOpened struct {
	// Doc is the document being opened.
	Doc *document.Document
}

// DocumentLoaded is the payload for TopicDocumentPostLoad.
type DocumentLoaded struct {
	// Doc is the document whose content finished loading.
	Doc *document.Document
}

// Handler processes a published event.
type Handler interface {
	Handle(ctx context.Context, event any) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, event any) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

// FilterFunc decides whether an event is delivered to a subscription.
type FilterFunc func(event any) bool

// FilterDocumentPath builds a filter that passes document events whose
// backing path satisfies pred.
func FilterDocumentPath(pred func(path string) bool) FilterFunc {
	return func(event any) bool {
		switch e := event.(type) {
		case DocumentOpened:
			return pred(e.Doc.Path())
		case DocumentLoaded:
			return pred(e.Doc.Path())
		default:
			return false
		}
	}
}

// FilterDocumentID builds a filter that passes document events for exactly
// one document.
func FilterDocumentID(id document.ID) FilterFunc {
	return func(event any) bool {
		switch e := event.(type) {
		case DocumentOpened:
			return e.Doc.ID() == id
		case DocumentLoaded:
			return e.Doc.ID() == id
		default:
			return false
		}
	}
}
