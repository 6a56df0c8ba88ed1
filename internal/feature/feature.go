package feature

import "github.com/dshills/bigfile/internal/document"

// Descriptor is a disableable editor capability.
// Descriptors are registered once at startup and looked up by name; the
// detection core never constructs them.
type Descriptor interface {
	// Name is the identifier rules reference.
	Name() string

	// Deferred reports whether the disable action must wait until the
	// document's initial content load completes.
	Deferred() bool

	// Disable turns the feature off for the document.
	// There is no re-enable path; disabling is one-way for the document's
	// lifetime in the session.
	Disable(doc *document.Document) error
}

// Func is a Descriptor backed by a plain function.
type Func struct {
	name     string
	deferred bool
	disable  func(doc *document.Document) error
}

// NewFunc creates a function-backed descriptor.
func NewFunc(name string, deferred bool, disable func(doc *document.Document) error) *Func {
	return &Func{name: name, deferred: deferred, disable: disable}
}

// Name returns the feature name.
func (f *Func) Name() string { return f.name }

// Deferred reports the deferred classification.
func (f *Func) Deferred() bool { return f.deferred }

// Disable invokes the wrapped function.
func (f *Func) Disable(doc *document.Document) error {
	return f.disable(doc)
}

// Toggle is a Descriptor that flips fields on the document's option block.
// All built-in features are toggles.
type Toggle struct {
	name     string
	deferred bool
	apply    func(*document.Options)
}

// NewToggle creates an option-toggle descriptor.
func NewToggle(name string, deferred bool, apply func(*document.Options)) *Toggle {
	return &Toggle{name: name, deferred: deferred, apply: apply}
}

// Name returns the feature name.
func (t *Toggle) Name() string { return t.name }

// Deferred reports the deferred classification.
func (t *Toggle) Deferred() bool { return t.deferred }

// Disable applies the toggle to the document's options. It never fails.
func (t *Toggle) Disable(doc *document.Document) error {
	doc.UpdateOptions(t.apply)
	return nil
}
