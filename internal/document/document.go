package document

import "sync"

// ID uniquely identifies a document within the host session.
type ID string

// Document is an open file/buffer handle.
// All methods are thread-safe.
type Document struct {
	mu    sync.RWMutex
	id    ID
	path  string
	opts  Options
	flags map[string]any
}

// Option is a functional option for configuring a Document.
type Option func(*Document)

// WithPath sets the backing file path.
// Documents without a backing path (scratch buffers) never have a probeable size.
func WithPath(path string) Option {
	return func(d *Document) {
		d.path = path
	}
}

// WithOptions sets the initial option block.
func WithOptions(opts Options) Option {
	return func(d *Document) {
		d.opts = opts
	}
}

// New creates a document with the given identity.
func New(id ID, opts ...Option) *Document {
	d := &Document{
		id:    id,
		opts:  DefaultOptions(),
		flags: make(map[string]any),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ID returns the document's identity.
func (d *Document) ID() ID {
	return d.id
}

// Path returns the backing file path, or "" if the document has none.
func (d *Document) Path() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.path
}

// Options returns a copy of the document's option block.
func (d *Document) Options() Options {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.opts
}

// UpdateOptions applies fn to the document's option block under the lock.
func (d *Document) UpdateOptions(fn func(*Options)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(&d.opts)
}

// Flag returns a document-scoped flag value.
func (d *Document) Flag(key string) (any, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.flags[key]
	return v, ok
}

// SetFlag sets a document-scoped flag value.
func (d *Document) SetFlag(key string, value any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flags[key] = value
}
