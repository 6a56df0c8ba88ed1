// Package probe determines a document's on-disk size in rounded size-units.
//
// Probing is a single synchronous metadata query with no caching or retries.
// A document with no backing path, or whose stat fails for any reason, has
// an unknown size; that is a normal "cannot classify" outcome, not an error.
package probe

import (
	"io/fs"
	"os"

	"github.com/dshills/bigfile/internal/document"
)

// DefaultUnit is one size-unit in bytes (1 MiB).
const DefaultUnit int64 = 1 << 20

// StatFS is the filesystem seam the prober queries.
// It exists so tests can substitute an in-memory implementation.
type StatFS interface {
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements StatFS against the operating system.
type OSFS struct{}

// Stat returns file information from the OS.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Prober converts document byte sizes into whole size-units.
type Prober struct {
	fs   StatFS
	unit int64
}

// Option configures a Prober.
type Option func(*Prober)

// WithFS sets the filesystem implementation.
func WithFS(fsys StatFS) Option {
	return func(p *Prober) {
		p.fs = fsys
	}
}

// WithUnit sets the size-unit in bytes.
func WithUnit(bytes int64) Option {
	return func(p *Prober) {
		if bytes > 0 {
			p.unit = bytes
		}
	}
}

// New creates a prober. By default it stats the OS filesystem with a
// 1 MiB unit.
func New(opts ...Option) *Prober {
	p := &Prober{
		fs:   OSFS{},
		unit: DefaultUnit,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Unit returns the configured size-unit in bytes.
func (p *Prober) Unit() int64 {
	return p.unit
}

// Probe returns the document's size rounded to whole units, round-half-up.
// ok is false when the size cannot be determined: the document has no
// backing path, the file is missing, or the stat fails.
func (p *Prober) Probe(doc *document.Document) (units uint64, ok bool) {
	path := doc.Path()
	if path == "" {
		return 0, false
	}
	info, err := p.fs.Stat(path)
	if err != nil {
		return 0, false
	}
	size := info.Size()
	if size < 0 {
		return 0, false
	}
	return uint64((size + p.unit/2) / p.unit), true
}
