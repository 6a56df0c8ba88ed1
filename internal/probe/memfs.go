package probe

import (
	"io/fs"
	"sync"
	"time"
)

// MemFS is an in-memory StatFS for tests.
type MemFS struct {
	mu    sync.RWMutex
	sizes map[string]int64
	errs  map[string]error
}

// NewMemFS creates an empty in-memory filesystem.
func NewMemFS() *MemFS {
	return &MemFS{
		sizes: make(map[string]int64),
		errs:  make(map[string]error),
	}
}

// SetSize records a file with the given byte size.
func (m *MemFS) SetSize(path string, size int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sizes[path] = size
}

// SetError makes Stat fail for path with err.
func (m *MemFS) SetError(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[path] = err
}

// Stat returns recorded file information.
func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err, ok := m.errs[path]; ok {
		return nil, err
	}
	size, ok := m.sizes[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return memFileInfo{name: path, size: size}, nil
}

// memFileInfo is a minimal fs.FileInfo over a recorded size.
type memFileInfo struct {
	name string
	size int64
}

func (f memFileInfo) Name() string       { return f.name }
func (f memFileInfo) Size() int64        { return f.size }
func (f memFileInfo) Mode() fs.FileMode  { return 0 }
func (f memFileInfo) ModTime() time.Time { return time.Time{} }
func (f memFileInfo) IsDir() bool        { return false }
func (f memFileInfo) Sys() any           { return nil }
