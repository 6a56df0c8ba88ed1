package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for a config path with an unrecognized
// extension.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// ParseError reports a malformed configuration file.
type ParseError struct {
	// Path is the file that failed to parse.
	Path string

	// Err is the parser's error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing config %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// FileSystem is the read seam for configuration loading.
// It allows tests to substitute an in-memory file system.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem against the operating system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader reads rule configuration files.
type Loader struct {
	fs FileSystem
}

// NewLoader creates a loader over the OS file system.
func NewLoader() *Loader {
	return &Loader{fs: OSFS{}}
}

// NewLoaderWithFS creates a loader with a custom file system.
func NewLoaderWithFS(fs FileSystem) *Loader {
	return &Loader{fs: fs}
}

// Load reads and parses the configuration at path. The format is chosen by
// extension (.toml, .yaml/.yml, .json). A missing file is not an error: the
// default configuration is returned.
func (l *Loader) Load(path string) (Config, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	return l.Parse(path, data)
}

// Parse decodes data using the format implied by path's extension.
func (l *Loader) Parse(path string, data []byte) (Config, error) {
	var cfg Config
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".json":
		cfg, err = parseJSON(data)
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return Config{}, &ParseError{Path: path, Err: err}
	}
	return cfg, nil
}
