package config

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "DRAFTSMITH_"

// Loader builds a Config from defaults, a file and the environment.
type Loader struct {
	fs  FileSystem
	env *EnvLoader
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFS reads config files through fsys.
func WithFS(fsys FileSystem) LoaderOption {
	return func(l *Loader) {
		l.fs = fsys
	}
}

// WithEnv sets the environment loader. Nil disables overrides.
func WithEnv(env *EnvLoader) LoaderOption {
	return func(l *Loader) {
		l.env = env
	}
}

// NewLoader creates a loader reading the OS file system and
// DRAFTSMITH_* variables.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		fs:  OSFS{},
		env: NewEnvLoader(EnvPrefix),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the validated settings. A missing file is not an error;
// defaults and environment overrides still apply. An empty path skips
// the file layer.
func (l *Loader) Load(path string) (*Config, error) {
	var settings map[string]any
	if path != "" {
		var err error
		if settings, err = l.loadFile(path); err != nil {
			return nil, err
		}
	}
	if l.env != nil {
		settings = DeepMerge(settings, l.env.Load())
	}

	cfg := Default()
	if len(settings) > 0 {
		if err := decode(settings, cfg); err != nil {
			return nil, &ParseError{Path: sourceName(path), Message: err.Error(), Err: err}
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UnknownEnv returns the prefixed environment variables that name no
// setting. Load ignores them.
func (l *Loader) UnknownEnv() []string {
	if l.env == nil {
		return nil
	}
	return l.env.Unknown()
}

func (l *Loader) loadFile(path string) (map[string]any, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // File doesn't exist, not an error
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes a TOML or YAML document, chosen by the extension of path,
// into a settings map.
func Parse(path string, data []byte) (map[string]any, error) {
	var settings map[string]any
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", "":
		err = toml.Unmarshal(data, &settings)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &settings)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return settings, nil
}

// decode applies a settings map on top of cfg. Keys that match no field
// are rejected.
func decode(settings map[string]any, cfg *Config) error {
	data, err := toml.Marshal(settings)
	if err != nil {
		return err
	}
	return toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(cfg)
}

func sourceName(path string) string {
	if path == "" {
		return "<environment>"
	}
	return path
}

// DeepMerge recursively merges src into dst.
// Values in src override values in dst.
// Maps are merged recursively; other types are replaced.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = srcVal
	}
	return dst
}
