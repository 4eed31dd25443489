package bot

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// ManifestFile is the file name looked up in each bot directory.
const ManifestFile = "manifest.yaml"

// Manifest defaults.
const (
	DefaultEntry = "loop"
	DefaultShard = "shard0"
)

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// Manifest represents the bot manifest.yaml structure.
type Manifest struct {
	Name    string     `yaml:"name"`
	Version string     `yaml:"version"`
	Wasm    WasmConfig `yaml:"wasm"`
	Entry   string     `yaml:"entry"`
	Shard   string     `yaml:"shard"`
	Author  string     `yaml:"author"`

	// Internal fields
	dir string // Directory containing manifest
}

// WasmConfig holds Wasm module configuration.
type WasmConfig struct {
	File string `yaml:"file"`
	Size int    `yaml:"size"` // KB, informational
}

// ParseManifest reads and parses manifest.yaml from a directory.
func ParseManifest(dir string) (*Manifest, error) {
	manifestPath := filepath.Join(dir, ManifestFile)

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, &ManifestNotFoundError{
			Path: manifestPath,
			Err:  err,
		}
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &ManifestParseError{
			Path: manifestPath,
			Err:  err,
		}
	}

	m.dir = dir
	if m.Entry == "" {
		m.Entry = DefaultEntry
	}
	if m.Shard == "" {
		m.Shard = DefaultShard
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// Validate checks manifest fields. Every failed field is reported as its own
// *ManifestValidationError, combined with multierr.
func (m *Manifest) Validate() error {
	var err error
	invalid := func(field, msg string) {
		err = multierr.Append(err, &ManifestValidationError{Path: m.Path(), Field: field, Message: msg})
	}

	switch {
	case m.Name == "":
		invalid("name", "name is required")
	case !namePattern.MatchString(m.Name):
		invalid("name", fmt.Sprintf("invalid name %q (lower-case letters, digits, '-' and '_')", m.Name))
	}

	if m.Version == "" {
		invalid("version", "version is required")
	}

	switch {
	case m.Wasm.File == "":
		invalid("wasm.file", "wasm.file is required")
	case !filepath.IsLocal(m.Wasm.File):
		invalid("wasm.file", fmt.Sprintf("wasm.file %q must stay inside the bot directory", m.Wasm.File))
	}

	if err != nil {
		return err
	}

	if _, statErr := os.Stat(m.WasmPath()); os.IsNotExist(statErr) {
		return &WasmNotFoundError{
			ManifestPath: m.Path(),
			WasmFile:     m.Wasm.File,
		}
	}

	return nil
}

// Path returns the manifest file path.
func (m *Manifest) Path() string {
	return filepath.Join(m.dir, ManifestFile)
}

// WasmPath returns the path to the Wasm file.
func (m *Manifest) WasmPath() string {
	return filepath.Join(m.dir, m.Wasm.File)
}

// Dir returns the directory containing the manifest.
func (m *Manifest) Dir() string {
	return m.dir
}
