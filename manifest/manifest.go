// Package manifest handles tape.toml run configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/chazu/tape/vm"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "tape.toml"

// Manifest represents a tape.toml configuration. Fields left out of the file
// stay nil and do not override defaults or flags.
type Manifest struct {
	Settings SettingsConfig `toml:"settings"`
	Run      RunConfig      `toml:"run"`

	// Dir is the directory containing the tape.toml file (set at load time).
	Dir string `toml:"-"`
}

// SettingsConfig mirrors vm.Settings.
type SettingsConfig struct {
	DynamicSize   *bool           `toml:"dynamic-size"`
	ArraySize     *int            `toml:"array-size"`
	EOFBehavior   *vm.EOFBehavior `toml:"eof-behavior"`
	NewlineMode   *vm.NewlineMode `toml:"newline-mode"`
	IgnoreNewline *bool           `toml:"ignore-newline"`
	InputMode     *vm.InputMode   `toml:"input-mode"`
	Wrapping      *bool           `toml:"wrapping"`
}

// RunConfig configures the driver around the interpreter.
type RunConfig struct {
	MaxSteps   *uint64 `toml:"max-steps"`
	Strict     *bool   `toml:"strict"`
	Report     *string `toml:"report"`
	FinalArray *bool   `toml:"final-array"`
}

// Load parses tape.toml from the given directory.
func Load(dir string) (*Manifest, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile parses the configuration file at path. Unknown keys are an error.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: cannot read %s: %w", path, err)
	}

	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, fmt.Errorf("manifest: parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("manifest: unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	m.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("manifest: cannot resolve path %s: %w", path, err)
	}
	return &m, nil
}

// FindAndLoad walks up from startDir to find a tape.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Apply overlays the values present in the manifest onto s.
func (c SettingsConfig) Apply(s vm.Settings) vm.Settings {
	if c.DynamicSize != nil {
		s.DynamicSize = *c.DynamicSize
	}
	if c.ArraySize != nil {
		s.ArraySize = *c.ArraySize
	}
	if c.EOFBehavior != nil {
		s.EOF = *c.EOFBehavior
	}
	if c.NewlineMode != nil {
		s.Newline = *c.NewlineMode
	}
	if c.IgnoreNewline != nil {
		s.IgnoreNewline = *c.IgnoreNewline
	}
	if c.InputMode != nil {
		s.InputMode = *c.InputMode
	}
	if c.Wrapping != nil {
		s.Wrapping = *c.Wrapping
	}
	return s
}

// VMSettings returns the default settings with the manifest applied.
func (m *Manifest) VMSettings() vm.Settings {
	if m == nil {
		return vm.DefaultSettings()
	}
	return m.Settings.Apply(vm.DefaultSettings())
}

// ReportPath returns the configured report path resolved against the
// manifest directory, or "" when none is set.
func (m *Manifest) ReportPath() string {
	if m == nil || m.Run.Report == nil || *m.Run.Report == "" {
		return ""
	}
	if filepath.IsAbs(*m.Run.Report) {
		return *m.Run.Report
	}
	return filepath.Join(m.Dir, *m.Run.Report)
}
