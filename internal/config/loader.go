package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a suite file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	}
	return "", false
}

// Loader handles loading suite files.
type Loader struct {
	suiteDir string
}

// NewLoader creates a new suite loader rooted at suiteDir.
func NewLoader(suiteDir string) *Loader {
	return &Loader{suiteDir: suiteDir}
}

// LoadFile loads a suite from a specific file path.
// Environment variables are expanded before parsing.
// Supports ${VAR} and ${VAR:-default} syntax.
func (l *Loader) LoadFile(path string) (*Config, error) {
	format, ok := FormatFor(path)
	if !ok {
		return nil, fmt.Errorf("unsupported suite file extension: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}

	cfg, err := Parse(ExpandEnvVarsBytes(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Parse decodes a suite document. YAML documents are converted to the JSON
// shape first so that unit configs always reach factories as JSON.
func Parse(data []byte, format Format) (*Config, error) {
	if format == FormatYAML {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse suite YAML: %w", err)
		}
		converted, err := json.Marshal(jsonShape(doc))
		if err != nil {
			return nil, fmt.Errorf("failed to convert suite YAML: %w", err)
		}
		data = converted
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse suite JSON: %w", err)
	}
	return &cfg, nil
}

// jsonShape rewrites YAML maps with non-string keys so encoding/json can
// marshal them.
func jsonShape(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, val := range x {
			x[k] = jsonShape(val)
		}
		return x
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, val := range x {
			m[fmt.Sprint(k)] = jsonShape(val)
		}
		return m
	case []any:
		for i, val := range x {
			x[i] = jsonShape(val)
		}
		return x
	}
	return v
}

// LoadAndValidate loads and validates a suite file against known unit types.
func (l *Loader) LoadAndValidate(path string, knownTypes []string) (*Config, error) {
	cfg, err := l.LoadFile(path)
	if err != nil {
		return nil, err
	}

	if err := ValidateConfig(cfg, knownTypes); err != nil {
		return nil, fmt.Errorf("suite validation failed for %s:\n%w", path, err)
	}

	return cfg, nil
}

// LoadDirectory loads every suite file in dir, sorted by file name.
func (l *Loader) LoadDirectory(dir string) ([]*Config, error) {
	paths, err := suitePaths(dir)
	if err != nil {
		return nil, err
	}

	configs := make([]*Config, 0, len(paths))
	for _, path := range paths {
		cfg, err := l.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", filepath.Base(path), err)
		}
		configs = append(configs, cfg)
	}

	return configs, nil
}

// suitePaths lists the suite files directly inside dir, sorted by name.
func suitePaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := FormatFor(entry.Name()); !ok {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Resolve turns a suite name into a path. Absolute paths and paths that
// exist are returned as is; otherwise name is looked up in the suite
// directory with each supported extension.
func (l *Loader) Resolve(name string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	for _, ext := range []string{"", ".yaml", ".yml", ".json"} {
		p := filepath.Join(l.suiteDir, name+ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("suite %q not found in %s: %w", name, l.suiteDir, os.ErrNotExist)
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment so suites can reference them. Variables that are already set
// win over the file.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}
