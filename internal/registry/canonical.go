// Package registry loads the canonical parameter vocabulary.
package registry

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/latspace/mapping-agent/internal/model"
)

// DefaultSearchPaths are tried in order when no explicit registry path is configured.
var DefaultSearchPaths = []string{
	"backend/canonical_registry.json",
	"canonical_registry.json",
	"/app/backend/canonical_registry.json",
	"/app/canonical_registry.json",
}

// Load reads a registry file. Files ending in .yaml or .yml are parsed as
// YAML, everything else as JSON. The top level must be an object keyed by
// parameter id.
func Load(path string) (*model.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "registry: read %s", path)
	}

	var entries map[string]json.RawMessage
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		entries, err = yamlEntries(data)
	default:
		err = json.Unmarshal(data, &entries)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "registry: parse %s", path)
	}
	if len(entries) == 0 {
		return nil, eris.Errorf("registry: %s defines no parameters", path)
	}

	reg := model.NewRegistryFromRaw(entries)
	zap.L().Info("registry: loaded canonical parameters",
		zap.String("path", path),
		zap.Int("parameters", reg.Len()),
	)
	return reg, nil
}

// LoadFirst loads the first path that exists.
func LoadFirst(paths []string) (*model.Registry, error) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, eris.Wrapf(err, "registry: stat %s", p)
		}
		return Load(p)
	}
	return nil, eris.Errorf("registry: canonical registry not found in any of %v", paths)
}

// yamlEntries converts a YAML registry to per-id JSON so both formats reach
// the mapping service unchanged.
func yamlEntries(data []byte) (map[string]json.RawMessage, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	entries := make(map[string]json.RawMessage, len(doc))
	for id, v := range doc {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, eris.Wrapf(err, "encode parameter %q", id)
		}
		entries[id] = raw
	}
	return entries, nil
}
