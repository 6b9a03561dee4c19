package model

import (
	"encoding/json"
	"sort"

	"gopkg.in/yaml.v3"
)

// Parameter is the decoded subset of one canonical parameter's metadata
// that the offline matcher reads.
type Parameter struct {
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Unit        string   `json:"unit,omitempty" yaml:"unit,omitempty"`
	Aliases     []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// UnmarshalJSON accepts either an object or a bare description string.
func (p *Parameter) UnmarshalJSON(data []byte) error {
	var desc string
	if err := json.Unmarshal(data, &desc); err == nil {
		*p = Parameter{Description: desc}
		return nil
	}
	type plain Parameter
	var out plain
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*p = Parameter(out)
	return nil
}

// UnmarshalYAML accepts either a mapping or a bare description scalar.
func (p *Parameter) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*p = Parameter{Description: node.Value}
		return nil
	}
	type plain Parameter
	var out plain
	if err := node.Decode(&out); err != nil {
		return err
	}
	*p = Parameter(out)
	return nil
}

// Registry is the canonical parameter vocabulary. It is immutable after
// construction and safe for concurrent use. Each entry keeps the metadata
// exactly as loaded; Parameter is the decoded view used for local matching.
type Registry struct {
	params map[string]Parameter
	raw    map[string]json.RawMessage
	keys   []string
}

// NewRegistry copies params into an immutable registry.
func NewRegistry(params map[string]Parameter) *Registry {
	r := &Registry{
		params: make(map[string]Parameter, len(params)),
		raw:    make(map[string]json.RawMessage, len(params)),
		keys:   make([]string, 0, len(params)),
	}
	for id, p := range params {
		p.Aliases = append([]string(nil), p.Aliases...)
		r.params[id] = p
		// A struct of strings always encodes.
		r.raw[id], _ = json.Marshal(p)
		r.keys = append(r.keys, id)
	}
	sort.Strings(r.keys)
	return r
}

// NewRegistryFromRaw builds a registry from id-keyed metadata of any JSON
// shape. Entries that are neither an object nor a string still count as
// parameters; they just carry no aliases for local matching.
func NewRegistryFromRaw(entries map[string]json.RawMessage) *Registry {
	r := &Registry{
		params: make(map[string]Parameter, len(entries)),
		raw:    make(map[string]json.RawMessage, len(entries)),
		keys:   make([]string, 0, len(entries)),
	}
	for id, data := range entries {
		var p Parameter
		if err := json.Unmarshal(data, &p); err != nil {
			p = Parameter{}
		}
		r.params[id] = p
		r.raw[id] = append(json.RawMessage(nil), data...)
		r.keys = append(r.keys, id)
	}
	sort.Strings(r.keys)
	return r
}

// Has reports whether id is a canonical parameter.
func (r *Registry) Has(id string) bool {
	_, ok := r.params[id]
	return ok
}

// Get returns the decoded metadata for id.
func (r *Registry) Get(id string) (Parameter, bool) {
	p, ok := r.params[id]
	return p, ok
}

// Keys returns the parameter ids in sorted order.
func (r *Registry) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Len returns the number of parameters.
func (r *Registry) Len() int { return len(r.keys) }

// MarshalJSON renders the full registry contents as an id-keyed object,
// including metadata Parameter does not model.
func (r *Registry) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.raw)
}
