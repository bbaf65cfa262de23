package artifact

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Registry serves artifacts that registered themselves in-process, the
// way a compiled-in test module registers from its own init. Load keys
// the requested path's base name (extension stripped) against registered
// manifest names.
type Registry struct {
	manifests map[string]Manifest
	symbols   map[string]map[string]any
}

func NewRegistry() *Registry {
	return &Registry{
		manifests: make(map[string]Manifest),
		symbols:   make(map[string]map[string]any),
	}
}

// Register adds a manifest under its own name. Registering the same name
// twice is a programming error.
func (r *Registry) Register(m Manifest) {
	if _, exists := r.manifests[m.Name]; exists {
		panic(fmt.Sprintf("artifact: module %q already registered", m.Name))
	}
	r.manifests[m.Name] = m
}

// RegisterSymbol exposes a named value under a module name, mirroring a
// plugin's exported package variables.
func (r *Registry) RegisterSymbol(module, symbol string, value any) {
	if _, ok := r.symbols[module]; !ok {
		r.symbols[module] = make(map[string]any)
	}
	if _, exists := r.symbols[module][symbol]; exists {
		panic(fmt.Sprintf("artifact: symbol %q already registered for module %q", symbol, module))
	}
	r.symbols[module][symbol] = value
}

// Load resolves path to a registered manifest.
func (r *Registry) Load(path string) (Module, error) {
	m, ok := r.manifests[moduleKey(path)]
	if !ok {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("no module registered as %q", moduleKey(path))}
	}
	mod, err := NewModule(m)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return mod, nil
}

// Lookup resolves a registered symbol for the module that path names.
func (r *Registry) Lookup(path, symbol string) (any, error) {
	symbols, ok := r.symbols[moduleKey(path)]
	if ok {
		if value, ok := symbols[symbol]; ok {
			return value, nil
		}
	}
	return nil, &LoadError{Path: path, Err: fmt.Errorf("no symbol %q registered for module %q", symbol, moduleKey(path))}
}

func moduleKey(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
