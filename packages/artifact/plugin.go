package artifact

import (
	"fmt"
	"plugin"
)

// ManifestSymbol is the symbol a plugin must export as
// `var Manifest artifact.Manifest`.
const ManifestSymbol = "Manifest"

// PluginLoader loads compiled Go plugins. Opening a plugin runs its
// package initialization; whether a path opened twice re-runs it is left
// to the Go plugin runtime, which deduplicates by path.
type PluginLoader struct {
	search searchPaths
}

func NewPluginLoader() *PluginLoader {
	return &PluginLoader{}
}

// AddSearchPath appends directories tried when resolving relative
// artifact paths.
func (l *PluginLoader) AddSearchPath(paths ...string) {
	l.search.add(paths...)
}

// Load opens the plugin at path and builds a Module from its exported
// Manifest.
func (l *PluginLoader) Load(path string) (Module, error) {
	sym, err := l.lookup(path, ManifestSymbol)
	if err != nil {
		return nil, err
	}
	manifest, ok := sym.(*Manifest)
	if !ok {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("symbol %s is %T, want *artifact.Manifest", ManifestSymbol, sym)}
	}
	mod, err := NewModule(*manifest)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return mod, nil
}

// Lookup resolves a single exported symbol from the plugin at path.
func (l *PluginLoader) Lookup(path, symbol string) (any, error) {
	return l.lookup(path, symbol)
}

func (l *PluginLoader) lookup(path, symbol string) (any, error) {
	p, err := plugin.Open(l.search.resolve(path))
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	sym, err := p.Lookup(symbol)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return sym, nil
}
