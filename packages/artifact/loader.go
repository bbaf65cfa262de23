package artifact

import (
	"fmt"
	"os"
	"path/filepath"
)

// Loader loads a code artifact from a path. Loading runs the artifact's
// own initialization; callers must accept that side effect.
type Loader interface {
	Load(path string) (Module, error)
}

// SymbolLoader is implemented by loaders that can resolve a single named
// value from a code artifact, e.g. a suite descriptor exposed by a
// code-described suite file.
type SymbolLoader interface {
	Lookup(path, symbol string) (any, error)
}

// SearchPather is implemented by loaders whose artifact-path resolution
// can be extended with additional directories. The search-path list is
// loader-scoped, not process-global, so repeated resolutions stay
// independent.
type SearchPather interface {
	AddSearchPath(paths ...string)
}

// LoadError reports a code artifact that failed to load or initialize.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load artifact %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// searchPaths resolves relative artifact paths against an ordered list
// of directories. The current directory is always tried first.
type searchPaths struct {
	dirs []string
}

func (s *searchPaths) add(dirs ...string) {
	s.dirs = append(s.dirs, dirs...)
}

func (s *searchPaths) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	for _, dir := range s.dirs {
		candidate := filepath.Join(dir, path)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return path
}
