package artifact

import (
	"context"
	"fmt"
	"sort"

	"github.com/abdul-hamid-achik/deployspec/packages/core/config"
)

// Func is a callable exposed by a loaded artifact. The config store it
// receives is the environment the caller is executing against.
type Func func(ctx context.Context, cfg *config.Store) error

// Export pairs an exported member name with its callable.
type Export struct {
	Name string
	Fn   Func
}

// Manifest is the typed record every code artifact must expose. LogsDir
// is only meaningful for perf artifacts, which advertise where their
// measurement logs land.
type Manifest struct {
	Name    string
	LogsDir string
	Exports []Export
}

// Module is a loaded code artifact. Member enumeration is sorted, so
// consumers iterating members see a deterministic order.
type Module interface {
	Name() string
	Members() []string
	Member(name string) (Func, bool)
	LogsDir() string
}

type module struct {
	name    string
	logsDir string
	members map[string]Func
	names   []string
}

// NewModule builds a Module from a manifest. Export names must be unique
// and their callables non-nil.
func NewModule(m Manifest) (Module, error) {
	members := make(map[string]Func, len(m.Exports))
	names := make([]string, 0, len(m.Exports))
	for _, export := range m.Exports {
		if export.Fn == nil {
			return nil, fmt.Errorf("export %q in module %q has a nil callable", export.Name, m.Name)
		}
		if _, exists := members[export.Name]; exists {
			return nil, fmt.Errorf("duplicate export %q in module %q", export.Name, m.Name)
		}
		members[export.Name] = export.Fn
		names = append(names, export.Name)
	}
	sort.Strings(names)
	return &module{
		name:    m.Name,
		logsDir: m.LogsDir,
		members: members,
		names:   names,
	}, nil
}

func (m *module) Name() string {
	return m.name
}

func (m *module) Members() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

func (m *module) Member(name string) (Func, bool) {
	fn, ok := m.members[name]
	return fn, ok
}

func (m *module) LogsDir() string {
	return m.logsDir
}
