package suite

import (
	"time"

	"github.com/abdul-hamid-achik/deployspec/packages/artifact"
	"github.com/abdul-hamid-achik/deployspec/packages/core/config"
	"github.com/abdul-hamid-achik/deployspec/packages/core/discovery"
	"github.com/abdul-hamid-achik/deployspec/packages/workspace"
	"github.com/google/uuid"
)

// additionalPathsOption is the master-config option listing extra
// directories for artifact resolution.
const additionalPathsOption = "additional_paths"

// DefaultReportsDir is where per-run results land unless the caller
// picks another location.
const DefaultReportsDir = "reports"

// Options configure one resolution pass.
type Options struct {
	// Overrides are caller-supplied options (e.g. from the command
	// line) that beat every configuration file.
	Overrides map[string]any

	// Tests restricts the discovered tests to these names. nil means
	// run everything; an empty, non-nil slice resolves to zero tests.
	Tests []string

	// ReportsDir is the root of the per-run results directories.
	ReportsDir string

	// StartTime stamps the report name. Zero means "now", taken once
	// when the resolver is built.
	StartTime time.Time

	// WarnFunc receives non-fatal warnings, e.g. skipped config files.
	WarnFunc config.WarnFunc
}

// Resolver is the top-level entry point: it turns a suite descriptor
// path into an ExecutionPlan. One Resolver performs one resolution pass
// at a time; it is not safe for concurrent use.
type Resolver struct {
	loader artifact.Loader
	opts   Options
}

func NewResolver(loader artifact.Loader, opts Options) *Resolver {
	if opts.ReportsDir == "" {
		opts.ReportsDir = DefaultReportsDir
	}
	if opts.StartTime.IsZero() {
		opts.StartTime = time.Now()
	}
	return &Resolver{loader: loader, opts: opts}
}

// Resolve builds the execution plan for the suite descriptor at path.
//
// All descriptor-shape and path-existence validation happens before any
// artifact is loaded, so failures surface before load side effects run.
func (r *Resolver) Resolve(path string) (*ExecutionPlan, error) {
	desc, master, envs, err := r.prepare(path)
	if err != nil {
		return nil, err
	}

	deployment, err := r.loader.Load(desc.DeploymentCode)
	if err != nil {
		return nil, err
	}
	perf, err := r.loader.Load(desc.PerfCode)
	if err != nil {
		return nil, err
	}
	tests, err := r.discover(desc)
	if err != nil {
		return nil, err
	}

	layout, err := workspace.Setup(r.opts.ReportsDir, path, perf.LogsDir(), r.opts.StartTime)
	if err != nil {
		return nil, err
	}

	return &ExecutionPlan{
		RunID:        uuid.NewString(),
		Deployment:   deployment,
		Perf:         perf,
		Tests:        tests,
		Master:       master,
		Environments: envs,
		Workspace:    layout,
	}, nil
}

// Describe parses and validates the descriptor at path without loading
// any artifact beyond what a code-described suite requires.
func (r *Resolver) Describe(path string) (*Descriptor, error) {
	desc, err := ParseDescriptor(path, r.loader)
	if err != nil {
		return nil, err
	}
	if err := ValidatePaths(desc); err != nil {
		return nil, err
	}
	return desc, nil
}

// Configs resolves only the configuration stores for the suite at path.
func (r *Resolver) Configs(path string) (*config.Store, []*config.Store, error) {
	desc, err := r.Describe(path)
	if err != nil {
		return nil, nil, err
	}
	master, envs, _, err := r.resolveConfigs(desc)
	return master, envs, err
}

// Tests resolves only the filtered test list for the suite at path. It
// loads the test modules but creates no directories.
func (r *Resolver) Tests(path string) ([]discovery.Test, error) {
	desc, _, _, err := r.prepare(path)
	if err != nil {
		return nil, err
	}
	return r.discover(desc)
}

// prepare runs descriptor parsing, validation, config resolution, and
// search-path extension, in that order.
func (r *Resolver) prepare(path string) (*Descriptor, *config.Store, []*config.Store, error) {
	desc, err := r.Describe(path)
	if err != nil {
		return nil, nil, nil, err
	}
	master, envs, extraPaths, err := r.resolveConfigs(desc)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(extraPaths) > 0 {
		if sp, ok := r.loader.(artifact.SearchPather); ok {
			sp.AddSearchPath(extraPaths...)
		}
	}
	return desc, master, envs, nil
}

func (r *Resolver) resolveConfigs(desc *Descriptor) (*config.Store, []*config.Store, []string, error) {
	resolver := config.NewResolver()
	resolver.SetWarnFunc(r.opts.WarnFunc)
	master, envs, err := resolver.ResolveDirectory(desc.ConfigsDirectory, r.opts.Overrides)
	if err != nil {
		return nil, nil, nil, err
	}
	return master, envs, master.StringSlice(additionalPathsOption), nil
}

func (r *Resolver) discover(desc *Descriptor) ([]discovery.Test, error) {
	modules := make([]artifact.Module, 0, len(desc.TestCode))
	for _, testCode := range desc.TestCode {
		mod, err := r.loader.Load(testCode)
		if err != nil {
			return nil, err
		}
		modules = append(modules, mod)
	}
	return discovery.Filter(discovery.Discover(modules), r.opts.Tests), nil
}
