package suite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/deployspec/packages/artifact"
	"github.com/abdul-hamid-achik/deployspec/packages/core/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(ctx context.Context, cfg *config.Store) error {
	return nil
}

// fixture lays out a complete suite on disk and a registry loader with
// matching modules.
type fixture struct {
	dir        string
	descriptor string
	configsDir string
	registry   *artifact.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	f := &fixture{
		dir:        dir,
		descriptor: filepath.Join(dir, "suite.json"),
		configsDir: filepath.Join(dir, "configs"),
		registry:   artifact.NewRegistry(),
	}

	for _, name := range []string{"deploy.so", "perf.so", "smoke.so"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte{}, 0o644))
	}
	require.NoError(t, os.Mkdir(f.configsDir, 0o755))

	f.registry.Register(artifact.Manifest{Name: "deploy", Exports: []artifact.Export{
		{Name: "deployCluster", Fn: noop},
	}})
	f.registry.Register(artifact.Manifest{Name: "perf", LogsDir: filepath.Join(dir, "perf-logs"), Exports: []artifact.Export{
		{Name: "collectMetrics", Fn: noop},
	}})
	f.registry.Register(artifact.Manifest{Name: "smoke", Exports: []artifact.Export{
		{Name: "testRestart", Fn: noop},
		{Name: "validateRestart", Fn: noop},
		{Name: "testUpgrade", Fn: noop},
	}})

	f.writeDescriptor(t, `{
		"deployment_code": "`+f.path("deploy.so")+`",
		"test_code": ["`+f.path("smoke.so")+`"],
		"perf_code": "`+f.path("perf.so")+`",
		"configs_directory": "`+f.configsDir+`"
	}`)

	return f
}

func (f *fixture) path(name string) string {
	return filepath.Join(f.dir, name)
}

func (f *fixture) writeDescriptor(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(f.descriptor, []byte(content), 0o644))
}

func (f *fixture) writeConfig(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.configsDir, name), []byte(content), 0o644))
}

func (f *fixture) resolver(opts Options) *Resolver {
	if opts.ReportsDir == "" {
		opts.ReportsDir = filepath.Join(f.dir, "reports")
	}
	return NewResolver(f.registry, opts)
}

func TestResolveEndToEnd(t *testing.T) {
	f := newFixture(t)
	f.writeConfig(t, "master.json", `{"timeout": 30}`)
	f.writeConfig(t, "default.json", `{"retries": 1}`)

	start := time.Date(2024, 3, 9, 14, 5, 6, 0, time.Local)
	plan, err := f.resolver(Options{StartTime: start}).Resolve(f.descriptor)
	require.NoError(t, err)

	assert.NotEmpty(t, plan.RunID)
	assert.Equal(t, "deploy", plan.Deployment.Name())
	assert.Equal(t, "perf", plan.Perf.Name())

	require.Len(t, plan.Tests, 2)
	assert.Equal(t, "testrestart", plan.Tests[0].Name)
	assert.NotNil(t, plan.Tests[0].Validate)
	assert.Equal(t, "testupgrade", plan.Tests[1].Name)
	assert.Nil(t, plan.Tests[1].Validate)

	v, _ := plan.Master.Get("timeout")
	assert.EqualValues(t, 30, v)
	require.Len(t, plan.Environments, 1)
	assert.Equal(t, "single execution", plan.Environments[0].Name())

	assert.Equal(t, "suite_20240309_140506", plan.Workspace.ReportName)
	info, err := os.Stat(plan.Workspace.ResultsDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(f.dir, "perf-logs"), plan.Workspace.LogsDir)
}

func TestResolveAppliesOverridesAndFilter(t *testing.T) {
	f := newFixture(t)
	f.writeConfig(t, "default.json", `{"retries": 1}`)

	plan, err := f.resolver(Options{
		Overrides: map[string]any{"retries": 5},
		Tests:     []string{"testupgrade"},
	}).Resolve(f.descriptor)
	require.NoError(t, err)

	require.Len(t, plan.Tests, 1)
	assert.Equal(t, "testupgrade", plan.Tests[0].Name)

	v, _ := plan.Environments[0].Get("retries")
	assert.EqualValues(t, 5, v)
}

func TestResolveEmptyFilterIsValid(t *testing.T) {
	f := newFixture(t)

	plan, err := f.resolver(Options{Tests: []string{}}).Resolve(f.descriptor)
	require.NoError(t, err)
	assert.Empty(t, plan.Tests)
}

func TestDescriptorExtraKeyRejectedBeforePathCheck(t *testing.T) {
	f := newFixture(t)
	// Every referenced path is bogus; the key-set failure must win.
	f.writeDescriptor(t, `{
		"deployment_code": "missing.so",
		"test_code": ["missing.so"],
		"perf_code": "missing.so",
		"configs_directory": "missing",
		"extra": true
	}`)

	_, err := f.resolver(Options{}).Resolve(f.descriptor)
	var invalid *InvalidDescriptorError
	assert.ErrorAs(t, err, &invalid)
}

func TestDescriptorMissingKeyRejected(t *testing.T) {
	f := newFixture(t)
	f.writeDescriptor(t, `{
		"deployment_code": "`+f.path("deploy.so")+`",
		"test_code": ["`+f.path("smoke.so")+`"],
		"configs_directory": "`+f.configsDir+`"
	}`)

	_, err := f.resolver(Options{}).Resolve(f.descriptor)
	var invalid *InvalidDescriptorError
	assert.ErrorAs(t, err, &invalid)
}

func TestDescriptorMissingArtifact(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(f.path("perf.so")))

	_, err := f.resolver(Options{}).Resolve(f.descriptor)
	var missing *MissingArtifactError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, f.path("perf.so"), missing.Path)
}

func TestDescriptorUnsupportedFormat(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(f.dir, "suite.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	_, err := f.resolver(Options{}).Resolve(path)
	var unsupported *UnsupportedFormatError
	assert.ErrorAs(t, err, &unsupported)
}

func TestDescriptorYAML(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(f.dir, "suite.yaml")
	content := "deployment_code: " + f.path("deploy.so") + "\n" +
		"test_code:\n  - " + f.path("smoke.so") + "\n" +
		"perf_code: " + f.path("perf.so") + "\n" +
		"configs_directory: " + f.configsDir + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	plan, err := f.resolver(Options{}).Resolve(path)
	require.NoError(t, err)
	assert.Len(t, plan.Tests, 2)
}

func TestDescriptorFromCodeArtifact(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(f.dir, "coded.so")
	require.NoError(t, os.WriteFile(path, []byte{}, 0o644))
	f.registry.RegisterSymbol("coded", SuiteSymbol, &Descriptor{
		DeploymentCode:   f.path("deploy.so"),
		TestCode:         []string{f.path("smoke.so")},
		PerfCode:         f.path("perf.so"),
		ConfigsDirectory: f.configsDir,
	})

	plan, err := f.resolver(Options{}).Resolve(path)
	require.NoError(t, err)
	assert.Len(t, plan.Tests, 2)
}

func TestResolverTestsLoadsNoWorkspace(t *testing.T) {
	f := newFixture(t)
	reports := filepath.Join(f.dir, "reports")

	tests, err := f.resolver(Options{ReportsDir: reports}).Tests(f.descriptor)
	require.NoError(t, err)
	assert.Len(t, tests, 2)

	_, err = os.Stat(reports)
	assert.True(t, os.IsNotExist(err))
}

func TestResolverConfigs(t *testing.T) {
	f := newFixture(t)
	f.writeConfig(t, "master.json", `{"timeout": 30}`)
	sub := filepath.Join(f.configsDir, "prod")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "prod.json"), []byte(`{"retries": 2}`), 0o644))

	master, envs, err := f.resolver(Options{}).Configs(f.descriptor)
	require.NoError(t, err)

	v, _ := master.Get("timeout")
	assert.EqualValues(t, 30, v)
	require.Len(t, envs, 1)
	assert.Equal(t, "prod", envs[0].Name())
}

// pathRecordingLoader wraps the registry and records search-path
// extensions the resolver applies from the master configuration.
type pathRecordingLoader struct {
	*artifact.Registry
	added []string
}

func (l *pathRecordingLoader) AddSearchPath(paths ...string) {
	l.added = append(l.added, paths...)
}

func TestResolveExtendsSearchPaths(t *testing.T) {
	f := newFixture(t)
	f.writeConfig(t, "master.json", `{"additional_paths": ["/opt/artifacts"]}`)

	loader := &pathRecordingLoader{Registry: f.registry}
	r := NewResolver(loader, Options{ReportsDir: filepath.Join(f.dir, "reports")})

	_, err := r.Resolve(f.descriptor)
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/artifacts"}, loader.added)
}
