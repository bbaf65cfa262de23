package artifact

import (
	"context"
	"testing"

	"github.com/abdul-hamid-achik/deployspec/packages/core/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(ctx context.Context, cfg *config.Store) error {
	return nil
}

func TestNewModuleSortsMembers(t *testing.T) {
	mod, err := NewModule(Manifest{
		Name: "smoke",
		Exports: []Export{
			{Name: "testZeta", Fn: noop},
			{Name: "testAlpha", Fn: noop},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"testAlpha", "testZeta"}, mod.Members())

	fn, ok := mod.Member("testAlpha")
	assert.True(t, ok)
	assert.NotNil(t, fn)

	_, ok = mod.Member("absent")
	assert.False(t, ok)
}

func TestNewModuleRejectsDuplicates(t *testing.T) {
	_, err := NewModule(Manifest{
		Name: "smoke",
		Exports: []Export{
			{Name: "testAlpha", Fn: noop},
			{Name: "testAlpha", Fn: noop},
		},
	})
	assert.Error(t, err)
}

func TestNewModuleRejectsNilCallable(t *testing.T) {
	_, err := NewModule(Manifest{
		Name:    "smoke",
		Exports: []Export{{Name: "testAlpha"}},
	})
	assert.Error(t, err)
}

func TestRegistryLoadByBaseName(t *testing.T) {
	r := NewRegistry()
	r.Register(Manifest{
		Name:    "smoke",
		Exports: []Export{{Name: "testPing", Fn: noop}},
	})

	mod, err := r.Load("/opt/suites/smoke.so")
	require.NoError(t, err)
	assert.Equal(t, "smoke", mod.Name())
}

func TestRegistryLoadUnknownModule(t *testing.T) {
	_, err := NewRegistry().Load("missing.so")
	require.Error(t, err)

	var loadErr *LoadError
	assert.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "missing.so", loadErr.Path)
}

func TestRegistryDuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(Manifest{Name: "smoke"})
	assert.Panics(t, func() {
		r.Register(Manifest{Name: "smoke"})
	})
}

func TestRegistrySymbols(t *testing.T) {
	r := NewRegistry()
	r.RegisterSymbol("suite", "Suite", "value")

	v, err := r.Lookup("conf/suite.so", "Suite")
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	_, err = r.Lookup("conf/suite.so", "Other")
	assert.Error(t, err)
}
