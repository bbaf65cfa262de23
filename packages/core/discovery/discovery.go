package discovery

import (
	"strings"

	"github.com/abdul-hamid-achik/deployspec/packages/artifact"
)

const (
	testSubstring     = "test"
	validateSubstring = "validate"
)

// Test pairs a named test callable with an optional validation callable.
// A Test without a validator is still runnable.
type Test struct {
	Name     string
	Fn       artifact.Func
	Validate artifact.Func
}

// Discover yields the tests exposed by the given modules, preserving
// module order. Within a module, members are visited in the module's own
// sorted enumeration order, so pairing is deterministic even when one
// name could match several tests.
//
// A member whose lowercased name contains "test" becomes a test, keyed
// by that lowercased name. A member whose lowercased name contains
// "validate" implies a test key (every "validate" replaced with "test");
// if that key exists the member becomes its validator, otherwise it is
// dropped.
func Discover(modules []artifact.Module) []Test {
	var out []Test
	for _, mod := range modules {
		out = append(out, discoverModule(mod)...)
	}
	return out
}

func discoverModule(mod artifact.Module) []Test {
	members := mod.Members()

	tests := make(map[string]*Test)
	var order []string
	for _, name := range members {
		lower := strings.ToLower(name)
		if !strings.Contains(lower, testSubstring) {
			continue
		}
		fn, ok := mod.Member(name)
		if !ok {
			continue
		}
		if _, seen := tests[lower]; !seen {
			order = append(order, lower)
		}
		tests[lower] = &Test{Name: lower, Fn: fn}
	}

	for _, name := range members {
		lower := strings.ToLower(name)
		if !strings.Contains(lower, validateSubstring) {
			continue
		}
		key := strings.ReplaceAll(lower, validateSubstring, testSubstring)
		test, ok := tests[key]
		if !ok {
			// Validators without a matching test are dropped.
			continue
		}
		if fn, ok := mod.Member(name); ok {
			test.Validate = fn
		}
	}

	out := make([]Test, 0, len(order))
	for _, key := range order {
		out = append(out, *tests[key])
	}
	return out
}

// Filter keeps only the tests whose name is in names. A nil names slice
// means no filtering; an empty result is valid.
func Filter(tests []Test, names []string) []Test {
	if names == nil {
		return tests
	}
	want := make(map[string]struct{}, len(names))
	for _, name := range names {
		want[name] = struct{}{}
	}
	out := make([]Test, 0, len(tests))
	for _, test := range tests {
		if _, ok := want[test.Name]; ok {
			out = append(out, test)
		}
	}
	return out
}
