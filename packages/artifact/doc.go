// Package artifact loads executable units of user code for a
// deployment-test run.
//
// An artifact exposes a typed Manifest of named callables. Two loaders
// are provided: PluginLoader opens compiled Go plugins from disk, and
// Registry serves manifests that registered themselves in-process during
// their own initialization.
package artifact
