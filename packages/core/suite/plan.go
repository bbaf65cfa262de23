package suite

import (
	"github.com/abdul-hamid-achik/deployspec/packages/artifact"
	"github.com/abdul-hamid-achik/deployspec/packages/core/config"
	"github.com/abdul-hamid-achik/deployspec/packages/core/discovery"
	"github.com/abdul-hamid-achik/deployspec/packages/workspace"
)

// ExecutionPlan is the fully resolved run handed to the test-execution
// engine: loaded code artifacts, discovered tests, merged configuration
// stores, and the output-directory layout. It is never produced
// partially; any failure during resolution aborts the whole pass.
type ExecutionPlan struct {
	RunID        string
	Deployment   artifact.Module
	Perf         artifact.Module
	Tests        []discovery.Test
	Master       *config.Store
	Environments []*config.Store
	Workspace    workspace.Layout
}
