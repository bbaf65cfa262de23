package cmd

// Exit codes for the deployspec CLI
const (
	// ExitSuccess indicates resolution completed
	ExitSuccess = 0

	// ExitResolveError indicates the suite could not be resolved
	ExitResolveError = 1

	// ExitDescriptorError indicates an invalid or unsupported descriptor
	ExitDescriptorError = 2

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
