package suite

import (
	"fmt"
	"strings"
)

// MissingArtifactError reports a descriptor-referenced path that does
// not exist on the filesystem.
type MissingArtifactError struct {
	Path string
	Err  error
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("referenced artifact %s does not exist: %v", e.Path, e.Err)
}

func (e *MissingArtifactError) Unwrap() error {
	return e.Err
}

// InvalidDescriptorError reports a descriptor whose key set is wrong.
type InvalidDescriptorError struct {
	Violations []string
}

func (e *InvalidDescriptorError) Error() string {
	msg := "descriptor requires exactly four fields: deployment_code, test_code, perf_code, configs_directory"
	if len(e.Violations) > 0 {
		msg += ": " + strings.Join(e.Violations, "; ")
	}
	return msg
}

// UnsupportedFormatError reports a descriptor file whose extension is
// not a recognized suite format.
type UnsupportedFormatError struct {
	Path string
	Ext  string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s is not a supported suite format (%q); use a JSON/YAML data file or a compiled code artifact", e.Path, e.Ext)
}
