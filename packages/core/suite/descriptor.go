package suite

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/deployspec/packages/artifact"
	"github.com/abdul-hamid-achik/deployspec/packages/workspace"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Descriptor is the suite specification: the three kinds of code
// artifacts to load and the configuration directory to resolve.
type Descriptor struct {
	DeploymentCode   string   `json:"deployment_code" yaml:"deployment_code"`
	TestCode         []string `json:"test_code" yaml:"test_code"`
	PerfCode         string   `json:"perf_code" yaml:"perf_code"`
	ConfigsDirectory string   `json:"configs_directory" yaml:"configs_directory"`
}

// Format identifies how a suite descriptor is expressed.
type Format int

const (
	FormatUnknown Format = iota
	// FormatData is a plain JSON or YAML data file.
	FormatData
	// FormatCode is a compiled code artifact exposing a Suite symbol.
	FormatCode
)

// SuiteSymbol is the symbol a code-described suite must expose as
// `var Suite suite.Descriptor`.
const SuiteSymbol = "Suite"

// DetectFormat classifies a descriptor path by extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return FormatData
	case ".so":
		return FormatCode
	default:
		return FormatUnknown
	}
}

const descriptorSchema = `{
	"type": "object",
	"required": ["deployment_code", "test_code", "perf_code", "configs_directory"],
	"additionalProperties": false,
	"properties": {
		"deployment_code": {"type": "string"},
		"test_code": {"type": "array", "items": {"type": "string"}},
		"perf_code": {"type": "string"},
		"configs_directory": {"type": "string"}
	}
}`

// ParseDescriptor loads the suite descriptor at path and validates its
// shape: exactly the four required fields, no others. Shape validation
// happens before any path in the descriptor is touched.
func ParseDescriptor(path string, loader artifact.Loader) (*Descriptor, error) {
	switch DetectFormat(path) {
	case FormatData:
		return parseDataDescriptor(path)
	case FormatCode:
		return parseCodeDescriptor(path, loader)
	default:
		return nil, &UnsupportedFormatError{Path: path, Ext: filepath.Ext(path)}
	}
}

func parseDataDescriptor(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	raw := make(map[string]any)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse suite descriptor %s: %w", path, err)
	}

	if err := validateShape(raw); err != nil {
		return nil, err
	}

	// Round-trip through JSON to land the validated mapping in the
	// typed descriptor.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	desc := &Descriptor{}
	if err := json.Unmarshal(encoded, desc); err != nil {
		return nil, fmt.Errorf("failed to decode suite descriptor %s: %w", path, err)
	}
	return desc, nil
}

func parseCodeDescriptor(path string, loader artifact.Loader) (*Descriptor, error) {
	symbols, ok := loader.(artifact.SymbolLoader)
	if !ok {
		return nil, fmt.Errorf("loader %T cannot resolve symbols from code-described suites", loader)
	}
	sym, err := symbols.Lookup(path, SuiteSymbol)
	if err != nil {
		return nil, err
	}

	var desc Descriptor
	switch v := sym.(type) {
	case *Descriptor:
		desc = *v
	case Descriptor:
		desc = v
	default:
		return nil, &artifact.LoadError{Path: path, Err: fmt.Errorf("symbol %s is %T, want suite.Descriptor", SuiteSymbol, sym)}
	}

	// The typed symbol fixes the key set, but run it through the same
	// schema anyway so both formats fail identically.
	encoded, err := json.Marshal(desc)
	if err != nil {
		return nil, err
	}
	raw := make(map[string]any)
	if err := json.Unmarshal(encoded, &raw); err != nil {
		return nil, err
	}
	if err := validateShape(raw); err != nil {
		return nil, err
	}
	return &desc, nil
}

func validateShape(raw map[string]any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(descriptorSchema),
		gojsonschema.NewGoLoader(raw),
	)
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}
	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return &InvalidDescriptorError{Violations: violations}
}

// ValidatePaths fails with a *MissingArtifactError naming the first
// referenced path that does not exist.
func ValidatePaths(desc *Descriptor) error {
	if err := workspace.CheckFile(desc.DeploymentCode); err != nil {
		return &MissingArtifactError{Path: desc.DeploymentCode, Err: err}
	}
	for _, testCode := range desc.TestCode {
		if err := workspace.CheckFile(testCode); err != nil {
			return &MissingArtifactError{Path: testCode, Err: err}
		}
	}
	if err := workspace.CheckFile(desc.PerfCode); err != nil {
		return &MissingArtifactError{Path: desc.PerfCode, Err: err}
	}
	if err := workspace.CheckDir(desc.ConfigsDirectory); err != nil {
		return &MissingArtifactError{Path: desc.ConfigsDirectory, Err: err}
	}
	return nil
}
