package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseError reports a file that could not be used as configuration:
// its extension is not a recognized format, or its content does not
// parse. The directory resolver treats both as a skip, not a failure.
type ParseError struct {
	Path string
	Ext  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed configuration file %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("unrecognized configuration format %q: %s", e.Ext, e.Path)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseFile parses a single configuration file into an option mapping.
// JSON and YAML extensions are recognized; any other extension, and any
// recognized file with malformed content, returns a *ParseError. A file
// that cannot be read at all is an I/O error, not a *ParseError.
func ParseFile(path string) (map[string]any, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json", ".yaml", ".yml":
	default:
		return nil, &ParseError{Path: path, Ext: ext}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	mapping := make(map[string]any)
	if ext == ".json" {
		if err := json.Unmarshal(data, &mapping); err != nil {
			return nil, &ParseError{Path: path, Ext: ext, Err: err}
		}
	} else {
		if err := yaml.Unmarshal(data, &mapping); err != nil {
			return nil, &ParseError{Path: path, Ext: ext, Err: err}
		}
	}

	return mapping, nil
}
