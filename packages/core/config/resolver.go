package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	// masterConfigName is matched as a substring of a file's base name;
	// any file matching it feeds the master configuration instead of the
	// shared defaults.
	masterConfigName = "master"

	// defaultConfigName names the single synthetic environment produced
	// when the configuration directory has no subdirectories.
	defaultConfigName = "single execution"
)

// WarnFunc is a function type for handling warnings
type WarnFunc func(format string, args ...any)

// Resolver turns a configuration directory into one master store and one
// store per execution environment.
//
// Precedence is strict: caller overrides beat per-environment files,
// which beat the shared default files at the directory's top level. The
// master configuration is a parallel output and is never merged into the
// environment stores.
type Resolver struct {
	warnFunc WarnFunc
}

func NewResolver() *Resolver {
	return &Resolver{}
}

// SetWarnFunc sets a function to be called when a file is skipped
// because it could not be used as configuration.
func (r *Resolver) SetWarnFunc(fn WarnFunc) {
	r.warnFunc = fn
}

func (r *Resolver) warn(format string, args ...any) {
	if r.warnFunc != nil {
		r.warnFunc(format, args...)
	}
}

// ResolveDirectory scans dir and produces the master store plus the
// environment stores. With no subdirectories there is exactly one
// environment, named "single execution"; otherwise one per subdirectory,
// named after it. Overrides win every conflict. A missing master file
// yields an empty master store.
func (r *Resolver) ResolveDirectory(dir string, overrides map[string]any) (*Store, []*Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}

	var subdirs []string
	defaults := make(map[string]any)
	var master map[string]any

	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			subdirs = append(subdirs, full)
			continue
		}
		mapping, err := r.parse(full)
		if err != nil {
			return nil, nil, err
		}
		if mapping == nil {
			continue
		}
		base := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if strings.Contains(base, masterConfigName) {
			// Last master-named file wins outright.
			master = mapping
		} else {
			mergeInto(defaults, mapping)
		}
	}

	masterStore := NewStore(masterConfigName, master)

	if len(subdirs) == 0 {
		merged := copyMapping(defaults)
		mergeInto(merged, overrides)
		return masterStore, []*Store{NewStore(defaultConfigName, merged)}, nil
	}

	envs := make([]*Store, 0, len(subdirs))
	for _, subdir := range subdirs {
		files, err := os.ReadDir(subdir)
		if err != nil {
			return nil, nil, err
		}
		merged := copyMapping(defaults)
		for _, file := range files {
			if file.IsDir() {
				continue
			}
			mapping, err := r.parse(filepath.Join(subdir, file.Name()))
			if err != nil {
				return nil, nil, err
			}
			if mapping == nil {
				continue
			}
			mergeInto(merged, mapping)
		}
		mergeInto(merged, overrides)
		envs = append(envs, NewStore(filepath.Base(subdir), merged))
	}

	return masterStore, envs, nil
}

// parse wraps ParseFile with the per-file skip rule: an unrecognized
// extension or malformed content drops the file with a warning and
// never fails the scan. A nil mapping with nil error means skipped.
func (r *Resolver) parse(path string) (map[string]any, error) {
	mapping, err := ParseFile(path)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			r.warn("ignored configuration file: %v", parseErr)
			return nil, nil
		}
		return nil, err
	}
	return mapping, nil
}

// mergeInto merges src into dst, src winning key conflicts. Merging is
// shallow per key; values are deep-copied so dst never aliases src.
func mergeInto(dst, src map[string]any) {
	for k, v := range src {
		dst[k] = copyValue(v)
	}
}
