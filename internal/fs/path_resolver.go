package fs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DataSuffix is the extension of the files picked up when a directory is given
// as a data input.
const DataSuffix = ".json"

// PathResolver provides path resolution operations.
type PathResolver interface {
	// CanonicalPath returns the canonical, absolute path by resolving symlinks.
	CanonicalPath(path string) (string, error)
	// Abs returns the absolute path.
	Abs(path string) (string, error)
	// ExpandInputs turns file, directory and glob arguments into a sorted,
	// de-duplicated list of files.
	ExpandInputs(args []string) ([]string, error)
}

// StandardPathResolver is the default implementation using standard library functions.
type StandardPathResolver struct{}

// NewPathResolver creates a new StandardPathResolver.
func NewPathResolver() *StandardPathResolver {
	return &StandardPathResolver{}
}

// CanonicalPath returns the canonical, absolute path by resolving symlinks.
func (r *StandardPathResolver) CanonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return filepath.EvalSymlinks(abs)
}

// Abs returns the absolute path.
func (r *StandardPathResolver) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// NoMatchError reports a glob or directory argument that selected no files.
type NoMatchError struct {
	Arg string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no data files match '%s'", e.Arg)
}

// ExpandInputs expands each argument: globs to their matches, directories to
// the *.json files below them (hidden directories skipped), anything else is
// kept as given. Arguments that select nothing are an error.
func (r *StandardPathResolver) ExpandInputs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		files, err := expand(arg)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, &NoMatchError{Arg: arg}
		}
		out = append(out, files...)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func expand(arg string) ([]string, error) {
	if strings.ContainsAny(arg, "*?[") {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern '%s': %w", arg, err)
		}
		return matches, nil
	}

	info, err := os.Stat(arg)
	if err != nil || !info.IsDir() {
		return []string{arg}, nil
	}

	var files []string
	err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != arg {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == DataSuffix {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
