package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"doctrans/internal/port"
)

// Walker lists files under a root that match the include globs and none of
// the exclude globs. Globs are matched against slash-separated paths
// relative to the root.
type Walker struct {
	fs       afero.Fs
	includes []string
	excludes []string
}

// NewWalker creates a walker over fs. Use afero.NewOsFs() for the real
// filesystem and afero.NewMemMapFs() in tests.
func NewWalker(fs afero.Fs, includes, excludes []string) *Walker {
	if len(includes) == 0 {
		includes = []string{"**/*.py"}
	}
	return &Walker{
		fs:       fs,
		includes: includes,
		excludes: excludes,
	}
}

// NewOsWalker creates a walker over the operating system filesystem.
func NewOsWalker(includes, excludes []string) *Walker {
	return NewWalker(afero.NewOsFs(), includes, excludes)
}

// Walk returns the matching files sorted by path.
func (w *Walker) Walk(root string) ([]port.FileInfo, error) {
	var files []port.FileInfo

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	err = afero.Walk(w.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if relPath != "." && w.shouldExclude(relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if w.shouldInclude(relPath) && !w.shouldExclude(relPath) {
			files = append(files, port.FileInfo{
				Path:    path,
				ModTime: info.ModTime().Unix(),
				Size:    info.Size(),
			})
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func (w *Walker) shouldInclude(path string) bool {
	return matchAny(w.includes, path)
}

func (w *Walker) shouldExclude(path string) bool {
	return matchAny(w.excludes, path)
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

// ReadFile returns the content of path as a string.
func (w *Walker) ReadFile(path string) (string, error) {
	data, err := afero.ReadFile(w.fs, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
