package boundary

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
)

// canonicalRoot resolves the approved directory to its canonical absolute
// form: symlinks followed, . and .. collapsed. The root must exist — an
// approved directory that cannot be resolved denies the command.
func canonicalRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// resolveLenient canonicalizes path, tolerating a tail that does not exist
// yet (mkdir/touch targets). The deepest existing ancestor is symlink-
// resolved and the remaining components are rejoined lexically, so a new
// leaf containment-tests against the prefix that actually exists — and a
// new file whose existing parent symlinks outside the root resolves
// through that symlink. Errors other than non-existence (symlink loops,
// permission failures) are returned to the caller.
func resolveLenient(path string) (string, error) {
	path = filepath.Clean(path)

	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	var tail []string
	dir := path
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			// Hit the filesystem root without finding an existing
			// ancestor; keep the lexical form.
			return path, nil
		}
		tail = append([]string{filepath.Base(dir)}, tail...)
		dir = parent

		resolved, err := filepath.EvalSymlinks(dir)
		if err == nil {
			return filepath.Join(append([]string{resolved}, tail...)...), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
}

// contains reports whether path equals root or is a descendant of it.
// Both arguments must already be canonical absolute paths.
func contains(root, path string) bool {
	if path == root {
		return true
	}
	if root == string(filepath.Separator) {
		return filepath.IsAbs(path)
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}
