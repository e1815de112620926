package util

import (
	"path/filepath"
)

// ResolveRelative interprets target relative to the directory of base unless target is absolute.
func ResolveRelative(base, target string) string {
	if target == "" || filepath.IsAbs(target) {
		return target
	}
	return filepath.Join(filepath.Dir(base), target)
}
