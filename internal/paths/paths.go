// Package paths resolves user-supplied file locations.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// StoreFile is the database file name used when a directory is given.
const StoreFile = "xpm.db"

// Expand replaces a leading ~ with the home directory and expands
// environment variables.
//
//   - "~/.config/xpm/xpm.db" -> "/home/me/.config/xpm/xpm.db"
//   - "$XDG_DATA_HOME/xpm.db" -> "/home/me/.local/share/xpm.db"
//   - "" -> ""
func Expand(path string) string {
	if path == "" {
		return ""
	}
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Clean(path)
}

// ResolveStore returns the database file for path. An existing directory,
// or a path ending in a separator, gets StoreFile appended.
//
//   - "~/prompts/" -> "/home/me/prompts/xpm.db"
//   - "/srv/prompts" (a directory) -> "/srv/prompts/xpm.db"
//   - "team.db" -> "team.db"
func ResolveStore(path string) string {
	if path == "" {
		return ""
	}
	dirHint := strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator))
	path = Expand(path)
	if dirHint {
		return filepath.Join(path, StoreFile)
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, StoreFile)
	}
	return path
}
