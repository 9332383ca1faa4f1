package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("XPM_TEST_DIR", "/srv/prompts")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "home", in: "~", want: home},
		{name: "under home", in: "~/.config/xpm/xpm.db", want: filepath.Join(home, ".config", "xpm", "xpm.db")},
		{name: "env", in: "$XPM_TEST_DIR/xpm.db", want: "/srv/prompts/xpm.db"},
		{name: "other user untouched", in: "~bob/x.db", want: "~bob/x.db"},
		{name: "cleaned", in: "/a//b/../c.db", want: "/a/c.db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Expand(tt.in))
		})
	}
}

func TestResolveStore(t *testing.T) {
	dir := t.TempDir()

	require.Equal(t, "", ResolveStore(""))
	require.Equal(t, filepath.Join(dir, StoreFile), ResolveStore(dir))
	require.Equal(t, filepath.Join(dir, "new", StoreFile), ResolveStore(filepath.Join(dir, "new")+"/"))
	require.Equal(t, filepath.Join(dir, "team.db"), ResolveStore(filepath.Join(dir, "team.db")))
}
