package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/require"
)

func TestEditorKeyMap_NoDuplicateKeys(t *testing.T) {
	seen := map[string]string{}
	for _, group := range DefaultEditorKeyMap().FullHelp() {
		for _, b := range group {
			for _, k := range b.Keys() {
				prev, dup := seen[k]
				require.False(t, dup, "%q bound to both %q and %q", k, prev, b.Help().Desc)
				seen[k] = b.Help().Desc
			}
		}
	}
}

func TestEditorKeyMap_LeavesEditingKeysFree(t *testing.T) {
	editing := []string{"tab", "shift+tab", "enter", "backspace", "delete", "up", "down", "left", "right", "home", "end", "alt+up", "alt+down", " "}
	km := DefaultEditorKeyMap()
	for _, group := range km.FullHelp() {
		for _, b := range group {
			for _, k := range editing {
				require.NotContains(t, b.Keys(), k, "%q is an editing key", k)
			}
		}
	}
}

func TestHelpTextPresent(t *testing.T) {
	var all []key.Binding
	for _, group := range DefaultEditorKeyMap().FullHelp() {
		all = append(all, group...)
	}
	for _, group := range DefaultSidebarKeyMap().FullHelp() {
		all = append(all, group...)
	}
	c := DefaultConfirmKeyMap()
	all = append(all, c.Yes, c.No)

	for _, b := range all {
		require.NotEmpty(t, b.Help().Key)
		require.NotEmpty(t, b.Help().Desc)
		require.NotEmpty(t, b.Keys())
	}
	require.Len(t, DefaultEditorKeyMap().ShortHelp(), 5)
	require.Equal(t, []string{"ctrl+o"}, DefaultEditorKeyMap().FocusSidebar.Keys())
}
