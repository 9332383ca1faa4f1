package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/SoloveyLS/xml-prompt-manager/internal/editor"
)

// editorKey translates a terminal key into an editing key. Commands bound
// in keys.EditorKeyMap never reach it.
func editorKey(msg tea.KeyMsg) (editor.Key, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		if msg.Alt {
			return editor.Key{}, false
		}
		return editor.Runes(string(msg.Runes)), true
	case tea.KeySpace:
		return editor.Key{Type: editor.KeySpace}, true
	case tea.KeyTab:
		return editor.Key{Type: editor.KeyTab}, true
	case tea.KeyShiftTab:
		return editor.Key{Type: editor.KeyShiftTab}, true
	case tea.KeyEnter:
		return editor.Key{Type: editor.KeyEnter}, true
	case tea.KeyBackspace, tea.KeyCtrlH:
		return editor.Key{Type: editor.KeyBackspace}, true
	case tea.KeyDelete:
		return editor.Key{Type: editor.KeyDelete}, true
	case tea.KeyLeft:
		return editor.Key{Type: editor.KeyLeft}, true
	case tea.KeyRight:
		return editor.Key{Type: editor.KeyRight}, true
	case tea.KeyUp:
		if msg.Alt {
			return editor.Key{Type: editor.KeyAltUp}, true
		}
		return editor.Key{Type: editor.KeyUp}, true
	case tea.KeyDown:
		if msg.Alt {
			return editor.Key{Type: editor.KeyAltDown}, true
		}
		return editor.Key{Type: editor.KeyDown}, true
	case tea.KeyHome, tea.KeyCtrlA:
		return editor.Key{Type: editor.KeyHome}, true
	case tea.KeyEnd, tea.KeyCtrlE:
		return editor.Key{Type: editor.KeyEnd}, true
	}
	return editor.Key{}, false
}
