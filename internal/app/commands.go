package app

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SoloveyLS/xml-prompt-manager/internal/critique"
	"github.com/SoloveyLS/xml-prompt-manager/internal/log"
	"github.com/SoloveyLS/xml-prompt-manager/internal/templates"
	"github.com/SoloveyLS/xml-prompt-manager/internal/ui/critiquepanel"
	"github.com/SoloveyLS/xml-prompt-manager/internal/watcher"
)

// storeTimeout bounds each store call made from the UI.
const storeTimeout = 5 * time.Second

type syncTickMsg struct {
	gen uint64
}

type autoSaveMsg struct{}

type sessionLoadedMsg struct {
	session *templates.Session
	err     error
}

type sessionSavedMsg struct {
	err error
}

type templatesLoadedMsg struct {
	kind templates.Kind
	list []*templates.Template
	err  error
}

type templateFetchedMsg struct {
	template *templates.Template
	err      error
}

type templateSavedMsg struct {
	template *templates.Template
	err      error
}

type templateDeletedMsg struct {
	kind templates.Kind
	name string
	err  error
}

type fileSavedMsg struct {
	path string
	err  error
}

type fileChangedMsg struct{}

type fileReloadedMsg struct {
	path    string
	content string
	err     error
}

func (m Model) autoSaveTick() tea.Cmd {
	if m.templates == nil || m.cfg.Editor.AutoSave <= 0 {
		return nil
	}
	return tea.Tick(m.cfg.Editor.AutoSave, func(time.Time) tea.Msg { return autoSaveMsg{} })
}

func (m Model) loadSession() tea.Cmd {
	svc := m.templates
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		s, err := svc.LoadSession(ctx)
		return sessionLoadedMsg{session: s, err: err}
	}
}

// saveSession snapshots the buffer now; the write happens in the command.
func (m Model) saveSession() tea.Cmd {
	if m.templates == nil {
		return nil
	}
	svc := m.templates
	session := &templates.Session{Content: m.state.Text, ActiveTab: m.sidebar.Tab()}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		_, err := svc.SaveSession(ctx, session)
		return sessionSavedMsg{err: err}
	}
}

func (m Model) loadTemplates(kind templates.Kind) tea.Cmd {
	svc := m.templates
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		list, err := svc.List(ctx, kind)
		return templatesLoadedMsg{kind: kind, list: list, err: err}
	}
}

func (m Model) getTemplate(kind templates.Kind, name string) tea.Cmd {
	svc := m.templates
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		t, err := svc.Get(ctx, kind, name)
		return templateFetchedMsg{template: t, err: err}
	}
}

func (m Model) saveTemplate(kind templates.Kind, name, content string) tea.Cmd {
	svc := m.templates
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		t, err := svc.Save(ctx, kind, name, content)
		return templateSavedMsg{template: t, err: err}
	}
}

func (m Model) deleteTemplate(kind templates.Kind, name string) tea.Cmd {
	svc := m.templates
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		err := svc.Delete(ctx, kind, name)
		return templateDeletedMsg{kind: kind, name: name, err: err}
	}
}

// runCritique calls the critic off the update loop. The request is bound to
// the model's lifetime so quitting aborts it.
func (m Model) runCritique(run critiquepanel.RunMsg) tea.Cmd {
	critic := m.critic
	ctx := m.ctx
	req := critique.Request{Kind: run.Kind, Prompt: m.state.Text, Focus: run.Focus}
	return func() tea.Msg {
		if critic == nil {
			return critiquepanel.ResultMsg{Kind: run.Kind, Err: critique.ErrNotConfigured}
		}
		res, err := critic.Run(ctx, req)
		return critiquepanel.ResultMsg{Kind: run.Kind, Result: res, Err: err}
	}
}

func saveFile(path, content string) tea.Cmd {
	return func() tea.Msg {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil { //nolint:gosec // prompt files are not secret
			return fileSavedMsg{path: path, err: fmt.Errorf("writing %s: %w", path, err)}
		}
		log.Info(log.CatIO, "File saved", "path", path, "bytes", len(content))
		return fileSavedMsg{path: path}
	}
}

// watchFile returns change signals for path until ctx is done, or nil when
// the watcher cannot start.
func watchFile(ctx context.Context, path string) <-chan struct{} {
	w, err := watcher.New(path, watcher.DefaultDebounce)
	if err != nil {
		log.Warn(log.CatWatcher, "File watch disabled", "path", path, "error", err)
		return nil
	}
	changes, err := w.Watch(ctx)
	if err != nil {
		log.Warn(log.CatWatcher, "File watch disabled", "path", path, "error", err)
		return nil
	}
	return changes
}

func waitForFileChange(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return fileChangedMsg{}
	}
}

func readFile(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path) //nolint:gosec // G304: the file being edited
		if err != nil {
			return fileReloadedMsg{path: path, err: err}
		}
		return fileReloadedMsg{path: path, content: string(data)}
	}
}
