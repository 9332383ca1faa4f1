// Package app contains the root application model.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"github.com/SoloveyLS/xml-prompt-manager/internal/buffer"
	"github.com/SoloveyLS/xml-prompt-manager/internal/config"
	"github.com/SoloveyLS/xml-prompt-manager/internal/critique"
	"github.com/SoloveyLS/xml-prompt-manager/internal/editor"
	"github.com/SoloveyLS/xml-prompt-manager/internal/flags"
	"github.com/SoloveyLS/xml-prompt-manager/internal/keys"
	"github.com/SoloveyLS/xml-prompt-manager/internal/livesync"
	"github.com/SoloveyLS/xml-prompt-manager/internal/log"
	"github.com/SoloveyLS/xml-prompt-manager/internal/pubsub"
	"github.com/SoloveyLS/xml-prompt-manager/internal/templates"
	"github.com/SoloveyLS/xml-prompt-manager/internal/ui/critiquepanel"
	"github.com/SoloveyLS/xml-prompt-manager/internal/ui/help"
	"github.com/SoloveyLS/xml-prompt-manager/internal/ui/modal"
	"github.com/SoloveyLS/xml-prompt-manager/internal/ui/sidebar"
	"github.com/SoloveyLS/xml-prompt-manager/internal/ui/styles"
	"github.com/SoloveyLS/xml-prompt-manager/internal/ui/textview"
	"github.com/SoloveyLS/xml-prompt-manager/internal/ui/toaster"
	"github.com/SoloveyLS/xml-prompt-manager/internal/validate"
)

// Modal IDs.
const (
	modalSaveFile       = "save-file"
	modalSaveTemplate   = "save-template"
	modalDeleteTemplate = "delete-template"
)

// Config wires the model to its services.
type Config struct {
	Settings config.Config
	// Templates may be nil, which hides the sidebar.
	Templates *templates.Service
	// Critic may be nil when no LLM is configured.
	Critic *critique.Critic
	// Path is the file being edited, empty for the session buffer.
	Path string
	// Content is the initial buffer. When Path is empty the stored session
	// replaces it on startup.
	Content string
	// Flags may be nil, which leaves every opt-in feature off.
	Flags *flags.Registry
}

// Model is the root application state.
type Model struct {
	cfg    config.Config
	keys   keys.EditorKeyMap
	engine *livesync.Engine

	state  buffer.State
	path   string
	dirty  bool
	valid  validate.Result
	status string

	// Components
	view        textview.Model
	sidebar     sidebar.Model
	showSidebar bool
	critique    critiquepanel.Model
	help        help.Model
	showHelp    bool
	toaster     toaster.Model

	modal         modal.Model
	modalOpen     bool
	pendingDelete *sidebar.DeleteMsg

	// Services
	templates *templates.Service
	critic    *critique.Critic
	flags     *flags.Registry

	ctx              context.Context
	cancel           context.CancelFunc
	templateListener *pubsub.ContinuousListener[templates.Event]
	logListener      *log.Listener
	logLine          string
	fileChanges      <-chan struct{}

	width  int
	height int
}

// New creates the root model.
func New(c Config) Model {
	ctx, cancel := context.WithCancel(context.Background())

	km := keys.DefaultEditorKeyMap()
	m := Model{
		cfg:         c.Settings,
		keys:        km,
		engine:      livesync.NewEngine(c.Settings.Editor.SyncDebounce),
		path:        c.Path,
		view:        textview.New().Focus(),
		sidebar:     sidebar.New(),
		showSidebar: c.Templates != nil,
		critique:    critiquepanel.New(c.Settings.UI.MarkdownStyle),
		help:        help.New(km, keys.DefaultSidebarKeyMap()),
		toaster:     toaster.New(),
		templates:   c.Templates,
		critic:      c.Critic,
		flags:       c.Flags,
		ctx:         ctx,
		cancel:      cancel,
		logListener: log.NewListener(ctx),
	}
	if c.Templates != nil {
		m.templateListener = pubsub.NewContinuousListener(ctx, c.Templates.Broker())
	}
	if c.Path != "" && c.Flags.Enabled(flags.WatchFile) {
		m.fileChanges = watchFile(ctx, c.Path)
	}
	return m.setState(buffer.New(c.Content, 0))
}

// Init loads templates and the session, then starts the listeners and the
// auto-save timer.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.autoSaveTick()}
	if m.templates != nil {
		for _, kind := range templates.Kinds {
			cmds = append(cmds, m.loadTemplates(kind))
		}
		cmds = append(cmds, m.loadSession(), m.templateListener.Listen())
	}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	if m.fileChanges != nil {
		cmds = append(cmds, waitForFileChange(m.fileChanges))
	}
	return tea.Batch(cmds...)
}

// Text returns the buffer contents.
func (m Model) Text() string {
	return m.state.Text
}

// State returns the buffer with its selection.
func (m Model) State() buffer.State {
	return m.state
}

// Status returns the last status message.
func (m Model) Status() string {
	return m.status
}

func (m Model) setState(s buffer.State) Model {
	m.state = s.Clamp()
	if strings.TrimSpace(m.state.Text) == "" {
		m.valid = validate.Result{Valid: true}
	} else {
		m.valid = validate.Structure(m.state.Text)
	}
	m.view = m.view.Follow(m.state)
	return m
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m.layout(), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case syncTickMsg:
		if !m.engine.Fresh(msg.gen) {
			return m, nil
		}
		if next, ran := editor.Sync(m.engine, m.state); ran {
			m = m.setState(next)
			m.dirty = true
			m.status = editor.StatusTagSynchronized
		}
		return m, nil

	case autoSaveMsg:
		return m, tea.Batch(m.saveSession(), m.autoSaveTick())

	case sessionLoadedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatDB, "Failed to load session", msg.err)
			return m, nil
		}
		m.sidebar = m.sidebar.SetTab(msg.session.ActiveTab)
		if m.path == "" && m.state.Text == "" {
			m = m.setState(buffer.New(msg.session.Content, 0))
		}
		return m, nil

	case sessionSavedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatDB, "Failed to save session", msg.err)
		}
		return m, nil

	case templatesLoadedMsg:
		if msg.err != nil {
			return m.showError(fmt.Sprintf("Loading %s templates failed: %v", msg.kind, msg.err))
		}
		m.sidebar = m.sidebar.SetTemplates(msg.kind, msg.list)
		return m, nil

	case pubsub.Event[templates.Event]:
		return m, tea.Batch(m.loadTemplates(msg.Payload.Kind), m.templateListener.Listen())

	case pubsub.Event[string]:
		m.logLine = strings.TrimSpace(msg.Payload)
		return m, m.logListener.Listen()

	case sidebar.UseMsg:
		return m, m.getTemplate(msg.Kind, msg.Name)

	case sidebar.DeleteMsg:
		m.pendingDelete = &msg
		return m.openModal(modal.Config{
			ID:           modalDeleteTemplate,
			Title:        "Delete Template",
			Message:      fmt.Sprintf("Delete %s template %q?", strings.ToLower(msg.Kind.Label()), msg.Name),
			ConfirmLabel: "Delete",
			Danger:       true,
		})

	case sidebar.BackMsg:
		m = m.focusEditor()
		return m, nil

	case sidebar.TabMsg:
		return m, nil

	case templateFetchedMsg:
		if msg.err != nil {
			return m.showError(msg.err.Error())
		}
		return m.useTemplate(msg.template), nil

	case templateSavedMsg:
		if msg.err != nil {
			return m.showError(msg.err.Error())
		}
		m.status = fmt.Sprintf("%s template %q saved", msg.template.Kind.Label(), msg.template.Name)
		return m, nil

	case templateDeletedMsg:
		if msg.err != nil {
			return m.showError(msg.err.Error())
		}
		m.status = fmt.Sprintf("Deleted template %q", msg.name)
		return m, nil

	case fileSavedMsg:
		if msg.err != nil {
			return m.showError("Save failed: " + msg.err.Error())
		}
		m.path = msg.path
		m.dirty = false
		m.status = "Saved " + msg.path
		return m.showToast("Saved "+filepath.Base(msg.path), toaster.StyleSuccess)

	case fileChangedMsg:
		return m.reloadFile()

	case fileReloadedMsg:
		return m.handleReload(msg)

	case modal.SubmitMsg:
		m.modalOpen = false
		return m.handleSubmit(msg)

	case modal.CancelMsg:
		m.modalOpen = false
		m.pendingDelete = nil
		return m, nil

	case critiquepanel.RunMsg:
		var cmd tea.Cmd
		m.critique, cmd = m.critique.Start()
		return m, tea.Batch(cmd, m.runCritique(msg))

	case critiquepanel.CloseMsg:
		return m.layout(), nil

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil
	}

	// Spinner ticks, cursor blinks and critique results.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.critique, cmd = m.critique.Update(msg)
	cmds = append(cmds, cmd)
	if m.modalOpen {
		m.modal, cmd = m.modal.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		if save := m.saveSession(); save != nil {
			return m, tea.Sequence(save, tea.Quit)
		}
		return m, tea.Quit
	}

	if m.modalOpen {
		var cmd tea.Cmd
		m.modal, cmd = m.modal.Update(msg)
		return m, cmd
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Escape) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Questions):
		return m.openCritique(critique.Questions)
	case key.Matches(msg, m.keys.Analysis):
		return m.openCritique(critique.Analysis)
	case key.Matches(msg, m.keys.ToggleSidebar):
		if m.templates == nil {
			return m, nil
		}
		m.showSidebar = !m.showSidebar
		if !m.showSidebar {
			m = m.focusEditor()
		}
		return m.layout(), nil
	}

	if m.critique.Visible() {
		var cmd tea.Cmd
		m.critique, cmd = m.critique.Update(msg)
		return m, cmd
	}

	if m.sidebar.Focused() {
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Save):
		if m.path == "" {
			return m.openModal(modal.Config{
				ID:          modalSaveFile,
				Title:       "Save File",
				WithInput:   true,
				Placeholder: "prompt.xml",
			})
		}
		return m.writeFile(m.path)

	case key.Matches(msg, m.keys.Prettify):
		return m.replaceAll(editor.Prettify(m.state), editor.StatusPrettified), nil

	case key.Matches(msg, m.keys.Lessen):
		return m.replaceAll(editor.Lessen(m.state), editor.StatusLessened), nil

	case key.Matches(msg, m.keys.Validate):
		if res := validate.Structure(m.state.Text); !res.Valid {
			return m.showToast(res.Err, toaster.StyleError)
		}
		return m.showToast("XML structure is valid", toaster.StyleSuccess)

	case key.Matches(msg, m.keys.SaveTemplate):
		if m.templates == nil {
			return m, nil
		}
		kind := m.sidebar.Tab()
		return m.openModal(modal.Config{
			ID:          modalSaveTemplate,
			Title:       fmt.Sprintf("Save %s Template", kind.Label()),
			Message:     "Saves the editor content under a name.",
			WithInput:   true,
			Placeholder: "Template name",
		})

	case key.Matches(msg, m.keys.FocusSidebar):
		if m.templates == nil {
			return m, nil
		}
		m.showSidebar = true
		m.sidebar = m.sidebar.Focus()
		m.view = m.view.Blur()
		return m.layout(), nil
	}

	k, ok := editorKey(msg)
	if !ok {
		return m, nil
	}
	return m.apply(k)
}

// apply runs one editing key and arms the sync the edit asks for.
func (m Model) apply(k editor.Key) (tea.Model, tea.Cmd) {
	next, eff := editor.Apply(m.state, k)
	m = m.setState(next)
	if eff.Changed {
		m.dirty = true
	}
	if eff.Status != "" {
		m.status = eff.Status
	}

	switch {
	case eff.SyncSoon:
		gen := m.engine.Bump()
		return m, func() tea.Msg { return syncTickMsg{gen: gen} }
	case eff.ScheduleSync:
		gen := m.engine.Bump()
		return m, tea.Tick(m.engine.Delay(), func(time.Time) tea.Msg { return syncTickMsg{gen: gen} })
	}
	return m, nil
}

func (m Model) replaceAll(s buffer.State, status string) Model {
	if s.Text != m.state.Text {
		m.dirty = true
	}
	// A pending pass would see offsets from the old text.
	m.engine.Bump()
	m = m.setState(s)
	m.status = status
	return m
}

// writeFile saves the buffer to path, prettifying it first when that flag
// is on.
func (m Model) writeFile(path string) (tea.Model, tea.Cmd) {
	if m.flags.Enabled(flags.PrettifyOnSave) {
		m = m.replaceAll(editor.Prettify(m.state), editor.StatusPrettified)
	}
	return m, saveFile(path, m.state.Text)
}

// reloadFile rereads the open file unless there are unsaved edits.
func (m Model) reloadFile() (tea.Model, tea.Cmd) {
	next := waitForFileChange(m.fileChanges)
	if m.dirty {
		m.status = "File changed on disk; keeping unsaved edits"
		return m, next
	}
	return m, tea.Batch(next, readFile(m.path))
}

func (m Model) handleReload(msg fileReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.Warn(log.CatWatcher, "Reloading file failed", "path", msg.path, "error", msg.err)
		return m, nil
	}
	if msg.path != m.path || m.dirty || msg.content == m.state.Text {
		return m, nil
	}
	m.engine.Bump()
	m = m.setState(buffer.New(msg.content, m.state.Caret()))
	m.status = "Reloaded " + filepath.Base(m.path)
	return m, nil
}

func (m Model) useTemplate(t *templates.Template) Model {
	if t.Kind == templates.Structure {
		m = m.replaceAll(buffer.New(t.Content, len(t.Content)), fmt.Sprintf("Loaded structure template %q", t.Name))
	} else {
		m = m.replaceAll(m.state.Replace(t.Content), fmt.Sprintf("Inserted field template %q", t.Name))
	}
	return m.focusEditor()
}

func (m Model) handleSubmit(msg modal.SubmitMsg) (tea.Model, tea.Cmd) {
	switch msg.ID {
	case modalSaveFile:
		if msg.Value == "" {
			return m.showError("Please enter a file name")
		}
		return m.writeFile(msg.Value)
	case modalSaveTemplate:
		return m, m.saveTemplate(m.sidebar.Tab(), msg.Value, m.state.Text)
	case modalDeleteTemplate:
		target := m.pendingDelete
		m.pendingDelete = nil
		if target == nil {
			return m, nil
		}
		return m, m.deleteTemplate(target.Kind, target.Name)
	}
	return m, nil
}

func (m Model) openModal(cfg modal.Config) (tea.Model, tea.Cmd) {
	m.modal = modal.New(cfg)
	m.modalOpen = true
	return m, m.modal.Init()
}

func (m Model) openCritique(kind critique.Kind) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.critique, cmd = m.critique.Open(kind)
	m.sidebar = m.sidebar.Blur()
	return m.layout(), cmd
}

func (m Model) focusEditor() Model {
	m.sidebar = m.sidebar.Blur()
	m.view = m.view.Focus()
	return m
}

func (m Model) showToast(message string, style toaster.Style) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.toaster, cmd = m.toaster.Show(message, style, toaster.DefaultDuration)
	return m, cmd
}

func (m Model) showError(message string) (tea.Model, tea.Cmd) {
	return m.showToast(message, toaster.StyleError)
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.modalOpen || m.showHelp {
		return m, nil
	}
	x, y, w, h := m.editorRect()

	if m.critique.Visible() && msg.X >= x+w {
		var cmd tea.Cmd
		m.critique, cmd = m.critique.Update(msg)
		return m, cmd
	}

	if m.showSidebar && msg.X < x {
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.Update(msg)
		return m, cmd
	}

	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress {
		return m, nil
	}
	// Inside the border.
	if msg.X <= x || msg.X >= x+w-1 || msg.Y <= y || msg.Y >= y+h-1 {
		return m, nil
	}
	offset := m.view.OffsetAt(m.state, msg.X-x-1, msg.Y-y-1)
	m = m.focusEditor()
	return m.setState(m.state.WithCaret(offset)), nil
}

func (m Model) bodyHeight() int {
	if m.cfg.UI.ShowStatusBar {
		return max(m.height-1, 3)
	}
	return max(m.height, 3)
}

func (m Model) critiqueWidth() int {
	if !m.critique.Visible() {
		return 0
	}
	return max(m.width*2/5, 30)
}

// editorRect returns the editor panel bounds including its border.
func (m Model) editorRect() (x, y, w, h int) {
	if m.showSidebar {
		x = sidebar.Width
	}
	w = max(m.width-x-m.critiqueWidth(), 10)
	return x, 0, w, m.bodyHeight()
}

func (m Model) layout() Model {
	_, _, w, h := m.editorRect()
	m.view = m.view.SetSize(w-2, h-2).Follow(m.state)
	m.sidebar = m.sidebar.SetHeight(h)
	m.critique = m.critique.SetSize(m.critiqueWidth(), h)
	return m
}

func (m Model) title() string {
	name := "untitled"
	if m.path != "" {
		name = filepath.Base(m.path)
	}
	if m.dirty {
		name += " •"
	}
	return name
}

func (m Model) statusBar() string {
	width := max(m.width-2, 1)
	var left string
	switch {
	case strings.TrimSpace(m.state.Text) == "":
		left = styles.MutedStyle.Render("empty")
	case m.valid.Valid:
		left = styles.StatusValidStyle.Render("✓ valid")
	default:
		left = styles.StatusInvalidStyle.Render("✗ " + m.valid.Err)
	}
	msg := m.status
	if msg == "" {
		msg = m.logLine
	}
	if msg != "" {
		left += "  " + msg
	}

	pos := buffer.PositionOf(m.state.Text, m.state.Caret())
	right := fmt.Sprintf("Ln %d, Col %d", pos.Row+1, pos.Col+1)
	if hint := m.help.Short(m.sidebar.Focused()); lipgloss.Width(left)+lipgloss.Width(hint)+lipgloss.Width(right)+4 <= width {
		right = hint + "  " + right
	}

	left = ansi.Truncate(left, max(width-lipgloss.Width(right)-1, 0), "…")
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return styles.StatusBarStyle.Render(ansi.Truncate(left+strings.Repeat(" ", gap)+right, width, ""))
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	_, _, w, h := m.editorRect()

	var panes []string
	if m.showSidebar {
		panes = append(panes, m.sidebar.View())
	}
	panes = append(panes, styles.Panel(m.view.View(m.state), m.title(), w, h, m.view.Focused()))
	if m.critique.Visible() {
		panes = append(panes, m.critique.View())
	}
	view := lipgloss.JoinHorizontal(lipgloss.Top, panes...)
	if m.cfg.UI.ShowStatusBar {
		view += "\n" + m.statusBar()
	}

	if m.showHelp {
		view = m.help.Overlay(view, m.width, m.height)
	}
	if m.modalOpen {
		view = m.modal.Overlay(view, m.width, m.height)
	}
	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}
	return zone.Scan(view)
}

// Close stops the listeners and any pending sync.
func (m *Model) Close() error {
	m.cancel()
	m.engine.Stop()
	return nil
}
