// Package tui renders the bucket usage screen as a bubbletea program.
//
// The model never decides what state the screen is in; it forwards lifecycle
// signals and fetch results to a dashboard.Controller and draws the view model
// the controller derives.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/janekbaraniewski/bucketusage/internal/dashboard"
)

const (
	fallbackWidth = 80
	minWidth      = 30
	minHeight     = 8
)

// usageFetchedMsg carries a finished fetch back onto the update loop.
type usageFetchedMsg struct {
	result dashboard.Result
}

// SettingsChangedMsg carries presentation settings reloaded from disk. It
// never triggers a fetch.
type SettingsChangedMsg struct {
	Theme     string
	TileWidth int
	Spacing   int
}

type themePersistedMsg struct {
	name string
	err  error
}

type Model struct {
	ctx     context.Context
	ctrl    *dashboard.Controller
	catalog Catalog
	opts    Options
	styles  Styles
	logger  zerolog.Logger

	spinner spinner.Model
	keys    keyMap
	help    help.Model

	width  int
	height int
	status string

	saveTheme func(name string) error
}

// NewModel builds the screen around ctrl. ctx bounds every fetch the screen
// starts.
func NewModel(ctx context.Context, ctrl *dashboard.Controller, catalog Catalog, opts Options) Model {
	opts = opts.normalized()
	st := NewStyles(opts.Theme)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = st.Spinner

	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		catalog: catalog,
		opts:    opts,
		styles:  st,
		logger:  zerolog.Nop(),
		spinner: s,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
}

// SetThemeSaver sets the callback that persists a theme picked with "t".
func (m *Model) SetThemeSaver(fn func(name string) error) {
	m.saveTheme = fn
}

func (m *Model) SetLogger(logger zerolog.Logger) {
	m.logger = logger
}

// Theme returns the theme currently in use.
func (m Model) Theme() Theme { return m.opts.Theme }

func (m Model) Init() tea.Cmd {
	return m.activate()
}

// activate starts an activation and returns the command running its fetch,
// batched with the spinner tick. It returns nil when already active.
func (m Model) activate() tea.Cmd {
	fetch := m.ctrl.Activate(m.ctx)
	if fetch == nil {
		return nil
	}
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return usageFetchedMsg{result: fetch.Run()}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case usageFetchedMsg:
		m.ctrl.Complete(msg.result)
		return m, nil

	case spinner.TickMsg:
		if !m.ctrl.ViewModel().IsLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case SettingsChangedMsg:
		m.applySettings(msg)
		return m, nil

	case themePersistedMsg:
		if msg.err != nil {
			m.logger.Debug().Err(msg.err).Str("theme", msg.name).Msg("theme persist failed")
			m.status = "theme save failed"
		} else {
			m.status = "theme: " + msg.name
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctrl.Deactivate()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Reload):
		// A reload is a fresh activation; the old fetch is cancelled and its
		// result discarded.
		m.ctrl.Deactivate()
		m.status = ""
		return m, m.activate()

	case key.Matches(msg, m.keys.Theme):
		next := m.catalog.Next(m.opts.Theme.Name)
		m.setTheme(next)
		return m, m.persistThemeCmd(next.Name)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	return m, nil
}

func (m *Model) applySettings(msg SettingsChangedMsg) {
	if msg.Theme != "" && !strings.EqualFold(msg.Theme, m.opts.Theme.Name) {
		m.setTheme(m.catalog.Resolve(msg.Theme))
	}
	if msg.TileWidth > 0 {
		m.opts.TileWidth = msg.TileWidth
	}
	if msg.Spacing >= 0 {
		m.opts.Spacing = msg.Spacing
	}
	m.opts = m.opts.normalized()
}

func (m *Model) setTheme(t Theme) {
	m.opts.Theme = t
	m.styles = NewStyles(t)
	m.spinner.Style = m.styles.Spinner
}

func (m Model) persistThemeCmd(name string) tea.Cmd {
	save := m.saveTheme
	if save == nil {
		return nil
	}
	return func() tea.Msg {
		return themePersistedMsg{name: name, err: save(name)}
	}
}

func (m Model) View() string {
	w, h := m.width, m.height
	if w == 0 {
		w = fallbackWidth
	}
	if m.width > 0 && (m.width < minWidth || m.height < minHeight) {
		return m.styles.Dim.Render(fmt.Sprintf("\n  Terminal too small. Resize to at least %d×%d.", minWidth, minHeight))
	}

	header := m.renderHeader(w)
	footer := m.renderFooter(w)

	vm := m.ctrl.ViewModel()
	body := renderBody(vm, w-2, m.opts, m.styles, m.spinner.View())
	body = indent(body, " ")

	if h > 0 {
		bodyH := h - lipgloss.Height(header) - lipgloss.Height(footer)
		body = padToSize("\n"+body, max(bodyH, 1))
	}
	return header + "\n" + body + "\n" + footer
}

func (m Model) renderHeader(w int) string {
	brand := m.styles.Brand.Render("◆ BucketUsage")
	info := m.styles.Info.Render(m.opts.Endpoint)

	gap := w - lipgloss.Width(brand) - lipgloss.Width(info) - 2
	if gap < 1 {
		gap = 1
		info = ""
	}
	line := " " + brand + strings.Repeat(" ", gap) + info
	return line + "\n" + m.separator(w)
}

func (m Model) renderFooter(w int) string {
	status := m.help.View(m.keys)
	if m.status != "" {
		status += m.styles.Dim.Render(" · " + m.status)
	}
	return m.separator(w) + "\n " + status
}

func (m Model) separator(w int) string {
	return m.styles.Separator.Render(strings.Repeat("━", max(w, 0)))
}

func indent(s, prefix string) string {
	if s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func padToSize(content string, h int) string {
	lines := strings.Split(content, "\n")
	for len(lines) < h {
		lines = append(lines, "")
	}
	if len(lines) > h {
		lines = lines[:h]
	}
	return strings.Join(lines, "\n")
}
