// Package browse provides an interactive dependency browser built on
// Bubble Tea. It lists the entries of one dependency list and supports
// fuzzy filtering, adding, and removing entries in place.
package browse

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/nixed/edit"
	"github.com/ardnew/nixed/log"
)

// reloadMsg is sent when a mutating operation completes and the
// dependency list has been re-read from the file.
type reloadMsg struct {
	deps   []string
	status string
}

// opErrMsg is sent when an operation fails.
type opErrMsg struct{ err error }

const (
	addPrompt    = "+ "
	filterPrompt = "/ "
)

// inputMode represents the current input mode.
type inputMode int

const (
	modeList inputMode = iota
	modeFilter
	modeAdd
)

// Styles.
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	entryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func helpMessage(mode inputMode) string {
	switch mode {
	case modeAdd:
		return "Enter to add, Esc to cancel"

	case modeFilter:
		return "Enter to keep filter, Esc to clear"

	default:
		return "a add  d delete  / filter  ↑/↓ move  q quit"
	}
}

// model is the Bubble Tea model for the browser.
type model struct {
	ctxFunc  func() context.Context
	editor   edit.Editor
	category edit.Category
	input    textinput.Model
	logger   log.Logger
	deps     []string // all entries, document order
	visible  []string // entries matching the filter
	filter   string
	cursor   int
	width    int
	mode     inputMode
	status   string
	failed   bool
	quitting bool
}

// Run starts the browser against the editor's backing file.
func Run(
	ctx context.Context,
	editor edit.Editor,
	category edit.Category,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	deps, err := editor.Deps(ctx, category)
	if err != nil {
		return err
	}

	logger.TraceContext(
		ctx,
		"browse start",
		slog.String("path", editor.Path()),
		slog.String("category", category.String()),
		slog.Int("entry_count", len(deps)),
	)

	m := newModel(ctx, editor, category, deps, logger)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	editor edit.Editor,
	category edit.Category,
	deps []string,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:  func() context.Context { return ctx },
		editor:   editor,
		category: category,
		input:    ti,
		logger:   logger,
		deps:     deps,
		visible:  deps,
		width:    defaultWidth,
		mode:     modeList,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(addPrompt) - 2

		return m, nil

	case reloadMsg:
		m.deps = msg.deps
		m.status = msg.status
		m.failed = false
		refreshVisible(&m)

		return m, nil

	case opErrMsg:
		m.status = msg.err.Error()
		m.failed = true

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := m.editor.Path() + " (" + m.category.String() + ")"
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(hintStyle.Render("  (no entries)"))
		b.WriteString("\n")
	}

	for i, dep := range m.visible {
		switch {
		case i == m.cursor && m.mode == modeList:
			b.WriteString("> " + selectedStyle.Render(dep))

		default:
			b.WriteString("  " + entryStyle.Render(dep))
		}

		b.WriteString("\n")
	}

	b.WriteString("\n")

	if m.mode != modeList {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	switch {
	case m.failed:
		b.WriteString(errorStyle.Render("error: " + m.status))
		b.WriteString("\n")

	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	count := strconv.Itoa(len(m.visible)) + "/" + strconv.Itoa(len(m.deps))
	b.WriteString(hintStyle.Render(count + "  " + helpMessage(m.mode)))
	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"browse keypress",
		slog.String("key", msg.String()),
		slog.Int("mode", int(m.mode)),
	)

	if m.mode != modeList {
		return m.handleInputKey(msg)
	}

	switch msg.String() {
	case "q", "esc", "ctrl+c", "ctrl+d":
		m.quitting = true

		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

		return m, nil

	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}

		return m, nil

	case "a":
		m.mode = modeAdd
		m.status = ""
		m.failed = false
		m.input.Prompt = titleStyle.Render(addPrompt)
		m.input.SetValue("")
		m.input.Focus()

		return m, textinput.Blink

	case "/":
		m.mode = modeFilter
		m.status = ""
		m.failed = false
		m.input.Prompt = titleStyle.Render(filterPrompt)
		m.input.SetValue(m.filter)
		m.input.SetCursor(len(m.filter))
		m.input.Focus()

		return m, textinput.Blink

	case "d", "delete", "backspace":
		if m.cursor >= len(m.visible) {
			return m, nil
		}

		return m, m.removeCmd(m.visible[m.cursor])
	}

	return m, nil
}

func (m model) handleInputKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		if m.mode == modeFilter {
			m.filter = ""
			refreshVisible(&m)
		}

		return m.leaveInput(), nil

	case tea.KeyEnter:
		if m.mode == modeAdd {
			entry := strings.TrimSpace(m.input.Value())
			if entry == "" {
				return m.leaveInput(), nil
			}

			return m.leaveInput(), m.addCmd(entry)
		}

		return m.leaveInput(), nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	if m.mode == modeFilter {
		m.filter = m.input.Value()
		refreshVisible(&m)
	}

	return m, cmd
}

// leaveInput returns to list mode and blurs the text input.
func (m model) leaveInput() model {
	m.mode = modeList
	m.input.Blur()
	m.input.SetValue("")

	return m
}

// refreshVisible recomputes the filtered view and clamps the cursor.
func refreshVisible(m *model) {
	m.visible = filterDeps(m.deps, m.filter)

	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}

	if m.cursor < 0 {
		m.cursor = 0
	}
}

// filterDeps returns the entries matching query in rank order, or every
// entry in document order when query is empty.
func filterDeps(deps []string, query string) []string {
	if strings.TrimSpace(query) == "" {
		return deps
	}

	matches := fuzzy.Find(query, deps)

	out := make([]string, len(matches))
	for i, match := range matches {
		out[i] = match.Str
	}

	return out
}

func (m model) addCmd(entry string) tea.Cmd {
	return func() tea.Msg {
		ctx := m.ctxFunc()

		if _, err := m.editor.Add(ctx, m.category, entry); err != nil {
			return opErrMsg{err: err}
		}

		deps, err := m.editor.Deps(ctx, m.category)
		if err != nil {
			return opErrMsg{err: err}
		}

		return reloadMsg{deps: deps, status: "added " + entry}
	}
}

func (m model) removeCmd(entry string) tea.Cmd {
	return func() tea.Msg {
		ctx := m.ctxFunc()

		if _, err := m.editor.Remove(ctx, m.category, entry); err != nil {
			return opErrMsg{err: err}
		}

		deps, err := m.editor.Deps(ctx, m.category)
		if err != nil {
			return opErrMsg{err: err}
		}

		return reloadMsg{deps: deps, status: "removed " + entry}
	}
}
