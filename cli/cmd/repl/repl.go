// Package repl is the interactive front end of chanplate: a terminal line
// editor that previews the names of the template being typed.
package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/chanplate/log"
	"github.com/ardnew/chanplate/plan"
)

// editTemplateMsg is sent when template editing completes successfully.
type editTemplateMsg struct{ template string }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit an invalid
// template.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters an error.
type editErrorMsg struct{ err error }

const (
	templatePrompt = "➜ "
	ctrlPrompt     = " :"
)

// DefaultRows is the number of names shown under the input line.
const DefaultRows = 10

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode, or prefix with / in template mode):

  help          Print this cruft
  find <query>  Fuzzy search the names of the current template
  edit          Edit the current template in external $EDITOR
  clear         Clear screen
  quit          Exit REPL

Usage:
  Type a template to preview the names it generates, e.g.
    [1...5]   [Room, 01...10]   {A...C}{1...3}   [1...20, if i % 5 == 0]
  Press Enter to print the numbered preview and save the template in history
  Press Tab / Shift-Tab to cycle through completions
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeTemplate inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatTemplate formats the template echo line with prompt and input styled.
func formatTemplate(input string) string {
	return promptStyle.Render(templatePrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the control command echo line with prompt and
// input styled.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// Config holds the settings of a REPL session.
type Config struct {
	// HistoryPath is the history file. Empty keeps history in memory.
	HistoryPath string
	// Rows is the number of names in the live preview.
	Rows int
	// Plan configures name generation.
	Plan []plan.Option
	// Logger receives trace records of the session.
	Logger log.Logger
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc    func() context.Context
	input      textinput.Model
	logger     log.Logger
	history    *History
	historyIdx int
	plan       []plan.Option
	rows       int

	template string   // template of the live preview
	names    []string // names generated by template
	err      error    // error generating names

	lastTemplate string   // last submitted template
	lastNames    []string // names of lastTemplate

	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began

	width      int // terminal width for ellipsization
	quitting   bool
	mode       inputMode
	tmplText   string
	tmplCursor int
	ctrlText   string
	ctrlCursor int
}

// Run starts the REPL and blocks until the user quits or ctx is canceled.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg.Logger.TraceContext(
		ctx,
		"repl start",
		slog.String("history", cfg.HistoryPath),
		slog.Int("rows", cfg.Rows),
	)

	history := NewHistory(cfg.HistoryPath)
	if err := history.Load(); err != nil {
		fmt.Printf("Warning: could not load history: %v\n", err)
	}

	cfg.Logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, cfg, history)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return context.Cause(ctx)
	}

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, cfg Config, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(templatePrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	rows := cfg.Rows
	if rows <= 0 {
		rows = DefaultRows
	}

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		logger:     cfg.Logger,
		history:    history,
		historyIdx: history.Len(),
		plan:       cfg.Plan,
		rows:       rows,
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeTemplate,
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
		m.input.Width = msg.Width - len(templatePrompt) - 2

		return m, nil

	case editTemplateMsg:
		if m.mode != modeTemplate {
			m, _ = m.switchToMode(modeTemplate)
		}

		m.input.SetValue(msg.template)
		m.input.SetCursor(len(msg.template))
		m.refreshPreview()
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl edit complete",
			slog.String("template", msg.template),
		)

		return m, nil

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("🗴 edit cancelled."))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(
			errorStyle.Render("🗴 error: " + msg.err.Error()),
		)
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

	// Input line.
	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()
	group := detectGroup(input, m.input.Position())

	// Hint line.
	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))

	case strings.TrimSpace(input) == "":
		if m.mode == modeTemplate {
			b.WriteString(hintStyle.Render("Type a template or press Esc for commands"))
		} else {
			b.WriteString(hintStyle.Render("Type: help, find, edit, clear, quit (press Esc to return)"))
		}

	case m.mode == modeTemplate && !isCommand(input):
		b.WriteString(renderShapeHint(group))
	}

	b.WriteString("\n")

	// Live preview.
	if m.mode == modeTemplate && m.template != "" && !isCommand(input) {
		b.WriteString(m.previewView())
		b.WriteString("\n")
	}

	return b.String()
}

// previewView renders the live preview of the current template.
func (m model) previewView() string {
	if m.err != nil {
		return errorStyle.Render("error: " + m.err.Error())
	}

	return hintStyle.Render(plan.MakePreview(m.names, m.rows).String())
}

// refreshPreview regenerates the live preview when the template changed.
// Slash commands leave the preview untouched.
func (m *model) refreshPreview() {
	if m.mode != modeTemplate {
		return
	}

	input := strings.TrimSpace(m.input.Value())
	if isCommand(input) || input == m.template {
		return
	}

	m.template = input
	m.names, m.err = nil, nil

	if input == "" {
		return
	}

	m.names, m.err = plan.Generate(m.ctxFunc(), input,
		append(slices.Clip(m.plan), plan.WithLogger(m.logger))...)

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl preview",
		slog.String("template", input),
		slog.Int("count", len(m.names)),
		slog.Bool("error", m.err != nil),
	)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refreshPreview()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1)

	case tea.KeyShiftTab:
		return m.cycle(-1)

	case tea.KeyUp:
		return m.historyStep(-1, false)

	case tea.KeyDown:
		return m.historyStep(1, false)

	case tea.KeyShiftUp:
		return m.historyStep(-1, true)

	case tea.KeyShiftDown:
		return m.historyStep(1, true)

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		return m.toggleMode()

	case tea.KeyRunes:
		// Space breaks out of tab-cycling.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		m.refreshPreview()
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshPreview()
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection forward (dir 1) or backward (dir -1).
func (m model) cycle(dir int) (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	// Single candidate: complete and confirm immediately.
	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	switch {
	case m.tabActive:
		m.suggIdx = (m.suggIdx + dir + len(m.matches)) % len(m.matches)

	case dir > 0:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = 0

	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = len(m.matches) - 1
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)

	m.wordEnd = newCursor
	m.refreshPreview()
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also clears the completion when exactly one
// candidate remains and the typed word already equals that candidate.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	if m.mode == modeCtrl {
		m.ctrlText, m.ctrlCursor = "", 0
		m.input.SetValue("")
		m.addHistory(input, modeCtrl)

		return m.executeCommand(input, formatCtrlCommand(input))
	}

	if cmd, ok := strings.CutPrefix(input, "/"); ok {
		m.input.SetValue("")
		m.addHistory(input, modeTemplate)

		return m.executeCommand(cmd, formatTemplate(input))
	}

	m.refreshPreview()
	m.addHistory(input, modeTemplate)
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl submit",
		slog.String("template", input),
	)

	echoCmd := tea.Println(formatTemplate(input))

	if m.err != nil {
		return m, tea.Sequence(
			echoCmd,
			tea.Println(errorStyle.Render("error: "+m.err.Error())),
		)
	}

	m.lastTemplate, m.lastNames = m.template, m.names
	preview := plan.MakePreview(m.names, plan.DefaultPreviewSize)

	m.input.SetValue("")
	m.refreshPreview()
	refreshMatches(&m, false)

	return m, tea.Sequence(
		echoCmd,
		tea.Println(resultStyle.Render(preview.String())),
	)
}

func (m *model) addHistory(line string, mode inputMode) {
	if err := m.history.Add(line, mode); err != nil {
		m.logger.DebugContext(m.ctxFunc(), "repl history write failed",
			slog.Any("error", err),
		)
	}

	m.historyIdx = m.history.Len()
}

func (m model) executeCommand(input, echo string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echoCmd := tea.Println(echo)

	cmd := parts[0]
	args := parts[1:]

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", cmd),
		slog.Any("args", args),
	)

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "f", "find":
		return m, tea.Sequence(echoCmd, tea.Println(m.find(strings.Join(args, " "))))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echoCmd, m.edit())

	default:
		return m, tea.Sequence(echoCmd, tea.Println(
			errorStyle.Render("Unknown command: "+cmd+" (try 'help')"),
		))
	}
}

// searchSpace returns the template and names searched by find: the live
// preview if it is valid, otherwise the last submitted template.
func (m model) searchSpace() (string, []string) {
	if m.template != "" && m.err == nil {
		return m.template, m.names
	}

	return m.lastTemplate, m.lastNames
}

func (m model) find(query string) string {
	template, names := m.searchSpace()
	if template == "" {
		return hintStyle.Render("no template to search (type one first)")
	}

	if strings.TrimSpace(query) == "" {
		return errorStyle.Render("usage: find <query>")
	}

	return renderFind(query, findNames(query, names), plan.DefaultPreviewSize)
}

func (m model) edit() tea.Cmd {
	template := m.tmplText
	if m.mode == modeTemplate {
		template = m.template
	}

	if template == "" {
		template = m.lastTemplate
	}

	cmd := &editTemplateCommand{
		template: template,
		ctxFunc:  m.ctxFunc,
		logger:   m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		if errors.Is(err, ErrEditDeclined) {
			return editDeclinedMsg{}
		}

		if err != nil {
			return editErrorMsg{err: err}
		}

		if !cmd.edited {
			return editCancelledMsg{}
		}

		return editTemplateMsg{template: cmd.result}
	})
}

// historyStep moves through history by dir. With inMode set only entries of
// the current mode are visited; otherwise the mode follows the entry.
func (m model) historyStep(dir int, inMode bool) (model, tea.Cmd) {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		entry, err := m.history.Entry(i)
		if err != nil || (inMode && entry.Mode != m.mode) {
			continue
		}

		if m.mode != entry.Mode {
			m, _ = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		m.refreshPreview()
		refreshMatches(&m, false)

		return m, nil
	}

	// Past the newest entry: back to an empty line.
	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		m.refreshPreview()
		refreshMatches(&m, false)
	}

	return m, nil
}

// toggleMode switches between template and control modes.
func (m model) toggleMode() (model, tea.Cmd) {
	if m.mode == modeTemplate {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeTemplate)
}

// switchToMode switches to the specified mode, preserving input state.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	if m.mode == modeTemplate {
		m.tmplText = m.input.Value()
		m.tmplCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	m.mode = mode
	if mode == modeTemplate {
		m.input.Prompt = promptStyle.Render(templatePrompt)
		m.input.SetValue(m.tmplText)
		m.input.SetCursor(m.tmplCursor)
		m.refreshPreview()
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m, nil
}
