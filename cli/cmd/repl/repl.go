package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/lrepl/log"
	"github.com/ardnew/lrepl/session"
	"github.com/ardnew/lrepl/term"
)

// editDoneMsg is sent when the aliases were reloaded from the editor.
type editDoneMsg struct{ count int }

// editCancelledMsg is sent when the editor changed nothing or the user gave
// up after a failed reload.
type editCancelledMsg struct{}

// editErrorMsg is sent when the editor could not be run.
type editErrorMsg struct{ err error }

// evalDoneMsg carries the output of a normalization run in the background.
type evalDoneMsg struct {
	output string
	err    error
}

// traceStepsMsg carries the next conversions of a running trace. The
// conversions after them are received by next.
type traceStepsMsg struct {
	lines []string
	next  tea.Cmd
}

// traceBatchSize bounds the conversions of one traceStepsMsg and the
// conversions buffered ahead of the display.
const traceBatchSize = 64

const (
	evalPrompt = "λ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	var b strings.Builder

	b.WriteString(`
: Commands (press Esc to toggle mode):

`)

	cmds := session.Commands()

	width := len("edit")
	for _, c := range cmds {
		width = max(width, len(c.Usage))
	}

	for _, c := range cmds {
		if c.Name != "EOF" {
			fmt.Fprintf(&b, "  %-*s  %s\n", width, c.Usage, c.Help)
		}
	}

	fmt.Fprintf(&b, "  %-*s  %s\n", width, "edit", "edit aliases in $EDITOR")
	fmt.Fprintf(&b, "  %-*s  %s\n", width, "cls", "clear the screen")

	b.WriteString(`
Usage:
  Type a term to evaluate it, using \ or λ for lambda
  Aliases defined with "alias NAME = TERM" are substituted before evaluation
  Completions of commands and aliases appear as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Use Alt+Up/Alt+Down to switch to command mode and navigate command history
    (restores original mode when reaching end of history)
  Press Ctrl+C to interrupt a running evaluation
  Press Ctrl+C on empty line or Ctrl+D to exit
`)

	return b.String()
}

// inputMode selects how a submitted line is interpreted.
type inputMode int

const (
	modeEval inputMode = iota // line is a term
	modeCtrl                  // line is a session command
)

// tag identifies the mode in the history file.
func (m inputMode) tag() string {
	if m == modeCtrl {
		return "C"
	}

	return "E"
}

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

// formatCommand formats the echo of a submitted term.
func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the echo of a submitted command.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc          func() context.Context
	session          *session.Session
	input            textinput.Model
	logger           log.Logger
	history          *History
	cancel           context.CancelFunc // stops the running evaluation
	historyIdx       int
	matches          fuzzy.Matches // current fuzzy match results
	candidates       []string      // backing candidate list
	wordStart        int           // byte offset of current word start
	wordEnd          int           // byte offset of current word end
	suggIdx          int           // selected candidate index
	preTabText       string        // input text before tab-cycling began
	preTabCursor     int           // cursor position before tab-cycling began
	altNavOrigText   string        // original text before Alt navigation
	altNavOrigCursor int           // original cursor position before Alt navigation
	altNavOrigMode   inputMode     // original mode before Alt navigation
	width            int           // terminal width for ellipsization
	mode             inputMode
	evalText         string
	evalCursor       int
	ctrlText         string
	ctrlCursor       int
	tabActive        bool // whether user is tab-cycling
	altNavActive     bool // whether user is in Alt+Up/Down navigation
	running          bool
	quitting         bool
}

// Run starts the interactive REPL over s. History is kept in cacheDir; an
// empty cacheDir keeps it in memory.
func Run(
	ctx context.Context,
	s *session.Session,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	history := openHistory(ctx, cacheDir, logger)

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("history", history.Len()),
		slog.Int("aliases", s.Environment().Len()),
	)

	p := tea.NewProgram(newModel(ctx, s, history, logger), tea.WithContext(ctx))
	_, err = p.Run()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

// openHistory loads the history file from cacheDir. Failing to read it is
// not fatal.
func openHistory(ctx context.Context, cacheDir string, logger log.Logger) *History {
	var path string
	if cacheDir != "" {
		path = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(path)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", path),
			slog.Any("error", err),
		)
	}

	return history
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	s *session.Session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		session:    s,
		input:      ti,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeEval,
		suggIdx:    -1,
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
		m.input.Width = msg.Width - lipgloss.Width(evalPrompt) - 2

		return m, nil

	case evalDoneMsg:
		return m.finishEval(msg)

	case traceStepsMsg:
		return m, tea.Sequence(
			tea.Println(resultStyle.Render(strings.Join(msg.lines, "\n"))),
			msg.next,
		)

	case editDoneMsg:
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl edit complete",
			slog.Int("aliases", msg.count),
		)

		return m, tea.Println(resultStyle.Render(
			fmt.Sprintf("✔ aliases reloaded (%d defined)", msg.count),
		))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("🗴 edit cancelled, aliases unchanged"))

	case editErrorMsg:
		return m, printError(msg.err)
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

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.running:
		b.WriteString(hintStyle.Render("Evaluating... (press Ctrl+C to interrupt)"))

	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(m.input.Value()) == "":
		hint := "Type a term or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: help, alias, aliases, clear, edit, trace, quit (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
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
		if m.running {
			m.cancel()

			return m, nil
		}

		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.altNavActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() != "" {
			return m, nil
		}

		if m.running {
			m.cancel()
		}

		m.quitting = true

		return m, tea.Quit

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}

		m.altNavActive = false

		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		if msg.Alt {
			return m.historyCtrl(-1), nil
		}

		return m.historyPrev(), nil

	case tea.KeyDown:
		if msg.Alt {
			return m.historyCtrl(1), nil
		}

		return m.historyNext(), nil

	case tea.KeyShiftUp:
		return m.historyInMode(-1), nil

	case tea.KeyShiftDown:
		return m.historyInMode(1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		m.altNavActive = false

		return m.toggleMode(), nil

	case tea.KeyRunes, tea.KeySpace:
		// Space breaks out of tab-cycling, keeping the candidate.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Any other key (backspace, delete, arrows, ...) edits without
	// auto-confirming a completion.
	var cmd tea.Cmd

	m.tabActive = false
	m.altNavActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step, wrapping at either end. A single
// candidate is completed and confirmed immediately.
func (m model) cycle(step int) model {
	switch len(m.matches) {
	case 0:
		return m

	case 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// byteOffset converts the rune position pos within s to a byte offset.
func byteOffset(s string, pos int) int {
	for i := range s {
		if pos <= 0 {
			return i
		}

		pos--
	}

	return len(s)
}

// replaceCurrentWord replaces the current word in the input with replacement
// and places the cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(utf8.RuneCountInString(newInput[:newCursor]))

	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state. With
// autoConfirm it also drops the candidates once the typed word equals the
// only one left. Deletions and cursor movement pass false so that editing
// never completes unexpectedly.
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

	m.evalText = ""
	m.evalCursor = 0
	m.ctrlText = ""
	m.ctrlCursor = 0
	m.input.SetValue("")
	refreshMatches(&m, false)

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history",
			slog.Any("error", err),
		)
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl command",
			slog.String("input", input),
		)

		return m.executeCommand(input)
	}

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl eval",
		slog.String("input", input),
	)

	m, cmd := m.startEval(input, false)

	return m, tea.Sequence(tea.Println(formatCommand(input)), cmd)
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	echoCmd := tea.Println(formatCtrlCommand(input))

	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "cls":
		return m, tea.Sequence(echoCmd, tea.ClearScreen)

	case "edit":
		return m, tea.Sequence(echoCmd, m.editAliases())

	case "eval", "evaluate", "trace":
		m, cmd := m.startEval(arg, name == "trace")

		return m, tea.Sequence(echoCmd, cmd)
	}

	var out strings.Builder

	quit, err := m.session.Exec(m.ctxFunc(), input, &out)

	cmds := []tea.Cmd{echoCmd}

	if s := strings.TrimSuffix(out.String(), "\n"); s != "" {
		cmds = append(cmds, tea.Println(resultStyle.Render(s)))
	}

	if err != nil {
		cmds = append(cmds, printError(err))
	}

	if quit {
		m.quitting = true

		cmds = append(cmds, tea.Quit)
	}

	return m, tea.Sequence(cmds...)
}

// editAliases opens the aliases in the user's editor.
func (m model) editAliases() tea.Cmd {
	cmd := &editAliasesCommand{
		session: m.session,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editCancelledMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case !cmd.changed:
			return editCancelledMsg{}
		}

		return editDoneMsg{count: m.session.Environment().Len()}
	})
}

// startEval resolves the aliases of text immediately and normalizes the
// resulting term in the background. With trace every conversion is printed
// as it is made instead of only the normal form.
func (m model) startEval(text string, trace bool) (model, tea.Cmd) {
	t, err := m.session.Parse(m.ctxFunc(), text)
	if err != nil {
		return m, printError(err)
	}

	ctx, cancel := context.WithCancel(m.ctxFunc())

	m.running = true
	m.cancel = cancel

	norm := m.session.Normalizer()

	if trace {
		lines := make(chan string, traceBatchSize)
		errc := make(chan error, 1)

		go func() {
			defer cancel()
			defer close(lines)

			errc <- sendSteps(ctx, norm, t, lines)
		}()

		return m, receiveSteps(lines, errc)
	}

	return m, func() tea.Msg {
		defer cancel()

		var out strings.Builder

		err := normalize(ctx, norm, t, &out)

		return evalDoneMsg{output: strings.TrimSuffix(out.String(), "\n"), err: err}
	}
}

// normalize writes the normal form of t to w.
func normalize(
	ctx context.Context,
	norm term.Normalizer,
	t term.Term,
	w io.Writer,
) error {
	nf, err := norm.Normalize(ctx, t)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, nf)

	return err
}

// sendSteps sends each conversion reducing t to lines, blocking while the
// display is behind.
func sendSteps(
	ctx context.Context,
	norm term.Normalizer,
	t term.Term,
	lines chan<- string,
) error {
	var b strings.Builder

	for step, err := range norm.Steps(ctx, t) {
		if err != nil {
			return err
		}

		b.Reset()

		if err := session.WriteStep(&b, step); err != nil {
			return err
		}

		select {
		case lines <- strings.TrimSuffix(b.String(), "\n"):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

// receiveSteps returns a command waiting for the next conversions sent to
// lines. Once lines is closed it reports the error received from errc.
func receiveSteps(lines <-chan string, errc <-chan error) tea.Cmd {
	var recv tea.Cmd

	recv = func() tea.Msg {
		line, ok := <-lines
		if !ok {
			return evalDoneMsg{err: <-errc}
		}

		batch := []string{line}

		for len(batch) < traceBatchSize {
			select {
			case line, ok := <-lines:
				if !ok {
					return traceStepsMsg{lines: batch, next: recv}
				}

				batch = append(batch, line)

			default:
				return traceStepsMsg{lines: batch, next: recv}
			}
		}

		return traceStepsMsg{lines: batch, next: recv}
	}

	return recv
}

func (m model) finishEval(msg evalDoneMsg) (model, tea.Cmd) {
	m.running = false
	m.cancel = nil

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl eval result",
		slog.Bool("ok", msg.err == nil),
	)

	var cmds []tea.Cmd

	if msg.output != "" {
		cmds = append(cmds, tea.Println(resultStyle.Render(msg.output)))
	}

	switch {
	case errors.Is(msg.err, context.Canceled):
		cmds = append(cmds, printError(ErrInterrupted))
	case msg.err != nil:
		cmds = append(cmds, printError(msg.err))
	}

	if len(cmds) == 0 {
		return m, nil
	}

	return m, tea.Sequence(cmds...)
}

// printError prints err the way the session renders errors.
func printError(err error) tea.Cmd {
	var b strings.Builder

	_ = session.WriteError(&b, err)

	return tea.Println(errorStyle.Render(strings.TrimSuffix(b.String(), "\n")))
}

// recall loads history entry i into the input, adopting its mode when
// switchMode is set.
func (m model) recall(i int, switchMode bool) model {
	entry, err := m.history.At(i)
	if err != nil {
		return m
	}

	if switchMode && entry.Mode != m.mode {
		m = m.switchToMode(entry.Mode)
	}

	m.historyIdx = i
	m.input.SetValue(entry.Line)
	m.input.CursorEnd()
	refreshMatches(&m, false)

	return m
}

// leaveHistory returns to an empty line past the newest entry.
func (m model) leaveHistory() model {
	m.historyIdx = m.history.Len()
	m.input.SetValue("")
	refreshMatches(&m, false)

	return m
}

// seek returns the index of the first entry matching mode, starting at from
// and moving by step, or -1 if there is none.
func (m model) seek(from, step int, mode inputMode) int {
	for i := from; i >= 0 && i < m.history.Len(); i += step {
		if entry, err := m.history.At(i); err == nil && entry.Mode == mode {
			return i
		}
	}

	return -1
}

func (m model) historyPrev() model {
	if m.historyIdx > 0 {
		return m.recall(m.historyIdx-1, true)
	}

	return m
}

func (m model) historyNext() model {
	if m.historyIdx < m.history.Len()-1 {
		return m.recall(m.historyIdx+1, true)
	}

	return m.leaveHistory()
}

// historyInMode moves through the entries of the current mode only.
func (m model) historyInMode(step int) model {
	if i := m.seek(m.historyIdx+step, step, m.mode); i >= 0 {
		return m.recall(i, false)
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		return m.leaveHistory()
	}

	return m
}

// historyCtrl moves through command entries from any mode, restoring the
// original mode and text past either end.
func (m model) historyCtrl(step int) model {
	if !m.altNavActive {
		m.altNavActive = true
		m.altNavOrigMode = m.mode
		m.altNavOrigText = m.input.Value()
		m.altNavOrigCursor = m.input.Position()

		if m.mode != modeCtrl {
			m = m.switchToMode(modeCtrl)
		}
	}

	if i := m.seek(m.historyIdx+step, step, modeCtrl); i >= 0 {
		return m.recall(i, false)
	}

	m.altNavActive = false
	if m.altNavOrigMode != m.mode {
		m = m.switchToMode(m.altNavOrigMode)
	}

	m.input.SetValue(m.altNavOrigText)
	m.input.SetCursor(m.altNavOrigCursor)
	m.historyIdx = m.history.Len()
	refreshMatches(&m, false)

	return m
}

// toggleMode switches between eval and command modes.
func (m model) toggleMode() model {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode switches to mode, keeping the pending input of each mode.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText = m.input.Value()
		m.evalCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	m.mode = mode
	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m
}
