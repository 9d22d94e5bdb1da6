package repl

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	omega   = `(\x.x x) (\x.x x)`
	omegaNF = "((λx.(x x)) (λx.(x x)))"
)

func TestStartEval(t *testing.T) {
	tests := []struct {
		name  string
		input string
		trace bool
		want  string
	}{
		{"normal form", `(\x.\y.x) a b`, false, "a"},
		{"alias", "id y", false, "y"},
		{"trace", `(\x.\y.x) a b`, true, "β ((λy.a) b)\nβ a"},
		{"already normal", `\x.x`, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, `alias id = \x.x`)

			m, cmd := m.startEval(tt.input, tt.trace)
			if !m.running || cmd == nil {
				t.Fatal("expected a running evaluation")
			}

			output, done := drainEval(t, cmd)
			if done.err != nil || output != tt.want {
				t.Errorf("output = %q, %v; want %q", output, done.err, tt.want)
			}

			m, _ = m.finishEval(done)
			if m.running || m.cancel != nil {
				t.Error("evaluation still marked running")
			}
		})
	}
}

// drainEval runs cmd and the trace commands following it until the
// evaluation finishes, returning everything it printed.
func drainEval(t *testing.T, cmd tea.Cmd) (string, evalDoneMsg) {
	t.Helper()

	var lines []string

	for {
		switch msg := cmd().(type) {
		case traceStepsMsg:
			lines = append(lines, msg.lines...)
			cmd = msg.next

		case evalDoneMsg:
			if msg.output != "" {
				lines = append(lines, msg.output)
			}

			return strings.Join(lines, "\n"), msg

		default:
			t.Fatalf("unexpected message %T", msg)
		}
	}
}

func TestStartEval_TraceStreams(t *testing.T) {
	m := newTestModel(t)

	m, cmd := m.startEval(omega, true)

	// A diverging trace is printed in bounded batches while it runs.
	for range 3 {
		msg, ok := cmd().(traceStepsMsg)
		if !ok {
			t.Fatal("expected traceStepsMsg")
		}

		if n := len(msg.lines); n == 0 || n > traceBatchSize {
			t.Fatalf("batch of %d conversions", n)
		}

		if want := "β " + omegaNF; msg.lines[0] != want {
			t.Errorf("conversion = %q, want %q", msg.lines[0], want)
		}

		next, printCmd := m.Update(msg)
		if printCmd == nil || !next.(model).running {
			t.Fatal("a batch must be printed while the trace keeps running")
		}

		cmd = msg.next
	}

	m.cancel()

	_, done := drainEval(t, cmd)
	if !errors.Is(done.err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", done.err)
	}

	m, _ = m.finishEval(done)
	if m.running {
		t.Error("evaluation still marked running")
	}
}

func TestStartEval_SyntaxError(t *testing.T) {
	m := newTestModel(t)

	m, cmd := m.startEval("a b c.", false)
	if m.running {
		t.Error("a term that fails to parse must not start an evaluation")
	}

	if cmd == nil {
		t.Error("expected the error to be printed")
	}
}

func TestStartEval_Interrupt(t *testing.T) {
	m := newTestModel(t)

	m, cmd := m.startEval(omega, false)

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlC})
	if m.quitting {
		t.Fatal("Ctrl+C during evaluation must not quit")
	}

	done := cmd().(evalDoneMsg)
	if !errors.Is(done.err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", done.err)
	}

	m, _ = m.finishEval(done)
	if m.running {
		t.Error("evaluation still marked running")
	}
}

func TestEnterIgnoredWhileRunning(t *testing.T) {
	m := newTestModel(t)

	m, _ = m.startEval(omega, false)
	defer m.cancel()

	m = typeInto(m, "x")

	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || m.input.Value() != "x" {
		t.Errorf("Enter while running submitted %q", m.input.Value())
	}
}

func TestExecuteCommand_Session(t *testing.T) {
	m := newTestModel(t)
	m = m.switchToMode(modeCtrl)
	m = typeInto(m, `alias id = \x.x`)

	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected the command to be echoed")
	}

	if names := m.session.Environment().Names(); len(names) != 1 || names[0] != "id" {
		t.Errorf("aliases = %v, want [id]", names)
	}

	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}

	if e, err := m.history.At(0); err != nil || e.Mode != modeCtrl {
		t.Errorf("history entry = %v, %v; want a command entry", e, err)
	}
}

func TestExecuteCommand_Quit(t *testing.T) {
	for _, name := range []string{"quit", "exit"} {
		t.Run(name, func(t *testing.T) {
			m := newTestModel(t)
			m = m.switchToMode(modeCtrl)

			m, _ = m.executeCommand(name)
			if !m.quitting {
				t.Errorf("%s did not quit", name)
			}

			if m.View() != "" {
				t.Errorf("view after quit = %q", m.View())
			}
		})
	}
}

func TestExecuteCommand_Trace(t *testing.T) {
	m := newTestModel(t)

	m, _ = m.executeCommand(`trace (\x.x) y`)
	if !m.running {
		t.Error("trace should run in the background")
	}

	m.cancel()
}

func TestCtrlC(t *testing.T) {
	m := newTestModel(t)
	m = typeInto(m, "f x")

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlC})
	if m.quitting || m.input.Value() != "" {
		t.Fatalf("Ctrl+C with input: quitting=%v input=%q", m.quitting, m.input.Value())
	}

	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m.quitting || cmd == nil {
		t.Error("Ctrl+C on an empty line should quit")
	}
}

func TestToggleMode_KeepsInput(t *testing.T) {
	m := newTestModel(t)
	m = typeInto(m, "f x")

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("after Esc: mode=%v input=%q", m.mode, m.input.Value())
	}

	m = typeInto(m, "aliases")

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeEval || m.input.Value() != "f x" {
		t.Errorf("after second Esc: mode=%v input=%q", m.mode, m.input.Value())
	}

	m = m.toggleMode()
	if m.input.Value() != "aliases" {
		t.Errorf("command text = %q, want aliases", m.input.Value())
	}
}

func TestHistoryNavigation(t *testing.T) {
	m := newTestModel(t)
	for _, e := range []HistoryEntry{
		{"a", modeEval},
		{"aliases", modeCtrl},
		{"b", modeEval},
	} {
		if err := m.history.Add(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	m.historyIdx = m.history.Len()

	steps := []struct {
		key  tea.KeyMsg
		line string
		mode inputMode
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, "b", modeEval},
		{tea.KeyMsg{Type: tea.KeyUp}, "aliases", modeCtrl},
		{tea.KeyMsg{Type: tea.KeyShiftUp}, "aliases", modeCtrl},
		{tea.KeyMsg{Type: tea.KeyUp}, "a", modeEval},
		{tea.KeyMsg{Type: tea.KeyShiftDown}, "b", modeEval},
		{tea.KeyMsg{Type: tea.KeyDown}, "", modeEval},
	}

	for i, step := range steps {
		m, _ = m.handleKey(step.key)

		if m.input.Value() != step.line || m.mode != step.mode {
			t.Fatalf("step %d: input=%q mode=%v, want %q mode=%v",
				i, m.input.Value(), m.mode, step.line, step.mode)
		}
	}

	if m.historyIdx != m.history.Len() {
		t.Errorf("historyIdx = %d, want %d", m.historyIdx, m.history.Len())
	}
}

func TestHistoryCtrl_RestoresMode(t *testing.T) {
	m := newTestModel(t)
	if err := m.history.Add("help", modeCtrl); err != nil {
		t.Fatal(err)
	}

	m.historyIdx = m.history.Len()
	m = typeInto(m, "pending")

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyUp, Alt: true})
	if m.mode != modeCtrl || m.input.Value() != "help" {
		t.Fatalf("Alt+Up: mode=%v input=%q", m.mode, m.input.Value())
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyDown, Alt: true})
	if m.mode != modeEval || m.input.Value() != "pending" {
		t.Errorf("Alt+Down past the end: mode=%v input=%q", m.mode, m.input.Value())
	}
}

func TestView(t *testing.T) {
	m := newTestModel(t, `alias true = \x y.x`)

	if v := m.View(); !strings.Contains(v, "Type a term") {
		t.Errorf("empty view = %q", v)
	}

	m = typeInto(m, "tr")
	if v := m.View(); !strings.Contains(v, "u") || strings.Contains(v, "Type a term") {
		t.Errorf("view with candidates = %q", v)
	}

	m, _ = m.startEval(omega, false)
	defer m.cancel()

	if v := m.View(); !strings.Contains(v, "Evaluating") {
		t.Errorf("view while running = %q", v)
	}
}

func TestHelpMessage(t *testing.T) {
	help := helpMessage()

	for _, want := range []string{"alias NAME = TERM", "trace TERM", "edit", "cls"} {
		if !strings.Contains(help, want) {
			t.Errorf("help is missing %q", want)
		}
	}

	if strings.Contains(help, "EOF") {
		t.Error("help lists EOF")
	}
}
