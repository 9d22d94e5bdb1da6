package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ardnew/lrepl/alias"
	"github.com/ardnew/lrepl/lang"
	"github.com/ardnew/lrepl/term"
)

func exec(t *testing.T, s *Session, lines ...string) string {
	t.Helper()

	var buf bytes.Buffer

	for _, line := range lines {
		quit, err := s.Exec(t.Context(), line, &buf)
		if err != nil {
			t.Fatalf("Exec(%q): %v", line, err)
		}

		if quit {
			t.Fatalf("Exec(%q) quit unexpectedly", line)
		}
	}

	return buf.String()
}

func TestExec_Output(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"empty", []string{"", "  \t"}, ""},
		{"evaluate", []string{`evaluate (\x.\y.x) a b`}, "a\n"},
		{"eval", []string{`eval (\x.\y.x) a b`}, "a\n"},
		{"normal form", []string{`eval λx.x`}, "(λx.x)\n"},
		{"trace", []string{`trace (\x.\y.x) a b`}, "β ((λy.a) b)\nβ a\n"},
		{"trace alpha", []string{`trace (λx.λy.x) y`}, "α ((λx.(λy1.x)) y)\nβ (λy1.y)\n"},
		{
			"aliases",
			[]string{"alias x = 1", "alias a = x b", "alias b = b c", "aliases"},
			"x = 1\na = (1 b)\nb = (b c)\n",
		},
		{
			"clear one",
			[]string{"alias x = 1", "alias a = x b", "alias b = b c", "clear x", "aliases"},
			"a = (1 b)\nb = (b c)\n",
		},
		{
			"clear all",
			[]string{"alias x = 1", "alias a = x b", "clear", "aliases"},
			"",
		},
		{
			"evaluate with aliases",
			[]string{`alias K = \x y.x`, `alias I = \x.x`, "eval K I z"},
			"(λx.x)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exec(t, New(), tt.lines...); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExec_Exit(t *testing.T) {
	for _, cmd := range []string{"exit", "quit", "EOF"} {
		var buf bytes.Buffer

		quit, err := New().Exec(t.Context(), cmd, &buf)
		if err != nil || !quit {
			t.Errorf("Exec(%q) = %v, %v; want quit", cmd, quit, err)
		}

		if buf.String() != "Exiting REPL...\n" {
			t.Errorf("Exec(%q) wrote %q", cmd, buf.String())
		}
	}
}

func TestExec_Errors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want error
	}{
		{"unknown", "frobnicate x", ErrUnknownCommand},
		{"missing value", "alias a", ErrMissingAliasValue},
		{"missing name", "alias = b", ErrMissingAliasName},
		{"syntax", `eval (\x.\y.x) a b.`, lang.ErrSyntax},
		{"invalid alias", "alias a = b c.", lang.ErrSyntax},
		{"clear missing", "clear nope", alias.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()

			var buf bytes.Buffer

			quit, err := s.Exec(t.Context(), tt.line, &buf)
			if quit {
				t.Error("unexpected quit")
			}

			if !errors.Is(err, tt.want) {
				t.Errorf("Exec(%q) error = %v, want %v", tt.line, err, tt.want)
			}

			if s.Environment().Len() != 0 {
				t.Errorf("failed command stored aliases: %v", s.Environment().Names())
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	s := New()

	_, err := s.Exec(t.Context(), `eval (\x.\y.x) a b.`, &bytes.Buffer{})

	var buf bytes.Buffer
	if werr := WriteError(&buf, err); werr != nil {
		t.Fatal(werr)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "Error while parsing: ") || !strings.HasSuffix(out, "^\n") {
		t.Errorf("unexpected rendering %q", out)
	}

	buf.Reset()

	if werr := WriteError(&buf, s.ClearAlias("x")); werr != nil {
		t.Fatal(werr)
	}

	if want := "Error: alias \"x\" does not exist\n"; buf.String() != want {
		t.Errorf("WriteError = %q, want %q", buf.String(), want)
	}
}

func TestSession_SetAlias_Snapshot(t *testing.T) {
	s := New()
	ctx := t.Context()

	for _, def := range [][2]string{{"a", "1"}, {"b", "a c"}, {"a", "2"}, {"c", "3"}} {
		if _, err := s.SetAlias(ctx, def[0], def[1]); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.Parse(ctx, "a b c")
	if err != nil {
		t.Fatal(err)
	}

	if want := "((2 (1 c)) 3)"; got.String() != want {
		t.Errorf("Parse = %v, want %s", got, want)
	}

	entries := s.Aliases()
	if len(entries) != 3 || entries[0].Name != "b" || entries[2].Name != "c" {
		t.Errorf("Aliases = %v", entries)
	}
}

func TestSession_Cancel(t *testing.T) {
	s := New()

	if _, err := s.SetAlias(t.Context(), "w", `\x.x x`); err != nil {
		t.Fatal(err)
	}

	before := s.Aliases()

	ctx, cancel := context.WithCancel(t.Context())

	steps, err := s.Trace(ctx, "w w")
	if err != nil {
		t.Fatal(err)
	}

	n := 0

	var last error

	for _, err := range steps {
		if err != nil {
			last = err

			break
		}

		if n++; n == 5 {
			cancel()
		}
	}

	if !errors.Is(last, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", last)
	}

	after := s.Aliases()
	if len(after) != len(before) || !term.Equal(after[0].Term, before[0].Term) {
		t.Errorf("aliases changed: %v -> %v", before, after)
	}
}

func TestSession_StepLimit(t *testing.T) {
	s := New(WithStepLimit(3))

	_, err := s.Evaluate(t.Context(), `(\x.x x) (\x.x x)`)
	if !errors.Is(err, term.ErrStepLimit) {
		t.Errorf("expected ErrStepLimit, got %v", err)
	}
}

func TestSession_Load(t *testing.T) {
	s := New()

	script := strings.Join([]string{
		"# combinators",
		`alias I = \x.x`,
		"",
		`alias K = \x y.x`,
		"eval K I",
		"exit",
		"alias never = 1",
	}, "\n")

	var buf bytes.Buffer
	if err := s.Load(t.Context(), strings.NewReader(script), &buf); err != nil {
		t.Fatal(err)
	}

	if got := s.Environment().Names(); len(got) != 2 {
		t.Errorf("loaded aliases = %v, want [I K]", got)
	}

	if !strings.HasPrefix(buf.String(), "(λy.(λx.x))\n") {
		t.Errorf("unexpected output %q", buf.String())
	}

	err := s.Load(t.Context(), strings.NewReader("alias a = 1\nbogus\n"), &buf)
	if !errors.Is(err, ErrUnknownCommand) || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected unknown command on line 2, got %v", err)
	}
}

func TestLoad_LongLine(t *testing.T) {
	s := New()
	name := strings.Repeat("v", 256<<10)

	script := "alias big = " + name + "\nalias small = 1\n"
	if err := s.Load(t.Context(), strings.NewReader(script), io.Discard); err != nil {
		t.Fatalf("Load: %v", err)
	}

	got, err := s.Environment().Get("big")
	if err != nil {
		t.Fatal(err)
	}

	if !term.Equal(got, term.Var(name)) {
		t.Errorf("big = %.20v..., want a %d-rune variable", got, len(name))
	}
}

func TestError(t *testing.T) {
	_, err := New().Exec(t.Context(), "frobnicate x y", io.Discard)

	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *Error, got %T", err)
	}

	if want := "unknown command: frobnicate x y"; se.Error() != want {
		t.Errorf("Error() = %q, want %q", se.Error(), want)
	}

	if !errors.Is(err, ErrUnknownCommand) || errors.Is(err, ErrMissingAliasName) {
		t.Errorf("errors.Is mismatch for %v", err)
	}

	attrs := se.LogValue().Group()
	if n := len(attrs); n != 3 || attrs[2].Value.String() != "frobnicate" {
		t.Errorf("LogValue = %v", attrs)
	}
}

func TestCommands_Help(t *testing.T) {
	out := exec(t, New(), "help")

	for _, c := range Commands() {
		if !strings.Contains(out, c.Usage) {
			t.Errorf("help missing %q", c.Usage)
		}
	}
}
