package session

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ardnew/lrepl/lang"
)

func TestWriteScript_RoundTrip(t *testing.T) {
	s := New()
	exec(t, s, `alias id = \x.x`, "alias a = id b", "alias b = b c")

	var script bytes.Buffer
	if err := s.WriteScript(&script); err != nil {
		t.Fatalf("WriteScript: %v", err)
	}

	want := "alias id = (λx.x)\nalias a = ((λx.x) b)\nalias b = (b c)\n"
	if script.String() != want {
		t.Fatalf("WriteScript = %q, want %q", script.String(), want)
	}

	other := New()
	if err := other.Load(t.Context(), &script, io.Discard); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got, want := exec(t, other, "aliases"), exec(t, s, "aliases"); got != want {
		t.Errorf("reloaded aliases = %q, want %q", got, want)
	}
}

func TestReload(t *testing.T) {
	s := New()
	exec(t, s, "alias x = 1", "alias y = 2")

	err := s.Reload(t.Context(), strings.NewReader("alias z = 3\n"), io.Discard)
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}

	if got := exec(t, s, "aliases"); got != "z = 3\n" {
		t.Errorf("aliases after reload = %q", got)
	}
}

func TestReload_FailureKeepsAliases(t *testing.T) {
	s := New()
	exec(t, s, "alias x = 1", "alias y = 2")

	script := "alias z = 3\nalias w = a b c.\n"

	err := s.Reload(t.Context(), strings.NewReader(script), io.Discard)
	if !errors.Is(err, lang.ErrSyntax) {
		t.Fatalf("expected syntax error, got %v", err)
	}

	if got := exec(t, s, "aliases"); got != "x = 1\ny = 2\n" {
		t.Errorf("aliases after failed reload = %q", got)
	}
}

func TestReload_RestoresStoredTerms(t *testing.T) {
	s := New()

	// z keeps the free name y, which was undefined when z was set.
	exec(t, s, "alias x = y", "alias y = 1", "alias z = x")

	want := "x = y\ny = 1\nz = y\n"
	if got := exec(t, s, "aliases"); got != want {
		t.Fatalf("aliases = %q, want %q", got, want)
	}

	var script bytes.Buffer
	if err := s.WriteScript(&script); err != nil {
		t.Fatalf("WriteScript: %v", err)
	}

	if err := s.Reload(t.Context(), &script, io.Discard); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	if got := exec(t, s, "aliases"); got != want {
		t.Errorf("aliases after reload = %q, want %q", got, want)
	}

	// Later definitions resolve the restored aliases as usual.
	if got := exec(t, s, "alias w = z", "eval w"); got != "1\n" {
		t.Errorf("eval w = %q, want 1", got)
	}
}

func TestReload_RunsOtherCommands(t *testing.T) {
	s := New()

	var out bytes.Buffer

	script := "# edited\nalias a = b\neval a\nclear a\nalias c = 1\n"
	if err := s.Reload(t.Context(), strings.NewReader(script), &out); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	if out.String() != "b\n" {
		t.Errorf("output = %q, want b", out.String())
	}

	if got := exec(t, s, "aliases"); got != "c = 1\n" {
		t.Errorf("aliases after reload = %q", got)
	}

	err := s.Reload(t.Context(), strings.NewReader("alias = b\n"), io.Discard)
	if !errors.Is(err, ErrMissingAliasName) {
		t.Errorf("expected ErrMissingAliasName, got %v", err)
	}
}
