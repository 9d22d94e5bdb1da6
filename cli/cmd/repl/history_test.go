package repl

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"testing"
)

func TestHistory_AddLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	for _, e := range []HistoryEntry{
		{`\x.x`, modeEval},
		{"alias id = \\x.x", modeCtrl},
		{"id y", modeEval},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add(%q): %v", e.Line, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	want := "E:\\x.x\nC:alias id = \\x.x\nE:id y\n"
	if string(data) != want {
		t.Errorf("history file = %q, want %q", data, want)
	}

	loaded := NewHistory(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !slices.Equal(loaded.Entries(), h.Entries()) {
		t.Errorf("loaded %v, want %v", loaded.Entries(), h.Entries())
	}
}

func TestHistory_Duplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	for _, line := range []string{"a", "b", "b", "  ", "a"} {
		if err := h.Add(line, modeEval); err != nil {
			t.Fatal(err)
		}
	}

	// The same text in another mode is a different entry.
	if err := h.Add("a", modeCtrl); err != nil {
		t.Fatal(err)
	}

	want := []HistoryEntry{{"b", modeEval}, {"a", modeEval}, {"a", modeCtrl}}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("entries = %v, want %v", got, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "E:b\nE:a\nC:a\n" {
		t.Errorf("history file = %q", data)
	}
}

func TestHistory_LoadUntagged(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	if err := os.WriteFile(path, []byte("f x\n\nC:help\nE:g\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	want := []HistoryEntry{{"f x", modeEval}, {"help", modeCtrl}, {"g", modeEval}}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("entries = %v, want %v", got, want)
	}

	if got := slices.Collect(h.Lines(modeCtrl)); !slices.Equal(got, []string{"help"}) {
		t.Errorf("Lines(ctrl) = %v", got)
	}
}

func TestHistory_MissingFile(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "missing"))
	if err := h.Load(); err != nil {
		t.Errorf("Load of a missing file: %v", err)
	}

	if h.Len() != 0 {
		t.Errorf("Len = %d, want 0", h.Len())
	}
}

func TestHistory_InMemory(t *testing.T) {
	h := NewHistory("")
	if err := h.Add("x", modeEval); err != nil {
		t.Fatal(err)
	}

	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	e, err := h.At(0)
	if err != nil || e.Line != "x" {
		t.Errorf("At(0) = %v, %v", e, err)
	}

	if _, err := h.At(1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("At(1) error = %v, want ErrOutOfBounds", err)
	}
}

func TestHistory_Bound(t *testing.T) {
	h := NewHistory("")
	for i := range maxHistory + 5 {
		if err := h.Add("x"+strconv.Itoa(i), modeEval); err != nil {
			t.Fatal(err)
		}
	}

	if h.Len() != maxHistory {
		t.Errorf("Len = %d, want %d", h.Len(), maxHistory)
	}
}
