package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func resolveFlag(t *testing.T, r kong.Resolver, name string) any {
	t.Helper()

	val, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: name}})
	if err != nil {
		t.Fatalf("Resolve(%q) failed: %v", name, err)
	}

	return val
}

func TestResolve(t *testing.T) {
	config := `
log-level: debug
log:
  format: text
  pretty: false
max_steps: 10000
source:
  - prelude.txt
  - bools.txt
`

	resolver, err := resolve(t.Context())(strings.NewReader(config))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if err := resolver.Validate(nil); err != nil {
		t.Errorf("Validate failed: %v", err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log-format", "text"},
		{"log-pretty", false},
		{"max-steps", "10000"},
		{"source", "prelude.txt,bools.txt"},
		{"log-caller", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			if got := resolveFlag(t, resolver, tt.flag); got != tt.want {
				t.Errorf("Resolve(%q) = %#v, want %#v", tt.flag, got, tt.want)
			}
		})
	}
}

func TestResolve_SourcePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prelude.txt")
	if err := os.WriteFile(path, []byte("alias id = \\x.x\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	resolver, err := resolve(t.Context())(strings.NewReader("source:\n  - " + path + "\n"))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	var cli struct {
		Source []string `type:"existingfile"`
	}

	parser, err := kong.New(&cli, kong.Resolvers(resolver))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(cli.Source) != 1 || cli.Source[0] != path {
		t.Errorf("Source = %q, want [%q]", cli.Source, path)
	}
}

func TestResolve_Invalid(t *testing.T) {
	for name, input := range map[string]string{
		"empty":    "",
		"scalar":   "just a string",
		"sequence": "- a\n- b\n",
		"broken":   "a: [1, 2\n",
	} {
		t.Run(name, func(t *testing.T) {
			resolver, err := resolve(t.Context())(strings.NewReader(input))
			if err != nil {
				t.Fatalf("resolve failed: %v", err)
			}

			if got := resolveFlag(t, resolver, "a"); got != nil {
				t.Errorf("Resolve(a) = %#v, want nil", got)
			}
		})
	}
}

func TestResolve_ReadError(t *testing.T) {
	_, err := resolve(t.Context())(&errorReader{err: bytes.ErrTooLarge})
	if !errors.Is(err, bytes.ErrTooLarge) {
		t.Errorf("expected read error, got: %v", err)
	}
}

// errorReader is a reader that always returns an error.
type errorReader struct {
	err error
}

func (e *errorReader) Read(p []byte) (n int, err error) {
	return 0, e.err
}
