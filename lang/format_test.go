package lang

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormatTree(t *testing.T) {
	node, err := ParseTree(t.Context(), "λx y.x a")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := FormatTree(&buf, node, 2); err != nil {
		t.Fatal(err)
	}

	want := strings.Join([]string{
		"abstraction x y",
		"  application",
		"    variable x",
		"    variable a",
		"",
	}, "\n")

	if buf.String() != want {
		t.Errorf("FormatTree =\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestFormat_Encodings(t *testing.T) {
	tm := mustParse(t, "f a")

	t.Run("native", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Format(&buf, tm); err != nil {
			t.Fatal(err)
		}

		if buf.String() != "(f a)\n" {
			t.Errorf("Format = %q", buf.String())
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := FormatJSON(&buf, tm, 0); err != nil {
			t.Fatal(err)
		}

		want := `{"application":{"arg":{"variable":"a"},"func":{"variable":"f"}}}` + "\n"
		if buf.String() != want {
			t.Errorf("FormatJSON = %q, want %q", buf.String(), want)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := FormatYAML(t.Context(), &buf, tm, 2); err != nil {
			t.Fatal(err)
		}

		for _, want := range []string{"application:", "variable: f", "variable: a"} {
			if !strings.Contains(buf.String(), want) {
				t.Errorf("FormatYAML missing %q:\n%s", want, buf.String())
			}
		}
	})
}
