package lang

import (
	"slices"
	"testing"
)

func TestTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "abstraction",
			input: "λx.x",
			want: []Token{
				{Lambda, "λ", Pos{0, 1, 1}},
				{Variable, "x", Pos{2, 2, 1}},
				{Dot, ".", Pos{3, 3, 1}},
				{Variable, "x", Pos{4, 4, 1}},
			},
		},
		{
			name:  "backslash and parens",
			input: `(\ab.c)`,
			want: []Token{
				{LPar, "(", Pos{0, 1, 1}},
				{Lambda, `\`, Pos{1, 2, 1}},
				{Variable, "ab", Pos{2, 3, 2}},
				{Dot, ".", Pos{4, 5, 1}},
				{Variable, "c", Pos{5, 6, 1}},
				{RPar, ")", Pos{6, 7, 1}},
			},
		},
		{
			name:  "whitespace run",
			input: "a  \tb",
			want: []Token{
				{Variable, "a", Pos{0, 1, 1}},
				{Whitespace, "  \t", Pos{1, 2, 3}},
				{Variable, "b", Pos{4, 5, 1}},
			},
		},
		{
			name:  "symbolic names",
			input: "ähm-hi? +",
			want: []Token{
				{Variable, "ähm-hi?", Pos{0, 1, 7}},
				{Whitespace, " ", Pos{8, 8, 1}},
				{Variable, "+", Pos{9, 9, 1}},
			},
		},
		{
			name:  "line break is invalid",
			input: "a\nb",
			want: []Token{
				{Variable, "a", Pos{0, 1, 1}},
				{Invalid, "\n", Pos{1, 2, 1}},
				{Variable, "b", Pos{2, 3, 1}},
			},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Tokens(tt.input))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Tokens(%q)\n got: %v\nwant: %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokens_Restartable(t *testing.T) {
	seq := Tokens(`\x.x y`)

	first := slices.Collect(seq)
	second := slices.Collect(seq)

	if !slices.Equal(first, second) {
		t.Errorf("second pass differs:\n%v\n%v", first, second)
	}
}

func TestTokens_StopEarly(t *testing.T) {
	count := 0

	for range Tokens("a b c d") {
		count++
		if count == 2 {
			break
		}
	}

	if count != 2 {
		t.Errorf("expected to stop after 2 tokens, got %d", count)
	}
}
