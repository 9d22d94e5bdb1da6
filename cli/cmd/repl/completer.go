package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/lrepl/session"
)

// isWordBoundary reports whether r separates words for completion. These are
// the runes that can never be part of a variable name, plus the '=' of an
// alias definition.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '(', ')', '.', '\\', 'λ', '=':
		return true
	}

	return false
}

// wordBounds returns the word under the cursor and its byte range within
// input. The word is empty when the cursor sits between two boundaries.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// isCommandWord reports whether the word starting at wordStart is the first
// word of a command line.
func isCommandWord(input string, wordStart int) bool {
	return strings.TrimSpace(input[:wordStart]) == ""
}

// boundName reports whether the word at [start, end) is a parameter of an
// abstraction, where an alias name would be shadowed anyway.
func boundName(input string, start int) bool {
	prefix := strings.TrimRight(input[:start], " \t")

	for prefix != "" {
		r, size := utf8.DecodeLastRuneInString(prefix)

		switch {
		case r == '\\' || r == 'λ':
			return true
		case isWordBoundary(r):
			return false
		}

		// Skip the preceding parameter.
		for prefix != "" {
			r, size = utf8.DecodeLastRuneInString(prefix)
			if isWordBoundary(r) {
				break
			}

			prefix = prefix[:len(prefix)-size]
		}

		prefix = strings.TrimRight(prefix, " \t")
	}

	return false
}

// commandNames returns the names accepted in command mode.
func commandNames() []string {
	cmds := session.Commands()
	names := make([]string, 0, len(cmds))

	for _, c := range cmds {
		if c.Name != "EOF" {
			names = append(names, c.Name)
		}
	}

	return names
}

// computeMatches ranks the completion candidates for the word under the
// cursor, best first. Command mode completes command names in the first word
// and alias names after it. Evaluation mode completes alias names only.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, byteOffset(input, m.input.Position()))
	if word == "" {
		return nil, nil, wordStart, wordEnd
	}

	switch {
	case m.mode == modeCtrl && isCommandWord(input, wordStart):
		candidates = commandNames()
	case boundName(input, wordStart):
		return nil, nil, wordStart, wordEnd
	default:
		candidates = m.session.Environment().Names()
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The selected candidate uses the selected style while
// tab-cycling.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders match with its matched runes highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	return b.String()
}
