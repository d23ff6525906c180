package repl

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "find", "edit", "clear", "quit"}

// filterWords are the names and keywords of filter conditions.
var filterWords = []string{"i", "and", "or", "not", "True", "False"}

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes: whitespace, brackets, the slash of a command and the operator
// characters of filter conditions.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%',
		'<', '>', '=', '!',
		',', ':':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input.
// Returns an empty word when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Walk backward from cursor to find word start.
	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	// Walk forward from cursor to find word end.
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

// isCommand reports whether input typed in template mode is a slash command.
func isCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

// completionCandidates returns the words that may complete the word starting
// at wordStart: command names at the start of a command, filter words inside
// a filter condition, and nothing elsewhere.
func (m model) completionCandidates(input string, wordStart int) []string {
	head := strings.TrimSpace(input[:wordStart])

	switch {
	case m.mode == modeCtrl:
		if head == "" {
			return ctrlCommands
		}

	case isCommand(input):
		if head == "/" {
			return ctrlCommands
		}

	case detectGroup(input, wordStart).kind == shapeFilter:
		return filterWords
	}

	return nil
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries. An empty word has no matches.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, ws, we := wordBounds(input, m.input.Position())
	wordStart, wordEnd = ws, we

	if word == "" {
		return nil, nil, wordStart, wordEnd
	}

	candidates = m.completionCandidates(input, wordStart)
	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
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
		selected := tabActive && i == suggIdx
		rendered := renderMatch(match, selected)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
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

// renderMatch renders a single match with its matched characters
// highlighted.
func renderMatch(match fuzzy.Match, selected bool) string {
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

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	return b.String()
}

// findNames returns the names fuzzily matching query, best match first.
func findNames(query string, names []string) fuzzy.Matches {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	return fuzzy.Find(query, names)
}

// renderFind lists matches with the position each name has in the full
// sequence, at most limit lines.
func renderFind(query string, matches fuzzy.Matches, limit int) string {
	if len(matches) == 0 {
		return hintStyle.Render(fmt.Sprintf("no names match %q", query))
	}

	var b strings.Builder

	for k, match := range matches {
		if k == limit {
			fmt.Fprintf(&b, "%s\n", hintStyle.Render(
				fmt.Sprintf("...and %d more", len(matches)-limit)))

			break
		}

		fmt.Fprintf(&b, "%s %s\n",
			hintStyle.Render(fmt.Sprintf("%d.", match.Index+1)),
			renderMatch(match, false))
	}

	return strings.TrimSuffix(b.String(), "\n")
}
