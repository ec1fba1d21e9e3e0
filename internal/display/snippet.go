package display

import "strings"

// ExtractSnippet returns a window of roughly contextChars characters around
// the first case-insensitive occurrence of query in text, with the window
// start aligned to a whitespace boundary and "..." markers where the text
// continues. All indexing is rune-based so multi-byte characters are never
// split. When the query does not occur, the head of the text is returned.
func ExtractSnippet(text, query string, contextChars int) string {
	runes := []rune(text)
	lower := strings.ToLower(text)
	lowerQuery := strings.ToLower(query)

	bytePos := -1
	if lowerQuery != "" {
		bytePos = strings.Index(lower, lowerQuery)
	}
	if bytePos < 0 {
		end := min(len(runes), contextChars)
		s := string(runes[:end])
		if end < len(runes) {
			s += "..."
		}
		return strings.ReplaceAll(s, "\n", " ↵ ")
	}

	// strings.ToLower maps runes one-for-one (no full case folding), so a
	// rune index into lower is the same rune index into text.
	charPos := len([]rune(lower[:bytePos]))
	queryLen := len([]rune(lowerQuery))
	halfCtx := contextChars / 2

	start := charPos - halfCtx
	if start < 0 {
		start = 0
	}
	end := min(len(runes), charPos+queryLen+halfCtx)

	// align the window start to a whitespace boundary
	if start > 0 {
		for i := start - 1; i >= 0; i-- {
			if runes[i] == ' ' || runes[i] == '\t' || runes[i] == '\n' {
				start = i + 1
				break
			}
		}
	}

	var b strings.Builder
	if start > 0 {
		b.WriteString("...")
	}
	b.WriteString(strings.TrimSpace(string(runes[start:end])))
	if end < len(runes) {
		b.WriteString("...")
	}
	return strings.ReplaceAll(b.String(), "\n", " ↵ ")
}

// HighlightMatch styles every case-insensitive occurrence of query in text,
// preserving the original casing of the matched segments.
func HighlightMatch(text, query string) string {
	if query == "" {
		return text
	}

	lower := strings.ToLower(text)
	lowerQuery := strings.ToLower(query)

	var b strings.Builder
	last := 0
	for {
		idx := strings.Index(lower[last:], lowerQuery)
		if idx < 0 {
			break
		}
		start := last + idx
		end := start + len(lowerQuery)
		b.WriteString(text[last:start])
		b.WriteString(StyleMatch.Render(text[start:end]))
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}

// Truncate limits s to max characters (not bytes), appending "..." when cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
