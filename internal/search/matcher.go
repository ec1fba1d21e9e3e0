package search

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Matcher is a compiled set of query terms. Plain terms match by
// case-insensitive substring; regex terms by find-anywhere. In AND mode
// every term must match the full text independently.
type Matcher struct {
	regexes []*regexp.Regexp
	plains  []string
	andMode bool
}

// NewMatcher compiles the query terms. An empty query list or an invalid
// regex pattern is a hard error that must abort the whole search before any
// file is scanned.
func NewMatcher(queries []string, isRegex, andMode bool) (*Matcher, error) {
	if len(queries) == 0 {
		return nil, errors.New("search query cannot be empty")
	}

	m := &Matcher{andMode: andMode}
	if isRegex {
		for _, q := range queries {
			re, err := regexp.Compile(q)
			if err != nil {
				return nil, fmt.Errorf("invalid regex %q: %w", q, err)
			}
			m.regexes = append(m.regexes, re)
		}
		return m, nil
	}

	for _, q := range queries {
		m.plains = append(m.plains, strings.ToLower(q))
	}
	return m, nil
}

// Match tests text against the query set. In OR mode it returns the first
// term, in declaration order, that matches; in AND mode it returns a joined
// label if every term matches. The second return reports whether there was
// a match at all.
func (m *Matcher) Match(text string) (string, bool) {
	if m.andMode {
		return m.allMatch(text)
	}

	if len(m.regexes) > 0 {
		for _, re := range m.regexes {
			if loc := re.FindStringIndex(text); loc != nil {
				return text[loc[0]:loc[1]], true
			}
		}
		return "", false
	}

	lower := strings.ToLower(text)
	for _, q := range m.plains {
		if strings.Contains(lower, q) {
			return q, true
		}
	}
	return "", false
}

func (m *Matcher) allMatch(text string) (string, bool) {
	if len(m.regexes) > 0 {
		matches := make([]string, 0, len(m.regexes))
		for _, re := range m.regexes {
			loc := re.FindStringIndex(text)
			if loc == nil {
				return "", false
			}
			matches = append(matches, text[loc[0]:loc[1]])
		}
		return strings.Join(matches, " + "), true
	}

	lower := strings.ToLower(text)
	for _, q := range m.plains {
		if !strings.Contains(lower, q) {
			return "", false
		}
	}
	return strings.Join(m.plains, " + "), true
}
