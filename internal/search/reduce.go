package search

import (
	"sort"
	"strings"
	"unicode"
)

// KeyCount is one bucket of an aggregated table.
type KeyCount struct {
	Key   string
	Count int
}

// sortCounts orders buckets by count descending, key ascending on ties, so
// output is deterministic.
func sortCounts(m map[string]int) []KeyCount {
	out := make([]KeyCount, 0, len(m))
	for k, c := range m {
		out = append(out, KeyCount{Key: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// CountByProject groups hits by project, descending by count, and returns
// the grand total. Count-mode output never prints individual hits, so the
// total here must equal the enumeration-mode result count for the same
// query and filters.
func CountByProject(hits []Hit) ([]KeyCount, int) {
	counts := make(map[string]int)
	for _, h := range hits {
		counts[h.Project]++
	}
	sorted := sortCounts(counts)
	total := 0
	for _, kc := range sorted {
		total += kc.Count
	}
	return sorted, total
}

// Summary is the condensed cross-cutting view of one search.
type Summary struct {
	Projects []KeyCount
	Roles    []KeyCount
	Sessions int    // distinct (project, session) pairs
	Earliest string // first 10 chars of the earliest timestamp
	Latest   string
	Topics   []string // top 10 topic words
	Total    int
}

// stopWords are skipped during topic extraction.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "that": true, "this": true,
	"with": true, "from": true, "are": true, "was": true, "were": true,
	"been": true, "have": true, "has": true, "had": true, "not": true,
	"but": true, "what": true, "all": true, "can": true, "her": true,
	"his": true, "one": true, "our": true, "out": true, "you": true,
	"your": true, "which": true, "their": true, "them": true, "then": true,
	"than": true, "into": true, "could": true, "would": true, "there": true,
	"about": true, "just": true, "like": true, "some": true, "also": true,
	"more": true, "when": true, "will": true, "each": true, "make": true,
	"way": true, "she": true, "how": true, "its": true, "may": true,
	"use": true, "used": true, "using": true, "let": true, "get": true,
	"got": true, "did": true, "does": true, "done": true, "any": true,
	"very": true, "here": true, "where": true, "should": true, "need": true,
	"don": true, "doesn": true, "isn": true, "it's": true, "i'll": true,
	"i'm": true, "we're": true, "they": true, "that's": true, "file": true,
	"line": true, "code": true, "run": true, "set": true, "new": true,
	"see": true, "now": true, "try": true, "want": true,
}

// Summarize makes a single pass over the hits computing per-project and
// per-role counts, the distinct session count, the date range, and a top-10
// topic list built from words of length >= 4 that are neither stop words
// nor contain a query term.
func Summarize(hits []Hit, queries []string) Summary {
	projectCounts := make(map[string]int)
	roleCounts := make(map[string]int)
	sessions := make(map[string]struct{})
	wordCounts := make(map[string]int)
	var earliest, latest string

	for _, h := range hits {
		projectCounts[h.Project]++
		roleCounts[h.Record.RoleStr()]++
		sessions[h.Project+":"+h.SessionID] = struct{}{}

		msg := h.Record.AsMessageRecord()
		if msg == nil {
			continue
		}

		if msg.Timestamp != "" {
			d := msg.Timestamp
			if len(d) > 10 {
				d = d[:10]
			}
			if earliest == "" || d < earliest {
				earliest = d
			}
			if latest == "" || d > latest {
				latest = d
			}
		}

		for _, word := range splitTopicWords(msg.TextContent()) {
			w := strings.ToLower(word)
			if len(w) >= 4 && !stopWords[w] {
				wordCounts[w]++
			}
		}
	}

	queryLower := make([]string, 0, len(queries))
	for _, q := range queries {
		queryLower = append(queryLower, strings.ToLower(q))
	}

	var topics []string
	for _, kc := range sortCounts(wordCounts) {
		if containsAny(kc.Key, queryLower) {
			continue
		}
		topics = append(topics, kc.Key)
		if len(topics) == 10 {
			break
		}
	}

	projects := sortCounts(projectCounts)
	total := 0
	for _, kc := range projects {
		total += kc.Count
	}

	return Summary{
		Projects: projects,
		Roles:    sortCounts(roleCounts),
		Sessions: len(sessions),
		Earliest: earliest,
		Latest:   latest,
		Topics:   topics,
		Total:    total,
	}
}

// splitTopicWords tokenizes on everything that is not alphanumeric or '_'.
func splitTopicWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}

func containsAny(word string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(word, n) {
			return true
		}
	}
	return false
}
