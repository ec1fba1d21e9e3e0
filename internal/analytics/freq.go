// Package analytics computes frequency tables and aggregate statistics
// across the whole corpus with a parallel per-file map-reduce.
package analytics

import (
	"bufio"
	"bytes"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/Zuo-Peng/smc/internal/model"
	"github.com/Zuo-Peng/smc/internal/scan"
)

const maxLineSize = 10 * 1024 * 1024 // 10MB

// Bucket is one entry of a frequency table.
type Bucket struct {
	Key   string
	Count uint64
}

// sortBuckets orders a table by count descending, key ascending on ties.
func sortBuckets(m map[string]uint64) []Bucket {
	out := make([]Bucket, 0, len(m))
	for k, c := range m {
		out = append(out, Bucket{Key: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// forEachFile runs fn over every file with a CPU-sized worker pool. Workers
// accumulate into local state and merge once per file; fn must do its own
// locking around the merge. File-level failures are fn's to swallow.
func forEachFile(files []scan.SessionFile, fn func(scan.SessionFile)) {
	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for _, file := range files {
		g.Go(func() error {
			fn(file)
			return nil
		})
	}
	_ = g.Wait()
}

// forEachMessage streams every parseable message record of one file to fn.
// Unopenable files and unparseable lines are skipped silently.
func forEachMessage(file scan.SessionFile, fn func(model.Record, *model.MessageRecord)) {
	f, err := os.Open(file.Path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 256*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		record, err := model.Parse(line)
		if err != nil {
			continue
		}
		msg := record.AsMessageRecord()
		if msg == nil {
			continue
		}
		fn(record, msg)
	}
}

// CharCounts is the 26 case-folded letter buckets, 'a' at index 0.
type CharCounts [26]uint64

// Max returns the largest bucket, at least 1 so bar scaling never divides
// by zero.
func (c CharCounts) Max() uint64 {
	max := uint64(1)
	for _, n := range c {
		if n > max {
			max = n
		}
	}
	return max
}

// Total sums all buckets.
func (c CharCounts) Total() uint64 {
	var total uint64
	for _, n := range c {
		total += n
	}
	return total
}

func countLetters(counts *CharCounts, data []byte) {
	for _, b := range data {
		switch {
		case b >= 'a' && b <= 'z':
			counts[b-'a']++
		case b >= 'A' && b <= 'Z':
			counts[b-'A']++
		}
	}
}

// FreqChars counts a-z letter frequency over the parsed message text of
// every file.
func FreqChars(files []scan.SessionFile) CharCounts {
	var mu sync.Mutex
	var total CharCounts

	forEachFile(files, func(file scan.SessionFile) {
		var local CharCounts
		forEachMessage(file, func(_ model.Record, msg *model.MessageRecord) {
			countLetters(&local, []byte(msg.TextContent()))
		})
		mu.Lock()
		for i, n := range local {
			total[i] += n
		}
		mu.Unlock()
	})

	return total
}

// FreqCharsRaw counts a-z letter frequency over the raw file bytes, JSON
// framing and all.
func FreqCharsRaw(files []scan.SessionFile) CharCounts {
	var mu sync.Mutex
	var total CharCounts

	forEachFile(files, func(file scan.SessionFile) {
		data, err := os.ReadFile(file.Path)
		if err != nil {
			return
		}
		var local CharCounts
		countLetters(&local, data)
		mu.Lock()
		for i, n := range local {
			total[i] += n
		}
		mu.Unlock()
	})

	return total
}

// FreqWords counts case-folded alphanumeric tokens of length >= 3 across
// the parsed message text of every file, sorted by count descending.
func FreqWords(files []scan.SessionFile) []Bucket {
	var mu sync.Mutex
	total := make(map[string]uint64)

	forEachFile(files, func(file scan.SessionFile) {
		local := make(map[string]uint64)
		forEachMessage(file, func(_ model.Record, msg *model.MessageRecord) {
			words := strings.FieldsFunc(msg.TextContent(), func(r rune) bool {
				return !unicode.IsLetter(r) && !unicode.IsDigit(r)
			})
			for _, w := range words {
				if len(w) >= 3 {
					local[strings.ToLower(w)]++
				}
			}
		})
		mu.Lock()
		for w, n := range local {
			total[w] += n
		}
		mu.Unlock()
	})

	return sortBuckets(total)
}

// FreqTools counts tool invocations by name across every file.
func FreqTools(files []scan.SessionFile) []Bucket {
	var mu sync.Mutex
	total := make(map[string]uint64)

	forEachFile(files, func(file scan.SessionFile) {
		local := make(map[string]uint64)
		forEachMessage(file, func(_ model.Record, msg *model.MessageRecord) {
			for _, tool := range msg.ToolCalls() {
				local[tool]++
			}
		})
		mu.Lock()
		for tool, n := range local {
			total[tool] += n
		}
		mu.Unlock()
	})

	return sortBuckets(total)
}

// FreqRoles counts message records by role token; non-message records are
// excluded.
func FreqRoles(files []scan.SessionFile) []Bucket {
	var mu sync.Mutex
	total := make(map[string]uint64)

	forEachFile(files, func(file scan.SessionFile) {
		local := make(map[string]uint64)
		forEachMessage(file, func(record model.Record, _ *model.MessageRecord) {
			local[record.RoleStr()]++
		})
		mu.Lock()
		for role, n := range local {
			total[role] += n
		}
		mu.Unlock()
	})

	return sortBuckets(total)
}
