package search

import (
	"bufio"
	"bytes"
	"os"
	"runtime"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/Zuo-Peng/smc/internal/model"
	"github.com/Zuo-Peng/smc/internal/scan"
)

const maxLineSize = 10 * 1024 * 1024 // 10MB

// Hit is one message record that passed the filter chain and the matcher.
// Created by the per-file scanner, consumed by exactly one reducer.
type Hit struct {
	Project      string
	SessionID    string
	Record       model.Record
	LineNum      int // 1-based
	MatchedQuery string
}

// Run scans all candidate files concurrently and returns the merged hits.
// Hits arrive in the order their originating file completed; within one
// file they follow line order. Pre-scan validation errors (empty query,
// bad regex) abort the run; per-file and per-line failures never do.
func Run(files []scan.SessionFile, opts Options) ([]Hit, error) {
	matcher, err := NewMatcher(opts.Queries, opts.Regex, opts.AndMode)
	if err != nil {
		return nil, err
	}

	candidates := filterFiles(files, opts)

	var hitCount atomic.Int64
	out := make(chan []Hit, len(candidates))

	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for _, file := range candidates {
		g.Go(func() error {
			if opts.MaxResults > 0 && hitCount.Load() >= int64(opts.MaxResults) {
				return nil
			}
			if hits := scanFile(file, matcher, opts, &hitCount); len(hits) > 0 {
				out <- hits
			}
			return nil
		})
	}
	_ = g.Wait()
	close(out)

	var all []Hit
	for hits := range out {
		all = append(all, hits...)
	}
	return all, nil
}

// filterFiles applies the project substring and session-prefix exclusion
// before any file is opened.
func filterFiles(files []scan.SessionFile, opts Options) []scan.SessionFile {
	proj := strings.ToLower(opts.Project)
	var out []scan.SessionFile
	for _, f := range files {
		if proj != "" && !strings.Contains(strings.ToLower(f.ProjectName), proj) {
			continue
		}
		if opts.ExcludeSession != "" && strings.HasPrefix(f.SessionID, opts.ExcludeSession) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// scanFile walks one session file line by line, applying the filter chain
// and matcher. An unopenable file contributes zero hits and no error. The
// shared budget is checked per line with relaxed ordering; a worker past
// the check may still emit, so slight overshoot is expected under
// concurrency.
func scanFile(file scan.SessionFile, matcher *Matcher, opts Options, hitCount *atomic.Int64) []Hit {
	f, err := os.Open(file.Path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var hits []Hit
	max := int64(opts.MaxResults)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 256*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if max > 0 && hitCount.Load() >= max {
			break
		}

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

		if opts.Role != "" && record.RoleStr() != opts.Role {
			continue
		}

		if opts.Tool != "" && !toolMatches(msg.ToolCalls(), opts.Tool) {
			continue
		}

		// timestamps are zero-padded ISO-8601, so plain string
		// comparison orders them correctly; a missing timestamp passes
		if opts.After != "" && msg.Timestamp != "" && msg.Timestamp < opts.After {
			continue
		}
		if opts.Before != "" && msg.Timestamp != "" && msg.Timestamp > opts.Before {
			continue
		}

		if opts.Branch != "" {
			if msg.GitBranch == "" ||
				!strings.Contains(strings.ToLower(msg.GitBranch), strings.ToLower(opts.Branch)) {
				continue
			}
		}

		text := msg.TextContent()
		if !opts.IncludeSelf && strings.Contains(text, TagOpen) {
			continue
		}

		if matched, ok := matcher.Match(text); ok {
			hitCount.Add(1)
			hits = append(hits, Hit{
				Project:      file.ProjectName,
				SessionID:    file.SessionID,
				Record:       record,
				LineNum:      lineNum,
				MatchedQuery: matched,
			})
		}
	}

	return hits
}

func toolMatches(tools []string, want string) bool {
	lower := strings.ToLower(want)
	for _, t := range tools {
		if strings.Contains(strings.ToLower(t), lower) {
			return true
		}
	}
	return false
}
