// Package session reads whole conversation files: listing, viewing,
// exporting, and slicing single sessions.
package session

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/Zuo-Peng/smc/internal/display"
	"github.com/Zuo-Peng/smc/internal/model"
	"github.com/Zuo-Peng/smc/internal/scan"
)

const maxLineSize = 10 * 1024 * 1024 // 10MB

// ParseRecords reads every parseable record of a session file in line
// order. Blank and malformed lines are skipped.
func ParseRecords(path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open session file: %w", err)
	}
	defer f.Close()

	var records []model.Record
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
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	return records, nil
}

// NumberedRecord pairs a record with its 1-based line number in the file.
type NumberedRecord struct {
	Record  model.Record
	LineNum int
}

// ParseNumbered is ParseRecords keeping the original line numbers, so
// callers can map search hits back onto records.
func ParseNumbered(path string) ([]NumberedRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open session file: %w", err)
	}
	defer f.Close()

	var records []NumberedRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 256*1024), maxLineSize)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		record, err := model.Parse(line)
		if err != nil {
			continue
		}
		records = append(records, NumberedRecord{Record: record, LineNum: lineNum})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	return records, nil
}

// ListEntry is one row of the sessions listing.
type ListEntry struct {
	File      scan.SessionFile
	Timestamp string // first message timestamp, "" when none found
	Preview   string // first user message, capped at 100 chars
	MsgCount  int
}

// List probes each file for its first timestamp and first user message and
// returns entries sorted by timestamp descending. after/before filter on
// the date prefix; empty strings disable the bound.
func List(files []scan.SessionFile, after, before string) []ListEntry {
	entries := make([]ListEntry, 0, len(files))

	for _, file := range files {
		entry := ListEntry{File: file}
		probeFile(file.Path, &entry)

		date := entry.Timestamp
		if len(date) > 10 {
			date = date[:10]
		}
		if after != "" && (date == "" || date < after) {
			continue
		}
		if before != "" && (date == "" || date > before) {
			continue
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Timestamp != entries[j].Timestamp {
			return entries[i].Timestamp > entries[j].Timestamp
		}
		return entries[i].File.SessionID < entries[j].File.SessionID
	})
	return entries
}

// PrintList renders the sessions listing, at most limit entries (0 shows
// everything).
func PrintList(w io.Writer, entries []ListEntry, limit int) {
	show := len(entries)
	if limit > 0 && limit < show {
		show = limit
	}

	fmt.Fprintf(w, "%d sessions found (showing %d)\n\n", len(entries), show)

	for _, entry := range entries[:show] {
		date := entry.Timestamp
		if date == "" {
			date = "unknown"
		} else if len(date) > 10 {
			date = date[:10]
		}
		preview := entry.Preview
		if preview == "" {
			preview = "[no user message]"
		}

		display.PrintSessionHeader(w, entry.File.ProjectName, entry.File.SessionID, entry.File.SizeHuman())
		fmt.Fprintf(w, "  %s %s\n\n", date, preview)
	}
}

// probeFile scans until it has a first timestamp, a user preview, and a
// few messages counted; it bails early rather than reading huge files.
func probeFile(path string, entry *ListEntry) {
	f, err := os.Open(path)
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

		entry.MsgCount++
		if entry.Timestamp == "" {
			entry.Timestamp = msg.Timestamp
		}
		if entry.Preview == "" && record.Kind == model.KindUser {
			runes := []rune(msg.TextContent())
			if len(runes) > 100 {
				runes = runes[:100]
			}
			entry.Preview = string(runes)
		}

		if entry.Timestamp != "" && entry.Preview != "" && entry.MsgCount > 5 {
			break
		}
	}
}
