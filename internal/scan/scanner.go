// Package scan discovers session JSONL files under the Claude projects root
// and resolves session IDs by prefix.
package scan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SessionFile is one conversation session on disk. Files are grouped by
// ProjectName for aggregation.
type SessionFile struct {
	Path        string
	SessionID   string
	ProjectName string
	SizeBytes   int64
}

// SizeHuman renders the file size for display.
func (f SessionFile) SizeHuman() string {
	return FormatBytes(f.SizeBytes)
}

// Discover lists *.jsonl session files exactly one directory level below
// root. Unreadable project directories are skipped; a missing root yields
// an empty list. Results are sorted by size, largest first, so parallel
// scans start on the big files.
func Discover(root, marker string) ([]SessionFile, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []SessionFile
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		projectName := ExtractProjectName(entry.Name(), marker)
		projectDir := filepath.Join(root, entry.Name())

		fileEntries, err := os.ReadDir(projectDir)
		if err != nil {
			continue
		}
		for _, fe := range fileEntries {
			if fe.IsDir() || filepath.Ext(fe.Name()) != ".jsonl" {
				continue
			}
			info, err := fe.Info()
			if err != nil {
				continue
			}
			files = append(files, SessionFile{
				Path:        filepath.Join(projectDir, fe.Name()),
				SessionID:   strings.TrimSuffix(fe.Name(), ".jsonl"),
				ProjectName: projectName,
				SizeBytes:   info.Size(),
			})
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].SizeBytes > files[j].SizeBytes
	})
	return files, nil
}

// ExtractProjectName maps a munged project directory name like
// "-Users-travis-GitHub-ProjectName-sub" to "ProjectName/sub": everything
// after the marker segment, joined with slashes. When the marker is absent
// it falls back to the last meaningful segment.
func ExtractProjectName(dirName, marker string) string {
	parts := strings.Split(dirName, "-")

	for i, p := range parts {
		if p == marker {
			rest := parts[i+1:]
			if len(rest) == 0 {
				return dirName
			}
			return strings.Join(rest, "/")
		}
	}

	last := dirName
	for _, p := range parts {
		if p != "" && p != "Users" {
			last = p
		}
	}
	return last
}
