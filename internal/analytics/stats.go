package analytics

import (
	"bufio"
	"bytes"
	"os"
	"sort"

	"github.com/Zuo-Peng/smc/internal/model"
	"github.com/Zuo-Peng/smc/internal/scan"
)

// ProjectStat aggregates one project's sessions.
type ProjectStat struct {
	Name      string
	Sessions  int
	SizeBytes int64
	Earliest  string // YYYY-MM-DD, "" when no timestamp was found
	Latest    string
}

// CorpusStats is the whole-corpus roll-up for the stats command.
type CorpusStats struct {
	TotalSessions int
	TotalBytes    int64
	Projects      []ProjectStat // sorted by size descending
}

// Stats aggregates session counts and sizes per project. No file contents
// are read.
func Stats(files []scan.SessionFile) CorpusStats {
	byName := make(map[string]*ProjectStat)
	var totalBytes int64

	for _, f := range files {
		totalBytes += f.SizeBytes
		p, ok := byName[f.ProjectName]
		if !ok {
			p = &ProjectStat{Name: f.ProjectName}
			byName[f.ProjectName] = p
		}
		p.Sessions++
		p.SizeBytes += f.SizeBytes
	}

	projects := make([]ProjectStat, 0, len(byName))
	for _, p := range byName {
		projects = append(projects, *p)
	}
	sort.Slice(projects, func(i, j int) bool {
		if projects[i].SizeBytes != projects[j].SizeBytes {
			return projects[i].SizeBytes > projects[j].SizeBytes
		}
		return projects[i].Name < projects[j].Name
	})

	return CorpusStats{
		TotalSessions: len(files),
		TotalBytes:    totalBytes,
		Projects:      projects,
	}
}

// Projects aggregates per-project stats including a date range probed from
// the first few lines of each session file, sorted by latest activity.
func Projects(files []scan.SessionFile) []ProjectStat {
	byName := make(map[string]*ProjectStat)

	for _, f := range files {
		p, ok := byName[f.ProjectName]
		if !ok {
			p = &ProjectStat{Name: f.ProjectName}
			byName[f.ProjectName] = p
		}
		p.Sessions++
		p.SizeBytes += f.SizeBytes

		if date := probeDate(f.Path); date != "" {
			if p.Earliest == "" || date < p.Earliest {
				p.Earliest = date
			}
			if p.Latest == "" || date > p.Latest {
				p.Latest = date
			}
		}
	}

	projects := make([]ProjectStat, 0, len(byName))
	for _, p := range byName {
		projects = append(projects, *p)
	}
	sort.Slice(projects, func(i, j int) bool {
		if projects[i].Latest != projects[j].Latest {
			return projects[i].Latest > projects[j].Latest
		}
		return projects[i].Name < projects[j].Name
	})
	return projects
}

// probeDate reads at most the first five lines of a session file and
// returns the date (first 10 chars) of the first timestamped message.
func probeDate(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for i := 0; i < 5 && scanner.Scan(); i++ {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		record, err := model.Parse(line)
		if err != nil {
			continue
		}
		msg := record.AsMessageRecord()
		if msg == nil || msg.Timestamp == "" {
			continue
		}
		d := msg.Timestamp
		if len(d) > 10 {
			d = d[:10]
		}
		return d
	}
	return ""
}
