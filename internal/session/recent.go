package session

import (
	"io"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Zuo-Peng/smc/internal/display"
	"github.com/Zuo-Peng/smc/internal/model"
	"github.com/Zuo-Peng/smc/internal/scan"
)

// RecentEntry is one message of the cross-session recency feed.
type RecentEntry struct {
	Project   string
	SessionID string
	Record    model.Record
	LineNum   int
}

// Recent collects the most recent limit messages across every session,
// newest first. role narrows to an exact role token; "" keeps all.
// Unreadable files are skipped.
func Recent(files []scan.SessionFile, limit int, role string) []RecentEntry {
	if limit <= 0 {
		limit = 10
	}

	var mu sync.Mutex
	var all []RecentEntry

	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for _, file := range files {
		g.Go(func() error {
			records, err := ParseNumbered(file.Path)
			if err != nil {
				return nil
			}

			local := make([]RecentEntry, 0, limit)
			for _, r := range records {
				msg := r.Record.AsMessageRecord()
				if msg == nil || msg.Timestamp == "" {
					continue
				}
				if role != "" && r.Record.RoleStr() != role {
					continue
				}
				local = append(local, RecentEntry{
					Project:   file.ProjectName,
					SessionID: file.SessionID,
					Record:    r.Record,
					LineNum:   r.LineNum,
				})
				// Sessions are chronological, only the tail can win.
				if len(local) > limit {
					local = local[1:]
				}
			}

			mu.Lock()
			all = append(all, local...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(all, func(i, j int) bool {
		ti := all[i].Record.AsMessageRecord().Timestamp
		tj := all[j].Record.AsMessageRecord().Timestamp
		if ti != tj {
			return ti > tj
		}
		return all[i].SessionID < all[j].SessionID
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

// PrintRecent renders the recency feed as single-line hits.
func PrintRecent(w io.Writer, entries []RecentEntry) {
	for _, e := range entries {
		display.PrintSearchHit(w, e.Project, e.SessionID, e.Record, e.LineNum, "")
	}
}
