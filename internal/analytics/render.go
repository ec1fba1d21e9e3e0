package analytics

import (
	"fmt"
	"io"
	"strings"

	"github.com/Zuo-Peng/smc/internal/display"
	"github.com/Zuo-Peng/smc/internal/scan"
)

// PrintCharTable renders the 26-letter table as a fixed-width bar chart
// scaled to the largest bucket.
func PrintCharTable(w io.Writer, counts CharCounts, label string, files []scan.SessionFile) {
	maxCount := counts.Max()
	grandTotal := counts.Total()

	fmt.Fprintln(w, display.StyleTitle.Render(
		fmt.Sprintf("Character Frequency (a-z, case-insensitive, %s)", label)))
	fmt.Fprintln(w, strings.Repeat("═", 60))

	for i, count := range counts {
		letter := string(rune('a' + i))
		bar := strings.Repeat("█", int(float64(count)/float64(maxCount)*40))
		pct := 0.0
		if grandTotal > 0 {
			pct = float64(count) / float64(grandTotal) * 100
		}
		fmt.Fprintf(w, "  %s  %12s  (%5.2f%%)  %s\n",
			display.StyleBold.Render(letter),
			scan.FormatCount(count),
			pct,
			display.StyleAccent.Render(bar))
	}

	var totalBytes int64
	for _, f := range files {
		totalBytes += f.SizeBytes
	}
	fmt.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintf(w, "  Total: %s  across %d files (%s)\n",
		display.StyleBold.Render(scan.FormatCount(grandTotal)),
		len(files),
		scan.FormatBytes(totalBytes))
}

// PrintBucketTable renders a sorted frequency table with proportional bars.
// A limit of 0 shows every bucket; showPct adds a percentage column.
func PrintBucketTable(w io.Writer, title string, buckets []Bucket, limit, barWidth int, showPct bool, footer string) {
	maxCount := uint64(1)
	var grandTotal uint64
	for _, b := range buckets {
		if b.Count > maxCount {
			maxCount = b.Count
		}
		grandTotal += b.Count
	}

	fmt.Fprintln(w, display.StyleTitle.Render(title))
	fmt.Fprintln(w, strings.Repeat("═", 60))

	shown := buckets
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for _, b := range shown {
		bar := strings.Repeat("█", int(float64(b.Count)/float64(maxCount)*float64(barWidth)))
		if showPct {
			pct := float64(b.Count) / float64(grandTotal) * 100
			fmt.Fprintf(w, "  %-20s %10s  (%5.1f%%)  %s\n",
				display.StyleBold.Render(b.Key), scan.FormatCount(b.Count), pct,
				display.StyleAccent.Render(bar))
		} else {
			fmt.Fprintf(w, "  %-20s %12s  %s\n",
				display.StyleBold.Render(b.Key), scan.FormatCount(b.Count),
				display.StyleAccent.Render(bar))
		}
	}

	fmt.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(footer, scan.FormatCount(grandTotal)))
}

// PrintStats renders the whole-corpus roll-up with the top projects by size.
func PrintStats(w io.Writer, stats CorpusStats) {
	fmt.Fprintln(w, display.StyleTitle.Render("smc Stats"))
	fmt.Fprintln(w, strings.Repeat("═", 50))
	fmt.Fprintf(w, "  Total sessions:  %s\n", display.StyleBold.Render(fmt.Sprint(stats.TotalSessions)))
	fmt.Fprintf(w, "  Total size:      %s\n", display.StyleBold.Render(scan.FormatBytes(stats.TotalBytes)))
	fmt.Fprintf(w, "  Projects:        %s\n", display.StyleBold.Render(fmt.Sprint(len(stats.Projects))))
	fmt.Fprintln(w)

	fmt.Fprintln(w, display.StyleBold.Render("Top Projects by Size"))
	fmt.Fprintln(w, strings.Repeat("─", 50))

	shown := stats.Projects
	if len(shown) > 15 {
		shown = shown[:15]
	}
	for _, p := range shown {
		fmt.Fprintf(w, "  %-30s %4d sessions  %8s\n",
			display.StyleAccent.Render(p.Name), p.Sessions, scan.FormatBytes(p.SizeBytes))
	}
	if len(stats.Projects) > 15 {
		fmt.Fprintf(w, "  ... and %d more projects\n", len(stats.Projects)-15)
	}
}

// PrintProjects renders every project with session counts, sizes, and date
// ranges, newest activity first.
func PrintProjects(w io.Writer, projects []ProjectStat) {
	fmt.Fprintf(w, "%s projects\n\n", display.StyleBold.Render(fmt.Sprint(len(projects))))

	for _, p := range projects {
		var dateRange string
		switch {
		case p.Earliest == "" && p.Latest == "":
			dateRange = "unknown"
		case p.Earliest == p.Latest:
			dateRange = p.Earliest
		default:
			dateRange = p.Earliest + " → " + p.Latest
		}
		fmt.Fprintf(w, "  %-30s %4d sessions  %8s  %s\n",
			display.StyleAccent.Render(p.Name),
			p.Sessions,
			scan.FormatBytes(p.SizeBytes),
			display.StyleDim.Render(dateRange))
	}
}
