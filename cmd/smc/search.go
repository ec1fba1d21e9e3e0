package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/smc/internal/display"
	"github.com/Zuo-Peng/smc/internal/search"
	"github.com/Zuo-Peng/smc/internal/tui"
)

func searchCmd() *cobra.Command {
	var (
		regex          bool
		andMode        bool
		role           string
		tool           string
		project        string
		after          string
		before         string
		branch         string
		maxResults     int
		stdoutMd       bool
		mdFile         string
		countMode      bool
		summaryMode    bool
		jsonMode       bool
		includeSelf    bool
		excludeSession string
		tuiMode        bool
	)

	cmd := &cobra.Command{
		Use:     "search <query>...",
		Aliases: []string{"s"},
		Short:   "Search across all conversations",
		Long:    `Search every conversation file in parallel. Multiple terms are OR'd together unless --and is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, files, err := discoverFiles()
			if err != nil {
				return err
			}

			opts := search.Options{
				Queries:        args,
				Regex:          regex,
				AndMode:        andMode,
				Role:           role,
				Tool:           tool,
				Project:        project,
				After:          after,
				Before:         before,
				Branch:         branch,
				MaxResults:     maxResults,
				IncludeSelf:    includeSelf,
				ExcludeSession: excludeSession,
			}

			if tuiMode {
				if !term.IsTerminal(int(os.Stdout.Fd())) {
					return fmt.Errorf("--tui requires a terminal")
				}
				return tui.Run(files, strings.Join(args, " "), opts)
			}

			// Empty query is allowed only when a structural filter narrows
			// the scan; the engine rejects a fully unconstrained run.
			if len(args) == 0 && role == "" && tool == "" && project == "" && branch == "" {
				return fmt.Errorf("provide a query or at least one filter")
			}
			if len(args) == 0 {
				opts.Queries = []string{""}
			}

			hits, err := search.Run(files, opts)
			if err != nil {
				return err
			}

			switch {
			case countMode:
				printCounts(hits)
			case summaryMode:
				printSummary(search.Summarize(hits, args))
			default:
				return renderHits(os.Stdout, hits, opts, jsonMode, stdoutMd, mdFile)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&regex, "regex", "e", false, "Treat query as regex")
	cmd.Flags().BoolVar(&andMode, "and", false, "Require all terms to match (default: any)")
	cmd.Flags().StringVar(&role, "role", "", "Filter by role (user, assistant, system)")
	cmd.Flags().StringVar(&tool, "tool", "", "Filter by tool name")
	cmd.Flags().StringVarP(&project, "project", "p", "", "Filter by project name (substring match)")
	cmd.Flags().StringVar(&after, "after", "", "Only results after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&before, "before", "", "Only results before this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&branch, "branch", "", "Filter by git branch")
	cmd.Flags().IntVarP(&maxResults, "max", "n", 50, "Maximum number of results (0 = unlimited)")
	cmd.Flags().BoolVarP(&stdoutMd, "output", "o", false, "Print markdown to stdout (pipeable)")
	cmd.Flags().StringVar(&mdFile, "md", "", "Save results to a markdown file")
	cmd.Flags().BoolVarP(&countMode, "count", "c", false, "Show match counts per project instead of results")
	cmd.Flags().BoolVar(&summaryMode, "summary", false, "Show a cross-cutting summary instead of results")
	cmd.Flags().BoolVar(&jsonMode, "json", false, "Output results as JSON (one per line)")
	cmd.Flags().BoolVar(&includeSelf, "include-self", false, "Include smc's own output in results")
	cmd.Flags().StringVar(&excludeSession, "exclude-session", "", "Exclude sessions whose ID starts with this prefix")
	cmd.Flags().BoolVar(&tuiMode, "tui", false, "Interactive search with live preview")

	return cmd
}

// renderHits emits enumeration output once per active channel: JSON lines
// or console hits to w, plus a markdown document whenever --output or --md
// is set. Only console and stdout-markdown are mutually exclusive (they
// share the stream); every other combination runs simultaneously.
func renderHits(w io.Writer, hits []search.Hit, opts search.Options, jsonMode, stdoutMd bool, mdFile string) error {
	needsMd := stdoutMd || mdFile != ""
	var sections []string

	for _, h := range hits {
		if jsonMode {
			line, err := h.MarshalJSONLine()
			if err != nil {
				return err
			}
			if _, err := w.Write(append(line, '\n')); err != nil {
				return err
			}
		} else if !stdoutMd {
			display.PrintSearchHit(w, h.Project, h.SessionID, h.Record, h.LineNum, h.MatchedQuery)
		}

		if needsMd {
			if s := search.FormatHitMarkdown(h); s != "" {
				sections = append(sections, s)
			}
		}
	}

	if !jsonMode && !stdoutMd {
		if len(hits) == 0 {
			fmt.Fprintf(w, "No results found for '%s'\n", opts.QueryDisplay())
		} else {
			fmt.Fprintf(w, "\n%d results found\n", len(hits))
		}
	}

	if stdoutMd {
		if err := search.WriteMarkdown(w, opts, sections, len(hits)); err != nil {
			return err
		}
	}
	if mdFile != "" {
		f, err := os.Create(mdFile)
		if err != nil {
			return fmt.Errorf("create markdown file: %w", err)
		}
		defer f.Close()
		if err := search.WriteMarkdown(f, opts, sections, len(hits)); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved to %s\n", mdFile)
	}
	return nil
}

func printCounts(hits []search.Hit) {
	counts, total := search.CountByProject(hits)
	for _, kc := range counts {
		fmt.Printf("  %-40s %6d\n", kc.Key, kc.Count)
	}
	fmt.Printf("\n  %-40s %6d\n", "TOTAL", total)
}

func printSummary(s search.Summary) {
	fmt.Printf("Total results: %d across %d sessions\n", s.Total, s.Sessions)
	if s.Earliest != "" {
		fmt.Printf("Date range:    %s → %s\n", s.Earliest, s.Latest)
	}

	fmt.Println("\nBy project:")
	for _, kc := range s.Projects {
		fmt.Printf("  %-40s %6d\n", kc.Key, kc.Count)
	}

	fmt.Println("\nBy role:")
	for _, kc := range s.Roles {
		fmt.Printf("  %-40s %6d\n", kc.Key, kc.Count)
	}

	if len(s.Topics) > 0 {
		fmt.Printf("\nTopics: %s\n", strings.Join(s.Topics, ", "))
	}
}

