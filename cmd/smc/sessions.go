package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/smc/internal/session"
)

func sessionsCmd() *cobra.Command {
	var (
		limit   int
		project string
		after   string
		before  string
	)

	cmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"ls"},
		Short:   "List all sessions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, files, err := discoverFiles()
			if err != nil {
				return err
			}

			if project != "" {
				needle := strings.ToLower(project)
				kept := files[:0]
				for _, f := range files {
					if strings.Contains(strings.ToLower(f.ProjectName), needle) {
						kept = append(kept, f)
					}
				}
				files = kept
			}

			entries := session.List(files, after, before)
			session.PrintList(os.Stdout, entries, limit)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum sessions to show")
	cmd.Flags().StringVarP(&project, "project", "p", "", "Filter by project name")
	cmd.Flags().StringVar(&after, "after", "", "Only sessions after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&before, "before", "", "Only sessions before this date (YYYY-MM-DD)")

	return cmd
}
