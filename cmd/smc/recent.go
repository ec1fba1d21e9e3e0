package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/smc/internal/session"
)

func recentCmd() *cobra.Command {
	var (
		limit int
		role  string
	)

	cmd := &cobra.Command{
		Use:     "recent",
		Aliases: []string{"r"},
		Short:   "Show most recent messages across all sessions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, files, err := discoverFiles()
			if err != nil {
				return err
			}
			session.PrintRecent(os.Stdout, session.Recent(files, limit, role))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of recent messages to show")
	cmd.Flags().StringVar(&role, "role", "", "Filter by role")

	return cmd
}
