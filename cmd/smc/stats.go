package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/smc/internal/analytics"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, files, err := discoverFiles()
			if err != nil {
				return err
			}
			analytics.PrintStats(os.Stdout, analytics.Stats(files))
			return nil
		},
	}
}

func projectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "projects",
		Aliases: []string{"p"},
		Short:   "List projects with aggregate stats",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, files, err := discoverFiles()
			if err != nil {
				return err
			}
			analytics.PrintProjects(os.Stdout, analytics.Projects(files))
			return nil
		},
	}
}

func freqCmd() *cobra.Command {
	var (
		limit int
		raw   bool
	)

	cmd := &cobra.Command{
		Use:     "freq [mode]",
		Aliases: []string{"f"},
		Short:   "Frequency analysis across all conversations",
		Long:    `Count character, word, tool, or role frequency across every conversation. Modes: chars (default), words, tools, roles.`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := "chars"
			if len(args) > 0 {
				mode = args[0]
			}

			_, files, err := discoverFiles()
			if err != nil {
				return err
			}

			switch mode {
			case "chars", "c":
				if raw {
					analytics.PrintCharTable(os.Stdout, analytics.FreqCharsRaw(files), "raw bytes", files)
				} else {
					analytics.PrintCharTable(os.Stdout, analytics.FreqChars(files), "message text", files)
				}
			case "words", "w":
				analytics.PrintBucketTable(os.Stdout, "Word Frequency (top words, 3+ chars)",
					analytics.FreqWords(files), limit, 30, false, "%s total occurrences")
			case "tools", "t":
				analytics.PrintBucketTable(os.Stdout, "Tool Usage Frequency",
					analytics.FreqTools(files), limit, 30, true, "%s total tool calls")
			case "roles", "r":
				analytics.PrintBucketTable(os.Stdout, "Message Role Frequency",
					analytics.FreqRoles(files), 0, 40, true, "%s total messages")
			default:
				return fmt.Errorf("unknown freq mode '%s', use: chars, words, tools, roles", mode)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 30, "Max items to show (for words/tools mode)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Count raw file bytes instead of parsed message text")

	return cmd
}
