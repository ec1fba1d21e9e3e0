package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/smc/internal/session"
)

func showCmd() *cobra.Command {
	var (
		thinking bool
		from     int
		to       int
	)

	cmd := &cobra.Command{
		Use:   "show <session>",
		Short: "Show a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, files, err := discoverFiles()
			if err != nil {
				return err
			}
			file, err := resolveSession(files, args[0])
			if err != nil {
				return err
			}
			return session.Show(os.Stdout, file, session.ShowOptions{
				Thinking: thinking,
				From:     from,
				To:       to,
			})
		},
	}

	cmd.Flags().BoolVar(&thinking, "thinking", false, "Show thinking blocks")
	cmd.Flags().IntVar(&from, "from", 0, "Start from this message number")
	cmd.Flags().IntVar(&to, "to", -1, "End at this message number (-1 = end)")

	return cmd
}

func toolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "tools <session>",
		Aliases: []string{"t"},
		Short:   "Show tool calls in a session",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, files, err := discoverFiles()
			if err != nil {
				return err
			}
			file, err := resolveSession(files, args[0])
			if err != nil {
				return err
			}
			return session.Tools(os.Stdout, file)
		},
	}
}
