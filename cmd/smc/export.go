package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/smc/internal/session"
)

func exportCmd() *cobra.Command {
	var (
		stdout bool
		mdFile string
	)

	cmd := &cobra.Command{
		Use:     "export <session>",
		Aliases: []string{"e"},
		Short:   "Export a session as markdown",
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

			if stdout {
				return session.Export(os.Stdout, file)
			}
			path, err := session.ExportToFile(file, mdFile)
			if err != nil {
				return err
			}
			fmt.Printf("Exported to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&stdout, "output", "o", false, "Print to stdout instead of file")
	cmd.Flags().StringVar(&mdFile, "md", "", "Output file path (default: <session-id>.md)")

	return cmd
}

func contextCmd() *cobra.Command {
	var contextN int

	cmd := &cobra.Command{
		Use:     "context <session> <line>",
		Aliases: []string{"ctx"},
		Short:   "Show messages around a specific line in a session",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := strconv.Atoi(args[1])
			if err != nil || line < 1 {
				return fmt.Errorf("invalid line number '%s'", args[1])
			}

			_, files, err := discoverFiles()
			if err != nil {
				return err
			}
			file, err := resolveSession(files, args[0])
			if err != nil {
				return err
			}
			return session.Context(os.Stdout, file, line, contextN)
		},
	}

	cmd.Flags().IntVarP(&contextN, "context", "C", 3, "Number of messages to show before and after")

	return cmd
}
