package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/smc/internal/open"
)

func openCmd() *cobra.Command {
	var line int

	cmd := &cobra.Command{
		Use:   "open <session> [line]",
		Short: "Open a session file in $EDITOR",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid line number '%s'", args[1])
				}
				line = n
			}

			_, files, err := discoverFiles()
			if err != nil {
				return err
			}
			file, err := resolveSession(files, args[0])
			if err != nil {
				return err
			}
			return open.Session(file, line)
		},
	}

	cmd.Flags().IntVar(&line, "line", 1, "Line number to open at")

	return cmd
}
