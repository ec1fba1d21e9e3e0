package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/smc/internal/relay"
)

func relayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Inter-Claude relay for real-time communication",
	}

	newRelay := func() (*relay.Relay, error) {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		return &relay.Relay{StateDir: cfg.StateDir, ProjectsRoot: cfg.ProjectsRoot}, nil
	}

	var pane string
	registerCmd := &cobra.Command{
		Use:   "register <name>",
		Short: "Register a Claude instance to a tmux pane",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRelay()
			if err != nil {
				return err
			}
			return r.Register(os.Stdout, args[0], pane)
		},
	}
	registerCmd.Flags().StringVarP(&pane, "pane", "p", "", "tmux pane target (e.g. %0, session:window.pane)")

	unregisterCmd := &cobra.Command{
		Use:   "unregister <name>",
		Short: "Unregister a Claude instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRelay()
			if err != nil {
				return err
			}
			return r.Unregister(os.Stdout, args[0])
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show registered instances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRelay()
			if err != nil {
				return err
			}
			return r.Status(os.Stdout)
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Check for new messages and relay (called by Stop hook)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRelay()
			if err != nil {
				return err
			}
			return r.Check(os.Stdout)
		},
	}

	sendCmd := &cobra.Command{
		Use:   "send <to> <message>",
		Short: "Send a message to another Claude instance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRelay()
			if err != nil {
				return err
			}
			return r.Send(os.Stdout, args[0], args[1])
		},
	}

	cmd.AddCommand(registerCmd, unregisterCmd, statusCmd, checkCmd, sendCmd)
	return cmd
}
