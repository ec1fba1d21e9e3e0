package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/smc/internal/config"
	"github.com/Zuo-Peng/smc/internal/scan"
)

var version = "dev"

// pathFlag overrides the configured projects root for every command.
var pathFlag string

func main() {
	rootCmd := &cobra.Command{
		Use:     "smc",
		Short:   "smc - Surgical search through Claude Code conversation logs",
		Version: version,
	}
	rootCmd.PersistentFlags().StringVar(&pathFlag, "path", "", "Path to Claude projects directory (default: ~/.claude/projects)")

	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(sessionsCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(toolsCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(contextCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(projectsCmd())
	rootCmd.AddCommand(freqCmd())
	rootCmd.AddCommand(recentCmd())
	rootCmd.AddCommand(relayCmd())
	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(doctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig applies the global --path override on top of the config file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if pathFlag != "" {
		cfg.ProjectsRoot = pathFlag
	}
	return cfg, nil
}

// discoverFiles loads config and enumerates every session file.
func discoverFiles() (*config.Config, []scan.SessionFile, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	files, err := scan.Discover(cfg.ProjectsRoot, cfg.PathMarker)
	if err != nil {
		return nil, nil, err
	}
	return cfg, files, nil
}

// resolveSession turns an ID or unique prefix into a session file,
// listing the candidates on stderr when the prefix is ambiguous.
func resolveSession(files []scan.SessionFile, query string) (scan.SessionFile, error) {
	lookup := scan.FindSession(files, query)
	if lookup.Found() {
		return *lookup.File, nil
	}
	if lookup.Ambiguous() {
		fmt.Fprintf(os.Stderr, "Ambiguous session ID '%s', %d matches:\n", query, len(lookup.Candidates))
		for _, c := range lookup.Candidates {
			fmt.Fprintf(os.Stderr, "  %s (%s)\n", c.SessionID, c.ProjectName)
		}
		return scan.SessionFile{}, fmt.Errorf("please provide a more specific session ID")
	}
	return scan.SessionFile{}, fmt.Errorf("no session found matching '%s'", query)
}
