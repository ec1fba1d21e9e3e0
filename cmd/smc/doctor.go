package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/smc/internal/scan"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify the projects root and show scan counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			fmt.Println("=== Roots ===")
			checkDir("Projects", cfg.ProjectsRoot)
			fmt.Printf("  Path marker: %s\n", cfg.PathMarker)
			fmt.Printf("  State dir:   %s\n", cfg.StateDir)

			fmt.Println("\n=== File Scan ===")
			files, err := scan.Discover(cfg.ProjectsRoot, cfg.PathMarker)
			if err != nil {
				fmt.Printf("  scan error: %v\n", err)
				return nil
			}

			projects := map[string]struct{}{}
			var totalBytes int64
			for _, f := range files {
				projects[f.ProjectName] = struct{}{}
				totalBytes += f.SizeBytes
			}
			fmt.Printf("  JSONL files: %d\n", len(files))
			fmt.Printf("  Projects:    %d\n", len(projects))
			fmt.Printf("  Total size:  %s\n", scan.FormatBytes(totalBytes))

			if len(files) == 0 {
				fmt.Println("\n  No session files found. Check --path or projects_root in the config.")
			}
			return nil
		},
	}
}

func checkDir(name, path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s: %s (NOT FOUND)\n", name, path)
	} else if !info.IsDir() {
		fmt.Printf("  %s: %s (NOT A DIRECTORY)\n", name, path)
	} else {
		fmt.Printf("  %s: %s (OK)\n", name, path)
	}
}
