package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/five82/ideas/internal/app"
	"github.com/five82/ideas/internal/config"
	"github.com/five82/ideas/internal/logtail"
)

type rootFlags struct {
	configPath string
	prefsPath  string
	verbose    bool
}

func newRootCommand(version, commit, date string) *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "ideas [view-url]",
		Short: "Browse the ideas listing in the terminal",
		Long: `ideas shows a paginated listing of ideas under a banner.

The view (page, page size and sort order) is restored from the last session.
Pass a view URL such as https://ideas.example.com/ideas?page=3&size=50 to open
a shared view instead. The view URL in effect is printed on exit.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.Options{
				ConfigPath: flags.configPath,
				PrefsPath:  flags.prefsPath,
				Verbose:    flags.verbose,
				Version:    version,
			}
			if len(args) == 1 {
				opts.ViewURL = args[0]
			}
			viewURL, err := app.Run(cmd.Context(), opts)
			if viewURL != "" {
				fmt.Fprintln(cmd.OutOrStdout(), viewURL)
			}
			return err
		},
	}

	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file path (default ~/.config/ideas/config.toml)")
	root.PersistentFlags().StringVar(&flags.prefsPath, "prefs", "", "preferences file path (default ~/.config/ideas/prefs.toml)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(newLogsCommand(flags))
	root.AddCommand(newVersionCommand(version, commit, date))
	return root
}

func newLogsCommand(flags *rootFlags) *cobra.Command {
	var (
		lines int
		raw   bool
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent log entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			entries, err := logtail.Read(cfg.LogFile, lines)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "no log entries in %s\n", cfg.LogFile)
				return nil
			}
			for _, line := range entries {
				if !raw {
					line = logtail.Format(line)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of lines to show (0 for all)")
	cmd.Flags().BoolVar(&raw, "raw", false, "print log lines as written")
	return cmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if version == "dev" || version == "" {
				version = "development"
			}
			if commit == "none" || commit == "" {
				commit = "local-build"
			}
			if date == "unknown" || date == "" {
				date = "local-build"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ideas %s (%s) built on %s\n", version, commit, date)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
