package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/wolfej94/NotesStorage"
)

var (
	verbose    bool
	dbPath     string
	adapter    string
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notes",
	Short: "A local note store with change notifications",
	Long: `Notes persists notes in an embedded record store and broadcasts a
change event for every successful write.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)

		if configPath != "" {
			cfg, err := loadConfig(configPath)
			if err != nil {
				fatal("Failed to load config", err)
			}
			flags := cmd.Root().PersistentFlags()
			if cfg.Path != "" && !flags.Changed("db") {
				dbPath = cfg.Path
			}
			if cfg.Adapter != "" && !flags.Changed("adapter") {
				adapter = cfg.Adapter
			}
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "notes.db", "Path to the database file")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "sqlite", "Storage adapter (sqlite, memory)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
}

func openService() (*notesstorage.Service, error) {
	return notesstorage.New(dbPath,
		notesstorage.WithAdapter(adapter),
		notesstorage.WithLogger(slog.Default()),
	)
}
