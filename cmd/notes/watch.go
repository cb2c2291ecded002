package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wolfej94/NotesStorage/pkg/core"
)

var watchExternal bool

var watchCmd = &cobra.Command{
	Use:   "watch [pattern]",
	Short: "Watch for note changes",
	Long: `Watch prints a line for every note change until interrupted.

By default it observes the database file for changes made by other
processes. With --external=false it subscribes to this process's own change
stream instead; the optional pattern argument then glob-filters events by
note title.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pattern := "*"
		if len(args) == 1 {
			pattern = args[0]
		}

		service, err := openService()
		if err != nil {
			fatal("Failed to open store", err)
		}
		defer service.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var events <-chan core.Event
		if watchExternal {
			events, err = service.WatchExternal(ctx)
		} else {
			events, err = service.Watch(ctx, pattern)
		}
		if err != nil {
			fatal("Failed to watch", err)
		}

		for e := range events {
			fmt.Printf("%s  %s  %s\n", e.Type, e.Note.ID, e.Note.Title)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchExternal, "external", true, "Observe the database file for out-of-process changes")
	watchCmd.Flags().Lookup("external").NoOptDefVal = "true"
}
