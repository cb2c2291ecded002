package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wolfej94/NotesStorage/pkg/core"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]...",
	Short: "Delete notes",
	Long: `Delete permanently removes the notes with the given ids. Ids that do
not match a stored note are skipped.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		notes := make([]core.Note, 0, len(args))
		for _, arg := range args {
			id, err := uuid.Parse(arg)
			if err != nil {
				fatal("Invalid note id", err)
			}
			notes = append(notes, core.Note{ID: id})
		}

		service, err := openService()
		if err != nil {
			fatal("Failed to open store", err)
		}
		defer service.Close()

		if err := service.Delete(context.Background(), notes); err != nil {
			fatal("Failed to delete notes", err)
		}

		fmt.Printf("Deleted %d note(s)\n", len(notes))
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
