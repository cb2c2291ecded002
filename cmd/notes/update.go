package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wolfej94/NotesStorage/pkg/core"
)

var (
	updateTitle string
	updateBody  string
)

var updateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update a note",
	Long: `Update replaces the stored note's fields. Fields not passed as flags
keep their current values.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := uuid.Parse(args[0])
		if err != nil {
			fatal("Invalid note id", err)
		}

		service, err := openService()
		if err != nil {
			fatal("Failed to open store", err)
		}
		defer service.Close()

		ctx := context.Background()

		// An update replaces every field, so load the current values first
		// and overlay only the flags that were set.
		notes, err := service.Read(ctx)
		if err != nil {
			fatal("Failed to read notes", err)
		}
		var note core.Note
		found := false
		for _, n := range notes {
			if n.ID == id {
				note = n
				found = true
				break
			}
		}
		if !found {
			fatal("Note not found", fmt.Errorf("%s", id))
		}

		if cmd.Flags().Changed("title") {
			note.Title = updateTitle
		}
		if cmd.Flags().Changed("body") {
			note.Body = updateBody
		}

		if err := service.Update(ctx, note); err != nil {
			fatal("Failed to update note", err)
		}

		fmt.Printf("Note updated: %s\n", id)
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringVar(&updateTitle, "title", "", "New title")
	updateCmd.Flags().StringVar(&updateBody, "body", "", "New body")
}
