package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wolfej94/NotesStorage/pkg/core"
)

var (
	createTitle string
	createBody  string
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a note",
	Long:  `Create persists a new note and prints its generated identifier.`,
	Run: func(cmd *cobra.Command, args []string) {
		service, err := openService()
		if err != nil {
			fatal("Failed to open store", err)
		}
		defer service.Close()

		note := core.Note{
			ID:    uuid.New(),
			Title: createTitle,
			Body:  createBody,
		}
		if err := service.Create(context.Background(), note); err != nil {
			fatal("Failed to create note", err)
		}

		fmt.Println(note.ID)
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVar(&createTitle, "title", "", "Note title")
	createCmd.Flags().StringVar(&createBody, "body", "", "Note body")
}
