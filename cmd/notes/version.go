package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wolfej94/NotesStorage"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(notesstorage.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
