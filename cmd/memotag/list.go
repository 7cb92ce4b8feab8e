// ABOUTME: List command for displaying notes.
// ABOUTME: Supports filtering by tag and limiting the result count.

package main

import (
	"fmt"

	"github.com/harper/memotag/internal/ui"
	"github.com/spf13/cobra"
)

const defaultListLimit = 20

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes",
	Long:  `List notes, most recently updated first, optionally filtered by tag.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		tagFlag, _ := cmd.Flags().GetString("tag")
		limitFlag, _ := cmd.Flags().GetInt("limit")

		notes, err := nb.List(ctx, tagFlag, limitFlag)
		if err != nil {
			return fmt.Errorf("failed to list notes: %w", err)
		}

		if len(notes) == 0 {
			fmt.Println("No notes found.")
			return nil
		}

		for _, note := range notes {
			tags, err := nb.Tags(ctx, note)
			if err != nil {
				return fmt.Errorf("failed to get tags: %w", err)
			}
			fmt.Print(ui.FormatNoteListItem(note, tags))
		}
		return nil
	},
}

func init() {
	listCmd.Flags().String("tag", "", "only notes with this tag")
	listCmd.Flags().IntP("limit", "n", defaultListLimit, "maximum number of notes")
	rootCmd.AddCommand(listCmd)
}
