// ABOUTME: Show command for displaying a single note.
// ABOUTME: Renders markdown content with glamour under a tagged header.

package main

import (
	"fmt"

	"github.com/harper/memotag/internal/ui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id-prefix>",
	Short: "Show a note",
	Long:  `Display a note's full content with rendered markdown.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		note, err := nb.Resolve(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get note: %w", err)
		}

		tags, err := nb.Tags(ctx, note)
		if err != nil {
			return fmt.Errorf("failed to get tags: %w", err)
		}

		fmt.Print(ui.FormatNoteHeader(note, tags))

		content, _ := ui.FormatNoteContent(note.Content)
		fmt.Print(content)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
