// ABOUTME: Edit command for modifying existing notes and their tags.
// ABOUTME: Opens content in $EDITOR unless fields are given as flags.

package main

import (
	"fmt"

	"github.com/harper/memotag/internal/ui"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <id-prefix>",
	Short: "Edit a note",
	Long: `Edit a note's title, content, or tags.

Without --title or --content the note is opened in $EDITOR. Tags are only
touched when --tags is given; --tags "" removes them all.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		note, err := nb.Resolve(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get note: %w", err)
		}

		titleChanged := cmd.Flags().Changed("title")
		contentChanged := cmd.Flags().Changed("content")
		in := tagsInput(cmd)

		switch {
		case titleChanged || contentChanged:
			if titleChanged {
				note.Title, _ = cmd.Flags().GetString("title")
			}
			if contentChanged {
				note.Content, _ = cmd.Flags().GetString("content")
			}
		case in == nil:
			newContent, err := openEditor(note.Content)
			if err != nil {
				return fmt.Errorf("failed to open editor: %w", err)
			}
			if newContent == note.Content {
				fmt.Println("No changes made.")
				return nil
			}
			note.Content = newContent
		}

		out, err := nb.Update(ctx, note, in)
		if err != nil {
			return err
		}

		fmt.Println(ui.Success(fmt.Sprintf("Updated note %s", note.ShortID())))
		printOutcome(out)
		return nil
	},
}

func init() {
	editCmd.Flags().String("title", "", "new title")
	editCmd.Flags().String("content", "", "new content (inline)")
	editCmd.Flags().String("tags", "", "replace tags; empty removes all")
	rootCmd.AddCommand(editCmd)
}
