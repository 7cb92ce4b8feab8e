// ABOUTME: Remove command for deleting notes.
// ABOUTME: Clears the note's tag links and asks for confirmation first.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/harper/memotag/internal/ui"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <id-prefix>",
	Short: "Remove a note",
	Long:  `Delete a note and its tag links. The tags themselves are kept.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		force, _ := cmd.Flags().GetBool("force")

		note, err := nb.Resolve(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get note: %w", err)
		}

		if !force {
			fmt.Printf("Delete note %q (%s)? [y/N] ", note.Title, note.ShortID())
			reader := bufio.NewReader(os.Stdin)
			response, _ := reader.ReadString('\n')
			response = strings.TrimSpace(strings.ToLower(response))
			if response != "y" && response != "yes" {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		if err := nb.Delete(ctx, note); err != nil {
			return err
		}

		fmt.Println(ui.Success(fmt.Sprintf("Deleted note %s", note.ShortID())))
		return nil
	},
}

func init() {
	rmCmd.Flags().BoolP("force", "f", false, "skip confirmation")
	rootCmd.AddCommand(rmCmd)
}
