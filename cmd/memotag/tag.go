// ABOUTME: Tag command for managing note tags.
// ABOUTME: Provides set, add, rm, show, and list subcommands.

package main

import (
	"fmt"
	"slices"

	"github.com/harper/memotag/internal/tagger"
	"github.com/harper/memotag/internal/ui"
	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags",
	Long:  `Set, add, remove, or list tags on notes.`,
}

var tagSetCmd = &cobra.Command{
	Use:   "set <id-prefix> [tags...]",
	Short: "Replace a note's tags",
	Long: `Replace a note's tags. A single argument is split on the configured
delimiter; several arguments are taken as one tag each. With no tags the
note's tags are all removed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		note, err := nb.Resolve(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get note: %w", err)
		}

		var in tagger.Input
		switch names := args[1:]; len(names) {
		case 0:
			in = tagger.ListInput{}
		case 1:
			in = tagger.StringInput(names[0])
		default:
			in = tagger.ListInput(names)
		}

		out, err := nb.SetTags(ctx, note, in)
		if err != nil {
			return err
		}
		if !out.Changed() && len(out.Skipped) == 0 && len(out.Issues) == 0 {
			fmt.Println("No changes made.")
			return nil
		}
		printOutcome(out)
		return nil
	},
}

var tagAddCmd = &cobra.Command{
	Use:   "add <id-prefix> <tag>",
	Short: "Add a tag to a note",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		note, err := nb.Resolve(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get note: %w", err)
		}
		current, err := nb.Tags(ctx, note)
		if err != nil {
			return fmt.Errorf("failed to get tags: %w", err)
		}

		out, err := nb.SetTags(ctx, note, tagger.ListInput(append(current, args[1])))
		if err != nil {
			return err
		}
		if len(out.Linked) == 0 && len(out.Skipped) == 0 && len(out.Issues) == 0 {
			fmt.Println(ui.Warning(fmt.Sprintf("Note %s already has tag %q", note.ShortID(), args[1])))
			return nil
		}
		printOutcome(out)
		return nil
	},
}

var tagRmCmd = &cobra.Command{
	Use:   "rm <id-prefix> <tag>",
	Short: "Remove a tag from a note",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		note, err := nb.Resolve(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get note: %w", err)
		}
		current, err := nb.Tags(ctx, note)
		if err != nil {
			return fmt.Errorf("failed to get tags: %w", err)
		}

		kept := slices.DeleteFunc(slices.Clone(current), func(name string) bool { return name == args[1] })
		if len(kept) == len(current) {
			fmt.Println(ui.Warning(fmt.Sprintf("Note %s has no tag %q", note.ShortID(), args[1])))
			return nil
		}

		out, err := nb.SetTags(ctx, note, tagger.ListInput(kept))
		if err != nil {
			return err
		}
		printOutcome(out)
		return nil
	},
}

var tagShowCmd = &cobra.Command{
	Use:   "show <id-prefix>",
	Short: "Print a note's tags as one delimited string",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		note, err := nb.Resolve(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get note: %w", err)
		}
		tagString, err := nb.TagString(ctx, note)
		if err != nil {
			return fmt.Errorf("failed to get tags: %w", err)
		}
		fmt.Println(tagString)
		return nil
	},
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tags in use",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := nb.CountedTags(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list tags: %w", err)
		}

		if len(report) == 0 {
			fmt.Println("No tags found.")
			return nil
		}

		fmt.Print(ui.FormatTagList(report))
		return nil
	},
}

func init() {
	tagCmd.AddCommand(tagSetCmd)
	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagRmCmd)
	tagCmd.AddCommand(tagShowCmd)
	tagCmd.AddCommand(tagListCmd)
	rootCmd.AddCommand(tagCmd)
}
