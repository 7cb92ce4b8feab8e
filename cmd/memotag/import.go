// ABOUTME: Import command for restoring notes from backup.
// ABOUTME: Reads JSON exports or markdown files with YAML front matter.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/harper/memotag/internal/frontmatter"
	"github.com/harper/memotag/internal/models"
	"github.com/harper/memotag/internal/tagger"
	"github.com/harper/memotag/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import notes",
	Long: `Import notes from a JSON export, a markdown file, or a directory of
markdown files. Tags are read from the front matter field named by
tag_input_attribute and may be a delimited string or a list.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := args[0]

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to stat path: %w", err)
		}

		if info.IsDir() {
			return importMarkdownDir(ctx, path)
		}

		if strings.HasSuffix(path, ".json") {
			return importJSON(ctx, path)
		}

		if err := importMarkdownFile(ctx, path); err != nil {
			return err
		}
		fmt.Println(ui.Success("Imported 1 note"))
		return nil
	},
}

func importJSON(ctx context.Context, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // User-specified file path is expected CLI behavior
	if err != nil {
		return err
	}

	var export ExportData
	if err := json.Unmarshal(data, &export); err != nil {
		return err
	}

	count := 0
	for _, en := range export.Notes {
		note := models.NewNote(en.Title, en.Content)
		// Try to preserve original ID if valid
		if id, err := uuid.Parse(en.ID); err == nil {
			note.ID = id
		}
		note.CreatedAt = en.CreatedAt
		note.UpdatedAt = en.UpdatedAt

		out, err := nb.Create(ctx, note, tagger.ListInput(en.Tags))
		if err != nil {
			fmt.Println(ui.Warning(fmt.Sprintf("failed to import %q: %v", en.Title, err)))
			continue
		}
		warnIssues(note, out)
		count++
	}

	fmt.Println(ui.Success(fmt.Sprintf("Imported %d notes", count)))
	return nil
}

func importMarkdownDir(ctx context.Context, dir string) error {
	count := 0

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}

		if err := importMarkdownFile(ctx, path); err != nil {
			fmt.Println(ui.Warning(fmt.Sprintf("failed to import %s: %v", path, err)))
			return nil
		}
		count++
		return nil
	})

	if err != nil {
		return err
	}

	fmt.Println(ui.Success(fmt.Sprintf("Imported %d notes", count)))
	return nil
}

func importMarkdownFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // User-specified file path is expected CLI behavior
	if err != nil {
		return err
	}

	doc, err := frontmatter.Parse(data, nb.TagConfig().InputAttribute)
	if err != nil {
		return err
	}

	title := doc.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), ".md")
	}

	content := strings.TrimSpace(doc.Body)
	if content == "" {
		return fmt.Errorf("note content cannot be empty")
	}

	note := models.NewNote(title, content)
	out, err := nb.Create(ctx, note, doc.Tags)
	if err != nil {
		return err
	}
	warnIssues(note, out)
	return nil
}

func warnIssues(note *models.Note, out *tagger.Outcome) {
	if out == nil {
		return
	}
	for _, issue := range out.Issues {
		logger.Warn("tag not applied",
			zap.String("note", note.RecordID()),
			zap.String("tag", issue.Name),
			zap.Error(issue.Err))
	}
	if len(out.Skipped) > 0 {
		fmt.Println(ui.Warning(fmt.Sprintf("%s: skipped tags %s", note.Title, strings.Join(out.Skipped, ", "))))
	}
}

func init() {
	rootCmd.AddCommand(importCmd)
}
