// ABOUTME: Export command for backing up notes.
// ABOUTME: Supports JSON and markdown with YAML front matter.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harper/memotag/internal/frontmatter"
	"github.com/harper/memotag/internal/models"
	"github.com/harper/memotag/internal/ui"
	"github.com/spf13/cobra"
)

const exportLimit = 10000

type ExportNote struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ExportData struct {
	ExportedAt time.Time    `json:"exported_at"`
	Version    string       `json:"version"`
	Notes      []ExportNote `json:"notes"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export notes",
	Long:  `Export notes to JSON or markdown format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		format, _ := cmd.Flags().GetString("format")
		outputPath, _ := cmd.Flags().GetString("output")
		notePrefix, _ := cmd.Flags().GetString("note")
		tagFlag, _ := cmd.Flags().GetString("tag")

		var notes []*models.Note
		if notePrefix != "" {
			note, err := nb.Resolve(ctx, notePrefix)
			if err != nil {
				return fmt.Errorf("failed to get note: %w", err)
			}
			notes = append(notes, note)
		} else {
			var err error
			notes, err = nb.List(ctx, tagFlag, exportLimit)
			if err != nil {
				return fmt.Errorf("failed to list notes: %w", err)
			}
		}

		exported, err := toExportNotes(ctx, notes)
		if err != nil {
			return err
		}

		switch format {
		case "json":
			return exportJSON(exported, outputPath)
		case "md":
			return exportMarkdown(exported, outputPath)
		default:
			return fmt.Errorf("unknown format: %s", format)
		}
	},
}

func toExportNotes(ctx context.Context, notes []*models.Note) ([]ExportNote, error) {
	exported := make([]ExportNote, 0, len(notes))
	for _, n := range notes {
		tags, err := nb.Tags(ctx, n)
		if err != nil {
			return nil, fmt.Errorf("failed to get tags for %s: %w", n.ShortID(), err)
		}
		if tags == nil {
			tags = []string{}
		}
		exported = append(exported, ExportNote{
			ID:        n.RecordID(),
			Title:     n.Title,
			Content:   n.Content,
			Tags:      tags,
			CreatedAt: n.CreatedAt,
			UpdatedAt: n.UpdatedAt,
		})
	}
	return exported, nil
}

func exportJSON(notes []ExportNote, outputPath string) error {
	export := ExportData{
		ExportedAt: time.Now(),
		Version:    "1.0",
		Notes:      notes,
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return err
	}

	if outputPath == "" || outputPath == "-" {
		fmt.Println(string(data))
		return nil
	}

	return os.WriteFile(outputPath, data, 0o600)
}

func exportMarkdown(notes []ExportNote, outputDir string) error {
	if outputDir == "" {
		outputDir = "export"
	}

	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return err
	}

	tagAttribute := nb.TagConfig().InputAttribute
	for _, en := range notes {
		meta := map[string]any{
			"id":         en.ID,
			"title":      en.Title,
			"created":    en.CreatedAt,
			"updated":    en.UpdatedAt,
			tagAttribute: en.Tags,
		}
		data, err := frontmatter.Render(meta, en.Content)
		if err != nil {
			return err
		}

		filename := sanitizeFilename(en.Title) + "-" + en.ID[:8] + ".md"
		if err := os.WriteFile(filepath.Join(outputDir, filename), data, 0o600); err != nil {
			return err
		}
	}

	fmt.Println(ui.Success(fmt.Sprintf("Exported %d notes to %s", len(notes), outputDir)))
	return nil
}

func sanitizeFilename(name string) string {
	// Replace unsafe characters
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-",
		"?", "-", "\"", "-", "<", "-", ">", "-", "|", "-",
	)
	name = replacer.Replace(name)
	if len(name) > 100 {
		name = name[:100]
	}
	return name
}

func init() {
	exportCmd.Flags().StringP("format", "f", "json", "export format (json|md)")
	exportCmd.Flags().StringP("output", "o", "", "output path")
	exportCmd.Flags().StringP("note", "n", "", "single note ID to export")
	exportCmd.Flags().String("tag", "", "only notes with this tag")
	rootCmd.AddCommand(exportCmd)
}
