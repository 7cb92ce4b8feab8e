// ABOUTME: Terminal UI formatting for memotag output.
// ABOUTME: Uses glamour for markdown and fatih/color for styling.

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/harper/memotag/internal/models"
	"github.com/harper/memotag/internal/tagger"
)

var (
	faint  = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

func FormatNoteListItem(note *models.Note, tags []string) string {
	var sb strings.Builder

	// ID prefix and title
	idPrefix := note.ID.String()[:6]
	sb.WriteString(fmt.Sprintf("  %s  %s\n", faint(idPrefix), bold(note.Title)))

	// Tags line if present
	if len(tags) > 0 {
		sb.WriteString(fmt.Sprintf("         %s %s\n",
			faint("Tags:"),
			cyan(strings.Join(tags, ", "))))
	}

	// Date
	sb.WriteString(fmt.Sprintf("         %s %s\n",
		faint("Updated:"),
		faint(note.UpdatedAt.Format("2006-01-02 15:04"))))

	return sb.String()
}

func FormatNoteContent(content string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fallback to raw content if renderer fails
		return content, nil //nolint:nilerr // Intentional fallback
	}

	out, err := renderer.Render(content)
	if err != nil {
		// Fallback to raw content if rendering fails
		return content, nil //nolint:nilerr // Intentional fallback
	}
	return out, nil
}

func FormatNoteHeader(note *models.Note, tags []string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s\n", bold(note.Title)))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("ID:"), faint(note.ID.String())))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Created:"), faint(note.CreatedAt.Format("2006-01-02 15:04"))))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Updated:"), faint(note.UpdatedAt.Format("2006-01-02 15:04"))))

	if len(tags) > 0 {
		sb.WriteString(fmt.Sprintf("%s %s\n", faint("Tags:"), cyan(strings.Join(tags, ", "))))
	}

	sb.WriteString(Separator())
	return sb.String()
}

// FormatTagList renders the counted tag report, most used first.
func FormatTagList(tags []models.TagCount) string {
	var sb strings.Builder

	for _, t := range tags {
		sb.WriteString(fmt.Sprintf("  %s %s\n",
			cyan(t.Name),
			faint(fmt.Sprintf("(%d)", t.Count))))
	}

	return sb.String()
}

// FormatOutcome summarises what a tag reconciliation changed.
func FormatOutcome(out *tagger.Outcome) string {
	var sb strings.Builder

	line := func(mark, label string, names []string) {
		if len(names) == 0 {
			return
		}
		sb.WriteString(fmt.Sprintf("  %s %s %s\n", mark, faint(label), strings.Join(names, ", ")))
	}
	line(green("+"), "linked:", out.Linked)
	line(red("-"), "unlinked:", out.Unlinked)
	line(cyan("*"), "new tags:", out.Created)
	line(yellow("~"), "skipped:", out.Skipped)
	for _, issue := range out.Issues {
		sb.WriteString(fmt.Sprintf("  %s %s\n", red("!"), issue.Error()))
	}

	return sb.String()
}

func Separator() string {
	return faint(strings.Repeat("─", 50)) + "\n"
}

func Success(msg string) string {
	return color.New(color.FgGreen).Sprint("✓ ") + msg
}

func Warning(msg string) string {
	return color.New(color.FgYellow).Sprint("! ") + msg
}

func Error(msg string) string {
	return color.New(color.FgRed).Sprint("✗ ") + msg
}
