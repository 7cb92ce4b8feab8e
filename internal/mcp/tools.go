// ABOUTME: MCP tools for notes and tag reconciliation.
// ABOUTME: Tag arguments accept a delimited string or a list of names.

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harper/memotag/internal/models"
	"github.com/harper/memotag/internal/tagger"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

const tagsSchema = `{
	"description": "Tags as a delimited string or a list of names",
	"oneOf": [
		{"type": "string"},
		{"type": "array", "items": {"type": "string"}}
	]
}`

func (s *Server) registerTools() {
	// add_note
	s.server.AddTool(&mcp.Tool{
		Name:        "add_note",
		Description: "Create a new note with title, content and optional tags",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"title": {"type": "string", "description": "Note title"},
				"content": {"type": "string", "description": "Note content (markdown)"},
				"tags": ` + tagsSchema + `
			},
			"required": ["title", "content"]
		}`),
	}, s.handleAddNote)

	// list_notes
	s.server.AddTool(&mcp.Tool{
		Name:        "list_notes",
		Description: "List notes with optional tag filtering",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"tag": {"type": "string", "description": "Filter by tag"},
				"limit": {"type": "integer", "description": "Max results", "default": 20}
			}
		}`),
	}, s.handleListNotes)

	// get_note
	s.server.AddTool(&mcp.Tool{
		Name:        "get_note",
		Description: "Get a note and its tags by ID prefix",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Note ID or prefix (6+ chars)"}
			},
			"required": ["id"]
		}`),
	}, s.handleGetNote)

	// update_note
	s.server.AddTool(&mcp.Tool{
		Name:        "update_note",
		Description: "Update a note's title, content or tags. Omitted tags are left alone",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Note ID or prefix"},
				"title": {"type": "string", "description": "New title"},
				"content": {"type": "string", "description": "New content"},
				"tags": ` + tagsSchema + `
			},
			"required": ["id"]
		}`),
	}, s.handleUpdateNote)

	// delete_note
	s.server.AddTool(&mcp.Tool{
		Name:        "delete_note",
		Description: "Delete a note and its tag links",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Note ID or prefix"}
			},
			"required": ["id"]
		}`),
	}, s.handleDeleteNote)

	// set_tags
	s.server.AddTool(&mcp.Tool{
		Name:        "set_tags",
		Description: "Replace a note's tags. An empty value removes them all",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Note ID or prefix"},
				"tags": ` + tagsSchema + `
			},
			"required": ["id", "tags"]
		}`),
	}, s.handleSetTags)

	// get_tags
	s.server.AddTool(&mcp.Tool{
		Name:        "get_tags",
		Description: "Get a note's tags as a delimited string",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Note ID or prefix"}
			},
			"required": ["id"]
		}`),
	}, s.handleGetTags)

	// list_tags
	s.server.AddTool(&mcp.Tool{
		Name:        "list_tags",
		Description: "List every tag in use with the number of notes carrying it",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleListTags)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(format string, args ...any) *mcp.CallToolResult {
	result := textResult(fmt.Sprintf(format, args...))
	result.IsError = true
	return result
}

func jsonResult(v any) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(v, "", "  ")
	return textResult(string(data))
}

// outcomeText summarizes a save for the agent, including non-fatal issues.
func outcomeText(prefix string, out *tagger.Outcome) string {
	var sb strings.Builder
	sb.WriteString(prefix)
	if out == nil {
		return sb.String()
	}
	if len(out.Linked) > 0 {
		fmt.Fprintf(&sb, "\nlinked: %s", strings.Join(out.Linked, ", "))
	}
	if len(out.Unlinked) > 0 {
		fmt.Fprintf(&sb, "\nunlinked: %s", strings.Join(out.Unlinked, ", "))
	}
	if len(out.Skipped) > 0 {
		fmt.Fprintf(&sb, "\nskipped: %s", strings.Join(out.Skipped, ", "))
	}
	for _, issue := range out.Issues {
		fmt.Fprintf(&sb, "\nissue: %v", issue)
	}
	return sb.String()
}

type noteView struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content,omitempty"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

func (s *Server) view(ctx context.Context, note *models.Note, withContent bool) (noteView, error) {
	tags, err := s.nb.Tags(ctx, note)
	if err != nil {
		return noteView{}, err
	}
	if tags == nil {
		tags = []string{}
	}
	v := noteView{
		ID:        note.RecordID(),
		Title:     note.Title,
		Tags:      tags,
		CreatedAt: note.CreatedAt.Format(time.RFC3339),
		UpdatedAt: note.UpdatedAt.Format(time.RFC3339),
	}
	if withContent {
		v.Content = note.Content
	}
	return v, nil
}

// Tool handlers.
func (s *Server) handleAddNote(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		Tags    any    `json:"tags"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	if strings.TrimSpace(params.Content) == "" {
		return errorResult("note content cannot be empty"), nil
	}
	in, err := tagger.InputFrom(params.Tags)
	if err != nil {
		return errorResult("invalid tags: %v", err), nil
	}

	note := models.NewNote(params.Title, params.Content)
	out, err := s.nb.Create(ctx, note, in)
	if err != nil {
		s.logger.Error("add_note failed", zap.Error(err))
		return errorResult("failed to create note: %v", err), nil
	}

	return textResult(outcomeText(fmt.Sprintf("Created note %s", note.RecordID()), out)), nil
}

func (s *Server) handleListNotes(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Tag   string `json:"tag"`
		Limit int    `json:"limit"`
	}
	params.Limit = 20 // default
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	notes, err := s.nb.List(ctx, params.Tag, params.Limit)
	if err != nil {
		return errorResult("failed to list notes: %v", err), nil
	}

	views := make([]noteView, 0, len(notes))
	for _, note := range notes {
		v, err := s.view(ctx, note, false)
		if err != nil {
			return errorResult("failed to read tags: %v", err), nil
		}
		views = append(views, v)
	}
	return jsonResult(views), nil
}

func (s *Server) handleGetNote(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	note, err := s.nb.Resolve(ctx, params.ID)
	if err != nil {
		return errorResult("failed to get note: %v", err), nil
	}
	v, err := s.view(ctx, note, true)
	if err != nil {
		return errorResult("failed to read tags: %v", err), nil
	}
	return jsonResult(v), nil
}

func (s *Server) handleUpdateNote(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID      string  `json:"id"`
		Title   *string `json:"title"`
		Content *string `json:"content"`
		Tags    any     `json:"tags"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	note, err := s.nb.Resolve(ctx, params.ID)
	if err != nil {
		return errorResult("failed to find note: %v", err), nil
	}

	if params.Title != nil {
		note.Title = *params.Title
	}
	if params.Content != nil {
		if strings.TrimSpace(*params.Content) == "" {
			return errorResult("note content cannot be empty"), nil
		}
		note.Content = *params.Content
	}
	in, err := tagger.InputFrom(params.Tags)
	if err != nil {
		return errorResult("invalid tags: %v", err), nil
	}

	out, err := s.nb.Update(ctx, note, in)
	if err != nil {
		s.logger.Error("update_note failed", zap.String("note", note.RecordID()), zap.Error(err))
		return errorResult("failed to update note: %v", err), nil
	}

	return textResult(outcomeText(fmt.Sprintf("Updated note %s", note.RecordID()), out)), nil
}

func (s *Server) handleDeleteNote(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	note, err := s.nb.Resolve(ctx, params.ID)
	if err != nil {
		return errorResult("failed to find note: %v", err), nil
	}
	if err := s.nb.Delete(ctx, note); err != nil {
		return errorResult("failed to delete note: %v", err), nil
	}

	return textResult(fmt.Sprintf("Deleted note %s", note.RecordID())), nil
}

func (s *Server) handleSetTags(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID   string `json:"id"`
		Tags any    `json:"tags"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	in, err := tagger.InputFrom(params.Tags)
	if err != nil {
		return errorResult("invalid tags: %v", err), nil
	}
	if in == nil {
		// set_tags always replaces; a missing value clears.
		in = tagger.ListInput{}
	}

	note, err := s.nb.Resolve(ctx, params.ID)
	if err != nil {
		return errorResult("failed to find note: %v", err), nil
	}
	out, err := s.nb.SetTags(ctx, note, in)
	if err != nil {
		s.logger.Error("set_tags failed", zap.String("note", note.RecordID()), zap.Error(err))
		return errorResult("failed to set tags: %v", err), nil
	}

	return textResult(outcomeText(fmt.Sprintf("Tags set on note %s", note.RecordID()), out)), nil
}

func (s *Server) handleGetTags(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	note, err := s.nb.Resolve(ctx, params.ID)
	if err != nil {
		return errorResult("failed to find note: %v", err), nil
	}
	tagString, err := s.nb.TagString(ctx, note)
	if err != nil {
		return errorResult("failed to read tags: %v", err), nil
	}
	return textResult(tagString), nil
}

func (s *Server) handleListTags(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := s.nb.CountedTags(ctx)
	if err != nil {
		return errorResult("failed to list tags: %v", err), nil
	}
	if report == nil {
		report = []models.TagCount{}
	}
	return jsonResult(report), nil
}
