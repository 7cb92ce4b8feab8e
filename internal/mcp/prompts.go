// ABOUTME: MCP prompts for tagging workflows.
// ABOUTME: Guides agents through suggesting and tidying note tags.

package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerPrompts() {
	s.server.AddPrompt(&mcp.Prompt{
		Name:        "suggest-tags",
		Description: "Suggest tags for a note based on its content",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "note_id",
				Description: "ID of the note to tag",
				Required:    true,
			},
		},
	}, s.getSuggestTagsPrompt)

	s.server.AddPrompt(&mcp.Prompt{
		Name:        "tidy-tags",
		Description: "Find near-duplicate tags and consolidate them",
	}, s.getTidyTagsPrompt)
}

func promptResult(text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: text,
				},
			},
		},
	}
}

func (s *Server) getSuggestTagsPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	noteID, ok := req.Params.Arguments["note_id"]
	if !ok || noteID == "" {
		return nil, fmt.Errorf("note_id argument is required")
	}

	return promptResult(fmt.Sprintf(`Please suggest tags for the note with ID: %s

1. Use the get_note tool to read the note and its current tags
2. Use the list_tags tool to see which tags already exist
3. Prefer existing tags over new ones with the same meaning
4. Use the set_tags tool with the full list of tags the note should have.
   Tags you leave out are removed from the note.`, noteID)), nil
}

func (s *Server) getTidyTagsPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return promptResult(`Help me tidy my tags:

1. Use the list_tags tool to see every tag and how many notes use it
2. Look for tags that differ only in case, spelling or plural form
3. For each group, pick one name to keep
4. Use list_notes with the tag filter to find the notes carrying the others
5. Use set_tags on each of those notes to swap in the kept name

Report the groups you found and the notes you changed.`), nil
}
