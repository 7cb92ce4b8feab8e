// ABOUTME: MCP resources for reading notes with their tags.
// ABOUTME: Notes are addressed as memotag://note/{id} and rendered as markdown.

package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const noteURIPrefix = "memotag://note/"

func (s *Server) registerResources() {
	s.server.AddResourceTemplate(
		&mcp.ResourceTemplate{
			URITemplate: noteURIPrefix + "{id}",
			Name:        "Note",
			Description: "Access individual notes and their tags by ID",
			MIMEType:    "text/markdown",
		},
		s.handleReadResource,
	)
}

func (s *Server) handleReadResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	ref, ok := strings.CutPrefix(req.Params.URI, noteURIPrefix)
	if !ok || ref == "" {
		return nil, fmt.Errorf("invalid resource URI: %s", req.Params.URI)
	}

	note, err := s.nb.Resolve(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	tagString, err := s.nb.TagString(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}

	content := fmt.Sprintf("# %s\n\n", note.Title)
	if tagString != "" {
		content += fmt.Sprintf("**Tags:** %s\n\n", tagString)
	}
	content += note.Content

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      req.Params.URI,
				MIMEType: "text/markdown",
				Text:     content,
			},
		},
	}, nil
}
