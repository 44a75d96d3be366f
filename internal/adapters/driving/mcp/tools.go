package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/imgsearch/internal/core/domain"
)

// maxToolPages caps the pages a single tool call may collect.
const maxToolPages = 10

// SearchImagesInput is the input schema for the search_images tool.
type SearchImagesInput struct {
	Query string `json:"query" jsonschema:"the text to search Flickr images for"`
	Pages int    `json:"pages,omitempty" jsonschema:"number of result pages to collect (default from settings, max 10)"`
}

// SearchImagesOutput is the output schema for the search_images tool.
type SearchImagesOutput struct {
	Query     string        `json:"query"`
	Images    []ImageOutput `json:"images"`
	Count     int           `json:"count"`
	Pages     int           `json:"pages"`
	MorePages bool          `json:"more_pages"`
}

// ImageOutput represents a single image.
type ImageOutput struct {
	URL string `json:"url"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_images",
		Description: "Search Flickr for images matching a text query and return their URLs",
	}, s.handleSearchImages)
}

// handleSearchImages handles the search_images tool invocation.
func (s *Server) handleSearchImages(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchImagesInput,
) (*mcp.CallToolResult, SearchImagesOutput, error) {
	collection, err := s.ports.Collector.Collect(ctx, input.Query, s.pages(input.Pages))
	if err != nil {
		return nil, SearchImagesOutput{}, fmt.Errorf("searching images: %w", err)
	}

	output := SearchImagesOutput{
		Query:     collection.Query,
		Images:    make([]ImageOutput, len(collection.Images)),
		Count:     len(collection.Images),
		Pages:     collection.Pages,
		MorePages: collection.MorePages,
	}
	for i, image := range collection.Images {
		output.Images[i] = ImageOutput{URL: image.URL}
	}

	return nil, output, nil
}

// pages resolves the requested page count against settings and the cap.
func (s *Server) pages(requested int) int {
	if requested <= 0 {
		requested = domain.DefaultAppSettings().Search.MaxPages
		if s.ports.Settings != nil {
			if settings, err := s.ports.Settings.Get(); err == nil && settings.Search.MaxPages > 0 {
				requested = settings.Search.MaxPages
			}
		}
	}
	return min(requested, maxToolPages)
}
