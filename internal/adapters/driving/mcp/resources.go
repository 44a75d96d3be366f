package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for imgsearch resources.
	uriScheme = "imgsearch://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Recent image searches, newest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "history/{limit}",
		Name:        "history-limited",
		Description: "Up to limit recent image searches, newest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

// historyInfo is the JSON shape of a history resource entry.
type historyInfo struct {
	Query       string `json:"query"`
	ResultCount int    `json:"result_count"`
	TotalPages  int    `json:"total_pages"`
	SearchedAt  string `json:"searched_at"`
}

// handleHistoryResource returns recent searches.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	limit, ok := extractHistoryLimit(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	infos := []historyInfo{}
	if s.ports.History != nil {
		entries, err := s.ports.History.Recent(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("listing history: %w", err)
		}
		for _, e := range entries {
			infos = append(infos, historyInfo{
				Query:       e.Query,
				ResultCount: e.ResultCount,
				TotalPages:  e.TotalPages,
				SearchedAt:  e.SearchedAt.UTC().Format("2006-01-02T15:04:05Z"),
			})
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling history: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractHistoryLimit parses imgsearch://history or imgsearch://history/{limit}.
// A zero limit selects the configured default.
func extractHistoryLimit(uri string) (int, bool) {
	const prefix = uriScheme + "history"

	if !strings.HasPrefix(uri, prefix) {
		return 0, false
	}

	rest := strings.TrimPrefix(uri, prefix)
	if rest == "" {
		return 0, true
	}
	if !strings.HasPrefix(rest, "/") {
		return 0, false
	}

	limit, err := strconv.Atoi(strings.TrimPrefix(rest, "/"))
	if err != nil || limit < 1 {
		return 0, false
	}
	return limit, true
}
