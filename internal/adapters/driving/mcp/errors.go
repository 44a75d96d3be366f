// Package mcp provides an MCP (Model Context Protocol) server adapter for imgsearch.
// It lets AI assistants search Flickr images and read the search history.
package mcp

import "errors"

// ErrMissingCollector is returned when the image collector is not provided.
var ErrMissingCollector = errors.New("mcp: image collector is required")
