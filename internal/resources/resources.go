// Package resources implements MCP resource handlers for the registry.
//
// Resources provide read-only data that the host can consume for
// context. They use URI-based addressing (lodestar://...) following MCP
// conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lodestar-idp/lodestar/internal/capability"
	"github.com/lodestar-idp/lodestar/internal/snapshot"
)

// Handler manages registry resource endpoints.
type Handler struct {
	store capability.Store
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(store capability.Store) *Handler {
	return &Handler{store: store}
}

// RegistryResource returns the MCP resource definition for the full
// registry state.
func (h *Handler) RegistryResource() mcp.Resource {
	return mcp.NewResource(
		"lodestar://registry/status",
		"Capability Registry",
		mcp.WithResourceDescription("All registered capabilities with their templates, in insertion order"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleRegistry returns the registry as JSON. The document is the same
// ordered form the snapshot store persists.
func (h *Handler) HandleRegistry(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	doc := snapshot.Export(h.store)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling registry: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
