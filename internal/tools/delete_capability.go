package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lodestar-idp/lodestar/internal/capability"
	"github.com/lodestar-idp/lodestar/internal/history"
)

// DeleteCapabilityTool handles the cap_delete MCP tool.
type DeleteCapabilityTool struct {
	store   capability.Store
	journal *Journal
}

// NewDeleteCapabilityTool creates a DeleteCapabilityTool.
func NewDeleteCapabilityTool(store capability.Store, journal *Journal) *DeleteCapabilityTool {
	return &DeleteCapabilityTool{store: store, journal: journal}
}

// Definition returns the MCP tool definition for registration.
func (t *DeleteCapabilityTool) Definition() mcp.Tool {
	return mcp.NewTool("cap_delete",
		mcp.WithDescription(
			"Delete a capability from the registry. Blocked if any other "+
				"capability depends on it — the error names the dependents so "+
				"they can be migrated first.",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Id of the capability to delete"),
		),
	)
}

// Handle processes the cap_delete tool call.
func (t *DeleteCapabilityTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	if err := t.store.Delete(id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	t.journal.Note(history.KindDeleted, id, "", "")

	return mcp.NewToolResultText(fmt.Sprintf("Capability `%s` deleted.", id)), nil
}
