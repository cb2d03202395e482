package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lodestar-idp/lodestar/internal/capability"
	"github.com/lodestar-idp/lodestar/internal/history"
)

// SetMaturityTool handles the cap_set_maturity MCP tool.
// Maturity only moves forward, one skipped level at most.
type SetMaturityTool struct {
	store   capability.Store
	journal *Journal
}

// NewSetMaturityTool creates a SetMaturityTool.
func NewSetMaturityTool(store capability.Store, journal *Journal) *SetMaturityTool {
	return &SetMaturityTool{store: store, journal: journal}
}

// Definition returns the MCP tool definition for registration.
func (t *SetMaturityTool) Definition() mcp.Tool {
	return mcp.NewTool("cap_set_maturity",
		mcp.WithDescription(
			"Advance a capability's maturity level. Levels are ordered "+
				"generation < deployment < operations < governance < intent-driven. "+
				"The new level must be at or above the current one and may skip at "+
				"most one level; downgrades and bigger jumps are rejected.",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Id of the capability"),
		),
		mcp.WithString("maturity_level",
			mcp.Required(),
			mcp.Description("Target maturity level"),
			mcp.Enum("generation", "deployment", "operations", "governance", "intent-driven"),
		),
	)
}

// Handle processes the cap_set_maturity tool call.
func (t *SetMaturityTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	level := capability.MaturityLevel(req.GetString("maturity_level", ""))
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	if err := t.store.SetMaturity(id, level); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	t.journal.Note(history.KindMaturitySet, id, "", string(level))

	return mcp.NewToolResultText(fmt.Sprintf(
		"Capability `%s` advanced to maturity level **%s**.", id, level,
	)), nil
}
