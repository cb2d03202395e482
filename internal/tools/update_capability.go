package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lodestar-idp/lodestar/internal/capability"
	"github.com/lodestar-idp/lodestar/internal/history"
)

// UpdateCapabilityTool handles the cap_update MCP tool.
// It applies a partial update to an existing capability; the id itself
// is immutable.
type UpdateCapabilityTool struct {
	store   capability.Store
	journal *Journal
}

// NewUpdateCapabilityTool creates an UpdateCapabilityTool.
func NewUpdateCapabilityTool(store capability.Store, journal *Journal) *UpdateCapabilityTool {
	return &UpdateCapabilityTool{store: store, journal: journal}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateCapabilityTool) Definition() mcp.Tool {
	return mcp.NewTool("cap_update",
		mcp.WithDescription(
			"Partially update an existing capability. Only the supplied fields "+
				"change; the capability id is immutable. Maturity changes go "+
				"through the progression rules (no downgrades, skip at most one level).",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Id of the capability to update"),
		),
		mcp.WithString("name",
			mcp.Description("New display name"),
		),
		mcp.WithString("description",
			mcp.Description("New description"),
		),
		mcp.WithString("phase",
			mcp.Description("New development phase"),
			mcp.Enum("design", "development", "pilot", "production", "sunset"),
		),
		mcp.WithString("maturity_level",
			mcp.Description("New maturity level (progression rules apply)"),
			mcp.Enum("generation", "deployment", "operations", "governance", "intent-driven"),
		),
		mcp.WithArray("dependencies",
			mcp.Description("Replacement dependency list (replaces the whole list)"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	)
}

// Handle processes the cap_update tool call.
func (t *UpdateCapabilityTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	var upd capability.Update
	args := req.GetArguments()
	if _, ok := args["name"]; ok {
		v := req.GetString("name", "")
		upd.Name = &v
	}
	if _, ok := args["description"]; ok {
		v := req.GetString("description", "")
		upd.Description = &v
	}
	if _, ok := args["phase"]; ok {
		v := capability.Phase(req.GetString("phase", ""))
		upd.Phase = &v
	}
	if _, ok := args["maturity_level"]; ok {
		v := capability.MaturityLevel(req.GetString("maturity_level", ""))
		upd.Maturity = &v
	}
	if _, ok := args["dependencies"]; ok {
		v := stringListArg(req, "dependencies")
		upd.Dependencies = &v
	}

	updated, err := t.store.Update(id, upd)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	t.journal.Note(history.KindUpdated, id, "", "partial update applied")

	return mcp.NewToolResultText(fmt.Sprintf(
		"# Capability Updated\n\n"+
			"**ID:** `%s`\n"+
			"**Name:** %s\n"+
			"**Maturity:** %s\n"+
			"**Phase:** %s\n"+
			"**Templates:** %d\n",
		updated.ID, updated.Name, updated.Maturity, updated.Phase, len(updated.Templates),
	)), nil
}
