package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lodestar-idp/lodestar/internal/conflict"
	"github.com/lodestar-idp/lodestar/internal/history"
)

// ApplyResolutionTool handles the cap_apply_resolution MCP tool.
type ApplyResolutionTool struct {
	executor *conflict.Executor
	journal  *Journal
}

// NewApplyResolutionTool creates an ApplyResolutionTool.
func NewApplyResolutionTool(executor *conflict.Executor, journal *Journal) *ApplyResolutionTool {
	return &ApplyResolutionTool{executor: executor, journal: journal}
}

// Definition returns the MCP tool definition for registration.
func (t *ApplyResolutionTool) Definition() mcp.Tool {
	return mcp.NewTool("cap_apply_resolution",
		mcp.WithDescription(
			"Apply a chosen resolution strategy to a template: rename (append "+
				"-v2 to the id), namespace (prefix the display name with the "+
				"capability name), merge (mark the description), version (bump "+
				"the major version), deprecate (mark the description). A rename "+
				"is not re-checked for fresh collisions — re-run "+
				"cap_detect_conflicts afterwards.",
		),
		mcp.WithString("strategy",
			mcp.Required(),
			mcp.Description("Resolution strategy to apply"),
			mcp.Enum("rename", "namespace", "merge", "version", "deprecate"),
		),
		mcp.WithString("capability_id",
			mcp.Required(),
			mcp.Description("Id of the capability owning the template"),
		),
		mcp.WithString("template_id",
			mcp.Required(),
			mcp.Description("Id of the template to mutate"),
		),
	)
}

// Handle processes the cap_apply_resolution tool call.
func (t *ApplyResolutionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	strategy := conflict.Strategy(req.GetString("strategy", ""))
	capabilityID := req.GetString("capability_id", "")
	templateID := req.GetString("template_id", "")

	if capabilityID == "" {
		return mcp.NewToolResultError("'capability_id' is required"), nil
	}
	if templateID == "" {
		return mcp.NewToolResultError("'template_id' is required"), nil
	}

	mutated, err := t.executor.Apply(strategy, capabilityID, templateID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	t.journal.Note(history.KindResolutionApplied, capabilityID, mutated.ID, string(strategy))

	return mcp.NewToolResultText(fmt.Sprintf(
		"# Resolution Applied\n\n"+
			"**Strategy:** %s\n"+
			"**Capability:** `%s`\n"+
			"**Template:** `%s`\n"+
			"**Name:** %s\n"+
			"**Version:** %s\n"+
			"**Description:** %s\n",
		strategy, capabilityID, mutated.ID, mutated.Name, mutated.Version, mutated.Description,
	)), nil
}
