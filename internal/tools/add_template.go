package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lodestar-idp/lodestar/internal/capability"
	"github.com/lodestar-idp/lodestar/internal/conflict"
	"github.com/lodestar-idp/lodestar/internal/history"
)

// AddTemplateTool handles the cap_add_template MCP tool.
// It is the template intake boundary: the template arrives as a ready
// value object, registry state is scanned for conflicts, and the
// template is appended to its capability's ordered list. Detected
// conflicts are reported alongside the result for the operator to act
// on; only a duplicate template id within the capability blocks the
// append.
type AddTemplateTool struct {
	store    capability.Store
	detector *conflict.Detector
	journal  *Journal
}

// NewAddTemplateTool creates an AddTemplateTool.
func NewAddTemplateTool(store capability.Store, detector *conflict.Detector, journal *Journal) *AddTemplateTool {
	return &AddTemplateTool{store: store, detector: detector, journal: journal}
}

// Definition returns the MCP tool definition for registration.
func (t *AddTemplateTool) Definition() mcp.Tool {
	return mcp.NewTool("cap_add_template",
		mcp.WithDescription(
			"Add a versioned template to a capability. The template id must be "+
				"unique within the capability. The registry is scanned for "+
				"conflicts first; non-critical conflicts (duplicate display name, "+
				"functional overlap, version divergence) are reported but do not "+
				"block the add — resolve them with cap_propose_resolutions.",
		),
		mcp.WithString("capability_id",
			mcp.Required(),
			mcp.Description("Id of the owning capability"),
		),
		mcp.WithString("template_id",
			mcp.Required(),
			mcp.Description("Template id, unique within the capability"),
		),
		mcp.WithString("template_name",
			mcp.Required(),
			mcp.Description("Human-readable template name"),
		),
		mcp.WithString("template_description",
			mcp.Description("What the template deploys"),
		),
		mcp.WithString("version",
			mcp.Required(),
			mcp.Description("Semantic version. Example: '1.2.0'"),
		),
		mcp.WithString("maturity_level",
			mcp.Required(),
			mcp.Description("Maturity classification of the template"),
			mcp.Enum("generation", "deployment", "operations", "governance", "intent-driven"),
		),
		mcp.WithString("phase",
			mcp.Required(),
			mcp.Description("Development phase of the template"),
			mcp.Enum("design", "development", "pilot", "production", "sunset"),
		),
	)
}

// Handle processes the cap_add_template tool call.
func (t *AddTemplateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	capabilityID := req.GetString("capability_id", "")
	if capabilityID == "" {
		return mcp.NewToolResultError("'capability_id' is required"), nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	tpl, msg := templateArg(req, now)
	if msg != "" {
		return mcp.NewToolResultError(msg), nil
	}

	conflicts := t.detector.Detect(tpl, "")

	if err := t.store.AddTemplate(capabilityID, tpl); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	t.journal.Note(history.KindTemplateAdded, capabilityID, tpl.ID, tpl.Version)

	if len(conflicts) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"# Template Added\n\n"+
				"**Template:** `%s` v%s\n"+
				"**Capability:** `%s`\n\n"+
				"No conflicts detected.",
			tpl.ID, tpl.Version, capabilityID,
		)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"# Template Added (with conflicts)\n\n"+
			"**Template:** `%s` v%s\n"+
			"**Capability:** `%s`\n\n"+
			"## Conflicts (%d)\n\n%s\n"+
			"Run `cap_propose_resolutions` for remediation strategies.",
		tpl.ID, tpl.Version, capabilityID, len(conflicts), renderConflicts(conflicts),
	)), nil
}
