package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lodestar-idp/lodestar/internal/capability"
	"github.com/lodestar-idp/lodestar/internal/conflict"
)

// ProposeResolutionsTool handles the cap_propose_resolutions MCP tool.
// It re-runs conflict detection for a stored template and maps every
// conflict to its resolution strategy with effort, impact, risks, and
// benefits for operator decision support.
type ProposeResolutionsTool struct {
	store    capability.Store
	detector *conflict.Detector
}

// NewProposeResolutionsTool creates a ProposeResolutionsTool.
func NewProposeResolutionsTool(store capability.Store, detector *conflict.Detector) *ProposeResolutionsTool {
	return &ProposeResolutionsTool{store: store, detector: detector}
}

// Definition returns the MCP tool definition for registration.
func (t *ProposeResolutionsTool) Definition() mcp.Tool {
	return mcp.NewTool("cap_propose_resolutions",
		mcp.WithDescription(
			"Detect conflicts for a registered template and propose one "+
				"resolution strategy per conflict: rename (id collision), "+
				"namespace (name collision), merge (functional overlap), version "+
				"(version divergence), deprecate (unresolved dependency). The "+
				"chosen strategy is applied with cap_apply_resolution.",
		),
		mcp.WithString("template_id",
			mcp.Required(),
			mcp.Description("Id of the registered template to remediate"),
		),
	)
}

// Handle processes the cap_propose_resolutions tool call.
func (t *ProposeResolutionsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("template_id", "")
	if id == "" {
		return mcp.NewToolResultError("'template_id' is required"), nil
	}

	tpl, ownerID, err := t.store.FindTemplate(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	conflicts := t.detector.Detect(tpl, ownerID)
	if len(conflicts) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"No conflicts detected for template `%s` — nothing to resolve.", id,
		)), nil
	}

	resolutions := conflict.GenerateResolutions(conflicts)

	var b strings.Builder
	fmt.Fprintf(&b, "# Resolutions for `%s`\n\n", id)
	for i, r := range resolutions {
		fmt.Fprintf(&b, "## %d. %s (effort: %s, impact: %s)\n\n%s\n\n", i+1, r.Strategy, r.Effort, r.Impact, r.Description)
		b.WriteString("**Steps:**\n")
		for _, s := range r.Steps {
			fmt.Fprintf(&b, "1. %s\n", s)
		}
		if len(r.Risks) > 0 {
			b.WriteString("\n**Risks:**\n")
			for _, s := range r.Risks {
				fmt.Fprintf(&b, "- %s\n", s)
			}
		}
		if len(r.Benefits) > 0 {
			b.WriteString("\n**Benefits:**\n")
			for _, s := range r.Benefits {
				fmt.Fprintf(&b, "- %s\n", s)
			}
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Apply one with `cap_apply_resolution` (capability_id: %s, template_id: %s).", ownerID, id)

	return mcp.NewToolResultText(b.String()), nil
}
