package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lodestar-idp/lodestar/internal/capability"
	"github.com/lodestar-idp/lodestar/internal/conflict"
)

// DetectConflictsTool handles the cap_detect_conflicts MCP tool.
// It scans the registry against a candidate template — either one
// already stored (by template_id alone) or one described inline.
type DetectConflictsTool struct {
	store    capability.Store
	detector *conflict.Detector
}

// NewDetectConflictsTool creates a DetectConflictsTool.
func NewDetectConflictsTool(store capability.Store, detector *conflict.Detector) *DetectConflictsTool {
	return &DetectConflictsTool{store: store, detector: detector}
}

// Definition returns the MCP tool definition for registration.
func (t *DetectConflictsTool) Definition() mcp.Tool {
	return mcp.NewTool("cap_detect_conflicts",
		mcp.WithDescription(
			"Scan the registry for conflicts against a candidate template. "+
				"Pass only template_id to scan an already-registered template, or "+
				"describe an unregistered candidate inline (template_name, version, "+
				"maturity_level, phase). Detects id collisions, display-name "+
				"collisions, functional overlap, version divergence, and "+
				"unresolved capability dependencies.",
		),
		mcp.WithString("template_id",
			mcp.Required(),
			mcp.Description("Candidate template id"),
		),
		mcp.WithString("template_name",
			mcp.Description("Candidate name (inline candidates only)"),
		),
		mcp.WithString("template_description",
			mcp.Description("Candidate description (inline candidates only)"),
		),
		mcp.WithString("version",
			mcp.Description("Candidate semantic version (inline candidates only)"),
		),
		mcp.WithString("maturity_level",
			mcp.Description("Candidate maturity level (inline candidates only)"),
			mcp.Enum("generation", "deployment", "operations", "governance", "intent-driven"),
		),
		mcp.WithString("phase",
			mcp.Description("Candidate phase (inline candidates only)"),
			mcp.Enum("design", "development", "pilot", "production", "sunset"),
		),
	)
}

// Handle processes the cap_detect_conflicts tool call.
func (t *DetectConflictsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	candidate, ownerID, msg := t.resolveCandidate(req)
	if msg != "" {
		return mcp.NewToolResultError(msg), nil
	}

	conflicts := t.detector.Detect(candidate, ownerID)
	if len(conflicts) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"No conflicts detected for template `%s`.", candidate.ID,
		)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"# Conflicts for `%s` (%d)\n\n%s\n"+
			"Run `cap_propose_resolutions` for remediation strategies.",
		candidate.ID, len(conflicts), renderConflicts(conflicts),
	)), nil
}

// resolveCandidate looks the template up in the registry when only an
// id was given, otherwise builds it from the inline arguments. The
// returned ownerID is non-empty only for stored templates, so a stored
// candidate skips its own entry during the scan.
func (t *DetectConflictsTool) resolveCandidate(req mcp.CallToolRequest) (capability.Template, string, string) {
	id := req.GetString("template_id", "")
	if id == "" {
		return capability.Template{}, "", "'template_id' is required"
	}

	if req.GetString("template_name", "") == "" {
		tpl, ownerID, err := t.store.FindTemplate(id)
		if err != nil {
			return capability.Template{}, "", fmt.Sprintf(
				"template %q is not registered — describe an inline candidate with template_name, version, maturity_level, and phase", id)
		}
		return tpl, ownerID, ""
	}

	now := time.Now().UTC().Format(time.RFC3339)
	tpl, msg := templateArg(req, now)
	if msg != "" {
		return capability.Template{}, "", msg
	}
	return tpl, "", ""
}

// renderConflicts formats a conflict list as markdown bullet points.
func renderConflicts(conflicts []conflict.Conflict) string {
	var b strings.Builder
	for _, c := range conflicts {
		fmt.Fprintf(&b, "- **%s** (%s): %s", c.Type, c.Severity, c.Description)
		if len(c.AffectedCapabilities) > 0 {
			fmt.Fprintf(&b, " [affects: %s]", strings.Join(c.AffectedCapabilities, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}
