// Package prompts implements MCP prompt handlers for the registry.
package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// TriagePrompt handles the lodestar-triage MCP prompt.
// It walks the AI through the conflict remediation workflow:
// detect, propose, apply, re-detect.
type TriagePrompt struct{}

// NewTriagePrompt creates a TriagePrompt.
func NewTriagePrompt() *TriagePrompt {
	return &TriagePrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *TriagePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("lodestar-triage",
		mcp.WithPromptDescription(
			"Triage template conflicts in the capability registry. "+
				"Scans for collisions, proposes resolution strategies, and "+
				"applies the one you pick.",
		),
		mcp.WithArgument("template_id",
			mcp.ArgumentDescription("Id of the template to triage"),
			mcp.RequiredArgument(),
		),
	)
}

// Handle processes the lodestar-triage prompt request.
func (p *TriagePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	templateID := req.Params.Arguments["template_id"]

	return &mcp.GetPromptResult{
		Description: "Template Conflict Triage",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please triage conflicts for template `" + templateID + "`:\n\n" +
						"1. Run `cap_detect_conflicts` with this template_id\n" +
						"2. If conflicts exist, run `cap_propose_resolutions` and present each strategy with its effort, impact, risks, and benefits\n" +
						"3. Ask me which strategy to apply, then run `cap_apply_resolution`\n" +
						"4. Re-run `cap_detect_conflicts` to confirm the conflict is gone (a rename can collide again)\n" +
						"5. Summarize what changed in the registry",
				),
			},
		},
	}, nil
}
