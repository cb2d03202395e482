package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lodestar-idp/lodestar/internal/capability"
	"github.com/lodestar-idp/lodestar/internal/history"
)

// StatusTool handles the cap_status MCP tool.
// It summarizes the registry and, when the history subsystem is
// available, the most recent mutations. Passing an id narrows the
// summary to one capability and replaces the recent-mutations section
// with that capability's full audit trail.
type StatusTool struct {
	store   capability.Store
	history *history.Store
}

// NewStatusTool creates a StatusTool. hist may be nil.
func NewStatusTool(store capability.Store, hist *history.Store) *StatusTool {
	return &StatusTool{store: store, history: hist}
}

// Definition returns the MCP tool definition for registration.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("cap_status",
		mcp.WithDescription(
			"Summarize the capability registry: every capability with its "+
				"maturity, phase, template count, and dependencies, plus recent "+
				"registry mutations when the history log is available. Pass an "+
				"id to focus on one capability and see its full audit trail.",
		),
		mcp.WithString("id",
			mcp.Description("Optional capability id to focus the summary on"),
		),
	)
}

// Handle processes the cap_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if id := req.GetString("id", ""); id != "" {
		return t.handleOne(id)
	}

	caps := t.store.List()

	var b strings.Builder
	fmt.Fprintf(&b, "# Registry Status\n\n**Capabilities:** %d\n\n", len(caps))

	for _, cap := range caps {
		deps := "none"
		if len(cap.Dependencies) > 0 {
			deps = strings.Join(cap.Dependencies, ", ")
		}
		fmt.Fprintf(&b, "## `%s` — %s\n\n", cap.ID, cap.Name)
		fmt.Fprintf(&b, "Maturity: %s | Phase: %s | Dependencies: %s\n\n", cap.Maturity, cap.Phase, deps)
		if len(cap.Templates) == 0 {
			b.WriteString("No templates.\n\n")
			continue
		}
		for _, tpl := range cap.Templates {
			fmt.Fprintf(&b, "- `%s` v%s — %s (%s/%s)\n", tpl.ID, tpl.Version, tpl.Name, tpl.Maturity, tpl.Phase)
		}
		b.WriteString("\n")
	}

	if t.history != nil {
		events, err := t.history.Recent(10)
		if err == nil && len(events) > 0 {
			b.WriteString("## Recent Activity\n\n")
			writeEvents(&b, events)
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}

func writeEvents(b *strings.Builder, events []history.Event) {
	for _, e := range events {
		fmt.Fprintf(b, "- %s %s", e.OccurredAt, e.Kind)
		if e.CapabilityID != "" {
			fmt.Fprintf(b, " `%s`", e.CapabilityID)
		}
		if e.TemplateID != "" {
			fmt.Fprintf(b, " `%s`", e.TemplateID)
		}
		if e.Detail != "" {
			fmt.Fprintf(b, " (%s)", e.Detail)
		}
		b.WriteString("\n")
	}
}

// handleOne renders the focused view for a single capability, with its
// audit trail when the history log is available.
func (t *StatusTool) handleOne(id string) (*mcp.CallToolResult, error) {
	cap, err := t.store.Get(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# `%s` — %s\n\n", cap.ID, cap.Name)
	deps := "none"
	if len(cap.Dependencies) > 0 {
		deps = strings.Join(cap.Dependencies, ", ")
	}
	fmt.Fprintf(&b, "Maturity: %s | Phase: %s | Dependencies: %s\n\n", cap.Maturity, cap.Phase, deps)
	if len(cap.Templates) == 0 {
		b.WriteString("No templates.\n\n")
	} else {
		for _, tpl := range cap.Templates {
			fmt.Fprintf(&b, "- `%s` v%s — %s (%s/%s)\n", tpl.ID, tpl.Version, tpl.Name, tpl.Maturity, tpl.Phase)
		}
		b.WriteString("\n")
	}

	if t.history != nil {
		events, err := t.history.ForCapability(id)
		if err == nil && len(events) > 0 {
			b.WriteString("## Audit Trail\n\n")
			writeEvents(&b, events)
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}
