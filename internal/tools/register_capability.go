package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lodestar-idp/lodestar/internal/capability"
	"github.com/lodestar-idp/lodestar/internal/history"
)

// RegisterCapabilityTool handles the cap_register MCP tool.
// It registers a new capability in the registry.
type RegisterCapabilityTool struct {
	store   capability.Store
	journal *Journal
}

// NewRegisterCapabilityTool creates a RegisterCapabilityTool.
func NewRegisterCapabilityTool(store capability.Store, journal *Journal) *RegisterCapabilityTool {
	return &RegisterCapabilityTool{store: store, journal: journal}
}

// Definition returns the MCP tool definition for registration.
func (t *RegisterCapabilityTool) Definition() mcp.Tool {
	return mcp.NewTool("cap_register",
		mcp.WithDescription(
			"Register a new deployment capability in the registry. "+
				"A capability is a named unit of platform functionality that owns "+
				"versioned templates. Registration fails if the id is already taken. "+
				"Dependencies may reference capabilities registered later (forward "+
				"references are checked at delete time, not here).",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Unique capability id. Example: 'redis'"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Human-readable capability name. Example: 'Redis Cache'"),
		),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("What the capability provides"),
		),
		mcp.WithString("maturity_level",
			mcp.Required(),
			mcp.Description("Maturity classification, lowest first: generation, deployment, operations, governance, intent-driven"),
			mcp.Enum("generation", "deployment", "operations", "governance", "intent-driven"),
		),
		mcp.WithString("phase",
			mcp.Required(),
			mcp.Description("Development phase: design, development, pilot, production, sunset"),
			mcp.Enum("design", "development", "pilot", "production", "sunset"),
		),
		mcp.WithArray("dependencies",
			mcp.Description("Ids of capabilities this one depends on"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	)
}

// Handle processes the cap_register tool call.
func (t *RegisterCapabilityTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cap := capability.Capability{
		ID:           req.GetString("id", ""),
		Name:         req.GetString("name", ""),
		Description:  req.GetString("description", ""),
		Maturity:     capability.MaturityLevel(req.GetString("maturity_level", "")),
		Phase:        capability.Phase(req.GetString("phase", "")),
		Templates:    []capability.Template{},
		Dependencies: stringListArg(req, "dependencies"),
	}

	if err := t.store.Register(cap); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	t.journal.Note(history.KindRegistered, cap.ID, "", cap.Name)

	deps := "none"
	if len(cap.Dependencies) > 0 {
		deps = strings.Join(cap.Dependencies, ", ")
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"# Capability Registered\n\n"+
			"**ID:** `%s`\n"+
			"**Name:** %s\n"+
			"**Maturity:** %s\n"+
			"**Phase:** %s\n"+
			"**Dependencies:** %s\n\n"+
			"Add templates with `cap_add_template`.",
		cap.ID, cap.Name, cap.Maturity, cap.Phase, deps,
	)), nil
}
