package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lodestar-idp/lodestar/internal/capability"
	"github.com/lodestar-idp/lodestar/internal/history"
	"github.com/lodestar-idp/lodestar/internal/migration"
)

// PlanMigrationTool handles the cap_plan_migration MCP tool.
type PlanMigrationTool struct {
	store   capability.Store
	planner *migration.Planner
	book    *migration.PlanBook
	journal *Journal
}

// NewPlanMigrationTool creates a PlanMigrationTool.
func NewPlanMigrationTool(store capability.Store, planner *migration.Planner, book *migration.PlanBook, journal *Journal) *PlanMigrationTool {
	return &PlanMigrationTool{store: store, planner: planner, book: book, journal: journal}
}

// Definition returns the MCP tool definition for registration.
func (t *PlanMigrationTool) Definition() mcp.Tool {
	return mcp.NewTool("cap_plan_migration",
		mcp.WithDescription(
			"Build a migration plan from a source template to an optional "+
				"target template. The strategy follows their similarity: very "+
				"similar templates migrate directly, moderately similar ones in "+
				"phases, dissimilar ones run in parallel first. Without a target "+
				"the plan is a gradual deprecation. Execute phases in order with "+
				"cap_execute_phase.",
		),
		mcp.WithString("from_template_id",
			mcp.Required(),
			mcp.Description("Id of the source template (must be registered)"),
		),
		mcp.WithString("to_template_id",
			mcp.Description("Id of the target template (omit for a pure deprecation)"),
		),
	)
}

// Handle processes the cap_plan_migration tool call.
func (t *PlanMigrationTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fromID := req.GetString("from_template_id", "")
	if fromID == "" {
		return mcp.NewToolResultError("'from_template_id' is required"), nil
	}

	source, _, err := t.store.FindTemplate(fromID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var target *capability.Template
	if toID := req.GetString("to_template_id", ""); toID != "" {
		tpl, _, err := t.store.FindTemplate(toID)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		target = &tpl
	}

	plan, err := t.planner.CreatePlan(source, target)
	if err != nil {
		return nil, fmt.Errorf("creating migration plan: %w", err)
	}
	t.book.Put(plan)

	t.journal.Note(history.KindMigrationPlanned, "", fromID, string(plan.Strategy))

	return mcp.NewToolResultText(renderPlan(plan)), nil
}

// renderPlan formats a migration plan as markdown.
func renderPlan(plan migration.Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Migration Plan `%s`\n\n", plan.ID)
	fmt.Fprintf(&b, "**From:** `%s` v%s\n", plan.FromTemplate.ID, plan.FromTemplate.Version)
	if plan.ToTemplate != nil {
		fmt.Fprintf(&b, "**To:** `%s` v%s\n", plan.ToTemplate.ID, plan.ToTemplate.Version)
	} else {
		b.WriteString("**To:** (none — pure deprecation)\n")
	}
	fmt.Fprintf(&b, "**Strategy:** %s\n", plan.Strategy)
	fmt.Fprintf(&b, "**Estimated duration:** %s\n\n", plan.EstimatedDuration)

	fmt.Fprintf(&b, "## Phases (%d)\n\n", len(plan.Phases))
	for i, p := range plan.Phases {
		fmt.Fprintf(&b, "%d. **%s** (`%s`, %s): %s\n", i+1, p.Name, p.ID, p.Duration, p.Description)
	}

	b.WriteString("\n## Dependencies\n\n")
	for _, d := range plan.Dependencies {
		fmt.Fprintf(&b, "- %s\n", d)
	}

	b.WriteString("\n## Validation\n\n")
	for _, v := range plan.ValidationSteps {
		fmt.Fprintf(&b, "- %s\n", v)
	}

	b.WriteString("\n## Rollback\n\n")
	for _, r := range plan.RollbackPlan {
		fmt.Fprintf(&b, "- %s\n", r)
	}

	fmt.Fprintf(&b, "\nExecute phases in order with `cap_execute_phase` (plan_id: %s).", plan.ID)
	return b.String()
}
