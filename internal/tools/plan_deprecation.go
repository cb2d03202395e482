package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lodestar-idp/lodestar/internal/deprecation"
	"github.com/lodestar-idp/lodestar/internal/history"
	"github.com/lodestar-idp/lodestar/internal/migration"
)

// PlanDeprecationTool handles the cap_plan_deprecation MCP tool.
type PlanDeprecationTool struct {
	scheduler *deprecation.Scheduler
	book      *migration.PlanBook
	journal   *Journal
}

// NewPlanDeprecationTool creates a PlanDeprecationTool. The embedded
// migration plan is stored in the book so its phases are executable.
func NewPlanDeprecationTool(scheduler *deprecation.Scheduler, book *migration.PlanBook, journal *Journal) *PlanDeprecationTool {
	return &PlanDeprecationTool{scheduler: scheduler, book: book, journal: journal}
}

// Definition returns the MCP tool definition for registration.
func (t *PlanDeprecationTool) Definition() mcp.Tool {
	return mcp.NewTool("cap_plan_deprecation",
		mcp.WithDescription(
			"Build a retirement schedule for a template: a 30-day grace period "+
				"before the deprecation date, an end of life after the given "+
				"number of months, three notification checkpoints, replacement "+
				"candidates ranked by similarity, and an embedded migration plan "+
				"toward the best replacement. Support during the window follows "+
				"the timeline: 12+ months full, 6+ maintenance, 2+ security-only, "+
				"else none.",
		),
		mcp.WithString("template_id",
			mcp.Required(),
			mcp.Description("Id of the template to retire"),
		),
		mcp.WithString("reason",
			mcp.Required(),
			mcp.Description("Why the template is being retired. Example: 'replaced by postgres-ha'"),
		),
		mcp.WithNumber("timeline_months",
			mcp.Required(),
			mcp.Description("Months until end of life (minimum 1)"),
		),
	)
}

// Handle processes the cap_plan_deprecation tool call.
func (t *PlanDeprecationTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templateID := req.GetString("template_id", "")
	reason := req.GetString("reason", "")
	months := intArg(req, "timeline_months", 0)

	if templateID == "" {
		return mcp.NewToolResultError("'template_id' is required"), nil
	}
	if strings.TrimSpace(reason) == "" {
		return mcp.NewToolResultError("'reason' is required — say why the template is retiring"), nil
	}

	plan, err := t.scheduler.CreatePlan(templateID, reason, months)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	t.book.Put(plan.MigrationPlan)
	t.journal.Note(history.KindDeprecationPlan, "", templateID, reason)

	var b strings.Builder
	fmt.Fprintf(&b, "# Deprecation Plan `%s`\n\n", plan.ID)
	fmt.Fprintf(&b, "**Template:** `%s` (%s)\n", plan.Template.ID, plan.Template.Name)
	fmt.Fprintf(&b, "**Reason:** %s\n", plan.Reason)
	fmt.Fprintf(&b, "**Deprecation date:** %s\n", plan.DeprecationDate)
	fmt.Fprintf(&b, "**End of life:** %s\n", plan.EndOfLifeDate)
	fmt.Fprintf(&b, "**Support level:** %s\n\n", plan.SupportLevel)

	if len(plan.ReplacementTemplates) == 0 {
		b.WriteString("## Replacements\n\nNo replacement candidates found — the migration is a pure gradual deprecation.\n\n")
	} else {
		fmt.Fprintf(&b, "## Replacements (%d, best match first)\n\n", len(plan.ReplacementTemplates))
		for _, r := range plan.ReplacementTemplates {
			fmt.Fprintf(&b, "- `%s` v%s (%s)\n", r.ID, r.Version, r.Name)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Notifications\n\n")
	for _, n := range plan.Notifications {
		fmt.Fprintf(&b, "- **%s** on %s via %s\n", n.Type, n.Date, strings.Join(n.Channels, ", "))
	}

	fmt.Fprintf(&b, "\n## Embedded Migration\n\nStrategy **%s**, estimated %s, plan id `%s`.\n",
		plan.MigrationPlan.Strategy, plan.MigrationPlan.EstimatedDuration, plan.MigrationPlan.ID)

	return mcp.NewToolResultText(b.String()), nil
}
