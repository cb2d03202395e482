package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lodestar-idp/lodestar/internal/history"
	"github.com/lodestar-idp/lodestar/internal/migration"
)

// ExecutePhaseTool handles the cap_execute_phase MCP tool.
// Steps go through the source-control collaborator (StepRunner); the
// registry itself performs no physical action.
type ExecutePhaseTool struct {
	book    *migration.PlanBook
	runner  migration.StepRunner
	journal *Journal
}

// NewExecutePhaseTool creates an ExecutePhaseTool.
func NewExecutePhaseTool(book *migration.PlanBook, runner migration.StepRunner, journal *Journal) *ExecutePhaseTool {
	return &ExecutePhaseTool{book: book, runner: runner, journal: journal}
}

// Definition returns the MCP tool definition for registration.
func (t *ExecutePhaseTool) Definition() mcp.Tool {
	return mcp.NewTool("cap_execute_phase",
		mcp.WithDescription(
			"Execute one phase of a migration plan created by "+
				"cap_plan_migration. Phases run in order: a phase is rejected "+
				"until every earlier phase has completed. Each step is submitted "+
				"to the source-control collaborator.",
		),
		mcp.WithString("plan_id",
			mcp.Required(),
			mcp.Description("Id of the migration plan"),
		),
		mcp.WithString("phase_id",
			mcp.Required(),
			mcp.Description("Id of the phase to execute"),
		),
	)
}

// Handle processes the cap_execute_phase tool call.
func (t *ExecutePhaseTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	planID := req.GetString("plan_id", "")
	phaseID := req.GetString("phase_id", "")
	if planID == "" {
		return mcp.NewToolResultError("'plan_id' is required"), nil
	}
	if phaseID == "" {
		return mcp.NewToolResultError("'phase_id' is required"), nil
	}

	phase, err := t.book.ExecutePhase(ctx, planID, phaseID, t.runner)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	t.journal.Note(history.KindPhaseExecuted, "", "", fmt.Sprintf("%s/%s", planID, phaseID))

	var steps strings.Builder
	for _, s := range phase.Steps {
		fmt.Fprintf(&steps, "- %s\n", s)
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"# Phase Completed\n\n"+
			"**Plan:** `%s`\n"+
			"**Phase:** %s (`%s`)\n"+
			"**Status:** %s\n\n"+
			"## Steps Submitted\n\n%s",
		planID, phase.Name, phase.ID, phase.Status, steps.String(),
	)), nil
}
