// Package server wires all MCP components and creates the server instance.
//
// This is the composition root (DIP): it creates concrete implementations
// and injects them into the tools/prompts/resources that depend on
// abstractions. No business logic lives here — only wiring.
package server

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/lodestar-idp/lodestar/internal/capability"
	"github.com/lodestar-idp/lodestar/internal/conflict"
	"github.com/lodestar-idp/lodestar/internal/deprecation"
	"github.com/lodestar-idp/lodestar/internal/history"
	"github.com/lodestar-idp/lodestar/internal/migration"
	"github.com/lodestar-idp/lodestar/internal/prompts"
	"github.com/lodestar-idp/lodestar/internal/resources"
	"github.com/lodestar-idp/lodestar/internal/similarity"
	"github.com/lodestar-idp/lodestar/internal/snapshot"
	"github.com/lodestar-idp/lodestar/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the history store's database
// connection and must be called on shutdown (typically via defer).
// It is always non-nil and safe to call even if history init failed.
func New() (*server.MCPServer, func(), error) {
	// --- Create the registry and its collaborators ---

	store := capability.NewStore()
	scorer := similarity.NewScorer()
	detector := conflict.NewDetector(store, scorer)
	executor := conflict.NewExecutor(store)
	planner := migration.NewPlanner(scorer)
	book := migration.NewPlanBook()
	scheduler := deprecation.NewScheduler(store, detector, planner)

	// Migration steps go to the source-control collaborator. Without an
	// integration configured, the recording runner captures them — the
	// registry decides what steps are needed, never how they happen.
	runner := &migration.RecordingRunner{}

	// --- Restore persisted registry state ---

	snap := snapshot.NewFileStore(dataDir())
	if err := snap.Load(store); err != nil {
		return nil, noop, fmt.Errorf("loading registry snapshot: %w", err)
	}

	// --- History subsystem ---
	//
	// History is independent: if it fails to initialize, registry tools
	// continue working. We log a warning and run without the audit log.

	cleanup := noop
	hist, histErr := history.New(history.DefaultConfig())
	if histErr != nil {
		log.Printf("WARNING: history subsystem disabled: %v", histErr)
		hist = nil
	} else {
		cleanup = func() {
			if err := hist.Close(); err != nil {
				log.Printf("WARNING: history store close: %v", err)
			}
		}
	}

	journal := tools.NewJournal(store, hist, snap)

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"lodestar",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register registry tools ---

	registerTool := tools.NewRegisterCapabilityTool(store, journal)
	s.AddTool(registerTool.Definition(), registerTool.Handle)

	updateTool := tools.NewUpdateCapabilityTool(store, journal)
	s.AddTool(updateTool.Definition(), updateTool.Handle)

	deleteTool := tools.NewDeleteCapabilityTool(store, journal)
	s.AddTool(deleteTool.Definition(), deleteTool.Handle)

	maturityTool := tools.NewSetMaturityTool(store, journal)
	s.AddTool(maturityTool.Definition(), maturityTool.Handle)

	addTemplateTool := tools.NewAddTemplateTool(store, detector, journal)
	s.AddTool(addTemplateTool.Definition(), addTemplateTool.Handle)

	// --- Register conflict tools ---

	detectTool := tools.NewDetectConflictsTool(store, detector)
	s.AddTool(detectTool.Definition(), detectTool.Handle)

	proposeTool := tools.NewProposeResolutionsTool(store, detector)
	s.AddTool(proposeTool.Definition(), proposeTool.Handle)

	applyTool := tools.NewApplyResolutionTool(executor, journal)
	s.AddTool(applyTool.Definition(), applyTool.Handle)

	// --- Register migration and deprecation tools ---

	planTool := tools.NewPlanMigrationTool(store, planner, book, journal)
	s.AddTool(planTool.Definition(), planTool.Handle)

	phaseTool := tools.NewExecutePhaseTool(book, runner, journal)
	s.AddTool(phaseTool.Definition(), phaseTool.Handle)

	deprecateTool := tools.NewPlanDeprecationTool(scheduler, book, journal)
	s.AddTool(deprecateTool.Definition(), deprecateTool.Handle)

	statusTool := tools.NewStatusTool(store, hist)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	// --- Register prompts ---

	triagePrompt := prompts.NewTriagePrompt()
	s.AddPrompt(triagePrompt.Definition(), triagePrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(store)
	s.AddResource(resourceHandler.RegistryResource(), resourceHandler.HandleRegistry)

	return s, cleanup, nil
}

// noop is a no-op cleanup function used as the default when history
// is disabled or hasn't been initialized.
func noop() {}

// dataDir is where the registry snapshot and history database live.
func dataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".lodestar")
}

// serverInstructions returns the system instructions that tell the AI
// how to use the registry effectively.
func serverInstructions() string {
	return `You have access to Lodestar, a capability and template lifecycle
registry for an internal developer platform.

## WHAT LODESTAR MANAGES

- Capabilities: named units of platform functionality (caches, queues,
  databases, runtimes) that own versioned deployment templates.
- Conflicts: collisions between templates by id, display name, functional
  overlap, version divergence, or unresolved capability dependencies.
- Migrations: phased plans that move consumers between template versions.
- Deprecations: time-boxed retirement schedules with notifications.

## WORKFLOW

1. Register capabilities with cap_register, add templates with
   cap_add_template.
2. When a template add reports conflicts, run cap_propose_resolutions and
   let the operator pick a strategy, then cap_apply_resolution.
3. To move consumers between template versions, run cap_plan_migration and
   execute its phases in order with cap_execute_phase.
4. To retire a template, run cap_plan_deprecation — it finds replacement
   candidates and embeds a migration plan.

## RULES

- Never invent capability or template ids; check cap_status first.
- After applying a rename resolution, re-run cap_detect_conflicts — the
  new id is not automatically re-checked.
- Maturity levels only move forward and skip at most one level.
- Deleting a capability fails while others depend on it; migrate the
  dependents first.`
}
