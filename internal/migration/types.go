// Package migration plans and executes phased movements of usage from a
// source template to a target template, or to retirement when no target
// exists.
//
// The planner chooses a strategy from the similarity of source and
// target and expands it into ordered phases with prerequisites, steps,
// validation criteria, and rollback steps. Phase execution is structural:
// it dispatches steps to a StepRunner collaborator and does not itself
// touch source control or pipelines.
package migration

import (
	"context"
	"errors"
	"fmt"

	"github.com/lodestar-idp/lodestar/internal/capability"
)

// ErrInvalidPhase means a phase failed its structural checks — missing
// prerequisites or validation criteria. This is not a live readiness
// probe.
var ErrInvalidPhase = errors.New("invalid migration phase")

// --- Migration strategy enum ---

// Strategy names how usage moves from source to target.
type Strategy string

const (
	StrategyDirect   Strategy = "direct"
	StrategyPhased   Strategy = "phased"
	StrategyParallel Strategy = "parallel"
	StrategyGradual  Strategy = "gradual"
)

// validStrategies is the set of allowed migration strategies.
var validStrategies = map[Strategy]bool{
	StrategyDirect:   true,
	StrategyPhased:   true,
	StrategyParallel: true,
	StrategyGradual:  true,
}

// ValidateStrategy returns an error if the strategy is not recognized.
func ValidateStrategy(s Strategy) error {
	if !validStrategies[s] {
		return fmt.Errorf("invalid migration strategy %q: must be one of: direct, phased, parallel, gradual", s)
	}
	return nil
}

// --- Phase status enum ---

// PhaseStatus tracks a phase through execution.
type PhaseStatus string

const (
	PhasePending   PhaseStatus = "pending"
	PhaseRunning   PhaseStatus = "in_progress"
	PhaseCompleted PhaseStatus = "completed"
)

// --- Core data structures ---

// Phase is one ordered step group of a migration. A phase must not begin
// until its prerequisites are confirmed.
type Phase struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Description        string      `json:"description"`
	Duration           string      `json:"duration"`
	Prerequisites      []string    `json:"prerequisites"`
	Steps              []string    `json:"steps"`
	ValidationCriteria []string    `json:"validation_criteria"`
	RollbackSteps      []string    `json:"rollback_steps"`
	Status             PhaseStatus `json:"status"`
	StartedAt          string      `json:"started_at,omitempty"`
	CompletedAt        string      `json:"completed_at,omitempty"`
}

// Plan is a complete migration from a source template to a target
// template. ToTemplate is nil when the migration is a pure deprecation
// with no replacement; the strategy is then forced to gradual.
type Plan struct {
	ID                string               `json:"id"`
	FromTemplate      capability.Template  `json:"from_template"`
	ToTemplate        *capability.Template `json:"to_template,omitempty"`
	Strategy          Strategy             `json:"strategy"`
	Phases            []Phase              `json:"phases"`
	EstimatedDuration string               `json:"estimated_duration"`
	RollbackPlan      []string             `json:"rollback_plan"`
	Dependencies      []string             `json:"dependencies"`
	ValidationSteps   []string             `json:"validation_steps"`
	CreatedAt         string               `json:"created_at"`
}

// clone deep-copies the plan so callers and the plan book never share
// phase or step slices.
func (p Plan) clone() Plan {
	out := p
	if p.ToTemplate != nil {
		to := *p.ToTemplate
		out.ToTemplate = &to
	}
	out.Phases = make([]Phase, len(p.Phases))
	for i := range p.Phases {
		out.Phases[i] = p.Phases[i].clone()
	}
	out.RollbackPlan = append([]string(nil), p.RollbackPlan...)
	out.Dependencies = append([]string(nil), p.Dependencies...)
	out.ValidationSteps = append([]string(nil), p.ValidationSteps...)
	return out
}

// StepRunner is the narrow source-control collaborator boundary: each
// migration step that needs a physical action is submitted here. What
// "physical action" means (a branch, a commit, a pipeline trigger) is
// the runner's business.
type StepRunner interface {
	Submit(ctx context.Context, step string) error
}

// RecordingRunner is the default StepRunner: it records submitted steps
// and performs no physical action. Used when Lodestar runs without a
// source-control integration and throughout tests.
type RecordingRunner struct {
	Submitted []string
}

// Submit records the step.
func (r *RecordingRunner) Submit(_ context.Context, step string) error {
	r.Submitted = append(r.Submitted, step)
	return nil
}
