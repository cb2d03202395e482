package migration

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lodestar-idp/lodestar/internal/capability"
	"github.com/lodestar-idp/lodestar/internal/similarity"
)

// Strategy selection thresholds. Both comparators are strict: a
// similarity of exactly 0.8 plans a phased migration, and exactly 0.5
// plans a parallel one.
const (
	directThreshold = 0.8
	phasedThreshold = 0.5
)

// Planner builds migration plans between template versions.
type Planner struct {
	scorer *similarity.Scorer
}

// NewPlanner creates a Planner using the given scorer.
func NewPlanner(scorer *similarity.Scorer) *Planner {
	return &Planner{scorer: scorer}
}

// DetermineStrategy picks the migration strategy from the similarity of
// source and target. No target means a pure deprecation: gradual.
func (p *Planner) DetermineStrategy(source capability.Template, target *capability.Template) Strategy {
	if target == nil {
		return StrategyGradual
	}
	score := p.scorer.Score(source, *target)
	switch {
	case score > directThreshold:
		return StrategyDirect
	case score > phasedThreshold:
		return StrategyPhased
	default:
		return StrategyParallel
	}
}

// CreatePlan expands the chosen strategy into a full plan: ordered
// phases, duration estimate, rollback plan, dependency checklist, and
// validation steps.
func (p *Planner) CreatePlan(source capability.Template, target *capability.Template) (Plan, error) {
	strategy := p.DetermineStrategy(source, target)
	phases, err := PhasesFor(strategy)
	if err != nil {
		return Plan{}, err
	}

	plan := Plan{
		ID:                uuid.NewString(),
		FromTemplate:      source,
		Strategy:          strategy,
		Phases:            phases,
		EstimatedDuration: estimateDuration(phases),
		RollbackPlan:      rollbackPlan(phases),
		Dependencies:      planDependencies(source, target),
		ValidationSteps:   validationSteps(target),
		CreatedAt:         timeNow().UTC().Format(time.RFC3339),
	}
	if target != nil {
		t := *target
		plan.ToTemplate = &t
	}
	return plan, nil
}

// estimateDuration sums each phase's leading integer-week count.
// Durations quoted in days do not contribute weeks. Totals of up to
// four weeks render as weeks; longer totals round up to whole months.
func estimateDuration(phases []Phase) string {
	weeks := 0
	for _, phase := range phases {
		weeks += leadingWeeks(phase.Duration)
	}
	if weeks <= 4 {
		return fmt.Sprintf("%d weeks", weeks)
	}
	months := (weeks + 3) / 4
	return fmt.Sprintf("%d months", months)
}

// leadingWeeks parses the leading integer of a duration string and
// returns it when the unit is weeks, zero otherwise.
func leadingWeeks(duration string) int {
	fields := strings.Fields(duration)
	if len(fields) < 2 || !strings.HasPrefix(fields[1], "week") {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return n
}

// rollbackPlan flattens the phases' rollback steps in reverse phase
// order — rolling back undoes the most recent phase first.
func rollbackPlan(phases []Phase) []string {
	var steps []string
	for i := len(phases) - 1; i >= 0; i-- {
		steps = append(steps, phases[i].RollbackSteps...)
	}
	return steps
}

// planDependencies assembles the dependency checklist: a fixed baseline
// plus items conditional on target presence and on the source
// template's maturity level.
func planDependencies(source capability.Template, target *capability.Template) []string {
	deps := []string{
		"Stakeholder approval obtained",
		"Infrastructure capacity verified",
		"Backup and recovery procedures in place",
		"Monitoring and alerting configured",
	}
	if target != nil {
		deps = append(deps, fmt.Sprintf("Target template %q validated and available", target.ID))
	}
	if source.Maturity.AtLeast(capability.MaturityOperations) {
		deps = append(deps, "Operational runbooks updated")
	}
	if source.Maturity.AtLeast(capability.MaturityGovernance) {
		deps = append(deps, "Compliance review completed")
	}
	return deps
}

// validationSteps lists the plan-level checks run after all phases.
func validationSteps(target *capability.Template) []string {
	steps := []string{
		"Error rates within pre-migration baseline",
		"Rollback procedure rehearsed and documented",
	}
	if target != nil {
		steps = append([]string{fmt.Sprintf("All consumers resolve target template %q", target.ID)}, steps...)
	} else {
		steps = append([]string{"No consumers remain on the retired template"}, steps...)
	}
	return steps
}
