package migration

import (
	"context"
	"fmt"
	"sync"

	"github.com/lodestar-idp/lodestar/internal/capability"
)

// PlanBook holds created migration plans so phases can be executed
// later by id. Plans are ephemeral working state, not registry records;
// the book lives and dies with the process.
type PlanBook struct {
	mu    sync.Mutex
	plans map[string]*Plan
}

// NewPlanBook creates an empty PlanBook.
func NewPlanBook() *PlanBook {
	return &PlanBook{plans: make(map[string]*Plan)}
}

// Put stores a plan, keyed by its id. The stored copy is detached from
// the caller's slices.
func (b *PlanBook) Put(plan Plan) {
	b.mu.Lock()
	defer b.mu.Unlock()
	stored := plan.clone()
	b.plans[plan.ID] = &stored
}

// Get returns a detached copy of the plan with the given id. Mutating
// the returned plan does not affect the stored one.
func (b *PlanBook) Get(planID string) (Plan, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	plan, ok := b.plans[planID]
	if !ok {
		return Plan{}, fmt.Errorf("%w: migration plan %q", capability.ErrNotFound, planID)
	}
	return plan.clone(), nil
}

// ExecutePhase runs one phase of a stored plan through the runner.
// Phases are ordered: a phase may not begin until every phase before it
// has completed. The updated phase is returned.
func (b *PlanBook) ExecutePhase(ctx context.Context, planID, phaseID string, runner StepRunner) (Phase, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	plan, ok := b.plans[planID]
	if !ok {
		return Phase{}, fmt.Errorf("%w: migration plan %q", capability.ErrNotFound, planID)
	}

	idx := -1
	for i := range plan.Phases {
		if plan.Phases[i].ID == phaseID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Phase{}, fmt.Errorf("%w: phase %q in plan %q", capability.ErrNotFound, phaseID, planID)
	}

	for i := 0; i < idx; i++ {
		if plan.Phases[i].Status != PhaseCompleted {
			return Phase{}, fmt.Errorf("%w: phase %q cannot begin before phase %q completes",
				ErrInvalidPhase, phaseID, plan.Phases[i].ID)
		}
	}

	if err := ExecutePhase(ctx, &plan.Phases[idx], runner); err != nil {
		return Phase{}, err
	}
	return plan.Phases[idx].clone(), nil
}
