package migration

import (
	"context"
	"fmt"
	"time"
)

// ExecutePhase runs one migration phase: it checks the phase is
// structurally sound (non-empty prerequisites — this is not a live
// readiness probe), submits each step to the runner, verifies the phase
// declares validation criteria, and marks the phase completed.
//
// The phase is mutated in place: status and timestamps follow the same
// bookkeeping as capability lifecycle stages. A step failure leaves the
// phase in_progress so a retry resumes visibly rather than silently.
func ExecutePhase(ctx context.Context, phase *Phase, runner StepRunner) error {
	if phase == nil {
		return fmt.Errorf("%w: phase is nil", ErrInvalidPhase)
	}
	if len(phase.Prerequisites) == 0 {
		return fmt.Errorf("%w: phase %q declares no prerequisites", ErrInvalidPhase, phase.ID)
	}
	if phase.Status == PhaseCompleted {
		return fmt.Errorf("%w: phase %q is already completed", ErrInvalidPhase, phase.ID)
	}

	now := timeNow().UTC().Format(time.RFC3339)
	phase.Status = PhaseRunning
	if phase.StartedAt == "" {
		phase.StartedAt = now
	}

	for _, step := range phase.Steps {
		if err := runner.Submit(ctx, step); err != nil {
			return fmt.Errorf("phase %q: step %q: %w", phase.ID, step, err)
		}
	}

	if len(phase.ValidationCriteria) == 0 {
		return fmt.Errorf("%w: phase %q declares no validation criteria", ErrInvalidPhase, phase.ID)
	}

	phase.Status = PhaseCompleted
	phase.CompletedAt = timeNow().UTC().Format(time.RFC3339)
	return nil
}
