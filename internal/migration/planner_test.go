package migration

import (
	"testing"
	"time"

	"github.com/lodestar-idp/lodestar/internal/capability"
	"github.com/lodestar-idp/lodestar/internal/similarity"
)

func sourceTemplate() capability.Template {
	return capability.Template{
		ID: "src", Name: "web-service", Description: "Production web service scaffold",
		Version:  "1.0.0",
		Maturity: capability.MaturityDeployment,
		Phase:    capability.PhaseProduction,
	}
}

func TestDetermineStrategy(t *testing.T) {
	p := NewPlanner(similarity.NewScorer())
	src := sourceTemplate()

	t.Run("no target means gradual", func(t *testing.T) {
		if got := p.DetermineStrategy(src, nil); got != StrategyGradual {
			t.Errorf("strategy = %s, want gradual", got)
		}
	})

	t.Run("identical target means direct", func(t *testing.T) {
		target := src
		target.ID = "dst"
		if got := p.DetermineStrategy(src, &target); got != StrategyDirect {
			t.Errorf("strategy = %s, want direct", got)
		}
	})

	t.Run("similarity exactly at direct threshold means phased", func(t *testing.T) {
		// Same name, description and phase; maturity differs. The score is
		// 0.3 + 0.4 + 0.1 = 0.8 exactly, and the comparator is strict.
		target := src
		target.ID = "dst"
		target.Maturity = capability.MaturityOperations
		if got := p.DetermineStrategy(src, &target); got != StrategyPhased {
			t.Errorf("strategy = %s, want phased", got)
		}
	})

	t.Run("similarity exactly at phased threshold means parallel", func(t *testing.T) {
		// Same name and maturity, fully distant description, phase differs:
		// 0.3 + 0.2 = 0.5 exactly, and the comparator is strict.
		src := src
		src.Description = "aaaa"
		target := src
		target.ID = "dst"
		target.Description = "bbbb"
		target.Phase = capability.PhasePilot
		if got := p.DetermineStrategy(src, &target); got != StrategyParallel {
			t.Errorf("strategy = %s, want parallel", got)
		}
	})

	t.Run("dissimilar target means parallel", func(t *testing.T) {
		target := capability.Template{
			ID: "dst", Name: "queue-worker", Description: "Background job processor",
			Version:  "1.0.0",
			Maturity: capability.MaturityGeneration,
			Phase:    capability.PhaseDesign,
		}
		if got := p.DetermineStrategy(src, &target); got != StrategyParallel {
			t.Errorf("strategy = %s, want parallel", got)
		}
	})
}

func TestCreatePlan_Direct(t *testing.T) {
	frozen := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return frozen }
	defer func() { timeNow = time.Now }()

	p := NewPlanner(similarity.NewScorer())
	src := sourceTemplate()
	target := src
	target.ID = "dst"

	plan, err := p.CreatePlan(src, &target)
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}

	if plan.ID == "" {
		t.Error("plan id must be set")
	}
	if plan.Strategy != StrategyDirect {
		t.Fatalf("strategy = %s, want direct", plan.Strategy)
	}
	if plan.CreatedAt != "2026-03-01T12:00:00Z" {
		t.Errorf("created at = %q", plan.CreatedAt)
	}
	if plan.ToTemplate == nil || plan.ToTemplate.ID != "dst" {
		t.Errorf("target not carried on the plan: %+v", plan.ToTemplate)
	}

	if len(plan.Phases) != 2 {
		t.Fatalf("direct plan should have 2 phases, got %d", len(plan.Phases))
	}
	if plan.Phases[0].Name != "Migration Preparation" || plan.Phases[1].Name != "Direct Migration" {
		t.Errorf("phase names = %q, %q", plan.Phases[0].Name, plan.Phases[1].Name)
	}
	for _, phase := range plan.Phases {
		if phase.Status != PhasePending {
			t.Errorf("phase %q starts %s, want pending", phase.ID, phase.Status)
		}
	}

	// 1 week plus 3 days: day-quoted durations carry no weeks.
	if plan.EstimatedDuration != "1 weeks" {
		t.Errorf("estimated duration = %q, want %q", plan.EstimatedDuration, "1 weeks")
	}
}

func TestCreatePlan_GradualWithoutTarget(t *testing.T) {
	p := NewPlanner(similarity.NewScorer())

	plan, err := p.CreatePlan(sourceTemplate(), nil)
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	if plan.Strategy != StrategyGradual {
		t.Fatalf("strategy = %s, want gradual", plan.Strategy)
	}
	if plan.ToTemplate != nil {
		t.Error("deprecation plan must not carry a target")
	}
	if plan.Phases[0].Name != "Deprecation Announcement" || plan.Phases[1].Name != "Support Reduction" {
		t.Errorf("phase names = %q, %q", plan.Phases[0].Name, plan.Phases[1].Name)
	}
	// 1 + 8 weeks rounds up to months.
	if plan.EstimatedDuration != "3 months" {
		t.Errorf("estimated duration = %q, want %q", plan.EstimatedDuration, "3 months")
	}
}

func TestEstimateDuration(t *testing.T) {
	cases := []struct {
		name      string
		durations []string
		want      string
	}{
		{"weeks under cap", []string{"1 week", "2 weeks"}, "3 weeks"},
		{"exactly four weeks", []string{"4 weeks"}, "4 weeks"},
		{"rounds up to months", []string{"2 weeks", "4 weeks"}, "2 months"},
		{"days do not count", []string{"3 days", "5 days"}, "0 weeks"},
		{"mixed units", []string{"1 week", "3 days"}, "1 weeks"},
		{"unparseable ignored", []string{"soon", "2 weeks"}, "2 weeks"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			phases := make([]Phase, len(tc.durations))
			for i, d := range tc.durations {
				phases[i] = Phase{Duration: d}
			}
			if got := estimateDuration(phases); got != tc.want {
				t.Errorf("estimateDuration = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPlanDependencies_MaturityConditional(t *testing.T) {
	src := sourceTemplate()

	base := planDependencies(src, nil)
	if len(base) != 4 {
		t.Fatalf("deployment-level source without target should have the 4 baseline items, got %d: %v", len(base), base)
	}

	target := src
	target.ID = "dst"
	withTarget := planDependencies(src, &target)
	if len(withTarget) != 5 {
		t.Fatalf("target adds one item, got %d", len(withTarget))
	}

	src.Maturity = capability.MaturityOperations
	ops := planDependencies(src, nil)
	if len(ops) != 5 || ops[4] != "Operational runbooks updated" {
		t.Fatalf("operations-level source should add runbooks: %v", ops)
	}

	src.Maturity = capability.MaturityGovernance
	gov := planDependencies(src, nil)
	if len(gov) != 6 || gov[5] != "Compliance review completed" {
		t.Fatalf("governance-level source should add runbooks and compliance: %v", gov)
	}
}

func TestRollbackPlan_ReversesPhaseOrder(t *testing.T) {
	phases := []Phase{
		{ID: "first", RollbackSteps: []string{"undo-a", "undo-b"}},
		{ID: "second", RollbackSteps: []string{"undo-c"}},
	}
	got := rollbackPlan(phases)
	want := []string{"undo-c", "undo-a", "undo-b"}
	if len(got) != len(want) {
		t.Fatalf("rollback plan = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rollback plan = %v, want %v", got, want)
		}
	}
}

func TestValidationSteps(t *testing.T) {
	target := sourceTemplate()
	target.ID = "dst"

	withTarget := validationSteps(&target)
	if withTarget[0] != `All consumers resolve target template "dst"` {
		t.Errorf("first step = %q", withTarget[0])
	}
	withoutTarget := validationSteps(nil)
	if withoutTarget[0] != "No consumers remain on the retired template" {
		t.Errorf("first step = %q", withoutTarget[0])
	}
}

func TestPhasesFor_CopiesAreIndependent(t *testing.T) {
	first, err := PhasesFor(StrategyDirect)
	if err != nil {
		t.Fatalf("phases for direct: %v", err)
	}
	first[0].Steps[0] = "mutated"
	first[0].Status = PhaseCompleted

	second, err := PhasesFor(StrategyDirect)
	if err != nil {
		t.Fatalf("phases for direct: %v", err)
	}
	if second[0].Steps[0] == "mutated" {
		t.Error("mutating returned phases leaked into the table")
	}
	if second[0].Status != PhasePending {
		t.Errorf("fresh phases should be pending, got %s", second[0].Status)
	}
}

func TestPhasesFor_UnknownStrategy(t *testing.T) {
	if _, err := PhasesFor("teleport"); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}
