package conflict

import (
	"strings"
	"testing"
)

func TestGenerateResolutions_StrategyPerType(t *testing.T) {
	cases := []struct {
		conflictType Type
		strategy     Strategy
		effort       Effort
		impact       Impact
	}{
		{TypeID, StrategyRename, EffortSmall, ImpactLow},
		{TypeName, StrategyNamespace, EffortSmall, ImpactLow},
		{TypeFunctionality, StrategyMerge, EffortMedium, ImpactMedium},
		{TypeVersion, StrategyVersion, EffortMedium, ImpactMedium},
		{TypeDependency, StrategyDeprecate, EffortLarge, ImpactHigh},
	}
	for _, tc := range cases {
		t.Run(string(tc.conflictType), func(t *testing.T) {
			resolutions := GenerateResolutions([]Conflict{{Type: tc.conflictType, Description: "details"}})
			if len(resolutions) != 1 {
				t.Fatalf("expected 1 resolution, got %d", len(resolutions))
			}
			r := resolutions[0]
			if r.Strategy != tc.strategy {
				t.Errorf("strategy = %s, want %s", r.Strategy, tc.strategy)
			}
			if r.Effort != tc.effort || r.Impact != tc.impact {
				t.Errorf("effort/impact = %s/%s, want %s/%s", r.Effort, r.Impact, tc.effort, tc.impact)
			}
			if len(r.Steps) == 0 || len(r.Risks) == 0 || len(r.Benefits) == 0 {
				t.Error("blueprint fields must be populated")
			}
			if !strings.HasSuffix(r.Description, ": details") {
				t.Errorf("description should carry the conflict context: %q", r.Description)
			}
		})
	}
}

func TestGenerateResolutions_PreservesOrder(t *testing.T) {
	conflicts := []Conflict{
		{Type: TypeDependency, Description: "d"},
		{Type: TypeID, Description: "i"},
		{Type: TypeName, Description: "n"},
	}
	resolutions := GenerateResolutions(conflicts)
	want := []Strategy{StrategyDeprecate, StrategyRename, StrategyNamespace}
	if len(resolutions) != len(want) {
		t.Fatalf("expected %d resolutions, got %d", len(want), len(resolutions))
	}
	for i, s := range want {
		if resolutions[i].Strategy != s {
			t.Errorf("position %d: strategy = %s, want %s", i, resolutions[i].Strategy, s)
		}
	}
}

func TestGenerateResolutions_UnknownTypeSkipped(t *testing.T) {
	resolutions := GenerateResolutions([]Conflict{
		{Type: "alignment", Description: "?"},
		{Type: TypeID, Description: "i"},
	})
	if len(resolutions) != 1 || resolutions[0].Strategy != StrategyRename {
		t.Fatalf("unknown conflict type should be skipped, got %+v", resolutions)
	}
}

func TestGenerateResolutions_Empty(t *testing.T) {
	if got := GenerateResolutions(nil); len(got) != 0 {
		t.Fatalf("expected no resolutions, got %d", len(got))
	}
}

func TestGenerateResolutions_DoesNotAliasTable(t *testing.T) {
	first := GenerateResolutions([]Conflict{{Type: TypeID, Description: "x"}})
	first[0].Steps[0] = "mutated"
	first[0].Risks[0] = "mutated"

	second := GenerateResolutions([]Conflict{{Type: TypeID, Description: "x"}})
	if second[0].Steps[0] == "mutated" || second[0].Risks[0] == "mutated" {
		t.Error("mutating a returned resolution leaked into the blueprint table")
	}
}
