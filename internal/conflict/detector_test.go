package conflict

import (
	"strings"
	"testing"

	"github.com/lodestar-idp/lodestar/internal/capability"
	"github.com/lodestar-idp/lodestar/internal/similarity"
)

func newTestRegistry(t *testing.T, caps ...capability.Capability) capability.Store {
	t.Helper()
	store := capability.NewStore()
	for _, c := range caps {
		if err := store.Register(c); err != nil {
			t.Fatalf("registering %q: %v", c.ID, err)
		}
	}
	return store
}

func testCapability(id string, tpls ...capability.Template) capability.Capability {
	return capability.Capability{
		ID:          id,
		Name:        "Capability " + id,
		Description: "Test capability " + id,
		Maturity:    capability.MaturityDeployment,
		Phase:       capability.PhaseProduction,
		Templates:   tpls,
	}
}

func testTemplate(id, name, desc string) capability.Template {
	return capability.Template{
		ID: id, Name: name, Description: desc,
		Version:  "1.0.0",
		Maturity: capability.MaturityDeployment,
		Phase:    capability.PhaseProduction,
	}
}

func typesOf(conflicts []Conflict) []Type {
	out := make([]Type, len(conflicts))
	for i, c := range conflicts {
		out[i] = c.Type
	}
	return out
}

func TestDetect_IDCollision(t *testing.T) {
	existing := testTemplate("web-api", "Web API", "REST scaffold for services")
	store := newTestRegistry(t, testCapability("backend", existing))
	d := NewDetector(store, similarity.NewScorer())

	candidate := testTemplate("web-api", "Totally Different", "Nothing alike whatsoever here")
	conflicts := d.Detect(candidate, "")

	var found *Conflict
	for i := range conflicts {
		if conflicts[i].Type == TypeID {
			found = &conflicts[i]
		}
	}
	if found == nil {
		t.Fatalf("expected an id conflict, got %v", typesOf(conflicts))
	}
	if found.Severity != SeverityCritical {
		t.Errorf("id conflict severity = %s, want critical", found.Severity)
	}
	if found.ConflictingTemplate == nil || found.ConflictingTemplate.ID != "web-api" {
		t.Errorf("conflict should carry the stored template")
	}
	if len(found.AffectedCapabilities) != 1 || found.AffectedCapabilities[0] != "backend" {
		t.Errorf("affected capabilities = %v", found.AffectedCapabilities)
	}
}

func TestDetect_SelfIsSkipped(t *testing.T) {
	existing := testTemplate("web-api", "Web API", "REST scaffold for services")
	store := newTestRegistry(t, testCapability("backend", existing))
	d := NewDetector(store, similarity.NewScorer())

	// Re-checking an already registered template against the registry must
	// not flag it against its own stored entry.
	conflicts := d.Detect(existing, "backend")
	if len(conflicts) != 0 {
		t.Fatalf("template conflicts with itself: %v", typesOf(conflicts))
	}

	// With a blank owner the stored entry is a genuine collision.
	conflicts = d.Detect(existing, "")
	if len(conflicts) == 0 {
		t.Fatal("unowned identical candidate should conflict")
	}
}

func TestDetect_NameAndVersion(t *testing.T) {
	existing := testTemplate("t1", "Postgres Operator", "Manages postgres clusters")
	store := newTestRegistry(t, testCapability("data", existing))
	d := NewDetector(store, similarity.NewScorer())

	t.Run("same name same version", func(t *testing.T) {
		candidate := testTemplate("t9", "Postgres Operator", "Different purpose entirely, no overlap")
		conflicts := d.Detect(candidate, "")
		types := typesOf(conflicts)
		if len(types) != 1 || types[0] != TypeName {
			t.Fatalf("expected exactly one name conflict, got %v", types)
		}
		if conflicts[0].Severity != SeverityHigh {
			t.Errorf("name conflict severity = %s, want high", conflicts[0].Severity)
		}
	})

	t.Run("same name diverging version", func(t *testing.T) {
		candidate := testTemplate("t9", "Postgres Operator", "Different purpose entirely, no overlap")
		candidate.Version = "2.3.0"
		conflicts := d.Detect(candidate, "")
		types := typesOf(conflicts)
		if len(types) != 2 || types[0] != TypeName || types[1] != TypeVersion {
			t.Fatalf("expected [name version], got %v", types)
		}
		if conflicts[1].Severity != SeverityLow {
			t.Errorf("version conflict severity = %s, want low", conflicts[1].Severity)
		}
	})

	t.Run("semver-equal versions with different spellings", func(t *testing.T) {
		candidate := testTemplate("t9", "Postgres Operator", "Different purpose entirely, no overlap")
		candidate.Version = "v1.0.0"
		conflicts := d.Detect(candidate, "")
		for _, c := range conflicts {
			if c.Type == TypeVersion {
				t.Errorf("1.0.0 and v1.0.0 are the same version, got version conflict")
			}
		}
	})

	t.Run("different name no conflict", func(t *testing.T) {
		candidate := testTemplate("t9", "Kafka Broker", "Streams events between services")
		if conflicts := d.Detect(candidate, ""); len(conflicts) != 0 {
			t.Fatalf("unexpected conflicts: %v", typesOf(conflicts))
		}
	})
}

func TestDetect_FunctionalOverlap(t *testing.T) {
	existing := testTemplate("t1", "web-service", "Production web service scaffold")
	store := newTestRegistry(t, testCapability("backend", existing))
	d := NewDetector(store, similarity.NewScorer())

	// Near-identical fields push similarity over 0.85 without an exact
	// id or name match.
	candidate := testTemplate("t2", "web-servica", "Production web service scaffole")
	conflicts := d.Detect(candidate, "")
	types := typesOf(conflicts)
	if len(types) != 1 || types[0] != TypeFunctionality {
		t.Fatalf("expected exactly one functionality conflict, got %v", types)
	}
	if conflicts[0].Severity != SeverityMedium {
		t.Errorf("functionality severity = %s, want medium", conflicts[0].Severity)
	}
}

func TestDetect_IdenticalFieldsEmitAllTypes(t *testing.T) {
	existing := testTemplate("web-api", "Web API", "REST scaffold for services")
	store := newTestRegistry(t, testCapability("backend", existing))
	d := NewDetector(store, similarity.NewScorer())

	conflicts := d.Detect(existing, "")
	types := typesOf(conflicts)
	want := []Type{TypeID, TypeName, TypeFunctionality}
	if len(types) != len(want) {
		t.Fatalf("expected %v, got %v", want, types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, types)
		}
	}
}

func TestDetect_UnresolvedDependency(t *testing.T) {
	cap := testCapability("app")
	cap.Dependencies = []string{"ghost-capability"}
	store := newTestRegistry(t, cap)
	d := NewDetector(store, similarity.NewScorer())

	conflicts := d.Detect(testTemplate("t1", "Fresh", "Unrelated new template"), "")
	if len(conflicts) != 1 || conflicts[0].Type != TypeDependency {
		t.Fatalf("expected one dependency conflict, got %v", typesOf(conflicts))
	}
	if conflicts[0].Severity != SeverityHigh {
		t.Errorf("dependency severity = %s, want high", conflicts[0].Severity)
	}
	if conflicts[0].ConflictingTemplate != nil {
		t.Error("dependency conflict has no conflicting template")
	}
	if !strings.Contains(conflicts[0].Description, "ghost-capability") {
		t.Errorf("description should name the missing dependency: %q", conflicts[0].Description)
	}
}

func TestDetect_ResolvedDependencyQuiet(t *testing.T) {
	base := testCapability("base")
	app := testCapability("app")
	app.Dependencies = []string{"base"}
	store := newTestRegistry(t, base, app)
	d := NewDetector(store, similarity.NewScorer())

	conflicts := d.Detect(testTemplate("t1", "Fresh", "Unrelated new template"), "")
	if len(conflicts) != 0 {
		t.Fatalf("resolved dependency flagged: %v", typesOf(conflicts))
	}
}

func TestFindSimilarTemplates_Ordering(t *testing.T) {
	ref := testTemplate("ref", "web-service", "Production web service scaffold")
	near := testTemplate("near", "web-servico", "Production web service scaffold")
	far := testTemplate("far", "queue-worker", "Background job processor")
	mid := testTemplate("mid", "web-servers", "Production web server bootstrap")

	store := newTestRegistry(t, testCapability("a", far, near), testCapability("b", mid))
	d := NewDetector(store, similarity.NewScorer())

	matches := d.FindSimilarTemplates(ref, 0.6)
	if len(matches) < 2 {
		t.Fatalf("expected at least 2 matches, got %d", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Errorf("matches not in descending score order: %v then %v", matches[i-1].Score, matches[i].Score)
		}
	}
	if matches[0].Template.ID != "near" {
		t.Errorf("best match = %q, want %q", matches[0].Template.ID, "near")
	}
	for _, m := range matches {
		if m.Template.ID == "far" {
			t.Error("dissimilar template cleared the threshold")
		}
		if m.Template.ID == "ref" {
			t.Error("reference matched itself")
		}
	}
}

func TestFindSimilarTemplates_ThresholdInclusive(t *testing.T) {
	ref := testTemplate("ref", "web-service", "Production web service scaffold")
	identicalFields := testTemplate("twin", "web-service", "Production web service scaffold")
	store := newTestRegistry(t, testCapability("a", identicalFields))
	d := NewDetector(store, similarity.NewScorer())

	matches := d.FindSimilarTemplates(ref, 1.0)
	if len(matches) != 1 {
		t.Fatalf("score exactly at threshold should match, got %d matches", len(matches))
	}
	if matches[0].Score != 1.0 {
		t.Errorf("twin score = %v, want 1.0", matches[0].Score)
	}
}
