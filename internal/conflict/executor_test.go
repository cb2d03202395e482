package conflict

import (
	"errors"
	"testing"

	"github.com/lodestar-idp/lodestar/internal/capability"
)

func executorFixture(t *testing.T) (*Executor, capability.Store) {
	t.Helper()
	tpl := testTemplate("web-api", "Web API", "REST scaffold for services")
	store := newTestRegistry(t, testCapability("backend", tpl))
	return NewExecutor(store), store
}

func TestApply_Rename(t *testing.T) {
	e, store := executorFixture(t)

	tpl, err := e.Apply(StrategyRename, "backend", "web-api")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if tpl.ID != "web-api-v2" {
		t.Errorf("renamed id = %q, want %q", tpl.ID, "web-api-v2")
	}

	// The mutated template replaced the old entry; the old id is gone.
	if _, _, err := store.FindTemplate("web-api"); !errors.Is(err, capability.ErrNotFound) {
		t.Error("old template id still resolvable after rename")
	}
	persisted, owner, err := store.FindTemplate("web-api-v2")
	if err != nil {
		t.Fatalf("renamed template not persisted: %v", err)
	}
	if owner != "backend" || persisted.Name != "Web API" {
		t.Errorf("persisted template wrong: %+v under %q", persisted, owner)
	}
}

func TestApply_Namespace(t *testing.T) {
	e, store := executorFixture(t)

	tpl, err := e.Apply(StrategyNamespace, "backend", "web-api")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if tpl.Name != "Capability backend - Web API" {
		t.Errorf("namespaced name = %q", tpl.Name)
	}
	persisted, _, _ := store.FindTemplate("web-api")
	if persisted.Name != tpl.Name {
		t.Errorf("namespace not persisted: %q", persisted.Name)
	}
}

func TestApply_Merge(t *testing.T) {
	e, _ := executorFixture(t)

	tpl, err := e.Apply(StrategyMerge, "backend", "web-api")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if tpl.Description != "REST scaffold for services (Merged template)" {
		t.Errorf("merged description = %q", tpl.Description)
	}
}

func TestApply_Version(t *testing.T) {
	e, store := executorFixture(t)

	tpl, err := e.Apply(StrategyVersion, "backend", "web-api")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if tpl.Version != "2.0.0" {
		t.Errorf("bumped version = %q, want %q", tpl.Version, "2.0.0")
	}
	persisted, _, _ := store.FindTemplate("web-api")
	if persisted.Version != "2.0.0" {
		t.Errorf("bump not persisted: %q", persisted.Version)
	}
}

func TestApply_Deprecate(t *testing.T) {
	e, _ := executorFixture(t)

	tpl, err := e.Apply(StrategyDeprecate, "backend", "web-api")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if tpl.Description != "REST scaffold for services (DEPRECATED)" {
		t.Errorf("deprecated description = %q", tpl.Description)
	}
}

func TestApply_UnknownStrategy(t *testing.T) {
	e, _ := executorFixture(t)
	if _, err := e.Apply("vaporize", "backend", "web-api"); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

func TestApply_MissingTargets(t *testing.T) {
	e, _ := executorFixture(t)

	if _, err := e.Apply(StrategyRename, "ghost", "web-api"); !errors.Is(err, capability.ErrNotFound) {
		t.Errorf("missing capability: expected ErrNotFound, got %v", err)
	}
	if _, err := e.Apply(StrategyRename, "backend", "ghost"); !errors.Is(err, capability.ErrNotFound) {
		t.Errorf("missing template: expected ErrNotFound, got %v", err)
	}
}

func TestBumpMajor(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"1.0.0", "2.0.0"},
		{"0.4.7", "1.0.0"},
		{"2.3.1", "3.0.0"},
	}
	for _, tc := range cases {
		got, err := bumpMajor(tc.in)
		if err != nil {
			t.Fatalf("bumpMajor(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("bumpMajor(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	if _, err := bumpMajor("latest"); err == nil {
		t.Error("expected error for non-semver version")
	}
}
