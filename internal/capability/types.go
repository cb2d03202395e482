// Package capability defines the registry's core records — capabilities and
// the versioned templates they own — together with their classification
// enums, structural validation, and the in-memory Store.
//
// This package follows the same design principles as the rest of Lodestar:
// - SRP: types, validation, errors, and the store live in separate files
// - DIP: Store is an interface; tools depend on the abstraction
// - OCP: new maturity levels or phases extend the tables, not the consumers
package capability

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// --- Maturity level enum ---

// MaturityLevel classifies how operationally complete a capability or
// template is. Levels are totally ordered: Generation < Deployment <
// Operations < Governance < IntentDriven.
type MaturityLevel string

const (
	MaturityGeneration   MaturityLevel = "generation"
	MaturityDeployment   MaturityLevel = "deployment"
	MaturityOperations   MaturityLevel = "operations"
	MaturityGovernance   MaturityLevel = "governance"
	MaturityIntentDriven MaturityLevel = "intent-driven"
)

// maturityRank maps each level to its ordinal position. Also serves as
// the set of valid levels.
var maturityRank = map[MaturityLevel]int{
	MaturityGeneration:   0,
	MaturityDeployment:   1,
	MaturityOperations:   2,
	MaturityGovernance:   3,
	MaturityIntentDriven: 4,
}

// Rank returns the ordinal position of the level, or -1 if unknown.
func (m MaturityLevel) Rank() int {
	r, ok := maturityRank[m]
	if !ok {
		return -1
	}
	return r
}

// AtLeast reports whether m is at or above other in the maturity order.
// Unknown levels are never at least anything.
func (m MaturityLevel) AtLeast(other MaturityLevel) bool {
	mr, or := m.Rank(), other.Rank()
	return mr >= 0 && or >= 0 && mr >= or
}

// ValidateMaturity returns an error if the level is not recognized.
func ValidateMaturity(m MaturityLevel) error {
	if _, ok := maturityRank[m]; !ok {
		return fmt.Errorf("invalid maturity level %q: must be one of: generation, deployment, operations, governance, intent-driven", m)
	}
	return nil
}

// --- Development phase enum ---

// Phase describes where a capability or template sits in its development
// lifecycle. Unlike MaturityLevel, phases carry no ordering guarantees.
type Phase string

const (
	PhaseDesign      Phase = "design"
	PhaseDevelopment Phase = "development"
	PhasePilot       Phase = "pilot"
	PhaseProduction  Phase = "production"
	PhaseSunset      Phase = "sunset"
)

// validPhases is the set of allowed phases.
var validPhases = map[Phase]bool{
	PhaseDesign:      true,
	PhaseDevelopment: true,
	PhasePilot:       true,
	PhaseProduction:  true,
	PhaseSunset:      true,
}

// ValidatePhase returns an error if the phase is not recognized.
func ValidatePhase(p Phase) error {
	if !validPhases[p] {
		return fmt.Errorf("invalid phase %q: must be one of: design, development, pilot, production, sunset", p)
	}
	return nil
}

// --- Core data structures ---

// Template is a concrete, versioned artifact implementing a capability.
// A template is owned by exactly one capability at a time; ownership is
// membership in that capability's Templates list.
type Template struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Version     string        `json:"version"`
	Maturity    MaturityLevel `json:"maturity_level"`
	Phase       Phase         `json:"phase"`
	CreatedAt   string        `json:"created_at"`
}

// Capability is a named unit of platform functionality that owns an
// ordered list of templates and may depend on other capabilities by id.
type Capability struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Maturity     MaturityLevel `json:"maturity_level"`
	Phase        Phase         `json:"phase"`
	Templates    []Template    `json:"templates"`
	Dependencies []string      `json:"dependencies"`
}

// Update carries a partial mutation for an existing capability. Nil fields
// are left untouched. The capability id is immutable and has no field here.
type Update struct {
	Name         *string        `json:"name,omitempty"`
	Description  *string        `json:"description,omitempty"`
	Phase        *Phase         `json:"phase,omitempty"`
	Dependencies *[]string      `json:"dependencies,omitempty"`
	Maturity     *MaturityLevel `json:"maturity_level,omitempty"`
}

// --- Structural validation ---

// Validate checks a capability for structural soundness: non-empty id,
// name and description, and recognized enum values. Dependency ids are
// not resolved here — forward references are tolerated during bulk load
// and checked at delete time instead.
func (c *Capability) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: capability id must not be empty", ErrInvalidCapability)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: capability %q: name must not be empty", ErrInvalidCapability, c.ID)
	}
	if c.Description == "" {
		return fmt.Errorf("%w: capability %q: description must not be empty", ErrInvalidCapability, c.ID)
	}
	if err := ValidateMaturity(c.Maturity); err != nil {
		return fmt.Errorf("%w: capability %q: %v", ErrInvalidCapability, c.ID, err)
	}
	if err := ValidatePhase(c.Phase); err != nil {
		return fmt.Errorf("%w: capability %q: %v", ErrInvalidCapability, c.ID, err)
	}
	for _, tpl := range c.Templates {
		if err := tpl.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks a template for structural soundness. The version must
// parse as semantic versioning — downstream conflict handling bumps and
// compares versions and needs them well-formed up front.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: template id must not be empty", ErrInvalidTemplate)
	}
	if t.Name == "" {
		return fmt.Errorf("%w: template %q: name must not be empty", ErrInvalidTemplate, t.ID)
	}
	if _, err := semver.NewVersion(t.Version); err != nil {
		return fmt.Errorf("%w: template %q: version %q is not semantic: %v", ErrInvalidTemplate, t.ID, t.Version, err)
	}
	if err := ValidateMaturity(t.Maturity); err != nil {
		return fmt.Errorf("%w: template %q: %v", ErrInvalidTemplate, t.ID, err)
	}
	if err := ValidatePhase(t.Phase); err != nil {
		return fmt.Errorf("%w: template %q: %v", ErrInvalidTemplate, t.ID, err)
	}
	return nil
}

// Clone returns a deep copy of the capability. Reads from the store hand
// out clones so callers can never mutate registry state through an
// aliased reference.
func (c *Capability) Clone() Capability {
	out := *c
	out.Templates = make([]Template, len(c.Templates))
	copy(out.Templates, c.Templates)
	out.Dependencies = make([]string, len(c.Dependencies))
	copy(out.Dependencies, c.Dependencies)
	return out
}
