// Package conflict detects collisions between a candidate template and
// the registry, proposes ranked resolution strategies, and applies the
// one the operator picks.
//
// Conflicts and resolutions are ephemeral — computed on demand, never
// persisted. Detection and generation never fail for business reasons;
// an empty slice means nothing was found.
package conflict

import (
	"fmt"

	"github.com/lodestar-idp/lodestar/internal/capability"
)

// --- Conflict type enum ---

// Type classifies what kind of collision was detected.
type Type string

const (
	TypeID            Type = "id"
	TypeName          Type = "name"
	TypeFunctionality Type = "functionality"
	TypeDependency    Type = "dependency"
	TypeVersion       Type = "version"
)

// --- Severity enum ---

// Severity grades how urgently a conflict needs operator attention.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// --- Resolution strategy enum ---

// Strategy names a way to remove a conflict. Each conflict type maps to
// exactly one strategy; the mapping lives in resolution.go.
type Strategy string

const (
	StrategyRename    Strategy = "rename"
	StrategyNamespace Strategy = "namespace"
	StrategyMerge     Strategy = "merge"
	StrategyVersion   Strategy = "version"
	StrategyDeprecate Strategy = "deprecate"
)

// validStrategies is the set of allowed strategies.
var validStrategies = map[Strategy]bool{
	StrategyRename:    true,
	StrategyNamespace: true,
	StrategyMerge:     true,
	StrategyVersion:   true,
	StrategyDeprecate: true,
}

// ValidateStrategy returns an error if the strategy is not recognized.
func ValidateStrategy(s Strategy) error {
	if !validStrategies[s] {
		return fmt.Errorf("invalid resolution strategy %q: must be one of: rename, namespace, merge, version, deprecate", s)
	}
	return nil
}

// --- Effort / impact enums ---

// Effort estimates how much work a resolution takes.
type Effort string

const (
	EffortSmall  Effort = "small"
	EffortMedium Effort = "medium"
	EffortLarge  Effort = "large"
)

// Impact estimates how disruptive a resolution is to consumers.
type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

// --- Core data structures ---

// Conflict is one detected collision between a candidate template and
// registry state.
type Conflict struct {
	Type                 Type                 `json:"type"`
	Severity             Severity             `json:"severity"`
	Description          string               `json:"description"`
	ConflictingTemplate  *capability.Template `json:"conflicting_template,omitempty"`
	AffectedCapabilities []string             `json:"affected_capabilities"`
}

// Resolution is one proposed strategy to remove a conflict. Steps are a
// human-actionable checklist; risks and benefits are operator decision
// support, not machine-executed.
type Resolution struct {
	Strategy    Strategy `json:"strategy"`
	Description string   `json:"description"`
	Steps       []string `json:"steps"`
	Impact      Impact   `json:"impact"`
	Effort      Effort   `json:"effort"`
	Risks       []string `json:"risks"`
	Benefits    []string `json:"benefits"`
}

// Match pairs a stored template with its similarity to a reference
// template, used for replacement-candidate lookups.
type Match struct {
	Template     capability.Template `json:"template"`
	CapabilityID string              `json:"capability_id"`
	Score        float64             `json:"score"`
}

// UsageSignal is a read-only health/usage sample for a template,
// supplied by an external monitoring collaborator.
type UsageSignal struct {
	Executions  int     `json:"executions"`
	SuccessRate float64 `json:"success_rate"`
}

// UsageSource provides usage signals. Optional — detection runs without
// one. Reserved for biasing conflict severity in a future extension;
// current scoring does not read it.
type UsageSource interface {
	Usage(templateID string) (UsageSignal, bool)
}
