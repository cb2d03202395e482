package conflict

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/lodestar-idp/lodestar/internal/capability"
)

// Markers appended by the merge and deprecate strategies. Conservative
// placeholders: actual field unification and retirement are
// operator-driven follow-ups, not automated here.
const (
	mergedMarker     = " (Merged template)"
	deprecatedMarker = " (DEPRECATED)"
)

// renameSuffix disambiguates a colliding template id.
const renameSuffix = "-v2"

// Executor applies a chosen resolution strategy by mutating the affected
// template record in the store.
type Executor struct {
	store capability.Store
}

// NewExecutor creates an Executor over the given store.
func NewExecutor(store capability.Store) *Executor {
	return &Executor{store: store}
}

// Apply mutates the template identified by (capabilityID, templateID)
// according to the strategy and re-persists it over the prior entry.
// The mutated template is returned.
//
// A rename is not re-checked for a fresh collision with the suffixed id:
// the caller re-runs detection if it cares. Looping detect-and-rename
// until unique can ping-pong with concurrent writers, so the residual
// risk is surfaced to the operator instead.
func (e *Executor) Apply(strategy Strategy, capabilityID, templateID string) (capability.Template, error) {
	if err := ValidateStrategy(strategy); err != nil {
		return capability.Template{}, err
	}

	cap, err := e.store.Get(capabilityID)
	if err != nil {
		return capability.Template{}, err
	}

	var tpl capability.Template
	found := false
	for _, candidate := range cap.Templates {
		if candidate.ID == templateID {
			tpl = candidate
			found = true
			break
		}
	}
	if !found {
		return capability.Template{}, fmt.Errorf("%w: template %q under capability %q", capability.ErrNotFound, templateID, capabilityID)
	}

	switch strategy {
	case StrategyRename:
		tpl.ID = tpl.ID + renameSuffix
	case StrategyNamespace:
		tpl.Name = fmt.Sprintf("%s - %s", cap.Name, tpl.Name)
	case StrategyMerge:
		tpl.Description = tpl.Description + mergedMarker
	case StrategyVersion:
		bumped, err := bumpMajor(tpl.Version)
		if err != nil {
			return capability.Template{}, fmt.Errorf("%w: template %q: %v", capability.ErrInvalidTemplate, tpl.ID, err)
		}
		tpl.Version = bumped
	case StrategyDeprecate:
		tpl.Description = tpl.Description + deprecatedMarker
	}

	if err := e.store.ReplaceTemplate(capabilityID, templateID, tpl); err != nil {
		return capability.Template{}, err
	}
	return tpl, nil
}

// bumpMajor increments the major version component and resets minor and
// patch to zero.
func bumpMajor(version string) (string, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return "", fmt.Errorf("parsing version %q: %w", version, err)
	}
	next := v.IncMajor()
	return next.String(), nil
}
