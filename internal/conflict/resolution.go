package conflict

import "fmt"

// resolutionTable maps each conflict type to its resolution blueprint.
// One strategy per conflict type; a mixed list of conflicts yields one
// resolution per conflict, in the same order.
var resolutionTable = map[Type]Resolution{
	TypeID: {
		Strategy:    StrategyRename,
		Description: "Rename the template with a disambiguating id suffix",
		Steps: []string{
			"Generate a disambiguated template id (suffix -v2)",
			"Update references to the old template id",
			"Re-run conflict detection on the new id",
		},
		Effort: EffortSmall,
		Impact: ImpactLow,
		Risks: []string{
			"The suffixed id may itself collide and need another pass",
		},
		Benefits: []string{
			"Both templates remain available under distinct ids",
			"No consumer-facing behavior change",
		},
	},
	TypeName: {
		Strategy:    StrategyNamespace,
		Description: "Prefix the display name with the owning capability's name",
		Steps: []string{
			"Prefix the template's display name with its capability name",
			"Update catalog listings and documentation",
		},
		Effort: EffortSmall,
		Impact: ImpactLow,
		Risks: []string{
			"Longer names may truncate in catalog views",
		},
		Benefits: []string{
			"Display names become unambiguous across capabilities",
		},
	},
	TypeFunctionality: {
		Strategy:    StrategyMerge,
		Description: "Unify the overlapping templates into one configurable template",
		Steps: []string{
			"Compare the overlapping templates field by field",
			"Fold the differences into configuration options on one template",
			"Mark the merged template and deprecate the redundant one",
			"Migrate consumers of the redundant template",
		},
		Effort: EffortMedium,
		Impact: ImpactMedium,
		Risks: []string{
			"Merged configuration surface grows more complex",
			"Consumers of the redundant template need migration",
		},
		Benefits: []string{
			"One template to maintain instead of two near-duplicates",
			"Consistent behavior for all consumers",
		},
	},
	TypeVersion: {
		Strategy:    StrategyVersion,
		Description: "Adopt strict semantic versioning with a compatibility matrix",
		Steps: []string{
			"Bump the template to a distinct major version",
			"Publish a compatibility matrix for the diverging versions",
			"Document the upgrade path between versions",
		},
		Effort: EffortMedium,
		Impact: ImpactMedium,
		Risks: []string{
			"Consumers pinned to the old version lag behind",
		},
		Benefits: []string{
			"Version divergence becomes explicit and navigable",
		},
	},
	TypeDependency: {
		Strategy:    StrategyDeprecate,
		Description: "Phase out the unresolved dependency and migrate dependents",
		Steps: []string{
			"Identify every capability referencing the unresolved dependency",
			"Schedule deprecation of the dangling reference",
			"Migrate dependents to a registered capability",
			"Remove the unresolved dependency id",
		},
		Effort: EffortLarge,
		Impact: ImpactHigh,
		Risks: []string{
			"Dependents may break while the reference is phased out",
			"Migration spans multiple owning teams",
		},
		Benefits: []string{
			"Registry dependency graph becomes fully resolvable",
		},
	},
}

// GenerateResolutions maps each conflict to its resolution, preserving
// the conflict order. Pure: it never fails and never touches the store.
func GenerateResolutions(conflicts []Conflict) []Resolution {
	resolutions := make([]Resolution, 0, len(conflicts))
	for _, c := range conflicts {
		blueprint, ok := resolutionTable[c.Type]
		if !ok {
			// Unknown conflict types have no blueprint; skip rather than
			// invent a strategy.
			continue
		}
		r := blueprint.clone()
		r.Description = fmt.Sprintf("%s: %s", blueprint.Description, c.Description)
		resolutions = append(resolutions, r)
	}
	return resolutions
}

// clone copies the blueprint's slices so callers cannot mutate the
// table through a returned resolution.
func (r Resolution) clone() Resolution {
	out := r
	out.Steps = append([]string(nil), r.Steps...)
	out.Risks = append([]string(nil), r.Risks...)
	out.Benefits = append([]string(nil), r.Benefits...)
	return out
}
