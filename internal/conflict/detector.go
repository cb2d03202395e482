package conflict

import (
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/lodestar-idp/lodestar/internal/capability"
	"github.com/lodestar-idp/lodestar/internal/similarity"
)

// functionalityThreshold is the similarity score above which two
// templates are considered functional duplicates. Strictly greater-than:
// a score of exactly 0.85 is not a conflict.
const functionalityThreshold = 0.85

// Detector scans the registry for collisions against candidate
// templates.
type Detector struct {
	store  capability.Store
	scorer *similarity.Scorer
	usage  UsageSource
}

// NewDetector creates a Detector over the given store.
func NewDetector(store capability.Store, scorer *similarity.Scorer) *Detector {
	return &Detector{store: store, scorer: scorer}
}

// SetUsageSource attaches an optional monitoring collaborator. Nil-safe;
// detection works identically without one.
func (d *Detector) SetUsageSource(src UsageSource) {
	d.usage = src
}

// Detect scans every template across every capability against the
// candidate and returns zero or more conflicts in discovery order
// (capability insertion order × template list order). A single
// comparison can emit more than one conflict type.
//
// ownerID names the capability that owns (or will own) the candidate;
// the candidate's own stored entry is skipped so an already-registered
// template does not conflict with itself. Pass "" for an unregistered
// candidate.
func (d *Detector) Detect(candidate capability.Template, ownerID string) []Conflict {
	var conflicts []Conflict

	for _, cap := range d.store.List() {
		for i := range cap.Templates {
			existing := cap.Templates[i]
			if cap.ID == ownerID && existing.ID == candidate.ID {
				continue
			}

			if existing.ID == candidate.ID {
				conflicts = append(conflicts, Conflict{
					Type:     TypeID,
					Severity: SeverityCritical,
					Description: fmt.Sprintf("template id %q already exists under capability %q",
						candidate.ID, cap.ID),
					ConflictingTemplate:  &existing,
					AffectedCapabilities: []string{cap.ID},
				})
			}

			if existing.Name == candidate.Name {
				conflicts = append(conflicts, Conflict{
					Type:     TypeName,
					Severity: SeverityHigh,
					Description: fmt.Sprintf("template name %q collides with template %q under capability %q",
						candidate.Name, existing.ID, cap.ID),
					ConflictingTemplate:  &existing,
					AffectedCapabilities: []string{cap.ID},
				})

				if !versionsEqual(existing.Version, candidate.Version) {
					conflicts = append(conflicts, Conflict{
						Type:     TypeVersion,
						Severity: SeverityLow,
						Description: fmt.Sprintf("template %q exists in diverging versions %s and %s",
							candidate.Name, existing.Version, candidate.Version),
						ConflictingTemplate:  &existing,
						AffectedCapabilities: []string{cap.ID},
					})
				}
			}

			if score := d.scorer.Score(candidate, existing); score > functionalityThreshold {
				conflicts = append(conflicts, Conflict{
					Type:     TypeFunctionality,
					Severity: SeverityMedium,
					Description: fmt.Sprintf("template %q overlaps template %q functionally (similarity %.2f)",
						candidate.ID, existing.ID, score),
					ConflictingTemplate:  &existing,
					AffectedCapabilities: []string{cap.ID},
				})
			}
		}

		// Missing-dependency check for the scanned capability. Dependency
		// ids are tolerated as forward references at insert time, so every
		// scan re-verifies they resolve. Independent of the candidate's
		// own fields.
		for _, dep := range cap.Dependencies {
			if _, err := d.store.Get(dep); err != nil {
				conflicts = append(conflicts, Conflict{
					Type:     TypeDependency,
					Severity: SeverityHigh,
					Description: fmt.Sprintf("capability %q depends on %q, which is not registered",
						cap.ID, dep),
					AffectedCapabilities: []string{cap.ID},
				})
			}
		}
	}

	return conflicts
}

// FindSimilarTemplates returns every stored template scoring at or
// above the threshold against ref, excluding ref's own entry, ordered
// by descending similarity. Ties keep discovery order.
func (d *Detector) FindSimilarTemplates(ref capability.Template, threshold float64) []Match {
	var matches []Match
	for _, cap := range d.store.List() {
		for i := range cap.Templates {
			existing := cap.Templates[i]
			if existing.ID == ref.ID {
				continue
			}
			if score := d.scorer.Score(ref, existing); score >= threshold {
				matches = append(matches, Match{Template: existing, CapabilityID: cap.ID, Score: score})
			}
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	return matches
}

// versionsEqual compares two semantic version strings. Unparseable
// versions fall back to string comparison; validation normally keeps
// them well-formed before they reach the store.
func versionsEqual(a, b string) bool {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return va.Equal(vb)
}
