// Package deprecation builds end-of-life timelines for templates being
// retired: a fixed grace period, three notification checkpoints, a
// support-level derivation, and an embedded migration plan toward the
// best replacement candidate the registry offers.
package deprecation

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lodestar-idp/lodestar/internal/capability"
	"github.com/lodestar-idp/lodestar/internal/conflict"
	"github.com/lodestar-idp/lodestar/internal/migration"
)

// gracePeriod is the fixed lead time between plan creation and the
// deprecation date.
const gracePeriod = 30 * 24 * time.Hour

// finalNoticeLead is how far before end of life the final notice goes out.
const finalNoticeLead = 14 * 24 * time.Hour

// replacementThreshold is the minimum similarity for a stored template
// to qualify as a replacement candidate.
const replacementThreshold = 0.5

// --- Support level enum ---

// SupportLevel describes what support a template receives during its
// retirement window. Derived purely from the timeline length.
type SupportLevel string

const (
	SupportFull         SupportLevel = "full"
	SupportMaintenance  SupportLevel = "maintenance"
	SupportSecurityOnly SupportLevel = "security-only"
	SupportNone         SupportLevel = "none"
)

// --- Notification type enum ---

// NotificationType names one of the three fixed checkpoints.
type NotificationType string

const (
	NotifyAnnouncement NotificationType = "announcement"
	NotifyWarning      NotificationType = "warning"
	NotifyFinalNotice  NotificationType = "final-notice"
)

// --- Core data structures ---

// Notification is one scheduled message in the retirement timeline.
type Notification struct {
	ID       string           `json:"id"`
	Date     string           `json:"date"`
	Type     NotificationType `json:"type"`
	Channels []string         `json:"channels"`
	Message  string           `json:"message"`
}

// Plan is a complete retirement schedule for a template.
type Plan struct {
	ID                   string                `json:"id"`
	Template             capability.Template   `json:"template"`
	DeprecationDate      string                `json:"deprecation_date"`
	EndOfLifeDate        string                `json:"end_of_life_date"`
	Reason               string                `json:"reason"`
	ReplacementTemplates []capability.Template `json:"replacement_templates"`
	MigrationPlan        migration.Plan        `json:"migration_plan"`
	Notifications        []Notification        `json:"notification_schedule"`
	SupportLevel         SupportLevel          `json:"support_level"`
}

// notifyChannels is where retirement notifications go.
var notifyChannels = []string{"email", "slack", "platform-banner"}

// Scheduler builds deprecation plans.
type Scheduler struct {
	store    capability.Store
	detector *conflict.Detector
	planner  *migration.Planner
}

// NewScheduler creates a Scheduler over the given collaborators.
func NewScheduler(store capability.Store, detector *conflict.Detector, planner *migration.Planner) *Scheduler {
	return &Scheduler{store: store, detector: detector, planner: planner}
}

// CreatePlan resolves the template, computes the retirement timeline,
// ranks replacement candidates, and embeds a migration plan toward the
// top candidate (or a pure gradual deprecation when none qualifies).
// Fails with capability.ErrNotFound if the template id does not resolve
// anywhere in the registry.
func (s *Scheduler) CreatePlan(templateID, reason string, timelineMonths int) (Plan, error) {
	tpl, _, err := s.store.FindTemplate(templateID)
	if err != nil {
		return Plan{}, err
	}
	if timelineMonths < 1 {
		return Plan{}, fmt.Errorf("deprecation timeline must be at least 1 month, got %d", timelineMonths)
	}

	now := timeNow().UTC()
	deprecationDate := now.Add(gracePeriod)
	endOfLife := now.AddDate(0, timelineMonths, 0)

	// Replacement candidates: similar enough, at or above the source's
	// maturity, best match first.
	var replacements []capability.Template
	for _, match := range s.detector.FindSimilarTemplates(tpl, replacementThreshold) {
		if match.Template.Maturity.AtLeast(tpl.Maturity) {
			replacements = append(replacements, match.Template)
		}
	}

	var target *capability.Template
	if len(replacements) > 0 {
		t := replacements[0]
		target = &t
	}
	migrationPlan, err := s.planner.CreatePlan(tpl, target)
	if err != nil {
		return Plan{}, fmt.Errorf("building migration plan for %q: %w", templateID, err)
	}

	return Plan{
		ID:                   uuid.NewString(),
		Template:             tpl,
		DeprecationDate:      deprecationDate.Format(time.RFC3339),
		EndOfLifeDate:        endOfLife.Format(time.RFC3339),
		Reason:               reason,
		ReplacementTemplates: replacements,
		MigrationPlan:        migrationPlan,
		Notifications:        notificationSchedule(tpl, deprecationDate, endOfLife),
		SupportLevel:         supportLevel(timelineMonths),
	}, nil
}

// supportLevel derives the support commitment from the timeline length.
func supportLevel(timelineMonths int) SupportLevel {
	switch {
	case timelineMonths >= 12:
		return SupportFull
	case timelineMonths >= 6:
		return SupportMaintenance
	case timelineMonths >= 2:
		return SupportSecurityOnly
	default:
		return SupportNone
	}
}

// notificationSchedule emits the three fixed checkpoints: at the
// deprecation date, at the midpoint between deprecation and end of
// life, and fourteen days before end of life.
func notificationSchedule(tpl capability.Template, deprecationDate, endOfLife time.Time) []Notification {
	midpoint := deprecationDate.Add(endOfLife.Sub(deprecationDate) / 2)
	finalNotice := endOfLife.Add(-finalNoticeLead)

	return []Notification{
		{
			ID:       uuid.NewString(),
			Date:     deprecationDate.Format(time.RFC3339),
			Type:     NotifyAnnouncement,
			Channels: append([]string(nil), notifyChannels...),
			Message: fmt.Sprintf("Template %q (%s) is deprecated as of this date. End of life: %s.",
				tpl.Name, tpl.ID, endOfLife.Format("2006-01-02")),
		},
		{
			ID:       uuid.NewString(),
			Date:     midpoint.Format(time.RFC3339),
			Type:     NotifyWarning,
			Channels: append([]string(nil), notifyChannels...),
			Message: fmt.Sprintf("Template %q (%s) is halfway to end of life on %s. Migrate remaining consumers.",
				tpl.Name, tpl.ID, endOfLife.Format("2006-01-02")),
		},
		{
			ID:       uuid.NewString(),
			Date:     finalNotice.Format(time.RFC3339),
			Type:     NotifyFinalNotice,
			Channels: append([]string(nil), notifyChannels...),
			Message: fmt.Sprintf("Final notice: template %q (%s) reaches end of life on %s.",
				tpl.Name, tpl.ID, endOfLife.Format("2006-01-02")),
		},
	}
}
