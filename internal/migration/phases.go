package migration

// phaseTable defines the fixed phase expansion for each strategy. The
// phase content is strategy-specific prose, not computed from plan
// specifics; the field values are behaviorally load-bearing for
// duration estimation, so they live in one table.
var phaseTable = map[Strategy][]Phase{
	StrategyDirect: {
		{
			ID:          "direct-preparation",
			Name:        "Migration Preparation",
			Description: "Validate the target template and prepare cut-over",
			Duration:    "1 week",
			Prerequisites: []string{
				"Target template deployed and reachable",
				"Consumer inventory confirmed",
			},
			Steps: []string{
				"Snapshot current template configuration",
				"Validate target template against consumer contracts",
				"Announce the cut-over window",
			},
			ValidationCriteria: []string{
				"Target template passes contract validation",
				"All consumers acknowledged the cut-over window",
			},
			RollbackSteps: []string{
				"Discard prepared cut-over configuration",
			},
		},
		{
			ID:          "direct-execution",
			Name:        "Direct Migration",
			Description: "Switch all consumers to the target template at once",
			Duration:    "3 days",
			Prerequisites: []string{
				"Preparation phase completed",
			},
			Steps: []string{
				"Repoint consumers to the target template",
				"Run post-cut-over smoke checks",
				"Retire the source template routing",
			},
			ValidationCriteria: []string{
				"All consumers resolve the target template",
				"Error rates within pre-migration baseline",
			},
			RollbackSteps: []string{
				"Repoint consumers back to the source template",
				"Restore source template routing",
			},
		},
	},
	StrategyPhased: {
		{
			ID:          "phased-pilot",
			Name:        "Pilot Migration",
			Description: "Move a pilot group of consumers to the target template",
			Duration:    "2 weeks",
			Prerequisites: []string{
				"Pilot consumer group selected",
				"Target template deployed and reachable",
			},
			Steps: []string{
				"Migrate the pilot group to the target template",
				"Collect pilot feedback and error budgets",
				"Adjust the target template configuration",
			},
			ValidationCriteria: []string{
				"Pilot group runs on the target without regressions",
			},
			RollbackSteps: []string{
				"Return the pilot group to the source template",
			},
		},
		{
			ID:          "phased-rollout",
			Name:        "Gradual Rollout",
			Description: "Migrate remaining consumers in scheduled waves",
			Duration:    "4 weeks",
			Prerequisites: []string{
				"Pilot phase completed",
			},
			Steps: []string{
				"Schedule migration waves for remaining consumers",
				"Migrate each wave and verify before the next",
				"Decommission source template routing after the final wave",
			},
			ValidationCriteria: []string{
				"Every wave verified before the next began",
				"No consumers remain on the source template",
			},
			RollbackSteps: []string{
				"Halt remaining waves",
				"Return migrated waves to the source template",
			},
		},
	},
	StrategyParallel: {
		{
			ID:          "parallel-setup",
			Name:        "Parallel Setup",
			Description: "Run source and target templates side by side",
			Duration:    "1 week",
			Prerequisites: []string{
				"Capacity for parallel operation verified",
			},
			Steps: []string{
				"Deploy the target template alongside the source",
				"Mirror traffic to the target for comparison",
				"Compare outputs between source and target",
			},
			ValidationCriteria: []string{
				"Mirrored traffic produces matching results",
			},
			RollbackSteps: []string{
				"Tear down the parallel target deployment",
			},
		},
		{
			ID:          "parallel-traffic",
			Name:        "Traffic Migration",
			Description: "Shift live traffic to the target in stages: 10%, 50%, 100%",
			Duration:    "3 weeks",
			Prerequisites: []string{
				"Parallel setup phase completed",
			},
			Steps: []string{
				"Shift 10% of traffic to the target template",
				"Shift 50% of traffic to the target template",
				"Shift 100% of traffic to the target template",
				"Decommission the source template routing",
			},
			ValidationCriteria: []string{
				"Each traffic stage held within error budget",
				"Full traffic served by the target template",
			},
			RollbackSteps: []string{
				"Shift traffic back to the source template",
				"Hold at the last stable stage",
			},
		},
	},
	StrategyGradual: {
		{
			ID:          "gradual-announcement",
			Name:        "Deprecation Announcement",
			Description: "Announce the retirement and freeze new adoption",
			Duration:    "1 week",
			Prerequisites: []string{
				"Deprecation decision approved",
			},
			Steps: []string{
				"Publish the deprecation announcement",
				"Block new consumers from adopting the template",
				"Notify existing consumers of the timeline",
			},
			ValidationCriteria: []string{
				"Announcement delivered to all registered consumers",
				"New adoption blocked",
			},
			RollbackSteps: []string{
				"Withdraw the announcement",
				"Re-open adoption",
			},
		},
		{
			ID:          "gradual-reduction",
			Name:        "Support Reduction",
			Description: "Step support down while consumers move off the template",
			Duration:    "8 weeks",
			Prerequisites: []string{
				"Announcement phase completed",
			},
			Steps: []string{
				"Reduce support to maintenance fixes only",
				"Track consumer migration progress",
				"Reduce support to security fixes only",
				"Retire the template at end of life",
			},
			ValidationCriteria: []string{
				"No consumers remain at end of life",
				"Support level reductions announced ahead of each step",
			},
			RollbackSteps: []string{
				"Restore the previous support level",
				"Extend the retirement timeline",
			},
		},
	},
}

// PhasesFor returns a fresh copy of the phase expansion for a strategy,
// all phases pending. Copies keep callers from mutating the table.
func PhasesFor(strategy Strategy) ([]Phase, error) {
	if err := ValidateStrategy(strategy); err != nil {
		return nil, err
	}
	blueprint := phaseTable[strategy]
	phases := make([]Phase, len(blueprint))
	for i, p := range blueprint {
		phases[i] = p.clone()
		phases[i].Status = PhasePending
	}
	return phases, nil
}

// clone deep-copies a phase's slices.
func (p Phase) clone() Phase {
	out := p
	out.Prerequisites = append([]string(nil), p.Prerequisites...)
	out.Steps = append([]string(nil), p.Steps...)
	out.ValidationCriteria = append([]string(nil), p.ValidationCriteria...)
	out.RollbackSteps = append([]string(nil), p.RollbackSteps...)
	return out
}
