package sim

import (
	"fmt"
	"math"
)

const (
	minScriptQualityForPre = 6.0

	preProductionWeeks  = 4
	productionWeeks     = 10
	postProductionWeeks = 6
	distributionWeeks   = 4

	theatricalRunWeeks = 8
)

// phaseBurnRate is the weekly spend as a fraction of the budget ceiling.
var phaseBurnRate = map[Phase]float64{
	PhaseDevelopment:    0.004,
	PhasePreProduction:  0.010,
	PhaseProduction:     0.030,
	PhasePostProduction: 0.015,
	PhaseDistribution:   0.008,
	PhaseReleased:       0,
}

// EstimateWeeklyBurn returns the burn the next EndWeek will charge for a
// project; it must agree with the applied burn to the dollar.
func (e *Engine) EstimateWeeklyBurn(projectID string) int64 {
	p := e.project(projectID)
	if p == nil {
		return 0
	}
	return weeklyBurn(p)
}

func weeklyBurn(p *Project) int64 {
	rate := phaseBurnRate[p.Phase]
	if rate == 0 {
		return 0
	}
	return int64(math.Round(float64(p.Budget.Ceiling) * rate))
}

// applyWeeklyBurn charges each project's phase burn, accumulates actual
// spend, ticks schedules down, and flips productionStatus when spend
// crosses the ceiling.
func (e *Engine) applyWeeklyBurn() {
	for _, p := range e.projects {
		burn := weeklyBurn(p)
		if burn > 0 {
			e.ledger.Debit(e.week, "burn", fmt.Sprintf("%s burn: %s", p.Phase, p.Title), burn)
			p.Budget.ActualSpend += burn
		}
		if p.ScheduledWeeksRemaining > 0 && p.Phase != PhaseDevelopment && p.Phase != PhaseReleased {
			p.ScheduledWeeksRemaining--
		}
		if p.Budget.ActualSpend > p.Budget.Ceiling {
			p.ProductionStatus = StatusAtRisk
		}
	}
}

// hasOpenCrisisFor reports whether any pending crisis references a project.
func (e *Engine) hasOpenCrisisFor(projectID string) bool {
	for _, c := range e.crises {
		if c.ProjectID == projectID {
			return true
		}
	}
	return false
}

// AdvanceProjectPhase moves a project one step along the pipeline. Every
// gate failure returns a structured reason; nothing here panics or errors.
func (e *Engine) AdvanceProjectPhase(projectID string) Result {
	p := e.project(projectID)
	if p == nil {
		return failf("project %s not found", projectID)
	}

	switch p.Phase {
	case PhaseDevelopment:
		if p.DirectorID == "" {
			return failf("%q needs a director before pre-production", p.Title)
		}
		if len(p.CastIDs) == 0 {
			return failf("%q needs at least one cast member before pre-production", p.Title)
		}
		if p.ScriptQuality < minScriptQualityForPre {
			return failf("%q script quality %.1f is below the %.0f required", p.Title, p.ScriptQuality, minScriptQualityForPre)
		}
		e.cancelNegotiationsForProject(p.ID)
		p.Phase = PhasePreProduction
		p.ScheduledWeeksRemaining = preProductionWeeks
		e.logEvent("%q entered pre-production", p.Title)
		return okf("%q entered pre-production (%d weeks scheduled)", p.Title, preProductionWeeks)

	case PhasePreProduction:
		if p.ScheduledWeeksRemaining > 0 {
			return failf("%q has %d pre-production weeks remaining", p.Title, p.ScheduledWeeksRemaining)
		}
		p.Phase = PhaseProduction
		p.ScheduledWeeksRemaining = productionWeeks
		e.logEvent("%q started principal photography", p.Title)
		return okf("%q is in production (%d weeks scheduled)", p.Title, productionWeeks)

	case PhaseProduction:
		if p.ScheduledWeeksRemaining > 0 {
			return failf("%q has %d production weeks remaining", p.Title, p.ScheduledWeeksRemaining)
		}
		if e.hasOpenCrisisFor(p.ID) {
			return failf("%q cannot wrap with an open crisis on set", p.Title)
		}
		p.Phase = PhasePostProduction
		p.ScheduledWeeksRemaining = postProductionWeeks
		e.logEvent("%q wrapped and moved to post", p.Title)
		return okf("%q is in post-production (%d weeks scheduled)", p.Title, postProductionWeeks)

	case PhasePostProduction:
		if p.ScheduledWeeksRemaining > 0 {
			return failf("%q has %d post-production weeks remaining", p.Title, p.ScheduledWeeksRemaining)
		}
		if p.Budget.Marketing <= 0 {
			return failf("%q needs a marketing budget before distribution", p.Title)
		}
		p.Phase = PhaseDistribution
		p.ScheduledWeeksRemaining = distributionWeeks
		e.generateDistributionOffers(p)
		e.logEvent("%q moved to distribution; %d offers on the table", p.Title, len(p.Offers))
		return okf("%q is in distribution with %d offers", p.Title, len(p.Offers))

	case PhaseDistribution:
		if p.ScheduledWeeksRemaining > 0 {
			return failf("%q has %d distribution-prep weeks remaining", p.Title, p.ScheduledWeeksRemaining)
		}
		if p.ReleaseWindow == "" {
			return failf("%q needs a release window before it can open", p.Title)
		}
		if e.week < p.ReleaseWeek {
			return failf("%q is scheduled to open week %d", p.Title, p.ReleaseWeek)
		}
		proj, valid := e.projectionFor(p)
		if !valid {
			return failf("%q has no valid projection; cannot release", p.Title)
		}
		e.releaseProject(p, proj)
		return okf("%q is open: $%d opening weekend", p.Title, p.OpeningGross)

	default:
		return failf("%q is released; a released project never transitions again", p.Title)
	}
}

// AbandonProject removes a project entirely: queues are purged, talent is
// released, and sunk spend stays on the books.
func (e *Engine) AbandonProject(projectID string) Result {
	p := e.project(projectID)
	if p == nil {
		return failf("project %s not found", projectID)
	}
	if p.Phase == PhaseReleased {
		return failf("%q is already released", p.Title)
	}
	e.cancelNegotiationsForProject(p.ID)
	e.detachFromProject(p)

	kept := e.crises[:0]
	for _, c := range e.crises {
		if c.ProjectID != p.ID {
			kept = append(kept, c)
		}
	}
	e.crises = kept

	keptDecisions := e.decisions[:0]
	for _, d := range e.decisions {
		if d.ProjectID != p.ID {
			keptDecisions = append(keptDecisions, d)
		}
	}
	e.decisions = keptDecisions

	if p.FranchiseID != "" {
		if f := e.franchise(p.FranchiseID); f != nil && f.ActiveEntryID == p.ID {
			f.ActiveEntryID = ""
		}
	}
	e.removeProject(p.ID)
	e.logEvent("%q was abandoned", p.Title)
	return okf("%q abandoned; $%d of spend written off", p.Title, p.Budget.ActualSpend)
}
