package sim

import "math"

// Optional in-phase actions. Each one has an explicit cost, an eligibility
// gate, and a bounded effect; the caps below are the whole balance story, so
// changing one changes game feel.

const (
	scriptSprintCost       = int64(150_000)
	scriptSprintGain       = 0.4
	scriptSprintQualityCap = 9.5

	polishPassCost   = int64(400_000)
	polishPassGain   = 0.5
	polishPassMaxUse = 2

	testScreeningCost = int64(250_000)

	reshootRate       = 0.03
	reshootMaxOrders  = 2
	reshootExtraWeeks = 2

	festivalEntryCost  = int64(180_000)
	festivalMinQuality = 6.5

	trackingAdvanceRate = 0.15
	trackingShareGiveup = 0.05
)

// ScriptSprint buys another writers-room pass during development.
func (e *Engine) ScriptSprint(projectID string) Result {
	p := e.project(projectID)
	if p == nil {
		return failf("project %s not found", projectID)
	}
	if p.Phase != PhaseDevelopment {
		return failf("script sprints only run during development")
	}
	if p.ScriptQuality >= scriptSprintQualityCap {
		return failf("%q script is already at the %.1f ceiling", p.Title, scriptSprintQualityCap)
	}
	if !e.ledger.CanAfford(scriptSprintCost) {
		return failf("cannot cover the $%d sprint cost", scriptSprintCost)
	}
	e.ledger.Debit(e.week, "action", "script sprint: "+p.Title, scriptSprintCost)
	p.ScriptQuality = math.Min(p.ScriptQuality+scriptSprintGain, scriptSprintQualityCap)
	p.SprintCount++
	e.logEvent("script sprint on %q (quality %.1f)", p.Title, p.ScriptQuality)
	return okf("script sprint complete: %q quality now %.1f", p.Title, p.ScriptQuality)
}

// PolishPass buys an extra editorial pass in post, at most twice.
func (e *Engine) PolishPass(projectID string) Result {
	p := e.project(projectID)
	if p == nil {
		return failf("project %s not found", projectID)
	}
	if p.Phase != PhasePostProduction {
		return failf("polish passes only run during post-production")
	}
	if p.PolishCount >= polishPassMaxUse {
		return failf("%q has used all %d polish passes", p.Title, polishPassMaxUse)
	}
	if !e.ledger.CanAfford(polishPassCost) {
		return failf("cannot cover the $%d polish cost", polishPassCost)
	}
	e.ledger.Debit(e.week, "action", "polish pass: "+p.Title, polishPassCost)
	p.EditorialScore = clamp(p.EditorialScore+polishPassGain, 0, 10)
	p.PolishCount++
	e.logEvent("polish pass on %q (editorial %.1f)", p.Title, p.EditorialScore)
	return okf("polish pass %d/%d: %q editorial now %.1f", p.PolishCount, polishPassMaxUse, p.Title, p.EditorialScore)
}

// TestScreening runs a recruited-audience screening, once per project.
func (e *Engine) TestScreening(projectID string) Result {
	p := e.project(projectID)
	if p == nil {
		return failf("project %s not found", projectID)
	}
	if p.Phase != PhasePostProduction {
		return failf("test screenings only run during post-production")
	}
	if p.TestScreeningDone {
		return failf("%q has already been test screened", p.Title)
	}
	if !e.ledger.CanAfford(testScreeningCost) {
		return failf("cannot cover the $%d screening cost", testScreeningCost)
	}
	e.ledger.Debit(e.week, "action", "test screening: "+p.Title, testScreeningCost)
	p.TestScreeningDone = true
	p.CommercialAppeal = clamp(p.CommercialAppeal+0.3, 0, 10)
	p.EditorialScore = clamp(p.EditorialScore+0.2, 0, 10)
	p.HypeScore = clamp(p.HypeScore+4, 0, 100)
	e.logEvent("test screening for %q", p.Title)
	return okf("test screening done: %q appeal %.1f, hype %.0f", p.Title, p.CommercialAppeal, p.HypeScore)
}

// OrderReshoot adds schedule weeks in exchange for quality, with a rising
// overrun risk.
func (e *Engine) OrderReshoot(projectID string) Result {
	p := e.project(projectID)
	if p == nil {
		return failf("project %s not found", projectID)
	}
	if p.Phase != PhasePostProduction {
		return failf("reshoots are ordered during post-production")
	}
	if p.ReshootCount >= reshootMaxOrders {
		return failf("%q has already burned %d reshoot windows", p.Title, reshootMaxOrders)
	}
	cost := int64(math.Round(float64(p.Budget.Ceiling) * reshootRate))
	if !e.ledger.CanAfford(cost) {
		return failf("cannot cover the $%d reshoot cost", cost)
	}
	e.ledger.Debit(e.week, "action", "reshoot: "+p.Title, cost)
	p.ReshootCount++
	p.ScheduledWeeksRemaining += reshootExtraWeeks
	p.ScriptQuality = clamp(p.ScriptQuality+0.3, 0, 10)
	p.EditorialScore = clamp(p.EditorialScore+0.4, 0, 10)
	p.Budget.OverrunRisk = clamp(p.Budget.OverrunRisk+0.05, 0, 1)
	e.logEvent("reshoots ordered on %q (+%d weeks)", p.Title, reshootExtraWeeks)
	return okf("reshoots ordered on %q: +%d weeks, $%d", p.Title, reshootExtraWeeks, cost)
}

// SubmitToFestival enters the film on the festival circuit once, for
// prestige and hype.
func (e *Engine) SubmitToFestival(projectID string) Result {
	p := e.project(projectID)
	if p == nil {
		return failf("project %s not found", projectID)
	}
	if p.Phase != PhasePostProduction && p.Phase != PhaseDistribution {
		return failf("festival submissions happen in post-production or distribution")
	}
	if p.FestivalSubmitted {
		return failf("%q is already on the festival circuit", p.Title)
	}
	if p.ScriptQuality < festivalMinQuality {
		return failf("%q (quality %.1f) will not clear festival programming", p.Title, p.ScriptQuality)
	}
	if !e.ledger.CanAfford(festivalEntryCost) {
		return failf("cannot cover the $%d festival entry", festivalEntryCost)
	}
	e.ledger.Debit(e.week, "action", "festival entry: "+p.Title, festivalEntryCost)
	p.FestivalSubmitted = true
	p.Prestige = clamp(p.Prestige+0.8, 0, 10)
	p.HypeScore = clamp(p.HypeScore+6, 0, 100)
	e.logEvent("%q submitted to the festival circuit", p.Title)
	return okf("%q entered the festival circuit: prestige %.1f, hype %.0f", p.Title, p.Prestige, p.HypeScore)
}

// TakeTrackingAdvance borrows against strong tracking, trading revenue
// share for cash now. Available once, only after a partner is signed.
func (e *Engine) TakeTrackingAdvance(projectID string) Result {
	p := e.project(projectID)
	if p == nil {
		return failf("project %s not found", projectID)
	}
	if p.Phase != PhaseDistribution {
		return failf("tracking advances are a distribution-phase play")
	}
	if p.Partner == "" {
		return failf("%q needs a signed distribution partner first", p.Title)
	}
	if p.TrackingAdvanceTaken {
		return failf("%q has already drawn its tracking advance", p.Title)
	}
	proj, valid := e.projectionFor(p)
	if !valid {
		return failf("%q has no projection to borrow against", p.Title)
	}
	advance := int64(math.Round(float64(proj.OpeningLow+proj.OpeningHigh) / 2 * trackingAdvanceRate))
	p.TrackingAdvanceTaken = true
	p.RevenueShare = clamp(p.RevenueShare-trackingShareGiveup, 0.05, 1)
	e.ledger.Credit(e.week, "action", "tracking advance: "+p.Title, advance)
	e.logEvent("tracking advance of $%d drawn on %q", advance, p.Title)
	return okf("$%d tracking advance drawn on %q (revenue share now %.0f%%)", advance, p.Title, p.RevenueShare*100)
}
