package sim

import "math"

const (
	franchiseMinROI            = 0.35
	sequelScriptPenalty        = 0.6
	sequelHypeFromMomentumRate = 0.45
	sequelUpFrontRate          = 0.12
)

// LaunchFranchise promotes a resolved release into a franchise track. The
// first entry has to have actually worked; nobody franchises a flop.
func (e *Engine) LaunchFranchise(projectID string) Result {
	p := e.project(projectID)
	if p == nil {
		return failf("project %s not found", projectID)
	}
	if !p.ReleaseResolved {
		return failf("%q has not finished its run yet", p.Title)
	}
	if p.FranchiseID != "" {
		return failf("%q already belongs to a franchise", p.Title)
	}
	if p.FinalROI < franchiseMinROI {
		return failf("%q (ROI %.2f) is not franchise material; %.2f required", p.Title, p.FinalROI, franchiseMinROI)
	}
	f := &FranchiseTrack{
		ID:            e.nextID("frn"),
		Title:         p.Title,
		Genre:         p.Genre,
		ProjectIDs:    []string{p.ID},
		ReleasedCount: 1,
		LastRelease:   p.ReleasedWeek,
		Strategy:      StrategyContinuation,
		Momentum:      FranchiseMomentum(p.AudienceScore, p.CriticalScore, p.FinalROI),
		Fatigue:       FranchiseFatigue(0, 1, p.AudienceScore, p.Controversy),
	}
	p.FranchiseID = f.ID
	p.Episode = 1
	e.franchises = append(e.franchises, f)
	e.logEvent("franchise launched from %q (momentum %.0f)", p.Title, f.Momentum)
	return okf("%q is now a franchise: momentum %.0f, fatigue %.0f", p.Title, f.Momentum, f.Fatigue)
}

// SetFranchiseStrategy picks how the next entry relates to the track. A
// reboot sheds half the accumulated fatigue up front; a spinoff carries less
// momentum into its opening.
func (e *Engine) SetFranchiseStrategy(franchiseID string, s FranchiseStrategy) Result {
	f := e.franchise(franchiseID)
	if f == nil {
		return failf("franchise %s not found", franchiseID)
	}
	switch s {
	case StrategyContinuation, StrategyReboot, StrategySpinoff:
	default:
		return failf("unknown franchise strategy %q", s)
	}
	if f.ActiveEntryID != "" {
		return failf("%q has an entry in flight; strategy is locked until it releases", f.Title)
	}
	if s == StrategyReboot && f.Strategy != StrategyReboot {
		f.Fatigue = clamp(f.Fatigue*0.5, 0, 92)
	}
	f.Strategy = s
	e.logEvent("%q franchise strategy set to %s", f.Title, s)
	return okf("%q will continue as a %s", f.Title, s)
}

// StartSequel opens the next franchise entry as a development project. It
// inherits hype from momentum, pays for fatigue, and skips the script market.
func (e *Engine) StartSequel(franchiseID, title string) Result {
	f := e.franchise(franchiseID)
	if f == nil {
		return failf("franchise %s not found", franchiseID)
	}
	if f.ActiveEntryID != "" {
		return failf("%q already has an entry in flight", f.Title)
	}
	// Rights, writers, and early development are paid up front, scaled to the
	// genre's budget baseline.
	upFront := int64(math.Round(float64(genreBudgetBaseline[f.Genre]) * sequelUpFrontRate))
	if !e.ledger.CanAfford(upFront) {
		return failf("opening the next %q entry needs $%d up front", f.Title, upFront)
	}
	prev := e.project(f.ProjectIDs[len(f.ProjectIDs)-1])

	momentumCarry := f.Momentum
	if f.Strategy == StrategySpinoff {
		momentumCarry *= 0.65
	}
	hype := clamp(momentumCarry*sequelHypeFromMomentumRate-f.Fatigue*0.30, 5, 100)

	quality := 6.2
	appeal := 6.0
	originality := 3.0
	ceiling := genreBudgetBaseline[f.Genre]
	if prev != nil {
		quality = clamp(prev.ScriptQuality-sequelScriptPenalty, 3, 10)
		appeal = clamp(prev.CommercialAppeal+0.4, 0, 10)
		originality = clamp(prev.Originality-1.2, 0, 10)
		ceiling = int64(math.Round(float64(prev.Budget.Ceiling) * 1.15))
	}
	if f.Strategy == StrategyReboot {
		originality = clamp(originality+1.5, 0, 10)
	}

	if title == "" {
		title = f.Title + " II"
	}
	p := &Project{
		ID:      e.nextID("prj"),
		Title:   title,
		Genre:   f.Genre,
		Phase:   PhaseDevelopment,
		Created: e.week,
		Budget: Budget{
			Ceiling:      ceiling,
			AboveTheLine: int64(float64(ceiling) * 0.32),
			BelowTheLine: int64(float64(ceiling) * 0.43),
			Post:         int64(float64(ceiling) * 0.15),
			Contingency:  int64(float64(ceiling) * 0.10),
			OverrunRisk:  0.10 + f.Fatigue*0.002,
		},
		ScriptQuality:    quality,
		ConceptStrength:  clamp(momentumCarry/12, 0, 10),
		CommercialAppeal: appeal,
		Originality:      originality,
		HypeScore:        hype,
		ProductionStatus: StatusOnTrack,
		FranchiseID:      f.ID,
		Episode:          len(f.ProjectIDs) + 1,
		Strategy:         f.Strategy,
	}
	e.ledger.Debit(e.week, "franchise", "sequel rights and development: "+title, upFront)
	e.projects = append(e.projects, p)
	f.ProjectIDs = append(f.ProjectIDs, p.ID)
	f.ActiveEntryID = p.ID
	e.logEvent("%q entry %d opened in development", f.Title, p.Episode)
	return okf("%q opened as franchise entry %d (hype %.0f)", title, p.Episode, hype)
}

// recordFranchiseRelease folds a finished entry's reception back into the
// track. Called once, from release resolution.
func (e *Engine) recordFranchiseRelease(p *Project) {
	f := e.franchise(p.FranchiseID)
	if f == nil {
		return
	}
	f.ReleasedCount++
	f.LastRelease = e.week
	if f.ActiveEntryID == p.ID {
		f.ActiveEntryID = ""
	}
	f.Momentum = FranchiseMomentum(p.AudienceScore, p.CriticalScore, p.FinalROI)
	f.Fatigue = FranchiseFatigue(f.Fatigue, f.ReleasedCount, p.AudienceScore, p.Controversy)
	e.logEvent("%q franchise updated: momentum %.0f, fatigue %.0f", f.Title, f.Momentum, f.Fatigue)
}
