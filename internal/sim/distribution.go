package sim

import (
	"fmt"
	"math"
)

const (
	selfDistributionShare = 0.85
	counterShareBump      = 0.04
	counterGuaranteeBump  = 0.20
	counterWithdrawRisk   = 0.25

	awardsWindowPrestigeBonus = 0.6
)

// Distribution partners are flavor; the numbers hang off the offer, not the
// name.
var theatricalPartners = []string{"Meridian Pictures", "Atlas Releasing", "Golden Arch Distribution"}
var streamingPartners = []string{"Streamline", "NovaPlay", "Kinograph+"}

func (e *Engine) directorCraft(p *Project) float64 {
	if t := e.talentByID(p.DirectorID); t != nil {
		return t.Craft
	}
	return 4.0
}

func (e *Engine) castStarPower(p *Project) float64 {
	total := 0.0
	if t := e.talentByID(p.DirectorID); t != nil {
		total += t.StarPower * 0.5
	}
	for _, id := range p.CastIDs {
		if t := e.talentByID(id); t != nil {
			total += t.StarPower * 0.7
		}
	}
	return math.Min(total, 14)
}

// projectionFor forecasts a project's release outcome from its current state.
// It never mutates anything. Valid only from post-production onward; earlier
// phases have too little signal to forecast.
func (e *Engine) projectionFor(p *Project) (Projection, bool) {
	if phaseOrder[p.Phase] < phaseOrder[PhasePostProduction] {
		return Projection{}, false
	}
	critical := CriticalScore(p.ScriptQuality, p.EditorialScore, e.directorCraft(p), p.Originality, p.Controversy)
	marketing := float64(p.Budget.Marketing + p.MarketingCommitment)
	low, high := OpeningRange(p.CommercialAppeal, p.HypeScore, e.castStarPower(p), marketing, p.Genre)
	if p.ReleaseWindow != "" {
		m := ReleaseWindowMultiplier(p.ReleaseWindow)
		low *= m
		high *= m
	}
	mid := (low + high) / 2
	// A theatrical run typically ends up near 2.6x its opening.
	spend := float64(p.Budget.ActualSpend + p.Budget.Marketing)
	return Projection{
		CriticalScore: math.Round(critical*10) / 10,
		OpeningLow:    int64(math.Round(low)),
		OpeningHigh:   int64(math.Round(high)),
		ProjectedROI:  math.Round(ROI(mid*2.6, spend)*100) / 100,
	}, true
}

// ProjectProjection is the read-only public wrapper around projectionFor.
func (e *Engine) ProjectProjection(projectID string) (Projection, bool) {
	p := e.project(projectID)
	if p == nil {
		return Projection{}, false
	}
	return e.projectionFor(p)
}

// AllocateMarketing moves cash into a project's marketing budget. It is the
// only way to satisfy the marketing gate into distribution.
func (e *Engine) AllocateMarketing(projectID string, amount int64) Result {
	p := e.project(projectID)
	if p == nil {
		return failf("project %s not found", projectID)
	}
	if amount <= 0 {
		return failf("marketing allocation must be positive")
	}
	if p.Phase == PhaseReleased {
		return failf("%q is already released; marketing spend is over", p.Title)
	}
	if !e.ledger.CanAfford(amount) {
		return failf("cannot cover a $%d marketing allocation", amount)
	}
	e.ledger.Debit(e.week, "marketing", "marketing: "+p.Title, amount)
	p.Budget.Marketing += amount
	e.logEvent("allocated $%d marketing to %q", amount, p.Title)
	return okf("%q marketing budget now $%d", p.Title, p.Budget.Marketing)
}

// generateDistributionOffers builds the offer slate when a project enters
// distribution: two theatrical partners and one streamer, terms scaled off
// the projection midpoint.
func (e *Engine) generateDistributionOffers(p *Project) {
	proj, valid := e.projectionFor(p)
	if !valid {
		return
	}
	mid := float64(proj.OpeningLow+proj.OpeningHigh) / 2

	p.Offers = p.Offers[:0]
	p.CounterUsed = false

	wide := theatricalPartners[int(e.eventRand()*float64(len(theatricalPartners)))%len(theatricalPartners)]
	p.Offers = append(p.Offers, DistributionOffer{
		ID:                  e.nextID("off"),
		Partner:             wide,
		Kind:                "theatricalWide",
		MinimumGuarantee:    int64(math.Round(mid * 0.35)),
		RevenueShare:        0.55,
		MarketingCommitment: int64(math.Round(mid * 0.30)),
	})
	p.Offers = append(p.Offers, DistributionOffer{
		ID:                  e.nextID("off"),
		Partner:             "Crescent Independent",
		Kind:                "theatricalLimited",
		MinimumGuarantee:    int64(math.Round(mid * 0.18)),
		RevenueShare:        0.68,
		MarketingCommitment: int64(math.Round(mid * 0.12)),
	})
	streamer := streamingPartners[int(e.eventRand()*float64(len(streamingPartners)))%len(streamingPartners)]
	// Streamers front-load: a fat guarantee buying most of the upside.
	p.Offers = append(p.Offers, DistributionOffer{
		ID:                  e.nextID("off"),
		Partner:             streamer,
		Kind:                "streaming",
		MinimumGuarantee:    int64(math.Round(mid * 1.10)),
		RevenueShare:        0.15,
		MarketingCommitment: int64(math.Round(mid * 0.08)),
	})
}

func (p *Project) offer(id string) *DistributionOffer {
	for i := range p.Offers {
		if p.Offers[i].ID == id {
			return &p.Offers[i]
		}
	}
	return nil
}

// AcceptDistributionOffer signs a partner, credits the minimum guarantee,
// and clears the remaining offers.
func (e *Engine) AcceptDistributionOffer(projectID, offerID string) Result {
	p := e.project(projectID)
	if p == nil {
		return failf("project %s not found", projectID)
	}
	if p.Phase != PhaseDistribution {
		return failf("%q is not in distribution", p.Title)
	}
	if p.Partner != "" {
		return failf("%q already signed with %s", p.Title, p.Partner)
	}
	o := p.offer(offerID)
	if o == nil {
		return failf("offer %s is not on the table for %q", offerID, p.Title)
	}
	p.Partner = o.Partner
	p.PartnerKind = o.Kind
	p.RevenueShare = o.RevenueShare
	p.MarketingCommitment = o.MarketingCommitment
	p.Offers = nil
	e.ledger.Credit(e.week, "distribution", "minimum guarantee: "+p.Title, o.MinimumGuarantee)
	e.logEvent("%q signed with %s ($%d guarantee)", p.Title, o.Partner, o.MinimumGuarantee)
	return okf("%q signed with %s: $%d guarantee, %.0f%% share", p.Title, o.Partner, o.MinimumGuarantee, o.RevenueShare*100)
}

// CounterDistributionOffer pushes back on one offer. A project gets exactly
// one counter across its whole slate; a countered partner may also withdraw.
func (e *Engine) CounterDistributionOffer(projectID, offerID string) Result {
	p := e.project(projectID)
	if p == nil {
		return failf("project %s not found", projectID)
	}
	if p.Phase != PhaseDistribution {
		return failf("%q is not in distribution", p.Title)
	}
	if p.Partner != "" {
		return failf("%q already signed with %s", p.Title, p.Partner)
	}
	if p.CounterUsed {
		return failf("%q has already used its one counter", p.Title)
	}
	o := p.offer(offerID)
	if o == nil {
		return failf("offer %s is not on the table for %q", offerID, p.Title)
	}
	p.CounterUsed = true
	if e.negotiationRand() < counterWithdrawRisk {
		for i := range p.Offers {
			if p.Offers[i].ID == offerID {
				p.Offers = append(p.Offers[:i], p.Offers[i+1:]...)
				break
			}
		}
		e.logEvent("%s withdrew their offer on %q after the counter", o.Partner, p.Title)
		return failf("%s pulled out of %q entirely", o.Partner, p.Title)
	}
	o.Countered = true
	o.MinimumGuarantee = int64(math.Round(float64(o.MinimumGuarantee) * (1 + counterGuaranteeBump)))
	o.RevenueShare = clamp(o.RevenueShare+counterShareBump, 0, 1)
	e.logEvent("%s improved their offer on %q", o.Partner, p.Title)
	return okf("%s came back: $%d guarantee, %.0f%% share", o.Partner, o.MinimumGuarantee, o.RevenueShare*100)
}

// WalkAwayDistribution self-distributes: no guarantee, no partner marketing,
// but nearly the whole gross.
func (e *Engine) WalkAwayDistribution(projectID string) Result {
	p := e.project(projectID)
	if p == nil {
		return failf("project %s not found", projectID)
	}
	if p.Phase != PhaseDistribution {
		return failf("%q is not in distribution", p.Title)
	}
	if p.Partner != "" {
		return failf("%q already signed with %s", p.Title, p.Partner)
	}
	p.Partner = "self"
	p.PartnerKind = "selfDistributed"
	p.RevenueShare = selfDistributionShare
	p.MarketingCommitment = 0
	p.Offers = nil
	e.logEvent("%q will be self-distributed", p.Title)
	return okf("%q goes out self-distributed at %.0f%% share", p.Title, selfDistributionShare*100)
}

// SetReleaseWindow locks the corridor and pins the release week at the end
// of the remaining distribution prep.
func (e *Engine) SetReleaseWindow(projectID string, w ReleaseWindow) Result {
	p := e.project(projectID)
	if p == nil {
		return failf("project %s not found", projectID)
	}
	if p.Phase != PhaseDistribution {
		return failf("release windows are chosen during distribution")
	}
	if _, known := windowMultiplier[w]; !known {
		return failf("unknown release window %q", w)
	}
	p.ReleaseWindow = w
	target := e.week + p.ScheduledWeeksRemaining
	if target <= e.week {
		target = e.week + 1
	}
	p.ReleaseWeek = target
	e.logEvent("%q slotted into the %s window (week %d)", p.Title, w, target)
	return okf("%q will open in the %s window, week %d", p.Title, w, target)
}

// releaseProject opens the film: the opening gross is rolled inside the
// projection band, scores lock in, and the theatrical run clock starts.
func (e *Engine) releaseProject(p *Project, proj Projection) {
	span := float64(proj.OpeningHigh - proj.OpeningLow)
	opening := float64(proj.OpeningLow) + span*e.eventRand()

	p.Phase = PhaseReleased
	p.ReleasedWeek = e.week
	p.OpeningGross = int64(math.Round(opening))
	p.FinalGross = p.OpeningGross
	p.WeeklyGross = []int64{p.OpeningGross}
	p.RunWeeksRemaining = theatricalRunWeeks - 1
	p.CriticalScore = proj.CriticalScore
	p.AudienceScore = math.Round(AudienceScore(proj.CriticalScore, p.CommercialAppeal, p.HypeScore)*10) / 10

	share := p.RevenueShare
	if share <= 0 {
		share = selfDistributionShare
	}
	take := int64(math.Round(opening * share))
	e.ledger.Credit(e.week, "boxOffice", "opening weekend: "+p.Title, take)
	e.detachFromProject(p)
	e.logEvent("%q opened to $%d", p.Title, p.OpeningGross)
}

// tickReleasedRuns advances every theatrical run one week and resolves runs
// that just ended. Resolution happens exactly once per project.
func (e *Engine) tickReleasedRuns() {
	for _, p := range e.projects {
		if p.Phase != PhaseReleased || p.ReleaseResolved {
			continue
		}
		if p.RunWeeksRemaining > 0 {
			last := p.WeeklyGross[len(p.WeeklyGross)-1]
			next := int64(math.Round(float64(last) * RunDecayMultiplier(p.RunWeeksRemaining)))
			p.WeeklyGross = append(p.WeeklyGross, next)
			p.FinalGross += next
			p.RunWeeksRemaining--
			share := p.RevenueShare
			if share <= 0 {
				share = selfDistributionShare
			}
			take := int64(math.Round(float64(next) * share))
			if take > 0 {
				e.ledger.Credit(e.week, "boxOffice", fmt.Sprintf("week %d gross: %s", len(p.WeeklyGross), p.Title), take)
			}
			if p.RunWeeksRemaining > 0 {
				continue
			}
		}
		e.resolveRelease(p)
	}
}

// resolveRelease closes the books on a finished run: ROI, heat, awards, and
// the franchise update, then the one-shot reveal.
func (e *Engine) resolveRelease(p *Project) {
	spend := float64(p.Budget.ActualSpend + p.Budget.Marketing)
	p.FinalROI = math.Round(ROI(float64(p.FinalGross), spend)*100) / 100
	p.ReleaseResolved = true

	delta := HeatDeltaFromRelease(p.FinalROI, p.CriticalScore)
	e.studioHeat = clamp(e.studioHeat+delta, 0, 100)

	prestige := p.Prestige
	if p.ReleaseWindow == WindowAwards {
		prestige += awardsWindowPrestigeBonus
	}
	score := AwardsScore(p.CriticalScore, prestige, p.Controversy)
	p.AwardsNominations, p.AwardsWins = AwardsCounts(score)
	if p.AwardsNominations > 0 {
		e.reputation = clamp(e.reputation+float64(p.AwardsNominations)*0.15+float64(p.AwardsWins)*0.25, 0, 10)
	}

	if p.FranchiseID != "" {
		e.recordFranchiseRelease(p)
	}
	e.updateRivalMemoryOnRelease(p)
	e.rivalReleaseResponsePass(p)

	e.revealQueue = append(e.revealQueue, p.ID)
	e.logEvent("%q closed its run: $%d total, ROI %.2f, heat %+.1f", p.Title, p.FinalGross, p.FinalROI, delta)
}
