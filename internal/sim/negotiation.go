package sim

import "math"

const (
	maxNegotiationRounds = 4

	sweetenSalaryStep = 0.06
	salaryMultCap     = 1.50
	sweetenBackendPts = 0.5
	backendPtsCap     = 10.0
	sweetenPerksStep  = int64(60_000)

	quickCloseFee     = int64(75_000)
	retainerRate      = 0.10
	negotiationBase   = 0.38
	refusalRiskWindow = 3
	acceptChanceFloor = 0.02
	acceptChanceCeil  = 0.97
)

// negotiationEnv is the slice of studio state the acceptance formula reads.
// Passing it as a value keeps the formula a pure function a test can probe
// without an engine.
type negotiationEnv struct {
	Week        int
	StudioHeat  float64
	Reputation  float64
	ExecNetwork float64
	ArcLeverage float64
}

func (e *Engine) negotiationEnvNow() negotiationEnv {
	return negotiationEnv{
		Week:        e.week,
		StudioHeat:  e.studioHeat,
		Reputation:  e.reputation,
		ExecNetwork: e.execNetwork,
		ArcLeverage: e.arcLeverage(),
	}
}

// arcLeverage converts narrative outcomes into bargaining power.
func (e *Engine) arcLeverage() float64 {
	lev := 0.0
	for _, a := range e.arcs {
		switch a.Status {
		case ArcResolved:
			lev += 0.04
		case ArcFailed:
			lev -= 0.03
		}
	}
	return lev
}

// demandVector derives what the talent considers a fair offer from ego and
// agent tier.
func demandVector(t *Talent) (salaryMult, backendPts float64, perks int64) {
	salaryMult = 1.0 + t.Ego*0.028 + float64(t.AgentTier)*0.04
	backendPts = t.BackendPts + t.Ego*0.25
	perks = t.PerksBase + int64(t.Ego*18_000)
	return salaryMult, backendPts, perks
}

// acceptanceChance computes the current accept probability for an open
// negotiation. Monotonically non-decreasing in salary, backend, and perks;
// every holdFirm strictly lowers it through the hold-line penalty.
func acceptanceChance(t *Talent, n *Negotiation, env negotiationEnv) float64 {
	chance := negotiationBase
	chance += (t.Memory.Trust*0.6 + t.Memory.Loyalty*0.4) * 0.018
	chance += (env.StudioHeat - 50) * 0.0022
	chance += env.ArcLeverage
	chance += env.ExecNetwork * 0.015
	chance -= (10 - env.Reputation) * 0.004
	chance -= t.Ego * 0.012
	chance -= float64(t.AgentTier) * 0.015
	chance -= GrudgeScore(t.Memory.History, env.Week) * 0.035
	if t.recentNegativeCount(env.Week) >= refusalRiskWindow {
		chance -= 0.10
	}

	demandSalary, demandBackend, demandPerks := demandVector(t)
	fit := TermsFitScore(n.SalaryMult, n.BackendPoints, n.PerksBudget, demandSalary, demandBackend, demandPerks)
	chance += (fit - 0.80) * 0.45

	if n.Round > 1 {
		chance -= float64(n.Round-1) * 0.02
	}
	chance -= float64(n.HoldLine) * 0.03

	return clamp(chance, acceptChanceFloor, acceptChanceCeil)
}

// StartTalentNegotiation opens a multi-round negotiation, locking the talent.
func (e *Engine) StartTalentNegotiation(talentID, projectID string) Result {
	p := e.project(projectID)
	if p == nil {
		return failf("project %s not found", projectID)
	}
	if p.Phase != PhaseDevelopment {
		return failf("talent can only be negotiated during development (project is in %s)", p.Phase)
	}
	t := e.talentByID(talentID)
	if t == nil {
		return failf("talent %s not found", talentID)
	}
	if t.Avail != AvailabilityAvailable {
		return failf("%s is not available (%s)", t.Name, t.Avail)
	}
	if t.Cooldown > e.week {
		return failf("%s is not taking meetings until week %d", t.Name, t.Cooldown)
	}
	if _, open := e.negotiations[talentID]; open {
		return failf("a negotiation with %s is already open", t.Name)
	}

	t.Avail = AvailabilityInNegotiation
	e.negotiations[talentID] = &Negotiation{
		TalentID:      talentID,
		ProjectID:     projectID,
		OpenedWeek:    e.week,
		Round:         1,
		HoldLine:      2,
		SalaryMult:    1.0,
		BackendPoints: t.BackendPts,
		PerksBudget:   t.PerksBase,
	}
	n := e.negotiations[talentID]
	n.LastChance = acceptanceChance(t, n, e.negotiationEnvNow())
	e.logEvent("opened negotiation with %s for %q", t.Name, p.Title)
	return okf("negotiation opened with %s (acceptance %.0f%%)", t.Name, n.LastChance*100)
}

// AdjustTalentNegotiation applies one adjustment round.
func (e *Engine) AdjustTalentNegotiation(talentID string, move NegotiationMove) Result {
	n, open := e.negotiations[talentID]
	if !open {
		return failf("no open negotiation with talent %s", talentID)
	}
	t := e.talentByID(talentID)
	if t == nil {
		return failf("talent %s not found", talentID)
	}
	if n.Round >= maxNegotiationRounds {
		return failf("negotiation with %s is out of rounds (%d)", t.Name, maxNegotiationRounds)
	}

	switch move {
	case MoveSweetenSalary:
		n.SalaryMult = math.Min(n.SalaryMult+sweetenSalaryStep, salaryMultCap)
	case MoveSweetenBackend:
		n.BackendPoints = math.Min(n.BackendPoints+sweetenBackendPts, backendPtsCap)
	case MoveSweetenPerks:
		next := n.PerksBudget + sweetenPerksStep
		lo := int64(math.Round(float64(t.PerksBase) * 0.4))
		hi := t.PerksBase * 3
		if next < lo {
			next = lo
		}
		if next > hi {
			next = hi
		}
		n.PerksBudget = next
	case MoveHoldFirm:
		// no term change
	default:
		return failf("unknown negotiation move %q", move)
	}

	n.Round++
	if move == MoveHoldFirm {
		n.HoldLine++
		e.recordInteraction(t, -0.4, "studio held the line")
	} else {
		if n.HoldLine > 0 {
			n.HoldLine--
		}
		e.recordInteraction(t, 0.3, "studio sweetened the offer")
	}
	n.LastChance = acceptanceChance(t, n, e.negotiationEnvNow())
	return okf("round %d with %s: acceptance now %.0f%%", n.Round, t.Name, n.LastChance*100)
}

// NegotiateAndAttachTalent is the quick-close path: one roll on richer
// default terms, a flat attempt fee, and a one-week cooldown on failure.
func (e *Engine) NegotiateAndAttachTalent(talentID, projectID string) Result {
	p := e.project(projectID)
	if p == nil {
		return failf("project %s not found", projectID)
	}
	if p.Phase != PhaseDevelopment {
		return failf("talent can only be attached during development (project is in %s)", p.Phase)
	}
	t := e.talentByID(talentID)
	if t == nil {
		return failf("talent %s not found", talentID)
	}
	if t.Avail != AvailabilityAvailable {
		return failf("%s is not available (%s)", t.Name, t.Avail)
	}
	if t.Cooldown > e.week {
		return failf("%s is not taking meetings until week %d", t.Name, t.Cooldown)
	}
	if !e.ledger.CanAfford(quickCloseFee) {
		return failf("cannot cover the $%d quick-close fee", quickCloseFee)
	}
	e.ledger.Debit(e.week, "negotiation", "quick-close attempt: "+t.Name, quickCloseFee)

	n := &Negotiation{
		TalentID:      talentID,
		ProjectID:     projectID,
		OpenedWeek:    e.week,
		Round:         1,
		SalaryMult:    1.15,
		BackendPoints: math.Min(t.BackendPts+1.0, backendPtsCap),
		PerksBudget:   int64(math.Round(float64(t.PerksBase) * 1.5)),
		QuickClose:    true,
	}
	chance := acceptanceChance(t, n, e.negotiationEnvNow())
	if e.negotiationRand() >= chance {
		t.Cooldown = e.week + 1
		e.recordInteraction(t, -0.3, "rushed pitch fell flat")
		return failf("%s passed on the quick close (%.0f%% chance); try again next week", t.Name, chance*100)
	}
	return e.finalizeAttachment(t, p, n)
}

// finalizeAttachment charges the deal-memo retainer and attaches the talent.
// An accepted roll can still stall here if the retainer cash is gone; this
// two-stage semantic is deliberate.
func (e *Engine) finalizeAttachment(t *Talent, p *Project, n *Negotiation) Result {
	retainer := int64(math.Round(float64(t.SalaryBase) * n.SalaryMult * retainerRate))
	if !e.ledger.CanAfford(retainer) {
		e.releaseTalent(t)
		delete(e.negotiations, t.ID)
		e.recordInteraction(t, -0.5, "deal collapsed over the retainer")
		e.logEvent("%s accepted in principle, but the $%d retainer stalled the deal", t.Name, retainer)
		return failf("%s accepted in principle, but the deal stalled: $%d retainer unaffordable", t.Name, retainer)
	}
	e.ledger.Debit(e.week, "negotiation", "deal-memo retainer: "+t.Name, retainer)

	t.Avail = AvailabilityAttached
	delete(e.negotiations, t.ID)
	if t.Role == RoleDirector {
		p.DirectorID = t.ID
	} else {
		p.CastIDs = append(p.CastIDs, t.ID)
	}
	fit := 0.5
	if f, found := t.GenreFit[p.Genre]; found {
		fit = f
	}
	p.HypeScore = clamp(p.HypeScore+t.StarPower*fit*1.2, 0, 100)
	e.recordInteraction(t, 0.6, "signed on to "+p.Title)
	e.logEvent("%s attached to %q", t.Name, p.Title)
	return okf("%s attached to %q ($%d retainer)", t.Name, p.Title, retainer)
}

// resolveDueNegotiations runs during EndWeek: any negotiation opened at
// least one week ago rolls against its current acceptance chance.
func (e *Engine) resolveDueNegotiations() {
	for _, talentID := range sortedKeys(e.negotiations) {
		n := e.negotiations[talentID]
		if e.week <= n.OpenedWeek {
			continue
		}
		t := e.talentByID(talentID)
		if t == nil {
			delete(e.negotiations, talentID)
			continue
		}
		p := e.project(n.ProjectID)
		if p == nil {
			e.releaseTalent(t)
			delete(e.negotiations, talentID)
			e.logEvent("negotiation with %s dropped: project gone", t.Name)
			continue
		}
		chance := acceptanceChance(t, n, e.negotiationEnvNow())
		n.LastChance = chance
		if e.negotiationRand() < chance {
			res := e.finalizeAttachment(t, p, n)
			if !res.OK {
				continue
			}
			continue
		}
		e.releaseTalent(t)
		delete(e.negotiations, talentID)
		e.recordInteraction(t, -0.6, "walked away from "+p.Title)
		e.logEvent("%s declined the offer for %q (%.0f%% chance)", t.Name, p.Title, chance*100)
	}
}

// cancelNegotiationsForProject force-cancels open negotiations when a
// project leaves development before they resolve.
func (e *Engine) cancelNegotiationsForProject(projectID string) {
	for _, talentID := range sortedKeys(e.negotiations) {
		n := e.negotiations[talentID]
		if n.ProjectID != projectID {
			continue
		}
		if t := e.talentByID(talentID); t != nil {
			e.releaseTalent(t)
			e.logEvent("negotiation with %s cancelled: project moved out of development", t.Name)
		}
		delete(e.negotiations, talentID)
	}
}
