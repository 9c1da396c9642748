package sim

import (
	"math"
	"sort"
)

// Rival AI. Each rival runs three passes per week (slate, talent locks,
// signature move) plus a retaliation pass whenever one of the player's
// releases resolves. All randomness comes from the rival stream.

const (
	rivalLockWeeks    = 14
	rivalSlateHorizon = 6
	collisionWindow   = 1

	smearHeatDrainPerLayer = 1.5
	poachFlagTriggerLayers = 2

	signatureHostilityDelta   = 0.3
	signatureRetaliationDelta = 0.2

	// A release only draws retaliation once it has actually made money.
	retaliationROIBar = 1.0
)

// poachKey is the archetype's sort key over the poach candidate pool.
type poachKey int

const (
	poachByStarPower poachKey = iota
	poachByCraft
	poachByEgo
	poachByChance
)

type rivalProfile struct {
	aggression    float64
	poachRate     float64
	poachKey      poachKey
	cadence       int
	tentpole      float64
	homeGenres    []Genre
	signatureFlag string

	// arcPressure leans on the scheduler: while this rival is on the board,
	// decks linked to these arcs draw hotter.
	arcPressure map[string]float64
}

var rivalProfiles = map[Archetype]rivalProfile{
	ArchetypeBlockbusterFactory: {
		aggression: 0.14, poachRate: 0.05, poachKey: poachByStarPower, cadence: 8, tentpole: 0.80,
		homeGenres:    []Genre{GenreAction, GenreSciFi, GenreFamily},
		signatureFlag: "rival-saturation",
	},
	ArchetypePrestigeHunter: {
		aggression: 0.10, poachRate: 0.04, poachKey: poachByCraft, cadence: 11, tentpole: 0.15,
		homeGenres:    []Genre{GenreDrama, GenreThriller},
		signatureFlag: "rival-smear",
		arcPressure:   map[string]float64{"press-darling": 0.30},
	},
	ArchetypeGenreSpecialist: {
		aggression: 0.08, poachRate: 0.03, poachKey: poachByChance, cadence: 6, tentpole: 0.20,
		homeGenres:    []Genre{GenreHorror, GenreThriller},
		signatureFlag: "rival-counterprogram",
	},
	ArchetypeStreamingFirst: {
		aggression: 0.12, poachRate: 0.08, poachKey: poachByChance, cadence: 5, tentpole: 0.25,
		homeGenres:    []Genre{GenreComedy, GenreDrama, GenreSciFi},
		signatureFlag: "rival-streaming-prebuy",
	},
	ArchetypeScrappyUpstart: {
		aggression: 0.16, poachRate: 0.07, poachKey: poachByEgo, cadence: 9, tentpole: 0.30,
		homeGenres:    []Genre{GenreHorror, GenreComedy},
		signatureFlag: "rival-poaching",
		arcPressure:   map[string]float64{"press-darling": 0.10},
	},
}

var rivalReleaseTitles = []string{"Skyfall Protocol", "The Quiet Year", "Night Harvest", "Binary Saints", "Emberline", "The Long Con", "Hollow Crown", "Static", "Wolf Hour", "Second Act"}

func seedRivals() []*RivalStudio {
	specs := []struct {
		name string
		arch Archetype
		heat float64
	}{
		{"Titanus Pictures", ArchetypeBlockbusterFactory, 72},
		{"Larkspur Films", ArchetypePrestigeHunter, 58},
		{"Blackpine Features", ArchetypeGenreSpecialist, 46},
		{"Cascade Originals", ArchetypeStreamingFirst, 64},
		{"Mayfly Pictures", ArchetypeScrappyUpstart, 38},
	}
	out := make([]*RivalStudio, 0, len(specs))
	for i, s := range specs {
		out = append(out, &RivalStudio{
			ID:        "riv-" + string(rune('a'+i)),
			Name:      s.name,
			Archetype: s.arch,
			Heat:      s.heat,
			Memory:    RivalMemory{Hostility: 3, Respect: 5, Retaliation: 3, Cooperation: 5},
		})
	}
	return out
}

// rivalWorld is the view of the studio a rival consults when picking a move.
// Engine implements it; rival tests can substitute a fixture.
type rivalWorld interface {
	weekNow() int
	heatNow() float64
	rivalRoll() float64
	nextDatedRelease() *Project
	poachCandidates() []*Talent
}

func (e *Engine) rivalRoll() float64 { return e.rivalRand() }

func (e *Engine) poachCandidates() []*Talent {
	out := make([]*Talent, 0, len(e.talent))
	for _, t := range e.talent {
		if t.Avail == AvailabilityAvailable || t.Avail == AvailabilityInNegotiation {
			out = append(out, t)
		}
	}
	return out
}

// arcPressure sums, across rivals, how hard each one leans on an arc's
// storyline. Hostile rivals push harder.
func (e *Engine) arcPressure(arcID string) float64 {
	total := 0.0
	for _, r := range e.rivals {
		if v := rivalProfiles[r.Archetype].arcPressure[arcID]; v > 0 {
			total += v * (0.5 + r.Memory.Hostility*0.05)
		}
	}
	return total
}

// applyStandingPressure charges for flags the player has left raised.
func (e *Engine) applyStandingPressure() {
	if n := e.flagCount("rival-smear"); n > 0 {
		e.studioHeat = clamp(e.studioHeat-smearHeatDrainPerLayer*float64(n), 0, 100)
		e.logEvent("the whisper campaign is costing the studio heat")
	}
	if e.flagCount("rival-poaching") >= poachFlagTriggerLayers {
		if t := e.mostPoachableTalent(); t != nil {
			e.clearFlag("rival-poaching")
			e.poachTalent(t.ID, "a rival studio")
		}
	}
}

// rivalSlatePass keeps the rival's release slate populated and fires dated
// collisions against the player's planned openings.
func (e *Engine) rivalSlatePass(r *RivalStudio, prof rivalProfile) {
	kept := r.Slate[:0]
	for _, rel := range r.Slate {
		if rel.Week == e.week {
			swing := 2.0
			if rel.Tentpole {
				swing = 5.0
			}
			r.Heat = clamp(r.Heat+swing*(e.rivalRand()*1.4-0.4), 0, 100)
			e.logEvent("%s released %q", r.Name, rel.Title)
			continue
		}
		if rel.Week > e.week {
			kept = append(kept, rel)
		}
	}
	r.Slate = kept

	if len(r.Slate) == 0 || r.Slate[len(r.Slate)-1].Week < e.week+prof.cadence {
		week := e.week + prof.cadence/2 + int(e.rivalRand()*float64(prof.cadence))
		tentpole := e.rivalRand() < prof.tentpole
		rel := RivalRelease{
			Title:    rivalReleaseTitles[int(e.rivalRand()*float64(len(rivalReleaseTitles)))%len(rivalReleaseTitles)],
			Week:     week,
			Tentpole: tentpole,
		}
		// A hostile tentpole camps on the player's date when it can.
		if tentpole && r.Memory.Hostility > 5 {
			if p := e.nextDatedRelease(); p != nil && p.ReleaseWeek > e.week+rivalSlateHorizon/2 {
				rel.Week = p.ReleaseWeek
			}
		}
		r.Slate = append(r.Slate, rel)
		if rel.Tentpole {
			e.checkDateCollision(r, rel)
		}
	}
}

func (e *Engine) nextDatedRelease() *Project {
	var best *Project
	for _, p := range e.projects {
		if p.Phase != PhaseDistribution || p.ReleaseWeek <= e.week {
			continue
		}
		if best == nil || p.ReleaseWeek < best.ReleaseWeek {
			best = p
		}
	}
	return best
}

// checkDateCollision injects the hold / move-up / push crisis when a rival
// tentpole lands on top of a dated player release.
func (e *Engine) checkDateCollision(r *RivalStudio, rel RivalRelease) {
	for _, p := range e.projects {
		if p.Phase != PhaseDistribution || p.ReleaseWeek <= e.week {
			continue
		}
		if abs(p.ReleaseWeek-rel.Week) > collisionWindow {
			continue
		}
		if e.hasOpenCrisisFor(p.ID) {
			continue
		}
		e.injectCrisis(p.ID,
			"Release date collision",
			r.Name+" just dated "+rel.Title+" against "+p.Title+".",
			"moderate",
			[]CrisisOption{
				{ID: "hold", Label: "Hold the date and fight", Effects: EffectBundle{Hype: -6}},
				{ID: "shift-earlier", Label: "Move up one week", Effects: EffectBundle{ReleaseWeekShift: -1, Hype: -2}},
				{ID: "delay", Label: "Push four weeks clear", Effects: EffectBundle{ReleaseWeekShift: 4, Hype: -3}},
			})
		e.logEvent("%s dated %q against %q", r.Name, rel.Title, p.Title)
		return
	}
}

// choosePoachTarget applies the archetype's sort key over the candidate
// pool. Ties break on id so replays stay stable.
func choosePoachTarget(w rivalWorld, key poachKey) *Talent {
	cands := w.poachCandidates()
	if len(cands) == 0 {
		return nil
	}
	if key == poachByChance {
		return cands[int(w.rivalRoll()*float64(len(cands)))%len(cands)]
	}
	score := func(t *Talent) float64 {
		switch key {
		case poachByCraft:
			return t.Craft
		case poachByEgo:
			return t.Ego
		default:
			return t.StarPower
		}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if score(cands[i]) != score(cands[j]) {
			return score(cands[i]) > score(cands[j])
		}
		return cands[i].ID < cands[j].ID
	})
	return cands[0]
}

// rivalTalentPass occasionally locks a talent into a rival deal. A target
// already negotiating with the studio is not taken silently: the agent
// brings the rival's number back first.
func (e *Engine) rivalTalentPass(r *RivalStudio, prof rivalProfile) {
	if e.rivalRand() >= prof.poachRate {
		return
	}
	t := choosePoachTarget(e, prof.poachKey)
	if t == nil {
		return
	}
	if t.Avail == AvailabilityInNegotiation {
		e.injectCounterOfferCrisis(r, t)
		return
	}
	e.lockTalent(r, t)
}

func (e *Engine) lockTalent(r *RivalStudio, t *Talent) {
	t.Avail = AvailabilityUnavailable
	t.ReturnWeek = e.week + rivalLockWeeks
	t.LockedBy = r.ID
	r.LockedTalent = append(r.LockedTalent, t.ID)
	e.logEvent("%s locked %s into an exclusive deal", r.Name, t.Name)
}

// injectCounterOfferCrisis fires the match-or-lose crisis when a rival goes
// after a talent mid-negotiation.
func (e *Engine) injectCounterOfferCrisis(r *RivalStudio, t *Talent) {
	n, open := e.negotiations[t.ID]
	if !open || e.hasOpenCrisisFor(n.ProjectID) {
		return
	}
	matchCost := int64(math.Round(float64(t.SalaryBase) * 0.5))
	e.injectCrisis(n.ProjectID,
		"Rival counter-offer",
		r.Name+" slid a richer deal in front of "+t.Name+"'s agent.",
		"red",
		[]CrisisOption{
			{ID: "match", Label: "Match the number", Effects: EffectBundle{Cash: -matchCost}},
			{ID: "concede", Label: "Let them walk", Effects: EffectBundle{PoachTalentID: t.ID, PoachedBy: r.Name}},
		})
	e.logEvent("%s counter-offered for %s", r.Name, t.Name)
}

func (e *Engine) mostPoachableTalent() *Talent {
	var best *Talent
	for _, t := range e.talent {
		if t.Avail != AvailabilityAvailable && t.Avail != AvailabilityAttached {
			continue
		}
		if best == nil || t.StarPower > best.StarPower {
			best = t
		}
	}
	return best
}

// rivalSignaturePass fires the archetype's signature move at the profile's
// aggression rate, scaled by hostility. Every move stacks its story flag and
// hardens the rival's memory; the first layer also puts the counterplay card
// in front of the player.
func (e *Engine) rivalSignaturePass(r *RivalStudio, prof rivalProfile) {
	chance := prof.aggression * (0.5 + r.Memory.Hostility*0.08)
	if e.rivalRand() >= chance {
		return
	}
	first := !e.flagSet(prof.signatureFlag)
	e.raiseFlag(prof.signatureFlag, 1)
	r.Memory.Hostility = clamp(r.Memory.Hostility+signatureHostilityDelta, 0, 10)
	r.Memory.Retaliation = clamp(r.Memory.Retaliation+signatureRetaliationDelta, 0, 10)

	switch r.Archetype {
	case ArchetypeBlockbusterFactory:
		// Date camping is handled in the slate pass; the factory's move here
		// is a marketing blitz that crowds everyone else out.
		e.studioHeat = clamp(e.studioHeat-2, 0, 100)
		e.logEvent("%s launched a saturation marketing blitz", r.Name)
	case ArchetypePrestigeHunter:
		e.logEvent("%s is feeding unflattering stories to the trades", r.Name)
	case ArchetypeGenreSpecialist:
		if p := e.nextDatedRelease(); p != nil {
			for _, g := range prof.homeGenres {
				if p.Genre == g {
					p.HypeScore = clamp(p.HypeScore-4, 0, 100)
					e.logEvent("%s counter-programmed against %q", r.Name, p.Title)
					break
				}
			}
		}
	case ArchetypeStreamingFirst:
		e.injectStreamingPreBuy(r)
	case ArchetypeScrappyUpstart:
		e.logEvent("%s is circling your talent pool", r.Name)
	}

	if first {
		e.enqueueCounterplay(prof.signatureFlag)
	}
}

// injectStreamingPreBuy drops a rich pre-buy into an unsigned distribution
// project's offer stack. The guarantee buys out most of the upside.
func (e *Engine) injectStreamingPreBuy(r *RivalStudio) {
	for _, p := range e.projects {
		if p.Phase != PhaseDistribution || p.Partner != "" {
			continue
		}
		proj, valid := e.projectionFor(p)
		if !valid {
			continue
		}
		mid := float64(proj.OpeningLow+proj.OpeningHigh) / 2
		p.Offers = append(p.Offers, DistributionOffer{
			ID:                  e.nextID("off"),
			Partner:             r.Name,
			Kind:                "streamingPreBuy",
			MinimumGuarantee:    int64(math.Round(mid * 1.25)),
			RevenueShare:        0.10,
			MarketingCommitment: int64(math.Round(mid * 0.05)),
		})
		e.logEvent("%s pre-bought into %q's offer stack", r.Name, p.Title)
		return
	}
}

// rivalReleaseResponsePass lets rivals hit back at a player film that just
// closed a winning run. Each rival rolls once; the retaliation memory axis
// drives how likely they are to bother.
func (e *Engine) rivalReleaseResponsePass(p *Project) {
	if p.FinalROI < retaliationROIBar {
		return
	}
	for _, r := range e.rivals {
		prof := rivalProfiles[r.Archetype]
		chance := prof.aggression * (0.4 + r.Memory.Retaliation*0.08)
		if e.rivalRand() >= chance {
			continue
		}
		switch r.Archetype {
		case ArchetypeBlockbusterFactory:
			e.dateShiftTentpole(r)
		case ArchetypePrestigeHunter:
			e.poachDirector(r)
		case ArchetypeStreamingFirst:
			e.injectOutputDealDecision(r)
		default:
			e.counterCampaign(r)
		}
	}
}

// dateShiftTentpole moves the rival's next tentpole onto the player's next
// dated opening and fires the collision.
func (e *Engine) dateShiftTentpole(r *RivalStudio) {
	target := e.nextDatedRelease()
	if target == nil {
		return
	}
	for i := range r.Slate {
		if !r.Slate[i].Tentpole || r.Slate[i].Week <= e.week {
			continue
		}
		r.Slate[i].Week = target.ReleaseWeek
		e.logEvent("%s re-dated %q onto week %d", r.Name, r.Slate[i].Title, target.ReleaseWeek)
		e.checkDateCollision(r, r.Slate[i])
		return
	}
}

// poachDirector takes the best available director off the board outright.
func (e *Engine) poachDirector(r *RivalStudio) {
	var best *Talent
	for _, t := range e.talent {
		if t.Role != RoleDirector || t.Avail != AvailabilityAvailable {
			continue
		}
		if best == nil || t.Craft > best.Craft {
			best = t
		}
	}
	if best == nil {
		return
	}
	e.lockTalent(r, best)
}

// injectOutputDealDecision puts the streamer's output-deal card in the queue.
func (e *Engine) injectOutputDealDecision(r *RivalStudio) {
	e.raiseFlag("rival-output-deal", 1)
	for _, tpl := range eventDeck {
		if tpl.ID == "streaming-output-deal" {
			if e.injectDecision(tpl, "") {
				e.logEvent("%s floated an output deal", r.Name)
			}
			return
		}
	}
}

// counterCampaign drains hype on the player's loudest unreleased project.
func (e *Engine) counterCampaign(r *RivalStudio) {
	var loudest *Project
	for _, p := range e.projects {
		if p.Phase == PhaseReleased {
			continue
		}
		if loudest == nil || p.HypeScore > loudest.HypeScore {
			loudest = p
		}
	}
	if loudest == nil {
		return
	}
	loudest.HypeScore = clamp(loudest.HypeScore-5, 0, 100)
	e.logEvent("%s ran a counter-campaign against %q", r.Name, loudest.Title)
}

// poachTalent executes a concession or a triggered poach: the negotiation
// dies and the talent is off the board for a stretch.
func (e *Engine) poachTalent(talentID, by string) {
	t := e.talentByID(talentID)
	if t == nil {
		return
	}
	delete(e.negotiations, talentID)
	for _, p := range e.projects {
		if p.DirectorID == t.ID {
			p.DirectorID = ""
		}
		for i, id := range p.CastIDs {
			if id == t.ID {
				p.CastIDs = append(p.CastIDs[:i], p.CastIDs[i+1:]...)
				break
			}
		}
	}
	t.Avail = AvailabilityUnavailable
	t.ReturnWeek = e.week + rivalLockWeeks
	t.LockedBy = by
	e.recordInteraction(t, -0.2, "signed elsewhere")
	e.logEvent("%s was poached by %s", t.Name, by)
}

// perturbRivalMemory drifts each axis toward its resting point with a little
// noise so rivals neither freeze nor explode.
func (e *Engine) perturbRivalMemory(r *RivalStudio) {
	drift := func(v, rest float64) float64 {
		v += (rest - v) * 0.04
		v += (e.rivalRand() - 0.5) * 0.3
		return clamp(v, 0, 10)
	}
	r.Memory.Hostility = drift(r.Memory.Hostility, 3)
	r.Memory.Respect = drift(r.Memory.Respect, 5)
	r.Memory.Retaliation = drift(r.Memory.Retaliation, 3)
	r.Memory.Cooperation = drift(r.Memory.Cooperation, 5)
	if e.studioHeat > r.Heat {
		r.Memory.Hostility = clamp(r.Memory.Hostility+0.15, 0, 10)
	}
}

// updateRivalMemoryOnRelease moves the memory scalars: hits breed hostility
// and respect, flops breed neither. The retaliation pass runs separately.
func (e *Engine) updateRivalMemoryOnRelease(p *Project) {
	for _, r := range e.rivals {
		prof := rivalProfiles[r.Archetype]
		if p.FinalROI >= 1.0 {
			r.Memory.Hostility = clamp(r.Memory.Hostility+prof.aggression*10, 0, 10)
			r.Memory.Respect = clamp(r.Memory.Respect+0.6, 0, 10)
			r.Memory.Retaliation = clamp(r.Memory.Retaliation+0.4, 0, 10)
		} else if p.FinalROI < 0 {
			r.Memory.Respect = clamp(r.Memory.Respect-0.4, 0, 10)
			r.Memory.Cooperation = clamp(r.Memory.Cooperation+0.3, 0, 10)
		}
		for _, g := range prof.homeGenres {
			if p.Genre == g {
				r.Memory.Hostility = clamp(r.Memory.Hostility+0.5, 0, 10)
				break
			}
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
