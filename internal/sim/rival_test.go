package sim

import (
	"strings"
	"testing"
)

// fakeRivalWorld pins the inputs a rival reads when picking a move.
type fakeRivalWorld struct {
	week  int
	heat  float64
	roll  float64
	next  *Project
	cands []*Talent
}

func (f *fakeRivalWorld) weekNow() int               { return f.week }
func (f *fakeRivalWorld) heatNow() float64           { return f.heat }
func (f *fakeRivalWorld) rivalRoll() float64         { return f.roll }
func (f *fakeRivalWorld) nextDatedRelease() *Project { return f.next }
func (f *fakeRivalWorld) poachCandidates() []*Talent { return f.cands }

func TestSeedRivalsCoversArchetypes(t *testing.T) {
	rivals := seedRivals()
	seen := map[Archetype]bool{}
	for _, r := range rivals {
		if _, known := rivalProfiles[r.Archetype]; !known {
			t.Fatalf("rival %s has no profile for %s", r.Name, r.Archetype)
		}
		seen[r.Archetype] = true
	}
	if len(seen) != 5 {
		t.Fatalf("archetype coverage = %d, want all 5", len(seen))
	}
}

func TestChoosePoachTargetFollowsSortKey(t *testing.T) {
	star := &Talent{ID: "t-a", StarPower: 9, Craft: 3, Ego: 2, Avail: AvailabilityAvailable}
	craft := &Talent{ID: "t-b", StarPower: 4, Craft: 9, Ego: 4, Avail: AvailabilityAvailable}
	ego := &Talent{ID: "t-c", StarPower: 5, Craft: 5, Ego: 9, Avail: AvailabilityInNegotiation}
	w := &fakeRivalWorld{cands: []*Talent{star, craft, ego}}

	if got := choosePoachTarget(w, poachByStarPower); got != star {
		t.Fatalf("star power key picked %s", got.ID)
	}
	if got := choosePoachTarget(w, poachByCraft); got != craft {
		t.Fatalf("craft key picked %s", got.ID)
	}
	if got := choosePoachTarget(w, poachByEgo); got != ego {
		t.Fatalf("ego key picked %s", got.ID)
	}
	w.roll = 0.5
	if got := choosePoachTarget(w, poachByChance); got == nil {
		t.Fatal("chance key must still pick someone")
	}
	w.cands = nil
	if got := choosePoachTarget(w, poachByStarPower); got != nil {
		t.Fatalf("empty pool must pick nobody, got %s", got.ID)
	}
}

func TestRivalTalentLock(t *testing.T) {
	// rivalRand 0.0 always fires the poach rate.
	e := testEngine(0.95, 0.5, 0.5, 0.0)
	r := e.rivals[0]

	e.rivalTalentPass(r, rivalProfiles[r.Archetype])
	var locked *Talent
	for _, tal := range e.talent {
		if tal.Avail == AvailabilityUnavailable {
			locked = tal
			break
		}
	}
	if locked == nil {
		t.Fatal("always-fire rival stream locked nobody")
	}
	if locked.LockedBy != r.ID || locked.ReturnWeek != e.week+rivalLockWeeks {
		t.Fatalf("lock fields wrong: by %q, return %d", locked.LockedBy, locked.ReturnWeek)
	}

	e.week = locked.ReturnWeek
	e.updateTalentAvailability()
	if locked.Avail != AvailabilityAvailable {
		t.Fatal("lock must expire on the return week")
	}
}

func TestTalentPassTargetsMidNegotiation(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.0)
	p := addProject(e, PhaseDevelopment, 5_000_000)
	tal := availableTalent(e, RoleLead)
	e.StartTalentNegotiation(tal.ID, p.ID)
	for _, other := range e.talent {
		if other.ID != tal.ID {
			other.Avail = AvailabilityUnavailable
		}
	}

	r := e.rivals[0]
	e.rivalTalentPass(r, rivalProfiles[r.Archetype])
	if len(e.crises) != 1 {
		t.Fatalf("mid-negotiation target produced %d crises, want 1", len(e.crises))
	}
	c := e.crises[0]
	if c.Severity != "red" {
		t.Fatalf("counter-offer severity = %q, want red", c.Severity)
	}
	if tal.Avail != AvailabilityInNegotiation {
		t.Fatal("the talent is not gone until the player concedes")
	}
}

func TestDateCollisionCrisis(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	r := e.rivals[0]
	p := addProject(e, PhaseDistribution, 10_000_000)
	p.ReleaseWeek = e.week + 5

	e.checkDateCollision(r, RivalRelease{Title: "Rival Tentpole", Week: p.ReleaseWeek, Tentpole: true})
	if len(e.crises) != 1 {
		t.Fatalf("collision produced %d crises, want 1", len(e.crises))
	}
	c := e.crises[0]
	if c.ProjectID != p.ID || len(c.Options) != 3 {
		t.Fatalf("collision crisis malformed: %+v", c)
	}

	// Pushing four weeks clear moves the date.
	week := p.ReleaseWeek
	if res := e.ResolveCrisis(c.ID, "delay"); !res.OK {
		t.Fatalf("resolve: %s", res.Message)
	}
	if p.ReleaseWeek != week+4 {
		t.Fatalf("release week = %d, want %d", p.ReleaseWeek, week+4)
	}
}

func TestCounterOfferConcedePoaches(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	p := addProject(e, PhaseDevelopment, 5_000_000)
	tal := availableTalent(e, RoleLead)
	e.StartTalentNegotiation(tal.ID, p.ID)

	r := e.rivals[0]
	e.injectCounterOfferCrisis(r, tal)
	if len(e.crises) != 1 {
		t.Fatalf("counter-offer produced %d crises, want 1", len(e.crises))
	}
	c := e.crises[0]
	if res := e.ResolveCrisis(c.ID, "concede"); !res.OK {
		t.Fatalf("concede: %s", res.Message)
	}
	if _, open := e.negotiations[tal.ID]; open {
		t.Fatal("conceding must kill the negotiation")
	}
	if tal.Avail != AvailabilityUnavailable || !strings.Contains(tal.LockedBy, r.Name) {
		t.Fatalf("talent not poached: %s / %q", tal.Avail, tal.LockedBy)
	}
}

func TestCounterOfferMatchKeepsNegotiation(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	p := addProject(e, PhaseDevelopment, 5_000_000)
	tal := availableTalent(e, RoleLead)
	e.StartTalentNegotiation(tal.ID, p.ID)

	r := e.rivals[0]
	e.injectCounterOfferCrisis(r, tal)
	c := e.crises[0]
	cash := e.Cash()
	if res := e.ResolveCrisis(c.ID, "match"); !res.OK {
		t.Fatalf("match: %s", res.Message)
	}
	if e.Cash() >= cash {
		t.Fatal("matching must cost cash")
	}
	if _, open := e.negotiations[tal.ID]; !open {
		t.Fatal("matching must keep the negotiation alive")
	}
}

func TestSignatureMoveStacksFlagAndQueuesCounterplay(t *testing.T) {
	// rivalRand 0.0 always clears the signature chance.
	e := testEngine(0.95, 0.5, 0.5, 0.0)
	r := e.rivals[1] // prestige hunter
	prof := rivalProfiles[r.Archetype]
	hostility := r.Memory.Hostility

	e.rivalSignaturePass(r, prof)
	if got := e.flagCount(prof.signatureFlag); got != 1 {
		t.Fatalf("signature flag layers = %d, want 1", got)
	}
	if r.Memory.Hostility <= hostility {
		t.Fatal("a signature move must harden the rival's memory")
	}
	queued := 0
	for _, d := range e.decisions {
		if d.TemplateID == "smear-counterplay" {
			queued++
		}
	}
	if queued != 1 {
		t.Fatalf("first layer queued %d counterplay cards, want 1", queued)
	}

	e.rivalSignaturePass(r, prof)
	if got := e.flagCount(prof.signatureFlag); got != 2 {
		t.Fatalf("second move flag layers = %d, want stacked 2", got)
	}
	for _, d := range e.decisions {
		if d.TemplateID == "smear-counterplay" {
			queued--
		}
	}
	if queued != 0 {
		t.Fatal("later layers must not duplicate the counterplay card")
	}
}

func TestEverySignatureFlagHasACounterplayCard(t *testing.T) {
	for arch, prof := range rivalProfiles {
		found := false
		for _, tpl := range eventDeck {
			if tpl.RequireFlag == prof.signatureFlag {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("%s raises %q with no counterplay card in the deck", arch, prof.signatureFlag)
		}
	}
}

func TestStreamingSignatureInjectsPreBuyOffer(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.0)
	p := addProject(e, PhaseDistribution, 20_000_000)
	var r *RivalStudio
	for _, cand := range e.rivals {
		if cand.Archetype == ArchetypeStreamingFirst {
			r = cand
			break
		}
	}

	e.rivalSignaturePass(r, rivalProfiles[r.Archetype])
	if len(p.Offers) != 1 {
		t.Fatalf("pre-buy left %d offers on the project, want 1", len(p.Offers))
	}
	off := p.Offers[0]
	if off.Kind != "streamingPreBuy" || off.Partner != r.Name {
		t.Fatalf("pre-buy offer malformed: %+v", off)
	}
	if off.MinimumGuarantee <= 0 || off.RevenueShare >= 0.5 {
		t.Fatalf("pre-buy terms must be guarantee-heavy: %+v", off)
	}
}

func TestReleaseResponsePassRetaliates(t *testing.T) {
	// rivalRand 0.0 makes every rival retaliate.
	e := testEngine(0.95, 0.5, 0.5, 0.0)
	for _, r := range e.rivals {
		r.Memory.Retaliation = 8
	}
	upcoming := addProject(e, PhaseProduction, 10_000_000)
	upcoming.HypeScore = 60

	hit := addProject(e, PhaseReleased, 10_000_000)
	hit.Budget.ActualSpend = 10_000_000
	hit.FinalGross = 30_000_000
	e.resolveRelease(hit)

	var director *Talent
	for _, tal := range e.talent {
		if tal.Role == RoleDirector && tal.Avail == AvailabilityUnavailable {
			director = tal
			break
		}
	}
	if director == nil {
		t.Fatal("the prestige hunter must answer a hit by taking a director off the board")
	}
	outputDeal := false
	for _, d := range e.decisions {
		if d.TemplateID == "streaming-output-deal" {
			outputDeal = true
		}
	}
	if !outputDeal {
		t.Fatal("the streamer must answer a hit with an output-deal card")
	}
	if upcoming.HypeScore >= 60 {
		t.Fatalf("counter-campaign left hype at %v, want a drain", upcoming.HypeScore)
	}
}

func TestReleaseResponseSkipsModestRuns(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.0)
	for _, r := range e.rivals {
		r.Memory.Retaliation = 8
	}
	miss := addProject(e, PhaseReleased, 10_000_000)
	miss.Budget.ActualSpend = 10_000_000
	miss.FinalGross = 12_000_000
	e.resolveRelease(miss)

	for _, tal := range e.talent {
		if tal.Avail == AvailabilityUnavailable {
			t.Fatal("a modest run must not draw retaliation")
		}
	}
	if len(e.decisions) != 0 {
		t.Fatal("a modest run must not draw an output-deal card")
	}
}

func TestSmearFlagDrainsHeat(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	e.raiseFlag("rival-smear", 2)
	heat := e.StudioHeat()

	e.applyStandingPressure()
	want := heat - smearHeatDrainPerLayer*2
	if e.StudioHeat() != want {
		t.Fatalf("heat = %v, want %v", e.StudioHeat(), want)
	}
}

func TestPoachingFlagTriggersAtTwoLayers(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	e.raiseFlag("rival-poaching", 1)
	e.applyStandingPressure()
	for _, tal := range e.talent {
		if tal.Avail == AvailabilityUnavailable {
			t.Fatal("one layer must not trigger a poach")
		}
	}

	e.raiseFlag("rival-poaching", 1)
	e.applyStandingPressure()
	poached := false
	for _, tal := range e.talent {
		if tal.Avail == AvailabilityUnavailable {
			poached = true
		}
	}
	if !poached {
		t.Fatal("two layers must trigger a poach")
	}
	if e.flagSet("rival-poaching") {
		t.Fatal("triggered poach must consume the flag")
	}
}

func TestMemoryPerturbationStaysClamped(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.5)
	r := e.rivals[0]
	r.Memory.Hostility = 10
	for i := 0; i < 50; i++ {
		e.perturbRivalMemory(r)
	}
	m := r.Memory
	for _, v := range []float64{m.Hostility, m.Respect, m.Retaliation, m.Cooperation} {
		if v < 0 || v > 10 {
			t.Fatalf("memory axis %v outside clamp", v)
		}
	}
}

func TestReleaseReactionRaisesHostilityOnHit(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	p := resolvedHit(e)
	before := e.rivals[0].Memory.Hostility

	e.updateRivalMemoryOnRelease(p)
	if e.rivals[0].Memory.Hostility <= before {
		t.Fatal("a hit must raise rival hostility")
	}
}
