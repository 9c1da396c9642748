package sim

import (
	"math"
	"testing"
)

// fakeEventWorld lets weight tests pin every input the scheduler reads.
type fakeEventWorld struct {
	week     int
	cash     int64
	heat     float64
	crises   int
	flags    map[string]bool
	arcs     map[string]ArcState
	pressure map[string]float64
	fired    map[string]int
	queued   map[string]bool
	recent   []EventCategory
	targets  int
}

func newFakeEventWorld() *fakeEventWorld {
	return &fakeEventWorld{week: 10, cash: 10_000_000, heat: 50, targets: 1}
}

func (f *fakeEventWorld) weekNow() int                { return f.week }
func (f *fakeEventWorld) cashOnHand() int64           { return f.cash }
func (f *fakeEventWorld) heatNow() float64            { return f.heat }
func (f *fakeEventWorld) pendingCrisisCount() int     { return f.crises }
func (f *fakeEventWorld) flagActive(name string) bool { return f.flags[name] }

func (f *fakeEventWorld) arcState(id string) (ArcState, bool) {
	a, found := f.arcs[id]
	return a, found
}

func (f *fakeEventWorld) arcPressure(arcID string) float64 { return f.pressure[arcID] }

func (f *fakeEventWorld) lastFiredWeek(templateID string) (int, bool) {
	w, found := f.fired[templateID]
	return w, found
}

func (f *fakeEventWorld) queuedTemplate(templateID string) bool { return f.queued[templateID] }
func (f *fakeEventWorld) recentCategories() []EventCategory     { return f.recent }
func (f *fakeEventWorld) candidateCount(eventTemplate) int      { return f.targets }

func TestScheduleDecisionsRespectsCap(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	for i := 0; i < maxDecisionQueue; i++ {
		e.decisions = append(e.decisions, &DecisionItem{ID: e.nextID("dec"), Title: "filler", WeeksUntilExpiry: 5})
	}
	e.scheduleDecisions()
	if len(e.decisions) != maxDecisionQueue {
		t.Fatalf("queue grew past the cap: %d", len(e.decisions))
	}
}

func TestScheduleDecisionsSingleDraw(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	e.scheduleDecisions()
	if len(e.decisions) != 1 {
		t.Fatalf("%d decisions drawn in one week, want exactly one", len(e.decisions))
	}
	e.scheduleDecisions()
	if len(e.decisions) != 2 {
		t.Fatalf("second week drew %d new decisions, want one", len(e.decisions)-1)
	}
}

func TestTemplateCooldownAndDeDup(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	tpl := eventDeck[0]

	e.lastFired[tpl.ID] = e.week
	if w := templateWeight(tpl, e); w != 0 {
		t.Fatalf("cooldown ignored: weight %v", w)
	}

	e.lastFired = map[string]int{}
	e.decisions = append(e.decisions, &DecisionItem{ID: "dec-q", TemplateID: tpl.ID, WeeksUntilExpiry: 2})
	if w := templateWeight(tpl, e); w != 0 {
		t.Fatalf("already-queued template still weighted: %v", w)
	}
}

func TestFlagGatedTemplate(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	var tpl eventTemplate
	for _, cand := range eventDeck {
		if cand.RequireFlag != "" {
			tpl = cand
			break
		}
	}
	if w := templateWeight(tpl, e); w != 0 {
		t.Fatalf("flag-gated template weighted without the flag: %v", w)
	}
	e.raiseFlag(tpl.RequireFlag, 1)
	if w := templateWeight(tpl, e); w <= 0 {
		t.Fatal("flag-gated template must be weighted once the flag is up")
	}
}

func TestBlocksFlagSuppressesTemplate(t *testing.T) {
	w := newFakeEventWorld()
	tpl := eventTemplate{ID: "x", Category: CategoryMarketing, BaseWeight: 1.0, CooldownWeeks: 1, BlocksFlag: "rival-smear"}

	if got := templateWeight(tpl, w); got <= 0 {
		t.Fatal("template must be weighted while the blocking flag is down")
	}
	w.flags = map[string]bool{"rival-smear": true}
	if got := templateWeight(tpl, w); got != 0 {
		t.Fatalf("blocking flag ignored: weight %v", got)
	}
}

func TestRequiresArcStageRangeAndStatus(t *testing.T) {
	w := newFakeEventWorld()
	tpl := eventTemplate{
		ID: "x", Category: CategoryStory, BaseWeight: 1.0, CooldownWeeks: 1,
		RequiresArc: &arcGate{Arc: "press-darling", MinStage: 2, MaxStage: 4},
	}

	if got := templateWeight(tpl, w); got != 0 {
		t.Fatalf("absent arc must not match: weight %v", got)
	}
	w.arcs = map[string]ArcState{"press-darling": {Stage: 1, Status: ArcActive}}
	if got := templateWeight(tpl, w); got != 0 {
		t.Fatalf("stage below the gate must not match: weight %v", got)
	}
	w.arcs["press-darling"] = ArcState{Stage: 3, Status: ArcActive}
	if got := templateWeight(tpl, w); got <= 0 {
		t.Fatal("in-range active arc must match")
	}
	w.arcs["press-darling"] = ArcState{Stage: 5, Status: ArcActive}
	if got := templateWeight(tpl, w); got != 0 {
		t.Fatalf("stage above the gate must not match: weight %v", got)
	}
	w.arcs["press-darling"] = ArcState{Stage: 3, Status: ArcResolved}
	if got := templateWeight(tpl, w); got != 0 {
		t.Fatalf("an empty gate status means active; resolved must not match: weight %v", got)
	}
}

func TestBlocksArcSuppressesTemplate(t *testing.T) {
	w := newFakeEventWorld()
	tpl := eventTemplate{
		ID: "x", Category: CategoryStory, BaseWeight: 1.0, CooldownWeeks: 1,
		BlocksArc: &arcGate{Arc: "press-darling", Status: ArcResolved},
	}

	w.arcs = map[string]ArcState{"press-darling": {Stage: 3, Status: ArcActive}}
	if got := templateWeight(tpl, w); got <= 0 {
		t.Fatal("active arc must not block a resolved-status gate")
	}
	w.arcs["press-darling"] = ArcState{Stage: 3, Status: ArcResolved}
	if got := templateWeight(tpl, w); got != 0 {
		t.Fatalf("resolved arc must block: weight %v", got)
	}
}

func TestProjectTemplateNeedsEligibleTarget(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	var tpl eventTemplate
	for _, cand := range eventDeck {
		if cand.NeedsProject {
			tpl = cand
			break
		}
	}
	if w := templateWeight(tpl, e); w != 0 {
		t.Fatalf("project template weighted with no projects: %v", w)
	}
	addProject(e, tpl.Phases[0], 5_000_000)
	if w := templateWeight(tpl, e); w <= 0 {
		t.Fatal("project template must be weighted with an eligible target")
	}
}

func TestCandidateCountBoostsWeight(t *testing.T) {
	w := newFakeEventWorld()
	tpl := eventTemplate{ID: "x", Category: CategoryOperations, BaseWeight: 1.0, CooldownWeeks: 1, NeedsProject: true}

	w.targets = 1
	one := templateWeight(tpl, w)
	w.targets = 3
	three := templateWeight(tpl, w)
	if three <= one {
		t.Fatalf("more candidates must draw hotter: %v <= %v", three, one)
	}
	want := one * (1 + 2*projectCountBoost)
	if math.Abs(three-want) > 1e-9 {
		t.Fatalf("candidate boost = %v, want %v", three, want)
	}
}

func TestDecisionTargetsTopHype(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	tpl := eventTemplate{NeedsProject: true, Phases: []Phase{PhaseProduction}}
	for i, hype := range []float64{10, 80, 30, 60, 50} {
		p := addProject(e, PhaseProduction, 5_000_000)
		p.HypeScore = hype
		_ = i
	}
	targets := e.decisionTargets(tpl)
	if len(targets) != hypeTargetPoolSize {
		t.Fatalf("target pool = %d, want %d", len(targets), hypeTargetPoolSize)
	}
	if targets[0].HypeScore != 80 || targets[1].HypeScore != 60 || targets[2].HypeScore != 50 {
		t.Fatalf("pool not hype-ordered: %v %v %v", targets[0].HypeScore, targets[1].HypeScore, targets[2].HypeScore)
	}
}

func TestLowCashBoostsFinance(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	var tpl eventTemplate
	for _, cand := range eventDeck {
		if cand.Category == CategoryFinance && cand.RequireFlag == "" {
			tpl = cand
			break
		}
	}
	rich := templateWeight(tpl, e)
	e.ledger.Cash = lowCashThreshold - 1
	poor := templateWeight(tpl, e)
	if poor <= rich {
		t.Fatalf("low cash did not boost finance weight: %v <= %v", poor, rich)
	}
}

func TestCrisisDampHitsOnlyOperations(t *testing.T) {
	w := newFakeEventWorld()
	ops := eventTemplate{ID: "ops", Category: CategoryOperations, BaseWeight: 1.0, CooldownWeeks: 1}
	fin := eventTemplate{ID: "fin", Category: CategoryFinance, BaseWeight: 1.0, CooldownWeeks: 1}

	opsCalm := templateWeight(ops, w)
	finCalm := templateWeight(fin, w)
	w.crises = 1
	if got := templateWeight(ops, w); got >= opsCalm {
		t.Fatalf("pending crises must damp operations: %v >= %v", got, opsCalm)
	}
	if got := templateWeight(fin, w); got != finCalm {
		t.Fatalf("pending crises must not touch other categories: %v != %v", got, finCalm)
	}
}

func TestArcPressureBoostsLinkedTemplates(t *testing.T) {
	w := newFakeEventWorld()
	tpl := eventTemplate{ID: "x", Category: CategoryStory, BaseWeight: 1.0, CooldownWeeks: 1, ArcID: "press-darling"}

	base := templateWeight(tpl, w)
	w.pressure = map[string]float64{"press-darling": 0.5}
	boosted := templateWeight(tpl, w)
	if math.Abs(boosted-base*1.5) > 1e-9 {
		t.Fatalf("arc pressure boost = %v, want %v", boosted, base*1.5)
	}
}

func TestRivalProfilesFeedArcPressure(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	if e.arcPressure("press-darling") <= 0 {
		t.Fatal("the prestige hunter must lean on the press-darling arc")
	}
	if e.arcPressure("no-such-arc") != 0 {
		t.Fatal("unlinked arcs must carry no pressure")
	}
}

func TestRepeatCategoryDampCompounds(t *testing.T) {
	w := newFakeEventWorld()
	tpl := eventTemplate{ID: "x", Category: CategoryFinance, BaseWeight: 1.0, CooldownWeeks: 1}

	base := templateWeight(tpl, w)
	w.recent = []EventCategory{CategoryFinance}
	once := templateWeight(tpl, w)
	w.recent = []EventCategory{CategoryFinance, CategoryFinance}
	twice := templateWeight(tpl, w)
	if once >= base || twice >= once {
		t.Fatalf("repeat damp must compound: %v, %v, %v", base, once, twice)
	}
	if math.Abs(twice-base*repeatCategoryDamp*repeatCategoryDamp) > 1e-9 {
		t.Fatalf("two repeats = %v, want %v", twice, base*repeatCategoryDamp*repeatCategoryDamp)
	}
}

func TestResolveDecisionStudioScoped(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	cash := e.Cash()
	heat := e.StudioHeat()
	e.decisions = append(e.decisions, &DecisionItem{
		ID: "dec-s", Title: "studio call", WeeksUntilExpiry: 2,
		Options: []DecisionOption{{ID: "go", Label: "go", Effects: EffectBundle{Cash: 500_000, StudioHeat: 2}}},
	})

	res := e.ResolveDecision("dec-s", "go")
	if !res.OK {
		t.Fatalf("resolve: %s", res.Message)
	}
	if e.Cash() != cash+500_000 || e.StudioHeat() != heat+2 {
		t.Fatalf("studio effects not applied: cash %d heat %v", e.Cash(), e.StudioHeat())
	}
	if res := e.ResolveDecision("dec-s", "go"); res.OK {
		t.Fatal("resolving a consumed decision must fail")
	}
}

func TestExpiryPeelsOneFlagLayer(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	e.raiseFlag("rival-poaching", 2)
	e.decisions = append(e.decisions, &DecisionItem{
		ID: "dec-e", Title: "expiring", WeeksUntilExpiry: 1, ExpiryFlag: "rival-poaching",
	})

	e.tickDecisionExpiry()
	if len(e.decisions) != 0 {
		t.Fatal("expired decision still queued")
	}
	if got := e.flagCount("rival-poaching"); got != 1 {
		t.Fatalf("flag layers = %d, want exactly one peeled", got)
	}
}

func TestUnknownDecisionAndOption(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	if res := e.ResolveDecision("nope", "go"); res.OK {
		t.Fatal("unknown decision must fail")
	}
	e.decisions = append(e.decisions, &DecisionItem{
		ID: "dec-k", Title: "known", WeeksUntilExpiry: 2,
		Options: []DecisionOption{{ID: "only", Label: "only"}},
	})
	if res := e.ResolveDecision("dec-k", "nope"); res.OK {
		t.Fatal("unknown option must fail")
	}
	if len(e.decisions) != 1 {
		t.Fatal("failed resolution must not consume the decision")
	}
}
