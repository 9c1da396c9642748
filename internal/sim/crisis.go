package sim

// Crisis generation and resolution. Crises are blocking: EndWeek refuses to
// run while any are pending, so every template must carry options the player
// can always take.

const (
	crisisOverrunBoost = 0.30
	crisisAtRiskBoost  = 0.06
)

// crisisChanceByPhase is the weekly base probability of a crisis per project.
// Only the three physical-production phases roll; development is too early
// for operational incidents and distribution pressure arrives through rivals.
var crisisChanceByPhase = map[Phase]float64{
	PhasePreProduction:  0.05,
	PhaseProduction:     0.14,
	PhasePostProduction: 0.07,
}

type crisisTemplate struct {
	Title    string
	Body     string
	Severity string
	Options  [2]CrisisOption
}

// One pool per phase. Exactly two options each: the cheap-now choice and the
// expensive-now choice, so the tradeoff is always legible.
var crisisPools = map[Phase][]crisisTemplate{
	PhasePreProduction: {
		{
			Title: "Location falls through", Body: "The anchor location pulled its permit two weeks before load-in.", Severity: "moderate",
			Options: [2]CrisisOption{
				{ID: "scout", Label: "Rush-scout a replacement", Effects: EffectBundle{Cash: -450_000, ScheduleWeeks: 1}},
				{ID: "rewrite", Label: "Rewrite around a soundstage", Effects: EffectBundle{ScriptQuality: -0.4, EditorialScore: -0.2}},
			},
		},
		{
			Title: "Department head quits", Body: "The production designer walked over creative differences.", Severity: "minor",
			Options: [2]CrisisOption{
				{ID: "poach", Label: "Poach a replacement at a premium", Effects: EffectBundle{Cash: -300_000}},
				{ID: "promote", Label: "Promote from within", Effects: EffectBundle{ScheduleWeeks: 1, OverrunRisk: 0.03}},
			},
		},
	},
	PhaseProduction: {
		{
			Title: "On-set injury", Body: "A stunt went wrong; the unit is dark pending the safety review.", Severity: "major",
			Options: [2]CrisisOption{
				{ID: "settle", Label: "Settle fast and reinforce safety", Effects: EffectBundle{Cash: -1_200_000, StudioHeat: -1}},
				{ID: "fight", Label: "Contest liability", Effects: EffectBundle{Cash: -200_000, Controversy: 1.2, StudioHeat: -4, ScheduleWeeks: 2}},
			},
		},
		{
			Title: "Weather wipes the schedule", Body: "A week of exteriors is gone and the forecast is worse.", Severity: "moderate",
			Options: [2]CrisisOption{
				{ID: "overtime", Label: "Buy it back with overtime", Effects: EffectBundle{Cash: -800_000, OverrunRisk: 0.04}},
				{ID: "slip", Label: "Let the schedule slip", Effects: EffectBundle{ScheduleWeeks: 2}},
			},
		},
		{
			Title: "Star feud on set", Body: "The leads are no longer speaking; coverage is suffering.", Severity: "moderate",
			Options: [2]CrisisOption{
				{ID: "mediate", Label: "Fly in a mediator", Effects: EffectBundle{Cash: -350_000}},
				{ID: "shoot-around", Label: "Shoot around it", Effects: EffectBundle{EditorialScore: -0.5, Hype: -3}},
			},
		},
	},
	PhasePostProduction: {
		{
			Title: "VFX vendor misses delivery", Body: "The hero sequence came back unusable.", Severity: "major",
			Options: [2]CrisisOption{
				{ID: "second-vendor", Label: "Split the work to a second vendor", Effects: EffectBundle{Cash: -900_000}},
				{ID: "recut", Label: "Recut around the sequence", Effects: EffectBundle{EditorialScore: -0.6, ScheduleWeeks: -1}},
			},
		},
		{
			Title: "Score falls flat", Body: "The temp score is better than the delivered one and everyone knows it.", Severity: "minor",
			Options: [2]CrisisOption{
				{ID: "rescore", Label: "Commission a new score", Effects: EffectBundle{Cash: -500_000, ScheduleWeeks: 1, EditorialScore: 0.3}},
				{ID: "ship-it", Label: "Ship what exists", Effects: EffectBundle{EditorialScore: -0.3}},
			},
		},
	},
}

// rollCrises runs once per EndWeek. One roll per project, ordered by the
// projects slice, which is itself insertion-ordered.
func (e *Engine) rollCrises() {
	for _, p := range e.projects {
		pool := crisisPools[p.Phase]
		if len(pool) == 0 {
			continue
		}
		chance := crisisChanceByPhase[p.Phase]
		chance += p.Budget.OverrunRisk * crisisOverrunBoost
		if p.ProductionStatus == StatusAtRisk {
			chance += crisisAtRiskBoost
		}
		if e.crisisRand() >= chance {
			continue
		}
		tpl := pool[int(e.crisisRand()*float64(len(pool)))%len(pool)]
		c := &CrisisEvent{
			ID:        e.nextID("cri"),
			ProjectID: p.ID,
			Title:     tpl.Title,
			Body:      tpl.Body,
			Severity:  tpl.Severity,
			Week:      e.week,
			Options:   tpl.Options[:],
		}
		e.crises = append(e.crises, c)
		e.logEvent("crisis on %q: %s", p.Title, c.Title)
	}
}

// injectCrisis is how non-roll sources (rival moves) put a crisis in front of
// the player.
func (e *Engine) injectCrisis(projectID, title, body, severity string, options []CrisisOption) *CrisisEvent {
	c := &CrisisEvent{
		ID:        e.nextID("cri"),
		ProjectID: projectID,
		Title:     title,
		Body:      body,
		Severity:  severity,
		Week:      e.week,
		Options:   options,
	}
	e.crises = append(e.crises, c)
	return c
}

// ResolveCrisis applies one option and removes the crisis. Resolving the same
// crisis twice fails cleanly; effects land exactly once.
func (e *Engine) ResolveCrisis(crisisID, optionID string) Result {
	var c *CrisisEvent
	idx := -1
	for i, cand := range e.crises {
		if cand.ID == crisisID {
			c, idx = cand, i
			break
		}
	}
	if c == nil {
		return failf("crisis %s is not pending", crisisID)
	}
	var opt *CrisisOption
	for i := range c.Options {
		if c.Options[i].ID == optionID {
			opt = &c.Options[i]
			break
		}
	}
	if opt == nil {
		return failf("option %s is not offered by %q", optionID, c.Title)
	}
	e.crises = append(e.crises[:idx], e.crises[idx+1:]...)
	e.applyEffects(opt.Effects, e.project(c.ProjectID))
	e.logEvent("crisis %q resolved: %s", c.Title, opt.Label)
	return okf("%q resolved: %s", c.Title, opt.Label)
}
