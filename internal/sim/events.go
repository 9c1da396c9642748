package sim

import "sort"

const (
	maxDecisionQueue   = 4
	hypeTargetPoolSize = 3

	lowCashThreshold = int64(3_000_000)
	lowHeatThreshold = 35.0
	lowCashBoost     = 1.6
	lowHeatBoost     = 1.5
	crisisWeekDamp   = 0.5

	projectCountBoost  = 0.15
	repeatCategoryDamp = 0.6
	repeatDampLookback = 2
)

// eventWorld is the read-only view the scheduler weighs templates against.
// Engine implements it; weight tests run against a fixture instead.
type eventWorld interface {
	weekNow() int
	cashOnHand() int64
	heatNow() float64
	pendingCrisisCount() int
	flagActive(name string) bool
	arcState(id string) (ArcState, bool)
	arcPressure(arcID string) float64
	lastFiredWeek(templateID string) (int, bool)
	queuedTemplate(templateID string) bool
	recentCategories() []EventCategory
	candidateCount(tpl eventTemplate) int
}

func (e *Engine) cashOnHand() int64           { return e.ledger.Cash }
func (e *Engine) pendingCrisisCount() int     { return len(e.crises) }
func (e *Engine) flagActive(name string) bool { return e.flagSet(name) }

func (e *Engine) arcState(id string) (ArcState, bool) {
	if a := e.arc(id); a != nil {
		return *a, true
	}
	return ArcState{}, false
}

func (e *Engine) lastFiredWeek(templateID string) (int, bool) {
	w, found := e.lastFired[templateID]
	return w, found
}

func (e *Engine) queuedTemplate(templateID string) bool {
	for _, d := range e.decisions {
		if d.TemplateID == templateID {
			return true
		}
	}
	return false
}

func (e *Engine) recentCategories() []EventCategory { return e.lastCategories }

func (e *Engine) candidateCount(tpl eventTemplate) int { return len(e.decisionTargets(tpl)) }

// decisionTargets returns the candidate projects for a template: filtered by
// phase, then the top few by hype so the scheduler gravitates toward what the
// player is already invested in.
func (e *Engine) decisionTargets(tpl eventTemplate) []*Project {
	eligible := make([]*Project, 0, len(e.projects))
	for _, p := range e.projects {
		for _, ph := range tpl.Phases {
			if p.Phase == ph {
				eligible = append(eligible, p)
				break
			}
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].HypeScore != eligible[j].HypeScore {
			return eligible[i].HypeScore > eligible[j].HypeScore
		}
		return eligible[i].ID < eligible[j].ID
	})
	if len(eligible) > hypeTargetPoolSize {
		eligible = eligible[:hypeTargetPoolSize]
	}
	return eligible
}

// arcGateMatches reports whether the arc is inside the gate's stage range
// and status. An absent arc never matches; an empty gate status means active.
func arcGateMatches(g arcGate, w eventWorld) bool {
	a, found := w.arcState(g.Arc)
	if !found {
		return false
	}
	status := g.Status
	if status == "" {
		status = ArcActive
	}
	if a.Status != status || a.Stage < g.MinStage {
		return false
	}
	if g.MaxStage > 0 && a.Stage > g.MaxStage {
		return false
	}
	return true
}

// templateWeight computes a template's draw weight for this week, or 0 when
// it is ineligible.
func templateWeight(tpl eventTemplate, w eventWorld) float64 {
	if last, fired := w.lastFiredWeek(tpl.ID); fired && w.weekNow()-last < tpl.CooldownWeeks {
		return 0
	}
	if tpl.RequireFlag != "" && !w.flagActive(tpl.RequireFlag) {
		return 0
	}
	if tpl.BlocksFlag != "" && w.flagActive(tpl.BlocksFlag) {
		return 0
	}
	if tpl.RequiresArc != nil && !arcGateMatches(*tpl.RequiresArc, w) {
		return 0
	}
	if tpl.BlocksArc != nil && arcGateMatches(*tpl.BlocksArc, w) {
		return 0
	}
	if w.queuedTemplate(tpl.ID) {
		return 0
	}
	targets := 0
	if tpl.NeedsProject {
		targets = w.candidateCount(tpl)
		if targets == 0 {
			return 0
		}
	}

	weight := tpl.BaseWeight
	if targets > 1 {
		weight *= 1 + float64(targets-1)*projectCountBoost
	}
	if tpl.Category == CategoryFinance && w.cashOnHand() < lowCashThreshold {
		weight *= lowCashBoost
	}
	if tpl.Category == CategoryMarketing && w.heatNow() < lowHeatThreshold {
		weight *= lowHeatBoost
	}
	if tpl.Category == CategoryOperations && w.pendingCrisisCount() > 0 {
		weight *= crisisWeekDamp
	}
	if tpl.ArcID != "" {
		weight *= 1 + w.arcPressure(tpl.ArcID)
	}
	// The damp compounds: drawing the same category twice running costs more
	// than drawing it once.
	for _, c := range w.recentCategories() {
		if c == tpl.Category {
			weight *= repeatCategoryDamp
		}
	}
	return weight
}

// injectDecision appends a template-built item directly, bypassing the
// weighted draw. It respects the queue cap and template de-duplication.
func (e *Engine) injectDecision(tpl eventTemplate, projectID string) bool {
	if len(e.decisions) >= maxDecisionQueue || e.queuedTemplate(tpl.ID) {
		return false
	}
	d := &DecisionItem{
		ID:               e.nextID("dec"),
		TemplateID:       tpl.ID,
		Title:            tpl.Title,
		Category:         tpl.Category,
		ProjectID:        projectID,
		ArcID:            tpl.ArcID,
		Options:          tpl.Options,
		WeeksUntilExpiry: tpl.ExpiryWeeks,
		ExpiryFlag:       tpl.ExpiryFlag,
	}
	e.decisions = append(e.decisions, d)
	e.lastFired[tpl.ID] = e.week
	e.logEvent("decision queued: %s", tpl.Title)
	return true
}

// enqueueCounterplay puts the deck's counterplay card for a raised flag
// straight into the queue. The first layer of a signature flag always lands
// its card; later layers go through the normal draw.
func (e *Engine) enqueueCounterplay(flag string) {
	for _, tpl := range eventDeck {
		if tpl.RequireFlag != flag {
			continue
		}
		e.injectDecision(tpl, "")
		return
	}
}

// scheduleDecisions performs the week's single weighted draw from the deck.
// The queue is hard-capped; a full queue means no draw at all.
func (e *Engine) scheduleDecisions() {
	if len(e.decisions) >= maxDecisionQueue {
		return
	}

	type candidate struct {
		tpl    eventTemplate
		weight float64
	}
	candidates := make([]candidate, 0, len(eventDeck))
	total := 0.0
	for _, tpl := range eventDeck {
		if w := templateWeight(tpl, e); w > 0 {
			candidates = append(candidates, candidate{tpl, w})
			total += w
		}
	}
	if len(candidates) == 0 {
		return
	}

	roll := e.eventRand() * total
	chosen := candidates[len(candidates)-1].tpl
	for _, c := range candidates {
		roll -= c.weight
		if roll < 0 {
			chosen = c.tpl
			break
		}
	}

	projectID := ""
	if chosen.NeedsProject {
		targets := e.decisionTargets(chosen)
		if len(targets) == 0 {
			return
		}
		projectID = targets[int(e.eventRand()*float64(len(targets)))%len(targets)].ID
	}
	if !e.injectDecision(chosen, projectID) {
		return
	}
	e.lastCategories = append(e.lastCategories, chosen.Category)
	if len(e.lastCategories) > repeatDampLookback {
		e.lastCategories = e.lastCategories[len(e.lastCategories)-repeatDampLookback:]
	}
}

// tickDecisionExpiry ages the queue. An expired decision is dropped silently
// except that its expiry flag, if any, peels one layer.
func (e *Engine) tickDecisionExpiry() {
	kept := e.decisions[:0]
	for _, d := range e.decisions {
		d.WeeksUntilExpiry--
		if d.WeeksUntilExpiry > 0 {
			kept = append(kept, d)
			continue
		}
		if d.ExpiryFlag != "" {
			e.lowerFlag(d.ExpiryFlag)
		}
		e.logEvent("decision expired unanswered: %s", d.Title)
	}
	e.decisions = kept
}

// ResolveDecision applies one option and removes the item from the queue.
// Resolving a decision that is no longer queued fails cleanly.
func (e *Engine) ResolveDecision(decisionID, optionID string) Result {
	var d *DecisionItem
	idx := -1
	for i, cand := range e.decisions {
		if cand.ID == decisionID {
			d, idx = cand, i
			break
		}
	}
	if d == nil {
		return failf("decision %s is not in the queue", decisionID)
	}
	var opt *DecisionOption
	for i := range d.Options {
		if d.Options[i].ID == optionID {
			opt = &d.Options[i]
			break
		}
	}
	if opt == nil {
		return failf("option %s is not offered by %q", optionID, d.Title)
	}
	e.decisions = append(e.decisions[:idx], e.decisions[idx+1:]...)
	e.applyEffects(opt.Effects, e.project(d.ProjectID))
	e.logEvent("decision %q: %s", d.Title, opt.Label)
	return okf("%q: %s", d.Title, opt.Label)
}
