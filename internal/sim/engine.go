package sim

import (
	"errors"
	"fmt"
	"log/slog"
	mathrand "math/rand"
	"sort"
	"time"
)

var (
	// ErrCrisesPending is the engine's only hard failure: advancing the week
	// while crises are unresolved is a caller contract violation, not a game
	// state the player can be left in.
	ErrCrisesPending = errors.New("cannot end week while crises are pending")
)

const (
	DefaultStartingCash = int64(30_000_000)

	startingHeat       = 42.0
	startingReputation = 5.0
)

// Config wires the engine's injected randomness and logger. Each concern
// gets its own source so tests can pin one stream without disturbing the
// others and replays stay deterministic.
type Config struct {
	Logger          *slog.Logger
	Seed            int64
	StartingCash    int64
	CrisisRand      func() float64
	EventRand       func() float64
	NegotiationRand func() float64
	RivalRand       func() float64
}

// Engine owns all game state and advances it one week at a time. It is
// single-threaded by design: no public method blocks, and ordering inside
// EndWeek is the only synchronization that exists.
type Engine struct {
	log *slog.Logger

	week        int
	ledger      Ledger
	studioHeat  float64
	reputation  float64
	execNetwork float64

	projects     []*Project
	talent       []*Talent
	negotiations map[string]*Negotiation
	crises       []*CrisisEvent
	decisions    []*DecisionItem
	scriptMarket []*ScriptPitch
	rivals       []*RivalStudio
	franchises   []*FranchiseTrack

	arcs  map[string]*ArcState
	flags map[string]int

	// lastFired is a runtime index (template id -> week last drawn). It is
	// flattened to ordered pairs on save and rebuilt on load.
	lastFired      map[string]int
	lastCategories []EventCategory

	revealQueue []string
	weekEvents  []string
	seq         int

	crisisRand      func() float64
	eventRand       func() float64
	negotiationRand func() float64
	rivalRand       func() float64
}

func New(cfg Config) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.StartingCash <= 0 {
		cfg.StartingCash = DefaultStartingCash
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &Engine{
		log:             cfg.Logger,
		week:            1,
		studioHeat:      startingHeat,
		reputation:      startingReputation,
		execNetwork:     1.0,
		negotiations:    map[string]*Negotiation{},
		arcs:            map[string]*ArcState{},
		flags:           map[string]int{},
		lastFired:       map[string]int{},
		crisisRand:      cfg.CrisisRand,
		eventRand:       cfg.EventRand,
		negotiationRand: cfg.NegotiationRand,
		rivalRand:       cfg.RivalRand,
	}
	if e.crisisRand == nil {
		e.crisisRand = mathrand.New(mathrand.NewSource(seed)).Float64
	}
	if e.eventRand == nil {
		e.eventRand = mathrand.New(mathrand.NewSource(seed + 1)).Float64
	}
	if e.negotiationRand == nil {
		e.negotiationRand = mathrand.New(mathrand.NewSource(seed + 2)).Float64
	}
	if e.rivalRand == nil {
		e.rivalRand = mathrand.New(mathrand.NewSource(seed + 3)).Float64
	}

	e.ledger.Cash = cfg.StartingCash
	e.talent = seedTalent()
	e.rivals = seedRivals()
	e.refreshScriptMarket()
	return e
}

func (e *Engine) nextID(prefix string) string {
	e.seq++
	return fmt.Sprintf("%s-%04d", prefix, e.seq)
}

func (e *Engine) logEvent(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	e.weekEvents = append(e.weekEvents, line)
	e.log.Debug("sim event", "week", e.week, "event", line)
}

func (e *Engine) project(id string) *Project {
	for _, p := range e.projects {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (e *Engine) talentByID(id string) *Talent {
	for _, t := range e.talent {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (e *Engine) franchise(id string) *FranchiseTrack {
	for _, f := range e.franchises {
		if f.ID == id {
			return f
		}
	}
	return nil
}

func (e *Engine) removeProject(id string) {
	for i, p := range e.projects {
		if p.ID == id {
			e.projects = append(e.projects[:i], e.projects[i+1:]...)
			return
		}
	}
}

// Capability views. Subsystems consume the engine through narrow interfaces
// (rivalWorld, eventWorld) so each is testable against a fixture; these two
// adapters are shared by both.

func (e *Engine) weekNow() int     { return e.week }
func (e *Engine) heatNow() float64 { return e.studioHeat }

// Read accessors. Slices are copied so callers cannot mutate engine state.

func (e *Engine) CurrentWeek() int       { return e.week }
func (e *Engine) Cash() int64            { return e.ledger.Cash }
func (e *Engine) StudioHeat() float64    { return e.studioHeat }
func (e *Engine) Bankrupt() bool         { return e.ledger.Bankrupt }
func (e *Engine) BankruptReason() string { return e.ledger.BankruptReason }

func (e *Engine) Projects() []Project {
	out := make([]Project, 0, len(e.projects))
	for _, p := range e.projects {
		out = append(out, *p)
	}
	return out
}

func (e *Engine) Project(id string) (Project, bool) {
	if p := e.project(id); p != nil {
		return *p, true
	}
	return Project{}, false
}

func (e *Engine) TalentPool() []Talent {
	out := make([]Talent, 0, len(e.talent))
	for _, t := range e.talent {
		out = append(out, *t)
	}
	return out
}

func (e *Engine) TalentByID(id string) (Talent, bool) {
	if t := e.talentByID(id); t != nil {
		return *t, true
	}
	return Talent{}, false
}

func (e *Engine) OpenNegotiation(talentID string) (Negotiation, bool) {
	if n, found := e.negotiations[talentID]; found {
		return *n, true
	}
	return Negotiation{}, false
}

func (e *Engine) PendingCrises() []CrisisEvent {
	out := make([]CrisisEvent, 0, len(e.crises))
	for _, c := range e.crises {
		out = append(out, *c)
	}
	return out
}

func (e *Engine) DecisionQueue() []DecisionItem {
	out := make([]DecisionItem, 0, len(e.decisions))
	for _, d := range e.decisions {
		out = append(out, *d)
	}
	return out
}

func (e *Engine) ScriptMarket() []ScriptPitch {
	out := make([]ScriptPitch, 0, len(e.scriptMarket))
	for _, s := range e.scriptMarket {
		out = append(out, *s)
	}
	return out
}

func (e *Engine) Rivals() []RivalStudio {
	out := make([]RivalStudio, 0, len(e.rivals))
	for _, r := range e.rivals {
		out = append(out, *r)
	}
	return out
}

func (e *Engine) Franchises() []FranchiseTrack {
	out := make([]FranchiseTrack, 0, len(e.franchises))
	for _, f := range e.franchises {
		out = append(out, *f)
	}
	return out
}

func (e *Engine) Ledger() Ledger {
	cp := e.ledger
	cp.Entries = append([]LedgerEntry(nil), e.ledger.Entries...)
	return cp
}

// ConsumeRevealQueue returns the project ids whose release outcomes have not
// been shown yet and clears the queue; each release is revealed exactly once.
func (e *Engine) ConsumeRevealQueue() []string {
	out := e.revealQueue
	e.revealQueue = nil
	return out
}

// sortedKeys keeps map iteration deterministic; every walk over a map in
// the engine goes through it.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// applyEffects is the one generic routine that lands an option's deltas on a
// target project and/or studio-wide state.
func (e *Engine) applyEffects(b EffectBundle, p *Project) {
	if b.Cash != 0 {
		e.ledger.Apply(e.week, "event", "decision outcome", b.Cash)
	}
	if b.StudioHeat != 0 {
		e.studioHeat = clamp(e.studioHeat+b.StudioHeat, 0, 100)
	}
	if p != nil {
		p.ScriptQuality = clamp(p.ScriptQuality+b.ScriptQuality, 0, 10)
		p.EditorialScore = clamp(p.EditorialScore+b.EditorialScore, 0, 10)
		p.HypeScore = clamp(p.HypeScore+b.Hype, 0, 100)
		p.Prestige = clamp(p.Prestige+b.Prestige, 0, 10)
		p.CommercialAppeal = clamp(p.CommercialAppeal+b.CommercialAppeal, 0, 10)
		p.Controversy = clamp(p.Controversy+b.Controversy, 0, 10)
		p.Budget.OverrunRisk = clamp(p.Budget.OverrunRisk+b.OverrunRisk, 0, 1)
		if b.ScheduleWeeks != 0 {
			p.ScheduledWeeksRemaining += b.ScheduleWeeks
			if p.ScheduledWeeksRemaining < 0 {
				p.ScheduledWeeksRemaining = 0
			}
		}
		if b.Marketing != 0 {
			p.Budget.Marketing += b.Marketing
			if p.Budget.Marketing < 0 {
				p.Budget.Marketing = 0
			}
		}
		if b.ReleaseWeekShift != 0 && p.ReleaseWeek > 0 {
			p.ReleaseWeek += b.ReleaseWeekShift
			if p.ReleaseWeek < e.week {
				p.ReleaseWeek = e.week
			}
		}
	}
	if b.PoachTalentID != "" {
		e.poachTalent(b.PoachTalentID, b.PoachedBy)
	}
	if b.SetFlag != "" {
		layers := b.FlagLayers
		if layers <= 0 {
			layers = 1
		}
		e.raiseFlag(b.SetFlag, layers)
	}
	if b.ClearFlag != "" {
		e.clearFlag(b.ClearFlag)
	}
	if b.ArcID != "" {
		e.mutateArc(b.ArcID, b)
	}
}
