package sim

import (
	"fmt"
	"log/slog"
	mathrand "math/rand"
	"time"
)

const SnapshotVersion = 2

// firedPair is one entry of the cooldown index. The map form is runtime-only;
// saves carry the flattened, key-ordered pairs so snapshot bytes are stable.
type firedPair struct {
	TemplateID string `json:"template_id"`
	Week       int    `json:"week"`
}

// ManagerState is the full serializable simulation state.
type ManagerState struct {
	Week        int     `json:"week"`
	Ledger      Ledger  `json:"ledger"`
	StudioHeat  float64 `json:"studio_heat"`
	Reputation  float64 `json:"reputation"`
	ExecNetwork float64 `json:"exec_network"`

	Projects     []*Project        `json:"projects,omitempty"`
	Talent       []*Talent         `json:"talent,omitempty"`
	Negotiations []*Negotiation    `json:"negotiations,omitempty"`
	Crises       []*CrisisEvent    `json:"crises,omitempty"`
	Decisions    []*DecisionItem   `json:"decisions,omitempty"`
	ScriptMarket []*ScriptPitch    `json:"script_market,omitempty"`
	Rivals       []*RivalStudio    `json:"rivals,omitempty"`
	Franchises   []*FranchiseTrack `json:"franchises,omitempty"`

	Arcs  map[string]*ArcState `json:"arcs,omitempty"`
	Flags map[string]int       `json:"flags,omitempty"`

	LastFired      []firedPair     `json:"last_fired,omitempty"`
	LastCategories []EventCategory `json:"last_categories,omitempty"`
	RevealQueue    []string        `json:"reveal_queue,omitempty"`
	Seq            int             `json:"seq"`
}

// Envelope wraps a state snapshot with the metadata the save store needs.
type Envelope struct {
	Version int          `json:"version"`
	SavedAt time.Time    `json:"saved_at"`
	Manager ManagerState `json:"manager"`
}

// Snapshot captures the engine's full state. The returned envelope shares no
// pointers with the engine.
func (e *Engine) Snapshot() Envelope {
	st := ManagerState{
		Week:        e.week,
		Ledger:      e.Ledger(),
		StudioHeat:  e.studioHeat,
		Reputation:  e.reputation,
		ExecNetwork: e.execNetwork,
		Seq:         e.seq,
	}
	for _, p := range e.projects {
		cp := *p
		cp.CastIDs = append([]string(nil), p.CastIDs...)
		cp.WeeklyGross = append([]int64(nil), p.WeeklyGross...)
		cp.Offers = append([]DistributionOffer(nil), p.Offers...)
		st.Projects = append(st.Projects, &cp)
	}
	for _, t := range e.talent {
		cp := *t
		cp.Memory.History = append([]Interaction(nil), t.Memory.History...)
		cp.GenreFit = make(map[Genre]float64, len(t.GenreFit))
		for g, f := range t.GenreFit {
			cp.GenreFit[g] = f
		}
		st.Talent = append(st.Talent, &cp)
	}
	for _, talentID := range sortedKeys(e.negotiations) {
		cp := *e.negotiations[talentID]
		st.Negotiations = append(st.Negotiations, &cp)
	}
	for _, c := range e.crises {
		cp := *c
		cp.Options = append([]CrisisOption(nil), c.Options...)
		st.Crises = append(st.Crises, &cp)
	}
	for _, d := range e.decisions {
		cp := *d
		cp.Options = append([]DecisionOption(nil), d.Options...)
		st.Decisions = append(st.Decisions, &cp)
	}
	for _, s := range e.scriptMarket {
		cp := *s
		st.ScriptMarket = append(st.ScriptMarket, &cp)
	}
	for _, r := range e.rivals {
		cp := *r
		cp.LockedTalent = append([]string(nil), r.LockedTalent...)
		cp.Slate = append([]RivalRelease(nil), r.Slate...)
		st.Rivals = append(st.Rivals, &cp)
	}
	for _, f := range e.franchises {
		cp := *f
		cp.ProjectIDs = append([]string(nil), f.ProjectIDs...)
		st.Franchises = append(st.Franchises, &cp)
	}
	st.Arcs = make(map[string]*ArcState, len(e.arcs))
	for id, a := range e.arcs {
		cp := *a
		st.Arcs[id] = &cp
	}
	st.Flags = make(map[string]int, len(e.flags))
	for name, n := range e.flags {
		st.Flags[name] = n
	}
	for _, id := range sortedKeys(e.lastFired) {
		st.LastFired = append(st.LastFired, firedPair{TemplateID: id, Week: e.lastFired[id]})
	}
	st.LastCategories = append([]EventCategory(nil), e.lastCategories...)
	st.RevealQueue = append([]string(nil), e.revealQueue...)

	return Envelope{Version: SnapshotVersion, SavedAt: time.Now().UTC(), Manager: st}
}

// rebuildFired is the pure inverse of the flattening in Snapshot.
func rebuildFired(pairs []firedPair) map[string]int {
	out := make(map[string]int, len(pairs))
	for _, p := range pairs {
		out[p.TemplateID] = p.Week
	}
	return out
}

// Restore builds an engine from a snapshot. The config supplies the logger
// and random sources; everything else comes from the envelope.
func Restore(env Envelope, cfg Config) (*Engine, error) {
	if env.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d is not supported (want %d)", env.Version, SnapshotVersion)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	st := env.Manager
	e := &Engine{
		log:            cfg.Logger,
		week:           st.Week,
		ledger:         st.Ledger,
		studioHeat:     st.StudioHeat,
		reputation:     st.Reputation,
		execNetwork:    st.ExecNetwork,
		projects:       st.Projects,
		talent:         st.Talent,
		crises:         st.Crises,
		decisions:      st.Decisions,
		scriptMarket:   st.ScriptMarket,
		rivals:         st.Rivals,
		franchises:     st.Franchises,
		arcs:           st.Arcs,
		flags:          st.Flags,
		lastFired:      rebuildFired(st.LastFired),
		lastCategories: st.LastCategories,
		revealQueue:    st.RevealQueue,
		seq:            st.Seq,
	}
	e.negotiations = make(map[string]*Negotiation, len(st.Negotiations))
	for _, n := range st.Negotiations {
		e.negotiations[n.TalentID] = n
	}
	if e.arcs == nil {
		e.arcs = map[string]*ArcState{}
	}
	if e.flags == nil {
		e.flags = map[string]int{}
	}
	e.crisisRand = cfg.CrisisRand
	e.eventRand = cfg.EventRand
	e.negotiationRand = cfg.NegotiationRand
	e.rivalRand = cfg.RivalRand
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
	return e, nil
}
