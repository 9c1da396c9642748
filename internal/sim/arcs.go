package sim

// Story flags are stacked counters: absent or zero means unset, each raise
// adds layers, and a decision expiring peels exactly one layer. The count
// never goes negative.

func (e *Engine) raiseFlag(name string, layers int) {
	if layers <= 0 {
		return
	}
	e.flags[name] += layers
}

func (e *Engine) lowerFlag(name string) {
	if e.flags[name] <= 1 {
		delete(e.flags, name)
		return
	}
	e.flags[name]--
}

func (e *Engine) clearFlag(name string) {
	delete(e.flags, name)
}

func (e *Engine) flagCount(name string) int {
	return e.flags[name]
}

func (e *Engine) flagSet(name string) bool {
	return e.flags[name] > 0
}

func (e *Engine) arc(id string) *ArcState {
	return e.arcs[id]
}

func (e *Engine) ensureArc(id string) *ArcState {
	if a, found := e.arcs[id]; found {
		return a
	}
	a := &ArcState{Stage: 1, Status: ArcActive, LastUpdatedWeek: e.week}
	e.arcs[id] = a
	return a
}

// mutateArc applies the arc portion of an effect bundle. Stage sets and
// advances only touch active arcs; resolve/fail are terminal.
func (e *Engine) mutateArc(id string, b EffectBundle) {
	a := e.ensureArc(id)
	if a.Status != ArcActive && !b.ResolveArc && !b.FailArc {
		return
	}
	if b.SetArcStage > 0 {
		a.Stage = b.SetArcStage
		a.LastUpdatedWeek = e.week
	}
	if b.AdvanceArcBy != 0 {
		a.Stage += b.AdvanceArcBy
		if a.Stage < 1 {
			a.Stage = 1
		}
		a.LastUpdatedWeek = e.week
	}
	if b.ResolveArc {
		a.Status = ArcResolved
		a.LastUpdatedWeek = e.week
	}
	if b.FailArc {
		a.Status = ArcFailed
		a.LastUpdatedWeek = e.week
	}
}

// Arcs returns a copy of the arc map for callers outside the engine.
func (e *Engine) Arcs() map[string]ArcState {
	out := make(map[string]ArcState, len(e.arcs))
	for id, a := range e.arcs {
		out[id] = *a
	}
	return out
}

// Flags returns a copy of the flag counters.
func (e *Engine) Flags() map[string]int {
	out := make(map[string]int, len(e.flags))
	for name, n := range e.flags {
		out[name] = n
	}
	return out
}
