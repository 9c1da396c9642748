package sim

import "fmt"

const (
	maxInteractionHistory = 12

	trustFloor   = 0.0
	trustCeiling = 10.0
)

// seedTalent builds the opening roster. The pool is deterministic so a fresh
// engine with pinned random sources replays identically.
func seedTalent() []*Talent {
	first := []string{"Mara", "Julian", "Priya", "Dominic", "Elena", "Sawyer", "Noor", "Felix", "Imogen", "Rafael", "Greta", "Theo", "Yuki", "Colm", "Adaeze", "Lars", "Simone", "Bruno"}
	last := []string{"Voss", "Okafor", "Lindqvist", "Carraway", "Duarte", "Hale", "Ishikawa", "Moreau", "Bennett", "Castellanos", "Pryce", "Van Daal", "Reyes", "Obi", "Falk", "Delacroix", "Nkemdirim", "Ashworth"}

	roles := []TalentRole{RoleDirector, RoleDirector, RoleDirector, RoleDirector, RoleDirector, RoleLead, RoleLead, RoleLead, RoleLead, RoleLead, RoleLead, RoleLead, RoleSupporting, RoleSupporting, RoleSupporting, RoleSupporting, RoleSupporting, RoleSupporting}

	out := make([]*Talent, 0, len(roles))
	for i, role := range roles {
		star := 3.0 + float64((i*7)%60)/10.0
		craft := 4.0 + float64((i*11)%55)/10.0
		ego := 2.0 + float64((i*5)%70)/10.0
		tier := 1 + (i*3)%3
		salary := int64(400_000 + (i%9)*350_000)
		if role == RoleDirector {
			salary += 600_000
			craft += 0.8
		}
		if star > 7.5 {
			salary *= 2
			tier = 3
		}
		fit := map[Genre]float64{}
		for g := range genreOpeningBaseline {
			fit[g] = 0.5
		}
		fit[allGenres[i%len(allGenres)]] = 0.9
		fit[allGenres[(i+3)%len(allGenres)]] = 0.75

		out = append(out, &Talent{
			ID:         fmt.Sprintf("tal-%02d", i+1),
			Name:       fmt.Sprintf("%s %s", first[i%len(first)], last[(i*5)%len(last)]),
			Role:       role,
			StarPower:  clamp(star, 1, 10),
			Craft:      clamp(craft, 1, 10),
			GenreFit:   fit,
			Ego:        clamp(ego, 1, 10),
			AgentTier:  tier,
			SalaryBase: salary,
			PerksBase:  int64(60_000 + (i%5)*45_000),
			BackendPts: 1.0 + float64(tier),
			Avail:      AvailabilityAvailable,
			Memory:     RelationshipMemory{Trust: 5.0, Loyalty: 5.0},
		})
	}
	return out
}

// recordInteraction appends to a talent's bounded history, evicting the
// oldest entry, and moves trust/loyalty with the delta's sign.
func (e *Engine) recordInteraction(t *Talent, delta float64, note string) {
	t.Memory.History = append(t.Memory.History, Interaction{Week: e.week, Delta: delta, Note: note})
	if len(t.Memory.History) > maxInteractionHistory {
		t.Memory.History = t.Memory.History[len(t.Memory.History)-maxInteractionHistory:]
	}
	t.Memory.Trust = clamp(t.Memory.Trust+delta*0.5, trustFloor, trustCeiling)
	t.Memory.Loyalty = clamp(t.Memory.Loyalty+delta*0.3, trustFloor, trustCeiling)
}

// recentNegativeCount counts negative interactions inside the refusal-risk
// lookback window.
func (t *Talent) recentNegativeCount(currentWeek int) int {
	n := 0
	for _, h := range t.Memory.History {
		if h.Delta < 0 && currentWeek-h.Week <= 8 {
			n++
		}
	}
	return n
}

// updateTalentAvailability runs once per week: unavailable talent comes back
// on its return week, and rival locks expire with it.
func (e *Engine) updateTalentAvailability() {
	for _, t := range e.talent {
		if t.Avail == AvailabilityUnavailable && t.ReturnWeek > 0 && e.week >= t.ReturnWeek {
			t.Avail = AvailabilityAvailable
			t.ReturnWeek = 0
			t.LockedBy = ""
			e.logEvent("%s is available again", t.Name)
		}
	}
}

// releaseTalent puts a talent back on the market, clearing any negotiation
// lock.
func (e *Engine) releaseTalent(t *Talent) {
	t.Avail = AvailabilityAvailable
	t.ReturnWeek = 0
}

// detachFromProject clears director/cast references when a project goes away.
func (e *Engine) detachFromProject(p *Project) {
	if p.DirectorID != "" {
		if t := e.talentByID(p.DirectorID); t != nil && t.Avail == AvailabilityAttached {
			e.releaseTalent(t)
		}
	}
	for _, id := range p.CastIDs {
		if t := e.talentByID(id); t != nil && t.Avail == AvailabilityAttached {
			e.releaseTalent(t)
		}
	}
}
