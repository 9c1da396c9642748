package sim

import (
	"fmt"
	"math"
)

const (
	scriptMarketSize  = 5
	scriptShelfWeeks  = 3
	developmentHype   = 8.0
	agencyPassPenalty = 0.02
)

var genreBudgetBaseline = map[Genre]int64{
	GenreAction:   95_000_000,
	GenreDrama:    28_000_000,
	GenreComedy:   38_000_000,
	GenreHorror:   18_000_000,
	GenreSciFi:    85_000_000,
	GenreThriller: 42_000_000,
	GenreFamily:   70_000_000,
}

var titleAdjectives = []string{"Crimson", "Silent", "Last", "Broken", "Midnight", "Hollow", "Golden", "Savage", "Paper", "Iron", "Forgotten", "Electric"}
var titleNouns = []string{"Harbor", "Covenant", "Orbit", "Reckoning", "Daughter", "Cartel", "Meridian", "Vigil", "Circus", "Frontier", "Ledger", "Monarch"}

func (e *Engine) pitchTitle() string {
	adj := titleAdjectives[int(e.eventRand()*float64(len(titleAdjectives)))%len(titleAdjectives)]
	noun := titleNouns[int(e.eventRand()*float64(len(titleNouns)))%len(titleNouns)]
	return fmt.Sprintf("The %s %s", adj, noun)
}

// refreshScriptMarket tops the market back up to size and drops expired
// pitches. Expiry is silent beyond one aggregate log line.
func (e *Engine) refreshScriptMarket() {
	kept := e.scriptMarket[:0]
	expired := 0
	for _, s := range e.scriptMarket {
		if e.week >= s.ExpiresWeek {
			expired++
			continue
		}
		kept = append(kept, s)
	}
	e.scriptMarket = kept
	if expired > 0 {
		e.logEvent("%d script pitches left the market", expired)
	}

	for len(e.scriptMarket) < scriptMarketSize {
		genre := allGenres[int(e.eventRand()*float64(len(allGenres)))%len(allGenres)]
		quality := 4.0 + e.eventRand()*5.0
		concept := 3.5 + e.eventRand()*5.5
		price := int64(math.Round((250_000+quality*90_000+concept*60_000)/10_000)) * 10_000
		e.scriptMarket = append(e.scriptMarket, &ScriptPitch{
			ID:              e.nextID("scr"),
			Title:           e.pitchTitle(),
			Genre:           genre,
			ScriptQuality:   math.Round(quality*10) / 10,
			ConceptStrength: math.Round(concept*10) / 10,
			Price:           price,
			ListedWeek:      e.week,
			ExpiresWeek:     e.week + scriptShelfWeeks,
		})
	}
}

func (e *Engine) pitch(id string) (*ScriptPitch, int) {
	for i, s := range e.scriptMarket {
		if s.ID == id {
			return s, i
		}
	}
	return nil, -1
}

// AcquireScript buys a pitch off the market and opens a development-phase
// project seeded from it.
func (e *Engine) AcquireScript(id string) Result {
	s, i := e.pitch(id)
	if s == nil {
		return failf("script %s is not on the market", id)
	}
	if !e.ledger.CanAfford(s.Price) {
		return failf("cannot cover the $%d asking price for %q", s.Price, s.Title)
	}
	e.ledger.Debit(e.week, "script", "acquired: "+s.Title, s.Price)
	e.scriptMarket = append(e.scriptMarket[:i], e.scriptMarket[i+1:]...)

	baseline := genreBudgetBaseline[s.Genre]
	ceiling := int64(math.Round(float64(baseline) * (0.7 + s.ConceptStrength*0.06)))
	p := &Project{
		ID:      e.nextID("prj"),
		Title:   s.Title,
		Genre:   s.Genre,
		Phase:   PhaseDevelopment,
		Created: e.week,
		Budget: Budget{
			Ceiling:      ceiling,
			AboveTheLine: int64(float64(ceiling) * 0.30),
			BelowTheLine: int64(float64(ceiling) * 0.45),
			Post:         int64(float64(ceiling) * 0.15),
			Contingency:  int64(float64(ceiling) * 0.10),
			OverrunRisk:  0.08 + (10-s.ScriptQuality)*0.015,
		},
		ScriptQuality:    s.ScriptQuality,
		ConceptStrength:  s.ConceptStrength,
		CommercialAppeal: clamp(s.ConceptStrength*0.8, 0, 10),
		Originality:      clamp(s.ConceptStrength*0.7+1.0, 0, 10),
		HypeScore:        developmentHype,
		ProductionStatus: StatusOnTrack,
	}
	e.projects = append(e.projects, p)
	e.logEvent("acquired %q for $%d", s.Title, s.Price)
	return okf("acquired %q; project %s opened in development", s.Title, p.ID)
}

// PassScript declines a pitch, pulling it from the market.
func (e *Engine) PassScript(id string) Result {
	s, i := e.pitch(id)
	if s == nil {
		return failf("script %s is not on the market", id)
	}
	e.scriptMarket = append(e.scriptMarket[:i], e.scriptMarket[i+1:]...)
	// Agencies remember a pass; the next hot package gets shopped elsewhere
	// first.
	e.execNetwork = clamp(e.execNetwork-agencyPassPenalty, 0, 2)
	e.logEvent("passed on %q", s.Title)
	return okf("passed on %q", s.Title)
}
