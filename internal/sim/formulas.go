package sim

import "math"

// Pure numeric formulas. Nothing in this file reads or writes engine state;
// every caller passes the inputs it wants scored.

const (
	heatDeltaFloor   = -12.0
	heatDeltaCeiling = 15.0

	hypeDecayPerWeek = 1.6
	hypeFloor        = 0.0
	hypeCeiling      = 100.0

	runDecayBase    = 0.62
	runDecayPerWeek = 0.015
)

var genreOpeningBaseline = map[Genre]float64{
	GenreAction:   32_000_000,
	GenreDrama:    11_000_000,
	GenreComedy:   17_000_000,
	GenreHorror:   19_000_000,
	GenreSciFi:    28_000_000,
	GenreThriller: 15_000_000,
	GenreFamily:   24_000_000,
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CriticalScore blends craft inputs into a 0-100 review score. Controversy
// cuts both ways: it shaves the blend but originality earns it back.
func CriticalScore(scriptQuality, editorial, directorCraft, originality, controversy float64) float64 {
	base := scriptQuality*5.2 + editorial*2.4 + directorCraft*2.6
	base += originality*1.8 - controversy*0.9
	return clamp(base, 0, 100)
}

// AudienceScore tracks the critics but rewards commercial appeal and hype.
func AudienceScore(critical, commercialAppeal, hype float64) float64 {
	return clamp(critical*0.55+commercialAppeal*2.8+hype*0.17, 0, 100)
}

// OpeningRange forecasts the opening-weekend gross band.
func OpeningRange(commercialAppeal, hype, starPower, marketing float64, genre Genre) (low, high float64) {
	baseline, okGenre := genreOpeningBaseline[genre]
	if !okGenre {
		baseline = 14_000_000
	}
	mult := 0.40 + commercialAppeal*0.085 + hype*0.009 + starPower*0.035
	mult += math.Min(marketing/60_000_000, 0.50)
	mid := baseline * mult
	return math.Max(mid*0.72, 250_000), mid * 1.34
}

// ROI is (gross - spend) / spend with a floor on spend so an unspent project
// cannot divide by zero.
func ROI(gross, spend float64) float64 {
	if spend < 1 {
		spend = 1
	}
	return (gross - spend) / spend
}

// HeatDeltaFromRelease converts a finished run into a studio-heat swing,
// clamped so one film never makes or breaks the studio outright.
func HeatDeltaFromRelease(roi, critical float64) float64 {
	delta := roi*6.5 + (critical-55)*0.12
	return clamp(delta, heatDeltaFloor, heatDeltaCeiling)
}

// AwardsScore feeds nomination and win counts.
func AwardsScore(critical, prestige, controversy float64) float64 {
	return clamp(critical*0.7+prestige*4.0-controversy*1.2, 0, 100)
}

func AwardsCounts(score float64) (nominations, wins int) {
	switch {
	case score >= 88:
		return 6, 3
	case score >= 78:
		return 4, 1
	case score >= 66:
		return 2, 0
	case score >= 55:
		return 1, 0
	default:
		return 0, 0
	}
}

// DecayHype applies the weekly hype bleed.
func DecayHype(hype float64) float64 {
	return clamp(hype-hypeDecayPerWeek, hypeFloor, hypeCeiling)
}

// RunDecayMultiplier is the week-over-week theatrical hold for a released
// film with remainingWeeks still to play.
func RunDecayMultiplier(remainingWeeks int) float64 {
	m := runDecayBase + float64(remainingWeeks)*runDecayPerWeek
	if m < 0 {
		m = 0
	}
	return m
}

var windowMultiplier = map[ReleaseWindow]float64{
	WindowSpring:  0.92,
	WindowSummer:  1.18,
	WindowAwards:  0.97,
	WindowHoliday: 1.12,
}

// ReleaseWindowMultiplier scales the opening for the chosen corridor.
func ReleaseWindowMultiplier(w ReleaseWindow) float64 {
	if m, found := windowMultiplier[w]; found {
		return m
	}
	return 1.0
}

// FranchiseMomentum derives a 10-95 momentum score from a finished entry.
func FranchiseMomentum(audience, critical, roi float64) float64 {
	return clamp(audience*0.45+critical*0.25+roi*14.0+18.0, 10, 95)
}

// FranchiseFatigue decays prior fatigue and stacks entry-count and
// reception penalties, clamped to 0-92.
func FranchiseFatigue(priorFatigue float64, releasedCount int, audience, controversy float64) float64 {
	f := priorFatigue * 0.72
	f += float64(releasedCount) * 9.0
	if audience < 55 {
		f += (55 - audience) * 0.40
	}
	f += controversy * 0.8
	return clamp(f, 0, 92)
}

// GrudgeScore sums a talent's negative interactions with geometric per-week
// decay; positive entries do not offset it.
func GrudgeScore(history []Interaction, currentWeek int) float64 {
	total := 0.0
	for _, h := range history {
		if h.Delta >= 0 {
			continue
		}
		age := currentWeek - h.Week
		if age < 0 {
			age = 0
		}
		total += -h.Delta * math.Pow(0.88, float64(age))
	}
	return total
}

// TermsFitScore compares an offer against a demand vector, weighted 50/25/25
// across salary, backend, and perks fit.
func TermsFitScore(salaryMult, backendPts float64, perks int64, demandSalary, demandBackend float64, demandPerks int64) float64 {
	salaryFit := clamp(salaryMult/math.Max(demandSalary, 0.01), 0, 1.4)
	backendFit := clamp(backendPts/math.Max(demandBackend, 0.1), 0, 1.4)
	perksFit := clamp(float64(perks)/math.Max(float64(demandPerks), 1), 0, 1.4)
	return salaryFit*0.50 + backendFit*0.25 + perksFit*0.25
}
