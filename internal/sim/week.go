package sim

// EndWeek advances the simulation by one week. The step order below is the
// whole determinism contract: two engines with identical state and random
// sources produce identical weeks.
func (e *Engine) EndWeek() (WeekSummary, error) {
	if len(e.crises) > 0 {
		return WeekSummary{}, ErrCrisesPending
	}
	closing := e.week
	startCash := e.ledger.Cash
	e.weekEvents = nil

	e.applyWeeklyBurn()
	for _, p := range e.projects {
		if p.Phase != PhaseReleased {
			p.HypeScore = DecayHype(p.HypeScore)
		}
	}
	e.updateTalentAvailability()
	e.tickDecisionExpiry()
	e.refreshScriptMarket()
	e.rollCrises()

	for _, r := range e.rivals {
		e.rivalTalentPass(r, rivalProfiles[r.Archetype])
	}
	e.resolveDueNegotiations()
	e.scheduleDecisions()
	e.tickReleasedRuns()

	e.applyStandingPressure()
	for _, r := range e.rivals {
		prof := rivalProfiles[r.Archetype]
		e.rivalSlatePass(r, prof)
		e.rivalSignaturePass(r, prof)
		e.perturbRivalMemory(r)
	}

	e.week++
	if e.ledger.CloseWeek(closing, "cash exhausted") {
		e.logEvent("the studio is bankrupt")
		e.log.Info("studio bankrupt", "week", closing)
	}
	e.logEvent("week %d closed", closing)

	return WeekSummary{
		Week:               closing,
		CashDelta:          e.ledger.Cash - startCash,
		Events:             append([]string(nil), e.weekEvents...),
		HasPendingCrises:   len(e.crises) > 0,
		DecisionQueueCount: len(e.decisions),
	}, nil
}

// EndTurn is an alias kept for callers that speak in turns rather than weeks.
func (e *Engine) EndTurn() (WeekSummary, error) { return e.EndWeek() }
