package sim

import (
	"strings"
	"testing"
)

func TestBurnEstimateMatchesApplied(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	p := addProject(e, PhaseProduction, 10_000_000)
	p.ScheduledWeeksRemaining = 5

	want := e.EstimateWeeklyBurn(p.ID)
	if want <= 0 {
		t.Fatalf("production burn estimate = %d, want > 0", want)
	}
	if _, err := e.EndWeek(); err != nil {
		t.Fatalf("EndWeek: %v", err)
	}
	if p.Budget.ActualSpend != want {
		t.Fatalf("applied burn %d != estimate %d", p.Budget.ActualSpend, want)
	}
}

func TestReleasedProjectHasNoBurn(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	p := addProject(e, PhaseReleased, 10_000_000)
	p.ReleaseResolved = true
	if got := e.EstimateWeeklyBurn(p.ID); got != 0 {
		t.Fatalf("released burn = %d, want 0", got)
	}
}

func TestOverrunFlipsStatus(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	p := addProject(e, PhaseProduction, 1_000_000)
	p.Budget.ActualSpend = 999_999
	p.ScheduledWeeksRemaining = 3

	if _, err := e.EndWeek(); err != nil {
		t.Fatalf("EndWeek: %v", err)
	}
	if p.ProductionStatus != StatusAtRisk {
		t.Fatalf("status = %s, want atRisk after overrun", p.ProductionStatus)
	}
}

func TestDevelopmentGateReasons(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	p := addProject(e, PhaseDevelopment, 5_000_000)

	res := e.AdvanceProjectPhase(p.ID)
	if res.OK || !strings.Contains(res.Message, "director") {
		t.Fatalf("missing-director gate: %+v", res)
	}

	p.DirectorID = e.talent[0].ID
	res = e.AdvanceProjectPhase(p.ID)
	if res.OK || !strings.Contains(res.Message, "cast") {
		t.Fatalf("missing-cast gate: %+v", res)
	}

	p.CastIDs = []string{e.talent[5].ID}
	p.ScriptQuality = 4.0
	res = e.AdvanceProjectPhase(p.ID)
	if res.OK || !strings.Contains(res.Message, "quality") {
		t.Fatalf("quality gate: %+v", res)
	}

	p.ScriptQuality = 7.0
	res = e.AdvanceProjectPhase(p.ID)
	if !res.OK {
		t.Fatalf("all gates met but advance failed: %s", res.Message)
	}
	if p.Phase != PhasePreProduction || p.ScheduledWeeksRemaining != preProductionWeeks {
		t.Fatalf("phase %s / schedule %d after advance", p.Phase, p.ScheduledWeeksRemaining)
	}
}

func TestScheduleGateBlocksEarlyAdvance(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	p := addProject(e, PhasePreProduction, 5_000_000)
	p.ScheduledWeeksRemaining = 2

	if res := e.AdvanceProjectPhase(p.ID); res.OK {
		t.Fatal("advance with schedule remaining must fail")
	}
	p.ScheduledWeeksRemaining = 0
	if res := e.AdvanceProjectPhase(p.ID); !res.OK {
		t.Fatalf("advance with clear schedule: %s", res.Message)
	}
	if p.Phase != PhaseProduction {
		t.Fatalf("phase = %s, want production", p.Phase)
	}
}

func TestOpenCrisisBlocksWrap(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	p := addProject(e, PhaseProduction, 5_000_000)
	p.ScheduledWeeksRemaining = 0
	c := e.injectCrisis(p.ID, "Test crisis", "", "minor", []CrisisOption{
		{ID: "a", Label: "a"}, {ID: "b", Label: "b"},
	})

	if res := e.AdvanceProjectPhase(p.ID); res.OK {
		t.Fatal("wrap with open crisis must fail")
	}
	e.ResolveCrisis(c.ID, "a")
	if res := e.AdvanceProjectPhase(p.ID); !res.OK {
		t.Fatalf("wrap after resolving crisis: %s", res.Message)
	}
}

func TestMarketingGateIntoDistribution(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	p := addProject(e, PhasePostProduction, 5_000_000)
	p.ScheduledWeeksRemaining = 0

	if res := e.AdvanceProjectPhase(p.ID); res.OK {
		t.Fatal("distribution without marketing budget must fail")
	}
	if res := e.AllocateMarketing(p.ID, 2_000_000); !res.OK {
		t.Fatalf("AllocateMarketing: %s", res.Message)
	}
	res := e.AdvanceProjectPhase(p.ID)
	if !res.OK {
		t.Fatalf("advance into distribution: %s", res.Message)
	}
	if len(p.Offers) == 0 {
		t.Fatal("entering distribution must generate offers")
	}
}

func TestReleasedIsTerminal(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	p := addProject(e, PhaseReleased, 5_000_000)
	if res := e.AdvanceProjectPhase(p.ID); res.OK {
		t.Fatal("released project must never transition")
	}
}

func TestAbandonPurgesEverything(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	p := addProject(e, PhaseProduction, 5_000_000)
	tal := e.talent[0]
	tal.Avail = AvailabilityAttached
	p.DirectorID = tal.ID
	e.injectCrisis(p.ID, "Stuck crisis", "", "minor", []CrisisOption{
		{ID: "a", Label: "a"}, {ID: "b", Label: "b"},
	})
	e.decisions = append(e.decisions, &DecisionItem{ID: "dec-x", ProjectID: p.ID, Title: "x", WeeksUntilExpiry: 2})

	if res := e.AbandonProject(p.ID); !res.OK {
		t.Fatalf("AbandonProject: %s", res.Message)
	}
	if e.project(p.ID) != nil {
		t.Fatal("project still present after abandon")
	}
	if len(e.crises) != 0 || len(e.decisions) != 0 {
		t.Fatalf("queues not purged: %d crises, %d decisions", len(e.crises), len(e.decisions))
	}
	if tal.Avail != AvailabilityAvailable {
		t.Fatalf("talent availability = %s, want available", tal.Avail)
	}
}

func TestActionCaps(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	p := addProject(e, PhasePostProduction, 10_000_000)

	for i := 0; i < polishPassMaxUse; i++ {
		if res := e.PolishPass(p.ID); !res.OK {
			t.Fatalf("polish %d: %s", i, res.Message)
		}
	}
	if res := e.PolishPass(p.ID); res.OK {
		t.Fatal("polish pass beyond the cap must fail")
	}

	if res := e.TestScreening(p.ID); !res.OK {
		t.Fatalf("test screening: %s", res.Message)
	}
	if res := e.TestScreening(p.ID); res.OK {
		t.Fatal("second test screening must fail")
	}
}

func TestScriptSprintQualityCeiling(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	p := addProject(e, PhaseDevelopment, 5_000_000)
	p.ScriptQuality = 9.3

	if res := e.ScriptSprint(p.ID); !res.OK {
		t.Fatalf("sprint: %s", res.Message)
	}
	if p.ScriptQuality > scriptSprintQualityCap {
		t.Fatalf("quality %v exceeds ceiling %v", p.ScriptQuality, scriptSprintQualityCap)
	}
	if res := e.ScriptSprint(p.ID); res.OK {
		t.Fatal("sprint at the ceiling must fail")
	}
}

func TestReshootAddsScheduleAndRisk(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	p := addProject(e, PhasePostProduction, 10_000_000)
	risk := p.Budget.OverrunRisk

	if res := e.OrderReshoot(p.ID); !res.OK {
		t.Fatalf("reshoot: %s", res.Message)
	}
	if p.ScheduledWeeksRemaining != reshootExtraWeeks {
		t.Fatalf("schedule = %d, want %d", p.ScheduledWeeksRemaining, reshootExtraWeeks)
	}
	if p.Budget.OverrunRisk <= risk {
		t.Fatal("reshoot must raise overrun risk")
	}
}
