package sim

import "testing"

func TestScriptMarketRefillsAndExpires(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	if len(e.scriptMarket) != scriptMarketSize {
		t.Fatalf("market size = %d, want %d", len(e.scriptMarket), scriptMarketSize)
	}
	old := e.scriptMarket[0].ID

	e.week += scriptShelfWeeks
	e.refreshScriptMarket()
	if len(e.scriptMarket) != scriptMarketSize {
		t.Fatalf("market did not refill: %d", len(e.scriptMarket))
	}
	for _, s := range e.scriptMarket {
		if s.ID == old {
			t.Fatal("expired pitch still listed")
		}
	}
}

func TestAcquireScriptOpensProject(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	s := e.scriptMarket[0]
	cash := e.Cash()

	res := e.AcquireScript(s.ID)
	if !res.OK {
		t.Fatalf("AcquireScript: %s", res.Message)
	}
	if e.Cash() != cash-s.Price {
		t.Fatalf("cash = %d, want %d", e.Cash(), cash-s.Price)
	}
	if len(e.projects) != 1 {
		t.Fatalf("projects = %d, want 1", len(e.projects))
	}
	p := e.projects[0]
	if p.Phase != PhaseDevelopment || p.Title != s.Title || p.ScriptQuality != s.ScriptQuality {
		t.Fatalf("project not seeded from pitch: %+v", p)
	}
	if p.Budget.Ceiling <= 0 {
		t.Fatal("acquired project needs a budget ceiling")
	}
	if res := e.AcquireScript(s.ID); res.OK {
		t.Fatal("a pitch sells exactly once")
	}
}

func TestAcquireScriptNeedsCash(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	s := e.scriptMarket[0]
	e.ledger.Cash = s.Price - 1

	if res := e.AcquireScript(s.ID); res.OK {
		t.Fatal("acquisition without cash must fail")
	}
	if len(e.scriptMarket) != scriptMarketSize {
		t.Fatal("failed acquisition must leave the pitch listed")
	}
}

func TestPassScriptRemovesPitch(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	s := e.scriptMarket[0]

	if res := e.PassScript(s.ID); !res.OK {
		t.Fatalf("PassScript: %s", res.Message)
	}
	if _, i := e.pitch(s.ID); i != -1 {
		t.Fatal("passed pitch still listed")
	}
	if res := e.PassScript(s.ID); res.OK {
		t.Fatal("passing a gone pitch must fail")
	}
}

func TestPassScriptCoolsAgencyNetwork(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	before := e.execNetwork

	e.PassScript(e.scriptMarket[0].ID)
	if e.execNetwork != before-agencyPassPenalty {
		t.Fatalf("exec network = %v, want %v", e.execNetwork, before-agencyPassPenalty)
	}

	e.execNetwork = 0
	e.PassScript(e.scriptMarket[0].ID)
	if e.execNetwork != 0 {
		t.Fatalf("exec network = %v, must clamp at 0", e.execNetwork)
	}
}
