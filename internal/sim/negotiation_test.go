package sim

import (
	"strings"
	"testing"
)

func availableTalent(e *Engine, role TalentRole) *Talent {
	for _, t := range e.talent {
		if t.Role == role && t.Avail == AvailabilityAvailable {
			return t
		}
	}
	return nil
}

func TestStartNegotiationLocksTalent(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	p := addProject(e, PhaseDevelopment, 5_000_000)
	tal := availableTalent(e, RoleLead)

	res := e.StartTalentNegotiation(tal.ID, p.ID)
	if !res.OK {
		t.Fatalf("StartTalentNegotiation: %s", res.Message)
	}
	if tal.Avail != AvailabilityInNegotiation {
		t.Fatalf("availability = %s, want inNegotiation", tal.Avail)
	}
	if res := e.StartTalentNegotiation(tal.ID, p.ID); res.OK {
		t.Fatal("second open on the same talent must fail")
	}
}

func TestNegotiationRequiresDevelopment(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	p := addProject(e, PhaseProduction, 5_000_000)
	tal := availableTalent(e, RoleLead)

	if res := e.StartTalentNegotiation(tal.ID, p.ID); res.OK {
		t.Fatal("negotiation must be development-only")
	}
}

func TestSweetenRaisesChanceHoldFirmLowersIt(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	p := addProject(e, PhaseDevelopment, 5_000_000)
	tal := availableTalent(e, RoleLead)
	e.StartTalentNegotiation(tal.ID, p.ID)

	n := e.negotiations[tal.ID]
	before := n.LastChance
	if res := e.AdjustTalentNegotiation(tal.ID, MoveSweetenSalary); !res.OK {
		t.Fatalf("sweeten: %s", res.Message)
	}
	if n.LastChance <= before {
		t.Fatalf("sweetening did not raise chance: %v -> %v", before, n.LastChance)
	}

	before = n.LastChance
	if res := e.AdjustTalentNegotiation(tal.ID, MoveHoldFirm); !res.OK {
		t.Fatalf("holdFirm: %s", res.Message)
	}
	if n.LastChance >= before {
		t.Fatalf("holdFirm did not lower chance: %v -> %v", before, n.LastChance)
	}
}

func TestNegotiationRoundCap(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	p := addProject(e, PhaseDevelopment, 5_000_000)
	tal := availableTalent(e, RoleLead)
	e.StartTalentNegotiation(tal.ID, p.ID)

	for i := 0; i < maxNegotiationRounds-1; i++ {
		if res := e.AdjustTalentNegotiation(tal.ID, MoveSweetenPerks); !res.OK {
			t.Fatalf("round %d: %s", i, res.Message)
		}
	}
	if res := e.AdjustTalentNegotiation(tal.ID, MoveSweetenPerks); res.OK {
		t.Fatal("adjustment past the round cap must fail")
	}
}

func TestSalaryMultCap(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	p := addProject(e, PhaseDevelopment, 5_000_000)
	tal := availableTalent(e, RoleLead)
	e.StartTalentNegotiation(tal.ID, p.ID)

	n := e.negotiations[tal.ID]
	n.SalaryMult = salaryMultCap
	e.AdjustTalentNegotiation(tal.ID, MoveSweetenSalary)
	if n.SalaryMult > salaryMultCap {
		t.Fatalf("salary mult %v exceeds cap %v", n.SalaryMult, salaryMultCap)
	}
}

func TestQuickCloseSuccessAttaches(t *testing.T) {
	// negotiationRand 0.0 always lands under the acceptance chance.
	e := testEngine(0.95, 0.5, 0.0, 0.95)
	p := addProject(e, PhaseDevelopment, 5_000_000)
	tal := availableTalent(e, RoleLead)
	cash := e.Cash()

	res := e.NegotiateAndAttachTalent(tal.ID, p.ID)
	if !res.OK {
		t.Fatalf("quick close: %s", res.Message)
	}
	if tal.Avail != AvailabilityAttached {
		t.Fatalf("availability = %s, want attached", tal.Avail)
	}
	found := false
	for _, id := range p.CastIDs {
		if id == tal.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("talent not in cast list after attach")
	}
	if e.Cash() >= cash-quickCloseFee {
		t.Fatal("quick close must charge fee plus retainer")
	}
}

func TestQuickCloseFailureSetsCooldown(t *testing.T) {
	// negotiationRand 1.0 always misses the roll.
	e := testEngine(0.95, 0.5, 1.0, 0.95)
	p := addProject(e, PhaseDevelopment, 5_000_000)
	tal := availableTalent(e, RoleLead)
	cash := e.Cash()

	res := e.NegotiateAndAttachTalent(tal.ID, p.ID)
	if res.OK {
		t.Fatal("quick close must fail when the roll misses")
	}
	if e.Cash() != cash-quickCloseFee {
		t.Fatalf("fee not charged on failure: cash %d, want %d", e.Cash(), cash-quickCloseFee)
	}
	if tal.Cooldown != e.week+1 {
		t.Fatalf("cooldown = %d, want %d", tal.Cooldown, e.week+1)
	}
	if res := e.NegotiateAndAttachTalent(tal.ID, p.ID); res.OK {
		t.Fatal("talent on cooldown must refuse meetings")
	}
}

func TestRetainerStallIsSoftFailure(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.0, 0.95)
	p := addProject(e, PhaseDevelopment, 5_000_000)
	tal := availableTalent(e, RoleLead)

	// Enough for the attempt fee, nowhere near the retainer.
	e.ledger.Cash = quickCloseFee + 1_000

	res := e.NegotiateAndAttachTalent(tal.ID, p.ID)
	if res.OK {
		t.Fatal("deal must stall when the retainer is unaffordable")
	}
	if !strings.Contains(res.Message, "stalled") {
		t.Fatalf("stall message missing, got %q", res.Message)
	}
	if tal.Avail != AvailabilityAvailable {
		t.Fatalf("stalled talent availability = %s, want available", tal.Avail)
	}
}

func TestResolveDueNegotiationsAfterOneWeek(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.0, 0.95)
	p := addProject(e, PhaseDevelopment, 5_000_000)
	tal := availableTalent(e, RoleLead)
	e.StartTalentNegotiation(tal.ID, p.ID)

	// Same week: nothing resolves yet.
	e.resolveDueNegotiations()
	if _, open := e.negotiations[tal.ID]; !open {
		t.Fatal("negotiation resolved in its opening week")
	}

	e.week++
	e.resolveDueNegotiations()
	if _, open := e.negotiations[tal.ID]; open {
		t.Fatal("negotiation did not resolve after a week")
	}
	if tal.Avail != AvailabilityAttached {
		t.Fatalf("availability = %s, want attached after winning roll", tal.Avail)
	}
}

func TestProjectLeavingDevelopmentCancelsNegotiation(t *testing.T) {
	e := testEngine(0.95, 0.5, 0.5, 0.95)
	p := addProject(e, PhaseDevelopment, 5_000_000)
	lead := availableTalent(e, RoleLead)
	e.StartTalentNegotiation(lead.ID, p.ID)

	// Satisfy the gate with a second, directly attached pair.
	director := availableTalent(e, RoleDirector)
	director.Avail = AvailabilityAttached
	p.DirectorID = director.ID
	other := availableTalent(e, RoleSupporting)
	other.Avail = AvailabilityAttached
	p.CastIDs = []string{other.ID}

	if res := e.AdvanceProjectPhase(p.ID); !res.OK {
		t.Fatalf("advance: %s", res.Message)
	}
	if _, open := e.negotiations[lead.ID]; open {
		t.Fatal("negotiation must be cancelled when the project leaves development")
	}
	if lead.Avail != AvailabilityAvailable {
		t.Fatalf("cancelled talent availability = %s, want available", lead.Avail)
	}
}

func TestAcceptanceChanceReadsOnlyItsEnv(t *testing.T) {
	tal := &Talent{Ego: 4, AgentTier: 2, SalaryBase: 2_000_000, PerksBase: 100_000, BackendPts: 2}
	n := &Negotiation{SalaryMult: 1.2, BackendPoints: 3, PerksBudget: 200_000, Round: 1}
	env := negotiationEnv{Week: 10, StudioHeat: 50, Reputation: 5, ExecNetwork: 1}

	base := acceptanceChance(tal, n, env)
	env.ExecNetwork = 0.5
	cooler := acceptanceChance(tal, n, env)
	if cooler >= base {
		t.Fatalf("a thinner agency network must lower the accept chance: %v >= %v", cooler, base)
	}

	env.ExecNetwork = 1
	env.ArcLeverage = 0.08
	boosted := acceptanceChance(tal, n, env)
	if boosted <= base {
		t.Fatalf("arc leverage must raise the accept chance: %v <= %v", boosted, base)
	}
}
