package sim

// The weekly decision deck. Templates are static; all state lives on the
// engine (lastFired, lastCategories, flags, arcs).

// arcGate matches an arc's state against a stage range and status. MaxStage
// zero means unbounded; an empty Status means active.
type arcGate struct {
	Arc      string
	MinStage int
	MaxStage int
	Status   ArcStatus
}

type eventTemplate struct {
	ID            string
	Title         string
	Category      EventCategory
	BaseWeight    float64
	CooldownWeeks int

	// Targeting. NeedsProject templates draw from the top hype projects in
	// the listed phases; they are skipped when no project qualifies.
	NeedsProject bool
	Phases       []Phase

	// Flag gating. RequireFlag holds a template until a story flag is raised;
	// BlocksFlag suppresses it while one is up.
	RequireFlag string
	BlocksFlag  string

	// Arc coupling. RequiresArc holds the template until the arc is in the
	// gate's range; BlocksArc suppresses it while the arc matches. ArcID links
	// the draw weight to rival pressure on that storyline.
	ArcID       string
	RequiresArc *arcGate
	BlocksArc   *arcGate

	ExpiryWeeks int
	ExpiryFlag  string
	Options     []DecisionOption
}

var eventDeck = []eventTemplate{
	{
		ID: "tax-credit-window", Title: "State tax credit window opens", Category: CategoryFinance,
		BaseWeight: 1.0, CooldownWeeks: 8, ExpiryWeeks: 2,
		Options: []DecisionOption{
			{ID: "file", Label: "File for the credit", Effects: EffectBundle{Cash: 1_500_000, StudioHeat: -1}},
			{ID: "skip", Label: "Skip the paperwork", Effects: EffectBundle{}},
		},
	},
	{
		ID: "bridge-loan", Title: "A lender offers a bridge loan", Category: CategoryFinance,
		BaseWeight: 0.8, CooldownWeeks: 6, ExpiryWeeks: 1,
		Options: []DecisionOption{
			{ID: "take", Label: "Take the money", Effects: EffectBundle{Cash: 4_000_000, StudioHeat: -3}},
			{ID: "decline", Label: "Decline", Effects: EffectBundle{StudioHeat: 1}},
		},
	},
	{
		ID: "viral-moment", Title: "A set photo is going viral", Category: CategoryMarketing,
		BaseWeight: 1.1, CooldownWeeks: 4, ExpiryWeeks: 1,
		NeedsProject: true, Phases: []Phase{PhaseProduction, PhasePostProduction, PhaseDistribution},
		BlocksFlag: "rival-smear",
		Options: []DecisionOption{
			{ID: "amplify", Label: "Amplify it with paid push", Effects: EffectBundle{Cash: -300_000, Hype: 7}},
			{ID: "ride", Label: "Let it ride organically", Effects: EffectBundle{Hype: 3}},
		},
	},
	{
		ID: "talk-show-slot", Title: "A late-night slot opens up", Category: CategoryMarketing,
		BaseWeight: 0.9, CooldownWeeks: 5, ExpiryWeeks: 1,
		NeedsProject: true, Phases: []Phase{PhaseDistribution},
		Options: []DecisionOption{
			{ID: "send-star", Label: "Send the star", Effects: EffectBundle{Hype: 6, Cash: -120_000}},
			{ID: "pass", Label: "Pass on the slot", Effects: EffectBundle{}},
		},
	},
	{
		ID: "crew-overtime", Title: "The crew asks for an overtime deal", Category: CategoryOperations,
		BaseWeight: 1.0, CooldownWeeks: 6, ExpiryWeeks: 2,
		NeedsProject: true, Phases: []Phase{PhaseProduction},
		Options: []DecisionOption{
			{ID: "grant", Label: "Grant the rate", Effects: EffectBundle{Cash: -500_000, ScheduleWeeks: -1}},
			{ID: "refuse", Label: "Hold the line", Effects: EffectBundle{OverrunRisk: 0.05, StudioHeat: -2}},
		},
	},
	{
		ID: "insurance-audit", Title: "Completion bond audit", Category: CategoryOperations,
		BaseWeight: 0.7, CooldownWeeks: 10, ExpiryWeeks: 2,
		NeedsProject: true, Phases: []Phase{PhaseProduction, PhasePostProduction},
		Options: []DecisionOption{
			{ID: "cooperate", Label: "Open the books", Effects: EffectBundle{OverrunRisk: -0.04}},
			{ID: "stonewall", Label: "Stonewall the auditor", Effects: EffectBundle{OverrunRisk: 0.06, Controversy: 0.4}},
		},
	},
	{
		ID: "cameo-request", Title: "An A-lister wants a cameo", Category: CategoryTalent,
		BaseWeight: 0.8, CooldownWeeks: 7, ExpiryWeeks: 1,
		NeedsProject: true, Phases: []Phase{PhaseProduction},
		Options: []DecisionOption{
			{ID: "write-in", Label: "Write them in", Effects: EffectBundle{Cash: -700_000, Hype: 8, ScriptQuality: -0.2}},
			{ID: "decline", Label: "Politely decline", Effects: EffectBundle{}},
		},
	},
	{
		ID: "profile-piece", Title: "A magazine wants a studio profile", Category: CategoryStory,
		BaseWeight: 0.9, CooldownWeeks: 6, ExpiryWeeks: 2,
		ArcID:     "press-darling",
		BlocksArc: &arcGate{Arc: "press-darling", Status: ArcResolved},
		Options: []DecisionOption{
			{ID: "open-doors", Label: "Open the doors", Effects: EffectBundle{StudioHeat: 3, ArcID: "press-darling", AdvanceArcBy: 1}},
			{ID: "no-access", Label: "No access", Effects: EffectBundle{StudioHeat: -1}},
		},
	},
	{
		ID: "press-darling-payoff", Title: "The profile turns into a cover story", Category: CategoryStory,
		BaseWeight: 1.3, CooldownWeeks: 12, ExpiryWeeks: 2,
		ArcID:       "press-darling",
		RequiresArc: &arcGate{Arc: "press-darling", MinStage: 3},
		Options: []DecisionOption{
			{ID: "embrace", Label: "Embrace the spotlight", Effects: EffectBundle{StudioHeat: 6, ArcID: "press-darling", ResolveArc: true}},
			{ID: "deflect", Label: "Deflect to the filmmakers", Effects: EffectBundle{StudioHeat: 2, ArcID: "press-darling", ResolveArc: true}},
		},
	},
	{
		ID: "poaching-counterplay", Title: "Agents hint your talent is being circled", Category: CategoryRival,
		BaseWeight: 1.4, CooldownWeeks: 3, ExpiryWeeks: 2,
		RequireFlag: "rival-poaching", ExpiryFlag: "rival-poaching",
		Options: []DecisionOption{
			{ID: "retain", Label: "Fund retention bonuses", Effects: EffectBundle{Cash: -900_000, ClearFlag: "rival-poaching"}},
			{ID: "ignore", Label: "Trust the relationships", Effects: EffectBundle{}},
		},
	},
	{
		ID: "smear-counterplay", Title: "A whisper campaign is building against you", Category: CategoryRival,
		BaseWeight: 1.4, CooldownWeeks: 3, ExpiryWeeks: 2,
		RequireFlag: "rival-smear", ExpiryFlag: "rival-smear",
		Options: []DecisionOption{
			{ID: "pr-push", Label: "Hire a crisis PR firm", Effects: EffectBundle{Cash: -600_000, StudioHeat: 2, ClearFlag: "rival-smear"}},
			{ID: "above-it", Label: "Stay above it", Effects: EffectBundle{StudioHeat: -2}},
		},
	},
	{
		ID: "saturation-counterplay", Title: "A rival is buying out the ad market", Category: CategoryRival,
		BaseWeight: 1.4, CooldownWeeks: 3, ExpiryWeeks: 2,
		RequireFlag: "rival-saturation", ExpiryFlag: "rival-saturation",
		Options: []DecisionOption{
			{ID: "counter-buy", Label: "Outbid them on key slots", Effects: EffectBundle{Cash: -800_000, StudioHeat: 3, ClearFlag: "rival-saturation"}},
			{ID: "wait-out", Label: "Wait the blitz out", Effects: EffectBundle{StudioHeat: -1}},
		},
	},
	{
		ID: "counterprogram-counterplay", Title: "A rival is programming against your dates", Category: CategoryRival,
		BaseWeight: 1.4, CooldownWeeks: 3, ExpiryWeeks: 2,
		RequireFlag: "rival-counterprogram", ExpiryFlag: "rival-counterprogram",
		Options: []DecisionOption{
			{ID: "re-date", Label: "Quietly re-date around them", Effects: EffectBundle{StudioHeat: 1, ClearFlag: "rival-counterprogram"}},
			{ID: "stand-firm", Label: "Keep the dates", Effects: EffectBundle{}},
		},
	},
	{
		ID: "prebuy-counterplay", Title: "Streamers are pre-buying your market", Category: CategoryRival,
		BaseWeight: 1.3, CooldownWeeks: 4, ExpiryWeeks: 2,
		RequireFlag: "rival-streaming-prebuy", ExpiryFlag: "rival-streaming-prebuy",
		Options: []DecisionOption{
			{ID: "lean-in", Label: "Shop the slate to streamers", Effects: EffectBundle{StudioHeat: -1, ClearFlag: "rival-streaming-prebuy"}},
			{ID: "theatrical-line", Label: "Hold the theatrical line", Effects: EffectBundle{StudioHeat: 2, ClearFlag: "rival-streaming-prebuy"}},
		},
	},
	{
		ID: "streaming-output-deal", Title: "A streamer wants an output deal", Category: CategoryRival,
		BaseWeight: 1.2, CooldownWeeks: 8, ExpiryWeeks: 2,
		RequireFlag: "rival-output-deal", ExpiryFlag: "rival-output-deal",
		Options: []DecisionOption{
			{ID: "sign", Label: "Sign the output deal", Effects: EffectBundle{Cash: 3_000_000, StudioHeat: -2, ClearFlag: "rival-output-deal"}},
			{ID: "decline", Label: "Stay independent", Effects: EffectBundle{StudioHeat: 1, ClearFlag: "rival-output-deal"}},
		},
	},
}
