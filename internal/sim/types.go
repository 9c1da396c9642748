package sim

import "fmt"

type Phase string

const (
	PhaseDevelopment    Phase = "development"
	PhasePreProduction  Phase = "preProduction"
	PhaseProduction     Phase = "production"
	PhasePostProduction Phase = "postProduction"
	PhaseDistribution   Phase = "distribution"
	PhaseReleased       Phase = "released"
)

var phaseOrder = map[Phase]int{
	PhaseDevelopment:    0,
	PhasePreProduction:  1,
	PhaseProduction:     2,
	PhasePostProduction: 3,
	PhaseDistribution:   4,
	PhaseReleased:       5,
}

func (p Phase) Next() (Phase, bool) {
	switch p {
	case PhaseDevelopment:
		return PhasePreProduction, true
	case PhasePreProduction:
		return PhaseProduction, true
	case PhaseProduction:
		return PhasePostProduction, true
	case PhasePostProduction:
		return PhaseDistribution, true
	case PhaseDistribution:
		return PhaseReleased, true
	default:
		return p, false
	}
}

type Genre string

const (
	GenreAction   Genre = "action"
	GenreDrama    Genre = "drama"
	GenreComedy   Genre = "comedy"
	GenreHorror   Genre = "horror"
	GenreSciFi    Genre = "sciFi"
	GenreThriller Genre = "thriller"
	GenreFamily   Genre = "family"
)

var allGenres = []Genre{GenreAction, GenreDrama, GenreComedy, GenreHorror, GenreSciFi, GenreThriller, GenreFamily}

type ProductionStatus string

const (
	StatusOnTrack ProductionStatus = "onTrack"
	StatusAtRisk  ProductionStatus = "atRisk"
)

type ReleaseWindow string

const (
	WindowSpring  ReleaseWindow = "spring"
	WindowSummer  ReleaseWindow = "summer"
	WindowAwards  ReleaseWindow = "awards"
	WindowHoliday ReleaseWindow = "holiday"
)

type TalentRole string

const (
	RoleDirector   TalentRole = "director"
	RoleLead       TalentRole = "lead"
	RoleSupporting TalentRole = "supporting"
)

type Availability string

const (
	AvailabilityAvailable     Availability = "available"
	AvailabilityInNegotiation Availability = "inNegotiation"
	AvailabilityAttached      Availability = "attached"
	AvailabilityUnavailable   Availability = "unavailable"
)

type Archetype string

const (
	ArchetypeBlockbusterFactory Archetype = "blockbusterFactory"
	ArchetypePrestigeHunter     Archetype = "prestigeHunter"
	ArchetypeGenreSpecialist    Archetype = "genreSpecialist"
	ArchetypeStreamingFirst     Archetype = "streamingFirst"
	ArchetypeScrappyUpstart     Archetype = "scrappyUpstart"
)

type ArcStatus string

const (
	ArcActive   ArcStatus = "active"
	ArcResolved ArcStatus = "resolved"
	ArcFailed   ArcStatus = "failed"
)

type FranchiseStrategy string

const (
	StrategyContinuation FranchiseStrategy = "continuation"
	StrategyReboot       FranchiseStrategy = "reboot"
	StrategySpinoff      FranchiseStrategy = "spinoff"
)

type NegotiationMove string

const (
	MoveSweetenSalary  NegotiationMove = "sweetenSalary"
	MoveSweetenBackend NegotiationMove = "sweetenBackend"
	MoveSweetenPerks   NegotiationMove = "sweetenPerks"
	MoveHoldFirm       NegotiationMove = "holdFirm"
)

type EventCategory string

const (
	CategoryFinance    EventCategory = "finance"
	CategoryMarketing  EventCategory = "marketing"
	CategoryOperations EventCategory = "operations"
	CategoryTalent     EventCategory = "talent"
	CategoryStory      EventCategory = "story"
	CategoryRival      EventCategory = "rival"
)

// Result is the outcome of every mutating engine operation. Domain-rule
// failures surface here with a reason the caller can render; they are never
// returned as errors.
type Result struct {
	OK      bool   `json:"success"`
	Message string `json:"message"`
}

func okf(format string, args ...any) Result {
	return Result{OK: true, Message: fmt.Sprintf(format, args...)}
}

func failf(format string, args ...any) Result {
	return Result{OK: false, Message: fmt.Sprintf(format, args...)}
}

type Budget struct {
	Ceiling      int64   `json:"ceiling"`
	AboveTheLine int64   `json:"above_the_line"`
	BelowTheLine int64   `json:"below_the_line"`
	Post         int64   `json:"post"`
	Contingency  int64   `json:"contingency"`
	Marketing    int64   `json:"marketing"`
	OverrunRisk  float64 `json:"overrun_risk"`
	ActualSpend  int64   `json:"actual_spend"`
}

type Project struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Genre   Genre  `json:"genre"`
	Phase   Phase  `json:"phase"`
	Budget  Budget `json:"budget"`
	Created int    `json:"created_week"`

	ScriptQuality    float64 `json:"script_quality"`
	ConceptStrength  float64 `json:"concept_strength"`
	EditorialScore   float64 `json:"editorial_score"`
	Prestige         float64 `json:"prestige"`
	CommercialAppeal float64 `json:"commercial_appeal"`
	Originality      float64 `json:"originality"`
	Controversy      float64 `json:"controversy"`
	HypeScore        float64 `json:"hype_score"`

	DirectorID string   `json:"director_id,omitempty"`
	CastIDs    []string `json:"cast_ids,omitempty"`

	ScheduledWeeksRemaining int              `json:"scheduled_weeks_remaining"`
	ProductionStatus        ProductionStatus `json:"production_status"`

	SprintCount          int  `json:"sprint_count"`
	PolishCount          int  `json:"polish_count"`
	ReshootCount         int  `json:"reshoot_count"`
	TestScreeningDone    bool `json:"test_screening_done"`
	FestivalSubmitted    bool `json:"festival_submitted"`
	TrackingAdvanceTaken bool `json:"tracking_advance_taken"`

	Offers              []DistributionOffer `json:"offers,omitempty"`
	CounterUsed         bool                `json:"counter_used"`
	Partner             string              `json:"partner,omitempty"`
	PartnerKind         string              `json:"partner_kind,omitempty"`
	RevenueShare        float64             `json:"revenue_share"`
	MarketingCommitment int64               `json:"marketing_commitment"`
	ReleaseWindow       ReleaseWindow       `json:"release_window,omitempty"`
	ReleaseWeek         int                 `json:"release_week"`

	OpeningGross      int64   `json:"opening_gross"`
	WeeklyGross       []int64 `json:"weekly_gross,omitempty"`
	FinalGross        int64   `json:"final_gross"`
	CriticalScore     float64 `json:"critical_score"`
	AudienceScore     float64 `json:"audience_score"`
	AwardsNominations int     `json:"awards_nominations"`
	AwardsWins        int     `json:"awards_wins"`
	RunWeeksRemaining int     `json:"run_weeks_remaining"`
	ReleasedWeek      int     `json:"released_week"`
	ReleaseResolved   bool    `json:"release_resolved"`
	FinalROI          float64 `json:"final_roi"`

	FranchiseID string            `json:"franchise_id,omitempty"`
	Episode     int               `json:"episode,omitempty"`
	Strategy    FranchiseStrategy `json:"strategy,omitempty"`
}

type Interaction struct {
	Week  int     `json:"week"`
	Delta float64 `json:"delta"`
	Note  string  `json:"note"`
}

type RelationshipMemory struct {
	Trust   float64       `json:"trust"`
	Loyalty float64       `json:"loyalty"`
	History []Interaction `json:"history,omitempty"`
}

type Talent struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Role       TalentRole         `json:"role"`
	StarPower  float64            `json:"star_power"`
	Craft      float64            `json:"craft"`
	GenreFit   map[Genre]float64  `json:"genre_fit,omitempty"`
	Ego        float64            `json:"ego"`
	AgentTier  int                `json:"agent_tier"`
	SalaryBase int64              `json:"salary_base"`
	PerksBase  int64              `json:"perks_base"`
	BackendPts float64            `json:"backend_pts"`
	Avail      Availability       `json:"availability"`
	ReturnWeek int                `json:"return_week,omitempty"`
	Cooldown   int                `json:"cooldown_until_week,omitempty"`
	Memory     RelationshipMemory `json:"memory"`
	LockedBy   string             `json:"locked_by,omitempty"`
}

type Negotiation struct {
	TalentID      string  `json:"talent_id"`
	ProjectID     string  `json:"project_id"`
	OpenedWeek    int     `json:"opened_week"`
	Round         int     `json:"round"`
	HoldLine      int     `json:"hold_line"`
	SalaryMult    float64 `json:"salary_mult"`
	BackendPoints float64 `json:"backend_points"`
	PerksBudget   int64   `json:"perks_budget"`
	LastChance    float64 `json:"last_chance"`
	QuickClose    bool    `json:"quick_close"`
}

// EffectBundle is the single option payload shared by crises and decisions.
// Every field is optional; the zero value is a no-op. Arc stages are 1-based
// so SetArcStage == 0 means "leave the stage alone".
type EffectBundle struct {
	Cash             int64   `json:"cash,omitempty"`
	ScriptQuality    float64 `json:"script_quality,omitempty"`
	EditorialScore   float64 `json:"editorial_score,omitempty"`
	Hype             float64 `json:"hype,omitempty"`
	Prestige         float64 `json:"prestige,omitempty"`
	CommercialAppeal float64 `json:"commercial_appeal,omitempty"`
	Controversy      float64 `json:"controversy,omitempty"`
	ScheduleWeeks    int     `json:"schedule_weeks,omitempty"`
	Marketing        int64   `json:"marketing,omitempty"`
	OverrunRisk      float64 `json:"overrun_risk,omitempty"`
	StudioHeat       float64 `json:"studio_heat,omitempty"`
	ReleaseWeekShift int     `json:"release_week_shift,omitempty"`

	ArcID        string `json:"arc_id,omitempty"`
	SetArcStage  int    `json:"set_arc_stage,omitempty"`
	AdvanceArcBy int    `json:"advance_arc_by,omitempty"`
	ResolveArc   bool   `json:"resolve_arc,omitempty"`
	FailArc      bool   `json:"fail_arc,omitempty"`

	SetFlag    string `json:"set_flag,omitempty"`
	FlagLayers int    `json:"flag_layers,omitempty"`
	ClearFlag  string `json:"clear_flag,omitempty"`

	// PoachTalentID hands a talent to a rival: any open negotiation is
	// cancelled and the talent is locked away for rivalLockWeeks.
	PoachTalentID string `json:"poach_talent_id,omitempty"`
	PoachedBy     string `json:"poached_by,omitempty"`
}

type CrisisOption struct {
	ID      string       `json:"id"`
	Label   string       `json:"label"`
	Effects EffectBundle `json:"effects"`
}

type CrisisEvent struct {
	ID        string         `json:"id"`
	ProjectID string         `json:"project_id,omitempty"`
	Title     string         `json:"title"`
	Body      string         `json:"body,omitempty"`
	Severity  string         `json:"severity"`
	Week      int            `json:"week"`
	Options   []CrisisOption `json:"options"`
}

type DecisionOption struct {
	ID      string       `json:"id"`
	Label   string       `json:"label"`
	Effects EffectBundle `json:"effects"`
}

type DecisionItem struct {
	ID               string           `json:"id"`
	TemplateID       string           `json:"template_id"`
	Title            string           `json:"title"`
	Category         EventCategory    `json:"category"`
	ProjectID        string           `json:"project_id,omitempty"`
	ArcID            string           `json:"arc_id,omitempty"`
	Options          []DecisionOption `json:"options"`
	WeeksUntilExpiry int              `json:"weeks_until_expiry"`
	ExpiryFlag       string           `json:"expiry_flag,omitempty"`
}

type RivalRelease struct {
	Title    string `json:"title"`
	Week     int    `json:"week"`
	Tentpole bool   `json:"tentpole"`
}

type RivalMemory struct {
	Hostility   float64 `json:"hostility"`
	Respect     float64 `json:"respect"`
	Retaliation float64 `json:"retaliation"`
	Cooperation float64 `json:"cooperation"`
}

type RivalStudio struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Archetype    Archetype      `json:"archetype"`
	Heat         float64        `json:"heat"`
	LockedTalent []string       `json:"locked_talent,omitempty"`
	Slate        []RivalRelease `json:"slate,omitempty"`
	Memory       RivalMemory    `json:"memory"`
}

type ArcState struct {
	Stage           int       `json:"stage"`
	Status          ArcStatus `json:"status"`
	LastUpdatedWeek int       `json:"last_updated_week"`
}

type FranchiseTrack struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Genre         Genre             `json:"genre"`
	ProjectIDs    []string          `json:"project_ids"`
	Momentum      float64           `json:"momentum"`
	Fatigue       float64           `json:"fatigue"`
	ReleasedCount int               `json:"released_count"`
	LastRelease   int               `json:"last_release_week"`
	Strategy      FranchiseStrategy `json:"strategy"`
	ActiveEntryID string            `json:"active_entry_id,omitempty"`
}

type ScriptPitch struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Genre           Genre   `json:"genre"`
	ScriptQuality   float64 `json:"script_quality"`
	ConceptStrength float64 `json:"concept_strength"`
	Price           int64   `json:"price"`
	ListedWeek      int     `json:"listed_week"`
	ExpiresWeek     int     `json:"expires_week"`
}

type DistributionOffer struct {
	ID                  string  `json:"id"`
	Partner             string  `json:"partner"`
	Kind                string  `json:"kind"`
	MinimumGuarantee    int64   `json:"minimum_guarantee"`
	RevenueShare        float64 `json:"revenue_share"`
	MarketingCommitment int64   `json:"marketing_commitment"`
	Countered           bool    `json:"countered"`
}

// Projection is a point-in-time forecast; computing one never mutates state.
type Projection struct {
	CriticalScore float64 `json:"critical_score"`
	OpeningLow    int64   `json:"opening_low"`
	OpeningHigh   int64   `json:"opening_high"`
	ProjectedROI  float64 `json:"projected_roi"`
}

type WeekSummary struct {
	Week               int      `json:"week"`
	CashDelta          int64    `json:"cash_delta"`
	Events             []string `json:"events"`
	HasPendingCrises   bool     `json:"has_pending_crises"`
	DecisionQueueCount int      `json:"decision_queue_count"`
}
