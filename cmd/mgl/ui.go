package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"mogul/internal/sim"
)

var (
	accent  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen, color.Bold)
	warn    = color.New(color.FgYellow, color.Bold)
	danger  = color.New(color.FgRed, color.Bold)
	neutral = color.New(color.FgHiWhite)
)

type projectsPayload struct {
	Projects []sim.Project `json:"projects"`
}

type pitchesPayload struct {
	Pitches []sim.ScriptPitch `json:"pitches"`
}

type talentPayload struct {
	Talent []sim.Talent `json:"talent"`
}

type crisesPayload struct {
	Crises []sim.CrisisEvent `json:"crises"`
}

type decisionsPayload struct {
	Decisions []sim.DecisionItem `json:"decisions"`
}

type rivalsPayload struct {
	Rivals []sim.RivalStudio `json:"rivals"`
}

type franchisesPayload struct {
	Franchises []sim.FranchiseTrack `json:"franchises"`
}

type revealsPayload struct {
	Events []string `json:"events"`
}

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func renderStatus(raw map[string]any) error {
	accent.Printf("\n== STUDIO (Week %v) ==\n", raw["week"])
	fmt.Printf("Cash:        %s\n", formatAnyMoney(raw["cash"]))
	fmt.Printf("Heat:        %.0f\n", toFloat(raw["studio_heat"]))
	fmt.Printf("Projects:    %v\n", raw["projects"])
	fmt.Printf("Crises:      %v\n", raw["pending_crises"])
	fmt.Printf("Decisions:   %v\n", raw["decision_queue"])
	if b, _ := raw["bankrupt"].(bool); b {
		danger.Printf("BANKRUPT: %v\n", raw["bankrupt_reason"])
	}
	fmt.Println()
	return nil
}

func renderLedger(raw map[string]any) error {
	ledger, err := decodeInto[sim.Ledger](raw)
	if err != nil {
		return err
	}
	accent.Println("== LEDGER ==")
	fmt.Printf("Cash:             %s\n", formatMoney(ledger.Cash))
	fmt.Printf("Lifetime revenue: %s\n", formatMoney(ledger.LifetimeRevenue))
	fmt.Printf("Lifetime expense: %s\n", formatMoney(ledger.LifetimeExpense))
	n := len(ledger.Entries)
	if n == 0 {
		fmt.Println()
		return nil
	}
	fmt.Println()
	accent.Println("Recent entries")
	start := n - 10
	if start < 0 {
		start = 0
	}
	for _, e := range ledger.Entries[start:] {
		fmt.Printf("  w%-4d %-10s %-34s %s\n", e.Week, e.Kind, truncate(e.Label, 34), colorizeMoney(e.Amount))
	}
	fmt.Println()
	return nil
}

func renderWeekSummary(raw map[string]any) error {
	summary, err := decodeInto[sim.WeekSummary](raw)
	if err != nil {
		return err
	}
	accent.Printf("\n== WEEK %d CLOSED ==\n", summary.Week)
	fmt.Printf("Cash delta: %s\n", colorizeMoney(summary.CashDelta))
	for _, ev := range summary.Events {
		fmt.Printf("  %s\n", ev)
	}
	if summary.HasPendingCrises {
		printWarn("New crises are waiting. Run `mgl crises list`.")
	}
	if summary.DecisionQueueCount > 0 {
		printInfo(fmt.Sprintf("%d decision(s) queued.", summary.DecisionQueueCount))
	}
	return nil
}

func renderReveals(raw map[string]any) error {
	payload, err := decodeInto[revealsPayload](raw)
	if err != nil {
		return err
	}
	for _, ev := range payload.Events {
		warn.Printf("  %s\n", ev)
	}
	fmt.Println()
	return nil
}

func renderResult(raw map[string]any) error {
	res, err := decodeInto[sim.Result](raw)
	if err != nil {
		return err
	}
	if res.OK {
		printSuccess(res.Message)
	} else {
		danger.Println(res.Message)
	}
	return nil
}

func renderProjects(raw map[string]any) error {
	payload, err := decodeInto[projectsPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== SLATE ==")
	if len(payload.Projects) == 0 {
		printInfo("No projects. Run `mgl market list` to find a script.")
		return nil
	}
	fmt.Printf("%-10s %-26s %-10s %-14s %8s %6s %12s %12s\n",
		"ID", "TITLE", "GENRE", "PHASE", "QUALITY", "HYPE", "SPENT", "CEILING")
	for _, p := range payload.Projects {
		fmt.Printf("%-10s %-26s %-10s %-14s %8.1f %6.0f %12s %12s\n",
			p.ID,
			truncate(p.Title, 26),
			p.Genre,
			p.Phase,
			p.ScriptQuality,
			p.HypeScore,
			formatMoney(p.Budget.ActualSpend),
			formatMoney(p.Budget.Ceiling),
		)
	}
	fmt.Println()
	return nil
}

func renderProjectDetail(raw map[string]any) error {
	p, err := decodeInto[sim.Project](raw)
	if err != nil {
		return err
	}
	accent.Printf("\n== %s (%s) ==\n", p.Title, p.ID)
	fmt.Printf("Phase:       %s (%s)\n", p.Phase, p.ProductionStatus)
	fmt.Printf("Genre:       %s\n", p.Genre)
	fmt.Printf("Quality:     script %.1f · editorial %.1f · concept %.1f\n", p.ScriptQuality, p.EditorialScore, p.ConceptStrength)
	fmt.Printf("Audience:    appeal %.1f · hype %.0f · prestige %.1f · controversy %.1f\n", p.CommercialAppeal, p.HypeScore, p.Prestige, p.Controversy)
	fmt.Printf("Budget:      %s spent of %s (overrun risk %.0f%%)\n", formatMoney(p.Budget.ActualSpend), formatMoney(p.Budget.Ceiling), p.Budget.OverrunRisk*100)
	fmt.Printf("Marketing:   %s\n", formatMoney(p.Budget.Marketing))
	if p.DirectorID != "" {
		fmt.Printf("Director:    %s\n", p.DirectorID)
	}
	if len(p.CastIDs) > 0 {
		fmt.Printf("Cast:        %s\n", strings.Join(p.CastIDs, ", "))
	}
	if p.ScheduledWeeksRemaining > 0 {
		fmt.Printf("Schedule:    %d week(s) remaining\n", p.ScheduledWeeksRemaining)
	}
	if p.Partner != "" {
		fmt.Printf("Partner:     %s (%s, share %.0f%%)\n", p.Partner, p.PartnerKind, p.RevenueShare*100)
	}
	if p.ReleaseWindow != "" {
		fmt.Printf("Release:     %s window, week %d\n", p.ReleaseWindow, p.ReleaseWeek)
	}
	if len(p.Offers) > 0 {
		fmt.Println()
		accent.Println("Offers")
		fmt.Printf("%-12s %-24s %-10s %12s %8s %12s\n", "ID", "PARTNER", "KIND", "GUARANTEE", "SHARE", "MARKETING")
		for _, o := range p.Offers {
			fmt.Printf("%-12s %-24s %-10s %12s %7.0f%% %12s\n",
				o.ID, truncate(o.Partner, 24), o.Kind, formatMoney(o.MinimumGuarantee), o.RevenueShare*100, formatMoney(o.MarketingCommitment))
		}
	}
	if p.Phase == sim.PhaseReleased {
		fmt.Printf("Opening:     %s\n", formatMoney(p.OpeningGross))
		if p.ReleaseResolved {
			fmt.Printf("Final ROI:   %+.2f\n", p.FinalROI)
		}
	}
	fmt.Println()
	return nil
}

func renderProjection(raw map[string]any) error {
	proj, err := decodeInto[sim.Projection](raw)
	if err != nil {
		return err
	}
	accent.Println("Projection")
	fmt.Printf("Critical:    %.1f\n", proj.CriticalScore)
	fmt.Printf("Opening:     %s – %s\n", formatMoney(proj.OpeningLow), formatMoney(proj.OpeningHigh))
	fmt.Printf("Proj. ROI:   %+.2f\n", proj.ProjectedROI)
	fmt.Println()
	return nil
}

func renderMarket(raw map[string]any) error {
	payload, err := decodeInto[pitchesPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== SCRIPT MARKET ==")
	if len(payload.Pitches) == 0 {
		printInfo("No pitches this week.")
		return nil
	}
	fmt.Printf("%-12s %-28s %-10s %8s %8s %12s %8s\n", "ID", "TITLE", "GENRE", "QUALITY", "CONCEPT", "PRICE", "EXPIRES")
	for _, s := range payload.Pitches {
		fmt.Printf("%-12s %-28s %-10s %8.1f %8.1f %12s %8d\n",
			s.ID, truncate(s.Title, 28), s.Genre, s.ScriptQuality, s.ConceptStrength, formatMoney(s.Price), s.ExpiresWeek)
	}
	fmt.Println()
	return nil
}

func renderTalent(raw map[string]any) error {
	payload, err := decodeInto[talentPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== TALENT POOL ==")
	fmt.Printf("%-10s %-20s %-10s %6s %6s %12s %-14s\n", "ID", "NAME", "ROLE", "STAR", "CRAFT", "SALARY", "STATUS")
	for _, t := range payload.Talent {
		status := string(t.Avail)
		if t.LockedBy != "" {
			status = fmt.Sprintf("locked (%s)", t.LockedBy)
		}
		fmt.Printf("%-10s %-20s %-10s %6.1f %6.1f %12s %-14s\n",
			t.ID, truncate(t.Name, 20), t.Role, t.StarPower, t.Craft, formatMoney(t.SalaryBase), truncate(status, 14))
	}
	fmt.Println()
	return nil
}

func renderCrises(raw map[string]any) error {
	payload, err := decodeInto[crisesPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== CRISES ==")
	if len(payload.Crises) == 0 {
		printSuccess("No crises pending.")
		return nil
	}
	for _, c := range payload.Crises {
		danger.Printf("%s  %s", c.ID, c.Title)
		if c.ProjectID != "" {
			neutral.Printf("  (%s)", c.ProjectID)
		}
		fmt.Println()
		if c.Body != "" {
			fmt.Printf("  %s\n", c.Body)
		}
		for _, opt := range c.Options {
			fmt.Printf("    %-12s %s\n", opt.ID, opt.Label)
		}
	}
	fmt.Println()
	return nil
}

func renderDecisions(raw map[string]any) error {
	payload, err := decodeInto[decisionsPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== DECISION QUEUE ==")
	if len(payload.Decisions) == 0 {
		printInfo("Nothing queued.")
		return nil
	}
	for _, d := range payload.Decisions {
		warn.Printf("%s  %s", d.ID, d.Title)
		neutral.Printf("  [%s, %dw left]", d.Category, d.WeeksUntilExpiry)
		if d.ProjectID != "" {
			neutral.Printf("  (%s)", d.ProjectID)
		}
		fmt.Println()
		for _, opt := range d.Options {
			fmt.Printf("    %-12s %s\n", opt.ID, opt.Label)
		}
	}
	fmt.Println()
	return nil
}

func renderRivals(raw map[string]any) error {
	payload, err := decodeInto[rivalsPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== RIVAL STUDIOS ==")
	for _, r := range payload.Rivals {
		fmt.Printf("%-8s %-22s %-22s heat %5.1f · hostility %.1f\n",
			r.ID, truncate(r.Name, 22), r.Archetype, r.Heat, r.Memory.Hostility)
		for _, rel := range r.Slate {
			tag := ""
			if rel.Tentpole {
				tag = " [tentpole]"
			}
			fmt.Printf("         wk %-4d %s%s\n", rel.Week, truncate(rel.Title, 36), tag)
		}
	}
	fmt.Println()
	return nil
}

func renderFranchises(raw map[string]any) error {
	payload, err := decodeInto[franchisesPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== FRANCHISES ==")
	if len(payload.Franchises) == 0 {
		printInfo("No franchise tracks. Launch one from a released hit.")
		return nil
	}
	fmt.Printf("%-10s %-24s %-10s %8s %8s %8s %-12s\n", "ID", "TITLE", "GENRE", "ENTRIES", "MOMENTUM", "FATIGUE", "STRATEGY")
	for _, f := range payload.Franchises {
		fmt.Printf("%-10s %-24s %-10s %8d %8.0f %8.0f %-12s\n",
			f.ID, truncate(f.Title, 24), f.Genre, f.ReleasedCount, f.Momentum, f.Fatigue, f.Strategy)
	}
	fmt.Println()
	return nil
}

func decodeInto[T any](in any) (T, error) {
	var out T
	raw, err := json.Marshal(in)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}

func colorizeMoney(v int64) string {
	text := formatMoney(v)
	if v > 0 {
		text = "+" + text
	}
	switch {
	case v > 0:
		return success.Sprint(text)
	case v < 0:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}

func formatAnyMoney(v any) string {
	return formatMoney(int64(toFloat(v)))
}

func toFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case int:
		return float64(t)
	case json.Number:
		f, _ := t.Float64()
		return f
	default:
		return 0
	}
}

func formatMoney(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%s$%.2fM", sign, float64(v)/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%s$%.1fK", sign, float64(v)/1_000)
	default:
		return fmt.Sprintf("%s$%d", sign, v)
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
