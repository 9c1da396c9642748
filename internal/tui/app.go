// Package tui is the offline dashboard. It drives a local engine directly,
// bubbletea-style: state in the model, messages in Update, strings out of
// View.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mogul/internal/save"
	"mogul/internal/sim"
)

// viewState is the active screen.
type viewState int

const (
	stateDashboard viewState = iota
	stateCrises
	stateDecisions
	stateMarket
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	alertStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFB454"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).MarginTop(1)
)

type projectItem struct {
	p sim.Project
}

func (i projectItem) Title() string {
	return fmt.Sprintf("%s (%s)", i.p.Title, i.p.Genre)
}

func (i projectItem) Description() string {
	return fmt.Sprintf("%s · quality %.1f · hype %.0f · spent %s of %s",
		i.p.Phase, i.p.ScriptQuality, i.p.HypeScore,
		formatMoney(i.p.Budget.ActualSpend), formatMoney(i.p.Budget.Ceiling))
}

func (i projectItem) FilterValue() string { return i.p.Title }

// App is the dashboard model. It owns the engine; nothing else mutates it
// while the program runs.
type App struct {
	engine *sim.Engine
	store  save.Store
	slot   string

	state      viewState
	projects   list.Model
	selection  int
	statusMsg  string
	summary    sim.WeekSummary
	hasSummary bool
	reveals    []string

	width  int
	height int
}

func NewApp(engine *sim.Engine, store save.Store, slot string) *App {
	projects := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	projects.Title = "Slate"
	projects.SetShowStatusBar(false)
	projects.SetFilteringEnabled(false)

	a := &App{
		engine:    engine,
		store:     store,
		slot:      slot,
		state:     stateDashboard,
		projects:  projects,
		statusMsg: "w → end week    c → crises    d → decisions    m → script market    q → quit",
	}
	a.refreshProjects()
	return a
}

func (a *App) refreshProjects() {
	ps := a.engine.Projects()
	items := make([]list.Item, len(ps))
	for i, p := range ps {
		items[i] = projectItem{p: p}
	}
	a.projects.SetItems(items)
}

func (a *App) Init() tea.Cmd {
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.projects.SetSize(max(0, msg.Width-8), max(6, msg.Height-16))
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if a.state == stateDashboard {
				return a, tea.Quit
			}
			a.state = stateDashboard
			a.selection = 0
			return a, nil
		case "esc":
			a.state = stateDashboard
			a.selection = 0
			return a, nil
		case "w":
			if a.state == stateDashboard {
				a.endWeek()
				return a, nil
			}
		case "c":
			if a.state == stateDashboard {
				a.state = stateCrises
				a.selection = 0
				return a, nil
			}
		case "d":
			if a.state == stateDashboard {
				a.state = stateDecisions
				a.selection = 0
				return a, nil
			}
		case "m":
			if a.state == stateDashboard {
				a.state = stateMarket
				a.selection = 0
				return a, nil
			}
		case "s":
			if a.state == stateDashboard {
				a.saveGame()
				return a, nil
			}
		case "up", "k":
			if a.state != stateDashboard && a.selection > 0 {
				a.selection--
				return a, nil
			}
		case "down", "j":
			if a.state != stateDashboard && a.selection < a.listLen()-1 {
				a.selection++
				return a, nil
			}
		case "1", "2", "3":
			if a.state == stateCrises || a.state == stateDecisions {
				a.resolveSelected(int(msg.String()[0] - '1'))
				return a, nil
			}
			if a.state == stateMarket {
				a.marketAction(msg.String() == "1")
				return a, nil
			}
		}
	}

	if a.state == stateDashboard {
		var cmd tea.Cmd
		a.projects, cmd = a.projects.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) listLen() int {
	switch a.state {
	case stateCrises:
		return len(a.engine.PendingCrises())
	case stateDecisions:
		return len(a.engine.DecisionQueue())
	case stateMarket:
		return len(a.engine.ScriptMarket())
	}
	return 0
}

func (a *App) endWeek() {
	summary, err := a.engine.EndWeek()
	if err != nil {
		a.statusMsg = alertStyle.Render(err.Error() + "  (press c to review)")
		return
	}
	a.summary = summary
	a.hasSummary = true
	a.reveals = a.engine.ConsumeRevealQueue()
	a.refreshProjects()
	a.statusMsg = fmt.Sprintf("Week %d closed · cash %s", summary.Week, formatSignedMoney(summary.CashDelta))
	if a.engine.Bankrupt() {
		a.statusMsg = alertStyle.Render("The studio is bankrupt: " + a.engine.BankruptReason())
	}
}

func (a *App) saveGame() {
	if a.store == nil {
		a.statusMsg = "No save store configured."
		return
	}
	slot := a.slot
	if slot == "" {
		slot = "autosave"
	}
	if err := a.store.Save(context.Background(), slot, a.engine.Snapshot()); err != nil {
		a.statusMsg = alertStyle.Render("Save failed: " + err.Error())
		return
	}
	a.statusMsg = fmt.Sprintf("Saved to slot %q.", slot)
}

func (a *App) resolveSelected(optionIdx int) {
	if a.state == stateCrises {
		crises := a.engine.PendingCrises()
		if a.selection >= len(crises) {
			return
		}
		c := crises[a.selection]
		if optionIdx >= len(c.Options) {
			return
		}
		res := a.engine.ResolveCrisis(c.ID, c.Options[optionIdx].ID)
		a.afterResolve(res)
		return
	}
	decisions := a.engine.DecisionQueue()
	if a.selection >= len(decisions) {
		return
	}
	d := decisions[a.selection]
	if optionIdx >= len(d.Options) {
		return
	}
	res := a.engine.ResolveDecision(d.ID, d.Options[optionIdx].ID)
	a.afterResolve(res)
}

func (a *App) afterResolve(res sim.Result) {
	a.statusMsg = res.Message
	if !res.OK {
		a.statusMsg = alertStyle.Render(res.Message)
	}
	a.refreshProjects()
	if a.selection >= a.listLen() && a.selection > 0 {
		a.selection--
	}
}

func (a *App) marketAction(acquire bool) {
	market := a.engine.ScriptMarket()
	if a.selection >= len(market) {
		return
	}
	pitch := market[a.selection]
	var res sim.Result
	if acquire {
		res = a.engine.AcquireScript(pitch.ID)
	} else {
		res = a.engine.PassScript(pitch.ID)
	}
	a.afterResolve(res)
}

func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	header := headerStyle.Render("⬡ MOGUL")
	status := a.renderStudioPanel(width - 4)

	var content string
	switch a.state {
	case stateDashboard:
		content = a.renderDashboard()
	case stateCrises:
		content = a.renderCrises()
	case stateDecisions:
		content = a.renderDecisions()
	case stateMarket:
		content = a.renderMarket()
	}
	body := panelStyle.Width(max(40, width-2)).Render(content)
	footer := footerStyle.Render(a.statusMsg)
	return strings.Join([]string{header, status, body, footer}, "\n")
}

func (a *App) renderStudioPanel(width int) string {
	e := a.engine
	line := fmt.Sprintf("Week %d · Cash %s · Heat %.0f · Crises %d · Decisions %d",
		e.CurrentWeek(), formatMoney(e.Cash()), e.StudioHeat(),
		len(e.PendingCrises()), len(e.DecisionQueue()))
	if e.Bankrupt() {
		line += " · " + alertStyle.Render("BANKRUPT")
	}
	return panelStyle.Width(max(40, width)).Render(line)
}

func (a *App) renderDashboard() string {
	sections := []string{a.projects.View()}
	if a.hasSummary {
		var b strings.Builder
		b.WriteString(titleStyle.Render(fmt.Sprintf("Week %d", a.summary.Week)) + "\n")
		for _, ev := range a.summary.Events {
			b.WriteString("  " + ev + "\n")
		}
		for _, r := range a.reveals {
			b.WriteString("  " + alertStyle.Render(r) + "\n")
		}
		sections = append(sections, strings.TrimRight(b.String(), "\n"))
	}
	return strings.Join(sections, "\n")
}

func (a *App) renderCrises() string {
	crises := a.engine.PendingCrises()
	if len(crises) == 0 {
		return dimStyle.Render("No crises pending. Esc to return.")
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Crises (%d)", len(crises))) + "\n")
	for i, c := range crises {
		marker := "  "
		if i == a.selection {
			marker = "> "
		}
		b.WriteString(fmt.Sprintf("%s%s", marker, c.Title))
		if c.ProjectID != "" {
			if p, ok := a.engine.Project(c.ProjectID); ok {
				b.WriteString(dimStyle.Render(" · " + p.Title))
			}
		}
		b.WriteString("\n")
		if i == a.selection {
			if c.Body != "" {
				b.WriteString(dimStyle.Render("    "+c.Body) + "\n")
			}
			for j, opt := range c.Options {
				b.WriteString(fmt.Sprintf("    [%d] %s\n", j+1, opt.Label))
			}
		}
	}
	b.WriteString(footerStyle.Render("1-3 → choose    j/k → move    esc → back"))
	return b.String()
}

func (a *App) renderDecisions() string {
	decisions := a.engine.DecisionQueue()
	if len(decisions) == 0 {
		return dimStyle.Render("Decision queue is empty. Esc to return.")
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Decisions (%d)", len(decisions))) + "\n")
	for i, d := range decisions {
		marker := "  "
		if i == a.selection {
			marker = "> "
		}
		b.WriteString(fmt.Sprintf("%s%s (%s, %dw left)\n", marker, d.Title, d.Category, d.WeeksUntilExpiry))
		if i == a.selection {
			for j, opt := range d.Options {
				b.WriteString(fmt.Sprintf("    [%d] %s\n", j+1, opt.Label))
			}
		}
	}
	b.WriteString(footerStyle.Render("1-3 → choose    j/k → move    esc → back"))
	return b.String()
}

func (a *App) renderMarket() string {
	market := a.engine.ScriptMarket()
	if len(market) == 0 {
		return dimStyle.Render("The script market is empty this week.")
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Script Market (%d)", len(market))) + "\n")
	for i, s := range market {
		marker := "  "
		if i == a.selection {
			marker = "> "
		}
		b.WriteString(fmt.Sprintf("%s%s (%s) · quality %.1f · concept %.1f · %s\n",
			marker, s.Title, s.Genre, s.ScriptQuality, s.ConceptStrength, formatMoney(s.Price)))
	}
	b.WriteString(footerStyle.Render("1 → acquire    2 → pass    j/k → move    esc → back"))
	return b.String()
}

func formatMoney(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%s$%.1fM", sign, float64(v)/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%s$%.0fK", sign, float64(v)/1_000)
	default:
		return fmt.Sprintf("%s$%d", sign, v)
	}
}

func formatSignedMoney(v int64) string {
	if v > 0 {
		return "+" + formatMoney(v)
	}
	return formatMoney(v)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
