package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"mogul/internal/config"
	"mogul/internal/db"
	"mogul/internal/save"
	"mogul/internal/sim"
)

// batchReport aggregates the outcome of one batch of autopiloted campaigns.
type batchReport struct {
	Runs        int
	Bankrupt    int
	Releases    int
	CashP10     int64
	CashP50     int64
	CashP90     int64
	MeanWeeks   float64
	LastRunSave sim.Envelope
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadSimFromEnv()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var store save.Store
	if cfg.DatabaseURL != "" && cfg.ReportSlot != "" {
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("db connect failed", "err", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := db.EnsureSchema(ctx, pool); err != nil {
			logger.Error("schema init failed", "err", err)
			os.Exit(1)
		}
		store = save.NewPGStore(pool)
	}

	runOnce := strings.EqualFold(strings.TrimSpace(os.Getenv("MOGUL_SIM_RUN_ONCE")), "true")
	if runOnce {
		runBatch(ctx, cfg, logger, store)
		logger.Info("sim run-once completed")
		return
	}

	ticker := time.NewTicker(cfg.Every)
	defer ticker.Stop()

	logger.Info("sim worker started", "runs", cfg.Runs, "weeks", cfg.Weeks, "every", cfg.Every.String())
	for {
		select {
		case <-ctx.Done():
			logger.Info("sim worker shutdown")
			return
		case <-ticker.C:
			runBatch(ctx, cfg, logger, store)
		}
	}
}

func runBatch(ctx context.Context, cfg config.SimConfig, logger *slog.Logger, store save.Store) {
	report := simulateBatch(ctx, cfg)
	logger.Info("balance batch complete",
		"runs", report.Runs,
		"bankrupt", report.Bankrupt,
		"releases", report.Releases,
		"cash_p10", report.CashP10,
		"cash_p50", report.CashP50,
		"cash_p90", report.CashP90,
		"mean_weeks", report.MeanWeeks,
	)
	if store != nil {
		if err := store.Save(ctx, cfg.ReportSlot, report.LastRunSave); err != nil {
			logger.Error("report save failed", "slot", cfg.ReportSlot, "err", err)
		}
	}
}

func simulateBatch(ctx context.Context, cfg config.SimConfig) batchReport {
	report := batchReport{}
	finals := make([]int64, 0, cfg.Runs)
	totalWeeks := 0

	for i := 0; i < cfg.Runs; i++ {
		if ctx.Err() != nil {
			break
		}
		engine := sim.New(sim.Config{
			Seed:         cfg.Seed + int64(i),
			StartingCash: cfg.StartingCash,
		})
		weeks := runCampaign(engine, cfg.Weeks)
		totalWeeks += weeks

		report.Runs++
		if engine.Bankrupt() {
			report.Bankrupt++
		}
		for _, p := range engine.Projects() {
			if p.ReleaseResolved {
				report.Releases++
			}
		}
		finals = append(finals, engine.Cash())
		report.LastRunSave = engine.Snapshot()
	}

	if len(finals) > 0 {
		sort.Slice(finals, func(a, b int) bool { return finals[a] < finals[b] })
		report.CashP10 = finals[len(finals)*10/100]
		report.CashP50 = finals[len(finals)/2]
		report.CashP90 = finals[len(finals)*90/100]
		report.MeanWeeks = float64(totalWeeks) / float64(len(finals))
	}
	return report
}

// runCampaign plays one studio on autopilot for up to maxWeeks, taking the
// cheapest sensible action each week. The pilot is deliberately naive; the
// point is a stable baseline for drift in the economy, not strong play.
func runCampaign(engine *sim.Engine, maxWeeks int) int {
	weeks := 0
	for weeks < maxWeeks && !engine.Bankrupt() {
		autopilotWeek(engine)
		if _, err := engine.EndWeek(); err != nil {
			// Crises rolled mid-resolution; clear them and retry once.
			resolveAllPending(engine)
			if _, err := engine.EndWeek(); err != nil {
				break
			}
		}
		weeks++
	}
	return weeks
}

func autopilotWeek(engine *sim.Engine) {
	resolveAllPending(engine)

	active := 0
	for _, p := range engine.Projects() {
		if p.Phase != sim.PhaseReleased {
			active++
		}
	}
	if active < 3 {
		for _, pitch := range engine.ScriptMarket() {
			if pitch.Price*4 < engine.Cash() {
				engine.AcquireScript(pitch.ID)
				break
			}
		}
	}

	for _, p := range engine.Projects() {
		switch p.Phase {
		case sim.PhaseDevelopment:
			if p.DirectorID == "" {
				attachFirstAvailable(engine, p.ID, sim.RoleDirector)
			}
			if len(p.CastIDs) == 0 {
				attachFirstAvailable(engine, p.ID, sim.RoleLead)
			}
		case sim.PhasePostProduction:
			if p.Budget.Marketing == 0 {
				engine.AllocateMarketing(p.ID, p.Budget.Ceiling/20)
			}
		case sim.PhaseDistribution:
			if p.ReleaseWindow == "" {
				engine.SetReleaseWindow(p.ID, sim.WindowSummer)
			}
			if p.Partner == "" && len(p.Offers) > 0 {
				engine.AcceptDistributionOffer(p.ID, p.Offers[0].ID)
			}
		}
		// Refusals are fine; the gate message is ignored on purpose.
		engine.AdvanceProjectPhase(p.ID)
	}
}

func attachFirstAvailable(engine *sim.Engine, projectID string, role sim.TalentRole) {
	for _, t := range engine.TalentPool() {
		if t.Role == role && t.Avail == sim.AvailabilityAvailable {
			engine.NegotiateAndAttachTalent(t.ID, projectID)
			return
		}
	}
}

func resolveAllPending(engine *sim.Engine) {
	for _, c := range engine.PendingCrises() {
		if len(c.Options) > 0 {
			engine.ResolveCrisis(c.ID, c.Options[0].ID)
		}
	}
	for _, d := range engine.DecisionQueue() {
		if len(d.Options) > 0 {
			engine.ResolveDecision(d.ID, d.Options[0].ID)
		}
	}
}
