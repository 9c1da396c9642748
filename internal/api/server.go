package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"mogul/internal/config"
	"mogul/internal/save"
	"mogul/internal/sim"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// session is one live studio campaign. Engine methods are not safe for
// concurrent use, so every handler takes the session lock.
type session struct {
	mu       sync.Mutex
	engine   *sim.Engine
	seed     int64
	slot     string
	lastUsed time.Time
}

type Server struct {
	cfg   config.APIConfig
	log   *slog.Logger
	store save.Store
	mux   *chi.Mux

	mu    sync.Mutex
	games map[string]*session
}

func New(cfg config.APIConfig, logger *slog.Logger, store save.Store) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:   cfg,
		log:   logger,
		store: store,
		mux:   chi.NewRouter(),
		games: map[string]*session{},
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/games", s.handleCreateGame)
		r.Get("/games", s.handleListGames)
		r.Post("/games/load", s.handleLoadGame)

		r.Get("/saves", s.handleListSaves)
		r.Delete("/saves/{slot}", s.handleDeleteSave)

		r.Route("/games/{game_id}", func(r chi.Router) {
			r.Get("/", s.handleGameStatus)
			r.Delete("/", s.handleCloseGame)
			r.Post("/week", s.handleEndWeek)
			r.Post("/save", s.handleSaveGame)
			r.Get("/events", s.handleRevealQueue)
			r.Get("/ledger", s.handleLedger)

			r.Get("/projects", s.handleProjects)
			r.Get("/projects/{project_id}", s.handleProjectDetail)
			r.Get("/projects/{project_id}/projection", s.handleProjection)
			r.Post("/projects/{project_id}/advance", s.projectAction("advance"))
			r.Post("/projects/{project_id}/abandon", s.projectAction("abandon"))
			r.Post("/projects/{project_id}/sprint", s.projectAction("sprint"))
			r.Post("/projects/{project_id}/polish", s.projectAction("polish"))
			r.Post("/projects/{project_id}/screening", s.projectAction("screening"))
			r.Post("/projects/{project_id}/reshoot", s.projectAction("reshoot"))
			r.Post("/projects/{project_id}/festival", s.projectAction("festival"))
			r.Post("/projects/{project_id}/tracking-advance", s.projectAction("tracking-advance"))
			r.Post("/projects/{project_id}/offers/walkaway", s.projectAction("walkaway"))
			r.Post("/projects/{project_id}/marketing", s.handleMarketing)
			r.Post("/projects/{project_id}/window", s.handleReleaseWindow)
			r.Post("/projects/{project_id}/offers/{offer_id}/accept", s.handleAcceptOffer)
			r.Post("/projects/{project_id}/offers/{offer_id}/counter", s.handleCounterOffer)

			r.Get("/market", s.handleScriptMarket)
			r.Post("/market/{pitch_id}/acquire", s.handleAcquireScript)
			r.Post("/market/{pitch_id}/pass", s.handlePassScript)

			r.Get("/talent", s.handleTalent)
			r.Get("/talent/{talent_id}", s.handleTalentDetail)
			r.Post("/negotiations", s.handleStartNegotiation)
			r.Get("/negotiations/{talent_id}", s.handleNegotiationDetail)
			r.Post("/negotiations/{talent_id}/move", s.handleNegotiationMove)
			r.Post("/negotiations/{talent_id}/quick-close", s.handleQuickClose)

			r.Get("/crises", s.handleCrises)
			r.Post("/crises/{crisis_id}/resolve", s.handleResolveCrisis)
			r.Get("/decisions", s.handleDecisions)
			r.Post("/decisions/{decision_id}/resolve", s.handleResolveDecision)

			r.Get("/rivals", s.handleRivals)
			r.Get("/franchises", s.handleFranchises)
			r.Post("/franchises", s.handleLaunchFranchise)
			r.Post("/franchises/{franchise_id}/sequel", s.handleStartSequel)
			r.Post("/franchises/{franchise_id}/strategy", s.handleFranchiseStrategy)
		})
	})
}

// withSession resolves the game id from the URL and runs fn under the
// session lock.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*session)) {
	id := chi.URLParam(r, "game_id")
	s.mu.Lock()
	sess, ok := s.games[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastUsed = time.Now()
	fn(sess)
}

// writeResult maps the engine's soft failures to 422 so clients can show the
// in-world message without treating it as a transport error.
func writeResult(w http.ResponseWriter, res sim.Result) {
	status := http.StatusOK
	if !res.OK {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, res)
}

type gameStatus struct {
	ID             string  `json:"id"`
	Week           int     `json:"week"`
	Cash           int64   `json:"cash"`
	StudioHeat     float64 `json:"studio_heat"`
	Bankrupt       bool    `json:"bankrupt"`
	BankruptReason string  `json:"bankrupt_reason,omitempty"`
	Projects       int     `json:"projects"`
	PendingCrises  int     `json:"pending_crises"`
	DecisionQueue  int     `json:"decision_queue"`
	Slot           string  `json:"slot,omitempty"`
}

func statusOf(id string, sess *session) gameStatus {
	e := sess.engine
	return gameStatus{
		ID:             id,
		Week:           e.CurrentWeek(),
		Cash:           e.Cash(),
		StudioHeat:     e.StudioHeat(),
		Bankrupt:       e.Bankrupt(),
		BankruptReason: e.BankruptReason(),
		Projects:       len(e.Projects()),
		PendingCrises:  len(e.PendingCrises()),
		DecisionQueue:  len(e.DecisionQueue()),
		Slot:           sess.slot,
	}
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Seed         int64  `json:"seed"`
		StartingCash int64  `json:"starting_cash"`
		Slot         string `json:"slot"`
	}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	seed := in.Seed
	if seed == 0 {
		seed = s.cfg.Seed
	}
	cash := in.StartingCash
	if cash == 0 {
		cash = s.cfg.StartingCash
	}
	engine := sim.New(sim.Config{Logger: s.log, Seed: seed, StartingCash: cash})

	id := uuid.NewString()
	sess := &session{engine: engine, seed: seed, slot: strings.TrimSpace(in.Slot), lastUsed: time.Now()}
	s.mu.Lock()
	s.games[id] = sess
	s.mu.Unlock()

	s.log.Info("game created", "game_id", id, "seed", seed)
	writeJSON(w, http.StatusCreated, statusOf(id, sess))
}

func (s *Server) handleListGames(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	sessions := make(map[string]*session, len(s.games))
	for id, sess := range s.games {
		sessions[id] = sess
	}
	s.mu.Unlock()

	out := make([]gameStatus, 0, len(sessions))
	for id, sess := range sessions {
		sess.mu.Lock()
		out = append(out, statusOf(id, sess))
		sess.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, map[string]any{"games": out})
}

func (s *Server) handleLoadGame(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "no save store configured")
		return
	}
	var in struct {
		Slot string `json:"slot"`
		Seed int64  `json:"seed"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	env, err := s.store.Load(r.Context(), strings.TrimSpace(in.Slot))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	seed := in.Seed
	if seed == 0 {
		seed = s.cfg.Seed
	}
	engine, err := sim.Restore(env, sim.Config{Logger: s.log, Seed: seed})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := uuid.NewString()
	sess := &session{engine: engine, seed: seed, slot: strings.TrimSpace(in.Slot), lastUsed: time.Now()}
	s.mu.Lock()
	s.games[id] = sess
	s.mu.Unlock()

	s.log.Info("game loaded", "game_id", id, "slot", in.Slot, "week", engine.CurrentWeek())
	writeJSON(w, http.StatusCreated, statusOf(id, sess))
}

func (s *Server) handleGameStatus(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session) {
		writeJSON(w, http.StatusOK, statusOf(chi.URLParam(r, "game_id"), sess))
	})
}

func (s *Server) handleCloseGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "game_id")
	s.mu.Lock()
	_, ok := s.games[id]
	delete(s.games, id)
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"closed": id})
}

func (s *Server) handleEndWeek(w http.ResponseWriter, r *http.Request) {
	key := idempotencyKey(r)
	s.withSession(w, r, func(sess *session) {
		summary, err := sess.engine.EndWeek()
		if errors.Is(err, sim.ErrCrisesPending) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.log.Info("week closed",
			"game_id", chi.URLParam(r, "game_id"),
			"week", summary.Week,
			"cash_delta", summary.CashDelta,
			"idempotency_key", key)
		if sess.slot != "" && s.store != nil {
			if err := s.store.Save(r.Context(), sess.slot, sess.engine.Snapshot()); err != nil {
				s.log.Error("autosave failed", "slot", sess.slot, "error", err)
			}
		}
		writeJSON(w, http.StatusOK, summary)
	})
}

func (s *Server) handleSaveGame(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "no save store configured")
		return
	}
	var in struct {
		Slot string `json:"slot"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withSession(w, r, func(sess *session) {
		slot := strings.TrimSpace(in.Slot)
		if slot == "" {
			slot = sess.slot
		}
		if slot == "" {
			slot = s.cfg.AutosaveSlot
		}
		env := sess.engine.Snapshot()
		if err := s.store.Save(r.Context(), slot, env); err != nil {
			writeStoreError(w, err)
			return
		}
		sess.slot = slot
		writeJSON(w, http.StatusOK, map[string]any{"slot": slot, "saved_at": env.SavedAt, "week": env.Manager.Week})
	})
}

func (s *Server) handleListSaves(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "no save store configured")
		return
	}
	infos, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"saves": infos})
}

func (s *Server) handleDeleteSave(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "no save store configured")
		return
	}
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "slot")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": chi.URLParam(r, "slot")})
}

func (s *Server) handleRevealQueue(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session) {
		writeJSON(w, http.StatusOK, map[string]any{"events": sess.engine.ConsumeRevealQueue()})
	})
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session) {
		writeJSON(w, http.StatusOK, sess.engine.Ledger())
	})
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session) {
		writeJSON(w, http.StatusOK, map[string]any{"projects": sess.engine.Projects()})
	})
}

func (s *Server) handleProjectDetail(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session) {
		p, ok := sess.engine.Project(chi.URLParam(r, "project_id"))
		if !ok {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		writeJSON(w, http.StatusOK, p)
	})
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session) {
		proj, ok := sess.engine.ProjectProjection(chi.URLParam(r, "project_id"))
		if !ok {
			writeError(w, http.StatusNotFound, "no projection available")
			return
		}
		writeJSON(w, http.StatusOK, proj)
	})
}

// projectAction routes the single-argument project operations through one
// handler shape.
func (s *Server) projectAction(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.withSession(w, r, func(sess *session) {
			id := chi.URLParam(r, "project_id")
			var res sim.Result
			switch action {
			case "advance":
				res = sess.engine.AdvanceProjectPhase(id)
			case "abandon":
				res = sess.engine.AbandonProject(id)
			case "sprint":
				res = sess.engine.ScriptSprint(id)
			case "polish":
				res = sess.engine.PolishPass(id)
			case "screening":
				res = sess.engine.TestScreening(id)
			case "reshoot":
				res = sess.engine.OrderReshoot(id)
			case "festival":
				res = sess.engine.SubmitToFestival(id)
			case "tracking-advance":
				res = sess.engine.TakeTrackingAdvance(id)
			case "walkaway":
				res = sess.engine.WalkAwayDistribution(id)
			default:
				writeError(w, http.StatusNotFound, "unknown action")
				return
			}
			writeResult(w, res)
		})
	}
}

func (s *Server) handleMarketing(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Amount int64 `json:"amount"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withSession(w, r, func(sess *session) {
		writeResult(w, sess.engine.AllocateMarketing(chi.URLParam(r, "project_id"), in.Amount))
	})
}

func (s *Server) handleReleaseWindow(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Window string `json:"window"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withSession(w, r, func(sess *session) {
		writeResult(w, sess.engine.SetReleaseWindow(chi.URLParam(r, "project_id"), sim.ReleaseWindow(in.Window)))
	})
}

func (s *Server) handleAcceptOffer(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session) {
		writeResult(w, sess.engine.AcceptDistributionOffer(chi.URLParam(r, "project_id"), chi.URLParam(r, "offer_id")))
	})
}

func (s *Server) handleCounterOffer(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session) {
		writeResult(w, sess.engine.CounterDistributionOffer(chi.URLParam(r, "project_id"), chi.URLParam(r, "offer_id")))
	})
}

func (s *Server) handleScriptMarket(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session) {
		writeJSON(w, http.StatusOK, map[string]any{"pitches": sess.engine.ScriptMarket()})
	})
}

func (s *Server) handleAcquireScript(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session) {
		writeResult(w, sess.engine.AcquireScript(chi.URLParam(r, "pitch_id")))
	})
}

func (s *Server) handlePassScript(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session) {
		writeResult(w, sess.engine.PassScript(chi.URLParam(r, "pitch_id")))
	})
}

func (s *Server) handleTalent(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session) {
		writeJSON(w, http.StatusOK, map[string]any{"talent": sess.engine.TalentPool()})
	})
}

func (s *Server) handleTalentDetail(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session) {
		t, ok := sess.engine.TalentByID(chi.URLParam(r, "talent_id"))
		if !ok {
			writeError(w, http.StatusNotFound, "talent not found")
			return
		}
		writeJSON(w, http.StatusOK, t)
	})
}

func (s *Server) handleStartNegotiation(w http.ResponseWriter, r *http.Request) {
	var in struct {
		TalentID  string `json:"talent_id"`
		ProjectID string `json:"project_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withSession(w, r, func(sess *session) {
		writeResult(w, sess.engine.StartTalentNegotiation(in.TalentID, in.ProjectID))
	})
}

func (s *Server) handleNegotiationDetail(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session) {
		n, ok := sess.engine.OpenNegotiation(chi.URLParam(r, "talent_id"))
		if !ok {
			writeError(w, http.StatusNotFound, "no open negotiation")
			return
		}
		writeJSON(w, http.StatusOK, n)
	})
}

func (s *Server) handleNegotiationMove(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Move string `json:"move"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withSession(w, r, func(sess *session) {
		writeResult(w, sess.engine.AdjustTalentNegotiation(chi.URLParam(r, "talent_id"), sim.NegotiationMove(in.Move)))
	})
}

func (s *Server) handleQuickClose(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ProjectID string `json:"project_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withSession(w, r, func(sess *session) {
		writeResult(w, sess.engine.NegotiateAndAttachTalent(chi.URLParam(r, "talent_id"), in.ProjectID))
	})
}

func (s *Server) handleCrises(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session) {
		writeJSON(w, http.StatusOK, map[string]any{"crises": sess.engine.PendingCrises()})
	})
}

func (s *Server) handleResolveCrisis(w http.ResponseWriter, r *http.Request) {
	var in struct {
		OptionID string `json:"option_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withSession(w, r, func(sess *session) {
		writeResult(w, sess.engine.ResolveCrisis(chi.URLParam(r, "crisis_id"), in.OptionID))
	})
}

func (s *Server) handleDecisions(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session) {
		writeJSON(w, http.StatusOK, map[string]any{"decisions": sess.engine.DecisionQueue()})
	})
}

func (s *Server) handleResolveDecision(w http.ResponseWriter, r *http.Request) {
	var in struct {
		OptionID string `json:"option_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withSession(w, r, func(sess *session) {
		writeResult(w, sess.engine.ResolveDecision(chi.URLParam(r, "decision_id"), in.OptionID))
	})
}

func (s *Server) handleRivals(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session) {
		writeJSON(w, http.StatusOK, map[string]any{"rivals": sess.engine.Rivals()})
	})
}

func (s *Server) handleFranchises(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session) {
		writeJSON(w, http.StatusOK, map[string]any{"franchises": sess.engine.Franchises()})
	})
}

func (s *Server) handleLaunchFranchise(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ProjectID string `json:"project_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withSession(w, r, func(sess *session) {
		writeResult(w, sess.engine.LaunchFranchise(in.ProjectID))
	})
}

func (s *Server) handleStartSequel(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Title string `json:"title"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withSession(w, r, func(sess *session) {
		writeResult(w, sess.engine.StartSequel(chi.URLParam(r, "franchise_id"), in.Title))
	})
}

func (s *Server) handleFranchiseStrategy(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Strategy string `json:"strategy"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withSession(w, r, func(sess *session) {
		writeResult(w, sess.engine.SetFranchiseStrategy(chi.URLParam(r, "franchise_id"), sim.FranchiseStrategy(in.Strategy)))
	})
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, save.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, save.ErrInvalidSlot):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}

func idempotencyKey(r *http.Request) string {
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if key != "" {
		return key
	}
	return uuid.NewString()
}

// SweepIdle drops sessions untouched for longer than the TTL. The API main
// runs it on a ticker alongside autosave.
func (s *Server) SweepIdle(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.games {
		sess.mu.Lock()
		idle := sess.lastUsed.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.games, id)
			removed++
		}
	}
	return removed
}
