package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	cl "mogul/internal/cli"
	"mogul/internal/config"
	"mogul/internal/save"
	"mogul/internal/sim"
	"mogul/internal/tui"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "mgl",
		Short:        "Mogul studio management client",
		SilenceUsage: true,
	}

	root.AddCommand(
		newPlayCmd(cfg),
		newNewCmd(&apiBase),
		newLoadCmd(&apiBase),
		newQuitGameCmd(),
		newStatusCmd(&apiBase),
		newWeekCmd(&apiBase),
		newSaveCmd(&apiBase),
		newProjectsCmd(&apiBase),
		newMarketCmd(&apiBase),
		newTalentCmd(&apiBase),
		newCrisesCmd(&apiBase),
		newDecisionsCmd(&apiBase),
		newRivalsCmd(&apiBase),
		newFranchiseCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func activeGame() (cl.Session, error) {
	sess, err := cl.LoadSession()
	if err != nil {
		return cl.Session{}, fmt.Errorf("no active game, run `mgl new` first: %w", err)
	}
	return sess, nil
}

// newPlayCmd runs the offline dashboard against a local engine. No API, no
// database; saves go to plain files under the save dir.
func newPlayCmd(cfg config.CLIConfig) *cobra.Command {
	var seed int64
	var slot string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play offline in the terminal dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := save.NewFileStore(cfg.SaveDir)
			if err != nil {
				return err
			}
			if seed == 0 {
				seed = cfg.Seed
			}
			var engine *sim.Engine
			if slot != "" {
				env, err := store.Load(cmd.Context(), slot)
				if err == nil {
					engine, err = sim.Restore(env, sim.Config{Seed: seed})
					if err != nil {
						return err
					}
				}
			}
			if engine == nil {
				engine = sim.New(sim.Config{Seed: seed})
			}
			program := tea.NewProgram(tui.NewApp(engine, store, slot), tea.WithAltScreen())
			_, err = program.Run()
			return err
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "deterministic seed (0 = random)")
	cmd.Flags().StringVar(&slot, "slot", "", "save slot to resume and autosave to")
	return cmd
}

func newNewCmd(apiBase *string) *cobra.Command {
	var seed, cash int64
	var slot string
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new studio campaign on the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).CreateGame(ctx, seed, cash, slot)
			if err != nil {
				return err
			}
			id, _ := out["id"].(string)
			if id == "" {
				return fmt.Errorf("server returned no game id")
			}
			if err := cl.SaveSession(cl.Session{GameID: id, BaseURL: *apiBase, Slot: slot}); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Campaign started (game %s).", id))
			return renderStatus(out)
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "deterministic seed (0 = server default)")
	cmd.Flags().Int64Var(&cash, "cash", 0, "starting cash (0 = server default)")
	cmd.Flags().StringVar(&slot, "slot", "", "autosave slot")
	return cmd
}

func newLoadCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "load [slot]",
		Short: "Load a saved campaign into a new session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).LoadGame(ctx, args[0])
			if err != nil {
				return err
			}
			id, _ := out["id"].(string)
			if id == "" {
				return fmt.Errorf("server returned no game id")
			}
			if err := cl.SaveSession(cl.Session{GameID: id, BaseURL: *apiBase, Slot: args[0]}); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Loaded slot %q into game %s.", args[0], id))
			return renderStatus(out)
		},
	}
}

func newQuitGameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quit",
		Short: "Forget the active campaign session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.ClearSession(); err != nil {
				return err
			}
			printSuccess("Session cleared.")
			return nil
		},
	}
}

func newStatusCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the studio at a glance",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := activeGame()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.GameStatus(ctx, sess.GameID)
			if err != nil {
				return err
			}
			if err := renderStatus(out); err != nil {
				return err
			}
			ledger, err := client.Ledger(ctx, sess.GameID)
			if err != nil {
				return err
			}
			return renderLedger(ledger)
		},
	}
}

func newWeekCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Close out the current week",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := activeGame()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.EndWeek(ctx, sess.GameID, uuid.NewString())
			if err != nil {
				if strings.Contains(err.Error(), "crises are pending") {
					printWarn("Crises are pending. Run `mgl crises` to resolve them first.")
					return nil
				}
				return err
			}
			if err := renderWeekSummary(out); err != nil {
				return err
			}
			reveals, err := client.RevealEvents(ctx, sess.GameID)
			if err != nil {
				return err
			}
			return renderReveals(reveals)
		},
	}
}

func newSaveCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "save [slot]",
		Short: "Save the campaign to a named slot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := activeGame()
			if err != nil {
				return err
			}
			slot := sess.Slot
			if len(args) > 0 {
				slot = args[0]
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).SaveGame(ctx, sess.GameID, slot)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Saved to slot %v (week %v).", out["slot"], out["week"]))
			return nil
		},
	}
}

func newProjectsCmd(apiBase *string) *cobra.Command {
	projects := &cobra.Command{
		Use:     "projects",
		Short:   "Manage the production slate",
		Aliases: []string{"project"},
	}
	projects.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List slate projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := activeGame()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).ListProjects(ctx, sess.GameID)
			if err != nil {
				return err
			}
			return renderProjects(out)
		},
	})
	projects.AddCommand(&cobra.Command{
		Use:   "show [project_id]",
		Short: "Show one project, offers and projection included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := activeGame()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.ProjectDetail(ctx, sess.GameID, args[0])
			if err != nil {
				return err
			}
			if err := renderProjectDetail(out); err != nil {
				return err
			}
			proj, err := client.Projection(ctx, sess.GameID, args[0])
			if err == nil {
				return renderProjection(proj)
			}
			return nil
		},
	})
	for _, action := range []struct {
		use, short, op string
	}{
		{"advance [project_id]", "Advance the project to its next phase", "advance"},
		{"abandon [project_id]", "Abandon the project and write off its spend", "abandon"},
		{"sprint [project_id]", "Run a writers-room sprint", "sprint"},
		{"polish [project_id]", "Buy an editorial polish pass", "polish"},
		{"screening [project_id]", "Hold a test screening", "screening"},
		{"reshoot [project_id]", "Order reshoots", "reshoot"},
		{"festival [project_id]", "Submit to a festival", "festival"},
		{"tracking [project_id]", "Take a tracking advance from the partner", "tracking-advance"},
		{"walkaway [project_id]", "Reject all offers and self-distribute", "walkaway"},
	} {
		op := action.op
		projects.AddCommand(&cobra.Command{
			Use:   action.use,
			Short: action.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runProjectAction(cmd, apiBase, args[0], op)
			},
		})
	}
	projects.AddCommand(newMarketingCmd(apiBase))
	projects.AddCommand(newWindowCmd(apiBase))
	projects.AddCommand(newOfferCmd(apiBase))
	return projects
}

func runProjectAction(cmd *cobra.Command, apiBase *string, projectID, op string) error {
	sess, err := activeGame()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	out, err := newClient(apiBase).ProjectAction(ctx, sess.GameID, projectID, op, uuid.NewString())
	if err != nil {
		return err
	}
	return renderResult(out)
}

func newMarketingCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "marketing [project_id] [amount]",
		Short: "Commit marketing spend",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := activeGame()
			if err != nil {
				return err
			}
			amount, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[1])
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).AllocateMarketing(ctx, sess.GameID, args[0], amount, uuid.NewString())
			if err != nil {
				return err
			}
			return renderResult(out)
		},
	}
}

func newWindowCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "window [project_id] [spring|summer|awards|holiday]",
		Short: "Pick the release window",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := activeGame()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).SetReleaseWindow(ctx, sess.GameID, args[0], args[1], uuid.NewString())
			if err != nil {
				return err
			}
			return renderResult(out)
		},
	}
}

func newOfferCmd(apiBase *string) *cobra.Command {
	offer := &cobra.Command{
		Use:   "offer",
		Short: "Handle distribution offers",
	}
	offer.AddCommand(&cobra.Command{
		Use:   "accept [project_id] [offer_id]",
		Short: "Accept a distribution offer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := activeGame()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).AcceptOffer(ctx, sess.GameID, args[0], args[1], uuid.NewString())
			if err != nil {
				return err
			}
			return renderResult(out)
		},
	})
	offer.AddCommand(&cobra.Command{
		Use:   "counter [project_id] [offer_id]",
		Short: "Counter an offer for better terms",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := activeGame()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).CounterOffer(ctx, sess.GameID, args[0], args[1], uuid.NewString())
			if err != nil {
				return err
			}
			return renderResult(out)
		},
	})
	return offer
}

func newMarketCmd(apiBase *string) *cobra.Command {
	market := &cobra.Command{
		Use:   "market",
		Short: "Browse and buy from the script market",
	}
	market.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List this week's pitches",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := activeGame()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).ScriptMarket(ctx, sess.GameID)
			if err != nil {
				return err
			}
			return renderMarket(out)
		},
	})
	market.AddCommand(&cobra.Command{
		Use:   "acquire [pitch_id]",
		Short: "Acquire a pitch and open a development project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := activeGame()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).AcquireScript(ctx, sess.GameID, args[0], uuid.NewString())
			if err != nil {
				return err
			}
			return renderResult(out)
		},
	})
	market.AddCommand(&cobra.Command{
		Use:   "pass [pitch_id]",
		Short: "Pass on a pitch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := activeGame()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).PassScript(ctx, sess.GameID, args[0], uuid.NewString())
			if err != nil {
				return err
			}
			return renderResult(out)
		},
	})
	return market
}

func newTalentCmd(apiBase *string) *cobra.Command {
	talent := &cobra.Command{
		Use:   "talent",
		Short: "Talent pool and negotiations",
	}
	talent.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the talent pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := activeGame()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).ListTalent(ctx, sess.GameID)
			if err != nil {
				return err
			}
			return renderTalent(out)
		},
	})
	talent.AddCommand(&cobra.Command{
		Use:   "negotiate [talent_id] [project_id]",
		Short: "Open a negotiation to attach talent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := activeGame()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).StartNegotiation(ctx, sess.GameID, args[0], args[1], uuid.NewString())
			if err != nil {
				return err
			}
			return renderResult(out)
		},
	})
	talent.AddCommand(&cobra.Command{
		Use:   "move [talent_id] [sweetenSalary|sweetenBackend|sweetenPerks|holdFirm]",
		Short: "Adjust the open negotiation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := activeGame()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).NegotiationMove(ctx, sess.GameID, args[0], args[1], uuid.NewString())
			if err != nil {
				return err
			}
			return renderResult(out)
		},
	})
	talent.AddCommand(&cobra.Command{
		Use:   "close [talent_id] [project_id]",
		Short: "Pay the closing fee and settle the deal now",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := activeGame()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).QuickClose(ctx, sess.GameID, args[0], args[1], uuid.NewString())
			if err != nil {
				return err
			}
			return renderResult(out)
		},
	})
	return talent
}

func newCrisesCmd(apiBase *string) *cobra.Command {
	crises := &cobra.Command{
		Use:   "crises",
		Short: "Review and resolve crises",
	}
	crises.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List pending crises",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := activeGame()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).ListCrises(ctx, sess.GameID)
			if err != nil {
				return err
			}
			return renderCrises(out)
		},
	})
	crises.AddCommand(&cobra.Command{
		Use:   "resolve [crisis_id] [option_id]",
		Short: "Resolve a crisis with one of its options",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := activeGame()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).ResolveCrisis(ctx, sess.GameID, args[0], args[1], uuid.NewString())
			if err != nil {
				return err
			}
			return renderResult(out)
		},
	})
	return crises
}

func newDecisionsCmd(apiBase *string) *cobra.Command {
	decisions := &cobra.Command{
		Use:   "decisions",
		Short: "Review and resolve queued decisions",
	}
	decisions.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the decision queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := activeGame()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).ListDecisions(ctx, sess.GameID)
			if err != nil {
				return err
			}
			return renderDecisions(out)
		},
	})
	decisions.AddCommand(&cobra.Command{
		Use:   "resolve [decision_id] [option_id]",
		Short: "Resolve a decision with one of its options",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := activeGame()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).ResolveDecision(ctx, sess.GameID, args[0], args[1], uuid.NewString())
			if err != nil {
				return err
			}
			return renderResult(out)
		},
	})
	return decisions
}

func newRivalsCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rivals",
		Short: "Show rival studios and their slates",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := activeGame()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).ListRivals(ctx, sess.GameID)
			if err != nil {
				return err
			}
			return renderRivals(out)
		},
	}
}

func newFranchiseCmd(apiBase *string) *cobra.Command {
	franchise := &cobra.Command{
		Use:     "franchise",
		Short:   "Franchise tracks",
		Aliases: []string{"franchises"},
	}
	franchise.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List franchise tracks",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := activeGame()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).ListFranchises(ctx, sess.GameID)
			if err != nil {
				return err
			}
			return renderFranchises(out)
		},
	})
	franchise.AddCommand(&cobra.Command{
		Use:   "launch [project_id]",
		Short: "Launch a franchise from a released hit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := activeGame()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).LaunchFranchise(ctx, sess.GameID, args[0], uuid.NewString())
			if err != nil {
				return err
			}
			return renderResult(out)
		},
	})
	franchise.AddCommand(&cobra.Command{
		Use:   "sequel [franchise_id] [title]",
		Short: "Greenlight the next entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := activeGame()
			if err != nil {
				return err
			}
			title := ""
			if len(args) > 1 {
				title = strings.Join(args[1:], " ")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).StartSequel(ctx, sess.GameID, args[0], title, uuid.NewString())
			if err != nil {
				return err
			}
			return renderResult(out)
		},
	})
	franchise.AddCommand(&cobra.Command{
		Use:   "strategy [franchise_id] [continuation|reboot|spinoff]",
		Short: "Set the franchise strategy",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := activeGame()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).SetFranchiseStrategy(ctx, sess.GameID, args[0], args[1], uuid.NewString())
			if err != nil {
				return err
			}
			return renderResult(out)
		},
	})
	return franchise
}
