package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/russofg/event-chaos-sub000/pkg/career"
	"github.com/russofg/event-chaos-sub000/pkg/content"
	"github.com/russofg/event-chaos-sub000/pkg/game"
	"github.com/russofg/event-chaos-sub000/pkg/generator"
	"github.com/russofg/event-chaos-sub000/pkg/pipeline"
	"github.com/russofg/event-chaos-sub000/pkg/random"
	"github.com/russofg/event-chaos-sub000/pkg/service"
	"github.com/russofg/event-chaos-sub000/pkg/session"
)

// Independent streams derived from one seed.
const (
	autopilotSeedMask uint64 = 0x9e3779b97f4a7c15
	generatorSeedMask uint64 = 0xda942042e4dd58b5
)

type simulateOptions struct {
	scenario   string
	difficulty string
	mode       string
	crew       string
	player     string
	seed       uint64

	skill    float64
	reaction time.Duration
	step     time.Duration
	limit    time.Duration

	procedural     bool
	generatorDelay time.Duration

	contentPath  string
	sqlitePath   string
	pipelinePath string
	asJSON       bool
}

func newSimulateCmd() *cobra.Command {
	opts := simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play a scenario headless with the autopilot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.scenario, "scenario", "s", "tutorial", "scenario id")
	f.StringVarP(&opts.difficulty, "difficulty", "d", string(game.DifficultyNormal), "TUTORIAL, EASY, NORMAL or HARD")
	f.StringVarP(&opts.mode, "mode", "m", string(game.ModeNormal), "NORMAL, HARDCORE, ENDLESS or SPEEDRUN")
	f.StringVar(&opts.crew, "crew", string(game.CrewNone), "crew bonus")
	f.StringVar(&opts.player, "player", "local", "player id the career is stored under")
	f.Uint64Var(&opts.seed, "seed", 0, "random seed (0 picks one)")
	f.Float64Var(&opts.skill, "skill", 0.8, "autopilot chance of a correct answer")
	f.DurationVar(&opts.reaction, "reaction", 3*time.Second, "autopilot reaction delay")
	f.DurationVar(&opts.step, "step", session.DefaultTickInterval, "simulated tick length")
	f.DurationVar(&opts.limit, "max-duration", 0, "stop after this much simulated time")
	f.BoolVar(&opts.procedural, "procedural", true, "let the generator invent events")
	f.DurationVar(&opts.generatorDelay, "generator-delay", 1500*time.Millisecond, "simulated generator latency")
	f.StringVar(&opts.contentPath, "content", "", "content YAML (defaults to the embedded tables)")
	f.StringVar(&opts.sqlitePath, "sqlite", "", "persist the career in this SQLite file")
	f.StringVar(&opts.pipelinePath, "pipeline", "", "run outcomes through the rules in this pipeline YAML")
	f.BoolVar(&opts.asJSON, "json", false, "print the summary as JSON")

	return cmd
}

func runSimulate(cmd *cobra.Command, opts simulateOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	tables, err := content.LoadOrDefault(opts.contentPath)
	if err != nil {
		return err
	}

	store, err := openCareerStore(opts.sqlitePath, tables)
	if err != nil {
		return err
	}
	defer store.Close()

	data, err := store.LoadCareer(ctx, opts.player)
	if err != nil {
		return err
	}

	seed := opts.seed
	if seed == 0 {
		seed = random.NewSeed()
	}

	cfg := session.SimulationConfig{
		Session: session.Config{
			PlayerID:   opts.player,
			ScenarioID: opts.scenario,
			Difficulty: game.Difficulty(strings.ToUpper(opts.difficulty)),
			Mode:       game.GameMode(strings.ToUpper(opts.mode)),
			Crew:       game.CrewBonus(strings.ToUpper(opts.crew)),
			Career:     data,
			Tables:     tables,
			Source:     random.NewSeeded(seed),
		},
		Step:        opts.step,
		MaxDuration: opts.limit,
		Autopilot:   session.NewAutopilot(opts.skill, opts.reaction, random.NewSeeded(seed^autopilotSeedMask)),
	}
	if opts.procedural {
		cfg.Session.Generator = generator.NewSimulated(tables, opts.generatorDelay, random.NewSeeded(seed^generatorSeedMask))
	}

	var pm *pipeline.Manager
	if opts.pipelinePath != "" {
		pm, err = buildPipeline(opts.pipelinePath, store)
		if err != nil {
			return err
		}
		pm.Start(ctx)
		cfg.Sink = pm
	}

	summary, err := session.Simulate(ctx, cfg)
	if pm != nil {
		pm.Stop()
	}
	if err != nil {
		return err
	}

	if summary.Rewards != nil {
		scenario, _ := tables.Scenario(summary.ScenarioID)
		summary.Career, err = store.UpdateCareer(ctx, opts.player, func(d career.Data) (career.Data, error) {
			next, rewards := career.Complete(d, scenario, summary.Score, summary.Difficulty, summary.Mode)
			summary.Rewards = &rewards
			return next, nil
		})
		if err != nil {
			return fmt.Errorf("record career: %w", err)
		}
	} else if pm != nil {
		// Rules may have granted points or achievements on a loss.
		if summary.Career, err = store.LoadCareer(ctx, opts.player); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	renderSummary(out, summary)
	neutral.Fprintf(out, "seed %d\n", seed)
	if pm != nil {
		notices, err := store.ListNotices(ctx, opts.player, 5)
		if err != nil {
			return err
		}
		for _, n := range notices {
			fmt.Fprintf(out, "  [%s] %s: %s\n", n.Level, n.Title, n.Message)
		}
	}
	return nil
}

// openCareerStore opens the SQLite store at path, or a throwaway in-memory
// store when path is empty.
func openCareerStore(path string, tables *content.Tables) (service.Store, error) {
	if path == "" {
		return service.NewMemoryStore(), nil
	}
	return service.OpenSQLiteStore(path, career.KnownFrom(tables))
}
