// Package session owns the mutable state of one play session and advances it
// tick by tick with the pure director, economy and incident functions.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/russofg/event-chaos-sub000/pkg/career"
	"github.com/russofg/event-chaos-sub000/pkg/content"
	"github.com/russofg/event-chaos-sub000/pkg/director"
	"github.com/russofg/event-chaos-sub000/pkg/economy"
	"github.com/russofg/event-chaos-sub000/pkg/flow"
	"github.com/russofg/event-chaos-sub000/pkg/game"
	"github.com/russofg/event-chaos-sub000/pkg/generator"
	"github.com/russofg/event-chaos-sub000/pkg/incident"
	"github.com/russofg/event-chaos-sub000/pkg/mission"
	"github.com/russofg/event-chaos-sub000/pkg/modifier"
	"github.com/russofg/event-chaos-sub000/pkg/narrative"
	"github.com/russofg/event-chaos-sub000/pkg/random"
)

const (
	// SafeZoneMin and SafeZoneMax bound the fader band that keeps a system healthy.
	SafeZoneMin = 40.0
	SafeZoneMax = 60.0

	// FirstMissionDelay is the wait before the first client request.
	FirstMissionDelay = 6 * time.Second
	// MissionRespawnDelay is the base wait between client requests.
	MissionRespawnDelay = 8 * time.Second
	// FirstSpawnDelay is the grace period before the first incident.
	FirstSpawnDelay = 5 * time.Second
	// TickSignalInterval is how often a tick outcome is published.
	TickSignalInterval = time.Second

	driftRollInterval = 4 * time.Second
)

var defaultDriftSpeed = map[game.SystemType]float64{
	game.SystemSound:  2.0,
	game.SystemLights: 1.5,
	game.SystemVideo:  1.8,
	game.SystemStage:  1.2,
}

// Config describes a session to start.
type Config struct {
	ID         string
	PlayerID   string
	ScenarioID string
	Difficulty game.Difficulty
	Mode       game.GameMode
	Crew       game.CrewBonus
	Career     career.Data
	Tables     *content.Tables
	Source     random.Source
	Generator  generator.Generator
	// InlineGenerator runs generations synchronously for manual-clock runs.
	InlineGenerator bool
	Start           time.Time
}

// Session is the single owner of a play session's mutable state. It is not
// safe for concurrent use; Runner serialises access.
type Session struct {
	ID         string
	PlayerID   string
	Scenario   game.Scenario
	Difficulty game.Difficulty
	Mode       game.GameMode
	Crew       game.CrewBonus
	Career     career.Data
	Permanent  modifier.Permanent

	Stats     game.GameStats
	Systems   game.Systems
	Active    []game.GameEvent
	Mission   *game.ActiveMission
	Telemetry game.SessionDirectorTelemetry
	Streak    economy.StreakState
	Combo     economy.ComboState
	Bias      float64
	Narrative narrative.State

	Phase      game.Phase
	Profile    director.Profile
	Economy    economy.Profile
	Procedural director.ProceduralProfile
	Boss       director.BossMoment
	Fatigue    director.FatigueMetrics

	Outcome game.Outcome
	Score   int
	Rewards *flow.Rewards

	StartedAt time.Time
	Now       time.Time
	Elapsed   time.Duration

	missionQueue     []string
	missionCursor    int
	nextMissionAt    time.Time
	cooldowns        incident.Cooldowns
	cascadeUntil     time.Time
	nextSpawnAt      time.Time
	nextProcedural   time.Time
	nextDriftRoll    time.Time
	driftVelocity    map[game.SystemType]float64
	healAccum        time.Duration
	lastTickSignal   time.Time
	initialBudget    float64
	autoHeal         modifier.AutoHeal
	driftMultiplier  float64
	stressMultiplier float64

	ctx        context.Context
	tables     *content.Tables
	src        random.Source
	dispatcher *generator.Dispatcher
	pending    []Outcome
}

// New builds a session at cfg.Start.
func New(cfg Config) (*Session, error) {
	if cfg.Tables == nil {
		return nil, fmt.Errorf("%w: content tables are required", ErrInvalidConfig)
	}
	scenario, ok := cfg.Tables.Scenario(cfg.ScenarioID)
	if !ok {
		return nil, fmt.Errorf("%w: unknown scenario %q", ErrInvalidConfig, cfg.ScenarioID)
	}

	difficulty := cfg.Difficulty
	if scenario.Tutorial {
		difficulty = game.DifficultyTutorial
	}
	if !difficulty.Valid() {
		return nil, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidConfig, cfg.Difficulty)
	}
	mode := cfg.Mode
	if mode == "" {
		mode = game.ModeNormal
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, cfg.Mode)
	}
	crew := cfg.Crew
	if crew == "" {
		crew = game.CrewNone
	}

	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}
	src := cfg.Source
	if src == nil {
		src = random.NewSeeded(uint64(time.Now().UnixNano()))
	}
	start := cfg.Start
	if start.IsZero() {
		start = time.Now()
	}
	careerData := career.Normalize(cfg.Career, career.KnownFrom(cfg.Tables))

	s := &Session{
		ID:         id,
		PlayerID:   cfg.PlayerID,
		Scenario:   scenario,
		Difficulty: difficulty,
		Mode:       mode,
		Crew:       crew,
		Career:     careerData,
		Permanent:  careerData.Permanent(cfg.Tables.Catalog()),
		Stats: game.GameStats{
			PublicInterest:     55,
			ClientSatisfaction: 55,
			Stress:             10,
			Budget:             scenario.InitialBudget + modifier.InitialBudgetBonus(crew),
			TimeRemaining:      scenario.Duration,
		},
		Systems:   game.Systems{},
		Narrative: narrative.NewState(),
		StartedAt: start,
		Now:       start,

		missionQueue:     nil,
		nextMissionAt:    start.Add(FirstMissionDelay),
		cooldowns:        incident.Cooldowns{},
		nextSpawnAt:      start.Add(FirstSpawnDelay),
		nextDriftRoll:    start,
		driftVelocity:    map[game.SystemType]float64{},
		lastTickSignal:   start,
		autoHeal:         modifier.AutoHealFor(crew),
		driftMultiplier:  modifier.DriftMultiplier(crew),
		stressMultiplier: modifier.StressMultiplier(crew),

		ctx:    context.Background(),
		tables: cfg.Tables,
		src:    src,
	}

	for _, sys := range game.AllSystems {
		s.Systems[sys] = game.SystemState{
			ID:         sys,
			Health:     100,
			Status:     game.StatusOK,
			FaderValue: 50,
			DriftSpeed: defaultDriftSpeed[sys],
		}
	}

	s.missionQueue = s.shuffledMissions()
	if cfg.Generator != nil {
		s.dispatcher = generator.NewDispatcher(cfg.Generator, cfg.InlineGenerator)
		s.nextProcedural = start.Add(FirstSpawnDelay)
	}

	s.initialBudget = s.Stats.Budget
	s.refreshDirector(false)
	return s, nil
}

// Bind sets the context generations run under.
func (s *Session) Bind(ctx context.Context) {
	s.ctx = ctx
}

// Ended reports whether the session has an outcome.
func (s *Session) Ended() bool {
	return s.Outcome != game.OutcomeNone
}

// Tables returns the content the session plays.
func (s *Session) Tables() *content.Tables {
	return s.tables
}

// Drain returns and clears the outcomes produced since the last call.
func (s *Session) Drain() []Outcome {
	out := s.pending
	s.pending = nil
	return out
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		SessionID:  s.ID,
		PlayerID:   s.PlayerID,
		ScenarioID: s.Scenario.ID,
		Difficulty: s.Difficulty,
		Mode:       s.Mode,
		Crew:       s.Crew,
		Phase:      s.Phase,
		Stats:      s.Stats,
		Systems:    s.Systems.Clone(),
		Active:     append([]game.GameEvent(nil), s.Active...),
		Telemetry:  s.Telemetry,
		Streak:     s.Streak,
		Combo:      s.Combo,
		Bias:       s.Bias,
		Profile:    s.Profile,
		Boss:       s.Boss,
		Outcome:    s.Outcome,
		Score:      s.Score,
		Elapsed:    s.Elapsed,
		Now:        s.Now,
	}
	snap.Telemetry.RecentOutcomes = append([]bool(nil), s.Telemetry.RecentOutcomes...)
	if s.Mission != nil {
		m := *s.Mission
		snap.Mission = &m
	}
	return snap
}

func (s *Session) emit(o Outcome) {
	o.At = s.Now
	o.SessionID = s.ID
	o.PlayerID = s.PlayerID
	o.ScenarioID = s.Scenario.ID
	s.pending = append(s.pending, o)
}

func (s *Session) shuffledMissions() []string {
	return mission.Shuffle(s.tables.MissionIDs(), s.src)
}

func (s *Session) cap() int {
	limit := incident.ConcurrencyCap(s.Difficulty, s.Mode, s.Stats.Stress)
	return incident.ApplyDirectorConcurrency(limit, s.Profile.ConcurrencyDelta)
}
