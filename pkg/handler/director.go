package handler

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/russofg/event-chaos-sub000/pkg/career"
	"github.com/russofg/event-chaos-sub000/pkg/common"
	"github.com/russofg/event-chaos-sub000/pkg/content"
	"github.com/russofg/event-chaos-sub000/pkg/generator"
	"github.com/russofg/event-chaos-sub000/pkg/random"
	"github.com/russofg/event-chaos-sub000/pkg/service"
	"github.com/russofg/event-chaos-sub000/pkg/session"
)

// Director serves play sessions and careers.
type Director struct {
	sessions *session.Manager
	store    service.Store
	tables   *content.Tables

	// newGenerator builds the procedural generator of a session. Nil disables
	// procedural injection.
	newGenerator func(src random.Source) generator.Generator
}

// NewDirector creates the Director service.
func NewDirector(sessions *session.Manager, store service.Store, tables *content.Tables) *Director {
	return &Director{
		sessions: sessions,
		store:    store,
		tables:   tables,
	}
}

// WithGenerator enables procedural incidents built by fn.
func (d *Director) WithGenerator(fn func(src random.Source) generator.Generator) *Director {
	d.newGenerator = fn
	return d
}

// StartSession loads the player's career and starts a session on it.
func (d *Director) StartSession(ctx context.Context, req *StartSessionRequest) (*SnapshotResponse, error) {
	scope := common.StartScope(ctx, "Director.StartSession")
	defer scope.Finish()

	if req.PlayerID == "" {
		return nil, status.Error(codes.InvalidArgument, "playerId is required")
	}
	scope.Tag("playerId", req.PlayerID)
	scope.Tag("scenarioId", req.ScenarioID)

	data, err := d.store.LoadCareer(scope.Ctx, req.PlayerID)
	if err != nil {
		scope.TraceError(err)
		return nil, status.Errorf(codes.Unavailable, "failed to load career: %v", err)
	}

	seed := req.Seed
	if seed == 0 {
		seed = random.NewSeed()
	}
	src := random.NewSeeded(seed)

	cfg := session.Config{
		PlayerID:   req.PlayerID,
		ScenarioID: req.ScenarioID,
		Difficulty: req.Difficulty,
		Mode:       req.Mode,
		Crew:       req.Crew,
		Career:     data,
		Tables:     d.tables,
		Source:     src,
	}
	if d.newGenerator != nil {
		cfg.Generator = d.newGenerator(random.NewSeeded(seed ^ generatorSeedMask))
	}

	runner, err := d.sessions.Start(cfg)
	if err != nil {
		scope.TraceError(err)
		return nil, toStatus(err)
	}

	scope.Tag("sessionId", runner.ID())
	scope.Tag("seed", seed)
	scope.Log.Info("session started")

	return &SnapshotResponse{Snapshot: runner.Snapshot()}, nil
}

// generatorSeedMask decorrelates the generator stream from the session stream.
const generatorSeedMask = 0xda942042e4dd58b5

// StopSession ends a session early. A stopped session pays no rewards.
func (d *Director) StopSession(ctx context.Context, req *SessionRequest) (*SnapshotResponse, error) {
	scope := common.StartScope(ctx, "Director.StopSession")
	defer scope.Finish()
	scope.Tag("sessionId", req.SessionID)

	runner, err := d.sessions.Get(req.SessionID)
	if err != nil {
		return nil, toStatus(err)
	}
	if err := d.sessions.Stop(req.SessionID); err != nil {
		return nil, toStatus(err)
	}

	scope.Log.Info("session stopped by request")
	return &SnapshotResponse{Snapshot: runner.Snapshot()}, nil
}

// MoveFader sets a system fader.
func (d *Director) MoveFader(ctx context.Context, req *MoveFaderRequest) (*SnapshotResponse, error) {
	runner, err := d.sessions.Get(req.SessionID)
	if err != nil {
		return nil, toStatus(err)
	}
	if err := runner.MoveFader(ctx, req.System, req.Value); err != nil {
		return nil, toStatus(err)
	}
	return &SnapshotResponse{Snapshot: runner.Snapshot()}, nil
}

// ResolveEvent applies the chosen option to an active incident.
func (d *Director) ResolveEvent(ctx context.Context, req *ResolveEventRequest) (*ResolveEventResponse, error) {
	scope := common.StartScope(ctx, "Director.ResolveEvent")
	defer scope.Finish()
	scope.Tag("sessionId", req.SessionID)
	scope.Tag("eventId", req.EventID)

	runner, err := d.sessions.Get(req.SessionID)
	if err != nil {
		return nil, toStatus(err)
	}
	report, err := runner.ResolveEvent(scope.Ctx, req.EventID, req.OptionID, req.Minigame)
	if err != nil {
		scope.TraceError(err)
		return nil, toStatus(err)
	}

	scope.Tag("success", report.Success)
	scope.Log.Debugf("resolved with option %s", req.OptionID)
	return &ResolveEventResponse{Report: report, Snapshot: runner.Snapshot()}, nil
}

// GetSnapshot returns the state of a running session.
func (d *Director) GetSnapshot(ctx context.Context, req *SessionRequest) (*SnapshotResponse, error) {
	runner, err := d.sessions.Get(req.SessionID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &SnapshotResponse{Snapshot: runner.Snapshot()}, nil
}

// GetCareer returns the persisted career of a player.
func (d *Director) GetCareer(ctx context.Context, req *PlayerRequest) (*CareerResponse, error) {
	if req.PlayerID == "" {
		return nil, status.Error(codes.InvalidArgument, "playerId is required")
	}
	data, err := d.store.LoadCareer(ctx, req.PlayerID)
	if err != nil {
		return nil, status.Errorf(codes.Unavailable, "failed to load career: %v", err)
	}
	return &CareerResponse{Career: data}, nil
}

// PurchaseUpgrade spends career points on a catalog upgrade.
func (d *Director) PurchaseUpgrade(ctx context.Context, req *PurchaseUpgradeRequest) (*CareerResponse, error) {
	scope := common.StartScope(ctx, "Director.PurchaseUpgrade")
	defer scope.Finish()

	if req.PlayerID == "" || req.UpgradeID == "" {
		return nil, status.Error(codes.InvalidArgument, "playerId and upgradeId are required")
	}

	scope.Tag("playerId", req.PlayerID)
	scope.Tag("upgradeId", req.UpgradeID)

	catalog := d.tables.Catalog()
	data, err := d.store.UpdateCareer(scope.Ctx, req.PlayerID, func(c career.Data) (career.Data, error) {
		return career.PurchaseUpgrade(c, req.UpgradeID, catalog)
	})
	if err != nil {
		scope.TraceError(err)
		return nil, toStatus(err)
	}

	scope.Log.Info("upgrade purchased")
	return &CareerResponse{Career: data}, nil
}

// ListNotices returns the latest notices posted to a player.
func (d *Director) ListNotices(ctx context.Context, req *ListNoticesRequest) (*ListNoticesResponse, error) {
	if req.PlayerID == "" {
		return nil, status.Error(codes.InvalidArgument, "playerId is required")
	}
	notices, err := d.store.ListNotices(ctx, req.PlayerID, req.Limit)
	if err != nil {
		return nil, status.Errorf(codes.Unavailable, "failed to list notices: %v", err)
	}
	if notices == nil {
		notices = []service.Notice{}
	}
	return &ListNoticesResponse{Notices: notices}, nil
}

// GetLeaderboard returns the best scores of a scenario.
func (d *Director) GetLeaderboard(ctx context.Context, req *GetLeaderboardRequest) (*GetLeaderboardResponse, error) {
	if _, ok := d.tables.Scenario(req.ScenarioID); !ok {
		return nil, status.Errorf(codes.NotFound, "unknown scenario %q", req.ScenarioID)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}
	limit = min(limit, MaxLeaderboardSize)

	entries, err := d.store.TopScores(ctx, req.ScenarioID, limit)
	if err != nil {
		return nil, status.Errorf(codes.Unavailable, "failed to load leaderboard: %v", err)
	}
	return &GetLeaderboardResponse{Entries: entries}, nil
}

// toStatus maps domain errors to gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrEventNotFound),
		errors.Is(err, session.ErrOptionNotFound),
		errors.Is(err, career.ErrUnknownUpgrade):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, session.ErrSessionEnded),
		errors.Is(err, career.ErrInsufficientPoints):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, career.ErrAlreadyUnlocked):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, session.ErrTooManySessions):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, session.ErrInvalidConfig),
		errors.Is(err, session.ErrUnknownSystem):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, fmt.Sprintf("internal error: %v", err))
}
