package signal

import (
	"context"
	"fmt"

	"github.com/russofg/event-chaos-sub000/pkg/career"
	"github.com/russofg/event-chaos-sub000/pkg/session"

	"github.com/sirupsen/logrus"
)

// CareerLoader provides persisted careers for signal enrichment.
// This allows for easier testing and different storage implementations.
type CareerLoader interface {
	LoadCareer(ctx context.Context, playerID string) (career.Data, error)
}

// Processor converts session outcomes into domain signals with enriched context.
type Processor struct {
	careers        CareerLoader
	mapperRegistry *MapperRegistry
}

// NewProcessor creates a new signal processor. A nil loader leaves
// PlayerContext.Career unset.
func NewProcessor(careers CareerLoader) *Processor {
	return &Processor{
		careers:        careers,
		mapperRegistry: NewMapperRegistry(),
	}
}

// GetMapperRegistry returns the mapper registry for this processor.
// This allows registering custom signal mappers.
func (p *Processor) GetMapperRegistry() *MapperRegistry {
	return p.mapperRegistry
}

// ProcessOutcome converts a session outcome into a signal.
// Uses registered SignalMappers and falls back to OutcomeSignal for unmapped kinds.
// A nil signal with a nil error means the outcome was dropped by its mapper.
func (p *Processor) ProcessOutcome(ctx context.Context, o session.Outcome) (Signal, error) {
	if o.Kind == "" {
		return nil, fmt.Errorf("outcome kind is empty")
	}
	if o.PlayerID == "" {
		return nil, fmt.Errorf("player ID is empty in %s outcome", o.Kind)
	}

	playerCtx, err := p.loadPlayerContext(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("failed to load player context for player %s: %w", o.PlayerID, err)
	}

	if mapper := p.mapperRegistry.Get(o.Kind); mapper != nil {
		sig := mapper.MapToSignal(o, playerCtx)
		if sig == nil {
			logrus.Debugf("mapper for %s dropped outcome of session %s", o.Kind, o.SessionID)
			return nil, nil
		}
		logrus.Debugf("processed %s outcome for player %s into %s", o.Kind, o.PlayerID, sig.Type())
		return sig, nil
	}

	sig := NewOutcomeSignal(o, playerCtx)
	logrus.Debugf("processed %s outcome for player %s into OutcomeSignal", o.Kind, o.PlayerID)
	return sig, nil
}

// loadPlayerContext loads the player's career and wraps it with the outcome snapshot.
func (p *Processor) loadPlayerContext(ctx context.Context, o session.Outcome) (*PlayerContext, error) {
	playerContext := &PlayerContext{
		PlayerID:    o.PlayerID,
		SessionID:   o.SessionID,
		ScenarioID:  o.ScenarioID,
		Snapshot:    o.Snapshot,
		SessionInfo: make(map[string]interface{}),
	}

	if p.careers != nil {
		data, err := p.careers.LoadCareer(ctx, o.PlayerID)
		if err != nil {
			return nil, fmt.Errorf("failed to get career: %w", err)
		}
		playerContext.Career = &data
		playerContext.SessionInfo["career_points"] = data.CareerPoints
		playerContext.SessionInfo["completed_scenarios"] = len(data.CompletedScenarios)
	}

	if snap := o.Snapshot; snap != nil {
		playerContext.SessionInfo["difficulty"] = string(snap.Difficulty)
		playerContext.SessionInfo["mode"] = string(snap.Mode)
		playerContext.SessionInfo["phase"] = string(snap.Phase)
		playerContext.SessionInfo["boss_active"] = snap.Boss.Active
	}

	return playerContext, nil
}
