package session

import (
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/career"
	"github.com/russofg/event-chaos-sub000/pkg/common"
	"github.com/russofg/event-chaos-sub000/pkg/director"
	"github.com/russofg/event-chaos-sub000/pkg/economy"
	"github.com/russofg/event-chaos-sub000/pkg/flow"
	"github.com/russofg/event-chaos-sub000/pkg/game"
	"github.com/russofg/event-chaos-sub000/pkg/generator"
	"github.com/russofg/event-chaos-sub000/pkg/incident"
	"github.com/russofg/event-chaos-sub000/pkg/mission"
	"github.com/russofg/event-chaos-sub000/pkg/narrative"
)

// Step advances the session by dt, ending at now. It does nothing once the
// session has an outcome.
func (s *Session) Step(now time.Time, dt time.Duration) {
	if s.Ended() || dt <= 0 {
		return
	}
	s.Now = now
	s.Elapsed += dt
	secs := dt.Seconds()

	if s.Mode != game.ModeEndless {
		s.Stats.TimeRemaining = max(s.Stats.TimeRemaining-dt, 0)
	}

	s.refreshDirector(true)
	s.stepSystems(secs)
	s.stepAutoHeal(dt)
	s.stepPassive(secs)
	s.stepIncidents()
	s.stepSpawn()
	s.stepProcedural()
	s.stepMission(dt)
	s.Combo = s.Combo.Expire(now)
	s.stepNarrative()
	s.stepGuards()

	if !s.Ended() && now.Sub(s.lastTickSignal) >= TickSignalInterval {
		s.lastTickSignal = now
		snap := s.Snapshot()
		s.emit(Outcome{Kind: KindTick, Snapshot: &snap})
	}
}

// refreshDirector recomputes phase and every profile. adapt moves the
// smoothed bias towards the current target.
func (s *Session) refreshDirector(adapt bool) {
	total := s.Scenario.Duration
	active := len(s.Active)

	s.Phase = director.MatchPhase(s.Mode, s.Stats.TimeRemaining, total, s.Stats.Stress)
	s.Fatigue = director.SessionFatigue(s.Mode, s.Stats.TimeRemaining, total, s.Telemetry, s.Stats, active)
	s.Boss = director.BossMomentFor(s.Scenario.ID, s.Phase, s.Fatigue.ProgressRatio)

	econ := economy.PhaseProfile(s.Difficulty, s.Mode, s.Phase, s.Stats.Stress, s.Fatigue.FatigueLevel)
	procedural := director.Procedural(s.Difficulty, s.Mode, s.Fatigue, active)

	if s.Difficulty == game.DifficultyTutorial {
		s.Profile = director.TutorialProfile
		s.Economy = econ
		s.Procedural = procedural
		return
	}

	if adapt {
		target := director.SessionDifficultyTarget(s.Difficulty, s.Telemetry, s.Stats, active, s.initialBudget)
		s.Bias = director.SmoothBias(s.Bias, target)
	}
	base := director.PhaseProfile(s.Difficulty, s.Mode, s.Phase, s.Stats.Stress)
	composed := director.ComposeProfile(base, director.AdaptiveAdjustments(s.Bias))

	s.Profile = director.ApplyBossToProfile(composed, s.Boss)
	s.Economy = economy.ApplyBoss(econ, s.Boss)
	s.Procedural = director.ApplyBossToProcedural(procedural, s.Boss)
}

func (s *Session) stepSystems(secs float64) {
	if !s.Now.Before(s.nextDriftRoll) {
		for _, id := range game.AllSystems {
			sys := s.Systems[id]
			s.driftVelocity[id] = (2*s.src.Float64() - 1) * sys.DriftSpeed * s.driftMultiplier
		}
		s.nextDriftRoll = s.Now.Add(driftRollInterval)
	}

	for _, id := range game.AllSystems {
		sys := s.Systems[id]
		sys.FaderValue = common.Clamp(sys.FaderValue+s.driftVelocity[id]*secs, 0, 100)

		var distance float64
		switch {
		case sys.FaderValue < SafeZoneMin:
			distance = SafeZoneMin - sys.FaderValue
		case sys.FaderValue > SafeZoneMax:
			distance = sys.FaderValue - SafeZoneMax
		}
		if distance > 0 {
			sys.Health -= 2.5 * (1 + distance/25) * secs
		} else {
			sys.Health += 0.4 * secs
		}
		sys.Health = common.Clamp(sys.Health, 0, 100)
		sys.Status = game.StatusForHealth(sys.Health)
		s.Systems[id] = sys
	}
}

func (s *Session) stepAutoHeal(dt time.Duration) {
	if !s.autoHeal.Enabled() {
		return
	}
	s.healAccum += dt
	for s.healAccum >= s.autoHeal.Interval {
		s.healAccum -= s.autoHeal.Interval
		for _, id := range game.AllSystems {
			s.adjustHealth(id, s.autoHeal.Amount)
		}
	}
}

func (s *Session) adjustHealth(id game.SystemType, amount float64) {
	sys, ok := s.Systems[id]
	if !ok {
		return
	}
	sys.Health = common.Clamp(sys.Health+amount, 0, 100)
	sys.Status = game.StatusForHealth(sys.Health)
	s.Systems[id] = sys
}

func (s *Session) stepPassive(secs float64) {
	delta := game.StatDelta{
		Stress: incident.ActiveEventStress(s.Active, s.Permanent) * s.stressMultiplier * secs,
	}

	var critical, warning bool
	for _, sys := range s.Systems {
		switch sys.Status {
		case game.StatusCritical:
			critical = true
		case game.StatusWarning:
			warning = true
		}
	}

	if critical {
		delta.PublicInterest -= 0.35 * secs
		delta.ClientSatisfaction -= 0.25 * secs
		delta.Stress += 0.3 * s.stressMultiplier * secs
	}
	if warning {
		delta.PublicInterest -= 0.1 * secs
	}
	if len(s.Active) == 0 && !critical && !warning {
		delta.Stress -= 0.25 * secs
	}
	s.Stats = s.Stats.Apply(delta)
}

func (s *Session) stepIncidents() {
	s.cooldowns = s.cooldowns.Prune(s.Now)

	load := len(s.Active)
	remaining, expired := incident.SplitExpired(s.Active, s.Now)
	if len(expired) > 0 {
		penalty := incident.ExpiryPenalty(expired, load, s.Stats.Stress, s.Economy, s.Now)
		s.Active = remaining
		s.Stats = s.Stats.Apply(penalty.Delta)
		for id, hit := range penalty.HealthHits {
			s.adjustHealth(id, -hit)
		}
		s.cooldowns = s.cooldowns.Merge(penalty.Cooldowns)
		s.Telemetry = s.Telemetry.RecordExpired(len(expired))
		for range expired {
			s.Streak = s.Streak.RecordEvent(false)
		}
		s.Combo = s.Combo.Break()

		amount := penalty.BudgetPenalty
		for i := range expired {
			ev := expired[i]
			s.emit(Outcome{Kind: KindEventExpired, Event: &ev, Amount: amount})
			amount = 0
		}
	}

	escalated := incident.Escalate(s.Active, s.Now, s.tables)
	s.Active = escalated.Active
	for i := range escalated.Spawned {
		ev := escalated.Spawned[i]
		s.emit(Outcome{Kind: KindEventEscalated, Event: &ev})
	}

	sources := make([]game.GameEvent, 0, len(escalated.Spawned)+len(expired))
	sources = append(sources, escalated.Spawned...)
	sources = append(sources, expired...)
	s.stepCascade(sources)
}

func (s *Session) stepCascade(sources []game.GameEvent) {
	if len(sources) == 0 {
		return
	}
	bonus := 0
	if s.Boss.Active {
		bonus = 1
	}

	cascade, ok := incident.PickCascade(incident.CascadeInput{
		Now:             s.Now,
		Sources:         sources,
		Active:          s.Active,
		Cooldowns:       s.cooldowns,
		CooldownUntil:   s.cascadeUntil,
		Cap:             s.cap(),
		Chance:          s.Profile.CascadeChance,
		CascadeCooldown: s.Profile.CascadeCooldown,
		SeverityBonus:   bonus,
		Permanent:       s.Permanent,
		Tables:          s.tables,
	}, s.src)
	if !ok {
		return
	}

	s.cascadeUntil = cascade.CooldownUntil
	for i := range s.Active {
		if s.Active[i].ID == cascade.SourceID {
			s.Active[i] = incident.LinkRelated(s.Active[i], cascade.Event.ID)
		}
	}
	s.Active = append(s.Active, cascade.Event)

	ev := cascade.Event
	s.emit(Outcome{Kind: KindEventCascaded, Event: &ev})
}

func (s *Session) stepSpawn() {
	if s.Now.Before(s.nextSpawnAt) {
		return
	}

	if len(s.Active) < s.cap() {
		ev := incident.GenerateStatic(incident.SpawnInput{
			Now:           s.Now,
			ScenarioID:    s.Scenario.ID,
			Difficulty:    s.Difficulty,
			Mode:          s.Mode,
			Stress:        s.Stats.Stress,
			Active:        s.Active,
			Cooldowns:     s.cooldowns,
			SeverityDelta: s.Profile.SeverityDelta,
			Permanent:     s.Permanent,
			Tables:        s.tables,
		}, s.src)
		if ev != nil {
			s.Active = append(s.Active, *ev)
			s.emit(Outcome{Kind: KindEventSpawned, Event: ev})
		}
	}

	delay := incident.StaticSpawnDelay(s.Difficulty, s.Mode, s.Stats.Stress, len(s.Active), s.src.Float64())
	delay = max(scaleDuration(delay, s.Profile.SpawnDelayMultiplier), incident.MinSpawnDelay)
	s.nextSpawnAt = s.Now.Add(delay)
}

func (s *Session) stepProcedural() {
	if s.dispatcher == nil {
		return
	}

	if ev := s.dispatcher.Drain(s.Active, s.Now); ev != nil {
		if len(s.Active) < s.cap() && !s.cooldowns.Active(ev.DefinitionID, s.Now) {
			s.Active = append(s.Active, *ev)
			s.emit(Outcome{Kind: KindEventSpawned, Event: ev})
		}
	}

	if s.Now.Before(s.nextProcedural) || s.dispatcher.Generating() {
		return
	}
	if s.injectedActive() >= s.Procedural.MaxInjected || len(s.Active) >= s.cap() {
		s.nextProcedural = s.Now.Add(s.Procedural.IdleRetry)
		return
	}

	if s.src.Float64() < s.Procedural.Chance {
		started := s.dispatcher.TryStart(s.ctx, generator.Request{
			Now:        s.Now,
			ScenarioID: s.Scenario.ID,
			Difficulty: s.Difficulty,
			Mode:       s.Mode,
			Stress:     s.Stats.Stress,
			Active:     append([]game.GameEvent(nil), s.Active...),
			Cooldowns:  s.cooldowns.Merge(nil),
			Procedural: s.Procedural,
			Permanent:  s.Permanent,
		}, s.Procedural.Cooldown)
		if started {
			s.nextProcedural = s.Now.Add(s.Procedural.Cooldown)
			return
		}
	}
	s.nextProcedural = s.Now.Add(s.Procedural.IdleRetry)
}

func (s *Session) injectedActive() int {
	n := 0
	for _, ev := range s.Active {
		if ev.Generated {
			n++
		}
	}
	return n
}

func (s *Session) stepMission(dt time.Duration) {
	if s.Mission == nil {
		if !s.Now.Before(s.nextMissionAt) {
			s.startMission()
		}
		return
	}

	m := mission.Advance(*s.Mission, s.Systems, dt)
	s.Mission = &m

	switch {
	case m.IsCompleted:
		pacing := economy.MissionRewardPacingMultiplier(s.Economy, s.Streak, s.Stats, s.initialBudget)
		reward := common.Round(m.RewardCash * pacing * orOne(s.Permanent.Reward))
		s.Stats = s.Stats.Apply(game.StatDelta{
			Budget:             float64(reward),
			ClientSatisfaction: 6,
			PublicInterest:     4,
		})
		s.Streak = s.Streak.RecordMission(true)
		snap := s.Snapshot()
		s.emit(Outcome{Kind: KindMissionCompleted, MissionID: m.ID, Amount: reward, Snapshot: &snap})
		s.endMission()

	case mission.TimedOut(m, s.Now):
		penalty := economy.MissionTimeoutBudgetPenalty(m.RewardCash, s.Economy, s.Streak, s.Stats)
		s.Stats = s.Stats.Apply(game.StatDelta{
			Budget:             -float64(penalty),
			ClientSatisfaction: -6,
		})
		s.Streak = s.Streak.RecordMission(false)
		snap := s.Snapshot()
		s.emit(Outcome{Kind: KindMissionTimeout, MissionID: m.ID, Amount: penalty, Snapshot: &snap})
		s.endMission()
	}
}

func (s *Session) endMission() {
	s.Mission = nil
	s.nextMissionAt = s.Now.Add(scaleDuration(MissionRespawnDelay, s.Profile.MissionRespawnMultiplier))
}

func (s *Session) startMission() {
	if len(s.missionQueue) == 0 {
		s.nextMissionAt = s.Now.Add(MissionRespawnDelay)
		return
	}
	if s.missionCursor >= len(s.missionQueue) {
		s.missionQueue = s.shuffledMissions()
		s.missionCursor = 0
	}

	pick, ok := mission.PickAdaptive(s.missionQueue, s.missionCursor, s.tables.Mission, s.Systems, mission.Context{
		ScenarioID:    s.Scenario.ID,
		Difficulty:    s.Difficulty,
		Mode:          s.Mode,
		Phase:         s.Phase,
		Stress:        s.Stats.Stress,
		Budget:        s.Stats.Budget,
		InitialBudget: s.initialBudget,
		ActiveEvents:  len(s.Active),
	}, mission.DefaultLookahead, s.src.Float64())
	if !ok {
		s.missionCursor = min(s.missionCursor+mission.DefaultLookahead, len(s.missionQueue))
		s.nextMissionAt = s.Now.Add(MissionRespawnDelay)
		return
	}

	s.missionQueue = mission.SwapToCursor(s.missionQueue, s.missionCursor, pick.Index)
	s.missionCursor++

	def, _ := s.tables.Mission(pick.MissionID)
	m := mission.Activate(def, s.Now, s.Permanent)
	s.Mission = &m
	s.emit(Outcome{Kind: KindMissionStarted, MissionID: def.ID})
}

func (s *Session) stepNarrative() {
	beat, next := narrative.PickNext(s.tables.Narrative, s.Narrative, narrative.Conditions{
		ScenarioID: s.Scenario.ID,
		Progress:   s.Fatigue.ProgressRatio,
		Stress:     s.Stats.Stress,
		Now:        s.Now,
	})
	s.Narrative = next
	if beat != nil {
		s.emit(Outcome{Kind: KindNarrativeBeat, Beat: beat})
	}
}

func (s *Session) stepGuards() {
	s.Stats = flow.ApplyTutorialSafetyNet(s.Scenario, s.Stats.Clamped())

	if flow.ShouldTriggerImmediateGameOver(s.Mode, s.Scenario, s.Stats, s.Systems) {
		s.finish(game.OutcomeGameOver)
		return
	}
	if result := flow.TimerEndOutcome(s.Mode, s.Stats.TimeRemaining, s.Stats, s.Scenario.WinConditionsOrDefault()); result != game.OutcomeNone {
		s.finish(result)
	}
}

func (s *Session) finish(result game.Outcome) {
	s.Outcome = result
	s.Score = flow.ScenarioScore(s.Stats, s.Difficulty, s.Mode)
	if result == game.OutcomeVictory {
		var rewards flow.Rewards
		s.Career, rewards = career.Complete(s.Career, s.Scenario, s.Score, s.Difficulty, s.Mode)
		s.Rewards = &rewards
	}

	snap := s.Snapshot()
	s.emit(Outcome{
		Kind:     KindSessionEnded,
		Result:   result,
		Score:    s.Score,
		Rewards:  s.Rewards,
		Snapshot: &snap,
	})
}

func scaleDuration(d time.Duration, f float64) time.Duration {
	return time.Duration(float64(d) * f)
}

func orOne(v float64) float64 {
	if v <= 0 || !common.Finite(v) {
		return 1
	}
	return v
}
