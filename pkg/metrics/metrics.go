// Package metrics exposes Prometheus collectors fed by session outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/russofg/event-chaos-sub000/pkg/session"
)

const namespace = "event_chaos"

// Collector counts session outcomes. It implements session.Sink and never
// blocks.
type Collector struct {
	SessionsStarted prometheus.Counter
	SessionsActive  prometheus.Gauge
	SessionsEnded   *prometheus.CounterVec
	Scores          *prometheus.HistogramVec
	Incidents       *prometheus.CounterVec
	Resolutions     *prometheus.CounterVec
	Missions        *prometheus.CounterVec
	NarrativeBeats  prometheus.Counter
	BudgetFlow      *prometheus.CounterVec
	RuleTriggers    *prometheus.CounterVec
	ActionResults   *prometheus.CounterVec
}

// New creates the collectors without registering them.
func New() *Collector {
	return &Collector{
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Total number of sessions started",
		}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of sessions currently running",
		}),
		SessionsEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_ended_total",
			Help:      "Total number of sessions that reached an outcome",
		}, []string{"scenario", "result"}),
		Scores: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_score",
			Help:      "Final scenario scores",
			Buckets:   prometheus.LinearBuckets(0, 250, 10),
		}, []string{"scenario"}),
		Incidents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "incidents_total",
			Help:      "Incidents by lifecycle stage and system",
		}, []string{"kind", "system"}),
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Player resolutions by system and success",
		}, []string{"system", "success"}),
		Missions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "missions_total",
			Help:      "Missions by lifecycle stage",
		}, []string{"kind"}),
		NarrativeBeats: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "narrative_beats_total",
			Help:      "Narrative beats fired",
		}),
		BudgetFlow: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "budget_flow_total",
			Help:      "Absolute budget moved by resolutions, missions and expiries",
		}, []string{"direction"}),
		RuleTriggers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_triggers_total",
			Help:      "Director rules triggered",
		}, []string{"rule"}),
		ActionResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "action_results_total",
			Help:      "Director actions executed by result",
		}, []string{"action", "result"}),
	}
}

// Register adds every collector to reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, col := range []prometheus.Collector{
		c.SessionsStarted,
		c.SessionsActive,
		c.SessionsEnded,
		c.Scores,
		c.Incidents,
		c.Resolutions,
		c.Missions,
		c.NarrativeBeats,
		c.BudgetFlow,
		c.RuleTriggers,
		c.ActionResults,
	} {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}

// SessionStarted records a new running session.
func (c *Collector) SessionStarted() {
	c.SessionsStarted.Inc()
	c.SessionsActive.Inc()
}

// SessionStopped records a session leaving the manager.
func (c *Collector) SessionStopped() {
	c.SessionsActive.Dec()
}

// Publish implements session.Sink.
func (c *Collector) Publish(o session.Outcome) {
	switch o.Kind {
	case session.KindEventSpawned, session.KindEventEscalated, session.KindEventCascaded:
		if o.Event != nil {
			c.Incidents.WithLabelValues(string(o.Kind), string(o.Event.SystemID)).Inc()
		}

	case session.KindEventExpired:
		if o.Event != nil {
			c.Incidents.WithLabelValues(string(o.Kind), string(o.Event.SystemID)).Inc()
		}
		c.flow(-o.Amount)

	case session.KindEventResolved, session.KindEventFailed:
		if o.Report != nil {
			success := "false"
			if o.Report.Success {
				success = "true"
			}
			c.Resolutions.WithLabelValues(string(o.Report.SystemID), success).Inc()
		}
		c.flow(o.Amount)

	case session.KindMissionStarted:
		c.Missions.WithLabelValues(string(o.Kind)).Inc()

	case session.KindMissionCompleted:
		c.Missions.WithLabelValues(string(o.Kind)).Inc()
		c.flow(o.Amount)

	case session.KindMissionTimeout:
		c.Missions.WithLabelValues(string(o.Kind)).Inc()
		c.flow(-o.Amount)

	case session.KindNarrativeBeat:
		c.NarrativeBeats.Inc()

	case session.KindSessionEnded:
		c.SessionsEnded.WithLabelValues(o.ScenarioID, string(o.Result)).Inc()
		c.Scores.WithLabelValues(o.ScenarioID).Observe(float64(o.Score))
	}
}

func (c *Collector) flow(amount int) {
	switch {
	case amount > 0:
		c.BudgetFlow.WithLabelValues("in").Add(float64(amount))
	case amount < 0:
		c.BudgetFlow.WithLabelValues("out").Add(float64(-amount))
	}
}

// ObserveTrigger implements pipeline.Observer.
func (c *Collector) ObserveTrigger(ruleID string) {
	c.RuleTriggers.WithLabelValues(ruleID).Inc()
}

// ObserveAction implements pipeline.Observer.
func (c *Collector) ObserveAction(actionID string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	c.ActionResults.WithLabelValues(actionID, result).Inc()
}
