package handler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/russofg/event-chaos-sub000/pkg/career"
	"github.com/russofg/event-chaos-sub000/pkg/flow"
	"github.com/russofg/event-chaos-sub000/pkg/service"
	"github.com/russofg/event-chaos-sub000/pkg/session"
)

// DefaultRecordTimeout bounds the career write after a session ends.
const DefaultRecordTimeout = 5 * time.Second

// CareerRecorder returns a session.ManagerConfig.OnEnd hook that books a won
// session into the stored career. Rewards are priced against the stored
// career inside the update, so only one of two concurrent clears of the same
// scenario is paid as a first clear. Lost or stopped sessions change nothing.
func CareerRecorder(careers service.CareerStore, timeout time.Duration) func(*session.Runner) {
	if timeout <= 0 {
		timeout = DefaultRecordTimeout
	}
	return func(r *session.Runner) {
		if r.Rewards() == nil {
			return
		}
		snap := r.Snapshot()
		if snap.PlayerID == "" {
			return
		}
		scenario := r.Scenario()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var booked flow.Rewards
		_, err := careers.UpdateCareer(ctx, snap.PlayerID, func(d career.Data) (career.Data, error) {
			next, rewards := career.Complete(d, scenario, snap.Score, snap.Difficulty, snap.Mode)
			booked = rewards
			return next, nil
		})
		log := logrus.WithFields(logrus.Fields{
			"session_id":  snap.SessionID,
			"player_id":   snap.PlayerID,
			"scenario_id": scenario.ID,
		})
		if err != nil {
			log.WithError(err).Error("failed to record completion")
			return
		}
		log.WithFields(logrus.Fields{
			"score":       snap.Score,
			"points":      booked.CareerPoints,
			"cash":        booked.Cash,
			"first_clear": booked.FirstClear,
		}).Info("recorded completion")
	}
}
