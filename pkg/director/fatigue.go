package director

import (
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/common"
	"github.com/russofg/event-chaos-sub000/pkg/game"
)

// endlessCycle is the number of attempts that make one ENDLESS "lap".
const endlessCycle = 24

// FatigueMetrics summarises how worn down the session is.
type FatigueMetrics struct {
	ProgressRatio float64 `json:"progressRatio"`
	PressureLevel float64 `json:"pressureLevel"`
	FatigueLevel  float64 `json:"fatigueLevel"`
	FailRate      float64 `json:"failRate"`
	LoadLevel     float64 `json:"loadLevel"`
}

// SessionFatigue derives progress, pressure and fatigue for the session.
func SessionFatigue(
	mode game.GameMode,
	timeRemaining, totalDuration time.Duration,
	telemetry game.SessionDirectorTelemetry,
	stats game.GameStats,
	activeEvents int,
) FatigueMetrics {
	attempts := telemetry.Attempts()

	var progress float64
	if mode == game.ModeEndless {
		progress = float64(attempts%endlessCycle) / endlessCycle
	} else {
		progress = ProgressRatio(timeRemaining, totalDuration)
	}

	failRate := 0.0
	if attempts > 0 {
		failRate = float64(telemetry.Failures()) / float64(attempts)
	}

	load := common.Clamp01(float64(activeEvents) / 5)
	pressure := common.Clamp01(0.5*common.Clamp01(stats.Stress/100) + 0.3*load + 0.2*failRate)
	fatigue := common.Clamp01(0.62*progress + 0.38*pressure)

	return FatigueMetrics{
		ProgressRatio: common.Clamp01(progress),
		PressureLevel: pressure,
		FatigueLevel:  fatigue,
		FailRate:      common.Clamp01(failRate),
		LoadLevel:     load,
	}
}
