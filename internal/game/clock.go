package game

import (
	"math"

	"go-crashout/internal/config"
)

// Round2 quantizes multipliers and money amounts to 2 decimal places. All
// settlement math keys off this exact rounding.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Step advances the displayed multiplier by one tick along the acceleration
// curve. When the stepped value would meet or exceed the round's crash point
// it is clamped to exactly the crash point and crashed is true. The returned
// multiplier never exceeds crashPoint.
func Step(prev, crashPoint float64) (next float64, crashed bool) {
	next = Round2(prev + config.CrashCurveConfig.SpeedAt(prev))

	if next >= crashPoint {
		return crashPoint, true
	}

	return next, false
}
