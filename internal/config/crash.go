package config

// CrashCurve defines the piecewise acceleration of the displayed multiplier.
// The speed of the last stage whose threshold the multiplier has reached wins.
type CrashCurve struct {
	Stages []CurveStage
}

type CurveStage struct {
	Threshold float64
	Speed     float64
}

var CrashCurveConfig = CrashCurve{
	Stages: []CurveStage{
		{Threshold: 0, Speed: 0.01},
		{Threshold: 3.0, Speed: 0.05},
		{Threshold: 10.0, Speed: 0.15},
	},
}

// SpeedAt returns the per-tick increment for the given multiplier.
func (c CrashCurve) SpeedAt(multiplier float64) float64 {
	speed := 0.0

	for _, stage := range c.Stages {
		if multiplier >= stage.Threshold {
			speed = stage.Speed
		}
	}

	return speed
}
