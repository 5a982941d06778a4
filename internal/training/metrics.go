package training

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	minLoss     = 0.01
	maxAccuracy = 0.95
)

// curve produces the simulated per-epoch metrics: a linear trend with
// uniform noise, clamped so loss never drops below minLoss and accuracy never
// exceeds maxAccuracy.
type curve struct {
	lossNoise distuv.Uniform
	accNoise  distuv.Uniform
}

// newCurve draws noise from src, or from the process-wide source if src is nil.
func newCurve(src rand.Source) *curve {
	return &curve{
		lossNoise: distuv.Uniform{Min: -0.05, Max: 0.05, Src: src},
		accNoise:  distuv.Uniform{Min: -0.02, Max: 0.02, Src: src},
	}
}

func (c *curve) at(epoch int) (loss, accuracy float64) {
	e := float64(epoch)
	loss = math.Max(minLoss, 0.5-0.01*e+c.lossNoise.Rand())
	accuracy = math.Min(maxAccuracy, 0.5+0.01*e+c.accNoise.Rand())
	return loss, accuracy
}
