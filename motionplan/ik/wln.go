package ik

import (
	"math"

	"github.com/robotsim/nikopt/referenceframe"
	"github.com/robotsim/nikopt/utils"
)

// JointLimitWeights returns a weight in [floor, 1] per degree of freedom that slows joints down as they approach
// their limits. Within ratio*range of a limit the weight follows the smoothstep 3d²-2d³ of the normalised
// distance d to that limit, so it is 1 at the band's inner edge and reaches floor at the limit.
func JointLimitWeights(inputs []referenceframe.Input, limits []referenceframe.Limit, ratio, floor float64) []float64 {
	weights := make([]float64, len(inputs))
	for i, in := range inputs {
		weights[i] = jointLimitWeight(in.Value, limits[i], ratio, floor)
	}
	return weights
}

func jointLimitWeight(value float64, limit referenceframe.Limit, ratio, floor float64) float64 {
	if value <= limit.Min || value >= limit.Max {
		return floor
	}
	if ratio <= 0 || math.IsInf(limit.Range(), 1) {
		return 1
	}
	band := ratio * limit.Range()
	// with ratio >= 0.5 both bands cover the joint and the nearer limit wins
	d := math.Min(value-limit.Min, limit.Max-value) / band
	if d >= 1 {
		return 1
	}
	return math.Max(3*utils.Square(d)-2*d*d*d, floor)
}
