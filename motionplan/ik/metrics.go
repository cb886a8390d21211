package ik

import (
	"github.com/robotsim/nikopt/spatialmath"
	"github.com/robotsim/nikopt/utils"
)

// TaskError returns the stacked error between current and target tool poses. Each endpoint contributes the
// position difference target - current followed by the angular delta carrying the current orientation onto the
// target orientation.
func TaskError(current, targets []spatialmath.Pose) []float64 {
	errVec := make([]float64, 0, 6*len(targets))
	for i, target := range targets {
		dp := target.Point().Sub(current[i].Point())
		dw := spatialmath.AngularDelta(current[i].Orientation().RotationMatrix(), target.Orientation().RotationMatrix())
		errVec = append(errVec, dp.X, dp.Y, dp.Z, dw.X, dw.Y, dw.Z)
	}
	return errVec
}

// TaskWeights returns the diagonal of the task space weight matrix for the given number of endpoints.
func TaskWeights(numEndpoints int, positionWeight, orientationWeight float64) []float64 {
	w := make([]float64, 0, 6*numEndpoints)
	for i := 0; i < numEndpoints; i++ {
		w = append(w, positionWeight, positionWeight, positionWeight, orientationWeight, orientationWeight, orientationWeight)
	}
	return w
}

// WeightedSquaredNorm returns eᵀ·diag(w)·e.
func WeightedSquaredNorm(errVec, weights []float64) float64 {
	total := 0.
	for i, e := range errVec {
		total += weights[i] * e * e
	}
	return total
}

// PositionDist returns the distance between the positions of two poses.
func PositionDist(p1, p2 spatialmath.Pose) float64 {
	return p1.Point().Distance(p2.Point())
}

// OrientDist returns the arclength between two orientations in degrees.
func OrientDist(o1, o2 spatialmath.Orientation) float64 {
	return utils.RadToDeg(spatialmath.QuatToR4AA(spatialmath.OrientationBetween(o1, o2).Quaternion()).Theta)
}
