package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/robotsim/nikopt/utils"
)

// angles within this distance of pi take the symmetric-part branch, where the skew part is too small to carry the axis.
const nearPiThreshold = 1e-3

// AngularDelta returns the rotation vector w, of length in [0, pi], such that rotating current by |w| radians
// about w/|w| in the world frame yields target. It is the log map of target·currentᵀ.
func AngularDelta(current, target *RotationMatrix) r3.Vector {
	return RotationVector(target.Mul(current.Transpose()))
}

// RotationVector returns the axis scaled by angle of a rotation matrix, staying well defined at pi.
func RotationVector(rm *RotationMatrix) r3.Vector {
	cosTheta := utils.Clamp((rm.Trace()-1)/2, -1, 1)
	theta := math.Acos(cosTheta)
	skew := r3.Vector{
		X: rm.At(2, 1) - rm.At(1, 2),
		Y: rm.At(0, 2) - rm.At(2, 0),
		Z: rm.At(1, 0) - rm.At(0, 1),
	}

	switch {
	case theta < 1e-9:
		return skew.Mul(0.5)
	case math.Pi-theta < nearPiThreshold:
		axis := axisNearPi(rm, cosTheta)
		if skew.Dot(axis) < 0 {
			axis = axis.Mul(-1)
		}
		return axis.Mul(theta)
	default:
		return skew.Mul(theta / (2 * math.Sin(theta)))
	}
}

// axisNearPi recovers the unit rotation axis from the symmetric part of the matrix, pivoting on the largest
// diagonal entry to stay numerically stable.
func axisNearPi(rm *RotationMatrix, cosTheta float64) r3.Vector {
	oneMinusCos := 1 - cosTheta
	pivot := 0
	for i := 1; i < 3; i++ {
		if rm.At(i, i) > rm.At(pivot, pivot) {
			pivot = i
		}
	}
	k := [3]float64{}
	k[pivot] = math.Sqrt(math.Max(rm.At(pivot, pivot)-cosTheta, 0) / oneMinusCos)
	for j := 0; j < 3; j++ {
		if j == pivot {
			continue
		}
		k[j] = (rm.At(pivot, j) + rm.At(j, pivot)) / (2 * oneMinusCos * k[pivot])
	}
	return r3.Vector{X: k[0], Y: k[1], Z: k[2]}.Normalize()
}
