package spatialmath

import (
	"gonum.org/v1/gonum/num/quat"
)

// Orientation is an interface used to express the different parameterizations of the orientation
// of a rigid object or a frame of reference in 3D Euclidean space.
type Orientation interface {
	AxisAngles() *R4AA
	Quaternion() quat.Number
	RotationMatrix() *RotationMatrix
}

// NewZeroOrientation returns an orientation which signifies no rotation.
func NewZeroOrientation() Orientation {
	return NewIdentityRotation()
}

// OrientationAlmostEqual will return a bool describing whether 2 poses have approximately the same orientation.
func OrientationAlmostEqual(o1, o2 Orientation) bool {
	return OrientationAlmostEqualEps(o1, o2, 1e-5)
}

// OrientationAlmostEqualEps is OrientationAlmostEqual with a caller-chosen tolerance on the rotation matrix entries.
func OrientationAlmostEqualEps(o1, o2 Orientation, epsilon float64) bool {
	return RotationMatrixAlmostEqual(o1.RotationMatrix(), o2.RotationMatrix(), epsilon)
}

// OrientationBetween returns the orientation that carries o1 onto o2, expressed in the world frame.
func OrientationBetween(o1, o2 Orientation) Orientation {
	return o2.RotationMatrix().Mul(o1.RotationMatrix().Transpose())
}
