package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Pose represents a 6dof pose, position and orientation, with respect to the origin.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
}

type pose struct {
	point r3.Vector
	rot   *RotationMatrix
}

// NewZeroPose returns a pose at (0,0,0) with same orientation as whatever frame it is placed in.
func NewZeroPose() Pose {
	return &pose{rot: NewIdentityRotation()}
}

// NewPose constructs a pose from a point and an orientation. A nil orientation means no rotation.
func NewPose(point r3.Vector, o Orientation) Pose {
	if o == nil {
		return NewPoseFromPoint(point)
	}
	return &pose{point: point, rot: o.RotationMatrix()}
}

// NewPoseFromPoint constructs a pose with only a translation.
func NewPoseFromPoint(point r3.Vector) Pose {
	return &pose{point: point, rot: NewIdentityRotation()}
}

// NewPoseFromOrientation constructs a pose with only a rotation.
func NewPoseFromOrientation(o Orientation) Pose {
	return NewPose(r3.Vector{}, o)
}

func (p *pose) Point() r3.Vector {
	return p.point
}

func (p *pose) Orientation() Orientation {
	return p.rot
}

func (p *pose) String() string {
	aa := p.rot.AxisAngles()
	return fmt.Sprintf("{X:%.4f Y:%.4f Z:%.4f Theta:%.4f RX:%.4f RY:%.4f RZ:%.4f}",
		p.point.X, p.point.Y, p.point.Z, aa.Theta, aa.RX, aa.RY, aa.RZ)
}

// Compose treats b as expressed in the frame of a and returns b in the frame a is expressed in.
func Compose(a, b Pose) Pose {
	ra := a.Orientation().RotationMatrix()
	return &pose{
		point: a.Point().Add(ra.Rotate(b.Point())),
		rot:   ra.Mul(b.Orientation().RotationMatrix()),
	}
}

// PoseInverse returns the pose that undoes p.
func PoseInverse(p Pose) Pose {
	rt := p.Orientation().RotationMatrix().Transpose()
	return &pose{point: rt.Rotate(p.Point()).Mul(-1), rot: rt}
}

// PoseBetween returns the pose of b expressed in the frame of a.
func PoseBetween(a, b Pose) Pose {
	return Compose(PoseInverse(a), b)
}

// PoseAlmostEqual will return a bool describing whether 2 poses are approximately the same.
func PoseAlmostEqual(a, b Pose) bool {
	return PoseAlmostEqualEps(a, b, 1e-6)
}

// PoseAlmostEqualEps compares poses using the same tolerance on position distance and rotation entries.
func PoseAlmostEqualEps(a, b Pose, epsilon float64) bool {
	return a.Point().Distance(b.Point()) <= epsilon && OrientationAlmostEqualEps(a.Orientation(), b.Orientation(), epsilon)
}
