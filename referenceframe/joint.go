package referenceframe

import (
	"github.com/golang/geo/r3"

	"github.com/robotsim/nikopt/spatialmath"
)

// JointType describes how a joint moves.
type JointType string

// The supported joint types.
const (
	RevoluteJoint  = JointType("revolute")
	PrismaticJoint = JointType("prismatic")
	FixedJoint     = JointType("fixed")
)

// ParseJointType validates a joint type string.
func ParseJointType(s string) (JointType, error) {
	switch jt := JointType(s); jt {
	case RevoluteJoint, PrismaticJoint, FixedJoint:
		return jt, nil
	default:
		return "", NewUnsupportedJointTypeError(s)
	}
}

// Moves reports whether the joint contributes a degree of freedom.
func (jt JointType) Moves() bool {
	return jt == RevoluteJoint || jt == PrismaticJoint
}

// Joint describes one element of a serial chain relative to its parent.
type Joint struct {
	ID   string
	Type JointType
	// Axis is the motion axis in the joint's local frame. Ignored for fixed joints.
	Axis  r3.Vector
	Limit Limit
	// Position and Orientation place the joint in its parent's frame.
	Position    r3.Vector
	Orientation spatialmath.Orientation
}

// JointPose is the global state of a joint after forward kinematics.
type JointPose struct {
	Name string
	Type JointType
	// DoFIndex is the joint's position in the input vector, or -1 for fixed joints.
	DoFIndex int
	Position r3.Vector
	Rotation *spatialmath.RotationMatrix
	// Axis is the global motion axis, unit length for moving joints.
	Axis r3.Vector
}

// Pose returns the joint's global pose.
func (jp JointPose) Pose() spatialmath.Pose {
	return spatialmath.NewPose(jp.Position, jp.Rotation)
}
