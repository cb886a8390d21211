package referenceframe

import (
	"math/rand"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/robotsim/nikopt/spatialmath"
)

// KinematicChain is the queryable model an IK solver works against. Implementations hold mutable forward
// kinematics state, so a single instance supports one solve at a time; use Clone to get an independent copy.
type KinematicChain interface {
	Name() string
	// DoF returns one limit per moving joint in chain order.
	DoF() []Limit
	// Joints returns every joint, moving and fixed, in chain order as of the last ForwardKinematics call.
	Joints() []JointPose
	// ForwardKinematics updates the global joint poses for the given inputs.
	ForwardKinematics(inputs []Input) error
	CurrentInputs() []Input
	HomeInputs() []Input
	RandomInputs(rSeed *rand.Rand) []Input
	BasePose() spatialmath.Pose
	Clone() KinematicChain
}

// SerialChain is the immutable description of a serial manipulator. It is safe to share between goroutines;
// per-solve state lives in a ChainState.
type SerialChain struct {
	name   string
	base   spatialmath.Pose
	joints []Joint
	limits []Limit
	home   []Input
	// dofIndex maps a joint's position in joints to its input index, -1 if fixed.
	dofIndex []int
}

// NewSerialChain validates a chain description and returns it. Every problem found is reported in the
// returned error. A nil base is the origin and a nil home is all zeros.
func NewSerialChain(name string, base spatialmath.Pose, joints []Joint, home []Input) (*SerialChain, error) {
	var err error
	if name == "" {
		err = multierr.Append(err, errors.New("chain name cannot be empty"))
	}
	if base == nil {
		base = spatialmath.NewZeroPose()
	}

	sc := &SerialChain{name: name, base: base, dofIndex: make([]int, len(joints))}
	seen := map[string]bool{}
	for i, j := range joints {
		if j.ID == "" {
			err = multierr.Append(err, errors.Errorf("joint %d has no id", i))
		}
		if seen[j.ID] {
			err = multierr.Append(err, NewDuplicateJointError(j.ID))
		}
		seen[j.ID] = true
		if j.Orientation == nil {
			j.Orientation = spatialmath.NewIdentityRotation()
		}

		if !j.Type.Moves() {
			if j.Type != FixedJoint {
				err = multierr.Append(err, NewUnsupportedJointTypeError(string(j.Type)))
			}
			sc.dofIndex[i] = -1
			sc.joints = append(sc.joints, j)
			continue
		}
		if j.Axis.Norm() == 0 {
			err = multierr.Append(err, NewZeroAxisError(j.ID))
		} else {
			j.Axis = j.Axis.Normalize()
		}
		if j.Limit.Min > j.Limit.Max {
			err = multierr.Append(err, NewInvalidLimitError(j.ID, j.Limit))
		}
		sc.dofIndex[i] = len(sc.limits)
		sc.limits = append(sc.limits, j.Limit)
		sc.joints = append(sc.joints, j)
	}

	switch {
	case home == nil:
		sc.home = make([]Input, len(sc.limits))
	case len(home) != len(sc.limits):
		err = multierr.Append(err, errors.Wrap(NewIncorrectDoFError(len(home), len(sc.limits)), "home configuration"))
	default:
		sc.home = CopyInputs(home)
	}
	if err != nil {
		return nil, err
	}
	return sc, nil
}

// Name returns the name of the chain.
func (sc *SerialChain) Name() string {
	return sc.name
}

// DoF returns the limits of the moving joints.
func (sc *SerialChain) DoF() []Limit {
	out := make([]Limit, len(sc.limits))
	copy(out, sc.limits)
	return out
}

// Joint returns the description of the named joint.
func (sc *SerialChain) Joint(name string) (Joint, bool) {
	for _, j := range sc.joints {
		if j.ID == name {
			return j, true
		}
	}
	return Joint{}, false
}

// NewState returns forward kinematics state for this chain evaluated at its home configuration.
func (sc *SerialChain) NewState() *ChainState {
	cs := &ChainState{
		chain:  sc,
		inputs: make([]Input, len(sc.limits)),
		poses:  make([]JointPose, len(sc.joints)),
	}
	// home has the right length by construction, so this cannot fail
	//nolint:errcheck
	cs.ForwardKinematics(sc.home)
	return cs
}

// ChainState is the mutable forward kinematics state of a SerialChain. It implements KinematicChain.
type ChainState struct {
	chain  *SerialChain
	inputs []Input
	poses  []JointPose
}

// Description returns the immutable chain this state belongs to.
func (cs *ChainState) Description() *SerialChain {
	return cs.chain
}

// Name returns the name of the chain.
func (cs *ChainState) Name() string {
	return cs.chain.name
}

// DoF returns the limits of the moving joints.
func (cs *ChainState) DoF() []Limit {
	return cs.chain.DoF()
}

// Joints returns the global joint poses from the last forward kinematics evaluation.
func (cs *ChainState) Joints() []JointPose {
	out := make([]JointPose, len(cs.poses))
	copy(out, cs.poses)
	return out
}

// ForwardKinematics walks the chain from the base, placing each joint in its parent's frame and applying its motion.
func (cs *ChainState) ForwardKinematics(inputs []Input) error {
	if len(inputs) != len(cs.chain.limits) {
		return NewIncorrectDoFError(len(inputs), len(cs.chain.limits))
	}
	parentPos := cs.chain.base.Point()
	parentRot := cs.chain.base.Orientation().RotationMatrix()

	for i, j := range cs.chain.joints {
		pos := parentPos.Add(parentRot.Rotate(j.Position))
		rot := parentRot.Mul(j.Orientation.RotationMatrix())
		var axis r3.Vector
		idx := cs.chain.dofIndex[i]

		switch j.Type {
		case RevoluteJoint:
			axis = rot.Rotate(j.Axis)
			rot = rot.Mul(spatialmath.RotationAboutAxis(j.Axis, inputs[idx].Value))
		case PrismaticJoint:
			axis = rot.Rotate(j.Axis)
			pos = pos.Add(axis.Mul(inputs[idx].Value))
		case FixedJoint:
		}

		cs.poses[i] = JointPose{
			Name:     j.ID,
			Type:     j.Type,
			DoFIndex: idx,
			Position: pos,
			Rotation: rot,
			Axis:     axis,
		}
		parentPos, parentRot = pos, rot
	}
	copy(cs.inputs, inputs)
	return nil
}

// CurrentInputs returns the inputs of the last forward kinematics evaluation.
func (cs *ChainState) CurrentInputs() []Input {
	return CopyInputs(cs.inputs)
}

// HomeInputs returns the chain's home configuration.
func (cs *ChainState) HomeInputs() []Input {
	return CopyInputs(cs.chain.home)
}

// RandomInputs samples a configuration uniformly within the joint limits.
func (cs *ChainState) RandomInputs(rSeed *rand.Rand) []Input {
	return RandomLimitedInputs(cs.chain.limits, rSeed)
}

// BasePose returns the pose of the chain's base in the world.
func (cs *ChainState) BasePose() spatialmath.Pose {
	return cs.chain.base
}

// Clone returns a deep copy of the state sharing the immutable description.
func (cs *ChainState) Clone() KinematicChain {
	poses := make([]JointPose, len(cs.poses))
	copy(poses, cs.poses)
	return &ChainState{chain: cs.chain, inputs: CopyInputs(cs.inputs), poses: poses}
}
