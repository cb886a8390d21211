package ik

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/robotsim/nikopt/referenceframe"
	"github.com/robotsim/nikopt/spatialmath"
)

// SolveRelative solves for tool poses offset from where the endpoints currently are. The targets are built by
// RelativeTargets, and the solve starts from the chain's current configuration.
func (s *DLSSolver) SolveRelative(
	deltaPos []r3.Vector,
	deltaRot []*spatialmath.RotationMatrix,
	endpoints []Endpoint,
) (*Solution, error) {
	targets, err := RelativeTargets(s.chain, deltaPos, deltaRot, endpoints)
	if err != nil {
		return nil, err
	}
	return s.Solve(targets, s.chain.CurrentInputs(), endpoints)
}

// RelativeTargets returns the pose of each endpoint at the chain's current configuration, moved by deltaPos[i]
// and with its orientation pre-rotated by deltaRot[i] in the world frame. A nil rotation keeps the current
// orientation. Fewer deltas than endpoints address the leading endpoints only.
func RelativeTargets(
	chain referenceframe.KinematicChain,
	deltaPos []r3.Vector,
	deltaRot []*spatialmath.RotationMatrix,
	endpoints []Endpoint,
) ([]spatialmath.Pose, error) {
	if len(deltaPos) != len(deltaRot) {
		return nil, errors.Wrapf(ErrInvalidEndpointSpec, "%d position deltas given with %d rotation deltas", len(deltaPos), len(deltaRot))
	}
	resolved, err := resolveEndpoints(chain, endpoints, len(deltaPos))
	if err != nil {
		return nil, err
	}

	current := endpointPoses(chain.Joints(), resolved)
	targets := make([]spatialmath.Pose, 0, len(deltaPos))
	for i := range deltaPos {
		rot := current[i].Orientation().RotationMatrix()
		if deltaRot[i] != nil {
			rot = deltaRot[i].Mul(rot)
		}
		targets = append(targets, spatialmath.NewPose(current[i].Point().Add(deltaPos[i]), rot))
	}
	return targets, nil
}
