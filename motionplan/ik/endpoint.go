package ik

import (
	"github.com/pkg/errors"

	"github.com/robotsim/nikopt/referenceframe"
	"github.com/robotsim/nikopt/spatialmath"
)

// Endpoint is a tool frame attached to a joint of the chain at a fixed offset in that joint's frame.
type Endpoint struct {
	Joint string
	// Offset is the tool pose in the joint frame. Nil means the joint frame itself.
	Offset spatialmath.Pose
}

// NewEndpoint returns an endpoint at the origin of the named joint.
func NewEndpoint(joint string) Endpoint {
	return Endpoint{Joint: joint}
}

type resolvedEndpoint struct {
	name       string
	jointIndex int
	offset     spatialmath.Pose
}

// resolveEndpoints matches endpoints against the chain's joints. Fewer targets than endpoints uses the leading
// endpoints only. It never evaluates forward kinematics.
func resolveEndpoints(chain referenceframe.KinematicChain, endpoints []Endpoint, numTargets int) ([]resolvedEndpoint, error) {
	if len(endpoints) == 0 {
		return nil, errors.Wrap(ErrInvalidEndpointSpec, "no endpoints given")
	}
	if numTargets == 0 {
		return nil, errors.Wrap(ErrInvalidEndpointSpec, "no targets given")
	}
	if numTargets > len(endpoints) {
		return nil, errors.Wrapf(ErrInvalidEndpointSpec, "%d targets given for %d endpoints", numTargets, len(endpoints))
	}

	index := map[string]int{}
	for i, jp := range chain.Joints() {
		index[jp.Name] = i
	}
	resolved := make([]resolvedEndpoint, 0, numTargets)
	for _, ep := range endpoints[:numTargets] {
		idx, ok := index[ep.Joint]
		if !ok {
			return nil, errors.Wrapf(ErrInvalidEndpointSpec, "joint %q not found in chain %q", ep.Joint, chain.Name())
		}
		offset := ep.Offset
		if offset == nil {
			offset = spatialmath.NewZeroPose()
		}
		resolved = append(resolved, resolvedEndpoint{name: ep.Joint, jointIndex: idx, offset: offset})
	}
	return resolved, nil
}

// EndpointPoses returns the global tool poses of the endpoints for the chain's current state.
func EndpointPoses(chain referenceframe.KinematicChain, endpoints []Endpoint) ([]spatialmath.Pose, error) {
	resolved, err := resolveEndpoints(chain, endpoints, len(endpoints))
	if err != nil {
		return nil, err
	}
	return endpointPoses(chain.Joints(), resolved), nil
}

func endpointPoses(joints []referenceframe.JointPose, endpoints []resolvedEndpoint) []spatialmath.Pose {
	poses := make([]spatialmath.Pose, 0, len(endpoints))
	for _, ep := range endpoints {
		poses = append(poses, spatialmath.Compose(joints[ep.jointIndex].Pose(), ep.offset))
	}
	return poses
}
