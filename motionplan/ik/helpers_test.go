package ik

import (
	"path/filepath"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/robotsim/nikopt/referenceframe"
	"github.com/robotsim/nikopt/spatialmath"
)

var (
	xyTCP  = []Endpoint{NewEndpoint("tcp")}
	urTCP  = []Endpoint{NewEndpoint("tcp")}
	urHome = referenceframe.FloatsToInputs([]float64{0, 0, 0, 0, 0, 0})
)

func loadChain(t *testing.T, name string) *referenceframe.ChainState {
	t.Helper()
	chain, err := referenceframe.ParseChainJSONFile(filepath.Join("..", "..", "referenceframe", "testdata", name+".json"))
	test.That(t, err, test.ShouldBeNil)
	return chain
}

// xyOptions are tuned for the XY bot, whose targets lie well beyond the default reach.
func xyOptions() *SolverOptions {
	opts := NewBasicSolverOptions()
	opts.StepScale = 1
	opts.MaxReach = 20
	return opts
}

func xyTarget(x, y, z float64) []spatialmath.Pose {
	return []spatialmath.Pose{spatialmath.NewPoseFromPoint(r3.Vector{X: x, Y: y, Z: z})}
}

// countingChain counts forward kinematics calls on itself and all of its clones.
type countingChain struct {
	referenceframe.KinematicChain
	calls *int
}

func newCountingChain(chain referenceframe.KinematicChain) *countingChain {
	return &countingChain{KinematicChain: chain, calls: new(int)}
}

func (c *countingChain) ForwardKinematics(inputs []referenceframe.Input) error {
	*c.calls++
	return c.KinematicChain.ForwardKinematics(inputs)
}

func (c *countingChain) Clone() referenceframe.KinematicChain {
	return &countingChain{KinematicChain: c.KinematicChain.Clone(), calls: c.calls}
}

// poseAt evaluates the tool pose of a configuration on a throwaway clone.
func poseAt(t *testing.T, chain referenceframe.KinematicChain, inputs []referenceframe.Input, endpoints []Endpoint) spatialmath.Pose {
	t.Helper()
	clone := chain.Clone()
	test.That(t, clone.ForwardKinematics(inputs), test.ShouldBeNil)
	poses, err := EndpointPoses(clone, endpoints)
	test.That(t, err, test.ShouldBeNil)
	return poses[0]
}
