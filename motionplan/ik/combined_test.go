package ik

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/robotsim/nikopt/logging"
	"github.com/robotsim/nikopt/referenceframe"
	"github.com/robotsim/nikopt/spatialmath"
)

func TestCombinedIKConverges(t *testing.T) {
	chain := loadChain(t, "xybot")
	opts := xyOptions()
	opts.Trace = NewTrace()
	solver, err := CreateCombinedIKSolver(chain, logging.NewTestLogger(t), 4, opts)
	test.That(t, err, test.ShouldBeNil)

	sol, err := solver.Solve(xyTarget(5, 10, 0), nil, xyTCP)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sol.Status, test.ShouldEqual, StatusConverged)
	test.That(t, sol.Configuration[0].Value, test.ShouldAlmostEqual, 5, 1e-3)
	test.That(t, sol.Configuration[1].Value, test.ShouldAlmostEqual, 10, 1e-3)

	// only the worker seeded with the caller's start writes to the trace
	test.That(t, opts.Trace.Records()[0].Iteration, test.ShouldEqual, 0)
	last, ok := opts.Trace.Last()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, last.Event, test.ShouldEqual, EventConverged)
	test.That(t, chain.CurrentInputs(), test.ShouldResemble, []referenceframe.Input{{Value: 0}, {Value: 0}})
}

func TestCombinedIKUR3(t *testing.T) {
	chain := loadChain(t, "ur3")
	solver, err := CreateCombinedIKSolver(chain, logging.NewTestLogger(t), 3, nil)
	test.That(t, err, test.ShouldBeNil)

	goal := poseAt(t, chain, referenceframe.FloatsToInputs([]float64{0.7868, -1.4937, -0.1638, 0.6646, -0.8137, 1.3358}), urTCP)
	sol, err := solver.Solve([]spatialmath.Pose{goal}, urHome, urTCP)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sol.Status, test.ShouldEqual, StatusConverged)
	test.That(t, PositionDist(poseAt(t, chain, sol.Configuration, urTCP), goal), test.ShouldBeLessThan, 2e-3)
}

func TestCombinedIKFailures(t *testing.T) {
	opts := xyOptions()
	opts.LocalMinima = LocalMinimaEnd
	solver, err := CreateCombinedIKSolver(loadChain(t, "xybot"), logging.NewTestLogger(t), 3, opts)
	test.That(t, err, test.ShouldBeNil)

	sol, err := solver.Solve(xyTarget(5, 10, 1), nil, xyTCP)
	test.That(t, sol, test.ShouldBeNil)
	test.That(t, errors.Is(err, ErrLocalMinimum), test.ShouldBeTrue)
	for _, worker := range []string{"worker 0", "worker 1", "worker 2"} {
		test.That(t, err.Error(), test.ShouldContainSubstring, worker)
	}

	_, err = solver.Solve(xyTarget(5, 10, 0), nil, []Endpoint{NewEndpoint("missing")})
	test.That(t, errors.Is(err, ErrInvalidEndpointSpec), test.ShouldBeTrue)

	opts = NewBasicSolverOptions()
	solver, err = CreateCombinedIKSolver(loadChain(t, "xybot"), nil, 2, opts)
	test.That(t, err, test.ShouldBeNil)
	_, err = solver.Solve(xyTarget(5, 10, 0), nil, xyTCP)
	test.That(t, errors.Is(err, ErrOutOfReach), test.ShouldBeTrue)
}

func TestBetterSolution(t *testing.T) {
	fast := &Solution{Status: StatusConverged, Iterations: 3}
	slow := &Solution{Status: StatusConverged, Iterations: 30}
	stuck := &Solution{Status: StatusLocalMinimum, Iterations: 1, ErrorNorm: 0.5}
	stucker := &Solution{Status: StatusLocalMinimum, Iterations: 1, ErrorNorm: 0.9}

	test.That(t, better(fast, slow), test.ShouldBeTrue)
	test.That(t, better(slow, fast), test.ShouldBeFalse)
	test.That(t, better(slow, stuck), test.ShouldBeTrue)
	test.That(t, better(stuck, slow), test.ShouldBeFalse)
	test.That(t, better(stuck, stucker), test.ShouldBeTrue)
}
