package ik

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/robotsim/nikopt/spatialmath"
)

func TestTaskError(t *testing.T) {
	current := []spatialmath.Pose{spatialmath.NewPoseFromPoint(r3.Vector{X: 1, Y: 2, Z: 3})}
	test.That(t, TaskError(current, current), test.ShouldResemble, []float64{0, 0, 0, 0, 0, 0})

	target := []spatialmath.Pose{spatialmath.NewPose(r3.Vector{X: 2, Y: 2, Z: 1}, &spatialmath.R4AA{Theta: math.Pi / 2, RZ: 1})}
	errVec := TaskError(current, target)
	test.That(t, errVec, test.ShouldHaveLength, 6)
	test.That(t, errVec[0], test.ShouldAlmostEqual, 1.)
	test.That(t, errVec[1], test.ShouldAlmostEqual, 0.)
	test.That(t, errVec[2], test.ShouldAlmostEqual, -2.)
	test.That(t, errVec[3], test.ShouldAlmostEqual, 0.)
	test.That(t, errVec[5], test.ShouldAlmostEqual, math.Pi/2)
}

func TestTaskErrorStacksEndpointsInOrder(t *testing.T) {
	current := []spatialmath.Pose{
		spatialmath.NewPoseFromPoint(r3.Vector{X: 1, Y: 2, Z: 3}),
		spatialmath.NewPoseFromPoint(r3.Vector{X: 4}),
	}
	raised := spatialmath.NewPoseFromPoint(r3.Vector{X: 1, Y: 2, Z: 4})
	turned := spatialmath.NewPose(r3.Vector{X: 4}, &spatialmath.R4AA{Theta: math.Pi / 2, RZ: 1})

	errVec := TaskError(current, []spatialmath.Pose{raised, turned})
	test.That(t, errVec, test.ShouldHaveLength, 12)
	for i, want := range []float64{0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, math.Pi / 2} {
		test.That(t, errVec[i], test.ShouldAlmostEqual, want)
	}

	// swapping the targets moves each error into the other endpoint's block
	errVec = TaskError(current, []spatialmath.Pose{turned, raised})
	for i, want := range []float64{3, -2, -3, 0, 0, math.Pi / 2, -3, 2, 4, 0, 0, 0} {
		test.That(t, errVec[i], test.ShouldAlmostEqual, want)
	}
}

func TestTaskWeightsAndNorm(t *testing.T) {
	w := TaskWeights(2, defaultPositionWeight, defaultOrientationWeight)
	test.That(t, w, test.ShouldHaveLength, 12)
	test.That(t, w[2], test.ShouldEqual, defaultPositionWeight)
	test.That(t, w[9], test.ShouldEqual, defaultOrientationWeight)

	norm := WeightedSquaredNorm([]float64{1, 2, 0, math.Pi, 0, 0, 0, 0, 0, 0, 0, 1}, w)
	test.That(t, norm, test.ShouldAlmostEqual, 5*defaultPositionWeight+1+defaultOrientationWeight)
}

func TestDistances(t *testing.T) {
	a := spatialmath.NewPose(r3.Vector{X: 1}, &spatialmath.R4AA{Theta: 0.5, RX: 1})
	b := spatialmath.NewPose(r3.Vector{X: 4, Y: 4}, &spatialmath.R4AA{Theta: 0.5 + math.Pi/2, RX: 1})
	test.That(t, PositionDist(a, b), test.ShouldAlmostEqual, 5.)
	test.That(t, OrientDist(a.Orientation(), b.Orientation()), test.ShouldAlmostEqual, 90., 1e-6)
}
