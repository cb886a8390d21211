package ik

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/robotsim/nikopt/referenceframe"
	"github.com/robotsim/nikopt/spatialmath"
)

func TestJacobianDimensions(t *testing.T) {
	chain := loadChain(t, "xybot")

	jac, err := Jacobian(chain, xyTCP)
	test.That(t, err, test.ShouldBeNil)
	rows, cols := jac.Dims()
	test.That(t, rows, test.ShouldEqual, 6)
	test.That(t, cols, test.ShouldEqual, 2)
	test.That(t, jac.At(0, 0), test.ShouldEqual, 1.)
	test.That(t, jac.At(1, 1), test.ShouldEqual, 1.)
	test.That(t, jac.At(5, 1), test.ShouldEqual, 0.)

	jac, err = Jacobian(chain, []Endpoint{NewEndpoint("tcp"), NewEndpoint("x")})
	test.That(t, err, test.ShouldBeNil)
	rows, cols = jac.Dims()
	test.That(t, rows, test.ShouldEqual, 12)
	test.That(t, cols, test.ShouldEqual, 2)
	// joints after the endpoint do not move it
	test.That(t, jac.At(6, 0), test.ShouldEqual, 1.)
	test.That(t, jac.At(7, 1), test.ShouldEqual, 0.)

	_, err = Jacobian(chain, []Endpoint{NewEndpoint("nope")})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestJacobianMatchesFiniteDifferences(t *testing.T) {
	chain := loadChain(t, "ur3")
	q := []float64{0.4548, 0.8662, -1.2184, -1.415, 1.0073, -0.2017}
	test.That(t, chain.ForwardKinematics(referenceframe.FloatsToInputs(q)), test.ShouldBeNil)
	jac, err := Jacobian(chain, urTCP)
	test.That(t, err, test.ShouldBeNil)

	const h = 1e-6
	base := poseAt(t, chain, referenceframe.FloatsToInputs(q), urTCP)
	for i := range q {
		moved := append([]float64{}, q...)
		moved[i] += h
		pose := poseAt(t, chain, referenceframe.FloatsToInputs(moved), urTCP)

		lin := pose.Point().Sub(base.Point()).Mul(1 / h)
		ang := spatialmath.AngularDelta(base.Orientation().RotationMatrix(), pose.Orientation().RotationMatrix()).Mul(1 / h)
		for r, v := range []float64{lin.X, lin.Y, lin.Z, ang.X, ang.Y, ang.Z} {
			test.That(t, jac.At(r, i), test.ShouldAlmostEqual, v, 1e-4)
		}
	}
}

func TestJacobianWithOffset(t *testing.T) {
	// a revolute joint about z with the tool one unit out along x moves the tool along y
	sc, err := referenceframe.NewSerialChain("arm", nil, []referenceframe.Joint{
		{ID: "j", Type: referenceframe.RevoluteJoint, Axis: r3.Vector{Z: 1}, Limit: referenceframe.Limit{Min: -3, Max: 3}},
	}, nil)
	test.That(t, err, test.ShouldBeNil)
	chain := sc.NewState()

	jac, err := Jacobian(chain, []Endpoint{{Joint: "j", Offset: spatialmath.NewPoseFromPoint(r3.Vector{X: 1})}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, jac.At(0, 0), test.ShouldAlmostEqual, 0.)
	test.That(t, jac.At(1, 0), test.ShouldAlmostEqual, 1.)
	test.That(t, jac.At(5, 0), test.ShouldAlmostEqual, 1.)

	poses, err := EndpointPoses(chain, []Endpoint{{Joint: "j", Offset: spatialmath.NewPoseFromPoint(r3.Vector{X: 1})}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, poses[0].Point().X, test.ShouldAlmostEqual, 1.)
}
