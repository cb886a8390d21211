package ik

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/robotsim/nikopt/referenceframe"
)

func TestCheckJointRanges(t *testing.T) {
	chain := loadChain(t, "xybot")
	flags, dragged, err := CheckJointRanges(chain, referenceframe.FloatsToInputs([]float64{20, 3}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, flags, test.ShouldResemble, []bool{true, false})
	test.That(t, dragged, test.ShouldResemble, []referenceframe.Input{{Value: 6.5}, {Value: 3}})

	_, _, err = CheckJointRanges(chain, referenceframe.FloatsToInputs([]float64{1}))
	test.That(t, err, test.ShouldNotBeNil)

	// full revolution joints wrap and are never out of range
	ur := loadChain(t, "ur3")
	flags, dragged, err = CheckJointRanges(ur, referenceframe.FloatsToInputs([]float64{100, 0, 0, 0, 0, -100}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, flags, test.ShouldResemble, []bool{false, false, false, false, false, false})
	test.That(t, dragged[0].Value, test.ShouldEqual, 100.)
}

func TestCheckJointRangesPartialRevolution(t *testing.T) {
	sc, err := referenceframe.NewSerialChain("wrist", nil, []referenceframe.Joint{
		{ID: "bend", Type: referenceframe.RevoluteJoint, Axis: r3.Vector{Y: 1}, Limit: referenceframe.Limit{Min: -1, Max: 2}},
		{ID: "roll", Type: referenceframe.RevoluteJoint, Axis: r3.Vector{Z: 1}, Limit: referenceframe.Limit{Min: -math.Pi, Max: math.Pi}},
	}, nil)
	test.That(t, err, test.ShouldBeNil)
	chain := sc.NewState()

	flags, dragged, err := CheckJointRanges(chain, referenceframe.FloatsToInputs([]float64{-1.5, 4}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, flags, test.ShouldResemble, []bool{true, false})
	test.That(t, dragged[0].Value, test.ShouldEqual, 0.5)

	regulated, err := RegulateInputs(chain, referenceframe.FloatsToInputs([]float64{-1.5, 4}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, regulated[0].Value, test.ShouldEqual, -1.5)
	test.That(t, regulated[1].Value, test.ShouldAlmostEqual, 4-2*math.Pi)

	regulated, err = RegulateInputs(chain, referenceframe.FloatsToInputs([]float64{0, 1}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, regulated[1].Value, test.ShouldEqual, 1.)

	_, err = RegulateInputs(chain, nil)
	test.That(t, err, test.ShouldNotBeNil)
}
