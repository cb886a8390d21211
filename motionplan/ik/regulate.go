package ik

import (
	"math"

	"github.com/robotsim/nikopt/referenceframe"
	"github.com/robotsim/nikopt/utils"
)

// CheckJointRanges flags every degree of freedom whose value lies outside its limits and returns a copy of the
// inputs with those values dragged to the middle of their range. Revolute joints spanning a full revolution
// wrap around and are never flagged.
func CheckJointRanges(chain referenceframe.KinematicChain, inputs []referenceframe.Input) ([]bool, []referenceframe.Input, error) {
	limits := chain.DoF()
	if len(inputs) != len(limits) {
		return nil, nil, referenceframe.NewIncorrectDoFError(len(inputs), len(limits))
	}
	types := dofTypes(chain)

	outOfRange := make([]bool, len(inputs))
	dragged := referenceframe.CopyInputs(inputs)
	for i, in := range inputs {
		lim := limits[i]
		if isFullRevolution(types[i], lim) || lim.Contains(in.Value) {
			continue
		}
		outOfRange[i] = true
		dragged[i].Value = (lim.Min + lim.Max) / 2
	}
	return outOfRange, dragged, nil
}

// RegulateInputs wraps out-of-range values of full revolution revolute joints back into [min, min+2π).
// Other joints are returned unchanged.
func RegulateInputs(chain referenceframe.KinematicChain, inputs []referenceframe.Input) ([]referenceframe.Input, error) {
	limits := chain.DoF()
	if len(inputs) != len(limits) {
		return nil, referenceframe.NewIncorrectDoFError(len(inputs), len(limits))
	}
	types := dofTypes(chain)

	out := referenceframe.CopyInputs(inputs)
	for i, in := range inputs {
		lim := limits[i]
		if isFullRevolution(types[i], lim) && !lim.Contains(in.Value) {
			out[i].Value = utils.WrapAngle(in.Value, lim.Min)
		}
	}
	return out, nil
}

func isFullRevolution(jType referenceframe.JointType, lim referenceframe.Limit) bool {
	return jType == referenceframe.RevoluteJoint && lim.Range() >= 2*math.Pi
}

func dofTypes(chain referenceframe.KinematicChain) []referenceframe.JointType {
	types := make([]referenceframe.JointType, len(chain.DoF()))
	for _, jp := range chain.Joints() {
		if jp.DoFIndex >= 0 {
			types[jp.DoFIndex] = jp.Type
		}
	}
	return types
}
