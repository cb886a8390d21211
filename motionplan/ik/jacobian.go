package ik

import (
	"gonum.org/v1/gonum/mat"

	"github.com/robotsim/nikopt/referenceframe"
	"github.com/robotsim/nikopt/spatialmath"
)

// Jacobian returns the geometric Jacobian of the chain's current state, 6 rows per endpoint stacked in endpoint
// order and one column per degree of freedom. The first three rows of each block are linear velocity, the last
// three angular velocity.
func Jacobian(chain referenceframe.KinematicChain, endpoints []Endpoint) (*mat.Dense, error) {
	resolved, err := resolveEndpoints(chain, endpoints, len(endpoints))
	if err != nil {
		return nil, err
	}
	joints := chain.Joints()
	return jacobian(joints, len(chain.DoF()), resolved, endpointPoses(joints, resolved)), nil
}

// jacobian builds the stacked Jacobian given the tool poses. Only moving joints up to and including an
// endpoint's joint contribute to its block.
func jacobian(joints []referenceframe.JointPose, dof int, endpoints []resolvedEndpoint, tools []spatialmath.Pose) *mat.Dense {
	jac := mat.NewDense(6*len(endpoints), dof, nil)
	for k, ep := range endpoints {
		row := 6 * k
		tcp := tools[k].Point()
		for _, jp := range joints[:ep.jointIndex+1] {
			col := jp.DoFIndex
			switch jp.Type {
			case referenceframe.RevoluteJoint:
				lin := jp.Axis.Cross(tcp.Sub(jp.Position))
				setColumn3(jac, row, col, lin.X, lin.Y, lin.Z)
				setColumn3(jac, row+3, col, jp.Axis.X, jp.Axis.Y, jp.Axis.Z)
			case referenceframe.PrismaticJoint:
				setColumn3(jac, row, col, jp.Axis.X, jp.Axis.Y, jp.Axis.Z)
			case referenceframe.FixedJoint:
			}
		}
	}
	return jac
}

func setColumn3(m *mat.Dense, row, col int, x, y, z float64) {
	m.Set(row, col, x)
	m.Set(row+1, col, y)
	m.Set(row+2, col, z)
}
