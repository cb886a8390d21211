package ik

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/robotsim/nikopt/referenceframe"
)

// Manipulability returns sqrt(det(J·Jᵀ)) for the chain's current state. Values near zero mean the chain is close
// to a singularity.
func Manipulability(chain referenceframe.KinematicChain, endpoints []Endpoint) (float64, error) {
	jac, err := Jacobian(chain, endpoints)
	if err != nil {
		return 0, err
	}
	return ManipulabilityIndex(jac), nil
}

// ManipulabilityIndex returns sqrt(det(J·Jᵀ)) of a Jacobian, reporting 0 when round-off makes the determinant negative.
func ManipulabilityIndex(jac mat.Matrix) float64 {
	var jjt mat.Dense
	jjt.Mul(jac, jac.T())
	det := mat.Det(&jjt)
	if det <= 0 {
		return 0
	}
	return math.Sqrt(det)
}

// ManipulabilityEllipsoid returns the axes of the translational manipulability ellipsoid of the first endpoint
// as the columns of a 3x3 matrix, each eigenvector of Jv·Jvᵀ scaled by the square root of its eigenvalue.
func ManipulabilityEllipsoid(chain referenceframe.KinematicChain, endpoints []Endpoint) (*mat.Dense, error) {
	jac, err := Jacobian(chain, endpoints)
	if err != nil {
		return nil, err
	}
	return EllipsoidAxes(jac)
}

// EllipsoidAxes computes the translational ellipsoid axes of a Jacobian. Columns are ordered by ascending
// eigenvalue.
func EllipsoidAxes(jac mat.Matrix) (*mat.Dense, error) {
	_, cols := jac.Dims()
	jv := mat.DenseCopyOf(jac).Slice(0, 3, 0, cols)

	var block mat.Dense
	block.Mul(jv, jv.T())
	sym := mat.NewSymDense(3, nil)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			sym.SetSym(i, j, block.At(i, j))
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(sym, true); !ok {
		return nil, errors.New("eigen decomposition of the translational block failed")
	}
	values := eig.Values(nil)
	var axes mat.Dense
	eig.VectorsTo(&axes)
	for j, v := range values {
		scale := math.Sqrt(math.Max(v, 0))
		for i := 0; i < 3; i++ {
			axes.Set(i, j, axes.At(i, j)*scale)
		}
	}
	return &axes, nil
}
