package spatialmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// RotationMatrix is a 3x3 orthonormal matrix with determinant 1 describing an orientation.
type RotationMatrix struct {
	mat mgl64.Mat3
}

// NewIdentityRotation returns the rotation matrix representing no rotation.
func NewIdentityRotation() *RotationMatrix {
	return &RotationMatrix{mgl64.Ident3()}
}

// NewRotationMatrix creates a rotation matrix from nine row-major values, rejecting inputs that are not a
// proper rotation.
func NewRotationMatrix(rowMajor []float64) (*RotationMatrix, error) {
	if len(rowMajor) != 9 {
		return nil, errors.Errorf("rotation matrix needs 9 values, got %d", len(rowMajor))
	}
	rm := NewRotationMatrixFromRows(
		r3.Vector{X: rowMajor[0], Y: rowMajor[1], Z: rowMajor[2]},
		r3.Vector{X: rowMajor[3], Y: rowMajor[4], Z: rowMajor[5]},
		r3.Vector{X: rowMajor[6], Y: rowMajor[7], Z: rowMajor[8]},
	)
	if !rm.mat.Mul3(rm.mat.Transpose()).ApproxEqualThreshold(mgl64.Ident3(), 1e-6) {
		return nil, errors.New("rotation matrix is not orthonormal")
	}
	if math.Abs(rm.mat.Det()-1) > 1e-6 {
		return nil, errors.Errorf("rotation matrix determinant is %f, not 1", rm.mat.Det())
	}
	return rm, nil
}

// NewRotationMatrixFromRows builds a rotation matrix from its rows without validating it.
func NewRotationMatrixFromRows(row0, row1, row2 r3.Vector) *RotationMatrix {
	return &RotationMatrix{mgl64.Mat3FromRows(toVec3(row0), toVec3(row1), toVec3(row2))}
}

// RotationAboutAxis returns the rotation of theta radians about the given axis, which need not be normalized.
func RotationAboutAxis(axis r3.Vector, theta float64) *RotationMatrix {
	if axis.Norm() == 0 {
		return NewIdentityRotation()
	}
	return &RotationMatrix{mgl64.QuatRotate(theta, toVec3(axis.Normalize())).Mat4().Mat3()}
}

// At returns the value at the given row and column.
func (rm *RotationMatrix) At(row, col int) float64 {
	return rm.mat.At(row, col)
}

// Row returns a row of the matrix.
func (rm *RotationMatrix) Row(row int) r3.Vector {
	return r3.Vector{X: rm.mat.At(row, 0), Y: rm.mat.At(row, 1), Z: rm.mat.At(row, 2)}
}

// Col returns a column of the matrix, i.e. the image of a unit axis.
func (rm *RotationMatrix) Col(col int) r3.Vector {
	return r3.Vector{X: rm.mat.At(0, col), Y: rm.mat.At(1, col), Z: rm.mat.At(2, col)}
}

// Mul returns rm·other.
func (rm *RotationMatrix) Mul(other *RotationMatrix) *RotationMatrix {
	return &RotationMatrix{rm.mat.Mul3(other.mat)}
}

// Transpose returns the transpose, which for a rotation is also its inverse.
func (rm *RotationMatrix) Transpose() *RotationMatrix {
	return &RotationMatrix{rm.mat.Transpose()}
}

// Rotate applies the rotation to a vector.
func (rm *RotationMatrix) Rotate(v r3.Vector) r3.Vector {
	return fromVec3(rm.mat.Mul3x1(toVec3(v)))
}

// Trace returns the sum of the diagonal.
func (rm *RotationMatrix) Trace() float64 {
	return rm.mat.Trace()
}

// RotationMatrix returns itself, satisfying Orientation.
func (rm *RotationMatrix) RotationMatrix() *RotationMatrix {
	return rm
}

// AxisAngles returns the orientation in axis angle representation.
func (rm *RotationMatrix) AxisAngles() *R4AA {
	return R3ToR4(AngularDelta(NewIdentityRotation(), rm))
}

// Quaternion returns orientation in quaternion representation.
func (rm *RotationMatrix) Quaternion() quat.Number {
	q := mgl64.Mat4ToQuat(rm.mat.Mat4())
	return quat.Number{Real: q.W, Imag: q.V[0], Jmag: q.V[1], Kmag: q.V[2]}
}

// Dense returns a gonum copy of the matrix.
func (rm *RotationMatrix) Dense() *mat.Dense {
	d := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d.Set(i, j, rm.mat.At(i, j))
		}
	}
	return d
}

// RowMajor returns the nine entries of the matrix in row-major order.
func (rm *RotationMatrix) RowMajor() []float64 {
	out := make([]float64, 0, 9)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out = append(out, rm.mat.At(i, j))
		}
	}
	return out
}

func (rm *RotationMatrix) String() string {
	return fmt.Sprintf("%v", rm.RowMajor())
}

// RotationMatrixAlmostEqual reports whether every entry of the two matrices differs by at most epsilon.
func RotationMatrixAlmostEqual(a, b *RotationMatrix, epsilon float64) bool {
	return a.mat.ApproxEqualThreshold(b.mat, epsilon)
}

func toVec3(v r3.Vector) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromVec3(v mgl64.Vec3) r3.Vector {
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}
