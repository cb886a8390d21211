package referenceframe

import (
	"github.com/pkg/errors"
)

// NewIncorrectDoFError returns an error indicating that the number of inputs given to a chain does not match its DoF.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Errorf("number of inputs does not match frame DoF, expected %d but got %d", expected, actual)
}

// NewDuplicateJointError returns an error indicating that two joints share a name.
func NewDuplicateJointError(name string) error {
	return errors.Errorf("joint name %q is used more than once", name)
}

// NewUnsupportedJointTypeError returns an error indicating that the joint type is unknown.
func NewUnsupportedJointTypeError(jType string) error {
	return errors.Errorf("unsupported joint type detected: %q", jType)
}

// NewInvalidLimitError returns an error indicating that a joint's minimum is above its maximum.
func NewInvalidLimitError(name string, limit Limit) error {
	return errors.Errorf("joint %q has min %f greater than max %f", name, limit.Min, limit.Max)
}

// NewZeroAxisError returns an error indicating that a moving joint has no motion axis.
func NewZeroAxisError(name string) error {
	return errors.Errorf("joint %q has a zero motion axis", name)
}
