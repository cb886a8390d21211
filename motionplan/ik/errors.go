package ik

import "github.com/pkg/errors"

var (
	// ErrOutOfReach is returned when a target lies farther from the chain base than the configured reach.
	ErrOutOfReach = errors.New("target is out of reach")

	// ErrLocalMinimum is returned when the error norm stagnates and the local minima policy does not accept it.
	ErrLocalMinimum = errors.New("solver stagnated in a local minimum")

	// ErrMaxIterationsExceeded is returned when the solver neither converges nor stagnates within the iteration cap.
	ErrMaxIterationsExceeded = errors.New("solver exceeded the maximum number of iterations")

	// ErrInvalidEndpointSpec is returned when targets and endpoints cannot be matched against the chain.
	ErrInvalidEndpointSpec = errors.New("invalid endpoint specification")
)
