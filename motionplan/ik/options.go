package ik

import (
	"math"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// default values for the damped least squares solver.
const (
	defaultMaxIterations       = 100
	defaultGoalThreshold       = 1e-6
	defaultStagnationThreshold = 1e-12
	defaultStepScale           = 0.1
	defaultDampingGain         = 1e-3
	defaultDampingFloor        = 1e-6
	defaultWLNRatio            = 0.15
	defaultWeightFloor         = 1e-6

	defaultPositionWeight = 0.628
	defaultMaxReach       = 2.0
)

var defaultOrientationWeight = 1 / (math.Pi * math.Pi)

// LocalMinimaPolicy decides what the solver does when the error norm stops changing.
type LocalMinimaPolicy string

// Supported local minima policies. Any other value behaves like LocalMinimaEnd.
const (
	LocalMinimaAccept        = LocalMinimaPolicy("accept")
	LocalMinimaRandomRestart = LocalMinimaPolicy("randomrestart")
	LocalMinimaEnd           = LocalMinimaPolicy("end")
)

// SolverOptions holds the tuning of the damped least squares solver.
type SolverOptions struct {
	// Hard cap on solver iterations, restarts included.
	MaxIterations int `json:"max_iterations"`

	// A weighted squared error norm below this is considered converged.
	GoalThreshold float64 `json:"goal_threshold"`

	// Consecutive error norms closer than this mean the solver is stuck.
	StagnationThreshold float64 `json:"stagnation_threshold"`

	// Scale applied to the primary task step.
	StepScale float64 `json:"step_scale"`

	// Damping is DampingGain * error norm + DampingFloor.
	DampingGain  float64 `json:"damping_gain"`
	DampingFloor float64 `json:"damping_floor"`

	// Fraction of each joint's range, at either end, over which the joint is slowed down.
	WLNRatio float64 `json:"wln_ratio"`

	// Smallest joint weight, used at and beyond the hard limits.
	WeightFloor float64 `json:"weight_floor"`

	PositionWeight    float64 `json:"position_weight"`
	OrientationWeight float64 `json:"orientation_weight"`

	// Targets farther than this from the chain base are rejected up front. Set <= 0 to disable.
	MaxReach float64 `json:"max_reach"`

	LocalMinima LocalMinimaPolicy `json:"local_minima"`

	// Seed for random restarts.
	RandomSeed int64 `json:"random_seed"`

	// After a random restart, steer the null space toward the new sample rather than the caller's start.
	ResetReferenceOnRestart bool `json:"reset_reference_on_restart"`

	// If set, the solver appends a record per iteration.
	Trace *Trace `json:"-"`
}

// NewBasicSolverOptions returns the default solver options.
func NewBasicSolverOptions() *SolverOptions {
	return &SolverOptions{
		MaxIterations:           defaultMaxIterations,
		GoalThreshold:           defaultGoalThreshold,
		StagnationThreshold:     defaultStagnationThreshold,
		StepScale:               defaultStepScale,
		DampingGain:             defaultDampingGain,
		DampingFloor:            defaultDampingFloor,
		WLNRatio:                defaultWLNRatio,
		WeightFloor:             defaultWeightFloor,
		PositionWeight:          defaultPositionWeight,
		OrientationWeight:       defaultOrientationWeight,
		MaxReach:                defaultMaxReach,
		LocalMinima:             LocalMinimaAccept,
		ResetReferenceOnRestart: true,
	}
}

// NewSolverOptionsFromAttributes overlays a loosely typed attribute map, e.g. from a JSON config file, on the
// default options. Unknown keys are rejected.
func NewSolverOptionsFromAttributes(attrs map[string]interface{}) (*SolverOptions, error) {
	opts := NewBasicSolverOptions()
	if len(attrs) == 0 {
		return opts, nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      opts,
		TagName:     "json",
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attrs); err != nil {
		return nil, errors.Wrap(err, "failed to decode solver options")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// Validate reports every out-of-range option.
func (opts *SolverOptions) Validate() error {
	var err error
	if opts.MaxIterations <= 0 {
		err = multierr.Append(err, errors.Errorf("max_iterations must be positive, got %d", opts.MaxIterations))
	}
	if opts.GoalThreshold <= 0 {
		err = multierr.Append(err, errors.Errorf("goal_threshold must be positive, got %g", opts.GoalThreshold))
	}
	if opts.StagnationThreshold < 0 {
		err = multierr.Append(err, errors.Errorf("stagnation_threshold cannot be negative, got %g", opts.StagnationThreshold))
	}
	if opts.StepScale <= 0 {
		err = multierr.Append(err, errors.Errorf("step_scale must be positive, got %g", opts.StepScale))
	}
	if opts.DampingGain < 0 {
		err = multierr.Append(err, errors.Errorf("damping_gain cannot be negative, got %g", opts.DampingGain))
	}
	if opts.DampingFloor <= 0 {
		err = multierr.Append(err, errors.Errorf("damping_floor must be positive, got %g", opts.DampingFloor))
	}
	if opts.WLNRatio < 0 || opts.WLNRatio >= 1 {
		err = multierr.Append(err, errors.Errorf("wln_ratio must be in [0, 1), got %g", opts.WLNRatio))
	}
	if opts.WeightFloor <= 0 || opts.WeightFloor > 1 {
		err = multierr.Append(err, errors.Errorf("weight_floor must be in (0, 1], got %g", opts.WeightFloor))
	}
	if opts.PositionWeight <= 0 {
		err = multierr.Append(err, errors.Errorf("position_weight must be positive, got %g", opts.PositionWeight))
	}
	if opts.OrientationWeight < 0 {
		err = multierr.Append(err, errors.Errorf("orientation_weight cannot be negative, got %g", opts.OrientationWeight))
	}
	return err
}

// clone returns a shallow copy of the options without the trace.
func (opts *SolverOptions) clone() *SolverOptions {
	cp := *opts
	cp.Trace = nil
	return &cp
}
