// Package ik contains a damped least squares inverse kinematics solver for serial chains, with weighted
// least norm joint limit avoidance and null space steering toward a reference configuration.
package ik

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/robotsim/nikopt/logging"
	"github.com/robotsim/nikopt/referenceframe"
	"github.com/robotsim/nikopt/spatialmath"
)

// Solver finds a configuration of a chain that places its endpoints at the target poses.
type Solver interface {
	// Solve starts from the given configuration, or the chain's home configuration if nil.
	Solve(targets []spatialmath.Pose, start []referenceframe.Input, endpoints []Endpoint) (*Solution, error)
}

// Status describes how a successful solve ended.
type Status int

const (
	// StatusConverged means the weighted error norm fell below the goal threshold.
	StatusConverged Status = iota
	// StatusLocalMinimum means the solver stagnated and the accept policy returned the best effort configuration.
	StatusLocalMinimum
)

func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusLocalMinimum:
		return "local_minimum"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Solution is the result of a successful solve.
type Solution struct {
	Configuration []referenceframe.Input
	Status        Status
	// Iterations is the number of iterations run before the solver stopped, restarts included.
	Iterations int
	ErrorNorm  float64
	Restarts   int
}

// DLSSolver is a damped least squares solver bound to one chain. The chain is only read; every solve works on a
// clone of it, so a DLSSolver may be used while other code holds the chain, but not from several goroutines
// concurrently with a chain that is itself being mutated.
type DLSSolver struct {
	chain  referenceframe.KinematicChain
	logger logging.Logger
	opts   *SolverOptions
}

// NewDLSSolver creates a solver for the chain. Nil options mean NewBasicSolverOptions; a nil logger discards output.
func NewDLSSolver(chain referenceframe.KinematicChain, logger logging.Logger, opts *SolverOptions) (*DLSSolver, error) {
	if chain == nil {
		return nil, errors.New("cannot create a solver without a chain")
	}
	if logger == nil {
		logger = logging.NewBlankLogger("dls")
	}
	if opts == nil {
		opts = NewBasicSolverOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &DLSSolver{chain: chain, logger: logger, opts: opts}, nil
}

// Options returns the options the solver was created with.
func (s *DLSSolver) Options() *SolverOptions {
	return s.opts
}

// Solve runs the damped least squares iteration toward the targets. Endpoints and reach are checked before any
// forward kinematics is evaluated, and the solver's chain is never modified.
func (s *DLSSolver) Solve(
	targets []spatialmath.Pose,
	start []referenceframe.Input,
	endpoints []Endpoint,
) (*Solution, error) {
	resolved, err := resolveEndpoints(s.chain, endpoints, len(targets))
	if err != nil {
		return nil, err
	}
	dof := len(s.chain.DoF())
	if dof == 0 {
		return nil, errors.Errorf("chain %q has no degrees of freedom", s.chain.Name())
	}
	if start == nil {
		start = s.chain.HomeInputs()
	}
	if len(start) != dof {
		return nil, referenceframe.NewIncorrectDoFError(len(start), dof)
	}
	if err := checkReach(s.chain.BasePose(), targets, s.opts.MaxReach); err != nil {
		return nil, err
	}

	work := s.chain.Clone()
	if err := work.ForwardKinematics(start); err != nil {
		return nil, err
	}
	return s.iterate(work, targets, referenceframe.InputsToFloats(start), resolved)
}

func checkReach(base spatialmath.Pose, targets []spatialmath.Pose, maxReach float64) error {
	if maxReach <= 0 {
		return nil
	}
	for i, target := range targets {
		if dist := target.Point().Distance(base.Point()); dist > maxReach {
			return errors.Wrapf(ErrOutOfReach, "target %d is %.4f from the base, max reach is %.4f", i, dist, maxReach)
		}
	}
	return nil
}

func (s *DLSSolver) iterate(
	work referenceframe.KinematicChain,
	targets []spatialmath.Pose,
	q []float64,
	endpoints []resolvedEndpoint,
) (*Solution, error) {
	opts := s.opts
	limits := work.DoF()
	taskWeights := TaskWeights(len(endpoints), opts.PositionWeight, opts.OrientationWeight)
	//nolint:gosec
	rSeed := rand.New(rand.NewSource(opts.RandomSeed))

	ref := append([]float64{}, q...)
	lastNorm := 0.
	errNorm := 0.
	restarts := 0

	for iter := 0; iter < opts.MaxIterations; iter++ {
		joints := work.Joints()
		tools := endpointPoses(joints, endpoints)
		errVec := TaskError(tools, targets)
		errNorm = WeightedSquaredNorm(errVec, taskWeights)
		s.logger.Debugw("dls iteration", "iteration", iter, "error_norm", errNorm)

		if errNorm < opts.GoalThreshold {
			s.record(IterationRecord{Iteration: iter, Event: EventConverged, Configuration: toInputs(q), ErrorNorm: errNorm})
			return &Solution{
				Configuration: toInputs(q),
				Status:        StatusConverged,
				Iterations:    iter,
				ErrorNorm:     errNorm,
				Restarts:      restarts,
			}, nil
		}

		if math.Abs(errNorm-lastNorm) < opts.StagnationThreshold {
			switch opts.LocalMinima {
			case LocalMinimaAccept:
				s.logger.Warnw("local minimum reached, accepting best effort configuration",
					"iteration", iter, "error_norm", errNorm)
				s.record(IterationRecord{Iteration: iter, Event: EventLocalMinimum, Configuration: toInputs(q), ErrorNorm: errNorm})
				return &Solution{
					Configuration: toInputs(q),
					Status:        StatusLocalMinimum,
					Iterations:    iter,
					ErrorNorm:     errNorm,
					Restarts:      restarts,
				}, nil
			case LocalMinimaRandomRestart:
				s.logger.Warnw("local minimum reached, restarting from a random configuration",
					"iteration", iter, "error_norm", errNorm)
				q = referenceframe.InputsToFloats(work.RandomInputs(rSeed))
				if opts.ResetReferenceOnRestart {
					ref = append(ref[:0], q...)
				}
				if err := work.ForwardKinematics(toInputs(q)); err != nil {
					return nil, err
				}
				restarts++
				s.record(IterationRecord{Iteration: iter, Event: EventRestart, Configuration: toInputs(q), ErrorNorm: errNorm})
				continue
			default:
				s.record(IterationRecord{
					Iteration: iter, Event: EventStagnationFailure, Configuration: toInputs(q), ErrorNorm: errNorm,
				})
				return nil, errors.Wrapf(ErrLocalMinimum, "error norm stalled at %g after %d iterations", errNorm, iter)
			}
		}

		jac := jacobian(joints, len(q), endpoints, tools)
		jointWeights := JointLimitWeights(toInputs(q), limits, opts.WLNRatio, opts.WeightFloor)
		damping := opts.DampingGain*errNorm + opts.DampingFloor
		jSharp, err := DampedPseudoInverse(jac, jointWeights, damping)
		if err != nil {
			return nil, errors.Wrapf(err, "iteration %d", iter)
		}

		var raw mat.VecDense
		raw.MulVec(jSharp, mat.NewVecDense(len(errVec), errVec))
		raw.ScaleVec(opts.StepScale, &raw)

		// joints held back by their limit weight are not pulled toward the reference either
		refDelta := make([]float64, len(q))
		floats.SubTo(refDelta, ref, q)
		floats.Mul(refDelta, jointWeights)
		var null mat.VecDense
		null.MulVec(NullSpaceProjector(jSharp, jac), mat.NewVecDense(len(refDelta), refDelta))

		rawDelta, nullDelta := vecData(&raw), vecData(&null)
		corrected := make([]float64, len(q))
		floats.AddTo(corrected, rawDelta, nullDelta)
		floats.Add(q, corrected)

		if err := work.ForwardKinematics(toInputs(q)); err != nil {
			return nil, err
		}
		s.record(IterationRecord{
			Iteration:      iter,
			Event:          EventStep,
			Configuration:  toInputs(q),
			ErrorNorm:      errNorm,
			RawDelta:       rawDelta,
			NullSpaceDelta: nullDelta,
			CorrectedDelta: corrected,
		})
		lastNorm = errNorm
	}

	s.record(IterationRecord{Iteration: opts.MaxIterations, Event: EventMaxIterations, Configuration: toInputs(q), ErrorNorm: errNorm})
	return nil, errors.Wrapf(ErrMaxIterationsExceeded, "no solution after %d iterations, last error norm %g", opts.MaxIterations, errNorm)
}

func (s *DLSSolver) record(rec IterationRecord) {
	if s.opts.Trace != nil {
		s.opts.Trace.add(rec)
	}
}

// DampedPseudoInverse returns the weighted damped pseudo-inverse W·Jᵀ·(J·W·Jᵀ + damping·I)⁻¹ of the Jacobian,
// where W is the diagonal of joint weights. The inverse is never formed; the damped system is solved directly.
func DampedPseudoInverse(jac mat.Matrix, jointWeights []float64, damping float64) (*mat.Dense, error) {
	rows, cols := jac.Dims()
	if len(jointWeights) != cols {
		return nil, errors.Errorf("got %d joint weights for a Jacobian with %d columns", len(jointWeights), cols)
	}
	wjt := mat.NewDense(cols, rows, nil)
	wjt.Apply(func(i, _ int, v float64) float64 { return jointWeights[i] * v }, jac.T())

	var damped mat.Dense
	damped.Mul(jac, wjt)
	for i := 0; i < rows; i++ {
		damped.Set(i, i, damped.At(i, i)+damping)
	}

	// damped is symmetric, so solving damped·x = (W·Jᵀ)ᵀ yields x = (W·Jᵀ·damped⁻¹)ᵀ
	var x mat.Dense
	if err := x.Solve(&damped, wjt.T()); err != nil {
		return nil, errors.Wrap(err, "failed to solve damped least squares system")
	}
	return mat.DenseCopyOf(x.T()), nil
}

// NullSpaceProjector returns I - J#·J, which maps joint velocities onto ones that leave the task unchanged.
func NullSpaceProjector(jSharp, jac mat.Matrix) *mat.Dense {
	var proj mat.Dense
	proj.Mul(jSharp, jac)
	proj.Scale(-1, &proj)
	n, _ := proj.Dims()
	for i := 0; i < n; i++ {
		proj.Set(i, i, proj.At(i, i)+1)
	}
	return &proj
}

func vecData(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}

func toInputs(q []float64) []referenceframe.Input {
	return referenceframe.FloatsToInputs(q)
}
