package ik

import (
	"math/rand"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"github.com/robotsim/nikopt/logging"
	"github.com/robotsim/nikopt/referenceframe"
	"github.com/robotsim/nikopt/spatialmath"
)

// CombinedIK runs several damped least squares solvers in parallel from different starting configurations,
// each on its own clone of the chain.
type CombinedIK struct {
	chain  referenceframe.KinematicChain
	logger logging.Logger
	opts   *SolverOptions
	nCPU   int
}

// CreateCombinedIKSolver creates a combined parallel IK solver with nCPU workers. Worker 0 starts from the
// caller's configuration, the rest from random configurations, and each is given a different random seed.
func CreateCombinedIKSolver(
	chain referenceframe.KinematicChain,
	logger logging.Logger,
	nCPU int,
	opts *SolverOptions,
) (*CombinedIK, error) {
	if nCPU < 1 {
		nCPU = 1
	}
	if opts == nil {
		opts = NewBasicSolverOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewBlankLogger("combined")
	}
	logger.Debugf("CreateCombinedIKSolver nCPU: %d", nCPU)
	return &CombinedIK{chain: chain, logger: logger, opts: opts, nCPU: nCPU}, nil
}

type workerResult struct {
	solution *Solution
	err      error
}

// Solve runs every worker to completion. The converged solution with the fewest iterations wins; failing that,
// the accepted local minimum with the lowest error norm. If no worker succeeds the errors are combined.
func (ik *CombinedIK) Solve(
	targets []spatialmath.Pose,
	start []referenceframe.Input,
	endpoints []Endpoint,
) (*Solution, error) {
	// fail fast on problems every worker would hit
	if _, err := resolveEndpoints(ik.chain, endpoints, len(targets)); err != nil {
		return nil, err
	}
	if err := checkReach(ik.chain.BasePose(), targets, ik.opts.MaxReach); err != nil {
		return nil, err
	}
	if start == nil {
		start = ik.chain.HomeInputs()
	}

	solvers := make([]*DLSSolver, 0, ik.nCPU)
	starts := make([][]referenceframe.Input, 0, ik.nCPU)
	for i := 0; i < ik.nCPU; i++ {
		opts := ik.opts.clone()
		opts.RandomSeed = ik.opts.RandomSeed + int64(i)
		seed := start
		if i == 0 {
			opts.Trace = ik.opts.Trace
		} else {
			//nolint:gosec
			seed = ik.chain.RandomInputs(rand.New(rand.NewSource(opts.RandomSeed)))
		}
		solver, err := NewDLSSolver(ik.chain.Clone(), ik.logger.Sublogger("worker"), opts)
		if err != nil {
			return nil, err
		}
		solvers = append(solvers, solver)
		starts = append(starts, seed)
	}

	results := make([]workerResult, len(solvers))
	var activeSolvers sync.WaitGroup
	for i, solver := range solvers {
		thisSolver := solver
		idx := i
		activeSolvers.Add(1)
		utils.PanicCapturingGo(func() {
			defer activeSolvers.Done()
			sol, err := thisSolver.Solve(targets, starts[idx], endpoints)
			results[idx] = workerResult{solution: sol, err: err}
		})
	}
	activeSolvers.Wait()

	return ik.pick(results)
}

func (ik *CombinedIK) pick(results []workerResult) (*Solution, error) {
	var best *Solution
	var solveErrors error
	for i, res := range results {
		switch {
		case res.err != nil:
			solveErrors = multierr.Append(solveErrors, errors.Wrapf(res.err, "worker %d", i))
		case res.solution == nil:
			solveErrors = multierr.Append(solveErrors, errors.Errorf("worker %d produced no result", i))
		case best == nil || better(res.solution, best):
			best = res.solution
		}
	}
	if best == nil {
		return nil, solveErrors
	}
	ik.logger.Debugw("combined solve finished", "status", best.Status.String(), "iterations", best.Iterations,
		"failed_workers", len(multierr.Errors(solveErrors)))
	return best, nil
}

func better(a, b *Solution) bool {
	if a.Status != b.Status {
		return a.Status == StatusConverged
	}
	if a.Status == StatusConverged {
		return a.Iterations < b.Iterations
	}
	return a.ErrorNorm < b.ErrorNorm
}
