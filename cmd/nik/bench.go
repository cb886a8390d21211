package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/robotsim/nikopt/logging"
	"github.com/robotsim/nikopt/motionplan/ik"
	"github.com/robotsim/nikopt/referenceframe"
	"github.com/robotsim/nikopt/spatialmath"
)

const histogramBins = 10

// benchAction solves for the endpoint poses of randomly sampled configurations, which are reachable by
// construction, and reports the success rate, the total solve time and a histogram of iteration counts.
func benchAction(c *cli.Context, logger logging.Logger) error {
	chain, endpoints, start, err := setup(c, flagStart)
	if err != nil {
		return err
	}
	opts, _, err := loadOptions(c)
	if err != nil {
		return err
	}
	solver, err := ik.NewDLSSolver(chain, logger, opts)
	if err != nil {
		return err
	}

	trials := c.Int(flagTrials)
	if trials < 1 {
		return errors.Errorf("--%s must be at least 1, got %d", flagTrials, trials)
	}
	//nolint:gosec
	rSeed := rand.New(rand.NewSource(c.Int64(flagSeed)))
	sampler := chain.Clone()

	var iterations []float64
	failures := 0
	var total time.Duration
	for i := 0; i < trials; i++ {
		targets, err := sampleTargets(sampler, endpoints, rSeed)
		if err != nil {
			return err
		}
		tic := time.Now()
		sol, err := solver.Solve(targets, start, endpoints)
		total += time.Since(tic)
		if err != nil {
			logger.Debugw("bench trial failed", "trial", i, "error", err)
			failures++
			continue
		}
		iterations = append(iterations, float64(sol.Iterations))
	}

	w := c.App.Writer
	fmt.Fprintf(w, "solved %d of %d targets in %s\n", trials-failures, trials, total)
	if len(iterations) == 0 {
		return nil
	}
	fmt.Fprintln(w, "iterations:")
	return histogram.Fprint(w, histogram.Hist(histogramBins, iterations), histogram.Linear(40))
}

func sampleTargets(
	sampler referenceframe.KinematicChain,
	endpoints []ik.Endpoint,
	rSeed *rand.Rand,
) ([]spatialmath.Pose, error) {
	if err := sampler.ForwardKinematics(sampler.RandomInputs(rSeed)); err != nil {
		return nil, err
	}
	return ik.EndpointPoses(sampler, endpoints)
}
