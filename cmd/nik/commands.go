package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/robotsim/nikopt/logging"
	"github.com/robotsim/nikopt/motionplan/ik"
	"github.com/robotsim/nikopt/referenceframe"
	"github.com/robotsim/nikopt/spatialmath"
	"github.com/robotsim/nikopt/utils"
)

func solveAction(c *cli.Context, logger logging.Logger) error {
	chain, endpoints, start, err := setup(c, flagStart)
	if err != nil {
		return err
	}
	current, err := ik.EndpointPoses(chain, endpoints)
	if err != nil {
		return err
	}
	targets, err := parsePoses(c.Float64Slice(flagPosition), c.Float64Slice(flagOrientation), current)
	if err != nil {
		return err
	}
	opts, trace, err := loadOptions(c)
	if err != nil {
		return err
	}

	var solver ik.Solver
	if nCPU := c.Int(flagParallel); nCPU > 1 {
		solver, err = ik.CreateCombinedIKSolver(chain, logger, nCPU, opts)
	} else {
		solver, err = ik.NewDLSSolver(chain, logger, opts)
	}
	if err != nil {
		return err
	}

	sol, solveErr := solver.Solve(targets, start, endpoints)
	if err := writeTrace(c, trace, chain); err != nil {
		return err
	}
	if solveErr != nil {
		return solveErr
	}
	return printSolution(c, chain, opts, sol, targets, endpoints)
}

func relativeAction(c *cli.Context, logger logging.Logger) error {
	chain, endpoints, _, err := setup(c, flagStart)
	if err != nil {
		return err
	}
	deltaPos, deltaRot, err := parseDeltas(c.Float64Slice(flagDelta), c.Float64Slice(flagRotate))
	if err != nil {
		return err
	}
	opts, trace, err := loadOptions(c)
	if err != nil {
		return err
	}
	solver, err := ik.NewDLSSolver(chain, logger, opts)
	if err != nil {
		return err
	}

	targets, err := ik.RelativeTargets(chain, deltaPos, deltaRot, endpoints)
	if err != nil {
		return err
	}

	sol, solveErr := solver.SolveRelative(deltaPos, deltaRot, endpoints)
	if err := writeTrace(c, trace, chain); err != nil {
		return err
	}
	if solveErr != nil {
		return solveErr
	}
	return printSolution(c, chain, opts, sol, targets, endpoints)
}

func jacobianAction(c *cli.Context) error {
	chain, endpoints, _, err := setup(c, flagConfig)
	if err != nil {
		return err
	}
	jac, err := ik.Jacobian(chain, endpoints)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, jacobianTable(chain, endpoints, jac))
	return nil
}

func manipulabilityAction(c *cli.Context) error {
	chain, endpoints, _, err := setup(c, flagConfig)
	if err != nil {
		return err
	}
	jac, err := ik.Jacobian(chain, endpoints)
	if err != nil {
		return err
	}
	axes, err := ik.EllipsoidAxes(jac)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "manipulability: %.6g\n", ik.ManipulabilityIndex(jac))
	fmt.Fprintln(c.App.Writer, ellipsoidTable(endpoints[0], axes))
	return nil
}

// setup loads the chain, resolves the endpoint flags, and evaluates forward kinematics at the configuration
// given by configFlag.
func setup(c *cli.Context, configFlag string) (*referenceframe.ChainState, []ik.Endpoint, []referenceframe.Input, error) {
	chain, err := referenceframe.ParseChainJSONFile(c.String(flagChain))
	if err != nil {
		return nil, nil, nil, err
	}

	names := c.StringSlice(flagEndpoint)
	if len(names) == 0 {
		joints := chain.Joints()
		if len(joints) == 0 {
			return nil, nil, nil, errors.Errorf("chain %q has no joints", chain.Name())
		}
		names = []string{joints[len(joints)-1].Name}
	}
	endpoints := make([]ik.Endpoint, 0, len(names))
	for _, name := range names {
		endpoints = append(endpoints, ik.NewEndpoint(name))
	}

	inputs := chain.HomeInputs()
	if vals := c.Float64Slice(configFlag); len(vals) > 0 {
		inputs = referenceframe.FloatsToInputs(vals)
	}
	if err := chain.ForwardKinematics(inputs); err != nil {
		return nil, nil, nil, errors.Wrapf(err, "--%s", configFlag)
	}
	return chain, endpoints, inputs, nil
}

// loadOptions reads solver options from the options file and policy flag. A trace is attached when a trace
// file was requested.
func loadOptions(c *cli.Context) (*ik.SolverOptions, *ik.Trace, error) {
	attrs := map[string]interface{}{}
	if path := c.String(flagOptions); path != "" {
		//nolint:gosec
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "failed to read options file %q", path)
		}
		if err := json.Unmarshal(data, &attrs); err != nil {
			return nil, nil, errors.Wrapf(err, "failed to unmarshal options file %q", path)
		}
	}
	if c.IsSet(flagPolicy) {
		attrs["local_minima"] = c.String(flagPolicy)
	}
	opts, err := ik.NewSolverOptionsFromAttributes(attrs)
	if err != nil {
		return nil, nil, err
	}
	var trace *ik.Trace
	if c.String(flagTrace) != "" {
		trace = ik.NewTrace()
		opts.Trace = trace
	}
	return opts, trace, nil
}

func writeTrace(c *cli.Context, trace *ik.Trace, chain referenceframe.KinematicChain) error {
	if trace == nil {
		return nil
	}
	path := c.String(flagTrace)
	if err := renderTrace(trace, dofNames(chain), path); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "trace written to %s\n", path)
	return nil
}

// parsePoses builds one pose per three position values. Orientations are axis angles in degrees, four values
// per pose; when omitted each pose keeps the orientation in defaults at the same index.
func parsePoses(positions, orientations []float64, defaults []spatialmath.Pose) ([]spatialmath.Pose, error) {
	if len(positions) == 0 || len(positions)%3 != 0 {
		return nil, errors.Errorf("positions need three values per target, got %d values", len(positions))
	}
	n := len(positions) / 3
	if len(orientations) != 0 && len(orientations) != 4*n {
		return nil, errors.Errorf("orientations need four values per target, got %d values for %d targets", len(orientations), n)
	}

	poses := make([]spatialmath.Pose, 0, n)
	for i := 0; i < n; i++ {
		pt := r3.Vector{X: positions[3*i], Y: positions[3*i+1], Z: positions[3*i+2]}
		var o spatialmath.Orientation
		switch {
		case len(orientations) > 0:
			o = axisAngleDegrees(orientations[4*i:])
		case i < len(defaults):
			o = defaults[i].Orientation()
		}
		poses = append(poses, spatialmath.NewPose(pt, o))
	}
	return poses, nil
}

// parseDeltas splits flat position and rotation deltas into one entry per endpoint. Missing rotations are nil.
func parseDeltas(positions, rotations []float64) ([]r3.Vector, []*spatialmath.RotationMatrix, error) {
	if len(positions) == 0 || len(positions)%3 != 0 {
		return nil, nil, errors.Errorf("deltas need three values per endpoint, got %d values", len(positions))
	}
	n := len(positions) / 3
	if len(rotations) != 0 && len(rotations) != 4*n {
		return nil, nil, errors.Errorf("rotations need four values per endpoint, got %d values for %d endpoints", len(rotations), n)
	}
	deltaPos := make([]r3.Vector, 0, n)
	deltaRot := make([]*spatialmath.RotationMatrix, n)
	for i := 0; i < n; i++ {
		deltaPos = append(deltaPos, r3.Vector{X: positions[3*i], Y: positions[3*i+1], Z: positions[3*i+2]})
		if len(rotations) > 0 {
			deltaRot[i] = axisAngleDegrees(rotations[4*i:]).RotationMatrix()
		}
	}
	return deltaPos, deltaRot, nil
}

func axisAngleDegrees(vals []float64) *spatialmath.R4AA {
	return &spatialmath.R4AA{RX: vals[0], RY: vals[1], RZ: vals[2], Theta: utils.DegToRad(vals[3])}
}

func dofNames(chain referenceframe.KinematicChain) []string {
	names := make([]string, len(chain.DoF()))
	for _, jp := range chain.Joints() {
		if jp.DoFIndex >= 0 {
			names[jp.DoFIndex] = jp.Name
		}
	}
	return names
}
