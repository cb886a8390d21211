package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/gonum/mat"

	"github.com/robotsim/nikopt/motionplan/ik"
	"github.com/robotsim/nikopt/referenceframe"
	"github.com/robotsim/nikopt/spatialmath"
	"github.com/robotsim/nikopt/utils"
)

var twistRows = []string{"vx", "vy", "vz", "wx", "wy", "wz"}

func printSolution(
	c *cli.Context,
	chain referenceframe.KinematicChain,
	opts *ik.SolverOptions,
	sol *ik.Solution,
	targets []spatialmath.Pose,
	endpoints []ik.Endpoint,
) error {
	config := sol.Configuration
	if c.Bool(flagRegulate) {
		regulated, err := ik.RegulateInputs(chain, config)
		if err != nil {
			return err
		}
		config = regulated
	}
	if err := chain.ForwardKinematics(config); err != nil {
		return err
	}
	outOfRange, _, err := ik.CheckJointRanges(chain, config)
	if err != nil {
		return err
	}
	weights := ik.JointLimitWeights(config, chain.DoF(), opts.WLNRatio, opts.WeightFloor)

	w := c.App.Writer
	fmt.Fprintf(w, "status: %s, iterations: %d, restarts: %d, error norm: %.3g\n",
		sol.Status, sol.Iterations, sol.Restarts, sol.ErrorNorm)
	fmt.Fprintln(w, configurationTable(chain, config, outOfRange, weights))

	poses, err := ik.EndpointPoses(chain, endpoints[:len(targets)])
	if err != nil {
		return err
	}
	fmt.Fprintln(w, endpointTable(endpoints, poses, targets))
	return nil
}

// configurationTable prints each degree of freedom with its limits and joint limit weight.
func configurationTable(
	chain referenceframe.KinematicChain,
	config []referenceframe.Input,
	outOfRange []bool,
	weights []float64,
) string {
	types := make([]referenceframe.JointType, len(config))
	for _, jp := range chain.Joints() {
		if jp.DoFIndex >= 0 {
			types[jp.DoFIndex] = jp.Type
		}
	}
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Joint", "Type", "Value", "Min", "Max", "Weight", "In Range"})
	for i, name := range dofNames(chain) {
		lim := chain.DoF()[i]
		t.AppendRow([]interface{}{
			fmt.Sprintf("%d", i),
			name,
			string(types[i]),
			fmt.Sprintf("%.6f", config[i].Value),
			fmt.Sprintf("%.4f", lim.Min),
			fmt.Sprintf("%.4f", lim.Max),
			fmt.Sprintf("%.4g", weights[i]),
			fmt.Sprintf("%t", !outOfRange[i]),
		})
	}
	return t.Render()
}

// endpointTable prints where each endpoint ended up and how far it is from its target.
func endpointTable(endpoints []ik.Endpoint, poses, targets []spatialmath.Pose) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Endpoint", "Translation", "Orientation", "Position Error", "Orientation Error (deg)"})
	for i, pose := range poses {
		pt := pose.Point()
		aa := pose.Orientation().AxisAngles()
		t.AppendRow([]interface{}{
			endpoints[i].Joint,
			fmt.Sprintf("X:%.4f, Y:%.4f, Z:%.4f", pt.X, pt.Y, pt.Z),
			fmt.Sprintf("Axis:(%.3f, %.3f, %.3f), Theta:%.2f", aa.RX, aa.RY, aa.RZ, utils.RadToDeg(aa.Theta)),
			fmt.Sprintf("%.3g", ik.PositionDist(pose, targets[i])),
			fmt.Sprintf("%.3g", ik.OrientDist(pose.Orientation(), targets[i].Orientation())),
		})
	}
	return t.Render()
}

// jacobianTable prints the Jacobian with one labeled row per twist component of each endpoint.
func jacobianTable(chain referenceframe.KinematicChain, endpoints []ik.Endpoint, jac mat.Matrix) string {
	header := table.Row{"Row"}
	for _, name := range dofNames(chain) {
		header = append(header, name)
	}
	t := table.NewWriter()
	t.AppendHeader(header)

	rows, cols := jac.Dims()
	for r := 0; r < rows; r++ {
		row := table.Row{fmt.Sprintf("%s.%s", endpoints[r/6].Joint, twistRows[r%6])}
		for col := 0; col < cols; col++ {
			row = append(row, fmt.Sprintf("%.4f", jac.At(r, col)))
		}
		t.AppendRow(row)
	}
	return t.Render()
}

// ellipsoidTable prints the translational manipulability ellipsoid axes, shortest first.
func ellipsoidTable(endpoint ik.Endpoint, axes mat.Matrix) string {
	t := table.NewWriter()
	t.SetTitle("%s translational ellipsoid", endpoint.Joint)
	t.AppendHeader(table.Row{"Axis", "Length", "X", "Y", "Z"})
	_, cols := axes.Dims()
	for j := 0; j < cols; j++ {
		axis := mat.Col(nil, j, axes)
		t.AppendRow([]interface{}{
			fmt.Sprintf("%d", j),
			fmt.Sprintf("%.4f", mat.Norm(mat.NewVecDense(3, axis), 2)),
			fmt.Sprintf("%.4f", axis[0]),
			fmt.Sprintf("%.4f", axis[1]),
			fmt.Sprintf("%.4f", axis[2]),
		})
	}
	return t.Render()
}
