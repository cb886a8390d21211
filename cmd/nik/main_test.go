package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"github.com/robotsim/nikopt/spatialmath"
)

var xybotFile = filepath.Join("..", "..", "referenceframe", "testdata", "xybot.json")

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := newApp(&out, &errOut).Run(append([]string{"nik"}, args...))
	return out.String(), err
}

func writeOptions(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "options.json")
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)
	return path
}

func TestSolveCommand(t *testing.T) {
	options := writeOptions(t, `{"step_scale": 1, "max_reach": 20, "max_iterations": 50, "goal_threshold": 1e-12}`)
	tracePath := filepath.Join(t.TempDir(), "plots", "trace.png")

	out, err := runApp(t, "--chain", xybotFile, "solve",
		"--position", "5,10,0", "--options", options, "--trace", tracePath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "status: converged")
	test.That(t, out, test.ShouldContainSubstring, "5.000000")
	test.That(t, out, test.ShouldContainSubstring, "10.000000")
	test.That(t, out, test.ShouldContainSubstring, "trace written to")

	info, err := os.Stat(tracePath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, info.Size(), test.ShouldBeGreaterThan, 0)
}

func TestSolveCommandParallel(t *testing.T) {
	options := writeOptions(t, `{"step_scale": 1, "max_reach": 20}`)
	out, err := runApp(t, "--chain", xybotFile, "solve",
		"--position", "3,4,0", "--options", options, "--parallel", "3")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "status: converged")
}

func TestSolveCommandErrors(t *testing.T) {
	_, err := runApp(t, "--chain", xybotFile, "solve", "--position", "1,2")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "three values per target")

	options := writeOptions(t, `{"not_an_option": 1}`)
	_, err = runApp(t, "--chain", xybotFile, "solve", "--position", "1,2,0", "--options", options)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "failed to decode solver options")

	// default reach is far shorter than the XY bot's workspace
	_, err = runApp(t, "--chain", xybotFile, "solve", "--position", "5,10,0")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "out of reach")

	_, err = runApp(t, "--chain", xybotFile, "solve", "--position", "1,1,0", "--endpoint", "nope")
	test.That(t, err, test.ShouldNotBeNil)

	_, err = runApp(t, "--chain", "missing.json", "solve", "--position", "1,1,0")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRelativeCommand(t *testing.T) {
	options := writeOptions(t, `{"step_scale": 1, "max_reach": 20, "goal_threshold": 1e-12}`)
	out, err := runApp(t, "--chain", xybotFile, "relative",
		"--start", "1,1", "--delta", "2,3,0", "--options", options)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "status: converged")
	test.That(t, out, test.ShouldContainSubstring, "3.000000")
	test.That(t, out, test.ShouldContainSubstring, "4.000000")
}

func TestJacobianCommand(t *testing.T) {
	out, err := runApp(t, "--chain", xybotFile, "jacobian", "--config", "1,2")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "tcp.vx")
	test.That(t, out, test.ShouldContainSubstring, "tcp.wz")
	test.That(t, out, test.ShouldContainSubstring, "1.0000")

	_, err = runApp(t, "--chain", xybotFile, "jacobian", "--config", "1,2,3")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "number of inputs does not match frame DoF")
}

func TestManipulabilityCommand(t *testing.T) {
	out, err := runApp(t, "--chain", xybotFile, "manipulability")
	test.That(t, err, test.ShouldBeNil)
	// two prismatic joints cannot span a six dimensional twist
	test.That(t, out, test.ShouldContainSubstring, "manipulability: 0\n")
	test.That(t, out, test.ShouldContainSubstring, "translational ellipsoid")
}

func TestBenchCommand(t *testing.T) {
	options := writeOptions(t, `{"step_scale": 1, "max_reach": 0}`)
	out, err := runApp(t, "--chain", xybotFile, "bench", "--trials", "5", "--options", options)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "of 5 targets in")

	_, err = runApp(t, "--chain", xybotFile, "bench", "--trials", "0")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestParsePoses(t *testing.T) {
	defaults := []spatialmath.Pose{spatialmath.NewPoseFromOrientation(&spatialmath.R4AA{Theta: 1, RZ: 1})}

	poses, err := parsePoses([]float64{1, 2, 3}, nil, defaults)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(poses), test.ShouldEqual, 1)
	test.That(t, poses[0].Point().X, test.ShouldEqual, 1.)
	test.That(t, poses[0].Point().Z, test.ShouldEqual, 3.)
	test.That(t, spatialmath.OrientationAlmostEqual(poses[0].Orientation(), defaults[0].Orientation()), test.ShouldBeTrue)

	poses, err = parsePoses([]float64{1, 2, 3}, []float64{0, 0, 1, 90}, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, poses[0].Orientation().AxisAngles().Theta, test.ShouldAlmostEqual, 1.5707963, 1e-6)

	_, err = parsePoses([]float64{1, 2, 3}, []float64{0, 0, 1}, nil)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = parsePoses(nil, nil, nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestParseDeltas(t *testing.T) {
	pos, rot, err := parseDeltas([]float64{1, 0, 0, 0, 1, 0}, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(pos), test.ShouldEqual, 2)
	test.That(t, pos[1].Y, test.ShouldEqual, 1.)
	test.That(t, rot[0], test.ShouldBeNil)
	test.That(t, rot[1], test.ShouldBeNil)

	_, rot, err = parseDeltas([]float64{0, 0, 0}, []float64{1, 0, 0, 180})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rot[0].At(1, 1), test.ShouldAlmostEqual, -1, 1e-9)

	_, _, err = parseDeltas([]float64{0, 0}, nil)
	test.That(t, err, test.ShouldNotBeNil)
}
