package referenceframe

import (
	"encoding/json"
	"math"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/robotsim/nikopt/spatialmath"
)

// ErrNoChainInformation is used when there is no chain data to parse.
var ErrNoChainInformation = errors.New("no chain information")

// ChainConfigJSON represents all supported fields in a chain JSON file.
type ChainConfigJSON struct {
	Name   string            `json:"name"`
	Base   *PoseConfig       `json:"base,omitempty"`
	Home   []float64         `json:"home,omitempty"`
	Joints []JointConfigJSON `json:"joints"`
}

// PoseConfig is a position plus an axis angle orientation in radians.
type PoseConfig struct {
	X           float64           `json:"x"`
	Y           float64           `json:"y"`
	Z           float64           `json:"z"`
	Orientation *spatialmath.R4AA `json:"orientation,omitempty"`
}

// JointConfigJSON describes one joint. Omitted limits on a revolute joint mean a full revolution about zero;
// on a prismatic joint they mean unbounded travel.
type JointConfigJSON struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	Axis        *r3.Vector        `json:"axis,omitempty"`
	Min         *float64          `json:"min,omitempty"`
	Max         *float64          `json:"max,omitempty"`
	Position    *r3.Vector        `json:"position,omitempty"`
	Orientation *spatialmath.R4AA `json:"orientation,omitempty"`
}

// ParseChainJSONFile reads and parses a chain file, returning its initial forward kinematics state.
func ParseChainJSONFile(filename string) (*ChainState, error) {
	//nolint:gosec
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read chain file %q", filename)
	}
	return ParseChainJSON(data)
}

// ParseChainJSON parses chain JSON data, returning its initial forward kinematics state.
func ParseChainJSON(data []byte) (*ChainState, error) {
	if len(data) == 0 {
		return nil, ErrNoChainInformation
	}
	cfg := &ChainConfigJSON{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal json file")
	}
	sc, err := cfg.ParseConfig()
	if err != nil {
		return nil, err
	}
	return sc.NewState(), nil
}

// ParseConfig converts the config into a validated SerialChain.
func (cfg *ChainConfigJSON) ParseConfig() (*SerialChain, error) {
	base := spatialmath.NewZeroPose()
	if cfg.Base != nil {
		base = cfg.Base.Pose()
	}

	joints := make([]Joint, 0, len(cfg.Joints))
	for _, jc := range cfg.Joints {
		j, err := jc.ParseConfig()
		if err != nil {
			return nil, err
		}
		joints = append(joints, j)
	}

	var home []Input
	if cfg.Home != nil {
		home = FloatsToInputs(cfg.Home)
	}
	return NewSerialChain(cfg.Name, base, joints, home)
}

// Pose converts the config to a pose.
func (pc *PoseConfig) Pose() spatialmath.Pose {
	pt := r3.Vector{X: pc.X, Y: pc.Y, Z: pc.Z}
	if pc.Orientation == nil {
		return spatialmath.NewPoseFromPoint(pt)
	}
	return spatialmath.NewPose(pt, pc.Orientation)
}

// ParseConfig converts the config into a Joint.
func (jc JointConfigJSON) ParseConfig() (Joint, error) {
	jt, err := ParseJointType(jc.Type)
	if err != nil {
		return Joint{}, errors.Wrapf(err, "joint %q", jc.ID)
	}
	j := Joint{ID: jc.ID, Type: jt, Orientation: spatialmath.NewIdentityRotation()}
	if jc.Axis != nil {
		j.Axis = *jc.Axis
	}
	if jc.Position != nil {
		j.Position = *jc.Position
	}
	if jc.Orientation != nil {
		j.Orientation = jc.Orientation.RotationMatrix()
	}

	switch jt {
	case RevoluteJoint:
		j.Limit = Limit{Min: -math.Pi, Max: math.Pi}
	case PrismaticJoint:
		j.Limit = Limit{Min: math.Inf(-1), Max: math.Inf(1)}
	case FixedJoint:
	}
	if jc.Min != nil {
		j.Limit.Min = *jc.Min
	}
	if jc.Max != nil {
		j.Limit.Max = *jc.Max
	}
	return j, nil
}
