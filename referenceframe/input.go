package referenceframe

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Input wraps the input to a moving joint.
//   - revolute inputs should be in radians.
//   - prismatic inputs are in the chain's length unit.
type Input struct {
	Value float64
}

// Limit represents the range of motion of a single degree of freedom.
type Limit struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Range returns Max - Min.
func (l Limit) Range() float64 {
	return l.Max - l.Min
}

// Contains reports whether v lies within the closed limit interval.
func (l Limit) Contains(v float64) bool {
	return v >= l.Min && v <= l.Max
}

// FloatsToInputs wraps a slice of floats in Inputs.
func FloatsToInputs(floats []float64) []Input {
	inputs := make([]Input, len(floats))
	for i, f := range floats {
		inputs[i] = Input{f}
	}
	return inputs
}

// InputsToFloats unwraps Inputs to raw floats.
func InputsToFloats(inputs []Input) []float64 {
	floats := make([]float64, len(inputs))
	for i, f := range inputs {
		floats[i] = f.Value
	}
	return floats
}

// CopyInputs returns a copy of the given inputs which shares no memory with them.
func CopyInputs(inputs []Input) []Input {
	if inputs == nil {
		return nil
	}
	out := make([]Input, len(inputs))
	copy(out, inputs)
	return out
}

// InputsL2Distance returns the two-norm between two Input sets.
func InputsL2Distance(from, to []Input) float64 {
	if len(from) != len(to) {
		return math.Inf(1)
	}
	diff := make([]float64, 0, len(from))
	for i, f := range from {
		diff = append(diff, f.Value-to[i].Value)
	}
	return floats.Norm(diff, 2)
}

// RandomLimitedInputs produces one uniformly sampled, in-bounds input per limit.
func RandomLimitedInputs(limits []Limit, rSeed *rand.Rand) []Input {
	if rSeed == nil {
		//nolint:gosec
		rSeed = rand.New(rand.NewSource(1))
	}
	pos := make([]Input, 0, len(limits))
	for _, lim := range limits {
		l, u := lim.Min, lim.Max

		// Default to [-999,999] as range if limits are infinite
		if math.IsInf(l, -1) {
			l = -999
		}
		if math.IsInf(u, 1) {
			u = 999
		}

		jRange := math.Abs(u - l)
		pos = append(pos, Input{rSeed.Float64()*jRange + l})
	}
	return pos
}
