package utils

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestAngleConversions(t *testing.T) {
	test.That(t, DegToRad(180), test.ShouldAlmostEqual, math.Pi)
	test.That(t, RadToDeg(math.Pi/2), test.ShouldAlmostEqual, 90)
	test.That(t, RadToDeg(DegToRad(37.5)), test.ShouldAlmostEqual, 37.5)
}

func TestClamp(t *testing.T) {
	test.That(t, Clamp(-3, -2, 15), test.ShouldEqual, -2)
	test.That(t, Clamp(20, -2, 15), test.ShouldEqual, 15)
	test.That(t, Clamp(4, -2, 15), test.ShouldEqual, 4)
}

func TestWrapAngle(t *testing.T) {
	test.That(t, WrapAngle(3*math.Pi, -math.Pi), test.ShouldAlmostEqual, -math.Pi)
	test.That(t, WrapAngle(-0.5, 0), test.ShouldAlmostEqual, 2*math.Pi-0.5)
	test.That(t, WrapAngle(1, -math.Pi), test.ShouldAlmostEqual, 1)
	test.That(t, Float64AlmostEqual(WrapAngle(7*math.Pi/2, -math.Pi), -math.Pi/2, 1e-12), test.ShouldBeTrue)
}
