package gmat

import (
	"math"
	"testing"

	"github.com/gonum/matrix/mat64"
)

func TestR1R2R3(t *testing.T) {
	x := math.Pi / 3.0
	s, c := math.Sincos(x)
	r1 := R1(x)
	r2 := R2(x)
	r3 := R3(x)
	// Test items equal to 1.
	if r1.At(0, 0) != r2.At(1, 1) || r1.At(0, 0) != r3.At(2, 2) || r3.At(2, 2) != 1 {
		t.Fatal("expected R1.At(0, 0) = R2.At(1, 1) = R3.At(2, 2) = 1\n")
	}
	// Test items equal to 0.
	if r1.At(0, 1) != r1.At(0, 2) || r1.At(1, 0) != r1.At(2, 0) || r1.At(0, 1) != 0 {
		t.Fatal("misplaced zeros in R1\n")
	}
	if r2.At(0, 1) != r2.At(1, 2) || r2.At(1, 0) != r2.At(1, 2) || r2.At(1, 2) != 0 {
		t.Fatal("misplaced zeros in R2\n")
	}
	if r3.At(2, 0) != r3.At(2, 1) || r3.At(0, 2) != r3.At(1, 2) || r3.At(1, 2) != 0 {
		t.Fatal("misplaced zeros in R3\n")
	}
	// Test R1.
	if r1.At(1, 1) != r1.At(2, 2) || r1.At(2, 2) != c {
		t.Fatal("expected R1 cosines misplaced\n")
	}
	if r1.At(2, 1) != -r1.At(1, 2) || r1.At(1, 2) != s {
		t.Fatal("expected R1 sines misplaced\n")
	}
	// Test R2.
	if r2.At(0, 0) != r2.At(2, 2) || r2.At(2, 2) != c {
		t.Fatal("expected R2 cosines misplaced\n")
	}
	if r2.At(2, 0) != -r2.At(0, 2) || r2.At(2, 0) != s {
		t.Fatal("expected R2 sines misplaced\n")
	}
	// Test R3.
	if r3.At(1, 1) != r3.At(0, 0) || r3.At(0, 0) != c {
		t.Fatal("expected R3 cosines misplaced\n")
	}
	if r3.At(0, 1) != -r3.At(1, 0) || r3.At(0, 1) != s {
		t.Fatal("expected R3 sines misplaced\n")
	}
}

func TestRot313(t *testing.T) {
	var R1R3, R3R1R3m mat64.Dense
	θ1 := math.Pi / 17
	θ2 := math.Pi / 16
	θ3 := math.Pi / 15
	R1R3.Mul(R1(θ2), R3(θ1))
	R3R1R3m.Mul(R3(θ3), &R1R3)
	if !matricesEqual(&R3R1R3m, R3R1R3(θ1, θ2, θ3), 1e-15) {
		t.Logf("\n%+v", mat64.Formatted(&R3R1R3m))
		t.Logf("\n%+v", mat64.Formatted(R3R1R3(θ1, θ2, θ3)))
		t.Fatal("failed")
	}
	if !matricesEqual(mul(R3(θ3), R1(θ2), R3(θ1)), &R3R1R3m, 1e-15) {
		t.Fatal("mul differs from the sequential product")
	}
	assertOrthonormal(t, R3R1R3(θ1, θ2, θ3), 1e-14)
}

func TestR3Dot(t *testing.T) {
	x, rate, h := 0.7, 2.5, 1e-6
	var num mat64.Dense
	num.Sub(R3(x+rate*h), R3(x-rate*h))
	num.Scale(1/(2*h), &num)
	if !matricesEqual(&num, R3Dot(x, rate), 1e-8) {
		t.Fatalf("R3Dot differs from the central difference\n%v\n%v", mat64.Formatted(&num), mat64.Formatted(R3Dot(x, rate)))
	}
}

func TestMxV33(t *testing.T) {
	v := MxV33(R3(math.Pi/2), []float64{1, 0, 0})
	if !vectorsEqual([]float64{v[0] + 1, v[1] + 1, v[2] + 1}, []float64{1, 0, 1}) {
		t.Fatalf("R3(pi/2)·i = %v", v)
	}
	back := MxV33(transpose(R3(math.Pi/2)), v)
	if !vectorsEqual([]float64{back[0], back[1] + 1, back[2] + 1}, []float64{1, 1, 1}) {
		t.Fatalf("transpose did not undo the rotation: %v", back)
	}
}
