package gmat

import (
	"fmt"
	"math"
	"os"
	"testing"

	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

const angleε = 1e-10

func TestMain(m *testing.M) {
	SetLogger(kitlog.NewNopLogger())
	os.Exit(m.Run())
}

func assertPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("code did not panic")
		}
	}()
	f()
}

func vectorsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := len(a) - 1; i >= 0; i-- {
		if !floats.EqualWithinRel(a[i], b[i], 1e-3) {
			return false
		}
	}
	return true
}

//anglesEqual returns whether two angles in Radians are equal.
func anglesEqual(a, b float64) (bool, error) {
	diff := math.Mod(math.Abs(a-b), 2*math.Pi)
	if diff < angleε {
		return true, nil
	}
	return false, fmt.Errorf("difference of %3.10f degrees", math.Abs(Rad2deg(diff)))
}

// matricesEqual returns whether both matrices are equal within the absolute tolerance.
func matricesEqual(a, b mat64.Matrix, tol float64) bool {
	return mat64.EqualApprox(a, b, tol)
}

// assertOrthonormal fails when m·mᵀ is not the identity or det(m) is not 1.
func assertOrthonormal(t *testing.T, m *mat64.Dense, tol float64) {
	t.Helper()
	var mmT mat64.Dense
	mmT.Mul(m, m.T())
	if !matricesEqual(&mmT, mat64.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}), tol) {
		t.Fatalf("not orthonormal:\n%v", mat64.Formatted(&mmT))
	}
	if det := mat64.Det(m); !floats.EqualWithinAbs(det, 1, tol) {
		t.Fatalf("det = %.15f", det)
	}
}
