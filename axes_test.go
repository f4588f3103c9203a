package gmat

import (
	"errors"
	"math"
	"testing"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/soniakeys/meeus/v3/sidereal"

	"github.com/Nikolay2015/GMAT-unicode-sub002/timesys"
)

// J2000 as an A.1 modified Julian date.
const j2000A1 = 21545.0

type countingNutation struct {
	calls int
}

func (n *countingNutation) Nutation(jdTT float64) (dPsi, dEps float64, err error) {
	n.calls++
	return MeeusNutation{}.Nutation(jdTT)
}

// linearLibration returns angles linear in time (rad, rad/day) from J2000.
type linearLibration struct {
	a0, a1 [3]float64
	calls  int
}

func (l *linearLibration) AnglesAndRates(epoch float64, override bool) (angles, rates [3]float64, err error) {
	l.calls++
	d := epoch - j2000A1
	for i := range angles {
		angles[i] = l.a0[i] + l.a1[i]*d
		rates[i] = l.a1[i]
	}
	return
}

func newTestAxes(t *testing.T, body string) *BodyFixedAxes {
	t.Helper()
	a, err := NewBodyFixedAxes(NewSolarSystem(nil), body, timesys.NewConverter(nil, nil))
	if err != nil {
		t.Fatalf("%s axes: %s", body, err)
	}
	return a
}

// numericalRotDot returns the central difference of the rotation, per second.
func numericalRotDot(t *testing.T, a *BodyFixedAxes, epoch, h float64) *mat64.Dense {
	t.Helper()
	plus, _, err := a.ComputeRotation(epoch+h, true)
	if err != nil {
		t.Fatal(err)
	}
	minus, _, err := a.ComputeRotation(epoch-h, true)
	if err != nil {
		t.Fatal(err)
	}
	var d mat64.Dense
	d.Sub(plus, minus)
	d.Scale(1/(2*h*timesys.SecondsPerDay), &d)
	return &d
}

func TestEarthRotationOrthonormal(t *testing.T) {
	a := newTestAxes(t, "Earth")
	if a.Class() != EarthClass {
		t.Fatalf("class = %s", a.Class())
	}
	for _, epoch := range []float64{j2000A1, j2000A1 + 3652.25, j2000A1 - 7300.5, 27000.123} {
		rot, rotDot, err := a.ComputeRotation(epoch, false)
		if err != nil {
			t.Fatalf("epoch %f: %s", epoch, err)
		}
		assertOrthonormal(t, rot, 1e-12)
		// Without polar motion, Ṙ·Rᵀ is the Earth rotation rate about the pole.
		var w mat64.Dense
		w.Mul(rotDot, rot.T())
		if !floats.EqualWithinAbs(w.At(0, 1), EarthRotationRate, 1e-15) || !floats.EqualWithinAbs(w.At(1, 0), -EarthRotationRate, 1e-15) {
			t.Fatalf("Ṙ·Rᵀ at %f:\n%v", epoch, mat64.Formatted(&w))
		}
	}
	rot, _, _ := a.ComputeRotation(j2000A1, true)
	if rot.At(2, 2) < 0.99999 {
		t.Fatalf("body pole too far from the J2000 pole: %f", rot.At(2, 2))
	}
}

func TestEarthRotationRateMatchesCentralDifference(t *testing.T) {
	a := newTestAxes(t, "Earth")
	epoch := j2000A1 + 1234.5
	_, rotDot, err := a.ComputeRotation(epoch, true)
	if err != nil {
		t.Fatal(err)
	}
	if num := numericalRotDot(t, a, epoch, 1e-4); !matricesEqual(num, rotDot, 1e-10) {
		t.Fatalf("Ṙ differs from the central difference\n%v\n%v", mat64.Formatted(num), mat64.Formatted(rotDot))
	}
}

func TestEarthRotationCache(t *testing.T) {
	a := newTestAxes(t, "Earth")
	nut := &countingNutation{}
	a.SetNutationModel(nut)
	hits := testutil.ToFloat64(rotationCacheHits.WithLabelValues("Earth"))
	computations := testutil.ToFloat64(rotationComputations.WithLabelValues("Earth", "earth"))

	r1, _, err := a.ComputeRotation(j2000A1, false)
	if err != nil {
		t.Fatal(err)
	}
	r2, _, err := a.ComputeRotation(j2000A1, false)
	if err != nil {
		t.Fatal(err)
	}
	if !mat64.Equal(r1, r2) {
		t.Fatal("cached rotation differs")
	}
	if nut.calls != 1 {
		t.Fatalf("nutation evaluated %d times", nut.calls)
	}
	if d := testutil.ToFloat64(rotationCacheHits.WithLabelValues("Earth")) - hits; d != 1 {
		t.Fatalf("%f cache hits", d)
	}
	if d := testutil.ToFloat64(rotationComputations.WithLabelValues("Earth", "earth")) - computations; d != 1 {
		t.Fatalf("%f computations", d)
	}

	// Within the 60 s interval, nutation is reused but the rotation is not.
	r3, _, err := a.ComputeRotation(j2000A1+30/timesys.SecondsPerDay, false)
	if err != nil {
		t.Fatal(err)
	}
	if nut.calls != 1 {
		t.Fatalf("nutation evaluated %d times within the update interval", nut.calls)
	}
	if mat64.EqualApprox(r1, r3, 1e-12) {
		t.Fatal("rotation not recomputed for a new epoch")
	}
	if _, _, err := a.ComputeRotation(j2000A1+61/timesys.SecondsPerDay, false); err != nil {
		t.Fatal(err)
	}
	if nut.calls != 2 {
		t.Fatalf("nutation not evaluated after the update interval (%d calls)", nut.calls)
	}

	// Forcing recomputes everything at the same epoch.
	if _, _, err := a.ComputeRotation(j2000A1+61/timesys.SecondsPerDay, true); err != nil {
		t.Fatal(err)
	}
	if nut.calls != 3 {
		t.Fatalf("forced computation did not evaluate nutation (%d calls)", nut.calls)
	}
	if a.Epoch() != j2000A1+61/timesys.SecondsPerDay {
		t.Fatalf("epoch = %f", a.Epoch())
	}
}

func TestEarthOverrideOriginInterval(t *testing.T) {
	a := newTestAxes(t, "Earth")
	nut := &countingNutation{}
	a.SetNutationModel(nut)
	a.OverrideOriginInterval = true
	a.UpdateInterval = 0
	for i := 0; i < 3; i++ {
		if _, _, err := a.ComputeRotation(j2000A1+float64(i)/timesys.SecondsPerDay, false); err != nil {
			t.Fatal(err)
		}
	}
	if nut.calls != 3 {
		t.Fatalf("nutation evaluated %d times with a zero update interval", nut.calls)
	}
	// A changed update interval invalidates the cache.
	a.UpdateInterval = 3600
	if _, _, err := a.ComputeRotation(j2000A1+2/timesys.SecondsPerDay, false); err != nil {
		t.Fatal(err)
	}
	if a.lastUpdateInterval != 3600 {
		t.Fatal("rotation not recomputed after the update interval changed")
	}
	// Intervals within the tolerance keep the cache.
	a.EpochTolerance = 1e-6
	a.UpdateInterval = 3600 + 1e-9
	if _, _, err := a.ComputeRotation(j2000A1+2/timesys.SecondsPerDay, false); err != nil {
		t.Fatal(err)
	}
	if a.lastUpdateInterval != 3600 {
		t.Fatalf("rotation recomputed for an update interval within the tolerance (%g)", a.lastUpdateInterval)
	}
	a.UpdateInterval = 3601
	if _, _, err := a.ComputeRotation(j2000A1+2/timesys.SecondsPerDay, false); err != nil {
		t.Fatal(err)
	}
	if a.lastUpdateInterval != 3601 {
		t.Fatal("rotation not recomputed after the update interval changed")
	}
}

func TestEarthSourceSwitch(t *testing.T) {
	a := newTestAxes(t, "Earth")
	earth := a.Origin()
	defer earth.SetRotationDataSource(SourceFK5IAU1980)
	fk5, _, err := a.ComputeRotation(j2000A1, false)
	if err != nil {
		t.Fatal(err)
	}
	earth.SetRotationDataSource(SourceIAUSimplified)
	iau, _, err := a.ComputeRotation(j2000A1, false)
	if err != nil {
		t.Fatal(err)
	}
	if mat64.EqualApprox(fk5, iau, 1e-12) {
		t.Fatal("IAU simplified rotation equals the FK5 one")
	}
	earth.SetRotationDataSource(SourceFK5IAU1980)
	again, _, err := a.ComputeRotation(j2000A1, false)
	if err != nil {
		t.Fatal(err)
	}
	if !matricesEqual(fk5, again, 1e-15) {
		t.Fatal("switching back did not recompute the FK5 rotation")
	}
}

func TestEarthPolarMotion(t *testing.T) {
	a := newTestAxes(t, "Earth")
	eop, err := timesys.NewEOPTable([]timesys.EOPRecord{
		{MJD: 51543, X: 0.05, Y: 0.38, UT1MinusUTC: 0.355, LOD: 0.001},
		{MJD: 51546, X: 0.06, Y: 0.37, UT1MinusUTC: 0.354, LOD: 0.001},
	})
	if err != nil {
		t.Fatal(err)
	}
	bare, _, _ := a.ComputeRotation(j2000A1, true)
	a.SetEOP(eop)
	rot, rotDot, err := a.ComputeRotation(j2000A1, false)
	if err != nil {
		t.Fatal(err)
	}
	assertOrthonormal(t, rot, 1e-12)
	if mat64.EqualApprox(bare, rot, 1e-9) {
		t.Fatal("polar motion has no effect")
	}
	var w mat64.Dense
	w.Mul(rotDot, rot.T())
	var wT mat64.Dense
	wT.Add(&w, w.T())
	if !matricesEqual(&wT, mat64.NewDense(3, 3, nil), 1e-16) {
		t.Fatalf("Ṙ·Rᵀ is not skew symmetric:\n%v", mat64.Formatted(&w))
	}
}

func TestGMSTAgainstMeeus(t *testing.T) {
	// Meeus example 12.a, 1987 April 10 at 0h UT.
	jd := 2446895.5
	tUT1 := timesys.JulianCenturies(jd)
	exp := 47446.3668 / timesys.SecondsPerDay * twoPi
	if diff := math.Abs(gmst82(tUT1) - exp); diff > 1e-8 {
		t.Fatalf("GMST off by %g rad", diff)
	}
	if diff := math.Abs(gmst82(tUT1) - sidereal.Mean(jd).Rad()); diff > 1e-8 {
		t.Fatalf("GMST off meeus by %g rad", diff)
	}
	dPsi, _, _ := MeeusNutation{}.Nutation(jd)
	ast := apparentSiderealTime(jd, tUT1, dPsi, lunarAscendingNode(tUT1), math.Cos(meanObliquity(tUT1)))
	if diff := math.Abs(ast - 47446.1351/timesys.SecondsPerDay*twoPi); diff > 1e-7 {
		t.Fatalf("apparent sidereal time off by %g rad", diff)
	}
}

func TestMoonRotation(t *testing.T) {
	a := newTestAxes(t, "Moon")
	if a.Class() != MoonClass {
		t.Fatalf("class = %s", a.Class())
	}
	if _, _, err := a.ComputeRotation(j2000A1, false); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected a configuration error without librations, got %v", err)
	}
	lib := &linearLibration{a0: [3]float64{0.1, 0.4, 2.9}, a1: [3]float64{0.2299, 1e-4, 1e-3}}
	a.SetLibrationSource(lib)
	epoch := j2000A1 + 100.25
	rot, rotDot, err := a.ComputeRotation(epoch, false)
	if err != nil {
		t.Fatal(err)
	}
	assertOrthonormal(t, rot, 1e-13)
	if !matricesEqual(rot, R3R1R3(0.1+0.2299*100.25, 0.4+1e-4*100.25, 2.9+1e-3*100.25), 1e-15) {
		t.Fatal("rotation is not the 3-1-3 libration DCM")
	}
	if _, _, err := a.ComputeRotation(epoch, false); err != nil || lib.calls != 1 {
		t.Fatalf("cached lunar rotation not reused (%d calls, %v)", lib.calls, err)
	}
	if num := numericalRotDot(t, a, epoch, 1e-3); !matricesEqual(num, rotDot, 1e-12) {
		t.Fatalf("Ṙ differs from the central difference\n%v\n%v", mat64.Formatted(num), mat64.Formatted(rotDot))
	}

	// Another source uses the IAU model and invalidates the cache.
	moon := a.Origin()
	moon.SetRotationDataSource(SourceIAUSimplified)
	iau, _, err := a.ComputeRotation(epoch, false)
	moon.SetRotationDataSource(SourceDEFile)
	if err != nil {
		t.Fatal(err)
	}
	if mat64.EqualApprox(iau, rot, 1e-9) {
		t.Fatal("source switch served the cached libration rotation")
	}
}

func TestIAURotation(t *testing.T) {
	a := newTestAxes(t, "Mars")
	if a.Class() != GenericClass {
		t.Fatalf("class = %s", a.Class())
	}
	epoch := j2000A1 + 42.5
	rot, rotDot, err := a.ComputeRotation(epoch, false)
	if err != nil {
		t.Fatal(err)
	}
	assertOrthonormal(t, rot, 1e-13)
	mjdTDB, _ := timesys.NewConverter(nil, nil).Convert(epoch, timesys.A1MJD, timesys.TDBMJD)
	alpha, delta, _, _ := a.Origin().CartographicCoordinates(mjdTDB)
	sa, ca := math.Sincos(alpha * deg2rad)
	sd, cd := math.Sincos(delta * deg2rad)
	pole := []float64{rot.At(2, 0), rot.At(2, 1), rot.At(2, 2)}
	if !floats.EqualApprox(pole, []float64{cd * ca, cd * sa, sd}, 1e-12) {
		t.Fatalf("body pole %v", pole)
	}
	inv, invDot, err := a.BodyToInertial()
	if err != nil {
		t.Fatal(err)
	}
	if !mat64.Equal(inv, rot.T()) || !mat64.Equal(invDot, rotDot.T()) {
		t.Fatal("BodyToInertial is not the transpose")
	}
	if num := numericalRotDot(t, a, epoch, 1e-4); !matricesEqual(num, rotDot, 1e-10) {
		t.Fatalf("Ṙ differs from the central difference\n%v\n%v", mat64.Formatted(num), mat64.Formatted(rotDot))
	}
}

func TestFrameRoundTrip(t *testing.T) {
	state := [6]float64{-2436.45, -2436.45, 6891.037, 5.088611, -5.088611, 0}
	for _, body := range []string{"Earth", "Mars"} {
		a := newTestAxes(t, body)
		fixed, err := a.RotateToBodyFixed(j2000A1+10, state)
		if err != nil {
			t.Fatal(err)
		}
		back, err := a.RotateToInertial(j2000A1+10, fixed)
		if err != nil {
			t.Fatal(err)
		}
		if !floats.EqualApprox(back[:], state[:], 1e-9) {
			t.Fatalf("%s round trip %v != %v", body, back, state)
		}
		if math.Abs(norm(fixed[:3])-norm(state[:3])) > 1e-9 {
			t.Fatalf("%s rotation changed the radius", body)
		}
	}
}

func TestDeterminantCheck(t *testing.T) {
	a := newTestAxes(t, "Earth")
	a.DeterminantTolerance = -1
	_, _, err := a.ComputeRotation(j2000A1, false)
	if !errors.Is(err, ErrNumericalConsistency) {
		t.Fatalf("expected a numerical consistency error, got %v", err)
	}
	var e *Error
	if !errors.As(err, &e) || e.Kind != NumericalConsistencyError {
		t.Fatalf("unexpected error %#v", err)
	}
	a.CheckDeterminant = false
	if _, _, err := a.ComputeRotation(j2000A1, false); err != nil {
		t.Fatalf("determinant check still enabled: %s", err)
	}
}

func TestAxesConfigurationErrors(t *testing.T) {
	system := NewSolarSystem(nil)
	if _, err := NewBodyFixedAxes(system, "Vulcan", nil); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected a configuration error for an unknown body, got %v", err)
	}
	if _, err := NewBodyFixedAxes(nil, "Earth", nil); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected a configuration error without solar system, got %v", err)
	}
	a, err := NewBodyFixedAxes(system, "Earth", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := a.ComputeRotation(j2000A1, false); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected a configuration error without converter, got %v", err)
	}
	if _, _, err := a.BodyToInertial(); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected a configuration error before any computation, got %v", err)
	}
	a.SetConverter(timesys.NewConverter(nil, nil))
	a.SetNutationModel(nil)
	if _, _, err := a.ComputeRotation(j2000A1, false); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected a configuration error without nutation model, got %v", err)
	}
}
