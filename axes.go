package gmat

import (
	"math"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/gonum/matrix/mat64"

	"github.com/Nikolay2015/GMAT-unicode-sub002/timesys"
)

const (
	// EpsilonEqual is the default tolerance used to compare cached epochs.
	EpsilonEqual = 2.220446049250313e-16
	// DefaultDeterminantTolerance is the default tolerance on |det(R) - 1|.
	DefaultDeterminantTolerance = 1e-9
)

// TimeConverter converts modified Julian epochs between time systems.
type TimeConverter interface {
	Convert(epoch float64, from, to timesys.System) (float64, error)
}

// LibrationSource is implemented by ephemerides which store the lunar librations.
type LibrationSource interface {
	AnglesAndRates(epoch float64, override bool) (angles, rates [3]float64, err error)
}

// BodyClass selects how the rotation of a body is computed.
type BodyClass uint8

const (
	GenericClass BodyClass = iota
	EarthClass
	MoonClass
)

func (c BodyClass) String() string {
	switch c {
	case EarthClass:
		return "earth"
	case MoonClass:
		return "moon"
	}
	return "generic"
}

// BodyFixedAxes computes the rotation from the J2000 equatorial frame to the
// body fixed frame of its origin body, and the time derivative of that rotation.
// Instances cache their last result and are not safe for concurrent use.
type BodyFixedAxes struct {
	origin *CelestialBody
	class  BodyClass
	conv   TimeConverter
	eop    timesys.EOPProvider

	librations LibrationSource
	nutation   NutationModel

	// UpdateInterval is the Earth nutation reuse interval (s) used when OverrideOriginInterval is set.
	UpdateInterval         float64
	OverrideOriginInterval bool
	// OverrideTimeSystem looks the librations up in TT instead of TDB.
	OverrideTimeSystem   bool
	CheckDeterminant     bool
	DeterminantTolerance float64
	// EpochTolerance is the tolerance (days) below which an epoch matches the cached one.
	EpochTolerance float64

	// Last computed rotation.
	computed           bool
	epoch              float64
	rot, rotDot        *mat64.Dense
	lastUpdateInterval float64
	lastOriginInterval float64
	lastSource         RotationDataSource

	// Earth nutation reuse.
	nutationValid     bool
	lastNutationEpoch float64
	dPsi, dEps        float64

	logger kitlog.Logger
}

// NewBodyFixedAxes returns the body fixed axes of the named body. Librations are
// read from the solar system ephemeris when it provides them. The converter may
// be nil, in which case ComputeRotation fails until one is set. When the
// converter exposes Earth orientation data (like timesys.Converter), it is used
// for polar motion and the length of day.
func NewBodyFixedAxes(system *SolarSystem, origin string, conv TimeConverter) (*BodyFixedAxes, error) {
	if system == nil {
		return nil, newError(ConfigurationError, "NewBodyFixedAxes", "no solar system")
	}
	body, err := system.Body(origin)
	if err != nil {
		return nil, err
	}
	a := &BodyFixedAxes{
		origin:               body,
		class:                GenericClass,
		nutation:             MeeusNutation{},
		CheckDeterminant:     true,
		DeterminantTolerance: DefaultDeterminantTolerance,
		EpochTolerance:       EpsilonEqual,
		OverrideTimeSystem:   system.OverrideTimeSystem(),
		logger:               kitlog.With(subsysLogger("axes"), "body", body.Name),
	}
	switch body.Name {
	case "Earth":
		a.class = EarthClass
	case "Luna":
		a.class = MoonClass
	}
	if lib, ok := system.Provider().(LibrationSource); ok {
		a.librations = lib
	}
	a.SetConverter(conv)
	return a, nil
}

// SetConverter sets the time converter, and its Earth orientation data if any.
func (a *BodyFixedAxes) SetConverter(conv TimeConverter) {
	a.conv = conv
	if withEOP, ok := conv.(interface{ EOP() timesys.EOPProvider }); ok && withEOP.EOP() != nil {
		a.eop = withEOP.EOP()
	}
	a.computed = false
}

// SetEOP sets the Earth orientation data used for polar motion and the length of day.
func (a *BodyFixedAxes) SetEOP(eop timesys.EOPProvider) {
	a.eop = eop
	a.computed = false
}

// SetLibrationSource sets the source of the lunar librations.
func (a *BodyFixedAxes) SetLibrationSource(src LibrationSource) {
	a.librations = src
	a.computed = false
}

// SetNutationModel sets the Earth nutation model.
func (a *BodyFixedAxes) SetNutationModel(m NutationModel) {
	a.nutation = m
	a.computed = false
	a.nutationValid = false
}

// Origin returns the origin body.
func (a *BodyFixedAxes) Origin() *CelestialBody {
	return a.origin
}

// Class returns the body class of these axes.
func (a *BodyFixedAxes) Class() BodyClass {
	return a.class
}

// Epoch returns the epoch of the last computed rotation.
func (a *BodyFixedAxes) Epoch() float64 {
	return a.epoch
}

// ComputeRotation returns the rotation from the J2000 equatorial frame to the
// body fixed frame at the A.1 epoch, and its time derivative (per second).
// Unless forced, the cached result is returned when nothing changed.
func (a *BodyFixedAxes) ComputeRotation(epoch float64, force bool) (rot, rotDot *mat64.Dense, err error) {
	const op = "ComputeRotation"
	if a.conv == nil {
		return nil, nil, newError(ConfigurationError, op, "no time converter for %s axes", a.origin.Name)
	}
	level.Debug(a.logger).Log("op", op, "epoch", epoch, "force", force)
	source := a.origin.RotationDataSource()
	var computed bool
	switch {
	case a.class == EarthClass && source != SourceIAUSimplified:
		computed, err = a.computeEarth(epoch, force)
	case a.class == MoonClass && source == SourceDEFile:
		computed, err = a.computeMoon(epoch, force)
	default:
		computed, err = true, a.computeIAU(epoch)
	}
	if err != nil {
		return nil, nil, err
	}
	if !computed {
		rotationCacheHits.WithLabelValues(a.origin.Name).Inc()
		return mat64.DenseCopyOf(a.rot), mat64.DenseCopyOf(a.rotDot), nil
	}
	a.lastSource = source
	rotationComputations.WithLabelValues(a.origin.Name, a.class.String()).Inc()
	if a.CheckDeterminant {
		if det := mat64.Det(a.rot); math.Abs(det-1) > a.DeterminantTolerance {
			a.computed = false
			level.Error(a.logger).Log("op", op, "epoch", epoch, "det", det)
			return nil, nil, newError(NumericalConsistencyError, op, "determinant of %s rotation is %.15f at %f", a.origin.Name, det, epoch)
		}
	}
	level.Debug(a.logger).Log("op", op, "epoch", epoch, "status", "computed")
	return mat64.DenseCopyOf(a.rot), mat64.DenseCopyOf(a.rotDot), nil
}

// BodyToInertial returns the transposes of the last computed rotation and of
// its derivative, i.e. the rotation from the body fixed frame to J2000.
func (a *BodyFixedAxes) BodyToInertial() (rot, rotDot *mat64.Dense, err error) {
	if !a.computed {
		return nil, nil, newError(ConfigurationError, "BodyToInertial", "no rotation computed for %s", a.origin.Name)
	}
	return transpose(a.rot), transpose(a.rotDot), nil
}

// RotateToBodyFixed converts a J2000 Cartesian state (relative to the origin) to the body fixed frame.
func (a *BodyFixedAxes) RotateToBodyFixed(epoch float64, state [6]float64) ([6]float64, error) {
	var out [6]float64
	rot, rotDot, err := a.ComputeRotation(epoch, false)
	if err != nil {
		return out, err
	}
	r, v := state[:3], state[3:]
	rb := MxV33(rot, r)
	vb := MxV33(rot, v)
	rd := MxV33(rotDot, r)
	for i := 0; i < 3; i++ {
		out[i] = rb[i]
		out[i+3] = vb[i] + rd[i]
	}
	return out, nil
}

// RotateToInertial converts a body fixed Cartesian state to the J2000 frame.
func (a *BodyFixedAxes) RotateToInertial(epoch float64, state [6]float64) ([6]float64, error) {
	var out [6]float64
	rot, rotDot, err := a.ComputeRotation(epoch, false)
	if err != nil {
		return out, err
	}
	rotT := rot.T()
	ri := MxV33(rotT, state[:3])
	rd := MxV33(rotDot, ri)
	vb := []float64{state[3] - rd[0], state[4] - rd[1], state[5] - rd[2]}
	vi := MxV33(rotT, vb)
	for i := 0; i < 3; i++ {
		out[i] = ri[i]
		out[i+3] = vi[i]
	}
	return out, nil
}

// store caches a freshly computed rotation.
func (a *BodyFixedAxes) store(epoch float64, rot, rotDot *mat64.Dense) {
	a.epoch = epoch
	a.rot = rot
	a.rotDot = rotDot
	a.computed = true
}
