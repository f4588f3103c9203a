package gmat

import (
	"fmt"
	"math"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"github.com/Nikolay2015/GMAT-unicode-sub002/timesys"
)

// FromEphemeris starts an ephemeris propagation where the previous one ended,
// or at the start of the ephemeris span.
const FromEphemeris = "FromEphemeris"

// PropagatorStatus is the lifecycle status of an EphemerisPropagator.
type PropagatorStatus uint8

const (
	Uninitialized PropagatorStatus = iota
	Initialized
	Stepping
)

func (s PropagatorStatus) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Stepping:
		return "stepping"
	}
	return fmt.Sprintf("PropagatorStatus(%d)", uint8(s))
}

// StateProvider returns a precomputed J2000 state relative to the J2000 body at an A.1 epoch.
type StateProvider interface {
	State(epoch float64) ([6]float64, error)
}

// SpanProvider is a StateProvider which is only valid over a span of A.1 epochs.
type SpanProvider interface {
	StateProvider
	Span() (start, end float64)
}

// EpochParser parses an epoch string into an A.1 modified Julian date.
type EpochParser interface {
	ParseEpoch(s string) (float64, error)
}

// propagatedObject is a spacecraft and the provider of its states.
type propagatedObject struct {
	sc       *Spacecraft
	provider StateProvider
}

type propagatorSnapshot struct {
	state, inertialState                      []float64
	initialEpoch, currentEpoch, timeFromEpoch float64
	stepDirection                             float64
}

// EphemerisPropagator moves space objects along precomputed ephemerides instead of integrating them.
// The state is the concatenation of the Cartesian states of its objects relative to the
// propagation origin; the inertial state is relative to the J2000 body.
type EphemerisPropagator struct {
	Name string
	// StartEpoch is FromEphemeris or an epoch string understood by the parser.
	StartEpoch string
	// Restart starts from the epoch of the first spacecraft.
	Restart   bool
	StepSize  float64 // seconds
	Publisher Publisher

	system  *SolarSystem
	origin  string
	parser  EpochParser
	objects []propagatedObject

	status                     PropagatorStatus
	originBody, j2000Body      *CelestialBody
	state, inertialState       []float64
	initialEpoch, currentEpoch float64
	timeFromEpoch              float64
	stepDirection              float64
	spanStart, spanEnd         float64
	spanSet                    bool
	lastEpoch                  float64
	propagated                 bool
	previous                   *propagatorSnapshot
	logger                     kitlog.Logger
}

// NewEphemerisPropagator returns an ephemeris propagator about the origin body of the solar system.
func NewEphemerisPropagator(name string, system *SolarSystem, origin string, parser EpochParser) *EphemerisPropagator {
	return &EphemerisPropagator{
		Name:          name,
		StartEpoch:    FromEphemeris,
		StepSize:      60,
		system:        system,
		origin:        origin,
		parser:        parser,
		stepDirection: 1,
		spanStart:     math.Inf(-1),
		spanEnd:       math.Inf(1),
		logger:        kitlog.With(subsysLogger("ephemprop"), "propagator", name),
	}
}

// AddObject adds a spacecraft whose states are read from the provider.
func (p *EphemerisPropagator) AddObject(sc *Spacecraft, provider StateProvider) {
	p.objects = append(p.objects, propagatedObject{sc, provider})
	p.status = Uninitialized
}

// SetEphemSpan sets the span (A.1 modified Julian) of the ephemerides.
func (p *EphemerisPropagator) SetEphemSpan(start, end float64) error {
	if !(end > start) {
		return newError(InvalidParameterError, "SetEphemSpan", "span end %f is not after its start %f", end, start)
	}
	p.spanStart, p.spanEnd, p.spanSet = start, end, true
	return nil
}

// EphemSpan returns the span of the ephemerides.
func (p *EphemerisPropagator) EphemSpan() (start, end float64) {
	return p.spanStart, p.spanEnd
}

// Status returns the lifecycle status.
func (p *EphemerisPropagator) Status() PropagatorStatus {
	return p.status
}

// InitialEpoch returns the A.1 epoch of the start of the propagation.
func (p *EphemerisPropagator) InitialEpoch() float64 {
	return p.initialEpoch
}

// CurrentEpoch returns the A.1 epoch of the state.
func (p *EphemerisPropagator) CurrentEpoch() float64 {
	return p.currentEpoch
}

// TimeFromEpoch returns the seconds elapsed since the initial epoch.
func (p *EphemerisPropagator) TimeFromEpoch() float64 {
	return p.timeFromEpoch
}

// StepDirection returns 1 when propagating forward and -1 otherwise.
func (p *EphemerisPropagator) StepDirection() float64 {
	return p.stepDirection
}

// Dimension returns the size of the state.
func (p *EphemerisPropagator) Dimension() int {
	return 6 * len(p.objects)
}

// Initialize sizes the state, resolves the initial epoch and the origin, and
// reads the states at the initial epoch.
func (p *EphemerisPropagator) Initialize() error {
	const op = "Initialize"
	if len(p.objects) == 0 {
		return newError(ConfigurationError, op, "%s has nothing to propagate", p.Name)
	}
	if p.system == nil {
		return newError(ConfigurationError, op, "%s has no solar system", p.Name)
	}
	origin, err := p.system.Body(p.origin)
	if err != nil {
		return err
	}
	j2000 := p.system.J2000Body()
	if j2000 == nil {
		return newError(ConfigurationError, op, "%s has no J2000 body", p.Name)
	}
	p.originBody, p.j2000Body = origin, j2000
	if !p.spanSet {
		p.spanFromProviders()
	}

	switch {
	case p.Restart:
		p.initialEpoch = p.objects[0].sc.Epoch
	case p.StartEpoch == FromEphemeris || p.StartEpoch == "":
		if p.propagated {
			p.initialEpoch = p.lastEpoch
		} else if !math.IsInf(p.spanStart, 0) {
			p.initialEpoch = p.spanStart
		} else {
			return newError(ConfigurationError, op, "%s starts from the ephemeris but no span is known", p.Name)
		}
	default:
		if p.parser == nil {
			return newError(ConfigurationError, op, "%s cannot parse the start epoch %q", p.Name, p.StartEpoch)
		}
		epoch, err := p.parser.ParseEpoch(p.StartEpoch)
		if err != nil {
			return newError(ConfigurationError, op, "%s start epoch: %v", p.Name, err)
		}
		p.initialEpoch = epoch
	}

	dim := p.Dimension()
	p.state = make([]float64, dim)
	p.inertialState = make([]float64, dim)
	p.timeFromEpoch = 0
	p.currentEpoch = p.initialEpoch
	p.stepDirection = 1
	p.previous = nil
	if err := p.checkSpan(p.currentEpoch); err != nil {
		return err
	}
	if err := p.UpdateState(); err != nil {
		return err
	}
	if err := p.moveToOrigin(p.currentEpoch); err != nil {
		return err
	}
	p.status = Initialized
	level.Debug(p.logger).Log("op", op, "epoch", p.initialEpoch, "origin", origin.Name, "objects", len(p.objects))
	return nil
}

// spanFromProviders intersects the spans of the providers which have one.
func (p *EphemerisPropagator) spanFromProviders() {
	start, end := math.Inf(-1), math.Inf(1)
	for _, o := range p.objects {
		if sp, ok := o.provider.(SpanProvider); ok {
			s, e := sp.Span()
			start, end = math.Max(start, s), math.Min(end, e)
		}
	}
	p.spanStart, p.spanEnd = start, end
}

func (p *EphemerisPropagator) checkSpan(epoch float64) error {
	if epoch < p.spanStart || epoch > p.spanEnd {
		return newError(OutOfRangeError, "Step", "%s epoch %f outside of the ephemeris span [%f, %f]", p.Name, epoch, p.spanStart, p.spanEnd)
	}
	return nil
}

// Step moves the objects by dt seconds, backward when dt is negative.
func (p *EphemerisPropagator) Step(dt float64) error {
	const op = "Step"
	if p.status == Uninitialized {
		return newError(ConfigurationError, op, "%s is not initialized", p.Name)
	}
	timeFromEpoch := p.timeFromEpoch + dt
	epoch := p.initialEpoch + timeFromEpoch/timesys.SecondsPerDay
	if err := p.checkSpan(epoch); err != nil {
		return err
	}
	prevTime, prevEpoch := p.timeFromEpoch, p.currentEpoch
	prevInertial := append([]float64(nil), p.inertialState...)
	p.timeFromEpoch, p.currentEpoch = timeFromEpoch, epoch
	if dt < 0 {
		p.stepDirection = -1
	} else if dt > 0 {
		p.stepDirection = 1
	}
	if err := p.UpdateState(); err != nil {
		p.timeFromEpoch, p.currentEpoch = prevTime, prevEpoch
		return err
	}
	if err := p.moveToOrigin(p.currentEpoch); err != nil {
		p.timeFromEpoch, p.currentEpoch = prevTime, prevEpoch
		copy(p.inertialState, prevInertial)
		return err
	}
	p.status = Stepping
	p.lastEpoch, p.propagated = p.currentEpoch, true
	propagatorSteps.Inc()
	if p.Publisher != nil {
		if err := p.Publisher.Publish(p.labels(), append([]float64{p.currentEpoch}, p.state...)); err != nil {
			return wrapError(op, err)
		}
	}
	return nil
}

// Propagate steps the objects by the step size until duration seconds have elapsed.
func (p *EphemerisPropagator) Propagate(duration float64) error {
	if p.StepSize <= 0 || math.IsNaN(p.StepSize) {
		return newError(InvalidParameterError, "Propagate", "invalid step size %f", p.StepSize)
	}
	step := math.Copysign(p.StepSize, duration)
	target := p.timeFromEpoch + duration
	for math.Abs(target-p.timeFromEpoch) > 1e-9 {
		dt := step
		if math.Abs(target-p.timeFromEpoch) < math.Abs(dt) {
			dt = target - p.timeFromEpoch
		}
		if err := p.Step(dt); err != nil {
			return err
		}
	}
	return nil
}

func (p *EphemerisPropagator) labels() []string {
	labels := []string{"Epoch"}
	for _, o := range p.objects {
		for _, c := range []string{"X", "Y", "Z", "VX", "VY", "VZ"} {
			labels = append(labels, o.sc.Name+"."+c)
		}
	}
	return labels
}

// UpdateState reads the inertial states of the objects at the current epoch.
// The inertial state is left unchanged when any provider fails.
func (p *EphemerisPropagator) UpdateState() error {
	next := make([]float64, len(p.inertialState))
	for i, o := range p.objects {
		s, err := o.provider.State(p.currentEpoch)
		if err != nil {
			return wrapError("UpdateState", err)
		}
		copy(next[6*i:6*i+6], s[:])
	}
	copy(p.inertialState, next)
	return nil
}

// originOffset returns the state of the origin relative to the J2000 body.
func (p *EphemerisPropagator) originOffset(epoch float64) ([6]float64, error) {
	if p.originBody == nil || p.j2000Body == nil {
		return [6]float64{}, newError(ConfigurationError, "originOffset", "%s has no origin or J2000 body", p.Name)
	}
	if p.originBody == p.j2000Body {
		return [6]float64{}, nil
	}
	return p.originBody.MJ2000State(epoch)
}

// moveToOrigin sets the state from the inertial state, relative to the origin.
func (p *EphemerisPropagator) moveToOrigin(epoch float64) error {
	delta, err := p.originOffset(epoch)
	if err != nil {
		return err
	}
	for i := range p.state {
		p.state[i] = p.inertialState[i] - delta[i%6]
	}
	return nil
}

// returnFromOrigin sets the inertial state from the state relative to the origin.
func (p *EphemerisPropagator) returnFromOrigin(epoch float64) error {
	delta, err := p.originOffset(epoch)
	if err != nil {
		return err
	}
	for i := range p.state {
		p.inertialState[i] = p.state[i] + delta[i%6]
	}
	return nil
}

// UpdateSpaceObject writes the state at the current epoch back to the spacecraft.
// The epoch is the current one when negative, and must otherwise match it.
func (p *EphemerisPropagator) UpdateSpaceObject(epoch float64) error {
	const op = "UpdateSpaceObject"
	if p.status == Uninitialized {
		return newError(ConfigurationError, op, "%s is not initialized", p.Name)
	}
	if epoch < 0 {
		epoch = p.currentEpoch
	} else if !IsEqual(epoch, p.currentEpoch, EpsilonEqual) {
		return newError(InvalidParameterError, op, "%s is at %f, not %f", p.Name, p.currentEpoch, epoch)
	}
	if err := p.returnFromOrigin(p.currentEpoch); err != nil {
		return err
	}
	for i, o := range p.objects {
		copy(o.sc.State[:], p.inertialState[6*i:6*i+6])
		o.sc.Epoch = epoch
	}
	return nil
}

// BufferState snapshots the propagation so that it can be reverted.
func (p *EphemerisPropagator) BufferState() {
	p.previous = &propagatorSnapshot{
		state:         append([]float64(nil), p.state...),
		inertialState: append([]float64(nil), p.inertialState...),
		initialEpoch:  p.initialEpoch,
		currentEpoch:  p.currentEpoch,
		timeFromEpoch: p.timeFromEpoch,
		stepDirection: p.stepDirection,
	}
}

// RevertSpaceObject restores the buffered propagation and the spacecraft states.
func (p *EphemerisPropagator) RevertSpaceObject() error {
	if p.previous == nil {
		return newError(ConfigurationError, "RevertSpaceObject", "%s has no buffered state", p.Name)
	}
	prev := p.previous
	p.initialEpoch = prev.initialEpoch
	p.timeFromEpoch = prev.timeFromEpoch
	p.currentEpoch = prev.initialEpoch + prev.timeFromEpoch/timesys.SecondsPerDay
	p.stepDirection = prev.stepDirection
	copy(p.state, prev.state)
	copy(p.inertialState, prev.inertialState)
	if err := p.UpdateState(); err != nil {
		return err
	}
	if err := p.moveToOrigin(p.currentEpoch); err != nil {
		return err
	}
	p.lastEpoch = p.currentEpoch
	return p.UpdateSpaceObject(p.currentEpoch)
}

// GetState returns a copy of the state relative to the origin.
func (p *EphemerisPropagator) GetState() []float64 {
	return append([]float64(nil), p.state...)
}

// GetInertialState returns a copy of the state relative to the J2000 body.
func (p *EphemerisPropagator) GetInertialState() []float64 {
	return append([]float64(nil), p.inertialState...)
}
