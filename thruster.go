package gmat

import (
	"math"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/gonum/matrix/mat64"
)

// NumCoefficients is the number of thrust and specific impulse coefficients.
const NumCoefficients = 16

// Thruster models a chemical or electric thruster with the polynomial thrust
// and specific impulse expressions of the tank pressure P (kPa) and
// temperature ratio T/Tref:
//
//	F = C1 + C2·P + (C3 + C4·P + C5·P² + C6·P^C7 + C8·P^C9 + C10·P^C11 + C12·C13^(C14·P))·(T/Tref)^(1 + C15 + C16·P)
//
// The specific impulse uses the K coefficients the same way, without the unit exponent offset.
type Thruster struct {
	Name string
	// Direction is the thrust direction in Axes, or in CoordinateSystem when set.
	Direction        [3]float64
	Axes             LocalAxes
	Origin           *CelestialBody
	CoordinateSystem CoordinateSystem
	Tanks            []*Tank

	c, k                [NumCoefficients]float64
	dutyCycle           float64
	scaleFactor         float64
	gravityAccel        float64
	constantExpressions bool
	simpleExpressions   bool
	firing              bool
	spacecraft          *Spacecraft

	thrust, isp, mDot float64
	logger            kitlog.Logger
}

// NewThruster returns a 10 N, 300 s thruster pointing along the velocity.
func NewThruster(name string) *Thruster {
	t := &Thruster{
		Name:         name,
		Direction:    [3]float64{1, 0, 0},
		Axes:         VNB,
		dutyCycle:    1,
		scaleFactor:  1,
		gravityAccel: 9.81,
		logger:       kitlog.With(subsysLogger("thruster"), "thruster", name),
	}
	t.c[0] = 10
	t.k[0] = 300
	t.updateFlags()
	return t
}

// Coefficients returns the thrust (C) and specific impulse (K) coefficients.
func (t *Thruster) Coefficients() (c, k [NumCoefficients]float64) {
	return t.c, t.k
}

// SetThrustCoefficient sets Cn, for n from 1 to 16.
func (t *Thruster) SetThrustCoefficient(n int, v float64) error {
	return t.setCoefficient(&t.c, "C", n, v)
}

// SetImpulseCoefficient sets Kn, for n from 1 to 16.
func (t *Thruster) SetImpulseCoefficient(n int, v float64) error {
	return t.setCoefficient(&t.k, "K", n, v)
}

// SetCoefficients replaces all coefficients.
func (t *Thruster) SetCoefficients(c, k [NumCoefficients]float64) error {
	for i := 0; i < NumCoefficients; i++ {
		if math.IsNaN(c[i]) || math.IsInf(c[i], 0) || math.IsNaN(k[i]) || math.IsInf(k[i], 0) {
			return newError(InvalidParameterError, "SetCoefficients", "coefficient %d of %s is not finite", i+1, t.Name)
		}
	}
	t.c, t.k = c, k
	t.updateFlags()
	return nil
}

func (t *Thruster) setCoefficient(coeffs *[NumCoefficients]float64, prefix string, n int, v float64) error {
	if n < 1 || n > NumCoefficients {
		return newError(InvalidParameterError, "SetCoefficient", "%s%d is not a coefficient of %s", prefix, n, t.Name)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return newError(InvalidParameterError, "SetCoefficient", "%s%d of %s must be finite", prefix, n, t.Name)
	}
	coeffs[n-1] = v
	t.updateFlags()
	return nil
}

// updateFlags finds whether the expressions reduce to a constant or a quadratic.
func (t *Thruster) updateFlags() {
	t.constantExpressions = true
	for i := 1; i < NumCoefficients; i++ {
		if t.c[i] != 0 || t.k[i] != 0 {
			t.constantExpressions = false
			break
		}
	}
	t.simpleExpressions = true
	for i := 5; i <= 13; i++ {
		if t.c[i] != 0 || t.k[i] != 0 {
			t.simpleExpressions = false
			break
		}
	}
}

// DutyCycle returns the fraction of time the thruster fires.
func (t *Thruster) DutyCycle() float64 {
	return t.dutyCycle
}

// SetDutyCycle sets the duty cycle, which must be in [0, 1].
func (t *Thruster) SetDutyCycle(d float64) error {
	if !(d >= 0 && d <= 1) {
		return newError(InvalidParameterError, "SetDutyCycle", "duty cycle %f of %s not in [0, 1]", d, t.Name)
	}
	t.dutyCycle = d
	return nil
}

// ThrustScaleFactor returns the thrust scale factor.
func (t *Thruster) ThrustScaleFactor() float64 {
	return t.scaleFactor
}

// SetThrustScaleFactor sets the thrust scale factor, which must not be negative.
func (t *Thruster) SetThrustScaleFactor(s float64) error {
	if !(s >= 0) || math.IsInf(s, 0) {
		return newError(InvalidParameterError, "SetThrustScaleFactor", "thrust scale factor %f of %s must be non negative", s, t.Name)
	}
	t.scaleFactor = s
	return nil
}

// GravityAccel returns the gravitational acceleration (m/s²) used for the mass flow.
func (t *Thruster) GravityAccel() float64 {
	return t.gravityAccel
}

// SetGravityAccel sets the gravitational acceleration, which must be positive.
func (t *Thruster) SetGravityAccel(g float64) error {
	if !(g > 0) || math.IsInf(g, 0) {
		return newError(InvalidParameterError, "SetGravityAccel", "gravitational acceleration %f of %s must be positive", g, t.Name)
	}
	t.gravityAccel = g
	return nil
}

// IsFiring returns whether the thruster is firing.
func (t *Thruster) IsFiring() bool {
	return t.firing
}

// SetFiring turns the thruster on or off.
func (t *Thruster) SetFiring(on bool) {
	if on != t.firing {
		level.Debug(t.logger).Log("firing", on)
	}
	t.firing = on
}

// AttachTank adds a tank this thruster draws from.
func (t *Thruster) AttachTank(tank *Tank) {
	t.Tanks = append(t.Tanks, tank)
}

// tankConditions returns the pressure and temperature ratio of the first tank.
func (t *Thruster) tankConditions() (pressure, tempRatio float64) {
	if len(t.Tanks) == 0 {
		return 0, 1
	}
	return t.Tanks[0].Pressure, t.Tanks[0].TemperatureRatio()
}

// CalculateThrustAndIsp returns the thrust (N) and specific impulse (s). Both are zero when not firing.
func (t *Thruster) CalculateThrustAndIsp() (thrust, isp float64, err error) {
	if !t.firing {
		t.thrust, t.isp = 0, 0
		return 0, 0, nil
	}
	if t.constantExpressions {
		t.thrust, t.isp = t.c[0], t.k[0]
		return t.thrust, t.isp, nil
	}
	p, ratio := t.tankConditions()
	t.thrust = evalExpression(&t.c, p, ratio, t.simpleExpressions)
	t.isp = evalExpression(&t.k, p, ratio, t.simpleExpressions)
	if math.IsNaN(t.thrust) || math.IsNaN(t.isp) {
		return 0, 0, newError(NumericalConsistencyError, "CalculateThrustAndIsp", "%s expressions are undefined at %f kPa", t.Name, p)
	}
	return t.thrust, t.isp, nil
}

// evalExpression evaluates a thrust or specific impulse expression. The power
// terms are skipped when simple is set.
func evalExpression(c *[NumCoefficients]float64, p, tempRatio float64, simple bool) float64 {
	v := c[2] + p*(c[3]+p*c[4])
	if !simple {
		v += c[5]*math.Pow(p, c[6]) + c[7]*math.Pow(p, c[8]) + c[9]*math.Pow(p, c[10]) + c[11]*math.Pow(c[12], c[13]*p)
	}
	if tempRatio != 1 {
		v *= math.Pow(tempRatio, 1+c[14]+c[15]*p)
	}
	return c[0] + c[1]*p + v
}

// CalculateMassFlow returns the mass flow rate (kg/s, negative when burning fuel).
func (t *Thruster) CalculateMassFlow() (float64, error) {
	const op = "CalculateMassFlow"
	if !t.firing {
		t.mDot = 0
		return 0, nil
	}
	if len(t.Tanks) == 0 {
		return 0, newError(ConfigurationError, op, "%s has no tank", t.Name)
	}
	thrust, isp, err := t.CalculateThrustAndIsp()
	if err != nil {
		return 0, err
	}
	if isp == 0 {
		return 0, newError(NumericalConsistencyError, op, "%s has a zero specific impulse", t.Name)
	}
	t.mDot = -thrust / (t.gravityAccel * isp) * t.dutyCycle
	return t.mDot, nil
}

// ComputeInertialDirection returns the unit thrust direction in the J2000 frame at the A.1 epoch.
func (t *Thruster) ComputeInertialDirection(epoch float64) ([3]float64, error) {
	return t.ConvertDirectionToInertial(t.Direction, epoch)
}

// ConvertDirectionToInertial returns the J2000 unit vector of the provided direction at the A.1 epoch.
func (t *Thruster) ConvertDirectionToInertial(dir [3]float64, epoch float64) ([3]float64, error) {
	var state [6]float64
	if t.CoordinateSystem == nil && t.Axes != MJ2000Eq {
		if t.spacecraft == nil {
			return [3]float64{}, newError(ConfigurationError, "ConvertDirectionToInertial", "%s is not mounted on a spacecraft", t.Name)
		}
		state = t.spacecraft.State
		if t.Origin != nil {
			origin, err := t.Origin.MJ2000State(t.spacecraft.Epoch)
			if err != nil {
				return [3]float64{}, err
			}
			for i := range state {
				state[i] -= origin[i]
			}
		}
	}
	return t.toInertial(dir, epoch, state)
}

// toInertial converts the direction with the provided state relative to the origin.
func (t *Thruster) toInertial(dir [3]float64, epoch float64, state [6]float64) ([3]float64, error) {
	var out [3]float64
	var err error
	if t.CoordinateSystem != nil {
		out, err = t.CoordinateSystem.ToInertial(epoch, dir)
	} else {
		var attitude mat64.Matrix
		if t.spacecraft != nil && t.spacecraft.Attitude != nil {
			attitude = t.spacecraft.Attitude
		}
		out, err = localToInertial(t.Axes, dir, state, attitude)
	}
	if err != nil {
		return out, err
	}
	n := norm(out[:])
	if n == 0 {
		return out, newError(InvalidParameterError, "ConvertDirectionToInertial", "%s has a zero thrust direction", t.Name)
	}
	for i := range out {
		out[i] /= n
	}
	return out, nil
}
