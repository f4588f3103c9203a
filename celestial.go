package gmat

import (
	"github.com/Nikolay2015/GMAT-unicode-sub002/ephemeris"
	"github.com/Nikolay2015/GMAT-unicode-sub002/timesys"
)

// RotationDataSource is the source of a body's rotation data.
type RotationDataSource uint8

const (
	SourceNone RotationDataSource = iota
	// SourceDEFile uses the lunar librations of a DE file.
	SourceDEFile
	// SourceIAUSimplified uses the IAU cartographic coordinates.
	SourceIAUSimplified
	// SourceFK5IAU1980 uses the FK5 reduction with the IAU 1980 nutation theory.
	SourceFK5IAU1980
)

func (s RotationDataSource) String() string {
	switch s {
	case SourceDEFile:
		return "DE405File"
	case SourceIAUSimplified:
		return "IAUSimplified"
	case SourceFK5IAU1980:
		return "FK5IAU1980"
	}
	return "None"
}

// Cartographic stores the IAU pole and prime meridian model of a body:
// α = Alpha0 + Alpha1·T, δ = Delta0 + Delta1·T and W = W0 + W1·d, in degrees,
// with T in Julian centuries and d in days from J2000 (TDB).
type Cartographic struct {
	Alpha0, Alpha1 float64
	Delta0, Delta1 float64
	W0, W1         float64
}

// CelestialBody defines a celestial body of a SolarSystem.
type CelestialBody struct {
	Name         string
	Radius       float64 // km
	GM           float64 // km^3/s^2
	J2           float64
	Body         ephemeris.Body
	Cartographic Cartographic
	// NutationInterval is the time in seconds during which nutation is reused.
	NutationInterval float64
	rotationSource   RotationDataSource
	system           *SolarSystem
}

// String implements the Stringer interface.
func (c *CelestialBody) String() string {
	return c.Name + " body"
}

// RotationDataSource returns the current rotation data source.
func (c *CelestialBody) RotationDataSource() RotationDataSource {
	return c.rotationSource
}

// SetRotationDataSource changes the rotation data source, which invalidates the
// rotation caches of every axes of this body.
func (c *CelestialBody) SetRotationDataSource(src RotationDataSource) {
	c.rotationSource = src
}

// NutationUpdateInterval returns the time in seconds during which Earth nutation is reused.
func (c *CelestialBody) NutationUpdateInterval() float64 {
	return c.NutationInterval
}

// CartographicCoordinates returns the right ascension and declination of the
// pole, the prime meridian angle (deg) and its rate (deg/day) at the TDB
// modified Julian epoch.
func (c *CelestialBody) CartographicCoordinates(mjdTDB float64) (alpha, delta, w, wDot float64) {
	d := mjdTDB + timesys.JDJan5_1941 - timesys.JDOfJ2000
	t := d / timesys.DaysPerJulianCentury
	cc := c.Cartographic
	return cc.Alpha0 + cc.Alpha1*t, cc.Delta0 + cc.Delta1*t, cc.W0 + cc.W1*d, cc.W1
}

// MJ2000State returns the Cartesian state of this body at the A.1 epoch, in
// the J2000 equatorial frame, relative to the J2000 body of its solar system.
func (c *CelestialBody) MJ2000State(epoch float64) ([6]float64, error) {
	var state [6]float64
	if c.system == nil {
		return state, newError(ConfigurationError, "MJ2000State", "%s is not part of a solar system", c.Name)
	}
	j2000 := c.system.J2000Body()
	if j2000 == c {
		return state, nil
	}
	provider := c.system.Provider()
	if provider == nil {
		return state, newError(ConfigurationError, "MJ2000State", "no ephemeris for %s", c.Name)
	}
	override := c.system.OverrideTimeSystem()
	body, err := provider.PosVel(c.Body, epoch, override)
	if err != nil {
		return state, wrapError("MJ2000State", err)
	}
	ref, err := provider.PosVel(j2000.Body, epoch, override)
	if err != nil {
		return state, wrapError("MJ2000State", err)
	}
	for i := 0; i < 3; i++ {
		state[i] = body.Position[i] - ref.Position[i]
		state[i+3] = body.Velocity[i] - ref.Velocity[i]
	}
	return state, nil
}

// defaultBodies returns fresh copies of the default bodies, with the IAU 2000
// rotation models and the DE405 gravitational parameters.
func defaultBodies() []*CelestialBody {
	return []*CelestialBody{
		{Name: "Sun", Radius: 695990, GM: 1.32712440017987e11, Body: ephemeris.Sun,
			Cartographic: Cartographic{286.13, 0, 63.87, 0, 84.176, 14.1844}, rotationSource: SourceIAUSimplified},
		{Name: "Mercury", Radius: 2439.7, GM: 22032.080, Body: ephemeris.Mercury,
			Cartographic: Cartographic{281.01, -0.033, 61.45, -0.005, 329.548, 6.1385025}, rotationSource: SourceIAUSimplified},
		{Name: "Venus", Radius: 6051.8, GM: 324858.599, J2: 0.000027, Body: ephemeris.Venus,
			Cartographic: Cartographic{272.76, 0, 67.16, 0, 160.20, -1.4813688}, rotationSource: SourceIAUSimplified},
		{Name: "Earth", Radius: 6378.1363, GM: 398600.4415, J2: 1082.6269e-6, Body: ephemeris.Earth,
			Cartographic: Cartographic{0, -0.641, 90, -0.557, 190.147, 360.9856235}, rotationSource: SourceFK5IAU1980,
			NutationInterval: 60},
		{Name: "Luna", Radius: 1738.2, GM: 4902.8005821478, J2: 0.0002027, Body: ephemeris.Moon,
			Cartographic: Cartographic{269.9949, 0.0031, 66.5392, 0.0130, 38.3213, 13.17635815}, rotationSource: SourceDEFile},
		{Name: "Mars", Radius: 3396.19, GM: 42828.314258067, J2: 1964e-6, Body: ephemeris.Mars,
			Cartographic: Cartographic{317.68143, -0.1061, 52.8865, -0.0609, 176.63, 350.89198226}, rotationSource: SourceIAUSimplified},
		{Name: "Jupiter", Radius: 71492, GM: 126712767.8578, J2: 0.01475, Body: ephemeris.Jupiter,
			Cartographic: Cartographic{268.056595, -0.006499, 64.495303, 0.002413, 284.95, 870.536}, rotationSource: SourceIAUSimplified},
		{Name: "Saturn", Radius: 60268, GM: 37940626.061137, J2: 0.01645, Body: ephemeris.Saturn,
			Cartographic: Cartographic{40.589, -0.036, 83.537, -0.004, 38.90, 810.7939024}, rotationSource: SourceIAUSimplified},
		{Name: "Uranus", Radius: 25559, GM: 5794549.0070719, J2: 0.012, Body: ephemeris.Uranus,
			Cartographic: Cartographic{257.311, 0, -15.175, 0, 203.81, -501.1600928}, rotationSource: SourceIAUSimplified},
		{Name: "Neptune", Radius: 24764, GM: 6836534.0638793, Body: ephemeris.Neptune,
			Cartographic: Cartographic{299.36, 0, 43.46, 0, 253.18, 536.3128492}, rotationSource: SourceIAUSimplified},
		{Name: "Pluto", Radius: 1195, GM: 981.600887707, Body: ephemeris.Pluto,
			Cartographic: Cartographic{313.02, 0, 9.09, 0, 236.77, -56.3623195}, rotationSource: SourceIAUSimplified},
	}
}
