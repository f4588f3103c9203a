package gmat

import (
	"strings"

	"github.com/Nikolay2015/GMAT-unicode-sub002/ephemeris"
)

// SolarSystem is a registry of celestial bodies sharing one ephemeris.
type SolarSystem struct {
	bodies   map[string]*CelestialBody
	order    []string
	provider ephemeris.Provider
	j2000    *CelestialBody
	override bool
}

// NewSolarSystem returns a solar system with the default bodies and Earth as the J2000 body.
// The provider may be nil when no body state is needed.
func NewSolarSystem(provider ephemeris.Provider) *SolarSystem {
	s := &SolarSystem{bodies: make(map[string]*CelestialBody), provider: provider}
	for _, b := range defaultBodies() {
		s.Add(b)
	}
	s.j2000 = s.bodies["earth"]
	return s
}

// Add adds (or replaces) a body.
func (s *SolarSystem) Add(b *CelestialBody) {
	key := strings.ToLower(b.Name)
	if _, exists := s.bodies[key]; !exists {
		s.order = append(s.order, b.Name)
	}
	b.system = s
	s.bodies[key] = b
}

// Body returns the body of the provided name, case insensitive. "Moon" is an alias of "Luna".
func (s *SolarSystem) Body(name string) (*CelestialBody, error) {
	key := strings.ToLower(name)
	if key == "moon" {
		key = "luna"
	}
	if b, ok := s.bodies[key]; ok {
		return b, nil
	}
	return nil, newError(ConfigurationError, "Body", "unknown body %q", name)
}

// Bodies returns the names of all bodies, in insertion order.
func (s *SolarSystem) Bodies() []string {
	return append([]string(nil), s.order...)
}

// SetJ2000Body sets the body at the origin of the J2000 frame.
func (s *SolarSystem) SetJ2000Body(name string) error {
	b, err := s.Body(name)
	if err != nil {
		return err
	}
	s.j2000 = b
	return nil
}

// J2000Body returns the body at the origin of the J2000 frame.
func (s *SolarSystem) J2000Body() *CelestialBody {
	return s.j2000
}

// Provider returns the ephemeris provider, which may be nil.
func (s *SolarSystem) Provider() ephemeris.Provider {
	return s.provider
}

// SetProvider replaces the ephemeris provider.
func (s *SolarSystem) SetProvider(p ephemeris.Provider) {
	s.provider = p
}

// OverrideTimeSystem returns whether ephemeris lookups use TT instead of TDB.
func (s *SolarSystem) OverrideTimeSystem() bool {
	return s.override
}

// SetOverrideTimeSystem sets whether ephemeris lookups use TT instead of TDB.
func (s *SolarSystem) SetOverrideTimeSystem(override bool) {
	s.override = override
}
