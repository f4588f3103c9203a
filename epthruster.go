package gmat

// EPThruster is an electric propulsion thruster datasheet.
type EPThruster interface {
	// Returns the minimum power and voltage requirements for this EPThruster.
	Min() (voltage, power uint)
	// Returns the max power and voltage requirements for this EPThruster.
	Max() (voltage, power uint)
	// Returns the thrust in Newtons and isp consumed in seconds.
	Thrust(voltage, power uint) (thrust, isp float64, err error)
}

func unsupportedOperatingPoint(name string, voltage, power uint) error {
	return newError(InvalidParameterError, "Thrust", "%s does not operate at %d V and %d W", name, voltage, power)
}

/* Available EPThrusters */

// PPS1350 is the Snecma EPThruster used on SMART-1.
type PPS1350 struct{}

// Min implements the EPThruster interface.
func (t *PPS1350) Min() (voltage, power uint) {
	return t.Max()
}

// Max implements the EPThruster interface.
func (t *PPS1350) Max() (voltage, power uint) {
	return 350, 2500
}

// Thrust implements the EPThruster interface.
func (t *PPS1350) Thrust(voltage, power uint) (thrust, isp float64, err error) {
	if voltage == 350 && power == 2500 {
		return 89e-3, 1650, nil
	}
	return 0, 0, unsupportedOperatingPoint("PPS1350", voltage, power)
}

// HERMeS is based on the NASA & Rocketdyne 12.5kW demo
type HERMeS struct{}

// Min implements the EPThruster interface.
func (t *HERMeS) Min() (voltage, power uint) {
	return t.Max()
}

// Max implements the EPThruster interface.
func (t *HERMeS) Max() (voltage, power uint) {
	return 800, 12500
}

// Thrust implements the EPThruster interface.
func (t *HERMeS) Thrust(voltage, power uint) (thrust, isp float64, err error) {
	if voltage == 800 && power == 12500 {
		return 0.680, 2960, nil
	}
	return 0, 0, unsupportedOperatingPoint("HERMeS", voltage, power)
}

// GenericEP is a generic EP EPThruster.
type GenericEP struct {
	thrust float64
	isp    float64
}

// Min implements the EPThruster interface.
func (t *GenericEP) Min() (voltage, power uint) {
	return 0, 0
}

// Max implements the EPThruster interface.
func (t *GenericEP) Max() (voltage, power uint) {
	return 0, 0
}

// Thrust implements the EPThruster interface.
func (t *GenericEP) Thrust(voltage, power uint) (thrust, isp float64, err error) {
	return t.thrust, t.isp, nil
}

// NewGenericEP returns a generic electric prop EPThruster.
func NewGenericEP(thrust, isp float64) *GenericEP {
	return &GenericEP{thrust, isp}
}

// EPThrusterByName returns the datasheet of a known thruster.
func EPThrusterByName(name string) (EPThruster, error) {
	switch name {
	case "PPS1350":
		return new(PPS1350), nil
	case "HERMeS":
		return new(HERMeS), nil
	}
	return nil, newError(ConfigurationError, "EPThrusterByName", "unknown electric thruster %q", name)
}

// NewThrusterFromEP returns a thruster with constant thrust and specific impulse
// from the datasheet at the provided operating point.
func NewThrusterFromEP(name string, ep EPThruster, voltage, power uint) (*Thruster, error) {
	thrust, isp, err := ep.Thrust(voltage, power)
	if err != nil {
		return nil, err
	}
	t := NewThruster(name)
	var c, k [NumCoefficients]float64
	c[0], k[0] = thrust, isp
	if err := t.SetCoefficients(c, k); err != nil {
		return nil, err
	}
	return t, nil
}
