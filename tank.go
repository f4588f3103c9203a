package gmat

// Tank is a fuel tank.
type Tank struct {
	Name              string
	FuelMass          float64 // kg
	Pressure          float64 // kPa
	Temperature       float64 // °C
	RefTemperature    float64 // °C
	AllowNegativeFuel bool
}

// NewTank returns a tank at 1500 kPa and 20 °C.
func NewTank(name string, fuelMass float64) *Tank {
	return &Tank{Name: name, FuelMass: fuelMass, Pressure: 1500, Temperature: 20, RefTemperature: 20}
}

// TemperatureRatio returns the ratio of the temperature to the reference temperature, or 1 without reference.
func (t *Tank) TemperatureRatio() float64 {
	if t.RefTemperature == 0 {
		return 1
	}
	return t.Temperature / t.RefTemperature
}

// Deplete removes the provided fuel mass (kg) from the tank.
func (t *Tank) Deplete(mass float64) error {
	if mass < 0 {
		return newError(InvalidParameterError, "Deplete", "cannot deplete %s by a negative mass %f", t.Name, mass)
	}
	if t.FuelMass-mass < 0 && !t.AllowNegativeFuel {
		return newError(NumericalConsistencyError, "Deplete", "%s holds %f kg, cannot use %f kg", t.Name, t.FuelMass, mass)
	}
	t.FuelMass -= mass
	return nil
}
