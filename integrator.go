package gmat

// Integrable defines something which can be integrated, i.e. has a state vector.
type Integrable interface {
	GetState() []float64
	SetState(i uint64, s []float64)
	Stop(i uint64) bool
	Func(t float64, s []float64) ([]float64, error)
}

// ErrorEstimator estimates the error of an integration step from the component
// differences and the new state.
type ErrorEstimator interface {
	EstimateError(diffs, answer []float64) float64
}

// RK4 defines a fixed step fourth order Runge Kutta integrator.
type RK4 struct {
	X0         float64    // The initial x0.
	StepSize   float64    // The step size.
	Integrator Integrable // What is to be integrated.
}

// NewRK4 returns a new RK4 integrator instance.
func NewRK4(x0 float64, stepSize float64, inte Integrable) (r *RK4) {
	if stepSize == 0 {
		panic("config StepSize must not be zero")
	}
	if inte == nil {
		panic("config Integrator may not be nil")
	}
	r = &RK4{X0: x0, StepSize: stepSize, Integrator: inte}
	return
}

// Solve solves the configured RK4.
// Returns the number of iterations performed and the last X_i, or an error.
func (r *RK4) Solve() (uint64, float64, error) {
	iterNum := uint64(0)
	xi := r.X0
	for !r.Integrator.Stop(iterNum) {
		newState, err := r.Step(xi, r.Integrator.GetState(), r.StepSize)
		if err != nil {
			return iterNum, xi, err
		}
		r.Integrator.SetState(iterNum, newState)
		integratorSteps.Inc()
		xi += r.StepSize
		iterNum++
	}
	return iterNum, xi, nil
}

// Step returns the state after one step of size h from state at xi.
func (r *RK4) Step(xi float64, state []float64, h float64) ([]float64, error) {
	const (
		half     = 1 / 2.0
		oneSixth = 1 / 6.0
		oneThird = 1 / 3.0
	)
	halfStep := h * half
	newState := make([]float64, len(state))
	k1 := make([]float64, len(state))
	k2 := make([]float64, len(state))
	k3 := make([]float64, len(state))
	tState := make([]float64, len(state))

	f, err := r.Integrator.Func(xi, state)
	if err != nil {
		return nil, err
	}
	for i, y := range f {
		k1[i] = y * h
		tState[i] = state[i] + k1[i]*half
	}
	if f, err = r.Integrator.Func(xi+halfStep, tState); err != nil {
		return nil, err
	}
	for i, y := range f {
		k2[i] = y * h
		tState[i] = state[i] + k2[i]*half
	}
	if f, err = r.Integrator.Func(xi+halfStep, tState); err != nil {
		return nil, err
	}
	for i, y := range f {
		k3[i] = y * h
		tState[i] = state[i] + k3[i]
	}
	if f, err = r.Integrator.Func(xi+h, tState); err != nil {
		return nil, err
	}
	for i, y := range f {
		newState[i] = state[i] + oneSixth*(k1[i]+y*h) + oneThird*(k2[i]+k3[i])
	}
	return newState, nil
}

// StepWithError takes one full step and two half steps, and returns the more
// accurate result along with the error estimated by the model.
func (r *RK4) StepWithError(xi float64, state []float64, h float64, model ErrorEstimator) ([]float64, float64, error) {
	full, err := r.Step(xi, state, h)
	if err != nil {
		return nil, 0, err
	}
	mid, err := r.Step(xi, state, h/2)
	if err != nil {
		return nil, 0, err
	}
	fine, err := r.Step(xi+h/2, mid, h/2)
	if err != nil {
		return nil, 0, err
	}
	diffs := make([]float64, len(fine))
	for i := range fine {
		diffs[i] = (fine[i] - full[i]) / 15
	}
	return fine, model.EstimateError(diffs, fine), nil
}
