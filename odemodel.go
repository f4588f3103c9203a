package gmat

import (
	"math"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

// ODEModel sums the derivatives of its forces to integrate a Cartesian state
// [x y z vx vy vz] optionally followed by the total mass (kg).
type ODEModel struct {
	StateModel
	forces []PhysicalModel
	logger kitlog.Logger
}

// NewODEModel returns an ODE model at the provided A.1 epoch and state.
func NewODEModel(epoch float64, state []float64, forces ...PhysicalModel) (*ODEModel, error) {
	if len(state) != 6 && len(state) != 7 {
		return nil, newError(InvalidParameterError, "NewODEModel", "state must have 6 or 7 components, got %d", len(state))
	}
	m := &ODEModel{StateModel: NewStateModel(len(state)), forces: forces, logger: subsysLogger("ode")}
	copy(m.state, state)
	m.SetEpoch(epoch)
	return m, nil
}

// AddForce adds a force to this model.
func (m *ODEModel) AddForce(f PhysicalModel) {
	m.forces = append(m.forces, f)
}

// GetDerivatives implements the PhysicalModel interface. Only first order derivatives are supported.
func (m *ODEModel) GetDerivatives(state []float64, dt float64, order int) ([]float64, error) {
	if order != 1 {
		return nil, newError(InvalidParameterError, "GetDerivatives", "derivative order %d is not supported", order)
	}
	deriv := make([]float64, len(state))
	copy(deriv[:3], state[3:6])
	for _, f := range m.forces {
		fd, err := f.GetDerivatives(state, dt, order)
		if err != nil {
			return nil, err
		}
		for i := 3; i < len(deriv) && i < len(fd); i++ {
			deriv[i] += fd[i]
		}
	}
	return deriv, nil
}

// Propagate integrates the state over the duration (s, negative to propagate
// backward) with a fixed step size.
func (m *ODEModel) Propagate(duration, step float64) error {
	if step == 0 || math.IsNaN(step) {
		return newError(InvalidParameterError, "Propagate", "invalid step size %f", step)
	}
	if duration == 0 {
		return nil
	}
	step = math.Copysign(step, duration)
	for _, f := range m.forces {
		f.SetEpoch(m.CurrentEpoch())
	}
	start := m.elapsedTime
	full := uint64(math.Abs(duration / step))
	rk := NewRK4(0, step, &odePropagation{model: m, steps: full, step: step})
	iters, x, err := rk.Solve()
	if err != nil {
		return wrapError("Propagate", err)
	}
	if rem := duration - x; math.Abs(rem) > 1e-9 {
		next, err := rk.Step(x, m.state, rem)
		if err != nil {
			return wrapError("Propagate", err)
		}
		copy(m.state, next)
		m.elapsedTime += rem
		iters++
	}
	level.Debug(m.logger).Log("op", "Propagate", "from", start, "to", m.elapsedTime, "steps", iters)
	return nil
}

// StepError returns the error estimated by step doubling for a step of size h from the current state.
// The state is left unchanged.
func (m *ODEModel) StepError(h float64) (float64, error) {
	if h == 0 || math.IsNaN(h) {
		return 0, newError(InvalidParameterError, "StepError", "invalid step size %f", h)
	}
	for _, f := range m.forces {
		f.SetEpoch(m.CurrentEpoch())
	}
	rk := NewRK4(0, h, &odePropagation{model: m, step: h})
	_, est, err := rk.StepWithError(0, m.state, h, m)
	return est, err
}

// odePropagation adapts an ODEModel to the Integrable interface.
type odePropagation struct {
	model *ODEModel
	steps uint64
	step  float64
}

func (p *odePropagation) GetState() []float64 {
	return p.model.state
}

func (p *odePropagation) SetState(i uint64, s []float64) {
	copy(p.model.state, s)
	p.model.elapsedTime += p.step
}

func (p *odePropagation) Stop(i uint64) bool {
	return i >= p.steps
}

func (p *odePropagation) Func(t float64, s []float64) ([]float64, error) {
	return p.model.GetDerivatives(s, t, 1)
}
