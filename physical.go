package gmat

import (
	"math"

	"github.com/Nikolay2015/GMAT-unicode-sub002/timesys"
)

// Error estimation norms, see StateModel.EstimateError.
const (
	NormL2StepChange = -2
	NormL1StepChange = -1
	NormAbsolute     = 0
	NormL1State      = 1
	NormL2State      = 2
)

// PhysicalModel is a model whose state evolves with time through its derivatives.
type PhysicalModel interface {
	Dimension() int
	State() []float64
	SetState(state []float64) error
	// Epoch returns the A.1 modified Julian epoch of the state.
	Epoch() float64
	SetEpoch(epoch float64)
	// ElapsedTime returns the time in seconds since the epoch.
	ElapsedTime() float64
	SetElapsedTime(dt float64)
	// GetDerivatives returns the derivatives of the provided state, dt seconds after the epoch.
	GetDerivatives(state []float64, dt float64, order int) ([]float64, error)
	// EstimateError returns the largest error of an integration step, per triplet of components.
	EstimateError(diffs, answer []float64) float64
}

// StateModel holds the state bookkeeping shared by physical models.
type StateModel struct {
	state       []float64
	epoch       float64
	elapsedTime float64
	// NormType selects the error norm, between NormL2StepChange and NormL2State.
	NormType int
	// RelativeErrorThreshold is the magnitude below which relative errors are computed as absolute errors.
	RelativeErrorThreshold float64
}

// NewStateModel returns a state model of the provided dimension.
func NewStateModel(dimension int) StateModel {
	return StateModel{state: make([]float64, dimension), NormType: NormL2State, RelativeErrorThreshold: 0.1}
}

// Dimension implements the PhysicalModel interface.
func (m *StateModel) Dimension() int {
	return len(m.state)
}

// State implements the PhysicalModel interface. The returned slice is the model's own buffer.
func (m *StateModel) State() []float64 {
	return m.state
}

// SetState implements the PhysicalModel interface.
func (m *StateModel) SetState(state []float64) error {
	if len(state) != len(m.state) {
		return newError(InvalidParameterError, "SetState", "state of dimension %d for a model of dimension %d", len(state), len(m.state))
	}
	copy(m.state, state)
	return nil
}

// Epoch implements the PhysicalModel interface.
func (m *StateModel) Epoch() float64 {
	return m.epoch
}

// SetEpoch implements the PhysicalModel interface and resets the elapsed time.
func (m *StateModel) SetEpoch(epoch float64) {
	m.epoch = epoch
	m.elapsedTime = 0
}

// ElapsedTime implements the PhysicalModel interface.
func (m *StateModel) ElapsedTime() float64 {
	return m.elapsedTime
}

// SetElapsedTime implements the PhysicalModel interface.
func (m *StateModel) SetElapsedTime(dt float64) {
	m.elapsedTime = dt
}

// CurrentEpoch returns the epoch plus the elapsed time.
func (m *StateModel) CurrentEpoch() float64 {
	return m.epoch + m.elapsedTime/timesys.SecondsPerDay
}

// EstimateError implements the PhysicalModel interface. Components are taken
// three at a time, and the largest error is returned. Depending on NormType,
// the error is relative to the change over the step (negative), absolute
// (zero), or relative to the new state (positive), with an L1 (±1) or L2 (±2) norm.
func (m *StateModel) EstimateError(diffs, answer []float64) float64 {
	var retval float64
	for i := 0; i < len(m.state) && i < len(diffs); i += 3 {
		end := i + 3
		if end > len(m.state) {
			end = len(m.state)
		}
		var errSum, mag float64
		for j := i; j < end; j++ {
			switch m.NormType {
			case NormL2StepChange:
				delta := answer[j] - m.state[j]
				mag += delta * delta
				errSum += diffs[j] * diffs[j]
			case NormL1StepChange:
				mag += math.Abs(answer[j] - m.state[j])
				errSum += math.Abs(diffs[j])
			case NormAbsolute:
				errSum += diffs[j] * diffs[j]
			case NormL1State:
				mag += math.Abs(answer[j])
				errSum += math.Abs(diffs[j])
			default:
				mag += answer[j] * answer[j]
				errSum += diffs[j] * diffs[j]
			}
		}
		var err float64
		switch m.NormType {
		case NormL1StepChange, NormL1State:
			err = errSum
			if mag > m.RelativeErrorThreshold {
				err /= mag
			}
		case NormAbsolute:
			err = math.Sqrt(errSum)
		default:
			if mag > m.RelativeErrorThreshold {
				err = math.Sqrt(errSum / mag)
			} else {
				err = math.Sqrt(errSum)
			}
		}
		if err > retval {
			retval = err
		}
	}
	return retval
}
