package gmat

import (
	"fmt"
	"strings"

	"github.com/gonum/matrix/mat64"
)

// LocalAxes are the axes a thrust direction may be expressed in.
type LocalAxes uint8

const (
	// MJ2000Eq is the J2000 equatorial frame.
	MJ2000Eq LocalAxes = iota + 1
	// VNB is velocity, orbit normal and binormal.
	VNB
	// LVLH is the local vertical local horizontal frame: radial, in track and orbit normal.
	LVLH
	// SpacecraftBody is the body frame given by the spacecraft attitude.
	SpacecraftBody
)

func (a LocalAxes) String() string {
	switch a {
	case MJ2000Eq:
		return "MJ2000Eq"
	case VNB:
		return "VNB"
	case LVLH:
		return "LVLH"
	case SpacecraftBody:
		return "SpacecraftBody"
	default:
		return fmt.Sprintf("LocalAxes(%d)", a)
	}
}

// ParseLocalAxes returns the local axes from their name.
func ParseLocalAxes(name string) (LocalAxes, error) {
	for _, a := range []LocalAxes{MJ2000Eq, VNB, LVLH, SpacecraftBody} {
		if strings.EqualFold(a.String(), name) {
			return a, nil
		}
	}
	return 0, newError(ConfigurationError, "ParseLocalAxes", "unknown axes %q", name)
}

// localDCM returns the matrix whose rows are the local axes expressed in the inertial frame.
func localDCM(axes LocalAxes, state [6]float64) (*mat64.Dense, error) {
	r, v := state[:3], state[3:]
	h := cross(r, v)
	if norm(h) == 0 {
		return nil, newError(NumericalConsistencyError, "localDCM", "%s axes undefined for a degenerate orbit", axes)
	}
	var x, y, z []float64
	switch axes {
	case VNB:
		x = unit(v)
		y = unit(h)
		z = cross(x, y)
	case LVLH:
		x = unit(r)
		z = unit(h)
		y = cross(z, x)
	default:
		return nil, newError(ConfigurationError, "localDCM", "%s are not orbit axes", axes)
	}
	vals := make([]float64, 9)
	for i := 0; i < 3; i++ {
		vals[i] = x[i]
		vals[i+3] = y[i]
		vals[i+6] = z[i]
	}
	return mat64.NewDense(3, 3, vals), nil
}

// localToInertial returns the direction in the J2000 frame. The state is relative to the
// origin of the local axes; the attitude is only used for the body axes and nil means identity.
func localToInertial(axes LocalAxes, dir [3]float64, state [6]float64, attitude mat64.Matrix) ([3]float64, error) {
	var out [3]float64
	switch axes {
	case MJ2000Eq:
		return dir, nil
	case SpacecraftBody:
		if attitude == nil {
			return dir, nil
		}
		copy(out[:], MxV33(attitude.T(), dir[:]))
		return out, nil
	case VNB, LVLH:
		dcm, err := localDCM(axes, state)
		if err != nil {
			return out, err
		}
		copy(out[:], MxV33(dcm.T(), dir[:]))
		return out, nil
	default:
		return out, newError(ConfigurationError, "localToInertial", "unknown axes %s", axes)
	}
}

// CoordinateSystem converts directions to the J2000 frame.
type CoordinateSystem interface {
	ToInertial(epoch float64, dir [3]float64) ([3]float64, error)
}

// BodyFixedSystem is the coordinate system of body fixed axes.
type BodyFixedSystem struct {
	Axes *BodyFixedAxes
}

// ToInertial implements the CoordinateSystem interface.
func (s BodyFixedSystem) ToInertial(epoch float64, dir [3]float64) ([3]float64, error) {
	var out [3]float64
	rot, _, err := s.Axes.ComputeRotation(epoch, false)
	if err != nil {
		return out, err
	}
	copy(out[:], MxV33(rot.T(), dir[:]))
	return out, nil
}
