package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-kit/kit/log/level"
	"github.com/spf13/cobra"

	gmat "github.com/Nikolay2015/GMAT-unicode-sub002"
	"github.com/Nikolay2015/GMAT-unicode-sub002/timesys"
)

var (
	propStates   string
	propName     string
	propOrigin   string
	propStart    string
	propStep     float64
	propDuration float64
	propXYZV     bool
)

var propagateCmd = &cobra.Command{
	Use:   "propagate",
	Short: "Propagate a spacecraft along an interpolated states file",
	Long: `Propagate a spacecraft along the records of an interpolated states (.xyzv)
file and write its states relative to the origin as CSV in the output directory.

With --xyzv, the J2000 states are also written as interpolated states along
with a Cosmographia catalog.`,
	Args: cobra.NoArgs,
	RunE: runPropagate,
}

func init() {
	f := propagateCmd.Flags()
	f.StringVar(&propStates, "states", "", "interpolated states file (required)")
	f.StringVar(&propName, "name", "sc", "spacecraft name")
	f.StringVar(&propOrigin, "origin", "Earth", "origin of the published states")
	f.StringVar(&propStart, "start", gmat.FromEphemeris, "start epoch")
	f.Float64Var(&propStep, "step", 0, "step size in seconds (defaults to propagator.step)")
	f.Float64Var(&propDuration, "duration", 86400, "duration in seconds, negative to propagate backward")
	f.BoolVar(&propXYZV, "xyzv", false, "also export the J2000 states and a catalog")
	propagateCmd.MarkFlagRequired("states")
}

// multiPublisher publishes to all of its publishers.
type multiPublisher []gmat.Publisher

func (m multiPublisher) Publish(labels []string, values []float64) error {
	for _, p := range m {
		if err := p.Publish(labels, values); err != nil {
			return err
		}
	}
	return nil
}

// inertialXYZV publishes the inertial states of the propagator.
type inertialXYZV struct {
	prop *gmat.EphemerisPropagator
	xyzv *gmat.XYZVPublisher
}

func (p inertialXYZV) Publish(labels []string, values []float64) error {
	return p.xyzv.Publish(labels, append([]float64{values[0]}, p.prop.GetInertialState()...))
}

func create(name string) (*os.File, error) {
	if err := os.MkdirAll(conf.OutputDir, 0755); err != nil {
		return nil, err
	}
	return os.Create(filepath.Join(conf.OutputDir, name))
}

func runPropagate(cmd *cobra.Command, args []string) error {
	conv, system, err := environment()
	if err != nil {
		return err
	}
	f, err := os.Open(propStates)
	if err != nil {
		return err
	}
	states, err := gmat.LoadInterpolatedStates(f, conv)
	f.Close()
	if err != nil {
		return err
	}
	sc := gmat.NewSpacecraft(propName, 0, [6]float64{}, 0)
	prop := gmat.NewEphemerisPropagator(propName, system, propOrigin, conv)
	prop.StartEpoch = propStart
	prop.StepSize = conf.PropagatorStep
	if propStep != 0 {
		prop.StepSize = propStep
	}
	prop.AddObject(sc, states)

	csvFile, err := create(propName + ".csv")
	if err != nil {
		return err
	}
	defer csvFile.Close()
	pubs := multiPublisher{gmat.NewCSVPublisher(csvFile)}
	var xyzvFile io.WriteCloser
	if propXYZV {
		if xyzvFile, err = create(propName + ".xyzv"); err != nil {
			return err
		}
		defer xyzvFile.Close()
		pubs = append(pubs, inertialXYZV{prop, gmat.NewXYZVPublisher(xyzvFile, conv)})
	}
	prop.Publisher = pubs

	if err := prop.Initialize(); err != nil {
		return err
	}
	start := prop.CurrentEpoch()
	if err := prop.Propagate(propDuration); err != nil {
		return err
	}
	if err := prop.UpdateSpaceObject(-1); err != nil {
		return err
	}
	level.Info(logger).Log("op", "propagate", "spacecraft", sc.Name, "from", start, "to", sc.Epoch, "output", csvFile.Name())

	if propXYZV {
		catalog, err := create(propName + ".json")
		if err != nil {
			return err
		}
		defer catalog.Close()
		first, last := start, sc.Epoch
		if last < first {
			first, last = last, first
		}
		if err := gmat.WriteCatalog(catalog, sc.Name, system.J2000Body().Name, propName+".xyzv", utcTime(conv, first), utcTime(conv, last)); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s at A.1 %f: %v\n", sc.Name, sc.Epoch, sc.State)
	return nil
}

func utcTime(conv *timesys.Converter, a1 float64) time.Time {
	utc, err := conv.Convert(a1, timesys.A1MJD, timesys.UTCMJD)
	if err != nil {
		utc = a1
	}
	return timesys.ToTime(utc)
}
