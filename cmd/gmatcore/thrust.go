package main

import (
	"fmt"
	"strconv"

	"github.com/go-kit/kit/log/level"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	gmat "github.com/Nikolay2015/GMAT-unicode-sub002"
)

var thrustScenario string

var thrustCmd = &cobra.Command{
	Use:   "thrust",
	Short: "Integrate a finite burn about a central body",
	Long: `Integrate a spacecraft under point mass gravity and a finite burn described
by a scenario TOML file, e.g.

	[spacecraft]
	name = "sc"
	epoch = 21545.0
	state = [7000.0, 0.0, 0.0, 0.0, 7.546, 0.0]
	dry = 900.0

	[tank]
	fuel = 100.0
	pressure = 1500.0
	temperature = 20.0
	reference_temperature = 20.0

	[thruster]
	C = [500.0]
	K = [2150.0]
	axes = "VNB"
	direction = [1.0, 0.0, 0.0]
	duty_cycle = 1.0

	[burn]
	body = "Earth"
	duration = 600.0
	step = 10.0`,
	Args: cobra.NoArgs,
	RunE: runThrust,
}

func init() {
	thrustCmd.Flags().StringVar(&thrustScenario, "scenario", "", "scenario TOML file (required)")
	thrustCmd.MarkFlagRequired("scenario")
}

func floatSlice(v *viper.Viper, key string) ([]float64, error) {
	var vals []float64
	for _, s := range v.GetStringSlice(key) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %s", key, err)
		}
		vals = append(vals, f)
	}
	return vals, nil
}

func readThruster(v *viper.Viper) (*gmat.Thruster, error) {
	name := v.GetString("thruster.name")
	var th *gmat.Thruster
	if ep := v.GetString("thruster.ep"); ep != "" {
		datasheet, err := gmat.EPThrusterByName(ep)
		if err != nil {
			return nil, err
		}
		if th, err = gmat.NewThrusterFromEP(name, datasheet, uint(v.GetInt("thruster.voltage")), uint(v.GetInt("thruster.power"))); err != nil {
			return nil, err
		}
	} else {
		th = gmat.NewThruster(name)
		var c, k [gmat.NumCoefficients]float64
		for key, coeffs := range map[string]*[gmat.NumCoefficients]float64{"thruster.C": &c, "thruster.K": &k} {
			vals, err := floatSlice(v, key)
			if err != nil {
				return nil, err
			}
			if len(vals) > gmat.NumCoefficients {
				return nil, fmt.Errorf("%s: %d coefficients", key, len(vals))
			}
			copy(coeffs[:], vals)
		}
		if err := th.SetCoefficients(c, k); err != nil {
			return nil, err
		}
	}
	axes, err := gmat.ParseLocalAxes(v.GetString("thruster.axes"))
	if err != nil {
		return nil, err
	}
	th.Axes = axes
	dir, err := floatSlice(v, "thruster.direction")
	if err != nil {
		return nil, err
	}
	if len(dir) != 3 {
		return nil, fmt.Errorf("thruster.direction: %d components", len(dir))
	}
	copy(th.Direction[:], dir)
	if err := th.SetDutyCycle(v.GetFloat64("thruster.duty_cycle")); err != nil {
		return nil, err
	}
	if err := th.SetThrustScaleFactor(v.GetFloat64("thruster.scale_factor")); err != nil {
		return nil, err
	}
	if err := th.SetGravityAccel(v.GetFloat64("thruster.gravity")); err != nil {
		return nil, err
	}
	return th, nil
}

func runThrust(cmd *cobra.Command, args []string) error {
	v := viper.New()
	v.SetDefault("spacecraft.name", "sc")
	v.SetDefault("tank.pressure", 1500.0)
	v.SetDefault("tank.temperature", 20.0)
	v.SetDefault("tank.reference_temperature", 20.0)
	v.SetDefault("thruster.name", "thruster")
	v.SetDefault("thruster.axes", "VNB")
	v.SetDefault("thruster.direction", []interface{}{1.0, 0.0, 0.0})
	v.SetDefault("thruster.duty_cycle", 1.0)
	v.SetDefault("thruster.scale_factor", 1.0)
	v.SetDefault("thruster.gravity", 9.81)
	v.SetDefault("burn.body", "Earth")
	v.SetDefault("burn.step", conf.PropagatorStep)
	v.SetConfigFile(thrustScenario)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("%s: %s", thrustScenario, err)
	}

	_, system, err := environment()
	if err != nil {
		return err
	}
	body, err := system.Body(v.GetString("burn.body"))
	if err != nil {
		return err
	}
	st, err := floatSlice(v, "spacecraft.state")
	if err != nil {
		return err
	}
	if len(st) != 6 {
		return fmt.Errorf("spacecraft.state: %d components", len(st))
	}
	var state [6]float64
	copy(state[:], st)
	sc := gmat.NewSpacecraft(v.GetString("spacecraft.name"), v.GetFloat64("spacecraft.epoch"), state, v.GetFloat64("spacecraft.dry"))
	tank := gmat.NewTank("tank", v.GetFloat64("tank.fuel"))
	tank.Pressure = v.GetFloat64("tank.pressure")
	tank.Temperature = v.GetFloat64("tank.temperature")
	tank.RefTemperature = v.GetFloat64("tank.reference_temperature")
	sc.AddTank(tank)
	th, err := readThruster(v)
	if err != nil {
		return err
	}
	th.AttachTank(tank)
	sc.AddThruster(th)

	burn := gmat.NewFiniteBurn(sc)
	burn.SetFiring(true)
	model, err := gmat.NewODEModel(sc.Epoch, append(sc.State[:], sc.TotalMass()), gmat.NewPointMassGravity(body), burn)
	if err != nil {
		return err
	}
	duration := v.GetFloat64("burn.duration")
	if err := model.Propagate(duration, v.GetFloat64("burn.step")); err != nil {
		return err
	}
	final := model.State()
	if err := burn.Deplete(final[6]); err != nil {
		return err
	}
	burn.SetFiring(false)
	copy(sc.State[:], final[:6])
	sc.Epoch = model.CurrentEpoch()
	level.Info(logger).Log("op", "thrust", "spacecraft", sc.Name, "duration", duration, "fuel", tank.FuelMass)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s at A.1 %f about %s\n", sc.Name, sc.Epoch, body.Name)
	fmt.Fprintf(out, "state = %v\n", sc.State)
	fmt.Fprintf(out, "mass = %f kg (fuel %f kg)\n", sc.TotalMass(), sc.FuelMass())
	return nil
}
