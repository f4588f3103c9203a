package gmat

import (
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Nikolay2015/GMAT-unicode-sub002/ephemeris"
	"github.com/Nikolay2015/GMAT-unicode-sub002/timesys"
)

// ConfigEnv is the environment variable holding the directory of conf.toml.
const ConfigEnv = "GMAT_CONFIG"

// Config is the configuration of the numerical core.
type Config struct {
	DEFile             string
	VSOP87Dir          string
	OverrideTimeSystem bool

	LeapSecondsFile string
	EOPFile         string

	UpdateInterval         float64
	OverrideOriginInterval bool
	CheckDeterminant       bool
	DeterminantTolerance   float64
	EpochTolerance         float64
	Nutation               string
	NutationFile           string

	PropagatorStep float64
	OutputDir      string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ephemeris.override_time_system", false)
	v.SetDefault("rotation.update_interval", 60.0)
	v.SetDefault("rotation.override_origin_interval", false)
	v.SetDefault("rotation.check_determinant", true)
	v.SetDefault("rotation.determinant_tolerance", DefaultDeterminantTolerance)
	v.SetDefault("rotation.epoch_tolerance", EpsilonEqual)
	v.SetDefault("rotation.nutation", "meeus")
	v.SetDefault("propagator.step", 60.0)
	v.SetDefault("output.directory", ".")
}

func configFrom(v *viper.Viper) (Config, error) {
	c := Config{
		DEFile:                 v.GetString("ephemeris.de_file"),
		VSOP87Dir:              v.GetString("ephemeris.vsop87_dir"),
		OverrideTimeSystem:     v.GetBool("ephemeris.override_time_system"),
		LeapSecondsFile:        v.GetString("time.leap_seconds_file"),
		EOPFile:                v.GetString("time.eop_file"),
		UpdateInterval:         v.GetFloat64("rotation.update_interval"),
		OverrideOriginInterval: v.GetBool("rotation.override_origin_interval"),
		CheckDeterminant:       v.GetBool("rotation.check_determinant"),
		DeterminantTolerance:   v.GetFloat64("rotation.determinant_tolerance"),
		EpochTolerance:         v.GetFloat64("rotation.epoch_tolerance"),
		Nutation:               strings.ToLower(v.GetString("rotation.nutation")),
		NutationFile:           v.GetString("rotation.nutation_file"),
		PropagatorStep:         v.GetFloat64("propagator.step"),
		OutputDir:              v.GetString("output.directory"),
	}
	return c, c.Validate()
}

// DefaultConfig returns the configuration without any file.
func DefaultConfig() Config {
	v := viper.New()
	setDefaults(v)
	c, _ := configFrom(v)
	return c
}

// LoadConfig reads the configuration file at path.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, newError(ConfigurationError, "LoadConfig", "%v", err)
	}
	return configFrom(v)
}

// ConfigFromEnv reads conf.toml from the directory in GMAT_CONFIG, or returns the
// default configuration when the variable is not set.
func ConfigFromEnv() (Config, error) {
	dir := os.Getenv(ConfigEnv)
	if dir == "" {
		return DefaultConfig(), nil
	}
	v := viper.New()
	setDefaults(v)
	v.SetConfigName("conf")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, newError(ConfigurationError, "ConfigFromEnv", "%s/conf.toml: %v", dir, err)
	}
	return configFrom(v)
}

// Validate checks the consistency of the configuration.
func (c Config) Validate() error {
	const op = "Config"
	switch c.Nutation {
	case "meeus":
	case "series":
		if c.NutationFile == "" {
			return newError(ConfigurationError, op, "series nutation requires rotation.nutation_file")
		}
	case "de":
		if c.DEFile == "" {
			return newError(ConfigurationError, op, "DE nutation requires ephemeris.de_file")
		}
	default:
		return newError(ConfigurationError, op, "unknown nutation model %q", c.Nutation)
	}
	if c.DEFile != "" && c.VSOP87Dir != "" {
		return newError(ConfigurationError, op, "both a DE file and VSOP87 are configured")
	}
	if !(c.DeterminantTolerance > 0) || !(c.EpochTolerance >= 0) {
		return newError(ConfigurationError, op, "invalid rotation tolerances %g and %g", c.DeterminantTolerance, c.EpochTolerance)
	}
	if !(c.UpdateInterval >= 0) {
		return newError(ConfigurationError, op, "invalid update interval %f", c.UpdateInterval)
	}
	if !(c.PropagatorStep > 0) {
		return newError(ConfigurationError, op, "invalid propagator step %f", c.PropagatorStep)
	}
	return nil
}

// Converter returns the time converter with the configured leap seconds and Earth orientation data.
func (c Config) Converter() (*timesys.Converter, error) {
	var leaps *timesys.LeapSecondTable
	if c.LeapSecondsFile != "" {
		f, err := os.Open(c.LeapSecondsFile)
		if err != nil {
			return nil, newError(ConfigurationError, "Converter", "%v", err)
		}
		defer f.Close()
		if leaps, err = timesys.LoadLeapSeconds(f); err != nil {
			return nil, wrapError("Converter", err)
		}
	}
	var eop timesys.EOPProvider
	if c.EOPFile != "" {
		f, err := os.Open(c.EOPFile)
		if err != nil {
			return nil, newError(ConfigurationError, "Converter", "%v", err)
		}
		defer f.Close()
		table, err := timesys.LoadEOPCSV(f)
		if err != nil {
			return nil, wrapError("Converter", err)
		}
		eop = table
	}
	return timesys.NewConverter(leaps, eop), nil
}

// Ephemeris returns the configured ephemeris, or nil when none is configured.
func (c Config) Ephemeris(conv ephemeris.TimeConverter) (ephemeris.Provider, error) {
	switch {
	case c.DEFile != "":
		src, err := ephemeris.Open(c.DEFile, conv)
		if err != nil {
			return nil, wrapError("Ephemeris", err)
		}
		return src, nil
	case c.VSOP87Dir != "":
		v, err := ephemeris.NewVSOP87(c.VSOP87Dir, conv)
		if err != nil {
			return nil, wrapError("Ephemeris", err)
		}
		return v, nil
	}
	return nil, nil
}

// NutationModel returns the configured Earth nutation model. The provider is
// only used by the DE model.
func (c Config) NutationModel(provider ephemeris.Provider) (NutationModel, error) {
	switch c.Nutation {
	case "series":
		f, err := os.Open(c.NutationFile)
		if err != nil {
			return nil, newError(ConfigurationError, "NutationModel", "%v", err)
		}
		defer f.Close()
		series, err := ephemeris.LoadNutationSeries(f)
		if err != nil {
			return nil, wrapError("NutationModel", err)
		}
		return SeriesNutation{Series: series}, nil
	case "de":
		src, ok := provider.(NutationSource)
		if !ok {
			return nil, newError(ConfigurationError, "NutationModel", "the ephemeris has no nutations")
		}
		return DENutation{Source: src}, nil
	}
	return MeeusNutation{}, nil
}

// SolarSystem returns the default solar system on the provided ephemeris.
func (c Config) SolarSystem(provider ephemeris.Provider) *SolarSystem {
	s := NewSolarSystem(provider)
	s.SetOverrideTimeSystem(c.OverrideTimeSystem)
	return s
}

// Axes returns the body fixed axes of the named body with the rotation settings applied.
func (c Config) Axes(system *SolarSystem, body string, conv TimeConverter) (*BodyFixedAxes, error) {
	a, err := NewBodyFixedAxes(system, body, conv)
	if err != nil {
		return nil, err
	}
	nut, err := c.NutationModel(system.Provider())
	if err != nil {
		return nil, err
	}
	a.SetNutationModel(nut)
	a.UpdateInterval = c.UpdateInterval
	a.OverrideOriginInterval = c.OverrideOriginInterval
	a.CheckDeterminant = c.CheckDeterminant
	a.DeterminantTolerance = c.DeterminantTolerance
	a.EpochTolerance = c.EpochTolerance
	a.OverrideTimeSystem = c.OverrideTimeSystem
	return a, nil
}
