package main

import (
	"fmt"
	"net/http"
	"os"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	gmat "github.com/Nikolay2015/GMAT-unicode-sub002"
	"github.com/Nikolay2015/GMAT-unicode-sub002/timesys"
)

var (
	configFile  string
	metricsAddr string
	debug       bool

	conf   gmat.Config
	logger kitlog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gmatcore",
	Short: "Body rotations, ephemerides and finite burns",
	Long: `gmatcore exercises the numerical core: body fixed rotations, DE ephemerides,
ephemeris propagation and finite burns.

The configuration is read from --config, or from conf.toml in the directory
named by GMAT_CONFIG.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "configuration file (TOML)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug everything (really verbose)")
	rootCmd.AddCommand(rotationCmd, propagateCmd, thrustCmd, ephemCmd)
}

func setup(cmd *cobra.Command, args []string) (err error) {
	allowed := level.AllowInfo()
	if debug {
		allowed = level.AllowDebug()
	}
	logger = level.NewFilter(kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr)), allowed)
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)
	gmat.SetLogger(logger)

	if configFile != "" {
		conf, err = gmat.LoadConfig(configFile)
	} else {
		conf, err = gmat.ConfigFromEnv()
	}
	if err != nil {
		return err
	}
	if metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				level.Error(logger).Log("op", "metrics", "err", err)
			}
		}()
	}
	return nil
}

// environment returns the time converter and the solar system of the configuration.
func environment() (*timesys.Converter, *gmat.SolarSystem, error) {
	conv, err := conf.Converter()
	if err != nil {
		return nil, nil, err
	}
	provider, err := conf.Ephemeris(conv)
	if err != nil {
		return nil, nil, err
	}
	return conv, conf.SolarSystem(provider), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
