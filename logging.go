package gmat

import (
	"os"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

var logger = level.NewFilter(kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout)), level.AllowInfo())

// SetLogger replaces the logger of the components created afterwards.
// It must not be called concurrently with the creation of components.
func SetLogger(l kitlog.Logger) {
	logger = l
}

// Logger returns the current package logger.
func Logger() kitlog.Logger {
	return logger
}

func subsysLogger(subsys string) kitlog.Logger {
	return kitlog.With(logger, "subsys", subsys)
}
