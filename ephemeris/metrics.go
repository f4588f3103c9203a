package ephemeris

import "github.com/prometheus/client_golang/prometheus"

var lookups = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "gmat_ephemeris_lookups_total",
	Help: "Number of Chebyshev evaluations served by DE ephemeris sources.",
})

func init() {
	prometheus.MustRegister(lookups)
}
