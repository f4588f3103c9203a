package gmat

import "github.com/prometheus/client_golang/prometheus"

var (
	rotationComputations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gmat_rotation_computations_total",
		Help: "Number of body fixed rotation matrices computed.",
	}, []string{"body", "class"})
	rotationCacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gmat_rotation_cache_hits_total",
		Help: "Number of rotation requests served from the cached matrices.",
	}, []string{"body"})
	nutationEvaluations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gmat_nutation_evaluations_total",
		Help: "Number of Earth nutation evaluations.",
	})
	propagatorSteps = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gmat_propagator_steps_total",
		Help: "Number of steps taken by ephemeris propagators.",
	})
	integratorSteps = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gmat_integrator_steps_total",
		Help: "Number of RK4 steps taken by ODE models.",
	})
)

func init() {
	prometheus.MustRegister(rotationComputations, rotationCacheHits, nutationEvaluations, propagatorSteps, integratorSteps)
}
