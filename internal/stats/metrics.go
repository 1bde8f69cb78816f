package stats

import (
	"github.com/prometheus/client_golang/prometheus"

	"bitevo/internal/evo"
	"bitevo/internal/model"
)

// Metrics exports generation progress as Prometheus series labelled by
// problem.
type Metrics struct {
	generations *prometheus.CounterVec
	best        *prometheus.GaugeVec
	mean        *prometheus.GaugeVec
	size        *prometheus.GaugeVec
	runs        *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bitevo_generations_total",
			Help: "Generations ranked by the evolution engine.",
		}, []string{"problem"}),
		best: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bitevo_best_fitness",
			Help: "Best fitness of the most recent generation.",
		}, []string{"problem"}),
		mean: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bitevo_mean_fitness",
			Help: "Mean fitness of the most recent generation.",
		}, []string{"problem"}),
		size: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bitevo_population_size",
			Help: "Population size of the most recent generation.",
		}, []string{"problem"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bitevo_runs_total",
			Help: "Finished runs by outcome.",
		}, []string{"problem", "outcome"}),
	}
	for _, c := range []prometheus.Collector{m.generations, m.best, m.mean, m.size, m.runs} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordGeneration updates the per-generation series from diagnostics.
func (m *Metrics) RecordGeneration(problem string, d model.GenerationDiagnostics) {
	m.generations.WithLabelValues(problem).Inc()
	m.best.WithLabelValues(problem).Set(d.BestFitness)
	m.mean.WithLabelValues(problem).Set(d.MeanFitness)
	m.size.WithLabelValues(problem).Set(float64(d.PopulationSize))
}

func (m *Metrics) RecordRun(problem string, converged bool) {
	outcome := "exhausted"
	if converged {
		outcome = "converged"
	}
	m.runs.WithLabelValues(problem, outcome).Inc()
}

// MetricsObserver feeds every observed generation into m.
func MetricsObserver[F evo.Number](m *Metrics, problem string) evo.Observer[F] {
	return func(population model.Population, generation int, fitness evo.FitnessFunc[F]) {
		m.RecordGeneration(problem, Diagnose(population, generation, fitness))
	}
}
