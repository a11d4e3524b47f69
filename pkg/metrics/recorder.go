package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder publishes congestion statistics of the latest routing iteration.
type Recorder struct {
	usedNodes      prometheus.Gauge
	overusedNodes  prometheus.Gauge
	totalOveruse   prometheus.Gauge
	maxOccupancy   prometheus.Gauge
	presentFactor  prometheus.Gauge
	iterations     prometheus.Counter
	updatedCosts   prometheus.Counter
	committedDelta prometheus.Counter
}

func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		usedNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rwroute_used_nodes",
			Help: "Routing resources with non zero occupancy",
		}),
		overusedNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rwroute_overused_nodes",
			Help: "Routing resources with occupancy above capacity",
		}),
		totalOveruse: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rwroute_total_overuse",
			Help: "Sum of occupancy above capacity over all routing resources",
		}),
		maxOccupancy: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rwroute_max_occupancy",
			Help: "Highest occupancy of any routing resource",
		}),
		presentFactor: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rwroute_present_congestion_factor",
			Help: "Pressure factor used by the latest present cost update",
		}),
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rwroute_congestion_iterations_total",
			Help: "Completed congestion update passes",
		}),
		updatedCosts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rwroute_present_cost_updates_total",
			Help: "Present congestion cost recomputations",
		}),
		committedDelta: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rwroute_committed_occupancy_changes_total",
			Help: "Nodes whose pending occupancy change was committed",
		}),
	}

	for _, c := range []prometheus.Collector{r.usedNodes, r.overusedNodes, r.totalOveruse, r.maxOccupancy,
		r.presentFactor, r.iterations, r.updatedCosts, r.committedDelta} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) ObserveIteration(s CongestionStats, presFac float32, updatedCosts, committedNodes int) {
	r.usedNodes.Set(float64(s.UsedNodes))
	r.overusedNodes.Set(float64(s.OverusedNodes))
	r.totalOveruse.Set(float64(s.TotalOveruse))
	r.maxOccupancy.Set(float64(s.MaxOccupancy))
	r.presentFactor.Set(float64(presFac))
	r.iterations.Inc()
	r.updatedCosts.Add(float64(updatedCosts))
	r.committedDelta.Add(float64(committedNodes))
}

// WriteTextfile writes every metric gathered by g to path in the Prometheus text exposition format, e.g.
// for the node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
