// Package metrics exports dispatch counters of a cblock.Engine to Prometheus.
package metrics

import (
	"errors"

	"github.com/oriumgames/cblock"
	"github.com/prometheus/client_golang/prometheus"
)

// Observer is a cblock.Observer counting behavior dispatches and faults per
// capability and block type.
type Observer struct {
	dispatches *prometheus.CounterVec
	faults     *prometheus.CounterVec
	states     prometheus.GaugeFunc
}

// NewObserver creates an observer. If reg is not nil, the number of numeric
// state ids it has assigned is exported as well.
func NewObserver(reg *cblock.Registry) *Observer {
	o := &Observer{
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cblock",
			Name:      "behavior_dispatches_total",
			Help:      "Behavior hook invocations by capability and block type.",
		}, []string{"capability", "block"}),
		faults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cblock",
			Name:      "behavior_faults_total",
			Help:      "Behavior hooks that panicked and were recovered.",
		}, []string{"capability", "block"}),
	}
	if reg != nil {
		o.states = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "cblock",
			Name:      "registered_states",
			Help:      "Numeric block state ids in use, including the empty state.",
		}, func() float64 {
			return float64(reg.StateCount())
		})
	}
	return o
}

// Dispatched counts a hook call.
func (o *Observer) Dispatched(c cblock.Capability, block cblock.Key) {
	o.dispatches.WithLabelValues(c.String(), block.String()).Inc()
}

// Fault counts a hook that panicked.
func (o *Observer) Fault(c cblock.Capability, block cblock.Key, _ error) {
	o.faults.WithLabelValues(c.String(), block.String()).Inc()
}

// Collectors returns the observer's collectors.
func (o *Observer) Collectors() []prometheus.Collector {
	cs := []prometheus.Collector{o.dispatches, o.faults}
	if o.states != nil {
		cs = append(cs, o.states)
	}
	return cs
}

// Register registers the observer's collectors with r. Collectors that are
// already registered are skipped.
func (o *Observer) Register(r prometheus.Registerer) error {
	var errs []error
	for _, c := range o.Collectors() {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Dispatches returns the dispatch counter for a capability and block.
func (o *Observer) Dispatches(c cblock.Capability, block cblock.Key) prometheus.Counter {
	return o.dispatches.WithLabelValues(c.String(), block.String())
}

// Faults returns the fault counter for a capability and block.
func (o *Observer) Faults(c cblock.Capability, block cblock.Key) prometheus.Counter {
	return o.faults.WithLabelValues(c.String(), block.String())
}
