// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xmetrics

import (
	"fmt"
	"sync"

	"github.com/go-kit/kit/metrics"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/go-kit/kit/metrics/provider"
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is a Prometheus registry that also hands out go-kit metrics.
//
// The provider methods look a metric up by name.  A name that was never declared becomes an
// ad hoc, unlabeled metric of the requested kind, and later calls share it.  Asking for a declared
// metric as the wrong kind panics.
type Registry interface {
	provider.Provider
	prometheus.Gatherer
	prometheus.Registerer
}

type registry struct {
	*prometheus.Registry

	namespace string
	subsystem string

	lock    sync.Mutex
	vectors map[string]prometheus.Collector
}

// NewRegistry creates a Registry and registers every metric in o.Metrics.  A nil o means defaults.
func NewRegistry(o *Options) (Registry, error) {
	options := o.withDefaults()
	r := &registry{
		Registry:  options.newPrometheusRegistry(),
		namespace: options.Namespace,
		subsystem: options.Subsystem,
		vectors:   make(map[string]prometheus.Collector, len(options.Metrics)),
	}

	for _, m := range options.Metrics {
		if _, err := r.declare(m); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// declare registers m under its bare name.  The caller must hold the lock, or own r exclusively.
func (r *registry) declare(m Metric) (prometheus.Collector, error) {
	if _, exists := r.vectors[m.Name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateMetric, m.Name)
	}

	if len(m.Namespace) == 0 {
		m.Namespace = r.namespace
	}

	if len(m.Subsystem) == 0 {
		m.Subsystem = r.subsystem
	}

	c, err := NewCollector(m)
	if err != nil {
		return nil, err
	}

	if err := r.Registry.Register(c); err != nil {
		return nil, fmt.Errorf("unable to register metric %s: %w", m.Name, err)
	}

	r.vectors[m.Name] = c
	return c, nil
}

func (r *registry) lookup(name, metricType string) prometheus.Collector {
	r.lock.Lock()
	defer r.lock.Unlock()

	if c, ok := r.vectors[name]; ok {
		return c
	}

	c, err := r.declare(Metric{Name: name, Type: metricType})
	if err != nil {
		panic(err)
	}

	return c
}

func (r *registry) NewCounter(name string) metrics.Counter {
	vec, ok := r.lookup(name, CounterType).(*prometheus.CounterVec)
	if !ok {
		panic(fmt.Errorf("metric %s is not a counter", name))
	}

	return kitprometheus.NewCounter(vec)
}

func (r *registry) NewGauge(name string) metrics.Gauge {
	vec, ok := r.lookup(name, GaugeType).(*prometheus.GaugeVec)
	if !ok {
		panic(fmt.Errorf("metric %s is not a gauge", name))
	}

	return kitprometheus.NewGauge(vec)
}

// NewHistogram ignores buckets.  Bucket layout comes from the Metric declaration.
func (r *registry) NewHistogram(name string, _ int) metrics.Histogram {
	vec, ok := r.lookup(name, HistogramType).(*prometheus.HistogramVec)
	if !ok {
		panic(fmt.Errorf("metric %s is not a histogram", name))
	}

	return kitprometheus.NewHistogram(vec)
}

func (r *registry) Stop() {}
