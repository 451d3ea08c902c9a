// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xmetrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	CounterType   = "counter"
	GaugeType     = "gauge"
	HistogramType = "histogram"
)

var (
	ErrEmptyMetricName       = errors.New("metric names cannot be empty")
	ErrUnsupportedMetricType = errors.New("unsupported metric type")
	ErrDuplicateMetric       = errors.New("duplicate metric")
)

// Metric declares a Prometheus vector.  Every metric is a vector, so LabelNames may be empty.
type Metric struct {
	Name string `json:"name"`

	// Type is one of CounterType, GaugeType, or HistogramType
	Type string `json:"type"`

	// Namespace and Subsystem default to the enclosing Options' values
	Namespace string `json:"namespace,omitempty"`
	Subsystem string `json:"subsystem,omitempty"`

	// Help defaults to Name
	Help string `json:"help,omitempty"`

	ConstLabels map[string]string `json:"constLabels,omitempty"`
	LabelNames  []string          `json:"labelNames,omitempty"`

	// Buckets is only used by histograms.  If unset, prometheus.DefBuckets applies.
	Buckets []float64 `json:"buckets,omitempty"`
}

func (m Metric) opts() prometheus.Opts {
	help := m.Help
	if len(help) == 0 {
		help = m.Name
	}

	return prometheus.Opts{
		Namespace:   m.Namespace,
		Subsystem:   m.Subsystem,
		Name:        m.Name,
		Help:        help,
		ConstLabels: prometheus.Labels(m.ConstLabels),
	}
}

// NewCollector builds, but does not register, the vector m declares
func NewCollector(m Metric) (prometheus.Collector, error) {
	if len(m.Name) == 0 {
		return nil, ErrEmptyMetricName
	}

	opts := m.opts()
	switch m.Type {
	case CounterType:
		return prometheus.NewCounterVec(prometheus.CounterOpts(opts), m.LabelNames), nil

	case GaugeType:
		return prometheus.NewGaugeVec(prometheus.GaugeOpts(opts), m.LabelNames), nil

	case HistogramType:
		return prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   opts.Namespace,
				Subsystem:   opts.Subsystem,
				Name:        opts.Name,
				Help:        opts.Help,
				ConstLabels: opts.ConstLabels,
				Buckets:     m.Buckets,
			},
			m.LabelNames,
		), nil

	default:
		return nil, fmt.Errorf("%w %q for metric %s", ErrUnsupportedMetricType, m.Type, m.Name)
	}
}
