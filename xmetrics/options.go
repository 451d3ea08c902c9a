// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	DefaultNamespace = "xmidt"
	DefaultSubsystem = "corsrpc"
)

// Options configures a Registry
type Options struct {
	// Namespace and Subsystem apply to every metric that doesn't set its own, including ad hoc
	// metrics.  They default to DefaultNamespace and DefaultSubsystem.
	Namespace string `json:"namespace,omitempty"`
	Subsystem string `json:"subsystem,omitempty"`

	// Pedantic checks every collected metric for consistency.  Intended for tests.
	Pedantic bool `json:"pedantic,omitempty"`

	DisableGoCollector      bool `json:"disableGoCollector,omitempty"`
	DisableProcessCollector bool `json:"disableProcessCollector,omitempty"`

	// Metrics are registered up front.  Two metrics with the same name are an error.
	Metrics []Metric `json:"metrics,omitempty"`
}

// withDefaults returns a copy of o, or of the zero Options when o is nil, with defaults filled in
func (o *Options) withDefaults() Options {
	var clone Options
	if o != nil {
		clone = *o
	}

	if len(clone.Namespace) == 0 {
		clone.Namespace = DefaultNamespace
	}

	if len(clone.Subsystem) == 0 {
		clone.Subsystem = DefaultSubsystem
	}

	return clone
}

func (o Options) newPrometheusRegistry() *prometheus.Registry {
	pr := prometheus.NewRegistry()
	if o.Pedantic {
		pr = prometheus.NewPedanticRegistry()
	}

	if !o.DisableGoCollector {
		pr.MustRegister(collectors.NewGoCollector())
	}

	if !o.DisableProcessCollector {
		pr.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{
			Namespace: o.Namespace,
		}))
	}

	return pr
}
