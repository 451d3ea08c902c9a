// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"github.com/xmidt-org/corsrpc/rpc"
	"github.com/xmidt-org/corsrpc/xhttp/xfilter"
	"github.com/xmidt-org/corsrpc/xmetrics"
)

const (
	RPCCallsCounter            = "rpc_calls_total"
	RPCCallDurationHistogram   = "rpc_call_duration_seconds"
	ActiveConnectionsGauge     = "active_connections"
	RejectedConnectionsCounter = "rejected_connections_total"
	RejectedRequestsCounter    = "rejected_requests_total"

	// ServerLabel is the label holding a Builder's Name
	ServerLabel = "server"
)

// Metrics is the module function for this package that declares the metrics a Builder updates.
// A Registry given to a Builder must have been created with these metrics.
func Metrics() []xmetrics.Metric {
	return []xmetrics.Metric{
		{
			Name:       RPCCallsCounter,
			Type:       xmetrics.CounterType,
			Help:       "The total number of JSON-RPC calls, by method and outcome",
			LabelNames: []string{rpc.MethodLabel, rpc.OutcomeLabel},
		},
		{
			Name:       RPCCallDurationHistogram,
			Type:       xmetrics.HistogramType,
			Help:       "How long registered JSON-RPC methods take to run, in seconds",
			LabelNames: []string{rpc.MethodLabel},
			Buckets:    []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		{
			Name:       ActiveConnectionsGauge,
			Type:       xmetrics.GaugeType,
			Help:       "The number of active connections associated with a listener",
			LabelNames: []string{ServerLabel},
		},
		{
			Name:       RejectedConnectionsCounter,
			Type:       xmetrics.CounterType,
			Help:       "The total number of connections rejected because the maximum was reached",
			LabelNames: []string{ServerLabel},
		},
		{
			Name:       RejectedRequestsCounter,
			Type:       xmetrics.CounterType,
			Help:       "The total number of requests refused by a filter, such as access control or the rate limit",
			LabelNames: []string{ServerLabel, xfilter.CodeLabel},
		},
	}
}
