// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xmetrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollector(t *testing.T) {
	t.Run("Counter", func(t *testing.T) {
		var (
			assert  = assert.New(t)
			require = require.New(t)
		)

		c, err := NewCollector(Metric{Name: "calls_total", Namespace: "ns", LabelNames: []string{"method"}, Type: CounterType})
		require.NoError(err)
		require.IsType((*prometheus.CounterVec)(nil), c)

		c.(*prometheus.CounterVec).WithLabelValues("say_hello").Inc()
		assert.Equal(1.0, testutil.ToFloat64(c.(*prometheus.CounterVec).WithLabelValues("say_hello")))
	})

	t.Run("Gauge", func(t *testing.T) {
		c, err := NewCollector(Metric{Name: "active", Type: GaugeType})
		require.NoError(t, err)
		assert.IsType(t, (*prometheus.GaugeVec)(nil), c)
	})

	t.Run("Histogram", func(t *testing.T) {
		var (
			assert  = assert.New(t)
			require = require.New(t)
		)

		c, err := NewCollector(Metric{Name: "duration_seconds", Type: HistogramType, Buckets: []float64{0.1, 1.0}})
		require.NoError(err)
		require.IsType((*prometheus.HistogramVec)(nil), c)

		c.(*prometheus.HistogramVec).WithLabelValues().Observe(0.5)
		assert.Equal(1, testutil.CollectAndCount(c))
	})

	t.Run("HelpDefaultsToName", func(t *testing.T) {
		assert := assert.New(t)
		assert.Equal("calls_total", Metric{Name: "calls_total"}.opts().Help)
		assert.Equal("custom", Metric{Name: "calls_total", Help: "custom"}.opts().Help)
	})

	t.Run("EmptyName", func(t *testing.T) {
		c, err := NewCollector(Metric{Type: CounterType})
		assert.Nil(t, c)
		assert.ErrorIs(t, err, ErrEmptyMetricName)
	})

	t.Run("UnsupportedType", func(t *testing.T) {
		c, err := NewCollector(Metric{Name: "quantiles", Type: "summary"})
		assert.Nil(t, c)
		assert.ErrorIs(t, err, ErrUnsupportedMetricType)
	})
}
