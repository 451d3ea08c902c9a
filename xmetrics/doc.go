// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package xmetrics provides configurability for Prometheus-based metrics.  The more general go-kit interfaces
are used where possible, so that components such as listeners and handlers depend only on metrics.Counter,
metrics.Gauge, and metrics.Histogram.
*/
package xmetrics
