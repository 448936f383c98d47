// Copyright 2025 The kbroker Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics exposes the broker's request-handling counters and
// latency histogram over the default prometheus registry, scraped by
// the admin HTTP server's /metrics route.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kbroker",
		Name:      "requests_total",
		Help:      "Requests handled, by API key.",
	}, []string{"api_key"})

	InternalErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kbroker",
		Name:      "internal_errors_total",
		Help:      "Connection-fatal errors (truncated input, varint overflow, framing mismatch, log-file or socket I/O failure).",
	})

	HandlerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "kbroker",
		Name:      "handler_duration_seconds",
		Help:      "Time spent inside a per-API handler, excluding socket I/O.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"api_key"})

	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "kbroker",
		Name:      "connections_active",
		Help:      "Currently open client connections.",
	})
)

// ApiKeyLabel formats an api key for use as the api_key label value.
func ApiKeyLabel(apiKey int16) string {
	return strconv.Itoa(int(apiKey))
}
