// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// unknownMethod labels requests for methods the server does not implement,
// keeping the label set bounded.
const unknownMethod = "unknown"

// rpcMetrics holds the Prometheus collectors of the RPC server.
type rpcMetrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newRPCMetrics() *rpcMetrics {
	m := &rpcMetrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "halsimd",
			Subsystem: "rpc",
			Name:      "requests_total",
			Help:      "Number of RPC requests by method and result code.",
		}, []string{"method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "halsimd",
			Subsystem: "rpc",
			Name:      "request_duration_seconds",
			Help:      "Time spent executing RPC requests.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"method"}),
	}
	m.registry.MustRegister(m.requests, m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return m
}

// observe records one finished request.  The code label is "ok" for
// successful requests and the numeric RPC error code otherwise.
func (m *rpcMetrics) observe(method string, jsonErr *btcjson.RPCError, elapsed time.Duration) {
	if _, ok := rpcHandlers[method]; !ok {
		method = unknownMethod
	}
	code := "ok"
	if jsonErr != nil {
		code = strconv.Itoa(int(jsonErr.Code))
	}
	m.requests.WithLabelValues(method, code).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// handler returns the HTTP handler exposing the collectors.
func (m *rpcMetrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
