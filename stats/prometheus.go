/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package stats

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// PrometheusExporter periodically copies Counters into a Prometheus
// registry and serves it on /metrics.
type PrometheusExporter struct {
	mu       sync.Mutex
	counters *Counters
	registry *prometheus.Registry
	gauges   map[string]prometheus.Gauge
	port     int
	interval time.Duration
}

// NewPrometheusExporter builds an exporter that scrapes counters every
// interval and listens on listenPort.
func NewPrometheusExporter(counters *Counters, listenPort int, interval time.Duration) *PrometheusExporter {
	return &PrometheusExporter{
		counters: counters,
		registry: prometheus.NewRegistry(),
		gauges:   make(map[string]prometheus.Gauge),
		port:     listenPort,
		interval: interval,
	}
}

// Start serves /metrics in the background and begins the periodic
// scrape loop.
func (e *PrometheusExporter) Start() {
	http.Handle("/metrics", promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{EnableOpenMetrics: true}))

	go func() {
		addr := fmt.Sprintf(":%d", e.port)
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Errorf("prometheus exporter stopped: %v", err)
		}
	}()

	go func() {
		ticker := time.NewTicker(e.interval)
		defer ticker.Stop()
		for range ticker.C {
			e.scrape()
		}
	}()
}

func (e *PrometheusExporter) scrape() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for key, value := range e.counters.Snapshot() {
		gauge, ok := e.gauges[key]
		if !ok {
			gauge = prometheus.NewGauge(prometheus.GaugeOpts{
				Name: flattenKey(key),
				Help: fmt.Sprintf("pnetcore counter %s", key),
			})
			if err := e.registry.Register(gauge); err != nil {
				var are prometheus.AlreadyRegisteredError
				if errors.As(err, &are) {
					gauge = are.ExistingCollector.(prometheus.Gauge)
				} else {
					log.Errorf("failed to register gauge %s: %v", key, err)
					continue
				}
			}
			e.gauges[key] = gauge
		}
		gauge.Set(float64(value))
	}
}

// flattenKey turns a dotted counter name into a Prometheus-legal
// metric name.
func flattenKey(key string) string {
	out := make([]byte, len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c == '.' || c == '-' {
			out[i] = '_'
		} else {
			out[i] = c
		}
	}
	return "pnetcore_" + string(out)
}
