package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	versioncollector "github.com/prometheus/client_golang/prometheus/collectors/version"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/evanr70/usage/internal/log"
)

func newRegistry(cols ...prometheus.Collector) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(versioncollector.NewCollector(programName))
	reg.MustRegister(cols...)
	return reg
}

// serveMetrics exposes reg on addr in the background. A failing listener is
// logged but does not stop the terminal view.
func serveMetrics(addr string, reg prometheus.Gatherer) {
	mux := http.NewServeMux()
	mux.Handle("/", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	go func() {
		log.Info("serving metrics on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error("metrics endpoint stopped: %+v", err)
		}
	}()
}
