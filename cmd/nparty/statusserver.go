package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/alexjago/nparty/internal/progress"
	"github.com/alexjago/nparty/pkg/log"
)

// startStatusServer serves /healthz, /status, and /metrics on addr in the
// background, using the same mux.Router-plus-handlers.CustomLoggingHandler
// shape as a larger HTTP API would, trimmed down to the routes a batch
// job's operator actually needs. runID identifies the invocation this
// server is reporting on.
func startStatusServer(addr string, reg *prometheus.Registry, runID string) {
	startedAt := time.Now()

	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	r.HandleFunc("/status", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(struct {
			RunID     string    `json:"run_id"`
			StartedAt time.Time `json:"started_at"`
		}{RunID: runID, StartedAt: startedAt})
	})
	r.Handle("/metrics", progress.Handler(reg))

	r.Use(handlers.CompressHandler)
	logged := handlers.CustomLoggingHandler(log.InfoWriter, r, func(w io.Writer, params handlers.LogFormatterParams) {
		fmt.Fprintf(w, "%s %s %d\n", params.Request.Method, params.URL.Path, params.StatusCode)
	})

	go func() {
		if err := http.ListenAndServe(addr, logged); err != nil && err != http.ErrServerClosed {
			log.Errorf("status server on %s: %v", addr, err)
		}
	}()
	log.Infof("status server listening on %s", addr)
}
