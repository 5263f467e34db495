package batch

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/arnodel/feedjson/pipeline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts the work done by a Runner.
type Metrics struct {
	registry *prometheus.Registry

	files     *prometheus.CounterVec
	rows      *prometheus.CounterVec
	documents *prometheus.CounterVec
	merged    *prometheus.CounterVec
	sweeps    prometheus.Histogram
}

// NewMetrics creates the batch metrics in a registry of their own.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "feedjson",
			Name:      "files_total",
			Help:      "Feed files processed, by record type and outcome.",
		}, []string{"type", "status"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "feedjson",
			Name:      "rows_total",
			Help:      "Data rows read.",
		}, []string{"type"}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "feedjson",
			Name:      "documents_total",
			Help:      "JSON documents written.",
		}, []string{"type"}),
		merged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "feedjson",
			Name:      "merged_records_total",
			Help:      "Records merged into the previous record in combine mode.",
		}, []string{"type"}),
		sweeps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "feedjson",
			Name:      "sweep_duration_seconds",
			Help:      "Duration of directory sweeps.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(m.files, m.rows, m.documents, m.merged, m.sweeps)
	return m
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observeFile(typeName string, stats pipeline.Stats, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.files.WithLabelValues(typeName, status).Inc()
	m.rows.WithLabelValues(typeName).Add(float64(stats.Rows))
	m.documents.WithLabelValues(typeName).Add(float64(stats.Documents))
	m.merged.WithLabelValues(typeName).Add(float64(stats.Merged))
}

func (m *Metrics) observeSweep(d time.Duration) {
	if m == nil {
		return
	}
	m.sweeps.Observe(d.Seconds())
}

// Serve exposes the metrics on addr under /metrics until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", slog.String("addr", addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
