// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from the conversion pipeline.
//
// The package is intentionally minimal and opinionated:
//
//   - It exposes a narrow interface (Backend) focused on counters and timing
//     data.
//   - It provides a global, pluggable backend that defaults to a no-op
//     implementation, so metrics are always safe to call even when no real
//     backend is configured.
//   - Concrete metric systems live in subpackages; the rest of the codebase
//     depends only on this interface.
//
// The primary use case is instrumentation of the conversion stages (parse,
// type conversion, emit, load) without coupling the core logic to a specific
// metrics system such as Prometheus.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStage is a convenience for the common pattern:
// measure latency + success/failure per conversion stage.
func RecordStage(job, stage string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"stage":  stage,
		"status": status,
	}

	backend.IncCounter("csv2json_stage_total", 1, lbls)
	backend.ObserveHistogram("csv2json_stage_duration_seconds", d.Seconds(), lbls)
}

// RecordRecords increments a record-level counter for the given job and kind.
//
// Typical kinds:
//   - "parsed"
//   - "fallback_parsed"
//   - "deduped"
//   - "emitted"
//   - "loaded"
func RecordRecords(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("csv2json_records_total", float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordFiles increments the converted-files counter for the given job.
func RecordFiles(job string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("csv2json_files_total", float64(delta), Labels{
		"job": job,
	})
}
