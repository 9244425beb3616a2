// Package metrics provides build observability hooks for elmbuild.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection never needs nil checks at call sites.
// The watch command swaps in a PrometheusRecorder and serves its registry
// through HTTPHandler.
package metrics
