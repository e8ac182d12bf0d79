// Package httpserver wraps net/http with graceful shutdown on context
// cancellation or termination signals, plus a probe-friendly healthcheck
// handler.
package httpserver
