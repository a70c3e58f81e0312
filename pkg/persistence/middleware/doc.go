// Package middleware decorates a ports.StateStore with logging and
// Prometheus latency metrics. Middlewares compose with Chain.
package middleware
