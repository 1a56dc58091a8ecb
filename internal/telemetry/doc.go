// Package telemetry exposes the service's own Prometheus metrics: per-route
// HTTP request counts and latencies, and the loaded dataset row count.
package telemetry
