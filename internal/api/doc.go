// Package api implements the HTTP REST API for pulsecheck.
//
// New(...) returns a handler that serves:
//
//	POST /api/v1/latency — per-region latency/uptime aggregates for the
//	                       requested regions and threshold
//	GET  /api/v1/health  — service status and dataset load state
//	GET  /api/v1/dataset — column names, row count, resolved column roles
//
// All endpoints respond with Content-Type: application/json; errors are
// {"error": "..."} bodies. A dataset that failed to load yields 500 on every
// query; an unresolvable latency or region column yields 400 naming the
// missing roles and the candidate names tried.
package api
