// Package aggregate computes per-region latency and uptime statistics over
// the loaded telemetry table: mean latency, interpolated 95th-percentile
// latency, mean uptime (with percent-scale detection) and the count of
// threshold breaches. Cells that fail numeric coercion are treated as missing
// data, never as errors.
package aggregate
