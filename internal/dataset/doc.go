// Package dataset loads the telemetry CSV into an immutable in-memory table
// and exposes it through a Source handle that retains the load error when the
// file could not be read. The table is read-only after load, so concurrent
// queries need no locking.
package dataset
