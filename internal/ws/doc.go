// Package ws streams live service stats (dataset state and query counters)
// to WebSocket clients on a fixed interval. Slow clients are disconnected
// rather than allowed to back up the broadcast loop.
package ws
