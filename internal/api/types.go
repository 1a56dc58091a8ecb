package api

// LatencyRequest is the body of POST /api/v1/latency. ThresholdMS is a
// pointer so a missing field is distinguishable from an explicit zero.
type LatencyRequest struct {
	Regions     []string `json:"regions"`
	ThresholdMS *float64 `json:"threshold_ms"`
}

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status        string `json:"status"` // ok | degraded
	DatasetLoaded bool   `json:"dataset_loaded"`
	Rows          int    `json:"rows"`
	Columns       int    `json:"columns"`
	Error         string `json:"error,omitempty"`
}

// DatasetResponse is the payload for GET /api/v1/dataset.
type DatasetResponse struct {
	Columns []string      `json:"columns"`
	Rows    int           `json:"rows"`
	Roles   RolesResponse `json:"roles"`
}

// RolesResponse reports which column was resolved for each semantic role.
// Unresolved roles are omitted.
type RolesResponse struct {
	Latency string `json:"latency,omitempty"`
	Region  string `json:"region,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}
