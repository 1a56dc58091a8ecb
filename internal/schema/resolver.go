package schema

import (
	"fmt"
	"strings"
)

// Role is a semantic column purpose, distinct from the actual column naming.
type Role string

const (
	RoleLatency Role = "latency"
	RoleRegion  Role = "region"
	RoleUptime  Role = "uptime"
)

// Candidate name lists per role, in priority order. Order matters: earlier
// names win the exact-match pass outright.
var candidates = map[Role][]string{
	RoleLatency: {"latency_ms", "latency", "rtt", "ping_ms", "ping"},
	RoleRegion:  {"region", "region_name", "area", "location"},
	RoleUptime:  {"uptime", "availability", "up", "availability_pct"},
}

// Candidates returns the candidate column names tried for a role, in priority
// order. The returned slice must not be modified.
func Candidates(r Role) []string {
	return candidates[r]
}

// Resolve picks the column that plays a role from the available column names.
//
// Two passes, first hit wins:
//  1. exact case-insensitive match, in candidate priority order;
//  2. substring match against the lowercased column name, scanning columns in
//     table order and candidates in priority order.
//
// The second return value is false when neither pass matches; absence is not
// an error here — the caller decides whether the role is mandatory.
func Resolve(available, cands []string) (string, bool) {
	// On duplicate lowercased names the later column wins, matching how the
	// lookup is built from the header left to right.
	lower := make(map[string]string, len(available))
	for _, col := range available {
		lower[strings.ToLower(col)] = col
	}

	for _, cand := range cands {
		if col, ok := lower[cand]; ok {
			return col, true
		}
	}

	for _, col := range available {
		name := strings.ToLower(col)
		for _, cand := range cands {
			if strings.Contains(name, cand) {
				return col, true
			}
		}
	}

	return "", false
}

// Columns holds the resolved role→column assignments for one table schema.
// Uptime is optional: when HasUptime is false the uptime metrics degrade to
// null instead of failing the query.
type Columns struct {
	Latency   string
	Region    string
	Uptime    string
	HasUptime bool
}

// MissingRole describes one mandatory role that could not be resolved.
type MissingRole struct {
	Role       Role
	Candidates []string
}

// ResolutionError reports every mandatory role that could not be resolved
// from the table schema, with the candidate names that were tried. It is a
// client-correctable condition: the request was fine, the dataset is not
// shaped as expected.
type ResolutionError struct {
	Missing []MissingRole
}

func (e *ResolutionError) Error() string {
	parts := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		parts[i] = fmt.Sprintf("could not detect %s column (expected names: %s)",
			m.Role, strings.Join(m.Candidates, ", "))
	}
	return strings.Join(parts, "; ")
}

// Detect resolves all three roles against the table's column names.
// Latency and Region are mandatory; if either is missing the returned error
// is a *ResolutionError citing every missing role. Uptime absence only clears
// HasUptime.
func Detect(available []string) (Columns, error) {
	var cols Columns
	var missing []MissingRole

	if c, ok := Resolve(available, candidates[RoleLatency]); ok {
		cols.Latency = c
	} else {
		missing = append(missing, MissingRole{Role: RoleLatency, Candidates: candidates[RoleLatency]})
	}

	if c, ok := Resolve(available, candidates[RoleRegion]); ok {
		cols.Region = c
	} else {
		missing = append(missing, MissingRole{Role: RoleRegion, Candidates: candidates[RoleRegion]})
	}

	if c, ok := Resolve(available, candidates[RoleUptime]); ok {
		cols.Uptime = c
		cols.HasUptime = true
	}

	if len(missing) > 0 {
		return Columns{}, &ResolutionError{Missing: missing}
	}
	return cols, nil
}
