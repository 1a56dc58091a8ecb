package aggregate

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pulsecheck/pulsecheck/internal/dataset"
	"github.com/pulsecheck/pulsecheck/internal/schema"
)

// Uptime means above this cutoff are assumed to be on a 0–100 percent scale
// and are rescaled to a 0–1 fraction. Means at or below it are kept as-is.
// The cutoff is a heuristic carried over unchanged from the reference data.
const uptimePercentCutoff = 1.5

// Result is the per-region metric record. Nil pointers serialize as JSON
// null: latency fields are null when the region matched no rows (or no row
// had a parsable latency), uptime is additionally null when the table has no
// uptime column. Breaches is 0, not null, when there is no data.
type Result struct {
	AvgLatency *float64 `json:"avg_latency"`
	P95Latency *float64 `json:"p95_latency"`
	AvgUptime  *float64 `json:"avg_uptime"`
	Breaches   int      `json:"breaches"`
}

// Aggregate computes a Result for every requested region key. The caller's
// original keys are preserved as map keys; matching happens on normalized
// keys (see normalizeColumn). Requested regions absent from the table still
// get an entry, with null metrics and zero breaches.
func Aggregate(t *dataset.Table, cols schema.Columns, regions []string, threshold float64) map[string]Result {
	latCells, _ := t.Column(cols.Latency)
	regCells, _ := t.Column(cols.Region)

	lat := coerceColumn(latCells)

	var up []float64
	if cols.HasUptime {
		upCells, _ := t.Column(cols.Uptime)
		up = coerceColumn(upCells)
	}

	keys := normalizeColumn(regCells)

	out := make(map[string]Result, len(regions))
	for _, region := range regions {
		want := strings.ToLower(strings.TrimSpace(region))

		var matched []int
		for i, k := range keys {
			if k == want {
				matched = append(matched, i)
			}
		}

		if len(matched) == 0 {
			out[region] = Result{}
			continue
		}

		out[region] = computeResult(matched, lat, up, cols.HasUptime, threshold)
	}
	return out
}

// computeResult reduces the matched rows to one metric record.
func computeResult(matched []int, lat, up []float64, hasUptime bool, threshold float64) Result {
	var res Result

	vals := make([]float64, 0, len(matched))
	for _, i := range matched {
		v := lat[i]
		if math.IsNaN(v) {
			continue
		}
		vals = append(vals, v)
		if v > threshold {
			res.Breaches++
		}
	}

	if len(vals) > 0 {
		res.AvgLatency = ptr(round(mean(vals), 3))
		sort.Float64s(vals)
		res.P95Latency = ptr(round(Percentile(vals, 95), 3))
	}

	if hasUptime {
		ups := make([]float64, 0, len(matched))
		for _, i := range matched {
			if v := up[i]; !math.IsNaN(v) {
				ups = append(ups, v)
			}
		}
		if len(ups) > 0 {
			m := mean(ups)
			if m > uptimePercentCutoff {
				m /= 100
			}
			res.AvgUptime = ptr(round(m, 6))
		}
	}

	return res
}

// coerceColumn parses every cell as a float. Cells that do not parse become
// NaN and are excluded from all downstream statistics.
func coerceColumn(cells []string) []float64 {
	out := make([]float64, len(cells))
	for i, c := range cells {
		v, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = v
	}
	return out
}

// normalizeColumn produces the comparison key for every region cell.
//
// Textual columns (any non-empty cell that is not numeric) normalize by
// trimming and lowercasing. Purely numeric columns normalize to the plain
// numeric string form instead: the integer form when every non-empty cell is
// an integer, otherwise the float form — so "5" and "5.0" stay distinct keys,
// mirroring literal string conversion of the underlying values.
func normalizeColumn(cells []string) []string {
	allInt := true
	allNum := true
	for _, c := range cells {
		s := strings.TrimSpace(c)
		if s == "" {
			continue
		}
		if _, err := strconv.ParseInt(s, 10, 64); err != nil {
			allInt = false
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			allNum = false
			break
		}
	}

	out := make([]string, len(cells))
	for i, c := range cells {
		s := strings.TrimSpace(c)
		switch {
		case !allNum || s == "":
			out[i] = strings.ToLower(s)
		case allInt:
			n, _ := strconv.ParseInt(s, 10, 64)
			out[i] = strconv.FormatInt(n, 10)
		default:
			v, _ := strconv.ParseFloat(s, 64)
			out[i] = formatFloatKey(v)
		}
	}
	return out
}

// formatFloatKey renders a float the way plain string conversion does:
// integral values keep one decimal place ("5.0"), everything else uses the
// shortest exact representation.
func formatFloatKey(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// round rounds v to the given number of decimal digits.
func round(v float64, digits int) float64 {
	scale := math.Pow(10, float64(digits))
	return math.Round(v*scale) / scale
}

func ptr(v float64) *float64 { return &v }
