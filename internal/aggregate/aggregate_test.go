package aggregate

import (
	"math"
	"testing"

	"github.com/pulsecheck/pulsecheck/internal/dataset"
	"github.com/pulsecheck/pulsecheck/internal/schema"
)

// --- helpers ----------------------------------------------------------------

func table(t *testing.T, header []string, rows ...[]string) (*dataset.Table, schema.Columns) {
	t.Helper()
	tbl := dataset.New(header, rows)
	cols, err := schema.Detect(tbl.Columns())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	return tbl, cols
}

func wantFloat(t *testing.T, name string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s: got null, want %v", name, want)
	}
	if math.Abs(*got-want) > 1e-9 {
		t.Errorf("%s: got %v, want %v", name, *got, want)
	}
}

// --- percentile ---------------------------------------------------------------

func TestPercentile_LinearInterpolation(t *testing.T) {
	got := Percentile([]float64{10, 20, 30, 40, 50}, 95)
	if got != 48.0 {
		t.Errorf("P95 of [10..50]: got %v, want 48.0", got)
	}
}

func TestPercentile_SingleValue(t *testing.T) {
	if got := Percentile([]float64{42}, 95); got != 42 {
		t.Errorf("P95 of [42]: got %v, want 42", got)
	}
}

func TestPercentile_ExactRank(t *testing.T) {
	// P50 of four values lands between ranks 1 and 2.
	if got := Percentile([]float64{1, 2, 3, 4}, 50); got != 2.5 {
		t.Errorf("P50 of [1 2 3 4]: got %v, want 2.5", got)
	}
	// P100 is the max, no interpolation.
	if got := Percentile([]float64{1, 2, 3, 4}, 100); got != 4 {
		t.Errorf("P100: got %v, want 4", got)
	}
}

// --- aggregation --------------------------------------------------------------

func TestAggregate_EndToEnd(t *testing.T) {
	// Mixed-case region with trailing whitespace, plus a percent-scale uptime
	// row that flips the mean over the rescale cutoff.
	tbl, cols := table(t,
		[]string{"region", "latency_ms", "uptime"},
		[]string{"US-East ", "100", "0.99"},
		[]string{"us-east", "300", "99"},
	)

	out := Aggregate(tbl, cols, []string{"us-east"}, 150)
	res, ok := out["us-east"]
	if !ok {
		t.Fatal("missing result entry for us-east")
	}

	wantFloat(t, "avg_latency", res.AvgLatency, 200.0)
	wantFloat(t, "p95_latency", res.P95Latency, 290.0)
	wantFloat(t, "avg_uptime", res.AvgUptime, 0.49995)
	if res.Breaches != 1 {
		t.Errorf("breaches: got %d, want 1", res.Breaches)
	}
}

func TestAggregate_UnknownRegionStillPresent(t *testing.T) {
	tbl, cols := table(t,
		[]string{"region", "latency_ms", "uptime"},
		[]string{"us-east", "100", "0.99"},
	)

	out := Aggregate(tbl, cols, []string{"mars"}, 150)
	res, ok := out["mars"]
	if !ok {
		t.Fatal("missing result entry for mars")
	}
	if res.AvgLatency != nil || res.P95Latency != nil || res.AvgUptime != nil {
		t.Errorf("metrics: got %+v, want all null", res)
	}
	if res.Breaches != 0 {
		t.Errorf("breaches: got %d, want 0", res.Breaches)
	}
}

func TestAggregate_OriginalKeyPreserved(t *testing.T) {
	tbl, cols := table(t,
		[]string{"region", "latency_ms"},
		[]string{"us-east", "100"},
	)

	out := Aggregate(tbl, cols, []string{"  US-East "}, 150)
	if _, ok := out["  US-East "]; !ok {
		t.Fatalf("output keyed by %v, want the caller's original key", keysOf(out))
	}
	wantFloat(t, "avg_latency", out["  US-East "].AvgLatency, 100.0)
}

func TestAggregate_UptimeFractionNotRescaled(t *testing.T) {
	tbl, cols := table(t,
		[]string{"region", "latency_ms", "uptime"},
		[]string{"eu-west", "50", "0.98"},
		[]string{"eu-west", "60", "1.00"},
	)

	out := Aggregate(tbl, cols, []string{"eu-west"}, 100)
	wantFloat(t, "avg_uptime", out["eu-west"].AvgUptime, 0.99)
}

func TestAggregate_UptimePercentRescaled(t *testing.T) {
	tbl, cols := table(t,
		[]string{"region", "latency_ms", "availability"},
		[]string{"eu-west", "50", "98"},
		[]string{"eu-west", "60", "100"},
	)

	out := Aggregate(tbl, cols, []string{"eu-west"}, 100)
	wantFloat(t, "avg_uptime", out["eu-west"].AvgUptime, 0.99)
}

func TestAggregate_NoUptimeColumn(t *testing.T) {
	tbl, cols := table(t,
		[]string{"region", "latency_ms"},
		[]string{"us-east", "100"},
	)

	out := Aggregate(tbl, cols, []string{"us-east"}, 150)
	if out["us-east"].AvgUptime != nil {
		t.Errorf("avg_uptime: got %v, want null", *out["us-east"].AvgUptime)
	}
	wantFloat(t, "avg_latency", out["us-east"].AvgLatency, 100.0)
}

func TestAggregate_BreachIsStrictlyGreater(t *testing.T) {
	tbl, cols := table(t,
		[]string{"region", "latency_ms"},
		[]string{"ap-south", "150"},
		[]string{"ap-south", "150.1"},
		[]string{"ap-south", "149"},
	)

	out := Aggregate(tbl, cols, []string{"ap-south"}, 150)
	if got := out["ap-south"].Breaches; got != 1 {
		t.Errorf("breaches: got %d, want 1 (threshold itself does not breach)", got)
	}
}

func TestAggregate_UnparsableLatencyIsMissing(t *testing.T) {
	tbl, cols := table(t,
		[]string{"region", "latency_ms"},
		[]string{"us-east", "100"},
		[]string{"us-east", "n/a"},
		[]string{"us-east", "300"},
	)

	out := Aggregate(tbl, cols, []string{"us-east"}, 50)
	res := out["us-east"]
	// "n/a" is excluded from mean, percentile and breach counting.
	wantFloat(t, "avg_latency", res.AvgLatency, 200.0)
	if res.Breaches != 2 {
		t.Errorf("breaches: got %d, want 2", res.Breaches)
	}
}

func TestAggregate_AllLatencyMissing(t *testing.T) {
	tbl, cols := table(t,
		[]string{"region", "latency_ms", "uptime"},
		[]string{"us-east", "bogus", "0.9"},
	)

	out := Aggregate(tbl, cols, []string{"us-east"}, 50)
	res := out["us-east"]
	if res.AvgLatency != nil || res.P95Latency != nil {
		t.Errorf("latency metrics: got %+v, want null when no cell parses", res)
	}
	if res.Breaches != 0 {
		t.Errorf("breaches: got %d, want 0", res.Breaches)
	}
	// Uptime is independent of latency parsability.
	wantFloat(t, "avg_uptime", res.AvgUptime, 0.9)
}

func TestAggregate_IntegerRegionIDs(t *testing.T) {
	tbl, cols := table(t,
		[]string{"region", "latency_ms"},
		[]string{"5", "100"},
		[]string{"5", "200"},
		[]string{"7", "300"},
	)

	out := Aggregate(tbl, cols, []string{"5"}, 150)
	wantFloat(t, "avg_latency", out["5"].AvgLatency, 150.0)
	if out["5"].Breaches != 1 {
		t.Errorf("breaches: got %d, want 1", out["5"].Breaches)
	}
}

func TestAggregate_FloatRegionIDsKeepFloatForm(t *testing.T) {
	// A column containing 5.0 is float-typed, so its key is "5.0" — the
	// request "5" does not match, "5.0" does.
	tbl, cols := table(t,
		[]string{"region", "latency_ms"},
		[]string{"5.0", "100"},
	)

	out := Aggregate(tbl, cols, []string{"5", "5.0"}, 150)
	if out["5"].AvgLatency != nil {
		t.Errorf(`request "5": got %v, want null against a float-typed column`, *out["5"].AvgLatency)
	}
	wantFloat(t, `request "5.0"`, out["5.0"].AvgLatency, 100.0)
}

func TestAggregate_RoundingPrecision(t *testing.T) {
	tbl, cols := table(t,
		[]string{"region", "latency_ms", "uptime"},
		[]string{"us-east", "100.00015", "0.3333333333"},
		[]string{"us-east", "100.00015", "0.3333333333"},
	)

	out := Aggregate(tbl, cols, []string{"us-east"}, 500)
	// Means are rounded to 3 (latency) and 6 (uptime) decimal digits.
	if got := *out["us-east"].AvgLatency; got != 100.0 {
		t.Errorf("avg_latency: got %v, want 100.0", got)
	}
	if got := *out["us-east"].AvgUptime; got != 0.333333 {
		t.Errorf("avg_uptime: got %v, want 0.333333", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	keys := normalizeColumn([]string{" US-East ", "eu-west", " 7 "})
	again := normalizeColumn(keys)
	for i := range keys {
		if keys[i] != again[i] {
			t.Errorf("normalize not idempotent at %d: %q -> %q", i, keys[i], again[i])
		}
	}
}

func keysOf(m map[string]Result) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
