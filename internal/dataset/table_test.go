package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "telemetry.csv")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return p
}

func TestLoad(t *testing.T) {
	p := writeCSV(t, "region,latency_ms,uptime\nus-east,100,0.99\neu-west,210,0.97\n")

	tbl, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := tbl.NumRows(); got != 2 {
		t.Errorf("NumRows: got %d, want 2", got)
	}
	cols := tbl.Columns()
	if len(cols) != 3 || cols[0] != "region" || cols[2] != "uptime" {
		t.Errorf("Columns: got %v", cols)
	}

	lat, ok := tbl.Column("latency_ms")
	if !ok {
		t.Fatal("Column(latency_ms): not found")
	}
	if lat[0] != "100" || lat[1] != "210" {
		t.Errorf("latency_ms cells: got %v", lat)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("Load on missing file: expected error, got nil")
	}
}

func TestRead_EmptyFile(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	if err == nil {
		t.Fatal("Read on empty input: expected error, got nil")
	}
}

func TestRead_RaggedRows(t *testing.T) {
	// Second row is short, third is long — both must be squared to the header.
	tbl, err := Read(strings.NewReader("region,latency_ms,uptime\nus-east,100\neu-west,210,0.97,extra\n"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	up, _ := tbl.Column("uptime")
	if up[0] != "" {
		t.Errorf("short row uptime: got %q, want empty", up[0])
	}
	if up[1] != "0.97" {
		t.Errorf("long row uptime: got %q, want 0.97", up[1])
	}
}

func TestColumn_Unknown(t *testing.T) {
	tbl := New([]string{"a"}, [][]string{{"1"}})
	if _, ok := tbl.Column("b"); ok {
		t.Fatal("Column(b): expected ok=false")
	}
}

func TestSource_RetainsLoadError(t *testing.T) {
	src := Open(filepath.Join(t.TempDir(), "absent.csv"))

	if src.Loaded() {
		t.Fatal("Loaded: got true for a failed load")
	}
	if _, err := src.Table(); err == nil {
		t.Fatal("Table: expected retained load error, got nil")
	}
	// The error must persist across calls.
	if _, err := src.Table(); err == nil {
		t.Fatal("Table (second call): expected retained load error, got nil")
	}
}

func TestSource_Loaded(t *testing.T) {
	p := writeCSV(t, "region,latency_ms\nus-east,100\n")
	src := Open(p)

	if !src.Loaded() {
		t.Fatal("Loaded: got false for a successful load")
	}
	tbl, err := src.Table()
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	if tbl.NumRows() != 1 {
		t.Errorf("NumRows: got %d, want 1", tbl.NumRows())
	}
}
