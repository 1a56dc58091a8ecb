package dataset

// Table is an immutable columnar view over the loaded telemetry samples.
// Cells are kept as raw strings; semantic typing (numeric coercion, region
// normalization) happens downstream, per query.
type Table struct {
	columns []string
	index   map[string]int // lowercase-preserving: original name -> position
	rows    [][]string     // each row has exactly len(columns) cells
}

// New builds a Table from a header and rows. Rows shorter than the header are
// padded with empty cells; longer rows are truncated to the header width.
func New(columns []string, rows [][]string) *Table {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}

	fixed := make([][]string, len(rows))
	for i, r := range rows {
		if len(r) == len(columns) {
			fixed[i] = r
			continue
		}
		row := make([]string, len(columns))
		copy(row, r)
		fixed[i] = row
	}

	return &Table{columns: columns, index: idx, rows: fixed}
}

// Columns returns the column names in table order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// NumRows returns the number of data rows (excluding the header).
func (t *Table) NumRows() int {
	return len(t.rows)
}

// Column returns all cell values of the named column in row order, and a
// boolean indicating whether the column exists.
func (t *Table) Column(name string) ([]string, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	out := make([]string, len(t.rows))
	for r, row := range t.rows {
		out[r] = row[i]
	}
	return out, true
}
