package dataset

// Source is the load-once handle handed to the API layer. When the initial
// load failed it retains the error, and every query surfaces that failure
// until the process is restarted — the service still starts either way.
type Source struct {
	table *Table
	err   error
}

// Open loads the CSV at path and wraps the outcome in a Source.
func Open(path string) *Source {
	t, err := Load(path)
	return &Source{table: t, err: err}
}

// NewSource wraps an already-built table (or a load failure) in a Source.
func NewSource(t *Table, err error) *Source {
	return &Source{table: t, err: err}
}

// Table returns the loaded table, or the retained load error.
func (s *Source) Table() (*Table, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.table, nil
}

// Loaded reports whether the initial load succeeded.
func (s *Source) Loaded() bool {
	return s.err == nil
}
