package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Load reads the CSV file at path into a Table. The first record is the
// header; every following record is a data row. Ragged rows are tolerated
// (padded or truncated to the header width).
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %q: %w", path, err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("dataset: %q: %w", path, err)
	}
	return t, nil
}

// Read parses CSV content from r into a Table.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // header width is enforced in New, not by the reader

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("parse csv: file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("parse csv header: %w", err)
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, rec)
	}

	return New(header, rows), nil
}
