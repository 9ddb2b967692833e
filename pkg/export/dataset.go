package export

import "fmt"

// Dataset is a titled table rendered by the CSV and PDF exporters.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Validate checks that the table has headers and that every row matches them.
func (d Dataset) Validate() error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("dataset requires at least one header")
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Headers) {
			return fmt.Errorf("row %d has %d cells, want %d", i+1, len(row), len(d.Headers))
		}
	}
	return nil
}
