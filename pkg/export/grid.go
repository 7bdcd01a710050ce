package export

import "fmt"

// Grid is a titled table where every row has one cell per column.
type Grid struct {
	Title   string
	Columns []string
	Rows    [][]string
}

func (g Grid) validate() error {
	if len(g.Columns) == 0 {
		return fmt.Errorf("grid requires at least one column")
	}
	for i, row := range g.Rows {
		if len(row) != len(g.Columns) {
			return fmt.Errorf("grid row %d has %d cells, want %d", i, len(row), len(g.Columns))
		}
	}
	return nil
}
