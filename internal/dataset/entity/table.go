package entity

// Cell is a single raw value from the source file.
type Cell struct {
	Raw     string
	Missing bool
}

// Column is a named, ordered run of cells.
type Column struct {
	Name  string
	Cells []Cell
}

// Table is an in-memory parse of a stored file. Every column holds Rows cells.
type Table struct {
	Columns []Column
	Rows    int
}
