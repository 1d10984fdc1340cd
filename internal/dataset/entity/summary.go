package entity

// ColumnStats holds descriptive statistics of a numeric column over its
// non-missing values. A nil field means the statistic is undefined, e.g. Std
// with fewer than two values.
type ColumnStats struct {
	Mean *float64
	Std  *float64
	Min  *float64
	Max  *float64
}

// ValueKind tells which field of a Value is set.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueNumber
	ValueText
)

// Value is a preview cell after type inference.
type Value struct {
	Kind   ValueKind
	Number float64
	Text   string
	// Literal is set for integer cells that Number cannot hold exactly,
	// e.g. 12345678901234567890. It is a valid JSON number.
	Literal string
}

// Any returns nil, a float64 or a string, ready for serialization.
func (v Value) Any() any {
	switch v.Kind {
	case ValueNumber:
		return v.Number
	case ValueText:
		return v.Text
	default:
		return nil
	}
}

// PreviewRow is one row of the preview. Values are aligned with
// Preview.Columns[1:]; Number is the 1-based position in the full table.
type PreviewRow struct {
	Number int
	Values []Value
}

// Preview is the bounded head of a table.
type Preview struct {
	// Columns always starts with RowNumberColumn.
	Columns []string
	Rows    []PreviewRow
}

// DatasetSummary is computed from scratch for every request.
type DatasetSummary struct {
	TotalRows      int
	TotalCols      int
	MissingValues  int
	ColumnTypes    map[string]ColumnType
	NumericColumns []string
	SummaryStats   map[string]ColumnStats
	Preview        Preview
}
