package usecase

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shandysiswandi/godataset/internal/dataset/entity"
)

// DefaultPreviewLimit is the number of preview rows when none is requested.
const DefaultPreviewLimit = 100

// Summarize parses data and computes the full-table statistics plus a preview
// of at most previewLimit rows. The only error it returns is *ParseError.
func Summarize(data []byte, previewLimit int) (entity.DatasetSummary, error) {
	if previewLimit < 0 {
		previewLimit = 0
	}

	table, err := parseTable(data)
	if err != nil {
		return entity.DatasetSummary{}, err
	}

	summary := entity.DatasetSummary{
		TotalRows:      table.Rows,
		TotalCols:      len(table.Columns),
		ColumnTypes:    make(map[string]entity.ColumnType, len(table.Columns)),
		NumericColumns: []string{},
		SummaryStats:   make(map[string]entity.ColumnStats),
	}

	classified := make([]classifiedColumn, len(table.Columns))
	for i, col := range table.Columns {
		cc := classify(col)
		classified[i] = cc

		summary.MissingValues += cc.missing
		summary.ColumnTypes[col.Name] = cc.kind
		if cc.kind == entity.ColumnTypeNumeric {
			summary.NumericColumns = append(summary.NumericColumns, col.Name)
			summary.SummaryStats[col.Name] = describe(col, cc.numbers)
		}
	}

	summary.Preview = buildPreview(table, classified, previewLimit)

	return summary, nil
}

type classifiedColumn struct {
	kind    entity.ColumnType
	missing int
	// numbers[i] is the parsed value of row i; only meaningful for numeric
	// columns and non-missing cells.
	numbers []float64
}

// classify runs the two passes over a column: first try to parse every
// non-missing cell, then decide the type from the per-column success flag.
func classify(col entity.Column) classifiedColumn {
	cc := classifiedColumn{numbers: make([]float64, len(col.Cells))}

	allNumeric := true
	for i, cell := range col.Cells {
		if cell.Missing {
			cc.missing++
			continue
		}
		x, ok := parseNumber(cell.Raw)
		if !ok {
			allNumeric = false
			continue
		}
		cc.numbers[i] = x
	}

	cc.kind = entity.ColumnTypeText
	if allNumeric {
		cc.kind = entity.ColumnTypeNumeric
	}

	return cc
}

// parseNumber accepts finite decimal floats, ignoring surrounding whitespace.
// Hex literals and the textual NaN/Inf forms are not numbers here.
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	lower := strings.ToLower(strings.TrimLeft(s, "+-"))
	if strings.HasPrefix(lower, "0x") {
		return 0, false
	}

	x, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false
	}
	return x, true
}

// describe computes mean and sample standard deviation with Welford's
// online update, plus min and max, over the non-missing cells.
//
// The update runs on values scaled by a power of two so that |x| <= 1;
// otherwise x - mean overflows for finite values of opposite sign near
// the float64 limit. Power-of-two scaling is exact.
func describe(col entity.Column, numbers []float64) entity.ColumnStats {
	var (
		n      int
		lo, hi = math.Inf(1), math.Inf(-1)
	)
	for i, cell := range col.Cells {
		if cell.Missing {
			continue
		}
		n++
		lo = math.Min(lo, numbers[i])
		hi = math.Max(hi, numbers[i])
	}

	if n == 0 {
		return entity.ColumnStats{}
	}

	_, exp := math.Frexp(math.Max(math.Abs(lo), math.Abs(hi)))

	var (
		k        int
		mean, m2 float64
	)
	for i, cell := range col.Cells {
		if cell.Missing {
			continue
		}
		x := math.Ldexp(numbers[i], -exp)
		k++
		delta := x - mean
		mean += delta / float64(k)
		m2 += delta * (x - mean)
	}

	// rounding can still leave the mean a hair outside the observed range
	mean = math.Min(math.Max(math.Ldexp(mean, exp), lo), hi)

	stats := entity.ColumnStats{
		Mean: finite(mean),
		Min:  finite(lo),
		Max:  finite(hi),
	}
	if n > 1 {
		stats.Std = finite(math.Ldexp(math.Sqrt(m2/float64(n-1)), exp))
	}

	return stats
}

// maxExactInteger is 2^53; every integer up to it is a float64.
const maxExactInteger = 1 << 53

// inexactInteger returns the canonical integer text of raw when raw is a plain
// integer literal that x, its float64 value, does not represent exactly.
// Otherwise it returns "".
func inexactInteger(raw string, x float64) string {
	if math.Abs(x) <= maxExactInteger {
		return ""
	}

	s := strings.TrimSpace(raw)
	digits := strings.TrimPrefix(s, "-")
	if digits == "" || digits[0] == '0' || strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }) != -1 {
		return ""
	}

	exact, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return ""
	}
	rounded, _ := big.NewFloat(x).Int(nil)
	if exact.Cmp(rounded) == 0 {
		return ""
	}
	return s
}

// finite returns nil for NaN and ±Inf so they never reach the wire.
func finite(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}

func buildPreview(table entity.Table, classified []classifiedColumn, limit int) entity.Preview {
	n := min(limit, table.Rows)

	columns := make([]string, 0, len(table.Columns)+1)
	columns = append(columns, entity.RowNumberColumn)
	for _, col := range table.Columns {
		columns = append(columns, col.Name)
	}

	rows := make([]entity.PreviewRow, n)
	for r := 0; r < n; r++ {
		values := make([]entity.Value, len(table.Columns))
		for c, col := range table.Columns {
			cell := col.Cells[r]
			switch {
			case cell.Missing:
				values[c] = entity.Value{Kind: entity.ValueNull}
			case classified[c].kind == entity.ColumnTypeNumeric:
				x := classified[c].numbers[r]
				values[c] = entity.Value{Kind: entity.ValueNumber, Number: x, Literal: inexactInteger(cell.Raw, x)}
			default:
				values[c] = entity.Value{Kind: entity.ValueText, Text: cell.Raw}
			}
		}
		rows[r] = entity.PreviewRow{Number: r + 1, Values: values}
	}

	return entity.Preview{Columns: columns, Rows: rows}
}
