package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/shandysiswandi/godataset/internal/dataset/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_Scenario(t *testing.T) {
	t.Parallel()

	summary, err := Summarize([]byte("a,b\n1,x\n2,\n,y\n"), DefaultPreviewLimit)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalRows)
	assert.Equal(t, 2, summary.TotalCols)
	assert.Equal(t, 2, summary.MissingValues)
	assert.Equal(t, map[string]entity.ColumnType{"a": entity.ColumnTypeNumeric, "b": entity.ColumnTypeText}, summary.ColumnTypes)
	assert.Equal(t, []string{"a"}, summary.NumericColumns)

	require.Contains(t, summary.SummaryStats, "a")
	assert.NotContains(t, summary.SummaryStats, "b")
	stats := summary.SummaryStats["a"]
	require.NotNil(t, stats.Mean)
	require.NotNil(t, stats.Std)
	assert.InDelta(t, 1.5, *stats.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(0.5), *stats.Std, 1e-12)
	assert.Equal(t, 1.0, *stats.Min)
	assert.Equal(t, 2.0, *stats.Max)

	assert.Equal(t, []string{entity.RowNumberColumn, "a", "b"}, summary.Preview.Columns)
	require.Len(t, summary.Preview.Rows, 3)
	for i, row := range summary.Preview.Rows {
		assert.Equal(t, i+1, row.Number)
	}
	last := summary.Preview.Rows[2]
	assert.Equal(t, entity.ValueNull, last.Values[0].Kind)
	assert.Nil(t, last.Values[0].Any())
	assert.Equal(t, "y", last.Values[1].Any())
	assert.Nil(t, summary.Preview.Rows[1].Values[1].Any())
	assert.Equal(t, 1.0, summary.Preview.Rows[0].Values[0].Any())
}

func TestSummarize_RowAndColumnCounts(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct{ rows, cols int }{{0, 1}, {1, 1}, {7, 3}, {250, 5}} {
		var b strings.Builder
		header := make([]string, tc.cols)
		for c := range header {
			header[c] = fmt.Sprintf("c%d", c)
		}
		b.WriteString(strings.Join(header, ",") + "\n")
		for r := 0; r < tc.rows; r++ {
			cells := make([]string, tc.cols)
			for c := range cells {
				cells[c] = fmt.Sprint(r * c)
			}
			b.WriteString(strings.Join(cells, ",") + "\n")
		}

		summary, err := Summarize([]byte(b.String()), DefaultPreviewLimit)
		require.NoError(t, err)
		assert.Equal(t, tc.rows, summary.TotalRows)
		assert.Equal(t, tc.cols, summary.TotalCols)
		assert.Len(t, summary.Preview.Rows, min(DefaultPreviewLimit, tc.rows))
	}
}

func TestSummarize_MissingCountsWholeTable(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("id,score,label\n")
	for i := 1; i <= 150; i++ {
		switch {
		case i%10 == 0:
			fmt.Fprintf(&b, "%d,,NA\n", i)
		case i%7 == 0:
			fmt.Fprintf(&b, "%d,null,x\n", i)
		default:
			fmt.Fprintf(&b, "%d,%d.5,x\n", i, i)
		}
	}

	summary, err := Summarize([]byte(b.String()), 5)
	require.NoError(t, err)

	// 15 rows with two missing cells, 21 - 2 (70, 140 already counted) rows with one
	assert.Equal(t, 15*2+19, summary.MissingValues)
	assert.Len(t, summary.Preview.Rows, 5)
	assert.Equal(t, entity.ColumnTypeNumeric, summary.ColumnTypes["score"])
	assert.Equal(t, entity.ColumnTypeText, summary.ColumnTypes["label"])
}

func TestSummarize_SingleTextCellDemotesColumn(t *testing.T) {
	t.Parallel()

	summary, err := Summarize([]byte("x,y\n1,1\n2,2\n3,three\n4,4\n"), DefaultPreviewLimit)
	require.NoError(t, err)

	assert.Equal(t, entity.ColumnTypeText, summary.ColumnTypes["y"])
	assert.Equal(t, []string{"x"}, summary.NumericColumns)
	assert.NotContains(t, summary.SummaryStats, "y")
	assert.Equal(t, "1", summary.Preview.Rows[0].Values[1].Any(), "text columns keep the raw string")
}

func TestSummarize_StatsBounds(t *testing.T) {
	t.Parallel()

	summary, err := Summarize([]byte("v,w\n0.1,5\n0.2,5\n0.7,5\n1e3,5\n-4,5\n"), DefaultPreviewLimit)
	require.NoError(t, err)

	for _, name := range summary.NumericColumns {
		s := summary.SummaryStats[name]
		require.NotNil(t, s.Mean, name)
		require.NotNil(t, s.Std, name)
		assert.LessOrEqual(t, *s.Min, *s.Mean, name)
		assert.LessOrEqual(t, *s.Mean, *s.Max, name)
		assert.GreaterOrEqual(t, *s.Std, 0.0, name)
	}
	assert.Equal(t, 0.0, *summary.SummaryStats["w"].Std)
	assert.Equal(t, 5.0, *summary.SummaryStats["w"].Mean)
}

func TestSummarize_UndefinedStatsAreNil(t *testing.T) {
	t.Parallel()

	summary, err := Summarize([]byte("one,none\n42,\n,\n"), DefaultPreviewLimit)
	require.NoError(t, err)

	one := summary.SummaryStats["one"]
	require.NotNil(t, one.Mean)
	assert.Equal(t, 42.0, *one.Mean)
	assert.Nil(t, one.Std, "std needs at least two values")

	assert.Equal(t, entity.ColumnTypeNumeric, summary.ColumnTypes["none"])
	assert.Equal(t, entity.ColumnStats{}, summary.SummaryStats["none"])
	assert.Equal(t, 3, summary.MissingValues)
}

func TestSummarize_NonFiniteTokensAreNotNumbers(t *testing.T) {
	t.Parallel()

	summary, err := Summarize([]byte("a,b,c\n1,inf,0x10\n2,3,4\n"), DefaultPreviewLimit)
	require.NoError(t, err)

	assert.Equal(t, entity.ColumnTypeNumeric, summary.ColumnTypes["a"])
	assert.Equal(t, entity.ColumnTypeText, summary.ColumnTypes["b"])
	assert.Equal(t, entity.ColumnTypeText, summary.ColumnTypes["c"])

	raw, err := json.Marshal(summary)
	require.NoError(t, err, "summary must never contain NaN or Inf")
	assert.NotContains(t, string(raw), "NaN")
}

func TestSummarize_NullTokensAndWhitespace(t *testing.T) {
	t.Parallel()

	summary, err := Summarize([]byte("n,t\nNaN,a\n 3 ,   \nN/A,b\n"), DefaultPreviewLimit)
	require.NoError(t, err)

	assert.Equal(t, entity.ColumnTypeNumeric, summary.ColumnTypes["n"])
	assert.Equal(t, 2, summary.MissingValues, "whitespace-only cells are not missing")
	assert.Equal(t, 3.0, *summary.SummaryStats["n"].Mean)
	assert.Equal(t, "   ", summary.Preview.Rows[1].Values[1].Any())
}

func TestSummarize_PreviewLimit(t *testing.T) {
	t.Parallel()

	data := []byte("a\n1\n2\n3\n4\n5\n")
	for limit, want := range map[int]int{0: 0, 2: 2, 5: 5, 100: 5, -1: 0} {
		summary, err := Summarize(data, limit)
		require.NoError(t, err)
		require.Len(t, summary.Preview.Rows, want, "limit %d", limit)
		for i, row := range summary.Preview.Rows {
			assert.Equal(t, i+1, row.Number)
		}
		assert.Equal(t, 5, summary.TotalRows)
	}
}

func TestSummarize_Deterministic(t *testing.T) {
	t.Parallel()

	data := []byte("k,v,w\nx,1.25,\ny,2.5,foo\nz,,bar\n")
	first, err := Summarize(data, 2)
	require.NoError(t, err)
	second, err := Summarize(data, 2)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestSummarize_ParseErrors(t *testing.T) {
	t.Parallel()

	cases := map[string][]byte{
		"empty":          nil,
		"ragged":         []byte("a,b\n1,2\n3\n"),
		"too many":       []byte("a,b\n1,2,3\n"),
		"open quote":     []byte("a,b\n\"unterminated,2\n"),
		"invalid utf8":   {'a', ',', 'b', '\n', 0xff, 0xfe, 0xfd, ',', '1', '\n'},
		"row # conflict": []byte("Row #,a\n1,2\n"),
	}

	for name, data := range cases {
		_, err := Summarize(data, DefaultPreviewLimit)
		var perr *ParseError
		assert.True(t, errors.As(err, &perr), "%s: expected *ParseError, got %v", name, err)
	}
}

func TestSummarize_RaggedMessage(t *testing.T) {
	t.Parallel()

	_, err := Summarize([]byte("a,b\n1,2\n3,4,5\n"), DefaultPreviewLimit)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected 2 fields in line 3, saw 3")
}

func TestSummarize_HeaderNames(t *testing.T) {
	t.Parallel()

	summary, err := Summarize([]byte("a,a,,a.1,a\n1,2,3,4,5\n"), DefaultPreviewLimit)
	require.NoError(t, err)

	assert.Equal(t, []string{entity.RowNumberColumn, "a", "a.2", "Unnamed: 2", "a.1", "a.3"}, summary.Preview.Columns)
	assert.Len(t, summary.ColumnTypes, 5)
	assert.Equal(t, 5.0, *summary.SummaryStats["a.3"].Max)
}

func TestSummarize_BOMAndUTF16(t *testing.T) {
	t.Parallel()

	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a,b\n1,2\n")...)
	summary, err := Summarize(withBOM, DefaultPreviewLimit)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, summary.NumericColumns)

	// "a\n7\n" in UTF-16LE with BOM
	utf16 := []byte{0xFF, 0xFE, 'a', 0, '\n', 0, '7', 0, '\n', 0}
	summary, err = Summarize(utf16, DefaultPreviewLimit)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalRows)
	assert.Equal(t, 7.0, *summary.SummaryStats["a"].Max)
}

func TestSummarize_QuotedFieldsAndCRLF(t *testing.T) {
	t.Parallel()

	summary, err := Summarize([]byte("name,amount\r\n\"Doe, Jane\",\"1,5\"\r\n\"Roe\",2\r\n"), DefaultPreviewLimit)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalRows)
	assert.Equal(t, "Doe, Jane", summary.Preview.Rows[0].Values[0].Any())
	assert.Equal(t, entity.ColumnTypeText, summary.ColumnTypes["amount"], "1,5 is not a decimal number")
}

func TestSummarize_ExtremeMagnitudes(t *testing.T) {
	t.Parallel()

	for _, data := range []string{"a\n1e308\n-1e308\n", "a\n-1e308\n1e308\n"} {
		summary, err := Summarize([]byte(data), DefaultPreviewLimit)
		require.NoError(t, err)

		s := summary.SummaryStats["a"]
		require.NotNil(t, s.Mean, data)
		require.NotNil(t, s.Std, data)
		assert.Equal(t, 0.0, *s.Mean, data)
		assert.InEpsilon(t, math.Sqrt2*1e308, *s.Std, 1e-12, data)
		assert.Equal(t, -1e308, *s.Min, data)
		assert.Equal(t, 1e308, *s.Max, data)
	}

	summary, err := Summarize([]byte("tiny\n1e-320\n3e-320\n"), DefaultPreviewLimit)
	require.NoError(t, err)
	assert.InEpsilon(t, 2e-320, *summary.SummaryStats["tiny"].Mean, 1e-3)
}

func TestSummarize_LargeIntegersKeepDigits(t *testing.T) {
	t.Parallel()

	summary, err := Summarize([]byte("id,n\n12345678901234567890,1\n-9007199254740993,2\n9007199254740992,3\n"), DefaultPreviewLimit)
	require.NoError(t, err)
	require.Equal(t, entity.ColumnTypeNumeric, summary.ColumnTypes["id"])

	rows := summary.Preview.Rows
	assert.Equal(t, "12345678901234567890", rows[0].Values[0].Literal)
	assert.Equal(t, "-9007199254740993", rows[1].Values[0].Literal)
	assert.Empty(t, rows[2].Values[0].Literal, "2^53 is exact")
	assert.Empty(t, rows[0].Values[1].Literal)
}

func TestSummarize_StrayQuoteIsData(t *testing.T) {
	t.Parallel()

	summary, err := Summarize([]byte("a,b\n1,x\"y\n"), DefaultPreviewLimit)
	require.NoError(t, err)
	assert.Equal(t, `x"y`, summary.Preview.Rows[0].Values[1].Any())
}
