package usecase

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/shandysiswandi/godataset/internal/dataset/entity"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ParseError reports bytes that cannot be read as a rectangular table.
type ParseError struct {
	msg string
	err error
}

func newParseError(err error, format string, args ...any) *ParseError {
	return &ParseError{msg: fmt.Sprintf(format, args...), err: err}
}

func (e *ParseError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *ParseError) Unwrap() error {
	return e.err
}

//nolint:gochecknoglobals // read-only lookup table
var nullTokens = map[string]struct{}{
	"NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"NULL": {}, "null": {}, "None": {}, "<NA>": {},
	"#N/A": {}, "#N/A N/A": {}, "#NA": {},
	"-1.#IND": {}, "-1.#QNAN": {}, "1.#IND": {}, "1.#QNAN": {},
}

// isMissing reports whether a raw cell is empty or an explicit null token.
// Whitespace-only cells are data, not missing.
func isMissing(raw string) bool {
	if raw == "" {
		return true
	}
	_, ok := nullTokens[raw]
	return ok
}

// decodeText strips a UTF-8 BOM, transcodes UTF-16 input that carries a BOM,
// and rejects anything that is not valid UTF-8 afterwards.
func decodeText(data []byte) ([]byte, error) {
	dec := unicode.BOMOverride(encoding.Nop.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return nil, newParseError(err, "cannot decode file")
	}
	if !utf8.Valid(out) {
		return nil, newParseError(nil, "file is not valid UTF-8 text")
	}
	return out, nil
}

// parseTable reads comma-separated data whose first record is the header.
// Every record must have as many fields as the header.
func parseTable(data []byte) (entity.Table, error) {
	text, err := decodeText(data)
	if err != nil {
		return entity.Table{}, err
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.FieldsPerRecord = 0
	// a stray quote inside an unquoted field is kept as data
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return entity.Table{}, newParseError(nil, "No columns to parse from file")
	}
	if err != nil {
		return entity.Table{}, newParseError(err, "cannot read header")
	}

	names, err := columnNames(header)
	if err != nil {
		return entity.Table{}, err
	}

	cols := make([]entity.Column, len(names))
	for i, name := range names {
		cols[i] = entity.Column{Name: name}
	}

	rows := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) && errors.Is(perr.Err, csv.ErrFieldCount) {
				return entity.Table{}, newParseError(nil,
					"Error tokenizing data. Expected %d fields in line %d, saw %d", len(names), perr.Line, len(record))
			}
			return entity.Table{}, newParseError(err, "cannot read row %d", rows+1)
		}

		rows++
		for i, raw := range record {
			cols[i].Cells = append(cols[i].Cells, entity.Cell{Raw: raw, Missing: isMissing(raw)})
		}
	}

	return entity.Table{Columns: cols, Rows: rows}, nil
}

// columnNames names blank headers "Unnamed: <index>" and disambiguates
// duplicates by suffixing ".1", ".2", ... in order of appearance.
func columnNames(header []string) ([]string, error) {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	taken := make(map[string]struct{}, len(header))
	for i, h := range header {
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		taken[h] = struct{}{}
		names[i] = h
	}

	for i, name := range names {
		n, dup := seen[name]
		seen[name] = n + 1
		if !dup {
			continue
		}
		for {
			candidate := name + "." + strconv.Itoa(n)
			if _, clash := taken[candidate]; !clash {
				names[i] = candidate
				taken[candidate] = struct{}{}
				break
			}
			n++
			seen[name] = n + 1
		}
	}

	for _, name := range names {
		if name == entity.RowNumberColumn {
			return nil, newParseError(nil, "cannot insert %s, already exists", entity.RowNumberColumn)
		}
	}

	return names, nil
}
