package inbound

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/shandysiswandi/godataset/internal/dataset/entity"
	"github.com/shandysiswandi/godataset/internal/pkg/pkgerror"
	"gopkg.in/yaml.v3"
)

// Dataset responses are written without the router envelope; the browser UI
// reads these fields at the top level.

type UploadResponse struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
}

func (UploadResponse) Bare() bool { return true }

type ListResponse struct {
	Datasets []string `json:"datasets"`
}

func (ListResponse) Bare() bool { return true }

type Stats struct {
	Mean *float64 `json:"mean" yaml:"mean"`
	Std  *float64 `json:"std" yaml:"std"`
	Min  *float64 `json:"min" yaml:"min"`
	Max  *float64 `json:"max" yaml:"max"`
}

type SummaryResponse struct {
	Filename       string            `json:"filename" yaml:"filename"`
	Columns        []string          `json:"columns" yaml:"columns"`
	Data           []Row             `json:"data" yaml:"data"`
	TotalRows      int               `json:"total_rows" yaml:"total_rows"`
	TotalCols      int               `json:"total_cols" yaml:"total_cols"`
	MissingValues  int               `json:"missing_values" yaml:"missing_values"`
	ColumnTypes    map[string]string `json:"column_types" yaml:"column_types"`
	SummaryStats   map[string]Stats  `json:"summary_stats" yaml:"summary_stats"`
	NumericColumns []string          `json:"numeric_columns" yaml:"numeric_columns"`
}

func (SummaryResponse) Bare() bool { return true }

// NewSummaryResponse flattens a summary into the wire shape shared by the
// HTTP endpoint and the CLI.
func NewSummaryResponse(filename string, s entity.DatasetSummary) SummaryResponse {
	resp := SummaryResponse{
		Filename:       filename,
		Columns:        s.Preview.Columns,
		Data:           make([]Row, 0, len(s.Preview.Rows)),
		TotalRows:      s.TotalRows,
		TotalCols:      s.TotalCols,
		MissingValues:  s.MissingValues,
		ColumnTypes:    make(map[string]string, len(s.ColumnTypes)),
		SummaryStats:   make(map[string]Stats, len(s.SummaryStats)),
		NumericColumns: s.NumericColumns,
	}

	for name, typ := range s.ColumnTypes {
		resp.ColumnTypes[name] = string(typ)
	}
	for name, st := range s.SummaryStats {
		resp.SummaryStats[name] = Stats{Mean: st.Mean, Std: st.Std, Min: st.Min, Max: st.Max}
	}

	for _, pr := range s.Preview.Rows {
		values := make([]any, 0, len(pr.Values)+1)
		values = append(values, pr.Number)
		for _, v := range pr.Values {
			if v.Literal != "" {
				values = append(values, json.Number(v.Literal))
				continue
			}
			values = append(values, v.Any())
		}
		resp.Data = append(resp.Data, Row{keys: s.Preview.Columns, values: values})
	}

	return resp
}

// Row is one preview record. It encodes as a JSON or YAML mapping whose keys
// keep the column order, which a map would not.
type Row struct {
	keys   []string
	values []any
}

func (r Row) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for i, k := range r.keys {
		var val yaml.Node
		if num, ok := r.values[i].(json.Number); ok {
			val = yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: num.String()}
		} else if err := val.Encode(r.values[i]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, &val)
	}
	return node, nil
}

func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ErrorResponse reports a dataset that cannot be summarized. It is sent with
// status 200 and a single "error" field.
type ErrorResponse struct {
	Error string `json:"error" yaml:"error"`
}

func (ErrorResponse) Bare() bool { return true }

func NewErrorResponse(err error) ErrorResponse {
	if errors.Is(err, pkgerror.ErrNotFound) {
		return ErrorResponse{Error: "File not found"}
	}
	return ErrorResponse{Error: err.Error()}
}
