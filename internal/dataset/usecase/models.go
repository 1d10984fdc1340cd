package usecase

import (
	"github.com/shandysiswandi/godataset/internal/dataset/entity"
)

type UploadResult struct {
	Filename string
	Status   entity.UploadStatus
}

type ListResult struct {
	Datasets []string
}

// SummaryResult is the outcome of summarizing a stored dataset. Exactly one of
// Summary and Err is meaningful: Err holds soft failures (pkgerror.ErrNotFound
// or *ParseError) that callers report in-band instead of failing the request.
type SummaryResult struct {
	Filename string
	Summary  entity.DatasetSummary
	Err      error
}

// OK reports whether Summary is valid.
func (r SummaryResult) OK() bool {
	return r.Err == nil
}
