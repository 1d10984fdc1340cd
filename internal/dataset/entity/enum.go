package entity

// ColumnType is the inferred type label of a column.
type ColumnType string

const (
	ColumnTypeNumeric ColumnType = "numeric"
	ColumnTypeText    ColumnType = "text"
)

// UploadStatus is reported back to the client after a successful upload.
type UploadStatus string

const UploadStatusUploaded UploadStatus = "uploaded"

// RowNumberColumn is the synthetic 1-based row counter prepended to every preview.
const RowNumberColumn = "Row #"
