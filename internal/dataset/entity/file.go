package entity

// StoredFile describes a persisted upload.
type StoredFile struct {
	Filename string
	Size     int64
}

// DatasetUploadedEvent is published after a file is saved.
type DatasetUploadedEvent struct {
	EventID    int64
	Filename   string
	Size       int64
	UploadedAt int64
}
