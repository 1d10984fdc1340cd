package inbound

import (
	"context"
	"io"

	"github.com/shandysiswandi/godataset/internal/dataset/usecase"
	"github.com/shandysiswandi/godataset/internal/pkg/pkgrouter"
)

type uc interface {
	Upload(ctx context.Context, filename string, r io.Reader) (usecase.UploadResult, error)
	List(ctx context.Context) (usecase.ListResult, error)
	Summary(ctx context.Context, filename string, previewLimit int) (usecase.SummaryResult, error)
	PreviewLimit() int
}

type Config struct {
	// MaxUploadBytes caps the request body of an upload; zero means no cap.
	MaxUploadBytes int64
	// Upload guards POST /upload/, e.g. with pkgrouter.MiddlewareRateLimit.
	Upload []pkgrouter.Middleware
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc, cfg Config) {
	end := &HTTPEndpoint{uc: uc, maxUploadBytes: cfg.MaxUploadBytes}

	r.POST("/upload/", end.Upload, cfg.Upload...) // multipart, part "file"

	r.GET("/datasets/", end.Datasets)
	r.GET("/dataset/:filename", end.Dataset) // ?preview_limit=
}
