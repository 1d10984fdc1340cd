package inbound

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/shandysiswandi/godataset/internal/pkg/pkgerror"
	"github.com/shandysiswandi/godataset/internal/pkg/pkgrouter"
)

type HTTPEndpoint struct {
	uc             uc
	maxUploadBytes int64
}

func (h *HTTPEndpoint) Upload(ctx context.Context, r *http.Request) (any, error) {
	if h.maxUploadBytes > 0 && r.Body != nil {
		r.Body = http.MaxBytesReader(nil, r.Body, h.maxUploadBytes)
	}

	part, filename, err := extractFilePart(r)
	if err != nil {
		return nil, h.uploadErr(err)
	}
	defer part.Close()

	result, err := h.uc.Upload(ctx, filename, part)
	if err != nil {
		return nil, h.uploadErr(err)
	}

	return UploadResponse{Filename: result.Filename, Status: string(result.Status)}, nil
}

func (h *HTTPEndpoint) Datasets(ctx context.Context, _ *http.Request) (any, error) {
	result, err := h.uc.List(ctx)
	if err != nil {
		return nil, err
	}

	return ListResponse{Datasets: result.Datasets}, nil
}

func (h *HTTPEndpoint) Dataset(ctx context.Context, r *http.Request) (any, error) {
	filename := pkgrouter.GetParam(ctx, "filename")

	limit, err := parsePreviewLimit(r.URL.Query().Get("preview_limit"), h.uc.PreviewLimit())
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Summary(ctx, filename, limit)
	if err != nil {
		return nil, err
	}
	if !result.OK() {
		return NewErrorResponse(result.Err), nil
	}

	return NewSummaryResponse(result.Filename, result.Summary), nil
}

func (h *HTTPEndpoint) uploadErr(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return pkgerror.NewTooLarge(tooLarge.Limit)
	}
	return err
}

func parsePreviewLimit(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, pkgerror.NewInvalidInput(errors.New("preview_limit must be a non-negative integer"))
	}

	return value, nil
}

// extractFilePart returns the multipart part named "file" and the filename
// the client sent. The name is taken verbatim from Content-Disposition so the
// store can reject, rather than silently strip, directory components.
func extractFilePart(r *http.Request) (io.ReadCloser, string, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, "", pkgerror.NewInvalidFormat()
	}

	for {
		part, err := reader.NextPart()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, "", pkgerror.NewInvalidInput(errors.New("file part is required"))
			}
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, "", err
			}
			return nil, "", pkgerror.NewInvalidFormat()
		}

		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}

		_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
		if err != nil {
			_ = part.Close()
			return nil, "", pkgerror.NewInvalidFormat()
		}

		return part, params["filename"], nil
	}
}
