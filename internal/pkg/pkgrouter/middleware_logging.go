package pkgrouter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/julienschmidt/httprouter"
)

const (
	// maxLoggedBodyBytes caps how much of a request or response body is buffered for logs.
	maxLoggedBodyBytes = 64 * 1024
	// maxInlineResponseBytes is the largest successful response logged in full.
	// Summaries with long previews are logged by size only.
	maxInlineResponseBytes = 4 * 1024

	masked = "***"
)

//nolint:gochecknoglobals // lookup table
var sensitiveKeys = map[string]struct{}{
	"password":      {},
	"access_token":  {},
	"refresh_token": {},
	"authorization": {},
	"cookie":        {},
	"set-cookie":    {},
	"x-api-key":     {},
}

func isSensitive(key string) bool {
	_, ok := sensitiveKeys[strings.ToLower(key)]
	return ok
}

// maskHeaders returns a copy of h with credentials replaced.
func maskHeaders(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for key, values := range h {
		if isSensitive(key) {
			out[key] = []string{masked}
			continue
		}
		out[key] = append([]string(nil), values...)
	}
	return out
}

// maskData walks a decoded JSON value and replaces credentials at any depth.
func maskData(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if isSensitive(k) {
				out[k] = masked
				continue
			}
			out[k] = maskData(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = maskData(item)
		}
		return out
	default:
		return v
	}
}

func maskForm(values url.Values) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		switch {
		case isSensitive(k):
			out[k] = masked
		case len(v) == 1:
			out[k] = v[0]
		default:
			out[k] = v
		}
	}
	return out
}

// decodeBody turns a captured body into something readable in a log line:
// decoded and masked JSON or form data, plain text, or a placeholder.
func decodeBody(contentType string, body []byte) any {
	if len(body) == 0 {
		return nil
	}

	var doc any
	if json.Unmarshal(body, &doc) == nil {
		return maskData(doc)
	}

	if strings.HasPrefix(strings.ToLower(contentType), "application/x-www-form-urlencoded") {
		if values, err := url.ParseQuery(string(body)); err == nil {
			return maskForm(values)
		}
	}

	if !utf8.Valid(body) {
		return "<binary body omitted>"
	}
	if len(body) > maxLoggedBodyBytes {
		return string(body[:maxLoggedBodyBytes]) + "...(truncated)"
	}
	return string(body)
}

// isUpload reports whether the request carries a multipart body. Uploads are
// streamed to the handler untouched: buffering them here would bypass the
// handler's size limit.
func isUpload(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/")
}

// requestBodyForLog returns the loggable form of the request body and leaves
// r.Body readable for the handler.
func requestBodyForLog(r *http.Request) any {
	if isUpload(r) {
		return fmt.Sprintf("<multipart body omitted, %d bytes>", r.ContentLength)
	}
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	//nolint:errcheck // best effort for logging only
	head, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBodyBytes+1))
	r.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(head), r.Body), Closer: r.Body}

	return decodeBody(r.Header.Get("Content-Type"), head)
}

type readCloser struct {
	io.Reader
	io.Closer
}

// responseRecorder tracks the status and size of a response and keeps the
// first maxLoggedBodyBytes of its body.
type responseRecorder struct {
	http.ResponseWriter
	status    int
	size      int
	head      bytes.Buffer
	truncated bool
}

func (w *responseRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	room := max(maxLoggedBodyBytes-w.head.Len(), 0)
	if len(p) > room {
		w.truncated = true
		w.head.Write(p[:room])
	} else {
		w.head.Write(p)
	}

	n, err := w.ResponseWriter.Write(p)
	w.size += n
	return n, err
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *responseRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *responseRecorder) statusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// bodyForLog logs error bodies and small responses in full. Anything else is
// reduced to its size.
func (w *responseRecorder) bodyForLog() any {
	if w.statusCode() < http.StatusBadRequest && w.size > maxInlineResponseBytes {
		return fmt.Sprintf("<%d bytes omitted>", w.size)
	}

	body := decodeBody(w.Header().Get("Content-Type"), w.head.Bytes())
	if w.truncated {
		return map[string]any{"body": body, "truncated": true}
	}
	return body
}

func levelForStatus(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func routePattern(r *http.Request) string {
	if pattern := httprouter.ParamsFromContext(r.Context()).MatchedRoutePath(); pattern != "" {
		return pattern
	}
	return r.URL.Path
}

func middlewareLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		attrs := []any{"method", r.Method, "route", routePattern(r), "path", r.URL.Path}

		slog.InfoContext(ctx, "request received",
			append(attrs, "headers", maskHeaders(r.Header), "body", requestBodyForLog(r))...)

		rec := &responseRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.statusCode()
		slog.Log(ctx, levelForStatus(status), "response sent",
			append(attrs,
				"status", status,
				"bytes", rec.size,
				"latency_ms", time.Since(start).Milliseconds(),
				"body", rec.bodyForLog(),
			)...)
	})
}
