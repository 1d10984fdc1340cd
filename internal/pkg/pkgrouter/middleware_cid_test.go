package pkgrouter

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shandysiswandi/godataset/internal/pkg/pkglog"
	"github.com/shandysiswandi/godataset/internal/pkg/pkguid"
)

type fixedID struct {
	value string
	calls int
}

var _ pkguid.StringID = (*fixedID)(nil)

func (f *fixedID) Generate() string {
	f.calls++
	return f.value
}

// runCID sends one request through the middleware and returns the id seen by
// the handler and the id echoed on the response.
func runCID(t *testing.T, ids pkguid.StringID, headers map[string]string) (inCtx, onResp string) {
	t.Helper()

	h := middlewareCorrelationID(ids)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inCtx, _ = pkglog.CorrelationID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/datasets/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return inCtx, rec.Header().Get(HeaderCorrelationID)
}

func TestMiddlewareCorrelationID(t *testing.T) {
	tests := []struct {
		name      string
		headers   map[string]string
		want      string
		generated bool
	}{
		{name: "correlation header", headers: map[string]string{HeaderCorrelationID: "cid-1"}, want: "cid-1"},
		{name: "request id fallback", headers: map[string]string{HeaderRequestID: "req-1"}, want: "req-1"},
		{name: "correlation header wins", headers: map[string]string{HeaderCorrelationID: "cid-1", HeaderRequestID: "req-1"}, want: "cid-1"},
		{name: "control characters", headers: map[string]string{HeaderCorrelationID: "a\tb"}, want: "generated", generated: true},
		{name: "missing", want: "generated", generated: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := &fixedID{value: "generated"}
			inCtx, onResp := runCID(t, ids, tt.headers)

			if inCtx != tt.want || onResp != tt.want {
				t.Fatalf("expected %q in context and response, got %q and %q", tt.want, inCtx, onResp)
			}
			if tt.generated != (ids.calls == 1) {
				t.Fatalf("unexpected generator calls: %d", ids.calls)
			}
		})
	}
}

func TestMiddlewareCorrelationIDGeneratesUUIDv7(t *testing.T) {
	inCtx, onResp := runCID(t, pkguid.NewUUID(), nil)

	id, err := uuid.Parse(onResp)
	if err != nil {
		t.Fatalf("response id is not a uuid: %q", onResp)
	}
	if id.Version() != 7 {
		t.Fatalf("expected uuid v7, got v%d", id.Version())
	}
	if inCtx != onResp {
		t.Fatalf("context id %q differs from response id %q", inCtx, onResp)
	}
}

func TestMiddlewareCorrelationIDWithoutGenerator(t *testing.T) {
	inCtx, onResp := runCID(t, nil, nil)
	if inCtx != "" || onResp != "" {
		t.Fatalf("expected no id, got %q and %q", inCtx, onResp)
	}
}

func TestSanitizeCID(t *testing.T) {
	if got := sanitizeCID("  abc  "); got != "abc" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
	if got := sanitizeCID("a\r\nX-Evil: 1"); got != "" {
		t.Fatalf("expected empty for header injection, got %q", got)
	}
	if got := sanitizeCID(strings.Repeat("a", 200)); len(got) != maxCorrelationIDLen {
		t.Fatalf("expected length %d, got %d", maxCorrelationIDLen, len(got))
	}
}
