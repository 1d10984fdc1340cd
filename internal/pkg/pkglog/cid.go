package pkglog

import "context"

type correlationIDKey struct{}

// CorrelationID returns the correlation ID carried by ctx, if any. Requests get
// one from the router middleware; background work such as event handlers
// usually has none.
func CorrelationID(ctx context.Context) (string, bool) {
	cid, ok := ctx.Value(correlationIDKey{}).(string)
	return cid, ok && cid != ""
}

// GetCorrelationID is CorrelationID for callers that only need a printable value.
func GetCorrelationID(ctx context.Context) string {
	if cid, ok := CorrelationID(ctx); ok {
		return cid
	}
	return "[invalid_chain_id]"
}

// SetCorrelationID returns a copy of ctx carrying cid.
func SetCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, cid)
}
