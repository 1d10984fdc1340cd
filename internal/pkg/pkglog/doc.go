// Package pkglog contains logging helpers used across the application.
//
// It is built around slog: a JSON handler with stable keys ("ts", "severity",
// "file") that also stamps the service name and the request correlation ID
// onto every record.
package pkglog
