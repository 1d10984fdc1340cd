// Package pkguid provides helpers for generating unique identifiers:
// UUID strings for request correlation and Snowflake numbers for events.
package pkguid
