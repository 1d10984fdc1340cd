// Package pkgroutine runs background work with a concurrency limit, collecting
// returned errors and turning panics into errors instead of crashing the process.
package pkgroutine
