// Package utils provides shared low-level helpers for the backends: a
// synchronous JSON-over-HTTP round trip ([DoPostSync]) with observability
// events, the [HTTPError] it returns for non-2xx answers, and string helpers
// for log-safe output.
package utils
