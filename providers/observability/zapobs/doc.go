// Package zapobs implements observability.Provider on top of go.uber.org/zap.
//
// Spans are rendered as log entries (start at debug, end at info), and
// metrics are kept in memory and echoed at debug level, which keeps a single
// zap logger sufficient for command-line use. Pair it with promobs or otelobs
// through observability.Compose when real metrics or traces are needed.
package zapobs
