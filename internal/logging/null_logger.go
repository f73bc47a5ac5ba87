package logging

import "github.com/gisops/webtool/pkg/webtool"

// NullLogger discards everything. It keeps test fixtures quiet and serves
// as the logger of last resort when output is unwanted.
type NullLogger struct{}

// NewNullLogger creates a new NullLogger.
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

// Verbose discards the message.
func (l *NullLogger) Verbose(format string, args ...interface{}) {}

// Info discards the message.
func (l *NullLogger) Info(format string, args ...interface{}) {}

// Error discards the message.
func (l *NullLogger) Error(format string, args ...interface{}) {}

// Verify NullLogger implements the Logger interface at compile time
var _ webtool.Logger = (*NullLogger)(nil)
