/*
Copyright 2026 Shane Utt.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package utils provides testing utilities for unit tests.
package utils

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/go-logr/logr"
)

// -----------------------------------------------------------------------------
// Test Logger
// -----------------------------------------------------------------------------

type testLogger struct {
	t      testing.TB
	name   string
	values []any
}

// NewTestLogger creates a logr.Logger that logs via testing.T
func NewTestLogger(t testing.TB) logr.Logger {
	return logr.New(&testLogger{t: t})
}

// -----------------------------------------------------------------------------
// Test Logger - LogSink Implementation
// -----------------------------------------------------------------------------

// Init initializes the logger with runtime information
func (l *testLogger) Init(info logr.RuntimeInfo) {}

// Enabled returns whether logging is enabled at the given level
func (l *testLogger) Enabled(level int) bool {
	return true // always true for testing
}

// Info logs informational messages to the test output
func (l *testLogger) Info(level int, msg string, keysAndValues ...any) {
	l.t.Logf("[INFO]%s %s %v", l.prefix(), msg, append(l.values, keysAndValues...))
}

// Error logs error messages to the test output
func (l *testLogger) Error(err error, msg string, keysAndValues ...any) {
	l.t.Logf("[ERROR]%s %s: %v %v", l.prefix(), msg, err, append(l.values, keysAndValues...))
}

// WithValues returns the logger with additional key-value pairs
func (l *testLogger) WithValues(keysAndValues ...any) logr.LogSink {
	values := make([]any, 0, len(l.values)+len(keysAndValues))
	values = append(values, l.values...)
	return &testLogger{t: l.t, name: l.name, values: append(values, keysAndValues...)}
}

// WithName returns the logger with an additional name segment
func (l *testLogger) WithName(name string) logr.LogSink {
	if l.name != "" {
		name = l.name + "." + name
	}
	return &testLogger{t: l.t, name: name, values: l.values}
}

func (l *testLogger) prefix() string {
	if l.name == "" {
		return ""
	}
	return " " + l.name + ":"
}

// -----------------------------------------------------------------------------
// Recording Logger
// -----------------------------------------------------------------------------

// LogEntry holds a single message captured by a LogRecorder.
type LogEntry struct {
	Level         int
	Error         error
	Message       string
	KeysAndValues []any
}

// LogRecorder captures log messages for assertions.
type LogRecorder struct {
	mu      sync.Mutex
	Entries []LogEntry
}

// NewLogRecorder creates a LogRecorder and a logger that writes into it.
func NewLogRecorder() (*LogRecorder, logr.Logger) {
	r := &LogRecorder{}
	return r, logr.New(&recordingSink{recorder: r})
}

// HasMessage returns true if any recorded message contains substr.
func (r *LogRecorder) HasMessage(substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.Entries {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// Errors returns the recorded error entries.
func (r *LogRecorder) Errors() []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []LogEntry
	for _, e := range r.Entries {
		if e.Error != nil {
			out = append(out, e)
		}
	}
	return out
}

func (r *LogRecorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var b strings.Builder
	for _, e := range r.Entries {
		fmt.Fprintf(&b, "%d %s %v\n", e.Level, e.Message, e.KeysAndValues)
	}
	return b.String()
}

type recordingSink struct {
	recorder *LogRecorder
	values   []any
}

func (s *recordingSink) Init(logr.RuntimeInfo) {}

func (s *recordingSink) Enabled(int) bool { return true }

func (s *recordingSink) Info(level int, msg string, keysAndValues ...any) {
	s.record(LogEntry{Level: level, Message: msg, KeysAndValues: s.merge(keysAndValues)})
}

func (s *recordingSink) Error(err error, msg string, keysAndValues ...any) {
	s.record(LogEntry{Error: err, Message: msg, KeysAndValues: s.merge(keysAndValues)})
}

func (s *recordingSink) WithValues(keysAndValues ...any) logr.LogSink {
	return &recordingSink{recorder: s.recorder, values: s.merge(keysAndValues)}
}

func (s *recordingSink) WithName(string) logr.LogSink { return s }

func (s *recordingSink) merge(keysAndValues []any) []any {
	out := make([]any, 0, len(s.values)+len(keysAndValues))
	out = append(out, s.values...)
	return append(out, keysAndValues...)
}

func (s *recordingSink) record(e LogEntry) {
	s.recorder.mu.Lock()
	defer s.recorder.mu.Unlock()
	s.recorder.Entries = append(s.recorder.Entries, e)
}
