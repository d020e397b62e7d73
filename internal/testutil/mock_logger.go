// Package testutil provides shared test helpers for the molecule explorer.
package testutil

import (
	"sync"

	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/logging"
)

// MockLogger implements logging.Logger and records every entry so tests can
// assert on what a component logged. Children created by With and Named
// share the parent's record.
type MockLogger struct {
	mu       *sync.Mutex
	messages *[]LogMessage
	fields   []logging.Field
	name     string
}

// LogMessage is a single entry captured by MockLogger.
type LogMessage struct {
	Level   string
	Logger  string
	Message string
	Fields  []logging.Field
}

// NewMockLogger returns an empty MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{mu: &sync.Mutex{}, messages: &[]LogMessage{}}
}

func (m *MockLogger) log(level, msg string, fields []logging.Field) {
	all := make([]logging.Field, 0, len(m.fields)+len(fields))
	all = append(all, m.fields...)
	all = append(all, fields...)

	m.mu.Lock()
	defer m.mu.Unlock()
	*m.messages = append(*m.messages, LogMessage{Level: level, Logger: m.name, Message: msg, Fields: all})
}

func (m *MockLogger) Debug(msg string, fields ...logging.Field) { m.log("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...logging.Field)  { m.log("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...logging.Field)  { m.log("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...logging.Field) { m.log("error", msg, fields) }

// Fatal records the entry without exiting.
func (m *MockLogger) Fatal(msg string, fields ...logging.Field) { m.log("fatal", msg, fields) }

func (m *MockLogger) With(fields ...logging.Field) logging.Logger {
	child := *m
	child.fields = append(append([]logging.Field{}, m.fields...), fields...)
	return &child
}

func (m *MockLogger) Named(name string) logging.Logger {
	child := *m
	if m.name != "" {
		name = m.name + "." + name
	}
	child.name = name
	return &child
}

func (m *MockLogger) Sync() error { return nil }

// GetMessages returns a copy of all recorded entries.
func (m *MockLogger) GetMessages() []LogMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]LogMessage, len(*m.messages))
	copy(result, *m.messages)
	return result
}

// Clear drops all recorded entries.
func (m *MockLogger) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	*m.messages = (*m.messages)[:0]
}

// HasMessage reports whether an entry with this level and message exists.
func (m *MockLogger) HasMessage(level, msg string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, logged := range *m.messages {
		if logged.Level == level && logged.Message == msg {
			return true
		}
	}
	return false
}

// Field returns the value of key on the first entry with message msg.
func (m *MockLogger) Field(msg, key string) (interface{}, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, logged := range *m.messages {
		if logged.Message != msg {
			continue
		}
		for _, f := range logged.Fields {
			if f.Key == key {
				return f.Value, true
			}
		}
	}
	return nil, false
}

//Personal.AI order the ending
