package notify

import (
	"io"
	"log"
	"time"
)

// Kind classifies user-facing feedback.
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Info    Kind = "info"
)

// Sink receives fire-and-forget user feedback. The UI owns presentation;
// the core only emits.
type Sink interface {
	Show(message string, kind Kind, duration time.Duration)
}

// LogSink writes notifications to a logger. Default sink for the API
// binary, where the UI polls state instead of receiving pushes.
type LogSink struct {
	logger *log.Logger
}

func NewLogSink(logger *log.Logger) *LogSink {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Show(message string, kind Kind, _ time.Duration) {
	s.logger.Printf("notify kind=%s %s", kind, message)
}

// Discard drops all notifications.
type Discard struct{}

func (Discard) Show(string, Kind, time.Duration) {}
