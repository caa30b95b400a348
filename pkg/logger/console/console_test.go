package console

import (
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewConsoleLogger_ServicePrefix(t *testing.T) {
	c := NewConsoleLogger(ConsoleLoggerParams{Service: "graphview-worker"})
	if got := c.logger.GetPrefix(); got != "graphview-worker" {
		t.Fatalf("expected prefix %q, got %q", "graphview-worker", got)
	}
}

func TestNewConsoleLogger_DebugGatesLevel(t *testing.T) {
	c := NewConsoleLogger(ConsoleLoggerParams{})
	if got := c.logger.GetLevel(); got != log.InfoLevel {
		t.Fatalf("expected info level, got %v", got)
	}

	c = NewConsoleLogger(ConsoleLoggerParams{Debug: true})
	if got := c.logger.GetLevel(); got != log.DebugLevel {
		t.Fatalf("expected debug level, got %v", got)
	}
}
