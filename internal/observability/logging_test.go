package observability

import "testing"

func TestNewLogger_ValidLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		logger, err := NewLogger(level)
		if err != nil {
			t.Errorf("NewLogger(%q) returned error: %v", level, err)
			continue
		}
		if logger == nil {
			t.Errorf("NewLogger(%q) returned nil logger", level)
		}
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := NewLogger("chatty"); err == nil {
		t.Error("NewLogger(\"chatty\") expected error, got nil")
	}
}
