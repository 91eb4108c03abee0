package logging

import "testing"

func TestNewLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		logger, err := New(level, false)
		if err != nil {
			t.Fatalf("New(%s): %v", level, err)
		}
		if !logger.Core().Enabled(logger.Level()) {
			t.Errorf("%s: level not enabled", level)
		}
	}

	if _, err := New("loud", true); err == nil {
		t.Error("expected error for unknown level")
	}
}
