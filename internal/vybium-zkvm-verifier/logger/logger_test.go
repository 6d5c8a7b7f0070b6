package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultLoggerIsSilent(t *testing.T) {
	if Logger().GetLevel() != zerolog.Disabled {
		t.Fatalf("default logger level = %v, want disabled", Logger().GetLevel())
	}
}

func TestSetAndDisable(t *testing.T) {
	Enable()
	if Logger().GetLevel() != zerolog.DebugLevel {
		t.Fatalf("enabled logger level = %v, want debug", Logger().GetLevel())
	}
	Disable()
	if Logger().GetLevel() != zerolog.Disabled {
		t.Fatalf("disabled logger level = %v, want disabled", Logger().GetLevel())
	}
}
