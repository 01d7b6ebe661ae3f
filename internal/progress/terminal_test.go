package progress

import (
	"testing"
)

func TestSelectSymbols(t *testing.T) {
	t.Run("unicode terminal", func(t *testing.T) {
		caps := TerminalCapabilities{SupportsUnicode: true}
		symbols := SelectSymbols(caps)

		if symbols.Checkmark != "✓" {
			t.Errorf("Expected unicode checkmark, got %q", symbols.Checkmark)
		}
		if symbols.Failure != "✗" {
			t.Errorf("Expected unicode failure mark, got %q", symbols.Failure)
		}
	})

	t.Run("ascii terminal", func(t *testing.T) {
		caps := TerminalCapabilities{SupportsUnicode: false}
		symbols := SelectSymbols(caps)

		if symbols.Checkmark != "[OK]" {
			t.Errorf("Expected ASCII checkmark, got %q", symbols.Checkmark)
		}
		if symbols.Failure != "[FAIL]" {
			t.Errorf("Expected ASCII failure mark, got %q", symbols.Failure)
		}
	})
}

func TestDetectTerminalCapabilities(t *testing.T) {
	// Under go test stdout is not a TTY, so everything TTY-derived is off.
	caps := DetectTerminalCapabilities()

	if caps.IsTTY {
		t.Skip("running with a TTY attached")
	}
	if caps.SupportsColor {
		t.Error("Expected no color support without a TTY")
	}
	if caps.Width != 0 {
		t.Errorf("Expected zero width without a TTY, got %d", caps.Width)
	}
}

func TestDisplayWithoutTTY(t *testing.T) {
	// Start/Stop/Done/Fail must not panic in non-interactive mode.
	d := New(TerminalCapabilities{IsTTY: false})
	d.Start("scanning definitions")
	d.Stop()
	d.Done("scan complete")
	d.Fail("scan failed")
}
