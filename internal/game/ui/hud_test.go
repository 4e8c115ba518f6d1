package ui

import (
	"testing"
	"time"
)

// The drawing paths need a GL context; these cover the frame-rate
// average and the status timer, which do not.

func TestFPSAveragesOverHalfSecondWindows(t *testing.T) {
	h := NewHUD(nil, true)

	// 60 updates of ~16.7ms cross the half-second mark.
	for i := 0; i < 60; i++ {
		h.Update(16667 * time.Microsecond)
	}
	if got := h.FPS(); got < 55 || got > 65 {
		t.Fatalf("FPS() = %v after steady 60Hz updates, want about 60", got)
	}

	// A slower stretch drags the next window down.
	for i := 0; i < 20; i++ {
		h.Update(33 * time.Millisecond)
	}
	if got := h.FPS(); got < 25 || got > 36 {
		t.Fatalf("FPS() = %v after 30Hz stretch, want about 30", got)
	}
}

func TestNotifyExpires(t *testing.T) {
	h := NewHUD(nil, true)

	h.Notify("saved")
	if h.statusFor != notifyDuration {
		t.Fatalf("statusFor = %v after Notify, want %v", h.statusFor, notifyDuration)
	}

	h.Update(notifyDuration / 2)
	if h.statusFor == 0 {
		t.Fatal("status expired halfway through its window")
	}

	h.Update(notifyDuration)
	if h.statusFor != 0 {
		t.Fatalf("statusFor = %v after the window passed, want 0", h.statusFor)
	}
}
