package moderation

import (
	"testing"
	"time"

	"github.com/iamwavecut/guardbot/internal/config"
)

func testSpamConfig() config.Spam {
	return config.Spam{
		Window:              5 * time.Second,
		MaxMessages:         6,
		MuteDuration:        600 * time.Second,
		PremiumMaxMessages:  4,
		PremiumMuteDuration: 30 * time.Minute,
	}
}

func TestSpamBurstTriggers(t *testing.T) {
	t.Parallel()

	clock := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	detector := NewSpamDetector(testSpamConfig(), clock.Now)

	// 7 messages inside 4 seconds: only the 7th crosses the allowance
	for i := 0; i < 6; i++ {
		if detector.Observe(1, 100, false) {
			t.Fatalf("message %d flagged, want first 6 clean", i+1)
		}
		clock.Advance(600 * time.Millisecond)
	}
	if !detector.Observe(1, 100, false) {
		t.Fatal("7th message inside the window not flagged")
	}
	if got := detector.MuteDuration(false); got != 600*time.Second {
		t.Errorf("MuteDuration = %v, want 600s", got)
	}
}

func TestSpamPremiumPresetIsStricter(t *testing.T) {
	t.Parallel()

	clock := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	detector := NewSpamDetector(testSpamConfig(), clock.Now)

	// allowance 4 instead of 6: the 5th message in a burst trips
	for i := 0; i < 4; i++ {
		if detector.Observe(1, 100, true) {
			t.Fatalf("premium message %d flagged, want first 4 clean", i+1)
		}
	}
	if !detector.Observe(1, 100, true) {
		t.Fatal("5th premium message inside the window not flagged")
	}
	if got := detector.MuteDuration(true); got != 30*time.Minute {
		t.Errorf("premium MuteDuration = %v, want 30m", got)
	}

	// the same burst stays under the plain allowance
	for i := 0; i < 5; i++ {
		if detector.Observe(2, 100, false) {
			t.Fatalf("plain message %d flagged, want first 5 clean", i+1)
		}
	}
}

func TestSpamSpreadOutNeverTriggers(t *testing.T) {
	t.Parallel()

	clock := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	detector := NewSpamDetector(testSpamConfig(), clock.Now)

	for i := 0; i < 7; i++ {
		if detector.Observe(1, 100, false) {
			t.Fatalf("message %d flagged despite 2s spacing", i+1)
		}
		clock.Advance(2 * time.Second)
	}
}

func TestSpamWindowDecays(t *testing.T) {
	t.Parallel()

	clock := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	detector := NewSpamDetector(testSpamConfig(), clock.Now)

	for i := 0; i < 7; i++ {
		detector.Observe(1, 100, false)
	}
	clock.Advance(6 * time.Second)
	if detector.Observe(1, 100, false) {
		t.Fatal("message after the window elapsed still flagged")
	}
}

func TestSpamUsersAreIndependent(t *testing.T) {
	t.Parallel()

	clock := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	detector := NewSpamDetector(testSpamConfig(), clock.Now)

	for i := 0; i < 7; i++ {
		detector.Observe(1, 100, false)
	}
	if detector.Observe(1, 101, false) {
		t.Error("other user inherited a flooded window")
	}
	if detector.Observe(2, 100, false) {
		t.Error("same user in another chat inherited a flooded window")
	}
}
