package moderation

import (
	"context"
	"reflect"
	"testing"
	"time"
)

func newTestEnforcer(t *testing.T, clock *testClock, gate premiumChecker) *Enforcer {
	t.Helper()
	client := newStubClient()
	policy := testPolicy()
	policy.MuteDuration = 24 * time.Hour
	terms := NewTermStore(client, gate, []string{"anjing", "kontol", "babi"}, nil)
	warns := NewWarnLedger(client, policy)
	spam := NewSpamDetector(testSpamConfig(), clock.Now)
	return NewEnforcer(policy, terms, gate, warns, spam)
}

func TestEvaluateBotAuthorExempt(t *testing.T) {
	t.Parallel()

	clock := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	enforcer := newTestEnforcer(t, clock, nil)

	decision := enforcer.Evaluate(context.Background(), 1, 100, "anjing kontol babi", true)
	if !decision.IsNone() {
		t.Fatalf("bot-authored message decision = %+v, want NONE", decision)
	}
}

func TestEvaluateCleanMessage(t *testing.T) {
	t.Parallel()

	clock := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	enforcer := newTestEnforcer(t, clock, nil)

	decision := enforcer.Evaluate(context.Background(), 1, 100, "selamat pagi semua", false)
	if !decision.IsNone() {
		t.Fatalf("clean message decision = %+v, want NONE", decision)
	}
}

func TestEvaluateContentViolationEscalates(t *testing.T) {
	t.Parallel()

	clock := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	enforcer := newTestEnforcer(t, clock, nil)
	ctx := context.Background()

	first := enforcer.Evaluate(ctx, 1, 100, "dasar anjing", false)
	if first.Action != ActionDeleteWarn {
		t.Fatalf("first violation action = %s, want DELETE_WARN", first.Action)
	}
	if !reflect.DeepEqual(first.MatchedTerms, []string{"anjing"}) {
		t.Errorf("MatchedTerms = %v, want [anjing]", first.MatchedTerms)
	}
	if first.Severity != 1 || first.ID == "" {
		t.Errorf("decision = %+v, want severity 1 and a decision ID", first)
	}
	if !reflect.DeepEqual(first.NoticeArgs, []any{1, 5}) {
		t.Errorf("NoticeArgs = %v, want [1 5]", first.NoticeArgs)
	}

	enforcer.Evaluate(ctx, 1, 100, "anjing", false)
	third := enforcer.Evaluate(ctx, 1, 100, "a n j i n g", false)
	if third.Action != ActionDeleteMute {
		t.Fatalf("third violation action = %s, want DELETE_MUTE", third.Action)
	}
	if third.MuteDuration != 24*time.Hour {
		t.Errorf("mute duration = %v, want policy 24h", third.MuteDuration)
	}
}

func TestEvaluateObfuscatedViolation(t *testing.T) {
	t.Parallel()

	clock := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	enforcer := newTestEnforcer(t, clock, nil)

	decision := enforcer.Evaluate(context.Background(), 1, 100, "KOOOONTOL!!!", false)
	if decision.Action != ActionDeleteWarn {
		t.Fatalf("obfuscated violation action = %s, want DELETE_WARN", decision.Action)
	}
	if !reflect.DeepEqual(decision.MatchedTerms, []string{"kontol"}) {
		t.Errorf("MatchedTerms = %v, want [kontol]", decision.MatchedTerms)
	}
}

func TestEvaluateManyTermsBypass(t *testing.T) {
	t.Parallel()

	clock := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	enforcer := newTestEnforcer(t, clock, nil)

	decision := enforcer.Evaluate(context.Background(), 1, 100, "anjing kontol babi", false)
	if decision.Action != ActionDeleteBan {
		t.Fatalf("3-term message action = %s, want DELETE_BAN", decision.Action)
	}
	if decision.Notice != NoticeBanSevere {
		t.Errorf("notice = %q, want severe-ban notice", decision.Notice)
	}
}

func TestEvaluateViolationSkipsSpamCheck(t *testing.T) {
	t.Parallel()

	clock := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	enforcer := newTestEnforcer(t, clock, nil)
	ctx := context.Background()

	// 10 violating messages in a burst never produce a flood mute, the
	// content path short-circuits spam tracking.
	for i := 0; i < 10; i++ {
		decision := enforcer.Evaluate(ctx, 1, 100, "anjing", false)
		if decision.Action == ActionDeleteMute && decision.Notice == NoticeFlood {
			t.Fatalf("violating message %d hit the flood path", i+1)
		}
	}
}

func TestEvaluatePremiumChatRunsStricterFloodPreset(t *testing.T) {
	t.Parallel()

	clock := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	gate := &staticGate{premium: map[int64]bool{1: true}}
	enforcer := newTestEnforcer(t, clock, gate)
	ctx := context.Background()

	// premium chat: allowance 4, the 5th burst message is muted for 30m
	for i := 0; i < 4; i++ {
		if decision := enforcer.Evaluate(ctx, 1, 100, "halo", false); !decision.IsNone() {
			t.Fatalf("premium clean message %d decision = %+v, want NONE", i+1, decision)
		}
	}
	decision := enforcer.Evaluate(ctx, 1, 100, "halo", false)
	if decision.Action != ActionDeleteMute {
		t.Fatalf("5th premium burst message action = %s, want DELETE_MUTE", decision.Action)
	}
	if decision.MuteDuration != 30*time.Minute {
		t.Errorf("premium flood mute duration = %v, want 30m", decision.MuteDuration)
	}

	// the same burst in a plain chat stays inside the default allowance
	for i := 0; i < 5; i++ {
		if decision := enforcer.Evaluate(ctx, 2, 100, "halo", false); !decision.IsNone() {
			t.Fatalf("plain clean message %d decision = %+v, want NONE", i+1, decision)
		}
	}
}

func TestEvaluateFloodMute(t *testing.T) {
	t.Parallel()

	clock := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	enforcer := newTestEnforcer(t, clock, nil)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		if decision := enforcer.Evaluate(ctx, 1, 100, "halo", false); !decision.IsNone() {
			t.Fatalf("clean message %d decision = %+v, want NONE", i+1, decision)
		}
		clock.Advance(600 * time.Millisecond)
	}
	decision := enforcer.Evaluate(ctx, 1, 100, "halo", false)
	if decision.Action != ActionDeleteMute {
		t.Fatalf("7th burst message action = %s, want DELETE_MUTE", decision.Action)
	}
	if decision.MuteDuration != 600*time.Second {
		t.Errorf("flood mute duration = %v, want 600s", decision.MuteDuration)
	}
	if decision.Notice != NoticeFlood {
		t.Errorf("notice = %q, want flood notice", decision.Notice)
	}
}
