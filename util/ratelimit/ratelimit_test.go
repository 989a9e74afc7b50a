package ratelimit

import "testing"

func TestLimit(t *testing.T) {
	var now int64 = 1000

	l := New(10)
	l.now = func() int64 { return now }

	for i := 0; i < 10; i++ {
		if !l.CanAct("1.2.3.4", 1) {
			t.Fatalf("action %d refused", i)
		}
	}
	if l.CanAct("1.2.3.4", 1) {
		t.Fatal("11th action in a minute must be refused")
	}
	if !l.CanAct("5.6.7.8", 1) {
		t.Fatal("limits are per address")
	}

	// the window resets, but the ban is still running
	now += 61
	if l.CanAct("1.2.3.4", 1) {
		t.Fatal("banned address allowed")
	}

	now += BAN_TIME
	if !l.CanAct("1.2.3.4", 1) {
		t.Fatal("ban did not expire")
	}

	if l.CanAct("9.9.9.9", 11) {
		t.Fatal("amount larger than the quota must be refused")
	}
}

func TestCleanup(t *testing.T) {
	var now int64 = 1000

	l := New(2)
	l.now = func() int64 { return now }

	l.CanAct("a", 1)
	l.CanAct("b", 5) // banned until now+BAN_TIME

	now += 61
	l.Cleanup()
	if l.Len() != 1 {
		t.Fatalf("expected only the banned address to remain, got %d", l.Len())
	}

	now += BAN_TIME
	l.Cleanup()
	if l.Len() != 0 {
		t.Fatalf("expected an empty table, got %d", l.Len())
	}
}
