package monitoring

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestSetLoggerNilInstallsNoop(t *testing.T) {
	orig := Logf
	defer func() { Logf = orig }()

	SetLogger(nil)
	// Must not panic and must not write anywhere.
	Logf("this should vanish %d", 42)
}

func TestSetLoggerCapturesOutput(t *testing.T) {
	orig := Logf
	defer func() { Logf = orig }()

	var got []string
	SetLogger(func(format string, v ...interface{}) {
		got = append(got, fmt.Sprintf(format, v...))
	})

	Logf("hello %s", "world")
	if len(got) != 1 || got[0] != "hello world" {
		t.Fatalf("unexpected capture: %v", got)
	}
}

func TestThrottleSuppressesWithinInterval(t *testing.T) {
	orig := Logf
	defer func() { Logf = orig }()

	var lines []string
	SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})

	now := time.Unix(1000, 0)
	th := NewThrottle(time.Minute)
	th.SetNowFunc(func() time.Time { return now })

	if !th.Logf("queue overflow") {
		t.Fatal("first emission should pass")
	}
	for i := 0; i < 5; i++ {
		if th.Logf("queue overflow") {
			t.Fatal("emission within interval should be suppressed")
		}
	}

	now = now.Add(61 * time.Second)
	if !th.Logf("queue overflow") {
		t.Fatal("emission after interval should pass")
	}

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %v", len(lines), lines)
	}
	if !strings.Contains(lines[1], "5 similar suppressed") {
		t.Fatalf("expected suppression count in %q", lines[1])
	}
}

func TestThrottleZeroIntervalNeverSuppresses(t *testing.T) {
	orig := Logf
	defer func() { Logf = orig }()
	SetLogger(nil)

	th := NewThrottle(0)
	for i := 0; i < 3; i++ {
		if !th.Logf("always") {
			t.Fatal("zero interval must not suppress")
		}
	}
}
