package timeutil

import (
	"testing"
	"time"
)

func TestMockClockNowAndSet(t *testing.T) {
	start := time.Unix(100, 0)
	c := NewMockClock(start)
	if !c.Now().Equal(start) {
		t.Fatalf("Now() = %v, want %v", c.Now(), start)
	}

	later := start.Add(5 * time.Second)
	c.Set(later)
	if !c.Now().Equal(later) {
		t.Fatalf("Now() after Set = %v, want %v", c.Now(), later)
	}
}

func TestMockClockSince(t *testing.T) {
	start := time.Unix(100, 0)
	c := NewMockClock(start)
	c.Advance(3 * time.Second)
	if got := c.Since(start); got != 3*time.Second {
		t.Fatalf("Since = %v, want 3s", got)
	}
}

func TestMockTickerFiresOnAdvance(t *testing.T) {
	c := NewMockClock(time.Unix(0, 0))
	ticker := c.NewTicker(time.Second)

	select {
	case <-ticker.C():
		t.Fatal("ticker fired before advance")
	default:
	}

	c.Advance(time.Second)
	select {
	case <-ticker.C():
	default:
		t.Fatal("ticker did not fire after advance")
	}
}

func TestMockTickerStop(t *testing.T) {
	c := NewMockClock(time.Unix(0, 0))
	ticker := c.NewTicker(time.Second)
	ticker.Stop()

	c.Advance(2 * time.Second)
	select {
	case <-ticker.C():
		t.Fatal("stopped ticker fired")
	default:
	}
}

func TestRealClockBasics(t *testing.T) {
	var c Clock = RealClock{}
	before := time.Now()
	if c.Now().Before(before) {
		t.Fatal("RealClock.Now went backwards")
	}
	if c.Since(before) < 0 {
		t.Fatal("RealClock.Since negative")
	}
}
