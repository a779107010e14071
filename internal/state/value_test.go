package state

import (
	"context"
	"testing"
	"time"
)

func TestValue_GetSet(t *testing.T) {
	v := NewValue(1)
	if v.Get() != 1 || v.Version() != 0 {
		t.Fatalf("unexpected initial state: %d v%d", v.Get(), v.Version())
	}
	v.Set(2)
	if v.Get() != 2 || v.Version() != 1 {
		t.Fatalf("unexpected state after set: %d v%d", v.Get(), v.Version())
	}
}

func TestValue_SetIfVersion(t *testing.T) {
	v := NewValue("a")
	seen := v.Version()
	v.Set("b")
	if v.SetIfVersion(seen, "stale") {
		t.Fatalf("stale write accepted")
	}
	if !v.SetIfVersion(v.Version(), "c") || v.Get() != "c" {
		t.Fatalf("fresh write rejected: %q", v.Get())
	}
}

func TestValue_SubscribeDeliversCurrentThenUpdates(t *testing.T) {
	v := NewValue("idle")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ch := v.Subscribe(ctx)
	if got := <-ch; got != "idle" {
		t.Fatalf("first delivery = %q, want idle", got)
	}
	v.Set("loading")
	if got := <-ch; got != "loading" {
		t.Fatalf("second delivery = %q, want loading", got)
	}
}

func TestValue_SubscribeConflates(t *testing.T) {
	v := NewValue(0)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ch := v.Subscribe(ctx)
	<-ch
	for i := 1; i <= 10; i++ {
		v.Set(i)
	}
	// Intermediate values may be skipped; the latest always arrives.
	for got := range ch {
		if got == 10 {
			return
		}
	}
	t.Fatalf("never observed the latest value")
}

func TestValue_SubscribeClosesOnCancel(t *testing.T) {
	v := NewValue(0)
	ctx, cancel := context.WithCancel(context.Background())
	ch := v.Subscribe(ctx)
	<-ch
	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			// A racing delivery is allowed; the close must follow.
			if _, ok := <-ch; ok {
				t.Fatalf("channel still open after cancel")
			}
		}
	case <-time.After(time.Second):
		t.Fatalf("channel not closed after cancel")
	}
}

func TestValue_WaitFor(t *testing.T) {
	v := NewValue(0)
	go func() {
		time.Sleep(10 * time.Millisecond)
		v.Set(5)
	}()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	got, err := v.WaitFor(ctx, func(n int) bool { return n == 5 })
	if err != nil || got != 5 {
		t.Fatalf("WaitFor = %d, %v", got, err)
	}

	short, cancel2 := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel2()
	if _, err := v.WaitFor(short, func(n int) bool { return n == 99 }); err == nil {
		t.Fatalf("expected timeout error")
	}
}
