package join

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestAll_CollectsEveryOutcomeInOrder(t *testing.T) {
	boom := errors.New("boom")
	var ran atomic.Int32

	out := All(context.Background(),
		func(ctx context.Context) (string, error) {
			time.Sleep(20 * time.Millisecond)
			ran.Add(1)
			return "slow", nil
		},
		func(ctx context.Context) (string, error) {
			ran.Add(1)
			return "", boom
		},
		func(ctx context.Context) (string, error) {
			ran.Add(1)
			return "fast", nil
		},
	)

	if ran.Load() != 3 {
		t.Fatalf("ran = %d, want 3 (a failure must not stop the others)", ran.Load())
	}
	if len(out) != 3 {
		t.Fatalf("len(out) = %d, want 3", len(out))
	}
	if out[0].Value != "slow" || out[0].Err != nil {
		t.Errorf("out[0] = %+v", out[0])
	}
	if !errors.Is(out[1].Err, boom) {
		t.Errorf("out[1].Err = %v, want boom", out[1].Err)
	}
	if out[2].Value != "fast" || out[2].Err != nil {
		t.Errorf("out[2] = %+v", out[2])
	}
	if err := Err(out); !errors.Is(err, boom) {
		t.Errorf("Err = %v, want boom", err)
	}
}

func TestAll_RunsConcurrently(t *testing.T) {
	start := make(chan struct{})
	var ready atomic.Int32

	task := func(ctx context.Context) (int, error) {
		ready.Add(1)
		<-start
		return 1, nil
	}

	done := make(chan []Outcome[int])
	go func() { done <- All(context.Background(), task, task, task) }()

	deadline := time.After(2 * time.Second)
	for ready.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d tasks started before release", ready.Load())
		default:
			time.Sleep(time.Millisecond)
		}
	}
	close(start)

	out := <-done
	if err := Err(out); err != nil {
		t.Errorf("Err = %v", err)
	}
}

func TestAll_PanicBecomesError(t *testing.T) {
	out := All(context.Background(),
		func(ctx context.Context) (int, error) { panic("bad") },
		func(ctx context.Context) (int, error) { return 7, nil },
	)
	if out[0].Err == nil {
		t.Error("panicking task should report an error")
	}
	if out[1].Value != 7 {
		t.Errorf("out[1].Value = %d, want 7", out[1].Value)
	}
}

func TestAll_Empty(t *testing.T) {
	if out := All[int](context.Background()); len(out) != 0 {
		t.Errorf("len(out) = %d, want 0", len(out))
	}
	if err := Err[int](nil); err != nil {
		t.Errorf("Err(nil) = %v", err)
	}
}
