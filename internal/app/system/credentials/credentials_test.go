package credentials

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestOneShot_TakeOnce(t *testing.T) {
	o := Member("alice1", "longenough")

	c, err := o.Take()
	if err != nil {
		t.Fatalf("first Take: %v", err)
	}
	if c.Username != "alice1" || c.Password != "longenough" {
		t.Errorf("Take = %+v", c)
	}

	if _, err := o.Take(); !errors.Is(err, ErrSpent) {
		t.Errorf("second Take err = %v, want ErrSpent", err)
	}
}

func TestOneShot_ConcurrentTake(t *testing.T) {
	o := NewOneShot(Credentials{Username: "op", Password: "pw"})

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := o.Take(); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Errorf("successful takes = %d, want 1", wins.Load())
	}
}

func TestSupplier_OperatorIsFreshPerAttempt(t *testing.T) {
	s := NewSupplier("op", "secret")

	a, b := s.Operator(), s.Operator()
	if a == b {
		t.Fatal("Operator returned the same OneShot twice")
	}
	if _, err := a.Take(); err != nil {
		t.Fatalf("a.Take: %v", err)
	}
	c, err := b.Take()
	if err != nil {
		t.Fatalf("b.Take: %v", err)
	}
	if c.Username != "op" || c.Password != "secret" {
		t.Errorf("b.Take = %+v", c)
	}
}
