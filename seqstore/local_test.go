package seqstore

import (
	"context"
	"sync"
	"testing"
)

func TestLocalStartsAtZeroAndIncrements(t *testing.T) {
	ctx := context.Background()
	s := NewLocal()
	t.Cleanup(func() { _ = s.Close(ctx) })

	if n, err := s.Current(ctx, "alice"); err != nil || n != 0 {
		t.Fatalf("Current on missing = %d, %v", n, err)
	}
	for want := uint64(1); want <= 3; want++ {
		n, err := s.Next(ctx, "alice")
		if err != nil {
			t.Fatal(err)
		}
		if n != want {
			t.Fatalf("Next = %d, want %d", n, want)
		}
	}
	if n, _ := s.Current(ctx, "alice"); n != 3 {
		t.Fatalf("Current = %d, want 3", n)
	}
	if n, _ := s.Current(ctx, "bob"); n != 0 {
		t.Fatalf("keys must be independent, bob=%d", n)
	}
}

func TestLocalNextIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := NewLocal()

	const workers, per = 8, 250
	seen := make(chan uint64, workers*per)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < per; j++ {
				n, _ := s.Next(ctx, "k")
				seen <- n
			}
		}()
	}
	wg.Wait()
	close(seen)

	uniq := make(map[uint64]bool, workers*per)
	for n := range seen {
		if uniq[n] {
			t.Fatalf("duplicate sequence %d", n)
		}
		uniq[n] = true
	}
	if n, _ := s.Current(ctx, "k"); n != workers*per {
		t.Fatalf("Current = %d, want %d", n, workers*per)
	}
}
