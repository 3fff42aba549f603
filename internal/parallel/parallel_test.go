package parallel

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
)

func TestFor(t *testing.T) {
	cfg := DefaultConfig()

	var counter int64
	n := 1000

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != int64(n) {
		t.Errorf("Expected %d, got %d", n, counter)
	}
}

func TestFor_EachIndexOnce(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 7, MinChunkSize: 3}

	n := 500
	seen := make([]int32, n)
	For(n, func(i int) {
		atomic.AddInt32(&seen[i], 1)
	}, cfg)

	for i, c := range seen {
		if c != 1 {
			t.Fatalf("Index %d visited %d times", i, c)
		}
	}
}

func TestFor_Sequential(t *testing.T) {
	cfg := Sequential()

	var order []int
	For(100, func(i int) {
		order = append(order, i)
	}, cfg)

	if len(order) != 100 {
		t.Fatalf("Expected 100, got %d", len(order))
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("Sequential run out of order at %d: %d", i, v)
		}
	}
}

func TestFor_SmallChunk(t *testing.T) {
	// Small work units fall back to sequential.
	cfg := DefaultConfig()

	var counter int64
	n := cfg.MinChunkSize - 1

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != int64(n) {
		t.Errorf("Expected %d, got %d", n, counter)
	}
}

func TestFor_Empty(t *testing.T) {
	For(0, func(_ int) {
		t.Fatal("f must not be called")
	}, DefaultConfig())
}

func TestForErr_LowestIndexWins(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1}

	err := ForErr(400, func(i int) error {
		if i == 150 || i == 390 {
			return fmt.Errorf("record %d", i)
		}
		return nil
	}, cfg)

	if err == nil || err.Error() != "record 150" {
		t.Errorf("Expected error from record 150, got %v", err)
	}
}

func TestForErr_Sequential(t *testing.T) {
	sentinel := errors.New("stop")
	var calls int

	err := ForErr(10, func(i int) error {
		calls++
		if i == 3 {
			return sentinel
		}
		return nil
	}, Sequential())

	if !errors.Is(err, sentinel) {
		t.Errorf("Expected sentinel, got %v", err)
	}
	if calls != 4 {
		t.Errorf("Expected sequential run to stop after 4 calls, got %d", calls)
	}
}

func TestWithWorkers(t *testing.T) {
	base := Config{Enabled: true, NumWorkers: 8, MinChunkSize: 64}

	if got := base.WithWorkers(0); got != base {
		t.Errorf("WithWorkers(0) changed config: %+v", got)
	}
	if got := base.WithWorkers(1); got.Enabled || got.NumWorkers != 1 {
		t.Errorf("WithWorkers(1) should disable parallelism: %+v", got)
	}
	if got := Sequential().WithWorkers(3); !got.Enabled || got.NumWorkers != 3 {
		t.Errorf("WithWorkers(3) should enable parallelism: %+v", got)
	}
}

func TestCores(t *testing.T) {
	if Cores() < 1 {
		t.Errorf("Cores() = %d, want >= 1", Cores())
	}
}

func BenchmarkFor(b *testing.B) {
	cfg := DefaultConfig()
	n := 10000

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(j int) {
				atomic.AddInt64(&sum, int64(j))
			}, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		seq := Sequential()
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(j int) {
				atomic.AddInt64(&sum, int64(j))
			}, seq)
		}
	})
}
