package pipeline

import (
	"sync"
	"testing"
)

func TestKeyLockSerializesSameKey(t *testing.T) {
	locks := newKeyLock()

	const iterations = 200
	var counter int
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				unlock := locks.lock("membro/Ak47")
				counter++
				unlock()
			}
		}()
	}
	wg.Wait()

	if counter != 4*iterations {
		t.Fatalf("counter = %d, want %d", counter, 4*iterations)
	}
}

func TestKeyLockDistinctKeysDoNotBlockEachOther(t *testing.T) {
	locks := newKeyLock()

	unlockA := locks.lock("membro/Ak47")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := locks.lock("gerencia/Ak47")
		unlockB()
		close(done)
	}()

	<-done
}
