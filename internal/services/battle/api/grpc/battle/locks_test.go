package battle

import (
	"sync"
	"testing"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	var km keyedMutex
	var wg sync.WaitGroup
	counter := 0
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("b1")
			defer unlock()
			v := counter
			counter = v + 1
		}()
	}
	wg.Wait()
	if counter != 50 {
		t.Fatalf("counter = %d, want 50", counter)
	}
	if n := km.size(); n != 0 {
		t.Fatalf("locks left = %d, want 0", n)
	}
}

func TestKeyedMutexDifferentKeysDoNotBlock(t *testing.T) {
	var km keyedMutex
	unlockA := km.Lock("a")
	done := make(chan struct{})
	go func() {
		unlock := km.Lock("b")
		unlock()
		close(done)
	}()
	<-done
	unlockA()
}
