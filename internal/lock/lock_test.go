package lock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMutexMap_SerializesSameKey(t *testing.T) {
	m := NewMutexMap()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Lock("project-a")
			counter++
			m.Unlock("project-a")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestMutexMap_IndependentKeysDoNotBlock(t *testing.T) {
	m := NewMutexMap()

	m.Lock("project-a")
	done := make(chan struct{})
	go func() {
		m.Lock("project-b")
		m.Unlock("project-b")
		close(done)
	}()
	<-done // would deadlock if keys shared a mutex
	m.Unlock("project-a")
}
