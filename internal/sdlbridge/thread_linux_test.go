//go:build linux

package sdlbridge

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestThreadRunsCallsOnOneOSThread(t *testing.T) {
	th := newThread()

	var mu sync.Mutex
	tids := make(map[int]bool)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			th.do(func() {
				mu.Lock()
				tids[unix.Gettid()] = true
				mu.Unlock()
			})
		}()
	}
	wg.Wait()
	assert.Len(t, tids, 1)
}
