package sdlbridge

import (
	"runtime"
	"sync"
)

// thread runs every call on one goroutine locked to its OS thread. SDL's
// Windows and macOS backends require all calls to come from the thread that
// ran SDL_Init.
type thread struct {
	once  sync.Once
	calls chan func()
}

func newThread() *thread {
	return &thread{calls: make(chan func())}
}

func (t *thread) loop() {
	runtime.LockOSThread()
	for fn := range t.calls {
		fn()
	}
}

// do runs fn on the locked thread and waits for it. A panic in fn is
// re-raised on the caller's goroutine so the lifecycle manager can recover it.
func (t *thread) do(fn func()) {
	t.once.Do(func() { go t.loop() })

	done := make(chan any, 1)
	t.calls <- func() {
		defer func() { done <- recover() }()
		fn()
	}
	if p := <-done; p != nil {
		panic(p)
	}
}
