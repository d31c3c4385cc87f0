package workflow

import (
	"fmt"
	"sync"
	"time"
)

type stopper interface {
	Stop() bool
}

type afterFunc func(d time.Duration, f func()) stopper

func realAfterFunc(d time.Duration, f func()) stopper {
	return time.AfterFunc(d, f)
}

// expiry keeps one timer per open round.
type expiry struct {
	mu     sync.Mutex
	timers map[string]stopper
	after  afterFunc
	now    func() time.Time
}

func newExpiry(after afterFunc, now func() time.Time) *expiry {
	return &expiry{
		timers: make(map[string]stopper),
		after:  after,
		now:    now,
	}
}

func roundKey(ref string, round int) string {
	return fmt.Sprintf("%s#%d", ref, round)
}

// schedule arms fire for deadline, replacing any timer for the same round.
func (x *expiry) schedule(ref string, round int, deadline time.Time, fire func()) {
	if deadline.IsZero() {
		return
	}
	key := roundKey(ref, round)
	delay := deadline.Sub(x.now())
	if delay < 0 {
		delay = 0
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	if prev, ok := x.timers[key]; ok {
		prev.Stop()
	}
	x.timers[key] = x.after(delay, func() {
		x.mu.Lock()
		delete(x.timers, key)
		x.mu.Unlock()
		fire()
	})
}

func (x *expiry) cancel(ref string, round int) {
	key := roundKey(ref, round)
	x.mu.Lock()
	defer x.mu.Unlock()
	if t, ok := x.timers[key]; ok {
		t.Stop()
		delete(x.timers, key)
	}
}

func (x *expiry) stopAll() {
	x.mu.Lock()
	defer x.mu.Unlock()
	for key, t := range x.timers {
		t.Stop()
		delete(x.timers, key)
	}
}

func (x *expiry) pending() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.timers)
}
