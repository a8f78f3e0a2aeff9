package app

import (
	"context"
	"sync"
)

// Lifetime ties asynchronous page work to the time the page is visible.
// Closing it cancels in-flight calls; results that still arrive are
// discarded by Apply.
type Lifetime struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewLifetime starts a page lifetime derived from parent
func NewLifetime(parent context.Context) *Lifetime {
	ctx, cancel := context.WithCancel(parent)
	return &Lifetime{ctx: ctx, cancel: cancel}
}

// Context is cancelled when the page goes away
func (l *Lifetime) Context() context.Context {
	return l.ctx
}

// Go runs fn asynchronously. It reports false, without running fn, once
// the lifetime is closed.
func (l *Lifetime) Go(fn func(ctx context.Context)) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.wg.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.wg.Done()
		fn(l.ctx)
	}()
	return true
}

// Apply runs update only while the page is still mounted. Controllers route
// every state change coming from a network response through Apply.
func (l *Lifetime) Apply(update func()) bool {
	if l.Closed() {
		return false
	}
	update()
	return true
}

// Close unmounts the page. It is safe to call more than once.
func (l *Lifetime) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.cancel()
}

// Closed reports whether the page was unmounted
func (l *Lifetime) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// Wait blocks until every task started with Go has returned
func (l *Lifetime) Wait() {
	l.wg.Wait()
}
