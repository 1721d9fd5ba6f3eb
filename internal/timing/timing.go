// Package timing provides debounce and throttle wrappers.
//
// Each wrapper owns its timer state; independent wrappers never interact.
// Wrapped functions run on the caller's goroutine (throttle) or on a timer
// goroutine (debounce).
package timing

import (
	"time"

	"github.com/bep/debounce"
	"golang.org/x/time/rate"
)

// Debounce returns a wrapper that delays fn until wait has passed without a
// new call. Only the last call of a burst fires, with that call's argument.
func Debounce[T any](fn func(T), wait time.Duration) func(T) {
	debounced := debounce.New(wait)
	return func(arg T) {
		debounced(func() { fn(arg) })
	}
}

// DebounceFunc is Debounce for functions without arguments.
func DebounceFunc(fn func(), wait time.Duration) func() {
	debounced := debounce.New(wait)
	return func() {
		debounced(fn)
	}
}

// Throttle returns a wrapper that calls fn immediately, then drops every
// call for limit, then lets the next call through again. Dropped calls are
// not queued.
func Throttle[T any](fn func(T), limit time.Duration) func(T) {
	allow := leadingEdge(limit)
	return func(arg T) {
		if allow() {
			fn(arg)
		}
	}
}

// ThrottleFunc is Throttle for functions without arguments.
func ThrottleFunc(fn func(), limit time.Duration) func() {
	allow := leadingEdge(limit)
	return func() {
		if allow() {
			fn()
		}
	}
}

// leadingEdge admits one event per limit: a single-token bucket refilled
// every limit.
func leadingEdge(limit time.Duration) func() bool {
	if limit <= 0 {
		return func() bool { return true }
	}
	limiter := rate.NewLimiter(rate.Every(limit), 1)
	return limiter.Allow
}
