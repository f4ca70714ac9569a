package concurrency

import (
	"log/slog"
	"runtime/debug"
)

// SafeGo runs fn on its own goroutine and recovers any panic, so a
// crashing background feedback submission cannot take the panel down
// with it. The recovered value is handed to onPanic when one is set.
func SafeGo(fn func(), onPanic func(recovered interface{})) {
	go func() {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			slog.Error("Recovered panic in background routine",
				"panic", recovered,
				"stack", string(debug.Stack()))
			if onPanic != nil {
				onPanic(recovered)
			}
		}()
		fn()
	}()
}
