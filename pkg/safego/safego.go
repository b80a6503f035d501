package safego

import (
	"go.uber.org/zap"
)

// Go launches a goroutine with panic recovery.
// Every inbound gateway event is handled in one of these; a panicking
// handler is logged and its goroutine exits instead of taking the
// process down with it.
//
// Usage:
//
//	safego.Go(logger, "message-pipeline", func() {
//	    // work that might panic
//	})
func Go(logger *zap.Logger, name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Goroutine panicked",
					zap.String("goroutine", name),
					zap.Any("panic", r),
					zap.Stack("stack"),
				)
			}
		}()
		fn()
	}()
}
