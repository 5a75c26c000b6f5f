// Package testsupport provides small, dependency-free test helpers. No test
// in this module imports it.
package testsupport

import (
	"bytes"
	"sync"
)

// SafeBuffer is a concurrency-safe io.Writer for capturing log output in
// tests that exercise a *slog.Logger from multiple goroutines.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements io.Writer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String returns the buffer's contents captured so far.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}
