package recorder

import (
	"context"
	"sync"
	"time"

	"gdprauditor/internal/infra/crawler/types"
)

// Buffer accumulates every response body observed on the browser session's
// network channel during one domain visit. Appends arrive from the CDP event
// goroutine while the orchestrator polls Len from the main sequence, so all
// access goes through the mutex. Reset is only called at domain start, before
// a new navigation begins.
type Buffer struct {
	mu        sync.Mutex
	responses []types.CapturedResponse
}

func InitBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Append(resp types.CapturedResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.responses = append(b.responses, resp)
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.responses)
}

// Snapshot returns a copy of the captured responses in arrival order.
func (b *Buffer) Snapshot() []types.CapturedResponse {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]types.CapturedResponse, len(b.responses))
	copy(out, b.responses)
	return out
}

func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.responses = nil
}

// WaitForThreshold blocks until at least minCount responses were captured or
// timeout elapsed. A timeout is not an error: the caller proceeds with
// whatever was captured, so only the boolean outcome is reported.
func (b *Buffer) WaitForThreshold(ctx context.Context, minCount int, timeout time.Duration) bool {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		if b.Len() >= minCount {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-deadline.C:
			return false
		case <-ticker.C:
		}
	}
}
