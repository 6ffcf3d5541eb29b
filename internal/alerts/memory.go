package alerts

import (
	"context"
	"sync"
)

// MemoryPublisher keeps the newest maxLen alerts in process.
type MemoryPublisher struct {
	mu     sync.Mutex
	alerts []Alert
	maxLen int
}

func NewMemoryPublisher(maxLen int) *MemoryPublisher {
	return &MemoryPublisher{maxLen: maxLen}
}

func (p *MemoryPublisher) Publish(_ context.Context, a Alert) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.alerts = append(p.alerts, a)
	if over := len(p.alerts) - p.maxLen; over > 0 {
		p.alerts = append([]Alert(nil), p.alerts[over:]...)
	}
	return nil
}

func (p *MemoryPublisher) Recent(_ context.Context, n int) ([]Alert, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n = min(max(n, 0), len(p.alerts))
	out := make([]Alert, 0, n)
	for i := len(p.alerts) - 1; i >= len(p.alerts)-n; i-- {
		out = append(out, p.alerts[i])
	}
	return out, nil
}
