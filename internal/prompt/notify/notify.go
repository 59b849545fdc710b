package notify

import (
	"context"
	"sync"
)

// Notifier fans out "this user's collection changed" signals. Signals carry
// no payload; subscribers re-read the full collection on every signal.
type Notifier interface {
	Publish(ctx context.Context, userID string) error
	// Subscribe returns a channel that receives a value after each change.
	// Bursts may be coalesced. The channel closes when ctx is done.
	Subscribe(ctx context.Context, userID string) (<-chan struct{}, error)
}

// Memory is a process-local Notifier.
type Memory struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
}

func NewMemory() *Memory {
	return &Memory{subs: make(map[string]map[chan struct{}]struct{})}
}

func (m *Memory) Publish(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for ch := range m.subs[userID] {
		signal(ch)
	}
	return nil
}

func (m *Memory) Subscribe(ctx context.Context, userID string) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)
	m.mu.Lock()
	if m.subs[userID] == nil {
		m.subs[userID] = make(map[chan struct{}]struct{})
	}
	m.subs[userID][ch] = struct{}{}
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.subs[userID], ch)
		if len(m.subs[userID]) == 0 {
			delete(m.subs, userID)
		}
		m.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}

// Subscribers reports the number of live subscriptions for userID.
func (m *Memory) Subscribers(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs[userID])
}

// signal does a non-blocking send; a pending signal already covers this change.
func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Nop discards signals and never fires.
type Nop struct{}

func (Nop) Publish(context.Context, string) error { return nil }

func (Nop) Subscribe(ctx context.Context, _ string) (<-chan struct{}, error) {
	ch := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}
