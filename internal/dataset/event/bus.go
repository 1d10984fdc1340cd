package event

import (
	"context"
	"errors"
	"sync"

	"github.com/shandysiswandi/godataset/internal/dataset/entity"
)

var ErrBusClosed = errors.New("event bus is closed")

// Bus is an in-process, bounded queue of upload events. Publish blocks while
// the buffer is full until ctx is done.
type Bus struct {
	mu     sync.RWMutex
	closed bool
	ch     chan entity.DatasetUploadedEvent
}

func NewBus(buffer int) *Bus {
	if buffer < 1 {
		buffer = 1
	}

	return &Bus{
		ch: make(chan entity.DatasetUploadedEvent, buffer),
	}
}

func (b *Bus) Publish(ctx context.Context, event entity.DatasetUploadedEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	select {
	case b.ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bus) Subscribe() <-chan entity.DatasetUploadedEvent {
	return b.ch
}

// Close stops accepting events; queued events are still delivered.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	close(b.ch)
}
