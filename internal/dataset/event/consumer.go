package event

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shandysiswandi/godataset/internal/dataset/entity"
)

type Handler interface {
	Handle(ctx context.Context, event entity.DatasetUploadedEvent) error
}

type ConsumerConfig struct {
	Workers     int
	MaxRetries  int
	BaseBackoff time.Duration
}

// Consumer drains a Bus with a fixed pool of workers. Each event id is
// handled at most once; failed handlers are retried with exponential backoff.
type Consumer struct {
	bus         *Bus
	handler     Handler
	workers     int
	maxRetries  int
	baseBackoff time.Duration
	seen        sync.Map
	wg          sync.WaitGroup
	startOnce   sync.Once
}

func NewConsumer(bus *Bus, handler Handler, cfg ConsumerConfig) *Consumer {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	baseBackoff := cfg.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = 100 * time.Millisecond
	}

	return &Consumer{
		bus:         bus,
		handler:     handler,
		workers:     workers,
		maxRetries:  max(cfg.MaxRetries, 0),
		baseBackoff: baseBackoff,
	}
}

func (c *Consumer) Start() {
	c.startOnce.Do(func() {
		for i := 0; i < c.workers; i++ {
			c.wg.Add(1)
			go c.worker()
		}
	})
}

// Stop closes the bus and waits for queued events to be handled or for ctx
// to expire.
func (c *Consumer) Stop(ctx context.Context) error {
	if c.bus != nil {
		c.bus.Close()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Consumer) worker() {
	defer c.wg.Done()

	for event := range c.bus.Subscribe() {
		c.process(event)
	}
}

func (c *Consumer) process(event entity.DatasetUploadedEvent) {
	if c.handler == nil {
		return
	}

	if event.EventID != 0 {
		if _, loaded := c.seen.LoadOrStore(event.EventID, struct{}{}); loaded {
			slog.Info("skip duplicate dataset uploaded event", "event_id", event.EventID, "filename", event.Filename)
			return
		}
	}

	backoff := c.baseBackoff
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		err := c.handler.Handle(context.Background(), event)
		if err == nil {
			return
		}

		if attempt == c.maxRetries {
			slog.Error("failed to handle dataset uploaded event", "event_id", event.EventID, "filename", event.Filename, "attempts", attempt+1, "error", err)
			return
		}

		time.Sleep(backoff)
		backoff *= 2
	}
}

// AuditLogger records every upload as a structured log line.
type AuditLogger struct {
	Logger *slog.Logger
}

func (a AuditLogger) Handle(ctx context.Context, event entity.DatasetUploadedEvent) error {
	if event.Filename == "" {
		return errors.New("missing filename")
	}

	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.InfoContext(ctx, "dataset uploaded",
		"event_id", event.EventID,
		"filename", event.Filename,
		"bytes", event.Size,
		"uploaded_at", time.Unix(event.UploadedAt, 0).UTC().Format(time.RFC3339),
	)
	return nil
}
