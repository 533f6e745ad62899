package event

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/hjiayz/shortid/internal/issue/entity"
)

type Handler interface {
	Handle(ctx context.Context, event entity.IssueEvent) error
}

type ConsumerConfig struct {
	Workers     int
	MaxRetries  int
	BaseBackoff time.Duration
}

// TallyConsumer drains issue events off the bus and hands them to a
// Handler, retrying with backoff and skipping duplicate event IDs.
type TallyConsumer struct {
	bus         *Bus
	handler     Handler
	workers     int
	maxRetries  int
	baseBackoff time.Duration
	ctx         context.Context
	cancel      context.CancelFunc
	seen        sync.Map
	wg          sync.WaitGroup
}

func NewTallyConsumer(bus *Bus, handler Handler, cfg ConsumerConfig) *TallyConsumer {
	workers := cfg.Workers
	if workers < 1 {
		workers = 4
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	baseBackoff := cfg.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = 100 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &TallyConsumer{
		bus:         bus,
		handler:     handler,
		workers:     workers,
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (c *TallyConsumer) Start() {
	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker()
	}
}

// Stop closes the bus and waits for the workers to drain it. If ctx
// expires first, the consumer context is canceled so in-flight retries
// abandon their backoff instead of sleeping it out.
func (c *TallyConsumer) Stop(ctx context.Context) error {
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
		c.cancel()
		return nil
	case <-ctx.Done():
		c.cancel()
		<-done
		return ctx.Err()
	}
}

func (c *TallyConsumer) worker() {
	defer c.wg.Done()

	for event := range c.bus.Subscribe() {
		c.processEvent(c.ctx, event)
	}
}

func (c *TallyConsumer) processEvent(ctx context.Context, event entity.IssueEvent) {
	if c.handler == nil {
		return
	}

	if event.EventID != "" {
		if _, loaded := c.seen.LoadOrStore(event.EventID, struct{}{}); loaded {
			slog.Info("skip duplicate issue event", "event_id", event.EventID, "shape", event.Shape)
			return
		}
	}

	backoff := c.baseBackoff
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		err := c.handler.Handle(ctx, event)
		if err == nil {
			return
		}

		if attempt == c.maxRetries {
			slog.Error("failed to record issue event after retries", "event_id", event.EventID, "shape", event.Shape, "error", err)
			return
		}

		if !sleepBackoff(ctx, backoff) {
			slog.Warn("abandoning issue event retry on shutdown", "event_id", event.EventID, "shape", event.Shape, "error", err)
			return
		}
		backoff *= 2
	}
}

func sleepBackoff(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return false
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// TallyStore is the slice of the issuance store the recorder needs.
type TallyStore interface {
	AddIssued(ctx context.Context, shape entity.Shape, n int64) error
}

// TallyRecorder applies issue events to the tally store.
type TallyRecorder struct {
	Store TallyStore
}

func (r TallyRecorder) Handle(ctx context.Context, event entity.IssueEvent) error {
	if event.EventID == "" {
		return errors.New("missing event id")
	}
	if r.Store == nil {
		return errors.New("missing tally store")
	}

	return r.Store.AddIssued(ctx, event.Shape, event.Count)
}
