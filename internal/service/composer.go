package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/LeventeLantos/chat-compose/internal/cache"
	"github.com/LeventeLantos/chat-compose/internal/model"
)

var (
	ErrEmptyText = errors.New("message text must not be empty")
	ErrInFlight  = errors.New("a submission is already in flight")
)

type SendClient interface {
	Send(ctx context.Context, text string) error
}

// MessageStore receives every message once it reaches a terminal status.
type MessageStore interface {
	Add(msg model.Message)
}

type Option func(*Composer)

// WithObserver registers fn to be called after every status change of the
// compose slot, including the fresh draft that replaces a finished message.
func WithObserver(fn func(model.Message)) Option {
	return func(c *Composer) {
		c.observer = fn
	}
}

func WithJournal(j cache.OutcomeJournal) Option {
	return func(c *Composer) {
		c.journal = j
	}
}

// Composer owns the compose slot and drives one submission at a time.
type Composer struct {
	sender SendClient
	store  MessageStore

	observer func(model.Message)
	journal  cache.OutcomeJournal

	mu   sync.Mutex
	slot model.Message
}

func NewComposer(sender SendClient, store MessageStore, opts ...Option) *Composer {
	c := &Composer{
		sender: sender,
		store:  store,
		slot:   model.NewDraft(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Composer) Draft() model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.slot
}

func (c *Composer) SetText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.slot.Status != model.Draft {
		return ErrInFlight
	}
	c.slot.Text = text
	return nil
}

// Submit sends the draft and returns it in its terminal status. A rejected
// or errored send is not returned as an error; it shows up as model.Failed.
func (c *Composer) Submit(ctx context.Context) (model.Message, error) {
	return c.submit(ctx, nil)
}

// SubmitText sets the draft text and submits it under the same lock, so a
// concurrent submission cannot replace or clear the text in between.
func (c *Composer) SubmitText(ctx context.Context, text string) (model.Message, error) {
	return c.submit(ctx, &text)
}

func (c *Composer) submit(ctx context.Context, text *string) (model.Message, error) {
	msg, err := c.begin(text)
	if err != nil {
		return model.Message{}, err
	}

	c.notify(msg)

	start := time.Now()
	to := model.Sent
	if err := c.sender.Send(ctx, msg.Text); err != nil {
		to = model.Failed
		slog.Warn("message send failed", "id", msg.ID, "err", err)
	}
	// pending -> sent/failed is always allowed.
	_ = msg.Advance(to)

	c.mu.Lock()
	c.slot = msg
	c.mu.Unlock()

	c.notify(msg)
	c.store.Add(msg)
	c.record(ctx, msg)

	slog.Info("message submitted",
		"id", msg.ID,
		"status", string(msg.Status),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	next := model.NewDraft()
	c.mu.Lock()
	c.slot = next
	c.mu.Unlock()

	c.notify(next)
	return msg, nil
}

// begin moves the slot to pending, optionally setting its text first.
func (c *Composer) begin(text *string) (model.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.slot.Status != model.Draft {
		return model.Message{}, ErrInFlight
	}
	if text != nil {
		c.slot.Text = *text
	}
	if c.slot.Empty() {
		return model.Message{}, ErrEmptyText
	}
	if err := c.slot.Advance(model.Pending); err != nil {
		return model.Message{}, err
	}
	return c.slot, nil
}

func (c *Composer) notify(msg model.Message) {
	if c.observer != nil {
		c.observer(msg)
	}
}

func (c *Composer) record(ctx context.Context, msg model.Message) {
	if c.journal == nil {
		return
	}

	jctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := c.journal.RecordOutcome(jctx, msg, time.Now()); err != nil {
		slog.Warn("outcome journal write failed", "id", msg.ID, "err", err)
	}
}
