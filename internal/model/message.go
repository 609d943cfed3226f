package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type Status string

const (
	Draft   Status = "draft"
	Pending Status = "pending"
	Sent    Status = "sent"
	Failed  Status = "failed"
)

var ErrInvalidTransition = errors.New("invalid status transition")

func (s Status) Valid() bool {
	switch s {
	case Draft, Pending, Sent, Failed:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transition is possible from s.
func (s Status) Terminal() bool {
	return s == Sent || s == Failed
}

// CanTransition allows only draft -> pending -> {sent, failed}.
func CanTransition(from, to Status) bool {
	switch from {
	case Draft:
		return to == Pending
	case Pending:
		return to == Sent || to == Failed
	default:
		return false
	}
}

type Message struct {
	ID     string `json:"id,omitempty"`
	Text   string `json:"text"`
	Status Status `json:"status"`
}

func NewDraft() Message {
	return NewMessage("", Draft)
}

func NewMessage(text string, status Status) Message {
	return Message{
		ID:     uuid.NewString(),
		Text:   text,
		Status: status,
	}
}

func (m Message) Empty() bool {
	return m.Text == ""
}

func (m *Message) Advance(to Status) error {
	if !CanTransition(m.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.Status, to)
	}
	m.Status = to
	return nil
}
