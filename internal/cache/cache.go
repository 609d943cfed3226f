package cache

import (
	"context"
	"time"

	"github.com/LeventeLantos/chat-compose/internal/model"
)

// OutcomeJournal records the terminal result of each submission.
type OutcomeJournal interface {
	RecordOutcome(ctx context.Context, msg model.Message, at time.Time) error
}
