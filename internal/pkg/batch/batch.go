package batch

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Outcome is the result of one item of a batch.
type Outcome struct {
	ItemID int64
	Err    error
}

func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Result holds one outcome per attempted item, in input order.
type Result struct {
	ID         uuid.UUID
	Operation  string
	Outcomes   []Outcome
	StartedAt  time.Time
	FinishedAt time.Time
}

func (r Result) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Succeeded() {
			n++
		}
	}
	return n
}

func (r Result) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}

// Errors returns the failure messages in input order.
func (r Result) Errors() []string {
	msgs := make([]string, 0)
	for _, o := range r.Outcomes {
		if o.Err != nil {
			msgs = append(msgs, o.Err.Error())
		}
	}
	return msgs
}

// Run applies fn to every item with at most limit calls in flight. A failing
// item never stops the others, and Run returns only after every call has
// finished. Item errors are collected, not returned.
func Run[T any](ctx context.Context, operation string, items []T, limit int, itemID func(T) int64, fn func(context.Context, T) error) Result {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	result := Result{
		ID:        id,
		Operation: operation,
		Outcomes:  make([]Outcome, len(items)),
		StartedAt: time.Now(),
	}

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, item := range items {
		g.Go(func() error {
			itemErr := fn(ctx, item)
			if itemErr != nil {
				slog.Warn("Batch item failed",
					"batch_id", id.String(),
					"operation", operation,
					"item_id", itemID(item),
					"error", itemErr,
				)
			}
			// each goroutine owns its own slot
			result.Outcomes[i] = Outcome{ItemID: itemID(item), Err: itemErr}
			return nil
		})
	}
	_ = g.Wait()

	result.FinishedAt = time.Now()
	return result
}

// Fail records an item that was rejected before any call was made.
func (r *Result) Fail(itemID int64, err error) {
	r.Outcomes = append(r.Outcomes, Outcome{ItemID: itemID, Err: err})
}
