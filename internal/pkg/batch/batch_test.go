package batch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identity(id int64) int64 { return id }

func TestRun_PartialFailureKeepsGoing(t *testing.T) {
	items := []int64{1, 2, 3}
	result := Run(context.Background(), "test.pay", items, 2, identity, func(ctx context.Context, id int64) error {
		if id == 2 {
			return errors.New("bank account missing")
		}
		return nil
	})

	assert.Equal(t, "test.pay", result.Operation)
	assert.Equal(t, 2, result.Succeeded())
	assert.Equal(t, 1, result.Failed())
	assert.Equal(t, []string{"bank account missing"}, result.Errors())

	require.Len(t, result.Outcomes, 3)
	for i, o := range result.Outcomes {
		assert.Equal(t, items[i], o.ItemID, "outcomes keep input order")
	}
	assert.False(t, result.FinishedAt.Before(result.StartedAt))
}

func TestRun_RespectsLimit(t *testing.T) {
	var current, peak atomic.Int32
	items := make([]int64, 12)
	for i := range items {
		items[i] = int64(i + 1)
	}

	Run(context.Background(), "test.limit", items, 3, identity, func(ctx context.Context, id int64) error {
		n := current.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		current.Add(-1)
		return nil
	})

	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestRun_Empty(t *testing.T) {
	result := Run(context.Background(), "test.empty", []int64{}, 4, identity, func(ctx context.Context, id int64) error {
		t.Fatal("fn must not be called")
		return nil
	})

	assert.Zero(t, result.Succeeded())
	assert.Zero(t, result.Failed())
	assert.Empty(t, result.Errors())
	assert.NotEqual(t, [16]byte{}, [16]byte(result.ID))
}

func TestResult_Fail(t *testing.T) {
	result := Result{Outcomes: []Outcome{{ItemID: 1}}}
	result.Fail(9, errors.New("record is voided"))

	assert.Equal(t, 1, result.Succeeded())
	assert.Equal(t, 1, result.Failed())
	assert.Equal(t, []string{"record is voided"}, result.Errors())
}
