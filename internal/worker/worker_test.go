package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/jsonstudio/internal/core/diff"
	"github.com/agenthands/jsonstudio/internal/testutil"
)

func TestCompute(t *testing.T) {
	res := Compute(diff.New(), Request{Seq: 7, LeftJSON: `{"a":1}`, RightJSON: `{"a":2,"b":true}`})

	assert.Equal(t, uint64(7), res.Seq)
	assert.True(t, res.HasDiff)
	assert.Empty(t, res.Error)
	assert.Equal(t, []string{"~ Modified: a", "+ Added: b"}, res.ChangeSummary)

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"seq":7,"hasDiff":true,"delta":{"a":[1,2],"b":[true]},
		"leftParsed":{"a":1},"rightParsed":{"a":2,"b":true},
		"changeSummary":["~ Modified: a","+ Added: b"]
	}`, string(raw))
}

func TestCompute_NoDiffAndErrors(t *testing.T) {
	res := Compute(diff.New(), Request{LeftJSON: "", RightJSON: "{}"})
	assert.False(t, res.HasDiff)
	assert.Equal(t, []string{diff.NoDifferences}, res.ChangeSummary)

	res = Compute(diff.New(), Request{LeftJSON: "{", RightJSON: "{}"})
	assert.False(t, res.HasDiff)
	assert.NotEmpty(t, res.Error)
	assert.Equal(t, []string{}, res.ChangeSummary)
	assert.Nil(t, res.LeftParsed)
}

func startPool(t *testing.T, size, queue int) (*Pool, context.CancelFunc, <-chan error) {
	t.Helper()
	p := NewPool(diff.New(), size, queue, testutil.NewTestLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	return p, cancel, done
}

func TestPool_AnswersEveryRequest(t *testing.T) {
	p, cancel, done := startPool(t, 3, 4)

	var wg sync.WaitGroup
	results := make([]Response, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := p.Do(context.Background(), Request{
				Seq:       uint64(i),
				LeftJSON:  `{"n":0}`,
				RightJSON: fmt.Sprintf(`{"n":%d}`, i),
			})
			if assert.NoError(t, err) {
				results[i] = res
			}
		}(i)
	}
	wg.Wait()

	for i, res := range results {
		assert.Equal(t, uint64(i), res.Seq)
		assert.Equal(t, i != 0, res.HasDiff, "seq %d", i)
	}

	cancel()
	require.NoError(t, <-done)

	_, err := p.Submit(context.Background(), Request{})
	assert.True(t, errors.Is(err, ErrPoolClosed))
}

func TestPool_DrainsQueueOnShutdown(t *testing.T) {
	p := NewPool(diff.New(), 1, 5, testutil.NewTestLogger(t))

	var replies []<-chan Response
	for i := 0; i < 5; i++ {
		reply, err := p.Submit(context.Background(), Request{Seq: uint64(i), LeftJSON: `[1]`, RightJSON: `[2]`})
		require.NoError(t, err)
		replies = append(replies, reply)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, p.Run(ctx))

	for i, reply := range replies {
		select {
		case res := <-reply:
			assert.Equal(t, uint64(i), res.Seq)
			assert.True(t, res.HasDiff)
		default:
			t.Fatalf("request %d was not answered", i)
		}
	}
}

func TestPool_SubmitRespectsContextWhenFull(t *testing.T) {
	p := NewPool(diff.New(), 1, 1, nil)

	_, err := p.Submit(context.Background(), Request{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = p.Submit(ctx, Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTracker(t *testing.T) {
	var tr Tracker
	first := tr.Next()
	second := tr.Next()

	assert.Greater(t, second, first)
	assert.False(t, tr.IsCurrent(first))
	assert.True(t, tr.IsCurrent(second))
}
