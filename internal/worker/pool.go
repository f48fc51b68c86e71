package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agenthands/jsonstudio/internal/core/diff"
)

var ErrPoolClosed = errors.New("worker pool is closed")

type job struct {
	req   Request
	reply chan Response
}

// Pool computes diffs on a fixed set of goroutines fed from a bounded queue.
type Pool struct {
	engine *diff.Engine
	size   int
	jobs   chan job
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
}

func NewPool(engine *diff.Engine, size, queue int, logger *slog.Logger) *Pool {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pool{
		engine: engine,
		size:   max(size, 1),
		jobs:   make(chan job, max(queue, 0)),
		logger: logger,
	}
}

// Run starts the workers and blocks until ctx is cancelled and every request
// already accepted has been answered.
func (p *Pool) Run(ctx context.Context) error {
	p.logger.Info("starting diff workers", "workers", p.size, "queue", cap(p.jobs))

	var g errgroup.Group
	for i := 0; i < p.size; i++ {
		id := i
		g.Go(func() error {
			p.work(id)
			return nil
		})
	}

	<-ctx.Done()
	p.close()
	err := g.Wait()

	p.logger.Info("diff workers stopped")
	return err
}

func (p *Pool) work(id int) {
	for j := range p.jobs {
		start := time.Now()
		res := Compute(p.engine, j.req)
		j.reply <- res
		p.logger.Debug("diff computed",
			"worker", id,
			"seq", j.req.Seq,
			"has_diff", res.HasDiff,
			"failed", res.Error != "",
			"duration", time.Since(start))
	}
}

func (p *Pool) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
}

// Submit enqueues req. ctx bounds only the wait for queue space; once
// accepted the request is always answered on the returned channel.
func (p *Pool) Submit(ctx context.Context, req Request) (<-chan Response, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, ErrPoolClosed
	}

	reply := make(chan Response, 1)
	select {
	case p.jobs <- job{req: req, reply: reply}:
		return reply, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Do submits req and waits for its response.
func (p *Pool) Do(ctx context.Context, req Request) (Response, error) {
	reply, err := p.Submit(ctx, req)
	if err != nil {
		return Response{}, err
	}
	select {
	case res := <-reply:
		return res, nil
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}
