// Package workerpool provides a bounded worker pool for compiling several
// installer scripts concurrently. It limits the number of simultaneous
// makensis launches; the compiler invocations themselves share no state.
package workerpool

import (
	"context"
	"runtime"
	"sync"

	"github.com/haakonra/nsisbuild/pkg/nsis"
)

// Result wraps the outcome of one compilation along with the config that
// produced it.
type Result struct {
	Config *nsis.Config
	Result nsis.Result
	Err    error
}

// CompileFunc is the function used to run one invocation. The
// abstraction allows injecting a mock compiler for testing.
type CompileFunc func(ctx context.Context, cfg *nsis.Config) (nsis.Result, error)

// Pool manages a bounded set of workers that process compile jobs.
type Pool struct {
	concurrency int
	compile     CompileFunc
	jobs        chan *nsis.Config
	results     chan Result
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	startOnce   sync.Once
}

// NewPool creates a worker pool with the given concurrency limit.
// If concurrency <= 0, it defaults to runtime.NumCPU().
func NewPool(concurrency int, compile CompileFunc) *Pool {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		concurrency: concurrency,
		compile:     compile,
		jobs:        make(chan *nsis.Config, concurrency*2),
		results:     make(chan Result, concurrency*2),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// start launches the worker goroutines (called once).
func (p *Pool) start() {
	for i := 0; i < p.concurrency; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	// Close results channel when all workers finish.
	go func() {
		p.wg.Wait()
		close(p.results)
	}()
}

// worker pulls jobs from the channel and compiles them.
func (p *Pool) worker() {
	defer p.wg.Done()
	for cfg := range p.jobs {
		select {
		case <-p.ctx.Done():
			p.results <- Result{
				Config: cfg,
				Err:    p.ctx.Err(),
			}
		default:
			result, err := p.compile(p.ctx, cfg)
			p.results <- Result{
				Config: cfg,
				Result: result,
				Err:    err,
			}
		}
	}
}

// Submit adds a compilation to the work queue. It starts workers on first
// call. Blocks if the job buffer is full.
func (p *Pool) Submit(cfg *nsis.Config) {
	p.startOnce.Do(p.start)
	p.jobs <- cfg
}

// Results returns the channel from which completed results can be read.
// The channel is closed after Shutdown completes.
func (p *Pool) Results() <-chan Result {
	p.startOnce.Do(p.start)
	return p.results
}

// Shutdown signals that no more jobs will be submitted. It closes the job
// channel and waits for in-flight work to finish; the results channel is
// then closed automatically.
func (p *Pool) Shutdown() {
	close(p.jobs)
	p.wg.Wait()
}

// Cancel terminates the pool context, causing workers to abort pending
// jobs.
func (p *Pool) Cancel() {
	p.cancel()
}
