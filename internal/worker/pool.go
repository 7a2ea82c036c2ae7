package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vytor/studyflash/internal/logger"
)

// ErrQueueFull is returned by TrySubmit when no queue slot is free.
var ErrQueueFull = errors.New("worker queue full")

type Job interface {
	Run(context.Context) error
	Name() string
}

type Pool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	workers int
	cancel  context.CancelFunc
	log     *logger.Logger

	mu      sync.Mutex
	stopped bool
}

func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 16
	}
	log := logger.Default().WithPrefix("worker-pool")
	log.Debug("creating worker pool with %d workers and queue size %d", workers, queueSize)
	return &Pool{
		jobs:    make(chan Job, queueSize),
		workers: workers,
		log:     log,
	}
}

func (p *Pool) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.log.Info("starting worker pool with %d workers", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			workerLog := p.log.WithField("worker_id", id)
			workerLog.Debug("worker started")

			for {
				select {
				case <-ctx.Done():
					workerLog.Debug("worker shutting down (context cancelled)")
					return
				case job, ok := <-p.jobs:
					if !ok {
						workerLog.Debug("worker shutting down (queue closed)")
						return
					}
					p.run(logger.NewContext(ctx, workerLog.WithField("job", job.Name())), job)
				}
			}
		}(i + 1)
	}
}

func (p *Pool) run(ctx context.Context, job Job) {
	log := logger.FromContext(ctx)
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("job panicked: %v", rec)
		}
	}()

	if err := job.Run(ctx); err != nil {
		log.Error("job failed after %v: %v", time.Since(start), err)
		return
	}
	log.Debug("job completed in %v", time.Since(start))
}

func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()

	p.log.Info("stopping worker pool")
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	p.log.Info("worker pool stopped")
}

// TrySubmit queues job without blocking.
func (p *Pool) TrySubmit(job Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return context.Canceled
	}
	select {
	case p.jobs <- job:
		p.log.Debug("submitted job: %s", job.Name())
		return nil
	default:
		return ErrQueueFull
	}
}

// QueueSize returns the current number of pending jobs.
func (p *Pool) QueueSize() int {
	return len(p.jobs)
}

// Every submits job to p every interval until ctx is done. A tick that finds
// the queue full is skipped.
func (p *Pool) Every(ctx context.Context, interval time.Duration, job Job) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.TrySubmit(job); err != nil {
				p.log.Warn("skipping %s: %v", job.Name(), err)
				if !errors.Is(err, ErrQueueFull) {
					return
				}
			}
		}
	}
}
