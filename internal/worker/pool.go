// Package worker runs storage transfers on a bounded pool of goroutines so
// the number of concurrent uploads to object storage stays fixed.
package worker

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"voxrelay/internal/metrics"
)

var (
	// ErrQueueFull is returned by SubmitJob when no queue slot is free.
	ErrQueueFull = errors.New("job queue is full")
	// ErrStopped is returned by SubmitJob once Stop has been called.
	ErrStopped = errors.New("dispatcher is stopped")
)

// Job is a unit of work executed by one worker.
type Job interface {
	Execute() error
	ID() string
}

// Worker pulls jobs from the dispatcher queue until told to quit.
type Worker struct {
	ID int

	jobs chan Job
	quit <-chan struct{}
	wg   *sync.WaitGroup
	log  *logrus.Entry
	done func()
}

func newWorker(id int, d *Dispatcher) *Worker {
	return &Worker{
		ID:   id,
		jobs: d.JobQueue,
		quit: d.quit,
		wg:   &d.wg,
		log:  d.log.WithField("worker", id),
		done: d.updateDepth,
	}
}

// Start runs the worker loop in its own goroutine. After quit is closed the
// worker drains whatever is still queued before it exits.
func (w *Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case job := <-w.jobs:
				w.run(job)
			case <-w.quit:
				w.drain()
				return
			}
		}
	}()
}

func (w *Worker) drain() {
	for {
		select {
		case job := <-w.jobs:
			w.run(job)
		default:
			return
		}
	}
}

func (w *Worker) run(job Job) {
	w.done()
	log := w.log.WithField("job", job.ID())

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Job panicked")
		}
	}()

	log.Debug("Started job")
	if err := job.Execute(); err != nil {
		log.WithError(err).Warn("Job failed")
		return
	}
	log.Debug("Finished job")
}

// Dispatcher owns the job queue and the workers reading from it.
type Dispatcher struct {
	MaxWorkers int
	JobQueue   chan Job
	Workers    []*Worker

	log     *logrus.Entry
	metrics *metrics.Metrics

	mu      sync.RWMutex
	stopped bool
	quit    chan struct{}
	wg      sync.WaitGroup
}

type DispatcherOption func(*Dispatcher)

func WithLogger(logger *logrus.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.log = logger.WithField("component", "dispatcher")
	}
}

func WithMetrics(m *metrics.Metrics) DispatcherOption {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// NewDispatcher creates a dispatcher with maxWorkers workers and room for
// jobQueueSize pending jobs. Workers are not started until Run.
func NewDispatcher(maxWorkers int, jobQueueSize int, options ...DispatcherOption) *Dispatcher {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if jobQueueSize < 0 {
		jobQueueSize = 0
	}
	d := &Dispatcher{
		MaxWorkers: maxWorkers,
		JobQueue:   make(chan Job, jobQueueSize),
		Workers:    make([]*Worker, 0, maxWorkers),
		log:        logrus.StandardLogger().WithField("component", "dispatcher"),
		metrics:    metrics.DefaultMetrics,
		quit:       make(chan struct{}),
	}
	for _, option := range options {
		option(d)
	}
	return d
}

// Run starts the workers.
func (d *Dispatcher) Run() {
	for i := 1; i <= d.MaxWorkers; i++ {
		worker := newWorker(i, d)
		d.Workers = append(d.Workers, worker)
		worker.Start()
	}
	d.log.WithField("workers", d.MaxWorkers).Info("Dispatcher started")
}

// SubmitJob queues job without blocking.
func (d *Dispatcher) SubmitJob(job Job) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		return ErrStopped
	}

	select {
	case d.JobQueue <- job:
		d.updateDepth()
		d.log.WithField("job", job.ID()).Debug("Job queued")
		return nil
	default:
		d.log.WithField("job", job.ID()).Warn("Job queue full")
		return ErrQueueFull
	}
}

// Stop refuses new jobs, lets the workers finish everything already queued
// and waits for them to exit. Calling Stop more than once is safe.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.quit)
	d.mu.Unlock()

	d.log.Info("Dispatcher stopping")
	d.wg.Wait()
	d.updateDepth()
	d.log.Info("Dispatcher stopped")
}

func (d *Dispatcher) updateDepth() {
	d.metrics.TransferQueue.Set(float64(len(d.JobQueue)))
}
