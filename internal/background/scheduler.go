package background

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"checkit-dashboard/internal/metrics"
	"checkit-dashboard/pkg/logger"
)

type SchedulerConfig struct {
	WorkerCount int
	QueueSize   int
}

type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

type Job struct {
	Name        string
	Run         func(ctx context.Context) error
	Delay       time.Duration
	Timeout     time.Duration
	RetryPolicy RetryPolicy
}

var (
	ErrSchedulerNotStarted   = errors.New("scheduler not started")
	ErrJobAlreadyScheduled   = errors.New("job already scheduled")
	errSchedulerShuttingDown = errors.New("scheduler is shutting down")
)

// uniqueState tracks a unique job between ScheduleUnique and completion.
// A request that arrives while the job is running sets rerun, so the job
// runs once more and observes whatever changed in the meantime.
type uniqueState struct {
	running bool
	rerun   bool
}

// Scheduler runs named jobs on a fixed pool of workers.
type Scheduler struct {
	config SchedulerConfig

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	started bool

	queue chan queuedJob

	workerWG sync.WaitGroup
	jobWG    sync.WaitGroup

	unique map[string]*uniqueState
}

type queuedJob struct {
	job    Job
	unique bool
}

func NewScheduler(cfg SchedulerConfig) *Scheduler {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 32
	}

	return &Scheduler{
		config: cfg,
		queue:  make(chan queuedJob, cfg.QueueSize),
		unique: make(map[string]*uniqueState),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.started = true

	for i := 0; i < s.config.WorkerCount; i++ {
		s.workerWG.Add(1)
		go s.worker()
	}
}

func (s *Scheduler) worker() {
	defer s.workerWG.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case queued := <-s.queue:
			s.execute(queued)
		}
	}
}

func (s *Scheduler) execute(queued queuedJob) {
	s.jobWG.Add(1)
	defer s.jobWG.Done()

	err := s.wait(queued.job.Delay)
	if err == nil {
		err = s.runWithRetry(queued.job)
	}
	s.finish(queued, err)
}

// runWithRetry runs the job until it succeeds, is canceled, or exhausts its
// retry budget. Attempts are numbered from 1.
func (s *Scheduler) runWithRetry(job Job) error {
	for attempt := 1; ; attempt++ {
		err := s.runOnce(job, attempt)
		if err == nil || errors.Is(err, context.Canceled) || attempt > job.RetryPolicy.MaxRetries {
			return err
		}
		if waitErr := s.wait(job.RetryPolicy.Backoff); waitErr != nil {
			return waitErr
		}
	}
}

func (s *Scheduler) wait(d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-s.ctx.Done():
		return context.Canceled
	}
}

func (s *Scheduler) runOnce(job Job, attempt int) (runErr error) {
	start := time.Now()
	status := "success"

	ctx := s.ctx
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			runErr = fmt.Errorf("panic: %v", r)
			status = "failure"
		}
		metrics.ObserveJob(job.Name, status, time.Since(start).Seconds())
		if runErr != nil && status == "failure" {
			logger.Error(runErr, "Background job failed", map[string]interface{}{"job": job.Name, "attempt": attempt})
		}
	}()

	if err := ctx.Err(); err != nil {
		status = "canceled"
		return context.Canceled
	}

	if err := job.Run(ctx); err != nil {
		status = "failure"
		if errors.Is(err, context.Canceled) {
			status = "canceled"
		}
		return err
	}
	return nil
}

func (s *Scheduler) finish(queued queuedJob, runErr error) {
	fields := map[string]interface{}{"job": queued.job.Name}

	switch {
	case runErr == nil:
		logger.Debug("Background job completed", fields)
	case errors.Is(runErr, context.Canceled):
		logger.Warn("Background job canceled", fields)
	default:
		logger.Error(runErr, "Background job finished with error", fields)
	}

	if !queued.unique {
		return
	}

	s.mu.Lock()
	state := s.unique[queued.job.Name]
	rerun := state != nil && state.rerun && !errors.Is(runErr, context.Canceled)
	if rerun {
		state.running = false
		state.rerun = false
	} else {
		delete(s.unique, queued.job.Name)
	}
	s.mu.Unlock()

	if !rerun {
		return
	}

	// Re-enqueue off the worker so a full queue cannot stall the pool.
	s.jobWG.Add(1)
	go func() {
		defer s.jobWG.Done()
		if !s.enqueue(queued) {
			s.mu.Lock()
			delete(s.unique, queued.job.Name)
			s.mu.Unlock()
		}
	}()
}

func (s *Scheduler) Schedule(job Job) error {
	return s.schedule(job, false)
}

// ScheduleUnique queues job unless a job with the same name is already
// queued. If that job is already running it is queued once more after the
// current run completes.
func (s *Scheduler) ScheduleUnique(job Job) error {
	return s.schedule(job, true)
}

func (s *Scheduler) schedule(job Job, unique bool) error {
	if job.Name == "" {
		return errors.New("job name is required")
	}
	if job.Run == nil {
		return errors.New("job runner is required")
	}

	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrSchedulerNotStarted
	}
	if unique {
		if state, exists := s.unique[job.Name]; exists {
			if !state.running || state.rerun {
				s.mu.Unlock()
				return ErrJobAlreadyScheduled
			}
			state.rerun = true
			s.mu.Unlock()
			return nil
		}
		s.unique[job.Name] = &uniqueState{}
	}
	s.mu.Unlock()

	if unique {
		job = s.markRunning(job)
	}

	if !s.enqueue(queuedJob{job: job, unique: unique}) {
		if unique {
			s.mu.Lock()
			delete(s.unique, job.Name)
			s.mu.Unlock()
		}
		return errSchedulerShuttingDown
	}

	return nil
}

// markRunning wraps the runner so the unique state flips to running as soon
// as a worker picks the job up.
func (s *Scheduler) markRunning(job Job) Job {
	run := job.Run
	job.Run = func(ctx context.Context) error {
		s.mu.Lock()
		if state, ok := s.unique[job.Name]; ok {
			state.running = true
		}
		s.mu.Unlock()
		return run(ctx)
	}
	return job
}

// Every schedules job as a unique job on each tick until the scheduler
// shuts down. Ticks that find the previous run still queued are skipped.
func (s *Scheduler) Every(interval time.Duration, job Job) error {
	if interval <= 0 {
		return fmt.Errorf("job %q: interval must be positive", job.Name)
	}

	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrSchedulerNotStarted
	}
	ctx := s.ctx
	s.mu.Unlock()

	s.workerWG.Add(1)
	go func() {
		defer s.workerWG.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.ScheduleUnique(job); err != nil && !errors.Is(err, ErrJobAlreadyScheduled) {
					logger.Warn("Failed to schedule periodic job", map[string]interface{}{"job": job.Name, "error": err.Error()})
				}
			}
		}
	}()

	return nil
}

func (s *Scheduler) enqueue(queued queuedJob) bool {
	select {
	case <-s.ctx.Done():
		return false
	case s.queue <- queued:
		return true
	}
}

func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		s.workerWG.Wait()
		s.jobWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ActiveJobCount returns the number of unique jobs queued or running.
func (s *Scheduler) ActiveJobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.unique)
}
