package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"geonews/app/cfg"
	"geonews/app/cleanup"
	"geonews/app/scraper"
	"geonews/app/sources"
)

// Scheduler drives the periodic scrape and retention sweeps through a
// bounded task queue and a fixed worker pool. Tasks are keyed by the
// resource they touch; a task whose key is still in flight is skipped
// rather than queued twice, so no source is ever swept concurrently
// with itself.
type Scheduler struct {
	registry        []sources.Source
	scraper         *scraper.Scraper
	sweeper         *cleanup.Sweeper
	scrapeInterval  time.Duration
	cleanupInterval time.Duration
	retentionDays   int
	workerCount     int
	ctx             context.Context
	cancel          context.CancelFunc
	wg              sync.WaitGroup
	taskQueue       chan TaskInterface

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewScheduler(registry []sources.Source, s *scraper.Scraper, sweeper *cleanup.Sweeper) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	c := cfg.Get()

	return &Scheduler{
		registry:        registry,
		scraper:         s,
		sweeper:         sweeper,
		scrapeInterval:  time.Duration(c.ScrapeInterval) * time.Second,
		cleanupInterval: time.Duration(c.CleanupInterval) * time.Second,
		retentionDays:   c.RetentionDays,
		workerCount:     c.WorkerCount,
		ctx:             ctx,
		cancel:          cancel,
		taskQueue:       make(chan TaskInterface, 300),
		inFlight:        make(map[string]bool),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		scrapeTicker := time.NewTicker(s.scrapeInterval)
		defer scrapeTicker.Stop()
		cleanupTicker := time.NewTicker(s.cleanupInterval)
		defer cleanupTicker.Stop()

		s.enqueueScrapeTasks()
		s.enqueueCleanupTask()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-scrapeTicker.C:
				s.enqueueScrapeTasks()
			case <-cleanupTicker.C:
				s.enqueueCleanupTask()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

// EnqueueTask adds a task to the queue unless a task with the same key is
// already queued or running.
func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	s.mu.Lock()
	if s.inFlight[task.GetKey()] {
		s.mu.Unlock()
		return fmt.Errorf("task already in flight: %s", task.GetKey())
	}
	s.inFlight[task.GetKey()] = true
	s.mu.Unlock()

	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		s.release(task)
		return s.ctx.Err()
	default:
		s.release(task)
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) release(task TaskInterface) {
	s.mu.Lock()
	delete(s.inFlight, task.GetKey())
	s.mu.Unlock()
}

func (s *Scheduler) enqueueScrapeTasks() {
	if len(s.registry) == 0 {
		slog.Debug("No sources registered")
		return
	}

	for _, src := range s.registry {
		task := NewScrapeSourceTask(src, s.scraper)
		if err := s.EnqueueTask(task); err != nil {
			slog.Debug("Skipping ScrapeSourceTask", "source", src.Name, "reason", err)
		}
	}
}

func (s *Scheduler) enqueueCleanupTask() {
	task := NewCleanupTask(s.sweeper, s.retentionDays)
	if err := s.EnqueueTask(task); err != nil {
		slog.Debug("Skipping CleanupTask", "reason", err)
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	err := task.Execute(taskCtx)
	cancel()

	s.release(task)

	if err == nil {
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		return
	}

	task.IncrementRetryCount()
	retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
	if retryDelay > 30*time.Second {
		retryDelay = 30 * time.Second
	}

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "key", task.GetKey(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

	go func() {
		time.Sleep(retryDelay)
		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
			return
		default:
			if retryErr := s.EnqueueTask(task); retryErr != nil {
				slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
			}
		}
	}()
}
