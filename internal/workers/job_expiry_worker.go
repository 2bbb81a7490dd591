package workers

import (
	"context"
	"time"

	"shebeka_backend/internal/logger"
	"shebeka_backend/internal/repositories"
	"shebeka_backend/internal/services"
)

const jobExpiryWorkerName = "job_expiry"

// JobExpiryWorker предупреждает рекрутеров об истекающих вакансиях и закрывает просроченные
type JobExpiryWorker struct {
	jobRepo       repositories.JobRepository
	notifications services.NotificationService
	interval      time.Duration
	window        time.Duration
	now           func() time.Time
}

func NewJobExpiryWorker(
	jobRepo repositories.JobRepository,
	notifications services.NotificationService,
	interval, window time.Duration,
) *JobExpiryWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &JobExpiryWorker{
		jobRepo:       jobRepo,
		notifications: notifications,
		interval:      interval,
		window:        window,
		now:           time.Now,
	}
}

// Start блокируется до отмены ctx; первый проход сразу при старте
func (w *JobExpiryWorker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.RunOnce(ctx, w.now())
	for {
		select {
		case <-ctx.Done():
			logger.Info("Job expiry worker stopped")
			return nil
		case <-ticker.C:
			w.RunOnce(ctx, w.now())
		}
	}
}

// RunOnce - один проход: предупреждения, затем закрытие
func (w *JobExpiryWorker) RunOnce(ctx context.Context, now time.Time) {
	w.warnExpiring(ctx, now)

	closed, err := w.jobRepo.CloseExpired(ctx, now)
	if err != nil {
		logger.WorkerLog(jobExpiryWorkerName, "close_expired", err)
		return
	}
	if closed > 0 {
		logger.WorkerLog(jobExpiryWorkerName, "close_expired", nil, "closed", closed)
	}
}

func (w *JobExpiryWorker) warnExpiring(ctx context.Context, now time.Time) {
	if w.window <= 0 {
		return
	}

	jobs, err := w.jobRepo.FindExpiringUnnotified(ctx, now, now.Add(w.window))
	if err != nil {
		logger.WorkerLog(jobExpiryWorkerName, "find_expiring", err)
		return
	}

	warned := 0
	for i := range jobs {
		job := &jobs[i]
		// без сохраненного уведомления повторим на следующем проходе
		if w.notifications.NotifyJobExpiring(ctx, job, now) == nil {
			continue
		}
		if err := w.jobRepo.MarkExpiryNotified(ctx, job.ID, now); err != nil {
			logger.WorkerLog(jobExpiryWorkerName, "mark_notified", err, "job_id", job.ID)
			continue
		}
		warned++
	}
	if warned > 0 {
		logger.WorkerLog(jobExpiryWorkerName, "warn_expiring", nil, "warned", warned)
	}
}
