package workers

import (
	"context"
	"fmt"
	"time"

	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/storage"

	"github.com/robfig/cron/v3"
)

const (
	resumePrefix       = "resumes/"
	DefaultGracePeriod = 24 * time.Hour
)

// ResumeReferencer - хранилище, которое может ссылаться на файл резюме
// (профили пользователей, отклики).
type ResumeReferencer interface {
	ReferencesResume(ctx context.Context, path string) (bool, error)
}

// ResumeJanitor удаляет файлы резюме, на которые никто не ссылается.
// Подбирает сироты после неудачного отклика: загрузка и запись отклика не атомарны.
type ResumeJanitor struct {
	storage     storage.Storage
	referencers []ResumeReferencer
	grace       time.Duration
	now         func() time.Time
	cron        *cron.Cron
}

func NewResumeJanitor(store storage.Storage, grace time.Duration, referencers ...ResumeReferencer) *ResumeJanitor {
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	return &ResumeJanitor{
		storage:     store,
		referencers: referencers,
		grace:       grace,
		now:         time.Now,
	}
}

// Start регистрирует задачу по cron-расписанию. Останавливается вместе с ctx.
func (w *ResumeJanitor) Start(ctx context.Context, schedule string) error {
	w.cron = cron.New()
	if _, err := w.cron.AddFunc(schedule, func() {
		deleted, err := w.Sweep(ctx)
		logger.WorkerLog("resume_janitor", fmt.Sprintf("sweep deleted=%d", deleted), err)
	}); err != nil {
		return fmt.Errorf("invalid janitor schedule %q: %w", schedule, err)
	}

	w.cron.Start()
	logger.Info("🧹 Resume janitor started", "schedule", schedule, "grace", w.grace.String())

	go func() {
		<-ctx.Done()
		<-w.cron.Stop().Done()
		logger.Info("Resume janitor stopped")
	}()
	return nil
}

// Sweep - один проход очистки. Файлы моложе grace не трогаются:
// отклик мог ещё не успеть записаться.
func (w *ResumeJanitor) Sweep(ctx context.Context) (int, error) {
	objects, err := w.storage.List(ctx, resumePrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list resumes: %w", err)
	}

	cutoff := w.now().Add(-w.grace)
	deleted := 0
	for _, obj := range objects {
		if ctx.Err() != nil {
			return deleted, ctx.Err()
		}
		if obj.ModTime.After(cutoff) {
			continue
		}

		referenced, err := w.isReferenced(ctx, obj.Path)
		if err != nil {
			return deleted, err
		}
		if referenced {
			continue
		}

		if err := w.storage.Delete(ctx, obj.Path); err != nil {
			logger.Warn("Failed to delete orphaned resume", "path", obj.Path, "error", err)
			continue
		}
		logger.Info("Deleted orphaned resume", "path", obj.Path)
		deleted++
	}
	return deleted, nil
}

func (w *ResumeJanitor) isReferenced(ctx context.Context, path string) (bool, error) {
	for _, r := range w.referencers {
		ok, err := r.ReferencesResume(ctx, path)
		if err != nil {
			return false, fmt.Errorf("failed to check resume references: %w", err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
