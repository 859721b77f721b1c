package scheduler

import (
	"github.com/lexxo/lexxo-backend/internal/app/repository"
	"github.com/lexxo/lexxo-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CleanupScheduler removes expired password reset requests so stale OTPs do
// not accumulate in the database.
type CleanupScheduler struct {
	cron      *cron.Cron
	resetRepo repository.PasswordResetRepository
}

func NewCleanupScheduler(resetRepo repository.PasswordResetRepository) *CleanupScheduler {
	return &CleanupScheduler{
		cron:      cron.New(),
		resetRepo: resetRepo,
	}
}

// Start schedules the cleanup job to run every hour
func (s *CleanupScheduler) Start() error {
	_, err := s.cron.AddFunc("0 * * * *", func() {
		logger.Debug("Starting expired password reset cleanup", nil)

		deleted, err := s.resetRepo.DeleteExpired()
		if err != nil {
			logger.Error("Failed to delete expired password reset requests", err)
			return
		}

		if deleted > 0 {
			logger.Info("Expired password reset requests deleted", map[string]interface{}{
				"count": deleted,
			})
		}
	})

	if err != nil {
		logger.Error("Failed to add cron job for password reset cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Password reset cleanup scheduler started (hourly)", nil)

	return nil
}

// Stop halts the scheduler
func (s *CleanupScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Password reset cleanup scheduler stopped", nil)
}
