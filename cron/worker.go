package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	appointmentRepo "bookable/database/repository/appointment"
	"bookable/utils"
)

// StartStalePendingWorker runs an hourly job that declines pending
// appointments never confirmed within maxAge, so they stop blocking the
// availability computation.
func StartStalePendingWorker(repo appointmentRepo.AppointmentRepository, maxAge time.Duration) (*cron.Cron, error) {
	logger := utils.GetLogger()

	c := cron.New()
	_, err := c.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		cutoff := time.Now().Add(-maxAge)
		declined, err := repo.DeclineStalePending(ctx, cutoff)
		if err != nil {
			logger.Error("failed to decline stale pending appointments", zap.Error(err))
			return
		}
		if declined > 0 {
			logger.Info("declined stale pending appointments",
				zap.Int64("count", declined), zap.Time("cutoff", cutoff))
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
