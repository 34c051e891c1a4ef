package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"trackit/internal/repository"
)

// RetentionService prunes price observations older than the configured age.
// Disabled when MaxAgeDays is zero; also gated by the feature.retention switch.
type RetentionService struct {
	Repo       repository.Repository
	Logger     *zap.Logger
	Flags      *SystemSettingsService
	MaxAgeDays int
}

func (s *RetentionService) RunOnce(ctx context.Context) error {
	if s == nil || s.Repo == nil || s.MaxAgeDays <= 0 {
		return nil
	}
	if s.Flags != nil && !s.Flags.IsEnabled(ctx, FeatureRetention, true) {
		return nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -s.MaxAgeDays)
	n, err := s.Repo.DeleteObservationsBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if n > 0 && s.Logger != nil {
		s.Logger.Info("pruned old price observations",
			zap.Int64("count", n),
			zap.Time("cutoff", cutoff),
		)
	}
	return nil
}
