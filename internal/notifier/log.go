package notifier

import (
	"context"

	"go.uber.org/zap"
)

// LogSender is the default channel when no outbound credential is configured.
type LogSender struct {
	Logger *zap.Logger
}

func (s *LogSender) Notify(ctx context.Context, alert Alert) error {
	if s.Logger != nil {
		s.Logger.Info("price drop alert",
			zap.String("recipient", alert.RecipientEmail),
			zap.String("product", alert.ProductName),
			zap.Int64("old_price", alert.OldPrice),
			zap.Int64("new_price", alert.NewPrice),
		)
	}
	return nil
}
