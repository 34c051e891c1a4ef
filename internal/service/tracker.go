package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"trackit/internal/models"
	"trackit/internal/notifier"
	"trackit/internal/repository"
	"trackit/internal/scraper"
)

const defaultIdleInterval = 4 * time.Hour

// TrackerService is the polling loop. One cycle scrapes every tracked product,
// appends price observations, and fans out drop alerts to subscribers. The
// loop re-reads the durable tracking flag each iteration and exits when it is
// off; it is restarted only through TrackingControl.
type TrackerService struct {
	Repo     repository.Repository
	Scrapers *scraper.Registry
	Notifier notifier.Notifier
	Logger   *zap.Logger
	Flags    *SystemSettingsService

	IdleInterval  time.Duration
	DropThreshold decimal.Decimal

	// Now is swappable so tests can drive the cadence gate without sleeping.
	Now func() time.Time
}

func (s *TrackerService) Run(ctx context.Context) error {
	if s == nil || s.Repo == nil || s.Scrapers == nil {
		return nil
	}
	for {
		tracking, err := s.Repo.GetTrackingState(ctx)
		if err != nil {
			return fmt.Errorf("read tracking state: %w", err)
		}
		if !tracking {
			s.logInfo("tracking disabled, loop stopping")
			return nil
		}

		today := models.DateOnly(s.now())
		last, err := s.Repo.MostRecentObservationDate(ctx)
		if err != nil {
			return fmt.Errorf("read most recent observation date: %w", err)
		}
		if today.After(last) {
			s.runCycle(ctx, today)
			// Flag and cadence are re-read fresh on the next iteration; the
			// just-written observations push the gate to today.
			continue
		}

		idle := s.IdleInterval
		if idle <= 0 {
			idle = defaultIdleInterval
		}
		s.logInfo("no date change, idling",
			zap.Time("today", today),
			zap.Time("last_observed", last),
			zap.Duration("idle", idle),
		)
		t := time.NewTimer(idle)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

func (s *TrackerService) runCycle(ctx context.Context, today time.Time) {
	products, err := s.Repo.ListAllProducts(ctx)
	if err != nil {
		s.logWarn("list products failed, cycle skipped", err)
		return
	}
	s.logInfo("cycle starting", zap.Int("products", len(products)))
	for i := range products {
		s.processProduct(ctx, &products[i], today)
	}
	s.logInfo("cycle complete", zap.Int("products", len(products)))
}

// processProduct is the per-product failure boundary: scrape, record, detect,
// notify. Nothing that goes wrong here may abort the rest of the cycle.
func (s *TrackerService) processProduct(ctx context.Context, product *models.Product, today time.Time) {
	defer func() {
		if r := recover(); r != nil {
			s.logWarn("product processing panicked", fmt.Errorf("%v", r),
				zap.String("url", product.URL))
		}
	}()

	sc, ok := s.Scrapers.Resolve(product.URL)
	if !ok {
		s.logInfo("no scraper for product", zap.String("url", product.URL))
		return
	}

	// currentPrice is scoped strictly to this product; a neighbouring
	// product's scrape must never leak into this comparison.
	var currentPrice *int64
	result, err := sc.Scrape(ctx, product.URL)
	switch {
	case err != nil:
		s.logWarn("scrape failed", err,
			zap.String("scraper", sc.Name()),
			zap.String("url", product.URL))
	case result.Price == nil:
		s.logInfo("page fetched but no price found",
			zap.String("scraper", sc.Name()),
			zap.String("url", product.URL))
	default:
		obs := &models.PriceObservation{
			ProductID:  product.ID,
			ObservedOn: today,
			Price:      *result.Price,
		}
		if err := s.Repo.InsertPriceObservation(ctx, obs); err != nil {
			s.logWarn("record observation failed, product skipped", err,
				zap.String("url", product.URL))
			return
		}
		if err := s.Repo.UpdateProductPrice(ctx, product.ID, *result.Price); err != nil {
			s.logWarn("update current price failed", err, zap.String("url", product.URL))
		}
		currentPrice = result.Price
	}

	if currentPrice == nil {
		// No price this cycle; there is nothing to compare.
		return
	}

	previous, err := s.Repo.MostRecentObservation(ctx, product.ID, &today)
	if err != nil {
		s.logWarn("fetch previous observation failed", err, zap.String("url", product.URL))
		return
	}
	var previousPrice *int64
	if previous != nil {
		previousPrice = &previous.Price
	}
	if EvaluateDrop(previousPrice, currentPrice, s.threshold()) != DecisionNotify {
		return
	}

	if s.Flags != nil && !s.Flags.IsEnabled(ctx, FeatureNotifications, true) {
		s.logInfo("drop detected but notifications disabled", zap.String("url", product.URL))
		return
	}
	s.notifySubscribers(ctx, product, *previousPrice, *currentPrice)
}

func (s *TrackerService) notifySubscribers(ctx context.Context, product *models.Product, oldPrice, newPrice int64) {
	if s.Notifier == nil {
		return
	}
	subscribers, err := s.Repo.ListSubscribers(ctx, product.ID)
	if err != nil {
		s.logWarn("list subscribers failed", err, zap.String("url", product.URL))
		return
	}
	for _, user := range subscribers {
		alert := notifier.Alert{
			RecipientEmail: user.Email,
			ProductName:    product.Name,
			ProductURL:     product.URL,
			OldPrice:       oldPrice,
			NewPrice:       newPrice,
		}
		if err := s.Notifier.Notify(ctx, alert); err != nil {
			s.logWarn("notification failed", err,
				zap.String("recipient", user.Email),
				zap.String("product", product.Name))
			continue
		}
		s.logInfo("drop alert sent",
			zap.String("recipient", user.Email),
			zap.String("product", product.Name),
			zap.Int64("old_price", oldPrice),
			zap.Int64("new_price", newPrice),
		)
	}
}

func (s *TrackerService) threshold() decimal.Decimal {
	if s.DropThreshold.GreaterThan(decimal.Zero) {
		return s.DropThreshold
	}
	return DefaultDropThreshold
}

func (s *TrackerService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *TrackerService) logInfo(msg string, fields ...zap.Field) {
	if s.Logger != nil {
		s.Logger.Info(msg, fields...)
	}
}

func (s *TrackerService) logWarn(msg string, err error, fields ...zap.Field) {
	if s.Logger == nil {
		return
	}
	if errors.Is(err, scraper.ErrNoScraper) {
		s.Logger.Info(msg, append(fields, zap.Error(err))...)
		return
	}
	s.Logger.Warn(msg, append(fields, zap.Error(err))...)
}
