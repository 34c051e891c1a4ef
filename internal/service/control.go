package service

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"trackit/internal/repository"
)

// TrackingControl flips the durable tracking flag and supervises the single
// background loop. Starting while a loop is already running only flips the
// flag; it never launches a second loop.
type TrackingControl struct {
	Repo    repository.Repository
	Tracker *TrackerService
	Logger  *zap.Logger

	// BaseCtx bounds the background loop's lifetime (process shutdown).
	BaseCtx context.Context

	mu      sync.Mutex
	running bool
}

// Start enables tracking and launches the loop if one is not running.
// Returns whether a new loop was launched.
func (c *TrackingControl) Start(ctx context.Context) (bool, error) {
	if c == nil || c.Repo == nil || c.Tracker == nil {
		return false, errors.New("tracking control not wired")
	}
	if err := c.Repo.SetTracking(ctx, true); err != nil {
		return false, err
	}
	return c.launch(), nil
}

// Stop disables tracking. The running loop observes the flag at its next
// iteration and exits; an in-flight product is allowed to complete.
func (c *TrackingControl) Stop(ctx context.Context) error {
	if c == nil || c.Repo == nil {
		return errors.New("tracking control not wired")
	}
	return c.Repo.SetTracking(ctx, false)
}

// Resume launches the loop at boot when the persisted flag is already on,
// without rewriting the flag.
func (c *TrackingControl) Resume(ctx context.Context) (bool, error) {
	if c == nil || c.Repo == nil || c.Tracker == nil {
		return false, errors.New("tracking control not wired")
	}
	tracking, err := c.Repo.GetTrackingState(ctx)
	if err != nil {
		return false, err
	}
	if !tracking {
		return false, nil
	}
	return c.launch(), nil
}

func (c *TrackingControl) IsRunning() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *TrackingControl) launch() bool {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return false
	}
	c.running = true
	c.mu.Unlock()

	base := c.BaseCtx
	if base == nil {
		base = context.Background()
	}
	go func() {
		err := c.Tracker.Run(base)
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
		if c.Logger == nil {
			return
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			c.Logger.Error("tracker loop stopped with error", zap.Error(err))
			return
		}
		c.Logger.Info("tracker loop stopped")
	}()
	return true
}
