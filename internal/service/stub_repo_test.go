package service

import (
	"context"
	"sort"
	"time"

	"trackit/internal/models"
	"trackit/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
type stubRepo struct {
	products     []models.Product
	observations []models.PriceObservation
	subscribers  map[uint64][]models.User
	settings     map[string]*models.SystemSetting

	// trackingSeq is popped on each GetTrackingState call; when exhausted the
	// last value repeats. Lets tests bound the loop deterministically.
	trackingSeq []bool
	tracking    bool

	insertErr   error
	stateErr    error
	nextObsID   uint64
	insertCalls int
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		subscribers: map[uint64][]models.User{},
		settings:    map[string]*models.SystemSetting{},
	}
}

func (s *stubRepo) CreateProduct(ctx context.Context, item *models.Product) error {
	item.ID = uint64(len(s.products) + 1)
	s.products = append(s.products, *item)
	return nil
}

func (s *stubRepo) GetProductByURL(ctx context.Context, url string) (*models.Product, error) {
	for i := range s.products {
		if s.products[i].URL == url {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) GetProductByID(ctx context.Context, id uint64) (*models.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) ListProducts(ctx context.Context, params repository.ListProductsParams) ([]models.Product, error) {
	return s.products, nil
}

func (s *stubRepo) CountProducts(ctx context.Context, params repository.ListProductsParams) (int64, error) {
	return int64(len(s.products)), nil
}

func (s *stubRepo) ListAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.products, nil
}

func (s *stubRepo) UpdateProductPrice(ctx context.Context, productID uint64, price int64) error {
	for i := range s.products {
		if s.products[i].ID == productID {
			s.products[i].CurrentPrice = price
		}
	}
	return nil
}

func (s *stubRepo) AddSubscriber(ctx context.Context, productID, userID uint64) error {
	s.subscribers[productID] = append(s.subscribers[productID], models.User{ID: userID})
	return nil
}

func (s *stubRepo) RemoveSubscriber(ctx context.Context, productID, userID uint64) error {
	users := s.subscribers[productID]
	out := users[:0]
	for _, u := range users {
		if u.ID != userID {
			out = append(out, u)
		}
	}
	s.subscribers[productID] = out
	return nil
}

func (s *stubRepo) ListSubscribers(ctx context.Context, productID uint64) ([]models.User, error) {
	return s.subscribers[productID], nil
}

func (s *stubRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, nil
}

func (s *stubRepo) CreateUser(ctx context.Context, item *models.User) error {
	return nil
}

func (s *stubRepo) InsertPriceObservation(ctx context.Context, item *models.PriceObservation) error {
	s.insertCalls++
	if s.insertErr != nil {
		return s.insertErr
	}
	s.nextObsID++
	obs := *item
	obs.ID = s.nextObsID
	obs.ObservedOn = models.DateOnly(obs.ObservedOn)
	s.observations = append(s.observations, obs)
	return nil
}

func (s *stubRepo) MostRecentObservationDate(ctx context.Context) (time.Time, error) {
	if len(s.observations) == 0 {
		return repository.SentinelObservationDate(time.Now()), nil
	}
	latest := s.observations[0].ObservedOn
	for _, obs := range s.observations[1:] {
		if obs.ObservedOn.After(latest) {
			latest = obs.ObservedOn
		}
	}
	return latest, nil
}

func (s *stubRepo) MostRecentObservation(ctx context.Context, productID uint64, excludeOn *time.Time) (*models.PriceObservation, error) {
	var candidates []models.PriceObservation
	for _, obs := range s.observations {
		if obs.ProductID != productID {
			continue
		}
		if excludeOn != nil && obs.ObservedOn.Equal(models.DateOnly(*excludeOn)) {
			continue
		}
		candidates = append(candidates, obs)
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].ObservedOn.Equal(candidates[j].ObservedOn) {
			return candidates[i].ObservedOn.After(candidates[j].ObservedOn)
		}
		return candidates[i].ID > candidates[j].ID
	})
	out := candidates[0]
	return &out, nil
}

func (s *stubRepo) ListObservations(ctx context.Context, params repository.ListObservationsParams) ([]models.PriceObservation, error) {
	return s.observations, nil
}

func (s *stubRepo) CountObservations(ctx context.Context, params repository.ListObservationsParams) (int64, error) {
	return int64(len(s.observations)), nil
}

func (s *stubRepo) DeleteObservationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	kept := s.observations[:0]
	var deleted int64
	for _, obs := range s.observations {
		if obs.ObservedOn.Before(models.DateOnly(cutoff)) {
			deleted++
			continue
		}
		kept = append(kept, obs)
	}
	s.observations = kept
	return deleted, nil
}

func (s *stubRepo) GetTrackingState(ctx context.Context) (bool, error) {
	if s.stateErr != nil {
		return false, s.stateErr
	}
	if len(s.trackingSeq) > 0 {
		s.tracking = s.trackingSeq[0]
		s.trackingSeq = s.trackingSeq[1:]
	}
	return s.tracking, nil
}

func (s *stubRepo) SetTracking(ctx context.Context, enabled bool) error {
	s.tracking = enabled
	s.trackingSeq = nil
	return nil
}

func (s *stubRepo) GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error) {
	return s.settings[key], nil
}

func (s *stubRepo) UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error {
	s.settings[item.Key] = item
	return nil
}

func (s *stubRepo) ListSystemSettings(ctx context.Context, params repository.ListSystemSettingsParams) ([]models.SystemSetting, error) {
	var out []models.SystemSetting
	for _, item := range s.settings {
		out = append(out, *item)
	}
	return out, nil
}

func (s *stubRepo) CountSystemSettings(ctx context.Context, params repository.ListSystemSettingsParams) (int64, error) {
	return int64(len(s.settings)), nil
}

var _ repository.Repository = (*stubRepo)(nil)
