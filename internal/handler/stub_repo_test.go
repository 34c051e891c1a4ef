package handler

import (
	"context"
	"strings"
	"time"

	"trackit/internal/models"
	"trackit/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
type stubRepo struct {
	products     []models.Product
	users        []models.User
	observations []models.PriceObservation
	subscribers  map[uint64][]uint64
	settings     map[string]*models.SystemSetting
	tracking     bool
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		subscribers: map[uint64][]uint64{},
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
	for _, existing := range s.subscribers[productID] {
		if existing == userID {
			return nil
		}
	}
	s.subscribers[productID] = append(s.subscribers[productID], userID)
	return nil
}

func (s *stubRepo) RemoveSubscriber(ctx context.Context, productID, userID uint64) error {
	ids := s.subscribers[productID]
	out := ids[:0]
	for _, id := range ids {
		if id != userID {
			out = append(out, id)
		}
	}
	s.subscribers[productID] = out
	return nil
}

func (s *stubRepo) ListSubscribers(ctx context.Context, productID uint64) ([]models.User, error) {
	var out []models.User
	for _, id := range s.subscribers[productID] {
		for i := range s.users {
			if s.users[i].ID == id {
				out = append(out, s.users[i])
			}
		}
	}
	return out, nil
}

func (s *stubRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for i := range s.users {
		if s.users[i].Email == email {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) CreateUser(ctx context.Context, item *models.User) error {
	item.ID = uint64(len(s.users) + 1)
	s.users = append(s.users, *item)
	return nil
}

func (s *stubRepo) InsertPriceObservation(ctx context.Context, item *models.PriceObservation) error {
	item.ID = uint64(len(s.observations) + 1)
	s.observations = append(s.observations, *item)
	return nil
}

func (s *stubRepo) MostRecentObservationDate(ctx context.Context) (time.Time, error) {
	return repository.SentinelObservationDate(time.Now()), nil
}

func (s *stubRepo) MostRecentObservation(ctx context.Context, productID uint64, excludeOn *time.Time) (*models.PriceObservation, error) {
	return nil, nil
}

func (s *stubRepo) ListObservations(ctx context.Context, params repository.ListObservationsParams) ([]models.PriceObservation, error) {
	var out []models.PriceObservation
	for _, obs := range s.observations {
		if obs.ProductID == params.ProductID {
			out = append(out, obs)
		}
	}
	return out, nil
}

func (s *stubRepo) CountObservations(ctx context.Context, params repository.ListObservationsParams) (int64, error) {
	items, _ := s.ListObservations(ctx, params)
	return int64(len(items)), nil
}

func (s *stubRepo) DeleteObservationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (s *stubRepo) GetTrackingState(ctx context.Context) (bool, error) {
	return s.tracking, nil
}

func (s *stubRepo) SetTracking(ctx context.Context, enabled bool) error {
	s.tracking = enabled
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
