package repository

import (
	"context"
	"time"

	"trackit/internal/models"
)

type ListProductsParams struct {
	Limit   int
	Offset  int
	URL     *string
	Name    *string
	OrderBy string
	Asc     *bool
}

type ListObservationsParams struct {
	Limit     int
	Offset    int
	ProductID uint64
	Since     *time.Time
	OrderBy   string
	Asc       *bool
}

type ListSystemSettingsParams struct {
	Limit   int
	Offset  int
	Prefix  *string
	OrderBy string
	Asc     *bool
}

// SentinelObservationDate is what MostRecentObservationDate reports for an
// empty history: far enough in the past that the first cycle is always due.
func SentinelObservationDate(now time.Time) time.Time {
	return models.DateOnly(now.AddDate(0, 0, -365))
}

type Repository interface {
	// catalog
	CreateProduct(ctx context.Context, item *models.Product) error
	GetProductByURL(ctx context.Context, url string) (*models.Product, error)
	GetProductByID(ctx context.Context, id uint64) (*models.Product, error)
	ListProducts(ctx context.Context, params ListProductsParams) ([]models.Product, error)
	CountProducts(ctx context.Context, params ListProductsParams) (int64, error)
	ListAllProducts(ctx context.Context) ([]models.Product, error)
	UpdateProductPrice(ctx context.Context, productID uint64, price int64) error
	AddSubscriber(ctx context.Context, productID, userID uint64) error
	RemoveSubscriber(ctx context.Context, productID, userID uint64) error
	ListSubscribers(ctx context.Context, productID uint64) ([]models.User, error)

	// users
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, item *models.User) error

	// price history (append-only)
	InsertPriceObservation(ctx context.Context, item *models.PriceObservation) error
	MostRecentObservationDate(ctx context.Context) (time.Time, error)
	MostRecentObservation(ctx context.Context, productID uint64, excludeOn *time.Time) (*models.PriceObservation, error)
	ListObservations(ctx context.Context, params ListObservationsParams) ([]models.PriceObservation, error)
	CountObservations(ctx context.Context, params ListObservationsParams) (int64, error)
	DeleteObservationsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// tracking state (singleton; absent row reads as false)
	GetTrackingState(ctx context.Context) (bool, error)
	SetTracking(ctx context.Context, enabled bool) error

	// settings
	GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error)
	UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error
	ListSystemSettings(ctx context.Context, params ListSystemSettingsParams) ([]models.SystemSetting, error)
	CountSystemSettings(ctx context.Context, params ListSystemSettingsParams) (int64, error)
}
