package gormrepository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trackit/internal/models"
	"trackit/internal/repository"
)

const trackingStateID = 1

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- catalog ----------------------------------------------------------------

func (s *Store) CreateProduct(ctx context.Context, item *models.Product) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	item.URL = strings.TrimSpace(item.URL)
	if item.URL == "" {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetProductByURL(ctx context.Context, url string) (*models.Product, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, nil
	}
	var item models.Product
	err := s.db.WithContext(ctx).Model(&models.Product{}).Where("url = ?", url).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetProductByID(ctx context.Context, id uint64) (*models.Product, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Product
	err := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListProducts(ctx context.Context, params repository.ListProductsParams) ([]models.Product, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.applyProductFilters(ctx, params)
	query = applyOrder(query, params.OrderBy, params.Asc, "date_added")
	limit := normalizeLimit(params.Limit, 50)
	offset := normalizeOffset(params.Offset)
	var items []models.Product
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountProducts(ctx context.Context, params repository.ListProductsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.applyProductFilters(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) applyProductFilters(ctx context.Context, params repository.ListProductsParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Product{})
	if params.URL != nil && strings.TrimSpace(*params.URL) != "" {
		query = query.Where("url = ?", strings.TrimSpace(*params.URL))
	}
	if params.Name != nil && strings.TrimSpace(*params.Name) != "" {
		query = query.Where("name ILIKE ?", "%"+strings.TrimSpace(*params.Name)+"%")
	}
	return query
}

func (s *Store) ListAllProducts(ctx context.Context) ([]models.Product, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Product
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpdateProductPrice(ctx context.Context, productID uint64, price int64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Update("current_price", price).Error
}

func (s *Store) AddSubscriber(ctx context.Context, productID, userID uint64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Product{ID: productID}).
		Association("Users").
		Append(&models.User{ID: userID})
}

func (s *Store) RemoveSubscriber(ctx context.Context, productID, userID uint64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Product{ID: productID}).
		Association("Users").
		Delete(&models.User{ID: userID})
}

func (s *Store) ListSubscribers(ctx context.Context, productID uint64) ([]models.User, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var users []models.User
	err := s.db.WithContext(ctx).
		Model(&models.Product{ID: productID}).
		Association("Users").
		Find(&users)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// --- users ------------------------------------------------------------------

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, nil
	}
	var item models.User
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) CreateUser(ctx context.Context, item *models.User) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	item.Email = strings.TrimSpace(strings.ToLower(item.Email))
	if item.Email == "" {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

// --- price history ----------------------------------------------------------

func (s *Store) InsertPriceObservation(ctx context.Context, item *models.PriceObservation) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	item.ObservedOn = models.DateOnly(item.ObservedOn)
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

func (s *Store) MostRecentObservationDate(ctx context.Context) (time.Time, error) {
	if s == nil || s.db == nil {
		return repository.SentinelObservationDate(time.Now()), nil
	}
	var item models.PriceObservation
	err := s.db.WithContext(ctx).
		Model(&models.PriceObservation{}).
		Order("observed_on desc").
		First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return repository.SentinelObservationDate(time.Now()), nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return models.DateOnly(item.ObservedOn), nil
}

func (s *Store) MostRecentObservation(ctx context.Context, productID uint64, excludeOn *time.Time) (*models.PriceObservation, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).
		Model(&models.PriceObservation{}).
		Where("product_id = ?", productID)
	if excludeOn != nil {
		query = query.Where("observed_on <> ?", models.DateOnly(*excludeOn))
	}
	var item models.PriceObservation
	err := query.Order("observed_on desc").Order("id desc").First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListObservations(ctx context.Context, params repository.ListObservationsParams) ([]models.PriceObservation, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.applyObservationFilters(ctx, params)
	query = applyOrder(query, params.OrderBy, params.Asc, "observed_on")
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.PriceObservation
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountObservations(ctx context.Context, params repository.ListObservationsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.applyObservationFilters(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) applyObservationFilters(ctx context.Context, params repository.ListObservationsParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.PriceObservation{})
	if params.ProductID > 0 {
		query = query.Where("product_id = ?", params.ProductID)
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("observed_on >= ?", models.DateOnly(*params.Since))
	}
	return query
}

func (s *Store) DeleteObservationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	if cutoff.IsZero() {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("observed_on < ?", models.DateOnly(cutoff)).
		Delete(&models.PriceObservation{})
	return res.RowsAffected, res.Error
}

// --- tracking state ---------------------------------------------------------

func (s *Store) GetTrackingState(ctx context.Context) (bool, error) {
	if s == nil || s.db == nil {
		return false, nil
	}
	var item models.TrackingState
	err := s.db.WithContext(ctx).
		Model(&models.TrackingState{}).
		Where("id = ?", trackingStateID).
		First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return item.IsTracking, nil
}

func (s *Store) SetTracking(ctx context.Context, enabled bool) error {
	if s == nil || s.db == nil {
		return nil
	}
	item := models.TrackingState{ID: trackingStateID, IsTracking: enabled}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_tracking"}),
	}).Create(&item).Error
}

// --- settings ---------------------------------------------------------------

func (s *Store) GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}
	var item models.SystemSetting
	err := s.db.WithContext(ctx).Model(&models.SystemSetting{}).Where("key = ?", key).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	item.Key = strings.TrimSpace(item.Key)
	if item.Key == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"value",
			"description",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) ListSystemSettings(ctx context.Context, params repository.ListSystemSettingsParams) ([]models.SystemSetting, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.SystemSetting{})
	if params.Prefix != nil && strings.TrimSpace(*params.Prefix) != "" {
		query = query.Where("key LIKE ?", strings.TrimSpace(*params.Prefix)+"%")
	}
	query = applyOrder(query, params.OrderBy, params.Asc, "key")
	limit := normalizeLimit(params.Limit, 500)
	offset := normalizeOffset(params.Offset)
	var items []models.SystemSetting
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountSystemSettings(ctx context.Context, params repository.ListSystemSettingsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	query := s.db.WithContext(ctx).Model(&models.SystemSetting{})
	if params.Prefix != nil && strings.TrimSpace(*params.Prefix) != "" {
		query = query.Where("key LIKE ?", strings.TrimSpace(*params.Prefix)+"%")
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// --- helpers ----------------------------------------------------------------

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if column == "" {
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

var _ repository.Repository = (*Store)(nil)
