package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trackit/internal/models"
	"trackit/internal/repository"
)

type ProductHandler struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

func (h *ProductHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/products")
	group.GET("", h.list)
	group.POST("", h.create)
	group.GET("/:id", h.get)
	group.GET("/:id/history", h.history)
	group.GET("/:id/subscribers", h.listSubscribers)
	group.POST("/:id/subscribers", h.subscribe)
	group.DELETE("/:id/subscribers", h.unsubscribe)
}

// @Summary List tracked products
// @Tags products
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Param name query string false "name filter"
// @Param order_by query string false "order by field"
// @Success 200 {object} apiResponse
// @Router /api/v1/products [get]
func (h *ProductHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	params := repository.ListProductsParams{
		Limit:  limit,
		Offset: offset,
		Name:   strQueryPtr(c, "name"),
		OrderBy: parseOrder(c.Query("order_by"), map[string]string{
			"date_added":    "date_added",
			"name":          "name",
			"current_price": "current_price",
		}),
		Asc: boolPtr(false),
	}
	items, err := h.Repo.ListProducts(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountProducts(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

type createProductRequest struct {
	URL       string `json:"url" binding:"required"`
	Name      string `json:"name"`
	ImageURL  string `json:"image_url"`
	Price     int64  `json:"price"`
	UserEmail string `json:"user_email"`
}

// @Summary Track a product
// @Description Creates the product if the URL is new; otherwise subscribes the user to the existing product.
// @Tags products
// @Param body body createProductRequest true "product"
// @Success 200 {object} apiResponse
// @Router /api/v1/products [post]
func (h *ProductHandler) create(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	url := strings.TrimSpace(req.URL)
	if url == "" {
		Error(c, http.StatusBadRequest, "invalid url", nil)
		return
	}

	ctx := c.Request.Context()
	existing, err := h.Repo.GetProductByURL(ctx, url)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	product := existing
	if product == nil {
		product = &models.Product{
			URL:          url,
			Name:         strings.TrimSpace(req.Name),
			ImageURL:     strings.TrimSpace(req.ImageURL),
			CurrentPrice: req.Price,
			DateAdded:    models.DateOnly(time.Now()),
		}
		if err := h.Repo.CreateProduct(ctx, product); err != nil {
			Error(c, http.StatusBadGateway, err.Error(), nil)
			return
		}
	}

	if email := strings.TrimSpace(req.UserEmail); email != "" {
		user, err := h.getOrCreateUser(c, email)
		if err != nil {
			Error(c, http.StatusBadGateway, err.Error(), nil)
			return
		}
		if err := h.Repo.AddSubscriber(ctx, product.ID, user.ID); err != nil {
			Error(c, http.StatusBadGateway, err.Error(), nil)
			return
		}
	}
	Ok(c, product, map[string]any{"created": existing == nil})
}

// @Summary Get a product
// @Tags products
// @Param id path int true "product id"
// @Success 200 {object} apiResponse
// @Router /api/v1/products/{id} [get]
func (h *ProductHandler) get(c *gin.Context) {
	product, ok := h.productFromPath(c)
	if !ok {
		return
	}
	Ok(c, product, nil)
}

// @Summary Product price history
// @Tags products
// @Param id path int true "product id"
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {object} apiResponse
// @Router /api/v1/products/{id}/history [get]
func (h *ProductHandler) history(c *gin.Context) {
	product, ok := h.productFromPath(c)
	if !ok {
		return
	}
	limit := intQuery(c, "limit", 100)
	offset := intQuery(c, "offset", 0)
	params := repository.ListObservationsParams{
		Limit:     limit,
		Offset:    offset,
		ProductID: product.ID,
		OrderBy:   "observed_on",
		Asc:       boolPtr(false),
	}
	items, err := h.Repo.ListObservations(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountObservations(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

// @Summary List product subscribers
// @Tags products
// @Param id path int true "product id"
// @Success 200 {object} apiResponse
// @Router /api/v1/products/{id}/subscribers [get]
func (h *ProductHandler) listSubscribers(c *gin.Context) {
	product, ok := h.productFromPath(c)
	if !ok {
		return
	}
	users, err := h.Repo.ListSubscribers(c.Request.Context(), product.ID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, users, nil)
}

type subscribeRequest struct {
	Email string `json:"email" binding:"required"`
	Name  string `json:"name"`
}

// @Summary Subscribe a user to a product
// @Tags products
// @Param id path int true "product id"
// @Param body body subscribeRequest true "subscriber"
// @Success 200 {object} apiResponse
// @Router /api/v1/products/{id}/subscribers [post]
func (h *ProductHandler) subscribe(c *gin.Context) {
	product, ok := h.productFromPath(c)
	if !ok {
		return
	}
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	user, err := h.getOrCreateUser(c, req.Email)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if req.Name != "" && user.Name == "" {
		user.Name = strings.TrimSpace(req.Name)
	}
	if err := h.Repo.AddSubscriber(c.Request.Context(), product.ID, user.ID); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, user, nil)
}

// @Summary Unsubscribe a user from a product
// @Tags products
// @Param id path int true "product id"
// @Param email query string true "subscriber email"
// @Success 200 {object} apiResponse
// @Router /api/v1/products/{id}/subscribers [delete]
func (h *ProductHandler) unsubscribe(c *gin.Context) {
	product, ok := h.productFromPath(c)
	if !ok {
		return
	}
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		Error(c, http.StatusBadRequest, "invalid email", nil)
		return
	}
	user, err := h.Repo.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if user == nil {
		Error(c, http.StatusNotFound, "user not found", nil)
		return
	}
	if err := h.Repo.RemoveSubscriber(c.Request.Context(), product.ID, user.ID); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"unsubscribed": true}, nil)
}

func (h *ProductHandler) productFromPath(c *gin.Context) (*models.Product, bool) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return nil, false
	}
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		Error(c, http.StatusBadRequest, "invalid product id", nil)
		return nil, false
	}
	product, err := h.Repo.GetProductByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return nil, false
	}
	if product == nil {
		Error(c, http.StatusNotFound, "product not found", nil)
		return nil, false
	}
	return product, true
}

func (h *ProductHandler) getOrCreateUser(c *gin.Context, email string) (*models.User, error) {
	ctx := c.Request.Context()
	user, err := h.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}
	user = &models.User{
		Email:     strings.TrimSpace(strings.ToLower(email)),
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("user created", zap.String("email", user.Email))
	}
	return user, nil
}
