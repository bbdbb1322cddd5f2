package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/feedmanager/backend/internal/domain"
	"github.com/feedmanager/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	resolver    *usecase.Resolver
	products    domain.ProductStore
	categories  domain.CategoryStore
	syncLogs    domain.SyncLogStore
	credentials domain.CredentialStore
}

// NewHandler creates a new HTTP handler
func NewHandler(
	resolver *usecase.Resolver,
	products domain.ProductStore,
	categories domain.CategoryStore,
	syncLogs domain.SyncLogStore,
	credentials domain.CredentialStore,
) *Handler {
	return &Handler{
		resolver:    resolver,
		products:    products,
		categories:  categories,
		syncLogs:    syncLogs,
		credentials: credentials,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "feedmanager-backend",
		"version": "1.0.0",
	})
}

// Search resolves products for a keyword and returns them in the
// flat search envelope external flows consume.
func (h *Handler) Search(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"responseStatus":  "PARAMETER_ERROR",
			"responseMessage": "keyword parameter is required",
		})
		return
	}
	browseNode := c.Query("browseNode")

	products, err := h.resolver.ResolveByKeyword(c.Request.Context(), keyword, browseNode)
	if err != nil {
		h.writeError(c, err)
		return
	}

	details := make([]searchProductDetail, 0, len(products))
	asins := make([]string, 0, len(products))
	for _, product := range products {
		details = append(details, newSearchProductDetail(product))
		asins = append(asins, product.ASIN)
	}

	c.JSON(http.StatusOK, gin.H{
		"responseStatus":       "PRODUCT_FOUND_RESPONSE",
		"keyword":              keyword,
		"numberOfProducts":     len(details),
		"foundProducts":        asins,
		"searchProductDetails": details,
	})
}

// GetProduct resolves a single ASIN. A well-formed ASIN always yields
// a record, possibly a synthesized stub.
func (h *Handler) GetProduct(c *gin.Context) {
	asin := c.Param("asin")

	product, err := h.resolver.ResolveByASIN(c.Request.Context(), asin)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// ListProducts returns persisted products, optionally by category
func (h *Handler) ListProducts(c *gin.Context) {
	categoryID, _ := strconv.ParseInt(c.Query("categoryId"), 10, 64)
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	products, err := h.products.List(c.Request.Context(), categoryID, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(products),
		"data":  products,
	})
}

// ListCategories returns configured categories
func (h *Handler) ListCategories(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	categories, err := h.categories.List(c.Request.Context(), activeOnly)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(categories),
		"data":  categories,
	})
}

// SaveCategory creates or updates a category
func (h *Handler) SaveCategory(c *gin.Context) {
	var category domain.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"responseStatus":  "PARAMETER_ERROR",
			"responseMessage": err.Error(),
		})
		return
	}

	if err := h.categories.Save(c.Request.Context(), &category); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory removes a category
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"responseStatus":  "PARAMETER_ERROR",
			"responseMessage": "invalid category id",
		})
		return
	}

	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SyncCategory runs a batch resolution for every keyword of a category
func (h *Handler) SyncCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"responseStatus":  "PARAMETER_ERROR",
			"responseMessage": "invalid category id",
		})
		return
	}

	products, err := h.resolver.ResolveByCategory(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categoryId": id,
		"count":      len(products),
		"data":       products,
	})
}

// SyncLogs returns recent batch resolution runs
func (h *Handler) SyncLogs(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	entries, err := h.syncLogs.Recent(c.Request.Context(), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(entries),
		"data":  entries,
	})
}

// UpdateCredentials replaces the active credential tuple
func (h *Handler) UpdateCredentials(c *gin.Context) {
	var credentials domain.Credentials
	if err := c.ShouldBindJSON(&credentials); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"responseStatus":  "PARAMETER_ERROR",
			"responseMessage": err.Error(),
		})
		return
	}

	if err := h.credentials.Update(c.Request.Context(), &credentials); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// writeError maps domain errors onto HTTP statuses
func (h *Handler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrCategoryNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNoKeywordsConfigured):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrConfigurationError):
		status = http.StatusConflict
	}

	c.JSON(status, gin.H{
		"responseStatus":  "ERROR",
		"responseMessage": err.Error(),
	})
}

// searchProductDetail is the per-product shape of the search envelope
type searchProductDetail struct {
	ASIN               string `json:"asin"`
	ProductDescription string `json:"productDescription"`
	Price              string `json:"price"`
	Currency           string `json:"currency"`
	ImgURL             string `json:"imgUrl"`
	ProductRating      string `json:"productRating,omitempty"`
	DpURL              string `json:"dpUrl"`
	AffiliateURL       string `json:"affiliateUrl"`
}

func newSearchProductDetail(product domain.Product) searchProductDetail {
	return searchProductDetail{
		ASIN:               product.ASIN,
		ProductDescription: product.Title,
		Price:              product.Price,
		Currency:           product.Currency,
		ImgURL:             product.ImageURL,
		ProductRating:      product.Rating,
		DpURL:              product.DetailURL,
		AffiliateURL:       product.AffiliateURL,
	}
}
