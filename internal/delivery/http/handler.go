package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lookscan/backend/internal/domain"
	"github.com/lookscan/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	scanService *usecase.ScanService
	resolver    *usecase.Resolver
}

// NewHandler creates a new HTTP handler
func NewHandler(scanService *usecase.ScanService, resolver *usecase.Resolver) *Handler {
	return &Handler{
		scanService: scanService,
		resolver:    resolver,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "lookscan-backend",
		"version": "1.0.0",
	})
}

// scanRequest is the payload for a full image scan
type scanRequest struct {
	ImageBase64 string `json:"imageBase64" binding:"required"`
	ContextHint string `json:"contextHint,omitempty"`
}

// Scan identifies the fashion items in an uploaded image and resolves
// purchasable listings for each of them.
func (h *Handler) Scan(c *gin.Context) {
	if h.scanService == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "scan service not configured"})
		return
	}

	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "imageBase64 is required"})
		return
	}

	result, err := h.scanService.Scan(c.Request.Context(), req.ImageBase64, req.ContextHint)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// resolveRequest is the payload for resolving a single described item
type resolveRequest struct {
	Item          domain.ItemDescription `json:"item" binding:"required"`
	ContextHint   string                 `json:"contextHint,omitempty"`
	CelebrityName string                 `json:"celebrityName,omitempty"`
}

// Resolve runs the resolution pipeline for one already-described item.
func (h *Handler) Resolve(c *gin.Context) {
	if h.resolver == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "resolver not configured"})
		return
	}

	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item is required"})
		return
	}

	celebrityName := req.CelebrityName
	if celebrityName == "" {
		celebrityName = domain.CelebrityUnknown
	}

	result, err := h.resolver.Resolve(c.Request.Context(), &req.Item, req.ContextHint, celebrityName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// estimateRequest is the payload for a landed-cost estimate
type estimateRequest struct {
	AmountUSD   float64 `json:"amountUSD" binding:"required"`
	CountryCode string  `json:"countryCode" binding:"required"`
}

// EstimateLandedCost converts a USD price to a destination-country
// landed cost including duty and shipping estimates.
func (h *Handler) EstimateLandedCost(c *gin.Context) {
	var req estimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amountUSD and countryCode are required"})
		return
	}

	breakdown, err := usecase.EstimateLandedCost(req.AmountUSD, req.CountryCode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, breakdown)
}

// respondError maps domain errors to HTTP status codes. Rate-limit and
// quota signals get distinct, user-visible responses; everything
// unexpected is a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrUnknownCountry):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Please try again later."})
	case errors.Is(err, domain.ErrQuotaExhausted):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "AI credits exhausted. Please add funds."})
	case errors.Is(err, domain.ErrMissingCredential):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service not configured"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
