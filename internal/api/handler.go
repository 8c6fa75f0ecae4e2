package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vicesapp/vendor-service/internal/service"
	"github.com/vicesapp/vendor-service/pkg/models"
)

const defaultRadiusMeters = 5000

type Handler struct {
	svc *service.Service
	log *zap.SugaredLogger
}

func NewHandler(svc *service.Service, log *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, log: log}
}

func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		v1.GET("/vendors/search", h.Search)
		v1.GET("/vendors/nearby", h.Nearby)
		v1.POST("/vendors", h.Ingest)
		v1.GET("/vendors", h.List)
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Search: GET /v1/vendors/search?lat=51.0447&lng=-114.0719&radius=5000&category=both
func (h *Handler) Search(c *gin.Context) {
	h.search(c, c.DefaultQuery("radius", strconv.Itoa(defaultRadiusMeters)))
}

// Nearby: GET /v1/vendors/nearby?lat=51.0447&lng=-114.0719&category=both
// Same contract as Search with the radius fixed at 5000m.
func (h *Handler) Nearby(c *gin.Context) {
	h.search(c, strconv.Itoa(defaultRadiusMeters))
}

func (h *Handler) search(c *gin.Context, radiusParam string) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil || lat == 0 || lng == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude required"})
		return
	}
	if math.Abs(lat) > 90 || math.Abs(lng) > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinates"})
		return
	}

	radius, err := strconv.Atoi(radiusParam)
	if err != nil || radius <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius"})
		return
	}

	category, err := models.ParseCategory(c.DefaultQuery("category", string(models.CategoryBoth)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.svc.Search(c.Request.Context(), models.SearchQuery{
		Latitude:     lat,
		Longitude:    lng,
		RadiusMeters: radius,
		Category:     category,
	})
	if err != nil {
		h.log.Errorw("vendor search failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	if results == nil {
		results = []models.VendorResult{}
	}

	// The response is a bare array of result objects.
	c.JSON(http.StatusOK, results)
}

// Ingest: POST /v1/vendors
// Body: JSON array of vendor records.
func (h *Handler) Ingest(c *gin.Context) {
	var payload []*models.Vendor
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}

	if err := h.svc.Ingest(c.Request.Context(), payload); err != nil {
		if errors.Is(err, service.ErrInvalidVendor) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Errorw("vendor ingest failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ingest failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"imported": len(payload)})
}

// List: GET /v1/vendors?category=cannabis&limit=50
func (h *Handler) List(c *gin.Context) {
	category, err := models.ParseCategory(c.DefaultQuery("category", string(models.CategoryBoth)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	vendors, err := h.svc.List(c.Request.Context(), category, limit)
	if err != nil {
		h.log.Errorw("vendor list failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	if vendors == nil {
		vendors = []models.Vendor{}
	}
	c.JSON(http.StatusOK, vendors)
}
