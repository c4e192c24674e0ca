package server

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/TobiSchelling/foodpipe/internal/apperrors"
	"github.com/TobiSchelling/foodpipe/internal/enrich"
	"github.com/TobiSchelling/foodpipe/internal/models"
	"github.com/TobiSchelling/foodpipe/internal/warehouse"
)

const (
	defaultLimit = 12
	maxLimit     = 24
)

func (s *Server) handleHealth(c *gin.Context) {
	n, err := s.wh.CountProducts(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "products": n})
}

func (s *Server) handleListProducts(c *gin.Context) {
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := min(maxLimit, max(1, queryInt(c, "limit", defaultLimit)))

	f := warehouse.ProductFilter{
		Name:     strings.TrimSpace(c.Query("name")),
		Category: strings.TrimSpace(c.Query("category")),
		Brand:    strings.TrimSpace(c.Query("brand")),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}
	if score, ok := enrich.ScoreForGrade(c.Query("nutriscore")); ok {
		f.NutriScore = &score
	}
	if region := models.Region(strings.TrimSpace(c.Query("region"))); region.Valid() {
		f.Region = string(region)
	}

	products, total, err := s.wh.ListProducts(c.Request.Context(), f)
	if err != nil {
		s.internalError(c, err)
		return
	}
	if products == nil {
		products = []warehouse.ProductView{}
	}

	c.JSON(http.StatusOK, gin.H{
		"page":     page,
		"limit":    limit,
		"total":    total,
		"products": products,
	})
}

func (s *Server) handleGetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	product, err := s.wh.GetProduct(c.Request.Context(), id)
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.wh.GetStats(c.Request.Context())
	if err != nil {
		s.internalError(c, err)
		return
	}

	avg, grade := averageGrade(stats)
	c.JSON(http.StatusOK, gin.H{
		"total_products":      stats.TotalProducts,
		"average_nutri_score": avg,
		"average_grade":       grade,
		"by_region":           stats.ByRegion,
		"by_category":         stats.ByCategory,
	})
}

func (s *Server) internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	s.logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// averageGrade rounds the average score to one decimal and maps it back
// to a grade letter. Both are nil for an empty warehouse.
func averageGrade(stats *warehouse.Stats) (*float64, *string) {
	if stats.AverageNutriScore == nil {
		return nil, nil
	}
	avg := math.Round(*stats.AverageNutriScore*10) / 10
	grade := enrich.GradeForScore(avg)
	return &avg, &grade
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return fallback
	}
	return v
}
