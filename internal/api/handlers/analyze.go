package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/leozw/domain-intel/internal/checker"
	"github.com/leozw/domain-intel/internal/core"
	"github.com/leozw/domain-intel/internal/storage/memory"
)

var errDomainRequired = errors.New("Domain is required")

type AnalyzeRequest struct {
	Domain string `json:"domain"`
}

type BulkAnalyzeRequest struct {
	Domains []any `json:"domains"`
}

func CacheKey(domain string) string {
	return "analysis:" + domain
}

func (h *Handler) AnalyzeDomain(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errDomainRequired.Error()})
		return
	}

	domain := checker.NormalizeDomain(req.Domain)
	if domain == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errDomainRequired.Error()})
		return
	}

	h.logger.Info("Analyzing domain", zap.String("domain", domain))

	analysis, cached, err := h.analyze(c.Request.Context(), domain)
	if err != nil {
		h.logger.Error("Analysis error", zap.String("domain", domain), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  err.Error(),
			"domain": req.Domain,
		})
		return
	}

	if cached {
		// Copy so the flag never leaks into the stored value.
		resp := *analysis
		resp.FromCache = true
		c.JSON(http.StatusOK, &resp)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

func (h *Handler) BulkAnalyze(c *gin.Context) {
	var req BulkAnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Domains == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Domains array is required"})
		return
	}

	if len(req.Domains) > h.bulk.MaxDomains {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Maximum %d domains per request", h.bulk.MaxDomains)})
		return
	}

	ctx := c.Request.Context()
	results := make([]*core.DomainAnalysis, 0, len(req.Domains))

	for i, item := range req.Domains {
		if i > 0 && !pause(ctx, h.bulk.PacingDelay) {
			h.logger.Warn("Bulk analysis interrupted",
				zap.Int("completed", len(results)),
				zap.Int("requested", len(req.Domains)),
				zap.Error(ctx.Err()),
			)
			break
		}

		results = append(results, h.bulkItem(ctx, item))
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   len(results),
	})
}

func (h *Handler) bulkItem(ctx context.Context, item any) *core.DomainAnalysis {
	raw, ok := item.(string)
	if !ok {
		return core.NewFailedAnalysis(fmt.Sprint(item), errors.New("Domain must be a string"))
	}

	domain := checker.NormalizeDomain(raw)
	if domain == "" {
		return core.NewFailedAnalysis(raw, errDomainRequired)
	}

	analysis, _, err := h.analyze(ctx, domain)
	if err != nil {
		h.logger.Warn("Bulk item failed", zap.String("domain", domain), zap.Error(err))
		return core.NewFailedAnalysis(domain, err)
	}
	return analysis
}

// analyze serves from the cache when possible and stores successful fresh analyses.
func (h *Handler) analyze(ctx context.Context, domain string) (*core.DomainAnalysis, bool, error) {
	key := CacheKey(domain)

	if cached, ok := h.cache.Get(key); ok {
		h.metrics.RecordCacheLookup(true)
		return cached, true, nil
	}
	h.metrics.RecordCacheLookup(false)

	analysis, err := h.analyzer.Analyze(ctx, domain)
	if err != nil {
		return nil, false, err
	}

	if analysis.Success {
		if err := h.cache.Set(key, analysis); err != nil {
			if errors.Is(err, memory.ErrCacheFull) {
				h.logger.Warn("Analysis cache full, result not stored", zap.String("domain", domain))
			} else {
				h.logger.Error("Failed to cache analysis", zap.String("domain", domain), zap.Error(err))
			}
		}
		h.metrics.SetCacheKeys(h.cache.Len())
	}

	return analysis, false, nil
}

// pause waits d and reports false if ctx ended first.
func pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
