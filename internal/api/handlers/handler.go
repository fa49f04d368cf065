package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/leozw/domain-intel/internal/config"
	"github.com/leozw/domain-intel/internal/core"
	"github.com/leozw/domain-intel/internal/metrics"
	"github.com/leozw/domain-intel/internal/storage/memory"
)

type DomainAnalyzer interface {
	Analyze(ctx context.Context, domain string) (*core.DomainAnalysis, error)
}

type Handler struct {
	analyzer  DomainAnalyzer
	cache     *memory.Cache[*core.DomainAnalysis]
	bulk      config.BulkConfig
	metrics   *metrics.Collector
	logger    *zap.Logger
	startedAt time.Time
}

func NewHandler(analyzer DomainAnalyzer, cache *memory.Cache[*core.DomainAnalysis], bulk config.BulkConfig, metrics *metrics.Collector, logger *zap.Logger) *Handler {
	return &Handler{
		analyzer:  analyzer,
		cache:     cache,
		bulk:      bulk,
		metrics:   metrics,
		logger:    logger,
		startedAt: time.Now(),
	}
}
