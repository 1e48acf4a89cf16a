package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/jobops-service/internal/domain"
	"github.com/spec-kit/jobops-service/internal/repository"
	apperrors "github.com/spec-kit/jobops-service/pkg/util"
)

const analyticsCacheKey = "jobops:analytics:snapshot"

// EquipmentUsageEntry is one row of the top-equipment breakdown.
type EquipmentUsageEntry struct {
	EquipmentID string `json:"equipment_id"`
	Name        string `json:"name"`
	UsageCount  int64  `json:"usage_count"`
}

// AnalyticsReport is the admin-only aggregate view.
type AnalyticsReport struct {
	TotalJobs                  int64                      `json:"total_jobs"`
	CompletedJobs              int64                      `json:"completed_jobs"`
	OverdueJobs                int64                      `json:"overdue_jobs"`
	CompletionRate             float64                    `json:"completion_rate"`
	AvgTaskCompletionTimeHours *float64                   `json:"avg_task_completion_time_hours"`
	MostUsedEquipment          []EquipmentUsageEntry      `json:"most_used_equipment"`
	JobsByStatus               map[domain.JobStatus]int64 `json:"jobs_by_status"`
	JobsByPriority             map[int]int64              `json:"jobs_by_priority"`
}

// AnalyticsService computes the aggregate report, caching snapshots briefly.
type AnalyticsService struct {
	analytics repository.AnalyticsRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewAnalyticsService constructs the service. The cache client may be nil.
func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		analytics: analyticsRepo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// Report returns the aggregate snapshot, serving a cached copy when fresh.
func (s *AnalyticsService) Report(ctx context.Context) (*AnalyticsReport, error) {
	if cached := s.loadCached(ctx); cached != nil {
		return cached, nil
	}

	total, completed, overdue, err := s.analytics.JobTotals(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byStatus, err := s.analytics.CountJobsByStatus(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byPriority, err := s.analytics.CountJobsByPriority(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	avgHours, err := s.analytics.AvgTaskCompletionHours(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	topEquipment, err := s.analytics.TopEquipmentUsage(ctx, 10)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	report := &AnalyticsReport{
		TotalJobs:                  total,
		CompletedJobs:              completed,
		OverdueJobs:                overdue,
		AvgTaskCompletionTimeHours: avgHours,
		MostUsedEquipment:          make([]EquipmentUsageEntry, 0, len(topEquipment)),
		JobsByStatus:               byStatus,
		JobsByPriority:             byPriority,
	}
	if total > 0 {
		report.CompletionRate = float64(completed) / float64(total) * 100
	}
	for _, usage := range topEquipment {
		report.MostUsedEquipment = append(report.MostUsedEquipment, EquipmentUsageEntry{
			EquipmentID: usage.EquipmentID,
			Name:        usage.Name,
			UsageCount:  usage.UsageCount,
		})
	}

	s.storeCached(ctx, report)
	return report, nil
}

func (s *AnalyticsService) loadCached(ctx context.Context) *AnalyticsReport {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, analyticsCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var report AnalyticsReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil
	}
	return &report
}

func (s *AnalyticsService) storeCached(ctx context.Context, report *AnalyticsReport) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, analyticsCacheKey, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("analytics cache write failed", zap.Error(err))
	}
}
