package services

import (
	"context"
	"time"

	"archived_backend/internal/logger"
	"archived_backend/internal/metrics"
	"archived_backend/internal/ratelimit"
	"archived_backend/internal/repositories"
	"archived_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	TaskUnusedTags           = "unused_tags"
	TaskExpiredRefreshTokens = "expired_refresh_tokens"
	TaskRateLimitWindows     = "rate_limit_windows"
)

type MaintenanceService interface {
	// CleanupUnusedTags удаляет теги без предметов и возвращает их количество
	CleanupUnusedTags(db *gorm.DB) (int64, error)
	CleanExpiredRefreshTokens(db *gorm.DB) (int64, error)
	PruneRateLimiter() int

	// RunAll выполняет все задачи; ошибка одной задачи не останавливает остальные
	RunAll(ctx context.Context, db *gorm.DB)
}

type maintenanceService struct {
	tagRepo          repositories.TagRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	limiter          *ratelimit.FixedWindowLimiter
	now              func() time.Time
}

// NewMaintenanceService - limiter может быть nil (например, в CLI-командах)
func NewMaintenanceService(
	tagRepo repositories.TagRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	limiter *ratelimit.FixedWindowLimiter,
) MaintenanceService {
	return &maintenanceService{
		tagRepo:          tagRepo,
		refreshTokenRepo: refreshTokenRepo,
		limiter:          limiter,
		now:              time.Now,
	}
}

func (s *maintenanceService) CleanupUnusedTags(db *gorm.DB) (int64, error) {
	removed, err := s.tagRepo.DeleteUnused(db)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return removed, nil
}

func (s *maintenanceService) CleanExpiredRefreshTokens(db *gorm.DB) (int64, error) {
	removed, err := s.refreshTokenRepo.CleanExpired(db, s.now())
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return removed, nil
}

func (s *maintenanceService) PruneRateLimiter() int {
	if s.limiter == nil {
		return 0
	}
	removed := s.limiter.Prune()
	metrics.RateLimiterEntries.Set(float64(s.limiter.Len()))
	return removed
}

func (s *maintenanceService) RunAll(ctx context.Context, db *gorm.DB) {
	db = db.WithContext(ctx)

	tags, err := s.CleanupUnusedTags(db)
	metrics.RecordMaintenance(TaskUnusedTags, tags, err)
	logger.WorkerLog("maintenance", TaskUnusedTags, err, "removed", tags)

	tokens, err := s.CleanExpiredRefreshTokens(db)
	metrics.RecordMaintenance(TaskExpiredRefreshTokens, tokens, err)
	logger.WorkerLog("maintenance", TaskExpiredRefreshTokens, err, "removed", tokens)

	windows := s.PruneRateLimiter()
	metrics.RecordMaintenance(TaskRateLimitWindows, int64(windows), nil)
	logger.WorkerLog("maintenance", TaskRateLimitWindows, nil, "removed", windows)
}
